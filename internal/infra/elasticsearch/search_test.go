package elasticsearch

import (
	"encoding/json"
	"strings"
	"testing"

	"tourtube/internal/pagination"
	"tourtube/internal/repository"
)

func TestBuildSearchQuery(t *testing.T) {
	owner := int64(7)
	q := buildSearchQuery(repository.VideoQuery{
		Search:        "Go*Tour",
		OwnerID:       &owner,
		PublishedOnly: true,
		SortBy:        repository.SortByViews,
		SortDesc:      true,
		Page:          pagination.New(3, 20),
	})

	raw, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal query: %v", err)
	}
	body := string(raw)

	for _, want := range []string{
		`"from":40`,
		`"size":20`,
		`"case_insensitive":true`,
		`"value":"*Go\\*Tour*"`,
		`{"is_published":true}`,
		`{"owner_id":7}`,
		`{"views":{"order":"desc"}}`,
		`{"id":{"order":"desc"}}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("query %s missing %s", body, want)
		}
	}
}

func TestBuildSearchQueryDefaultsToCreatedAt(t *testing.T) {
	q := buildSearchQuery(repository.VideoQuery{SortBy: "bogus", Page: pagination.New(1, 10)})
	raw, _ := json.Marshal(q)
	if !strings.Contains(string(raw), `{"created_at":{"order":"asc"}}`) {
		t.Errorf("unexpected sort in %s", raw)
	}
	if strings.Contains(string(raw), "wildcard") {
		t.Errorf("empty search should not add wildcard: %s", raw)
	}
}
