package pagination

import (
	"math"
	"testing"
)

func TestNewClamps(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: 10}},
		{"negative", -3, -1, Params{Page: 1, Limit: 10}},
		{"capped", 2, 500, Params{Page: 2, Limit: MaxLimit}},
		{"kept", 4, 25, Params{Page: 4, Limit: 25}},
		{"huge page", math.MaxInt, 10, Params{Page: math.MaxInt / 10, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.page, tt.limit); got != tt.want {
				t.Fatalf("New(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestMeta(t *testing.T) {
	m := New(2, 10).Meta(25)
	if m.TotalPages != 3 || !m.HasNextPage || !m.HasPrevPage || m.TotalDocs != 25 {
		t.Fatalf("unexpected meta: %+v", m)
	}
	last := New(3, 10).Meta(25)
	if last.HasNextPage {
		t.Fatalf("last page should not have next: %+v", last)
	}
	empty := New(1, 10).Meta(0)
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Fatalf("unexpected empty meta: %+v", empty)
	}
}

func TestSliceConcatenatesToFullList(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	var all []int
	for page := 1; page <= 4; page++ {
		all = append(all, Slice(items, New(page, 3))...)
	}
	if len(all) != len(items) {
		t.Fatalf("pages do not cover the list: %v", all)
	}
	for i := range items {
		if all[i] != items[i] {
			t.Fatalf("unexpected order: %v", all)
		}
	}
	if got := Slice(items, New(9, 3)); len(got) != 0 {
		t.Fatalf("page past the end should be empty: %v", got)
	}
}

func TestHugePageIsPastTheEnd(t *testing.T) {
	p := New(922337203685477582, 10)
	if p.Offset() < 0 {
		t.Fatalf("offset overflowed: %d", p.Offset())
	}
	if got := Slice([]int{1, 2, 3}, p); len(got) != 0 {
		t.Fatalf("page past the end should be empty: %v", got)
	}
	if m := p.Meta(3); m.HasNextPage || !m.HasPrevPage {
		t.Fatalf("unexpected meta: %+v", m)
	}

	// 手工构造的参数也不能让 Slice 越界
	if got := Slice([]int{1, 2, 3}, Params{Page: -4, Limit: 10}); len(got) != 0 {
		t.Fatalf("negative offset should be empty: %v", got)
	}
}
