package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tourtube/internal/repository"
)

var sortFields = map[string]string{
	repository.SortByCreatedAt: "created_at",
	repository.SortByViews:     "views",
	repository.SortByDuration:  "duration",
	repository.SortByTitle:     "title.keyword",
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// buildSearchQuery 与数据库查询保持相同的过滤和排序语义
func buildSearchQuery(q repository.VideoQuery) map[string]interface{} {
	filter := []interface{}{}
	if q.PublishedOnly {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_published": true}})
	}
	if q.OwnerID != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"owner_id": *q.OwnerID}})
	}

	must := []interface{}{}
	if s := strings.TrimSpace(q.Search); s != "" {
		must = append(must, map[string]interface{}{
			"wildcard": map[string]interface{}{
				"title.keyword": map[string]interface{}{
					"value":            "*" + wildcardEscaper.Replace(s) + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	field, ok := sortFields[q.SortBy]
	if !ok {
		field = sortFields[repository.SortByCreatedAt]
	}
	order := "asc"
	if q.SortDesc {
		order = "desc"
	}

	return map[string]interface{}{
		"from":             q.Page.Offset(),
		"size":             q.Page.Limit,
		"track_total_hits": true,
		"_source":          []string{"id"},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filter,
				"must":   must,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{field: map[string]interface{}{"order": order}},
			map[string]interface{}{"id": map[string]interface{}{"order": order}},
		},
	}
}

// SearchVideos 返回当前页的视频 ID（按排序）与总数
func (x *VideoIndex) SearchVideos(ctx context.Context, q repository.VideoQuery) ([]int64, int64, error) {
	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, 0, err
	}

	resp, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}
