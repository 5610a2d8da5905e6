package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

const (
	docKeyPrefix = "search:txdoc:"
	sortKeyBase  = "search:txsort:"
)

var ErrIndexUnavailable = errors.New("search index unavailable")

// RedisIndex keeps denormalized transaction documents in Redis: one
// JSON value per document plus a sorted set per timestamp field for
// ordering. Writes overwrite by ID, so re-indexing is idempotent.
type RedisIndex struct {
	client *redis.Client
}

func NewRedisIndex(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

func (i *RedisIndex) IndexDocument(ctx context.Context, doc Doc) error {
	if i.client == nil {
		return ErrIndexUnavailable
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	pipe := i.client.Pipeline()
	pipe.Set(ctx, docKeyPrefix+doc.ID, raw, 0)
	for _, field := range timestampFields {
		physical := field + "_timestamp"
		pipe.ZAdd(ctx, sortKeyBase+physical, redis.Z{
			Score:  float64(doc.timestamp(physical)),
			Member: doc.ID,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Search walks the requested sort order and filters loaded documents.
// Filter terms use the `field:=value` form joined by `&&`.
func (i *RedisIndex) Search(ctx context.Context, p Params) (*Result, error) {
	if i.client == nil {
		return nil, ErrIndexUnavailable
	}

	p = RewriteParams(p)

	sortField, desc := parseSort(p.SortBy)

	var ids []string
	var err error
	if desc {
		ids, err = i.client.ZRevRange(ctx, sortKeyBase+sortField, 0, -1).Result()
	} else {
		ids, err = i.client.ZRange(ctx, sortKeyBase+sortField, 0, -1).Result()
	}
	if err != nil {
		return nil, err
	}

	filters := parseFilters(p.FilterBy)

	res := &Result{}
	for _, id := range ids {
		raw, err := i.client.Get(ctx, docKeyPrefix+id).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}

		var doc Doc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		if !matches(doc, p.Query, filters) {
			continue
		}
		res.Hits = append(res.Hits, doc)
	}
	res.Found = len(res.Hits)

	if p.PerPage > 0 {
		page := p.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * p.PerPage
		if start >= len(res.Hits) {
			res.Hits = nil
		} else {
			end := start + p.PerPage
			if end > len(res.Hits) {
				end = len(res.Hits)
			}
			res.Hits = res.Hits[start:end]
		}
	}

	return res, nil
}

func parseSort(sortBy string) (field string, desc bool) {
	field = "createdAt_timestamp"
	desc = true

	parts := strings.SplitN(sortBy, ":", 2)
	if parts[0] != "" {
		field = parts[0]
	}
	if len(parts) == 2 {
		desc = parts[1] != "asc"
	}
	return field, desc
}

func parseFilters(filterBy string) map[string]string {
	filters := make(map[string]string)
	if filterBy == "" {
		return filters
	}
	for _, term := range strings.Split(filterBy, "&&") {
		kv := strings.SplitN(strings.TrimSpace(term), ":=", 2)
		if len(kv) == 2 {
			filters[kv[0]] = kv[1]
		}
	}
	return filters
}

func matches(doc Doc, query string, filters map[string]string) bool {
	fields := map[string]string{
		"reference": doc.Reference,
		"firstName": doc.FirstName,
		"lastName":  doc.LastName,
		"email":     doc.Email,
		"narration": doc.Narration,
		"currency":  doc.Currency,
		"channel":   doc.Channel,
		"type":      doc.Type,
		"scope":     doc.Scope,
		"status":    doc.Status,
	}

	for k, want := range filters {
		if got, ok := fields[k]; !ok || got != want {
			return false
		}
	}

	if query == "" || query == "*" {
		return true
	}
	q := strings.ToLower(query)
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
