// Package listview implements the list-view data pipeline shared by every
// page: free-text filter, stable sort, pagination. All transforms are pure
// and recomputed in full per request; no I/O happens here.
package listview

import (
	"sort"
	"strings"
	"time"
)

// Direction of a sort
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a sort specification: a schema field name plus a direction
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// NextSort returns the sort that results from clicking a column header:
// clicking the active field flips direction, clicking a new field resets to
// ascending.
func NextSort(current Sort, clicked string) Sort {
	if current.Field == clicked && current.Direction == Asc {
		return Sort{Field: clicked, Direction: Desc}
	}
	return Sort{Field: clicked, Direction: Asc}
}

// Kind of a sortable field
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindNumber
)

// Key describes how one sortable field is extracted from a record. Exactly
// one extractor is consulted, chosen by Kind.
type Key[T any] struct {
	Kind   Kind
	String func(T) string
	Number func(T) float64
	Date   func(T) string
}

// Schema binds an entity to the pipeline: which fields are searchable, which
// are sortable and how, and what the page's default order is.
type Schema[T any] struct {
	Search      []func(T) string
	Keys        map[string]Key[T]
	DefaultSort Sort
}

// Query is one page view's worth of pipeline input
type Query struct {
	Search   string
	Sort     Sort
	Page     int
	PageSize int
}

// Pagination metadata for a derived page
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Pages      []int `json:"pages"`
}

// Result is the derived slice plus the effective sort and pagination
type Result[T any] struct {
	Data       []T        `json:"data"`
	Sort       Sort       `json:"sort"`
	Pagination Pagination `json:"pagination"`
}

const (
	// Ellipsis marks a collapsed range in a Pages sequence
	Ellipsis = -1

	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Filter keeps records where term is a case-insensitive substring of at
// least one searchable field. An empty or whitespace term is the identity.
func Filter[T any](records []T, term string, search []func(T) string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return records
	}
	term = strings.ToLower(term)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, field := range search {
			if strings.Contains(strings.ToLower(field(rec)), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Order sorts a copy of records by the given spec. The sort is stable, so
// ties keep their input order. Unknown fields leave the input order intact.
func Order[T any](records []T, s Sort, keys map[string]Key[T]) []T {
	out := make([]T, len(records))
	copy(out, records)

	key, ok := keys[s.Field]
	if !ok {
		return out
	}

	less := lessFunc(out, key)
	sort.SliceStable(out, func(i, j int) bool {
		if s.Direction == Desc {
			return less(j, i)
		}
		return less(i, j)
	})
	return out
}

func lessFunc[T any](records []T, key Key[T]) func(i, j int) bool {
	switch key.Kind {
	case KindNumber:
		return func(i, j int) bool {
			return key.Number(records[i]) < key.Number(records[j])
		}
	case KindDate:
		return func(i, j int) bool {
			return parseDate(key.Date(records[i])).Before(parseDate(key.Date(records[j])))
		}
	default:
		return func(i, j int) bool {
			return strings.ToLower(key.String(records[i])) < strings.ToLower(key.String(records[j]))
		}
	}
}

// parseDate parses a stored date string; anything unparseable, including the
// empty string, is epoch 0 and sorts first ascending.
func parseDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// Paginate returns the 1-based page of the given size: index range
// [(N-1)*P, N*P). Pages beyond the end clamp to the last page.
func Paginate[T any](records []T, page, size int) []T {
	page, size = clampPage(len(records), page, size)

	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func clampPage(total, page, size int) (int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + size - 1) / size
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return page, size
}

// Pages produces the page-number control sequence: first, last, current and
// its immediate neighbors, with Ellipsis marking each collapsed range.
func Pages(totalPages, current int) []int {
	if totalPages <= 0 {
		return nil
	}

	out := make([]int, 0, totalPages)
	prev := 0
	for page := 1; page <= totalPages; page++ {
		if page != 1 && page != totalPages && abs(page-current) > 1 {
			continue
		}
		if prev != 0 && page-prev > 1 {
			out = append(out, Ellipsis)
		}
		out = append(out, page)
		prev = page
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Apply runs the full pipeline: filter, stable sort, paginate. An empty or
// unknown sort field falls back to the schema's default order.
func Apply[T any](records []T, q Query, schema Schema[T]) Result[T] {
	sortSpec := q.Sort
	if _, known := schema.Keys[sortSpec.Field]; !known || sortSpec.Field == "" {
		sortSpec = schema.DefaultSort
	}
	if sortSpec.Direction != Desc {
		sortSpec.Direction = Asc
	}

	filtered := Filter(records, q.Search, schema.Search)
	ordered := Order(filtered, sortSpec, schema.Keys)

	page, size := clampPage(len(ordered), q.Page, q.PageSize)
	totalPages := (len(ordered) + size - 1) / size

	return Result[T]{
		Data: Paginate(ordered, page, size),
		Sort: sortSpec,
		Pagination: Pagination{
			Page:       page,
			Limit:      size,
			Total:      len(ordered),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
			Pages:      Pages(totalPages, page),
		},
	}
}
