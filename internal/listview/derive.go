// Package listview derives the visible page of a record list and keeps the
// list in step with what the backend and the dialogs report.
package listview

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDir is the direction of the active sort
type SortDir string

const (
	SortNone SortDir = ""
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSortDir accepts "asc", "desc" or "" in any case
func ParseSortDir(s string) SortDir {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	default:
		return SortNone
	}
}

// Query is the filter, sort and page state of a list
type Query struct {
	Filter    string
	SortKey   string
	SortDir   SortDir
	PageIndex int
	// PageSize of 0 shows every row on one page
	PageSize int
}

// Schema tells Derive how to read a record
type Schema[T any] struct {
	// Text returns the values the filter is matched against
	Text func(T) []string
	// SortValue returns the value of a sort key, false for unknown keys
	SortValue func(rec T, key string) (string, bool)
}

// Page is the visible slice of a list plus the size of the filtered set
type Page[T any] struct {
	Items     []T
	Total     int
	PageIndex int
	PageSize  int
}

// Derive filters, sorts and paginates records, in that order. The filter is a
// case-insensitive substring match. Sorting is locale-aware, ignores case and
// keeps the original order of equal rows. records is never modified.
func Derive[T any](records []T, q Query, s Schema[T]) Page[T] {
	filtered := make([]T, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(q.Filter))
	for _, rec := range records {
		if needle == "" || matches(s.Text(rec), needle) {
			filtered = append(filtered, rec)
		}
	}

	if q.SortKey != "" && q.SortDir != SortNone && s.SortValue != nil {
		sortRecords(filtered, q, s)
	}

	page := Page[T]{Total: len(filtered), PageIndex: q.PageIndex, PageSize: q.PageSize}
	if q.PageSize <= 0 {
		page.Items = filtered
		return page
	}
	start := q.PageIndex * q.PageSize
	if start < 0 || start >= len(filtered) {
		page.Items = []T{}
		return page
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Items = filtered[start:end]
	return page
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortRecords[T any](recs []T, q Query, s Schema[T]) {
	// a Collator is not safe for concurrent use, so each sort gets its own
	col := collate.New(language.Und, collate.IgnoreCase)
	keys := make([]string, len(recs))
	for i, rec := range recs {
		keys[i], _ = s.SortValue(rec, q.SortKey)
	}
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := col.CompareString(keys[idx[a]], keys[idx[b]])
		if q.SortDir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	sorted := make([]T, len(recs))
	for i, j := range idx {
		sorted[i] = recs[j]
	}
	copy(recs, sorted)
}

// PageCount returns how many pages a page of this size spans
func (p Page[T]) PageCount() int {
	if p.PageSize <= 0 {
		if p.Total == 0 {
			return 0
		}
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
