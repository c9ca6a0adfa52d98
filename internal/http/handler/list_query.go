package handler

import (
	"net/http"

	"github.com/straye-as/client-admin/internal/listview"
)

// ListPage is the JSON shape of a list screen
type ListPage[T any] struct {
	Items     []T    `json:"items"`
	Total     int    `json:"total"`
	Count     int64  `json:"count"`
	PageIndex int    `json:"pageIndex"`
	PageSize  int    `json:"pageSize"`
	PageCount int    `json:"pageCount"`
	Filter    string `json:"filter"`
	SortKey   string `json:"sort,omitempty"`
	SortDir   string `json:"dir,omitempty"`
	// Loading is set while another request is still fetching the list
	Loading   bool   `json:"loading"`
}

type queryState interface {
	Query() listview.Query
	SetFilter(filter string)
	SetSort(key string, dir listview.SortDir)
	SetPage(index, size int)
}

// applyListQuery copies q, sort, dir, page and size from the request onto
// the list. A changed filter goes back to the first page unless page is given.
func applyListQuery(r *http.Request, list queryState) error {
	values := r.URL.Query()
	current := list.Query()

	if values.Has("q") && values.Get("q") != current.Filter {
		list.SetFilter(values.Get("q"))
		current = list.Query()
	}
	if values.Has("sort") || values.Has("dir") {
		key := current.SortKey
		if values.Has("sort") {
			key = values.Get("sort")
		}
		dir := current.SortDir
		if values.Has("dir") {
			dir = listview.ParseSortDir(values.Get("dir"))
		} else if dir == listview.SortNone {
			dir = listview.SortAsc
		}
		list.SetSort(key, dir)
	}

	page, err := intQuery(r, "page", current.PageIndex)
	if err != nil {
		return err
	}
	size, err := intQuery(r, "size", current.PageSize)
	if err != nil {
		return err
	}
	list.SetPage(page, size)
	return nil
}

func toListPage[T any](p listview.Page[T], q listview.Query, count int64, loading bool) ListPage[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return ListPage[T]{
		Items:     items,
		Total:     p.Total,
		Count:     count,
		PageIndex: p.PageIndex,
		PageSize:  p.PageSize,
		PageCount: p.PageCount(),
		Filter:    q.Filter,
		SortKey:   q.SortKey,
		SortDir:   string(q.SortDir),
		Loading:   loading,
	}
}
