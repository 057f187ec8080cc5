package viewset

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Header 列表表头
type Header struct {
	Label   string
	SortURL string
	Active  bool
}

// Row 列表行
type Row struct {
	PK        string
	Object    Object
	Cells     []Cell
	EditURL   string
	DeleteURL string
}

// Listing 一次列表请求的结果
type Listing struct {
	Filters   FilterSet
	Headers   []Header
	Rows      []Row
	Count     int64
	Filtering bool
	Message   string
	Ordering  string

	Page     int
	NumPages int
	PrevURL  string
	NextURL  string
}

// List 按查询参数执行过滤、排序和分页
func (v *ViewSet) List(ctx context.Context, query url.Values) (*Listing, error) {
	filters := ParseFilters(v.Filters, query)
	conds := filters.Conditions()
	listing := &Listing{
		Filters:   filters,
		Filtering: filters.IsFiltering(),
		Page:      1,
	}

	count, err := v.Store.Count(ctx, conds)
	if err != nil {
		return nil, fmt.Errorf("统计 %s 失败: %w", v.Namespace(), err)
	}
	listing.Count = count
	listing.Message = ResultMessage(v.Model.Plural(), listing.Filtering, count)

	q := Query{Conditions: conds}
	if col, desc, ok := v.Ordering(query.Get("ordering")); ok {
		q.OrderBy, q.Desc = col.OrderColumn(), desc
		listing.Ordering = query.Get("ordering")
	}

	perPage := v.Settings().PerPage()
	listing.NumPages = int((count + int64(perPage) - 1) / int64(perPage))
	if listing.NumPages < 1 {
		listing.NumPages = 1
	}
	if p, err := strconv.Atoi(query.Get("p")); err == nil && p > 1 {
		listing.Page = min(p, listing.NumPages)
	}
	q.Limit = perPage
	q.Offset = (listing.Page - 1) * perPage

	objects, err := v.Store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("查询 %s 失败: %w", v.Namespace(), err)
	}

	indexURL := v.URL(Index, "")
	for _, c := range v.Columns {
		listing.Headers = append(listing.Headers, Header{
			Label:   c.Header(),
			SortURL: c.SortURL(indexURL),
			Active:  c.Sortable() && listing.Ordering != "" && (listing.Ordering == c.SortKey || listing.Ordering == "-"+c.SortKey),
		})
	}
	for _, obj := range objects {
		pk := obj.PK()
		row := Row{
			PK:        pk,
			Object:    obj,
			EditURL:   v.URL(Edit, pk),
			DeleteURL: v.URL(Delete, pk),
		}
		for _, c := range v.Columns {
			row.Cells = append(row.Cells, c.Cell(obj, row.EditURL))
		}
		listing.Rows = append(listing.Rows, row)
	}

	pageQuery := filters.Query()
	if listing.Ordering != "" {
		pageQuery.Set("ordering", listing.Ordering)
	}
	if listing.Page > 1 {
		pageQuery.Set("p", strconv.Itoa(listing.Page-1))
		listing.PrevURL = indexURL + "?" + pageQuery.Encode()
	}
	if listing.Page < listing.NumPages {
		pageQuery.Set("p", strconv.Itoa(listing.Page+1))
		listing.NextURL = indexURL + "?" + pageQuery.Encode()
	}
	return listing, nil
}
