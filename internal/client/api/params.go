package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/common"
)

// ListParams are the query parameters of a collection.
type ListParams struct {
	Page     int
	PageSize int
	Search   string

	// Ordering is a field name, "-field" for descending.
	Ordering string

	// Filters maps a lookup path ("priority", "contact__name") to the
	// accepted values. Each becomes "<path>__in=v1,v2"; commas inside a
	// value are escaped (see common.JoinList).
	Filters map[string][]string

	// Extra is copied as is (e.g. "correspondence_type", "category").
	Extra url.Values
}

// Values encodes p. Zero fields are omitted.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Ordering != "" {
		v.Set("ordering", p.Ordering)
	}

	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vals := p.Filters[k]
		if len(vals) == 0 {
			continue
		}
		v.Set(k+"__in", common.JoinList(vals))
	}

	for k, vs := range p.Extra {
		for _, s := range vs {
			v.Add(k, s)
		}
	}
	return v
}

// Ordering renders a sort spec as the API expects it.
func Ordering(field string, desc bool) string {
	if field == "" {
		return ""
	}
	if desc {
		return "-" + field
	}
	return field
}

// List fetches one page of path.
func List[T any](ctx context.Context, c *Client, path string, p ListParams) (*models.Page[T], error) {
	return listURL[T](ctx, c, path, p.Values())
}

// Next follows page.Next. It returns nil, nil on the last page.
func Next[T any](ctx context.Context, c *Client, page *models.Page[T]) (*models.Page[T], error) {
	if !page.HasNext() {
		return nil, nil
	}
	return listURL[T](ctx, c, *page.Next, nil)
}

// All walks every page of path. Lookup lists (types, contacts) are short,
// so this is fine for them; tables page explicitly.
func All[T any](ctx context.Context, c *Client, path string, p ListParams) ([]T, error) {
	page, err := List[T](ctx, c, path, p)
	if err != nil {
		return nil, err
	}
	out := page.Results
	for page.HasNext() {
		page, err = Next(ctx, c, page)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Results...)
	}
	return out, nil
}

func listURL[T any](ctx context.Context, c *Client, path string, q url.Values) (*models.Page[T], error) {
	resp, err := c.Do(ctx, Request{Method: "GET", Path: path, Query: q})
	if err != nil {
		return nil, err
	}
	return decodePage[T](resp.Body)
}

// decodePage accepts the paginated envelope and a bare array.
func decodePage[T any](body []byte) (*models.Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return &models.Page[T]{Count: len(items), Results: items}, nil
	}

	var page models.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}

// RecordSource lists one collection as loosely typed records.
type RecordSource struct {
	c    *Client
	path string
}

// Source returns a RecordSource for path.
func (c *Client) Source(path string) *RecordSource {
	return &RecordSource{c: c, path: path}
}

func (s *RecordSource) List(ctx context.Context, p ListParams) (*models.Page[models.Record], error) {
	return List[models.Record](ctx, s.c, s.path, p)
}

func (s *RecordSource) Next(ctx context.Context, page *models.Page[models.Record]) (*models.Page[models.Record], error) {
	return Next(ctx, s.c, page)
}
