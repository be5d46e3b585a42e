package table

import (
	"context"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Bounds of the distinct-value scan.
const (
	DistinctPageSize = 1000
	DistinctMaxPages = 5
	DistinctEnough   = 50
)

// PageSource lists a collection and follows its next links.
type PageSource interface {
	List(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error)
	Next(ctx context.Context, page *models.Page[models.Record]) (*models.Page[models.Record], error)
}

// DistinctValues scans the collection for the values of column. One large
// page is read, then next links are followed while fewer than
// DistinctEnough values were seen, DistinctMaxPages pages at most.
// Values are deduplicated case sensitively and empties are dropped.
//
// A failure on a follow-up page keeps what was collected so far.
func DistinctValues(ctx context.Context, src PageSource, column string, extra url.Values) ([]string, error) {
	page, err := src.List(ctx, api.ListParams{PageSize: DistinctPageSize, Extra: extra})
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := []string{}
	collect := func(rows []models.Record) {
		for _, r := range rows {
			v := ExtractValue(r, column)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	collect(page.Results)

	if len(out) < DistinctEnough {
		for n := 1; page.HasNext() && n < DistinctMaxPages; n++ {
			next, err := src.Next(ctx, page)
			if err != nil || next == nil {
				break
			}
			collect(next.Results)
			page = next
		}
	}

	SortValues(out)
	return out, nil
}

// SortValues sorts in place with locale-aware collation.
func SortValues(values []string) {
	collate.New(language.Arabic).SortStrings(values)
}

// ColumnFilter is the state of one column's value filter popover. The
// selection is local until Apply.
type ColumnFilter struct {
	Column   string
	values   []string
	search   string
	selected map[string]bool
}

// NewColumnFilter starts from the values currently applied to column.
func NewColumnFilter(column string, values, applied []string) *ColumnFilter {
	f := &ColumnFilter{
		Column:   column,
		values:   values,
		selected: make(map[string]bool, len(applied)),
	}
	for _, v := range applied {
		f.selected[v] = true
	}
	return f
}

func (f *ColumnFilter) Values() []string { return f.values }

// SetSearch narrows the visible values (case-insensitive substring).
func (f *ColumnFilter) SetSearch(term string) { f.search = term }

// Visible returns the values matching the search.
func (f *ColumnFilter) Visible() []string {
	if f.search == "" {
		return f.values
	}
	needle := strings.ToLower(f.search)
	out := []string{}
	for _, v := range f.values {
		if strings.Contains(strings.ToLower(v), needle) {
			out = append(out, v)
		}
	}
	return out
}

func (f *ColumnFilter) Toggle(v string) {
	if f.selected[v] {
		delete(f.selected, v)
		return
	}
	f.selected[v] = true
}

func (f *ColumnFilter) IsSelected(v string) bool { return f.selected[v] }

// SelectAll replaces the selection with the visible values.
func (f *ColumnFilter) SelectAll() {
	f.selected = map[string]bool{}
	for _, v := range f.Visible() {
		f.selected[v] = true
	}
}

// Clear deselects the visible values.
func (f *ColumnFilter) Clear() {
	for _, v := range f.Visible() {
		delete(f.selected, v)
	}
}

// Selected returns the selection in value order. Applied values that are
// no longer among the distinct values follow at the end.
func (f *ColumnFilter) Selected() []string {
	out := []string{}
	known := map[string]bool{}
	for _, v := range f.values {
		known[v] = true
		if f.selected[v] {
			out = append(out, v)
		}
	}
	var rest []string
	for v := range f.selected {
		if !known[v] {
			rest = append(rest, v)
		}
	}
	SortValues(rest)
	return append(out, rest...)
}

// Apply commits the selection to m. An empty selection clears the
// column's filter.
func (f *ColumnFilter) Apply(ctx context.Context, m *Model) error {
	return m.SetFilter(ctx, f.Column, f.Selected())
}
