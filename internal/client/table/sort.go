package table

import "github.com/dmitrijs2005/secdesk/internal/client/api"

// Direction of a sort.
type Direction int

const (
	Unsorted Direction = iota
	Asc
	Desc
)

// Sort is the single-column sort of a table.
type Sort struct {
	Field string
	Dir   Direction
}

// Toggle returns the sort after the header of field is activated.
// A new column starts ascending, ascending flips to descending and
// descending flips back to ascending.
func (s Sort) Toggle(field string) Sort {
	if s.Field != field || s.Dir != Asc {
		return Sort{Field: field, Dir: Asc}
	}
	return Sort{Field: field, Dir: Desc}
}

// Ordering renders s as the API ordering parameter.
func (s Sort) Ordering() string {
	if s.Dir == Unsorted {
		return ""
	}
	return api.Ordering(s.Field, s.Dir == Desc)
}

// Indicator is the header arrow for field.
func (s Sort) Indicator(field string) string {
	if s.Field != field {
		return ""
	}
	switch s.Dir {
	case Asc:
		return "▲"
	case Desc:
		return "▼"
	}
	return ""
}
