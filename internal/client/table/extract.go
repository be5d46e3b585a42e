package table

import (
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
)

// ExtractValue reads the filterable value of column from r.
//
// Related objects are reduced to their display field, preferring the
// flattened "*_name" copy the API sends next to them. Other columns are
// dotted paths into nested objects. Objects, arrays and null give "".
func ExtractValue(r models.Record, column string) string {
	switch column {
	case "type":
		return first(r, "type_name", "type.type_name")
	case "contact":
		return first(r, "contact_name", "contact.name")
	case "current_status":
		return first(r, "current_status_name", "current_status.procedure_name")
	case "assigned_to":
		return first(r, "assigned_to.full_name_arabic", "assigned_to.username")
	case "parent_correspondence":
		return first(r, "parent_correspondence.reference_number", "parent_correspondence_reference")
	}
	return scalar(lookup(r, column))
}

func first(r models.Record, paths ...string) string {
	for _, p := range paths {
		if v := scalar(lookup(r, p)); v != "" {
			return v
		}
	}
	return ""
}

func lookup(r models.Record, path string) any {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil
		}
	}
	return cur
}

func scalar(v any) string {
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	}
	return models.Record{"v": v}.String("v")
}
