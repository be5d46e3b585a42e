// Package query turns collection query strings (page, page_size, search,
// ordering and field lookups) into parameterised postgres SQL.
//
// Only lookups named in a Spec reach SQL; anything else is ignored.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/jmoiron/sqlx"
)

// ErrInvalidPage is returned for a page that is not a positive integer.
var ErrInvalidPage = errors.New("invalid page")

// Spec whitelists the lookups of one collection.
type Spec struct {
	// Fields maps a lookup path ("priority", "type__type_name") to the SQL
	// expression it compares. Non-text columns should be cast to text.
	Fields map[string]string
	// Search lists the expressions matched by the search term.
	Search []string
	// Default is the ORDER BY used when no valid ordering is requested.
	Default string
	// Tiebreak is appended to every ORDER BY so pages are stable.
	Tiebreak string
}

// Lookup is one field condition.
type Lookup struct {
	Field  string
	Op     string
	Values []string
}

// Supported lookup operators.
const (
	OpExact     = "exact"
	OpIn        = "in"
	OpGte       = "gte"
	OpLte       = "lte"
	OpIContains = "icontains"

	OpGt          = "gt"
	OpLt          = "lt"
	OpNe          = "ne"
	OpIStartsWith = "istartswith"
	OpIEndsWith   = "iendswith"
	OpIsNull      = "isnull"
)

// List is a parsed collection request.
type List struct {
	Page     int
	PageSize int
	Search   string
	Ordering []string
	Lookups  []Lookup
}

// Parse reads v against spec. Missing page/page_size fall back to 1 and
// common.DefaultPageSize; page_size is capped at common.MaxPageSize.
func Parse(v url.Values, spec Spec) (List, error) {
	l := List{Page: 1, PageSize: common.DefaultPageSize}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return l, ErrInvalidPage
		}
		l.Page = n
	}
	if s := v.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			l.PageSize = min(n, common.MaxPageSize)
		}
	}
	l.Search = strings.TrimSpace(v.Get("search"))

	for _, f := range strings.Split(v.Get("ordering"), ",") {
		f = strings.TrimSpace(f)
		if _, ok := spec.Fields[strings.TrimPrefix(f, "-")]; ok && f != "" {
			l.Ordering = append(l.Ordering, f)
		}
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field, op := splitLookup(k)
		if _, ok := spec.Fields[field]; !ok {
			continue
		}
		val := v.Get(k)
		if op == OpIn {
			l.Lookups = append(l.Lookups, Lookup{Field: field, Op: op, Values: splitValues(val)})
			continue
		}
		l.Lookups = append(l.Lookups, Lookup{Field: field, Op: op, Values: []string{val}})
	}
	return l, nil
}

// With returns a copy of l with an extra exact lookup.
func (l List) With(field, value string) List {
	out := l
	out.Lookups = append(append([]Lookup(nil), l.Lookups...), Lookup{Field: field, Op: OpExact, Values: []string{value}})
	return out
}

// Offset is the row offset of the requested page.
func (l List) Offset() int {
	return (l.Page - 1) * l.PageSize
}

func splitLookup(key string) (string, string) {
	for _, op := range []string{
		OpIn, OpGte, OpLte, OpGt, OpLt, OpNe,
		OpIContains, OpIStartsWith, OpIEndsWith, OpIsNull, OpExact,
	} {
		if f, ok := strings.CutSuffix(key, "__"+op); ok {
			return f, op
		}
	}
	return key, OpExact
}

func splitValues(s string) []string {
	var out []string
	for _, p := range common.SplitList(s) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (l List) where(spec Spec) (string, []any) {
	var conds []string
	var args []any

	for _, lk := range l.Lookups {
		expr := spec.Fields[lk.Field]
		switch lk.Op {
		case OpIn:
			if len(lk.Values) == 0 {
				continue
			}
			conds = append(conds, expr+" IN (?)")
			args = append(args, lk.Values)
		case OpGte:
			conds = append(conds, expr+" >= ?")
			args = append(args, lk.Values[0])
		case OpLte:
			conds = append(conds, expr+" <= ?")
			args = append(args, lk.Values[0])
		case OpGt:
			conds = append(conds, expr+" > ?")
			args = append(args, lk.Values[0])
		case OpLt:
			conds = append(conds, expr+" < ?")
			args = append(args, lk.Values[0])
		case OpNe:
			conds = append(conds, expr+" IS DISTINCT FROM ?")
			args = append(args, lk.Values[0])
		case OpIContains:
			conds = append(conds, expr+" ILIKE ?")
			args = append(args, "%"+likeEscaper.Replace(lk.Values[0])+"%")
		case OpIStartsWith:
			conds = append(conds, expr+" ILIKE ?")
			args = append(args, likeEscaper.Replace(lk.Values[0])+"%")
		case OpIEndsWith:
			conds = append(conds, expr+" ILIKE ?")
			args = append(args, "%"+likeEscaper.Replace(lk.Values[0]))
		case OpIsNull:
			if strings.EqualFold(lk.Values[0], "false") {
				conds = append(conds, expr+" IS NOT NULL")
			} else {
				conds = append(conds, expr+" IS NULL")
			}
		default:
			conds = append(conds, expr+" = ?")
			args = append(args, lk.Values[0])
		}
	}

	if l.Search != "" && len(spec.Search) > 0 {
		term := "%" + likeEscaper.Replace(l.Search) + "%"
		ors := make([]string, len(spec.Search))
		for i, expr := range spec.Search {
			ors[i] = expr + " ILIKE ?"
			args = append(args, term)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (l List) orderBy(spec Spec) string {
	var parts []string
	for _, f := range l.Ordering {
		name, desc := strings.CutPrefix(f, "-")
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		parts = append(parts, spec.Fields[name]+" "+dir)
	}
	if len(parts) == 0 && spec.Default != "" {
		parts = append(parts, spec.Default)
	}
	if spec.Tiebreak != "" {
		parts = append(parts, spec.Tiebreak)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// Select renders base with the conditions, ordering and page window of l.
func (l List) Select(spec Spec, base string) (string, []any, error) {
	where, args := l.where(spec)
	q := base + where + l.orderBy(spec) + " LIMIT ? OFFSET ?"
	args = append(args, l.PageSize, l.Offset())
	return bind(q, args)
}

// All renders base with the conditions and ordering of l, without paging.
func (l List) All(spec Spec, base string) (string, []any, error) {
	where, args := l.where(spec)
	return bind(base+where+l.orderBy(spec), args)
}

// Count renders countBase (a SELECT COUNT(*) ...) with the conditions of l.
func (l List) Count(spec Spec, countBase string) (string, []any, error) {
	where, args := l.where(spec)
	return bind(countBase+where, args)
}

func bind(q string, args []any) (string, []any, error) {
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand query: %w", err)
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}
