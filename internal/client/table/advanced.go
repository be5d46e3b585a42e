package table

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/common"
)

// ErrBadAdvanced is returned for an unknown operator or missing values.
var ErrBadAdvanced = errors.New("invalid advanced filter")

// Operator of an advanced filter.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpBefore     Operator = "before"
	OpAfter      Operator = "after"
	OpBetween    Operator = "between"
	OpIn         Operator = "in"
	OpNotEquals  Operator = "not_equals"
	OpIsNull     Operator = "is_null"
	OpIsNotNull  Operator = "is_not_null"
)

var operators = []Operator{
	OpContains, OpEquals, OpStartsWith, OpEndsWith, OpBefore, OpAfter,
	OpBetween, OpIn, OpNotEquals, OpIsNull, OpIsNotNull,
}

// ParseOperator accepts an operator name, case-insensitively.
func ParseOperator(s string) (Operator, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, op := range operators {
		if string(op) == s {
			return op, true
		}
	}
	return "", false
}

// NewAdvanced builds a condition on field from command arguments.
// Between takes "from to", in takes one value per argument, the null
// checks take none and every other operator joins args with spaces.
func NewAdvanced(field string, op Operator, args []string) (AdvancedFilter, error) {
	f := AdvancedFilter{Field: field, Operator: op}
	switch op {
	case OpIsNull, OpIsNotNull:
		return f, nil
	case OpBetween:
		if len(args) != 2 {
			return f, fmt.Errorf("%w: between needs two values", ErrBadAdvanced)
		}
		f.From, f.To = args[0], args[1]
	case OpIn:
		f.Values = append([]string(nil), args...)
	case "":
		return f, fmt.Errorf("%w: no operator", ErrBadAdvanced)
	default:
		f.Value = strings.TrimSpace(strings.Join(args, " "))
	}
	if f.empty() {
		return f, fmt.Errorf("%w: %s needs a value", ErrBadAdvanced, op)
	}
	return f, nil
}

// String renders f for listing.
func (f AdvancedFilter) String() string {
	switch f.Operator {
	case OpIsNull, OpIsNotNull:
		return fmt.Sprintf("%s %s", f.Field, f.Operator)
	case OpBetween:
		return fmt.Sprintf("%s between %s .. %s", f.Field, f.From, f.To)
	case OpIn:
		return fmt.Sprintf("%s in [%s]", f.Field, strings.Join(f.Values, ", "))
	}
	return fmt.Sprintf("%s %s %q", f.Field, f.Operator, f.Value)
}

// AdvancedFilter is one field/operator/value condition.
// Between uses From and To; In uses Values.
type AdvancedFilter struct {
	Field    string   `yaml:"field"`
	Operator Operator `yaml:"operator"`
	Value    string   `yaml:"value"`
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Values   []string `yaml:"values"`
}

func (f AdvancedFilter) empty() bool {
	switch f.Operator {
	case OpIsNull, OpIsNotNull:
		return false
	case OpBetween:
		return f.From == "" && f.To == ""
	case OpIn:
		return len(f.Values) == 0 && f.Value == ""
	}
	return f.Value == ""
}

// apply encodes f into v using the API lookup suffixes.
func (f AdvancedFilter) apply(v url.Values) {
	if f.Field == "" || f.Operator == "" || f.empty() {
		return
	}

	field := f.Field
	switch f.Operator {
	case OpContains:
		v.Set(field+"__icontains", f.Value)
	case OpStartsWith:
		v.Set(field+"__istartswith", f.Value)
	case OpEndsWith:
		v.Set(field+"__iendswith", f.Value)
	case OpBefore:
		v.Set(field+"__lt", f.Value)
	case OpAfter:
		v.Set(field+"__gt", f.Value)
	case OpBetween:
		if f.From != "" {
			v.Set(field+"__gte", f.From)
		}
		if f.To != "" {
			v.Set(field+"__lte", f.To)
		}
	case OpIn:
		vals := f.Values
		if len(vals) == 0 {
			vals = []string{f.Value}
		}
		v.Set(field+"__in", common.JoinList(vals))
	case OpNotEquals:
		v.Set(field+"__ne", f.Value)
	case OpIsNull:
		v.Set(field+"__isnull", "true")
	case OpIsNotNull:
		v.Set(field+"__isnull", "false")
	default:
		v.Set(field, f.Value)
	}
}
