package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
)

// Kind selects how a cell is displayed and edited.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindSelect   Kind = "select"
	KindPriority Kind = "priority"
)

// NotSet is shown for empty cells.
const NotSet = "غير محدد"

// Option is one choice of a select cell.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// PriorityOptions are the choices of a priority cell.
var PriorityOptions = []Option{
	{Value: "high", Label: "عالية"},
	{Value: "normal", Label: "عادية"},
	{Value: "low", Label: "منخفضة"},
}

// Column configures one table column.
type Column struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Sortable   bool     `yaml:"sortable"`
	Filterable bool     `yaml:"filterable"`
	Editable   bool     `yaml:"editable"`
	Required   bool     `yaml:"required"`
	Multiline  bool     `yaml:"multiline"`
	Kind       Kind     `yaml:"kind"`
	Options    []Option `yaml:"options"`
	Width      int      `yaml:"width"`
	PrimaryKey bool     `yaml:"primary_key"`
	Hidden     bool     `yaml:"hidden"`

	// SortField overrides the ordering field sent to the API.
	SortField string `yaml:"sort_field"`

	Accessor func(models.Record) string `yaml:"-"`
	Render   func(models.Record) string `yaml:"-"`
}

// Value is the raw cell value of r.
func (c Column) Value(r models.Record) string {
	if c.Accessor != nil {
		return c.Accessor(r)
	}
	return ExtractValue(r, c.ID)
}

// Display is the text shown for r.
func (c Column) Display(r models.Record) string {
	if c.Render != nil {
		return c.Render(r)
	}
	return c.DisplayValue(c.Value(r))
}

// DisplayValue formats v according to the column kind.
func (c Column) DisplayValue(v string) string {
	switch c.Kind {
	case KindPriority:
		if l, ok := optionLabel(PriorityOptions, v); ok {
			return l
		}
		l, _ := optionLabel(PriorityOptions, "normal")
		return l
	case KindDate:
		if v == "" {
			return NotSet
		}
		return FormatDate(v)
	case KindSelect:
		if l, ok := optionLabel(c.Options, v); ok {
			return l
		}
	}
	if v == "" {
		return NotSet
	}
	return v
}

// OrderingField is the field name used in the ordering parameter.
func (c Column) OrderingField() string {
	if c.SortField != "" {
		return c.SortField
	}
	return c.ID
}

func optionLabel(opts []Option, v string) (string, bool) {
	for _, o := range opts {
		if o.Value == v {
			return o.Label, true
		}
	}
	return "", false
}

var filterPaths = map[string]string{
	"type":                  "type__type_name",
	"contact":               "contact__name",
	"current_status":        "current_status__procedure_name",
	"assigned_to":           "assigned_to__full_name_arabic",
	"parent_correspondence": "parent_correspondence__reference_number",
}

// FilterPath maps a column id to the lookup path of its "__in" filter.
// Related columns filter on the related object's display field.
func FilterPath(column string) string {
	if p, ok := filterPaths[column]; ok {
		return p
	}
	return strings.ReplaceAll(column, ".", "__")
}

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatDate renders an ISO date (or timestamp) as d/m/yyyy in
// Arabic-Indic digits. Unparsable input is returned unchanged.
func FormatDate(v string) string {
	var t time.Time
	var err error
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, time.RFC3339} {
		if t, err = time.Parse(layout, v); err == nil {
			break
		}
	}
	if err != nil {
		return v
	}
	s := strconv.Itoa(t.Day()) + "/" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
	return arabicDigits.Replace(s)
}
