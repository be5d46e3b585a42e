package table

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/common"
)

const (
	// HighWater is the scroll fraction that triggers a load-more.
	HighWater = 0.8

	// SkeletonRows are drawn while the first page loads.
	SkeletonRows = 5

	// DefaultGuardReset releases a stuck load-more guard.
	DefaultGuardReset = 10 * time.Second

	EmptyText = "لا توجد بيانات"
)

// Mode selects the pagination style.
type Mode int

const (
	Paged Mode = iota
	Infinite
)

// Loader fetches one page of rows.
type Loader func(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error)

// SaveResult is the outcome of an inline edit. A non-nil Record replaces
// the edited row.
type SaveResult struct {
	Success bool
	Error   string
	Record  models.Record
}

// SaveFunc commits one inline edit.
type SaveFunc func(ctx context.Context, rowID int64, field, value string) SaveResult

// Chip is an active column filter as shown above the table.
type Chip struct {
	Column string
	Label  string
	Values []string
}

func (c Chip) String() string {
	return c.Label + ": " + strings.Join(c.Values, "، ")
}

// Config configures a Model.
type Config struct {
	Columns  []Column
	IDKey    string
	PageSize int
	Mode     Mode

	// Extra parameters sent with every request (e.g. direction=Incoming).
	Extra url.Values

	Sort   Sort
	OnSort func(Sort)
	Save   SaveFunc

	GuardReset time.Duration
}

// Model is the state of one table.
type Model struct {
	mu sync.Mutex

	load    Loader
	save    SaveFunc
	onSort  func(Sort)
	columns []Column
	idKey   string
	mode    Mode
	size    int
	extra   url.Values

	sort     Sort
	filters  map[string][]string
	advanced []AdvancedFilter
	search   string

	seq     uint64
	rows    []models.Record
	page    int
	total   int
	hasMore bool
	loading bool
	err     error

	more *guard
}

func New(load Loader, cfg Config) *Model {
	size := cfg.PageSize
	if size <= 0 {
		size = common.DefaultPageSize
	}
	reset := cfg.GuardReset
	if reset == 0 {
		reset = DefaultGuardReset
	}
	idKey := cfg.IDKey
	if idKey == "" {
		idKey = "id"
	}
	return &Model{
		load:    load,
		save:    cfg.Save,
		onSort:  cfg.OnSort,
		columns: cfg.Columns,
		idKey:   idKey,
		mode:    cfg.Mode,
		size:    size,
		extra:   cfg.Extra,
		sort:    cfg.Sort,
		filters: map[string][]string{},
		more:    &guard{reset: reset},
	}
}

// Params returns the list parameters for page.
func (m *Model) Params(page int) api.ListParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paramsLocked(page)
}

func (m *Model) paramsLocked(page int) api.ListParams {
	p := api.ListParams{
		Page:     page,
		PageSize: m.size,
		Search:   m.search,
		Extra:    url.Values{},
	}

	if m.sort.Dir != Unsorted {
		field := m.sort.Field
		if c, ok := m.column(field); ok {
			field = c.OrderingField()
		}
		p.Ordering = Sort{Field: field, Dir: m.sort.Dir}.Ordering()
	}

	if len(m.filters) > 0 {
		p.Filters = make(map[string][]string, len(m.filters))
		for col, vals := range m.filters {
			p.Filters[FilterPath(col)] = append([]string(nil), vals...)
		}
	}

	for k, vs := range m.extra {
		p.Extra[k] = append([]string(nil), vs...)
	}
	for _, f := range m.advanced {
		f.apply(p.Extra)
	}
	return p
}

func (m *Model) column(id string) (Column, bool) {
	for _, c := range m.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Reload fetches page 1 and replaces the rows. A reload started later
// wins over one still in flight.
func (m *Model) Reload(ctx context.Context) error {
	return m.fetchPage(ctx, 1)
}

// GoToPage replaces the rows with page n.
func (m *Model) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	if tp := m.TotalPages(); tp > 0 && n > tp {
		n = tp
	}
	return m.fetchPage(ctx, n)
}

func (m *Model) fetchPage(ctx context.Context, n int) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.loading = true
	m.err = nil
	params := m.paramsLocked(n)
	m.mu.Unlock()

	page, err := m.load(ctx, params)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		return nil
	}
	m.loading = false
	if err != nil {
		m.err = err
		m.rows = nil
		m.hasMore = false
		return err
	}

	m.page = n
	m.rows = page.Results
	m.total = page.Count
	if m.total == 0 {
		m.total = len(page.Results)
	}
	m.hasMore = page.HasNext()
	return nil
}

// LoadMore appends the next page in infinite mode. It reports whether a
// request was made; duplicate triggers while one is in flight are
// dropped.
func (m *Model) LoadMore(ctx context.Context) (bool, error) {
	m.mu.Lock()
	ready := m.mode == Infinite && !m.loading && m.hasMore && len(m.rows) > 0
	m.mu.Unlock()
	if !ready {
		return false, nil
	}

	ticket, ok := m.more.acquire()
	if !ok {
		return false, nil
	}
	defer m.more.release(ticket)

	m.mu.Lock()
	seq := m.seq
	next := m.page + 1
	params := m.paramsLocked(next)
	m.mu.Unlock()

	page, err := m.load(ctx, params)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		return true, nil
	}
	if err != nil {
		m.err = err
		m.hasMore = false
		return true, err
	}
	if len(page.Results) == 0 {
		m.hasMore = false
		return true, nil
	}

	m.page = next
	m.rows = append(m.rows, page.Results...)
	if page.Count > 0 {
		m.total = page.Count
	}
	m.hasMore = page.HasNext()
	return true, nil
}

// OnScroll is fed the scrolled fraction of the viewport; past HighWater
// it loads more.
func (m *Model) OnScroll(ctx context.Context, fraction float64) (bool, error) {
	if fraction < HighWater {
		return false, nil
	}
	return m.LoadMore(ctx)
}

// ToggleSort cycles the sort of column and reloads. The new sort is
// reported to OnSort; rows are never reordered locally.
func (m *Model) ToggleSort(ctx context.Context, column string) (Sort, error) {
	m.mu.Lock()
	c, ok := m.column(column)
	if !ok || !c.Sortable {
		s := m.sort
		m.mu.Unlock()
		return s, nil
	}
	m.sort = m.sort.Toggle(column)
	s := m.sort
	m.mu.Unlock()

	if m.onSort != nil {
		m.onSort(s)
	}
	return s, m.Reload(ctx)
}

// SetFilter selects values for column; an empty selection clears it.
func (m *Model) SetFilter(ctx context.Context, column string, values []string) error {
	m.mu.Lock()
	if len(values) == 0 {
		delete(m.filters, column)
	} else {
		m.filters[column] = append([]string(nil), values...)
	}
	m.mu.Unlock()
	return m.Reload(ctx)
}

func (m *Model) ClearFilter(ctx context.Context, column string) error {
	return m.SetFilter(ctx, column, nil)
}

// SetAdvanced replaces the advanced filters.
func (m *Model) SetAdvanced(ctx context.Context, filters []AdvancedFilter) error {
	m.mu.Lock()
	m.advanced = append([]AdvancedFilter(nil), filters...)
	m.mu.Unlock()
	return m.Reload(ctx)
}

// AddAdvanced appends one advanced filter and reloads.
func (m *Model) AddAdvanced(ctx context.Context, f AdvancedFilter) error {
	m.mu.Lock()
	m.advanced = append(m.advanced, f)
	m.mu.Unlock()
	return m.Reload(ctx)
}

// Advanced returns a copy of the advanced filters.
func (m *Model) Advanced() []AdvancedFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AdvancedFilter(nil), m.advanced...)
}

// SetSearch sets the global search term.
func (m *Model) SetSearch(ctx context.Context, term string) error {
	m.mu.Lock()
	m.search = strings.TrimSpace(term)
	m.mu.Unlock()
	return m.Reload(ctx)
}

// ClearAllFilters drops column filters, advanced filters, search and sort.
func (m *Model) ClearAllFilters(ctx context.Context) error {
	m.mu.Lock()
	m.filters = map[string][]string{}
	m.advanced = nil
	m.search = ""
	m.sort = Sort{}
	m.mu.Unlock()
	return m.Reload(ctx)
}

// IsFiltered reports whether any filter or search is active.
func (m *Model) IsFiltered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filters) > 0 || len(m.advanced) > 0 || m.search != ""
}

// Filter returns the selection of column.
func (m *Model) Filter(column string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.filters[column]...)
}

// Chips lists active column filters in column order.
func (m *Model) Chips() []Chip {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make(map[string]int, len(m.columns))
	for i, c := range m.columns {
		order[c.ID] = i
	}

	chips := make([]Chip, 0, len(m.filters))
	for col, vals := range m.filters {
		label := col
		if c, ok := m.column(col); ok {
			label = c.Label
		}
		chips = append(chips, Chip{Column: col, Label: label, Values: append([]string(nil), vals...)})
	}
	sort.Slice(chips, func(i, j int) bool {
		oi, iok := order[chips[i].Column]
		oj, jok := order[chips[j].Column]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return chips[i].Column < chips[j].Column
	})
	return chips
}

// Save commits an inline edit through the configured SaveFunc and, on
// success, updates the row in place.
func (m *Model) Save(ctx context.Context, rowID int64, field, value string) SaveResult {
	if m.save == nil {
		return SaveResult{Error: "التعديل غير متاح"}
	}

	res := m.save(ctx, rowID, field, value)
	if !res.Success {
		return res
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if id, ok := r.ID(m.idKey); ok && id == rowID {
			if res.Record != nil {
				m.rows[i] = res.Record
			} else {
				updated := make(models.Record, len(r)+1)
				for k, v := range r {
					updated[k] = v
				}
				updated[field] = value
				m.rows[i] = updated
			}
			break
		}
	}
	return res
}

func (m *Model) Rows() []models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Record(nil), m.rows...)
}

// Row returns the loaded row with id.
func (m *Model) Row(id int64) (models.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if rid, ok := r.ID(m.idKey); ok && rid == id {
			return r, true
		}
	}
	return nil, false
}

func (m *Model) Columns() []Column { return append([]Column(nil), m.columns...) }
func (m *Model) IDKey() string     { return m.idKey }
func (m *Model) Mode() Mode        { return m.mode }

func (m *Model) Sort() Sort {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sort
}

func (m *Model) Search() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search
}

func (m *Model) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Model) HasMore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasMore
}

func (m *Model) Page() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

func (m *Model) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// TotalPages is 0 until something is loaded.
func (m *Model) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.total == 0 {
		return 0
	}
	return (m.total + m.size - 1) / m.size
}

// Extra returns the fixed request parameters.
func (m *Model) Extra() url.Values {
	out := url.Values{}
	for k, vs := range m.extra {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
