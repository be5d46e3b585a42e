package table

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var letterColumns = []Column{
	{ID: "reference_number", Label: "الرقم المرجعي", Sortable: true, Filterable: true, PrimaryKey: true},
	{ID: "type", Label: "النوع", Sortable: true, Filterable: true, SortField: "type__type_name"},
	{ID: "subject", Label: "الموضوع", Sortable: true, Editable: true, Required: true},
	{ID: "priority", Label: "الأولوية", Filterable: true, Kind: KindPriority},
}

type fakeLoader struct {
	mu     sync.Mutex
	calls  []api.ListParams
	pages  map[int]*models.Page[models.Record]
	err    error
	block  chan struct{}
	called chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	block, called := f.block, f.called
	f.mu.Unlock()

	if called != nil {
		called <- struct{}{}
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if pg, ok := f.pages[p.Page]; ok {
		return pg, nil
	}
	return &models.Page[models.Record]{Results: []models.Record{}}, nil
}

func (f *fakeLoader) Calls() []api.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ListParams(nil), f.calls...)
}

func strPtr(s string) *string { return &s }

func rows(ids ...float64) []models.Record {
	out := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Record{"correspondence_id": id, "subject": "s"})
	}
	return out
}

func TestModel_ReloadBuildsParams(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{}
	m := New(fl.Load, Config{
		Columns:  letterColumns,
		IDKey:    "correspondence_id",
		PageSize: 20,
		Extra:    url.Values{"direction": {"Incoming"}},
	})

	require.NoError(t, m.SetFilter(ctx, "type", []string{"وارد", "صادر"}))
	require.NoError(t, m.SetSearch(ctx, "  permit "))
	_, err := m.ToggleSort(ctx, "type")
	require.NoError(t, err)
	require.NoError(t, m.SetAdvanced(ctx, []AdvancedFilter{
		{Field: "subject", Operator: OpContains, Value: "visa"},
	}))

	calls := fl.Calls()
	last := calls[len(calls)-1]
	v := last.Values()

	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "20", v.Get("page_size"))
	assert.Equal(t, "permit", v.Get("search"))
	assert.Equal(t, "type__type_name", v.Get("ordering"))
	assert.Equal(t, "وارد,صادر", v.Get("type__type_name__in"))
	assert.Equal(t, "Incoming", v.Get("direction"))
	assert.Equal(t, "visa", v.Get("subject__icontains"))
}

func TestModel_SortReportedNotApplied(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 3, Results: rows(3, 1, 2)},
	}}

	var reported []Sort
	m := New(fl.Load, Config{
		Columns: letterColumns,
		IDKey:   "correspondence_id",
		OnSort:  func(s Sort) { reported = append(reported, s) },
	})

	for i := 0; i < 3; i++ {
		_, err := m.ToggleSort(ctx, "subject")
		require.NoError(t, err)
	}

	assert.Equal(t, []Sort{
		{Field: "subject", Dir: Asc},
		{Field: "subject", Dir: Desc},
		{Field: "subject", Dir: Asc},
	}, reported)

	var got []int64
	for _, r := range m.Rows() {
		id, _ := r.ID("correspondence_id")
		got = append(got, id)
	}
	assert.Equal(t, []int64{3, 1, 2}, got)

	calls := fl.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "subject", calls[0].Ordering)
	assert.Equal(t, "-subject", calls[1].Ordering)
	assert.Equal(t, "subject", calls[2].Ordering)
}

func TestModel_ToggleSortIgnoresUnsortable(t *testing.T) {
	fl := &fakeLoader{}
	m := New(fl.Load, Config{Columns: letterColumns})

	s, err := m.ToggleSort(context.Background(), "priority")
	require.NoError(t, err)
	assert.Equal(t, Sort{}, s)
	assert.Empty(t, fl.Calls())
}

func TestModel_FiltersAndChips(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{}
	m := New(fl.Load, Config{Columns: letterColumns})

	assert.False(t, m.IsFiltered())

	require.NoError(t, m.SetFilter(ctx, "priority", []string{"high"}))
	require.NoError(t, m.SetFilter(ctx, "reference_number", []string{"1", "2"}))
	assert.True(t, m.IsFiltered())

	chips := m.Chips()
	require.Len(t, chips, 2)
	assert.Equal(t, "reference_number", chips[0].Column)
	assert.Equal(t, "الرقم المرجعي: 1، 2", chips[0].String())
	assert.Equal(t, "priority", chips[1].Column)

	require.NoError(t, m.SetFilter(ctx, "priority", nil))
	assert.Len(t, m.Chips(), 1)
	assert.Empty(t, m.Filter("priority"))

	_, err := m.ToggleSort(ctx, "subject")
	require.NoError(t, err)
	require.NoError(t, m.SetSearch(ctx, "x"))
	require.NoError(t, m.ClearAllFilters(ctx))

	assert.False(t, m.IsFiltered())
	assert.Equal(t, Sort{}, m.Sort())
	assert.Empty(t, m.Search())
	last := fl.Calls()[len(fl.Calls())-1]
	assert.Empty(t, last.Filters)
	assert.Empty(t, last.Ordering)
}

func TestModel_PagedNavigation(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 45, Next: strPtr("p2"), Results: rows(1, 2)},
		3: {Count: 45, Results: rows(5)},
	}}
	m := New(fl.Load, Config{Columns: letterColumns, IDKey: "correspondence_id", PageSize: 20})

	require.NoError(t, m.Reload(ctx))
	assert.Equal(t, 3, m.TotalPages())
	assert.Equal(t, 1, m.Page())

	require.NoError(t, m.GoToPage(ctx, 9))
	assert.Equal(t, 3, m.Page())
	assert.Len(t, m.Rows(), 1)
}

func TestModel_LoadErrorIsKept(t *testing.T) {
	boom := errors.New("boom")
	fl := &fakeLoader{err: boom}
	m := New(fl.Load, Config{Columns: letterColumns})

	err := m.Reload(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Err(), boom)
	assert.False(t, m.Loading())
	assert.Empty(t, m.Rows())
}

func TestModel_InfiniteLoadMore(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 3, Next: strPtr("p2"), Results: rows(1, 2)},
		2: {Count: 3, Results: rows(3)},
	}}
	m := New(fl.Load, Config{Columns: letterColumns, IDKey: "correspondence_id", Mode: Infinite, PageSize: 2})

	require.NoError(t, m.Reload(ctx))
	assert.True(t, m.HasMore())

	made, err := m.OnScroll(ctx, 0.5)
	require.NoError(t, err)
	assert.False(t, made)

	made, err = m.OnScroll(ctx, 0.85)
	require.NoError(t, err)
	assert.True(t, made)
	assert.Len(t, m.Rows(), 3)
	assert.False(t, m.HasMore())

	made, err = m.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, made)
	assert.Len(t, fl.Calls(), 2)
}

func TestModel_LoadMoreNotInPagedMode(t *testing.T) {
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 3, Next: strPtr("p2"), Results: rows(1, 2)},
	}}
	m := New(fl.Load, Config{Columns: letterColumns})
	require.NoError(t, m.Reload(context.Background()))

	made, err := m.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, made)
}

func TestModel_LoadMoreGuardsDuplicateTriggers(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 4, Next: strPtr("p2"), Results: rows(1, 2)},
		2: {Count: 4, Next: strPtr("p3"), Results: rows(3, 4)},
	}}
	m := New(fl.Load, Config{Columns: letterColumns, IDKey: "correspondence_id", Mode: Infinite, PageSize: 2})
	require.NoError(t, m.Reload(ctx))

	fl.mu.Lock()
	fl.block = make(chan struct{})
	fl.called = make(chan struct{}, 10)
	fl.mu.Unlock()

	done := make(chan bool)
	go func() {
		made, _ := m.LoadMore(ctx)
		done <- made
	}()
	<-fl.called

	for i := 0; i < 5; i++ {
		made, err := m.OnScroll(ctx, 0.95)
		require.NoError(t, err)
		assert.False(t, made)
	}

	close(fl.block)
	assert.True(t, <-done)
	assert.Len(t, fl.Calls(), 2)
	assert.Len(t, m.Rows(), 4)
}

func TestGuard_ResetReleasesStuckLoad(t *testing.T) {
	g := &guard{reset: 10 * time.Millisecond}

	_, ok := g.acquire()
	require.True(t, ok)
	_, ok = g.acquire()
	require.False(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := g.acquire()
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestGuard_LateReleaseIsIgnored(t *testing.T) {
	g := &guard{}

	first, ok := g.acquire()
	require.True(t, ok)
	g.release(first)

	_, ok = g.acquire()
	require.True(t, ok)

	g.release(first)
	_, ok = g.acquire()
	assert.False(t, ok)
}

func TestModel_SaveUpdatesRow(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 2, Results: rows(1, 2)},
	}}

	var saved []string
	m := New(fl.Load, Config{
		Columns: letterColumns,
		IDKey:   "correspondence_id",
		Save: func(_ context.Context, id int64, field, value string) SaveResult {
			saved = append(saved, field+"="+value)
			if id == 2 {
				return SaveResult{Error: "فشل"}
			}
			return SaveResult{Success: true}
		},
	})
	require.NoError(t, m.Reload(ctx))

	res := m.Save(ctx, 1, "subject", "new")
	assert.True(t, res.Success)
	row, ok := m.Row(1)
	require.True(t, ok)
	assert.Equal(t, "new", row.String("subject"))

	res = m.Save(ctx, 2, "subject", "x")
	assert.False(t, res.Success)
	row, _ = m.Row(2)
	assert.Equal(t, "s", row.String("subject"))

	assert.Equal(t, []string{"subject=new", "subject=x"}, saved)
}

func TestModel_SaveReplacesRowFromResult(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{1: {Results: rows(1)}}}
	m := New(fl.Load, Config{
		Columns: letterColumns,
		IDKey:   "correspondence_id",
		Save: func(context.Context, int64, string, string) SaveResult {
			return SaveResult{Success: true, Record: models.Record{"correspondence_id": 1.0, "type_name": "وارد"}}
		},
	})
	require.NoError(t, m.Reload(ctx))

	m.Save(ctx, 1, "type", "4")
	row, _ := m.Row(1)
	assert.Equal(t, "وارد", row.String("type_name"))
}

func TestModel_SaveWithoutHandler(t *testing.T) {
	m := New((&fakeLoader{}).Load, Config{})
	res := m.Save(context.Background(), 1, "a", "b")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
