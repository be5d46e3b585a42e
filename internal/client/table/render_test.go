package table

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EmptyTable(t *testing.T) {
	m := New((&fakeLoader{}).Load, Config{Columns: letterColumns})
	require.NoError(t, m.Reload(context.Background()))

	out := NewRenderer().Render(m, letterColumns)
	assert.Contains(t, out, EmptyText)
	assert.Contains(t, out, "الموضوع")
}

func TestRenderer_SkeletonWhileLoading(t *testing.T) {
	fl := &fakeLoader{block: make(chan struct{}), called: make(chan struct{}, 1)}
	m := New(fl.Load, Config{Columns: letterColumns})

	done := make(chan struct{})
	go func() {
		_ = m.Reload(context.Background())
		close(done)
	}()
	<-fl.called

	out := NewRenderer().Render(m, letterColumns)
	assert.Equal(t, SkeletonRows, strings.Count(out, skeletonCell)/len(letterColumns))
	assert.NotContains(t, out, EmptyText)

	close(fl.block)
	<-done
}

func TestRenderer_RowsChipsAndSort(t *testing.T) {
	ctx := context.Background()
	fl := &fakeLoader{pages: map[int]*models.Page[models.Record]{
		1: {Count: 1, Results: []models.Record{{
			"correspondence_id": 1.0,
			"reference_number":  "7612",
			"subject":           "Example Subject",
			"priority":          "low",
		}}},
	}}
	m := New(fl.Load, Config{Columns: letterColumns, IDKey: "correspondence_id"})
	require.NoError(t, m.SetFilter(ctx, "priority", []string{"low"}))
	_, err := m.ToggleSort(ctx, "subject")
	require.NoError(t, err)

	out := NewRenderer().Render(m, letterColumns)
	assert.Contains(t, out, "7612")
	assert.Contains(t, out, "Example Subject")
	assert.Contains(t, out, "منخفضة")
	assert.Contains(t, out, "الأولوية: low")
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "صفحة 1 من 1 (1)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
