package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveRecorder struct {
	calls  int
	result SaveResult
	fields []string
}

func (s *saveRecorder) Save(_ context.Context, _ int64, field, value string) SaveResult {
	s.calls++
	s.fields = append(s.fields, field+"="+value)
	return s.result
}

func TestEditCell_CommitSuccess(t *testing.T) {
	rec := &saveRecorder{result: SaveResult{Success: true}}
	c := NewEditCell(Column{ID: "subject", Editable: true}, 4, "old")

	require.True(t, c.Start())
	assert.Equal(t, CellEditing, c.State())
	c.SetDraft("new")
	c.Key(context.Background(), "enter", rec.Save)

	assert.Equal(t, CellDisplay, c.State())
	assert.Equal(t, "new", c.Value())
	assert.Equal(t, []string{"subject=new"}, rec.fields)
}

func TestEditCell_FailedSaveStaysEditing(t *testing.T) {
	rec := &saveRecorder{result: SaveResult{Error: "فشل"}}
	c := NewEditCell(Column{ID: "subject", Editable: true}, 4, "old")

	c.Start()
	c.SetDraft("new")
	res := c.Commit(context.Background(), rec.Save)

	assert.False(t, res.Success)
	assert.Equal(t, CellEditing, c.State())
	assert.Equal(t, "old", c.Value())
	assert.Equal(t, "new", c.Draft())
	assert.Equal(t, "فشل", c.Err())
}

func TestEditCell_RequiredEmptyNeverSaves(t *testing.T) {
	rec := &saveRecorder{result: SaveResult{Success: true}}
	c := NewEditCell(Column{ID: "subject", Editable: true, Required: true}, 4, "old")

	c.Start()
	c.SetDraft("   ")
	res := c.Commit(context.Background(), rec.Save)

	assert.Zero(t, rec.calls)
	assert.False(t, res.Success)
	assert.Equal(t, CellEditing, c.State())
	assert.Equal(t, MsgRequired, c.Err())
}

func TestEditCell_EscapeReverts(t *testing.T) {
	rec := &saveRecorder{}
	c := NewEditCell(Column{ID: "subject", Editable: true}, 4, "old")

	c.Start()
	c.SetDraft("typed")
	c.Key(context.Background(), "escape", rec.Save)

	assert.Equal(t, CellDisplay, c.State())
	assert.Equal(t, "old", c.Draft())
	assert.Zero(t, rec.calls)
}

func TestEditCell_EnterInMultilineDoesNotCommit(t *testing.T) {
	rec := &saveRecorder{result: SaveResult{Success: true}}
	c := NewEditCell(Column{ID: "summary", Editable: true, Multiline: true}, 4, "")

	c.Start()
	c.SetDraft("line")
	c.Key(context.Background(), "enter", rec.Save)

	assert.Equal(t, CellEditing, c.State())
	assert.Zero(t, rec.calls)
}

func TestEditCell_ReadOnlyRefusesEdit(t *testing.T) {
	c := NewEditCell(Column{ID: "subject"}, 4, "old")
	assert.False(t, c.Start())
	assert.Equal(t, CellDisplay, c.State())
}

func TestEditCell_Display(t *testing.T) {
	assert.Equal(t, "عالية", NewEditCell(Column{Kind: KindPriority}, 1, "high").Display())
	assert.Equal(t, NotSet, NewEditCell(Column{Kind: KindDate}, 1, "").Display())
}
