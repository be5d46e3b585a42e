package table

import (
	"context"
	"strings"
)

// CellState is the phase of an inline edit.
type CellState int

const (
	CellDisplay CellState = iota
	CellEditing
	CellSaving
)

// MsgRequired is reported when a required cell is committed empty.
const MsgRequired = "هذا الحقل مطلوب"

// EditCell is an inline-editable cell. The draft stays local until the
// save succeeds; a failed save keeps the cell in editing.
type EditCell struct {
	Column Column
	RowID  int64

	value string
	draft string
	state CellState
	err   string
}

func NewEditCell(col Column, rowID int64, value string) *EditCell {
	return &EditCell{Column: col, RowID: rowID, value: value, draft: value}
}

func (c *EditCell) State() CellState { return c.state }
func (c *EditCell) Value() string    { return c.value }
func (c *EditCell) Draft() string    { return c.draft }
func (c *EditCell) Err() string      { return c.err }

// Display is the formatted committed value.
func (c *EditCell) Display() string { return c.Column.DisplayValue(c.value) }

// Start enters editing; read-only columns refuse.
func (c *EditCell) Start() bool {
	if !c.Column.Editable || c.state != CellDisplay {
		return false
	}
	c.state = CellEditing
	c.draft = c.value
	c.err = ""
	return true
}

func (c *EditCell) SetDraft(v string) {
	if c.state == CellEditing {
		c.draft = v
	}
}

// Key handles a key press while editing: "enter" commits unless the cell
// is multiline, "escape" cancels.
func (c *EditCell) Key(ctx context.Context, key string, save SaveFunc) {
	switch key {
	case "enter":
		if !c.Column.Multiline {
			c.Commit(ctx, save)
		}
	case "escape":
		c.Cancel()
	}
}

// Commit sends the draft to save. A required cell with an empty draft is
// never sent and stays in editing.
func (c *EditCell) Commit(ctx context.Context, save SaveFunc) SaveResult {
	if c.state != CellEditing {
		return SaveResult{}
	}
	if c.Column.Required && strings.TrimSpace(c.draft) == "" {
		c.err = MsgRequired
		return SaveResult{Error: MsgRequired}
	}

	c.state = CellSaving
	res := save(ctx, c.RowID, c.Column.ID, c.draft)
	if !res.Success {
		c.state = CellEditing
		c.err = res.Error
		return res
	}

	c.value = c.draft
	c.state = CellDisplay
	c.err = ""
	return res
}

// Cancel drops the draft.
func (c *EditCell) Cancel() {
	if c.state == CellSaving {
		return
	}
	c.draft = c.value
	c.state = CellDisplay
	c.err = ""
}
