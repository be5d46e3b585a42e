package table

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/client/repositories/metadata"
)

// Visibility tracks which columns are shown, persisted under a
// per-table key.
type Visibility struct {
	repo    metadata.Repository
	key     string
	columns []Column
	visible map[string]bool
}

// LoadVisibility restores the stored map for key, falling back to the
// column defaults. A corrupt value is ignored.
func LoadVisibility(ctx context.Context, repo metadata.Repository, key string, columns []Column) (*Visibility, error) {
	v := &Visibility{repo: repo, key: key, columns: columns}

	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load column visibility: %w", err)
	}

	stored := map[string]bool{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			stored = map[string]bool{}
		}
	}
	if len(stored) == 0 {
		stored = v.defaults()
	}
	v.visible = stored
	return v, nil
}

func (v *Visibility) defaults() map[string]bool {
	m := make(map[string]bool, len(v.columns))
	for _, c := range v.columns {
		m[c.ID] = !c.Hidden
	}
	return m
}

// IsVisible treats unknown columns as visible.
func (v *Visibility) IsVisible(id string) bool {
	shown, ok := v.visible[id]
	return !ok || shown
}

// Columns returns the visible columns in configured order.
func (v *Visibility) Columns() []Column {
	out := make([]Column, 0, len(v.columns))
	for _, c := range v.columns {
		if v.IsVisible(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// Counts returns visible and total column counts.
func (v *Visibility) Counts() (int, int) {
	return len(v.Columns()), len(v.columns)
}

func (v *Visibility) Toggle(ctx context.Context, id string) error {
	v.visible[id] = !v.IsVisible(id)
	return v.save(ctx)
}

func (v *Visibility) ShowAll(ctx context.Context) error {
	m := make(map[string]bool, len(v.columns))
	for _, c := range v.columns {
		m[c.ID] = true
	}
	v.visible = m
	return v.save(ctx)
}

// HideAll hides everything except the primary key column.
func (v *Visibility) HideAll(ctx context.Context) error {
	m := make(map[string]bool, len(v.columns))
	for _, c := range v.columns {
		m[c.ID] = c.PrimaryKey
	}
	v.visible = m
	return v.save(ctx)
}

// Reset restores the column defaults.
func (v *Visibility) Reset(ctx context.Context) error {
	v.visible = v.defaults()
	return v.save(ctx)
}

func (v *Visibility) save(ctx context.Context) error {
	raw, err := json.Marshal(v.visible)
	if err != nil {
		return err
	}
	if err := v.repo.Set(ctx, v.key, raw); err != nil {
		return fmt.Errorf("save column visibility: %w", err)
	}
	return nil
}
