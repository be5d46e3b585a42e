package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
)

// Resource is a flat CRUD collection handled as loosely typed records.
type Resource struct {
	Name   string
	Path   string
	IDKey  string
	Update string // http.MethodPut or http.MethodPatch

	// Actions are extra collection listings such as "active/".
	Actions []string
}

// Flat resources served by the back office API.
var (
	People = Resource{Name: "people", Path: "people-history/", IDKey: "person_record_id",
		Update: http.MethodPatch, Actions: []string{"current_only/"}}
	Vehicles = Resource{Name: "vehicles", Path: "vehicles/", IDKey: "id",
		Update: http.MethodPatch}
	Permits = Resource{Name: "permits", Path: "permits/", IDKey: "permit_id",
		Update: http.MethodPatch, Actions: []string{"active/", "expiring_soon/"}}
	CardPermits = Resource{Name: "cards", Path: "card-permits/", IDKey: "permit_id",
		Update: http.MethodPatch, Actions: []string{"active/", "expiring_soon/"}}
	Settings = Resource{Name: "settings", Path: "settings/", IDKey: "id",
		Update: http.MethodPut}
)

// Resources indexes the flat resources by Name.
var Resources = map[string]Resource{
	People.Name:      People,
	Vehicles.Name:    Vehicles,
	Permits.Name:     Permits,
	CardPermits.Name: CardPermits,
	Settings.Name:    Settings,
}

// HasAction reports whether action is a listing of r.
func (r Resource) HasAction(action string) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (c *Client) ListRecords(ctx context.Context, r Resource, p ListParams) (*models.Page[models.Record], error) {
	return List[models.Record](ctx, c, r.Path, p)
}

// ListAction fetches an extra listing such as permits/active/.
func (c *Client) ListAction(ctx context.Context, r Resource, action string) (*models.Page[models.Record], error) {
	if !r.HasAction(action) {
		return nil, fmt.Errorf("%s has no %q listing", r.Name, action)
	}
	return List[models.Record](ctx, c, r.Path+action, ListParams{})
}

func (c *Client) GetRecord(ctx context.Context, r Resource, id int64) (models.Record, error) {
	var out models.Record
	if err := c.Get(ctx, item(r.Path, id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecord(ctx context.Context, r Resource, rec models.Record) (models.Record, error) {
	var out models.Record
	if err := c.Post(ctx, r.Path, rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecord uses the resource's update verb.
func (c *Client) UpdateRecord(ctx context.Context, r Resource, id int64, rec models.Record) (models.Record, error) {
	method := r.Update
	if method == "" {
		method = http.MethodPut
	}
	var out models.Record
	if err := c.call(ctx, Request{Method: method, Path: item(r.Path, id), Body: rec}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, r Resource, id int64) error {
	return c.Delete(ctx, item(r.Path, id))
}

// SettingsBy filters settings by "category" or "key".
func (c *Client) SettingsBy(ctx context.Context, param, value string) ([]models.Record, error) {
	return All[models.Record](ctx, c, Settings.Path, ListParams{Extra: url.Values{param: {value}}})
}
