package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/table"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

// ResourceAPI is the part of the REST client the flat resources need.
type ResourceAPI interface {
	ListRecords(ctx context.Context, r api.Resource, p api.ListParams) (*models.Page[models.Record], error)
	ListAction(ctx context.Context, r api.Resource, action string) (*models.Page[models.Record], error)
	GetRecord(ctx context.Context, r api.Resource, id int64) (models.Record, error)
	CreateRecord(ctx context.Context, r api.Resource, rec models.Record) (models.Record, error)
	UpdateRecord(ctx context.Context, r api.Resource, id int64, rec models.Record) (models.Record, error)
	DeleteRecord(ctx context.Context, r api.Resource, id int64) error
	SettingsBy(ctx context.Context, param, value string) ([]models.Record, error)
}

// ResourceService browses and edits the flat resources: people, vehicles,
// permits, card permits and settings.
type ResourceService interface {
	Loader(r api.Resource) table.Loader
	Action(ctx context.Context, r api.Resource, action string) (*models.Page[models.Record], error)
	Get(ctx context.Context, r api.Resource, id int64) (models.Record, error)
	Create(ctx context.Context, r api.Resource, rec models.Record) (models.Record, string, error)
	Delete(ctx context.Context, r api.Resource, id int64) (string, error)
	SaveField(ctx context.Context, r api.Resource, id int64, field, value string) table.SaveResult
	SettingsByCategory(ctx context.Context, category string) ([]models.Record, error)
	SettingByKey(ctx context.Context, key string) (models.Record, error)
}

type resourceService struct {
	api    ResourceAPI
	logger logging.Logger
}

func NewResourceService(a ResourceAPI, logger logging.Logger) ResourceService {
	return &resourceService{api: a, logger: logger}
}

// Loader binds r to a table model.
func (s *resourceService) Loader(r api.Resource) table.Loader {
	return func(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error) {
		return s.api.ListRecords(ctx, r, p)
	}
}

func (s *resourceService) Action(ctx context.Context, r api.Resource, action string) (*models.Page[models.Record], error) {
	return s.api.ListAction(ctx, r, action)
}

func (s *resourceService) Get(ctx context.Context, r api.Resource, id int64) (models.Record, error) {
	return s.api.GetRecord(ctx, r, id)
}

func (s *resourceService) Create(ctx context.Context, r api.Resource, rec models.Record) (models.Record, string, error) {
	out, err := s.api.CreateRecord(ctx, r, rec)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info(ctx, "record created", "resource", r.Name)
	return out, MsgRecordSaved, nil
}

func (s *resourceService) Delete(ctx context.Context, r api.Resource, id int64) (string, error) {
	if err := s.api.DeleteRecord(ctx, r, id); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "record deleted", "resource", r.Name, "id", id)
	return MsgRecordDeleted, nil
}

// SaveField writes one cell. PATCH resources get just the field; PUT
// resources are read, merged and written back whole.
func (s *resourceService) SaveField(ctx context.Context, r api.Resource, id int64, field, value string) table.SaveResult {
	var v any = value
	if value == "" {
		v = nil
	}

	body := models.Record{field: v}
	if !strings.EqualFold(r.Update, http.MethodPatch) {
		cur, err := s.api.GetRecord(ctx, r, id)
		if err != nil {
			return table.SaveResult{Error: apierr.Message(err)}
		}
		body = make(models.Record, len(cur)+1)
		for k, val := range cur {
			body[k] = val
		}
		body[field] = v
	}

	out, err := s.api.UpdateRecord(ctx, r, id, body)
	if err != nil {
		s.logger.Warn(ctx, "field update failed", "resource", r.Name, "id", id, "field", field, "error", err)
		return table.SaveResult{Error: apierr.Message(err)}
	}
	return table.SaveResult{Success: true, Record: out}
}

func (s *resourceService) SettingsByCategory(ctx context.Context, category string) ([]models.Record, error) {
	return s.api.SettingsBy(ctx, "category", category)
}

// SettingByKey returns the setting stored under key, or
// apierr KindNotFound when there is none.
func (s *resourceService) SettingByKey(ctx context.Context, key string) (models.Record, error) {
	recs, err := s.api.SettingsBy(ctx, "key", key)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.String("key") == key {
			return rec, nil
		}
	}
	return nil, &apierr.Error{Kind: apierr.KindNotFound, Status: http.StatusNotFound}
}
