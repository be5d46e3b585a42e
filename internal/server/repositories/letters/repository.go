package letters

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

type Repository interface {
	List(ctx context.Context, l query.List) ([]models.Correspondence, int, error)
	Get(ctx context.Context, id int64) (*models.Correspondence, error)
	Create(ctx context.Context, in models.CorrespondenceInput) (int64, error)
	Update(ctx context.Context, id int64, in models.CorrespondenceInput) error
	Delete(ctx context.Context, id int64) error

	Children(ctx context.Context, id int64) ([]models.Correspondence, error)
	Siblings(ctx context.Context, id, parentID int64) ([]models.Correspondence, error)

	StatusLogs(ctx context.Context, id int64) ([]models.StatusLog, error)
	AddStatusLog(ctx context.Context, log *models.StatusLog) error
}
