package lettertypes

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

type Repository interface {
	List(ctx context.Context, l query.List) ([]models.CorrespondenceType, int, error)
	All(ctx context.Context) ([]models.CorrespondenceType, error)
	Get(ctx context.Context, id int64) (*models.CorrespondenceType, error)
	Create(ctx context.Context, t *models.CorrespondenceType) (*models.CorrespondenceType, error)
	Update(ctx context.Context, t *models.CorrespondenceType) error
	Delete(ctx context.Context, id int64) error
}
