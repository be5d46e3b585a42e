package procedures

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

type Repository interface {
	List(ctx context.Context, l query.List) ([]models.Procedure, int, error)
	ByType(ctx context.Context, typeID int64) ([]models.Procedure, error)
	Get(ctx context.Context, id int64) (*models.Procedure, error)
	Create(ctx context.Context, p *models.Procedure) (*models.Procedure, error)
	Update(ctx context.Context, p *models.Procedure) error
	Delete(ctx context.Context, id int64) error
}
