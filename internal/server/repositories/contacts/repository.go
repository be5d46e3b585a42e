package contacts

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

type Repository interface {
	List(ctx context.Context, l query.List) ([]models.Contact, int, error)
	All(ctx context.Context) ([]models.Contact, error)
	Approvers(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id int64) error
}
