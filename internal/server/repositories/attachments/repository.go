package attachments

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

type Repository interface {
	List(ctx context.Context, l query.List) ([]models.Attachment, int, error)
	ByLetter(ctx context.Context, letterID int64) ([]models.Attachment, error)
	Get(ctx context.Context, id int64) (*models.Attachment, error)
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	Delete(ctx context.Context, id int64) error
}
