package users

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, id int64, hash string) error
	BumpTokenVersion(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
