package users

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)

	// Update changes username and role; the password hash is only touched when
	// newHash is non-empty.
	Update(ctx context.Context, u *models.User, newHash string) (*models.User, error)
	Delete(ctx context.Context, ids []int64) error
}
