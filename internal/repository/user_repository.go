package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
)

// UserRepository supplies user records and their role sets for the auth layer.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
