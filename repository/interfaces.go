package repository

import (
	"context"

	"userRegistration/models"
)

// UserRepositoryI defines persistence operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

var _ UserRepositoryI = (*UserRepository)(nil)
