// Package users declares the repository contract for forum accounts and its
// SQL implementation on top of the storage gateway.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its generated ID. A taken username
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUserName returns common.ErrorNotFound for no match and
	// common.ErrorMultipleRows when the match is ambiguous.
	GetByUserName(ctx context.Context, userName string) (*models.User, error)

	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateProfile sets the bio and, when image is non-nil, the profile image.
	UpdateProfile(ctx context.Context, id int64, image *string, bio string) error

	SetRole(ctx context.Context, id int64, role models.Role) error

	Stats(ctx context.Context, id int64) (*models.UserStats, error)
}
