// Package tags stores the free-text labels threads can carry.
package tags

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// Ensure returns the id of the tag called name, creating it on first use.
	Ensure(ctx context.Context, name string) (int64, error)

	GetByName(ctx context.Context, name string) (*models.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]models.Tag, error)
}
