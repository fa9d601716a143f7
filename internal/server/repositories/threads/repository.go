// Package threads declares the repository contract for discussion threads
// and its SQL implementation on top of the storage gateway.
package threads

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, thread *models.Thread) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Thread, error)

	// List returns all threads, newest first, with message counts, last
	// message time and tag. Threads without messages are included.
	List(ctx context.Context) ([]models.ThreadSummary, error)

	// ListPage is List restricted to limit rows starting at offset.
	ListPage(ctx context.Context, offset int64, limit int) ([]models.ThreadSummary, error)

	ListByUser(ctx context.Context, userID int64) ([]models.ThreadSummary, error)

	Count(ctx context.Context) (int64, error)
}
