// Package messages declares the repository contract for thread posts and
// its SQL implementation on top of the storage gateway.
package messages

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// Create inserts msg and returns its id. An unknown thread or author
	// yields common.ErrorNotFound.
	Create(ctx context.Context, msg *models.Message) (int64, error)

	// GetByID returns the message joined with its author's username.
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// ListByThread returns the thread's messages in posting order.
	ListByThread(ctx context.Context, threadID int64) ([]models.Message, error)

	// ListByUser returns the user's messages, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Message, error)

	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error

	// Search matches query case-insensitively against message content,
	// thread title, author and tag name. Results are newest first. Case
	// folding is the store's: SQLite folds ASCII letters only.
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}
