package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

// SQLRepository stores refresh tokens through a storage.Gateway, so it works
// both on the pool and inside a transaction.
type SQLRepository struct {
	db *storage.Gateway
}

func NewSQLRepository(db *storage.Gateway) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.Insert(ctx, query, userID, token, time.Now().UTC().Add(validity))
	return err
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = ?`

	rec, err := r.db.QueryOne(ctx, query, token)
	if err != nil {
		return nil, err
	}

	return &models.RefreshToken{
		ID:        rec.Int64("id"),
		UserID:    rec.Int64("user_id"),
		Token:     rec.String("token"),
		Expires:   rec.Time("expires_at"),
		CreatedAt: rec.Time("created_at"),
	}, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Execute(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	return err
}

func (r *SQLRepository) Consume(ctx context.Context, token string) error {
	n, err := r.db.Execute(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Execute(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, now.UTC())
}
