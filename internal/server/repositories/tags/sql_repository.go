package tags

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

type SQLRepository struct {
	db *storage.Gateway
}

func NewSQLRepository(db *storage.Gateway) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Ensure(ctx context.Context, name string) (int64, error) {
	id, err := r.db.Insert(ctx, `INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}

	// already there
	tag, err := r.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}

func (r *SQLRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	rec, err := r.db.QueryOne(ctx, `SELECT id, name FROM tags WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	return &models.Tag{ID: rec.Int64("id"), Name: rec.String("name")}, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Tag, error) {
	records, err := r.db.Query(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}

	out := make([]models.Tag, 0, len(records))
	for _, rec := range records {
		out = append(out, models.Tag{ID: rec.Int64("id"), Name: rec.String("name")})
	}
	return out, nil
}
