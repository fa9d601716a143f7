package threads

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

type SQLRepository struct {
	db *storage.Gateway
}

func NewSQLRepository(db *storage.Gateway) *SQLRepository {
	return &SQLRepository{db: db}
}

// Outer joins keep threads whose messages were all removed.
const summaryQuery = `SELECT t.id, t.title, t.user_id, t.tag_id, u.username, g.name AS tag_name,
	COUNT(m.id) AS message_count, MAX(m.sent_at) AS last_message_at
FROM threads t
JOIN users u ON u.id = t.user_id
LEFT JOIN tags g ON g.id = t.tag_id
LEFT JOIN messages m ON m.thread_id = t.id
`

const summaryTail = `
GROUP BY t.id, t.title, t.user_id, t.tag_id, u.username, g.name
ORDER BY t.id DESC`

// Create inserts thread and returns its id. An unknown user or tag yields
// common.ErrorNotFound.
func (r *SQLRepository) Create(ctx context.Context, thread *models.Thread) (int64, error) {
	query := `INSERT INTO threads (title, user_id, tag_id) VALUES (?, ?, ?)`

	var tagID any
	if thread.TagID != nil {
		tagID = *thread.TagID
	}

	id, err := r.db.Insert(ctx, query, thread.Title, thread.UserID, tagID)
	if err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			return 0, common.ErrorNotFound
		}
		return 0, err
	}

	thread.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	rec, err := r.db.QueryOne(ctx, `SELECT id, title, user_id, tag_id FROM threads WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}

	t := &models.Thread{
		ID:     rec.Int64("id"),
		Title:  rec.String("title"),
		UserID: rec.Int64("user_id"),
	}
	if !rec.IsNull("tag_id") {
		tagID := rec.Int64("tag_id")
		t.TagID = &tagID
	}
	return t, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.ThreadSummary, error) {
	return r.summaries(ctx, summaryQuery+summaryTail)
}

func (r *SQLRepository) ListPage(ctx context.Context, offset int64, limit int) ([]models.ThreadSummary, error) {
	return r.summaries(ctx, summaryQuery+summaryTail+` LIMIT ? OFFSET ?`, limit, offset)
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64) ([]models.ThreadSummary, error) {
	return r.summaries(ctx, summaryQuery+`WHERE t.user_id = ?`+summaryTail, userID)
}

func (r *SQLRepository) Count(ctx context.Context) (int64, error) {
	rec, err := r.db.QueryOne(ctx, `SELECT COUNT(*) AS total FROM threads`)
	if err != nil {
		return 0, err
	}
	return rec.Int64("total"), nil
}

func (r *SQLRepository) summaries(ctx context.Context, query string, args ...any) ([]models.ThreadSummary, error) {
	records, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]models.ThreadSummary, 0, len(records))
	for _, rec := range records {
		s := models.ThreadSummary{
			Thread: models.Thread{
				ID:     rec.Int64("id"),
				Title:  rec.String("title"),
				UserID: rec.Int64("user_id"),
			},
			UserName:      rec.String("username"),
			TagName:       rec.StringPtr("tag_name"),
			MessageCount:  rec.Int64("message_count"),
			LastMessageAt: rec.TimePtr("last_message_at"),
		}
		if !rec.IsNull("tag_id") {
			tagID := rec.Int64("tag_id")
			s.TagID = &tagID
		}
		out = append(out, s)
	}
	return out, nil
}
