package messages

import (
	"context"
	"errors"
	"strings"

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

const selectMessage = `SELECT m.id, m.content, m.sent_at, m.user_id, m.thread_id, u.username
FROM messages m
JOIN users u ON u.id = m.user_id
`

func (r *SQLRepository) Create(ctx context.Context, msg *models.Message) (int64, error) {
	query := `INSERT INTO messages (content, sent_at, user_id, thread_id) VALUES (?, ?, ?, ?)`

	id, err := r.db.Insert(ctx, query, msg.Content, msg.SentAt.UTC(), msg.UserID, msg.ThreadID)
	if err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			return 0, common.ErrorNotFound
		}
		return 0, err
	}

	msg.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	rec, err := r.db.QueryOne(ctx, selectMessage+`WHERE m.id = ?`, id)
	if err != nil {
		return nil, err
	}
	msg := toMessage(rec)
	return &msg, nil
}

func (r *SQLRepository) ListByThread(ctx context.Context, threadID int64) ([]models.Message, error) {
	return r.list(ctx, selectMessage+`WHERE m.thread_id = ? ORDER BY m.id`, threadID)
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	return r.list(ctx, selectMessage+`WHERE m.user_id = ? ORDER BY m.sent_at DESC, m.id DESC`, userID)
}

func (r *SQLRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	n, err := r.db.Execute(ctx, `UPDATE messages SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Execute(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Search matches with LOWER(), which on SQLite folds ASCII letters only.
func (r *SQLRepository) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	q := `SELECT m.id, m.content, m.sent_at, m.user_id, m.thread_id, u.username,
	t.title AS thread_title, g.name AS tag_name
FROM messages m
JOIN threads t ON t.id = m.thread_id
JOIN users u ON u.id = m.user_id
LEFT JOIN tags g ON g.id = t.tag_id
WHERE LOWER(m.content) LIKE LOWER(?) ESCAPE '\'
   OR LOWER(t.title) LIKE LOWER(?) ESCAPE '\'
   OR LOWER(u.username) LIKE LOWER(?) ESCAPE '\'
   OR LOWER(g.name) LIKE LOWER(?) ESCAPE '\'
ORDER BY m.sent_at DESC, m.id DESC`

	pattern := "%" + escapeLike(query) + "%"

	records, err := r.db.Query(ctx, q, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}

	out := make([]models.SearchResult, 0, len(records))
	for _, rec := range records {
		out = append(out, models.SearchResult{
			Message:     toMessage(rec),
			ThreadTitle: rec.String("thread_title"),
			TagName:     rec.StringPtr("tag_name"),
		})
	}
	return out, nil
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	records, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(records))
	for _, rec := range records {
		out = append(out, toMessage(rec))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toMessage(rec storage.Record) models.Message {
	return models.Message{
		ID:       rec.Int64("id"),
		Content:  rec.String("content"),
		SentAt:   rec.Time("sent_at"),
		UserID:   rec.Int64("user_id"),
		ThreadID: rec.Int64("thread_id"),
		UserName: rec.String("username"),
	}
}
