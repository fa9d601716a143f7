package users

import (
	"context"
	"errors"
	"fmt"

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

const selectUser = `SELECT id, username, password_hash, profile_image, bio, role, created_at FROM users`

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	role := user.Role
	if role == "" {
		role = models.RoleMember
	}

	query := `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`

	id, err := r.db.Insert(ctx, query, user.UserName, user.PasswordHash, string(role))
	if err != nil {
		if errors.Is(err, storage.ErrConstraintViolation) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}

	user.ID = id
	user.Role = role
	return user, nil
}

func (r *SQLRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	rec, err := r.db.QueryOne(ctx, selectUser+` WHERE username = ?`, userName)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	rec, err := r.db.QueryOne(ctx, selectUser+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

func (r *SQLRepository) UpdateProfile(ctx context.Context, id int64, image *string, bio string) error {
	query := `UPDATE users SET profile_image = COALESCE(?, profile_image), bio = ? WHERE id = ?`

	var img any
	if image != nil {
		img = *image
	}

	n, err := r.db.Execute(ctx, query, img, bio, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) SetRole(ctx context.Context, id int64, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	n, err := r.db.Execute(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Stats(ctx context.Context, id int64) (*models.UserStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM threads WHERE user_id = ?) AS thread_count,
		(SELECT COUNT(*) FROM messages WHERE user_id = ?) AS message_count`

	rec, err := r.db.QueryOne(ctx, query, id, id)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		ThreadCount:  rec.Int64("thread_count"),
		MessageCount: rec.Int64("message_count"),
	}, nil
}

func toUser(rec storage.Record) *models.User {
	return &models.User{
		ID:           rec.Int64("id"),
		UserName:     rec.String("username"),
		PasswordHash: rec.Bytes("password_hash"),
		ProfileImage: rec.StringPtr("profile_image"),
		Bio:          rec.StringPtr("bio"),
		Role:         models.Role(rec.String("role")),
		CreatedAt:    rec.Time("created_at"),
	}
}
