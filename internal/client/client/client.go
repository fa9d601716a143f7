package client

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
)

type Client interface {
	Close() error
	LoggedIn() bool
	Register(ctx context.Context, username, password, confirm string) error
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Threads(ctx context.Context, page, size int) (*models.ThreadPage, error)
	Thread(ctx context.Context, id int64) (*models.Thread, error)
	Search(ctx context.Context, query string) ([]models.SearchHit, error)
	CreateThread(ctx context.Context, title, content, tag string) (int64, error)
	PostMessage(ctx context.Context, threadID int64, content string) (int64, error)
	EditMessage(ctx context.Context, id int64, content string) error
	RemoveMessage(ctx context.Context, id int64) error
	Profile(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, bio string, image *string) error
	RequestAvatarUpload(ctx context.Context, filename string) (string, string, error)
	SetRole(ctx context.Context, username, role string) error
}

var _ Client = (*GRPCClient)(nil)
