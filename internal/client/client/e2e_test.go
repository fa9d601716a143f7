package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	gs "github.com/dmitrijs2005/gophforum/internal/server/grpc"
)

func startServer(t *testing.T) *GRPCClient {
	t.Helper()

	store, err := storage.Open(context.Background(), "sqlite", ":memory:", nil)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	m := repomanager.NewRepositoryManager()
	srv, err := gs.NewGRPCServer("bufnet", nil,
		services.NewUserService(store, m, cfg, nil),
		services.NewForumService(store, m, cfg, nil),
		services.NewAvatarService(cfg),
		cfg.SecretKey)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
		_ = store.Close()
	})
	return c
}

func TestGRPCClient_EndToEnd(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", "wonderland", "wonderland"))
	assert.ErrorIs(t, c.Register(ctx, "alice", "wonderland", "wonderland"), ErrAlreadyExists)
	assert.ErrorIs(t, c.Register(ctx, "bob", "pass", "word"), ErrInvalidInput)

	_, err := c.CreateThread(ctx, "t", "c", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Login(ctx, "alice", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)

	user, err := c.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "member", user.Role)

	id, err := c.CreateThread(ctx, "Gophers", "Who *likes* Go?", "go")
	require.NoError(t, err)

	_, err = c.PostMessage(ctx, id, "me")
	require.NoError(t, err)

	thread, err := c.Thread(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Gophers", thread.Title)
	require.Len(t, thread.Messages, 2)
	assert.Contains(t, thread.Messages[0].ContentHTML, "<em>likes</em>")
	assert.False(t, thread.Messages[0].SentAt.IsZero())

	require.NoError(t, c.EditMessage(ctx, thread.Messages[1].ID, "me too"))

	page, err := c.Threads(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Threads, 1)
	assert.Equal(t, int64(2), page.Threads[0].MessageCount)
	assert.Equal(t, "go", page.Threads[0].Tag)

	hits, err := c.Search(ctx, "too")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Gophers", hits[0].ThreadTitle)

	require.NoError(t, c.UpdateProfile(ctx, "I like Go", nil))
	profile, err := c.Profile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "I like Go", profile.User.Bio)
	assert.Equal(t, int64(1), profile.ThreadCount)
	assert.Equal(t, int64(2), profile.MessageCount)

	_, _, err = c.RequestAvatarUpload(ctx, "me.png")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, c.SetRole(ctx, "alice", "admin"), ErrForbidden)

	require.NoError(t, c.RemoveMessage(ctx, thread.Messages[1].ID))
	assert.ErrorIs(t, c.RemoveMessage(ctx, thread.Messages[1].ID), ErrNotFound)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.LoggedIn())
	_, err = c.Profile(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
