package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
	"github.com/stretchr/testify/require"
)

type env struct {
	store *storage.Storage
	cfg   *config.Config
	users *UserService
	forum *ForumService
	clock time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := storage.Open(context.Background(), "sqlite", ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	m := repomanager.NewRepositoryManager()
	e := &env{
		store: s,
		cfg:   cfg,
		users: NewUserService(s, m, cfg, nil),
		forum: NewForumService(s, m, cfg, nil),
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	// every message gets a distinct, increasing timestamp
	e.forum.now = func() time.Time {
		e.clock = e.clock.Add(time.Second)
		return e.clock
	}
	return e
}

func (e *env) register(t *testing.T, name string) int64 {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, "pw-"+name)
	require.NoError(t, err)
	return u.ID
}
