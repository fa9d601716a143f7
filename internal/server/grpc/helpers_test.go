package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSecret = "grpc-test-secret"

type testEnv struct {
	conn  *grpc.ClientConn
	store *storage.Storage
	users *services.UserService
}

// newTestEnv serves the Forum service over an in-memory listener backed by
// an in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.Open(context.Background(), "sqlite", ":memory:", nil)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret

	m := repomanager.NewRepositoryManager()
	users := services.NewUserService(store, m, cfg, nil)
	forum := services.NewForumService(store, m, cfg, nil)
	avatars := services.NewAvatarService(cfg)

	srv, err := NewGRPCServer("bufnet", nil, users, forum, avatars, cfg.SecretKey)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
		_ = store.Close()
	})

	return &testEnv{conn: conn, store: store, users: users}
}

func (e *testEnv) call(t *testing.T, ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := forumpb.NewStruct(in)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = e.conn.Invoke(ctx, forumpb.FullMethod(method), req, out)
	return out, err
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

// signUp registers name and logs in, returning the user id and access token.
func (e *testEnv) signUp(t *testing.T, name string) (int64, string) {
	t.Helper()
	ctx := context.Background()
	pw := "secret-" + name

	_, err := e.call(t, ctx, forumpb.MethodRegister, map[string]any{
		"username": name, "password": pw, "password2": pw,
	})
	require.NoError(t, err)

	out, err := e.call(t, ctx, forumpb.MethodLogin, map[string]any{"username": name, "password": pw})
	require.NoError(t, err)

	return forumpb.Int64(forumpb.Struct(out, "user"), "id"), forumpb.String(out, "access_token")
}

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }
