package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake connection
 *************/

type fakeConn struct {
	calls  []string
	invoke func(ctx context.Context, method string, req *structpb.Struct, reply *structpb.Struct) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.calls = append(f.calls, method)
	return f.invoke(ctx, method, args.(*structpb.Struct), reply.(*structpb.Struct))
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streams not supported")
}

func tokenFrom(ctx context.Context) string {
	md, _ := metadata.FromOutgoingContext(ctx)
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
		return v[0]
	}
	return ""
}

func fill(reply *structpb.Struct, fields map[string]any) error {
	s, err := forumpb.NewStruct(fields)
	if err != nil {
		return err
	}
	reply.Fields = s.Fields
	return nil
}

var expiredErr = status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())

func TestWithAccessToken_ReplacesExisting(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "old", "x-other", "keep")
	ctx = withAccessToken(ctx, "new")

	md, _ := metadata.FromOutgoingContext(ctx)
	assert.Equal(t, []string{"new"}, md.Get(common.AccessTokenHeaderName))
	assert.Equal(t, []string{"keep"}, md.Get("x-other"))
}

func TestAccessTokenInterceptor_RefreshesOnceOnExpiry(t *testing.T) {
	conn := &fakeConn{invoke: func(_ context.Context, method string, req, reply *structpb.Struct) error {
		require.Equal(t, forumpb.FullMethod(forumpb.MethodRefreshToken), method)
		require.Equal(t, "r1", forumpb.String(req, "refresh_token"))
		return fill(reply, map[string]any{"access_token": "new", "refresh_token": "r2"})
	}}
	c := &GRPCClient{cc: conn, accessToken: "old", refreshToken: "r1"}

	var seen []string
	invoker := func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
		tok := tokenFrom(ctx)
		seen = append(seen, tok)
		if tok == "old" {
			return expiredErr
		}
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), "/x", nil, nil, nil, invoker)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, seen)
	assert.Len(t, conn.calls, 1)

	access, refresh := c.tokens()
	assert.Equal(t, "new", access)
	assert.Equal(t, "r2", refresh)
}

func TestAccessTokenInterceptor_NoRefreshOnOtherErrors(t *testing.T) {
	conn := &fakeConn{invoke: func(context.Context, string, *structpb.Struct, *structpb.Struct) error {
		t.Fatal("refresh must not be attempted")
		return nil
	}}
	c := &GRPCClient{cc: conn, accessToken: "a", refreshToken: "r"}

	for _, want := range []error{
		status.Error(codes.Unauthenticated, "invalid token"),
		status.Error(codes.NotFound, "not found"),
		errors.New("plain"),
	} {
		invoker := func(context.Context, string, any, any, *grpc.ClientConn, ...grpc.CallOption) error { return want }
		err := c.accessTokenInterceptor(context.Background(), "/x", nil, nil, nil, invoker)
		assert.Equal(t, want, err)
	}
}

func TestAccessTokenInterceptor_RefreshFailureEndsSession(t *testing.T) {
	refreshErr := status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	conn := &fakeConn{invoke: func(context.Context, string, *structpb.Struct, *structpb.Struct) error {
		return refreshErr
	}}
	c := &GRPCClient{cc: conn, accessToken: "old", refreshToken: "r1"}

	calls := 0
	invoker := func(context.Context, string, any, any, *grpc.ClientConn, ...grpc.CallOption) error {
		calls++
		return expiredErr
	}

	err := c.accessTokenInterceptor(context.Background(), "/x", nil, nil, nil, invoker)
	assert.Equal(t, refreshErr, err)
	assert.Equal(t, 1, calls)
	assert.False(t, c.LoggedIn())
}

func TestAccessTokenInterceptor_SkipsRefreshWhenAlreadyRotated(t *testing.T) {
	conn := &fakeConn{invoke: func(context.Context, string, *structpb.Struct, *structpb.Struct) error {
		t.Fatal("refresh must not be attempted")
		return nil
	}}
	c := &GRPCClient{cc: conn, accessToken: "fresh", refreshToken: "r2"}

	// the call was made with a token another goroutine has since replaced
	assert.NoError(t, c.refresh(context.Background(), "stale"))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		in   error
		want error
	}{
		{status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{status.Error(codes.PermissionDenied, "x"), ErrForbidden},
		{status.Error(codes.NotFound, "x"), ErrNotFound},
		{status.Error(codes.AlreadyExists, "x"), ErrAlreadyExists},
		{status.Error(codes.InvalidArgument, "title too long"), ErrInvalidInput},
		{status.Error(codes.FailedPrecondition, "x"), ErrNotConfigured},
		{status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
		{context.DeadlineExceeded, ErrUnavailable},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, c.mapError(tt.in), tt.want, "input %v", tt.in)
	}

	assert.Nil(t, c.mapError(nil))
	assert.Contains(t, c.mapError(status.Error(codes.InvalidArgument, "title too long")).Error(), "title too long")
	assert.Contains(t, c.mapError(status.Error(codes.Internal, "boom")).Error(), "rpc error")
}

func TestCall_DecodesResponses(t *testing.T) {
	conn := &fakeConn{invoke: func(_ context.Context, method string, req, reply *structpb.Struct) error {
		switch method {
		case forumpb.FullMethod(forumpb.MethodLogin):
			return fill(reply, map[string]any{
				"access_token": "a", "refresh_token": "r",
				"user": map[string]any{"id": 3, "username": forumpb.String(req, "username"), "role": "member"},
			})
		case forumpb.FullMethod(forumpb.MethodListThreads):
			return fill(reply, map[string]any{
				"threads": []any{
					map[string]any{"id": 9, "title": "Hi", "username": "alice", "tag": "go", "message_count": 2, "last_message_at": "2024-01-01T10:00:00Z"},
					map[string]any{"id": 8, "title": "Empty", "username": "bob", "message_count": 0, "last_message_at": nil},
				},
				"page": 2, "page_size": 8, "total": 10, "total_pages": 2,
			})
		case forumpb.FullMethod(forumpb.MethodLogout):
			assert.Equal(t, "r", forumpb.String(req, "refresh_token"))
			return nil
		}
		return status.Error(codes.Unimplemented, method)
	}}
	c := &GRPCClient{cc: conn}

	user, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "alice", user.UserName)
	assert.True(t, c.LoggedIn())

	page, err := c.Threads(context.Background(), 2, 8)
	require.NoError(t, err)
	require.Len(t, page.Threads, 2)
	assert.Equal(t, "go", page.Threads[0].Tag)
	require.NotNil(t, page.Threads[0].LastMessageAt)
	assert.Nil(t, page.Threads[1].LastMessageAt)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(10), page.Total)

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, c.LoggedIn())

	_, err = c.Search(context.Background(), "q")
	assert.Contains(t, err.Error(), "rpc error")
}
