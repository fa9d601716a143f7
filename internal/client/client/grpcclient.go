package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	dialOptions []grpc.DialOption
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// serializes refreshes so a rotated refresh token is used only once
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, _ := s.tokens()
	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)

	if err == nil || !isTokenExpired(err) {
		return err
	}

	if err := s.refresh(ctx, accessToken); err != nil {
		return err
	}

	// TOKENS REFRESHED, creating context with new Access Token
	accessToken, _ = s.tokens()
	return invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token for a new pair unless another call
// already replaced the stale access token.
func (s *GRPCClient) refresh(ctx context.Context, stale string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	accessToken, refreshToken := s.tokens()
	if accessToken != stale {
		return nil
	}
	if refreshToken == "" {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	req, err := forumpb.Marshal(&forumpb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	wire := new(structpb.Struct)
	if err := s.cc.Invoke(ctx, forumpb.FullMethod(forumpb.MethodRefreshToken), req, wire); err != nil {
		// the session is over; further calls would fail the same way
		s.setTokens("", "")
		return err
	}

	var resp forumpb.RefreshTokenResponse
	if err := forumpb.Unmarshal(wire, &resp); err != nil {
		return err
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// NewGRPCClient connects to endpointURL. Each call is bounded by timeout
// when it is positive. Extra dial options are appended to the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout, dialOptions: opts}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) LoggedIn() bool {
	_, refreshToken := s.tokens()
	return refreshToken != ""
}

// call sends in as method's request and decodes the response into out,
// which may be nil.
func (s *GRPCClient) call(ctx context.Context, method string, in, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := forumpb.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := s.cc.Invoke(ctx, forumpb.FullMethod(method), req, resp); err != nil {
		return s.mapError(err)
	}
	if out == nil {
		return nil
	}
	if err := forumpb.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, username, password, confirm string) error {
	return s.call(ctx, forumpb.MethodRegister, &forumpb.RegisterRequest{
		Username:  username,
		Password:  password,
		Password2: confirm,
	}, nil)
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp forumpb.LoginResponse
	err := s.call(ctx, forumpb.MethodLogin, &forumpb.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	user := decodeUser(&resp.User)
	return &user, nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refreshToken := s.tokens()
	s.setTokens("", "")
	if refreshToken == "" {
		return nil
	}
	return s.call(ctx, forumpb.MethodLogout, &forumpb.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (s *GRPCClient) Threads(ctx context.Context, page, size int) (*models.ThreadPage, error) {
	var resp forumpb.ListThreadsResponse
	err := s.call(ctx, forumpb.MethodListThreads, &forumpb.ListThreadsRequest{Page: int64(page), Size: int64(size)}, &resp)
	if err != nil {
		return nil, err
	}
	return &models.ThreadPage{
		Threads:    decodeSummaries(resp.Threads),
		Page:       int(resp.Page),
		PageSize:   int(resp.PageSize),
		Total:      resp.Total,
		TotalPages: int(resp.TotalPages),
	}, nil
}

func (s *GRPCClient) Thread(ctx context.Context, id int64) (*models.Thread, error) {
	var resp forumpb.GetThreadResponse
	if err := s.call(ctx, forumpb.MethodGetThread, &forumpb.IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &models.Thread{
		ID:       resp.Thread.ID,
		Title:    resp.Thread.Title,
		UserID:   resp.Thread.UserID,
		Messages: decodeMessages(resp.Messages),
	}, nil
}

func (s *GRPCClient) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	var resp forumpb.SearchResponse
	if err := s.call(ctx, forumpb.MethodSearch, &forumpb.SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	hits := make([]models.SearchHit, 0, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		hits = append(hits, models.SearchHit{
			Message:     decodeMessage(&r.Message),
			ThreadTitle: r.ThreadTitle,
			Tag:         deref(r.Tag),
		})
	}
	return hits, nil
}

func (s *GRPCClient) CreateThread(ctx context.Context, title, content, tag string) (int64, error) {
	var resp forumpb.IDResponse
	err := s.call(ctx, forumpb.MethodCreateThread, &forumpb.CreateThreadRequest{Title: title, Content: content, Tag: tag}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (s *GRPCClient) PostMessage(ctx context.Context, threadID int64, content string) (int64, error) {
	var resp forumpb.IDResponse
	err := s.call(ctx, forumpb.MethodPostMessage, &forumpb.PostMessageRequest{ThreadID: threadID, Content: content}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (s *GRPCClient) EditMessage(ctx context.Context, id int64, content string) error {
	return s.call(ctx, forumpb.MethodEditMessage, &forumpb.EditMessageRequest{ID: id, Content: content}, nil)
}

func (s *GRPCClient) RemoveMessage(ctx context.Context, id int64) error {
	return s.call(ctx, forumpb.MethodRemoveMessage, &forumpb.IDRequest{ID: id}, nil)
}

// Profile fetches username's profile, or the caller's own when username is
// empty.
func (s *GRPCClient) Profile(ctx context.Context, username string) (*models.Profile, error) {
	var resp forumpb.GetProfileResponse
	if err := s.call(ctx, forumpb.MethodGetProfile, &forumpb.GetProfileRequest{Username: username}, &resp); err != nil {
		return nil, err
	}
	return &models.Profile{
		User:         decodeUser(&resp.User),
		ThreadCount:  resp.Stats.Threads,
		MessageCount: resp.Stats.Messages,
		Threads:      decodeSummaries(resp.Threads),
		Messages:     decodeMessages(resp.Messages),
	}, nil
}

// UpdateProfile sets the bio and, when image is non-nil, the profile image.
func (s *GRPCClient) UpdateProfile(ctx context.Context, bio string, image *string) error {
	return s.call(ctx, forumpb.MethodUpdateProfile, &forumpb.UpdateProfileRequest{Bio: bio, ProfileImage: image}, nil)
}

// RequestAvatarUpload returns the object key and presigned upload URL for a
// new avatar.
func (s *GRPCClient) RequestAvatarUpload(ctx context.Context, filename string) (string, string, error) {
	var resp forumpb.AvatarUploadResponse
	if err := s.call(ctx, forumpb.MethodRequestAvatarUpload, &forumpb.AvatarUploadRequest{Filename: filename}, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (s *GRPCClient) SetRole(ctx context.Context, username, role string) error {
	return s.call(ctx, forumpb.MethodSetRole, &forumpb.SetRoleRequest{Username: username, Role: role}, nil)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.FailedPrecondition:
		return ErrNotConfigured
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
