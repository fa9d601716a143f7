package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/forumpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *forumpb.RegisterRequest) (*forumpb.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)

	if err := validateUserName(username); err != nil {
		return nil, toStatus(err)
	}
	if err := validatePasswords(req.Password, req.Password2); err != nil {
		return nil, toStatus(err)
	}

	user, err := s.users.Register(ctx, username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	return &forumpb.RegisterResponse{User: toUser(user)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *forumpb.LoginRequest) (*forumpb.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	pair, user, err := s.users.Login(ctx, username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	return &forumpb.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUser(user),
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *forumpb.RefreshTokenRequest) (*forumpb.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "refresh token", err)
	}

	return &forumpb.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *forumpb.RefreshTokenRequest) (*forumpb.Empty, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, "logout", err)
	}
	return &forumpb.Empty{}, nil
}
