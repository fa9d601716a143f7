package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetProfile returns the profile named by req.Username, or the caller's own
// when it is empty.
func (s *GRPCServer) GetProfile(ctx context.Context, req *forumpb.GetProfileRequest) (*forumpb.GetProfileResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	var (
		user *models.User
		err  error
	)
	if name := strings.TrimSpace(req.Username); name != "" {
		user, err = s.users.GetUser(ctx, name)
	} else {
		user, err = s.users.GetUserByID(ctx, identity.UserID)
	}
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}

	stats, err := s.users.UserStats(ctx, user.ID)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}
	threads, err := s.users.UserThreads(ctx, user.ID)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}
	messages, err := s.users.UserMessages(ctx, user.ID)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}

	u := toUser(user)
	u.AvatarURL = s.avatarURL(ctx, user)

	return &forumpb.GetProfileResponse{
		User:     u,
		Stats:    forumpb.UserStats{Threads: stats.ThreadCount, Messages: stats.MessageCount},
		Threads:  toSummaries(threads),
		Messages: toMessages(messages),
	}, nil
}

// avatarURL presigns a download URL for stored avatars. Anything else is
// returned as is.
func (s *GRPCServer) avatarURL(ctx context.Context, user *models.User) *string {
	if user.ProfileImage == nil || *user.ProfileImage == "" {
		return nil
	}
	ref := *user.ProfileImage
	if !strings.HasPrefix(ref, "avatars/") {
		return &ref
	}
	if s.avatars == nil || !s.avatars.Enabled() {
		return nil
	}
	url, err := s.avatars.PresignDownload(ctx, ref)
	if err != nil {
		s.logger.Warn(ctx, "avatar presign failed", "user_id", user.ID, "error", err)
		return nil
	}
	return &url
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *forumpb.UpdateProfileRequest) (*forumpb.Empty, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	bio := req.Bio
	if err := validateBio(bio); err != nil {
		return nil, toStatus(err)
	}

	image := req.ProfileImage
	if image != nil && strings.HasPrefix(*image, "avatars/") {
		// an uploaded avatar may only be claimed by its owner
		if !strings.HasPrefix(*image, fmt.Sprintf("avatars/%d/", identity.UserID)) {
			return nil, toStatus(fmt.Errorf("%w: avatar belongs to another user", common.ErrorValidation))
		}
	}

	if err := s.users.UpdateProfile(ctx, identity.UserID, image, bio); err != nil {
		return nil, s.fail(ctx, "update profile", err)
	}
	return &forumpb.Empty{}, nil
}

func (s *GRPCServer) RequestAvatarUpload(ctx context.Context, req *forumpb.AvatarUploadRequest) (*forumpb.AvatarUploadResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}
	if s.avatars == nil {
		return nil, toStatus(common.ErrorNotConfigured)
	}

	key, url, err := s.avatars.PresignUpload(ctx, identity.UserID, req.Filename)
	if err != nil {
		return nil, s.fail(ctx, "request avatar upload", err)
	}

	return &forumpb.AvatarUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) SetRole(ctx context.Context, req *forumpb.SetRoleRequest) (*forumpb.SetRoleResponse, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	// non-admins learn nothing about the target account
	callerRole, err := s.users.UserRole(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, toStatus(common.ErrorUnauthorized)
		}
		return nil, s.fail(ctx, "set role", err)
	}
	if callerRole != models.RoleAdmin {
		return nil, toStatus(common.ErrorForbidden)
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, toStatus(fmt.Errorf("%w: %w", common.ErrorValidation, err))
	}

	target, err := s.users.GetUser(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, s.fail(ctx, "set role", err)
	}

	if err := s.users.SetUserRole(ctx, identity.UserID, target.ID, role); err != nil {
		return nil, s.fail(ctx, "set role", err)
	}

	target.Role = role
	return &forumpb.SetRoleResponse{User: toUser(target)}, nil
}
