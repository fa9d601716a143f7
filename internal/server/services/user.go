// Package services contains the forum's domain operations. This file
// implements UserService: registration, login and token refresh, profiles,
// statistics and roles.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/cryptox"
	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account operations:
// - Register / Login: create users and verify credentials
// - RefreshToken / Logout: rotate and revoke server-stored refresh tokens
// - profile, statistics and role management
type UserService struct {
	store                        *storage.Storage
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration

	// hashed once; compared against on unknown usernames so that a miss
	// costs as much as a wrong password
	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(store *storage.Storage, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{
		store:                        store,
		repomanager:                  m,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register hashes password and creates a member account. A taken username
// yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.store.Gateway())
	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, Role: models.RoleMember})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID, "username", u.UserName)
	return u, nil
}

// Login verifies the credentials and, on success, returns a new TokenPair
// together with the user. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, *models.User, error) {
	repo := s.repomanager.Users(s.store.Gateway())

	user, err := repo.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(s.getDummyHash(), password)
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		s.logger.Debug(ctx, "wrong password", "user_id", user.ID)
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.store.Gateway())
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield common.ErrRefreshTokenExpired,
// unknown ones common.ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.store.Gateway())

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := s.store.WithTx(ctx, func(ctx context.Context, tx *storage.Gateway) error {
		if err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.store.Gateway()).Delete(ctx, refreshToken)
}

// PurgeExpiredTokens deletes refresh tokens past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.store.Gateway()).DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug(ctx, "expired refresh tokens purged", "count", n)
	}
	return n, nil
}

// GetUser returns the user called username. No match yields
// common.ErrorNotFound, an ambiguous one common.ErrorMultipleRows.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.store.Gateway()).GetByUserName(ctx, username)
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.store.Gateway()).GetByID(ctx, id)
}

// UserThreads lists the threads started by the user, newest first.
func (s *UserService) UserThreads(ctx context.Context, userID int64) ([]models.ThreadSummary, error) {
	return s.repomanager.Threads(s.store.Gateway()).ListByUser(ctx, userID)
}

// UserMessages lists the user's messages, newest first.
func (s *UserService) UserMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	return s.repomanager.Messages(s.store.Gateway()).ListByUser(ctx, userID)
}

func (s *UserService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return s.repomanager.Users(s.store.Gateway()).Stats(ctx, userID)
}

// UpdateProfile replaces the bio and, when imageRef is non-nil, the profile
// image reference.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, imageRef *string, bio string) error {
	if err := s.repomanager.Users(s.store.Gateway()).UpdateProfile(ctx, userID, imageRef, bio); err != nil {
		return err
	}
	s.logger.Info(ctx, "profile updated", "user_id", userID, "image_changed", imageRef != nil)
	return nil
}

func (s *UserService) UserRole(ctx context.Context, userID int64) (models.Role, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// SetUserRole changes the role of userID on behalf of actorID, who must be
// an admin.
func (s *UserService) SetUserRole(ctx context.Context, actorID, userID int64, role models.Role) error {
	actor, err := s.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	if !actor.IsAdmin() {
		return common.ErrorForbidden
	}

	if err := s.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.logger.Info(ctx, "role assigned", "actor_id", actorID, "user_id", userID, "role", role)
	return nil
}

// SetRole changes a user's role without an authorization check. It is meant
// for operator tooling.
func (s *UserService) SetRole(ctx context.Context, userID int64, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}
	return s.repomanager.Users(s.store.Gateway()).SetRole(ctx, userID, role)
}

// --- helpers below ---

func (s *UserService) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = cryptox.HashPassword(string(common.GenerateRandByteArray(16)))
	})
	return s.dummyHash
}

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(auth.Identity{
		UserID:   user.ID,
		UserName: user.UserName,
		Role:     string(user.Role),
	}, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, db *storage.Gateway) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
