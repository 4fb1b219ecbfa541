// Package users authenticates dev server accounts and manages their token
// pairs. Refresh tokens are single use: every refresh rotates the pair.
package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/auth"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	repo                         Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func (s *Service) RefreshTokenValidity() time.Duration {
	return s.refreshTokenValidityDuration
}

func (s *Service) checkPassword(password []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(password, candidate) == 1
}

func (s *Service) issue(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, ErrInternal
	}

	refreshToken := uuid.NewString()
	if err := s.repo.CreateRefreshToken(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, ErrInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) Login(ctx context.Context, email string, password []byte) (*TokenPair, error) {

	user, err := s.repo.GetUserByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, ErrInternal
	}

	if !s.checkPassword(user.Password, password) {
		return nil, ErrUnauthorized
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// is revoked, so a second use fails with ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	rt, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, ErrInternal
	}

	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		// lost a race with a concurrent refresh of the same token
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return s.issue(ctx, user)
}

// Logout revokes refreshToken. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil && !errors.Is(err, ErrNotFound) {
		return ErrInternal
	}
	return nil
}

// Authenticate resolves the user behind an access token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
