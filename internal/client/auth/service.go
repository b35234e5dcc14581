// Package auth manages the client session: login, logout and access-token
// retrieval for every authenticated call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/pkg/api"
)

// ErrNotAuthenticated is returned when no usable session exists.
var ErrNotAuthenticated = errors.New("not authenticated")

//go:generate go tool moq -out token_source_mock.go . TokenSource

// TokenSource yields a valid access token for authenticated calls. The sync
// engine's callers (orchestrator, accessors, agent) depend on this narrow
// surface rather than the whole auth service.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Service implements the session lifecycle over the credential store. The
// same store file is read by the background agent, which has no interactive
// login path of its own.
type Service struct {
	api    httpclient.AuthAPI
	store  storage.AuthStorage
	logger *slog.Logger
}

var _ TokenSource = (*Service)(nil)

// NewService creates an auth service.
func NewService(apiClient httpclient.AuthAPI, store storage.AuthStorage, logger *slog.Logger) *Service {
	return &Service{
		api:    apiClient,
		store:  store,
		logger: logger,
	}
}

// Login authenticates against the server and persists the session.
func (s *Service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	resp, err := s.api.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	auth := &storage.AuthData{
		Username:     username,
		UserID:       resp.UserID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryOf(resp),
	}
	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("logged in", "username", username, "user_id", resp.UserID)
	return auth, nil
}

// Logout removes the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Session returns the current session, refreshing the access token if it has
// expired and a refresh token is available.
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if time.Now().Unix() < auth.ExpiresAt {
		return auth, nil
	}

	if auth.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := s.api.Refresh(ctx, api.RefreshRequest{RefreshToken: auth.RefreshToken})
	if err != nil {
		s.logger.Warn("token refresh failed", "error", err)
		return nil, ErrNotAuthenticated
	}

	auth.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		auth.RefreshToken = resp.RefreshToken
	}
	auth.ExpiresAt = expiryOf(resp)

	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	return auth, nil
}

// AccessToken implements TokenSource.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	auth, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}

// IsAuthenticated reports whether a non-expired session exists (without
// attempting a refresh).
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return false, nil
		}
		return false, err
	}
	return time.Now().Unix() < auth.ExpiresAt, nil
}

// expiryOf derives the session expiry, trusting the exp claim inside the JWT
// over the advertised ExpiresIn when both are present.
func expiryOf(resp *api.TokenResponse) int64 {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	// Signature verification is the server's job; the client only needs the
	// expiry claim for scheduling a refresh.
	if _, _, err := parser.ParseUnverified(resp.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Unix()
		}
	}
	return time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix()
}
