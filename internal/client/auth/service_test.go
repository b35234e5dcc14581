package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/client/storage/boltdb"
	"github.com/mwalimu/shulesync/pkg/api"
)

func newTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestService_Login(t *testing.T) {
	store := newTestStore(t)
	expiry := time.Now().Add(time.Hour)

	mockAPI := &httpclient.AuthAPIMock{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
			assert.Equal(t, "teacher1", req.Username)
			assert.Equal(t, "secret", req.Password)
			return &api.TokenResponse{
				AccessToken:  signedToken(t, expiry),
				RefreshToken: "refresh-1",
				UserID:       "u1",
				ExpiresIn:    3600,
			}, nil
		},
	}

	svc := NewService(mockAPI, store, testLogger())
	auth, err := svc.Login(context.Background(), "teacher1", "secret")
	require.NoError(t, err)

	assert.Equal(t, "teacher1", auth.Username)
	assert.Equal(t, "u1", auth.UserID)
	assert.Equal(t, expiry.Unix(), auth.ExpiresAt)

	// Session is persisted for the background agent.
	stored, err := store.GetAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth, stored)
}

func TestService_LoginFailure(t *testing.T) {
	store := newTestStore(t)
	mockAPI := &httpclient.AuthAPIMock{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
			return nil, errors.New("invalid credentials")
		},
	}

	svc := NewService(mockAPI, store, testLogger())
	_, err := svc.Login(context.Background(), "teacher1", "wrong")
	assert.Error(t, err)

	_, err = store.GetAuth(context.Background())
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestService_SessionNotAuthenticated(t *testing.T) {
	svc := NewService(&httpclient.AuthAPIMock{}, newTestStore(t), testLogger())

	_, err := svc.Session(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_SessionStillValid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:    "teacher1",
		AccessToken: "still-good",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}))

	// No refresh call must happen while the token is valid.
	svc := NewService(&httpclient.AuthAPIMock{}, store, testLogger())
	auth, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "still-good", auth.AccessToken)
}

func TestService_SessionRefreshesExpiredToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:     "teacher1",
		AccessToken:  "expired",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
	}))

	newExpiry := time.Now().Add(time.Hour)
	mockAPI := &httpclient.AuthAPIMock{
		RefreshFunc: func(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
			assert.Equal(t, "refresh-1", req.RefreshToken)
			return &api.TokenResponse{
				AccessToken:  signedToken(t, newExpiry),
				RefreshToken: "refresh-2",
				ExpiresIn:    3600,
			}, nil
		},
	}

	svc := NewService(mockAPI, store, testLogger())
	auth, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", auth.RefreshToken)
	assert.Equal(t, newExpiry.Unix(), auth.ExpiresAt)

	// Refreshed session is persisted.
	stored, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.AccessToken, stored.AccessToken)
}

func TestService_SessionRefreshFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:     "teacher1",
		AccessToken:  "expired",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
	}))

	mockAPI := &httpclient.AuthAPIMock{
		RefreshFunc: func(ctx context.Context, req api.RefreshRequest) (*api.TokenResponse, error) {
			return nil, errors.New("refresh token revoked")
		},
	}

	svc := NewService(mockAPI, store, testLogger())
	_, err := svc.Session(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_SessionExpiredNoRefreshToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:    "teacher1",
		AccessToken: "expired",
		ExpiresAt:   time.Now().Add(-time.Minute).Unix(),
	}))

	svc := NewService(&httpclient.AuthAPIMock{}, store, testLogger())
	_, err := svc.Session(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_Logout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{Username: "teacher1"}))

	svc := NewService(&httpclient.AuthAPIMock{}, store, testLogger())
	require.NoError(t, svc.Logout(ctx))

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_AccessToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:    "teacher1",
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}))

	svc := NewService(&httpclient.AuthAPIMock{}, store, testLogger())
	token, err := svc.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestService_IsAuthenticated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewService(&httpclient.AuthAPIMock{}, store, testLogger())

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{
		Username:  "teacher1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}))

	ok, err = svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpiryOf_FallsBackToExpiresIn(t *testing.T) {
	resp := &api.TokenResponse{AccessToken: "not-a-jwt", ExpiresIn: 120}

	got := expiryOf(resp)
	want := time.Now().Add(120 * time.Second).Unix()
	assert.InDelta(t, want, got, 2)
}
