package cli

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/storage"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("test-secret-key-123"))
	require.NoError(t, err)
	return token
}

func authRecorder() *storage.AuthStorageMock {
	return &storage.AuthStorageMock{
		SaveAuthFunc:   func(ctx context.Context, auth *storage.AuthData) error { return nil },
		DeleteAuthFunc: func(ctx context.Context) error { return nil },
	}
}

func TestTokenClaims(t *testing.T) {
	exp := fixedNow.Add(time.Hour)
	gotExp, sub, ok := tokenClaims(signedToken(t, "teacher-1", exp))
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), gotExp)
	assert.Equal(t, "teacher-1", sub)

	_, _, ok = tokenClaims("not-a-jwt")
	assert.False(t, ok)
}

func TestCli_runTokenSet_FromArgument(t *testing.T) {
	out := newCapturedIO()
	auth := authRecorder()
	c := newTestCli(t, out)
	c.auth = auth

	exp := fixedNow.Add(24 * time.Hour)
	token := signedToken(t, "teacher-1", exp)
	require.NoError(t, c.runTokenSet(context.Background(), token))

	require.Len(t, auth.SaveAuthCalls(), 1)
	saved := auth.SaveAuthCalls()[0].Auth
	assert.Equal(t, token, saved.AccessToken)
	assert.Equal(t, "teacher-1", saved.Subject)
	assert.Equal(t, exp.Unix(), saved.ExpiresAt)
	assert.Empty(t, out.ReadPasswordCalls())
	assert.Contains(t, out.Output(), "Access token saved")
	assert.Contains(t, out.Output(), "Subject: teacher-1")
}

func TestCli_runTokenSet_Prompt(t *testing.T) {
	out := newCapturedIO("  opaque-token  ")
	auth := authRecorder()
	c := newTestCli(t, out)
	c.auth = auth

	require.NoError(t, c.runTokenSet(context.Background(), ""))

	require.Len(t, out.ReadPasswordCalls(), 1)
	require.Len(t, auth.SaveAuthCalls(), 1)
	assert.Equal(t, "opaque-token", auth.SaveAuthCalls()[0].Auth.AccessToken)
	assert.Zero(t, auth.SaveAuthCalls()[0].Auth.ExpiresAt)
	assert.Contains(t, out.Output(), "not a JWT")
}

func TestCli_runTokenSet_Rejects(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		auth := authRecorder()
		c := newTestCli(t, newCapturedIO(""))
		c.auth = auth

		err := c.runTokenSet(context.Background(), "")
		require.Error(t, err)
		assert.Empty(t, auth.SaveAuthCalls())
	})

	t.Run("expired", func(t *testing.T) {
		auth := authRecorder()
		c := newTestCli(t, newCapturedIO())
		c.auth = auth

		err := c.runTokenSet(context.Background(), signedToken(t, "teacher-1", fixedNow.Add(-time.Minute)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
		assert.Empty(t, auth.SaveAuthCalls())
	})
}

func TestCli_runTokenClear(t *testing.T) {
	out := newCapturedIO()
	auth := authRecorder()
	c := newTestCli(t, out)
	c.auth = auth

	require.NoError(t, c.runTokenClear(context.Background()))
	assert.Len(t, auth.DeleteAuthCalls(), 1)
	assert.Contains(t, out.Output(), "Access token removed")
}

func TestConfigToken_OverridesStoredToken(t *testing.T) {
	stored := &storage.AuthStorageMock{
		GetAuthFunc: func(ctx context.Context) (*storage.AuthData, error) {
			return &storage.AuthData{AccessToken: "stored"}, nil
		},
	}
	token := signedToken(t, "ci", fixedNow.Add(time.Hour))
	auth := &configToken{AuthStorage: stored, token: token}

	got, err := auth.GetAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, got.AccessToken)
	assert.Equal(t, "ci", got.Subject)
	assert.Empty(t, stored.GetAuthCalls())
}
