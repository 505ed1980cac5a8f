package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amiyamandal-dev/newscms/internal/auth"
	"github.com/amiyamandal-dev/newscms/internal/domain"
)

const testJWTSecret = "test-secret-key-of-at-least-32-chars!"

func newTestAuthService(t *testing.T, username, password string) (*AuthService, *auth.JWTManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager(testJWTSecret, time.Hour)
	credentials := auth.NewStaticCredentials(username, string(hash))

	return NewAuthService(credentials, jwtManager, newTestLogger(t)), jwtManager
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, jwtManager := newTestAuthService(t, "admin", "correct-horse")

	resp, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, "admin", resp.Username)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := jwtManager.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, "admin", "correct-horse")

	_, err := svc.Login(context.Background(), "admin", "wrong-horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	svc, _ := newTestAuthService(t, "admin", "correct-horse")

	_, err := svc.Login(context.Background(), "intruder", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// Both failure modes must be indistinguishable to the caller.
func TestLoginFailureModesAreIdentical(t *testing.T) {
	svc, _ := newTestAuthService(t, "admin", "correct-horse")
	ctx := context.Background()

	_, wrongUserErr := svc.Login(ctx, "intruder", "correct-horse")
	_, wrongPassErr := svc.Login(ctx, "admin", "wrong-horse")

	assert.Equal(t, wrongUserErr, wrongPassErr)
}
