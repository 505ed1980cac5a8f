package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiyamandal-dev/newscms/internal/domain"
)

const testSecret = "unit-test-secret-at-least-32-chars-long"

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, expiresAt, err := m.Generate("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute)

	token, _, err := m.Generate("admin")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	other := NewJWTManager("another-secret-that-is-32-chars-long!!", time.Hour)

	token, _, err := other.Generate("admin")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, _, err := m.Generate("admin")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCredentialLookup(t *testing.T) {
	store := NewStaticCredentials("admin", "$2a$10$fakehash")

	hash, err := store.Lookup("admin")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$fakehash", hash)

	_, err = store.Lookup("someone-else")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
