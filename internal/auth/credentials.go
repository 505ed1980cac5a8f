package auth

import (
	"github.com/amiyamandal-dev/newscms/internal/domain"
)

// CredentialStore looks up the stored password hash for a principal.
// Today there is a single statically configured admin; the interface keeps
// AuthService untouched if a user directory is added later.
type CredentialStore interface {
	Lookup(username string) (passwordHash string, err error)
}

// StaticCredentials holds the single configured administrative principal.
type StaticCredentials struct {
	username     string
	passwordHash string
}

// NewStaticCredentials creates a credential store for one admin principal.
// The hash is expected to be a bcrypt hash.
func NewStaticCredentials(username, passwordHash string) *StaticCredentials {
	return &StaticCredentials{
		username:     username,
		passwordHash: passwordHash,
	}
}

// Lookup returns the stored hash for the admin username. Unknown usernames
// fail with the same error as a wrong password so callers cannot tell which
// check failed.
func (s *StaticCredentials) Lookup(username string) (string, error) {
	if username != s.username {
		return "", domain.ErrInvalidCredentials
	}
	return s.passwordHash, nil
}
