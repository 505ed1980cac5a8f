package domain

import (
	"errors"
)

var (
	// Article errors
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateSlug   = errors.New("article with this title already exists")
	ErrInvalidArticle  = errors.New("invalid article")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Image store errors
	ErrImageUploadFailed     = errors.New("image upload failed")
	ErrImageStoreUnavailable = errors.New("image store unavailable")
)
