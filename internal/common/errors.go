// Package common defines shared constants and sentinel errors used across
// accountkeeper components. Callers should use errors.Is to match these
// values; the HTTP layer maps them to status codes and response envelopes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Wrapped with a field-specific message at the point
	// of failure, e.g. fmt.Errorf("%w: email is required", ErrorValidation).
	ErrorValidation         = errors.New("validation error")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrTokenReused         = errors.New("refresh token expired or already used")

	// Object storage errors.
	ErrorUploadFailed = errors.New("upload failed")
)
