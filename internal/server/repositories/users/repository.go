// Package users declares the repository contract for persisted account
// records.
package users

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository defines the operations the account service needs from the
// user store. Implementations return common.ErrorNotFound when a lookup
// misses and common.ErrorAlreadyExists on unique-key violations.
type Repository interface {
	// Create inserts a new user row. The caller supplies the id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByLogin finds a user whose username or email equals identifier.
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)

	// GetByID finds a user by primary key.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateRefreshToken overwrites the user's refresh-token slot.
	// Passing an empty token clears the slot (logout).
	UpdateRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken replaces the refresh-token slot only if it still
	// holds old. Returns common.ErrTokenReused when the slot has moved on,
	// which closes the concurrent-refresh window.
	RotateRefreshToken(ctx context.Context, id, old, next string) error

	// UpdatePasswordHash stores a new password hash for the user.
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// UpdateAccount changes the user's full name and email.
	UpdateAccount(ctx context.Context, id, fullName, email string) error

	// UpdateAvatar stores a new avatar URL.
	UpdateAvatar(ctx context.Context, id, url string) error

	// UpdateCoverImage stores a new cover image URL.
	UpdateCoverImage(ctx context.Context, id, url string) error

	// WatchHistory returns the user's ordered list of watched item ids.
	WatchHistory(ctx context.Context, id string) ([]string, error)
}
