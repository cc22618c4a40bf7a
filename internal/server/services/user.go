// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, logout, and rotating the
// per-user refresh-token slot.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/storage"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the registration form fields plus paths of the
// locally staged image files. AvatarPath is mandatory, CoverImagePath may
// be empty. The staged files are the caller's to clean up.
type RegisterParams struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UserService provides the account/session operations:
// registration, login/logout, refresh-token rotation, and profile updates.
// All durable session state lives in the user row's refresh-token slot, so
// any number of service instances sharing the store and secrets can handle
// any request.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	uploader                     storage.Uploader
	accessTokenSecret            []byte
	refreshTokenSecret           []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories, the object
// storage uploader, and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, u storage.Uploader, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		uploader:                     u,
		accessTokenSecret:            []byte(cfg.AccessTokenSecret),
		refreshTokenSecret:           []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register validates the form, uploads the staged media, and creates the
// account. The avatar upload is mandatory; a failed cover-image upload
// degrades to an absent cover. Returns the sanitized created user.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	fullName := strings.TrimSpace(p.FullName)
	email := normalize(p.Email)
	username := normalize(p.Username)

	if err := validateRegistration(fullName, email, username, p.Password); err != nil {
		return nil, err
	}

	// Early duplicate check. The unique index enforced at create time
	// remains authoritative; this is just a cheaper exit.
	repo := s.repomanager.Users(s.db)
	for _, identifier := range []string{username, email} {
		_, err := repo.GetByLogin(ctx, identifier)
		if err == nil {
			return nil, common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
	}

	if p.AvatarPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrorValidation)
	}

	avatarURL, _, err := s.uploader.Upload(ctx, p.AvatarPath)
	if err != nil {
		return nil, common.ErrorUploadFailed
	}

	var coverURL string
	if p.CoverImagePath != "" {
		// optional: a failed cover upload is tolerated
		if url, _, err := s.uploader.Upload(ctx, p.CoverImagePath); err == nil {
			coverURL = url
		}
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		if _, err := repoTx.Create(ctx, user); err != nil {
			return err
		}
		// re-read what was actually persisted
		got, err := repoTx.GetByID(ctx, user.ID)
		if err != nil {
			return common.ErrorInternal
		}
		created = got
		return nil
	})
	if err != nil {
		// a late unique-constraint violation is a valid Conflict path
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return created.Sanitized(), nil
}

// Login verifies credentials for a username-or-email identifier and, on
// success, mints a token pair and persists the refresh token (overwriting
// any previous one — this is the rotation point). Returns the pair plus a
// sanitized user projection.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*TokenPair, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, normalize(identifier))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorInvalidCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	if err := repo.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, common.ErrorInternal
	}

	return pair, user.Sanitized(), nil
}

// Logout clears the persisted refresh token for the user. Idempotent:
// clearing an already-empty slot is a no-op success.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Refresh validates an incoming refresh token against the persisted slot,
// rotates it, and returns a fresh pair. Presenting a token that was already
// rotated out fails with common.ErrTokenReused: once a refresh token is
// used, the persisted value changes, so a replay cannot match.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseRefreshToken(refreshToken, s.refreshTokenSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if user.RefreshToken != refreshToken {
		return nil, common.ErrTokenReused
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	// compare-and-swap: only one of two concurrent refreshes with the same
	// token can win this write
	if err := repo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrTokenReused) {
			return nil, common.ErrTokenReused
		}
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// CurrentUser returns the sanitized user record for an authenticated id.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Sanitized(), nil
}

// ChangePassword verifies the old password and stores a hash of the new
// one. Hashing happens here and only here: the password actually changed.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrorInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// UpdateAccount changes the full name and email, re-reading the sanitized
// result.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalize(email)
	if fullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", common.ErrorValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateAccount(ctx, userID, fullName, email); err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.ErrorAlreadyExists
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		default:
			return nil, common.ErrorInternal
		}
	}
	return s.CurrentUser(ctx, userID)
}

// UpdateAvatar uploads a staged replacement avatar, persists its URL, and
// best-effort deletes the replaced object.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, userID, localPath, true)
}

// UpdateCoverImage uploads a staged replacement cover image, persists its
// URL, and best-effort deletes the replaced object.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, userID, localPath, false)
}

func (s *UserService) updateImage(ctx context.Context, userID, localPath string, avatar bool) (*models.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: image file is required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	url, _, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, common.ErrorUploadFailed
	}

	var old string
	if avatar {
		old = user.AvatarURL
		err = repo.UpdateAvatar(ctx, userID, url)
	} else {
		old = user.CoverImageURL
		err = repo.UpdateCoverImage(ctx, userID, url)
	}
	if err != nil {
		return nil, common.ErrorInternal
	}

	// best effort: the replaced object is unreachable either way
	if key := s.uploader.KeyFromURL(old); key != "" {
		_ = s.uploader.Delete(ctx, key)
	}

	return s.CurrentUser(ctx, userID)
}

// WatchHistory returns the ordered list of watched item ids.
func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]string, error) {
	repo := s.repomanager.Users(s.db)
	history, err := repo.WatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return history, nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(user, s.accessTokenSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, s.refreshTokenSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
