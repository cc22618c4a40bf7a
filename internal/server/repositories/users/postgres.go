package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, watch_history, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var history []byte
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.AvatarURL, &user.CoverImageURL,
		&user.RefreshToken, &history, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &user.WatchHistory); err != nil {
			return nil, fmt.Errorf("watch history decode error: %w", err)
		}
	}
	return user, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (duplicate username or email).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.PasswordHash, user.AvatarURL, user.CoverImageURL).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, common.ErrorNotFound, id, token)
}

// RotateRefreshToken is a compare-and-swap on the refresh-token slot: the
// write succeeds only while the slot still holds old. Two concurrent
// refreshes with the same token therefore cannot both rotate.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, id, old, next string) error {
	query := `UPDATE users SET refresh_token = $3, updated_at = now() WHERE id = $1 AND refresh_token = $2`
	return r.execExpectingRow(ctx, query, common.ErrTokenReused, id, old, next)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, common.ErrorNotFound, id, hash)
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	query := `UPDATE users SET full_name = $2, email = $3, updated_at = now() WHERE id = $1`
	err := r.execExpectingRow(ctx, query, common.ErrorNotFound, id, fullName, email)
	if err != nil && isUniqueViolation(err) {
		return common.ErrorAlreadyExists
	}
	return err
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, common.ErrorNotFound, id, url)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	query := `UPDATE users SET cover_image_url = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, common.ErrorNotFound, id, url)
}

func (r *PostgresRepository) WatchHistory(ctx context.Context, id string) ([]string, error) {
	query := `SELECT watch_history FROM users WHERE id = $1`

	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	history := []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &history); err != nil {
			return nil, fmt.Errorf("watch history decode error: %w", err)
		}
	}
	return history, nil
}

// execExpectingRow runs an UPDATE that must touch exactly one row and maps
// a zero-row result to noRowErr.
func (r *PostgresRepository) execExpectingRow(ctx context.Context, query string, noRowErr error, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return noRowErr
	}
	return nil
}
