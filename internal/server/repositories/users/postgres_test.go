package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "full_name", "password_hash",
		"avatar_url", "cover_image_url", "refresh_token", "watch_history",
		"created_at", "updated_at",
	}).AddRow("u-1", "alice", "alice@example.com", "Alice Example", "hash",
		"http://s3/avatar.png", "", "rt-1", []byte(`["v1","v2"]`), now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*full_name,\s*password_hash,\s*avatar_url,\s*cover_image_url\)`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("u-1", "alice", "alice@example.com", "Alice Example", "hash", "http://s3/a.png", "").
		WillReturnRows(rows)

	u := &models.User{
		ID: "u-1", Username: "alice", Email: "alice@example.com",
		FullName: "Alice Example", PasswordHash: "hash", AvatarURL: "http://s3/a.png",
	}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), &models.User{ID: "u-1"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(userRows())

	got, err := repo.GetByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByLogin error: %v", err)
	}
	if got.Username != "alice" || got.RefreshToken != "rt-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if len(got.WatchHistory) != 2 || got.WatchHistory[0] != "v1" {
		t.Fatalf("unexpected watch history: %v", got.WatchHistory)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(userRows())

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateRefreshToken_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("u-1", "rt-new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRefreshToken(context.Background(), "u-1", "rt-new"); err != nil {
		t.Fatalf("UpdateRefreshToken error: %v", err)
	}
}

func TestUpdateRefreshToken_UserGone(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+refresh_token`).
		WithArgs("ghost", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRefreshToken(context.Background(), "ghost", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestRotateRefreshToken_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1\s+AND\s+refresh_token\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("u-1", "rt-old", "rt-new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RotateRefreshToken(context.Background(), "u-1", "rt-old", "rt-new"); err != nil {
		t.Fatalf("RotateRefreshToken error: %v", err)
	}
}

func TestRotateRefreshToken_SlotMovedOn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+refresh_token`).
		WithArgs("u-1", "rt-stale", "rt-new").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RotateRefreshToken(context.Background(), "u-1", "rt-stale", "rt-new")
	if !errors.Is(err, common.ErrTokenReused) {
		t.Fatalf("expected common.ErrTokenReused, got %v", err)
	}
}

func TestUpdateAccount_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+full_name`).
		WithArgs("u-1", "Alice", "taken@example.com").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.UpdateAccount(context.Background(), "u-1", "Alice", "taken@example.com")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestWatchHistory(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"watch_history"}).AddRow([]byte(`["a","b","c"]`))
	mock.ExpectQuery(`SELECT\s+watch_history\s+FROM\s+users`).
		WithArgs("u-1").WillReturnRows(rows)

	history, err := repo.WatchHistory(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("WatchHistory error: %v", err)
	}
	if len(history) != 3 || history[2] != "c" {
		t.Fatalf("unexpected history: %v", history)
	}
}

func TestWatchHistory_UserGone(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+watch_history`).WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.WatchHistory(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
