package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-api/internal/core/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userRowColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`^INSERT INTO users \(username, email, password_hash, created_at\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id$`).
		WithArgs("alice", "alice@x.com", "verifier", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	in := &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "verifier", CreatedAt: now}
	got, err := repo.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Zero(t, in.ID, "input must not be mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	cases := map[string]error{
		"sqlite":   sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
		"postgres": &pgconn.PgError{Code: "23505"},
	}
	for name, driverErr := range cases {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(`^INSERT INTO users`).WillReturnError(driverErr)

			_, err := repo.Create(context.Background(), &domain.User{Username: "alice"})
			assert.ErrorIs(t, err, domain.ErrUserExists)
		})
	}
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`^INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserExists)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`^SELECT id, username, email, password_hash, created_at FROM users WHERE username = \$1$`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(3), "alice", "alice@x.com", "verifier", now))

	got, err := repo.FindByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: 3, Username: "alice", Email: "alice@x.com", PasswordHash: "verifier", CreatedAt: now}, got)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1$`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users ORDER BY id$`).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(1), "alice", "alice@x.com", "v1", now).
			AddRow(int64(2), "bob", "bob@x.com", "v2", now))

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestUserRepository_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users ORDER BY id$`).WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`^UPDATE users SET username = \$1, email = \$2 WHERE id = \$3$`).
		WithArgs("alice2", "a2@x.com", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE users`).
		WithArgs("ghost", "g@x.com", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^UPDATE users`).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	assert.NoError(t, repo.Update(context.Background(), &domain.User{ID: 1, Username: "alice2", Email: "a2@x.com"}))
	assert.ErrorIs(t, repo.Update(context.Background(), &domain.User{ID: 99, Username: "ghost", Email: "g@x.com"}), domain.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), &domain.User{ID: 1, Username: "bob", Email: "b@x.com"}), domain.ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_RemovesTasksInTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM tasks WHERE user_id = \$1$`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`^DELETE FROM users WHERE id = \$1$`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFoundRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM tasks`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM users`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
