package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/taskboard/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	t.Run("assigns id, role and timestamps", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u := &models.User{
			Email:     "john@example.com",
			Password:  "hashed",
			FirstName: "John",
			LastName:  "Doe",
		}
		require.NoError(t, repo.Create(context.Background(), u))

		assert.NotEmpty(t, u.ID)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.False(t, u.CreatedAt.IsZero())
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps an explicit role", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u := &models.User{Email: "admin@example.com", Role: models.RoleAdmin}
		require.NoError(t, repo.Create(context.Background(), u))
		assert.Equal(t, models.RoleAdmin, u.Role)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("john@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u1", "john@example.com", "hash", "John", "Doe", "USER", "", now, now))

		u, err := repo.GetByEmail(context.Background(), "john@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, models.RoleUser, u.Role)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	mock.ExpectQuery(`SELECT`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"projects", "tasks", "assigned_tasks"}).
			AddRow(2, 7, 3))

	c, err := repo.Counts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Projects)
	assert.Equal(t, 7, c.Tasks)
	assert.Equal(t, 3, c.AssignedTasks)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	t.Run("updates only supplied fields and re-reads", func(t *testing.T) {
		first := "Johnny"
		now := time.Now()

		mock.ExpectExec(`UPDATE users SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u1", "john@example.com", "hash", "Johnny", "Doe", "USER", "", now, now))

		u, err := repo.UpdateProfile(context.Background(), "u1", UpdateProfileParams{FirstName: &first})
		require.NoError(t, err)
		assert.Equal(t, "Johnny", u.FirstName)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means not found", func(t *testing.T) {
		first := "Johnny"
		mock.ExpectExec(`UPDATE users SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		u, err := repo.UpdateProfile(context.Background(), "missing", UpdateProfileParams{FirstName: &first})
		assert.Nil(t, u)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserUpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	mock.ExpectExec(`UPDATE users SET password = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "u1", "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepo{db: db}

	t.Run("search filters across email and names", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM users WHERE \(email ILIKE .* ORDER BY first_name ASC`).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u1", "john@example.com", "hash", "John", "Doe", "USER", "", now, now))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		users, total, err := repo.List(context.Background(), "john", 1, 10)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, 1, total)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pagination offsets by page", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users ORDER BY first_name ASC LIMIT 10 OFFSET 10`).
			WillReturnRows(sqlmock.NewRows(userColumns))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		users, total, err := repo.List(context.Background(), "", 2, 10)
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.Equal(t, 12, total)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
