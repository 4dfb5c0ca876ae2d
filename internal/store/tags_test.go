package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/taskboard/internal/models"
)

func TestTagCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &TagRepo{db: db}

	t.Run("defaults the color", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tags`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tag := &models.Tag{Name: "Backend"}
		require.NoError(t, repo.Create(context.Background(), tag))

		assert.NotEmpty(t, tag.ID)
		assert.Equal(t, defaultTagColor, tag.Color)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps an explicit color", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tags`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tag := &models.Tag{Name: "Bug", Color: "#ef4444"}
		require.NoError(t, repo.Create(context.Background(), tag))
		assert.Equal(t, "#ef4444", tag.Color)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name surfaces as duplicate key", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO tags`).
			WillReturnError(fakePQError("23505", "tags_name_key"))

		err := repo.Create(context.Background(), &models.Tag{Name: "Backend"})
		assert.ErrorIs(t, err, ErrDuplicateKey)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &TagRepo{db: db}

	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, color, created_at, .* FROM tags WHERE id = \$1`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "created_at", "task_count"}).
			AddRow("g1", "Backend", "#10b981", now, 2))
	mock.ExpectQuery(`SELECT t.id, t.title, t.status, t.priority FROM task_tags tt JOIN tasks t ON t.id = tt.task_id WHERE tt.tag_id = \$1 ORDER BY t.updated_at DESC LIMIT 10`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "priority"}).
			AddRow("t1", "Fix login", "TODO", "HIGH").
			AddRow("t2", "Add index", "COMPLETED", "MEDIUM"))

	tag, err := repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, tag.TaskCount)
	require.Len(t, tag.Tasks, 2)
	assert.Equal(t, "Fix login", tag.Tasks[0].Title)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &TagRepo{db: db}

	t.Run("no changes short-circuits to a read", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT id, name, color, created_at, .* FROM tags WHERE id = \$1`).
			WithArgs("g1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "created_at", "task_count"}).
				AddRow("g1", "Backend", "#10b981", now, 0))
		mock.ExpectQuery(`SELECT t.id, t.title, t.status, t.priority FROM task_tags`).
			WithArgs("g1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "priority"}))

		tag, err := repo.Update(context.Background(), "g1", UpdateTagParams{})
		require.NoError(t, err)
		assert.Equal(t, "Backend", tag.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rename collision surfaces as duplicate key", func(t *testing.T) {
		name := "Frontend"
		mock.ExpectExec(`UPDATE tags SET name = \$1 WHERE id = \$2`).
			WithArgs("Frontend", "g1").
			WillReturnError(fakePQError("23505", "tags_name_key"))

		tag, err := repo.Update(context.Background(), "g1", UpdateTagParams{Name: &name})
		assert.Nil(t, tag)
		assert.ErrorIs(t, err, ErrDuplicateKey)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &TagRepo{db: db}

	mock.ExpectExec(`DELETE FROM tags WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
