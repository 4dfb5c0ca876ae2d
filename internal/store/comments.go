package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/eleven-am/taskboard/internal/models"
)

// CommentRepo persists task comments.
type CommentRepo struct {
	db queryer
}

type commentRow struct {
	models.Comment
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
	AuthorAvatar    string `db:"author_avatar"`
}

func (row *commentRow) toComment() models.Comment {
	c := row.Comment
	c.Author = &models.UserRef{
		ID:        c.AuthorID,
		FirstName: row.AuthorFirstName,
		LastName:  row.AuthorLastName,
		Avatar:    row.AuthorAvatar,
	}
	return c
}

// Create inserts a comment and returns it with the author attached.
func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query, args, err := psql.Insert("comments").
		Columns("id", "content", "task_id", "author_id", "created_at", "updated_at").
		Values(c.ID, c.Content, c.TaskID, c.AuthorID, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "create comment", "comments")
	}
	return nil
}

// GetByID fetches a comment together with the identities needed for the
// delete permission check (author, task creator, project owner).
func (r *CommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, *TaskAccess, error) {
	const query = `SELECT
		c.id, c.content, c.task_id, c.author_id, c.created_at, c.updated_at,
		t.creator_id, t.assignee_id, p.owner_id AS project_owner_id
	FROM comments c
	JOIN tasks t ON t.id = c.task_id
	JOIN projects p ON p.id = t.project_id
	WHERE c.id = $1`

	var row struct {
		models.Comment
		TaskAccess
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, nil, ParsePostgresError(err, "get comment", "comments")
	}
	return &row.Comment, &row.TaskAccess, nil
}

// ListByTask returns a task's comments, newest first.
func (r *CommentRepo) ListByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	query, args, err := psql.Select(
		"c.id", "c.content", "c.task_id", "c.author_id", "c.created_at", "c.updated_at",
		"u.first_name AS author_first_name", "u.last_name AS author_last_name",
		"u.avatar AS author_avatar",
	).From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.task_id": taskID}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list comments", "comments")
	}

	comments := make([]models.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toComment()
	}
	return comments, nil
}

// Recent returns the newest comments on tasks in the user's visibility
// scope, with author and task references attached.
func (r *CommentRepo) Recent(ctx context.Context, userID string, limit int) ([]models.Comment, error) {
	query, args, err := psql.Select(
		"c.id", "c.content", "c.task_id", "c.author_id", "c.created_at", "c.updated_at",
		"u.first_name AS author_first_name", "u.last_name AS author_last_name",
		"u.avatar AS author_avatar",
		"t.title AS task_title",
	).From("comments c").
		Join("users u ON u.id = c.author_id").
		Join("tasks t ON t.id = c.task_id").
		Join("projects p ON p.id = t.project_id").
		Where(squirrel.Or{
			squirrel.Eq{"t.creator_id": userID},
			squirrel.Eq{"t.assignee_id": userID},
			squirrel.Eq{"p.owner_id": userID},
		}).
		OrderBy("c.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		commentRow
		TaskTitle string `db:"task_title"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "recent comments", "comments")
	}

	comments := make([]models.Comment, len(rows))
	for i := range rows {
		comment := rows[i].toComment()
		comment.Task = &models.TaskRef{ID: comment.TaskID, Title: rows[i].TaskTitle}
		comments[i] = comment
	}
	return comments, nil
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "delete comment", "comments")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "delete comment", Table: "comments", Err: ErrNotFound}
	}
	return nil
}
