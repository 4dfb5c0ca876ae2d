package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/eleven-am/taskboard/internal/models"
)

// TagRepo persists tags. The tag namespace is global, not per user.
type TagRepo struct {
	db queryer
}

// defaultTagColor is applied when a tag is created without one.
const defaultTagColor = "#6366f1"

// Create inserts a new tag. A duplicate name surfaces as ErrDuplicateKey.
func (r *TagRepo) Create(ctx context.Context, t *models.Tag) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Color == "" {
		t.Color = defaultTagColor
	}
	t.CreatedAt = time.Now().UTC()

	query, args, err := psql.Insert("tags").
		Columns("id", "name", "color", "created_at").
		Values(t.ID, t.Name, t.Color, t.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "create tag", "tags")
	}
	return nil
}

// GetByID fetches a tag with its task count and a sample of tagged tasks.
func (r *TagRepo) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	query, args, err := psql.Select(
		"id", "name", "color", "created_at",
		"(SELECT COUNT(*) FROM task_tags tt WHERE tt.tag_id = tags.id) AS task_count",
	).From("tags").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := r.db.GetContext(ctx, &tag, query, args...); err != nil {
		return nil, ParsePostgresError(err, "get tag", "tags")
	}

	taskQuery, taskArgs, err := psql.Select("t.id", "t.title", "t.status", "t.priority").
		From("task_tags tt").
		Join("tasks t ON t.id = tt.task_id").
		Where(squirrel.Eq{"tt.tag_id": id}).
		OrderBy("t.updated_at DESC").
		Limit(10).
		ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &tag.Tasks, taskQuery, taskArgs...); err != nil {
		return nil, ParsePostgresError(err, "get tag tasks", "task_tags")
	}

	return &tag, nil
}

// List returns every tag with its task count, sorted by name.
func (r *TagRepo) List(ctx context.Context) ([]models.Tag, error) {
	query, args, err := psql.Select(
		"id", "name", "color", "created_at",
		"(SELECT COUNT(*) FROM task_tags tt WHERE tt.tag_id = tags.id) AS task_count",
	).From("tags").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list tags", "tags")
	}
	return tags, nil
}

// UpdateTagParams are the mutable tag fields.
type UpdateTagParams struct {
	Name  *string
	Color *string
}

// Update applies partial changes and returns the updated tag. A name
// collision surfaces as ErrDuplicateKey.
func (r *TagRepo) Update(ctx context.Context, id string, params UpdateTagParams) (*models.Tag, error) {
	update := psql.Update("tags").Where(squirrel.Eq{"id": id})

	changed := false
	if params.Name != nil {
		update = update.Set("name", *params.Name)
		changed = true
	}
	if params.Color != nil {
		update = update.Set("color", *params.Color)
		changed = true
	}
	if !changed {
		return r.GetByID(ctx, id)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, ParsePostgresError(err, "update tag", "tags")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, &Error{Op: "update tag", Table: "tags", Err: ErrNotFound}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a tag. Join rows cascade; tasks are untouched.
func (r *TagRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("tags").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "delete tag", "tags")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "delete tag", Table: "tags", Err: ErrNotFound}
	}
	return nil
}
