package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/eleven-am/taskboard/internal/models"
)

// ProjectRepo persists projects.
type ProjectRepo struct {
	db queryer
}

var projectColumns = []string{
	"id", "name", "description", "color", "icon",
	"status", "owner_id", "created_at", "updated_at",
}

// Create inserts a new project owned by the given user.
func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query, args, err := psql.Insert("projects").
		Columns(projectColumns...).
		Values(p.ID, p.Name, p.Description, p.Color, p.Icon,
			p.Status, p.OwnerID, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "create project", "projects")
	}
	return nil
}

// GetByID fetches a project with its owner and task count.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	const query = `SELECT
		p.id, p.name, p.description, p.color, p.icon, p.status, p.owner_id,
		p.created_at, p.updated_at,
		u.id AS owner_ref_id, u.email AS owner_email,
		u.first_name AS owner_first_name, u.last_name AS owner_last_name,
		u.avatar AS owner_avatar,
		(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
	FROM projects p
	JOIN users u ON u.id = p.owner_id
	WHERE p.id = $1`

	var row struct {
		models.Project
		OwnerRefID     string `db:"owner_ref_id"`
		OwnerEmail     string `db:"owner_email"`
		OwnerFirstName string `db:"owner_first_name"`
		OwnerLastName  string `db:"owner_last_name"`
		OwnerAvatar    string `db:"owner_avatar"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, ParsePostgresError(err, "get project", "projects")
	}

	p := row.Project
	p.Owner = &models.UserRef{
		ID:        row.OwnerRefID,
		Email:     row.OwnerEmail,
		FirstName: row.OwnerFirstName,
		LastName:  row.OwnerLastName,
		Avatar:    row.OwnerAvatar,
	}
	return &p, nil
}

// ListFilter narrows a project listing.
type ListFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ListByOwner returns the owner's projects with per-project task status
// breakdowns, newest update first.
func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]models.Project, int, error) {
	base := psql.Select(
		"p.id", "p.name", "p.description", "p.color", "p.icon", "p.status",
		"p.owner_id", "p.created_at", "p.updated_at",
		"(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count",
	).From("projects p").Where(squirrel.Eq{"p.owner_id": ownerID})

	count := psql.Select("COUNT(*)").From("projects p").Where(squirrel.Eq{"p.owner_id": ownerID})

	if filter.Status != "" && models.ValidProjectStatus(filter.Status) {
		base = base.Where(squirrel.Eq{"p.status": filter.Status})
		count = count.Where(squirrel.Eq{"p.status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		search := squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.description": pattern},
		}
		base = base.Where(search)
		count = count.Where(search)
	}

	query, args, err := base.
		OrderBy("p.updated_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, ParsePostgresError(err, "list projects", "projects")
	}

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, ParsePostgresError(err, "count projects", "projects")
	}

	if err := r.attachTaskStats(ctx, projects); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// attachTaskStats fills TaskStats for each project in a single grouped
// query over the page's project ids.
func (r *ProjectRepo) attachTaskStats(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	query, args, err := psql.Select("project_id", "status", "COUNT(*) AS n").
		From("tasks").
		Where(squirrel.Eq{"project_id": ids}).
		GroupBy("project_id", "status").
		ToSql()
	if err != nil {
		return err
	}

	var rows []struct {
		ProjectID string            `db:"project_id"`
		Status    models.TaskStatus `db:"status"`
		N         int               `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return ParsePostgresError(err, "project task stats", "tasks")
	}

	stats := make(map[string]*models.ProjectTaskStats, len(projects))
	for i := range projects {
		stats[projects[i].ID] = &models.ProjectTaskStats{}
	}
	for _, row := range rows {
		s := stats[row.ProjectID]
		if s == nil {
			continue
		}
		s.Total += row.N
		switch row.Status {
		case models.TaskCompleted:
			s.Completed = row.N
		case models.TaskInProgress:
			s.InProgress = row.N
		case models.TaskTodo:
			s.Todo = row.N
		}
	}
	for i := range projects {
		projects[i].TaskStats = stats[projects[i].ID]
	}
	return nil
}

// UpdateProjectParams are the mutable project fields. Nil fields are left
// untouched.
type UpdateProjectParams struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Status      *string
}

// Update applies partial changes and returns the updated project.
func (r *ProjectRepo) Update(ctx context.Context, id string, params UpdateProjectParams) (*models.Project, error) {
	update := psql.Update("projects").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if params.Name != nil {
		update = update.Set("name", *params.Name)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Color != nil {
		update = update.Set("color", *params.Color)
	}
	if params.Icon != nil {
		update = update.Set("icon", *params.Icon)
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, ParsePostgresError(err, "update project", "projects")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, &Error{Op: "update project", Table: "projects", Err: ErrNotFound}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a project. Its tasks go with it via the FK cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "delete project", "projects")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "delete project", Table: "projects", Err: ErrNotFound}
	}
	return nil
}

// OwnerID returns just the owner of a project, for access checks.
func (r *ProjectRepo) OwnerID(ctx context.Context, id string) (string, error) {
	query, args, err := psql.Select("owner_id").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", err
	}

	var ownerID string
	if err := r.db.GetContext(ctx, &ownerID, query, args...); err != nil {
		return "", ParsePostgresError(err, "get project owner", "projects")
	}
	return ownerID, nil
}
