package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/taskboard/internal/models"
)

// TaskRepo persists tasks and their tag associations.
type TaskRepo struct {
	db queryer
}

// priorityRank orders the priority enum semantically in SQL; the raw text
// values do not sort correctly.
const priorityRank = `CASE t.priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END`

// visibleTo builds the disjunctive visibility filter: a task is visible to
// its creator, its assignee, or the owner of its project. Admins see
// everything, so nil is returned for them.
func visibleTo(userID string, role models.Role) squirrel.Sqlizer {
	if role == models.RoleAdmin {
		return nil
	}
	return squirrel.Or{
		squirrel.Eq{"t.creator_id": userID},
		squirrel.Eq{"t.assignee_id": userID},
		squirrel.Eq{"p.owner_id": userID},
	}
}

// TaskFilter narrows and orders a task listing.
type TaskFilter struct {
	ProjectID  string
	Status     string
	Priority   string
	AssigneeID string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// sortExpr maps the allow-listed sort fields onto SQL expressions.
// Unrecognized fields silently fall back to created_at DESC.
func (f TaskFilter) sortExpr() string {
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	switch f.SortBy {
	case "createdAt":
		return "t.created_at " + dir
	case "updatedAt":
		return "t.updated_at " + dir
	case "dueDate":
		return "t.due_date " + dir
	case "priority":
		return priorityRank + " " + dir
	case "title":
		return "t.title " + dir
	default:
		return "t.created_at DESC"
	}
}

type taskListRow struct {
	models.Task
	ProjectRefID     string         `db:"project_ref_id"`
	ProjectName      string         `db:"project_name"`
	ProjectColor     string         `db:"project_color"`
	ProjectOwnerID   string         `db:"project_owner_id"`
	CreatorFirstName string         `db:"creator_first_name"`
	CreatorLastName  string         `db:"creator_last_name"`
	CreatorEmail     string         `db:"creator_email"`
	CreatorAvatar    string         `db:"creator_avatar"`
	AssigneeRefID    sql.NullString `db:"assignee_ref_id"`
	AssigneeFirst    sql.NullString `db:"assignee_first_name"`
	AssigneeLast     sql.NullString `db:"assignee_last_name"`
	AssigneeEmail    sql.NullString `db:"assignee_email"`
	AssigneeAvatar   sql.NullString `db:"assignee_avatar"`
}

func (row *taskListRow) toTask() models.Task {
	t := row.Task
	t.Project = &models.ProjectRef{
		ID:      row.ProjectRefID,
		Name:    row.ProjectName,
		Color:   row.ProjectColor,
		OwnerID: row.ProjectOwnerID,
	}
	t.Creator = &models.UserRef{
		ID:        t.CreatorID,
		Email:     row.CreatorEmail,
		FirstName: row.CreatorFirstName,
		LastName:  row.CreatorLastName,
		Avatar:    row.CreatorAvatar,
	}
	if row.AssigneeRefID.Valid {
		t.Assignee = &models.UserRef{
			ID:        row.AssigneeRefID.String,
			Email:     row.AssigneeEmail.String,
			FirstName: row.AssigneeFirst.String,
			LastName:  row.AssigneeLast.String,
			Avatar:    row.AssigneeAvatar.String,
		}
	}
	return t
}

var taskSelectColumns = []string{
	"t.id", "t.title", "t.description", "t.status", "t.priority",
	"t.due_date", "t.completed_at", "t.sort_order", "t.project_id",
	"t.creator_id", "t.assignee_id", "t.created_at", "t.updated_at",
	"p.id AS project_ref_id", "p.name AS project_name",
	"p.color AS project_color", "p.owner_id AS project_owner_id",
	"c.first_name AS creator_first_name", "c.last_name AS creator_last_name",
	"c.email AS creator_email", "c.avatar AS creator_avatar",
	"a.id AS assignee_ref_id", "a.first_name AS assignee_first_name",
	"a.last_name AS assignee_last_name", "a.email AS assignee_email",
	"a.avatar AS assignee_avatar",
	"(SELECT COUNT(*) FROM comments cm WHERE cm.task_id = t.id) AS comment_count",
}

func taskBase() squirrel.SelectBuilder {
	return psql.Select(taskSelectColumns...).
		From("tasks t").
		Join("projects p ON p.id = t.project_id").
		Join("users c ON c.id = t.creator_id").
		LeftJoin("users a ON a.id = t.assignee_id")
}

// List returns tasks visible to the user, filtered, sorted, and paginated,
// with project/creator/assignee references and tags attached.
func (r *TaskRepo) List(ctx context.Context, userID string, role models.Role, filter TaskFilter) ([]models.Task, int, error) {
	base := taskBase()
	count := psql.Select("COUNT(*)").
		From("tasks t").
		Join("projects p ON p.id = t.project_id")

	if vis := visibleTo(userID, role); vis != nil {
		base = base.Where(vis)
		count = count.Where(vis)
	}
	if filter.ProjectID != "" {
		base = base.Where(squirrel.Eq{"t.project_id": filter.ProjectID})
		count = count.Where(squirrel.Eq{"t.project_id": filter.ProjectID})
	}
	if filter.Status != "" && models.ValidTaskStatus(filter.Status) {
		base = base.Where(squirrel.Eq{"t.status": filter.Status})
		count = count.Where(squirrel.Eq{"t.status": filter.Status})
	}
	if filter.Priority != "" && models.ValidPriority(filter.Priority) {
		base = base.Where(squirrel.Eq{"t.priority": filter.Priority})
		count = count.Where(squirrel.Eq{"t.priority": filter.Priority})
	}
	if filter.AssigneeID != "" {
		base = base.Where(squirrel.Eq{"t.assignee_id": filter.AssigneeID})
		count = count.Where(squirrel.Eq{"t.assignee_id": filter.AssigneeID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		search := squirrel.Or{
			squirrel.ILike{"t.title": pattern},
			squirrel.ILike{"t.description": pattern},
		}
		base = base.Where(search)
		count = count.Where(search)
	}

	query, args, err := base.
		OrderBy(filter.sortExpr()).
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var rows []taskListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, ParsePostgresError(err, "list tasks", "tasks")
	}

	tasks := make([]models.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].toTask()
	}

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, ParsePostgresError(err, "count tasks", "tasks")
	}

	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListForProject returns all of a project's tasks in board order: status,
// then priority, then manual sort position.
func (r *TaskRepo) ListForProject(ctx context.Context, projectID string) ([]models.Task, error) {
	query, args, err := taskBase().
		Where(squirrel.Eq{"t.project_id": projectID}).
		OrderBy("t.status ASC", priorityRank+" DESC", "t.sort_order ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []taskListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list project tasks", "tasks")
	}

	tasks := make([]models.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].toTask()
	}

	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetByID fetches a single task with its relations, tags, and comments
// (newest first).
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query, args, err := taskBase().
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row taskListRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, ParsePostgresError(err, "get task", "tasks")
	}

	task := row.toTask()

	tasks := []models.Task{task}
	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	task = tasks[0]

	comments, err := (&CommentRepo{db: r.db}).ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Comments = comments

	return &task, nil
}

// attachTags batch-loads tags for the given tasks in one join query.
func (r *TaskRepo) attachTags(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}

	query, args, err := psql.Select("tt.task_id", "g.id", "g.name", "g.color", "g.created_at").
		From("task_tags tt").
		Join("tags g ON g.id = tt.tag_id").
		Where(squirrel.Eq{"tt.task_id": ids}).
		OrderBy("g.name ASC").
		ToSql()
	if err != nil {
		return err
	}

	var rows []struct {
		TaskID string `db:"task_id"`
		models.Tag
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return ParsePostgresError(err, "load task tags", "task_tags")
	}

	byTask := make(map[string][]models.Tag)
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], row.Tag)
	}
	for i := range tasks {
		tasks[i].Tags = byTask[tasks[i].ID]
	}
	return nil
}

// Create inserts a task, assigning the next order position within its
// project atomically so concurrent creators cannot collide.
func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query, args, err := psql.Insert("tasks").
		Columns("id", "title", "description", "status", "priority", "due_date",
			"sort_order", "project_id", "creator_id", "assignee_id",
			"created_at", "updated_at").
		Values(t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
			squirrel.Expr("(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM tasks WHERE project_id = ?)", t.ProjectID),
			t.ProjectID, t.CreatorID, t.AssigneeID, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING sort_order").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.GetContext(ctx, &t.Order, query, args...); err != nil {
		return ParsePostgresError(err, "create task", "tasks")
	}
	return nil
}

// UpdateTaskParams are the mutable task fields. Nil fields are left
// untouched. DueDate and AssigneeID distinguish "absent" (outer nil) from
// "clear" (inner nil).
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     **time.Time
	AssigneeID  **string
	Order       *int
}

// Update applies partial changes. A status transition to COMPLETED stamps
// completed_at; a transition to any other status clears it.
func (r *TaskRepo) Update(ctx context.Context, id string, params UpdateTaskParams) error {
	update := psql.Update("tasks").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if params.Title != nil {
		update = update.Set("title", *params.Title)
	}
	if params.Description != nil {
		update = update.Set("description", *params.Description)
	}
	if params.Priority != nil {
		update = update.Set("priority", *params.Priority)
	}
	if params.Status != nil {
		update = update.Set("status", *params.Status)
		if models.TaskStatus(*params.Status) == models.TaskCompleted {
			update = update.Set("completed_at", time.Now().UTC())
		} else {
			update = update.Set("completed_at", nil)
		}
	}
	if params.DueDate != nil {
		update = update.Set("due_date", *params.DueDate)
	}
	if params.AssigneeID != nil {
		update = update.Set("assignee_id", *params.AssigneeID)
	}
	if params.Order != nil {
		update = update.Set("sort_order", *params.Order)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "update task", "tasks")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "update task", Table: "tasks", Err: ErrNotFound}
	}
	return nil
}

// SetTags replaces a task's tag associations wholesale.
func (r *TaskRepo) SetTags(ctx context.Context, taskID string, tagIDs []string) error {
	del, delArgs, err := psql.Delete("task_tags").
		Where(squirrel.Eq{"task_id": taskID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, del, delArgs...); err != nil {
		return ParsePostgresError(err, "clear task tags", "task_tags")
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := psql.Insert("task_tags").Columns("task_id", "tag_id")
	for _, tagID := range tagIDs {
		insert = insert.Values(taskID, tagID)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "set task tags", "task_tags")
	}
	return nil
}

// Delete removes a task. Comments and tag links cascade.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "delete task", "tasks")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "delete task", Table: "tasks", Err: ErrNotFound}
	}
	return nil
}

// TaskAccess carries the identities needed for a task-level permission
// check.
type TaskAccess struct {
	CreatorID      string  `db:"creator_id"`
	AssigneeID     *string `db:"assignee_id"`
	ProjectOwnerID string  `db:"project_owner_id"`
}

// AllowedFor reports whether the user may act on the task.
func (a TaskAccess) AllowedFor(userID string, role models.Role) bool {
	if role == models.RoleAdmin {
		return true
	}
	if a.CreatorID == userID || a.ProjectOwnerID == userID {
		return true
	}
	return a.AssigneeID != nil && *a.AssigneeID == userID
}

// Access fetches the creator, assignee, and project owner of a task.
func (r *TaskRepo) Access(ctx context.Context, taskID string) (*TaskAccess, error) {
	const query = `SELECT t.creator_id, t.assignee_id, p.owner_id AS project_owner_id
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1`

	var access TaskAccess
	if err := r.db.GetContext(ctx, &access, query, taskID); err != nil {
		return nil, ParsePostgresError(err, "get task access", "tasks")
	}
	return &access, nil
}

// StatRow is the slim task shape stats are reduced from.
type StatRow struct {
	Status      models.TaskStatus `db:"status"`
	Priority    models.Priority   `db:"priority"`
	DueDate     *time.Time        `db:"due_date"`
	CompletedAt *time.Time        `db:"completed_at"`
	CreatedAt   time.Time         `db:"created_at"`
}

// StatRows returns the slim rows for every task in the user's visibility
// scope.
func (r *TaskRepo) StatRows(ctx context.Context, userID string) ([]StatRow, error) {
	query, args, err := psql.Select("t.status", "t.priority", "t.due_date", "t.completed_at", "t.created_at").
		From("tasks t").
		Join("projects p ON p.id = t.project_id").
		Where(squirrel.Or{
			squirrel.Eq{"t.creator_id": userID},
			squirrel.Eq{"t.assignee_id": userID},
			squirrel.Eq{"p.owner_id": userID},
		}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []StatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "task stat rows", "tasks")
	}
	return rows, nil
}

// ProjectStatRows returns the slim rows for one project's tasks.
func (r *TaskRepo) ProjectStatRows(ctx context.Context, projectID string) ([]StatRow, error) {
	query, args, err := psql.Select("t.status", "t.priority", "t.due_date", "t.completed_at", "t.created_at").
		From("tasks t").
		Where(squirrel.Eq{"t.project_id": projectID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []StatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "project stat rows", "tasks")
	}
	return rows, nil
}

// CompletedSince returns completion timestamps for visible tasks completed
// on or after the given instant, oldest first.
func (r *TaskRepo) CompletedSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	query, args, err := psql.Select("t.completed_at").
		From("tasks t").
		Join("projects p ON p.id = t.project_id").
		Where(squirrel.Or{
			squirrel.Eq{"t.creator_id": userID},
			squirrel.Eq{"t.assignee_id": userID},
			squirrel.Eq{"p.owner_id": userID},
		}).
		Where(squirrel.GtOrEq{"t.completed_at": since}).
		OrderBy("t.completed_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var stamps []time.Time
	if err := r.db.SelectContext(ctx, &stamps, query, args...); err != nil {
		return nil, ParsePostgresError(err, "completed tasks", "tasks")
	}
	return stamps, nil
}

// Recent returns the most recently updated tasks in the user's visibility
// scope.
func (r *TaskRepo) Recent(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	query, args, err := taskBase().
		Where(squirrel.Or{
			squirrel.Eq{"t.creator_id": userID},
			squirrel.Eq{"t.assignee_id": userID},
			squirrel.Eq{"p.owner_id": userID},
		}).
		OrderBy("t.updated_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []taskListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "recent tasks", "tasks")
	}

	tasks := make([]models.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].toTask()
	}
	return tasks, nil
}

// TaskOrder is one entry in a reorder batch.
type TaskOrder struct {
	ID     string `json:"id"`
	Order  int    `json:"order"`
	Status string `json:"status,omitempty"`
}

// ReorderTasks applies a batch of order (and optional status) updates
// within one transaction. If any referenced task does not exist in the
// project, the whole batch is rolled back.
func (s *Store) ReorderTasks(ctx context.Context, projectID string, items []TaskOrder) error {
	return s.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for _, item := range items {
			update := psql.Update("tasks").
				Set("sort_order", item.Order).
				Set("updated_at", now).
				Where(squirrel.Eq{"id": item.ID, "project_id": projectID})

			if item.Status != "" && models.ValidTaskStatus(item.Status) {
				update = update.Set("status", item.Status)
				if models.TaskStatus(item.Status) == models.TaskCompleted {
					update = update.Set("completed_at", now)
				} else {
					update = update.Set("completed_at", nil)
				}
			}

			query, args, err := update.ToSql()
			if err != nil {
				return err
			}

			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return ParsePostgresError(err, "reorder task", "tasks")
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("reorder task %s: %w", item.ID, err)
			}
			if n == 0 {
				return &Error{Op: "reorder task", Table: "tasks", Err: ErrNotFound}
			}
		}
		return nil
	})
}

// CreateWithTags inserts a task and its tag links atomically.
func (s *Store) CreateTaskWithTags(ctx context.Context, t *models.Task, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return s.Tasks.Create(ctx, t)
	}
	return s.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		repo := &TaskRepo{db: tx}
		if err := repo.Create(ctx, t); err != nil {
			return err
		}
		return repo.SetTags(ctx, t.ID, tagIDs)
	})
}

// UpdateTaskWithTags applies partial task changes and, when tagIDs is
// non-nil, replaces the tag set, all in one transaction.
func (s *Store) UpdateTaskWithTags(ctx context.Context, id string, params UpdateTaskParams, tagIDs []string) error {
	if tagIDs == nil {
		return s.Tasks.Update(ctx, id, params)
	}
	return s.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		repo := &TaskRepo{db: tx}
		if err := repo.Update(ctx, id, params); err != nil {
			return err
		}
		return repo.SetTags(ctx, id, tagIDs)
	})
}
