package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/eleven-am/taskboard/internal/models"
)

// UserRepo persists user accounts.
type UserRepo struct {
	db queryer
}

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name",
	"role", "avatar", "created_at", "updated_at",
}

// Create inserts a new user, assigning an id and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Password, u.FirstName, u.LastName,
			u.Role, u.Avatar, u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return ParsePostgresError(err, "create user", "users")
	}
	return nil
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, ParsePostgresError(err, "get user", "users")
	}
	return &u, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, ParsePostgresError(err, "get user by email", "users")
	}
	return &u, nil
}

// Counts returns how many projects the user owns and how many tasks they
// created or are assigned to.
func (r *UserRepo) Counts(ctx context.Context, id string) (*models.UserCounts, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM projects WHERE owner_id = $1) AS projects,
		(SELECT COUNT(*) FROM tasks WHERE creator_id = $1) AS tasks,
		(SELECT COUNT(*) FROM tasks WHERE assignee_id = $1) AS assigned_tasks`

	var c models.UserCounts
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, ParsePostgresError(err, "count user records", "users")
	}
	return &c, nil
}

// List returns users ordered by first name, optionally filtered by a search
// term across email and names.
func (r *UserRepo) List(ctx context.Context, search string, page, limit int) ([]models.User, int, error) {
	base := psql.Select(userColumns...).From("users")
	count := psql.Select("COUNT(*)").From("users")

	if search != "" {
		pattern := "%" + search + "%"
		filter := squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		}
		base = base.Where(filter)
		count = count.Where(filter)
	}

	query, args, err := base.
		OrderBy("first_name ASC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, ParsePostgresError(err, "list users", "users")
	}

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, ParsePostgresError(err, "count users", "users")
	}

	return users, total, nil
}

// Search returns compact user records matching q, for assignment
// autocomplete.
func (r *UserRepo) Search(ctx context.Context, q string, limit int) ([]models.UserRef, error) {
	pattern := "%" + q + "%"
	query, args, err := psql.Select("id", "email", "first_name", "last_name", "avatar").
		From("users").
		Where(squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		}).
		OrderBy("first_name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []models.UserRef
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, ParsePostgresError(err, "search users", "users")
	}
	return users, nil
}

// UpdateProfileParams are the fields a user may change on their own
// profile. Nil fields are left untouched.
type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
	Avatar    *string
}

// UpdateProfile applies partial profile changes and returns the updated
// user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*models.User, error) {
	update := psql.Update("users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if params.FirstName != nil {
		update = update.Set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		update = update.Set("last_name", *params.LastName)
	}
	if params.Avatar != nil {
		update = update.Set("avatar", *params.Avatar)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, ParsePostgresError(err, "update user", "users")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, &Error{Op: "update user", Table: "users", Err: ErrNotFound}
	}

	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	query, args, err := psql.Update("users").
		Set("password", hash).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ParsePostgresError(err, "update password", "users")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &Error{Op: "update password", Table: "users", Err: ErrNotFound}
	}
	return nil
}
