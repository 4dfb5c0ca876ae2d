// Package store is the data-access layer: one repository per aggregate,
// all built on a single long-lived Postgres handle.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/eleven-am/taskboard/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// psql builds queries with Postgres-style placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// inside or outside a transaction.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Options configures the connection pool.
type Options struct {
	MaxConnections int
	MaxIdle        int
}

// Store holds the database handle and all repositories.
type Store struct {
	db *sqlx.DB

	Users    *UserRepo
	Projects *ProjectRepo
	Tasks    *TaskRepo
	Tags     *TagRepo
	Comments *CommentRepo
}

// Open connects to Postgres, configures the pool, and runs pending
// migrations.
func Open(url string, opts Options) (*Store, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MaxConnections > 0 {
		db.SetMaxOpenConns(opts.MaxConnections)
	}
	if opts.MaxIdle > 0 {
		db.SetMaxIdleConns(opts.MaxIdle)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.DB().Debug("connected, pool max=%d idle=%d", opts.MaxConnections, opts.MaxIdle)

	return New(db), nil
}

// New wraps an existing handle without running migrations. Used by tests
// with a mocked connection.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:       db,
		Users:    &UserRepo{db: db},
		Projects: &ProjectRepo{db: db},
		Tasks:    &TaskRepo{db: db},
		Tags:     &TagRepo{db: db},
		Comments: &CommentRepo{db: db},
	}
}

// Migrate applies all pending embedded migrations.
func Migrate(db *sql.DB) error {
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB) error {
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.Down(db, "migrations")
}

// MigrationStatus prints the applied/pending state of every migration.
func MigrationStatus(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.Status(db, "migrations")
}

// DB exposes the raw handle for migration commands.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTransaction executes fn within a transaction. The transaction is
// rolled back if fn returns an error or panics.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}
