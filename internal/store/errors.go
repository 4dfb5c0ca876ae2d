package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrForeignKey       = errors.New("foreign key violation")
	ErrCheckConstraint  = errors.New("check constraint violation")
	ErrNotNull          = errors.New("not null constraint violation")
	ErrConnectionFailed = errors.New("database connection failed")
	ErrTimeout          = errors.New("operation timeout")
	ErrCanceled         = errors.New("operation canceled")
)

// Error provides detailed error information
type Error struct {
	Op         string // Operation that failed
	Table      string // Table involved
	Err        error  // Underlying error
	Constraint string // Constraint name (if applicable)
	Column     string // Column name (if applicable)
}

func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("store: %s", e.Op))

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column=%s", e.Column))
	}

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("constraint=%s", e.Constraint))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Postgres error codes translated into the taxonomy above.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
)

// ParsePostgresError converts driver errors to store errors
func ParsePostgresError(err error, op, table string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{
			Op:    op,
			Table: table,
			Err:   ErrNotFound,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return &Error{
				Op:         op,
				Table:      table,
				Err:        ErrDuplicateKey,
				Constraint: pqErr.Constraint,
			}
		case pqForeignKeyViolation:
			return &Error{
				Op:         op,
				Table:      table,
				Err:        ErrForeignKey,
				Constraint: pqErr.Constraint,
			}
		case pqNotNullViolation:
			return &Error{
				Op:     op,
				Table:  table,
				Err:    ErrNotNull,
				Column: pqErr.Column,
			}
		case pqCheckViolation:
			return &Error{
				Op:         op,
				Table:      table,
				Err:        ErrCheckConstraint,
				Constraint: pqErr.Constraint,
			}
		}
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return &Error{
			Op:    op,
			Table: table,
			Err:   ErrTimeout,
		}
	}

	if strings.Contains(errStr, "context canceled") {
		return &Error{
			Op:    op,
			Table: table,
			Err:   ErrCanceled,
		}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") {
		return &Error{
			Op:    op,
			Table: table,
			Err:   ErrConnectionFailed,
		}
	}

	return &Error{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// IsConstraintError checks if an error is a constraint violation
func IsConstraintError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrForeignKey) ||
		errors.Is(err, ErrCheckConstraint) ||
		errors.Is(err, ErrNotNull)
}

// ConstraintName extracts the constraint name from an error
func ConstraintName(err error) string {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Constraint
	}
	return ""
}
