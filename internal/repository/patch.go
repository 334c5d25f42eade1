package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx,
// so the same scan helpers work inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// assignments accumulates allow-listed column assignments for a dynamic
// UPDATE ... SET clause. Column names are fixed by the callers, never taken
// from request payloads; only values travel as positional arguments.
type assignments struct {
	columns []string
	args    []any
}

func (a *assignments) add(column string, value any) {
	a.args = append(a.args, value)
	a.columns = append(a.columns, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

func (a *assignments) empty() bool {
	return len(a.columns) == 0
}

// setClause renders the accumulated assignments, e.g. "name = $1, price = $2".
func (a *assignments) setClause() string {
	return strings.Join(a.columns, ", ")
}

// next returns the placeholder index following the accumulated arguments.
func (a *assignments) next() int {
	return len(a.args) + 1
}

// addIfSet appends an assignment only when the patch field is present.
func addIfSet[T any](a *assignments, column string, value *T) {
	if value != nil {
		a.add(column, *value)
	}
}

// isUniqueViolation reports whether err is a PostgreSQL duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
