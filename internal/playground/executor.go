// Package playground runs a learner's query against a live sample database
// so results can be displayed. It has no say in correctness judgement.
package playground

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const maxRows = 200

// Result is the outcome of one ad-hoc execution.
type Result struct {
	Success bool
	Columns []string
	Rows    [][]string
	Err     string
}

// Executor runs read-only learner queries against a sample database.
type Executor struct {
	db      *sql.DB
	timeout time.Duration
}

// Open connects with the given database/sql driver ("sqlite3" or "pgx").
func Open(driver, dsn string, timeout time.Duration) (*Executor, error) {
	switch driver {
	case "sqlite3", "pgx":
	default:
		return nil, fmt.Errorf("unsupported playground driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open playground database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping playground database: %w", err)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{db: db, timeout: timeout}, nil
}

// Execute runs the query and returns up to maxRows rows rendered as text.
// Errors come back inside the Result; a broken query is a normal outcome
// here, not a failure of the trainer.
func (e *Executor) Execute(ctx context.Context, sqlText string) *Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return &Result{Err: err.Error()}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return &Result{Err: err.Error()}
	}

	result := &Result{Success: true, Columns: columns}
	for rows.Next() {
		if len(result.Rows) >= maxRows {
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return &Result{Err: err.Error()}
		}
		result.Rows = append(result.Rows, renderRow(values))
	}
	if err := rows.Err(); err != nil {
		return &Result{Err: err.Error()}
	}

	return result
}

// Close releases the database connection.
func (e *Executor) Close() error {
	return e.db.Close()
}

func renderRow(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			out[i] = "NULL"
		case []byte:
			out[i] = string(val)
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}
