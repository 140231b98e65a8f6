package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/code-runner/internal/apperror"
	"github.com/sakif/code-runner/internal/model"
	"github.com/sakif/code-runner/internal/repository"
)

// Compile-time check that *DB satisfies the repository interface.
var _ repository.RunRepository = (*DB)(nil)

// Create inserts a run record.
//
// The ID is generated here with xid: 20 URL-safe chars, sortable by
// creation time — handy for an append-only log. The pointer receiver
// means the caller's struct gets the generated ID and timestamp back.
func (db *DB) Create(ctx context.Context, run *model.Run) error {
	run.ID = xid.New().String()
	run.CreatedAt = time.Now()

	// Parameterized query — never build SQL with string concatenation.
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO runs (id, status, code, output, error, exit_code, timed_out, execution_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Status,
		run.Code,
		run.Output,
		run.Error,
		run.ExitCode,
		run.TimedOut,
		run.ExecutionTime,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating run: %w", err)
	}

	return nil
}

// GetByID retrieves a single run record.
// sql.ErrNoRows is translated to the domain NotFound error so the
// handler can map it to a 404.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, status, code, output, error, exit_code, timed_out, execution_time, created_at
		 FROM runs
		 WHERE id = ?`,
		id,
	).Scan(
		&run.ID,
		&run.Status,
		&run.Code,
		&run.Output,
		&run.Error,
		&run.ExitCode,
		&run.TimedOut,
		&run.ExecutionTime,
		&run.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("run", id)
		}
		return nil, fmt.Errorf("sqlite: getting run %s: %w", id, err)
	}

	return &run, nil
}

// List retrieves run records, newest first, with LIMIT/OFFSET
// pagination.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20 // default page size
	}
	if limit > 100 {
		limit = 100 // cap — never hand out the whole table
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, status, code, output, error, exit_code, timed_out, execution_time, created_at
		 FROM runs
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.Run, 0, limit)

	for rows.Next() {
		var r model.Run
		if err := rows.Scan(
			&r.ID, &r.Status, &r.Code, &r.Output, &r.Error,
			&r.ExitCode, &r.TimedOut, &r.ExecutionTime, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating runs: %w", err)
	}

	return runs, nil
}
