package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type scheduleRepo struct {
	db *sql.DB
}

func (r *scheduleRepo) AddClass(ctx context.Context, rec ClassRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO classes
		(id, created_at, name, day, start_time, end_time, subject, room)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, formatTime(rec.CreatedAt), rec.Name, rec.Day, rec.StartTime, rec.EndTime,
		rec.Subject, rec.Room)
	if err != nil {
		return fmt.Errorf("save class: %w", err)
	}
	return nil
}

func (r *scheduleRepo) ListClasses(ctx context.Context) ([]ClassRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, name, day, start_time,
		end_time, subject, room FROM classes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var out []ClassRecord
	for rows.Next() {
		var (
			c  ClassRecord
			ts string
		)
		if err := rows.Scan(&c.ID, &ts, &c.Name, &c.Day, &c.StartTime, &c.EndTime, &c.Subject, &c.Room); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		if c.CreatedAt, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *scheduleRepo) AddAssignment(ctx context.Context, rec AssignmentRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO assignments
		(id, created_at, title, subject, due_date, description, points, status, completed_at, completed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, formatTime(rec.CreatedAt), rec.Title, rec.Subject, rec.DueDate, rec.Description,
		rec.Points, rec.Status, formatTime(rec.CompletedAt), rec.CompletedBy)
	if err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	return nil
}

const assignmentColumns = `id, created_at, title, subject, due_date, description, points,
	status, completed_at, completed_by`

func (r *scheduleRepo) ListAssignments(ctx context.Context) ([]AssignmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []AssignmentRecord
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *scheduleRepo) GetAssignment(ctx context.Context, id string) (*AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *scheduleRepo) CompleteAssignment(ctx context.Context, id, by string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE assignments SET status = 'completed',
		completed_at = ?, completed_by = ? WHERE id = ? AND status = 'pending'`,
		formatTime(at), by, id)
	if err != nil {
		return false, fmt.Errorf("complete assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete assignment: %w", err)
	}
	return n == 1, nil
}

func (r *scheduleRepo) ReopenAssignment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE assignments SET status = 'pending',
		completed_at = '', completed_by = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("reopen assignment: %w", err)
	}
	return nil
}

func scanAssignment(row rowScanner) (*AssignmentRecord, error) {
	var (
		a           AssignmentRecord
		created     string
		completedAt string
	)
	err := row.Scan(&a.ID, &created, &a.Title, &a.Subject, &a.DueDate, &a.Description,
		&a.Points, &a.Status, &completedAt, &a.CompletedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.CompletedAt, err = parseTime(completedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
