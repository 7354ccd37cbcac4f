package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type reflectionRepo struct {
	db *sql.DB
}

func (r *reflectionRepo) SaveReflection(ctx context.Context, rec ReflectionRecord) error {
	analysis := string(rec.Analysis)
	if analysis == "" {
		analysis = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reflections (id, created_at, text, analysis) VALUES (?, ?, ?, ?)`,
		rec.ID, formatTime(rec.CreatedAt), rec.Text, analysis)
	if err != nil {
		return fmt.Errorf("save reflection: %w", err)
	}
	return nil
}

func (r *reflectionRepo) ReflectionsSince(ctx context.Context, since time.Time) ([]ReflectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, text, analysis FROM reflections
		 WHERE created_at >= ? ORDER BY created_at, id`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("query reflections: %w", err)
	}
	defer rows.Close()

	var out []ReflectionRecord
	for rows.Next() {
		var (
			rec      ReflectionRecord
			ts       string
			analysis string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Text, &analysis); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		if rec.CreatedAt, err = parseTime(ts); err != nil {
			return nil, err
		}
		rec.Analysis = []byte(analysis)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *reflectionRepo) CountReflections(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reflections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reflections: %w", err)
	}
	return n, nil
}
