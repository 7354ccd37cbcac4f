package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

type rewardRepo struct {
	db *sql.DB
}

func (r *rewardRepo) GetUser(ctx context.Context, kind, userID string) (*RewardUserRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT kind, user_id, name, total_points, badges, stats
		FROM reward_users WHERE kind = ? AND user_id = ?`, kind, userID)
	u, err := scanRewardUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *rewardRepo) SaveUser(ctx context.Context, rec RewardUserRecord, entry *RewardHistoryRecord) error {
	badges, err := json.Marshal(nonNilStrings(rec.Badges))
	if err != nil {
		return fmt.Errorf("marshal badges: %w", err)
	}
	stats := rec.Stats
	if stats == nil {
		stats = map[string]int{}
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO reward_users
		(kind, user_id, name, total_points, badges, stats) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, user_id) DO UPDATE SET
			name = excluded.name,
			total_points = excluded.total_points,
			badges = excluded.badges,
			stats = excluded.stats`,
		rec.Kind, rec.UserID, rec.Name, rec.TotalPoints, string(badges), string(statsJSON))
	if err != nil {
		return fmt.Errorf("save reward user: %w", err)
	}

	if entry != nil {
		_, err = tx.ExecContext(ctx, `INSERT INTO reward_history
			(kind, user_id, timestamp, points, reason) VALUES (?, ?, ?, ?, ?)`,
			rec.Kind, rec.UserID, formatTime(entry.Timestamp), entry.Points, entry.Reason)
		if err != nil {
			return fmt.Errorf("save reward history: %w", err)
		}
	}

	return tx.Commit()
}

func (r *rewardRepo) ListUsers(ctx context.Context, kind string) ([]RewardUserRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, user_id, name, total_points, badges, stats
		FROM reward_users WHERE kind = ? ORDER BY user_id`, kind)
	if err != nil {
		return nil, fmt.Errorf("query reward users: %w", err)
	}
	defer rows.Close()

	var out []RewardUserRecord
	for rows.Next() {
		u, err := scanRewardUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *rewardRepo) RecentHistory(ctx context.Context, kind, userID string, limit int) ([]RewardHistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT timestamp, points, reason FROM reward_history
		WHERE kind = ? AND user_id = ? ORDER BY id DESC LIMIT ?`, kind, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query reward history: %w", err)
	}
	defer rows.Close()

	var out []RewardHistoryRecord
	for rows.Next() {
		var (
			h  RewardHistoryRecord
			ts string
		)
		if err := rows.Scan(&ts, &h.Points, &h.Reason); err != nil {
			return nil, fmt.Errorf("scan reward history: %w", err)
		}
		if h.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

func scanRewardUser(row rowScanner) (*RewardUserRecord, error) {
	var (
		u      RewardUserRecord
		badges string
		stats  string
	)
	if err := row.Scan(&u.Kind, &u.UserID, &u.Name, &u.TotalPoints, &badges, &stats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan reward user: %w", err)
	}
	if err := json.Unmarshal([]byte(badges), &u.Badges); err != nil {
		return nil, fmt.Errorf("decode badges for %s: %w", u.UserID, err)
	}
	if err := json.Unmarshal([]byte(stats), &u.Stats); err != nil {
		return nil, fmt.Errorf("decode stats for %s: %w", u.UserID, err)
	}
	return &u, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
