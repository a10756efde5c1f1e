package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Append(ctx context.Context, rec SessionRecord) error {
	breakdown := rec.Breakdown
	if breakdown == nil {
		breakdown = map[string]TallyData{}
	}
	blob, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, finished_at, score, total, breakdown) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.FinishedAt.UTC().Format(time.RFC3339Nano), rec.Score, rec.Total, string(blob),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Recent(ctx context.Context, n int) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, finished_at, score, total, breakdown
		 FROM sessions ORDER BY finished_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		var (
			rec      SessionRecord
			finished string
			blob     string
		)
		if err := rows.Scan(&rec.ID, &finished, &rec.Score, &rec.Total, &blob); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finished)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finished, err)
		}
		if err := json.Unmarshal([]byte(blob), &rec.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *sessionRepo) AllDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT finished_at FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("query session dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan finished_at: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", raw, err)
		}
		dates = append(dates, t)
	}
	return dates, rows.Err()
}
