package store

import (
	"context"
	"database/sql"
	"fmt"
)

type statRepo struct {
	db *sql.DB
}

func (r *statRepo) Fold(ctx context.Context, breakdown map[string]TallyData) error {
	if len(breakdown) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fold: %w", err)
	}
	defer tx.Rollback()

	for id, tally := range breakdown {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO interval_stats (interval_id, correct, total) VALUES (?, ?, ?)
			 ON CONFLICT(interval_id) DO UPDATE SET
			   correct = correct + excluded.correct,
			   total   = total + excluded.total`,
			id, tally.Correct, tally.Total,
		)
		if err != nil {
			return fmt.Errorf("fold %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *statRepo) All(ctx context.Context) ([]IntervalStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT interval_id, correct, total FROM interval_stats WHERE total > 0 ORDER BY interval_id`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []IntervalStat
	for rows.Next() {
		var s IntervalStat
		if err := rows.Scan(&s.IntervalID, &s.Correct, &s.Total); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statRepo) Accuracies(ctx context.Context) (map[string]float64, error) {
	stats, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	acc := make(map[string]float64, len(stats))
	for _, s := range stats {
		acc[s.IntervalID] = s.Accuracy()
	}
	return acc, nil
}
