package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type settingsRepo struct {
	db *sql.DB
}

func (r *settingsRepo) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *settingsRepo) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (r *settingsRepo) GetString(ctx context.Context, key, fallback string) (string, error) {
	value, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	return value, nil
}

func (r *settingsRepo) SetString(ctx context.Context, key, value string) error {
	return r.set(ctx, key, value)
}

func (r *settingsRepo) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	value, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

func (r *settingsRepo) SetInt(ctx context.Context, key string, value int) error {
	return r.set(ctx, key, strconv.Itoa(value))
}

func (r *settingsRepo) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	value, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

func (r *settingsRepo) SetBool(ctx context.Context, key string, value bool) error {
	return r.set(ctx, key, strconv.FormatBool(value))
}

func (r *settingsRepo) GetStrings(ctx context.Context, key string) ([]string, error) {
	value, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return values, nil
}

func (r *settingsRepo) SetStrings(ctx context.Context, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	blob, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	return r.set(ctx, key, string(blob))
}

func (r *settingsRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}
