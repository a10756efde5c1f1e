package store

import (
	"context"
	"fmt"
	"time"
)

// TallyData is a correct/total pair for one interval within a session.
type TallyData struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// SessionRecord is one completed practice session. Append-only.
type SessionRecord struct {
	ID         string
	FinishedAt time.Time
	Score      int
	Total      int
	Breakdown  map[string]TallyData
}

// IntervalStat is the cumulative per-interval accuracy record.
type IntervalStat struct {
	IntervalID string
	Correct    int
	Total      int
}

// Accuracy returns correct/total, or 0 when no attempts are recorded.
func (s IntervalStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// SessionRepo stores completed session records.
type SessionRepo interface {
	// Append inserts a session record.
	Append(ctx context.Context, rec SessionRecord) error

	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]SessionRecord, error)

	// AllDates returns the finished-at timestamps of every session.
	AllDates(ctx context.Context) ([]time.Time, error)
}

// StatRepo stores cumulative per-interval statistics.
type StatRepo interface {
	// Fold adds a session's per-interval breakdown into the cumulative stats.
	Fold(ctx context.Context, breakdown map[string]TallyData) error

	// All returns every stat record with at least one attempt.
	All(ctx context.Context) ([]IntervalStat, error)

	// Accuracies returns interval id → accuracy for every recorded interval,
	// in the shape the adaptive sampler consumes.
	Accuracies(ctx context.Context) (map[string]float64, error)
}

// SettingsRepo is a flat key-value store with get-with-default semantics.
type SettingsRepo interface {
	GetString(ctx context.Context, key, fallback string) (string, error)
	SetString(ctx context.Context, key, value string) error

	GetInt(ctx context.Context, key string, fallback int) (int, error)
	SetInt(ctx context.Context, key string, value int) error

	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	// GetStrings and SetStrings store a string list as JSON.
	GetStrings(ctx context.Context, key string) ([]string, error)
	SetStrings(ctx context.Context, key string, values []string) error

	// All returns every stored key/value pair.
	All(ctx context.Context) (map[string]string, error)
}

// Setting keys used across the app.
const (
	KeyPlaybackMode    = "playbackMode"
	KeySessionLength   = "sessionLength"
	KeyActiveIntervals = "activeIntervalIds"
	KeyCurrentPhase    = "currentPhase"
)

// Defaults applied when a setting is missing.
const (
	DefaultPlaybackMode  = "melodic"
	DefaultSessionLength = 10
	DefaultPhase         = 1
)

// PhaseUnlockedKey returns the settings key marking a phase as unlocked.
func PhaseUnlockedKey(phase int) string {
	return fmt.Sprintf("phase%dUnlocked", phase)
}
