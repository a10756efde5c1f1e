package backup

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentatonicway/ear-trainer/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedStore(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()

	err := s.Sessions().Append(ctx, store.SessionRecord{
		ID:         "run-1",
		FinishedAt: time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC),
		Score:      8,
		Total:      10,
		Breakdown:  map[string]store.TallyData{"perfect_fifth": {Correct: 8, Total: 10}},
	})
	require.NoError(t, err)

	err = s.Stats().Fold(ctx, map[string]store.TallyData{
		"perfect_fifth": {Correct: 8, Total: 10},
	})
	require.NoError(t, err)

	require.NoError(t, s.Settings().SetInt(ctx, store.KeyCurrentPhase, 3))
	require.NoError(t, s.Settings().SetString(ctx, store.KeyPlaybackMode, "harmonic"))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)
	seedStore(t, src)

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, src, &buf))

	dst := openTestStore(t)
	require.NoError(t, Import(ctx, dst, &buf))

	sessions, err := dst.Sessions().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "run-1", sessions[0].ID)
	assert.Equal(t, 8, sessions[0].Score)
	assert.Equal(t, store.TallyData{Correct: 8, Total: 10}, sessions[0].Breakdown["perfect_fifth"])

	acc, err := dst.Stats().Accuracies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.8, acc["perfect_fifth"])

	phase, err := dst.Settings().GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase)
	require.NoError(t, err)
	assert.Equal(t, 3, phase)
}

func TestImportReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)
	seedStore(t, src)

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, src, &buf))

	dst := openTestStore(t)
	err := dst.Sessions().Append(ctx, store.SessionRecord{
		ID:         "stale",
		FinishedAt: time.Now().UTC(),
		Total:      5,
	})
	require.NoError(t, err)

	require.NoError(t, Import(ctx, dst, &buf))

	sessions, err := dst.Sessions().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "run-1", sessions[0].ID)
}

func TestImportRejectsInvalidArchive(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"not json", "not json at all"},
		{"missing fields", `{"version": 1}`},
		{"wrong types", `{"version": "one", "exportedAt": "x", "sessions": [], "stats": [], "settings": {}}`},
		{"bad session entry", `{"version": 1, "exportedAt": "2025-05-01T00:00:00Z", "sessions": [{"id": ""}], "stats": [], "settings": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := openTestStore(t)
			seedStore(t, dst)

			err := Import(ctx, dst, strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidArchive)

			// Existing data must be untouched after a rejected import.
			sessions, err := dst.Sessions().Recent(ctx, 10)
			require.NoError(t, err)
			assert.Len(t, sessions, 1)
		})
	}
}

func TestImportRejectsVersionMismatch(t *testing.T) {
	ctx := context.Background()
	dst := openTestStore(t)

	input := `{"version": 99, "exportedAt": "2025-05-01T00:00:00Z", "sessions": [], "stats": [], "settings": {}}`
	err := Import(ctx, dst, strings.NewReader(input))
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestExportEmptyStore(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, src, &buf))

	dst := openTestStore(t)
	require.NoError(t, Import(ctx, dst, &buf))

	sessions, err := dst.Sessions().Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
