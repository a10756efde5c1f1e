package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessions_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := SessionRecord{
			ID:         []string{"a", "b", "c"}[i],
			FinishedAt: base.Add(time.Duration(i) * time.Hour),
			Score:      i,
			Total:      5,
			Breakdown:  map[string]TallyData{"perfect_fifth": {Correct: i, Total: 5}},
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append %s: %v", rec.ID, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	if recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("order = [%s %s], want newest first [c b]", recent[0].ID, recent[1].ID)
	}
	if !recent[0].FinishedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("finished_at = %v, want %v", recent[0].FinishedAt, base.Add(2*time.Hour))
	}
	if got := recent[0].Breakdown["perfect_fifth"]; got.Correct != 2 || got.Total != 5 {
		t.Errorf("breakdown = %+v, want {2 5}", got)
	}
}

func TestSessions_AllDates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Sessions()

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := SessionRecord{
			ID:         string(rune('a' + i)),
			FinishedAt: base.AddDate(0, 0, i),
			Total:      5,
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	dates, err := repo.AllDates(ctx)
	if err != nil {
		t.Fatalf("all dates: %v", err)
	}
	if len(dates) != 4 {
		t.Errorf("got %d dates, want 4", len(dates))
	}
}

func TestStats_FoldAccumulates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Stats()

	err := repo.Fold(ctx, map[string]TallyData{
		"perfect_fifth": {Correct: 3, Total: 4},
		"octave":        {Correct: 1, Total: 2},
	})
	if err != nil {
		t.Fatalf("first fold: %v", err)
	}
	err = repo.Fold(ctx, map[string]TallyData{
		"perfect_fifth": {Correct: 1, Total: 1},
	})
	if err != nil {
		t.Fatalf("second fold: %v", err)
	}

	acc, err := repo.Accuracies(ctx)
	if err != nil {
		t.Fatalf("accuracies: %v", err)
	}
	if got := acc["perfect_fifth"]; got != 0.8 {
		t.Errorf("perfect_fifth accuracy = %v, want 0.8", got)
	}
	if got := acc["octave"]; got != 0.5 {
		t.Errorf("octave accuracy = %v, want 0.5", got)
	}

	stats, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(stats) != 2 {
		t.Errorf("got %d stat rows, want 2", len(stats))
	}
}

func TestStats_EmptyFoldIsNoop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Stats().Fold(ctx, nil); err != nil {
		t.Fatalf("empty fold: %v", err)
	}
	acc, err := s.Stats().Accuracies(ctx)
	if err != nil {
		t.Fatalf("accuracies: %v", err)
	}
	if len(acc) != 0 {
		t.Errorf("accuracies = %v, want empty", acc)
	}
}

func TestSettings_Defaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Settings()

	mode, err := repo.GetString(ctx, KeyPlaybackMode, DefaultPlaybackMode)
	if err != nil {
		t.Fatalf("get string: %v", err)
	}
	if mode != DefaultPlaybackMode {
		t.Errorf("missing key returned %q, want default %q", mode, DefaultPlaybackMode)
	}

	length, err := repo.GetInt(ctx, KeySessionLength, DefaultSessionLength)
	if err != nil {
		t.Fatalf("get int: %v", err)
	}
	if length != DefaultSessionLength {
		t.Errorf("missing key returned %d, want default %d", length, DefaultSessionLength)
	}

	ids, err := repo.GetStrings(ctx, KeyActiveIntervals)
	if err != nil {
		t.Fatalf("get strings: %v", err)
	}
	if ids != nil {
		t.Errorf("missing list key returned %v, want nil", ids)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Settings()

	if err := repo.SetString(ctx, KeyPlaybackMode, "harmonic"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if err := repo.SetInt(ctx, KeySessionLength, 20); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := repo.SetBool(ctx, PhaseUnlockedKey(2), true); err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if err := repo.SetStrings(ctx, KeyActiveIntervals, []string{"root", "octave"}); err != nil {
		t.Fatalf("set strings: %v", err)
	}

	mode, _ := repo.GetString(ctx, KeyPlaybackMode, DefaultPlaybackMode)
	if mode != "harmonic" {
		t.Errorf("playback mode = %q, want harmonic", mode)
	}
	length, _ := repo.GetInt(ctx, KeySessionLength, DefaultSessionLength)
	if length != 20 {
		t.Errorf("session length = %d, want 20", length)
	}
	unlocked, _ := repo.GetBool(ctx, PhaseUnlockedKey(2), false)
	if !unlocked {
		t.Error("phase2Unlocked not persisted")
	}
	ids, _ := repo.GetStrings(ctx, KeyActiveIntervals)
	if len(ids) != 2 || ids[0] != "root" || ids[1] != "octave" {
		t.Errorf("active intervals = %v, want [root octave]", ids)
	}
}

func TestSettings_Overwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Settings()

	if err := repo.SetInt(ctx, KeyCurrentPhase, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetInt(ctx, KeyCurrentPhase, 3); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	phase, _ := repo.GetInt(ctx, KeyCurrentPhase, DefaultPhase)
	if phase != 3 {
		t.Errorf("phase = %d, want 3", phase)
	}
}

func TestWipe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Sessions().Append(ctx, SessionRecord{
		ID: "x", FinishedAt: time.Now().UTC(), Score: 5, Total: 5,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Stats().Fold(ctx, map[string]TallyData{"root": {Correct: 1, Total: 1}}); err != nil {
		t.Fatalf("fold: %v", err)
	}
	if err := s.Settings().SetInt(ctx, KeyCurrentPhase, 4); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Wipe(ctx); err != nil {
		t.Fatalf("wipe: %v", err)
	}

	recent, _ := s.Sessions().Recent(ctx, 10)
	if len(recent) != 0 {
		t.Errorf("sessions survived wipe: %v", recent)
	}
	stats, _ := s.Stats().All(ctx)
	if len(stats) != 0 {
		t.Errorf("stats survived wipe: %v", stats)
	}
	phase, _ := s.Settings().GetInt(ctx, KeyCurrentPhase, DefaultPhase)
	if phase != DefaultPhase {
		t.Errorf("settings survived wipe: phase = %d", phase)
	}
}
