package quiz

import (
	"errors"
	"math/rand"
	"testing"
)

func testGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(7))
}

func TestGenerateQuestion_FieldsValid(t *testing.T) {
	g := testGenerator()
	ids := []string{"root", "perfect_fourth", "perfect_fifth"}
	keys := []string{"C", "G"}

	for i := 0; i < 50; i++ {
		q, err := g.GenerateQuestion(ids, keys)
		if err != nil {
			t.Fatalf("GenerateQuestion error: %v", err)
		}
		if !contains(ids, q.IntervalID) {
			t.Errorf("interval %q not in active ids", q.IntervalID)
		}
		if !contains(keys, q.RootKey) {
			t.Errorf("key %q not in key pool", q.RootKey)
		}
		if q.RootHz <= 0 {
			t.Errorf("root frequency %f, want > 0", q.RootHz)
		}
		if q.IntervalHz < q.RootHz {
			t.Errorf("interval frequency %f below root %f", q.IntervalHz, q.RootHz)
		}
	}
}

func TestGenerateQuestion_RootIntervalMatchesRootFrequency(t *testing.T) {
	g := testGenerator()
	for i := 0; i < 20; i++ {
		q, err := g.GenerateQuestion([]string{"root"}, []string{"D"})
		if err != nil {
			t.Fatalf("GenerateQuestion error: %v", err)
		}
		if q.IntervalHz != q.RootHz {
			t.Errorf("root interval: IntervalHz %f != RootHz %f", q.IntervalHz, q.RootHz)
		}
	}
}

func TestGenerateQuestion_EmptyPools(t *testing.T) {
	g := testGenerator()
	if _, err := g.GenerateQuestion(nil, []string{"C"}); !errors.Is(err, ErrNoIntervals) {
		t.Errorf("empty ids error = %v, want ErrNoIntervals", err)
	}
	if _, err := g.GenerateQuestion([]string{"root"}, nil); !errors.Is(err, ErrNoKeys) {
		t.Errorf("empty keys error = %v, want ErrNoKeys", err)
	}
}

func TestGenerateQuestion_UnknownInterval(t *testing.T) {
	g := testGenerator()
	_, err := g.GenerateQuestion([]string{"not_an_interval"}, []string{"C"})
	if !errors.Is(err, ErrUnknownInterval) {
		t.Errorf("error = %v, want ErrUnknownInterval", err)
	}
}

func TestGenerateSession_LengthAndMembership(t *testing.T) {
	g := testGenerator()
	ids := []string{"root", "perfect_fifth"}
	keys := []string{"C"}

	qs, err := g.GenerateSession(ids, keys, 10)
	if err != nil {
		t.Fatalf("GenerateSession error: %v", err)
	}
	if len(qs) != 10 {
		t.Fatalf("session length = %d, want 10", len(qs))
	}
	for _, q := range qs {
		if !contains(ids, q.IntervalID) {
			t.Errorf("interval %q not in active ids", q.IntervalID)
		}
		if q.RootKey != "C" {
			t.Errorf("key = %q, want C", q.RootKey)
		}
	}
}

func TestGenerateSession_InvalidCount(t *testing.T) {
	g := testGenerator()
	for _, count := range []int{0, -1} {
		if _, err := g.GenerateSession([]string{"root"}, []string{"C"}, count); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("count %d error = %v, want ErrInvalidCount", count, err)
		}
	}
}

func TestGenerateAdaptiveSession_BiasesTowardStruggling(t *testing.T) {
	g := testGenerator()
	ids := []string{"root", "perfect_fifth"}
	accuracy := map[string]float64{
		"root":          1.0, // weight 1
		"perfect_fifth": 0.0, // weight 5
	}

	qs, err := g.GenerateAdaptiveSession(ids, []string{"C"}, 300, accuracy)
	if err != nil {
		t.Fatalf("GenerateAdaptiveSession error: %v", err)
	}

	counts := make(map[string]int)
	for _, q := range qs {
		counts[q.IntervalID]++
	}
	// Expected split is 5:1. Anything clearly above parity shows the bias.
	if counts["perfect_fifth"] <= counts["root"] {
		t.Errorf("struggling interval drawn %d times vs %d for mastered, want more",
			counts["perfect_fifth"], counts["root"])
	}
}

func TestGenerateAdaptiveSession_InvalidCount(t *testing.T) {
	g := testGenerator()
	_, err := g.GenerateAdaptiveSession([]string{"root"}, []string{"C"}, 0, nil)
	if !errors.Is(err, ErrInvalidCount) {
		t.Errorf("error = %v, want ErrInvalidCount", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
