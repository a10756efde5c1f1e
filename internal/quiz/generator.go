package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pentatonicway/ear-trainer/internal/adaptive"
	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/pitch"
)

var (
	ErrNoIntervals     = errors.New("no active intervals to draw from")
	ErrNoKeys          = errors.New("no root keys to draw from")
	ErrInvalidCount    = errors.New("session length must be a positive integer")
	ErrUnknownInterval = errors.New("interval not in catalog")
)

// Generator draws questions from interval and key pools. The random source is
// injected so sessions are reproducible under test.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource creates a Generator with an explicit random source.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// GenerateQuestion uniformly picks a key and an interval id and resolves both
// frequencies.
func (g *Generator) GenerateQuestion(activeIDs, keys []string) (Question, error) {
	if len(activeIDs) == 0 {
		return Question{}, ErrNoIntervals
	}
	if len(keys) == 0 {
		return Question{}, ErrNoKeys
	}
	id := activeIDs[g.rng.Intn(len(activeIDs))]
	key := keys[g.rng.Intn(len(keys))]
	return buildQuestion(key, id)
}

// GenerateSession returns count questions, each drawn independently and
// uniformly.
func (g *Generator) GenerateSession(activeIDs, keys []string, count int) ([]Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		q, err := g.GenerateQuestion(activeIDs, keys)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// GenerateAdaptiveSession returns count questions with the interval for each
// slot drawn from the accuracy-weighted pool. Keys are still uniform.
func (g *Generator) GenerateAdaptiveSession(activeIDs, keys []string, count int, accuracy map[string]float64) ([]Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if len(activeIDs) == 0 {
		return nil, ErrNoIntervals
	}
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	pool := adaptive.BuildPool(activeIDs, accuracy)
	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		id, err := adaptive.PickFromPool(g.rng, pool)
		if err != nil {
			return nil, err
		}
		key := keys[g.rng.Intn(len(keys))]
		q, err := buildQuestion(key, id)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// buildQuestion resolves a key/interval pair into frequencies. An id missing
// from the catalog means the caller's configuration is broken.
func buildQuestion(key, intervalID string) (Question, error) {
	iv, ok := catalog.ByID(intervalID)
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrUnknownInterval, intervalID)
	}
	rootHz, err := pitch.RootFrequency(key)
	if err != nil {
		return Question{}, err
	}
	intervalHz, err := pitch.IntervalFrequency(rootHz, iv.Semitones)
	if err != nil {
		return Question{}, err
	}
	return Question{
		RootKey:    key,
		IntervalID: intervalID,
		RootHz:     rootHz,
		IntervalHz: intervalHz,
	}, nil
}
