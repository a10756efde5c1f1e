// Package session owns the lifecycle of one practice run: the question
// sequence, the answer/retry protocol, and the completion payload. The machine
// is single-writer; one logical caller drives it per run.
package session

import "github.com/pentatonicway/ear-trainer/internal/quiz"

// Phase is the state of the run's per-question protocol.
type Phase int

const (
	PhaseIdle      Phase = iota // no run started
	PhaseAnswering              // waiting for an answer to the current question
	PhaseFeedback               // first wrong answer shown; retry pending
	PhaseComplete               // terminal; summary available
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// AudioTrigger is the injected playback capability. Play is fire-and-forget;
// the machine never observes its outcome.
type AudioTrigger interface {
	Play(rootHz, intervalHz float64)
}

// nopTrigger discards playback requests.
type nopTrigger struct{}

func (nopTrigger) Play(rootHz, intervalHz float64) {}

// AnswerResult records the outcome of one question. Exactly one is appended
// per question, in question order.
type AnswerResult struct {
	IntervalID string
	Correct    bool
	UsedRetry  bool
}

// Tally is a per-interval correct/total pair.
type Tally struct {
	Correct int
	Total   int
}

// Summary is the completion payload, produced exactly once per run when the
// machine enters PhaseComplete.
type Summary struct {
	Questions []quiz.Question
	Results   []AnswerResult
	Score     int
	Total     int
	Breakdown map[string]Tally
}

// buildSummary folds the results into the completion payload.
func buildSummary(questions []quiz.Question, results []AnswerResult) *Summary {
	score := 0
	breakdown := make(map[string]Tally, len(results))
	for _, r := range results {
		t := breakdown[r.IntervalID]
		t.Total++
		if r.Correct {
			t.Correct++
			score++
		}
		breakdown[r.IntervalID] = t
	}
	return &Summary{
		Questions: questions,
		Results:   results,
		Score:     score,
		Total:     len(results),
		Breakdown: breakdown,
	}
}
