package session

import (
	"errors"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/quiz"
)

var (
	// ErrNotAnswering is returned by SubmitAnswer outside PhaseAnswering.
	ErrNotAnswering = errors.New("no answer expected in the current phase")

	// ErrNotFeedback is returned by DismissFeedback outside PhaseFeedback.
	ErrNotFeedback = errors.New("no feedback is being shown")

	// ErrNoRun is returned by operations that need an unfinished run.
	ErrNoRun = errors.New("no active run")
)

// Machine drives one practice run through the answer/retry/advance protocol.
// Construct with New, start runs with Start; a new Start discards the previous
// run entirely.
type Machine struct {
	gen   *quiz.Generator
	audio AudioTrigger

	runID     string
	phase     Phase
	questions []quiz.Question
	activeIDs []string
	current   int

	selectedAnswer string // wrong answer shown during feedback, "" otherwise
	retryUsed      bool
	results        []AnswerResult
	summary        *Summary
}

// New creates an idle machine. A nil audio trigger is replaced with a no-op.
func New(gen *quiz.Generator, audio AudioTrigger) *Machine {
	if audio == nil {
		audio = nopTrigger{}
	}
	return &Machine{gen: gen, audio: audio, phase: PhaseIdle}
}

// Start builds the question sequence and begins a fresh run. The sequence is
// adaptive when an accuracy map is supplied, uniform otherwise. Validation
// failures leave the previous run untouched.
func (m *Machine) Start(intervalIDs, keys []string, length int, accuracy map[string]float64) error {
	var questions []quiz.Question
	var err error
	if len(accuracy) > 0 {
		questions, err = m.gen.GenerateAdaptiveSession(intervalIDs, keys, length, accuracy)
	} else {
		questions, err = m.gen.GenerateSession(intervalIDs, keys, length)
	}
	if err != nil {
		return err
	}

	m.runID = uuid.New().String()
	m.questions = questions
	m.activeIDs = slices.Clone(intervalIDs)
	m.current = 0
	m.results = make([]AnswerResult, 0, length)
	m.summary = nil
	m.resetQuestionState()
	m.phase = PhaseAnswering
	m.playCurrent()
	return nil
}

// SubmitAnswer resolves the learner's answer against the current question.
// A correct answer finalizes the question and advances. The first wrong answer
// consumes the single retry: the machine enters PhaseFeedback and replays the
// question without recording a result. A wrong answer with the retry already
// used finalizes a miss and advances.
func (m *Machine) SubmitAnswer(intervalID string) error {
	if m.phase != PhaseAnswering {
		return ErrNotAnswering
	}

	q := m.questions[m.current]
	if intervalID == q.IntervalID {
		m.results = append(m.results, AnswerResult{
			IntervalID: q.IntervalID,
			Correct:    true,
			UsedRetry:  m.retryUsed,
		})
		m.advance()
		return nil
	}

	if !m.retryUsed {
		m.selectedAnswer = intervalID
		m.retryUsed = true
		m.phase = PhaseFeedback
		m.playCurrent()
		return nil
	}

	m.selectedAnswer = intervalID
	m.results = append(m.results, AnswerResult{
		IntervalID: q.IntervalID,
		Correct:    false,
		UsedRetry:  true,
	})
	m.advance()
	return nil
}

// DismissFeedback returns from the feedback display to answering, so the
// learner can take the retry attempt on the same question.
func (m *Machine) DismissFeedback() error {
	if m.phase != PhaseFeedback {
		return ErrNotFeedback
	}
	m.phase = PhaseAnswering
	return nil
}

// AdvanceToNext moves past the current question. The current question is
// finalized as a miss if it has no recorded result yet (the give-up path on a
// pending retry), so every question produces exactly one result. Past the last
// question the machine enters PhaseComplete and builds the summary.
func (m *Machine) AdvanceToNext() error {
	if m.phase != PhaseAnswering && m.phase != PhaseFeedback {
		return ErrNoRun
	}
	if len(m.results) == m.current {
		m.results = append(m.results, AnswerResult{
			IntervalID: m.questions[m.current].IntervalID,
			Correct:    false,
			UsedRetry:  m.retryUsed,
		})
	}
	m.advance()
	return nil
}

// PlayCurrentQuestion re-triggers audio for the current question without
// touching any other state. A no-op when no question is current.
func (m *Machine) PlayCurrentQuestion() {
	m.playCurrent()
}

// CurrentQuestion returns the question awaiting an answer, or nil when no run
// is active or the run is complete.
func (m *Machine) CurrentQuestion() *quiz.Question {
	if m.phase == PhaseIdle || m.current >= len(m.questions) {
		return nil
	}
	q := m.questions[m.current]
	return &q
}

// AnswerChoices resolves the run's active interval ids to catalog entries,
// ascending by semitone offset, so choices render in musical order regardless
// of input order. Ids missing from the catalog are skipped.
func (m *Machine) AnswerChoices() []catalog.Interval {
	choices := make([]catalog.Interval, 0, len(m.activeIDs))
	for _, id := range m.activeIDs {
		if iv, ok := catalog.ByID(id); ok {
			choices = append(choices, iv)
		}
	}
	sort.Slice(choices, func(i, j int) bool {
		return choices[i].Semitones < choices[j].Semitones
	})
	return choices
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase { return m.phase }

// RunID returns the identifier of the current run, or "" before any Start.
func (m *Machine) RunID() string { return m.runID }

// CurrentIndex returns the zero-based index of the current question. Equals
// the run length once the run is complete.
func (m *Machine) CurrentIndex() int { return m.current }

// Length returns the number of questions in the run.
func (m *Machine) Length() int { return len(m.questions) }

// RetryUsed reports whether the retry has been consumed on the current
// question.
func (m *Machine) RetryUsed() bool { return m.retryUsed }

// SelectedAnswer returns the wrong answer being shown during feedback, or ""
// when none is displayed.
func (m *Machine) SelectedAnswer() string { return m.selectedAnswer }

// Results returns the answer results recorded so far, in question order.
func (m *Machine) Results() []AnswerResult {
	return slices.Clone(m.results)
}

// Summary returns the completion payload, or nil until the run is complete.
func (m *Machine) Summary() *Summary {
	return m.summary
}

// advance finalizes the transition after a resolved question: either the next
// question starts or the run completes. The summary is built exactly once
// because the terminal transition happens exactly once.
func (m *Machine) advance() {
	if m.current+1 >= len(m.questions) {
		m.current = len(m.questions)
		m.resetQuestionState()
		m.phase = PhaseComplete
		m.summary = buildSummary(m.questions, m.results)
		return
	}
	m.current++
	m.resetQuestionState()
	m.phase = PhaseAnswering
	m.playCurrent()
}

func (m *Machine) resetQuestionState() {
	m.selectedAnswer = ""
	m.retryUsed = false
}

func (m *Machine) playCurrent() {
	if m.phase == PhaseIdle || m.current >= len(m.questions) {
		return
	}
	q := m.questions[m.current]
	m.audio.Play(q.RootHz, q.IntervalHz)
}
