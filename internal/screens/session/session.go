package session

import (
	"context"
	"sort"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pentatonicway/ear-trainer/internal/audio"
	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/pitch"
	"github.com/pentatonicway/ear-trainer/internal/progression"
	"github.com/pentatonicway/ear-trainer/internal/quiz"
	"github.com/pentatonicway/ear-trainer/internal/router"
	"github.com/pentatonicway/ear-trainer/internal/screen"
	"github.com/pentatonicway/ear-trainer/internal/screens/summary"
	sess "github.com/pentatonicway/ear-trainer/internal/session"
	"github.com/pentatonicway/ear-trainer/internal/store"
	"github.com/pentatonicway/ear-trainer/internal/streak"
	"github.com/pentatonicway/ear-trainer/internal/ui/layout"
)

// feedbackKind tracks which overlay the screen is showing between questions.
type feedbackKind int

const (
	feedbackNone feedbackKind = iota
	feedbackRetry
	feedbackCorrect
	feedbackMiss
)

// SessionScreen runs one practice session against the quiz machine.
type SessionScreen struct {
	st       *store.Store
	machine  *sess.Machine
	notifier *audio.Notifier

	selected     int
	feedback     feedbackKind
	missedAnswer string // display name of the correct answer after a miss
	nowPlaying   bool
	quitConfirm  bool
	saving       bool
	errMsg       string
	started      bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen backed by the given store.
func New(st *store.Store) *SessionScreen {
	notifier := audio.NewNotifier(8)
	return &SessionScreen{
		st:       st,
		machine:  sess.New(quiz.NewGenerator(), notifier),
		notifier: notifier,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.startRun(), s.waitForCue())
}

func (s *SessionScreen) Title() string {
	return "Session"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.feedback != feedbackNone {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "R", Description: "Replay"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runStartedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.started = true
		return s, nil

	case cueMsg:
		s.nowPlaying = true
		return s, s.waitForCue()

	case runSavedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		data := msg.Data
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(data)}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.started || s.saving {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.feedback != feedbackNone {
		return s.dismissFeedback()
	}

	choices := s.machine.AnswerChoices()

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
		return s, nil
	case "down", "j":
		if s.selected < len(choices)-1 {
			s.selected++
		}
		return s, nil
	case "r", "R", "space":
		s.nowPlaying = false
		s.machine.PlayCurrentQuestion()
		return s, nil
	case "s", "S":
		return s.skipQuestion()
	case "enter":
		return s.submitSelected(choices)
	}

	// Digits jump straight to a choice and answer.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(choices) {
			s.selected = idx
			return s.submitSelected(choices)
		}
	}

	return s, nil
}

func (s *SessionScreen) submitSelected(choices []catalog.Interval) (screen.Screen, tea.Cmd) {
	if s.selected < 0 || s.selected >= len(choices) {
		return s, nil
	}
	q := s.machine.CurrentQuestion()
	if q == nil {
		return s, nil
	}
	answer := choices[s.selected].ID
	correct := answer == q.IntervalID

	if err := s.machine.SubmitAnswer(answer); err != nil {
		return s, nil
	}

	switch {
	case correct:
		s.feedback = feedbackCorrect
	case s.machine.Phase() == sess.PhaseFeedback:
		s.feedback = feedbackRetry
	default:
		// Second wrong answer: the machine recorded a miss and moved on.
		s.feedback = feedbackMiss
		s.missedAnswer = displayName(q.IntervalID)
	}
	return s, nil
}

func (s *SessionScreen) skipQuestion() (screen.Screen, tea.Cmd) {
	q := s.machine.CurrentQuestion()
	if q == nil {
		return s, nil
	}
	if err := s.machine.AdvanceToNext(); err != nil {
		return s, nil
	}
	s.feedback = feedbackMiss
	s.missedAnswer = displayName(q.IntervalID)
	return s, nil
}

func (s *SessionScreen) dismissFeedback() (screen.Screen, tea.Cmd) {
	kind := s.feedback
	s.feedback = feedbackNone
	s.missedAnswer = ""
	s.nowPlaying = false

	if kind == feedbackRetry {
		// Same question, second attempt.
		_ = s.machine.DismissFeedback()
		return s, nil
	}

	s.selected = 0
	if s.machine.Phase() == sess.PhaseComplete {
		s.saving = true
		return s, s.saveRun()
	}
	return s, nil
}

// startRun loads the learner's configuration and starts the machine.
func (s *SessionScreen) startRun() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		settings := s.st.Settings()

		phase, err := settings.GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase)
		if err != nil {
			return runStartedMsg{Err: err}
		}
		length, err := settings.GetInt(ctx, store.KeySessionLength, store.DefaultSessionLength)
		if err != nil {
			return runStartedMsg{Err: err}
		}
		customIDs, err := settings.GetStrings(ctx, store.KeyActiveIntervals)
		if err != nil {
			return runStartedMsg{Err: err}
		}
		accuracy, err := s.st.Stats().Accuracies(ctx)
		if err != nil {
			return runStartedMsg{Err: err}
		}

		intervalIDs := progression.ActiveIntervalIDs(phase, customIDs)
		if err := s.machine.Start(intervalIDs, pitch.Keys(), length, accuracy); err != nil {
			return runStartedMsg{Err: err}
		}
		return runStartedMsg{}
	}
}

// waitForCue blocks on the notifier channel and forwards the next cue.
func (s *SessionScreen) waitForCue() tea.Cmd {
	return func() tea.Msg {
		return cueMsg(<-s.notifier.Cues())
	}
}

// saveRun persists the finished run, folds stats, applies phase progression,
// and assembles the summary payload.
func (s *SessionScreen) saveRun() tea.Cmd {
	machine := s.machine
	st := s.st
	return func() tea.Msg {
		ctx := context.Background()
		sum := machine.Summary()
		if sum == nil {
			return runSavedMsg{Err: sess.ErrNoRun}
		}

		breakdown := make(map[string]store.TallyData, len(sum.Breakdown))
		for id, tally := range sum.Breakdown {
			breakdown[id] = store.TallyData{Correct: tally.Correct, Total: tally.Total}
		}

		now := time.Now().UTC()
		rec := store.SessionRecord{
			ID:         machine.RunID(),
			FinishedAt: now,
			Score:      sum.Score,
			Total:      sum.Total,
			Breakdown:  breakdown,
		}
		if err := st.Sessions().Append(ctx, rec); err != nil {
			return runSavedMsg{Err: err}
		}
		if err := st.Stats().Fold(ctx, breakdown); err != nil {
			return runSavedMsg{Err: err}
		}

		unlocked, err := applyProgression(ctx, st)
		if err != nil {
			return runSavedMsg{Err: err}
		}

		streakDays, err := currentStreak(ctx, st, now)
		if err != nil {
			return runSavedMsg{Err: err}
		}

		return runSavedMsg{Data: summary.Data{
			Score:         sum.Score,
			Total:         sum.Total,
			Intervals:     breakdownLines(breakdown),
			UnlockedPhase: unlocked,
			Streak:        streakDays,
		}}
	}
}

// applyProgression checks the unlock rule against the three most recent
// sessions and persists a new phase when it fires. Returns the newly unlocked
// phase, or 0.
func applyProgression(ctx context.Context, st *store.Store) (int, error) {
	settings := st.Settings()
	phase, err := settings.GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase)
	if err != nil {
		return 0, err
	}

	recent, err := st.Sessions().Recent(ctx, 3)
	if err != nil {
		return 0, err
	}
	scores := make([]progression.SessionScore, 0, len(recent))
	for _, rec := range recent {
		scores = append(scores, progression.SessionScore{Score: rec.Score, Total: rec.Total})
	}

	next, ok := progression.CheckUnlock(scores, phase)
	if !ok {
		return 0, nil
	}
	if err := settings.SetInt(ctx, store.KeyCurrentPhase, next); err != nil {
		return 0, err
	}
	if err := settings.SetBool(ctx, store.PhaseUnlockedKey(next), true); err != nil {
		return 0, err
	}
	return next, nil
}

func currentStreak(ctx context.Context, st *store.Store, now time.Time) (int, error) {
	dates, err := st.Sessions().AllDates(ctx)
	if err != nil {
		return 0, err
	}
	return streak.Days(dates, now), nil
}

// breakdownLines converts the per-interval tallies into summary rows ordered
// by semitone offset.
func breakdownLines(breakdown map[string]store.TallyData) []summary.IntervalLine {
	type entry struct {
		line      summary.IntervalLine
		semitones int
	}
	entries := make([]entry, 0, len(breakdown))
	for id, tally := range breakdown {
		semitones := 0
		name := id
		if iv, ok := catalog.ByID(id); ok {
			semitones = iv.Semitones
			name = iv.DisplayName
		}
		entries = append(entries, entry{
			line:      summary.IntervalLine{Name: name, Correct: tally.Correct, Total: tally.Total},
			semitones: semitones,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].semitones < entries[j].semitones })

	lines := make([]summary.IntervalLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.line)
	}
	return lines
}

func displayName(intervalID string) string {
	if iv, ok := catalog.ByID(intervalID); ok {
		return iv.DisplayName
	}
	return intervalID
}
