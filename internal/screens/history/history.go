package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/router"
	"github.com/pentatonicway/ear-trainer/internal/screen"
	"github.com/pentatonicway/ear-trainer/internal/store"
	"github.com/pentatonicway/ear-trainer/internal/streak"
	"github.com/pentatonicway/ear-trainer/internal/ui/layout"
	"github.com/pentatonicway/ear-trainer/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Streak   int
	Err      error
}

// HistoryScreen lists past sessions with expandable per-interval details.
type HistoryScreen struct {
	st         *store.Store
	sessions   []store.SessionRecord
	streakDays int
	selected   int
	expanded   map[int]bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(st *store.Store) *HistoryScreen {
	return &HistoryScreen{
		st:       st,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := s.st.Sessions().Recent(ctx, historyLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		dates, err := s.st.Sessions().AllDates(ctx)
		if err != nil {
			return historyLoadedMsg{Sessions: sessions}
		}
		return historyLoadedMsg{
			Sessions: sessions,
			Streak:   streak.Days(dates, time.Now()),
		}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.streakDays = msg.Streak
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.streakDays > 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(fmt.Sprintf("★ %d-day practice streak", s.streakDays)))
		b.WriteString("\n\n")
	}

	for i, rec := range s.sessions {
		dateStr := rec.FinishedAt.Format("Jan 02, 2006")

		var accuracy float64
		if rec.Total > 0 {
			accuracy = float64(rec.Score) / float64(rec.Total) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %d/%d  %.0f%% accuracy",
			prefix, dateStr, rec.Score, rec.Total, accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range breakdownDetails(rec.Breakdown) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// breakdownDetails renders per-interval tallies ordered by semitone offset.
func breakdownDetails(breakdown map[string]store.TallyData) []string {
	if len(breakdown) == 0 {
		return []string{"    No per-interval data"}
	}

	type entry struct {
		text      string
		semitones int
	}
	entries := make([]entry, 0, len(breakdown))
	for id, tally := range breakdown {
		name := id
		semitones := 0
		if iv, ok := catalog.ByID(id); ok {
			name = iv.DisplayName
			semitones = iv.Semitones
		}
		entries = append(entries, entry{
			text:      fmt.Sprintf("    %-18s %d/%d", name, tally.Correct, tally.Total),
			semitones: semitones,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].semitones < entries[j].semitones })

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.text)
	}
	return out
}
