package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pentatonicway/ear-trainer/internal/router"
	"github.com/pentatonicway/ear-trainer/internal/screen"
	"github.com/pentatonicway/ear-trainer/internal/screens/history"
	sessionscreen "github.com/pentatonicway/ear-trainer/internal/screens/session"
	"github.com/pentatonicway/ear-trainer/internal/screens/settings"
	"github.com/pentatonicway/ear-trainer/internal/store"
	"github.com/pentatonicway/ear-trainer/internal/streak"
	"github.com/pentatonicway/ear-trainer/internal/ui/components"
	"github.com/pentatonicway/ear-trainer/internal/ui/theme"
)

// statsLoadedMsg carries the home screen's stat line values.
type statsLoadedMsg struct {
	Phase    int
	Streak   int
	Sessions int
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	st   *store.Store
	menu components.Menu

	phase        int
	streakDays   int
	sessionCount int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen backed by the given store.
func New(st *store.Store) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START SESSION", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: sessionscreen.New(st)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(st)}
			}
		}},
		{Label: "SETTINGS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: settings.New(st)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		st:    st,
		menu:  components.NewMenu(items),
		phase: store.DefaultPhase,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := statsLoadedMsg{Phase: store.DefaultPhase}

		if phase, err := h.st.Settings().GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase); err == nil {
			msg.Phase = phase
		}
		if dates, err := h.st.Sessions().AllDates(ctx); err == nil {
			msg.Sessions = len(dates)
			msg.Streak = streak.Days(dates, time.Now())
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.phase = msg.Phase
		h.streakDays = msg.Streak
		h.sessionCount = msg.Sessions
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("P E N T A T O N E"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("interval ear training"))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Phase %d        ★ %d-day streak        %d sessions",
		h.phase, h.streakDays, h.sessionCount)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(stats))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
