package settings

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/progression"
	"github.com/pentatonicway/ear-trainer/internal/router"
	"github.com/pentatonicway/ear-trainer/internal/screen"
	"github.com/pentatonicway/ear-trainer/internal/store"
	"github.com/pentatonicway/ear-trainer/internal/ui/components"
	"github.com/pentatonicway/ear-trainer/internal/ui/layout"
	"github.com/pentatonicway/ear-trainer/internal/ui/theme"
)

const (
	minSessionLength = 5
	maxSessionLength = 50
)

// Playback modes the frontend understands.
var playbackModes = []string{"melodic", "harmonic"}

type settingsLoadedMsg struct {
	Length    int
	Mode      string
	Phase     int
	ActiveIDs []string
	Err       error
}

type settingSavedMsg struct {
	Err error
}

// SettingsScreen edits session length, playback mode, and the interval set.
type SettingsScreen struct {
	st *store.Store

	length    int
	mode      string
	phase     int
	available []catalog.Interval
	active    map[string]bool

	selected      int
	editingLength bool
	lengthInput   components.TextInput
	loaded        bool
	errMsg        string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a new SettingsScreen.
func New(st *store.Store) *SettingsScreen {
	return &SettingsScreen{
		st:     st,
		active: make(map[string]bool),
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		settings := s.st.Settings()

		length, err := settings.GetInt(ctx, store.KeySessionLength, store.DefaultSessionLength)
		if err != nil {
			return settingsLoadedMsg{Err: err}
		}
		mode, err := settings.GetString(ctx, store.KeyPlaybackMode, store.DefaultPlaybackMode)
		if err != nil {
			return settingsLoadedMsg{Err: err}
		}
		phase, err := settings.GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase)
		if err != nil {
			return settingsLoadedMsg{Err: err}
		}
		activeIDs, err := settings.GetStrings(ctx, store.KeyActiveIntervals)
		if err != nil {
			return settingsLoadedMsg{Err: err}
		}
		return settingsLoadedMsg{Length: length, Mode: mode, Phase: phase, ActiveIDs: activeIDs}
	}
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editingLength {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Change"},
		{Key: "Esc", Description: "Back"},
	}
}

// rowCount returns the number of selectable rows: length, mode, one per
// available interval, and the restore-defaults action.
func (s *SettingsScreen) rowCount() int {
	return 2 + len(s.available) + 1
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.loaded = true
			return s, nil
		}
		s.length = msg.Length
		s.mode = msg.Mode
		s.phase = msg.Phase
		s.available = catalog.ForPhase(msg.Phase)
		s.active = make(map[string]bool, len(s.available))
		for _, iv := range progression.ActiveIntervals(msg.Phase, msg.ActiveIDs) {
			s.active[iv.ID] = true
		}
		s.loaded = true
		return s, nil

	case settingSavedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editingLength {
		var cmd tea.Cmd
		s.lengthInput, cmd = s.lengthInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SettingsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.loaded {
		return s, nil
	}

	if s.editingLength {
		switch key {
		case "enter":
			return s.commitLength()
		case "esc":
			s.editingLength = false
			return s, nil
		}
		var cmd tea.Cmd
		s.lengthInput, cmd = s.lengthInput.Update(msg)
		return s, cmd
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
		return s, nil
	case "down", "j":
		if s.selected < s.rowCount()-1 {
			s.selected++
		}
		return s, nil
	case "enter", "space", "left", "right", "h", "l":
		return s.activateRow(key)
	}
	return s, nil
}

func (s *SettingsScreen) activateRow(key string) (screen.Screen, tea.Cmd) {
	switch {
	case s.selected == 0:
		// Arrows nudge the length; enter opens free entry.
		switch key {
		case "left", "h":
			return s.setLength(s.length - 5)
		case "right", "l":
			return s.setLength(s.length + 5)
		default:
			s.editingLength = true
			s.lengthInput = components.NewTextInput(fmt.Sprintf("%d", s.length), true, 2)
			return s, s.lengthInput.Init()
		}

	case s.selected == 1:
		mode := playbackModes[0]
		if s.mode == playbackModes[0] {
			mode = playbackModes[1]
		}
		s.mode = mode
		return s, s.save(store.KeyPlaybackMode, func(ctx context.Context) error {
			return s.st.Settings().SetString(ctx, store.KeyPlaybackMode, mode)
		})

	case s.selected < 2+len(s.available):
		iv := s.available[s.selected-2]
		if s.active[iv.ID] && s.activeCount() == 1 {
			// The last interval cannot be disabled.
			return s, nil
		}
		s.active[iv.ID] = !s.active[iv.ID]
		return s, s.saveActiveSet()

	default:
		// Restore phase defaults.
		s.active = make(map[string]bool, len(s.available))
		for _, iv := range s.available {
			s.active[iv.ID] = true
		}
		return s, s.save(store.KeyActiveIntervals, func(ctx context.Context) error {
			return s.st.Settings().SetStrings(ctx, store.KeyActiveIntervals, nil)
		})
	}
}

func (s *SettingsScreen) commitLength() (screen.Screen, tea.Cmd) {
	n, err := s.lengthInput.NumericValue()
	if err != nil {
		s.lengthInput.Submit(false)
		return s, nil
	}
	s.editingLength = false
	return s.setLength(n)
}

func (s *SettingsScreen) setLength(n int) (screen.Screen, tea.Cmd) {
	if n < minSessionLength {
		n = minSessionLength
	}
	if n > maxSessionLength {
		n = maxSessionLength
	}
	s.length = n
	return s, s.save(store.KeySessionLength, func(ctx context.Context) error {
		return s.st.Settings().SetInt(ctx, store.KeySessionLength, n)
	})
}

func (s *SettingsScreen) activeCount() int {
	n := 0
	for _, on := range s.active {
		if on {
			n++
		}
	}
	return n
}

func (s *SettingsScreen) saveActiveSet() tea.Cmd {
	ids := make([]string, 0, len(s.available))
	for _, iv := range s.available {
		if s.active[iv.ID] {
			ids = append(ids, iv.ID)
		}
	}
	return s.save(store.KeyActiveIntervals, func(ctx context.Context) error {
		return s.st.Settings().SetStrings(ctx, store.KeyActiveIntervals, ids)
	})
}

func (s *SettingsScreen) save(key string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return settingSavedMsg{Err: fmt.Errorf("save %s: %w", key, err)}
		}
		return settingSavedMsg{}
	}
}

func (s *SettingsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading settings...")
	}

	var b strings.Builder
	b.WriteString("\n")

	lengthValue := fmt.Sprintf("◂ %d ▸", s.length)
	if s.editingLength {
		lengthValue = s.lengthInput.View()
	}
	b.WriteString(s.renderRow(0, "Session length", lengthValue, width))
	b.WriteString(s.renderRow(1, "Playback", s.mode, width))
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("Intervals — phase %d", s.phase))))
	b.WriteString("\n")

	for i, iv := range s.available {
		mark := "[ ]"
		if s.active[iv.ID] {
			mark = "[x]"
		}
		b.WriteString(s.renderRow(2+i, mark, iv.DisplayName, width))
	}

	b.WriteString("\n")
	b.WriteString(s.renderRow(s.rowCount()-1, "Restore phase defaults", "", width))

	return b.String()
}

func (s *SettingsScreen) renderRow(index int, label, value string, width int) string {
	prefix := "  "
	if index == s.selected {
		prefix = "> "
	}

	line := prefix + label
	if value != "" {
		line += "    " + value
	}

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if index == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)) + "\n"
}
