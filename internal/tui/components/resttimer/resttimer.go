package resttimer

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

// RepaintInterval is how often the widget polls the timer manager
const RepaintInterval = 250 * time.Millisecond

// AdjustStep is the number of seconds added or removed per key press
const AdjustStep = 15

// TickMsg repaints the widget
type TickMsg time.Time

// Tick schedules the next repaint
func Tick() tea.Cmd {
	return tea.Tick(RepaintInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type KeyMap struct {
	Toggle key.Binding
	Plus   key.Binding
	Minus  key.Binding
	Reset  key.Binding
	Skip   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Plus: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", fmt.Sprintf("+%ds", AdjustStep)),
		),
		Minus: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", fmt.Sprintf("-%ds", AdjustStep)),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "restart rest"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip rest"),
		),
	}
}

// Styles of the widget; Urgent replaces Clock in the last seconds
type Styles struct {
	Box       lipgloss.Style
	Label     lipgloss.Style
	Clock     lipgloss.Style
	Urgent    lipgloss.Style
	Finished  lipgloss.Style
	Muted     lipgloss.Style
	Bar       string // fill color of the progress bar
	UrgentBar string
}

func DefaultStyles() Styles {
	return Styles{
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Clock:     lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Urgent:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Blink(true),
		Finished:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Bar:       "86",
		UrgentBar: "196",
	}
}

// Model renders the active context of a timer manager and maps keys onto it
type Model struct {
	manager *timer.Manager
	keys    KeyMap
	styles  Styles
	bar     progress.Model
	width   int
}

func New(manager *timer.Manager, styles Styles) Model {
	bar := progress.New(progress.WithSolidFill(styles.Bar), progress.WithoutPercentage())
	bar.Width = 30
	return Model{
		manager: manager,
		keys:    DefaultKeyMap(),
		styles:  styles,
		bar:     bar,
	}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m *Model) SetStyles(styles Styles) {
	m.styles = styles
	m.bar.FullColor = styles.Bar
}

func (m *Model) SetWidth(width int) {
	m.width = width
	m.bar.Width = max(10, min(width-16, 50))
}

// Active returns the countdown shown by the widget
func (m Model) Active() (timer.Snapshot, bool) {
	if m.manager == nil {
		return timer.Snapshot{}, false
	}
	return m.manager.Active()
}

// HandleKey applies a timer key to the active context and reports whether
// the key was consumed
func (m Model) HandleKey(msg tea.KeyMsg) bool {
	snap, ok := m.Active()
	if !ok {
		return false
	}
	t := m.manager.Context(snap.ID)
	switch {
	case key.Matches(msg, m.keys.Toggle):
		t.Toggle()
	case key.Matches(msg, m.keys.Plus):
		t.Adjust(AdjustStep)
	case key.Matches(msg, m.keys.Minus):
		t.Adjust(-AdjustStep)
	case key.Matches(msg, m.keys.Reset):
		t.Reset()
	case key.Matches(msg, m.keys.Skip):
		t.Skip()
	default:
		return false
	}
	return true
}

func (m Model) View() string {
	snap, ok := m.Active()
	if !ok {
		return ""
	}
	return m.styles.Box.Render(m.render(snap))
}

func (m Model) render(snap timer.Snapshot) string {
	label := m.styles.Label.Render(snap.Label)

	if snap.State == timer.Finished {
		return lipgloss.JoinVertical(lipgloss.Left,
			label,
			m.styles.Finished.Render(constants.TimerFinishedText),
		)
	}

	clock := m.styles.Clock
	bar := m.bar
	if snap.Urgent() {
		clock = m.styles.Urgent
		bar.FullColor = m.styles.UrgentBar
	}

	status := ""
	if snap.State == timer.Paused {
		status = m.styles.Muted.Render("  paused")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center,
		clock.Render(timer.FormatClock(snap.Remaining)),
		"  ",
		bar.ViewAs(snap.Progress()),
		status,
	)
	return lipgloss.JoinVertical(lipgloss.Left, label, line)
}
