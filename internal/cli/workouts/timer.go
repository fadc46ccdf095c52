package workouts

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/timer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/resttimer"
)

// TimerCmd runs a rest countdown in the terminal. Without a duration it
// resumes the countdown left by a previous session, or starts the default
// rest.
type TimerCmd struct {
	Seconds int    `arg:"" optional:"" help:"Rest duration in seconds."`
	Label   string `short:"l" help:"Label shown above the countdown." default:"Rest"`
}

func (c *TimerCmd) Run(ctx *cli.Context) error {
	if c.Seconds < 0 {
		return timer.ErrInvalidDuration
	}
	if c.Seconds == 0 {
		if snap, ok := ctx.Timers.Active(); ok {
			return watchCountdown(ctx, snap.ID)
		}
		c.Seconds = ctx.Store.LoadSettings().DefaultRest
	}
	return runCountdown(ctx, timer.DefaultContext, c.Seconds, c.Label, 0)
}

func runCountdown(ctx *cli.Context, id string, seconds int, label string, setIndex int) error {
	if err := ctx.Timers.Start(id, seconds, label, setIndex); err != nil {
		return err
	}
	return watchCountdown(ctx, id)
}

func watchCountdown(ctx *cli.Context, id string) error {
	m := newCountdownModel(ctx.Timers, id)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("timer failed: %w", err)
	}
	return nil
}

type countdownKeys struct {
	timer resttimer.KeyMap
	quit  key.Binding
}

func (k countdownKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.timer.Toggle, k.timer.Plus, k.timer.Minus, k.timer.Reset, k.timer.Skip, k.quit}
}

func (k countdownKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// countdownModel shows one timer context until it goes back to idle
type countdownModel struct {
	manager *timer.Manager
	id      string
	widget  resttimer.Model
	keys    countdownKeys
	help    help.Model
}

func newCountdownModel(manager *timer.Manager, id string) countdownModel {
	widget := resttimer.New(manager, resttimer.DefaultStyles())
	return countdownModel{
		manager: manager,
		id:      id,
		widget:  widget,
		keys: countdownKeys{
			timer: widget.Keys(),
			quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "stop"),
			),
		},
		help: help.New(),
	}
}

func (m countdownModel) Init() tea.Cmd {
	return resttimer.Tick()
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.manager.Context(m.id).Skip()
			return m, tea.Quit
		}
		m.widget.HandleKey(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.widget.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil
	case resttimer.TickMsg:
		if m.manager.Context(m.id).Snapshot().State == timer.Idle {
			return m, tea.Quit
		}
		return m, resttimer.Tick()
	}
	return m, nil
}

func (m countdownModel) View() string {
	if m.manager.Context(m.id).Snapshot().State == timer.Idle {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.widget.View(), m.help.View(m.keys)) + "\n"
}
