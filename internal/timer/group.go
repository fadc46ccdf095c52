package timer

import (
	"sync"
	"time"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
)

// GroupConfig links the exercises of a superset to one shared rest timer
type GroupConfig struct {
	ID        string   // timer context of the shared countdown
	Members   []string // linked checkbox ids
	Rest      int
	Label     string
	OnUncheck func(members []string)
}

// Group chains a superset: once every linked member is checked the shared
// timer starts, then all members are unchecked for the next round.
type Group struct {
	mu      sync.Mutex
	cfg     GroupConfig
	manager *Manager
	checked map[string]bool
	round   int

	startDelay   time.Duration
	uncheckDelay time.Duration
	cancelStart  Cancel
	cancelClear  Cancel
}

// Group returns the superset group registered under cfg.ID, creating it on
// first use.
func (m *Manager) Group(cfg GroupConfig) *Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[cfg.ID]; ok {
		return g
	}
	g := &Group{
		cfg:          cfg,
		manager:      m,
		checked:      make(map[string]bool, len(cfg.Members)),
		startDelay:   constants.TimerAutoStartDelay,
		uncheckDelay: constants.TimerUncheckDelay,
	}
	m.groups[cfg.ID] = g
	return g
}

func (g *Group) ID() string {
	return g.cfg.ID
}

// Toggle flips a member's checkbox and returns its new state. Unknown
// members are ignored.
func (g *Group) Toggle(member string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.isMember(member) {
		return false
	}

	g.checked[member] = !g.checked[member]
	if !g.checked[member] {
		g.cancelLocked()
		return false
	}
	if g.allCheckedLocked() && g.cancelStart == nil && g.cancelClear == nil {
		g.scheduleLocked()
	}
	return true
}

// Checked reports whether member is checked in the current round
func (g *Group) Checked(member string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.checked[member]
}

func (g *Group) AllChecked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allCheckedLocked()
}

// Round counts completed rounds of the superset
func (g *Group) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

// Cancel abandons a pending start or uncheck
func (g *Group) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
}

func (g *Group) isMember(member string) bool {
	for _, m := range g.cfg.Members {
		if m == member {
			return true
		}
	}
	return false
}

func (g *Group) allCheckedLocked() bool {
	if len(g.cfg.Members) == 0 {
		return false
	}
	for _, m := range g.cfg.Members {
		if !g.checked[m] {
			return false
		}
	}
	return true
}

func (g *Group) cancelLocked() {
	if g.cancelStart != nil {
		g.cancelStart()
		g.cancelStart = nil
	}
	if g.cancelClear != nil {
		g.cancelClear()
		g.cancelClear = nil
	}
}

func (g *Group) scheduleLocked() {
	sched := g.manager.Scheduler()
	round := g.round
	g.cancelStart = sched.After(g.startDelay, func() {
		g.mu.Lock()
		if g.round != round || g.cancelStart == nil {
			g.mu.Unlock()
			return
		}
		g.cancelStart = nil
		g.cancelClear = sched.After(g.uncheckDelay, func() { g.uncheck(round) })
		g.mu.Unlock()

		if err := g.manager.Start(g.cfg.ID, g.cfg.Rest, g.cfg.Label, round); err != nil {
			logger.Error("superset timer start failed", "group", g.cfg.ID, "error", err)
		}
	})
}

func (g *Group) uncheck(round int) {
	g.mu.Lock()
	if g.round != round || g.cancelClear == nil {
		g.mu.Unlock()
		return
	}
	g.cancelClear = nil
	g.round++
	clear(g.checked)
	members := append([]string(nil), g.cfg.Members...)
	g.mu.Unlock()

	if g.cfg.OnUncheck != nil {
		g.cfg.OnUncheck(members)
	}
}
