package timer

import (
	"sync"
	"time"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// DefaultContext is the context used when a persisted state names none
const DefaultContext = "main"

// Manager owns the named timer contexts of one screen. In exclusive mode only
// one context counts down at a time and the active one is persisted.
type Manager struct {
	mu        sync.Mutex
	sched     Scheduler
	hooks     Hooks
	store     StateStore
	exclusive bool
	timers    map[string]*Timer
	order     []string
	groups    map[string]*Group
}

type ManagerOption func(*Manager)

func WithManagerHooks(h Hooks) ManagerOption {
	return func(m *Manager) { m.hooks = h }
}

// WithPersistence saves the active countdown for crash resume. It only takes
// effect in exclusive mode since every context shares one storage key.
func WithPersistence(s StateStore) ManagerOption {
	return func(m *Manager) { m.store = s }
}

// WithIndependentTimers lets every context count down on its own
func WithIndependentTimers() ManagerOption {
	return func(m *Manager) { m.exclusive = false }
}

func NewManager(sched Scheduler, opts ...ManagerOption) *Manager {
	if sched == nil {
		sched = RealScheduler{}
	}
	m := &Manager{
		sched:     sched,
		exclusive: true,
		timers:    make(map[string]*Timer),
		groups:    make(map[string]*Group),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scheduler returns the scheduler shared by every context
func (m *Manager) Scheduler() Scheduler {
	return m.sched
}

// Context returns the timer for id, creating it on first use
func (m *Manager) Context(id string) *Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[id]; ok {
		return t
	}

	opts := []Option{WithHooks(m.hooks)}
	if m.exclusive {
		opts = append(opts, withBeforeStart(m.skipOthers))
		if m.store != nil {
			opts = append(opts, WithStateStore(m.store))
		}
	}
	t := New(id, m.sched, opts...)
	m.timers[id] = t
	m.order = append(m.order, id)
	return t
}

func (m *Manager) Start(id string, duration int, label string, setIndex int) error {
	return m.Context(id).Start(duration, label, setIndex)
}

func (m *Manager) StartAfter(id string, delay time.Duration, duration int, label string, setIndex int) (Cancel, error) {
	return m.Context(id).StartAfter(delay, duration, label, setIndex)
}

// AutoStart starts the timer of a single checked set after the usual short delay
func (m *Manager) AutoStart(id string, duration int, label string, setIndex int) (Cancel, error) {
	return m.StartAfter(id, constants.TimerAutoStartDelay, duration, label, setIndex)
}

// Active returns the first context that is not idle
func (m *Manager) Active() (Snapshot, bool) {
	for _, s := range m.Snapshots() {
		if s.State != Idle {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Snapshots returns every context in creation order
func (m *Manager) Snapshots() []Snapshot {
	timers := m.list()
	out := make([]Snapshot, 0, len(timers))
	for _, t := range timers {
		out = append(out, t.Snapshot())
	}
	return out
}

// StopAll skips every context and cancels pending group chains
func (m *Manager) StopAll() {
	m.mu.Lock()
	groups := make([]*Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	m.mu.Unlock()

	for _, g := range groups {
		g.Cancel()
	}
	for _, t := range m.list() {
		t.Skip()
	}
}

// Restore resumes a persisted countdown in the context it was saved from
func (m *Manager) Restore(state *models.TimerState, now time.Time) bool {
	if state == nil {
		return false
	}
	id := state.Context
	if id == "" {
		id = DefaultContext
	}
	if m.exclusive {
		m.skipOthers(id)
	}
	return m.Context(id).Restore(state, now)
}

func (m *Manager) list() []*Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Timer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.timers[id])
	}
	return out
}

func (m *Manager) skipOthers(id string) {
	for _, t := range m.list() {
		if t.ID() != id {
			t.Skip()
		}
	}
}
