package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// ErrInvalidDuration is returned when a countdown is started with a non-positive duration
var ErrInvalidDuration = errors.New("timer duration must be positive")

// State of a rest timer
type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of a timer's state
type Snapshot struct {
	ID        string
	State     State
	Remaining int
	Duration  int
	Label     string
	SetIndex  int
}

// Progress is remaining / duration. Adjusting past the original duration
// yields values above 1.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(s.Duration)
}

// Urgent reports the last seconds of a visible countdown
func (s Snapshot) Urgent() bool {
	return s.State != Idle && s.Remaining <= constants.TimerUrgentSeconds
}

// Hooks are invoked after a transition, outside the timer lock, so they may
// call back into the timer.
type Hooks struct {
	OnChange func(Snapshot) // any transition or adjustment
	OnTick   func(Snapshot) // every decrement that leaves time on the clock
	OnFinish func(Snapshot) // once per countdown reaching zero
	OnIdle   func(Snapshot) // finish window elapsed
}

// StateStore persists the countdown for crash resume
type StateStore interface {
	SaveTimerState(models.TimerState) bool
	ClearTimerState() bool
}

// Timer is one rest countdown context.
type Timer struct {
	mu    sync.Mutex
	id    string
	sched Scheduler
	hooks Hooks
	store StateStore

	tickEvery    time.Duration
	finishWindow time.Duration
	beforeStart  func(id string)

	state     State
	remaining int
	duration  int
	label     string
	setIndex  int

	// gen invalidates callbacks scheduled before the latest transition
	gen        uint64
	cancelTick Cancel
	cancelIdle Cancel
	cancelAuto Cancel
}

// Option configures a Timer
type Option func(*Timer)

func WithHooks(h Hooks) Option {
	return func(t *Timer) { t.hooks = h }
}

func WithStateStore(s StateStore) Option {
	return func(t *Timer) { t.store = s }
}

func WithFinishWindow(d time.Duration) Option {
	return func(t *Timer) { t.finishWindow = d }
}

func withBeforeStart(fn func(id string)) Option {
	return func(t *Timer) { t.beforeStart = fn }
}

// New creates an idle timer driven by sched
func New(id string, sched Scheduler, opts ...Option) *Timer {
	t := &Timer{
		id:           id,
		sched:        sched,
		tickEvery:    constants.TimerTickInterval,
		finishWindow: constants.TimerFinishWindow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the context name of the timer
func (t *Timer) ID() string {
	return t.id
}

// Snapshot returns the current state
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        t.id,
		State:     t.state,
		Remaining: t.remaining,
		Duration:  t.duration,
		Label:     t.label,
		SetIndex:  t.setIndex,
	}
}

// Start begins a countdown of duration seconds, replacing any countdown
// already running in this context.
func (t *Timer) Start(duration int, label string, setIndex int) error {
	if duration <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	}
	if t.beforeStart != nil {
		t.beforeStart(t.id)
	}

	t.mu.Lock()
	t.stopLocked()
	t.duration = duration
	t.remaining = duration
	t.label = label
	t.setIndex = setIndex
	t.state = Running
	t.startTickingLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	logger.Debug("rest timer started", "timer", t.id, "duration", duration, "label", label)
	t.changed(snap)
	return nil
}

// StartAfter starts the countdown once delay has passed. The returned Cancel
// abandons the pending start; a later Start, Skip or StartAfter does too.
func (t *Timer) StartAfter(delay time.Duration, duration int, label string, setIndex int) (Cancel, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelAuto != nil {
		t.cancelAuto()
	}
	cancel := t.sched.After(delay, func() {
		if err := t.Start(duration, label, setIndex); err != nil {
			logger.Error("delayed timer start failed", "timer", t.id, "error", err)
		}
	})
	t.cancelAuto = cancel
	return cancel, nil
}

// Pause stops the countdown while keeping the remaining time
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return
	}
	t.state = Paused
	t.cancelTickLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
}

// Resume continues a paused countdown from where it stopped
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state != Paused {
		t.mu.Unlock()
		return
	}
	t.state = Running
	t.startTickingLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
}

// Toggle pauses a running countdown or resumes a paused one
func (t *Timer) Toggle() {
	switch t.Snapshot().State {
	case Running:
		t.Pause()
	case Paused:
		t.Resume()
	}
}

// Adjust adds delta seconds to the remaining time, never going below zero.
// The duration is left untouched.
func (t *Timer) Adjust(delta int) {
	t.mu.Lock()
	if t.state != Running && t.state != Paused {
		t.mu.Unlock()
		return
	}
	t.remaining = max(0, t.remaining+delta)
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
}

// Reset restarts the countdown from its full duration
func (t *Timer) Reset() {
	t.mu.Lock()
	if t.duration <= 0 {
		t.mu.Unlock()
		return
	}
	t.stopLocked()
	t.remaining = t.duration
	t.state = Running
	t.startTickingLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
}

// Skip abandons the countdown without any finish side effects
func (t *Timer) Skip() {
	t.mu.Lock()
	wasIdle := t.state == Idle
	t.stopLocked()
	t.state = Idle
	t.remaining = t.duration
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if !wasIdle {
		t.changed(snap)
	}
}

// Restore resumes a persisted countdown. A running countdown is charged for
// the time elapsed since it was saved; one that would already have ended is
// not restored.
func (t *Timer) Restore(state *models.TimerState, now time.Time) bool {
	if state == nil || state.Duration <= 0 {
		return false
	}
	remaining := state.Remaining
	if state.IsRunning {
		remaining -= int(now.Sub(time.UnixMilli(state.Timestamp)) / time.Second)
	}
	if remaining <= 0 {
		return false
	}

	t.mu.Lock()
	t.stopLocked()
	t.duration = state.Duration
	t.remaining = remaining
	t.label = state.Label
	t.setIndex = state.SetIndex
	if state.IsRunning {
		t.state = Running
		t.startTickingLocked()
	} else {
		t.state = Paused
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
	return true
}

func (t *Timer) startTickingLocked() {
	t.gen++
	gen := t.gen
	t.cancelTick = t.sched.Every(t.tickEvery, func() { t.onTick(gen) })
}

func (t *Timer) cancelTickLocked() {
	t.gen++
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
}

// stopLocked cancels everything scheduled for this context
func (t *Timer) stopLocked() {
	t.cancelTickLocked()
	if t.cancelIdle != nil {
		t.cancelIdle()
		t.cancelIdle = nil
	}
	if t.cancelAuto != nil {
		t.cancelAuto()
		t.cancelAuto = nil
	}
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return
	}

	t.remaining--
	if t.remaining > 0 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.persist(snap)
		if t.hooks.OnTick != nil {
			t.hooks.OnTick(snap)
		}
		return
	}

	t.remaining = 0
	t.state = Finished
	t.cancelTickLocked()
	idleGen := t.gen
	t.cancelIdle = t.sched.After(t.finishWindow, func() { t.onIdle(idleGen) })
	snap := t.snapshotLocked()
	t.mu.Unlock()

	logger.Debug("rest timer finished", "timer", t.id, "label", snap.Label)
	t.changed(snap)
	if t.hooks.OnFinish != nil {
		t.hooks.OnFinish(snap)
	}
}

func (t *Timer) onIdle(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Finished {
		t.mu.Unlock()
		return
	}
	t.state = Idle
	t.remaining = t.duration
	t.cancelIdle = nil
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(snap)
	if t.hooks.OnIdle != nil {
		t.hooks.OnIdle(snap)
	}
}

func (t *Timer) changed(snap Snapshot) {
	t.persist(snap)
	if t.hooks.OnChange != nil {
		t.hooks.OnChange(snap)
	}
}

func (t *Timer) persist(snap Snapshot) {
	if t.store == nil {
		return
	}
	if snap.State == Idle || snap.State == Finished {
		t.store.ClearTimerState()
		return
	}
	t.store.SaveTimerState(models.TimerState{
		Remaining: snap.Remaining,
		Duration:  snap.Duration,
		IsRunning: snap.State == Running,
		Context:   snap.ID,
		Label:     snap.Label,
		SetIndex:  snap.SetIndex,
	})
}

// FormatClock renders seconds as M:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
