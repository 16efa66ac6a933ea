// Package statemachine debounces per-frame gesture guesses into a stable
// gesture with a hold timer.
package statemachine

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/timeutil"
)

// Config holds the debounce settings.
type Config struct {
	// Threshold is how many consecutive identical guesses commit a gesture.
	Threshold int `json:"threshold"`
}

// DefaultConfig returns the default debounce settings.
func DefaultConfig() Config {
	return Config{Threshold: 5}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", c.Threshold)
	}
	return nil
}

// State is the coarse machine state.
type State int

const (
	// Idle means no stable gesture.
	Idle State = iota
	// Tracking means a stable gesture is held.
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Transition records a change of stable gesture.
type Transition struct {
	From gesture.Name `json:"from"`
	To   gesture.Name `json:"to"`
	At   time.Time    `json:"at"`
	// Held is how long From had been stable when it was replaced.
	Held time.Duration `json:"held"`
}

// ErrNilClock is returned by NewWithClock when no clock is given.
var ErrNilClock = errors.New("nil clock")

// Machine is the debounce memory for one session. It is not safe for
// concurrent use; the session drives it from a single goroutine.
type Machine struct {
	cfg   Config
	clock timeutil.Clock

	lastRaw gesture.Name
	count   int
	stable  gesture.Name
	since   time.Time
}

// New creates a Machine that reads time from the real clock.
func New(cfg Config) *Machine {
	m, _ := NewWithClock(cfg, timeutil.RealClock{})
	return m
}

// NewWithClock creates a Machine that reads time from clock.
func NewWithClock(cfg Config, clock timeutil.Clock) (*Machine, error) {
	if clock == nil {
		return nil, ErrNilClock
	}
	return &Machine{cfg: cfg, clock: clock}, nil
}

// SetConfig replaces the settings without touching the debounce memory.
func (m *Machine) SetConfig(cfg Config) {
	m.cfg = cfg
}

// Observe feeds one frame's raw guess. None is a valid guess. When the
// guess commits a new stable gesture the transition is returned with
// true.
func (m *Machine) Observe(g gesture.Name) (Transition, bool) {
	if g == m.lastRaw {
		m.count++
	} else {
		m.lastRaw = g
		m.count = 1
	}

	if m.count < m.cfg.Threshold || g == m.stable {
		return Transition{}, false
	}
	return m.commit(g), true
}

// Lost resets the machine when the detector reports no hand. It is not
// debounced. The transition is returned when a gesture was stable.
func (m *Machine) Lost() (Transition, bool) {
	m.lastRaw = gesture.None
	m.count = 0
	if m.stable == gesture.None {
		return Transition{}, false
	}
	return m.commit(gesture.None), true
}

func (m *Machine) commit(g gesture.Name) Transition {
	now := m.clock.Now()
	t := Transition{From: m.stable, To: g, At: now}
	if m.stable != gesture.None {
		t.Held = now.Sub(m.since)
	}
	m.stable = g
	m.since = now
	return t
}

// Stable returns the stable gesture, None when idle.
func (m *Machine) Stable() gesture.Name {
	return m.stable
}

// StableSince returns when the stable gesture was committed.
func (m *Machine) StableSince() time.Time {
	return m.since
}

// LastRaw returns the most recent raw guess.
func (m *Machine) LastRaw() gesture.Name {
	return m.lastRaw
}

// Count returns the current run length of LastRaw.
func (m *Machine) Count() int {
	return m.count
}

// State reports Tracking while a gesture is stable.
func (m *Machine) State() State {
	if m.stable == gesture.None {
		return Idle
	}
	return Tracking
}

// HeldFor returns how long the stable gesture has been held, 0 when idle.
func (m *Machine) HeldFor() time.Duration {
	if m.stable == gesture.None {
		return 0
	}
	return m.clock.Since(m.since)
}

// Held reports whether a stable gesture has been held for at least d.
func (m *Machine) Held(d time.Duration) bool {
	return m.stable != gesture.None && m.HeldFor() >= d
}

// ConsumeHold is Held followed by restarting the hold timer when it
// reports true, so a one-shot action fires once per qualifying hold.
func (m *Machine) ConsumeHold(d time.Duration) bool {
	if !m.Held(d) {
		return false
	}
	m.since = m.clock.Now()
	return true
}
