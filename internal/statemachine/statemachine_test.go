package statemachine

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/timeutil"
)

func newMachine(t *testing.T, threshold int) (*Machine, *timeutil.MockClock) {
	t.Helper()
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	m, err := NewWithClock(Config{Threshold: threshold}, clock)
	if err != nil {
		t.Fatalf("NewWithClock() error = %v", err)
	}
	return m, clock
}

func TestObserve_CommitThreshold(t *testing.T) {
	const (
		fist = gesture.Fist
		palm = gesture.OpenPalm
		none = gesture.None
	)

	tests := []struct {
		name        string
		threshold   int
		sequence    []gesture.Name
		wantCommits map[int]gesture.Name // frame index -> committed gesture
		wantStable  gesture.Name
	}{
		{
			name:        "commits on the fifth frame",
			threshold:   5,
			sequence:    []gesture.Name{fist, fist, fist, fist, fist, fist},
			wantCommits: map[int]gesture.Name{4: fist},
			wantStable:  fist,
		},
		{
			name:        "threshold one commits immediately",
			threshold:   1,
			sequence:    []gesture.Name{fist, palm},
			wantCommits: map[int]gesture.Name{0: fist, 1: palm},
			wantStable:  palm,
		},
		{
			name:        "interruption resets the run",
			threshold:   5,
			sequence:    []gesture.Name{fist, fist, fist, fist, palm, fist, fist, fist, fist},
			wantCommits: map[int]gesture.Name{},
			wantStable:  none,
		},
		{
			name:      "alternating never commits",
			threshold: 5,
			sequence: []gesture.Name{fist, palm, fist, palm, fist,
				palm, fist, palm, fist, palm},
			wantCommits: map[int]gesture.Name{},
			wantStable:  none,
		},
		{
			name:        "none commits like any gesture",
			threshold:   2,
			sequence:    []gesture.Name{fist, fist, none, none},
			wantCommits: map[int]gesture.Name{1: fist, 3: none},
			wantStable:  none,
		},
		{
			name:        "holding the stable gesture commits once",
			threshold:   2,
			sequence:    []gesture.Name{palm, palm, palm, palm, palm},
			wantCommits: map[int]gesture.Name{1: palm},
			wantStable:  palm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newMachine(t, tt.threshold)

			for i, g := range tt.sequence {
				tr, ok := m.Observe(g)
				want, wantOK := tt.wantCommits[i]
				if ok != wantOK {
					t.Fatalf("frame %d: committed = %v, want %v", i, ok, wantOK)
				}
				if ok && tr.To != want {
					t.Errorf("frame %d: committed %v, want %v", i, tr.To, want)
				}
			}

			if m.Stable() != tt.wantStable {
				t.Errorf("Stable() = %v, want %v", m.Stable(), tt.wantStable)
			}
		})
	}
}

func TestObserve_CounterResetsToOne(t *testing.T) {
	m, _ := newMachine(t, 5)

	for i := 0; i < 4; i++ {
		m.Observe(gesture.Fist)
	}
	if m.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", m.Count())
	}

	m.Observe(gesture.OpenPalm)
	if m.Count() != 1 {
		t.Errorf("Count() after change = %d, want 1", m.Count())
	}
	if m.LastRaw() != gesture.OpenPalm {
		t.Errorf("LastRaw() = %v, want %v", m.LastRaw(), gesture.OpenPalm)
	}
	if m.Stable() != gesture.None {
		t.Errorf("Stable() = %v, want none", m.Stable())
	}
}

func TestLost_ResetsImmediately(t *testing.T) {
	m, clock := newMachine(t, 3)

	for i := 0; i < 3; i++ {
		m.Observe(gesture.Fist)
	}
	clock.Advance(2 * time.Second)
	m.Observe(gesture.Fist)

	tr, ok := m.Lost()
	if !ok {
		t.Fatal("Lost() reported no transition while tracking")
	}
	if tr.From != gesture.Fist || tr.To != gesture.None {
		t.Errorf("transition = %v -> %v, want fist -> none", tr.From, tr.To)
	}
	if tr.Held != 2*time.Second {
		t.Errorf("Held = %v, want 2s", tr.Held)
	}
	if m.Stable() != gesture.None || m.Count() != 0 || m.State() != Idle {
		t.Errorf("after Lost: stable=%v count=%d state=%v", m.Stable(), m.Count(), m.State())
	}

	if _, ok := m.Lost(); ok {
		t.Error("second Lost() reported a transition")
	}
}

func TestLost_MidStreak(t *testing.T) {
	m, _ := newMachine(t, 5)

	for i := 0; i < 4; i++ {
		m.Observe(gesture.Fist)
	}
	m.Lost()

	// the run must restart from one
	for i := 0; i < 4; i++ {
		if _, ok := m.Observe(gesture.Fist); ok {
			t.Fatalf("committed after %d frames following Lost", i+1)
		}
	}
	if _, ok := m.Observe(gesture.Fist); !ok {
		t.Error("did not commit on the fifth frame after Lost")
	}
}

func TestHeld(t *testing.T) {
	m, clock := newMachine(t, 1)

	if m.Held(0) {
		t.Error("Held(0) is true while idle")
	}

	m.Observe(gesture.OpenPalm)
	clock.Advance(1499 * time.Millisecond)
	if m.Held(1500 * time.Millisecond) {
		t.Error("Held(1.5s) true after 1.499s")
	}

	clock.Advance(time.Millisecond)
	if !m.Held(1500 * time.Millisecond) {
		t.Error("Held(1.5s) false after exactly 1.5s")
	}
	if m.HeldFor() != 1500*time.Millisecond {
		t.Errorf("HeldFor() = %v, want 1.5s", m.HeldFor())
	}
}

func TestConsumeHold_FiresOncePerHold(t *testing.T) {
	m, clock := newMachine(t, 1)
	hold := 1500 * time.Millisecond

	m.Observe(gesture.OpenPalm)

	fired := 0
	for frame := 0; frame < 60; frame++ {
		clock.Advance(33 * time.Millisecond)
		m.Observe(gesture.OpenPalm)
		if m.ConsumeHold(hold) {
			fired++
		}
	}

	// 60 frames at 33ms is 1.98s: one full hold, not a second.
	if fired != 1 {
		t.Errorf("ConsumeHold fired %d times, want 1", fired)
	}
	if m.Stable() != gesture.OpenPalm {
		t.Errorf("Stable() = %v, want %v", m.Stable(), gesture.OpenPalm)
	}
}

func TestStableSince(t *testing.T) {
	m, clock := newMachine(t, 2)
	clock.Advance(time.Second)

	m.Observe(gesture.Two)
	at := clock.Now()
	tr, ok := m.Observe(gesture.Two)
	if !ok {
		t.Fatal("expected commit")
	}
	if !tr.At.Equal(at) || !m.StableSince().Equal(at) {
		t.Errorf("commit at %v, since %v, want %v", tr.At, m.StableSince(), at)
	}
	if m.State() != Tracking {
		t.Errorf("State() = %v, want tracking", m.State())
	}
}

func TestSetConfig_KeepsMemory(t *testing.T) {
	m, _ := newMachine(t, 5)
	m.Observe(gesture.Fist)
	m.Observe(gesture.Fist)

	m.SetConfig(Config{Threshold: 3})
	if _, ok := m.Observe(gesture.Fist); !ok {
		t.Error("expected commit at the lowered threshold")
	}
}

func TestNewWithClock_Nil(t *testing.T) {
	if _, err := NewWithClock(DefaultConfig(), nil); err != ErrNilClock {
		t.Errorf("NewWithClock(nil) error = %v, want ErrNilClock", err)
	}
	if New(DefaultConfig()) == nil {
		t.Error("New() returned nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if err := (Config{Threshold: 0}).Validate(); err == nil {
		t.Error("Validate() accepted threshold 0")
	}
}
