package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/statemachine"
	"github.com/ayusman/mudra/internal/timeutil"
	"github.com/ayusman/mudra/internal/transform"
)

// Observation is one frame of detector output for the followed hand.
type Observation struct {
	Present   bool
	Landmarks []detector.Point3D
}

// Status is the display signal: the stable gesture and whether a usable
// hand is in view.
type Status struct {
	Gesture  gesture.Name `json:"gesture"`
	Tracking bool         `json:"tracking"`
	Since    time.Time    `json:"since,omitzero"`
	HeldMs   int64        `json:"held_ms"`
}

// Output is everything one frame produced.
type Output struct {
	At          time.Time                `json:"at"`
	HandPresent bool                     `json:"hand_present"`
	Raw         gesture.Name             `json:"raw"`
	Status      Status                   `json:"status"`
	Delta       transform.Delta          `json:"delta"`
	Transition  *statemachine.Transition `json:"transition,omitempty"`
	ResetFired  bool                     `json:"reset_fired"`
	Skipped     bool                     `json:"skipped"`
}

// Session runs classify, match, debounce and map for one stream of
// frames. It owns all per-stream state and must be driven from a single
// goroutine.
type Session struct {
	clock   timeutil.Clock
	facing  transform.Facing
	matcher *gesture.Matcher
	machine *statemachine.Machine
	mapper  *transform.Mapper

	prev    *hand.Hand
	skipped int
}

// NewSession creates a Session. The facing mode is fixed for its lifetime.
func NewSession(cfg config.Config, clock timeutil.Clock) *Session {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	machine, _ := statemachine.NewWithClock(cfg.StateMachine, clock)
	return &Session{
		clock:   clock,
		facing:  cfg.Facing,
		matcher: gesture.NewMatcher(hand.NewClassifier(cfg.Hand), gesture.DefaultCatalog()),
		machine: machine,
		mapper:  transform.NewMapper(cfg.Transform, nil),
	}
}

// Process handles one frame. Per-frame problems never escape: an invalid
// landmark list marks the output Skipped and leaves all state as it was.
func (s *Session) Process(obs Observation) Output {
	out := Output{At: s.clock.Now(), HandPresent: obs.Present}

	if !obs.Present {
		s.prev = nil
		if tr, ok := s.machine.Lost(); ok {
			log.Printf("Tracking lost, dropped %s after %v", tr.From, tr.Held.Round(time.Millisecond))
			out.Transition = &tr
		}
		out.Status = s.status(false)
		return out
	}

	h, raw, err := s.matcher.Recognize(obs.Landmarks)
	if err != nil {
		s.skipped++
		log.Printf("Skipping frame: %v", err)
		skip := s.Unusable()
		skip.HandPresent = true
		return skip
	}
	out.Raw = raw

	if tr, ok := s.machine.Observe(raw); ok {
		log.Printf("Stable gesture: %s -> %s", tr.From, tr.To)
		out.Transition = &tr
	}
	out.Status = s.status(true)

	stable := s.machine.Stable()
	if s.mapper.Interaction(stable) == transform.Reset {
		out.Delta = transform.Delta{Kind: transform.Reset}
		if s.machine.ConsumeHold(s.mapper.Config().ResetHold()) {
			log.Printf("Reset fired after holding %s", stable)
			out.Delta = s.mapper.ResetDelta()
			out.ResetFired = true
		}
	} else {
		out.Delta = s.mapper.Compute(stable, h, s.prev, s.facing)
	}

	s.prev = h
	return out
}

// Unusable is the output for a frame that produced no usable hand data,
// such as a failed camera read or detector call. Tracking is off and the
// stable gesture is kept.
func (s *Session) Unusable() Output {
	return Output{At: s.clock.Now(), Skipped: true, Status: s.status(false)}
}

func (s *Session) status(tracking bool) Status {
	st := Status{Gesture: s.machine.Stable(), Tracking: tracking}
	if st.Gesture != gesture.None {
		st.Since = s.machine.StableSince()
		st.HeldMs = s.machine.HeldFor().Milliseconds()
	}
	return st
}

// ForgetPrevious drops the previous hand so the next frame yields no
// motion. The frame loop calls it when detection pauses, to avoid one
// large jump on resume.
func (s *Session) ForgetPrevious() {
	s.prev = nil
}

// Reconfigure applies new thresholds without resetting the debounce
// memory. The facing mode is kept.
func (s *Session) Reconfigure(cfg config.Config) {
	s.matcher = gesture.NewMatcher(hand.NewClassifier(cfg.Hand), s.matcher.Catalog())
	s.machine.SetConfig(cfg.StateMachine)
	s.mapper = transform.NewMapper(cfg.Transform, nil)
}

// Facing returns the session's facing mode.
func (s *Session) Facing() transform.Facing {
	return s.facing
}

// Skipped returns how many frames had an invalid landmark count.
func (s *Session) Skipped() int {
	return s.skipped
}

// Catalog returns the gestures the session recognizes.
func (s *Session) Catalog() gesture.Catalog {
	return s.matcher.Catalog()
}

// Interaction returns the interaction g drives.
func (s *Session) Interaction(g gesture.Name) transform.Kind {
	return s.mapper.Interaction(g)
}
