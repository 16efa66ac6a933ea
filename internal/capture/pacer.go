package capture

import (
	"time"

	"github.com/ayusman/mudra/internal/timeutil"
)

// Pacer switches between idle and active frame rates. Motion moves it to
// active at once; it returns to idle after IdleTimeout without motion.
type Pacer struct {
	cfg        Config
	clock      timeutil.Clock
	active     bool
	lastMotion time.Time
}

// NewPacer creates a Pacer in idle mode.
func NewPacer(cfg Config, clock timeutil.Clock) *Pacer {
	return &Pacer{cfg: cfg, clock: clock}
}

// Observe records one frame's motion result. It returns the rate to run
// at and whether that rate changed.
func (p *Pacer) Observe(motion bool) (int, bool) {
	now := p.clock.Now()
	if motion {
		p.lastMotion = now
		if !p.active {
			p.active = true
			return p.cfg.ActiveFPS, true
		}
		return p.cfg.ActiveFPS, false
	}

	if p.active && now.Sub(p.lastMotion) > p.cfg.IdleTimeout() {
		p.active = false
		return p.cfg.IdleFPS, true
	}
	return p.FPS(), false
}

// Active reports whether the pacer is in active mode.
func (p *Pacer) Active() bool {
	return p.active
}

// FPS returns the current rate.
func (p *Pacer) FPS() int {
	if p.active {
		return p.cfg.ActiveFPS
	}
	return p.cfg.IdleFPS
}

// SetConfig replaces the settings, keeping the current mode.
func (p *Pacer) SetConfig(cfg Config) {
	p.cfg = cfg
}
