package transform

import (
	"github.com/ayusman/mudra/internal/geom"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

// Mapper computes deltas from consecutive hands. It holds no per-frame
// state, so Compute is a pure function of its arguments.
type Mapper struct {
	cfg          Config
	interactions map[gesture.Name]Kind
}

// NewMapper creates a Mapper. A nil table uses DefaultInteractions.
func NewMapper(cfg Config, interactions map[gesture.Name]Kind) *Mapper {
	if interactions == nil {
		interactions = DefaultInteractions()
	}
	return &Mapper{cfg: cfg, interactions: interactions}
}

// Config returns the mapper's settings.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Interaction looks up the interaction for g.
func (m *Mapper) Interaction(g gesture.Name) Kind {
	return m.interactions[g]
}

// Compute returns the delta the stable gesture drives between prev and
// cur. Without both hands the delta is zero. A Reset interaction never
// produces motion; firing it is gated by the hold timer and done with
// ResetDelta.
func (m *Mapper) Compute(stable gesture.Name, cur, prev *hand.Hand, facing Facing) Delta {
	d := Delta{Kind: m.Interaction(stable)}
	if cur == nil || prev == nil {
		return d
	}

	sign := facing.HorizontalSign()
	// image y grows downward, so vertical signals are negated
	switch d.Kind {
	case Translate:
		x := sign * m.diff(cur.Middle().Joints[hand.PIP].X, prev.Middle().Joints[hand.PIP].X)
		y := -m.diff(cur.Wrist.Y, prev.Wrist.Y)
		d.Translate.X = m.gain(x, m.cfg.TranslateMultiplier, m.cfg.MaxTranslate)
		d.Translate.Y = m.gain(y, m.cfg.TranslateMultiplier, m.cfg.MaxTranslate)
	case RotateY:
		d.RotateAxis = geom.AxisY
		x := sign * m.diff(cur.Index().Tip().X, prev.Index().Tip().X)
		d.RotateAngle = m.gain(x, m.cfg.RotateMultiplier, m.cfg.MaxRotate)
	case RotateX:
		d.RotateAxis = geom.AxisX
		y := -m.diff(cur.Index().Tip().Y, prev.Index().Tip().Y)
		d.RotateAngle = m.gain(y, m.cfg.RotateMultiplier, m.cfg.MaxRotate)
	case Scale:
		y := -m.diff(cur.Wrist.Y, prev.Wrist.Y)
		d.Scale = m.gain(y, m.cfg.ScaleMultiplier, m.cfg.MaxScale)
	}
	return d
}

// ResetDelta returns the one-shot reset-to-identity delta.
func (m *Mapper) ResetDelta() Delta {
	return Delta{Kind: Reset, Reset: true}
}

func (m *Mapper) diff(cur, prev float64) float64 {
	return geom.Round(cur-prev, m.cfg.Precision)
}

func (m *Mapper) gain(v, multiplier, limit float64) float64 {
	r := geom.Clamp(v*multiplier, limit)
	if r == 0 {
		// avoid -0 from a negated zero
		return 0
	}
	return r
}
