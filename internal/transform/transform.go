// Package transform turns the stable gesture and two consecutive hand
// snapshots into a bounded object transform delta.
package transform

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/gesture"
)

// Kind is the interaction a gesture drives.
type Kind string

const (
	NoInteraction Kind = ""
	Translate     Kind = "translate"
	RotateY       Kind = "rotate_y"
	RotateX       Kind = "rotate_x"
	Scale         Kind = "scale"
	Reset         Kind = "reset"
)

// DefaultInteractions returns the gesture to interaction table.
func DefaultInteractions() map[gesture.Name]Kind {
	return map[gesture.Name]Kind{
		gesture.Fist:       Translate,
		gesture.PointUp:    RotateY,
		gesture.PointRight: RotateX,
		gesture.ThumbsUp:   Scale,
		gesture.OpenPalm:   Reset,
	}
}

// Delta is one frame's change to the controlled object. At most one of
// Translate, the rotation, Scale or Reset is non-zero.
type Delta struct {
	Kind        Kind    `json:"kind"`
	Translate   r3.Vec  `json:"translate"`
	RotateAxis  r3.Vec  `json:"rotate_axis"`
	RotateAngle float64 `json:"rotate_angle"`
	Scale       float64 `json:"scale"`
	Reset       bool    `json:"reset"`
}

// IsZero reports whether d moves nothing.
func (d Delta) IsZero() bool {
	return d.Translate == (r3.Vec{}) && d.RotateAngle == 0 && d.Scale == 0 && !d.Reset
}

// Config holds the mapping gains and limits.
type Config struct {
	TranslateMultiplier float64 `json:"translate_multiplier"`
	RotateMultiplier    float64 `json:"rotate_multiplier"`
	ScaleMultiplier     float64 `json:"scale_multiplier"`

	// Precision is the number of decimals joint deltas are rounded to
	// before use, which suppresses sub-pixel jitter.
	Precision int `json:"precision"`

	// Per-frame limits on the magnitude of each output. Zero disables one.
	MaxTranslate float64 `json:"max_translate"`
	MaxRotate    float64 `json:"max_rotate"`
	MaxScale     float64 `json:"max_scale"`

	// ResetHoldMs is how long the reset gesture must be held to fire.
	ResetHoldMs int `json:"reset_hold_ms"`
}

// DefaultConfig returns the default gains and limits.
func DefaultConfig() Config {
	return Config{
		TranslateMultiplier: 3,
		RotateMultiplier:    3,
		ScaleMultiplier:     2,
		Precision:           3,
		MaxTranslate:        0.5,
		MaxRotate:           0.5,
		MaxScale:            0.25,
		ResetHoldMs:         1500,
	}
}

// ResetHold returns ResetHoldMs as a duration.
func (c Config) ResetHold() time.Duration {
	return time.Duration(c.ResetHoldMs) * time.Millisecond
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.Precision < 0 || c.Precision > 10 {
		errs = append(errs, fmt.Errorf("precision must be in [0, 10], got %d", c.Precision))
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_translate", c.MaxTranslate},
		{"max_rotate", c.MaxRotate},
		{"max_scale", c.MaxScale},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", f.name, f.value))
		}
	}
	if c.ResetHoldMs < 0 {
		errs = append(errs, fmt.Errorf("reset_hold_ms must not be negative, got %d", c.ResetHoldMs))
	}
	return errors.Join(errs...)
}
