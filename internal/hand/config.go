package hand

import (
	"errors"
	"fmt"
)

// Config holds the geometric thresholds used to classify fingers.
type Config struct {
	// StraightTolerance is the largest perpendicular distance, in
	// normalized image units, that PIP or DIP may sit from the base-to-tip
	// line for the finger to count as straight. The bound is inclusive.
	StraightTolerance float64 `json:"straight_tolerance"`

	// HorizontalBandDeg is the half-angle of the cone around ±X, measured in
	// the XY plane, inside which a finger points right or left.
	HorizontalBandDeg float64 `json:"horizontal_band_deg"`

	// VerticalBandDeg is the same for ±Y (up/down), also in the XY plane.
	VerticalBandDeg float64 `json:"vertical_band_deg"`

	// DepthBandDeg is the same for ±Z (forward/backward), in the ZY plane.
	DepthBandDeg float64 `json:"depth_band_deg"`

	// MinProjectionRatio skips a plane whose projection of the finger is
	// shorter than this fraction of the finger length. Without it a finger
	// pointing at the camera would get a left/right reading from noise.
	MinProjectionRatio float64 `json:"min_projection_ratio"`
}

// DefaultConfig returns the tuned defaults. Bands of 67.5° around X and Y
// split the image plane into eight 45° sectors: four pure axes and four
// diagonals.
func DefaultConfig() Config {
	return Config{
		StraightTolerance:  0.008,
		HorizontalBandDeg:  67.5,
		VerticalBandDeg:    67.5,
		DepthBandDeg:       45,
		MinProjectionRatio: 0.5,
	}
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.StraightTolerance <= 0 {
		errs = append(errs, fmt.Errorf("straight_tolerance must be positive, got %g", c.StraightTolerance))
	}
	for _, band := range []struct {
		name  string
		value float64
	}{
		{"horizontal_band_deg", c.HorizontalBandDeg},
		{"vertical_band_deg", c.VerticalBandDeg},
		{"depth_band_deg", c.DepthBandDeg},
	} {
		// At 90° or more both half-axes could claim the same finger.
		if band.value <= 0 || band.value >= 90 {
			errs = append(errs, fmt.Errorf("%s must be in (0, 90), got %g", band.name, band.value))
		}
	}
	if c.MinProjectionRatio < 0 || c.MinProjectionRatio > 1 {
		errs = append(errs, fmt.Errorf("min_projection_ratio must be in [0, 1], got %g", c.MinProjectionRatio))
	}
	return errors.Join(errs...)
}
