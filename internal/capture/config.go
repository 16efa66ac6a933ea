package capture

import (
	"errors"
	"fmt"
	"time"
)

// Config holds camera and frame pacing settings.
type Config struct {
	CameraID int `json:"camera_id"`
	Width    int `json:"width"`
	Height   int `json:"height"`

	// IdleFPS is the capture rate while nothing moves in front of the camera.
	IdleFPS int `json:"idle_fps"`
	// ActiveFPS is the capture rate while a hand may be present.
	ActiveFPS int `json:"active_fps"`
	// IdleTimeoutMs is how long without motion before dropping to IdleFPS.
	IdleTimeoutMs int `json:"idle_timeout_ms"`
	// MotionThreshold is the percentage of changed pixels that counts as motion.
	MotionThreshold float64 `json:"motion_threshold"`
}

// DefaultConfig returns the default capture settings.
func DefaultConfig() Config {
	return Config{
		CameraID:        0,
		Width:           640,
		Height:          480,
		IdleFPS:         5,
		ActiveFPS:       15,
		IdleTimeoutMs:   3000,
		MotionThreshold: 1.0,
	}
}

// IdleTimeout returns IdleTimeoutMs as a duration.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMs) * time.Millisecond
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.CameraID < 0 {
		errs = append(errs, fmt.Errorf("camera_id must not be negative, got %d", c.CameraID))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got idle %d active %d", c.IdleFPS, c.ActiveFPS))
	} else if c.IdleFPS > c.ActiveFPS {
		errs = append(errs, fmt.Errorf("idle_fps (%d) must not exceed active_fps (%d)", c.IdleFPS, c.ActiveFPS))
	}
	if c.IdleTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("idle_timeout_ms must not be negative, got %d", c.IdleTimeoutMs))
	}
	if c.MotionThreshold <= 0 || c.MotionThreshold > 100 {
		errs = append(errs, fmt.Errorf("motion_threshold must be in (0, 100], got %g", c.MotionThreshold))
	}
	return errors.Join(errs...)
}

// FrameInterval converts a rate to the ticker period.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(fps)
}
