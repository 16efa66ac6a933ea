package detector

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. The gesture
	// pipeline only follows one hand.
	MaxHands int `json:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `json:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `json:"min_tracking_confidence"`

	// IdleShutdownMs stops the detector subprocess after this long without
	// a frame. Zero keeps it running.
	IdleShutdownMs int `json:"idle_shutdown_ms"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleShutdownMs:  30000,
	}
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("max_hands must be at least 1, got %d", c.MaxHands))
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("min_confidence must be in [0, 1], got %g", c.MinConfidence))
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		errs = append(errs, fmt.Errorf("min_tracking_confidence must be in [0, 1], got %g", c.MinTrackingConf))
	}
	if c.IdleShutdownMs < 0 {
		errs = append(errs, fmt.Errorf("idle_shutdown_ms must not be negative, got %d", c.IdleShutdownMs))
	}
	return errors.Join(errs...)
}
