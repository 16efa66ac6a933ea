// Package hand turns a raw 21-point landmark list into a Hand snapshot:
// the wrist plus the straightness and pointing direction of each finger.
package hand

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrInvalidLandmarkCount is returned when the detector output does not
// hold exactly detector.NumLandmarks points.
var ErrInvalidLandmarkCount = errors.New("invalid landmark count")

// firstJoint is the landmark index of each finger's first joint.
var firstJoint = [5]int{
	Thumb:  detector.ThumbCMC,
	Index:  detector.IndexMCP,
	Middle: detector.MiddleMCP,
	Ring:   detector.RingMCP,
	Pinky:  detector.PinkyMCP,
}

// Hand is one frame's classified hand. It is replaced wholesale every
// frame and never mutated in place.
type Hand struct {
	Wrist   detector.Point3D `json:"wrist"`
	Fingers [5]Finger        `json:"fingers"`
}

// Finger returns the classified finger n.
func (h *Hand) Finger(n FingerName) Finger {
	return h.Fingers[n]
}

func (h *Hand) Thumb() Finger  { return h.Fingers[Thumb] }
func (h *Hand) Index() Finger  { return h.Fingers[Index] }
func (h *Hand) Middle() Finger { return h.Fingers[Middle] }
func (h *Hand) Ring() Finger   { return h.Fingers[Ring] }
func (h *Hand) Pinky() Finger  { return h.Fingers[Pinky] }

// Classifier builds Hand snapshots with a fixed Config.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the classifier's thresholds.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify slices points into wrist and five four-joint fingers and
// analyzes each finger. It never pads or truncates: any count other than
// detector.NumLandmarks is an ErrInvalidLandmarkCount.
func (c *Classifier) Classify(points []detector.Point3D) (*Hand, error) {
	if len(points) != detector.NumLandmarks {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidLandmarkCount, len(points), detector.NumLandmarks)
	}

	h := &Hand{Wrist: points[detector.Wrist]}
	for _, name := range FingerNames {
		var joints [4]detector.Point3D
		copy(joints[:], points[firstJoint[name]:firstJoint[name]+4])
		h.Fingers[name] = Analyze(joints, name, c.cfg)
	}
	return h, nil
}
