package hand

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestClassify_InvalidLandmarkCount(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	for _, n := range []int{0, 1, 20, 22, 42} {
		_, err := c.Classify(make([]detector.Point3D, n))
		if !errors.Is(err, ErrInvalidLandmarkCount) {
			t.Errorf("Classify(%d points) error = %v, want ErrInvalidLandmarkCount", n, err)
		}
	}
}

func TestClassify_SlicesFingersInOrder(t *testing.T) {
	points := make([]detector.Point3D, detector.NumLandmarks)
	for i := range points {
		points[i] = detector.Point3D{X: float64(i)}
	}

	h, err := NewClassifier(DefaultConfig()).Classify(points)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if h.Wrist.X != 0 {
		t.Errorf("Wrist.X = %v, want 0", h.Wrist.X)
	}
	for _, name := range FingerNames {
		want := float64(firstJoint[name])
		if got := h.Finger(name).Joints[0].X; got != want {
			t.Errorf("%s first joint X = %v, want %v", name, got, want)
		}
		if got := h.Finger(name).Tip().X; got != want+3 {
			t.Errorf("%s tip X = %v, want %v", name, got, want+3)
		}
	}
}

type fingerWant struct {
	straight  bool
	direction Direction
}

func TestClassify_Fixtures(t *testing.T) {
	tucked := fingerWant{false, Up.Add(Left)}
	curled := fingerWant{false, Forward}
	up := fingerWant{true, Up}

	tests := []struct {
		name    string
		hand    detector.HandLandmarks
		fingers [5]fingerWant
	}{
		{"closed fist", detector.ClosedFistLandmarks(),
			[5]fingerWant{tucked, curled, curled, curled, curled}},
		{"point up", detector.PointUpLandmarks(),
			[5]fingerWant{tucked, up, curled, curled, curled}},
		{"point right", detector.PointRightLandmarks(),
			[5]fingerWant{tucked, {true, Right}, curled, curled, curled}},
		{"two", detector.TwoLandmarks(),
			[5]fingerWant{tucked, up, up, curled, curled}},
		{"thumbs up", detector.ThumbsUpLandmarks(),
			[5]fingerWant{up, curled, curled, curled, curled}},
		{"open palm", detector.OpenPalmLandmarks(),
			[5]fingerWant{{true, Up.Add(Right)}, up, up, up, up}},
	}

	c := NewClassifier(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := c.Classify(tt.hand.Points)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			for _, name := range FingerNames {
				f := h.Finger(name)
				want := tt.fingers[name]
				if f.Straight != want.straight {
					t.Errorf("%s straight = %v, want %v", name, f.Straight, want.straight)
				}
				if f.Direction != want.direction {
					t.Errorf("%s direction = %v, want %v", name, f.Direction, want.direction)
				}
			}
		})
	}
}

func TestClassify_TranslationInvariant(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	base, err := c.Classify(detector.OpenPalmLandmarks().Points)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	moved, err := c.Classify(detector.Translated(detector.OpenPalmLandmarks(), 0.1, -0.05, 0.02).Points)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for _, name := range FingerNames {
		if base.Finger(name).Direction != moved.Finger(name).Direction {
			t.Errorf("%s direction changed under translation: %v -> %v",
				name, base.Finger(name).Direction, moved.Finger(name).Direction)
		}
		if base.Finger(name).Straight != moved.Finger(name).Straight {
			t.Errorf("%s straightness changed under translation", name)
		}
	}
}
