package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func classify(t *testing.T, lm detector.HandLandmarks) *hand.Hand {
	t.Helper()
	h, err := hand.NewClassifier(hand.DefaultConfig()).Classify(lm.Points)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	return h
}

// pair returns the fixture as the previous hand and the fixture moved by
// (dx, dy) as the current one.
func pair(t *testing.T, lm detector.HandLandmarks, dx, dy float64) (cur, prev *hand.Hand) {
	t.Helper()
	return classify(t, detector.Translated(lm, dx, dy, 0)), classify(t, lm)
}

func TestCompute_Interactions(t *testing.T) {
	tests := []struct {
		name   string
		stable gesture.Name
		lm     detector.HandLandmarks
		dx, dy float64
		facing Facing
		want   Delta
	}{
		{
			name: "fist translates mirrored", stable: gesture.Fist,
			lm: detector.ClosedFistLandmarks(), dx: 0.02, dy: -0.01, facing: Mirrored,
			want: Delta{Kind: Translate, Translate: r3.Vec{X: -0.06, Y: 0.03}},
		},
		{
			name: "fist translates direct", stable: gesture.Fist,
			lm: detector.ClosedFistLandmarks(), dx: 0.02, dy: -0.01, facing: Direct,
			want: Delta{Kind: Translate, Translate: r3.Vec{X: 0.06, Y: 0.03}},
		},
		{
			name: "point up rotates about y", stable: gesture.PointUp,
			lm: detector.PointUpLandmarks(), dx: 0.05, facing: Direct,
			want: Delta{Kind: RotateY, RotateAxis: r3.Vec{Y: 1}, RotateAngle: 0.15},
		},
		{
			name: "point up rotates about y mirrored", stable: gesture.PointUp,
			lm: detector.PointUpLandmarks(), dx: 0.05, facing: Mirrored,
			want: Delta{Kind: RotateY, RotateAxis: r3.Vec{Y: 1}, RotateAngle: -0.15},
		},
		{
			name: "point right rotates about x", stable: gesture.PointRight,
			lm: detector.PointRightLandmarks(), dy: 0.04, facing: Mirrored,
			want: Delta{Kind: RotateX, RotateAxis: r3.Vec{X: 1}, RotateAngle: -0.12},
		},
		{
			name: "thumbs up scales", stable: gesture.ThumbsUp,
			lm: detector.ThumbsUpLandmarks(), dy: -0.05, facing: Direct,
			want: Delta{Kind: Scale, Scale: 0.1},
		},
		{
			name: "open palm never moves", stable: gesture.OpenPalm,
			lm: detector.OpenPalmLandmarks(), dx: 0.1, dy: 0.1, facing: Direct,
			want: Delta{Kind: Reset},
		},
		{
			name: "unmapped gesture", stable: gesture.Two,
			lm: detector.TwoLandmarks(), dx: 0.1, facing: Direct,
			want: Delta{},
		},
		{
			name: "no stable gesture", stable: gesture.None,
			lm: detector.ClosedFistLandmarks(), dx: 0.1, facing: Direct,
			want: Delta{},
		},
		{
			name: "translate is clamped", stable: gesture.Fist,
			lm: detector.ClosedFistLandmarks(), dx: 0.3, dy: 0.3, facing: Direct,
			want: Delta{Kind: Translate, Translate: r3.Vec{X: 0.5, Y: -0.5}},
		},
		{
			name: "jitter rounds away", stable: gesture.Fist,
			lm: detector.ClosedFistLandmarks(), dx: 0.0004, dy: -0.0004, facing: Mirrored,
			want: Delta{Kind: Translate},
		},
	}

	m := NewMapper(DefaultConfig(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, prev := pair(t, tt.lm, tt.dx, tt.dy)
			got := m.Compute(tt.stable, cur, prev, tt.facing)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_HorizontalSignReversed(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)

	for _, dx := range []float64{-0.07, -0.013, 0.004, 0.025, 0.11} {
		for _, tc := range []struct {
			stable gesture.Name
			lm     detector.HandLandmarks
		}{
			{gesture.Fist, detector.ClosedFistLandmarks()},
			{gesture.PointUp, detector.PointUpLandmarks()},
		} {
			cur, prev := pair(t, tc.lm, dx, 0.02)
			mirrored := m.Compute(tc.stable, cur, prev, Mirrored)
			direct := m.Compute(tc.stable, cur, prev, Direct)

			if mirrored.Translate.X != -direct.Translate.X {
				t.Errorf("%v dx=%v: translate x %v vs %v", tc.stable, dx, mirrored.Translate.X, direct.Translate.X)
			}
			if mirrored.Translate.Y != direct.Translate.Y {
				t.Errorf("%v dx=%v: vertical differs by facing", tc.stable, dx)
			}
			if mirrored.RotateAngle != -direct.RotateAngle {
				t.Errorf("%v dx=%v: rotate %v vs %v", tc.stable, dx, mirrored.RotateAngle, direct.RotateAngle)
			}
		}
	}
}

func TestCompute_MissingHand(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)
	h := classify(t, detector.ClosedFistLandmarks())

	for _, tc := range []struct {
		name      string
		cur, prev *hand.Hand
	}{
		{"no previous", h, nil},
		{"no current", nil, h},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Compute(gesture.Fist, tc.cur, tc.prev, Direct)
			if diff := cmp.Diff(Delta{Kind: Translate}, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_NoNegativeZero(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)
	cur, prev := pair(t, detector.ClosedFistLandmarks(), 0, 0)

	d := m.Compute(gesture.Fist, cur, prev, Mirrored)
	if math.Signbit(d.Translate.X) || math.Signbit(d.Translate.Y) {
		t.Errorf("Compute() = %+v, want positive zeros", d.Translate)
	}
	if !d.IsZero() {
		t.Error("IsZero() = false for a still hand")
	}
}

func TestMapper_CustomInteractions(t *testing.T) {
	m := NewMapper(DefaultConfig(), map[gesture.Name]Kind{gesture.Two: Scale})

	if got := m.Interaction(gesture.Two); got != Scale {
		t.Errorf("Interaction(two) = %v, want %v", got, Scale)
	}
	if got := m.Interaction(gesture.Fist); got != NoInteraction {
		t.Errorf("Interaction(fist) = %v, want none", got)
	}
}

func TestResetDelta(t *testing.T) {
	d := NewMapper(DefaultConfig(), nil).ResetDelta()
	if diff := cmp.Diff(Delta{Kind: Reset, Reset: true}, d); diff != "" {
		t.Errorf("ResetDelta() mismatch (-want +got):\n%s", diff)
	}
	if d.IsZero() {
		t.Error("reset delta reported zero")
	}
}

func TestParseFacing(t *testing.T) {
	tests := []struct {
		in      string
		want    Facing
		wantErr bool
	}{
		{"mirrored", Mirrored, false},
		{" Selfie ", Mirrored, false},
		{"front", Mirrored, false},
		{"direct", Direct, false},
		{"REAR", Direct, false},
		{"sideways", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFacing(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFacing) {
				t.Errorf("ParseFacing(%q) error = %v, want ErrUnknownFacing", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFacing(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	bad := DefaultConfig()
	bad.Precision = -1
	bad.MaxRotate = -1
	bad.ResetHoldMs = -5
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted invalid config")
	}
	if DefaultConfig().ResetHold().Milliseconds() != 1500 {
		t.Errorf("ResetHold() = %v, want 1.5s", DefaultConfig().ResetHold())
	}
}
