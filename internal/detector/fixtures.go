package detector

// Synthetic right-hand poses used by tests across packages. Extended
// fingers are built from exactly colinear joints and bent fingers fold far
// off their base-to-tip line, so straightness never depends on tolerance.

var (
	fixtureWrist = Point3D{X: 0.50, Y: 0.80}

	indexBase  = Point3D{X: 0.56, Y: 0.68}
	middleBase = Point3D{X: 0.51, Y: 0.66}
	ringBase   = Point3D{X: 0.46, Y: 0.68}
	pinkyBase  = Point3D{X: 0.41, Y: 0.70}

	// Image y grows downward, so "up" is a negative y step.
	stepUp    = Point3D{Y: -0.06}
	stepRight = Point3D{X: 0.06}
)

func add(p, q Point3D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func scale(p Point3D, f float64) Point3D {
	return Point3D{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// StraightJoints returns MCP, PIP, DIP and TIP on the ray from base along step.
func StraightJoints(base, step Point3D) [4]Point3D {
	return [4]Point3D{
		base,
		add(base, step),
		add(base, scale(step, 1.8)),
		add(base, scale(step, 2.5)),
	}
}

// CurledJoints returns a finger folded toward the palm.
func CurledJoints(base Point3D) [4]Point3D {
	return [4]Point3D{
		base,
		add(base, Point3D{Y: -0.05, Z: -0.03}),
		add(base, Point3D{Y: -0.02, Z: -0.05}),
		add(base, Point3D{Y: 0.01, Z: -0.03}),
	}
}

// StraightThumb returns a thumb whose MCP, IP and TIP lie on a ray along
// step. The CMC sits off that ray as it does on a real hand.
func StraightThumb(mcp, step Point3D) [4]Point3D {
	return [4]Point3D{
		{X: 0.55, Y: 0.76},
		mcp,
		add(mcp, step),
		add(mcp, scale(step, 2)),
	}
}

// TuckedThumb returns a thumb folded across the palm.
func TuckedThumb() [4]Point3D {
	return [4]Point3D{
		{X: 0.55, Y: 0.75},
		{X: 0.58, Y: 0.70, Z: -0.02},
		{X: 0.56, Y: 0.66, Z: -0.04},
		{X: 0.52, Y: 0.65, Z: -0.05},
	}
}

// BuildHand lays out wrist and five fingers in MediaPipe order.
func BuildHand(wrist Point3D, thumb, index, middle, ring, pinky [4]Point3D) HandLandmarks {
	points := make([]Point3D, 0, NumLandmarks)
	points = append(points, wrist)
	for _, finger := range [][4]Point3D{thumb, index, middle, ring, pinky} {
		points = append(points, finger[:]...)
	}
	return HandLandmarks{Points: points, Handedness: "Right", Score: 0.95}
}

// Translated returns a copy of h with every point shifted by (dx, dy, dz).
func Translated(h HandLandmarks, dx, dy, dz float64) HandLandmarks {
	out := h
	out.Points = make([]Point3D, len(h.Points))
	for i, p := range h.Points {
		out.Points[i] = add(p, Point3D{X: dx, Y: dy, Z: dz})
	}
	return out
}

// ClosedFistLandmarks returns a fist: all four fingers bent, thumb tucked.
func ClosedFistLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, TuckedThumb(),
		CurledJoints(indexBase), CurledJoints(middleBase),
		CurledJoints(ringBase), CurledJoints(pinkyBase))
}

// PointUpLandmarks returns the index finger extended upward.
func PointUpLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, TuckedThumb(),
		StraightJoints(indexBase, stepUp), CurledJoints(middleBase),
		CurledJoints(ringBase), CurledJoints(pinkyBase))
}

// PointRightLandmarks returns the index finger extended toward image right.
func PointRightLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, TuckedThumb(),
		StraightJoints(indexBase, stepRight), CurledJoints(middleBase),
		CurledJoints(ringBase), CurledJoints(pinkyBase))
}

// TwoLandmarks returns index and middle fingers extended upward.
func TwoLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, TuckedThumb(),
		StraightJoints(indexBase, stepUp), StraightJoints(middleBase, stepUp),
		CurledJoints(ringBase), CurledJoints(pinkyBase))
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, StraightThumb(Point3D{X: 0.60, Y: 0.68}, stepUp),
		CurledJoints(indexBase), CurledJoints(middleBase),
		CurledJoints(ringBase), CurledJoints(pinkyBase))
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers point up and the thumb is spread to the side.
func OpenPalmLandmarks() HandLandmarks {
	return BuildHand(fixtureWrist, StraightThumb(Point3D{X: 0.62, Y: 0.70}, Point3D{X: 0.05, Y: -0.035}),
		StraightJoints(indexBase, stepUp), StraightJoints(middleBase, stepUp),
		StraightJoints(ringBase, stepUp), StraightJoints(pinkyBase, stepUp))
}
