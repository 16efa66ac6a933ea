package hand

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geom"
)

// Indices of the four joints within a finger.
const (
	MCP = 0
	PIP = 1
	DIP = 2
	TIP = 3
)

// FingerName identifies one of the five digits.
type FingerName int

const (
	Thumb FingerName = iota
	Index
	Middle
	Ring
	Pinky
)

// FingerNames lists the digits in landmark order.
var FingerNames = [5]FingerName{Thumb, Index, Middle, Ring, Pinky}

func (n FingerName) String() string {
	switch n {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	}
	return "unknown"
}

// base returns the joint the measuring line starts from. The thumb's
// first landmark is the CMC, which sits well off the digit, so the thumb
// is measured from its MCP (joint 1) instead.
func (n FingerName) base() int {
	if n == Thumb {
		return 1
	}
	return MCP
}

// Finger is the classified state of one digit.
type Finger struct {
	Name      FingerName          `json:"-"`
	Joints    [4]detector.Point3D `json:"-"`
	Straight  bool                `json:"straight"`
	Direction Direction           `json:"direction"`
}

// Tip returns the fingertip joint.
func (f Finger) Tip() detector.Point3D {
	return f.Joints[TIP]
}

// Analyze computes straightness and pointing direction for one finger.
// A zero-length base-to-tip vector yields a bent finger with no direction.
func Analyze(joints [4]detector.Point3D, name FingerName, cfg Config) Finger {
	f := Finger{Name: name, Joints: joints}

	b := name.base()
	origin := joints[b].Vec()
	line := geom.Sub(joints[TIP].Vec(), origin)
	if geom.IsZero(line) {
		return f
	}

	f.Straight = straight(joints, b, origin, line, cfg.StraightTolerance)
	f.Direction = pointing(line, cfg)
	return f
}

// straight reports whether every joint strictly between base and tip lies
// within tolerance of the base-to-tip line.
func straight(joints [4]detector.Point3D, base int, origin, line r3.Vec, tolerance float64) bool {
	for i := base + 1; i < TIP; i++ {
		d, ok := geom.DistanceToLine(joints[i].Vec(), origin, line)
		if !ok || d > tolerance {
			return false
		}
	}
	return true
}

// toViewer flips image-space y (down) and z (away from camera) so that
// Up and Forward are positive.
func toViewer(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: -v.Y, Z: -v.Z}
}

// pointing classifies an image-space base-to-tip vector. Left/right and
// up/down are read in the XY plane, forward/backward in the ZY plane. Each
// axis contributes at most one unit vector.
func pointing(line r3.Vec, cfg Config) Direction {
	v := toViewer(line)
	minLen := cfg.MinProjectionRatio * geom.Norm(v)

	var d Direction
	if xy := geom.ProjectXY(v); geom.Norm(xy) >= minLen {
		d = d.Add(axis(xy, geom.AxisX, radians(cfg.HorizontalBandDeg), Right, Left))
		d = d.Add(axis(xy, geom.AxisY, radians(cfg.VerticalBandDeg), Up, Down))
	}
	if zy := geom.ProjectZY(v); geom.Norm(zy) >= minLen {
		d = d.Add(axis(zy, geom.AxisZ, radians(cfg.DepthBandDeg), Forward, Backward))
	}
	return d
}

// axis returns pos when v is within band radians of the positive
// half-axis, neg when within band of the negative one, and NoDirection
// otherwise. The band is [0, band): an angle exactly on the edge does not
// count.
func axis(v, unit r3.Vec, band float64, pos, neg Direction) Direction {
	angle, ok := geom.AngleBetween(v, unit)
	if !ok {
		return NoDirection
	}
	switch {
	case angle < band:
		return pos
	case math.Pi-angle < band:
		return neg
	}
	return NoDirection
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
