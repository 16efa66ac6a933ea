package hand

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Direction is a discretized pointing vector: a sum of at most one unit
// vector per principal axis, in viewer space (X right, Y up, Z toward the
// camera). Components are integers so equality is exact.
type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Principal directions.
var (
	NoDirection = Direction{}
	Up          = Direction{Y: 1}
	Down        = Direction{Y: -1}
	Left        = Direction{X: -1}
	Right       = Direction{X: 1}
	Forward     = Direction{Z: 1}
	Backward    = Direction{Z: -1}
)

// Add returns the component-wise sum d + o.
func (d Direction) Add(o Direction) Direction {
	return Direction{X: d.X + o.X, Y: d.Y + o.Y, Z: d.Z + o.Z}
}

// IsZero reports whether no axis dominated.
func (d Direction) IsZero() bool {
	return d == NoDirection
}

// Vec returns d as a float vector.
func (d Direction) Vec() r3.Vec {
	return r3.Vec{X: float64(d.X), Y: float64(d.Y), Z: float64(d.Z)}
}

// String renders d as e.g. "up+left" or "none".
func (d Direction) String() string {
	var parts []string
	add := func(c int, pos, neg string) {
		switch {
		case c > 0:
			parts = append(parts, pos)
		case c < 0:
			parts = append(parts, neg)
		}
	}
	add(d.Y, "up", "down")
	add(d.X, "right", "left")
	add(d.Z, "forward", "backward")
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
