// Package gesture names hand poses. A Catalog is an ordered list of Specs,
// each holding one predicate per finger; the first Spec whose predicates
// all hold for a Hand wins.
package gesture

import (
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/hand"
)

// Name identifies a gesture. The zero value None means no spec matched.
type Name string

const (
	None       Name = ""
	ThumbsUp   Name = "thumbs_up"
	PointUp    Name = "point_up"
	PointRight Name = "point_right"
	Two        Name = "two"
	Three      Name = "three"
	Four       Name = "four"
	OpenPalm   Name = "open_palm"
	Fist       Name = "fist"
)

// String returns the gesture name, or "none".
func (n Name) String() string {
	if n == None {
		return "none"
	}
	return string(n)
}

// StateKind tags the variant held by a FingerState.
type StateKind int

const (
	// DontCare always holds.
	DontCare StateKind = iota
	// Straightness holds when the finger's straightness equals the required value.
	Straightness
	// ValidDirections holds when the finger is straight and points into a listed direction.
	ValidDirections
	// InvalidDirections holds when the finger points into none of the listed directions.
	InvalidDirections
)

func (k StateKind) String() string {
	switch k {
	case DontCare:
		return "dont_care"
	case Straightness:
		return "straightness"
	case ValidDirections:
		return "valid_directions"
	case InvalidDirections:
		return "invalid_directions"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// FingerState is the requirement one Spec places on one finger. Build it
// with Any, Straight, Pointing or NotPointing.
type FingerState struct {
	kind       StateKind
	straight   bool
	directions []hand.Direction
}

// Any returns a state that every finger satisfies.
func Any() FingerState {
	return FingerState{kind: DontCare}
}

// Straight requires the finger's straightness to equal want.
func Straight(want bool) FingerState {
	return FingerState{kind: Straightness, straight: want}
}

// Pointing requires a straight finger pointing exactly into one of dirs.
func Pointing(dirs ...hand.Direction) FingerState {
	return FingerState{kind: ValidDirections, directions: dirs}
}

// NotPointing requires the finger to point into none of dirs, straight or not.
func NotPointing(dirs ...hand.Direction) FingerState {
	return FingerState{kind: InvalidDirections, directions: dirs}
}

// Kind returns the variant tag.
func (s FingerState) Kind() StateKind {
	return s.kind
}

// Directions returns a copy of the listed directions.
func (s FingerState) Directions() []hand.Direction {
	return append([]hand.Direction(nil), s.directions...)
}

// Holds reports whether f satisfies s. Direction equality is exact.
func (s FingerState) Holds(f hand.Finger) bool {
	switch s.kind {
	case Straightness:
		return f.Straight == s.straight
	case ValidDirections:
		return f.Straight && s.lists(f.Direction)
	case InvalidDirections:
		return !s.lists(f.Direction)
	default:
		return true
	}
}

func (s FingerState) lists(d hand.Direction) bool {
	for _, want := range s.directions {
		if want == d {
			return true
		}
	}
	return false
}

// String renders s as e.g. "straight", "pointing(up|up+right)" or "*".
func (s FingerState) String() string {
	switch s.kind {
	case Straightness:
		if s.straight {
			return "straight"
		}
		return "bent"
	case ValidDirections:
		return "pointing(" + joinDirections(s.directions) + ")"
	case InvalidDirections:
		return "not(" + joinDirections(s.directions) + ")"
	default:
		return "*"
	}
}

// MarshalText lets a FingerState appear in JSON catalog listings.
func (s FingerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func joinDirections(dirs []hand.Direction) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = d.String()
	}
	return strings.Join(parts, "|")
}

// Spec is one immutable catalog entry. Fingers is indexed by hand.FingerName.
type Spec struct {
	Name    Name           `json:"name"`
	Fingers [5]FingerState `json:"fingers"`
}

// Matches reports whether every finger predicate holds for h.
func (s Spec) Matches(h *hand.Hand) bool {
	for _, name := range hand.FingerNames {
		if !s.Fingers[name].Holds(h.Finger(name)) {
			return false
		}
	}
	return true
}

// Catalog is an ordered list of specs; order breaks ties.
type Catalog []Spec

// DefaultCatalog returns the built-in gestures in priority order. Specific
// poses come before the broader ones they overlap with: thumbs_up before
// fist, four before open_palm.
func DefaultCatalog() Catalog {
	bent := Straight(false)
	up := Pointing(hand.Up)

	return Catalog{
		{Name: ThumbsUp, Fingers: [5]FingerState{up, bent, bent, bent, bent}},
		{Name: PointUp, Fingers: [5]FingerState{Any(), up, bent, bent, bent}},
		{Name: PointRight, Fingers: [5]FingerState{
			Any(),
			Pointing(hand.Right, hand.Up.Add(hand.Right), hand.Down.Add(hand.Right)),
			bent, bent, bent,
		}},
		{Name: Two, Fingers: [5]FingerState{bent, up, up, bent, bent}},
		{Name: Three, Fingers: [5]FingerState{bent, up, up, up, bent}},
		{Name: Four, Fingers: [5]FingerState{bent, up, up, up, up}},
		{Name: OpenPalm, Fingers: [5]FingerState{
			Pointing(hand.Left, hand.Up.Add(hand.Left), hand.Right, hand.Up.Add(hand.Right)),
			up, up, up, up,
		}},
		{Name: Fist, Fingers: [5]FingerState{NotPointing(hand.Up), bent, bent, bent, bent}},
	}
}

// Names returns the gesture names in priority order.
func (c Catalog) Names() []Name {
	names := make([]Name, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the spec called name.
func (c Catalog) Lookup(name Name) (Spec, bool) {
	for _, s := range c {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
