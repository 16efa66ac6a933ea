package transform

import (
	"errors"
	"fmt"
	"strings"
)

// Facing says whether the camera feed is mirrored (a selfie camera) or
// shown as captured (a rear or external camera).
type Facing string

const (
	Mirrored Facing = "mirrored"
	Direct   Facing = "direct"
)

// ErrUnknownFacing is returned by ParseFacing for an unrecognized mode.
var ErrUnknownFacing = errors.New("unknown facing mode")

// ParseFacing parses a facing mode. "selfie" and "front" are accepted as
// mirrored, "rear" as direct.
func ParseFacing(s string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mirrored", "selfie", "front":
		return Mirrored, nil
	case "direct", "rear":
		return Direct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFacing, s)
	}
}

// HorizontalSign is the factor applied to horizontal hand motion. A
// mirrored feed inverts left and right relative to the viewer.
func (f Facing) HorizontalSign() float64 {
	if f == Mirrored {
		return -1
	}
	return 1
}
