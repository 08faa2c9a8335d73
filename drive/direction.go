package drive

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownDirection is returned for a Direction outside the four known values.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction selects one of the car's four motions.
type Direction int

// The values match the block enum of the car's palette.
const (
	Forward Direction = iota
	Backward
	TurnRight
	TurnLeft
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "back"
	case TurnRight:
		return "turn right"
	case TurnLeft:
		return "turn left"
	default:
		return "unknown"
	}
}

// ParseDirection maps a block label ("forward", "back", "turn right",
// "turn left") or its snake_case form to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " "))) {
	case "forward", "forwards":
		return Forward, nil
	case "back", "backward", "backwards":
		return Backward, nil
	case "turn right", "right":
		return TurnRight, nil
	case "turn left", "left":
		return TurnLeft, nil
	default:
		return 0, errors.Wrapf(ErrUnknownDirection, "%q", s)
	}
}
