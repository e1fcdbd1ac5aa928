package core

import (
	"fmt"
	"strings"
)

// Direction is the sort order accepted by OrderBy.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultDirection is used when OrderBy is called without a direction.
const DefaultDirection = Desc

// ParseDirection accepts "asc" or "desc" in any case. An empty string yields
// DefaultDirection.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultDirection, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) String() string { return string(d) }
