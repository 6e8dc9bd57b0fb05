package maze

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction names a wall owned by a cell. Only the south and east walls are
// owned; the north and west walls belong to the neighbors above and to the left.
type Direction uint8

const (
	South Direction = 1 << iota // Wall shared with the cell directly below.
	East                        // Wall shared with the cell directly to the right.
)

// directionOrder is the iteration order of every DirectionSet.
var directionOrder = [...]Direction{South, East}

// String returns the short name used by renderers ("s" or "e").
func (d Direction) String() string {
	switch d {
	case South:
		return "s"
	case East:
		return "e"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	switch d {
	case South, East:
		return []byte(d.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, uint8(d))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "s", "south":
		*d = South
	case "e", "east":
		*d = East
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, text)
	}
	return nil
}

// DirectionSet is a set of owned walls. The zero value is the empty set.
type DirectionSet uint8

// NewDirectionSet returns a set holding the given directions.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s = s.Add(d)
	}
	return s
}

// Has reports whether d is in the set.
func (s DirectionSet) Has(d Direction) bool {
	return s&DirectionSet(d) != 0
}

// Add returns the set with d included.
func (s DirectionSet) Add(d Direction) DirectionSet {
	return s | DirectionSet(d)
}

// Remove returns the set with d excluded.
func (s DirectionSet) Remove(d Direction) DirectionSet {
	return s &^ DirectionSet(d)
}

// Len returns the number of directions in the set.
func (s DirectionSet) Len() int {
	n := 0
	for _, d := range directionOrder {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Empty reports whether the set has no directions.
func (s DirectionSet) Empty() bool {
	return s.Len() == 0
}

// Slice returns the directions in iteration order (south before east).
func (s DirectionSet) Slice() []Direction {
	dirs := make([]Direction, 0, len(directionOrder))
	for _, d := range directionOrder {
		if s.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// String returns the directions joined by spaces, e.g. "s e".
func (s DirectionSet) String() string {
	names := make([]string, 0, len(directionOrder))
	for _, d := range s.Slice() {
		names = append(names, d.String())
	}
	return strings.Join(names, " ")
}

// MarshalJSON encodes the set as an array of direction names.
func (s DirectionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes an array of direction names.
func (s *DirectionSet) UnmarshalJSON(data []byte) error {
	var dirs []Direction
	if err := json.Unmarshal(data, &dirs); err != nil {
		return err
	}
	*s = NewDirectionSet(dirs...)
	return nil
}
