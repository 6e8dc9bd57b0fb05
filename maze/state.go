package maze

import "fmt"

// State is a snapshot of a Builder's grid, suitable for rendering or for
// resuming generation later with Restore.
type State struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Merges int    `json:"merges"`
	Cells  []Cell `json:"cells"` // row-major, index y*width + x
}

// State returns a copy of the current grid.
func (b *Builder) State() State {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return State{
		Width:  b.width,
		Height: b.height,
		Merges: b.merges,
		Cells:  cells,
	}
}

// Restore rebuilds a Builder from a snapshot. Stepping the restored Builder
// with the random source saved alongside the snapshot continues the same
// generation draw for draw.
func Restore(s State, rnd Random) (*Builder, error) {
	if s.Width < 1 || s.Height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, s.Width, s.Height)
	}
	if rnd == nil {
		return nil, ErrNilRandom
	}
	if len(s.Cells) != s.Width*s.Height {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", ErrInvalidState, len(s.Cells), s.Width, s.Height)
	}

	cells := make([]Cell, len(s.Cells))
	for i, c := range s.Cells {
		x, y := i%s.Width, i/s.Width
		owned := candidateWalls(x, y, s.Width, s.Height)
		if c.Walls&^owned != 0 || c.Moves&^c.Walls != 0 {
			return nil, fmt.Errorf("%w: cell (%d, %d) has walls %q and moves %q", ErrInvalidState, x, y, c.Walls, c.Moves)
		}
		if c.Group < 0 || c.Group >= len(s.Cells) {
			return nil, fmt.Errorf("%w: cell (%d, %d) has group %d", ErrInvalidState, x, y, c.Group)
		}
		cells[i] = c
	}

	return &Builder{
		width:  s.Width,
		height: s.Height,
		cells:  cells,
		rnd:    rnd,
		merges: s.Merges,
	}, nil
}
