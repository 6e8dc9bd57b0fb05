/*
Package maze builds perfect mazes on rectangular grids.

A Builder starts with every cell in its own group and every internal wall
standing. Each Step draws a random cell that still has untried walls, then a
random wall of that cell, and removes the wall only when it separates two
different groups; the higher group id is then relabeled to the lower one.
When a single group remains every cell is reachable from every other cell
through exactly one path.

Each wall is owned by exactly one cell: a cell owns its south and east walls.
The last row owns no south walls and the last column no east walls.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidState      = errors.New("invalid maze state")
	ErrNilRandom         = errors.New("random source is required")
	ErrOutOfBounds       = errors.New("position is out of the maze")
)

// Merge describes the wall removed by a successful Step.
type Merge struct {
	Position  Position  `json:"position"`  // Cell that owned the removed wall.
	Direction Direction `json:"direction"` // Wall removed from that cell.
	Survivor  int       `json:"survivor"`  // Group id kept by the merged region.
	Absorbed  int       `json:"absorbed"`  // Group id that no longer exists.
	Attempts  int       `json:"attempts"`  // Walls drawn by the Step, including abandoned ones.
}

// Builder is a randomized maze generator over a fixed grid.
// It is not safe for concurrent use.
type Builder struct {
	width  int
	height int
	cells  []Cell // row-major, index y*width + x
	rnd    Random
	merges int
}

// New initializes a width x height grid (width cells per row, height rows)
// with all candidate walls standing and every cell in its own group.
func New(width, height int, rnd Random) (*Builder, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if rnd == nil {
		return nil, ErrNilRandom
	}

	cells := make([]Cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			walls := candidateWalls(x, y, width, height)
			cells[y*width+x] = Cell{
				Group: x + y*width,
				Walls: walls,
				Moves: walls,
			}
		}
	}

	return &Builder{
		width:  width,
		height: height,
		cells:  cells,
		rnd:    rnd,
	}, nil
}

// Width returns the number of cells per row.
func (b *Builder) Width() int { return b.width }

// Height returns the number of rows.
func (b *Builder) Height() int { return b.height }

// Merges returns the number of walls removed so far.
func (b *Builder) Merges() int { return b.merges }

// IsComplete reports whether all cells belong to one group.
func (b *Builder) IsComplete() bool {
	first := b.cells[0].Group
	for _, c := range b.cells[1:] {
		if c.Group != first {
			return false
		}
	}
	return true
}

// Step removes one wall between two distinct groups and merges them.
// Draws that would join a group with itself are spent and retried.
// It reports false, changing nothing, once the maze is complete.
func (b *Builder) Step() (Merge, bool) {
	attempts := 0
	for !b.IsComplete() {
		pool := b.candidates()
		if len(pool) == 0 {
			return Merge{}, false
		}

		pos := pool[b.rnd.IntN(len(pool))]
		selected := b.at(pos)
		moves := selected.Moves.Slice()
		dir := moves[b.rnd.IntN(len(moves))]
		selected.Moves = selected.Moves.Remove(dir)
		attempts++

		neighbor := b.at(pos.Neighbor(dir))
		if selected.Group == neighbor.Group {
			continue
		}

		lo, hi := min(selected.Group, neighbor.Group), max(selected.Group, neighbor.Group)
		b.relabel(hi, lo)
		selected.Walls = selected.Walls.Remove(dir)
		b.merges++

		return Merge{
			Position:  pos,
			Direction: dir,
			Survivor:  lo,
			Absorbed:  hi,
			Attempts:  attempts,
		}, true
	}
	return Merge{}, false
}

// Build steps until the maze is complete and returns the number of merges made.
func (b *Builder) Build() int {
	n := 0
	for {
		if _, ok := b.Step(); !ok {
			return n
		}
		n++
	}
}

// candidates lists, in row-major order, the cells that still have untried walls.
func (b *Builder) candidates() []Position {
	var pool []Position
	for i, c := range b.cells {
		if !c.Moves.Empty() {
			pool = append(pool, Position{X: i % b.width, Y: i / b.width})
		}
	}
	return pool
}

// relabel moves every cell of group from into group to.
func (b *Builder) relabel(from, to int) {
	for i := range b.cells {
		if b.cells[i].Group == from {
			b.cells[i].Group = to
		}
	}
}

func (b *Builder) at(p Position) *Cell {
	return &b.cells[p.Y*b.width+p.X]
}

// InBound checks whether (x, y) lies on the grid.
func (b *Builder) InBound(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Cell returns a copy of the cell at (x, y).
func (b *Builder) Cell(x, y int) (Cell, error) {
	if !b.InBound(x, y) {
		return Cell{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return *b.at(Position{X: x, Y: y}), nil
}

// WallsOf returns the standing walls owned by the cell at (x, y).
func (b *Builder) WallsOf(x, y int) (DirectionSet, error) {
	c, err := b.Cell(x, y)
	if err != nil {
		return 0, err
	}
	return c.Walls, nil
}

// GroupOf returns the group id of the cell at (x, y).
func (b *Builder) GroupOf(x, y int) (int, error) {
	c, err := b.Cell(x, y)
	if err != nil {
		return 0, err
	}
	return c.Group, nil
}

// MovesLeft returns the number of walls not yet drawn across the grid.
func (b *Builder) MovesLeft() int {
	n := 0
	for _, c := range b.cells {
		n += c.Moves.Len()
	}
	return n
}

// Groups returns the number of distinct group ids on the grid.
func (b *Builder) Groups() int {
	seen := make(map[int]struct{})
	for _, c := range b.cells {
		seen[c.Group] = struct{}{}
	}
	return len(seen)
}

// String provides a textual representation of the maze.
func (b *Builder) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", b.width) + "\n")

	for y := 0; y < b.height; y++ {
		// Cell row; the west boundary is always closed.
		output.WriteString("|")
		for x := 0; x < b.width; x++ {
			c := b.at(Position{X: x, Y: y})
			if x == b.width-1 || c.Walls.Has(East) {
				output.WriteString("   |")
			} else {
				output.WriteString("    ")
			}
		}
		output.WriteString("\n")

		// Wall row
		output.WriteString("+")
		for x := 0; x < b.width; x++ {
			c := b.at(Position{X: x, Y: y})
			if y == b.height-1 || c.Walls.Has(South) {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
