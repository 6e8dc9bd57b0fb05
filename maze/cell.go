package maze

// Position is the coordinate of a cell; X grows to the east and Y to the south.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbor returns the position across the wall d.
func (p Position) Neighbor(d Direction) Position {
	switch d {
	case East:
		return Position{X: p.X + 1, Y: p.Y}
	case South:
		return Position{X: p.X, Y: p.Y + 1}
	default:
		return p
	}
}

// Cell represents a single cell in a maze grid.
type Cell struct {
	Group int          `json:"group"`           // Group is the disjoint-set label; equal labels are connected.
	Walls DirectionSet `json:"walls"`           // Walls still standing that this cell owns.
	Moves DirectionSet `json:"moves,omitempty"` // Moves are the walls not yet drawn by the builder.
}

// candidateWalls returns the walls a cell at (x, y) owns on a width x height grid.
func candidateWalls(x, y, width, height int) DirectionSet {
	var walls DirectionSet
	if y != height-1 {
		walls = walls.Add(South)
	}
	if x != width-1 {
		walls = walls.Add(East)
	}
	return walls
}
