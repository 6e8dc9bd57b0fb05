// Package mazeapi exposes maze build sessions over HTTP.
package mazeapi

import (
	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/maze"
	"github.com/google/uuid"
)

// paletteSalt separates the colour stream from the generation stream of a seed.
const paletteSalt = 0x5eed

// CreateRequest is the body of a new maze request.
type CreateRequest struct {
	Width  int     `json:"width" binding:"required,min=1"`
	Height int     `json:"height" binding:"required,min=1"`
	Seed   *uint64 `json:"seed"`
}

// CellResponse is one cell as seen by a renderer.
type CellResponse struct {
	X     int               `json:"x"`
	Y     int               `json:"y"`
	Group int               `json:"group"`
	Walls maze.DirectionSet `json:"walls"`
	Color string            `json:"color"`
}

// MazeResponse is the renderable state of a session.
type MazeResponse struct {
	ID       uuid.UUID      `json:"id"`
	Seed     uint64         `json:"seed"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Complete bool           `json:"complete"`
	Merges   int            `json:"merges"`
	Attempts int            `json:"attempts"`
	Groups   int            `json:"groups"`
	Cells    []CellResponse `json:"cells"`
}

// StepResponse reports the outcome of a single step.
type StepResponse struct {
	Merged bool          `json:"merged"`
	Merge  *maze.Merge   `json:"merge,omitempty"`
	Maze   *MazeResponse `json:"maze"`
}

// BuildResponse reports the outcome of a build.
type BuildResponse struct {
	Merges int           `json:"merges"`
	Maze   *MazeResponse `json:"maze"`
}

func newMazeResponse(s *dmn.Session) *MazeResponse {
	m := s.Maze
	palette := maze.NewPalette(len(m.Cells), maze.NewSource(s.Seed^paletteSalt))

	groups := make(map[int]struct{})
	cells := make([]CellResponse, len(m.Cells))
	for idx, c := range m.Cells {
		groups[c.Group] = struct{}{}
		cells[idx] = CellResponse{
			X:     idx % m.Width,
			Y:     idx / m.Width,
			Group: c.Group,
			Walls: c.Walls,
			Color: palette.Color(c.Group),
		}
	}

	return &MazeResponse{
		ID:       s.ID,
		Seed:     s.Seed,
		Width:    m.Width,
		Height:   m.Height,
		Complete: len(groups) == 1,
		Merges:   m.Merges,
		Attempts: s.Attempts,
		Groups:   len(groups),
		Cells:    cells,
	}
}

func newStepResponse(s *dmn.Session, m maze.Merge, merged bool) *StepResponse {
	r := &StepResponse{Merged: merged, Maze: newMazeResponse(s)}
	if merged {
		r.Merge = &m
	}
	return r
}
