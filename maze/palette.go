package maze

import "fmt"

// Palette assigns a display colour to every group id of a grid.
// It is cosmetic and plays no part in generation.
type Palette []string

// NewPalette returns n random "rgb(r, g, b)" colours drawn from rnd.
func NewPalette(n int, rnd Random) Palette {
	p := make(Palette, n)
	for i := range p {
		p[i] = fmt.Sprintf("rgb(%d, %d, %d)", rnd.IntN(256), rnd.IntN(256), rnd.IntN(256))
	}
	return p
}

// Color returns the colour for group, or an empty string when the palette has none.
func (p Palette) Color(group int) string {
	if group < 0 || group >= len(p) {
		return ""
	}
	return p[group]
}
