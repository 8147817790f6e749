package trail

import (
	"fmt"

	"github.com/samblenny/fruit-jam-lines-screensaver/canvas"
)

// BackgroundIndex is the palette index used to clear the canvas. It is never
// assigned to a segment.
const BackgroundIndex = 0

// DrawInto clears the canvas to the background index and draws every retained
// segment, oldest first, so newer segments overdraw older ones where they
// cross. A segment carrying a color index outside [1, MaxColor] is a
// programming defect and panics.
func (e *Engine) DrawInto(c *canvas.Indexed) {
	c.Fill(BackgroundIndex)
	for _, s := range e.lines {
		if s.Color < 1 || s.Color > e.maxColor {
			panic(fmt.Sprintf("trail: segment color index %d outside [1,%d]", s.Color, e.maxColor))
		}
		c.DrawLine(s.X0, s.Y0, s.X1, s.Y1, uint8(s.Color))
	}
}
