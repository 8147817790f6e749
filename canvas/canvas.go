// Package canvas provides a small indexed-color pixel buffer. Pixels store
// palette indices rather than direct color values; converting to a displayable
// image happens once per frame against a caller-supplied palette.
package canvas

import (
	"image"
	"image/color"
)

// Indexed is a width×height buffer of palette indices stored as a flat slice.
type Indexed struct {
	W, H int
	Pix  []uint8
}

func NewIndexed(w, h int) *Indexed {
	return &Indexed{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h),
	}
}

// Clone returns an independent copy of the buffer; mutating one does not
// affect the other.
func (c *Indexed) Clone() *Indexed {
	out := &Indexed{
		W:   c.W,
		H:   c.H,
		Pix: make([]uint8, len(c.Pix)),
	}
	copy(out.Pix, c.Pix)
	return out
}

// Fill sets every pixel to the given palette index.
func (c *Indexed) Fill(idx uint8) {
	for i := range c.Pix {
		c.Pix[i] = idx
	}
}

// At returns the palette index at (x, y), or 0 for out-of-bounds coordinates.
func (c *Indexed) At(x, y int) uint8 {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return 0
	}
	return c.Pix[y*c.W+x]
}

func (c *Indexed) set(x, y int, idx uint8) {
	if x < 0 || x >= c.W || y < 0 || y >= c.H {
		return
	}
	c.Pix[y*c.W+x] = idx
}

// DrawLine draws a one-pixel line from (x0, y0) to (x1, y1) in the given
// palette index using Bresenham stepping. Portions of the line outside the
// buffer are clipped.
func (c *Indexed) DrawLine(x0, y0, x1, y1 int, idx uint8) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, idx)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Image converts the buffer to an NRGBA image using the given palette.
// Indices beyond the palette map to the last palette entry.
func (c *Indexed) Image(pal []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.W, c.H))
	for i, p := range c.Pix {
		idx := int(p)
		if idx >= len(pal) {
			idx = len(pal) - 1
		}
		col := pal[idx]
		o := i * 4
		img.Pix[o+0] = col.R
		img.Pix[o+1] = col.G
		img.Pix[o+2] = col.B
		img.Pix[o+3] = col.A
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
