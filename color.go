package main

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Accent colors for the UI chrome, distinct from the screensaver's own
// palette. Hues step around the circle by the golden ratio so neighboring
// accents stay distinguishable.
var accentColors = func() []color.NRGBA {
	const target = 4
	out := make([]color.NRGBA, 0, target)
	for i := 0; i < target; i++ {
		h := math.Mod(float64(i+1)*math.Phi, 1) * 360
		c := colorful.Hcl(h, 0.5, 0.7).Clamped()
		r, g, b := c.RGB255()
		out = append(out, color.NRGBA{R: r, G: g, B: b, A: 0xff})
	}
	return out
}()
