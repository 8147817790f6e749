// Package palette builds the indexed color table for the screensaver: a
// single smooth sweep around the hue circle at fixed perceptual Lightness and
// Chroma, converted from LCh to display sRGB through the CIE pipeline
// (LCh → Lab → XYZ → linear sRGB → gamma-companded sRGB).
package palette

import (
	"image/color"
	"math"
)

// CIE constants for the Lab → XYZ inverse transform.
const (
	epsilon = 0.008856
	kappa   = 903.3
)

// D65 reference white.
const (
	whiteX = 0.95047
	whiteY = 1.0
	whiteZ = 1.08883
)

// XYZ → linear sRGB adaptation matrix for the D65 white point. Rows yield
// R, G, B in that order.
var xyzToLinearSRGB = [3][3]float64{
	{3.2404542, -1.5371385, -0.4985314},
	{-0.9692660, 1.8760108, 0.0415560},
	{0.0556434, -0.2040259, 1.0572252},
}

// LChToSRGB converts an L*C*h color to 8-bit sRGB using the D65 white point.
// Lightness and chroma are expected in 0-1.0 (1/100 of the usual CIELAB
// scale; the output scaling compensates), hue in degrees. The adaptation
// matrix rows are in the standard R, G, B orientation, so the returned
// channels need no reordering.
func LChToSRGB(l, c, h float64) (r, g, b uint8) {
	// LCh → Lab. L is unchanged.
	hr := h * math.Pi / 180
	a := c * math.Cos(hr)
	bb := c * math.Sin(hr)

	// Lab → XYZ, piecewise cube/linear inverse.
	fy := (l + 16) / 116
	fx := a/500 + fy
	fz := fy - bb/200
	xr := fx * fx * fx
	if xr <= epsilon {
		xr = (116*fx - 16) / kappa
	}
	yr := fy * fy * fy
	if l <= kappa*epsilon {
		yr = l / kappa
	}
	zr := fz * fz * fz
	if zr <= epsilon {
		zr = (116*fz - 16) / kappa
	}
	x := xr * whiteX
	y := yr * whiteY
	z := zr * whiteZ

	// XYZ → linear sRGB → companded 8-bit channels.
	m := &xyzToLinearSRGB
	r = compand(m[0][0]*x + m[0][1]*y + m[0][2]*z)
	g = compand(m[1][0]*x + m[1][1]*y + m[1][2]*z)
	b = compand(m[2][0]*x + m[2][1]*y + m[2][2]*z)
	return r, g, b
}

// compand applies the sRGB gamma curve to a linear channel value and scales
// it to 0-255. The ×25500 factor folds together the 0-255 range and the ×100
// compensation for the 0-1.0 Lightness/Chroma inputs. Out-of-range values
// before the clamp are expected; the clamp is the gamut safety net.
func compand(v float64) uint8 {
	if v <= 0.0031308 {
		v = 12.92 * v
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	v *= 25500
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Gradient returns a palette of the given size with index 0 reserved as the
// black background and indices 1..size-1 sweeping the full hue circle at the
// given Lightness and Chroma. The function is pure: identical inputs produce
// byte-identical palettes.
func Gradient(size int, l, c float64) []color.NRGBA {
	pal := make([]color.NRGBA, size)
	pal[0] = color.NRGBA{A: 0xff}
	for i := 1; i < size; i++ {
		h := 360 * float64(i) / float64(size-1)
		r, g, b := LChToSRGB(l, c, h)
		pal[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return pal
}
