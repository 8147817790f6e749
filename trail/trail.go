// Package trail implements the line-trail simulation at the heart of the
// screensaver. Two endpoint cursors drift across the canvas at fixed speed,
// bouncing off the edges with angle reflection and a small random heading
// perturbation, and each step appends a new line segment colored with the
// next index of a cyclic palette sweep. Only a bounded number of segments is
// retained; the oldest is evicted first.
package trail

import (
	"fmt"
	"log"
	"math"
	"math/rand"
)

// Segment is one rendered line, immutable once created. Endpoints are the
// cursors' positions rounded to pixels; Color is a palette index in
// [1, MaxColor].
type Segment struct {
	X0, Y0, X1, Y1 int
	Color          int
}

// Cursor is a moving line endpoint: a position inside the canvas and a
// heading in degrees. After every Advance the position satisfies
// 0 ≤ X < width and 0 ≤ Y < height.
type Cursor struct {
	X, Y    float64
	Heading float64
}

// Config describes the simulation parameters and the initial cursor
// placement.
type Config struct {
	Width, Height int
	// Speed is the distance each cursor travels per step, in pixels.
	Speed float64
	// Drift bounds the random heading perturbation applied each step, in
	// degrees. Zero disables the perturbation (useful for deterministic
	// tests); the perturbation is what keeps the trajectory from settling
	// into a short closed orbit.
	Drift float64
	// MaxLines is the trail capacity. Once exceeded, the oldest segment is
	// evicted.
	MaxLines int
	// MaxColor is the highest usable palette index. Segment colors cycle
	// through 1..MaxColor; index 0 is the background and is never assigned.
	MaxColor   int
	Head, Tail Cursor
}

// Engine owns the trail state. It is not safe for concurrent use; the
// surrounding frame loop drives it strictly sequentially.
type Engine struct {
	head, tail Cursor
	lines      []Segment
	color      int

	width, height float64
	speed         float64
	drift         float64
	maxLines      int
	maxColor      int

	rng    *rand.Rand
	warned bool
}

// New validates the configuration and returns an engine seeded with one
// initial segment between the two starting cursors. The random source is
// injected so tests can fix the drift sequence.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	if cfg.Width < 2 || cfg.Height < 2 {
		return nil, fmt.Errorf("trail: canvas %dx%d too small", cfg.Width, cfg.Height)
	}
	if cfg.MaxLines < 1 {
		return nil, fmt.Errorf("trail: capacity %d must be at least 1", cfg.MaxLines)
	}
	if cfg.MaxColor < 1 || cfg.MaxColor > 255 {
		return nil, fmt.Errorf("trail: max color index %d outside [1,255]", cfg.MaxColor)
	}
	if cfg.Speed < 0 || cfg.Drift < 0 {
		return nil, fmt.Errorf("trail: speed %v and drift %v must not be negative", cfg.Speed, cfg.Drift)
	}
	e := &Engine{
		head:     cfg.Head,
		tail:     cfg.Tail,
		color:    1,
		width:    float64(cfg.Width),
		height:   float64(cfg.Height),
		speed:    cfg.Speed,
		drift:    cfg.Drift,
		maxLines: cfg.MaxLines,
		maxColor: cfg.MaxColor,
		rng:      rng,
	}
	e.lines = append(e.lines, e.segment())
	return e, nil
}

// Advance moves both cursors one step, cycles the color counter, and appends
// the resulting segment, evicting the oldest one beyond capacity.
func (e *Engine) Advance() {
	e.step(&e.head)
	e.step(&e.tail)
	if e.color == e.maxColor {
		e.color = 1
	} else {
		e.color++
	}
	e.lines = append(e.lines, e.segment())
	if overflow := len(e.lines) - e.maxLines; overflow > 0 {
		n := copy(e.lines, e.lines[overflow:])
		e.lines = e.lines[:n]
	}
}

// step integrates one cursor and reflects it off any crossed edge. The X
// check runs first and the Y check uses the already-adjusted heading, so a
// corner excursion reflects on both axes in the same step.
func (e *Engine) step(cur *Cursor) {
	a := cur.Heading
	if e.drift > 0 {
		a += (e.rng.Float64()*2 - 1) * e.drift
	}
	r := a * math.Pi / 180
	x := cur.X + e.speed*math.Cos(r)
	y := cur.Y + e.speed*math.Sin(r)
	if x < 0 {
		x = -x
		a = reflectX(a)
	} else if x >= e.width {
		x = e.width - (x - e.width)
		if x >= e.width {
			// Landed exactly on the edge; the mirror image of the edge is
			// itself, outside the half-open interval.
			x = math.Nextafter(e.width, 0)
		}
		a = reflectX(a)
	}
	if y < 0 {
		y = -y
		a = reflectY(a)
	} else if y >= e.height {
		y = e.height - (y - e.height)
		if y >= e.height {
			y = math.Nextafter(e.height, 0)
		}
		a = reflectY(a)
	}
	// The reflection law assumes at most one excursion per axis per step.
	// A speed larger than a canvas dimension can still land outside; clamp
	// as a last resort.
	if x < 0 || x >= e.width || y < 0 || y >= e.height {
		if !e.warned {
			log.Printf("trail: speed %v exceeds canvas %vx%v, clamping cursor", e.speed, e.width, e.height)
			e.warned = true
		}
		x = math.Min(math.Max(x, 0), e.width-1)
		y = math.Min(math.Max(y, 0), e.height-1)
	}
	cur.X, cur.Y, cur.Heading = x, y, a
}

// reflectX mirrors a heading across the vertical axis (a left or right edge
// bounce): the horizontal velocity component flips sign, the vertical one is
// preserved.
func reflectX(a float64) float64 {
	return normalize(180 - a)
}

// reflectY mirrors a heading across the horizontal axis (a top or bottom edge
// bounce).
func reflectY(a float64) float64 {
	return normalize(-a)
}

// normalize maps an angle into [0, 360).
func normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func (e *Engine) segment() Segment {
	return Segment{
		X0:    int(math.Round(e.head.X)),
		Y0:    int(math.Round(e.head.Y)),
		X1:    int(math.Round(e.tail.X)),
		Y1:    int(math.Round(e.tail.Y)),
		Color: e.color,
	}
}

// Head returns the current head cursor.
func (e *Engine) Head() Cursor { return e.head }

// Tail returns the current tail cursor.
func (e *Engine) Tail() Cursor { return e.tail }

// Len returns the number of retained segments.
func (e *Engine) Len() int { return len(e.lines) }

// Tip returns the most recently appended segment.
func (e *Engine) Tip() Segment { return e.lines[len(e.lines)-1] }

// Segments returns a copy of the retained segments, oldest first.
func (e *Engine) Segments() []Segment {
	out := make([]Segment, len(e.lines))
	copy(out, e.lines)
	return out
}

// SetSpeed updates the per-step travel distance.
func (e *Engine) SetSpeed(speed float64) {
	if speed >= 0 {
		e.speed = speed
	}
}

// SetDrift updates the heading perturbation bound.
func (e *Engine) SetDrift(drift float64) {
	if drift >= 0 {
		e.drift = drift
	}
}

// SetMaxLines updates the trail capacity, evicting oldest segments if the
// new capacity is smaller than the current trail.
func (e *Engine) SetMaxLines(maxLines int) {
	if maxLines < 1 {
		return
	}
	e.maxLines = maxLines
	if overflow := len(e.lines) - maxLines; overflow > 0 {
		n := copy(e.lines, e.lines[overflow:])
		e.lines = e.lines[:n]
	}
}
