package trail

import (
	"math"
	"math/rand"
	"testing"

	"github.com/samblenny/fruit-jam-lines-screensaver/canvas"
)

func testConfig() Config {
	return Config{
		Width:    320,
		Height:   240,
		Speed:    8,
		Drift:    0,
		MaxLines: 21,
		MaxColor: 255,
		Head:     Cursor{X: 31, Y: 17, Heading: 23},
		Tail:     Cursor{X: 163, Y: 109, Heading: 71},
	}
}

func newTestEngine(t *testing.T, cfg Config, seed int64) *Engine {
	t.Helper()
	e, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestTrailBounded(t *testing.T) {
	cfg := testConfig()
	cfg.Drift = 2
	e := newTestEngine(t, cfg, 1)
	for i := 0; i < 200; i++ {
		e.Advance()
		if e.Len() > cfg.MaxLines {
			t.Fatalf("trail grew to %d segments after %d steps, capacity %d", e.Len(), i+1, cfg.MaxLines)
		}
	}
	if e.Len() != cfg.MaxLines {
		t.Errorf("trail holds %d segments after 200 steps, want exactly %d", e.Len(), cfg.MaxLines)
	}
}

func TestColorCycling(t *testing.T) {
	cfg := testConfig()
	cfg.Drift = 2
	cfg.MaxColor = 5
	e := newTestEngine(t, cfg, 2)
	if got := e.Tip().Color; got != 1 {
		t.Fatalf("initial segment color = %d, want 1", got)
	}
	want := 1
	for i := 0; i < 17; i++ {
		e.Advance()
		if want == cfg.MaxColor {
			want = 1
		} else {
			want++
		}
		if got := e.Tip().Color; got != want {
			t.Errorf("step %d: segment color = %d, want %d", i+1, got, want)
		}
	}
}

func TestCursorsStayInBounds(t *testing.T) {
	cfg := testConfig()
	cfg.Drift = 2
	e := newTestEngine(t, cfg, 3)
	for i := 0; i < 10000; i++ {
		e.Advance()
		for name, cur := range map[string]Cursor{"head": e.Head(), "tail": e.Tail()} {
			if cur.X < 0 || cur.X >= float64(cfg.Width) || cur.Y < 0 || cur.Y >= float64(cfg.Height) {
				t.Fatalf("step %d: %s cursor (%v,%v) left the canvas", i+1, name, cur.X, cur.Y)
			}
		}
	}
}

func TestLeftEdgeReflection(t *testing.T) {
	cfg := testConfig()
	cfg.Head = Cursor{X: 2, Y: 120, Heading: 190}
	e := newTestEngine(t, cfg, 4)
	before := math.Cos(e.Head().Heading * math.Pi / 180)
	if before >= 0 {
		t.Fatalf("test setup: heading 190° should move left, cos = %v", before)
	}
	e.Advance()
	head := e.Head()
	if head.X < 0 {
		t.Errorf("head X = %v after bounce, want non-negative", head.X)
	}
	after := math.Cos(head.Heading * math.Pi / 180)
	if after <= 0 {
		t.Errorf("cos(heading) = %v after left-edge bounce, want positive (sign flip)", after)
	}
}

func TestReflectionLaw(t *testing.T) {
	type testcase struct {
		name    string
		reflect func(float64) float64
		in, out float64
	}
	for _, tc := range []testcase{
		{"x upward-left", reflectX, 135, 45},
		{"x downward-left", reflectX, 225, 315},
		{"x already normalized input", reflectX, 190, 350},
		{"x negative input", reflectX, -30, 210},
		{"y downward", reflectY, 45, 315},
		{"y upward", reflectY, 315, 45},
		{"y straight down", reflectY, 90, 270},
		{"y large input", reflectY, 450, 270},
	} {
		if got := tc.reflect(tc.in); math.Abs(got-tc.out) > 1e-9 {
			t.Errorf("%s: reflect(%v) = %v, want %v", tc.name, tc.in, got, tc.out)
		}
	}
}

func TestAdvanceScenario(t *testing.T) {
	// One drift-free step from the documented initial placement.
	e := newTestEngine(t, testConfig(), 5)
	e.Advance()
	tip := e.Tip()
	if tip.Color != 2 {
		t.Errorf("segment color after first step = %d, want 2", tip.Color)
	}
	// speed 8 along 23°: (31,17) → (38.36, 20.13); along 71°: (163,109) →
	// (165.60, 116.56). No edge is crossed, so the rounded endpoints are
	// exact.
	if tip.X0 != 38 || tip.Y0 != 20 {
		t.Errorf("head endpoint = (%d,%d), want (38,20)", tip.X0, tip.Y0)
	}
	if tip.X1 != 166 || tip.Y1 != 117 {
		t.Errorf("tail endpoint = (%d,%d), want (166,117)", tip.X1, tip.Y1)
	}
	for _, v := range []struct {
		name  string
		val   int
		limit int
	}{
		{"x0", tip.X0, 320}, {"x1", tip.X1, 320},
		{"y0", tip.Y0, 240}, {"y1", tip.Y1, 240},
	} {
		if v.val < 0 || v.val >= v.limit {
			t.Errorf("%s = %d outside [0,%d)", v.name, v.val, v.limit)
		}
	}
}

func TestEvictionOrder(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLines = 4
	cfg.MaxColor = 100
	e := newTestEngine(t, cfg, 6)
	for i := 0; i < 9; i++ {
		e.Advance()
	}
	// Colors 1..10 were assigned in order; with capacity 4 the retained
	// segments must be the newest four, oldest first.
	want := []int{7, 8, 9, 10}
	segs := e.Segments()
	if len(segs) != len(want) {
		t.Fatalf("retained %d segments, want %d", len(segs), len(want))
	}
	for i, s := range segs {
		if s.Color != want[i] {
			t.Errorf("segment %d has color %d, want %d", i, s.Color, want[i])
		}
	}
}

func TestShrinkCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLines = 10
	e := newTestEngine(t, cfg, 7)
	for i := 0; i < 10; i++ {
		e.Advance()
	}
	e.SetMaxLines(3)
	if e.Len() != 3 {
		t.Fatalf("trail holds %d segments after shrink, want 3", e.Len())
	}
	if got := e.Tip().Color; got != 11 {
		t.Errorf("newest segment color = %d after shrink, want 11", got)
	}
}

func TestExcessiveSpeedClamps(t *testing.T) {
	cfg := testConfig()
	cfg.Speed = 1000
	e := newTestEngine(t, cfg, 8)
	for i := 0; i < 50; i++ {
		e.Advance()
		for name, cur := range map[string]Cursor{"head": e.Head(), "tail": e.Tail()} {
			if cur.X < 0 || cur.X >= float64(cfg.Width) || cur.Y < 0 || cur.Y >= float64(cfg.Height) {
				t.Fatalf("step %d: %s cursor (%v,%v) escaped despite clamping", i+1, name, cur.X, cur.Y)
			}
		}
	}
}

func TestExactEdgeLandingReflects(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 100
	cfg.Height = 100
	cfg.Speed = 8
	cfg.Head = Cursor{X: 92, Y: 50, Heading: 0}
	cfg.Tail = Cursor{X: 50, Y: 92, Heading: 90}
	e := newTestEngine(t, cfg, 1)
	e.Advance()
	head, tail := e.Head(), e.Tail()
	if head.X >= float64(cfg.Width) || head.X < float64(cfg.Width)-1 {
		t.Errorf("head landed on the right edge, got X %v, want just inside %d", head.X, cfg.Width)
	}
	if head.Heading != 180 {
		t.Errorf("head heading after right-edge bounce = %v, want 180", head.Heading)
	}
	if tail.Y >= float64(cfg.Height) || tail.Y < float64(cfg.Height)-1 {
		t.Errorf("tail landed on the bottom edge, got Y %v, want just inside %d", tail.Y, cfg.Height)
	}
	if tail.Heading != 270 {
		t.Errorf("tail heading after bottom-edge bounce = %v, want 270", tail.Heading)
	}
	if e.warned {
		t.Error("edge landing tripped the excessive-speed clamp")
	}
}

func TestDrawInto(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 32
	cfg.Height = 24
	cfg.Speed = 2
	cfg.Head = Cursor{X: 4, Y: 4, Heading: 0}
	cfg.Tail = Cursor{X: 20, Y: 20, Heading: 90}
	e := newTestEngine(t, cfg, 9)
	e.Advance()
	c := canvas.NewIndexed(cfg.Width, cfg.Height)
	e.DrawInto(c)
	tip := e.Tip()
	if got := c.At(tip.X0, tip.Y0); got != uint8(tip.Color) {
		t.Errorf("newest segment endpoint pixel = %d, want color %d", got, tip.Color)
	}
	painted := 0
	for _, p := range c.Pix {
		if p != BackgroundIndex {
			painted++
		}
	}
	if painted == 0 {
		t.Error("no pixels painted after DrawInto")
	}
}

func TestInvalidConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny canvas", func(c *Config) { c.Width = 1 }},
		{"zero capacity", func(c *Config) { c.MaxLines = 0 }},
		{"zero max color", func(c *Config) { c.MaxColor = 0 }},
		{"oversized max color", func(c *Config) { c.MaxColor = 256 }},
		{"negative speed", func(c *Config) { c.Speed = -1 }},
	} {
		cfg := testConfig()
		tc.mutate(&cfg)
		if _, err := New(cfg, rng); err == nil {
			t.Errorf("%s: New accepted invalid config", tc.name)
		}
	}
}
