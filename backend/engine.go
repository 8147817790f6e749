package backend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sync"
	"time"

	"github.com/samblenny/fruit-jam-lines-screensaver/canvas"
	"github.com/samblenny/fruit-jam-lines-screensaver/palette"
	"github.com/samblenny/fruit-jam-lines-screensaver/trail"
)

// Frame is one rendered screensaver frame together with the state the UI
// shows alongside it. The image and palette are never mutated after a frame
// is published.
type Frame struct {
	Seq     uint64
	Img     *image.NRGBA
	Palette []color.NRGBA
	Tuning  Tuning
}

// Engine runs the advance→render→publish loop on its own goroutine and fans
// frames out to subscribers. The simulation itself is strictly sequential:
// one flow of control advances the trail, rasterizes it, and publishes the
// result once per tick.
type Engine struct {
	cfg    Config
	tuning Tuning

	// Simulation state, owned by the run goroutine after construction.
	sim *trail.Engine
	cv  *canvas.Indexed
	pal []color.NRGBA

	pauseCh  chan bool
	tuningCh chan Tuning

	mu      sync.Mutex
	subs    map[int]chan Frame
	nextSub int
	last    Frame
	hasLast bool
}

// NewEngine validates the configuration, builds the palette, canvas, and
// trail simulation, and starts the frame loop. The loop stops when ctx is
// cancelled.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	tuning := cfg.Tuning()
	sim, err := trail.New(trail.Config{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Speed:    cfg.Speed,
		Drift:    cfg.Drift,
		MaxLines: cfg.MaxLines,
		MaxColor: cfg.PaletteSize - 1,
		Head:     trail.Cursor{X: cfg.HeadX, Y: cfg.HeadY, Heading: cfg.HeadAngle},
		Tail:     trail.Cursor{X: cfg.TailX, Y: cfg.TailY, Heading: cfg.TailAngle},
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e := &Engine{
		cfg:      cfg,
		tuning:   tuning,
		sim:      sim,
		cv:       canvas.NewIndexed(cfg.Width, cfg.Height),
		pal:      palette.Gradient(cfg.PaletteSize, tuning.Lightness, tuning.Chroma),
		pauseCh:  make(chan bool, 1),
		tuningCh: make(chan Tuning, 1),
		subs:     map[int]chan Frame{},
	}
	go e.run(ctx)
	return e, nil
}

// Config returns the engine's startup configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetPaused suspends or resumes frame production. The simulation state is
// frozen while paused; nothing is lost.
func (e *Engine) SetPaused(paused bool) {
	select {
	case <-e.pauseCh:
	default:
	}
	e.pauseCh <- paused
}

// Apply replaces the live-reloadable tuning. Palette-affecting changes
// rebuild the gradient before the next frame.
func (e *Engine) Apply(t Tuning) {
	select {
	case <-e.tuningCh:
	default:
	}
	e.tuningCh <- t
}

// Frames subscribes to the frame stream. The newest published frame, if any,
// is delivered immediately; afterwards subscribers always see the most recent
// frame, skipping stale ones if they fall behind. The subscription ends when
// ctx is cancelled. The signature matches what stream.New expects for a
// provider.
func (e *Engine) Frames(ctx context.Context) <-chan Frame {
	ch := make(chan Frame, 1)
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	if e.hasLast {
		ch <- e.last
	}
	e.mu.Unlock()
	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, id)
		close(ch)
		e.mu.Unlock()
	}()
	return ch
}

func (e *Engine) broadcast(f Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = f
	e.hasLast = true
	for _, ch := range e.subs {
		select {
		case ch <- f:
		default:
			// Drop the stale frame so a slow subscriber sees the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.tuning.Interval)
	defer ticker.Stop()
	paused := false
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case paused = <-e.pauseCh:
		case t := <-e.tuningCh:
			e.retune(t, ticker)
		case <-ticker.C:
			if paused {
				continue
			}
			e.sim.Advance()
			e.sim.DrawInto(e.cv)
			seq++
			e.broadcast(Frame{
				Seq:     seq,
				Img:     e.cv.Image(e.pal),
				Palette: e.pal,
				Tuning:  e.tuning,
			})
		}
	}
}

func (e *Engine) retune(t Tuning, ticker *time.Ticker) {
	if t.Interval > 0 && t.Interval != e.tuning.Interval {
		ticker.Reset(t.Interval)
	}
	if t.Lightness != e.tuning.Lightness || t.Chroma != e.tuning.Chroma {
		e.pal = palette.Gradient(e.cfg.PaletteSize, t.Lightness, t.Chroma)
	}
	e.sim.SetSpeed(t.Speed)
	e.sim.SetDrift(t.Drift)
	e.sim.SetMaxLines(t.MaxLines)
	e.tuning = t
}
