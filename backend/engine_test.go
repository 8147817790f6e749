package backend

import (
	"context"
	"testing"
	"time"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 64
	cfg.Height = 48
	cfg.IntervalMS = 1
	return cfg
}

func TestEngineProducesFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e, err := NewEngine(ctx, fastConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	frames := e.Frames(ctx)
	var prev uint64
	for i := 0; i < 5; i++ {
		select {
		case f := <-frames:
			if f.Seq <= prev {
				t.Errorf("frame %d: seq %d not greater than previous %d", i, f.Seq, prev)
			}
			prev = f.Seq
			if f.Img == nil {
				t.Fatal("frame carries no image")
			}
			if b := f.Img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
				t.Errorf("frame image is %v, want 64x48", b)
			}
			if len(f.Palette) != 256 {
				t.Errorf("frame palette has %d entries, want 256", len(f.Palette))
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a frame")
		}
	}
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.PaletteSize = 1
	if _, err := NewEngine(context.Background(), cfg); err == nil {
		t.Error("NewEngine accepted a one-entry palette")
	}
}

func TestEngineStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e, err := NewEngine(ctx, fastConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	subCtx, subCancel := context.WithCancel(context.Background())
	frames := e.Frames(subCtx)
	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame before cancel")
	}
	cancel()
	subCancel()
	// The subscription channel must close once its context is cancelled.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("frame channel never closed after cancellation")
		}
	}
}

func TestEnginePauseAndResume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e, err := NewEngine(ctx, fastConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	frames := e.Frames(ctx)
	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame before pausing")
	}
	e.SetPaused(true)
	// Drain whatever was already in flight when the pause landed, then
	// expect silence.
	var last uint64
	settle := time.After(100 * time.Millisecond)
drain:
	for {
		select {
		case f := <-frames:
			last = f.Seq
		case <-settle:
			break drain
		}
	}
	select {
	case f := <-frames:
		t.Fatalf("paused engine published seq %d (last before pause %d)", f.Seq, last)
	case <-time.After(100 * time.Millisecond):
	}
	e.SetPaused(false)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-frames:
			if f.Seq > last {
				return
			}
		case <-deadline:
			t.Fatal("engine never resumed after unpausing")
		}
	}
}

func TestEngineApplyTuning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e, err := NewEngine(ctx, fastConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	tn := e.Config().Tuning()
	tn.Speed = 2
	tn.MaxLines = 3
	e.Apply(tn)
	frames := e.Frames(ctx)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-frames:
			if f.Tuning.Speed == 2 && f.Tuning.MaxLines == 3 {
				return
			}
		case <-deadline:
			t.Fatal("tuning change never reflected in published frames")
		}
	}
}
