package main

import (
	"context"
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/samblenny/fruit-jam-lines-screensaver/backend"
)

func main() {
	cfgPath := flag.String("config", "", "JSON config file; reloaded live when it changes")
	width := flag.Int("width", 0, "canvas width in pixels")
	height := flag.Int("height", 0, "canvas height in pixels")
	speed := flag.Float64("speed", 0, "cursor travel per frame in pixels")
	lines := flag.Int("lines", 0, "trail capacity in segments")
	seed := flag.Int64("seed", 0, "seed for the random heading drift")
	interval := flag.Duration("interval", 0, "frame pacing delay")
	flag.Parse()

	cfg := backend.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := backend.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	// Explicitly set flags override both defaults and the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "speed":
			cfg.Speed = *speed
		case "lines":
			cfg.MaxLines = *lines
		case "seed":
			cfg.Seed = *seed
		case "interval":
			cfg.IntervalMS = int(interval.Milliseconds())
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	engine, err := backend.NewEngine(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *cfgPath != "" {
		if err := backend.WatchConfig(ctx, *cfgPath, engine.Apply); err != nil {
			log.Printf("config reloading disabled: %v", err)
		}
	}

	go func() {
		w := app.NewWindow(
			app.Title("Lines"),
			app.Size(unit.Dp(cfg.Width*2), unit.Dp(cfg.Height*2)),
		)
		ws := backend.NewWindowState(ctx, backend.NewBundle(engine), w)
		if err := loop(w, ws); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, ws backend.WindowState) error {
	ui := NewUI(ws)
	var ops op.Ops
	for {
		switch ev := w.NextEvent().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
