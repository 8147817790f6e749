package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/samblenny/fruit-jam-lines-screensaver/backend"
	"github.com/samblenny/fruit-jam-lines-screensaver/palette"
	"github.com/samblenny/fruit-jam-lines-screensaver/trail"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: run the line-trail simulation headless and emit CSV on stdout

Usage:

 %[1]s -frames 500 > trace.csv

OR

 %[1]s -palette > palette.csv

The trace lists one row per frame with the new segment's rounded endpoints
and palette color index, useful for tuning physics parameters and comparing
runs across seeds.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	cfgPath := flag.String("config", "", "JSON config file")
	frames := flag.Int("frames", 300, "number of frames to simulate")
	seed := flag.Int64("seed", 0, "seed for the random heading drift")
	drift := flag.Float64("drift", 0, "heading drift bound in degrees")
	dumpPalette := flag.Bool("palette", false, "emit the palette instead of the trail trace")
	flag.Parse()

	cfg := backend.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := backend.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "drift":
			cfg.Drift = *drift
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	w := csv.NewWriter(os.Stdout)
	var err error
	if *dumpPalette {
		err = writePalette(w, cfg)
	} else {
		err = writeTrace(w, cfg, *frames)
	}
	if err != nil {
		log.Fatal(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed writing CSV: %v", err)
	}
}

func writePalette(w *csv.Writer, cfg backend.Config) error {
	if err := w.Write([]string{"index", "r", "g", "b"}); err != nil {
		return err
	}
	pal := palette.Gradient(cfg.PaletteSize, cfg.Lightness, cfg.Chroma)
	for i, c := range pal {
		rec := []string{
			strconv.Itoa(i),
			strconv.Itoa(int(c.R)),
			strconv.Itoa(int(c.G)),
			strconv.Itoa(int(c.B)),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeTrace(w *csv.Writer, cfg backend.Config, frames int) error {
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
		return err
	}
	if err := w.Write([]string{"frame", "x0", "y0", "x1", "y1", "color"}); err != nil {
		return err
	}
	for frame := 0; frame <= frames; frame++ {
		if frame > 0 {
			sim.Advance()
		}
		s := sim.Tip()
		rec := []string{
			strconv.Itoa(frame),
			strconv.Itoa(s.X0),
			strconv.Itoa(s.Y0),
			strconv.Itoa(s.X1),
			strconv.Itoa(s.Y1),
			strconv.Itoa(s.Color),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
