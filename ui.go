package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/samblenny/fruit-jam-lines-screensaver/backend"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"
	xdraw "golang.org/x/image/draw"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI:
// the upscaled screensaver frame plus a small control strip.
type UI struct {
	ws backend.WindowState
	th *material.Theme

	frameStream *stream.Stream[backend.Frame]
	frame       backend.Frame

	// scaled caches the upscaled copy of the frame identified by scaledSeq,
	// so a relayout without a new frame skips the rescale.
	scaled    *image.NRGBA
	scaledSeq uint64

	pauseBtn widget.Clickable
	paused   bool
	showKey  widget.Bool
	keyGrid  component.GridState
}

func NewUI(ws backend.WindowState) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	th.ContrastBg = accentColors[0]
	return &UI{
		ws:          ws,
		th:          th,
		frameStream: stream.New(ws.Controller, ws.Bundle.Engine.Frames),
	}
}

// Update the state of the UI and process events.
func (ui *UI) Update(gtx C) {
	ui.frameStream.ReadInto(gtx, &ui.frame, backend.Frame{})
	if ui.pauseBtn.Clicked(gtx) {
		ui.paused = !ui.paused
		ui.ws.Bundle.Engine.SetPaused(ui.paused)
	}
	ui.showKey.Update(gtx)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.frame.Img == nil {
		return ui.layoutStartScreen(gtx)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, ui.layoutCanvas),
		layout.Rigid(ui.layoutControls),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	paint.FillShape(gtx.Ops, color.NRGBA{A: 0xff}, clip.Rect{Max: gtx.Constraints.Max}.Op())
	l := material.Body1(ui.th, "Waiting for the first frame...")
	l.Color = accentColors[1]
	layout.Center.Layout(gtx, l.Layout)
	return D{Size: gtx.Constraints.Max}
}

// layoutCanvas paints the current frame, upscaled by the largest integer
// factor that fits the available space and centered. Nearest-neighbor
// filtering keeps the low-resolution pixels crisp.
func (ui *UI) layoutCanvas(gtx C) D {
	paint.FillShape(gtx.Ops, color.NRGBA{A: 0xff}, clip.Rect{Max: gtx.Constraints.Max}.Op())
	src := ui.frame.Img
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	scale := int(min(
		floor(float64(gtx.Constraints.Max.X)/float64(sw)),
		floor(float64(gtx.Constraints.Max.Y)/float64(sh)),
	))
	if scale < 1 {
		scale = 1
	}
	dw, dh := sw*scale, sh*scale
	if ui.scaled == nil || ui.scaled.Bounds().Dx() != dw || ui.scaled.Bounds().Dy() != dh {
		ui.scaled = image.NewNRGBA(image.Rect(0, 0, dw, dh))
		ui.scaledSeq = 0
	}
	if ui.scaledSeq != ui.frame.Seq {
		xdraw.NearestNeighbor.Scale(ui.scaled, ui.scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		ui.scaledSeq = ui.frame.Seq
	}
	off := image.Pt((gtx.Constraints.Max.X-dw)/2, (gtx.Constraints.Max.Y-dh)/2)
	stack := op.Offset(off).Push(gtx.Ops)
	cl := clip.Rect{Max: image.Pt(dw, dh)}.Push(gtx.Ops)
	paint.NewImageOp(ui.scaled).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	cl.Pop()
	stack.Pop()
	return D{Size: gtx.Constraints.Max}
}

func (ui *UI) layoutControls(gtx C) D {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					icon := pauseIcon
					if ui.paused {
						icon = playIcon
					}
					return material.Clickable(gtx, &ui.pauseBtn, func(gtx C) D {
						return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
							side := gtx.Dp(20)
							gtx.Constraints.Min = image.Pt(side, side)
							return icon.Layout(gtx, ui.th.Fg)
						})
					})
				}),
				layout.Rigid(material.CheckBox(ui.th, &ui.showKey, "Key").Layout),
				layout.Flexed(1, func(gtx C) D {
					l := material.Body2(ui.th, fmt.Sprintf("frame %d", ui.frame.Seq))
					l.Alignment = text.End
					l.Color = accentColors[2]
					return l.Layout(gtx)
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			if !ui.showKey.Value {
				return D{}
			}
			return ui.layoutKey(gtx)
		}),
	)
}

// layoutKey shows the live tuning values and a strip of the palette's
// non-background entries.
func (ui *UI) layoutKey(gtx C) D {
	tn := ui.frame.Tuning
	rows := []struct {
		name, value string
	}{
		{"Lightness", fmt.Sprintf("%.2f", tn.Lightness)},
		{"Chroma", fmt.Sprintf("%.2f", tn.Chroma)},
		{"Speed", fmt.Sprintf("%.1f px/frame", tn.Speed)},
		{"Trail length", fmt.Sprintf("%d segments", tn.MaxLines)},
		{"Drift", fmt.Sprintf("±%.1f°", tn.Drift)},
		{"Frame interval", tn.Interval.String()},
	}
	table := component.Table(ui.th, &ui.keyGrid)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	nameColWidth := gtx.Dp(120)
	rowHeight := gtx.Sp(20)
	const (
		nameCol = iota
		valueCol
		numCols
	)
	layoutTable := func(gtx C) D {
		// Keep the table from claiming more than its rows need.
		gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(rows)+1)+gtx.Dp(4))
		return table.Layout(gtx, len(rows), numCols,
			func(axis layout.Axis, index, constraint int) int {
				if axis == layout.Vertical {
					return min(constraint, rowHeight)
				}
				if index == nameCol {
					return min(nameColWidth, constraint)
				}
				return min(constraint-nameColWidth, constraint)
			},
			func(gtx C, col int) D {
				var l material.LabelStyle
				switch col {
				case nameCol:
					l = material.Body1(ui.th, "Setting")
				case valueCol:
					l = material.Body1(ui.th, "Value")
				}
				l.Color = ui.th.ContrastFg
				return layout.Background{}.Layout(gtx,
					func(gtx C) D {
						paint.FillShape(gtx.Ops, ui.th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
						return D{Size: gtx.Constraints.Min}
					}, l.Layout,
				)
			},
			func(gtx C, row, col int) D {
				return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
					switch col {
					case nameCol:
						return material.Body2(ui.th, rows[row].name).Layout(gtx)
					case valueCol:
						return material.Body2(ui.th, rows[row].value).Layout(gtx)
					default:
						return D{Size: gtx.Constraints.Max}
					}
				})
			})
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(layoutTable),
		layout.Rigid(ui.layoutSwatches),
	)
}

// layoutSwatches draws the palette's drawable entries (index 1 onward) as a
// horizontal strip under the key table.
func (ui *UI) layoutSwatches(gtx C) D {
	pal := ui.frame.Palette
	if len(pal) < 2 {
		return D{}
	}
	h := gtx.Dp(12)
	w := gtx.Constraints.Max.X
	step := float64(w) / float64(len(pal)-1)
	for i, col := range pal[1:] {
		x0 := int(float64(i) * step)
		x1 := int(ceil(float64(i+1) * step))
		if x1 > w {
			x1 = w
		}
		paint.FillShape(gtx.Ops, col, clip.Rect{
			Min: image.Pt(x0, 0),
			Max: image.Pt(x1, h),
		}.Op())
	}
	return D{Size: image.Pt(w, h)}
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}
