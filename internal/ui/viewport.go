package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
)

const keyMods = key.ModShortcut | key.ModCtrl | key.ModShift | key.ModAlt | key.ModCommand

// viewport shows one canvas and feeds it pointer and key events.
type viewport struct {
	img   image.Image
	imgOp paint.ImageOp

	menu   *menu.DropdownMenu
	menuAt image.Point
	// openMenu asks the next frame to show menu.
	openMenu bool

	palette gfx.Palette
	fitted  bool
}

func newViewport() *viewport {
	return &viewport{palette: gfx.DefaultPalette()}
}

// Layout runs the canvas work queued since the last frame, dispatches
// input and paints the render with the canvas feedback on top.
func (v *viewport) Layout(gtx layout.Context, th *theme.Theme, c *canvas.Canvas, onMenu func(at image.Point) *menu.DropdownMenu) layout.Dimensions {
	size := gtx.Constraints.Max
	t := c.Transform()
	t.SetViewSize(size.X, size.Y)

	c.Loop().RunPending()
	if !v.fitted && c.Tree().Root() != nil {
		t.Fit(c.Tree().Root().Bounds().Size())
		v.fitted = true
	}

	for {
		ev, ok := gtx.Event(
			key.FocusFilter{Target: v},
			key.Filter{Focus: v, Optional: keyMods},
		)
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok {
			if ke.State == key.Press && ke.Name == "0" && ke.Modifiers.Contain(key.ModShortcut) {
				v.fit(c)
			} else {
				c.Gestures().HandleKey(ke)
			}
		}
	}

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Enter | pointer.Leave | pointer.Cancel | pointer.Scroll,
			ScrollX: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		if pe.Kind == pointer.Press {
			gtx.Execute(key.FocusCmd{Tag: v})
			if pe.Buttons == pointer.ButtonSecondary {
				at := image.Pt(int(pe.Position.X), int(pe.Position.Y))
				if m := onMenu(at); m != nil {
					v.menu, v.menuAt, v.openMenu = m, at, true
				}
				continue
			}
		}
		c.Gestures().HandlePointer(pe)
	}
	c.Loop().RunPending()

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, v)
	c.Gestures().Cursor().Add(gtx.Ops)

	paint.FillShape(gtx.Ops, th.Bg2, clip.Rect{Max: size}.Op())
	v.paintImage(gtx, c)
	c.Paint(newPainter(gtx, th.Theme, t, v.palette))
	if c.Document().IsEmpty() {
		v.paintHint(gtx, th, "Empty layout: drop an element from the palette or paste")
	}

	if v.menu != nil {
		off := op.Offset(v.menuAt).Push(gtx.Ops)
		if v.openMenu {
			v.menu.ToggleVisibility(gtx)
			v.openMenu = false
		}
		mgtx := gtx
		mgtx.Constraints.Min = image.Point{}
		v.menu.Layout(mgtx, th)
		off.Pop()
	}
	return layout.Dimensions{Size: size}
}

// paintImage draws the last render scaled by the zoom factor.
func (v *viewport) paintImage(gtx layout.Context, c *canvas.Canvas) {
	img := c.Image()
	if img == nil {
		return
	}
	if img != v.img {
		v.img = img
		v.imgOp = paint.NewImageOp(img)
	}
	t := c.Transform()
	origin := t.ToDevice(image.Point{})
	scale := float32(t.Scale)
	if scale <= 0 {
		scale = 1
	}
	tr := f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(scale, scale)).Offset(origin)
	defer op.Affine(tr).Push(gtx.Ops).Pop()
	defer clip.Rect{Max: img.Bounds().Size()}.Push(gtx.Ops).Pop()
	v.imgOp.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

func (v *viewport) paintHint(gtx layout.Context, th *theme.Theme, msg string) {
	lbl := material.Body1(th.Theme, msg)
	lbl.Color = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, lbl.Layout)
	})
}

// fit zooms so the whole layout is visible.
func (v *viewport) fit(c *canvas.Canvas) {
	if root := c.Tree().Root(); root != nil {
		c.Transform().Fit(root.Bounds().Size())
	}
}
