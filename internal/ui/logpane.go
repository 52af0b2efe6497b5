package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"gioui.org/gesture"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"
)

const maxLogLines = 500

// logPane is the resizable message area below the canvas. The text is
// selectable so that it can be copied through the canvas clipboard.
type logPane struct {
	lines []string
	text  string

	sel  widget.Selectable
	list widget.List

	height   unit.Dp
	grip     gesture.Drag
	dragging bool
	lastY    float32
}

func newLogPane() *logPane {
	p := &logPane{height: 120}
	p.sel.WrapPolicy = text.WrapGraphemes
	p.list.Axis = layout.Vertical
	p.list.ScrollToEnd = true
	return p
}

// add appends a timestamped line, dropping the oldest past maxLogLines.
func (p *logPane) add(format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", time.Now().Format(time.Stamp), fmt.Sprintf(format, args...))
	p.lines = append(p.lines, line)
	if over := len(p.lines) - maxLogLines; over > 0 {
		p.lines = append(p.lines[:0], p.lines[over:]...)
	}
	p.text = strings.Join(p.lines, "\n")
	p.sel.SetText(p.text)
}

func (p *logPane) selectedText() string { return p.sel.SelectedText() }

// Layout draws the grip and the pane. It reports whether the grip moved.
func (p *logPane) Layout(gtx layout.Context, th *theme.Theme) (layout.Dimensions, bool) {
	moved := p.updateGrip(gtx)

	grip := image.Pt(gtx.Constraints.Max.X, max(gtx.Dp(6), 4))
	paint.FillShape(gtx.Ops, th.Bg2, clip.Rect{Max: grip}.Op())
	area := clip.Rect{Max: grip}.Push(gtx.Ops)
	pointer.CursorRowResize.Add(gtx.Ops)
	p.grip.Add(gtx.Ops)
	area.Pop()

	h := gtx.Dp(p.height)
	size := image.Pt(gtx.Constraints.Max.X, h)
	off := op.Offset(image.Pt(0, grip.Y)).Push(gtx.Ops)
	paint.FillShape(gtx.Ops, th.Bg2, clip.Rect{Max: size}.Op())
	gtx.Constraints = layout.Exact(size)
	layout.Inset{Left: 16, Right: 16, Top: 6, Bottom: 6}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return p.list.Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
			lbl := material.Body2(th.Theme, p.text)
			lbl.State = &p.sel
			lbl.WrapPolicy = text.WrapGraphemes
			lbl.Color = th.Palette.Fg
			lbl.Color.A = 0xff
			lbl.SelectionColor = th.Palette.ContrastBg
			lbl.SelectionColor.A = 0x88
			return lbl.Layout(gtx)
		})
	})
	off.Pop()

	return layout.Dimensions{Size: image.Pt(size.X, grip.Y+h)}, moved
}

func (p *logPane) updateGrip(gtx layout.Context) bool {
	moved := false
	for {
		ev, ok := p.grip.Update(gtx.Metric, gtx.Source, gesture.Vertical)
		if !ok {
			return moved
		}
		switch ev.Kind {
		case pointer.Press:
			p.dragging, p.lastY = true, ev.Position.Y
		case pointer.Drag:
			if !p.dragging {
				continue
			}
			dy := ev.Position.Y - p.lastY
			p.lastY = ev.Position.Y
			p.height = min(max(p.height-unit.Dp(dy/gtx.Metric.PxPerDp), 60), 360)
			moved = true
		case pointer.Release, pointer.Cancel:
			p.dragging = false
		}
	}
}
