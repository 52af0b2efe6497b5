package ui

import (
	"image"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

// palette lists the element types that can be dragged onto the canvas.
type palette struct {
	names   []string
	buttons []widget.Clickable
	list    widget.List

	// active is the in-process drag started from the palette.
	active *payload.Drag
	over   bool
	tag    struct{}
}

func newPalette(names []string) *palette {
	p := &palette{names: names, buttons: make([]widget.Clickable, len(names))}
	p.list.Axis = layout.Vertical
	return p
}

// Layout draws the entries and starts a drag when one is pressed.
func (p *palette) Layout(gtx layout.Context, th *theme.Theme, c *canvas.Canvas, codec payload.Codec) layout.Dimensions {
	return material.List(th.Theme, &p.list).Layout(gtx, len(p.names), func(gtx layout.Context, i int) layout.Dimensions {
		btn := &p.buttons[i]
		if btn.Pressed() && p.active == nil {
			p.start(c, codec, p.names[i])
		}
		return layout.Inset{Top: unit.Dp(2), Bottom: unit.Dp(2)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			b := material.Button(th.Theme, btn, p.names[i])
			b.Background = th.Bg2
			b.Color = th.Palette.Fg
			b.Inset = layout.UniformInset(unit.Dp(6))
			return b.Layout(gtx)
		})
	})
}

func (p *palette) start(c *canvas.Canvas, codec payload.Codec, name string) {
	elements := []payload.Element{{Type: name}}
	data, _ := codec.ToPayload(elements)
	p.active = &payload.Drag{Elements: elements, Data: data}
	p.over = false
	c.Drags().Start(p.active)
}

// Track watches the whole window for the drag and relays it to the
// canvas whose viewport covers area. It must be laid out last, on top of
// everything else, because it lets pointer events pass through.
func (p *palette) Track(gtx layout.Context, c *canvas.Canvas, area image.Rectangle) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: &p.tag,
			Kinds:  pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || p.active == nil {
			continue
		}
		p.relay(c, pe, area)
	}

	defer pointer.PassOp{}.Push(gtx.Ops).Pop()
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, &p.tag)
}

func (p *palette) relay(c *canvas.Canvas, pe pointer.Event, area image.Rectangle) {
	inside := image.Pt(int(pe.Position.X), int(pe.Position.Y)).In(area)
	ev := canvas.DropEvent{
		Pos:       pe.Position.Sub(f32.Pt(float32(area.Min.X), float32(area.Min.Y))),
		Mods:      pe.Modifiers,
		Data:      p.active.Data,
		Operation: canvas.DropCopy,
	}
	switch pe.Kind {
	case pointer.Drag:
		switch {
		case inside && !p.over:
			p.over = c.DragEnter(ev) != canvas.DropNone
		case inside:
			c.DragOver(ev)
		case p.over:
			c.DragLeave(ev)
			p.over = false
		}
	case pointer.Release:
		if inside {
			c.Drop(ev)
		}
		p.finish(c)
	case pointer.Cancel:
		p.finish(c)
	}
}

func (p *palette) finish(c *canvas.Canvas) {
	c.DragEnd()
	c.Drags().Finish(p.active)
	p.active = nil
	p.over = false
}
