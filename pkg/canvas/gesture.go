package canvas

import (
	"image"

	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
)

// State is the lifecycle of a gesture.
type State int

const (
	Idle State = iota
	Active
	Completed
	Canceled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

// Status is the text shown in the host's status line.
type Status struct {
	Message string
	Error   string
}

// Overlay paints gesture feedback above the canvas. The manager creates
// overlays on the first paint of a gesture and disposes them when the
// gesture finishes.
type Overlay interface {
	Paint(g gfx.Graphics)
	Dispose()
}

// Gesture is an interactive operation spanning several pointer events.
// Positions are in layout coordinates. Gestures are driven only by the
// GestureManager: Begin once, Update on every pointer move, End once
// with canceled set when the gesture was aborted.
type Gesture interface {
	Begin(pos image.Point, mods key.Modifiers)
	// Update computes feedback only; it must not edit the document.
	Update(pos image.Point, mods key.Modifiers)
	End(pos image.Point, canceled bool)

	// KeyPressed and KeyReleased report whether the gesture consumed the
	// key event.
	KeyPressed(ev key.Event) bool
	KeyReleased(ev key.Event) bool

	CreateOverlays() []Overlay
	Cursor() pointer.Cursor
	Status() Status
	State() State

	base() *GestureBase
}

// GestureBase holds the bookkeeping shared by all gestures and the
// default behavior of the optional methods.
type GestureBase struct {
	state  State
	origin image.Point
	last   image.Point
	mods   key.Modifiers
}

func (g *GestureBase) base() *GestureBase { return g }

// State returns the lifecycle state.
func (g *GestureBase) State() State { return g.state }

// Origin is where the gesture began.
func (g *GestureBase) Origin() image.Point { return g.origin }

// Last is the most recent pointer position seen by the gesture.
func (g *GestureBase) Last() image.Point { return g.last }

// Modifiers returns the modifiers of the most recent event.
func (g *GestureBase) Modifiers() key.Modifiers { return g.mods }

func (g *GestureBase) KeyPressed(key.Event) bool  { return false }
func (g *GestureBase) KeyReleased(key.Event) bool { return false }
func (g *GestureBase) CreateOverlays() []Overlay  { return nil }
func (g *GestureBase) Cursor() pointer.Cursor     { return pointer.CursorDefault }
func (g *GestureBase) Status() Status             { return Status{} }

// overlay adapts a paint function to Overlay.
type overlay struct {
	paint    func(g gfx.Graphics)
	disposed bool
}

func newOverlay(paint func(g gfx.Graphics)) *overlay { return &overlay{paint: paint} }

func (o *overlay) Paint(g gfx.Graphics) {
	if !o.disposed {
		o.paint(g)
	}
}

func (o *overlay) Dispose() { o.disposed = true }
