package script

import (
	"fmt"
	"image"
	"strings"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// Runner replays scripts against a canvas. After every step the canvas
// loop is drained, so renders and deferred selections settle the way
// they would between frames.
type Runner struct {
	Canvas *canvas.Canvas
	// Logf receives one line per step when set.
	Logf func(format string, args ...any)
}

// Run executes every step of s and stops at the first failing one.
func (r *Runner) Run(s *Script) error {
	for _, st := range s.Steps {
		if err := r.Step(st); err != nil {
			return fmt.Errorf("%s: %w", st.Pos, err)
		}
	}
	return nil
}

// Step executes one step.
func (r *Runner) Step(st *Step) error {
	c := r.Canvas
	defer c.Loop().Drain()
	switch {
	case st.Pointer != nil:
		r.pointer(st.Pointer)
	case st.Key != nil:
		r.key(st.Key)
	case st.Drop != nil:
		op := r.drop(st.Drop)
		r.logf("script: %s -> %v", st.Drop.Kind, op)
	case st.Call != nil:
		return r.call(st.Call)
	case st.Command != nil:
		return r.command(st.Command)
	case st.Expect != nil:
		return r.expect(st.Expect)
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

func (r *Runner) device(x, y int) f32.Point {
	return r.Canvas.Transform().ToDevice(image.Pt(x, y))
}

func (r *Runner) pointer(p *PointerStep) {
	m := r.Canvas.Gestures()
	ev := pointer.Event{
		Position:  r.device(p.X, p.Y),
		Buttons:   pointer.ButtonPrimary,
		Modifiers: modifiers(p.Mods),
	}
	switch p.Kind {
	case "press":
		ev.Kind = pointer.Press
	case "drag":
		ev.Kind = pointer.Drag
	case "release":
		ev.Kind = pointer.Release
	case "move":
		ev.Kind = pointer.Move
		ev.Buttons = 0
	case "scroll":
		ev.Kind = pointer.Scroll
		ev.Buttons = 0
		ev.Position = r.device(0, 0)
		ev.Scroll = f32.Pt(float32(p.X), float32(p.Y))
	case "click":
		ev.Kind = pointer.Press
		m.HandlePointer(ev)
		ev.Kind = pointer.Release
	}
	m.HandlePointer(ev)
}

func (r *Runner) key(k *KeyStep) {
	m := r.Canvas.Gestures()
	ev := key.Event{Name: keyName(k.Name), Modifiers: modifiers(k.Mods)}
	if k.Kind != "keyup" {
		ev.State = key.Press
		m.HandleKey(ev)
	}
	if k.Kind != "keydown" {
		ev.State = key.Release
		m.HandleKey(ev)
	}
}

func (r *Runner) drop(d *DropStep) canvas.DropOperation {
	c := r.Canvas
	ev := canvas.DropEvent{Pos: r.device(d.X, d.Y), Mods: modifiers(d.Mods)}
	if d.Data != nil {
		ev.Data = []byte(*d.Data)
	}
	switch d.Op {
	case "copy":
		ev.Operation = canvas.DropCopy
	case "move":
		ev.Operation = canvas.DropMove
	}
	switch d.Kind {
	case "enter":
		return c.DragEnter(ev)
	case "over":
		if d.Op != "" {
			return c.DragOperationChanged(ev)
		}
		return c.DragOver(ev)
	default:
		return c.Drop(ev)
	}
}

func (r *Runner) call(s *CallStep) error {
	c := r.Canvas
	switch s.Name {
	case "rename":
		return c.PerformRename(s.Arg)
	case "action":
		return c.PerformAction(s.Arg)
	case "clip":
		return c.Clipboard().Write([]byte(s.Arg), "")
	}
	return fmt.Errorf("unknown command %q", s.Name)
}

func (r *Runner) command(s *CommandStep) error {
	c := r.Canvas
	sel := c.Selection()
	switch s.Name {
	case "copy":
		c.Copy()
	case "cut":
		c.Cut()
	case "paste":
		c.Paste()
	case "delete":
		c.Delete("Delete")
	case "duplicate":
		c.Duplicate()
	case "undo":
		c.Undo()
	case "redo":
		c.Redo()
	case "selectall":
		sel.SelectAll()
	case "selectnone":
		sel.SelectNone()
	case "selectparent":
		sel.SelectParent()
	case "leave":
		c.DragLeave(canvas.DropEvent{})
	case "dragend":
		c.DragEnd()
	case "cancel":
		c.Gestures().Cancel()
	default:
		return fmt.Errorf("unknown command %q", s.Name)
	}
	return nil
}

func (r *Runner) expect(e *ExpectStep) error {
	c := r.Canvas
	doc := c.Document()
	if e.Count != nil {
		want := *e.Count
		var got int
		switch e.What {
		case "selected":
			got = c.Selection().Len()
		case "nodes":
			got = doc.Count()
		default:
			return fmt.Errorf("expect %s takes a string", e.What)
		}
		if got != want {
			return fmt.Errorf("expected %d %s, got %d", want, e.What, got)
		}
		return nil
	}

	want := *e.Text
	var got string
	switch e.What {
	case "undo":
		got = doc.History().UndoLabel()
	case "status":
		got = c.Gestures().Status().Message
	case "root":
		if root := doc.Root(); root != nil {
			got = root.Type()
		}
	default:
		return fmt.Errorf("expect %s takes a number", e.What)
	}
	if got != want {
		return fmt.Errorf("expected %s %q, got %q", e.What, want, got)
	}
	return nil
}

func modifiers(names []string) key.Modifiers {
	var mods key.Modifiers
	for _, n := range names {
		switch n {
		case "shift":
			mods |= key.ModShift
		case "ctrl":
			mods |= key.ModCtrl
		case "alt":
			mods |= key.ModAlt
		case "cmd":
			mods |= key.ModCommand
		case "shortcut":
			mods |= key.ModShortcut
		}
	}
	return mods
}

var keyNames = map[string]key.Name{
	"escape":    key.NameEscape,
	"esc":       key.NameEscape,
	"delete":    key.NameDeleteForward,
	"backspace": key.NameDeleteBackward,
	"enter":     key.NameEnter,
	"return":    key.NameReturn,
	"up":        key.NameUpArrow,
	"down":      key.NameDownArrow,
	"left":      key.NameLeftArrow,
	"right":     key.NameRightArrow,
	"ctrl":      key.NameCtrl,
	"shift":     key.NameShift,
	"alt":       key.NameAlt,
	"cmd":       key.NameCommand,
}

func keyName(s string) key.Name {
	if n, ok := keyNames[strings.ToLower(s)]; ok {
		return n
	}
	return key.Name(strings.ToUpper(s))
}

// Report summarizes a canvas after a replay.
type Report struct {
	Document  string   `json:"document"`
	Root      string   `json:"root,omitempty"`
	Nodes     int      `json:"nodes"`
	Selection []string `json:"selection"`
	History   []string `json:"history"`
	Status    string   `json:"status,omitempty"`
	Stale     bool     `json:"stale"`
}

// Summarize reports the document, selection and undo history of c.
func Summarize(c *canvas.Canvas) Report {
	doc := c.Document()
	rep := Report{
		Document:  doc.String(),
		Nodes:     doc.Count(),
		Selection: []string{},
		History:   doc.History().Labels(),
		Status:    c.Gestures().Status().Message,
		Stale:     c.IsStale(),
	}
	if root := doc.Root(); root != nil {
		rep.Root = root.Type()
	}
	for _, n := range c.Selection().Nodes() {
		rep.Selection = append(rep.Selection, describe(n))
	}
	return rep
}

func describe(n *document.Node) string {
	if id := n.AndroidAttr("id"); id != "" {
		return n.ShortName() + " " + id
	}
	return n.ShortName()
}
