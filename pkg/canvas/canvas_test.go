package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/config"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/render"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
)

const ns = `(@ xmlns:android "http://schemas.android.com/apk/res/android")`

// column is a vertical LinearLayout filling the 320x480 screen with a
// Button at (0,0,80,40) and a TextView at (0,40,100,60).
const column = `
(LinearLayout ` + ns + `
  (@ android:orientation "vertical")
  (@ android:layout_width "match_parent")
  (@ android:layout_height "match_parent")
  (Button (@ android:id "@+id/a") (@ android:text "Hi"))
  (TextView (@ android:id "@+id/b")))
`

type statusLog struct{ calls []Status }

func (s *statusLog) SetStatus(message, errorMessage string) {
	s.calls = append(s.calls, Status{Message: message, Error: errorMessage})
}

func (s *statusLog) count(message string) int {
	n := 0
	for _, c := range s.calls {
		if c.Message == message {
			n++
		}
	}
	return n
}

// recorder wraps a registry and records rule callbacks.
type recorder struct {
	inner    rules.Registry
	removing []string
	enters   int
	leaves   int
}

func (r *recorder) RuleFor(n *document.Node) rules.Rule {
	return &recordingRule{Rule: r.inner.RuleFor(n), rec: r}
}

type recordingRule struct {
	rules.Rule
	rec *recorder
}

func (r *recordingRule) OnDropEnter(target *rules.NodeProxy, elements []payload.Element) *rules.DropFeedback {
	r.rec.enters++
	return r.Rule.OnDropEnter(target, elements)
}

func (r *recordingRule) OnDropLeave(target *rules.NodeProxy, elements []payload.Element, fb *rules.DropFeedback) {
	r.rec.leaves++
	r.Rule.OnDropLeave(target, elements, fb)
}

func (r *recordingRule) OnRemovingChildren(tx *document.Tx, parent *rules.NodeProxy, children []*rules.NodeProxy) {
	var names []string
	for _, c := range children {
		names = append(names, c.Name())
	}
	r.rec.removing = append(r.rec.removing, parent.Name()+":"+strings.Join(names, ","))
	r.Rule.OnRemovingChildren(tx, parent, children)
}

// flaky fails renders while fail is set.
type flaky struct {
	inner render.Service
	fail  bool
}

func (f *flaky) Render(ctx context.Context, doc *document.Document, hints render.Hints) (*render.Result, error) {
	if f.fail {
		return nil, errors.New("layout inflation failed")
	}
	return f.inner.Render(ctx, doc, hints)
}

type fixture struct {
	c        *Canvas
	doc      *document.Document
	status   *statusLog
	rec      *recorder
	renderer *flaky
	clip     *payload.MemoryClipboard
}

func newFixture(t *testing.T, src string, opts ...func(*Options)) *fixture {
	t.Helper()
	doc := document.New()
	if src != "" {
		doc = document.MustParse(src)
	}
	lookup := descriptor.Builtin()
	f := &fixture{
		doc:      doc,
		status:   &statusLog{},
		rec:      &recorder{inner: rules.NewMap(lookup)},
		renderer: &flaky{inner: &render.BoxRenderer{Lookup: lookup, SkipImage: true}},
		clip:     &payload.MemoryClipboard{},
	}
	o := Options{
		Document:  doc,
		Renderer:  f.renderer,
		Rules:     f.rec,
		Lookup:    lookup,
		Clipboard: f.clip,
		Status:    f.status,
		Settings: config.Canvas{
			DragThreshold:  4,
			HandleRadius:   3,
			ExplodePadding: 8,
			DedupeStatus:   true,
			Zoom:           1,
		},
		Logf: t.Logf,
	}
	for _, fn := range opts {
		fn(&o)
	}
	f.c = New(o)
	f.c.Loop().Drain()
	require.False(t, f.c.IsStale())
	return f
}

func (f *fixture) node(t *testing.T, id string) *document.Node {
	t.Helper()
	var found *document.Node
	f.doc.Walk(func(n *document.Node) bool {
		if n.AndroidAttr("id") == "@+id/"+id {
			found = n
			return false
		}
		return true
	})
	require.NotNil(t, found, "no node %s", id)
	return found
}

func (f *fixture) pointer(kind pointer.Kind, x, y float32, mods key.Modifiers) {
	f.c.Gestures().HandlePointer(pointer.Event{
		Kind:      kind,
		Position:  f32.Pt(x, y),
		Buttons:   pointer.ButtonPrimary,
		Modifiers: mods,
	})
}

func (f *fixture) click(x, y float32, mods key.Modifiers) {
	f.pointer(pointer.Press, x, y, mods)
	f.pointer(pointer.Release, x, y, mods)
}

// dragTo presses at from and drags to each point in turn without
// releasing.
func (f *fixture) dragTo(from image.Point, to ...image.Point) {
	f.pointer(pointer.Press, float32(from.X), float32(from.Y), 0)
	for _, p := range to {
		f.pointer(pointer.Drag, float32(p.X), float32(p.Y), 0)
	}
}

func (f *fixture) moveGesture(t *testing.T) *MoveGesture {
	t.Helper()
	g, ok := f.c.Gestures().Active().(*MoveGesture)
	require.True(t, ok, "active gesture is %T", f.c.Gestures().Active())
	return g
}

func elementData(typ string, attrs ...document.Attribute) []byte {
	data, _ := payload.SexpCodec{}.ToPayload([]payload.Element{{Type: typ, Attributes: attrs}})
	return data
}

type probe struct {
	GestureBase
	name string
	log  *[]string
}

func (p *probe) Begin(image.Point, key.Modifiers)  { *p.log = append(*p.log, p.name+" begin") }
func (p *probe) Update(image.Point, key.Modifiers) {}
func (p *probe) End(_ image.Point, canceled bool) {
	*p.log = append(*p.log, fmt.Sprintf("%s end canceled=%v", p.name, canceled))
}
func (p *probe) CreateOverlays() []Overlay { return []Overlay{probeOverlay{p}} }

type probeOverlay struct{ p *probe }

func (o probeOverlay) Paint(gfx.Graphics) {}
func (o probeOverlay) Dispose()           { *o.p.log = append(*o.p.log, o.p.name+" dispose") }

func TestStartingGestureCancelsActive(t *testing.T) {
	f := newFixture(t, column)
	m := f.c.Gestures()
	var log []string
	g1 := &probe{name: "g1", log: &log}
	g2 := &probe{name: "g2", log: &log}
	g3 := &probe{name: "g3", log: &log}

	m.Start(g1, image.Pt(1, 1), 0)
	m.Paint(&gfx.Recorder{})
	m.Paint(&gfx.Recorder{})
	m.Start(g2, image.Pt(2, 2), 0)
	require.Equal(t, []string{"g1 begin", "g1 end canceled=true", "g1 dispose", "g2 begin"}, log)
	require.Equal(t, Canceled, g1.State())
	require.Equal(t, Active, g2.State())

	m.Paint(&gfx.Recorder{})
	m.Start(g3, image.Pt(3, 3), 0)
	m.Cancel()
	require.Nil(t, m.Active())
	require.Equal(t, []string{
		"g1 begin", "g1 end canceled=true", "g1 dispose", "g2 begin",
		"g2 end canceled=true", "g2 dispose", "g3 begin", "g3 end canceled=true",
	}, log)
}

func TestSelfDropWalksToParent(t *testing.T) {
	f := newFixture(t, `
(LinearLayout `+ns+`
  (@ android:orientation "vertical")
  (@ android:layout_width "match_parent")
  (@ android:layout_height "match_parent")
  (FrameLayout (@ android:id "@+id/p") (@ android:layout_width "100px") (@ android:layout_height "50px")
    (View (@ android:id "@+id/c") (@ android:layout_width "10px") (@ android:layout_height "10px")))
  (Button (@ android:id "@+id/b")))`)
	p := f.node(t, "p")

	f.click(50, 25, 0)
	require.Equal(t, []*document.Node{p}, f.c.Selection().Nodes())

	f.dragTo(image.Pt(50, 25), image.Pt(60, 25))
	g := f.moveGesture(t)
	require.Equal(t, f.doc.Root(), g.Target().DocNode())

	for _, pt := range []image.Point{{5, 5}, {50, 40}, {99, 1}} {
		f.pointer(pointer.Drag, float32(pt.X), float32(pt.Y), 0)
		target := g.Target().DocNode()
		require.NotEqual(t, p, target, "dropped into itself at %v", pt)
		require.False(t, p.IsAncestorOf(target), "dropped into a descendant at %v", pt)
		require.Equal(t, f.doc.Root(), target)
	}
}

func TestSimpleMoveTargetsRoot(t *testing.T) {
	f := newFixture(t, `
(AbsoluteLayout `+ns+` (@ android:layout_width "100px") (@ android:layout_height "100px")
  (View (@ android:id "@+id/a") (@ android:layout_x "0px") (@ android:layout_y "0px")
    (@ android:layout_width "10px") (@ android:layout_height "10px"))
  (View (@ android:id "@+id/b") (@ android:layout_x "20px") (@ android:layout_y "0px")
    (@ android:layout_width "10px") (@ android:layout_height "10px")))`)
	a := f.node(t, "a")

	f.click(5, 5, 0)
	f.dragTo(image.Pt(5, 5), image.Pt(9, 5), image.Pt(25, 5))
	g := f.moveGesture(t)
	require.Equal(t, f.doc.Root(), g.Target().DocNode())
	require.Same(t, f.c.Drags().Current().Source, f.c)

	f.pointer(pointer.Release, 25, 5, 0)
	require.Nil(t, f.c.Gestures().Active())
	require.Equal(t, DropMove, g.Result())
	require.Nil(t, f.c.Drags().Current())
	require.Equal(t, "Move View in AbsoluteLayout", f.doc.History().UndoLabel())
	require.Equal(t, "20px", a.AndroidAttr(rules.AttrLayoutX))
	require.Equal(t, "0px", a.AndroidAttr(rules.AttrLayoutY))

	f.c.Loop().Drain()
	require.Equal(t, image.Rect(20, 0, 30, 10), f.c.Tree().ByDocument(a).Bounds())
	require.Equal(t, []*document.Node{a}, f.c.Selection().Nodes())
}

func TestCutRoundTrip(t *testing.T) {
	f := newFixture(t, column)
	a := f.node(t, "a")
	attrs := a.Attributes()

	f.click(10, 10, 0)
	f.c.Cut()

	data, text, err := f.clip.Read()
	require.NoError(t, err)
	require.Contains(t, text, "<Button")
	elements := payload.SexpCodec{}.FromPayload(data)
	require.Len(t, elements, 1)
	require.Equal(t, "Button", elements[0].Type)
	require.ElementsMatch(t, attrs, elements[0].Attributes)

	require.False(t, a.Exists())
	require.Equal(t, 1, f.doc.Root().ChildCount())
	require.Equal(t, []string{"LinearLayout:Button"}, f.rec.removing)
	require.Equal(t, "Cut Button", f.doc.History().UndoLabel())
}

func TestPasteIntoEmptyDocument(t *testing.T) {
	f := newFixture(t, "")
	data := elementData("Button", document.Attribute{Namespace: document.AndroidURI, Name: "text", Value: "Hi"})
	require.NoError(t, f.clip.Write(data, "Button"))

	f.c.Paste()
	root := f.doc.Root()
	require.NotNil(t, root)
	require.Equal(t, "Button", root.Type())
	require.Equal(t, "Hi", root.AndroidAttr("text"))
	require.True(t, document.HasNamespaceDecl(root, document.AndroidURI))
	require.Equal(t, descriptor.WrapContent, root.AndroidAttr(descriptor.AttrWidth))
	require.Equal(t, descriptor.WrapContent, root.AndroidAttr(descriptor.AttrHeight))
	require.Equal(t, "Paste root Button in document", f.doc.History().UndoLabel())

	f.c.Loop().Drain()
	require.Equal(t, []*document.Node{root}, f.c.Selection().Nodes())
}

func TestPasteUnknownRootLeavesDocumentEmpty(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.clip.Write(elementData("com.example.Gauge"), ""))
	f.c.Paste()
	require.True(t, f.doc.IsEmpty())
	require.False(t, f.doc.History().CanUndo())
}

func TestPasteNextToSelection(t *testing.T) {
	f := newFixture(t, column)
	f.click(10, 10, 0)
	f.c.Copy()
	f.c.Paste()

	kids := f.doc.Root().Children()
	require.Len(t, kids, 3)
	require.Equal(t, "Button", kids[1].Type())
	require.Equal(t, "Paste Button in Button", f.doc.History().UndoLabel())
	f.c.Loop().Drain()
	require.Equal(t, []*document.Node{kids[1]}, f.c.Selection().Nodes())
}

func TestAltClickCycles(t *testing.T) {
	f := newFixture(t, `
(FrameLayout `+ns+` (@ android:layout_width "200px") (@ android:layout_height "200px")
  (FrameLayout (@ android:id "@+id/outer") (@ android:layout_width "100px") (@ android:layout_height "100px")
    (FrameLayout (@ android:id "@+id/middle") (@ android:layout_width "50px") (@ android:layout_height "50px")
      (View (@ android:id "@+id/inner") (@ android:layout_width "20px") (@ android:layout_height "20px")))))`)
	inner, middle, outer := f.node(t, "inner"), f.node(t, "middle"), f.node(t, "outer")
	sel := f.c.Selection()

	f.click(5, 5, key.ModAlt)
	require.Equal(t, []*document.Node{inner}, sel.Nodes())
	f.click(5, 5, key.ModAlt)
	require.Equal(t, []*document.Node{middle}, sel.Nodes())
	f.click(5, 5, key.ModAlt)
	require.Equal(t, []*document.Node{outer}, sel.Nodes())

	f.click(150, 150, 0)
	require.Equal(t, []*document.Node{f.doc.Root()}, sel.Nodes())
	f.click(5, 5, key.ModAlt)
	require.Equal(t, []*document.Node{inner}, sel.Nodes())
}

func TestShiftClickToggles(t *testing.T) {
	f := newFixture(t, column)
	a, b := f.node(t, "a"), f.node(t, "b")
	f.click(10, 10, 0)
	f.click(10, 45, key.ModShift)
	require.Equal(t, []*document.Node{a, b}, f.c.Selection().Nodes())
	f.click(10, 10, key.ModCtrl)
	require.Equal(t, []*document.Node{b}, f.c.Selection().Nodes())
}

func TestZombieRestoredOnDrop(t *testing.T) {
	f := newFixture(t, column)
	data := elementData("CheckBox")

	op := f.c.DragEnter(DropEvent{Pos: f32.Pt(100, 200), Data: data, Operation: DropCopy})
	require.Equal(t, DropCopy, op)
	require.Equal(t, DropCopy, f.c.DragOver(DropEvent{Pos: f32.Pt(100, 210)}))
	g := f.moveGesture(t)
	require.Equal(t, f.doc.Root(), g.Target().DocNode())

	f.c.DragLeave(DropEvent{Pos: f32.Pt(100, 210)})
	require.Nil(t, g.Target())
	require.Same(t, g, f.c.Gestures().Active())
	require.Zero(t, f.rec.leaves)

	require.Equal(t, DropCopy, f.c.Drop(DropEvent{Pos: f32.Pt(100, 210), Data: data}))
	require.Nil(t, f.c.Gestures().Active())
	require.Equal(t, 1, f.rec.leaves)
	require.Equal(t, "Drop CheckBox in LinearLayout", f.doc.History().UndoLabel())

	kids := f.doc.Root().Children()
	require.Len(t, kids, 3)
	created := kids[2]
	require.Equal(t, "CheckBox", created.Type())
	require.Equal(t, descriptor.WrapContent, created.AndroidAttr(descriptor.AttrWidth))

	// the new node is selected after the queued render
	require.Empty(t, f.c.Selection().Nodes())
	f.c.Loop().Drain()
	require.Equal(t, []*document.Node{created}, f.c.Selection().Nodes())
}

func TestReenterRestoresTarget(t *testing.T) {
	f := newFixture(t, column)
	data := elementData("CheckBox")
	f.c.DragEnter(DropEvent{Pos: f32.Pt(100, 200), Data: data})
	g := f.moveGesture(t)
	f.c.DragLeave(DropEvent{})
	require.Equal(t, DropCopy, f.c.DragEnter(DropEvent{Pos: f32.Pt(100, 220), Data: data}))
	require.Same(t, g, f.moveGesture(t))
	require.Equal(t, f.doc.Root(), g.Target().DocNode())

	f.c.DragLeave(DropEvent{})
	f.c.DragEnd()
	require.Nil(t, f.c.Gestures().Active())
	require.Equal(t, 1, f.rec.leaves)
	require.False(t, f.doc.History().CanUndo())
}

func TestEmptyPayloadRejected(t *testing.T) {
	f := newFixture(t, column)
	require.Equal(t, DropNone, f.c.DragEnter(DropEvent{Pos: f32.Pt(10, 10)}))
	require.Equal(t, DropNone, f.c.DragEnter(DropEvent{Pos: f32.Pt(10, 10), Data: []byte("(widgets")}))
	require.Nil(t, f.c.Gestures().Active())
}

func TestRefusedDropEndsGesture(t *testing.T) {
	f := newFixture(t, column)
	before := f.doc.Count()

	op := f.c.Drop(DropEvent{Pos: f32.Pt(1000, 1000), Data: elementData("Button"), Operation: DropCopy})
	require.Equal(t, DropNone, op)
	require.Nil(t, f.c.Gestures().Active())

	// a later press and drag must not commit the refused payload
	f.dragTo(image.Pt(200, 300), image.Pt(200, 310))
	f.pointer(pointer.Release, 200, 310, 0)
	require.Equal(t, before, f.doc.Count())
	require.NotContains(t, f.doc.History().Labels(), "Drop Button in LinearLayout")
}

func TestRefusedDropIsCanceled(t *testing.T) {
	f := newFixture(t, column)
	require.Equal(t, DropNone, f.c.DragEnter(DropEvent{Pos: f32.Pt(1000, 1000), Data: elementData("Button")}))
	g := f.moveGesture(t)

	require.Equal(t, DropNone, f.c.Drop(DropEvent{Pos: f32.Pt(1000, 1000)}))
	require.Nil(t, f.c.Gestures().Active())
	require.Equal(t, Canceled, g.State())
	require.False(t, f.doc.History().CanUndo())
}

func TestEmptyContainerExplodedWhileDragging(t *testing.T) {
	f := newFixture(t, `
(LinearLayout `+ns+`
  (@ android:orientation "vertical")
  (@ android:layout_width "match_parent")
  (@ android:layout_height "match_parent")
  (Button (@ android:id "@+id/a"))
  (FrameLayout (@ android:id "@+id/empty") (@ android:layout_width "match_parent") (@ android:layout_height "wrap_content")))`)
	empty := f.node(t, "empty")
	v := f.c.Tree().ByDocument(empty)
	require.True(t, v.IsInvisible())
	require.False(t, v.IsExploded())

	f.c.DragEnter(DropEvent{Pos: f32.Pt(10, 44), Data: elementData("CheckBox")})
	g := f.moveGesture(t)
	require.Equal(t, f.doc.Root(), g.Target().DocNode())

	f.c.Loop().Drain()
	require.True(t, f.c.Tree().ByDocument(empty).IsExploded())

	f.c.DragOver(DropEvent{Pos: f32.Pt(10, 44)})
	require.Equal(t, empty, g.Target().DocNode())

	require.Equal(t, DropCopy, f.c.Drop(DropEvent{Pos: f32.Pt(10, 44)}))
	require.Equal(t, 1, empty.ChildCount())
	require.Nil(t, f.c.explode)
}

func TestExplodeClearedOnCancel(t *testing.T) {
	f := newFixture(t, `
(LinearLayout `+ns+`
  (@ android:layout_width "match_parent")
  (@ android:layout_height "match_parent")
  (FrameLayout (@ android:id "@+id/empty") (@ android:layout_width "wrap_content") (@ android:layout_height "wrap_content")))`)
	empty := f.node(t, "empty")

	f.c.DragEnter(DropEvent{Pos: f32.Pt(2, 2), Data: elementData("CheckBox")})
	f.c.Loop().Drain()
	require.True(t, f.c.Tree().ByDocument(empty).IsExploded())

	f.c.DragEnd()
	f.c.Loop().Drain()
	require.Nil(t, f.c.Gestures().Active())
	require.False(t, f.c.Tree().ByDocument(empty).IsExploded())
	require.True(t, f.c.Tree().ByDocument(empty).IsInvisible())
}

// captureRule keeps the drag while the pointer stays within 100 units
// of the target.
type captureRule struct {
	rules.ContainerRule
	enters int
}

func (r *captureRule) OnDropEnter(target *rules.NodeProxy, elements []payload.Element) *rules.DropFeedback {
	r.enters++
	return &rules.DropFeedback{CaptureArea: target.Bounds().Inset(-100), Message: "captured"}
}

func (r *captureRule) OnDropMove(target *rules.NodeProxy, elements []payload.Element, fb *rules.DropFeedback, p image.Point) *rules.DropFeedback {
	return fb
}

func TestCapturedTargetKept(t *testing.T) {
	capture := &captureRule{}
	f := newFixture(t, `
(LinearLayout `+ns+`
  (@ android:orientation "vertical")
  (@ android:layout_width "match_parent")
  (@ android:layout_height "match_parent")
  (FrameLayout (@ android:id "@+id/cap") (@ android:layout_width "100px") (@ android:layout_height "50px"))
  (Button (@ android:id "@+id/b")))`, func(o *Options) {
		m := rules.NewMap(o.Lookup)
		m.Register("FrameLayout", capture)
		o.Rules = m
	})
	target := f.node(t, "cap")
	data := elementData("View")

	f.c.DragEnter(DropEvent{Pos: f32.Pt(50, 25), Data: data})
	g := f.moveGesture(t)
	require.Equal(t, target, g.Target().DocNode())

	f.c.DragOver(DropEvent{Pos: f32.Pt(60, 30)})
	require.Equal(t, target, g.Target().DocNode())
	require.Equal(t, 1, capture.enters)

	// a different view under the pointer is resolved again even inside
	// the capture area
	f.c.DragOver(DropEvent{Pos: f32.Pt(40, 70)})
	require.Equal(t, f.doc.Root(), g.Target().DocNode())
	require.Equal(t, 1, capture.enters)

	f.c.DragOver(DropEvent{Pos: f32.Pt(50, 25)})
	require.Equal(t, target, g.Target().DocNode())
	require.Equal(t, 2, capture.enters)
}

func TestDroppedSelectionGivesUpAfterOneRetry(t *testing.T) {
	f := newFixture(t, column)
	f.renderer.fail = true

	require.Equal(t, DropCopy, f.c.Drop(DropEvent{Pos: f32.Pt(100, 200), Data: elementData("CheckBox")}))
	require.Equal(t, 3, f.doc.Root().ChildCount())

	f.c.Loop().Drain()
	require.Zero(t, f.c.Loop().Pending())
	require.True(t, f.c.IsStale())
	require.Error(t, f.c.RenderError())
	require.Empty(t, f.c.Selection().Nodes())
}

func TestStaleTreeRefusesDrag(t *testing.T) {
	f := newFixture(t, column)
	a := f.node(t, "a")
	f.renderer.fail = true
	require.NoError(t, f.doc.Edit("Set text", func(tx *document.Tx) error {
		return tx.SetAndroidAttr(a, "text", "Bye")
	}))
	f.c.Loop().Drain()
	require.True(t, f.c.IsStale())

	// selection still works on the stale tree
	f.click(10, 10, 0)
	require.Equal(t, []*document.Node{a}, f.c.Selection().Nodes())

	f.dragTo(image.Pt(10, 10), image.Pt(30, 30))
	require.Nil(t, f.c.Gestures().Active())
	f.pointer(pointer.Release, 30, 30, 0)
	require.Equal(t, DropNone, f.c.DragEnter(DropEvent{Pos: f32.Pt(100, 200), Data: elementData("View")}))
	require.Nil(t, f.c.StartDrag())

	var rec gfx.Recorder
	f.c.Paint(&rec)
	require.True(t, rec.Contains("fill invalid"))

	f.renderer.fail = false
	f.c.RequestRender()
	f.c.Loop().Drain()
	require.False(t, f.c.IsStale())
	f.dragTo(image.Pt(10, 10), image.Pt(30, 30))
	f.moveGesture(t)
}

func TestStatusDeduped(t *testing.T) {
	f := newFixture(t, column)
	data := elementData("View")
	f.c.DragEnter(DropEvent{Pos: f32.Pt(100, 200), Data: data})
	f.c.DragOver(DropEvent{Pos: f32.Pt(100, 210)})
	f.c.DragOver(DropEvent{Pos: f32.Pt(100, 220)})

	const msg = "Insert in LinearLayout at position 2"
	require.Equal(t, msg, f.c.Gestures().Status().Message)
	require.Equal(t, 1, f.status.count(msg))

	f.c.DragOver(DropEvent{Pos: f32.Pt(100, 5)})
	require.Equal(t, 1, f.status.count("Insert in LinearLayout at position 0"))
}

func TestMarqueeSelectsAndShiftToggles(t *testing.T) {
	f := newFixture(t, column)
	a, b := f.node(t, "a"), f.node(t, "b")
	sel := f.c.Selection()

	f.dragTo(image.Pt(200, 300), image.Pt(0, 0))
	_, ok := f.c.Gestures().Active().(*MarqueeGesture)
	require.True(t, ok)
	require.Equal(t, pointer.CursorCrosshair, f.c.Gestures().Cursor())
	f.pointer(pointer.Release, 0, 0, 0)
	require.ElementsMatch(t, []*document.Node{a, b}, sel.Nodes())

	f.pointer(pointer.Press, 200, 300, key.ModShift)
	f.pointer(pointer.Drag, 0, 30, key.ModShift)
	require.Equal(t, []*document.Node{a}, sel.Nodes())

	require.True(t, f.c.Gestures().HandleKey(key.Event{Name: key.NameEscape, State: key.Press}))
	require.Nil(t, f.c.Gestures().Active())
	require.ElementsMatch(t, []*document.Node{a, b}, sel.Nodes())
}

func TestResizeWritesSize(t *testing.T) {
	f := newFixture(t, `
(AbsoluteLayout `+ns+` (@ android:layout_width "200px") (@ android:layout_height "200px")
  (Button (@ android:id "@+id/a") (@ android:layout_x "10px") (@ android:layout_y "10px")))`, func(o *Options) {
		o.Rules = rules.NewMap(o.Lookup)
	})
	a := f.node(t, "a")

	f.click(50, 30, 0)
	f.pointer(pointer.Press, 89, 49, 0)
	g, ok := f.c.Gestures().Active().(*ResizeGesture)
	require.True(t, ok)
	f.pointer(pointer.Drag, 109, 59, 0)
	require.Equal(t, image.Rect(10, 10, 110, 60), g.Bounds())
	require.Equal(t, "Resize Button to 100x50", f.c.Gestures().Status().Message)
	f.pointer(pointer.Release, 109, 59, 0)

	require.Equal(t, "100px", a.AndroidAttr(descriptor.AttrWidth))
	require.Equal(t, "50px", a.AndroidAttr(descriptor.AttrHeight))
	require.Equal(t, "10px", a.AndroidAttr(rules.AttrLayoutX))
	require.Equal(t, "Resize Button", f.doc.History().UndoLabel())
}

func TestEscapeCancelsMove(t *testing.T) {
	f := newFixture(t, column)
	f.click(10, 10, 0)
	f.dragTo(image.Pt(10, 10), image.Pt(20, 200))
	f.moveGesture(t)

	require.True(t, f.c.Gestures().HandleKey(key.Event{Name: key.NameEscape, State: key.Press}))
	require.Nil(t, f.c.Gestures().Active())
	require.Nil(t, f.c.Drags().Current())
	f.pointer(pointer.Release, 20, 200, 0)
	require.False(t, f.doc.History().CanUndo())
}

func TestCrossCanvasMove(t *testing.T) {
	drags := payload.NewDragRegistry()
	shared := func(o *Options) { o.Drags = drags }
	src := newFixture(t, column, shared)
	dst := newFixture(t, `
(LinearLayout `+ns+` (@ android:orientation "vertical")
  (@ android:layout_width "match_parent") (@ android:layout_height "match_parent"))`, shared)
	a := src.node(t, "a")

	src.click(10, 10, 0)
	d := src.c.StartDrag()
	require.NotNil(t, d)

	require.Equal(t, DropMove, dst.c.DragEnter(DropEvent{Pos: f32.Pt(10, 10), Operation: DropMove}))
	require.Equal(t, DropMove, dst.c.Drop(DropEvent{Pos: f32.Pt(10, 10), Operation: DropMove}))
	require.True(t, d.Moved)
	require.Equal(t, "Move Button in LinearLayout", dst.doc.History().UndoLabel())

	src.c.FinishDrag(d, DropMove)
	require.False(t, a.Exists())
	require.Equal(t, "Move Button", src.doc.History().UndoLabel())
	require.Nil(t, drags.Current())

	pasted := dst.doc.Root().Child(0)
	require.Equal(t, "Hi", pasted.AndroidAttr("text"))
	require.NotSame(t, a, pasted)
}

func TestCopyFallsBackToSelectedText(t *testing.T) {
	f := newFixture(t, column, func(o *Options) {
		o.TextSelection = textSelection("NullPointerException in Button")
	})
	require.True(t, f.c.Copy())
	data, text, err := f.clip.Read()
	require.NoError(t, err)
	require.Nil(t, data)
	require.Equal(t, "NullPointerException in Button", text)
}

type textSelection string

func (s textSelection) SelectedText() string { return string(s) }

func TestDeleteNeverRemovesRoot(t *testing.T) {
	f := newFixture(t, column)
	f.c.Selection().SelectAll()
	f.c.Delete("Delete")
	require.Zero(t, f.doc.Root().ChildCount())
	require.Equal(t, "Delete Widgets", f.doc.History().UndoLabel())
	require.Equal(t, []string{"LinearLayout:Button,TextView"}, f.rec.removing)

	_, ok := f.c.Undo()
	require.True(t, ok)
	f.c.Loop().Drain()
	f.c.Selection().SelectSingle(nil)
	require.True(t, f.c.Selection().Selections()[0].IsRoot())
	f.c.Delete("Delete")
	require.NotNil(t, f.doc.Root())
	require.Equal(t, 2, f.doc.Root().ChildCount())
	require.False(t, f.doc.History().CanUndo())
}

func TestShortcutsUndoRedo(t *testing.T) {
	f := newFixture(t, column)
	f.click(10, 10, 0)
	press := func(name key.Name, mods key.Modifiers) {
		require.True(t, f.c.Gestures().HandleKey(key.Event{Name: name, Modifiers: mods, State: key.Press}))
	}
	press(key.NameDeleteForward, 0)
	require.Equal(t, 1, f.doc.Root().ChildCount())
	press("Z", key.ModShortcut)
	require.Equal(t, 2, f.doc.Root().ChildCount())
	press("Y", key.ModShortcut)
	require.Equal(t, 1, f.doc.Root().ChildCount())
}

func TestMoveSelectionReorders(t *testing.T) {
	f := newFixture(t, column)
	a := f.node(t, "a")
	f.click(10, 10, 0)
	require.NoError(t, f.c.MoveSelection(1))
	require.Equal(t, 1, a.Index())
	require.Equal(t, "Move Button in LinearLayout", f.doc.History().UndoLabel())
	f.c.Loop().Drain()
	require.Equal(t, []*document.Node{a}, f.c.Selection().Nodes())
}

func TestRenameAndDefaultAction(t *testing.T) {
	var gotID string
	var gotNodes []*document.Node
	f := newFixture(t, column, func(o *Options) {
		o.OnAction = func(id string, nodes []*document.Node) { gotID, gotNodes = id, nodes }
	})
	a := f.node(t, "a")
	f.click(10, 10, 0)

	require.NoError(t, f.c.PerformRename("ok_button"))
	require.Equal(t, "@+id/ok_button", a.AndroidAttr("id"))
	require.Equal(t, "Rename Button", f.doc.History().UndoLabel())
	require.Error(t, f.c.PerformRename("  "))

	require.NoError(t, f.c.PerformDefaultAction())
	require.Equal(t, rules.ActionProperties, gotID)
	require.Equal(t, []*document.Node{a}, gotNodes)
}

func TestContextMenuOrientation(t *testing.T) {
	f := newFixture(t, column)
	f.click(200, 300, 0)
	var found bool
	for _, a := range f.c.ContextMenu(f.c.Tree().Root()) {
		if a.ID == "orientation" {
			found = true
		}
	}
	require.True(t, found)
	require.NoError(t, f.c.PerformAction("orientation"))
	require.Equal(t, descriptor.Horizontal, f.doc.Root().AndroidAttr(descriptor.AttrOrient))
}

func TestAsyncRender(t *testing.T) {
	doc := document.MustParse(column)
	c := New(Options{
		Document: doc,
		Renderer: render.NewBoxRenderer(descriptor.Builtin()),
		Settings: config.Canvas{DragThreshold: 4, HandleRadius: 3, Zoom: 1, AsyncRender: true},
		Logf:     t.Logf,
	})
	defer c.Close()

	deadline := time.Now().Add(5 * time.Second)
	for c.IsStale() && time.Now().Before(deadline) {
		c.Loop().RunPending()
		time.Sleep(time.Millisecond)
	}
	require.False(t, c.IsStale())
	require.Same(t, doc.Root(), c.Tree().Root().DocNode())
	require.NotNil(t, c.Image())
	for _, v := range c.Tree().All() {
		require.True(t, v.DocNode().Exists())
	}
}

func TestPaintShowsSelectionAndHandles(t *testing.T) {
	f := newFixture(t, column)
	f.click(10, 10, 0)
	var rec gfx.Recorder
	f.c.Paint(&rec)
	require.True(t, rec.Contains("rect selection (0,0)-(80,40)"))
	require.True(t, rec.Contains("fill handle"))
	require.True(t, rec.Contains(`text label "Button"`))
}
