package rules

import (
	"image"
	"testing"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// column lays the root's children out vertically, 20 units each.
func column(t *testing.T, src string) (*document.Document, *viewinfo.Tree) {
	t.Helper()
	d := document.MustParse(src)
	v := viewinfo.FromBounds(d.Root(), func(n *document.Node) image.Rectangle {
		if n.Parent() == nil {
			return image.Rect(0, 0, 100, 20*n.ChildCount())
		}
		i := n.Index()
		return image.Rect(0, 20*i, 100, 20*i+20)
	})
	return d, viewinfo.Build([]viewinfo.RenderedView{v}, d, viewinfo.BuildOptions{})
}

func TestMapResolution(t *testing.T) {
	d := document.MustParse(`(FrameLayout (LinearLayout) (AbsoluteLayout) (Button) (CustomThing (Button)))`)
	m := NewMap(descriptor.Builtin())
	kids := d.Root().Children()
	if _, ok := m.RuleFor(d.Root()).(*ContainerRule); !ok {
		t.Fatalf("FrameLayout rule = %T", m.RuleFor(d.Root()))
	}
	if _, ok := m.RuleFor(kids[0]).(*LinearRule); !ok {
		t.Fatalf("LinearLayout rule = %T", m.RuleFor(kids[0]))
	}
	if _, ok := m.RuleFor(kids[1]).(*AbsoluteRule); !ok {
		t.Fatalf("AbsoluteLayout rule = %T", m.RuleFor(kids[1]))
	}
	if _, ok := m.RuleFor(kids[2]).(BaseRule); !ok {
		t.Fatalf("Button rule = %T", m.RuleFor(kids[2]))
	}
	if _, ok := m.RuleFor(kids[3]).(*ContainerRule); !ok {
		t.Fatalf("unknown type with children should be a container, got %T", m.RuleFor(kids[3]))
	}
}

func TestLinearInsertionIndex(t *testing.T) {
	d, tree := column(t, `(LinearLayout (@ android:orientation "vertical") (Button) (Button) (Button))`)
	r := &LinearRule{}
	target := NewProxy(tree.Root())

	tests := []struct {
		y    int
		want int
	}{
		{2, 0},
		{12, 1},
		{35, 2},
		{55, -1},
	}
	for _, tt := range tests {
		fb := r.OnDropMove(target, nil, nil, image.Pt(50, tt.y))
		if got := fb.Data.(*linearDrop).index; got != tt.want {
			t.Fatalf("y=%d: index %d, want %d", tt.y, got, tt.want)
		}
	}

	// the dragged node does not count as an insertion neighbor
	first := payload.FromNode(d.Root().Child(0), nil)
	fb := r.OnDropMove(target, []payload.Element{first}, nil, image.Pt(50, 12))
	if got := fb.Data.(*linearDrop).index; got != 1 {
		t.Fatalf("with dragged sibling: index %d, want 1", got)
	}

	rec := &gfx.Recorder{}
	fb.Painter.Paint(rec)
	if !rec.Contains("line insertion") {
		t.Fatalf("no insertion line painted: %v", rec.Ops)
	}
}

func TestLinearMoveWithin(t *testing.T) {
	d, tree := column(t, `(LinearLayout (@ android:orientation "vertical") (Button (@ android:id "a")) (Button (@ android:id "b")) (Button (@ android:id "c")))`)
	r := &LinearRule{}
	target := NewProxy(tree.Root())
	a := d.Root().Child(0)
	els := []payload.Element{payload.FromNode(a, nil)}

	// drop a between b and c
	fb := r.OnDropMove(target, els, &DropFeedback{SameCanvas: true}, image.Pt(50, 45))
	err := d.Edit("Move", func(tx *document.Tx) error {
		return r.OnDropped(tx, target, els, fb, image.Pt(50, 45), MoveWithin)
	})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	var ids []string
	for _, c := range d.Root().Children() {
		ids = append(ids, c.AndroidAttr("id"))
	}
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Fatalf("order = %v", ids)
	}
}

func TestContainerCopyAndCreate(t *testing.T) {
	d, tree := column(t, `(FrameLayout (Button (@ android:text "x")))`)
	r := &ContainerRule{Lookup: descriptor.Builtin()}
	target := NewProxy(tree.Root())
	src := d.Root().Child(0)

	err := d.Edit("Copy", func(tx *document.Tx) error {
		els := []payload.Element{payload.FromNode(src, nil)}
		fb := r.OnDropEnter(target, els)
		fb.IsCopy = true
		return r.OnDropped(tx, target, els, fb, image.Pt(1, 1), MoveWithin)
	})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if d.Root().ChildCount() != 2 || d.Root().Child(0) != src {
		t.Fatalf("copy moved the source")
	}
	if d.Root().Child(1).AndroidAttr("layout_width") != "" {
		t.Fatalf("copy gained default sizes")
	}

	err = d.Edit("Create", func(tx *document.Tx) error {
		return r.OnDropped(tx, target, []payload.Element{{Type: "TextView"}}, nil, image.Pt(1, 1), Create)
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := d.Root().Child(2).AndroidAttr("layout_width"); got != descriptor.WrapContent {
		t.Fatalf("created element width = %q", got)
	}
}

func TestAbsoluteDropPositions(t *testing.T) {
	d, tree := column(t, `(AbsoluteLayout (Button))`)
	r := &AbsoluteRule{}
	target := NewProxy(tree.Root())
	els := []payload.Element{{Type: "View"}}
	fb := r.OnDropMove(target, els, nil, image.Pt(30, 7))
	err := d.Edit("Drop", func(tx *document.Tx) error {
		return r.OnDropped(tx, target, els, fb, image.Pt(30, 7), Create)
	})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	v := d.Root().Child(1)
	if v.AndroidAttr(AttrLayoutX) != "30px" || v.AndroidAttr(AttrLayoutY) != "7px" {
		t.Fatalf("position = %v", v.Attributes())
	}
}

func TestBaseRulePasteAfter(t *testing.T) {
	d, tree := column(t, `(FrameLayout (Button (@ android:id "a")) (Button (@ android:id "b")))`)
	target := NewProxy(tree.ByDocument(d.Root().Child(0)))
	var pasted []*document.Node
	err := d.Edit("Paste", func(tx *document.Tx) error {
		var err error
		pasted, err = BaseRule{}.OnPaste(tx, target, []payload.Element{{Type: "View"}})
		return err
	})
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if len(pasted) != 1 || pasted[0].Index() != 1 {
		t.Fatalf("pasted at %d", pasted[0].Index())
	}
	if BaseRule.OnDropEnter(BaseRule{}, target, nil) != nil {
		t.Fatalf("leaf accepted a drop")
	}
}

func TestResizeWritesPixelSizes(t *testing.T) {
	d, tree := column(t, `(AbsoluteLayout (Button))`)
	r := &AbsoluteRule{}
	parent := NewProxy(tree.Root())
	child := NewProxy(tree.ByDocument(d.Root().Child(0)))

	fb := r.OnResizeBegin(child, parent, geom.NorthWest)
	bounds := geom.NorthWest.Resize(child.Bounds(), image.Pt(10, 5))
	fb = r.OnResizeUpdate(fb, child, parent, bounds)
	if fb.Message == "" {
		t.Fatalf("no resize message")
	}
	err := d.Edit("Resize", func(tx *document.Tx) error {
		return r.OnResizeEnd(tx, fb, child, parent, bounds)
	})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	n := d.Root().Child(0)
	got := [4]string{n.AndroidAttr("layout_width"), n.AndroidAttr("layout_height"), n.AndroidAttr(AttrLayoutX), n.AndroidAttr(AttrLayoutY)}
	want := [4]string{"90px", "15px", "10px", "5px"}
	if got != want {
		t.Fatalf("attrs = %v, want %v", got, want)
	}
}

func TestContextMenu(t *testing.T) {
	d, tree := column(t, `(LinearLayout (Button))`)
	r := &LinearRule{}
	actions := r.ContextMenu(NewProxy(tree.Root()))
	var toggle *Action
	for i := range actions {
		if actions[i].ID == "orientation" {
			toggle = &actions[i]
		}
		if actions[i].ID == ActionSelectParent {
			t.Fatalf("root offers Select Parent")
		}
	}
	if toggle == nil {
		t.Fatalf("no orientation action in %v", actions)
	}
	if err := d.Edit(toggle.Title, toggle.Edit); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if d.Root().AndroidAttr("orientation") != "vertical" {
		t.Fatalf("orientation = %q", d.Root().AndroidAttr("orientation"))
	}
}
