package viewinfo

import (
	"image"
	"testing"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// fixture: root 100x100, Outer at 10,10 holding Middle holding Inner,
// an empty LinearLayout and a zero-size Button.
const layout = `
(FrameLayout
  (FrameLayout (@ android:id "@+id/outer")
    (FrameLayout (@ android:id "@+id/middle")
      (Button (@ android:id "@+id/inner"))))
  (LinearLayout (@ android:id "@+id/empty"))
  (Button (@ android:id "@+id/gone")))
`

func byID(d *document.Document, id string) *document.Node {
	var found *document.Node
	d.Walk(func(n *document.Node) bool {
		if n.AndroidAttr("id") == "@+id/"+id {
			found = n
			return false
		}
		return true
	})
	return found
}

var rects = map[string]image.Rectangle{
	"outer":  image.Rect(10, 10, 90, 90),
	"middle": image.Rect(20, 20, 80, 80),
	"inner":  image.Rect(30, 30, 70, 70),
	"empty":  image.Rect(5, 95, 5, 95),
	"gone":   image.Rect(0, 0, 0, 0),
}

// boundsIn returns the fixture's absolute bounds for nodes of d.
func boundsIn(d *document.Document) func(n *document.Node) image.Rectangle {
	return func(n *document.Node) image.Rectangle {
		if n == d.Root() {
			return image.Rect(0, 0, 100, 100)
		}
		id := n.AndroidAttr("id")
		return rects[id[len("@+id/"):]]
	}
}

func fixture(t *testing.T, opts BuildOptions) (*document.Document, *Tree) {
	t.Helper()
	d := document.MustParse(layout)
	v := FromBounds(d.Root(), boundsIn(d))
	if opts.Lookup == nil {
		opts.Lookup = descriptor.Builtin()
	}
	return d, Build([]RenderedView{v}, d, opts)
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil, document.New(), BuildOptions{})
	if !tree.IsEmpty() || tree.Root() != nil {
		t.Fatalf("expected empty tree")
	}
	if tree.FindDeepest(image.Pt(1, 1)) != nil {
		t.Fatalf("hit in empty tree")
	}
}

func TestBuildFlags(t *testing.T) {
	d, tree := fixture(t, BuildOptions{})
	if !tree.Root().IsRoot() {
		t.Fatalf("root flag missing")
	}
	empty := tree.ByDocument(byID(d, "empty"))
	if !empty.IsInvisible() || empty.IsHidden() || empty.IsExploded() {
		t.Fatalf("empty layout flags: invisible=%v hidden=%v", empty.IsInvisible(), empty.IsHidden())
	}
	gone := tree.ByDocument(byID(d, "gone"))
	if !gone.IsHidden() || gone.IsInvisible() {
		t.Fatalf("zero-size button should be hidden")
	}
	inner := tree.ByDocument(byID(d, "inner"))
	if inner.Bounds() != image.Rect(30, 30, 70, 70) {
		t.Fatalf("absolute bounds = %v", inner.Bounds())
	}
}

func TestBuildExplode(t *testing.T) {
	d, tree := fixture(t, BuildOptions{ExplodeInvisible: true, Padding: 8})
	empty := tree.ByDocument(byID(d, "empty"))
	if !empty.IsExploded() || empty.Bounds() != image.Rect(5, 95, 13, 103) {
		t.Fatalf("exploded bounds = %v", empty.Bounds())
	}
	if got := tree.FindDeepest(image.Pt(6, 96)); got != empty {
		t.Fatalf("hit = %v, want exploded layout", got)
	}

	d = document.MustParse(layout)
	gone := byID(d, "gone")
	v := Build([]RenderedView{FromBounds(d.Root(), boundsIn(d))}, d, BuildOptions{
		Explode: map[*document.Node]bool{gone: true},
		Padding: 8,
		Lookup:  descriptor.Builtin(),
	}).ByDocument(gone)
	if v == nil {
		t.Fatalf("no view for the zero-size button")
	}
	if v.IsHidden() || !v.IsExploded() || v.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Fatalf("explode override ignored: hidden=%v exploded=%v bounds=%v", v.IsHidden(), v.IsExploded(), v.Bounds())
	}
}

func TestMergeRoot(t *testing.T) {
	d := document.MustParse(`(merge (Button) (TextView))`)
	kids := d.Root().Children()
	roots := []RenderedView{
		{ClassName: "Button", Bounds: image.Rect(0, 0, 50, 20), Cookie: kids[0]},
		{ClassName: "TextView", Bounds: image.Rect(0, 20, 50, 40), Cookie: kids[1]},
	}
	tree := Build(roots, d, BuildOptions{})
	root := tree.Root()
	if root.DocNode() != d.Root() || !root.Bounds().Empty() {
		t.Fatalf("synthesized root = %v", root)
	}
	if got := tree.FindDeepest(image.Pt(10, 30)); got == nil || got.DocNode() != kids[1] {
		t.Fatalf("hit through merge root = %v", got)
	}
	if tree.FindDeepest(image.Pt(200, 200)) != nil {
		t.Fatalf("hit outside everything")
	}
}

func TestFindStack(t *testing.T) {
	d, tree := fixture(t, BuildOptions{})
	stack := tree.FindStack(image.Pt(50, 50))
	want := []string{"", "outer", "middle", "inner"}
	if len(stack) != len(want) {
		t.Fatalf("stack = %v", stack)
	}
	for i, v := range stack[1:] {
		if v.DocNode() != byID(d, want[i+1]) {
			t.Fatalf("stack[%d] = %v", i+1, v)
		}
	}
	if tree.FindDeepest(image.Pt(50, 50)) != stack[len(stack)-1] {
		t.Fatalf("deepest is not the top of the stack")
	}
}

func TestFindWithin(t *testing.T) {
	d, tree := fixture(t, BuildOptions{})
	got := tree.FindWithin(image.Rect(25, 25, 75, 75))
	if len(got) != 1 || got[0].DocNode() != byID(d, "inner") {
		t.Fatalf("within = %v", got)
	}
	got = tree.FindWithin(image.Rect(0, 0, 100, 100))
	if len(got) != 1 || got[0].DocNode() != byID(d, "outer") {
		t.Fatalf("within whole root = %v", got)
	}
}

func TestFindMatch(t *testing.T) {
	d, oldTree := fixture(t, BuildOptions{})
	inner := oldTree.ByDocument(byID(d, "inner"))

	_, newTree := fixture(t, BuildOptions{})
	if m := newTree.FindMatch(inner); m == nil || m.DocNode().AndroidAttr("id") != "@+id/inner" {
		t.Fatalf("match = %v", m)
	}

	other := document.MustParse(`(FrameLayout (LinearLayout (FrameLayout (Button))))`)
	v := FromBounds(other.Root(), func(*document.Node) image.Rectangle { return image.Rect(0, 0, 10, 10) })
	diverged := Build([]RenderedView{v}, other, BuildOptions{})
	if m := diverged.FindMatch(inner); m != nil {
		t.Fatalf("matched across diverged structure: %v", m)
	}
}
