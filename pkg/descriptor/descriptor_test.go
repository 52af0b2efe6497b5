package descriptor

import (
	"image"
	"testing"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	b := c.Describe("Button")
	if b == nil || b.Container || b.DefaultWidth != WrapContent {
		t.Fatalf("Button = %+v", b)
	}
	if got := b.PreferredSize(); got != image.Pt(80, 40) {
		t.Fatalf("preferred = %v", got)
	}
	if d := c.Describe("android.widget.LinearLayout"); d == nil || !d.Container {
		t.Fatalf("qualified lookup = %+v", d)
	}
	if d := c.Describe("NoSuchWidget"); d != nil {
		t.Fatalf("unknown type described: %+v", d)
	}
}

func TestMerge(t *testing.T) {
	extra, err := Parse([]byte(`
elements:
  - name: Slider
    width: match_parent
    height: wrap_content
    preferred: [120, 20]
  - name: Button
    container: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := Builtin()
	c.Merge(extra)
	if c.Describe("Slider") == nil {
		t.Fatalf("Slider missing after merge")
	}
	if !c.Describe("Button").Container {
		t.Fatalf("Button not replaced")
	}
}

func TestParseRejectsNameless(t *testing.T) {
	if _, err := Parse([]byte("elements:\n  - container: true\n")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIsContainer(t *testing.T) {
	d := document.MustParse(`(FrameLayout (Button) (LinearLayout))`)
	c := Builtin()
	root := d.Root()
	if !IsContainer(c, root) {
		t.Fatalf("root with children not a container")
	}
	if IsContainer(c, root.Child(0)) {
		t.Fatalf("Button is a container")
	}
	if !IsContainer(c, root.Child(1)) {
		t.Fatalf("empty LinearLayout is not a container")
	}
}
