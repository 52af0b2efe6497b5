package render

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

const (
	attrVisibility = "visibility"
	attrLayoutX    = "layout_x"
	attrLayoutY    = "layout_y"
)

// arrangement is how a container places its children.
type arrangement int

const (
	overlay arrangement = iota
	stackHorizontal
	stackVertical
	absolute
)

// BoxRenderer is a Service that lays out elements as boxes:
//
//   - explicit sizes ("48px", "48dp", "48") are used as is
//   - match_parent fills the space the parent offers
//   - wrap_content takes the descriptor's preferred size for leaves and
//     the extent of the children for containers
//   - LinearLayout stacks along android:orientation, AbsoluteLayout
//     places children at layout_x/layout_y, other containers overlay
//     their children at the origin
//   - visibility="gone" collapses an element to zero size
type BoxRenderer struct {
	Lookup descriptor.Lookup
	// SkipImage disables drawing; only the view tree is produced.
	SkipImage bool
}

// NewBoxRenderer returns a renderer using lookup for preferred sizes.
func NewBoxRenderer(lookup descriptor.Lookup) *BoxRenderer {
	return &BoxRenderer{Lookup: lookup}
}

type box struct {
	node     *document.Node
	rect     image.Rectangle // relative to the parent
	children []*box
}

// Render lays out doc. An empty document renders to no roots.
func (r *BoxRenderer) Render(ctx context.Context, doc *document.Document, hints Hints) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hints.Width <= 0 || hints.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", hints.Width, hints.Height)
	}
	res := &Result{}
	if doc.IsEmpty() {
		return res, nil
	}

	root := r.measure(doc.Root(), image.Pt(hints.Width, hints.Height))
	res.Roots = []viewinfo.RenderedView{root.view()}
	res.Size = root.rect.Size()

	if !r.SkipImage {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := drawBoxes(root, hints)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		res.Image = img
	}
	return res, nil
}

func (b *box) view() viewinfo.RenderedView {
	v := viewinfo.RenderedView{
		ClassName: b.node.Type(),
		Bounds:    b.rect,
		Cookie:    b.node,
	}
	for _, c := range b.children {
		v.Children = append(v.Children, c.view())
	}
	return v
}

// measure sizes n within avail and arranges its children.
func (r *BoxRenderer) measure(n *document.Node, avail image.Point) *box {
	b := &box{node: n}
	if n.AndroidAttr(attrVisibility) == "gone" {
		return b
	}

	w, wrapW := dimension(n.AndroidAttr(descriptor.AttrWidth), avail.X)
	h, wrapH := dimension(n.AndroidAttr(descriptor.AttrHeight), avail.Y)
	inner := image.Pt(w, h)
	if wrapW {
		inner.X = avail.X
	}
	if wrapH {
		inner.Y = avail.Y
	}

	var content image.Point
	if n.ChildCount() > 0 {
		content = r.arrange(b, inner)
	} else {
		content = r.preferred(n)
	}
	if wrapW {
		w = min(content.X, avail.X)
	}
	if wrapH {
		h = min(content.Y, avail.Y)
	}
	b.rect = image.Rect(0, 0, max(w, 0), max(h, 0))
	return b
}

func (r *BoxRenderer) preferred(n *document.Node) image.Point {
	if r.Lookup != nil {
		if d := r.Lookup.Describe(n.Type()); d != nil {
			return d.PreferredSize()
		}
	}
	return image.Pt(16, 16)
}

// arrange measures and places the children of b and returns their extent.
func (r *BoxRenderer) arrange(b *box, inner image.Point) image.Point {
	var extent image.Point
	var offset int
	how := arrangementOf(b.node)
	for _, c := range b.node.Children() {
		avail := inner
		switch how {
		case stackVertical:
			avail.Y = max(inner.Y-offset, 0)
		case stackHorizontal:
			avail.X = max(inner.X-offset, 0)
		}
		cb := r.measure(c, avail)
		size := cb.rect.Size()
		var at image.Point
		switch how {
		case stackVertical:
			at = image.Pt(0, offset)
			offset += size.Y
		case stackHorizontal:
			at = image.Pt(offset, 0)
			offset += size.X
		case absolute:
			at = image.Pt(pixels(c.AndroidAttr(attrLayoutX)), pixels(c.AndroidAttr(attrLayoutY)))
		}
		cb.rect = cb.rect.Add(at)
		extent.X = max(extent.X, cb.rect.Max.X)
		extent.Y = max(extent.Y, cb.rect.Max.Y)
		b.children = append(b.children, cb)
	}
	return extent
}

func arrangementOf(n *document.Node) arrangement {
	switch n.ShortName() {
	case "LinearLayout", "RadioGroup":
		if n.AndroidAttr(descriptor.AttrOrient) == descriptor.Vertical {
			return stackVertical
		}
		return stackHorizontal
	case "TableLayout", "ScrollView":
		return stackVertical
	case "TableRow":
		return stackHorizontal
	case "AbsoluteLayout":
		return absolute
	}
	return overlay
}

// dimension resolves a size attribute against the available space. wrap
// reports that the size depends on the content.
func dimension(value string, avail int) (size int, wrap bool) {
	switch value {
	case descriptor.MatchParent, descriptor.FillParent:
		return avail, false
	case "", descriptor.WrapContent:
		return 0, true
	}
	if v, ok := parsePixels(value); ok {
		return v, false
	}
	return 0, true
}

func pixels(value string) int {
	v, _ := parsePixels(value)
	return v
}

func parsePixels(value string) (int, bool) {
	s := strings.TrimSpace(value)
	for _, unit := range []string{"px", "dip", "dp", "sp"} {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSuffix(s, unit)
			break
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
