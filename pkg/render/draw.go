package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
)

const labelSize = 10.0

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error
)

// newFace returns a fresh face; faces are not safe for concurrent use.
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

var (
	background = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	outline    = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	container  = color.NRGBA{R: 0xe8, G: 0xee, B: 0xf4, A: 0xff}
	widget     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	ink        = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
)

func drawBoxes(root *box, hints Hints) (image.Image, error) {
	size := root.rect.Size()
	w, h := max(size.X, 1), max(size.Y, 1)
	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	face, err := newFace(labelSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	drawBox(dc, root, image.Point{})
	return dc.Image(), nil
}

func drawBox(dc *gg.Context, b *box, origin image.Point) {
	r := b.rect.Add(origin)
	if r.Empty() {
		return
	}
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())

	fill := widget
	if len(b.children) > 0 || b.node.ChildCount() > 0 {
		fill = container
	}
	dc.SetColor(fill)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetLineWidth(1)
	dc.SetColor(outline)
	dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	dc.Stroke()

	if label := labelOf(b.node); label != "" && h >= labelSize {
		dc.SetColor(ink)
		dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.35)
	}
	for _, c := range b.children {
		drawBox(dc, c, r.Min)
	}
}

func labelOf(n *document.Node) string {
	if text := n.AndroidAttr("text"); text != "" {
		return text
	}
	if n.ChildCount() > 0 {
		return ""
	}
	return n.ShortName()
}

// Graphics draws canvas feedback onto a gg context. Layout coordinates
// are mapped with Offset and Scale.
type Graphics struct {
	dc      *gg.Context
	palette gfx.Palette
	style   gfx.Style
	Offset  image.Point
	Scale   float64
}

var _ gfx.Graphics = (*Graphics)(nil)

// NewGraphics wraps dc. Text is drawn with the bundled Go font.
func NewGraphics(dc *gg.Context, palette gfx.Palette) *Graphics {
	if face, err := newFace(labelSize); err == nil {
		dc.SetFontFace(face)
	}
	return &Graphics{dc: dc, palette: palette, Scale: 1}
}

// Overlay returns a context holding img, ready to paint feedback onto.
func Overlay(img image.Image) *gg.Context {
	return gg.NewContextForImage(img)
}

func (g *Graphics) UseStyle(s gfx.Style) { g.style = s }

func (g *Graphics) point(p image.Point) (float64, float64) {
	q := p.Add(g.Offset)
	return float64(q.X) * g.Scale, float64(q.Y) * g.Scale
}

func (g *Graphics) rect(r image.Rectangle) (x, y, w, h float64) {
	x, y = g.point(r.Min)
	return x, y, float64(r.Dx()) * g.Scale, float64(r.Dy()) * g.Scale
}

func (g *Graphics) DrawRect(r image.Rectangle) {
	x, y, w, h := g.rect(r)
	g.dc.SetColor(g.palette.Stroke[g.style])
	g.dc.SetLineWidth(1)
	g.dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	g.dc.Stroke()
}

func (g *Graphics) FillRect(r image.Rectangle) {
	x, y, w, h := g.rect(r)
	g.dc.SetColor(g.palette.Fill[g.style])
	g.dc.DrawRectangle(x, y, w, h)
	g.dc.Fill()
}

func (g *Graphics) DrawLine(a, b image.Point) {
	x1, y1 := g.point(a)
	x2, y2 := g.point(b)
	g.dc.SetColor(g.palette.Stroke[g.style])
	g.dc.SetLineWidth(2)
	g.dc.DrawLine(x1, y1, x2, y2)
	g.dc.Stroke()
}

func (g *Graphics) DrawString(s string, at image.Point) {
	x, y := g.point(at)
	g.dc.SetColor(g.palette.Stroke[g.style])
	g.dc.DrawString(s, x, y)
}
