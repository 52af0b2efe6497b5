// Package gfx is the small drawing surface that overlays and drop feedback
// painters draw on. Coordinates are layout units; each backend applies
// the canvas transform itself.
package gfx

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Style selects stroke and fill colors from the palette.
type Style int

const (
	StyleSelection Style = iota
	StyleHandle
	StyleHover
	StyleMarquee
	StyleDropZone
	StyleDropAccept
	StyleDropPreview
	StyleInsertion
	StyleResizePreview
	StyleInvalid
	StyleLabel
)

var styleNames = [...]string{
	"selection", "handle", "hover", "marquee", "drop-zone", "drop-accept",
	"drop-preview", "insertion", "resize-preview", "invalid", "label",
}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Graphics is implemented by the gio viewer, the PNG renderer and Recorder.
type Graphics interface {
	UseStyle(s Style)
	DrawRect(r image.Rectangle)
	FillRect(r image.Rectangle)
	DrawLine(a, b image.Point)
	DrawString(s string, at image.Point)
}

// Painter paints transient feedback.
type Painter interface {
	Paint(g Graphics)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(g Graphics)

func (f PainterFunc) Paint(g Graphics) { f(g) }

// Stroke and fill colors per style.
type Palette struct {
	Stroke map[Style]color.NRGBA
	Fill   map[Style]color.NRGBA
}

// DefaultPalette returns the editor colors.
func DefaultPalette() Palette {
	return Palette{
		Stroke: map[Style]color.NRGBA{
			StyleSelection:     {R: 0x00, G: 0x78, B: 0xd7, A: 0xff},
			StyleHandle:        {R: 0x00, G: 0x78, B: 0xd7, A: 0xff},
			StyleHover:         {R: 0x80, G: 0x80, B: 0x80, A: 0xa0},
			StyleMarquee:       {R: 0x40, G: 0x40, B: 0x40, A: 0xff},
			StyleDropZone:      {R: 0x3c, G: 0xb0, B: 0x3c, A: 0x80},
			StyleDropAccept:    {R: 0x3c, G: 0xb0, B: 0x3c, A: 0xff},
			StyleDropPreview:   {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
			StyleInsertion:     {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
			StyleResizePreview: {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
			StyleInvalid:       {R: 0xd0, G: 0x20, B: 0x20, A: 0xff},
			StyleLabel:         {R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		},
		Fill: map[Style]color.NRGBA{
			StyleSelection:     {R: 0x00, G: 0x78, B: 0xd7, A: 0x20},
			StyleHandle:        {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			StyleHover:         {R: 0x80, G: 0x80, B: 0x80, A: 0x18},
			StyleMarquee:       {R: 0x40, G: 0x40, B: 0x40, A: 0x20},
			StyleDropZone:      {R: 0x3c, G: 0xb0, B: 0x3c, A: 0x10},
			StyleDropAccept:    {R: 0x3c, G: 0xb0, B: 0x3c, A: 0x30},
			StyleDropPreview:   {R: 0xff, G: 0xa5, B: 0x00, A: 0x30},
			StyleInsertion:     {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
			StyleResizePreview: {R: 0xff, G: 0xa5, B: 0x00, A: 0x20},
			StyleInvalid:       {R: 0xd0, G: 0x20, B: 0x20, A: 0x30},
			StyleLabel:         {R: 0xff, G: 0xff, B: 0xff, A: 0xc0},
		},
	}
}

// Recorder is a Graphics that records calls as text.
type Recorder struct {
	style Style
	Ops   []string
}

func (r *Recorder) UseStyle(s Style) { r.style = s }

func (r *Recorder) DrawRect(rect image.Rectangle) {
	r.Ops = append(r.Ops, fmt.Sprintf("rect %v %v", r.style, rect))
}

func (r *Recorder) FillRect(rect image.Rectangle) {
	r.Ops = append(r.Ops, fmt.Sprintf("fill %v %v", r.style, rect))
}

func (r *Recorder) DrawLine(a, b image.Point) {
	r.Ops = append(r.Ops, fmt.Sprintf("line %v %v-%v", r.style, a, b))
}

func (r *Recorder) DrawString(s string, at image.Point) {
	r.Ops = append(r.Ops, fmt.Sprintf("text %v %q %v", r.style, s, at))
}

// Contains reports whether any recorded op starts with prefix.
func (r *Recorder) Contains(prefix string) bool {
	for _, op := range r.Ops {
		if strings.HasPrefix(op, prefix) {
			return true
		}
	}
	return false
}

// Reset drops the recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
