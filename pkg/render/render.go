// Package render turns a document into the view tree and image a canvas
// displays.
package render

import (
	"context"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// Hints is the screen size the layout is rendered for.
type Hints struct {
	Width  int
	Height int
}

// Result of one render pass. Roots carry bounds relative to their parent
// and the document node each view was inflated from.
type Result struct {
	Roots []viewinfo.RenderedView
	Image image.Image
	Size  image.Point
}

// Service renders documents. Render may be called repeatedly; a failed
// call leaves it usable for the next one.
type Service interface {
	Render(ctx context.Context, doc *document.Document, hints Hints) (*Result, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, doc *document.Document, hints Hints) (*Result, error)

func (f ServiceFunc) Render(ctx context.Context, doc *document.Document, hints Hints) (*Result, error) {
	return f(ctx, doc, hints)
}
