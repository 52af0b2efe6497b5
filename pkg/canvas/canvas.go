// Package canvas is the interactive core of the layout editor. A Canvas
// shows the latest render of a document, keeps the selection in step with
// it and turns pointer, keyboard and drag-and-drop events into gestures
// and undoable document edits.
package canvas

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/config"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/render"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/selection"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// StatusSink receives status line updates.
type StatusSink interface {
	SetStatus(message, errorMessage string)
}

// TextSelectionProvider exposes text selected outside the canvas, such as
// in an error panel, for Copy to fall back to.
type TextSelectionProvider interface {
	SelectedText() string
}

// Options configure a Canvas. Document and Renderer are required.
type Options struct {
	Document *document.Document
	Renderer render.Service
	Rules    rules.Registry
	Lookup   descriptor.Lookup
	Codec    payload.Codec

	Clipboard payload.Clipboard
	// Drags is shared by all canvases of a host.
	Drags *payload.DragRegistry

	Status        StatusSink
	TextSelection TextSelectionProvider

	Settings  config.Canvas
	Namespace config.Namespace
	Hints     render.Hints

	// Logf receives diagnostics; defaults to log.Printf.
	Logf func(format string, args ...any)
	// OnAction handles action ids the canvas does not implement itself,
	// such as opening a properties sheet.
	OnAction func(id string, nodes []*document.Node)
	// Wake is called when work is posted to the loop from any goroutine.
	Wake func()
}

// Canvas is one editor view of a document.
type Canvas struct {
	opts Options
	doc  *document.Document
	loop *Loop

	tree      *viewinfo.Tree
	image     image.Image
	stale     bool
	renderErr error

	renderPending bool
	rendering     bool
	renderSeq     uint64
	afterRender   func()
	ctx           context.Context
	cancel        context.CancelFunc

	selection *selection.Model
	gestures  *GestureManager
	transform *geom.Transform
	hover     *viewinfo.Node

	// explode holds the empty containers padded while a drag is active.
	explode map[*document.Node]bool

	// drag is the platform drag this canvas started, if any.
	drag *payload.Drag
}

// New creates a canvas and requests its first render.
func New(opts Options) *Canvas {
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}
	if opts.Codec == nil {
		opts.Codec = payload.SexpCodec{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &payload.MemoryClipboard{}
	}
	if opts.Drags == nil {
		opts.Drags = payload.NewDragRegistry()
	}
	if opts.Lookup == nil {
		opts.Lookup = descriptor.Builtin()
	}
	if opts.Rules == nil {
		opts.Rules = rules.NewMap(opts.Lookup)
	}
	defaults := config.Default()
	if opts.Settings == (config.Canvas{}) {
		opts.Settings = defaults.Canvas
	}
	if opts.Namespace == (config.Namespace{}) {
		opts.Namespace = defaults.Namespace
	}
	if opts.Hints == (render.Hints{}) {
		opts.Hints = render.Hints{Width: defaults.Render.Width, Height: defaults.Render.Height}
	}

	c := &Canvas{
		opts:      opts,
		doc:       opts.Document,
		loop:      NewLoop(opts.Wake),
		tree:      viewinfo.Build(nil, opts.Document, viewinfo.BuildOptions{}),
		transform: geom.NewTransform(opts.Settings.Margin),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	if opts.Settings.Zoom > 0 {
		c.transform.Scale = opts.Settings.Zoom
	}
	c.selection = selection.NewModel(c.tree)
	c.gestures = newGestureManager(c)
	c.doc.OnChange(func(label string) {
		c.RequestRender()
	})
	c.RequestRender()
	return c
}

// ConfigOptions returns the options for editing doc under cfg. The
// element catalog named by cfg is merged over the built-in one.
func ConfigOptions(cfg *config.Config, doc *document.Document) (Options, error) {
	lookup := descriptor.Builtin()
	if cfg.Catalog != "" {
		c, err := descriptor.LoadFile(cfg.Catalog)
		if err != nil {
			return Options{}, fmt.Errorf("load catalog: %w", err)
		}
		lookup = c
	}
	return Options{
		Document:  doc,
		Renderer:  render.NewBoxRenderer(lookup),
		Lookup:    lookup,
		Settings:  cfg.Canvas,
		Namespace: cfg.Namespace,
		Hints:     render.Hints{Width: cfg.Render.Width, Height: cfg.Render.Height},
	}, nil
}

// Close stops any render in flight.
func (c *Canvas) Close() { c.cancel() }

func (c *Canvas) Document() *document.Document  { return c.doc }
func (c *Canvas) Loop() *Loop                    { return c.loop }
func (c *Canvas) Tree() *viewinfo.Tree           { return c.tree }
func (c *Canvas) Image() image.Image             { return c.image }
func (c *Canvas) Selection() *selection.Model    { return c.selection }
func (c *Canvas) Gestures() *GestureManager      { return c.gestures }
func (c *Canvas) Transform() *geom.Transform     { return c.transform }
func (c *Canvas) Settings() config.Canvas        { return c.opts.Settings }
func (c *Canvas) Clipboard() payload.Clipboard   { return c.opts.Clipboard }
func (c *Canvas) Drags() *payload.DragRegistry   { return c.opts.Drags }
func (c *Canvas) Hover() *viewinfo.Node          { return c.hover }
func (c *Canvas) RenderError() error             { return c.renderErr }

// IsStale reports whether the tree lags behind the document, either
// because a render is pending or because the last one failed. Drags
// cannot start on a stale tree.
func (c *Canvas) IsStale() bool { return c.stale }

// SetHints changes the screen size and re-renders.
func (c *Canvas) SetHints(h render.Hints) {
	c.opts.Hints = h
	c.RequestRender()
}

// SetShowEmptyLayouts toggles padding of zero-size containers.
func (c *Canvas) SetShowEmptyLayouts(show bool) {
	if c.opts.Settings.ShowEmptyLayouts == show {
		return
	}
	c.opts.Settings.ShowEmptyLayouts = show
	c.RequestRender()
}

func (c *Canvas) logf(format string, args ...any) { c.opts.Logf(format, args...) }

func (c *Canvas) ruleFor(n *document.Node) rules.Rule { return c.opts.Rules.RuleFor(n) }

// boundsOf returns the rendered bounds of n in the current tree.
func (c *Canvas) boundsOf(n *document.Node) image.Rectangle {
	if v := c.tree.ByDocument(n); v != nil {
		return v.Bounds()
	}
	return image.Rectangle{}
}

// RequestRender marks the tree stale and queues a render. Requests made
// before the queued render runs collapse into it.
func (c *Canvas) RequestRender() {
	c.stale = true
	if c.renderPending {
		return
	}
	c.renderPending = true
	c.loop.Post(c.render)
}

// RenderNow renders synchronously and ingests the result.
func (c *Canvas) RenderNow() error {
	c.renderPending = false
	c.renderSeq++
	res, err := c.opts.Renderer.Render(c.ctx, c.doc, c.opts.Hints)
	c.ingest(c.renderSeq, res, err, nil)
	return err
}

func (c *Canvas) render() {
	if !c.renderPending {
		return
	}
	if !c.opts.Settings.AsyncRender {
		c.RenderNow()
		return
	}
	c.renderPending = false
	c.renderSeq++
	seq := c.renderSeq
	snap, origin := c.doc.Snapshot()
	hints := c.opts.Hints
	c.rendering = true
	go func() {
		res, err := c.opts.Renderer.Render(c.ctx, snap, hints)
		c.loop.Post(func() { c.ingest(seq, res, err, origin) })
	}()
}

// ingest installs a render result. Results of superseded renders are
// dropped. A failed render keeps the previous tree and leaves the
// canvas stale.
func (c *Canvas) ingest(seq uint64, res *render.Result, err error, origin map[*document.Node]*document.Node) {
	if seq != c.renderSeq {
		return
	}
	c.rendering = false
	after := c.afterRender
	c.afterRender = nil
	defer func() {
		if after != nil {
			after()
		}
	}()

	if err != nil {
		if c.ctx.Err() == nil {
			c.logf("canvas: render failed: %v", err)
		}
		c.renderErr = err
		c.stale = true
		c.gestures.refresh()
		return
	}
	if c.renderPending {
		// the document changed again while this render ran
		c.stale = true
	} else {
		c.stale = false
	}
	c.renderErr = nil
	c.image = res.Image

	roots := res.Roots
	if origin != nil {
		roots = remap(roots, origin)
	}
	c.tree = viewinfo.Build(roots, c.doc, viewinfo.BuildOptions{
		Explode:          c.explode,
		ExplodeInvisible: c.opts.Settings.ShowEmptyLayouts,
		Padding:          c.opts.Settings.ExplodePadding,
		Lookup:           c.opts.Lookup,
	})
	c.hover = nil
	c.selection.Sync(c.tree)
	c.gestures.refresh()
}

// explodeEmpty pads the empty containers of the current tree so a drag
// can reach them, until clearExplode.
func (c *Canvas) explodeEmpty() {
	if c.opts.Settings.ShowEmptyLayouts || c.opts.Settings.ExplodePadding <= 0 {
		return
	}
	set := make(map[*document.Node]bool)
	c.tree.Walk(func(v *viewinfo.Node) bool {
		if v.IsInvisible() && !v.IsExploded() && v.DocNode() != nil {
			set[v.DocNode()] = true
		}
		return true
	})
	if len(set) == 0 {
		return
	}
	c.explode = set
	c.RequestRender()
}

func (c *Canvas) clearExplode() {
	if c.explode == nil {
		return
	}
	c.explode = nil
	c.RequestRender()
}

// remap points the cookies of a snapshot render back at live nodes.
func remap(views []viewinfo.RenderedView, origin map[*document.Node]*document.Node) []viewinfo.RenderedView {
	out := make([]viewinfo.RenderedView, len(views))
	for i, v := range views {
		v.Cookie = origin[v.Cookie]
		v.Children = remap(v.Children, origin)
		out[i] = v
	}
	return out
}

// selectNodes selects nodes created or moved by an edit. The current tree
// predates the edit, so the attempt waits for the render already queued;
// if the nodes still cannot be resolved they are left unselected.
func (c *Canvas) selectNodes(nodes []*document.Node) {
	if len(nodes) == 0 {
		return
	}
	if !c.stale && c.selection.SelectNodes(nodes) {
		return
	}
	c.loop.Post(func() {
		if c.rendering {
			c.afterRender = func() { c.trySelect(nodes) }
			return
		}
		c.trySelect(nodes)
	})
}

func (c *Canvas) trySelect(nodes []*document.Node) {
	if c.stale || !c.selection.SelectNodes(nodes) {
		c.logf("canvas: could not select %d new nodes", len(nodes))
	}
}
