package selection

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// Item is one selected view. Items belong to the tree they were created
// against and are recreated by Model.Sync when a new tree arrives.
type Item struct {
	view  *viewinfo.Node
	proxy *rules.NodeProxy
}

func newItem(v *viewinfo.Node) *Item { return &Item{view: v} }

// View returns the selected view.
func (it *Item) View() *viewinfo.Node { return it.view }

// Node returns the document node behind the view.
func (it *Item) Node() *document.Node { return it.view.DocNode() }

// Proxy returns the rule proxy of the node, creating it on first use.
func (it *Item) Proxy() *rules.NodeProxy {
	if it.proxy == nil {
		it.proxy = rules.NewProxy(it.view)
	}
	return it.proxy
}

// Rect returns the selection rectangle in layout units.
func (it *Item) Rect() image.Rectangle { return it.view.Bounds() }

// Handles returns the resize handles around the selection rectangle.
func (it *Item) Handles() []geom.Handle { return geom.Handles(it.Rect()) }

// IsRoot reports whether the item is the tree root.
func (it *Item) IsRoot() bool { return it.view.IsRoot() }

func (it *Item) String() string { return it.view.String() }
