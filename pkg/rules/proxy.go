package rules

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// NodeProxy gives rules read access to a document node together with the
// bounds it rendered at.
type NodeProxy struct {
	node   *document.Node
	view   *viewinfo.Node
	bounds image.Rectangle
}

// NewProxy wraps a rendered view.
func NewProxy(v *viewinfo.Node) *NodeProxy {
	return &NodeProxy{node: v.DocNode(), view: v, bounds: v.Bounds()}
}

// NewDetachedProxy wraps a node that has no rendered view.
func NewDetachedProxy(n *document.Node, bounds image.Rectangle) *NodeProxy {
	return &NodeProxy{node: n, bounds: bounds}
}

func (p *NodeProxy) Node() *document.Node { return p.node }

// View returns the rendered view, nil for detached proxies.
func (p *NodeProxy) View() *viewinfo.Node { return p.view }

func (p *NodeProxy) Bounds() image.Rectangle { return p.bounds }

func (p *NodeProxy) Type() string { return p.node.Type() }

func (p *NodeProxy) Name() string { return p.node.ShortName() }

func (p *NodeProxy) AndroidAttr(name string) string { return p.node.AndroidAttr(name) }

// Parent returns the proxy of the parent view.
func (p *NodeProxy) Parent() *NodeProxy {
	if p.view != nil && p.view.Parent() != nil && p.view.Parent().DocNode() != nil {
		return NewProxy(p.view.Parent())
	}
	if parent := p.node.Parent(); parent != nil {
		return NewDetachedProxy(parent, image.Rectangle{})
	}
	return nil
}

// Children returns proxies of the rendered children that have a document
// node. Detached proxies report the document children with empty bounds.
func (p *NodeProxy) Children() []*NodeProxy {
	var out []*NodeProxy
	if p.view != nil {
		for _, c := range p.view.Children() {
			if c.DocNode() != nil {
				out = append(out, NewProxy(c))
			}
		}
		return out
	}
	for _, c := range p.node.Children() {
		out = append(out, NewDetachedProxy(c, image.Rectangle{}))
	}
	return out
}

func (p *NodeProxy) String() string { return p.node.String() }
