package rules

import (
	"fmt"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

type lookupFunc func() descriptor.Lookup

func (f lookupFunc) lookup() descriptor.Lookup {
	if f == nil {
		return nil
	}
	return f()
}

// ContainerRule accepts drops anywhere inside the container and appends
// the dropped elements. Children can be resized to explicit pixel sizes.
type ContainerRule struct {
	BaseRule
	// Lookup supplies default sizes for created elements.
	Lookup descriptor.Lookup
}

type containerDrop struct {
	index int
}

func (r *ContainerRule) OnDropEnter(target *NodeProxy, elements []payload.Element) *DropFeedback {
	fb := &DropFeedback{
		Data:    &containerDrop{index: -1},
		Message: fmt.Sprintf("Drop in %s", target.Name()),
	}
	fb.Painter = highlight(target, fb)
	return fb
}

func (r *ContainerRule) OnDropMove(target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point) *DropFeedback {
	return carry(r.OnDropEnter(target, elements), fb)
}

func (r *ContainerRule) OnDropped(tx *document.Tx, target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point, insert InsertType) error {
	index := -1
	if fb != nil {
		if d, ok := fb.Data.(*containerDrop); ok {
			index = d.index
		}
	}
	_, err := r.insert(tx, target.Node(), index, elements, fb, insert)
	return err
}

// OnPaste appends the elements to the container itself.
func (r *ContainerRule) OnPaste(tx *document.Tx, target *NodeProxy, elements []payload.Element) ([]*document.Node, error) {
	return insertCopies(tx, target.Node(), -1, elements, nil)
}

func (r *ContainerRule) creator(insert InsertType) lookupFunc {
	if insert != Create || r.Lookup == nil {
		return nil
	}
	return func() descriptor.Lookup { return r.Lookup }
}

// insert moves live sources for move drops and materializes copies
// otherwise. index counts positions in parent; -1 appends.
func (r *ContainerRule) insert(tx *document.Tx, parent *document.Node, index int, elements []payload.Element, fb *DropFeedback, insert InsertType) ([]*document.Node, error) {
	copying := fb != nil && fb.IsCopy
	var out []*document.Node
	for _, e := range elements {
		src := e.Source
		if insert.IsMove() && !copying && src != nil && src.Exists() {
			if index >= 0 && src.Parent() == parent && src.Index() < index {
				index--
			}
			if err := tx.Move(src, parent, index); err != nil {
				return nil, err
			}
			out = append(out, src)
		} else {
			made, err := insertCopies(tx, parent, index, []payload.Element{e}, r.creator(insert))
			if err != nil {
				return nil, err
			}
			src = made[0]
			out = append(out, src)
		}
		if index >= 0 {
			index = src.Index() + 1
		}
	}
	return out, nil
}

type resizeState struct {
	dir    geom.Direction
	bounds image.Rectangle
}

func (r *ContainerRule) OnResizeBegin(child, parent *NodeProxy, dir geom.Direction) *DropFeedback {
	st := &resizeState{dir: dir, bounds: child.Bounds()}
	return &DropFeedback{
		Data: st,
		Painter: gfx.PainterFunc(func(g gfx.Graphics) {
			g.UseStyle(gfx.StyleResizePreview)
			g.FillRect(st.bounds)
			g.DrawRect(st.bounds)
		}),
	}
}

func (r *ContainerRule) OnResizeUpdate(fb *DropFeedback, child, parent *NodeProxy, bounds image.Rectangle) *DropFeedback {
	st := fb.Data.(*resizeState)
	st.bounds = bounds
	fb.Message = fmt.Sprintf("Resize %s to %dx%d", child.Name(), bounds.Dx(), bounds.Dy())
	return fb
}

func (r *ContainerRule) OnResizeEnd(tx *document.Tx, fb *DropFeedback, child, parent *NodeProxy, bounds image.Rectangle) error {
	st := fb.Data.(*resizeState)
	n := child.Node()
	if st.dir&(geom.West|geom.East) != 0 {
		if err := tx.SetAndroidAttr(n, descriptor.AttrWidth, px(bounds.Dx())); err != nil {
			return err
		}
	}
	if st.dir&(geom.North|geom.South) != 0 {
		if err := tx.SetAndroidAttr(n, descriptor.AttrHeight, px(bounds.Dy())); err != nil {
			return err
		}
	}
	return nil
}

func px(v int) string { return fmt.Sprintf("%dpx", v) }
