package payload

// Drag is an in-process drag operation.
type Drag struct {
	Elements []Element
	Data     []byte
	// Source identifies the canvas the drag started on; nil for drags
	// from outside any canvas, such as a palette.
	Source any
	// Moved is set by the accepting canvas when a move drop landed on
	// another canvas, telling the source to delete its originals.
	Moved bool
}

// DragRegistry is shared by the canvases of one host. It carries the
// current in-process drag so a drop target can see live elements and the
// source canvas instead of a decoded transfer payload.
type DragRegistry struct {
	current *Drag
}

func NewDragRegistry() *DragRegistry { return &DragRegistry{} }

// Start records d as the current drag, replacing any earlier one.
func (r *DragRegistry) Start(d *Drag) { r.current = d }

// Current returns the drag in progress or nil.
func (r *DragRegistry) Current() *Drag { return r.current }

// Finish clears d if it is still current.
func (r *DragRegistry) Finish(d *Drag) {
	if r.current == d {
		r.current = nil
	}
}
