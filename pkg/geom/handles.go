package geom

import (
	"image"

	"gioui.org/io/pointer"
)

// Direction is the set of rectangle edges a resize handle moves.
type Direction uint8

const (
	North Direction = 1 << iota
	South
	West
	East

	NorthWest = North | West
	NorthEast = North | East
	SouthWest = South | West
	SouthEast = South | East
)

func (d Direction) String() string {
	switch d {
	case North:
		return "n"
	case South:
		return "s"
	case West:
		return "w"
	case East:
		return "e"
	case NorthWest:
		return "nw"
	case NorthEast:
		return "ne"
	case SouthWest:
		return "sw"
	case SouthEast:
		return "se"
	}
	return "none"
}

// Cursor returns the resize cursor for the direction.
func (d Direction) Cursor() pointer.Cursor {
	switch d {
	case North:
		return pointer.CursorNorthResize
	case South:
		return pointer.CursorSouthResize
	case West:
		return pointer.CursorWestResize
	case East:
		return pointer.CursorEastResize
	case NorthWest:
		return pointer.CursorNorthWestResize
	case NorthEast:
		return pointer.CursorNorthEastResize
	case SouthWest:
		return pointer.CursorSouthWestResize
	case SouthEast:
		return pointer.CursorSouthEastResize
	}
	return pointer.CursorDefault
}

// Resize moves the edges of r named by d by delta. The result is kept
// canonical and at least one unit in each dimension.
func (d Direction) Resize(r image.Rectangle, delta image.Point) image.Rectangle {
	if d&North != 0 {
		r.Min.Y = min(r.Min.Y+delta.Y, r.Max.Y-1)
	}
	if d&South != 0 {
		r.Max.Y = max(r.Max.Y+delta.Y, r.Min.Y+1)
	}
	if d&West != 0 {
		r.Min.X = min(r.Min.X+delta.X, r.Max.X-1)
	}
	if d&East != 0 {
		r.Max.X = max(r.Max.X+delta.X, r.Min.X+1)
	}
	return r
}

// Handle is one resize grip around a selected rectangle.
type Handle struct {
	Dir    Direction
	Center image.Point
}

// Rect returns the square drawn for the handle with the given half size.
func (h Handle) Rect(radius int) image.Rectangle {
	return image.Rect(h.Center.X-radius, h.Center.Y-radius, h.Center.X+radius+1, h.Center.Y+radius+1)
}

// Handles returns the eight handles of r: corners first, then edge
// midpoints.
func Handles(r image.Rectangle) []Handle {
	c := Center(r)
	right, bottom := r.Max.X-1, r.Max.Y-1
	if right < r.Min.X {
		right = r.Min.X
	}
	if bottom < r.Min.Y {
		bottom = r.Min.Y
	}
	return []Handle{
		{NorthWest, image.Pt(r.Min.X, r.Min.Y)},
		{NorthEast, image.Pt(right, r.Min.Y)},
		{SouthWest, image.Pt(r.Min.X, bottom)},
		{SouthEast, image.Pt(right, bottom)},
		{North, image.Pt(c.X, r.Min.Y)},
		{South, image.Pt(c.X, bottom)},
		{West, image.Pt(r.Min.X, c.Y)},
		{East, image.Pt(right, c.Y)},
	}
}

// HandleAt returns the first handle whose square of the given radius
// contains p.
func HandleAt(handles []Handle, p image.Point, radius int) (Handle, bool) {
	for _, h := range handles {
		if p.In(h.Rect(radius)) {
			return h, true
		}
	}
	return Handle{}, false
}
