// Package geom converts between device (control pixel) space and layout
// space, and describes resize handles around layout rectangles.
package geom

import (
	"image"
	"math"

	"gioui.org/f32"
)

const (
	MinScale = 0.1
	MaxScale = 16.0

	// epsilon absorbs float error before flooring to layout pixels.
	epsilon = 1e-9
)

// Transform maps layout coordinates onto the canvas. The rendered image is
// drawn at Margin device pixels from the top left, scaled by Scale times
// ImageScale and shifted by the scroll offset.
type Transform struct {
	// Zoom factor chosen by the user.
	Scale float64
	// Ratio between rendered image pixels and layout units; 0 means 1.
	ImageScale float64

	// Scroll offset in device pixels.
	ScrollX float64
	ScrollY float64

	// Empty space around the image in device pixels.
	Margin float64

	ViewWidth  int
	ViewHeight int
}

// NewTransform returns a unit transform with the given margin.
func NewTransform(margin float64) *Transform {
	return &Transform{Scale: 1, ImageScale: 1, Margin: margin}
}

// Effective returns the device pixels per layout unit.
func (t *Transform) Effective() float64 {
	s := t.Scale
	if s <= 0 {
		s = 1
	}
	if t.ImageScale > 0 {
		s *= t.ImageScale
	}
	return s
}

// ToLayout converts a device point to layout coordinates.
func (t *Transform) ToLayout(p f32.Point) image.Point {
	s := t.Effective()
	x := (float64(p.X) - t.Margin + t.ScrollX) / s
	y := (float64(p.Y) - t.Margin + t.ScrollY) / s
	return image.Pt(int(math.Floor(x+epsilon)), int(math.Floor(y+epsilon)))
}

// ToDevice converts a layout point to device coordinates.
func (t *Transform) ToDevice(p image.Point) f32.Point {
	s := t.Effective()
	return f32.Pt(
		float32(float64(p.X)*s+t.Margin-t.ScrollX),
		float32(float64(p.Y)*s+t.Margin-t.ScrollY),
	)
}

// ToLayoutRect converts a device rectangle to the layout rectangle covering it.
func (t *Transform) ToLayoutRect(r image.Rectangle) image.Rectangle {
	min := t.ToLayout(layout2f(r.Min))
	max := t.ToLayout(layout2f(r.Max))
	return image.Rectangle{Min: min, Max: max}.Canon()
}

// ToDeviceRect converts a layout rectangle to device pixels, rounding outward.
func (t *Transform) ToDeviceRect(r image.Rectangle) image.Rectangle {
	min := t.ToDevice(r.Min)
	max := t.ToDevice(r.Max)
	return image.Rect(
		int(math.Floor(float64(min.X))), int(math.Floor(float64(min.Y))),
		int(math.Ceil(float64(max.X))), int(math.Ceil(float64(max.Y))),
	)
}

// ToLayoutDistance converts a device distance, such as a handle radius or a
// drag threshold, to layout units. The result is at least 1.
func (t *Transform) ToLayoutDistance(d float64) int {
	v := int(math.Ceil(d / t.Effective()))
	if v < 1 {
		v = 1
	}
	return v
}

// ScrollBy moves the view by device pixel offsets.
func (t *Transform) ScrollBy(dx, dy float64) {
	t.ScrollX += dx
	t.ScrollY += dy
}

// ZoomAt changes the zoom by factor while keeping the layout point under
// the device position p stationary.
func (t *Transform) ZoomAt(p f32.Point, factor float64) {
	before := t.Effective()
	lx := (float64(p.X) - t.Margin + t.ScrollX) / before
	ly := (float64(p.Y) - t.Margin + t.ScrollY) / before

	t.Scale = clamp(t.Scale*factor, MinScale, MaxScale)

	after := t.Effective()
	t.ScrollX = lx*after - float64(p.X) + t.Margin
	t.ScrollY = ly*after - float64(p.Y) + t.Margin
}

// Fit zooms so a layout of the given size fills 90% of the view and
// centers it.
func (t *Transform) Fit(size image.Point) {
	if size.X <= 0 || size.Y <= 0 || t.ViewWidth <= 0 || t.ViewHeight <= 0 {
		return
	}
	img := t.ImageScale
	if img <= 0 {
		img = 1
	}
	zoomX := float64(t.ViewWidth) * 0.9 / (float64(size.X) * img)
	zoomY := float64(t.ViewHeight) * 0.9 / (float64(size.Y) * img)
	t.Scale = clamp(math.Min(zoomX, zoomY), MinScale, MaxScale)

	s := t.Effective()
	t.ScrollX = t.Margin - (float64(t.ViewWidth)-float64(size.X)*s)/2
	t.ScrollY = t.Margin - (float64(t.ViewHeight)-float64(size.Y)*s)/2
}

// SetViewSize updates the view when the window is resized.
func (t *Transform) SetViewSize(width, height int) {
	t.ViewWidth = width
	t.ViewHeight = height
}

// Reset restores unit zoom and no scroll.
func (t *Transform) Reset() {
	t.Scale = 1
	t.ScrollX, t.ScrollY = 0, 0
}

// VisibleBounds returns the layout rectangle currently on screen.
func (t *Transform) VisibleBounds() image.Rectangle {
	return t.ToLayoutRect(image.Rect(0, 0, t.ViewWidth, t.ViewHeight))
}

func layout2f(p image.Point) f32.Point {
	return f32.Pt(float32(p.X), float32(p.Y))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
