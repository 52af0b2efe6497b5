package geom

import "image"

// FromCorners returns the rectangle spanned by two drag points, inclusive
// of both, regardless of drag direction.
func FromCorners(a, b image.Point) image.Rectangle {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// EnsureMin grows r to at least min units in each dimension, keeping its
// top left corner fixed.
func EnsureMin(r image.Rectangle, min int) image.Rectangle {
	if r.Dx() < min {
		r.Max.X = r.Min.X + min
	}
	if r.Dy() < min {
		r.Max.Y = r.Min.Y + min
	}
	return r
}

// IsZeroArea reports whether r covers no area.
func IsZeroArea(r image.Rectangle) bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}

// Center returns the middle of r.
func Center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Area returns the area of r, 0 for empty rectangles.
func Area(r image.Rectangle) int {
	if IsZeroArea(r) {
		return 0
	}
	return r.Dx() * r.Dy()
}
