package cv

import "image"

// Region is a search rectangle in screen pixels, X2/Y2 exclusive
type Region struct {
	X1, Y1, X2, Y2 int
}

// NewRegion creates a new region
func NewRegion(x1, y1, x2, y2 int) Region {
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Empty reports whether the region covers no pixels
func (r Region) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// ToImageRectangle converts Region to *image.Rectangle for use with CV operations
func (r Region) ToImageRectangle() *image.Rectangle {
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2)
	return &rect
}
