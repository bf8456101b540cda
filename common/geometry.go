package common

import "math"

// Point is a location in logical (point) coordinates.
type Point struct {
	X, Y float64
}

// Size is an extent in logical (point) coordinates.
type Size struct {
	Width, Height float64
}

// PixelSize is an extent in device pixels.
type PixelSize struct {
	Width, Height int
}

// Empty reports whether either dimension is zero or negative.
func (s PixelSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle in logical coordinates, anchored at its top-left Origin.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect builds a Rect from an origin and extent.
//
// Parameters:
//   - x, y: the top-left corner
//   - width, height: the extent
//
// Returns:
//   - Rect: the rectangle
func NewRect(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.Size.Width }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.Size.Height }

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// Inset shrinks the rectangle by dx on the left and right edges and dy on the top and bottom edges.
// Negative values grow it. The result keeps the same center.
//
// Parameters:
//   - dx: horizontal inset applied to each side
//   - dy: vertical inset applied to each side
//
// Returns:
//   - Rect: the inset rectangle
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{
		Origin: Point{X: r.Origin.X + dx, Y: r.Origin.Y + dy},
		Size:   Size{Width: r.Size.Width - 2*dx, Height: r.Size.Height - 2*dy},
	}
}

// Offset translates the rectangle.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Origin: Point{X: r.Origin.X + dx, Y: r.Origin.Y + dy}, Size: r.Size}
}

// PixelSizeOf converts a logical extent to device pixels for the given scale factor.
// Each axis is rounded to the nearest pixel independently; negative results clamp to zero.
//
// Parameters:
//   - size: the logical extent
//   - scale: the device scale factor
//
// Returns:
//   - PixelSize: the extent in device pixels
func PixelSizeOf(size Size, scale float64) PixelSize {
	return PixelSize{
		Width:  max(int(math.Round(size.Width*scale)), 0),
		Height: max(int(math.Round(size.Height*scale)), 0),
	}
}
