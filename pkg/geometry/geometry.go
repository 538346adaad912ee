// Package geometry provides the small numeric helpers used to turn
// detector output (pixel-space points and boxes) into normalized signals.
package geometry

// Point is a landmark coordinate in frame pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a face region in frame pixel space. X,Y is the top-left corner.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width*0.5, Y: b.Y + b.Height*0.5}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.Height
}

// Area returns the area of the box.
func (b Box) Area() float64 {
	return b.Width * b.Height
}

// Degenerate reports whether the box cannot be used as a normalization range.
func (b Box) Degenerate() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Average returns the midpoint of two points.
func Average(p1, p2 Point) Point {
	return Point{X: (p1.X + p2.X) * 0.5, Y: (p1.Y + p2.Y) * 0.5}
}

// NormalizeClamped linearly rescales value from [min,max] into [0,1],
// clamping at both ends. Requires min < max; otherwise it returns 0.
func NormalizeClamped(value, min, max float64) float64 {
	if !(min < max) {
		return 0
	}
	return Clamp((value-min)/(max-min), 0, 1)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
