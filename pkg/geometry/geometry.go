// Package geometry provides the small planar-geometry kernel used by the
// tree renderer: vector norms, angle computation, and collinearity tests.
//
// All predicates use an absolute epsilon tolerance rather than relative
// error. Coordinates in this program live in a few-centimeter range, so a
// fixed epsilon is both sufficient and keeps the degenerate-case behavior
// predictable.
package geometry

import "math"

// Epsilon is the absolute tolerance for near-equality tests.
const Epsilon = 1e-9

// Point is a point or vector in the drawing plane.
type Point struct {
	X, Y float64
}

// NearlyEqual reports whether x and y differ by less than Epsilon.
func NearlyEqual(x, y float64) bool {
	return math.Abs(x-y) < Epsilon
}

// NearlyZero reports whether x is within Epsilon of zero.
func NearlyZero(x float64) bool {
	return NearlyEqual(x, 0)
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Stretch scales p to the given length, keeping its direction.
// The zero vector is returned unchanged.
func (p Point) Stretch(length float64) Point {
	n := p.Norm()
	if n == 0 {
		return p
	}
	return Point{X: p.X * length / n, Y: p.Y * length / n}
}

// Degrees returns the angle of p in degrees in the range (-180, 180].
// A vector of near-zero length yields 0.
func (p Point) Degrees() float64 {
	if NearlyZero(p.Norm()) {
		return 0
	}
	u := p.Stretch(1)
	d := math.Acos(u.X) * 180 / math.Pi
	if u.Y < 0 {
		return -d
	}
	return d
}

// Det returns the determinant of the 2x2 matrix [[a, b], [c, d]].
func Det(a, b, c, d float64) float64 {
	return a*d - b*c
}

// OnSegment reports whether b lies on the closed line segment from a to c.
// The edge cases are resolved in a fixed order: b coinciding with a is
// always on the segment, a degenerate segment (a == c) with b elsewhere is
// not, and for collinear points betweenness is decided on whichever
// coordinate of c-a is nonzero.
func OnSegment(a, b, c Point) bool {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	if NearlyZero(bx) && NearlyZero(by) {
		return true // a near b
	}
	if !NearlyZero(bx*cy - by*cx) {
		return false // not collinear
	}
	if NearlyZero(cx) && NearlyZero(cy) {
		return false // a near c but not near b
	}
	if NearlyZero(cx) {
		// only the y coordinate carries information
		if NearlyEqual(by, cy) {
			return true // c near b
		}
		if cy >= 0 {
			return by >= 0 && by <= cy
		}
		return by <= 0 && by >= cy
	}
	if NearlyEqual(bx, cx) {
		return true // c near b
	}
	if cx > 0 {
		return bx >= 0 && bx <= cx
	}
	return bx <= 0 && bx >= cx
}
