// Package tikz emits TikZ drawing primitives as text: coordinate and
// number formatting, and the arc sequences that outline information sets.
package tikz

import (
	"fmt"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/geometry"
)

// Num formats x with 3 decimal places, stripping trailing zeros and a
// trailing decimal point. Node identity strings depend on this exact
// formatting, so it must stay in sync with ef.NodeID.
func Num(x float64) string {
	return NumPrec(x, 3)
}

// NumPrec formats x with the given number of decimal places, stripping
// trailing zeros and a trailing decimal point when places > 0.
func NumPrec(x float64, places int) string {
	s := fmt.Sprintf("%.*f", places, x)
	if places > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// Coord formats a coordinate pair: Coord(3, 4) yields "(3,4)".
func Coord(x, y float64) string {
	return "(" + Num(x) + "," + Num(y) + ")"
}

// CoordPoint formats a geometry.Point as a TikZ coordinate.
func CoordPoint(p geometry.Point) string {
	return Coord(p.X, p.Y)
}
