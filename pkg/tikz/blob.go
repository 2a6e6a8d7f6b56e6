package tikz

import (
	"strings"

	"github.com/gambitproject/draw-tree/pkg/geometry"
)

// DefaultRadius is the corner radius for information-set outlines, in cm.
const DefaultRadius = 0.3

// Default elongation of a singleton outline, turning the circle into a
// horizontal capsule.
const (
	DefaultSingleX = 0.4
	DefaultSingleY = 0.0
)

// Outline renders the rounded boundary drawn around the member nodes of
// an information set.
type Outline struct {
	Radius  float64 // corner radius in cm
	SingleX float64 // x offset extending a singleton set
	SingleY float64 // y offset extending a singleton set
	Params  string  // extra TikZ draw parameters
}

// DefaultOutline returns an Outline with the standard radius and
// singleton elongation.
func DefaultOutline() Outline {
	return Outline{Radius: DefaultRadius, SingleX: DefaultSingleX, SingleY: DefaultSingleY}
}

// arc produces the TikZ fragment rounding the corner at b in the path
// a -> b -> c. The corner is traced anticlockwise from the inward normal
// of a->b to that of b->c. Concave corners (turn greater than a half
// circle) collapse to the mitre point where the two offset edges
// intersect; a turn of nearly a full circle collapses to the midpoint of
// the two offsets.
func (o Outline) arc(a, b, c geometry.Point) string {
	s := geometry.Point{X: b.Y - a.Y, Y: a.X - b.X}.Stretch(o.Radius)
	t := geometry.Point{X: c.Y - b.Y, Y: b.X - c.X}.Stretch(o.Radius)
	sangle := s.Degrees()
	tangle := t.Degrees()
	if tangle < sangle {
		tangle += 360
	}
	sx, sy := b.X+s.X, b.Y+s.Y
	out := Coord(sx, sy) + " arc(" +
		NumPrec(sangle, 1) + ":" +
		NumPrec(tangle, 1) + ":" +
		Num(o.Radius) + ")"
	if tangle-sangle > 180.01 {
		tx, ty := b.X+t.X, b.Y+t.Y
		if tangle-sangle > 359 {
			return Coord((sx+tx)/2, (sy+ty)/2)
		}
		ax, ay := a.X+s.X, a.Y+s.Y
		cx, cy := c.X+t.X, c.Y+t.Y
		d := geometry.Det(sx-ax, sy-ay, cx-tx, cy-ty)
		if !geometry.NearlyZero(d) {
			alpha := geometry.Det(cx-ax, cy-ay, cx-tx, cy-ty) / d
			beta := geometry.Det(sx-ax, sy-ay, cx-ax, cy-ay) / d
			if alpha >= 0 && beta >= 0 {
				return Coord(ax+(sx-ax)*alpha, ay+(sy-ay)*alpha)
			}
		}
	}
	return out
}

// Arcs returns the sequence of TikZ path fragments outlining the given
// points, without the surrounding draw command. Points lying on the
// segment between their neighbors are dropped first; a singleton set
// yields a plain circle when no elongation is configured, otherwise a
// capsule around the point and its offset twin.
func (o Outline) Arcs(points []geometry.Point) []string {
	nodes := make([]geometry.Point, len(points))
	copy(nodes, points)
	if len(nodes) == 0 {
		return []string{""}
	}
	if len(nodes) == 1 {
		p := nodes[0]
		if geometry.NearlyZero(o.SingleX) && geometry.NearlyZero(o.SingleY) {
			return []string{CoordPoint(p) + " circle [radius=" + Num(o.Radius) + "cm]"}
		}
		nodes = append(nodes, geometry.Point{X: p.X + o.SingleX, Y: p.Y + o.SingleY})
	}
	// drop points lying on the segment between their neighbors
	a, b := nodes[0], nodes[1]
	rest := nodes[2:]
	pruned := []geometry.Point{a}
	for _, c := range rest {
		if !geometry.OnSegment(a, b, c) {
			pruned = append(pruned, b)
			a = b
		}
		b = c
	}
	pruned = append(pruned, b)

	// closed tour: second point, all but the last, then everything reversed
	tour := make([]geometry.Point, 0, 2*len(pruned))
	if len(pruned) >= 2 {
		tour = append(tour, pruned[1])
	}
	tour = append(tour, pruned[:len(pruned)-1]...)
	for i := len(pruned) - 1; i >= 0; i-- {
		tour = append(tour, pruned[i])
	}

	out := make([]string, 0, len(tour))
	for i := 1; i < len(tour)-1; i++ {
		out = append(out, o.arc(tour[i-1], tour[i], tour[i+1]))
	}
	return out
}

// Draw returns the complete draw command for the outline around points.
func (o Outline) Draw(points []geometry.Point) string {
	arcs := o.Arcs(points)
	return "\\draw [" + o.Params + "] " + strings.Join(arcs, "\n  -- ") + " -- cycle;"
}
