// Package geom holds the small amount of 2D geometry the editor needs:
// points, sizes, rectangles and the cubic Bezier used to draw links.
package geom

import "math"

// Point is a position in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min  Point
	Size Size
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Min.X+r.Size.Width &&
		p.Y >= r.Min.Y && p.Y < r.Min.Y+r.Size.Height
}

// Direction says which way a curve leaves its anchor horizontally.
type Direction int

const (
	// Leftward control points bow to the left of the anchor.
	Leftward Direction = -1
	// Rightward control points bow to the right of the anchor.
	Rightward Direction = 1
)

// MaxControlOffset caps the vertical contribution to the control offset.
const MaxControlOffset = 100

// Curve is a cubic Bezier from Start to End.
type Curve struct {
	Start, C1, C2, End Point
}

// ControlOffset returns the horizontal control point offset for a link
// spanning dx by dy: max(|dx|/2, min(|dy|*2, 100)).
func ControlOffset(dx, dy float64) float64 {
	return math.Max(math.Abs(dx)/2, math.Min(math.Abs(dy)*2, MaxControlOffset))
}

// LinkCurve builds the curve between two anchors, each control point pushed
// away from its anchor in that anchor's direction.
func LinkCurve(start Point, startDir Direction, end Point, endDir Direction) Curve {
	off := ControlOffset(end.X-start.X, end.Y-start.Y)
	return Curve{
		Start: start,
		C1:    Point{X: start.X + float64(startDir)*off, Y: start.Y},
		C2:    Point{X: end.X + float64(endDir)*off, Y: end.Y},
		End:   end,
	}
}

// At evaluates the curve at t in [0,1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*c.Start.X + b*c.C1.X + d*c.C2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + d*c.C2.Y + e*c.End.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
func (c Curve) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}
