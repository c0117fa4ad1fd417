package msdf

import (
	"fmt"
	"math"
	"sort"
)

// Contour is a closed loop of edge segments. Edges are stored in travel
// order; each edge starts where the previous one ends.
type Contour struct {
	Edges []Edge
}

// AddEdge appends an edge to the contour.
func (c *Contour) AddEdge(e Edge) {
	c.Edges = append(c.Edges, e)
}

// shoelace is the signed trapezoid area between segment a-b and the x axis.
// Summed around a contour it is negative for counter-clockwise travel.
func shoelace(a, b Point) float64 {
	return (b.X - a.X) * (a.Y + b.Y)
}

// Winding returns the contour's travel direction: +1 for counter-clockwise,
// -1 for clockwise, 0 for a degenerate contour. Contours with fewer than
// three edges are sampled mid-edge so curvature still counts.
func (c *Contour) Winding() int {
	if len(c.Edges) == 0 {
		return 0
	}
	var total float64
	switch len(c.Edges) {
	case 1:
		a := c.Edges[0].PointAt(0)
		b := c.Edges[0].PointAt(1.0 / 3.0)
		m := c.Edges[0].PointAt(2.0 / 3.0)
		total = shoelace(a, b) + shoelace(b, m) + shoelace(m, a)
	case 2:
		a := c.Edges[0].PointAt(0)
		b := c.Edges[0].PointAt(0.5)
		m := c.Edges[1].PointAt(0)
		d := c.Edges[1].PointAt(0.5)
		total = shoelace(a, b) + shoelace(b, m) + shoelace(m, d) + shoelace(d, a)
	default:
		prev := c.Edges[len(c.Edges)-1].StartPoint()
		for i := range c.Edges {
			cur := c.Edges[i].StartPoint()
			total += shoelace(prev, cur)
			prev = cur
		}
	}
	switch {
	case total < 0:
		return 1
	case total > 0:
		return -1
	}
	return 0
}

// Bounds returns the bounding box of the contour.
func (c *Contour) Bounds() Rect {
	if len(c.Edges) == 0 {
		return Rect{}
	}
	bounds := c.Edges[0].Bounds()
	for i := 1; i < len(c.Edges); i++ {
		bounds = bounds.Union(c.Edges[i].Bounds())
	}
	return bounds
}

// BoundMiters extends bounds to cover the miter spikes that perpendicular
// distances produce at corners convex toward the outside of the shape.
// border is the outward reach of the distance field; miterLimit caps the
// spike length in multiples of border.
func (c *Contour) BoundMiters(bounds Rect, border, miterLimit float64) Rect {
	if len(c.Edges) == 0 {
		return bounds
	}
	prevDir := c.Edges[len(c.Edges)-1].DirectionAt(1).Normalized()
	for i := range c.Edges {
		dir := c.Edges[i].DirectionAt(0).Normalized()
		if prevDir.Cross(dir) >= 0 {
			miterLength := miterLimit
			q := 0.5 * (1 + prevDir.Dot(dir))
			if q > 0 {
				miterLength = min(1/math.Sqrt(q), miterLimit)
			}
			miter := c.Edges[i].StartPoint().Add(prevDir.Sub(dir).Normalized().Mul(border * miterLength))
			bounds = bounds.ExtendTo(miter)
		}
		prevDir = c.Edges[i].DirectionAt(1).Normalized()
	}
	return bounds
}

// Reverse flips the contour's travel direction in place.
func (c *Contour) Reverse() {
	for i, j := 0, len(c.Edges)-1; i < j; i, j = i+1, j-1 {
		c.Edges[i], c.Edges[j] = c.Edges[j], c.Edges[i]
	}
	for i := range c.Edges {
		c.Edges[i].Reverse()
	}
}

// Shape is a set of contours describing a filled outline. Coordinates are
// y-up. After OrientContours, outer contours run counter-clockwise and
// holes clockwise, which makes signed distances negative inside the shape.
type Shape struct {
	Contours []Contour
}

// AddContour appends a contour to the shape.
func (s *Shape) AddContour(c Contour) {
	s.Contours = append(s.Contours, c)
}

// EdgeCount returns the total number of edges across all contours.
func (s *Shape) EdgeCount() int {
	n := 0
	for i := range s.Contours {
		n += len(s.Contours[i].Edges)
	}
	return n
}

// Validate reports whether the shape has edges and every contour is a
// closed loop.
func (s *Shape) Validate() error {
	if s.EdgeCount() == 0 {
		return ErrEmptyShape
	}
	for ci := range s.Contours {
		c := &s.Contours[ci]
		if len(c.Edges) == 0 {
			continue
		}
		corner := c.Edges[len(c.Edges)-1].EndPoint()
		for i := range c.Edges {
			if c.Edges[i].StartPoint() != corner {
				return fmt.Errorf("contour %d, edge %d: %w", ci, i, ErrOpenContour)
			}
			corner = c.Edges[i].EndPoint()
		}
	}
	return nil
}

// Bounds returns the bounding box of the shape.
func (s *Shape) Bounds() Rect {
	bounds := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for i := range s.Contours {
		if len(s.Contours[i].Edges) == 0 {
			continue
		}
		bounds = bounds.Union(s.Contours[i].Bounds())
	}
	if bounds.MinX > bounds.MaxX {
		return Rect{}
	}
	return bounds
}

// BoundMiters extends bounds by the miter spikes of all contours.
func (s *Shape) BoundMiters(bounds Rect, border, miterLimit float64) Rect {
	for i := range s.Contours {
		bounds = s.Contours[i].BoundMiters(bounds, border, miterLimit)
	}
	return bounds
}

// cornerDotEpsilon is the tolerance below which two unit tangents count as
// exactly opposite.
const cornerDotEpsilon = 1e-6

// Normalize prepares a shape for edge coloring and distance generation.
// Single-edge contours are split into thirds so coloring has segment
// boundaries to work with. Where consecutive edges meet in a 180 degree
// reversal, curve control points are nudged apart so the reversal point
// keeps a distinct pair of tangents.
func (s *Shape) Normalize() {
	for ci := range s.Contours {
		c := &s.Contours[ci]
		if len(c.Edges) == 1 {
			a, b, d := c.Edges[0].SplitInThirds()
			c.Edges = []Edge{a, b, d}
			continue
		}
		prev := len(c.Edges) - 1
		for i := range c.Edges {
			prevDir := c.Edges[prev].DirectionAt(1).Normalized()
			curDir := c.Edges[i].DirectionAt(0).Normalized()
			if prevDir.Dot(curDir) < cornerDotEpsilon-1 {
				deconvergeEdge(&c.Edges[prev], 1)
				deconvergeEdge(&c.Edges[i], 0)
			}
			prev = i
		}
	}
}

// deconvergeEdge moves the control point adjacent to the given endpoint
// (0 = start, 1 = end) off the tangent line. Lines have no control point
// and are left unchanged.
func deconvergeEdge(e *Edge, end int) {
	if e.Type == EdgeQuadratic {
		*e = e.toCubic()
	}
	if e.Type != EdgeCubic {
		return
	}
	amount := 1e-6 * e.EndPoint().Sub(e.StartPoint()).Length()
	if end == 0 {
		n := e.DirectionAt(0).Orthonormal()
		e.Points[1] = e.Points[1].Add(n.Mul(amount))
	} else {
		n := e.DirectionAt(1).Orthonormal()
		e.Points[2] = e.Points[2].Add(n.Mul(amount))
	}
}

// toCubic raises a quadratic edge to an equivalent cubic.
func (e *Edge) toCubic() Edge {
	c := NewCubicEdge(
		e.Points[0],
		e.Points[0].Lerp(e.Points[1], 2.0/3.0),
		e.Points[2].Lerp(e.Points[1], 2.0/3.0),
		e.Points[2],
	)
	c.Color = e.Color
	return c
}

// OrientContours reverses contours as needed so that outer contours run
// counter-clockwise and holes clockwise, regardless of how the source
// outline was wound. Orientation is deduced by casting a scanline through
// each undetermined contour and checking whether its crossings alternate
// the way a correctly wound shape's would.
func (s *Shape) OrientContours() {
	// An irrational interpolation ratio avoids hitting corners exactly.
	const ratio = 0.618033988749895 // (sqrt(5)-1)/2
	orientations := make([]int, len(s.Contours))

	type crossing struct {
		x         float64
		direction int
		contour   int
	}
	var crossings []crossing

	for i := range s.Contours {
		if orientations[i] != 0 || len(s.Contours[i].Edges) == 0 {
			continue
		}
		// Pick a height that actually crosses the contour.
		y0 := s.Contours[i].Edges[0].StartPoint().Y
		y1 := y0
		for _, e := range s.Contours[i].Edges {
			if y0 != y1 {
				break
			}
			y1 = e.EndPoint().Y
		}
		for _, e := range s.Contours[i].Edges {
			if y0 != y1 {
				break
			}
			y1 = e.PointAt(ratio).Y // curve midpoints when all endpoints are level
		}
		y := y0 + ratio*(y1-y0)

		crossings = crossings[:0]
		for j := range s.Contours {
			for ei := range s.Contours[j].Edges {
				x, dy, n := s.Contours[j].Edges[ei].ScanlineIntersections(y)
				for k := 0; k < n; k++ {
					crossings = append(crossings, crossing{x[k], dy[k], j})
				}
			}
		}
		if len(crossings) == 0 {
			continue
		}
		sort.Slice(crossings, func(a, b int) bool { return crossings[a].x < crossings[b].x })

		// Coincident crossings cancel and cannot be attributed.
		for j := 1; j < len(crossings); j++ {
			if crossings[j].x == crossings[j-1].x {
				crossings[j].direction = 0
				crossings[j-1].direction = 0
			}
		}

		// In a correctly wound shape, crossings alternate down, up,
		// down, up from the left. Each conforming crossing votes for
		// its contour's current orientation, each offender against.
		for j := range crossings {
			if crossings[j].direction == 0 {
				continue
			}
			vote := -1
			down := 0
			if crossings[j].direction < 0 {
				down = 1
			}
			if (j&1)^down == 1 {
				vote = 1
			}
			orientations[crossings[j].contour] += vote
		}
	}

	for i := range s.Contours {
		if orientations[i] < 0 {
			s.Contours[i].Reverse()
		}
	}
}
