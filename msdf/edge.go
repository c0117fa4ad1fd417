package msdf

import (
	"math"
)

// EdgeType classifies edge segments by their geometric type.
type EdgeType int

const (
	// EdgeLinear is a straight line segment between two points.
	EdgeLinear EdgeType = iota

	// EdgeQuadratic is a quadratic Bezier curve (one control point).
	EdgeQuadratic

	// EdgeCubic is a cubic Bezier curve (two control points).
	EdgeCubic
)

// String returns a string representation of the edge type.
func (t EdgeType) String() string {
	switch t {
	case EdgeLinear:
		return "Linear"
	case EdgeQuadratic:
		return "Quadratic"
	case EdgeCubic:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// EdgeColor determines which RGB channels an edge contributes to.
// Different colors at corners preserve sharpness in multi-channel fields.
type EdgeColor uint8

const (
	// ColorBlack means the edge contributes to no channels.
	ColorBlack EdgeColor = 0

	// ColorRed means the edge contributes to the red channel.
	ColorRed EdgeColor = 1 << iota

	// ColorGreen means the edge contributes to the green channel.
	ColorGreen

	// ColorBlue means the edge contributes to the blue channel.
	ColorBlue

	// ColorYellow combines red and green channels.
	ColorYellow = ColorRed | ColorGreen

	// ColorCyan combines green and blue channels.
	ColorCyan = ColorGreen | ColorBlue

	// ColorMagenta combines red and blue channels.
	ColorMagenta = ColorRed | ColorBlue

	// ColorWhite means the edge contributes to all channels.
	ColorWhite = ColorRed | ColorGreen | ColorBlue
)

// String returns a string representation of the edge color.
func (c EdgeColor) String() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorRed:
		return "Red"
	case ColorGreen:
		return "Green"
	case ColorBlue:
		return "Blue"
	case ColorYellow:
		return "Yellow"
	case ColorCyan:
		return "Cyan"
	case ColorMagenta:
		return "Magenta"
	case ColorWhite:
		return "White"
	default:
		return "Unknown"
	}
}

// HasRed returns true if the color includes the red channel.
func (c EdgeColor) HasRed() bool { return c&ColorRed != 0 }

// HasGreen returns true if the color includes the green channel.
func (c EdgeColor) HasGreen() bool { return c&ColorGreen != 0 }

// HasBlue returns true if the color includes the blue channel.
func (c EdgeColor) HasBlue() bool { return c&ColorBlue != 0 }

// HasChannel returns true if the color includes channel n (0=red, 1=green, 2=blue).
func (c EdgeColor) HasChannel(n int) bool { return c&(ColorRed<<uint(n)) != 0 }

// Edge represents a single edge segment of a contour.
type Edge struct {
	// Type is the geometric type of this edge.
	Type EdgeType

	// Points contains the control and end points for this edge.
	// Linear: P0 (start), P1 (end)
	// Quadratic: P0 (start), P1 (control), P2 (end)
	// Cubic: P0 (start), P1 (control1), P2 (control2), P3 (end)
	Points [4]Point

	// Color determines which channels this edge affects.
	Color EdgeColor
}

// NewLinearEdge creates a new linear edge from start to end.
func NewLinearEdge(start, end Point) Edge {
	return Edge{
		Type:   EdgeLinear,
		Points: [4]Point{start, end, {}, {}},
		Color:  ColorWhite,
	}
}

// NewQuadraticEdge creates a new quadratic Bezier edge.
func NewQuadraticEdge(start, control, end Point) Edge {
	return Edge{
		Type:   EdgeQuadratic,
		Points: [4]Point{start, control, end, {}},
		Color:  ColorWhite,
	}
}

// NewCubicEdge creates a new cubic Bezier edge.
func NewCubicEdge(start, control1, control2, end Point) Edge {
	return Edge{
		Type:   EdgeCubic,
		Points: [4]Point{start, control1, control2, end},
		Color:  ColorWhite,
	}
}

// StartPoint returns the starting point of the edge.
func (e *Edge) StartPoint() Point {
	return e.Points[0]
}

// EndPoint returns the ending point of the edge.
func (e *Edge) EndPoint() Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[1]
	case EdgeQuadratic:
		return e.Points[2]
	case EdgeCubic:
		return e.Points[3]
	default:
		return e.Points[0]
	}
}

// PointAt evaluates the edge at parameter t in [0, 1].
func (e *Edge) PointAt(t float64) Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[0].Lerp(e.Points[1], t)
	case EdgeQuadratic:
		return evaluateQuadratic(e.Points[0], e.Points[1], e.Points[2], t)
	case EdgeCubic:
		return evaluateCubic(e.Points[0], e.Points[1], e.Points[2], e.Points[3], t)
	default:
		return e.Points[0]
	}
}

// DirectionAt returns the tangent direction at parameter t.
// Degenerate control configurations fall back to chord directions so the
// result is never zero for a non-degenerate edge.
func (e *Edge) DirectionAt(t float64) Point {
	switch e.Type {
	case EdgeLinear:
		return e.Points[1].Sub(e.Points[0])
	case EdgeQuadratic:
		d := quadraticDerivative(e.Points[0], e.Points[1], e.Points[2], t)
		if d.LengthSquared() == 0 {
			return e.Points[2].Sub(e.Points[0])
		}
		return d
	case EdgeCubic:
		d := cubicDerivative(e.Points[0], e.Points[1], e.Points[2], e.Points[3], t)
		if d.LengthSquared() == 0 {
			switch t {
			case 0:
				return e.Points[2].Sub(e.Points[0])
			case 1:
				return e.Points[3].Sub(e.Points[1])
			}
			return e.Points[3].Sub(e.Points[0])
		}
		return d
	default:
		return Point{1, 0}
	}
}

// SignedDistance calculates the signed distance from point p to this edge.
// The returned parameter locates the nearest point on the edge; values
// outside [0, 1] indicate the nearest point is an endpoint and p projects
// beyond it along the endpoint tangent.
func (e *Edge) SignedDistance(p Point) (SignedDistance, float64) {
	switch e.Type {
	case EdgeLinear:
		return linearSignedDistance(e.Points[0], e.Points[1], p)
	case EdgeQuadratic:
		return quadraticSignedDistance(e.Points[0], e.Points[1], e.Points[2], p)
	case EdgeCubic:
		return cubicSignedDistance(e, p)
	default:
		return Infinite(), 0
	}
}

// PerpendicularDistance converts a true signed distance at the given
// parameter into the perpendicular pseudo-distance: beyond an endpoint the
// distance is measured against the extended endpoint tangent. This removes
// the rounding that endpoint distances produce at corners.
func (e *Edge) PerpendicularDistance(sd *SignedDistance, p Point, param float64) {
	if param < 0 {
		dir := e.DirectionAt(0).Normalized()
		aq := p.Sub(e.StartPoint())
		if aq.Dot(dir) < 0 {
			pd := aq.Cross(dir)
			if math.Abs(pd) <= math.Abs(sd.Distance) {
				sd.Distance = pd
				sd.Dot = 0
			}
		}
	} else if param > 1 {
		dir := e.DirectionAt(1).Normalized()
		bq := p.Sub(e.EndPoint())
		if bq.Dot(dir) > 0 {
			pd := bq.Cross(dir)
			if math.Abs(pd) <= math.Abs(sd.Distance) {
				sd.Distance = pd
				sd.Dot = 0
			}
		}
	}
}

// ScanlineIntersections computes the crossings of the edge with the
// horizontal line at height y. Up to three crossings are written to x and
// dy; dy is +1 where the edge crosses upward and -1 where it crosses
// downward. Within each y-monotone run a crossing at the run's top
// endpoint counts and one at its bottom endpoint does not, so a scanline
// through a shared contour point sees consistent winding: once through a
// plain join, twice through a local maximum, never through a local minimum.
func (e *Edge) ScanlineIntersections(y float64) (x [3]float64, dy [3]int, n int) {
	if e.Type == EdgeLinear {
		y0, y1 := e.Points[0].Y, e.Points[1].Y
		switch {
		case y0 < y && y <= y1:
			dy[0] = 1
		case y1 < y && y <= y0:
			dy[0] = -1
		default:
			return
		}
		t := (y - y0) / (y1 - y0)
		x[0] = e.Points[0].X + t*(e.Points[1].X-e.Points[0].X)
		return x, dy, 1
	}

	// Split the curve into y-monotone runs at its vertical extrema.
	var splits [5]float64
	ns := 1
	switch e.Type {
	case EdgeQuadratic:
		d := e.Points[0].Y - 2*e.Points[1].Y + e.Points[2].Y
		if math.Abs(d) > 1e-14 {
			if t := (e.Points[0].Y - e.Points[1].Y) / d; t > 0 && t < 1 {
				splits[ns] = t
				ns++
			}
		}
	case EdgeCubic:
		ay := -e.Points[0].Y + 3*e.Points[1].Y - 3*e.Points[2].Y + e.Points[3].Y
		by := 2*e.Points[0].Y - 4*e.Points[1].Y + 2*e.Points[2].Y
		cy := -e.Points[0].Y + e.Points[1].Y
		for _, t := range solveQuadratic(ay, by, cy) {
			if t > 0 && t < 1 {
				splits[ns] = t
				ns++
			}
		}
		if ns == 3 && splits[1] > splits[2] {
			splits[1], splits[2] = splits[2], splits[1]
		}
	}
	splits[ns] = 1
	ns++

	for i := 0; i+1 < ns && n < 3; i++ {
		t0, t1 := splits[i], splits[i+1]
		y0, y1 := e.PointAt(t0).Y, e.PointAt(t1).Y
		switch {
		case y0 < y && y <= y1:
			dy[n] = 1
		case y1 < y && y <= y0:
			dy[n] = -1
		default:
			continue
		}
		x[n] = e.PointAt(e.bisectY(y, t0, t1, y0, y1)).X
		n++
	}
	return
}

// bisectY locates the parameter where the y-monotone stretch [t0, t1]
// crosses height y.
func (e *Edge) bisectY(y, t0, t1, y0, y1 float64) float64 {
	if y0 > y1 {
		t0, t1 = t1, t0
	}
	for i := 0; i < 30; i++ {
		tm := 0.5 * (t0 + t1)
		if e.PointAt(tm).Y < y {
			t0 = tm
		} else {
			t1 = tm
		}
	}
	return 0.5 * (t0 + t1)
}

// Reverse flips the edge's travel direction in place.
func (e *Edge) Reverse() {
	switch e.Type {
	case EdgeLinear:
		e.Points[0], e.Points[1] = e.Points[1], e.Points[0]
	case EdgeQuadratic:
		e.Points[0], e.Points[2] = e.Points[2], e.Points[0]
	case EdgeCubic:
		e.Points[0], e.Points[3] = e.Points[3], e.Points[0]
		e.Points[1], e.Points[2] = e.Points[2], e.Points[1]
	}
}

// splitAt subdivides the edge at parameter t using de Casteljau's scheme.
func (e *Edge) splitAt(t float64) (Edge, Edge) {
	switch e.Type {
	case EdgeLinear:
		m := e.Points[0].Lerp(e.Points[1], t)
		a := NewLinearEdge(e.Points[0], m)
		b := NewLinearEdge(m, e.Points[1])
		a.Color, b.Color = e.Color, e.Color
		return a, b
	case EdgeQuadratic:
		q0 := e.Points[0].Lerp(e.Points[1], t)
		q1 := e.Points[1].Lerp(e.Points[2], t)
		m := q0.Lerp(q1, t)
		a := NewQuadraticEdge(e.Points[0], q0, m)
		b := NewQuadraticEdge(m, q1, e.Points[2])
		a.Color, b.Color = e.Color, e.Color
		return a, b
	case EdgeCubic:
		q0 := e.Points[0].Lerp(e.Points[1], t)
		q1 := e.Points[1].Lerp(e.Points[2], t)
		q2 := e.Points[2].Lerp(e.Points[3], t)
		r0 := q0.Lerp(q1, t)
		r1 := q1.Lerp(q2, t)
		m := r0.Lerp(r1, t)
		a := NewCubicEdge(e.Points[0], q0, r0, m)
		b := NewCubicEdge(m, r1, q2, e.Points[3])
		a.Color, b.Color = e.Color, e.Color
		return a, b
	}
	return *e, *e
}

// SplitInThirds subdivides the edge into three parts covering parameter
// ranges [0, 1/3], [1/3, 2/3] and [2/3, 1]. Colors are preserved.
func (e *Edge) SplitInThirds() (Edge, Edge, Edge) {
	a, rest := e.splitAt(1.0 / 3.0)
	b, c := rest.splitAt(0.5)
	return a, b, c
}

// Bounds returns the bounding box of the edge.
func (e *Edge) Bounds() Rect {
	switch e.Type {
	case EdgeLinear:
		return linearBounds(e.Points[0], e.Points[1])
	case EdgeQuadratic:
		return quadraticBounds(e.Points[0], e.Points[1], e.Points[2])
	case EdgeCubic:
		return cubicBounds(e.Points[0], e.Points[1], e.Points[2], e.Points[3])
	default:
		return Rect{}
	}
}

// evaluateQuadratic evaluates a quadratic Bezier curve at parameter t.
func evaluateQuadratic(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	// B(t) = (1-t)^2*P0 + 2*(1-t)*t*P1 + t^2*P2
	return Point{
		u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// evaluateCubic evaluates a cubic Bezier curve at parameter t.
func evaluateCubic(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	u2 := u * u
	t2 := t * t
	// B(t) = (1-t)^3*P0 + 3*(1-t)^2*t*P1 + 3*(1-t)*t^2*P2 + t^3*P3
	return Point{
		u*u2*p0.X + 3*u2*t*p1.X + 3*u*t2*p2.X + t*t2*p3.X,
		u*u2*p0.Y + 3*u2*t*p1.Y + 3*u*t2*p2.Y + t*t2*p3.Y,
	}
}

// quadraticDerivative returns the derivative of a quadratic Bezier at t.
func quadraticDerivative(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	return Point{
		2*u*(p1.X-p0.X) + 2*t*(p2.X-p1.X),
		2*u*(p1.Y-p0.Y) + 2*t*(p2.Y-p1.Y),
	}
}

// cubicDerivative returns the derivative of a cubic Bezier at t.
func cubicDerivative(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	return Point{
		3*u*u*(p1.X-p0.X) + 6*u*t*(p2.X-p1.X) + 3*t*t*(p3.X-p2.X),
		3*u*u*(p1.Y-p0.Y) + 6*u*t*(p2.Y-p1.Y) + 3*t*t*(p3.Y-p2.Y),
	}
}

// cubicSecondDerivative returns the second derivative of a cubic Bezier at t.
func cubicSecondDerivative(p0, p1, p2, p3 Point, t float64) Point {
	a := p2.Sub(p1.Mul(2)).Add(p0)
	b := p3.Sub(p2.Mul(2)).Add(p1)
	u := 1 - t
	return a.Mul(6 * u).Add(b.Mul(6 * t))
}

// nonZeroSign returns +1 for positive values and -1 otherwise.
func nonZeroSign(x float64) float64 {
	if x > 0 {
		return 1
	}
	return -1
}

// linearSignedDistance calculates signed distance from point p to segment a-b.
// Distance is negative when p lies to the left of the travel direction.
func linearSignedDistance(a, b, p Point) (SignedDistance, float64) {
	ab := b.Sub(a)
	ap := p.Sub(a)

	abLenSq := ab.LengthSquared()
	if abLenSq == 0 {
		// Degenerate segment - both points are the same
		return NewSignedDistance(ap.Length(), 0), 0
	}

	param := ap.Dot(ab) / abLenSq

	ep := a
	if param > 0.5 {
		ep = b
	}
	eq := p.Sub(ep)
	endpointDist := eq.Length()

	if param > 0 && param < 1 {
		// Interior projection: use the perpendicular line distance
		ortho := ap.Cross(ab) / math.Sqrt(abLenSq)
		if math.Abs(ortho) < endpointDist {
			return NewSignedDistance(ortho, 0), param
		}
	}

	dist := -nonZeroSign(ab.Cross(ap)) * endpointDist
	dot := math.Abs(ab.Normalized().Dot(eq.Normalized()))
	return NewSignedDistance(dist, dot), param
}

// quadraticSignedDistance calculates signed distance from p to a quadratic
// Bezier. Candidate parameters are the endpoints plus the real roots of the
// cubic derivative of the squared distance.
func quadraticSignedDistance(p0, p1, p2, p Point) (SignedDistance, float64) {
	qa := p0.Sub(p)
	ab := p1.Sub(p0)
	br := p2.Sub(p1).Sub(ab)

	// d(dist^2)/dt = 0 is a cubic in t
	a := br.Dot(br)
	b := 3 * ab.Dot(br)
	c := 2*ab.Dot(ab) + qa.Dot(br)
	d := qa.Dot(ab)
	roots := solveCubic(a, b, c, d)

	// Distance from the start point
	dir0 := quadDirection(p0, p1, p2, 0)
	minDist := nonZeroSign(dir0.Cross(qa)) * qa.Length()
	param := p.Sub(p0).Dot(dir0) / dir0.Dot(dir0)

	// Distance from the end point
	dir1 := quadDirection(p0, p1, p2, 1)
	bq := p2.Sub(p)
	if dist := bq.Length(); dist < math.Abs(minDist) {
		minDist = nonZeroSign(dir1.Cross(bq)) * dist
		param = 1 + p.Sub(p2).Dot(dir1)/dir1.Dot(dir1)
	}

	// Interior candidates
	for _, t := range roots {
		if t > 0 && t < 1 {
			qe := qa.Add(ab.Mul(2 * t)).Add(br.Mul(t * t))
			if dist := qe.Length(); dist <= math.Abs(minDist) {
				minDist = nonZeroSign(ab.Add(br.Mul(t)).Cross(qe)) * dist
				param = t
			}
		}
	}

	if param >= 0 && param <= 1 {
		return NewSignedDistance(minDist, 0), param
	}
	if param < 0.5 {
		return NewSignedDistance(minDist, math.Abs(dir0.Normalized().Dot(qa.Normalized()))), param
	}
	return NewSignedDistance(minDist, math.Abs(dir1.Normalized().Dot(bq.Normalized()))), param
}

// quadDirection returns the tangent of a quadratic Bezier with a chord
// fallback for degenerate control points.
func quadDirection(p0, p1, p2 Point, t float64) Point {
	d := quadraticDerivative(p0, p1, p2, t)
	if d.LengthSquared() == 0 {
		return p2.Sub(p0)
	}
	return d
}

// cubicSignedDistance calculates signed distance from p to a cubic Bezier.
// The squared-distance derivative is quintic, so interior candidates come
// from sampled starts refined with Newton's method.
func cubicSignedDistance(e *Edge, p Point) (SignedDistance, float64) {
	p0, p1, p2, p3 := e.Points[0], e.Points[1], e.Points[2], e.Points[3]

	// Distance from the start point
	dir0 := e.DirectionAt(0)
	qa := p0.Sub(p)
	minDist := nonZeroSign(dir0.Cross(qa)) * qa.Length()
	param := p.Sub(p0).Dot(dir0) / dir0.Dot(dir0)

	// Distance from the end point
	dir1 := e.DirectionAt(1)
	bq := p3.Sub(p)
	if dist := bq.Length(); dist < math.Abs(minDist) {
		minDist = nonZeroSign(dir1.Cross(bq)) * dist
		param = 1 + p.Sub(p3).Dot(dir1)/dir1.Dot(dir1)
	}

	// Interior candidates: sampled starting points with Newton refinement
	const searchStarts = 8
	for i := 0; i <= searchStarts; i++ {
		t := newtonRefineCubic(p0, p1, p2, p3, p, float64(i)/searchStarts)
		if t > 0 && t < 1 {
			qe := evaluateCubic(p0, p1, p2, p3, t).Sub(p)
			if dist := qe.Length(); dist <= math.Abs(minDist) {
				minDist = nonZeroSign(cubicDerivative(p0, p1, p2, p3, t).Cross(qe)) * dist
				param = t
			}
		}
	}

	if param >= 0 && param <= 1 {
		return NewSignedDistance(minDist, 0), param
	}
	if param < 0.5 {
		return NewSignedDistance(minDist, math.Abs(dir0.Normalized().Dot(qa.Normalized()))), param
	}
	return NewSignedDistance(minDist, math.Abs(dir1.Normalized().Dot(bq.Normalized()))), param
}

// newtonRefineCubic refines a parameter t using Newton's method on the
// derivative of the squared distance.
func newtonRefineCubic(p0, p1, p2, p3, p Point, t float64) float64 {
	const maxIter = 8
	const epsilon = 1e-10

	for i := 0; i < maxIter; i++ {
		pt := evaluateCubic(p0, p1, p2, p3, t)
		diff := pt.Sub(p)

		d1 := cubicDerivative(p0, p1, p2, p3, t)
		d2 := cubicSecondDerivative(p0, p1, p2, p3, t)

		// f(t) = diff.Dot(d1), f'(t) = d1.Dot(d1) + diff.Dot(d2)
		f := diff.Dot(d1)
		fp := d1.Dot(d1) + diff.Dot(d2)

		if math.Abs(fp) < epsilon {
			break
		}

		dt := -f / fp
		if math.Abs(dt) < epsilon {
			break
		}

		t += dt
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	return t
}

// solveCubic solves a*x^3 + b*x^2 + c*x + d = 0.
// Returns real roots in [0, 1].
func solveCubic(a, b, c, d float64) []float64 {
	// Degenerate case: quadratic
	if math.Abs(a) < 1e-14 {
		return solveQuadratic(b, c, d)
	}
	return solveCubicCardano(a, b, c, d)
}

// solveCubicCardano uses Cardano's method to solve a cubic equation.
func solveCubicCardano(a, b, c, d float64) []float64 {
	// Normalize coefficients
	b /= a
	c /= a
	d /= a

	// Depress the cubic
	p := c - b*b/3
	q := d - b*c/3 + 2*b*b*b/27
	discriminant := q*q/4 + p*p*p/27

	switch {
	case discriminant > 1e-14:
		return solveCubicOneRoot(q, discriminant, b)
	case discriminant < -1e-14:
		return solveCubicThreeRoots(p, q, b)
	default:
		return solveCubicRepeatedRoots(q, b)
	}
}

// solveCubicOneRoot handles the case with one real root.
func solveCubicOneRoot(q, discriminant, b float64) []float64 {
	var roots []float64
	sqrtD := math.Sqrt(discriminant)
	u := math.Cbrt(-q/2 + sqrtD)
	v := math.Cbrt(-q/2 - sqrtD)
	root := u + v - b/3
	if root >= 0 && root <= 1 {
		roots = append(roots, root)
	}
	return roots
}

// solveCubicThreeRoots handles the case with three real roots.
func solveCubicThreeRoots(p, q, b float64) []float64 {
	var roots []float64
	r := math.Sqrt(-p * p * p / 27)
	phi := math.Acos(-q / (2 * r))
	cubeRootR := math.Cbrt(r)

	for k := 0; k < 3; k++ {
		root := 2*cubeRootR*math.Cos((phi+float64(2*k)*math.Pi)/3) - b/3
		if root >= 0 && root <= 1 {
			roots = append(roots, root)
		}
	}
	return roots
}

// solveCubicRepeatedRoots handles the case with repeated roots.
func solveCubicRepeatedRoots(q, b float64) []float64 {
	var roots []float64
	u := math.Cbrt(-q / 2)
	root1 := 2*u - b/3
	root2 := -u - b/3

	if root1 >= 0 && root1 <= 1 {
		roots = append(roots, root1)
	}
	if root2 >= 0 && root2 <= 1 && math.Abs(root1-root2) > 1e-10 {
		roots = append(roots, root2)
	}
	return roots
}

// solveQuadratic solves a*x^2 + b*x + c = 0.
// Returns real roots in [0, 1].
func solveQuadratic(a, b, c float64) []float64 {
	// Degenerate case: linear
	if math.Abs(a) < 1e-14 {
		return solveLinear(b, c)
	}

	var roots []float64
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return roots
	}

	sqrtD := math.Sqrt(discriminant)
	root1 := (-b + sqrtD) / (2 * a)
	root2 := (-b - sqrtD) / (2 * a)

	if root1 >= 0 && root1 <= 1 {
		roots = append(roots, root1)
	}
	if root2 >= 0 && root2 <= 1 && math.Abs(root1-root2) > 1e-10 {
		roots = append(roots, root2)
	}
	return roots
}

// solveLinear solves b*x + c = 0.
func solveLinear(b, c float64) []float64 {
	var roots []float64
	if math.Abs(b) >= 1e-14 {
		root := -c / b
		if root >= 0 && root <= 1 {
			roots = append(roots, root)
		}
	}
	return roots
}

// linearBounds returns the bounding box of a line segment.
func linearBounds(a, b Point) Rect {
	return Rect{
		MinX: min(a.X, b.X),
		MinY: min(a.Y, b.Y),
		MaxX: max(a.X, b.X),
		MaxY: max(a.Y, b.Y),
	}
}

// quadraticBounds returns the bounding box of a quadratic Bezier.
func quadraticBounds(p0, p1, p2 Point) Rect {
	bounds := linearBounds(p0, p2)

	// Extrema where B'(t) = 0: t = (p0-p1)/(p0-2*p1+p2) per axis
	dx := p0.X - 2*p1.X + p2.X
	if math.Abs(dx) > 1e-10 {
		t := (p0.X - p1.X) / dx
		if t > 0 && t < 1 {
			x := evaluateQuadratic(p0, p1, p2, t).X
			bounds.MinX = min(bounds.MinX, x)
			bounds.MaxX = max(bounds.MaxX, x)
		}
	}

	dy := p0.Y - 2*p1.Y + p2.Y
	if math.Abs(dy) > 1e-10 {
		t := (p0.Y - p1.Y) / dy
		if t > 0 && t < 1 {
			y := evaluateQuadratic(p0, p1, p2, t).Y
			bounds.MinY = min(bounds.MinY, y)
			bounds.MaxY = max(bounds.MaxY, y)
		}
	}

	return bounds
}

// cubicBounds returns the bounding box of a cubic Bezier.
func cubicBounds(p0, p1, p2, p3 Point) Rect {
	bounds := linearBounds(p0, p3)

	// B'(t) is quadratic per axis; include its roots
	ax := -p0.X + 3*p1.X - 3*p2.X + p3.X
	bx := 2*p0.X - 4*p1.X + 2*p2.X
	cx := -p0.X + p1.X

	for _, t := range solveQuadratic(ax, bx, cx) {
		if t > 0 && t < 1 {
			x := evaluateCubic(p0, p1, p2, p3, t).X
			bounds.MinX = min(bounds.MinX, x)
			bounds.MaxX = max(bounds.MaxX, x)
		}
	}

	ay := -p0.Y + 3*p1.Y - 3*p2.Y + p3.Y
	by := 2*p0.Y - 4*p1.Y + 2*p2.Y
	cy := -p0.Y + p1.Y

	for _, t := range solveQuadratic(ay, by, cy) {
		if t > 0 && t < 1 {
			y := evaluateCubic(p0, p1, p2, p3, t).Y
			bounds.MinY = min(bounds.MinY, y)
			bounds.MaxY = max(bounds.MaxY, y)
		}
	}

	return bounds
}
