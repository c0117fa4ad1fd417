package msdf

import (
	"math"
	"testing"
)

func almostEqualPoint(a, b Point, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

// sampledDistance approximates the unsigned distance from p to the edge by
// dense sampling, as a reference for the analytic solvers.
func sampledDistance(e *Edge, p Point, steps int) float64 {
	best := math.Inf(1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if d := e.PointAt(t).Sub(p).Length(); d < best {
			best = d
		}
	}
	return best
}

func TestEdgePointAt(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		t    float64
		want Point
	}{
		{"linear start", NewLinearEdge(Point{0, 0}, Point{2, 4}), 0, Point{0, 0}},
		{"linear end", NewLinearEdge(Point{0, 0}, Point{2, 4}), 1, Point{2, 4}},
		{"linear mid", NewLinearEdge(Point{0, 0}, Point{2, 4}), 0.5, Point{1, 2}},
		{"quadratic start", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}), 0, Point{0, 0}},
		{"quadratic end", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}), 1, Point{2, 0}},
		{"quadratic mid", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}), 0.5, Point{1, 1}},
		{"cubic start", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0}), 0, Point{0, 0}},
		{"cubic end", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0}), 1, Point{3, 0}},
		{"cubic mid", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0}), 0.5, Point{1.5, 0.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.edge.PointAt(tt.t)
			if !almostEqualPoint(got, tt.want, 1e-12) {
				t.Errorf("PointAt(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestEdgeDirectionAt(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		t    float64
		want Point // direction only, compared normalized
	}{
		{"linear", NewLinearEdge(Point{0, 0}, Point{2, 4}), 0.3, Point{1, 2}},
		{"quadratic start", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}), 0, Point{1, 2}},
		{"quadratic apex", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}), 0.5, Point{1, 0}},
		{"quadratic degenerate start", NewQuadraticEdge(Point{0, 0}, Point{0, 0}, Point{2, 2}), 0, Point{2, 2}},
		{"cubic start", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0}), 0, Point{1, 1}},
		{"cubic degenerate start", NewCubicEdge(Point{0, 0}, Point{0, 0}, Point{2, 2}, Point{3, 3}), 0, Point{2, 2}},
		{"cubic degenerate end", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{3, 3}, Point{3, 3}), 1, Point{2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.edge.DirectionAt(tt.t).Normalized()
			want := tt.want.Normalized()
			if !almostEqualPoint(got, want, 1e-12) {
				t.Errorf("DirectionAt(%v) = %v, want direction %v", tt.t, got, want)
			}
		})
	}
}

func TestLinearSignedDistance(t *testing.T) {
	edge := NewLinearEdge(Point{0, 0}, Point{2, 0})

	tests := []struct {
		name     string
		p        Point
		wantDist float64
		// wantParam bounds; the parameter may be a pseudo-projection
		// beyond the endpoints.
		paramMin, paramMax float64
	}{
		{"left of travel is negative", Point{1, 1}, -1, 0.4, 0.6},
		{"right of travel is positive", Point{1, -1}, 1, 0.4, 0.6},
		{"beyond end", Point{3, 1}, -math.Sqrt2, 1.1, 2},
		{"beyond start", Point{-1, -1}, math.Sqrt2, -1, -0.1},
		{"on the segment", Point{0.5, 0}, 0, 0.2, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd, param := edge.SignedDistance(tt.p)
			if math.Abs(sd.Distance-tt.wantDist) > 1e-12 {
				t.Errorf("SignedDistance(%v) = %v, want %v", tt.p, sd.Distance, tt.wantDist)
			}
			if param < tt.paramMin || param > tt.paramMax {
				t.Errorf("param = %v, want in [%v, %v]", param, tt.paramMin, tt.paramMax)
			}
		})
	}
}

func TestSignedDistanceReversedEdgeFlipsSign(t *testing.T) {
	edges := []Edge{
		NewLinearEdge(Point{0, 0}, Point{2, 0}),
		NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}),
		NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0}),
	}
	points := []Point{{1, 0.25}, {1, 3}, {1.5, -1}, {-0.5, 0.5}}
	for _, e := range edges {
		rev := e
		rev.Reverse()
		for _, p := range points {
			sd, _ := e.SignedDistance(p)
			rd, _ := rev.SignedDistance(p)
			if math.Abs(sd.Distance+rd.Distance) > 1e-9 {
				t.Errorf("%v at %v: distance %v, reversed %v, want opposite signs",
					e.Type, p, sd.Distance, rd.Distance)
			}
		}
	}
}

func TestCurveSignedDistanceMagnitude(t *testing.T) {
	edges := []struct {
		name string
		edge Edge
	}{
		{"quadratic", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})},
		{"cubic arch", NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0})},
		{"cubic wiggle", NewCubicEdge(Point{0, 0}, Point{1, 2}, Point{2, -2}, Point{3, 0})},
	}
	points := []Point{
		{1, 0.5}, {1, 1.5}, {0.5, -0.5}, {2.5, 0.25},
		{-0.5, 0}, {3.5, 0.5}, {1.5, 0}, {0, 2},
	}
	for _, tc := range edges {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range points {
				sd, _ := tc.edge.SignedDistance(p)
				ref := sampledDistance(&tc.edge, p, 5000)
				if math.Abs(math.Abs(sd.Distance)-ref) > 2e-3 {
					t.Errorf("at %v: |distance| = %v, sampled %v", p, math.Abs(sd.Distance), ref)
				}
			}
		})
	}
}

func TestQuadraticSignedDistanceSign(t *testing.T) {
	// Arch from (0,0) over (1,1) to (2,0); above the curve is left of
	// travel, hence negative.
	edge := NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})

	if sd, _ := edge.SignedDistance(Point{1, 1.5}); sd.Distance >= 0 {
		t.Errorf("above arch: distance = %v, want negative", sd.Distance)
	}
	if sd, _ := edge.SignedDistance(Point{1, 0.5}); sd.Distance <= 0 {
		t.Errorf("below arch: distance = %v, want positive", sd.Distance)
	}
}

func TestCubicSignedDistanceParamBeyondEnd(t *testing.T) {
	edge := NewCubicEdge(Point{0, 0}, Point{1, 1}, Point{2, 1}, Point{3, 0})
	_, param := edge.SignedDistance(Point{4, 0})
	if param <= 1 {
		t.Errorf("param = %v, want > 1 for a point beyond the end", param)
	}
	_, param = edge.SignedDistance(Point{-1, 0})
	if param >= 0 {
		t.Errorf("param = %v, want < 0 for a point before the start", param)
	}
}

func TestPerpendicularDistance(t *testing.T) {
	edge := NewLinearEdge(Point{0, 0}, Point{2, 0})

	// Beyond the end: the true distance rounds around the endpoint, the
	// perpendicular distance extends the edge.
	p := Point{3, 1}
	sd, param := edge.SignedDistance(p)
	edge.PerpendicularDistance(&sd, p, param)
	if math.Abs(sd.Distance-(-1)) > 1e-12 {
		t.Errorf("perpendicular distance beyond end = %v, want -1", sd.Distance)
	}
	if sd.Dot != 0 {
		t.Errorf("Dot = %v, want 0 after perpendicular replacement", sd.Dot)
	}

	// Beyond the start, below the line.
	p = Point{-1, -1}
	sd, param = edge.SignedDistance(p)
	edge.PerpendicularDistance(&sd, p, param)
	if math.Abs(sd.Distance-1) > 1e-12 {
		t.Errorf("perpendicular distance beyond start = %v, want 1", sd.Distance)
	}

	// Interior projections stay untouched.
	p = Point{1, 0.5}
	sd, param = edge.SignedDistance(p)
	before := sd
	edge.PerpendicularDistance(&sd, p, param)
	if sd != before {
		t.Errorf("interior point modified: %+v, want %+v", sd, before)
	}
}

func TestScanlineIntersectionsLinear(t *testing.T) {
	tests := []struct {
		name   string
		edge   Edge
		y      float64
		wantN  int
		wantDy int
		wantX  float64
	}{
		{"upward crossing", NewLinearEdge(Point{0, 0}, Point{2, 4}), 2, 1, 1, 1},
		{"downward crossing", NewLinearEdge(Point{0, 4}, Point{2, 0}), 2, 1, -1, 1},
		{"top endpoint counts", NewLinearEdge(Point{0, 0}, Point{2, 4}), 4, 1, 1, 2},
		{"bottom endpoint does not", NewLinearEdge(Point{0, 0}, Point{2, 4}), 0, 0, 0, 0},
		{"below edge", NewLinearEdge(Point{0, 0}, Point{2, 4}), -1, 0, 0, 0},
		{"above edge", NewLinearEdge(Point{0, 0}, Point{2, 4}), 5, 0, 0, 0},
		{"horizontal edge", NewLinearEdge(Point{0, 1}, Point{2, 1}), 1, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, dy, n := tt.edge.ScanlineIntersections(tt.y)
			if n != tt.wantN {
				t.Fatalf("n = %d, want %d", n, tt.wantN)
			}
			if n == 0 {
				return
			}
			if dy[0] != tt.wantDy {
				t.Errorf("dy = %d, want %d", dy[0], tt.wantDy)
			}
			if math.Abs(x[0]-tt.wantX) > 1e-9 {
				t.Errorf("x = %v, want %v", x[0], tt.wantX)
			}
		})
	}
}

func TestScanlineIntersectionsQuadraticApex(t *testing.T) {
	// Parabola from (0,0) over apex (1,1) to (2,0).
	edge := NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})

	// Through the middle: one rising and one falling crossing.
	x, dy, n := edge.ScanlineIntersections(0.5)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if dy[0] != 1 || dy[1] != -1 {
		t.Errorf("dy = %v, want [1 -1]", dy[:2])
	}
	if !(x[0] < 1 && x[1] > 1) {
		t.Errorf("x = %v, want one crossing each side of the apex", x[:2])
	}

	// Exactly through the apex: the local maximum counts twice, keeping
	// the winding zero on both sides.
	x, dy, n = edge.ScanlineIntersections(1)
	if n != 2 {
		t.Fatalf("apex: n = %d, want 2", n)
	}
	if dy[0]+dy[1] != 0 {
		t.Errorf("apex: dy = %v, want net zero", dy[:2])
	}
	if math.Abs(x[0]-1) > 1e-6 || math.Abs(x[1]-1) > 1e-6 {
		t.Errorf("apex: x = %v, want both near 1", x[:2])
	}

	// Exactly through the endpoints: the local minimum never counts.
	_, _, n = edge.ScanlineIntersections(0)
	if n != 0 {
		t.Errorf("base: n = %d, want 0", n)
	}
}

func TestScanlineIntersectionsCubic(t *testing.T) {
	// S-curve crossing y=0 once in the interior and ending on it.
	edge := NewCubicEdge(Point{0, 0}, Point{1, 2}, Point{2, -2}, Point{3, 0})

	x, dy, n := edge.ScanlineIntersections(0)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if dy[0]+dy[1] != 0 {
		t.Errorf("dy = %v, want net zero", dy[:2])
	}
	if math.Abs(x[0]-1.5) > 1e-6 {
		t.Errorf("x[0] = %v, want 1.5 (interior crossing)", x[0])
	}
	if math.Abs(x[1]-3) > 1e-6 {
		t.Errorf("x[1] = %v, want 3 (rising into the top endpoint)", x[1])
	}

	// Between the extrema the crossings still cancel.
	if _, dy, n := edge.ScanlineIntersections(0.3); n != 2 || dy[0]+dy[1] != 0 {
		t.Errorf("y=0.3: n = %d, dy = %v, want 2 crossings with net zero", n, dy[:2])
	}
	// Beyond the extrema there are none.
	if _, _, n := edge.ScanlineIntersections(1); n != 0 {
		t.Errorf("y=1: n = %d, want 0", n)
	}
	if _, _, n := edge.ScanlineIntersections(-3); n != 0 {
		t.Errorf("y=-3: n = %d, want 0", n)
	}
}

func TestEdgeSplitInThirds(t *testing.T) {
	edges := []struct {
		name string
		edge Edge
	}{
		{"linear", NewLinearEdge(Point{0, 0}, Point{3, 6})},
		{"quadratic", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})},
		{"cubic", NewCubicEdge(Point{0, 0}, Point{1, 2}, Point{2, -2}, Point{3, 0})},
	}
	for _, tc := range edges {
		t.Run(tc.name, func(t *testing.T) {
			p1, p2, p3 := tc.edge.SplitInThirds()
			parts := [3]Edge{p1, p2, p3}

			// The chain is connected and spans the original curve.
			if !almostEqualPoint(p1.StartPoint(), tc.edge.StartPoint(), 1e-12) {
				t.Errorf("first part starts at %v, want %v", p1.StartPoint(), tc.edge.StartPoint())
			}
			if !almostEqualPoint(p3.EndPoint(), tc.edge.EndPoint(), 1e-12) {
				t.Errorf("last part ends at %v, want %v", p3.EndPoint(), tc.edge.EndPoint())
			}
			if !almostEqualPoint(p1.EndPoint(), p2.StartPoint(), 1e-12) ||
				!almostEqualPoint(p2.EndPoint(), p3.StartPoint(), 1e-12) {
				t.Error("parts are not connected")
			}

			// Every point of each part lies on the original curve.
			for i := range parts {
				for s := 0; s <= 10; s++ {
					tp := float64(s) / 10
					got := parts[i].PointAt(tp)
					want := tc.edge.PointAt((float64(i) + tp) / 3)
					if !almostEqualPoint(got, want, 1e-9) {
						t.Errorf("part %d at t=%v: %v, want %v", i, tp, got, want)
					}
				}
			}
		})
	}
}

func TestEdgeBounds(t *testing.T) {
	edges := []struct {
		name string
		edge Edge
	}{
		{"linear", NewLinearEdge(Point{0, 0}, Point{3, 6})},
		{"quadratic apex", NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})},
		{"cubic wiggle", NewCubicEdge(Point{0, 0}, Point{1, 2}, Point{2, -2}, Point{3, 0})},
	}
	for _, tc := range edges {
		t.Run(tc.name, func(t *testing.T) {
			bounds := tc.edge.Bounds()
			for i := 0; i <= 256; i++ {
				p := tc.edge.PointAt(float64(i) / 256)
				if p.X < bounds.MinX-1e-9 || p.X > bounds.MaxX+1e-9 ||
					p.Y < bounds.MinY-1e-9 || p.Y > bounds.MaxY+1e-9 {
					t.Fatalf("point %v outside bounds %+v", p, bounds)
				}
			}
		})
	}

	// Bounds are tight at curve extrema, not at control points.
	apex := NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0})
	if b := apex.Bounds(); math.Abs(b.MaxY-1) > 1e-9 {
		t.Errorf("apex MaxY = %v, want 1 (control point is at 2)", b.MaxY)
	}
}

func TestEdgeReverse(t *testing.T) {
	edges := []Edge{
		NewLinearEdge(Point{0, 0}, Point{2, 4}),
		NewQuadraticEdge(Point{0, 0}, Point{1, 2}, Point{2, 0}),
		NewCubicEdge(Point{0, 0}, Point{1, 2}, Point{2, -2}, Point{3, 0}),
	}
	for _, e := range edges {
		rev := e
		rev.Reverse()
		for i := 0; i <= 8; i++ {
			tp := float64(i) / 8
			got := rev.PointAt(tp)
			want := e.PointAt(1 - tp)
			if !almostEqualPoint(got, want, 1e-12) {
				t.Errorf("%v reversed at t=%v: %v, want %v", e.Type, tp, got, want)
			}
		}
	}
}

func TestEdgeColorChannels(t *testing.T) {
	tests := []struct {
		color   EdgeColor
		r, g, b bool
	}{
		{ColorBlack, false, false, false},
		{ColorRed, true, false, false},
		{ColorYellow, true, true, false},
		{ColorCyan, false, true, true},
		{ColorMagenta, true, false, true},
		{ColorWhite, true, true, true},
	}
	for _, tt := range tests {
		if tt.color.HasRed() != tt.r || tt.color.HasGreen() != tt.g || tt.color.HasBlue() != tt.b {
			t.Errorf("%v: channels (%v, %v, %v), want (%v, %v, %v)", tt.color,
				tt.color.HasRed(), tt.color.HasGreen(), tt.color.HasBlue(), tt.r, tt.g, tt.b)
		}
		for n := 0; n < 3; n++ {
			want := [3]bool{tt.r, tt.g, tt.b}[n]
			if got := tt.color.HasChannel(n); got != want {
				t.Errorf("%v.HasChannel(%d) = %v, want %v", tt.color, n, got, want)
			}
		}
	}
}
