package msdf

import (
	"fmt"
	"math"
)

// GeneratorConfig controls how distances are evaluated.
type GeneratorConfig struct {
	// OverlapSupport resolves self-overlapping contours by combining
	// per-contour distances according to their windings. Without it,
	// overlapping regions cancel under the nearest-edge rule.
	OverlapSupport bool
}

// perpSelector accumulates distances to a set of edges. The nearest true
// distance decides the sign, the nearest perpendicular distance of that
// sign supplies the magnitude.
type perpSelector struct {
	trueDist SignedDistance
	minNeg   float64
	minPos   float64
}

func newPerpSelector() perpSelector {
	return perpSelector{trueDist: Infinite(), minNeg: math.Inf(-1), minPos: math.Inf(1)}
}

func (s *perpSelector) add(sd SignedDistance, pd float64) {
	if sd.IsCloserThan(s.trueDist) {
		s.trueDist = sd
	}
	if pd <= 0 && pd > s.minNeg {
		s.minNeg = pd
	}
	if pd > 0 && pd < s.minPos {
		s.minPos = pd
	}
}

// trueDistance resolves to the plain signed distance.
func (s *perpSelector) trueDistance() float64 {
	return s.trueDist.Distance
}

// perpDistance resolves to the perpendicular distance on the side the
// true distance lies on.
func (s *perpSelector) perpDistance() float64 {
	d := s.minPos
	if s.trueDist.Distance < 0 {
		d = s.minNeg
	}
	if math.IsInf(d, 0) {
		return s.trueDist.Distance
	}
	return d
}

// multiDistance carries one distance per output channel. A holds the true
// distance for four-channel fields.
type multiDistance struct {
	R, G, B, A float64
}

// resolve collapses the channels into the distance a consumer would
// reconstruct.
func (d multiDistance) resolve() float64 {
	return median(d.R, d.G, d.B)
}

// multiSelector accumulates per-channel perpendicular distances, with
// each edge contributing only to the channels in its color.
type multiSelector struct {
	r, g, b  perpSelector
	trueDist SignedDistance
}

func newMultiSelector() multiSelector {
	return multiSelector{
		r:        newPerpSelector(),
		g:        newPerpSelector(),
		b:        newPerpSelector(),
		trueDist: Infinite(),
	}
}

func (ms *multiSelector) add(color EdgeColor, sd SignedDistance, pd float64) {
	if sd.IsCloserThan(ms.trueDist) {
		ms.trueDist = sd
	}
	if color.HasRed() {
		ms.r.add(sd, pd)
	}
	if color.HasGreen() {
		ms.g.add(sd, pd)
	}
	if color.HasBlue() {
		ms.b.add(sd, pd)
	}
}

func (ms *multiSelector) distance() multiDistance {
	return multiDistance{
		R: ms.r.perpDistance(),
		G: ms.g.perpDistance(),
		B: ms.b.perpDistance(),
		A: ms.trueDist.Distance,
	}
}

// edgeDistances computes the true and perpendicular distances from p to
// the edge in one pass.
func edgeDistances(e *Edge, p Point) (sd SignedDistance, pd float64) {
	sd, param := e.SignedDistance(p)
	conv := sd
	e.PerpendicularDistance(&conv, p, param)
	return sd, conv.Distance
}

// evalScalarSimple is the nearest-edge distance over the whole shape.
func evalScalarSimple(shape *Shape, p Point, perpendicular bool) float64 {
	sel := newPerpSelector()
	for ci := range shape.Contours {
		for ei := range shape.Contours[ci].Edges {
			sd, pd := edgeDistances(&shape.Contours[ci].Edges[ei], p)
			sel.add(sd, pd)
		}
	}
	if perpendicular {
		return sel.perpDistance()
	}
	return sel.trueDistance()
}

// evalScalarOverlapping combines per-contour distances by winding so that
// overlapping outlines behave as their union. Outer contours have
// positive winding, holes negative.
func evalScalarOverlapping(shape *Shape, p Point, perpendicular bool, windings []int, sels []perpSelector) float64 {
	shapeSel, innerSel, outerSel := newPerpSelector(), newPerpSelector(), newPerpSelector()
	for ci := range shape.Contours {
		sels[ci] = newPerpSelector()
		for ei := range shape.Contours[ci].Edges {
			sd, pd := edgeDistances(&shape.Contours[ci].Edges[ei], p)
			sels[ci].add(sd, pd)
			shapeSel.add(sd, pd)
			if windings[ci] > 0 {
				innerSel.add(sd, pd)
			} else if windings[ci] < 0 {
				outerSel.add(sd, pd)
			}
		}
	}
	resolve := (*perpSelector).trueDistance
	if perpendicular {
		resolve = (*perpSelector).perpDistance
	}

	shapeDist := resolve(&shapeSel)
	innerDist := resolve(&innerSel)
	outerDist := resolve(&outerSel)

	var dist float64
	winding := 0
	switch {
	case innerDist <= 0 && math.Abs(innerDist) <= math.Abs(outerDist):
		// Inside some outer contour and no hole is closer.
		dist = innerDist
		winding = 1
		for ci := range shape.Contours {
			if windings[ci] <= 0 {
				continue
			}
			if cd := resolve(&sels[ci]); math.Abs(cd) < math.Abs(outerDist) && cd < dist {
				dist = cd
			}
		}
	case outerDist >= 0 && math.Abs(outerDist) < math.Abs(innerDist):
		// Inside some hole.
		dist = outerDist
		winding = -1
		for ci := range shape.Contours {
			if windings[ci] >= 0 {
				continue
			}
			if cd := resolve(&sels[ci]); math.Abs(cd) < math.Abs(innerDist) && cd > dist {
				dist = cd
			}
		}
	default:
		return shapeDist
	}
	for ci := range shape.Contours {
		if windings[ci] == winding {
			continue
		}
		if cd := resolve(&sels[ci]); cd*dist >= 0 && math.Abs(cd) < math.Abs(dist) {
			dist = cd
		}
	}
	return dist
}

// evalMultiSimple is the per-channel nearest-edge distance over the shape.
func evalMultiSimple(shape *Shape, p Point) multiDistance {
	sel := newMultiSelector()
	for ci := range shape.Contours {
		for ei := range shape.Contours[ci].Edges {
			e := &shape.Contours[ci].Edges[ei]
			sd, pd := edgeDistances(e, p)
			sel.add(e.Color, sd, pd)
		}
	}
	return sel.distance()
}

// evalMultiOverlapping is the winding-aware combination of per-contour
// channel distances.
func evalMultiOverlapping(shape *Shape, p Point, windings []int, sels []multiSelector) multiDistance {
	shapeSel, innerSel, outerSel := newMultiSelector(), newMultiSelector(), newMultiSelector()
	for ci := range shape.Contours {
		sels[ci] = newMultiSelector()
		for ei := range shape.Contours[ci].Edges {
			e := &shape.Contours[ci].Edges[ei]
			sd, pd := edgeDistances(e, p)
			sels[ci].add(e.Color, sd, pd)
			shapeSel.add(e.Color, sd, pd)
			if windings[ci] > 0 {
				innerSel.add(e.Color, sd, pd)
			} else if windings[ci] < 0 {
				outerSel.add(e.Color, sd, pd)
			}
		}
	}

	shapeDist := shapeSel.distance()
	innerDist := innerSel.distance()
	outerDist := outerSel.distance()
	innerScalar := innerDist.resolve()
	outerScalar := outerDist.resolve()

	var dist multiDistance
	winding := 0
	switch {
	case innerScalar <= 0 && math.Abs(innerScalar) <= math.Abs(outerScalar):
		dist = innerDist
		winding = 1
		for ci := range shape.Contours {
			if windings[ci] <= 0 {
				continue
			}
			cd := sels[ci].distance()
			if math.Abs(cd.resolve()) < math.Abs(outerScalar) && cd.resolve() < dist.resolve() {
				dist = cd
			}
		}
	case outerScalar >= 0 && math.Abs(outerScalar) < math.Abs(innerScalar):
		dist = outerDist
		winding = -1
		for ci := range shape.Contours {
			if windings[ci] >= 0 {
				continue
			}
			cd := sels[ci].distance()
			if math.Abs(cd.resolve()) < math.Abs(innerScalar) && cd.resolve() > dist.resolve() {
				dist = cd
			}
		}
	default:
		return shapeDist
	}
	for ci := range shape.Contours {
		if windings[ci] == winding {
			continue
		}
		cd := sels[ci].distance()
		if cd.resolve()*dist.resolve() >= 0 && math.Abs(cd.resolve()) < math.Abs(dist.resolve()) {
			dist = cd
		}
	}
	// When the winner matches the whole-shape median, prefer the
	// whole-shape channels, which are consistent across contours.
	if dist.resolve() == shapeDist.resolve() {
		dist = shapeDist
	}
	return dist
}

// contourWindings caches the winding of each contour.
func contourWindings(shape *Shape) []int {
	windings := make([]int, len(shape.Contours))
	for i := range shape.Contours {
		windings[i] = shape.Contours[i].Winding()
	}
	return windings
}

// generateScalar renders a one channel field, true or perpendicular.
func generateScalar(output *Bitmap, shape *Shape, proj Projection, rng Range, perpendicular bool, cfg GeneratorConfig) {
	var windings []int
	var sels []perpSelector
	if cfg.OverlapSupport {
		windings = contourWindings(shape)
		sels = make([]perpSelector, len(shape.Contours))
	}
	for y := 0; y < output.Height; y++ {
		py := proj.UnprojectY(float64(y) + 0.5)
		for x := 0; x < output.Width; x++ {
			p := Point{proj.UnprojectX(float64(x) + 0.5), py}
			var d float64
			if cfg.OverlapSupport {
				d = evalScalarOverlapping(shape, p, perpendicular, windings, sels)
			} else {
				d = evalScalarSimple(shape, p, perpendicular)
			}
			output.Pixel(x, y)[0] = float32(rng.Normalize(d))
		}
	}
}

// generateMulti renders a three or four channel field.
func generateMulti(output *Bitmap, shape *Shape, proj Projection, rng Range, cfg GeneratorConfig) {
	var windings []int
	var sels []multiSelector
	if cfg.OverlapSupport {
		windings = contourWindings(shape)
		sels = make([]multiSelector, len(shape.Contours))
	}
	for y := 0; y < output.Height; y++ {
		py := proj.UnprojectY(float64(y) + 0.5)
		for x := 0; x < output.Width; x++ {
			p := Point{proj.UnprojectX(float64(x) + 0.5), py}
			var d multiDistance
			if cfg.OverlapSupport {
				d = evalMultiOverlapping(shape, p, windings, sels)
			} else {
				d = evalMultiSimple(shape, p)
			}
			px := output.Pixel(x, y)
			px[0] = float32(rng.Normalize(d.R))
			px[1] = float32(rng.Normalize(d.G))
			px[2] = float32(rng.Normalize(d.B))
			if output.Channels == 4 {
				px[3] = float32(rng.Normalize(d.A))
			}
		}
	}
}

// GenerateSDF renders the true signed distance field of the shape.
func GenerateSDF(output *Bitmap, shape *Shape, proj Projection, rng Range, cfg GeneratorConfig) error {
	if output.Channels != 1 {
		return fmt.Errorf("sdf output: %w (want 1, got %d)", ErrChannelMismatch, output.Channels)
	}
	generateScalar(output, shape, proj, rng, false, cfg)
	return nil
}

// GeneratePSDF renders the perpendicular signed distance field of the
// shape. Corners stay sharp at the cost of distances that are only exact
// near the outline.
func GeneratePSDF(output *Bitmap, shape *Shape, proj Projection, rng Range, cfg GeneratorConfig) error {
	if output.Channels != 1 {
		return fmt.Errorf("psdf output: %w (want 1, got %d)", ErrChannelMismatch, output.Channels)
	}
	generateScalar(output, shape, proj, rng, true, cfg)
	return nil
}

// GenerateMSDF renders the multi-channel signed distance field of the
// shape. Edges must be colored first.
func GenerateMSDF(output *Bitmap, shape *Shape, proj Projection, rng Range, cfg GeneratorConfig) error {
	if output.Channels != 3 {
		return fmt.Errorf("msdf output: %w (want 3, got %d)", ErrChannelMismatch, output.Channels)
	}
	generateMulti(output, shape, proj, rng, cfg)
	return nil
}

// GenerateMTSDF renders the multi-channel field with the true distance in
// the fourth channel. Edges must be colored first.
func GenerateMTSDF(output *Bitmap, shape *Shape, proj Projection, rng Range, cfg GeneratorConfig) error {
	if output.Channels != 4 {
		return fmt.Errorf("mtsdf output: %w (want 4, got %d)", ErrChannelMismatch, output.Channels)
	}
	generateMulti(output, shape, proj, rng, cfg)
	return nil
}

// Rasterize fills output with binary coverage of the shape, 1 inside and
// 0 outside under the nonzero rule.
func Rasterize(output *Bitmap, shape *Shape, proj Projection) error {
	if output.Channels != 1 {
		return fmt.Errorf("rasterize output: %w (want 1, got %d)", ErrChannelMismatch, output.Channels)
	}
	for y := 0; y < output.Height; y++ {
		sl := NewScanline(shape, proj.UnprojectY(float64(y)+0.5))
		for x := 0; x < output.Width; x++ {
			v := float32(0)
			if sl.Filled(proj.UnprojectX(float64(x) + 0.5)) {
				v = 1
			}
			output.Pixel(x, y)[0] = v
		}
	}
	return nil
}

// CorrectSigns reflects stored values around the zero point wherever their
// side disagrees with the shape's nonzero fill. Misoriented or stacked
// contours produce locally inverted fields; rasterizing the true fill per
// row repairs them.
func CorrectSigns(output *Bitmap, shape *Shape, proj Projection, rng Range) {
	zp := float32(rng.ZeroPoint())
	for y := 0; y < output.Height; y++ {
		sl := NewScanline(shape, proj.UnprojectY(float64(y)+0.5))
		for x := 0; x < output.Width; x++ {
			px := output.Pixel(x, y)
			v := px[0]
			if output.Channels >= 3 {
				v = float32(median(float64(px[0]), float64(px[1]), float64(px[2])))
			}
			inside := v < zp
			if inside != sl.Filled(proj.UnprojectX(float64(x)+0.5)) {
				for c := range px {
					px[c] = 2*zp - px[c]
				}
			}
		}
	}
}
