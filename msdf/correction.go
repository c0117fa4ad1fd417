package msdf

import (
	"fmt"
	"math"
)

// ErrorCorrectionMode selects which texels are eligible for correction.
type ErrorCorrectionMode int

const (
	// CorrectionDisabled performs no error correction.
	CorrectionDisabled ErrorCorrectionMode = iota

	// CorrectionIndiscriminate corrects any detected artifact, which may
	// round off corners and edges that the artifact detector misjudges.
	CorrectionIndiscriminate

	// CorrectionEdgePriority protects corners and texels adjacent to
	// edges before correcting, trading some artifact coverage for intact
	// edges.
	CorrectionEdgePriority

	// CorrectionEdgeOnly protects all texels; only corrections verified
	// not to affect edges are applied.
	CorrectionEdgeOnly
)

// DistanceCheckMode selects when a candidate correction is verified
// against the exact shape distance.
type DistanceCheckMode int

const (
	// CheckDistanceNever trusts the interpolation analysis alone.
	CheckDistanceNever DistanceCheckMode = iota

	// CheckDistanceAtEdge verifies candidates only where edges are
	// affected.
	CheckDistanceAtEdge

	// CheckDistanceAlways verifies every candidate. Most accurate and
	// most expensive.
	CheckDistanceAlways
)

// Default thresholds for artifact classification.
const (
	DefaultMinDeviationRatio = 1.11111111111111111
	DefaultMinImproveRatio   = 1.11111111111111111
)

// ErrorCorrectionConfig controls the artifact detection pass that runs
// after multi-channel generation.
type ErrorCorrectionConfig struct {
	Mode          ErrorCorrectionMode
	DistanceCheck DistanceCheckMode

	// MinDeviationRatio is the minimum ratio between the actual and
	// maximum expected distance delta before a texel counts as an
	// artifact. Zero selects the default.
	MinDeviationRatio float64

	// MinImproveRatio is the minimum ratio by which a correction must
	// reduce the distance error to be applied under distance checking.
	// Zero selects the default.
	MinImproveRatio float64
}

// Stencil flags.
const (
	stencilError     = 1
	stencilProtected = 2
)

// artifactTEpsilon rejects channel crossings at texel boundaries, where
// two channels being equal is the normal state.
const artifactTEpsilon = 0.01

// protectionRadiusTolerance widens the edge proximity test slightly so
// texels straddling an edge are reliably caught.
const protectionRadiusTolerance = 1.001

// errorCorrector accumulates per-texel classification for one pass.
type errorCorrector struct {
	stencil           []byte
	width, height     int
	proj              Projection
	rng               Range
	zp                float64
	minDeviationRatio float64
}

func newErrorCorrector(sdf *Bitmap, proj Projection, rng Range, cfg ErrorCorrectionConfig) *errorCorrector {
	minDeviation := cfg.MinDeviationRatio
	if minDeviation == 0 {
		minDeviation = DefaultMinDeviationRatio
	}
	return &errorCorrector{
		stencil:           make([]byte, sdf.Width*sdf.Height),
		width:             sdf.Width,
		height:            sdf.Height,
		proj:              proj,
		rng:               rng,
		zp:                rng.ZeroPoint(),
		minDeviationRatio: minDeviation,
	}
}

// texelSpan is the stored-unit distance between samples dx, dy texels
// apart: the largest change a correct field can exhibit over that step.
func (ec *errorCorrector) texelSpan(dx, dy float64) float64 {
	v := Point{dx / ec.proj.Scale.X, dy / ec.proj.Scale.Y}
	return v.Length() / ec.rng.Width()
}

func median3f(px []float32) float64 {
	return median(float64(px[0]), float64(px[1]), float64(px[2]))
}

// protectCorners marks the four texels around every corner, where a color
// change is intentional and must not be flattened.
func (ec *errorCorrector) protectCorners(shape *Shape) {
	for ci := range shape.Contours {
		edges := shape.Contours[ci].Edges
		if len(edges) == 0 {
			continue
		}
		prevColor := edges[len(edges)-1].Color
		for i := range edges {
			common := prevColor & edges[i].Color
			// At most one shared channel means the color changes here,
			// so the edge start is a corner.
			if common&(common-1) == 0 {
				p := ec.proj.Project(edges[i].StartPoint())
				l := int(math.Floor(p.X - 0.5))
				b := int(math.Floor(p.Y - 0.5))
				for _, tx := range [4][2]int{{l, b}, {l + 1, b}, {l, b + 1}, {l + 1, b + 1}} {
					if tx[0] >= 0 && tx[0] < ec.width && tx[1] >= 0 && tx[1] < ec.height {
						ec.stencil[tx[1]*ec.width+tx[0]] |= stencilProtected
					}
				}
			}
			prevColor = edges[i].Color
		}
	}
}

func mixF(a, b float32, t float64) float64 {
	return float64(a) + t*(float64(b)-float64(a))
}

// edgeBetweenTexelsChannel reports whether the given channel crosses the
// zero point between two texels while being the median at the crossing.
func (ec *errorCorrector) edgeBetweenTexelsChannel(a, b []float32, ch int) bool {
	t := (float64(a[ch]) - ec.zp) / (float64(a[ch]) - float64(b[ch]))
	if t > 0 && t < 1 {
		c := [3]float64{mixF(a[0], b[0], t), mixF(a[1], b[1], t), mixF(a[2], b[2], t)}
		return median(c[0], c[1], c[2]) == c[ch]
	}
	return false
}

func (ec *errorCorrector) edgeBetweenTexels(a, b []float32) EdgeColor {
	var mask EdgeColor
	if ec.edgeBetweenTexelsChannel(a, b, 0) {
		mask |= ColorRed
	}
	if ec.edgeBetweenTexelsChannel(a, b, 1) {
		mask |= ColorGreen
	}
	if ec.edgeBetweenTexelsChannel(a, b, 2) {
		mask |= ColorBlue
	}
	return mask
}

// protectExtremeChannels protects the texel if any of its edge-carrying
// channels is not the median, since flattening it would move the edge.
func (ec *errorCorrector) protectExtremeChannels(x, y int, msd []float32, m float64, mask EdgeColor) {
	if (mask.HasRed() && float64(msd[0]) != m) ||
		(mask.HasGreen() && float64(msd[1]) != m) ||
		(mask.HasBlue() && float64(msd[2]) != m) {
		ec.stencil[y*ec.width+x] |= stencilProtected
	}
}

// protectEdges protects texel pairs that an edge passes between.
func (ec *errorCorrector) protectEdges(sdf *Bitmap) {
	// Horizontal pairs.
	radius := protectionRadiusTolerance * ec.texelSpan(1, 0)
	for y := 0; y < sdf.Height; y++ {
		for x := 0; x < sdf.Width-1; x++ {
			left, right := sdf.Pixel(x, y), sdf.Pixel(x+1, y)
			lm, rm := median3f(left), median3f(right)
			if math.Abs(lm-ec.zp)+math.Abs(rm-ec.zp) < radius {
				mask := ec.edgeBetweenTexels(left, right)
				ec.protectExtremeChannels(x, y, left, lm, mask)
				ec.protectExtremeChannels(x+1, y, right, rm, mask)
			}
		}
	}
	// Vertical pairs.
	radius = protectionRadiusTolerance * ec.texelSpan(0, 1)
	for y := 0; y < sdf.Height-1; y++ {
		for x := 0; x < sdf.Width; x++ {
			bottom, top := sdf.Pixel(x, y), sdf.Pixel(x, y+1)
			bm, tm := median3f(bottom), median3f(top)
			if math.Abs(bm-ec.zp)+math.Abs(tm-ec.zp) < radius {
				mask := ec.edgeBetweenTexels(bottom, top)
				ec.protectExtremeChannels(x, y, bottom, bm, mask)
				ec.protectExtremeChannels(x, y+1, top, tm, mask)
			}
		}
	}
	// Diagonal pairs.
	radius = protectionRadiusTolerance * ec.texelSpan(1, 1)
	for y := 0; y < sdf.Height-1; y++ {
		for x := 0; x < sdf.Width-1; x++ {
			lb, rb := sdf.Pixel(x, y), sdf.Pixel(x+1, y)
			lt, rt := sdf.Pixel(x, y+1), sdf.Pixel(x+1, y+1)
			mlb, mrb := median3f(lb), median3f(rb)
			mlt, mrt := median3f(lt), median3f(rt)
			if math.Abs(mlb-ec.zp)+math.Abs(mrt-ec.zp) < radius {
				mask := ec.edgeBetweenTexels(lb, rt)
				ec.protectExtremeChannels(x, y, lb, mlb, mask)
				ec.protectExtremeChannels(x+1, y+1, rt, mrt, mask)
			}
			if math.Abs(mrb-ec.zp)+math.Abs(mlt-ec.zp) < radius {
				mask := ec.edgeBetweenTexels(rb, lt)
				ec.protectExtremeChannels(x+1, y, rb, mrb, mask)
				ec.protectExtremeChannels(x, y+1, lt, mlt, mask)
			}
		}
	}
}

// protectAll marks every texel protected.
func (ec *errorCorrector) protectAll() {
	for i := range ec.stencil {
		ec.stencil[i] |= stencilProtected
	}
}

// rangeTest classifies the interpolated median xm at position xt between
// positions at and bt with medians am and bm. A candidate is any xm that
// strays outside its endpoints (or crosses the zero point against both
// endpoints for protected texels); an artifact additionally deviates more
// than the span allows.
func (ec *errorCorrector) rangeTest(at, bt, xt, am, bm, xm, span float64, protected bool) (candidate, artifact bool) {
	if (am > ec.zp && bm > ec.zp && xm <= ec.zp) ||
		(am < ec.zp && bm < ec.zp && xm >= ec.zp) ||
		(!protected && median(am, bm, xm) != xm) {
		axSpan := (xt - at) * span
		bxSpan := (bt - xt) * span
		if !(xm >= am-axSpan && xm <= am+axSpan && xm >= bm-bxSpan && xm <= bm+bxSpan) {
			return true, true
		}
		return true, false
	}
	return false, false
}

func interpolatedMedian2(a, b []float32, t float64) float64 {
	return median(mixF(a[0], b[0], t), mixF(a[1], b[1], t), mixF(a[2], b[2], t))
}

// interpolatedMedian4 evaluates the bilinear surface over texels a, l, b,
// d along the diagonal a-d at parameter t and takes the median.
func interpolatedMedian4(a, l, b, d []float32, t float64) float64 {
	var v [3]float64
	for c := 0; c < 3; c++ {
		w := float64(a[c]) - float64(l[c]) - float64(b[c]) + float64(d[c])
		q := float64(l[c]) + float64(b[c]) - 2*float64(a[c])
		v[c] = t*(t*w+q) + float64(a[c])
	}
	return median(v[0], v[1], v[2])
}

// linearArtifact checks the interpolation between two adjacent texels for
// spots where the median is formed by a different channel pair than at
// either endpoint and deviates beyond what the texel span allows.
func (ec *errorCorrector) linearArtifact(check *shapeChecker, span float64, protected bool, x, y int, dir Point, am float64, a, b []float32) bool {
	bm := median3f(b)
	// Only the texel further from the edge reports, to limit side effects.
	if math.Abs(am-ec.zp) < math.Abs(bm-ec.zp) {
		return false
	}
	for _, pair := range [3][2]int{{1, 0}, {2, 1}, {0, 2}} {
		dA := float64(a[pair[0]]) - float64(a[pair[1]])
		dB := float64(b[pair[0]]) - float64(b[pair[1]])
		if dA == dB {
			continue
		}
		t := dA / (dA - dB)
		if t <= artifactTEpsilon || t >= 1-artifactTEpsilon {
			continue
		}
		xm := interpolatedMedian2(a, b, t)
		candidate, artifact := ec.rangeTest(0, 1, t, am, bm, xm, span, protected)
		if artifact {
			return true
		}
		if candidate && check != nil && check.improves(x, y, dir, t, a) {
			return true
		}
	}
	return false
}

// diagonalArtifact checks the bilinear interpolation along a diagonal,
// where channel values are quadratic in the interpolation parameter.
func (ec *errorCorrector) diagonalArtifact(check *shapeChecker, span float64, protected bool, x, y int, dir Point, am float64, a, l, b, d []float32) bool {
	dm := median3f(d)
	if math.Abs(am-ec.zp) < math.Abs(dm-ec.zp) {
		return false
	}
	var tEx [3]float64
	for c := 0; c < 3; c++ {
		w := float64(a[c]) - float64(l[c]) - float64(b[c]) + float64(d[c])
		q := float64(l[c]) + float64(b[c]) - 2*float64(a[c])
		tEx[c] = -1
		if w != 0 {
			tEx[c] = -0.5 * q / w
		}
	}
	for _, pair := range [3][2]int{{1, 0}, {2, 1}, {0, 2}} {
		i, j := pair[0], pair[1]
		dA := float64(a[i]) - float64(a[j])
		dBC := float64(l[i]) - float64(l[j]) + float64(b[i]) - float64(b[j])
		dD := float64(d[i]) - float64(d[j])
		for _, t := range solveQuadratic(dD-dBC+dA, dBC-2*dA, dA) {
			if t <= artifactTEpsilon || t >= 1-artifactTEpsilon {
				continue
			}
			xm := interpolatedMedian4(a, l, b, d, t)
			candidate, artifact := ec.rangeTest(0, 1, t, am, dm, xm, span, protected)
			// Channel extrema between the endpoints tighten the bounds.
			for _, te := range [2]float64{tEx[i], tEx[j]} {
				if te <= 0 || te >= 1 {
					continue
				}
				t0, t1 := 0.0, 1.0
				m0, m1 := am, dm
				if te > t {
					t1, m1 = te, interpolatedMedian4(a, l, b, d, te)
				} else {
					t0, m0 = te, interpolatedMedian4(a, l, b, d, te)
				}
				c2, a2 := ec.rangeTest(t0, t1, t, m0, m1, xm, span, protected)
				candidate = candidate || c2
				artifact = artifact || a2
			}
			if artifact {
				return true
			}
			if candidate && check != nil && check.improves(x, y, dir, t, a) {
				return true
			}
		}
	}
	return false
}

// findErrors flags texels whose interpolation with any of the eight
// neighbors produces an artifact. With a non-nil checker, candidates that
// the range analysis cannot decide are verified against the exact shape
// distance.
func (ec *errorCorrector) findErrors(sdf *Bitmap, check *shapeChecker) {
	hSpan := ec.minDeviationRatio * ec.texelSpan(1, 0)
	vSpan := ec.minDeviationRatio * ec.texelSpan(0, 1)
	dSpan := ec.minDeviationRatio * ec.texelSpan(1, 1)
	w, h := sdf.Width, sdf.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ec.stencil[y*ec.width+x]&stencilError != 0 {
				continue
			}
			c := sdf.Pixel(x, y)
			cm := median3f(c)
			protected := ec.stencil[y*ec.width+x]&stencilProtected != 0

			found := x > 0 && ec.linearArtifact(check, hSpan, protected, x, y, Point{-1, 0}, cm, c, sdf.Pixel(x-1, y))
			found = found || y > 0 && ec.linearArtifact(check, vSpan, protected, x, y, Point{0, -1}, cm, c, sdf.Pixel(x, y-1))
			found = found || x < w-1 && ec.linearArtifact(check, hSpan, protected, x, y, Point{1, 0}, cm, c, sdf.Pixel(x+1, y))
			found = found || y < h-1 && ec.linearArtifact(check, vSpan, protected, x, y, Point{0, 1}, cm, c, sdf.Pixel(x, y+1))
			found = found || x > 0 && y > 0 &&
				ec.diagonalArtifact(check, dSpan, protected, x, y, Point{-1, -1}, cm, c, sdf.Pixel(x-1, y), sdf.Pixel(x, y-1), sdf.Pixel(x-1, y-1))
			found = found || x < w-1 && y > 0 &&
				ec.diagonalArtifact(check, dSpan, protected, x, y, Point{1, -1}, cm, c, sdf.Pixel(x+1, y), sdf.Pixel(x, y-1), sdf.Pixel(x+1, y-1))
			found = found || x > 0 && y < h-1 &&
				ec.diagonalArtifact(check, dSpan, protected, x, y, Point{-1, 1}, cm, c, sdf.Pixel(x-1, y), sdf.Pixel(x, y+1), sdf.Pixel(x-1, y+1))
			found = found || x < w-1 && y < h-1 &&
				ec.diagonalArtifact(check, dSpan, protected, x, y, Point{1, 1}, cm, c, sdf.Pixel(x+1, y), sdf.Pixel(x, y+1), sdf.Pixel(x+1, y+1))

			if found {
				ec.stencil[y*ec.width+x] |= stencilError
			}
		}
	}
}

// apply flattens every flagged texel's color channels to their median.
// The fourth channel, when present, is left alone.
func (ec *errorCorrector) apply(sdf *Bitmap) {
	for y := 0; y < sdf.Height; y++ {
		for x := 0; x < sdf.Width; x++ {
			if ec.stencil[y*ec.width+x]&stencilError == 0 {
				continue
			}
			px := sdf.Pixel(x, y)
			m := float32(median3f(px))
			px[0], px[1], px[2] = m, m, m
		}
	}
}

// interpolateBitmap samples the bitmap bilinearly at pixel coordinates,
// with texel centers at half-integer positions, writing the first three
// channels into dst.
func interpolateBitmap(dst []float64, bm *Bitmap, pos Point) {
	x := pos.X - 0.5
	y := pos.Y - 0.5
	l := int(math.Floor(x))
	b := int(math.Floor(y))
	lr := x - float64(l)
	bt := y - float64(b)
	clampX := func(v int) int { return min(max(v, 0), bm.Width-1) }
	clampY := func(v int) int { return min(max(v, 0), bm.Height-1) }
	lb := bm.Pixel(clampX(l), clampY(b))
	rb := bm.Pixel(clampX(l+1), clampY(b))
	lt := bm.Pixel(clampX(l), clampY(b+1))
	rt := bm.Pixel(clampX(l+1), clampY(b+1))
	for c := 0; c < 3; c++ {
		bottom := mixF(lb[c], rb[c], lr)
		top := mixF(lt[c], rt[c], lr)
		dst[c] = bottom + bt*(top-bottom)
	}
}

// shapeChecker verifies artifact candidates against the exact shape
// distance: a texel is an error only if flattening its channels to their
// median brings the interpolated field closer to the true distance.
type shapeChecker struct {
	sdf          *Bitmap
	shape        *Shape
	proj         Projection
	rng          Range
	overlap      bool
	windings     []int
	sels         []perpSelector
	improveRatio float64
}

func newShapeChecker(sdf *Bitmap, shape *Shape, proj Projection, rng Range, gen GeneratorConfig, improveRatio float64) *shapeChecker {
	if improveRatio == 0 {
		improveRatio = DefaultMinImproveRatio
	}
	sc := &shapeChecker{
		sdf:          sdf,
		shape:        shape,
		proj:         proj,
		rng:          rng,
		overlap:      gen.OverlapSupport,
		improveRatio: improveRatio,
	}
	if sc.overlap {
		sc.windings = contourWindings(shape)
		sc.sels = make([]perpSelector, len(shape.Contours))
	}
	return sc
}

// improves reports whether flattening texel (x, y) moves the field value
// interpolated at offset t toward neighbor dir closer to the exact
// distance.
func (sc *shapeChecker) improves(x, y int, dir Point, t float64, msd []float32) bool {
	tv := dir.Mul(t)
	sdfCoord := Point{float64(x) + 0.5 + tv.X, float64(y) + 0.5 + tv.Y}

	var oldMSD [3]float64
	interpolateBitmap(oldMSD[:], sc.sdf, sdfCoord)

	aWeight := (1 - math.Abs(tv.X)) * (1 - math.Abs(tv.Y))
	aPSD := median3f(msd)
	var newMSD [3]float64
	for c := 0; c < 3; c++ {
		newMSD[c] = oldMSD[c] + aWeight*(aPSD-float64(msd[c]))
	}

	oldPSD := median(oldMSD[0], oldMSD[1], oldMSD[2])
	newPSD := median(newMSD[0], newMSD[1], newMSD[2])

	p := sc.proj.Unproject(sdfCoord)
	var d float64
	if sc.overlap {
		d = evalScalarOverlapping(sc.shape, p, true, sc.windings, sc.sels)
	} else {
		d = evalScalarSimple(sc.shape, p, true)
	}
	refPSD := sc.rng.Normalize(d)
	return sc.improveRatio*math.Abs(newPSD-refPSD) < math.Abs(oldPSD-refPSD)
}

// CorrectErrors detects and flattens texels whose interpolation would
// produce channel crossing artifacts between texels. Corrections follow
// the configured mode and distance check policy.
func CorrectErrors(output *Bitmap, shape *Shape, proj Projection, rng Range, gen GeneratorConfig, cfg ErrorCorrectionConfig) error {
	if cfg.Mode == CorrectionDisabled {
		return nil
	}
	if output.Channels < 3 {
		return fmt.Errorf("error correction: %w (want 3 or 4, got %d)", ErrChannelMismatch, output.Channels)
	}

	ec := newErrorCorrector(output, proj, rng, cfg)
	switch cfg.Mode {
	case CorrectionEdgePriority:
		ec.protectCorners(shape)
		ec.protectEdges(output)
	case CorrectionEdgeOnly:
		ec.protectAll()
	}

	if cfg.DistanceCheck == CheckDistanceNever ||
		(cfg.DistanceCheck == CheckDistanceAtEdge && cfg.Mode != CorrectionEdgeOnly) {
		ec.findErrors(output, nil)
		if cfg.DistanceCheck == CheckDistanceAtEdge {
			ec.protectAll()
		}
	}
	if cfg.DistanceCheck == CheckDistanceAtEdge || cfg.DistanceCheck == CheckDistanceAlways {
		ec.findErrors(output, newShapeChecker(output, shape, proj, rng, gen, cfg.MinImproveRatio))
	}

	ec.apply(output)
	return nil
}
