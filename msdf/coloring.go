package msdf

import (
	"math"
	"sort"
)

// Edge coloring distributes channel colors along each contour so that
// every corner lies between edges of different colors. The median of the
// three channels then reproduces the corner exactly, while each individual
// channel stays smooth across it.

// initColor draws the starting color from the seed.
func initColor(seed uint64) (EdgeColor, uint64) {
	colors := [3]EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	return colors[seed%3], seed / 3
}

// nextColor switches to one of the other two-channel colors.
func nextColor(color EdgeColor, seed uint64) (EdgeColor, uint64) {
	shifted := color << (1 + seed&1)
	return (shifted | shifted>>3) & ColorWhite, seed >> 1
}

// nextColorBanned switches color while avoiding any channel overlap with
// banned. A black ban is no constraint.
func nextColorBanned(color EdgeColor, seed uint64, banned EdgeColor) (EdgeColor, uint64) {
	combined := color & banned
	if combined == ColorRed || combined == ColorGreen || combined == ColorBlue {
		return combined ^ ColorWhite, seed
	}
	return nextColor(color, seed)
}

// isCorner reports whether two unit tangents meet at an angle sharp enough
// to count as a corner. crossThreshold is the sine of the angle threshold.
func isCorner(aDir, bDir Point, crossThreshold float64) bool {
	return aDir.Dot(bDir) <= 0 || math.Abs(aDir.Cross(bDir)) > crossThreshold
}

// contourCorners appends the indices of edges whose start point is a
// corner of c.
func contourCorners(c *Contour, crossThreshold float64, buf []int) []int {
	prevDir := c.Edges[len(c.Edges)-1].DirectionAt(1)
	for i := range c.Edges {
		dir := c.Edges[i].DirectionAt(0)
		if isCorner(prevDir.Normalized(), dir.Normalized(), crossThreshold) {
			buf = append(buf, i)
		}
		prevDir = c.Edges[i].DirectionAt(1)
	}
	return buf
}

// estimateEdgeLength approximates arc length with a four segment polyline.
func estimateEdgeLength(e *Edge) float64 {
	const precision = 4
	length := 0.0
	prev := e.PointAt(0)
	for i := 1; i <= precision; i++ {
		cur := e.PointAt(float64(i) / precision)
		length += cur.Sub(prev).Length()
		prev = cur
	}
	return length
}

// symmetricalTrichotomy splits positions 0..n-1 into three runs, -1, 0 and
// +1, with the outer runs meeting at position 0.
func symmetricalTrichotomy(position, n int) int {
	return int(3+2.875*float64(position)/float64(n-1)-1.4375+0.5) - 3
}

// colorTeardrop colors a contour with exactly one corner. The two edges
// meeting at the corner take the outer colors and the far side is white,
// so all three channels cross at the single corner. Contours with fewer
// than three edges are subdivided first.
func colorTeardrop(c *Contour, corner int, tri [3]EdgeColor) {
	if len(c.Edges) >= 3 {
		m := len(c.Edges)
		for i := 0; i < m; i++ {
			c.Edges[(corner+i)%m].Color = tri[1+symmetricalTrichotomy(i, m)]
		}
		return
	}
	var parts []Edge
	if len(c.Edges) == 2 {
		a0, a1, a2 := c.Edges[0].SplitInThirds()
		b0, b1, b2 := c.Edges[1].SplitInThirds()
		if corner == 0 {
			parts = []Edge{a0, a1, a2, b0, b1, b2}
		} else {
			parts = []Edge{b0, b1, b2, a0, a1, a2}
		}
		parts[0].Color, parts[1].Color = tri[0], tri[0]
		parts[2].Color, parts[3].Color = tri[1], tri[1]
		parts[4].Color, parts[5].Color = tri[2], tri[2]
	} else {
		a0, a1, a2 := c.Edges[0].SplitInThirds()
		parts = []Edge{a0, a1, a2}
		parts[0].Color = tri[0]
		parts[1].Color = tri[1]
		parts[2].Color = tri[2]
	}
	c.Edges = parts
}

// ColorEdgesSimple assigns edge colors by walking each contour and
// switching color at every corner. The spline ending at the final corner
// is banned from reusing the first spline's color so the wrap-around
// corner stays sharp.
func ColorEdgesSimple(shape *Shape, angleThreshold float64, seed uint64) {
	crossThreshold := math.Sin(angleThreshold)
	color, seed := initColor(seed)
	var corners []int
	for ci := range shape.Contours {
		contour := &shape.Contours[ci]
		if len(contour.Edges) == 0 {
			continue
		}
		corners = contourCorners(contour, crossThreshold, corners[:0])

		switch len(corners) {
		case 0:
			// All channels carry a smooth contour so the median always
			// reconstructs its distance.
			for i := range contour.Edges {
				contour.Edges[i].Color = ColorWhite
			}
		case 1:
			var tri [3]EdgeColor
			color, seed = nextColor(color, seed)
			tri[0] = color
			tri[1] = ColorWhite
			color, seed = nextColor(color, seed)
			tri[2] = color
			colorTeardrop(contour, corners[0], tri)
		default:
			cornerCount := len(corners)
			spline := 0
			start := corners[0]
			m := len(contour.Edges)
			color, seed = nextColor(color, seed)
			initialColor := color
			for i := 0; i < m; i++ {
				index := (start + i) % m
				if spline+1 < cornerCount && corners[spline+1] == index {
					spline++
					banned := ColorBlack
					if spline == cornerCount-1 {
						banned = initialColor
					}
					color, seed = nextColorBanned(color, seed, banned)
				}
				contour.Edges[index].Color = color
			}
		}
	}
}

// inkTrapCorner tracks a corner and the estimated length of the spline
// that ends at it.
type inkTrapCorner struct {
	index      int
	prevLength float64
	minor      bool
	color      EdgeColor
}

// ColorEdgesInkTrap assigns edge colors like ColorEdgesSimple but detects
// ink traps, short splines wedged between two longer ones, and gives them
// a color distinct from both neighbors. This keeps very small notches
// representable at low resolutions.
func ColorEdgesInkTrap(shape *Shape, angleThreshold float64, seed uint64) {
	crossThreshold := math.Sin(angleThreshold)
	color, seed := initColor(seed)
	var corners []inkTrapCorner
	for ci := range shape.Contours {
		contour := &shape.Contours[ci]
		if len(contour.Edges) == 0 {
			continue
		}

		splineLength := 0.0
		corners = corners[:0]
		prevDir := contour.Edges[len(contour.Edges)-1].DirectionAt(1)
		for i := range contour.Edges {
			dir := contour.Edges[i].DirectionAt(0)
			if isCorner(prevDir.Normalized(), dir.Normalized(), crossThreshold) {
				corners = append(corners, inkTrapCorner{index: i, prevLength: splineLength})
				splineLength = 0
			}
			splineLength += estimateEdgeLength(&contour.Edges[i])
			prevDir = contour.Edges[i].DirectionAt(1)
		}

		switch len(corners) {
		case 0:
			for i := range contour.Edges {
				contour.Edges[i].Color = ColorWhite
			}
		case 1:
			var tri [3]EdgeColor
			color, seed = nextColor(color, seed)
			tri[0] = color
			tri[1] = ColorWhite
			color, seed = nextColor(color, seed)
			tri[2] = color
			colorTeardrop(contour, corners[0].index, tri)
		default:
			cornerCount := len(corners)
			majorCornerCount := cornerCount
			if cornerCount > 3 {
				// The spline length wrapped past the list start belongs
				// before the first corner.
				corners[0].prevLength += splineLength
				for i := 0; i < cornerCount; i++ {
					if corners[i].prevLength > corners[(i+1)%cornerCount].prevLength &&
						corners[(i+1)%cornerCount].prevLength < corners[(i+2)%cornerCount].prevLength {
						corners[i].minor = true
						majorCornerCount--
					}
				}
			}
			var initialColor EdgeColor
			for i := 0; i < cornerCount; i++ {
				if corners[i].minor {
					continue
				}
				majorCornerCount--
				banned := ColorBlack
				if majorCornerCount == 0 {
					banned = initialColor
				}
				color, seed = nextColorBanned(color, seed, banned)
				corners[i].color = color
				if initialColor == ColorBlack {
					initialColor = color
				}
			}
			for i := 0; i < cornerCount; i++ {
				if corners[i].minor {
					next := corners[(i+1)%cornerCount].color
					corners[i].color = (color & next) ^ ColorWhite
				} else {
					color = corners[i].color
				}
			}

			spline := 0
			start := corners[0].index
			m := len(contour.Edges)
			for i := 0; i < m; i++ {
				index := (start + i) % m
				if spline+1 < cornerCount && corners[spline+1].index == index {
					spline++
				}
				contour.Edges[index].Color = corners[spline].color
			}
		}
	}
}

// coloredSpline is a run of edges between two corners, the unit of color
// assignment for distance based coloring.
type coloredSpline struct {
	contour  int
	first    int // index of the spline's first edge within the contour
	count    int
	ring     int // number of splines in the same contour
	ringPos  int
	ringBase int // index of the contour's first spline in the spline list
	length   float64
	samples  []Point
	color    EdgeColor
}

// edgeSamples appends sample points along the edge for spline distance
// estimates.
func edgeSamples(e *Edge, buf []Point) []Point {
	return append(buf, e.PointAt(0), e.PointAt(0.25), e.PointAt(0.5), e.PointAt(0.75), e.PointAt(1))
}

// splineDistance is the minimum pairwise distance between two sample sets.
func splineDistance(a, b []Point) float64 {
	d := math.Inf(1)
	for _, p := range a {
		for _, q := range b {
			d = min(d, p.Sub(q).LengthSquared())
		}
	}
	return math.Sqrt(d)
}

// ColorEdgesByDistance starts from the simple corner walk, then sweeps the
// splines in order of decreasing length and recolors each so its distance
// to the nearest spline of the same color is as large as possible.
// Adjacent splines always keep distinct colors. The sweep scans all
// spline pairs, which makes this by far the slowest strategy.
func ColorEdgesByDistance(shape *Shape, angleThreshold float64, seed uint64) {
	ColorEdgesSimple(shape, angleThreshold, seed)

	crossThreshold := math.Sin(angleThreshold)
	var splines []coloredSpline
	var fixed []coloredSpline // color obstacles from smooth and teardrop contours
	var corners []int
	for ci := range shape.Contours {
		contour := &shape.Contours[ci]
		if len(contour.Edges) == 0 {
			continue
		}
		corners = contourCorners(contour, crossThreshold, corners[:0])
		if len(corners) < 2 {
			// Smooth and teardrop contours keep their colors but still
			// repel same-colored splines.
			for ei := range contour.Edges {
				e := &contour.Edges[ei]
				if e.Color == ColorWhite {
					continue
				}
				fixed = append(fixed, coloredSpline{
					color:   e.Color,
					samples: edgeSamples(e, nil),
				})
			}
			continue
		}
		ring := len(corners)
		ringBase := len(splines)
		m := len(contour.Edges)
		for k := 0; k < ring; k++ {
			first := corners[k]
			count := (corners[(k+1)%ring]-first+m-1)%m + 1
			s := coloredSpline{
				contour:  ci,
				first:    first,
				count:    count,
				ring:     ring,
				ringPos:  k,
				ringBase: ringBase,
				color:    contour.Edges[first].Color,
			}
			for j := 0; j < count; j++ {
				e := &contour.Edges[(first+j)%m]
				s.length += estimateEdgeLength(e)
				s.samples = edgeSamples(e, s.samples)
			}
			splines = append(splines, s)
		}
	}
	if len(splines) == 0 {
		return
	}

	order := make([]int, len(splines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return splines[order[a]].length > splines[order[b]].length
	})

	candidates := [3]EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	for _, si := range order {
		s := &splines[si]
		prev := splines[s.ringBase+(s.ringPos+s.ring-1)%s.ring].color
		next := splines[s.ringBase+(s.ringPos+1)%s.ring].color

		best := s.color
		bestDist := math.Inf(-1)
		for _, c := range candidates {
			if c == prev || c == next {
				continue
			}
			d := math.Inf(1)
			for oi := range splines {
				if oi != si && splines[oi].color == c {
					d = min(d, splineDistance(s.samples, splines[oi].samples))
				}
			}
			for oi := range fixed {
				if fixed[oi].color == c {
					d = min(d, splineDistance(s.samples, fixed[oi].samples))
				}
			}
			if d > bestDist || (d == bestDist && c == s.color) {
				best, bestDist = c, d
			}
		}
		if best == s.color {
			continue
		}
		s.color = best
		contour := &shape.Contours[s.contour]
		m := len(contour.Edges)
		for j := 0; j < s.count; j++ {
			contour.Edges[(s.first+j)%m].Color = best
		}
	}
}
