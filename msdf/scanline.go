package msdf

import "sort"

// Scanline holds the crossings of a shape with one horizontal line and
// answers fill queries along it under the nonzero winding rule.
type Scanline struct {
	crossings []scanlineCrossing
}

// scanlineCrossing pairs a crossing position with the cumulative winding
// immediately to its right.
type scanlineCrossing struct {
	x       float64
	winding int
}

// NewScanline computes the crossings of the shape with the horizontal line
// at height y.
func NewScanline(s *Shape, y float64) Scanline {
	var sl Scanline
	for ci := range s.Contours {
		for ei := range s.Contours[ci].Edges {
			x, dy, n := s.Contours[ci].Edges[ei].ScanlineIntersections(y)
			for k := 0; k < n; k++ {
				sl.crossings = append(sl.crossings, scanlineCrossing{x: x[k], winding: dy[k]})
			}
		}
	}
	sort.Slice(sl.crossings, func(a, b int) bool { return sl.crossings[a].x < sl.crossings[b].x })
	// The winding number counts upward crossings to the right of a point
	// as positive. Crossings over the whole line cancel, so the winding to
	// the right of x is the negated sum of crossing directions to its left.
	total := 0
	for i := range sl.crossings {
		total -= sl.crossings[i].winding
		sl.crossings[i].winding = total
	}
	return sl
}

// Sum returns the winding number at x: positive inside counter-clockwise
// loops, negative inside clockwise ones.
func (sl *Scanline) Sum(x float64) int {
	i := sort.Search(len(sl.crossings), func(i int) bool { return sl.crossings[i].x > x }) - 1
	if i < 0 {
		return 0
	}
	return sl.crossings[i].winding
}

// Filled reports whether x lies inside the shape under the nonzero rule.
func (sl *Scanline) Filled(x float64) bool {
	return sl.Sum(x) != 0
}
