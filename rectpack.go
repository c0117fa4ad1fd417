package atlasgen

import "sort"

// shelf is one packing row. x is the interior cursor where the next box
// starts, y the interior bottom of the row.
type shelf struct {
	x, y   int
	height int
}

// packRects positions the rectangles inside a width by height atlas
// using shelf packing. Boxes are taken in order of decreasing height,
// then decreasing width, then input order, and each goes onto the first
// shelf with room; a new shelf opens above the last when none fits.
// spacing pixels separate any two boxes and every box from the atlas
// edge. Placed boxes get X and Y set; boxes that do not fit keep
// X = Y = -1.
//
// Returns the number of boxes that did not fit and the atlas height
// actually consumed, which a caller without a dimensions constraint may
// trim to.
func packRects(rects []Rect, width, height, spacing int) (unplaced, usedHeight int) {
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := rects[order[a]], rects[order[b]]
		if ra.H != rb.H {
			return ra.H > rb.H
		}
		if ra.W != rb.W {
			return ra.W > rb.W
		}
		return order[a] < order[b]
	})

	// Inflating every box by spacing, packing into the interior with the
	// same amount shaved off the far edges, and shifting placements by
	// +spacing leaves spacing pixels between boxes and along all four
	// atlas edges.
	availW, availH := width-spacing, height-spacing

	var shelves []shelf
	top := 0
	for _, i := range order {
		rects[i].X, rects[i].Y = -1, -1
		w, h := rects[i].W+spacing, rects[i].H+spacing
		placed := false
		for s := range shelves {
			if h <= shelves[s].height && shelves[s].x+w <= availW {
				rects[i].X = shelves[s].x + spacing
				rects[i].Y = shelves[s].y + spacing
				shelves[s].x += w
				placed = true
				break
			}
		}
		if !placed && w <= availW && top+h <= availH {
			shelves = append(shelves, shelf{x: w, y: top, height: h})
			rects[i].X = spacing
			rects[i].Y = top + spacing
			top += h
			placed = true
		}
		if !placed {
			unplaced++
		}
	}
	if top > 0 {
		usedHeight = top + spacing
	}
	return unplaced, usedHeight
}
