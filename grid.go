package atlasgen

import "math"

// GridPacker lays glyphs out on a uniform grid of identical cells, in
// glyph order, left to right from the top row down. Cells may be sized
// to the largest glyph or fixed; fixed cells that turn out too small
// clip their glyph's field rather than failing the pack, reported
// through the layout's Cutoff flag.
//
// Fixed origins force every glyph's pen origin to the same cell-relative
// position on that axis, which lets renderers address cells uniformly
// without a per-glyph placement table.
type GridPacker struct {
	// Width and Height fix the atlas dimensions when both are positive.
	// When zero, dimensions follow from the cell size and glyph count,
	// grown to satisfy Constraint.
	Width, Height int
	Constraint    DimensionsConstraint

	// Spacing is the pixel gap between adjacent cells and between cells
	// and the atlas edge.
	Spacing int

	// Scale fixes the pixels-per-em scale. When zero, the largest scale
	// whose glyphs still fit their cells without cutoff is found by
	// bisection; MinScale then seeds the search and is enforced as a
	// floor even when that reintroduces cutoff.
	Scale    float64
	MinScale float64

	UnitRange Range
	PxRange   Range

	MiterLimit   float64
	AlignOriginX bool
	AlignOriginY bool

	InnerUnitPadding Padding
	OuterUnitPadding Padding
	InnerPxPadding   Padding
	OuterPxPadding   Padding

	// Columns fixes the column count; zero derives it from the glyph
	// count as the side of the nearest square arrangement.
	Columns int

	// CellWidth and CellHeight fix the glyph box dimensions in pixels,
	// exclusive of Spacing. When zero the cell is sized to the largest
	// glyph box, grown to satisfy CellConstraint.
	CellWidth, CellHeight int
	CellConstraint        DimensionsConstraint

	// FixedOriginX and FixedOriginY force the shared pen origin per
	// axis.
	FixedOriginX bool
	FixedOriginY bool
}

// Validate reports contradictory or malformed settings before any
// packing work happens.
func (p GridPacker) Validate() error {
	if (p.Width > 0) != (p.Height > 0) {
		return &ConfigError{Field: "dimensions", Reason: "width and height must be set together"}
	}
	if p.Width < 0 || p.Height < 0 {
		return &ConfigError{Field: "dimensions", Reason: "must not be negative"}
	}
	if (p.CellWidth > 0) != (p.CellHeight > 0) {
		return &ConfigError{Field: "cellSize", Reason: "cell width and height must be set together"}
	}
	if p.CellWidth < 0 || p.CellHeight < 0 {
		return &ConfigError{Field: "cellSize", Reason: "must not be negative"}
	}
	if p.Columns < 0 {
		return &ConfigError{Field: "columns", Reason: "must not be negative"}
	}
	if p.Spacing < 0 {
		return &ConfigError{Field: "spacing", Reason: "must not be negative"}
	}
	if p.Scale < 0 {
		return &ConfigError{Field: "scale", Reason: "must not be negative"}
	}
	if p.MinScale < 0 {
		return &ConfigError{Field: "minScale", Reason: "must not be negative"}
	}
	if p.MiterLimit < 0 {
		return &ConfigError{Field: "miterLimit", Reason: "must not be negative"}
	}
	if p.Scale == 0 && p.MinScale == 0 && p.Width == 0 && p.CellWidth == 0 {
		return &ConfigError{Field: "scale", Reason: "a scale, a minimum scale, fixed dimensions, or a fixed cell size is required"}
	}
	return nil
}

func (p GridPacker) attributes(scale float64) boxAttributes {
	return boxAttributes{
		scale:        scale,
		rng:          p.UnitRange.Add(p.PxRange.Div(scale)),
		innerPadding: p.InnerUnitPadding.Add(p.InnerPxPadding.Mul(1 / scale)),
		outerPadding: p.OuterUnitPadding.Add(p.OuterPxPadding.Mul(1 / scale)),
		miterLimit:   p.MiterLimit,
		alignOriginX: p.AlignOriginX,
		alignOriginY: p.AlignOriginY,
	}
}

// gridResult is one grid arrangement: final dimensions, content cell
// size, counts, shared origins and whether any glyph outgrew its cell.
type gridResult struct {
	width, height    int
	cellW, cellH     int
	cols, rows       int
	cutoff           bool
	originX, originY *float64
}

// tryPack arranges the glyphs at one scale. Placements are written only
// on a nil error; a *PackError reports cells that the fixed dimensions
// cannot hold, ErrPackFailed that not even a single cell fits.
func (p GridPacker) tryPack(glyphs []*GlyphGeometry, scale float64, width, height int) (gridResult, error) {
	attr := p.attributes(scale)
	s := p.Spacing

	// Wrap boxes individually and pool the padded extents for the
	// fixed-origin axes.
	poolL, poolB := math.Inf(1), math.Inf(1)
	poolR, poolT := math.Inf(-1), math.Inf(-1)
	maxW, maxH := 0, 0
	inked := false
	for _, g := range glyphs {
		if g.IsWhitespace() {
			continue
		}
		g.wrapBox(attr)
		r := g.BoxRect()
		maxW = max(maxW, r.W)
		maxH = max(maxH, r.H)
		l, b, rr, t := g.paddedBounds(attr)
		poolL = min(poolL, l)
		poolB = min(poolB, b)
		poolR = max(poolR, rr)
		poolT = max(poolT, t)
		inked = true
	}

	// Needed box per axis: pooled extents when the origin is shared,
	// otherwise the largest individual box.
	neededW, neededH := maxW, maxH
	slX, slY := 0, 0
	if inked && p.FixedOriginX {
		if p.AlignOriginX {
			slX = int(math.Floor(scale*poolL - 0.5))
			neededW = int(math.Ceil(scale*poolR+0.5)) - slX
		} else {
			neededW = int(math.Ceil(scale*(poolR-poolL))) + 1
		}
	}
	if inked && p.FixedOriginY {
		if p.AlignOriginY {
			slY = int(math.Floor(scale*poolB - 0.5))
			neededH = int(math.Ceil(scale*poolT+0.5)) - slY
		} else {
			neededH = int(math.Ceil(scale*(poolT-poolB))) + 1
		}
	}

	n := len(glyphs)
	cols := p.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	res := gridResult{width: width, height: height}

	if width > 0 {
		if p.CellWidth > 0 {
			res.cellW, res.cellH = p.CellWidth, p.CellHeight
			maxCols := (width - s) / (res.cellW + s)
			maxRows := (height - s) / (res.cellH + s)
			if maxCols <= 0 || maxRows <= 0 {
				return res, ErrPackFailed
			}
			if p.Columns > 0 {
				cols = min(p.Columns, maxCols)
			} else {
				cols = maxCols
			}
			rows := (n + cols - 1) / cols
			if rows > maxRows {
				return res, &PackError{Unplaced: n - cols*maxRows}
			}
			res.cols, res.rows = cols, rows
		} else {
			rows := (n + cols - 1) / cols
			res.cellW = (width-s)/cols - s
			res.cellH = (height-s)/rows - s
			if res.cellW <= 0 || res.cellH <= 0 {
				return res, ErrPackFailed
			}
			res.cols, res.rows = cols, rows
		}
	} else {
		if p.CellWidth > 0 {
			res.cellW, res.cellH = p.CellWidth, p.CellHeight
		} else {
			res.cellW, res.cellH = constrainDims(p.CellConstraint, neededW, neededH)
		}
		res.cols = cols
		res.rows = (n + cols - 1) / cols
		res.width = res.cols*(res.cellW+s) + s
		res.height = res.rows*(res.cellH+s) + s
		res.width, res.height = constrainDims(p.Constraint, res.width, res.height)
	}
	res.cutoff = neededW > res.cellW || neededH > res.cellH

	// Shared origins are resolved against the final cell so centering
	// accounts for cell slack.
	if inked && p.FixedOriginX {
		var tx float64
		if p.AlignOriginX {
			tx = -float64(slX) / scale
		} else {
			tx = -poolL + 0.5*(float64(res.cellW)-scale*(poolR-poolL))/scale
		}
		res.originX = &tx
	}
	if inked && p.FixedOriginY {
		var ty float64
		if p.AlignOriginY {
			ty = -float64(slY) / scale
		} else {
			ty = -poolB + 0.5*(float64(res.cellH)-scale*(poolT-poolB))/scale
		}
		res.originY = &ty
	}

	for i, g := range glyphs {
		col := i % res.cols
		row := i / res.cols
		g.frameBox(attr, res.cellW, res.cellH, res.originX, res.originY)
		g.placeBox(s+col*(res.cellW+s), res.height-(row+1)*(res.cellH+s))
	}
	return res, nil
}

// packAndScale bisects for the largest scale whose arrangement has no
// cutoff, using the same bracket-and-narrow search as the tight packer.
func (p GridPacker) packAndScale(glyphs []*GlyphGeometry, width, height int, out *gridResult) float64 {
	lastPassed := false
	try := func(scale float64) bool {
		res, err := p.tryPack(glyphs, scale, width, height)
		lastPassed = err == nil && !res.cutoff
		if lastPassed {
			*out = res
		}
		return lastPassed
	}
	lo, hi := 1.0, 1.0
	if try(1) {
		for hi < 1e+32 {
			hi = 2 * lo
			if !try(hi) {
				break
			}
			lo = hi
		}
	} else {
		for lo > 1e-32 {
			lo = 0.5 * hi
			if try(lo) {
				break
			}
			hi = lo
		}
	}
	if lo == hi {
		return -1
	}
	for lo/hi < 1-1.0/1024 {
		mid := 0.5 * (lo + hi)
		if try(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	if !lastPassed {
		try(lo)
	}
	return lo
}

// Pack assigns every glyph a uniform cell and returns the final layout.
// Unlike the tight packer, a too-small fixed cell never fails: glyph
// content is clipped and the layout's Cutoff flag set. A *PackError
// still reports glyphs beyond the capacity of fixed dimensions.
func (p GridPacker) Pack(glyphs []*GlyphGeometry) (AtlasLayout, error) {
	if err := p.Validate(); err != nil {
		return AtlasLayout{}, err
	}
	if len(glyphs) == 0 {
		return AtlasLayout{Grid: &GridMetrics{Spacing: p.Spacing}}, nil
	}
	width, height := p.Width, p.Height
	scale := p.Scale

	initial := scale
	if initial <= 0 {
		initial = p.MinScale
	}
	var res gridResult
	if initial > 0 {
		r, err := p.tryPack(glyphs, initial, width, height)
		if err != nil {
			return AtlasLayout{}, err
		}
		res = r
		width, height = r.width, r.height
	}
	if scale <= 0 {
		scale = p.packAndScale(glyphs, width, height, &res)
		if scale <= 0 {
			return AtlasLayout{}, ErrPackFailed
		}
		if p.MinScale > 0 && scale < p.MinScale {
			// The floor wins over cutoff avoidance.
			r, err := p.tryPack(glyphs, p.MinScale, width, height)
			if err != nil {
				return AtlasLayout{}, err
			}
			res = r
			scale = p.MinScale
		}
	}

	rng := p.UnitRange.Add(p.PxRange.Div(scale))
	return AtlasLayout{
		Width:   res.width,
		Height:  res.height,
		Scale:   scale,
		Range:   rng,
		PxRange: rng.Mul(scale),
		Grid: &GridMetrics{
			CellWidth:  res.cellW + p.Spacing,
			CellHeight: res.cellH + p.Spacing,
			Columns:    res.cols,
			Rows:       res.rows,
			Spacing:    p.Spacing,
			OriginX:    res.originX,
			OriginY:    res.originY,
			Cutoff:     res.cutoff,
		},
	}, nil
}
