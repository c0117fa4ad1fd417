package atlasgen

// TightPacker packs glyph boxes as closely as shelf packing allows.
// Dimensions may be fixed or searched under a constraint; the scale may
// be fixed or maximized by bisection. The zero value is not usable: a
// pack needs at least a scale, a minimum scale, or fixed dimensions.
//
// Distance range and padding each come in an em and a pixel flavor; the
// two are summed once the scale is known, so pixel-denominated margins
// stay constant across the scale search while em margins track the
// glyph size.
type TightPacker struct {
	// Width and Height fix the atlas dimensions when both are positive.
	// When zero, dimensions are searched under Constraint.
	Width, Height int
	Constraint    DimensionsConstraint

	// Spacing is the minimum pixel gap between any two glyph boxes and
	// between boxes and the atlas edge.
	Spacing int

	// Scale fixes the pixels-per-em scale. When zero, the largest scale
	// that still packs is found by bisection; MinScale then seeds the
	// search and serves as the acceptance floor.
	Scale    float64
	MinScale float64

	// UnitRange and PxRange are summed into the glyph distance range
	// once the scale is known.
	UnitRange Range
	PxRange   Range

	MiterLimit   float64
	AlignOriginX bool
	AlignOriginY bool

	InnerUnitPadding Padding
	OuterUnitPadding Padding
	InnerPxPadding   Padding
	OuterPxPadding   Padding
}

// Validate reports contradictory or malformed settings before any
// packing work happens.
func (p TightPacker) Validate() error {
	if (p.Width > 0) != (p.Height > 0) {
		return &ConfigError{Field: "dimensions", Reason: "width and height must be set together"}
	}
	if p.Width < 0 || p.Height < 0 {
		return &ConfigError{Field: "dimensions", Reason: "must not be negative"}
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
	if p.Scale == 0 && p.MinScale == 0 && p.Width == 0 {
		return &ConfigError{Field: "scale", Reason: "a scale, a minimum scale, or fixed dimensions are required"}
	}
	return nil
}

// attributes resolves the per-glyph framing for one candidate scale.
func (p TightPacker) attributes(scale float64) boxAttributes {
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

// tryPack wraps every glyph box at the attribute scale and packs the
// non-empty boxes. Fixed positive dimensions are used as given and the
// unplaced count reported; otherwise dimensions are enumerated under the
// constraint until everything fits. Glyph placements are written only
// when every box fits.
func (p TightPacker) tryPack(glyphs []*GlyphGeometry, attr boxAttributes, width, height int) (unplaced, outW, outH int) {
	rects := make([]Rect, 0, len(glyphs))
	owners := make([]*GlyphGeometry, 0, len(glyphs))
	for _, g := range glyphs {
		if g.IsWhitespace() {
			continue
		}
		g.wrapBox(attr)
		if r := g.BoxRect(); r.W > 0 && r.H > 0 {
			rects = append(rects, Rect{W: r.W, H: r.H})
			owners = append(owners, g)
		}
	}
	if len(rects) == 0 {
		return 0, width, height
	}

	if width > 0 && height > 0 {
		if n, _ := packRects(rects, width, height, p.Spacing); n > 0 {
			return n, width, height
		}
	} else {
		minArea := 0
		for _, r := range rects {
			minArea += (r.W + p.Spacing) * (r.H + p.Spacing)
		}
		e := newDimensionsEnumerator(p.Constraint, minArea)
		for {
			width, height = e.dims()
			n, used := packRects(rects, width, height, p.Spacing)
			if n == 0 {
				if p.Constraint == ConstraintNone && used < height {
					height = used
				}
				break
			}
			e.grow()
		}
	}

	for i, g := range owners {
		g.placeBox(rects[i].X, rects[i].Y)
	}
	return 0, width, height
}

// packAndScale bisects for the largest scale that still packs into the
// fixed dimensions. The search doubles from 1 while packing succeeds or
// halves while it fails, then narrows the bracket to a 1/1024
// resolution. The glyphs are left wrapped and placed at the returned
// scale. Returns a non-positive scale when nothing fits or the search
// degenerates.
func (p TightPacker) packAndScale(glyphs []*GlyphGeometry, width, height int) float64 {
	lastPassed := false
	try := func(scale float64) bool {
		n, _, _ := p.tryPack(glyphs, p.attributes(scale), width, height)
		lastPassed = n == 0
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

// Pack assigns every glyph its box and placement and returns the final
// layout. A *PackError reports glyphs that did not fit at the requested
// scale floor; ErrPackFailed reports that no scale satisfies the
// constraints at all. Glyph placements are defined only on a nil error.
func (p TightPacker) Pack(glyphs []*GlyphGeometry) (AtlasLayout, error) {
	if err := p.Validate(); err != nil {
		return AtlasLayout{}, err
	}
	width, height := p.Width, p.Height
	scale := p.Scale

	initial := scale
	if initial <= 0 {
		initial = p.MinScale
	}
	if initial > 0 {
		n, w, h := p.tryPack(glyphs, p.attributes(initial), width, height)
		if n > 0 {
			return AtlasLayout{}, &PackError{Unplaced: n}
		}
		width, height = w, h
	}
	if scale <= 0 {
		scale = p.packAndScale(glyphs, width, height)
		if scale <= 0 {
			return AtlasLayout{}, ErrPackFailed
		}
	}

	rng := p.UnitRange.Add(p.PxRange.Div(scale))
	return AtlasLayout{
		Width:   width,
		Height:  height,
		Scale:   scale,
		Range:   rng,
		PxRange: rng.Mul(scale),
	}, nil
}
