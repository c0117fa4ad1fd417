package atlasgen

import (
	"math"

	"github.com/gogpu/atlasgen/msdf"
)

// GlyphGeometry carries one glyph's outline and metrics together with the
// state the pipeline attaches to it. A packer assigns the box (scale,
// placement, distance range) and edge coloring assigns channels; after
// those two mutations the glyph is read-only and generation may run
// concurrently across glyphs.
type GlyphGeometry struct {
	codepoint rune
	index     int
	advance   float64
	shape     *msdf.Shape
	bounds    msdf.Rect
	box       glyphBox
}

// glyphBox is the pixel footprint a packer assigns to a glyph. rng and
// translate are in shape units, outerPadding in pixels.
type glyphBox struct {
	rect         Rect
	rng          msdf.Range
	scale        float64
	translate    msdf.Point
	outerPadding Padding
}

// NewGlyphGeometry wraps a loaded outline. The shape must already be in
// em units with y up, normalized and with contours oriented so distances
// come out negative inside. codepoint is zero for glyphs loaded by index
// only; advance is in em units.
func NewGlyphGeometry(codepoint rune, index int, advance float64, shape *msdf.Shape) *GlyphGeometry {
	g := &GlyphGeometry{
		codepoint: codepoint,
		index:     index,
		advance:   advance,
		shape:     shape,
	}
	if shape != nil {
		g.bounds = shape.Bounds()
	}
	return g
}

// Codepoint returns the Unicode codepoint, or zero when the glyph was
// loaded by index.
func (g *GlyphGeometry) Codepoint() rune { return g.codepoint }

// Index returns the glyph's index in the source font.
func (g *GlyphGeometry) Index() int { return g.index }

// Advance returns the horizontal advance in em units.
func (g *GlyphGeometry) Advance() float64 { return g.advance }

// Shape returns the glyph outline.
func (g *GlyphGeometry) Shape() *msdf.Shape { return g.shape }

// Bounds returns the outline bounding box in em units.
func (g *GlyphGeometry) Bounds() msdf.Rect { return g.bounds }

// IsWhitespace reports whether the glyph has no outline.
func (g *GlyphGeometry) IsWhitespace() bool {
	return g.shape == nil || g.shape.EdgeCount() == 0
}

// ColorEdges assigns distance-field channels to the outline's edges.
func (g *GlyphGeometry) ColorEdges(strategy ColoringStrategy, angleThreshold float64, seed uint64) {
	if g.shape == nil {
		return
	}
	switch strategy {
	case ColoringInkTrap:
		msdf.ColorEdgesInkTrap(g.shape, angleThreshold, seed)
	case ColoringByDistance:
		msdf.ColorEdgesByDistance(g.shape, angleThreshold, seed)
	default:
		msdf.ColorEdgesSimple(g.shape, angleThreshold, seed)
	}
}

// boxAttributes is the framing a packer resolves before sizing glyph
// boxes. rng and padding are in em units.
type boxAttributes struct {
	scale        float64
	rng          msdf.Range
	innerPadding Padding
	outerPadding Padding
	miterLimit   float64
	alignOriginX bool
	alignOriginY bool
}

// paddedBounds grows the outline bounds by the distance range, miter
// spikes and combined padding, giving the shape-space extent the glyph's
// box must cover.
func (g *GlyphGeometry) paddedBounds(attr boxAttributes) (l, b, r, t float64) {
	l = g.bounds.MinX + attr.rng.Lower
	b = g.bounds.MinY + attr.rng.Lower
	r = g.bounds.MaxX - attr.rng.Lower
	t = g.bounds.MaxY - attr.rng.Lower
	if attr.miterLimit > 0 {
		m := g.shape.BoundMiters(msdf.Rect{MinX: l, MinY: b, MaxX: r, MaxY: t}, -attr.rng.Lower, attr.miterLimit)
		l, b, r, t = m.MinX, m.MinY, m.MaxX, m.MaxY
	}
	full := attr.innerPadding.Add(attr.outerPadding)
	return l - full.L, b - full.B, r + full.R, t + full.T
}

// wrapBox sizes the glyph's box as tightly as the attributes allow and
// derives the translation that centers the padded outline in it. Aligned
// axes round the box out to whole pixels so the glyph origin lands on an
// integer pixel coordinate. The placement position is left unset.
func (g *GlyphGeometry) wrapBox(attr boxAttributes) {
	g.box.scale = attr.scale
	g.box.rng = attr.rng
	g.box.outerPadding = attr.outerPadding.Mul(attr.scale)
	if g.bounds.IsEmpty() {
		g.box.rect.W, g.box.rect.H = 0, 0
		g.box.translate = msdf.Point{}
		return
	}
	l, b, r, t := g.paddedBounds(attr)
	if attr.alignOriginX {
		sl := int(math.Floor(attr.scale*l - 0.5))
		sr := int(math.Ceil(attr.scale*r + 0.5))
		g.box.rect.W = sr - sl
		g.box.translate.X = -float64(sl) / attr.scale
	} else {
		w := attr.scale * (r - l)
		g.box.rect.W = int(math.Ceil(w)) + 1
		g.box.translate.X = -l + 0.5*(float64(g.box.rect.W)-w)/attr.scale
	}
	if attr.alignOriginY {
		sb := int(math.Floor(attr.scale*b - 0.5))
		st := int(math.Ceil(attr.scale*t + 0.5))
		g.box.rect.H = st - sb
		g.box.translate.Y = -float64(sb) / attr.scale
	} else {
		h := attr.scale * (t - b)
		g.box.rect.H = int(math.Ceil(h)) + 1
		g.box.translate.Y = -b + 0.5*(float64(g.box.rect.H)-h)/attr.scale
	}
}

// frameBox fits the glyph into a box of fixed dimensions, centering the
// padded outline on each axis unless that axis carries a fixed origin
// translation (in shape units, shared across the atlas).
func (g *GlyphGeometry) frameBox(attr boxAttributes, width, height int, fixedX, fixedY *float64) {
	g.box.scale = attr.scale
	g.box.rng = attr.rng
	g.box.outerPadding = attr.outerPadding.Mul(attr.scale)
	g.box.rect.W, g.box.rect.H = width, height
	if fixedX != nil && fixedY != nil {
		g.box.translate = msdf.Point{X: *fixedX, Y: *fixedY}
		return
	}
	if g.bounds.IsEmpty() {
		g.box.translate = msdf.Point{}
		if fixedX != nil {
			g.box.translate.X = *fixedX
		}
		if fixedY != nil {
			g.box.translate.Y = *fixedY
		}
		return
	}
	l, b, r, t := g.paddedBounds(attr)
	if fixedX != nil {
		g.box.translate.X = *fixedX
	} else {
		w := attr.scale * (r - l)
		g.box.translate.X = -l + 0.5*(float64(width)-w)/attr.scale
	}
	if fixedY != nil {
		g.box.translate.Y = *fixedY
	} else {
		h := attr.scale * (t - b)
		g.box.translate.Y = -b + 0.5*(float64(height)-h)/attr.scale
	}
}

// placeBox records the box's lower-left pixel position in the atlas.
func (g *GlyphGeometry) placeBox(x, y int) {
	g.box.rect.X, g.box.rect.Y = x, y
}

// BoxRect returns the assigned atlas rectangle in pixels.
func (g *GlyphGeometry) BoxRect() Rect { return g.box.rect }

// BoxScale returns the assigned scale in pixels per em.
func (g *GlyphGeometry) BoxScale() float64 { return g.box.scale }

// BoxRange returns the assigned distance range in em units.
func (g *GlyphGeometry) BoxRange() msdf.Range { return g.box.rng }

// BoxTranslate returns the shape-space translation of the box.
func (g *GlyphGeometry) BoxTranslate() msdf.Point { return g.box.translate }

// BoxProjection returns the shape-to-box-pixel projection generation
// renders with.
func (g *GlyphGeometry) BoxProjection() msdf.Projection {
	return msdf.Projection{
		Scale:     msdf.Point{X: g.box.scale, Y: g.box.scale},
		Translate: g.box.translate,
	}
}

// QuadPlaneBounds returns the glyph quad in em units relative to the pen
// origin, inset half a texel so bilinear samples stay inside the box.
// Outer padding is excluded from the quad.
func (g *GlyphGeometry) QuadPlaneBounds() (l, b, r, t float64) {
	if g.box.rect.W <= 0 || g.box.rect.H <= 0 {
		return 0, 0, 0, 0
	}
	inv := 1 / g.box.scale
	l = -g.box.translate.X + (g.box.outerPadding.L+0.5)*inv
	b = -g.box.translate.Y + (g.box.outerPadding.B+0.5)*inv
	r = -g.box.translate.X + (float64(g.box.rect.W)-g.box.outerPadding.R-0.5)*inv
	t = -g.box.translate.Y + (float64(g.box.rect.H)-g.box.outerPadding.T-0.5)*inv
	return l, b, r, t
}

// QuadAtlasBounds returns the glyph quad in atlas pixels, bottom-up,
// matching QuadPlaneBounds texel for texel.
func (g *GlyphGeometry) QuadAtlasBounds() (l, b, r, t float64) {
	if g.box.rect.W <= 0 || g.box.rect.H <= 0 {
		return 0, 0, 0, 0
	}
	l = float64(g.box.rect.X) + g.box.outerPadding.L + 0.5
	b = float64(g.box.rect.Y) + g.box.outerPadding.B + 0.5
	r = float64(g.box.rect.X+g.box.rect.W) - g.box.outerPadding.R - 0.5
	t = float64(g.box.rect.Y+g.box.rect.H) - g.box.outerPadding.T - 0.5
	return l, b, r, t
}
