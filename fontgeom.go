package atlasgen

// FontMetrics carries a font's vertical metrics. Values are in em units,
// y up, so DescenderY is typically negative.
type FontMetrics struct {
	EmSize             float64
	AscenderY          float64
	DescenderY         float64
	LineHeight         float64
	UnderlineY         float64
	UnderlineThickness float64
}

// KernPair keys a kerning adjustment by the glyph indices of the left
// and right glyph.
type KernPair struct {
	Left, Right int
}

// FontGeometry is the ordered set of glyphs loaded from one font,
// together with its metrics and kerning table. A loader builds it once;
// afterwards only the packer and edge coloring touch the contained
// glyphs.
type FontGeometry struct {
	name        string
	metrics     FontMetrics
	glyphs      []*GlyphGeometry
	byCodepoint map[rune]*GlyphGeometry
	byIndex     map[int]*GlyphGeometry
	kerning     map[KernPair]float64
}

// NewFontGeometry returns an empty FontGeometry ready for a loader to
// fill.
func NewFontGeometry() *FontGeometry {
	return &FontGeometry{
		byCodepoint: make(map[rune]*GlyphGeometry),
		byIndex:     make(map[int]*GlyphGeometry),
		kerning:     make(map[KernPair]float64),
	}
}

// SetName records a display name for exporters.
func (f *FontGeometry) SetName(name string) { f.name = name }

// Name returns the display name, empty when none was set.
func (f *FontGeometry) Name() string { return f.name }

// SetMetrics records the font's vertical metrics.
func (f *FontGeometry) SetMetrics(m FontMetrics) { f.metrics = m }

// Metrics returns the font's vertical metrics.
func (f *FontGeometry) Metrics() FontMetrics { return f.metrics }

// AddGlyph appends a glyph and indexes it for lookup. A glyph with a
// codepoint or index already present replaces the earlier entry in the
// lookup tables but not in the ordered list.
func (f *FontGeometry) AddGlyph(g *GlyphGeometry) {
	f.glyphs = append(f.glyphs, g)
	if g.Codepoint() != 0 {
		f.byCodepoint[g.Codepoint()] = g
	}
	f.byIndex[g.Index()] = g
}

// Glyphs returns the glyphs in load order. The slice is shared; callers
// must not reorder it.
func (f *FontGeometry) Glyphs() []*GlyphGeometry { return f.glyphs }

// GlyphByCodepoint looks up a glyph by Unicode codepoint.
func (f *FontGeometry) GlyphByCodepoint(r rune) (*GlyphGeometry, bool) {
	g, ok := f.byCodepoint[r]
	return g, ok
}

// GlyphByIndex looks up a glyph by font glyph index.
func (f *FontGeometry) GlyphByIndex(i int) (*GlyphGeometry, bool) {
	g, ok := f.byIndex[i]
	return g, ok
}

// AddKerning records an advance adjustment in em units for the ordered
// glyph index pair.
func (f *FontGeometry) AddKerning(left, right int, advance float64) {
	f.kerning[KernPair{left, right}] = advance
}

// KernAdvance returns the advance adjustment for the pair, zero when the
// pair is not kerned.
func (f *FontGeometry) KernAdvance(left, right int) float64 {
	return f.kerning[KernPair{left, right}]
}

// Kerning returns the kerning table keyed by glyph index pairs. The map
// is shared; callers must not modify it.
func (f *FontGeometry) Kerning() map[KernPair]float64 { return f.kerning }

// DropKerning discards the kerning table. The pipeline calls this when
// no requested output consumes kerning data.
func (f *FontGeometry) DropKerning() {
	f.kerning = make(map[KernPair]float64)
}
