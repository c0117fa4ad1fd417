package fontdata

import (
	"github.com/gogpu/atlasgen"
)

// Options configures font loading.
type Options struct {
	// FontScale multiplies all geometry, for mixing differently sized
	// fonts in one atlas. Zero means 1.
	FontScale float64

	// Kerning harvests pair adjustments over all loaded glyphs.
	Kerning bool

	// KernSource names a registered kerning source. Empty selects the
	// kern table reader; "gotext" shapes pairs through HarfBuzz.
	KernSource string
}

func (o Options) scale() float64 {
	if o.FontScale <= 0 {
		return 1
	}
	return o.FontScale
}

// LoadCharset loads the glyph for every codepoint in the charset and
// returns the assembled geometry plus the number of codepoints the font
// is missing. Missing codepoints are logged and skipped; only font-level
// failures are errors.
func LoadCharset(f *Font, charset *Charset, opts Options) (*atlasgen.FontGeometry, int, error) {
	scale := opts.scale()
	geom, err := newGeometry(f, scale)
	if err != nil {
		return nil, 0, err
	}
	missing := 0
	var loaded []KernGlyph
	for _, r := range charset.Runes() {
		index, ok := f.GlyphIndex(r)
		if !ok {
			atlasgen.Logger().Debug("codepoint not mapped by font", "codepoint", int32(r))
			missing++
			continue
		}
		shape, advance, err := f.Glyph(index, scale)
		if err != nil {
			atlasgen.Logger().Debug("glyph failed to load", "codepoint", int32(r), "error", err)
			missing++
			continue
		}
		geom.AddGlyph(atlasgen.NewGlyphGeometry(r, index, advance, shape))
		loaded = append(loaded, KernGlyph{Codepoint: r, Index: index})
	}
	if opts.Kerning {
		harvestKerning(f, geom, loaded, scale, opts.KernSource)
	}
	return geom, missing, nil
}

// LoadGlyphset loads glyphs by bare font index. Out-of-range indices are
// logged and skipped, mirroring missing codepoints in LoadCharset.
func LoadGlyphset(f *Font, indices []int, opts Options) (*atlasgen.FontGeometry, int, error) {
	scale := opts.scale()
	geom, err := newGeometry(f, scale)
	if err != nil {
		return nil, 0, err
	}
	missing := 0
	var loaded []KernGlyph
	for _, index := range indices {
		if index < 0 || index >= f.GlyphCount() {
			atlasgen.Logger().Debug("glyph index out of range", "index", index, "glyphs", f.GlyphCount())
			missing++
			continue
		}
		shape, advance, err := f.Glyph(index, scale)
		if err != nil {
			atlasgen.Logger().Debug("glyph failed to load", "index", index, "error", err)
			missing++
			continue
		}
		geom.AddGlyph(atlasgen.NewGlyphGeometry(0, index, advance, shape))
		loaded = append(loaded, KernGlyph{Index: index})
	}
	if opts.Kerning {
		harvestKerning(f, geom, loaded, scale, opts.KernSource)
	}
	return geom, missing, nil
}

func newGeometry(f *Font, scale float64) (*atlasgen.FontGeometry, error) {
	metrics, err := f.Metrics(scale)
	if err != nil {
		return nil, err
	}
	geom := atlasgen.NewFontGeometry()
	geom.SetName(f.FamilyName())
	geom.SetMetrics(metrics)
	return geom, nil
}

// harvestKerning fills the geometry's kerning table. Failure leaves the
// table empty; kerning is best-effort.
func harvestKerning(f *Font, geom *atlasgen.FontGeometry, glyphs []KernGlyph, scale float64, sourceName string) {
	source, err := kernSourceFor(sourceName)(f)
	if err != nil {
		atlasgen.Logger().Warn("kerning source unavailable", "source", sourceName, "error", err)
		return
	}
	pairs, err := source.Pairs(glyphs, scale)
	if err != nil {
		atlasgen.Logger().Warn("kerning harvest failed", "source", sourceName, "error", err)
		return
	}
	for pair, advance := range pairs {
		geom.AddKerning(pair.Left, pair.Right, advance)
	}
}
