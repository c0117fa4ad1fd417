package fontdata

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/atlasgen"
)

// KernGlyph identifies one loaded glyph for kerning harvest.
type KernGlyph struct {
	// Codepoint is zero for glyphs loaded by bare index.
	Codepoint rune
	Index     int
}

// KernSource harvests kerning adjustments for pairs of loaded glyphs.
// This abstraction allows swapping the kerning implementation; the
// default reads the legacy kern table, "gotext" derives GPOS pairs by
// shaping.
type KernSource interface {
	// Pairs returns advance adjustments keyed by left/right glyph index,
	// scaled so one em maps to scale units. A positive value moves the
	// pair further apart. Pairs without an adjustment are absent.
	Pairs(glyphs []KernGlyph, scale float64) (map[atlasgen.KernPair]float64, error)
}

// KernSourceFactory opens a KernSource over a parsed font.
type KernSourceFactory func(f *Font) (KernSource, error)

// kernRegistry holds registered kerning sources.
// The default source is "sfnt" (legacy kern table).
var kernRegistry = map[string]KernSourceFactory{
	"sfnt":   newKernTableSource,
	"gotext": newShapedKernSource,
}

// defaultKernSourceName is the name of the default kerning source.
const defaultKernSourceName = "sfnt"

// RegisterKernSource registers a custom kerning source. Call during
// startup; the registry is not synchronized.
func RegisterKernSource(name string, factory KernSourceFactory) {
	kernRegistry[name] = factory
}

// kernSourceFor returns the factory by name, or the default if not found.
func kernSourceFor(name string) KernSourceFactory {
	if f, ok := kernRegistry[name]; ok {
		return f
	}
	return kernRegistry[defaultKernSourceName]
}

// kernTableSource reads pair adjustments from the font's kern table.
type kernTableSource struct {
	f *Font
}

func newKernTableSource(f *Font) (KernSource, error) {
	return &kernTableSource{f: f}, nil
}

func (s *kernTableSource) Pairs(glyphs []KernGlyph, scale float64) (map[atlasgen.KernPair]float64, error) {
	pairs := make(map[atlasgen.KernPair]float64)
	k := scale / (64 * s.f.upem)
	ppem := s.f.funitPPEM()
	for _, left := range glyphs {
		for _, right := range glyphs {
			adv, err := s.f.sfnt.Kern(&s.f.buf, sfnt.GlyphIndex(left.Index), sfnt.GlyphIndex(right.Index), ppem, font.HintingNone)
			if err != nil || adv == 0 {
				continue
			}
			pairs[atlasgen.KernPair{Left: left.Index, Right: right.Index}] = k * float64(adv)
		}
	}
	return pairs, nil
}
