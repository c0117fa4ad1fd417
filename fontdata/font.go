package fontdata

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/atlasgen"
	"github.com/gogpu/atlasgen/msdf"
)

// Font wraps a parsed TrueType or OpenType font and reads glyph geometry
// from it in em units. The zero value is not usable; call Open.
//
// Font reuses one sfnt.Buffer across calls and is NOT safe for
// concurrent use. Loaders run single-threaded, so this is fine; wrap
// access in a mutex if you share a Font across goroutines.
type Font struct {
	sfnt *opentype.Font
	buf  sfnt.Buffer
	upem float64
	data []byte
}

// Open parses font data (TTF or OTF).
func Open(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontdata: parse font: %w", err)
	}
	return &Font{
		sfnt: f,
		upem: float64(f.UnitsPerEm()),
		data: data,
	}, nil
}

// FamilyName returns the font family name, empty when the name table has
// no usable entry.
func (f *Font) FamilyName() string {
	if name, err := f.sfnt.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// GlyphCount returns the number of glyphs in the font.
func (f *Font) GlyphCount() int {
	return f.sfnt.NumGlyphs()
}

// GlyphIndex returns the glyph index for a codepoint. ok is false when
// the font does not map the codepoint.
func (f *Font) GlyphIndex(r rune) (int, bool) {
	gid, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return int(gid), true
}

// funitPPEM is the ppem at which sfnt calls return unscaled font units.
func (f *Font) funitPPEM() fixed.Int26_6 {
	return fixed.Int26_6(f.upem * 64)
}

// Metrics returns the font's vertical metrics scaled so one em maps to
// scale units. Underline values stay zero when the post table carries
// none.
func (f *Font) Metrics(scale float64) (atlasgen.FontMetrics, error) {
	vm, err := f.sfnt.Metrics(&f.buf, f.funitPPEM(), font.HintingNone)
	if err != nil {
		return atlasgen.FontMetrics{}, fmt.Errorf("fontdata: font metrics: %w", err)
	}
	k := scale / (64 * f.upem)
	m := atlasgen.FontMetrics{
		EmSize:     scale,
		AscenderY:  k * float64(vm.Ascent),
		DescenderY: -k * float64(vm.Descent),
		LineHeight: k * float64(vm.Height),
	}
	if post := f.sfnt.PostTable(); post != nil {
		m.UnderlineY = scale * float64(post.UnderlinePosition) / f.upem
		m.UnderlineThickness = scale * float64(post.UnderlineThickness) / f.upem
	}
	return m, nil
}

// Glyph loads a glyph's outline and advance, scaled so one em maps to
// scale units. The shape comes back normalized and oriented, y up, ready
// for distance-field generation; it is nil for glyphs without an outline
// (whitespace).
func (f *Font) Glyph(index int, scale float64) (*msdf.Shape, float64, error) {
	segments, err := f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(index), f.funitPPEM(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("fontdata: load glyph %d: %w", index, err)
	}
	adv, err := f.sfnt.GlyphAdvance(&f.buf, sfnt.GlyphIndex(index), f.funitPPEM(), font.HintingNone)
	if err != nil {
		return nil, 0, fmt.Errorf("fontdata: glyph %d advance: %w", index, err)
	}
	k := scale / f.upem
	shape := buildShape(segments, k)
	if shape != nil {
		if err := shape.Validate(); err != nil {
			return nil, 0, fmt.Errorf("fontdata: glyph %d outline: %w", index, err)
		}
		shape.Normalize()
		shape.OrientContours()
	}
	return shape, k * float64(adv) / 64, nil
}

// buildShape converts sfnt segments to a shape. Segment coordinates are
// y-down 26.6 font units; the shape is y-up, scaled by k. sfnt does not
// emit closing segments, so each contour is closed with a line back to
// its start when needed. Returns nil for empty outlines.
func buildShape(segments sfnt.Segments, k float64) *msdf.Shape {
	if len(segments) == 0 {
		return nil
	}
	pt := func(p fixed.Point26_6) msdf.Point {
		return msdf.Point{X: k * float64(p.X) / 64, Y: -k * float64(p.Y) / 64}
	}
	shape := &msdf.Shape{}
	var contour msdf.Contour
	var start, pos msdf.Point
	flush := func() {
		if len(contour.Edges) > 0 {
			if pos != start {
				contour.AddEdge(msdf.NewLinearEdge(pos, start))
			}
			shape.AddContour(contour)
		}
		contour = msdf.Contour{}
	}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			start = pt(seg.Args[0])
			pos = start
		case sfnt.SegmentOpLineTo:
			p := pt(seg.Args[0])
			if p != pos {
				contour.AddEdge(msdf.NewLinearEdge(pos, p))
			}
			pos = p
		case sfnt.SegmentOpQuadTo:
			c, p := pt(seg.Args[0]), pt(seg.Args[1])
			if p != pos || c != pos {
				contour.AddEdge(msdf.NewQuadraticEdge(pos, c, p))
			}
			pos = p
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2])
			if p != pos || c1 != pos || c2 != pos {
				contour.AddEdge(msdf.NewCubicEdge(pos, c1, c2, p))
			}
			pos = p
		}
	}
	flush()
	if len(shape.Contours) == 0 {
		return nil
	}
	return shape
}
