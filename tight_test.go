package atlasgen

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gogpu/atlasgen/msdf"
)

func unitSquares(n int) []*GlyphGeometry {
	glyphs := make([]*GlyphGeometry, n)
	for i := range glyphs {
		glyphs[i] = squareGlyph(rune('A'+i), i, 0, 0, 1, 1)
	}
	return glyphs
}

func boxRects(glyphs []*GlyphGeometry) []Rect {
	rects := make([]Rect, len(glyphs))
	for i, g := range glyphs {
		rects[i] = g.BoxRect()
	}
	return rects
}

func TestTightPackerSquareDivisibleByFour(t *testing.T) {
	// Ten unit-em glyphs at 32 px/em wrap to 33 px boxes. The smallest
	// multiple-of-four square that shelf-packs ten of them is 132: sides
	// 108 through 128 hold only a 3x3 arrangement.
	glyphs := unitSquares(10)
	p := TightPacker{Scale: 32, Constraint: ConstraintMultipleOfFourSquare}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if layout.Width != 132 || layout.Height != 132 {
		t.Errorf("dimensions = %dx%d, want 132x132", layout.Width, layout.Height)
	}
	if !p.Constraint.Satisfies(layout.Width, layout.Height) {
		t.Errorf("dimensions %dx%d violate %v", layout.Width, layout.Height, p.Constraint)
	}
	if layout.Scale != 32 {
		t.Errorf("scale = %v, want 32", layout.Scale)
	}
	lower := int(math.Ceil(math.Sqrt(10 * 33 * 33)))
	if layout.Width < lower {
		t.Errorf("side %d below the area lower bound %d", layout.Width, lower)
	}
	checkPlacements(t, boxRects(glyphs), layout.Width, layout.Height, 0)

	// The next smaller legal square must not fit, or 132 was not
	// minimal.
	smaller := TightPacker{Scale: 32, Width: 128, Height: 128}
	if _, err := smaller.Pack(unitSquares(10)); err == nil {
		t.Error("packing into 128x128 succeeded, so 132 was not the smallest legal square")
	}
}

func TestTightPackerNoOverlapWithSpacing(t *testing.T) {
	glyphs := []*GlyphGeometry{
		squareGlyph('a', 0, 0, 0, 0.5, 0.7),
		squareGlyph('b', 1, 0, 0, 1, 1),
		squareGlyph('c', 2, 0, 0, 0.3, 0.4),
		squareGlyph('d', 3, 0, 0, 0.8, 0.2),
		squareGlyph('e', 4, 0, 0, 0.6, 0.6),
	}
	p := TightPacker{
		Scale:      24,
		Constraint: ConstraintSquare,
		Spacing:    2,
		PxRange:    NewRange(2),
	}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if layout.Width != layout.Height {
		t.Errorf("dimensions = %dx%d, want square", layout.Width, layout.Height)
	}
	checkPlacements(t, boxRects(glyphs), layout.Width, layout.Height, 2)
}

func TestTightPackerNoneTrimsHeight(t *testing.T) {
	glyphs := unitSquares(2)
	p := TightPacker{Scale: 32}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	// Two 33 px boxes side by side: squares up to 65 fail, 66 fits one
	// row, and the unused height above it is trimmed away.
	if layout.Width != 66 || layout.Height != 33 {
		t.Errorf("dimensions = %dx%d, want 66x33", layout.Width, layout.Height)
	}
	checkPlacements(t, boxRects(glyphs), layout.Width, layout.Height, 0)
}

func TestTightPackerPartialFailure(t *testing.T) {
	glyphs := unitSquares(5)
	p := TightPacker{Scale: 32, Width: 70, Height: 70}
	_, err := p.Pack(glyphs)
	var pe *PackError
	if !errors.As(err, &pe) {
		t.Fatalf("Pack error = %v, want a *PackError", err)
	}
	if pe.Unplaced != 1 {
		t.Errorf("Unplaced = %d, want 1", pe.Unplaced)
	}
}

func TestTightPackerScaleSearch(t *testing.T) {
	// Four unit-em glyphs in a 128x128 atlas: a box of ceil(scale)+1
	// pixels packs two by two as long as it stays within 64 pixels, so
	// the largest workable scale is exactly 63.
	glyphs := unitSquares(4)
	p := TightPacker{Width: 128, Height: 128}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if layout.Scale != 63 {
		t.Errorf("scale = %v, want 63", layout.Scale)
	}
	if layout.Width != 128 || layout.Height != 128 {
		t.Errorf("dimensions = %dx%d, want the fixed 128x128", layout.Width, layout.Height)
	}
	checkPlacements(t, boxRects(glyphs), 128, 128, 0)
	for i, g := range glyphs {
		if g.BoxScale() != layout.Scale {
			t.Errorf("glyph %d box scale = %v, want %v", i, g.BoxScale(), layout.Scale)
		}
	}
}

func TestTightPackerRangeResolution(t *testing.T) {
	glyphs := unitSquares(1)
	p := TightPacker{
		Scale:     32,
		UnitRange: NewRange(0.03125),
		PxRange:   NewRange(2),
	}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	// 0.03125 em is one pixel at this scale, so the combined range is
	// three pixels wide.
	if want := (Range{Lower: -0.046875, Upper: 0.046875}); layout.Range != want {
		t.Errorf("Range = %+v, want %+v", layout.Range, want)
	}
	if want := (Range{Lower: -1.5, Upper: 1.5}); layout.PxRange != want {
		t.Errorf("PxRange = %+v, want %+v", layout.PxRange, want)
	}
	if got := glyphs[0].BoxRange(); got != layout.Range {
		t.Errorf("glyph box range = %+v, want the layout range %+v", got, layout.Range)
	}
}

func TestTightPackerDeterministic(t *testing.T) {
	p := TightPacker{Scale: 24, Constraint: ConstraintPowerOfTwoSquare, Spacing: 1}
	a := []*GlyphGeometry{
		squareGlyph('a', 0, 0, 0, 0.9, 0.4),
		squareGlyph('b', 1, 0, 0, 0.5, 0.8),
		squareGlyph('c', 2, 0, 0, 0.7, 0.7),
	}
	b := []*GlyphGeometry{
		squareGlyph('a', 0, 0, 0, 0.9, 0.4),
		squareGlyph('b', 1, 0, 0, 0.5, 0.8),
		squareGlyph('c', 2, 0, 0, 0.7, 0.7),
	}
	la, err := p.Pack(a)
	if err != nil {
		t.Fatalf("first Pack: %v", err)
	}
	lb, err := p.Pack(b)
	if err != nil {
		t.Fatalf("second Pack: %v", err)
	}
	if la != lb {
		t.Errorf("layouts differ: %+v vs %+v", la, lb)
	}
	if diff := cmp.Diff(boxRects(a), boxRects(b)); diff != "" {
		t.Errorf("placements differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestTightPackerWhitespace(t *testing.T) {
	glyphs := unitSquares(2)
	glyphs = append(glyphs, NewGlyphGeometry(' ', 9, 0.25, &msdf.Shape{}))
	p := TightPacker{Scale: 32}
	layout, err := p.Pack(glyphs)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if r := glyphs[2].BoxRect(); r.W != 0 || r.H != 0 {
		t.Errorf("whitespace box = %dx%d, want 0x0", r.W, r.H)
	}
	checkPlacements(t, boxRects(glyphs[:2]), layout.Width, layout.Height, 0)
}

func TestTightPackerValidate(t *testing.T) {
	tests := []struct {
		name  string
		p     TightPacker
		field string
	}{
		{"one-sided dimensions", TightPacker{Width: 64, Scale: 1}, "dimensions"},
		{"negative spacing", TightPacker{Scale: 1, Spacing: -1}, "spacing"},
		{"negative scale", TightPacker{Scale: -2}, "scale"},
		{"negative miter limit", TightPacker{Scale: 1, MiterLimit: -1}, "miterLimit"},
		{"nothing to pack against", TightPacker{}, "scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Pack(nil)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Pack error = %v, want a *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}
