package atlasgen

import (
	"testing"

	"github.com/gogpu/atlasgen/msdf"
)

func edgeColors(g *GlyphGeometry) []msdf.EdgeColor {
	var colors []msdf.EdgeColor
	for _, c := range g.Shape().Contours {
		for _, e := range c.Edges {
			colors = append(colors, e.Color)
		}
	}
	return colors
}

func TestGlyphSeedZeroBase(t *testing.T) {
	for _, i := range []int{0, 1, 7, 1000} {
		if got := glyphSeed(0, i); got != 0 {
			t.Errorf("glyphSeed(0, %d) = %d, want 0", i, got)
		}
	}
}

func TestGlyphSeedDecorrelates(t *testing.T) {
	seen := make(map[uint64]int)
	for i := 0; i < 16; i++ {
		s := glyphSeed(99, i)
		if s == 0 {
			t.Errorf("glyphSeed(99, %d) = 0, want nonzero", i)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("glyphSeed(99, %d) collides with glyph %d", i, prev)
		}
		seen[s] = i
	}
}

func TestColorGlyphsColorsEveryGlyph(t *testing.T) {
	strategies := []ColoringStrategy{ColoringSimple, ColoringInkTrap, ColoringByDistance}
	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			glyphs := unitSquares(3)
			glyphs = append(glyphs, NewGlyphGeometry(' ', 9, 0.25, nil))
			ColorGlyphs(glyphs, strategy, DefaultAngleThreshold, 0, 2)
			for i, g := range glyphs[:3] {
				for k, c := range edgeColors(g) {
					if c == msdf.ColorBlack {
						t.Errorf("glyph %d edge %d left black", i, k)
					}
				}
			}
		})
	}
}

func TestColorGlyphsSchedulingIndependent(t *testing.T) {
	// By-distance coloring fans out one glyph per worker unit; the
	// derived per-glyph seeds keep the result independent of scheduling.
	a := unitSquares(8)
	b := unitSquares(8)
	ColorGlyphs(a, ColoringByDistance, DefaultAngleThreshold, 42, 1)
	ColorGlyphs(b, ColoringByDistance, DefaultAngleThreshold, 42, 4)
	for i := range a {
		ca, cb := edgeColors(a[i]), edgeColors(b[i])
		for k := range ca {
			if ca[k] != cb[k] {
				t.Errorf("glyph %d edge %d: %v single-threaded vs %v on four threads", i, k, ca[k], cb[k])
			}
		}
	}
}

func TestColorGlyphsZeroSeedIsUniform(t *testing.T) {
	// A zero base seed colors every glyph from the same state, so equal
	// shapes come out identical.
	glyphs := unitSquares(4)
	ColorGlyphs(glyphs, ColoringSimple, DefaultAngleThreshold, 0, 0)
	want := edgeColors(glyphs[0])
	for i, g := range glyphs[1:] {
		got := edgeColors(g)
		for k := range want {
			if got[k] != want[k] {
				t.Errorf("glyph %d edge %d color = %v, want %v like glyph 0", i+1, k, got[k], want[k])
			}
		}
	}
}
