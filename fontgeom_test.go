package atlasgen

import "testing"

func TestFontGeometryLookup(t *testing.T) {
	f := NewFontGeometry()
	f.SetName("demo")
	f.SetMetrics(FontMetrics{EmSize: 1, AscenderY: 0.8, DescenderY: -0.2})

	a := squareGlyph('A', 4, 0, 0, 1, 1)
	idxOnly := squareGlyph(0, 9, 0, 0, 0.5, 0.5)
	f.AddGlyph(a)
	f.AddGlyph(idxOnly)

	if f.Name() != "demo" {
		t.Errorf("Name() = %q, want %q", f.Name(), "demo")
	}
	if m := f.Metrics(); m.AscenderY != 0.8 {
		t.Errorf("Metrics().AscenderY = %v, want 0.8", m.AscenderY)
	}
	if got := f.Glyphs(); len(got) != 2 || got[0] != a {
		t.Fatalf("Glyphs() = %v, want the glyphs in load order", got)
	}
	if g, ok := f.GlyphByCodepoint('A'); !ok || g != a {
		t.Errorf("GlyphByCodepoint('A') = (%v, %v), want glyph a", g, ok)
	}
	if _, ok := f.GlyphByCodepoint('B'); ok {
		t.Error("GlyphByCodepoint('B') found a glyph that was never added")
	}
	if g, ok := f.GlyphByIndex(9); !ok || g != idxOnly {
		t.Errorf("GlyphByIndex(9) = (%v, %v), want the index-only glyph", g, ok)
	}
	// Codepoint zero marks index-only glyphs and never lands in the
	// codepoint table.
	if _, ok := f.GlyphByCodepoint(0); ok {
		t.Error("GlyphByCodepoint(0) found the index-only glyph")
	}
}

func TestFontGeometryReplacement(t *testing.T) {
	f := NewFontGeometry()
	first := squareGlyph('A', 1, 0, 0, 1, 1)
	second := squareGlyph('A', 1, 0, 0, 0.5, 0.5)
	f.AddGlyph(first)
	f.AddGlyph(second)

	if got := len(f.Glyphs()); got != 2 {
		t.Errorf("len(Glyphs()) = %d, want both entries kept in order", got)
	}
	if g, _ := f.GlyphByCodepoint('A'); g != second {
		t.Error("GlyphByCodepoint('A') returns the earlier entry, want the replacement")
	}
	if g, _ := f.GlyphByIndex(1); g != second {
		t.Error("GlyphByIndex(1) returns the earlier entry, want the replacement")
	}
}

func TestFontGeometryKerning(t *testing.T) {
	f := NewFontGeometry()
	f.AddKerning(3, 5, -0.04)
	f.AddKerning(5, 3, 0.01)

	if got := f.KernAdvance(3, 5); got != -0.04 {
		t.Errorf("KernAdvance(3, 5) = %v, want -0.04", got)
	}
	if got := f.KernAdvance(5, 3); got != 0.01 {
		t.Errorf("KernAdvance(5, 3) = %v, want 0.01", got)
	}
	if got := f.KernAdvance(3, 7); got != 0 {
		t.Errorf("KernAdvance(3, 7) = %v, want 0 for an unkerned pair", got)
	}
	if got := len(f.Kerning()); got != 2 {
		t.Errorf("len(Kerning()) = %d, want 2", got)
	}

	f.DropKerning()
	if got := len(f.Kerning()); got != 0 {
		t.Errorf("len(Kerning()) = %d after DropKerning, want 0", got)
	}
	if got := f.KernAdvance(3, 5); got != 0 {
		t.Errorf("KernAdvance(3, 5) = %v after DropKerning, want 0", got)
	}
}
