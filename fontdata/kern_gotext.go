package fontdata

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/atlasgen"
)

// shapingPPEM is the pixel size pair shaping runs at. Advances divide
// back out to em units, so the size only bounds quantization error
// (1/64 px at 26.6 precision).
const shapingPPEM = 1024

// shapedKernSource derives kerning by shaping codepoint pairs through
// go-text/typesetting's HarfBuzz port and differencing the first glyph's
// advance against its solo advance. Unlike the kern table source this
// picks up GPOS pair positioning, which most modern fonts use instead of
// the legacy table.
//
// Glyphs loaded by bare index carry no codepoint and are skipped, as are
// pairs the font shapes into anything other than the two expected glyphs
// (ligatures, contextual substitutions).
type shapedKernSource struct {
	// face is NOT safe for concurrent use; Pairs runs serially.
	face   *font.Face
	shaper shaping.HarfbuzzShaper
}

func newShapedKernSource(f *Font) (KernSource, error) {
	face, err := font.ParseTTF(bytes.NewReader(f.data))
	if err != nil {
		return nil, fmt.Errorf("fontdata: parse font for shaping: %w", err)
	}
	return &shapedKernSource{face: face}, nil
}

func (s *shapedKernSource) Pairs(glyphs []KernGlyph, scale float64) (map[atlasgen.KernPair]float64, error) {
	type shapeable struct {
		r    rune
		gid  int
		solo float64
	}
	var candidates []shapeable
	for _, g := range glyphs {
		if g.Codepoint == 0 {
			continue
		}
		out := s.shape([]rune{g.Codepoint})
		if len(out.Glyphs) != 1 || int(out.Glyphs[0].GlyphID) != g.Index {
			continue
		}
		candidates = append(candidates, shapeable{
			r:    g.Codepoint,
			gid:  g.Index,
			solo: fixedToFloat(out.Glyphs[0].Advance),
		})
	}

	pairs := make(map[atlasgen.KernPair]float64)
	k := scale / shapingPPEM
	for _, a := range candidates {
		for _, b := range candidates {
			out := s.shape([]rune{a.r, b.r})
			if len(out.Glyphs) != 2 || int(out.Glyphs[0].GlyphID) != a.gid || int(out.Glyphs[1].GlyphID) != b.gid {
				continue
			}
			delta := fixedToFloat(out.Glyphs[0].Advance) - a.solo
			if delta != 0 {
				pairs[atlasgen.KernPair{Left: a.gid, Right: b.gid}] = k * delta
			}
		}
	}
	return pairs, nil
}

func (s *shapedKernSource) shape(text []rune) shaping.Output {
	return s.shaper.Shape(shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      fixed.Int26_6(shapingPPEM * 64),
		Script:    language.LookupScript(text[0]),
		Language:  language.NewLanguage("en"),
	})
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
