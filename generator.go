package atlasgen

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/atlasgen/msdf"
)

// GeneratorAttributes bundles the per-pixel generation settings shared
// by every glyph of an atlas. When ScanlinePass is set, a scanline fill
// pass fixes the sign of every stored distance after generation and the
// correction's own distance check is forced off, since the two resolve
// sign conflicts in incompatible ways.
type GeneratorAttributes struct {
	Config       msdf.GeneratorConfig
	Correction   msdf.ErrorCorrectionConfig
	ScanlinePass bool
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// renderGlyph fills out, which must be sized to the glyph's box, with
// the glyph's field of the given type.
func renderGlyph(out *msdf.Bitmap, g *GlyphGeometry, t ImageType, attr GeneratorAttributes) error {
	shape := g.Shape()
	proj := g.BoxProjection()
	rng := g.BoxRange()
	switch t {
	case ImageHardMask:
		return msdf.Rasterize(out, shape, proj)

	case ImageSoftMask:
		if err := msdf.GenerateSDF(out, shape, proj, rng, attr.Config); err != nil {
			return err
		}
		if attr.ScanlinePass {
			msdf.CorrectSigns(out, shape, proj, rng)
		}
		// Coverage runs opposite to stored distance: full inside, zero
		// outside, saturating beyond the range.
		for i := range out.Data {
			out.Data[i] = clamp01(1 - out.Data[i])
		}
		return nil

	case ImageSDF:
		if err := msdf.GenerateSDF(out, shape, proj, rng, attr.Config); err != nil {
			return err
		}
		if attr.ScanlinePass {
			msdf.CorrectSigns(out, shape, proj, rng)
		}
		return nil

	case ImagePSDF:
		if err := msdf.GeneratePSDF(out, shape, proj, rng, attr.Config); err != nil {
			return err
		}
		if attr.ScanlinePass {
			msdf.CorrectSigns(out, shape, proj, rng)
		}
		return nil

	case ImageMSDF, ImageMTSDF:
		var err error
		if t == ImageMSDF {
			err = msdf.GenerateMSDF(out, shape, proj, rng, attr.Config)
		} else {
			err = msdf.GenerateMTSDF(out, shape, proj, rng, attr.Config)
		}
		if err != nil {
			return err
		}
		correction := attr.Correction
		if attr.ScanlinePass {
			msdf.CorrectSigns(out, shape, proj, rng)
			correction.DistanceCheck = msdf.CheckDistanceNever
		}
		return msdf.CorrectErrors(out, shape, proj, rng, attr.Config, correction)
	}
	return fmt.Errorf("render glyph: unsupported image type %v", t)
}

// Generator renders glyph fields into one shared atlas bitmap across a
// worker pool. Glyph boxes never overlap after a successful pack, so
// workers write to disjoint regions of the atlas without locking.
type Generator struct {
	Type        ImageType
	Attributes  GeneratorAttributes
	ThreadCount int
}

// Generate renders every glyph into a new atlas bitmap of the given
// dimensions. Glyphs must already be packed, and colored for the
// multi-channel types. One glyph failing leaves its region blank and
// never blocks the others; failures are aggregated into a
// *GenerationError alongside the partially filled atlas.
func (g Generator) Generate(glyphs []*GlyphGeometry, width, height int) (*msdf.Bitmap, error) {
	channels := g.Type.Channels()
	atlas := msdf.NewBitmap(width, height, channels)

	maxArea := 0
	for _, gl := range glyphs {
		r := gl.BoxRect()
		maxArea = max(maxArea, r.W*r.H)
	}
	if maxArea == 0 {
		return atlas, nil
	}

	// Workers reuse scratch buffers sized for the largest box. Every
	// generator overwrites each pixel it covers, so stale contents never
	// leak through.
	scratch := sync.Pool{New: func() any {
		buf := make([]float32, maxArea*channels)
		return &buf
	}}

	var failed atomic.Int64
	NewWorkload(len(glyphs), func(i int) bool {
		gl := glyphs[i]
		r := gl.BoxRect()
		if gl.IsWhitespace() || r.W <= 0 || r.H <= 0 {
			return true
		}
		if r.X < 0 || r.Y < 0 {
			failed.Add(1)
			Logger().Error("glyph has no placement", "glyph", gl.Index())
			return false
		}
		buf := scratch.Get().(*[]float32)
		defer scratch.Put(buf)
		bm := &msdf.Bitmap{
			Data:     (*buf)[:r.W*r.H*channels],
			Width:    r.W,
			Height:   r.H,
			Channels: channels,
		}
		if err := renderGlyph(bm, gl, g.Type, g.Attributes); err != nil {
			failed.Add(1)
			Logger().Error("glyph generation failed", "glyph", gl.Index(), "err", err)
			return false
		}
		atlas.Blit(bm, r.X, r.Y)
		return true
	}).Finish(g.ThreadCount)

	if n := failed.Load(); n > 0 {
		return atlas, &GenerationError{Failed: int(n)}
	}
	return atlas, nil
}
