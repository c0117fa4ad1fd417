package atlasgen

// Padding is a set of four independent edge offsets. Inner padding grows
// a glyph's box between the distance range margin and the glyph, outer
// padding grows it outside the margin; both are settable per edge, in em
// or pixel units depending on the configuration field they arrive in.
type Padding struct {
	L, B, R, T float64
}

// UniformPadding returns a padding with the same offset on every edge.
func UniformPadding(v float64) Padding {
	return Padding{L: v, B: v, R: v, T: v}
}

// Add returns the per-edge sum of two paddings.
func (p Padding) Add(q Padding) Padding {
	return Padding{L: p.L + q.L, B: p.B + q.B, R: p.R + q.R, T: p.T + q.T}
}

// Mul returns the padding scaled by s, converting between em and pixel
// units when s is a scale factor.
func (p Padding) Mul(s float64) Padding {
	return Padding{L: p.L * s, B: p.B * s, R: p.R * s, T: p.T * s}
}

// Horizontal returns L + R.
func (p Padding) Horizontal() float64 { return p.L + p.R }

// Vertical returns B + T.
func (p Padding) Vertical() float64 { return p.B + p.T }
