// Package msdf implements signed distance field generation for glyph
// outlines: true single-channel fields (SDF), perpendicular pseudo-distance
// fields (PSDF), and multi-channel fields (MSDF/MTSDF) that preserve sharp
// corners through per-channel median reconstruction.
//
// The package operates on an immutable Shape model: closed contours of
// linear, quadratic and cubic Bezier edges in em units. Distances are
// negative inside the shape and positive outside; a generated field stores
// (d - Range.Lower) / (Range.Upper - Range.Lower) per channel, so the shape
// boundary sits at the range's zero point (0.5 for a symmetric range).
//
// # Pipeline
//
// 1. Build a Shape (one Contour per closed outline path)
// 2. Normalize and orient it (OrientContours fixes winding per nonzero fill)
// 3. Color its edges for multi-channel output (ColorEdgesSimple and friends)
// 4. Generate into a float Bitmap (GenerateMSDF and friends)
// 5. Optionally fix signs per scanline (CorrectSigns) and run error
//    correction (CorrectErrors)
//
// Reconstruction downstream takes the median of the three channels:
//
//	fn median3(v: vec3<f32>) -> f32 {
//	    return max(min(v.r, v.g), min(max(v.r, v.g), v.b));
//	}
//
// # References
//
// - msdfgen: https://github.com/Chlumsky/msdfgen
// - MSDF paper: "Shape Decomposition for Multi-channel Distance Fields"
package msdf
