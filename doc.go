// Package atlasgen builds packed glyph atlases of signed distance
// fields for real-time text rendering.
//
// # Overview
//
// atlasgen takes glyph outlines from a font, assigns each glyph a region
// of a single image, and fills that region with a distance field that
// renders crisply at any scale. Single-channel (sdf, psdf), multi-channel
// (msdf) and combined (mtsdf) fields are supported, along with plain
// hard and soft coverage masks. The heavy lifting lives in three stages:
// a packer that settles scale and placement, an edge coloring pass for
// the multi-channel variants, and a parallel per-glyph field generator
// with artifact correction.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/atlasgen"
//		"github.com/gogpu/atlasgen/fontdata"
//	)
//
//	// Load glyph outlines for the printable ASCII range.
//	data, _ := os.ReadFile("Roboto-Regular.ttf")
//	fnt, _ := fontdata.Open(data)
//	geom, _, _ := fontdata.LoadCharset(fnt, fontdata.ASCII(), fontdata.Options{})
//
//	// Pack the glyphs, maximizing scale inside a 512x512 atlas.
//	packer := atlasgen.TightPacker{
//		Width: 512, Height: 512,
//		PxRange: atlasgen.NewRange(2),
//		MiterLimit: 1,
//	}
//	layout, _ := packer.Pack(geom.Glyphs())
//
//	// Color edges and render the multi-channel field.
//	atlasgen.ColorGlyphs(geom.Glyphs(), atlasgen.ColoringInkTrap, 3, 0, 0)
//	gen := atlasgen.Generator{Type: atlasgen.ImageMSDF}
//	atlas, _ := gen.Generate(geom.Glyphs(), layout.Width, layout.Height)
//
// # Pipeline
//
// The stages run strictly in order: pack, then color, then generate.
// Packing is single-threaded and mutates each glyph's box exactly once;
// coloring mutates each glyph's edges exactly once; generation treats
// glyphs as read-only and runs them concurrently, each writing its own
// disjoint region of the shared atlas bitmap.
//
// # Packers
//
// TightPacker shelf-packs variable-sized boxes and can search for the
// largest workable scale by bisection. GridPacker arranges uniform cells
// in glyph order, optionally with a shared per-cell pen origin so a
// renderer needs no placement table. Both accept fixed dimensions or a
// DimensionsConstraint to search under.
//
// # Coordinate System
//
// Shape space is em units with y up, matching font design conventions.
// Atlas pixel space is bottom-up: row 0 is the bottom row. Exporters
// flip to top-down image order on output when asked.
//
// # Sub-packages
//
//   - msdf: distance field math (shapes, edge coloring, generation,
//     error correction)
//   - fontdata: font loading, charset parsing
//   - export: JSON/CSV layout descriptions and image serialization
package atlasgen

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
