// Package export serializes generated atlases: the bitmap as PNG, BMP,
// TIFF or raw dumps, and the glyph layout as JSON or CSV in the layout
// schema established by msdf-atlas-gen, so existing runtime loaders can
// consume the output unchanged.
//
// Atlas bitmaps are stored bottom-up. Raster image formats are written
// upright and addressed through the exported metadata, so YDirection
// only selects how that metadata and the raw dumps are oriented.
package export
