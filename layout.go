package atlasgen

// AtlasLayout reports the geometry a packer settled on: the atlas
// dimensions, the scale in pixels per em, and the distance range in both
// em and pixel form. Grid is non-nil only for grid packing.
type AtlasLayout struct {
	Width, Height int
	Scale         float64
	Range         Range
	PxRange       Range
	Grid          *GridMetrics
}

// GridMetrics describes the uniform cell arrangement of a grid atlas.
// CellWidth and CellHeight are the cell pitch, spacing included, so
// successive cells start CellWidth pixels apart. OriginX and OriginY
// are the shared cell-relative pen origins in em units, nil on axes
// where each glyph floats within its cell. Cutoff reports that at least
// one glyph outgrew its cell and had its field clipped.
type GridMetrics struct {
	CellWidth  int
	CellHeight int
	Columns    int
	Rows       int
	Spacing    int
	OriginX    *float64
	OriginY    *float64
	Cutoff     bool
}
