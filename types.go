package atlasgen

import "github.com/gogpu/atlasgen/msdf"

// Range is the span of representable signed distances. It is the msdf
// package's type re-exported, since configurations and exporters deal in
// ranges as much as the field math does.
type Range = msdf.Range

// NewRange returns a symmetric range of the given total width.
func NewRange(width float64) Range { return msdf.NewRange(width) }

// Defaults shared by the packers, the coloring pass and the CLI.
const (
	// DefaultEmSize is the glyph scale in pixels per em used when neither
	// a scale nor atlas dimensions are requested.
	DefaultEmSize = 32.0

	// DefaultAngleThreshold is the corner angle threshold for edge
	// coloring, in radians.
	DefaultAngleThreshold = 3.0

	// DefaultMiterLimit bounds the sharp-corner extension of glyph boxes
	// for perpendicular distance field variants.
	DefaultMiterLimit = 1.0

	// DefaultPixelRange is the total width of the symmetric distance
	// range, in pixels.
	DefaultPixelRange = 2.0
)

// ImageType selects what each atlas pixel encodes.
type ImageType int

const (
	// ImageHardMask is a binary inside/outside coverage image.
	ImageHardMask ImageType = iota

	// ImageSoftMask is an antialiased coverage image derived from the
	// true distance at a one pixel range.
	ImageSoftMask

	// ImageSDF is the true signed distance field.
	ImageSDF

	// ImagePSDF is the perpendicular signed distance field, which keeps
	// corners sharp at the cost of exact distances away from the outline.
	ImagePSDF

	// ImageMSDF is the multi-channel signed distance field. Consumers
	// reconstruct the distance as the per-pixel median of three channels.
	ImageMSDF

	// ImageMTSDF is ImageMSDF with the true distance in a fourth channel.
	ImageMTSDF
)

// Channels returns the number of atlas channels the image type needs.
func (t ImageType) Channels() int {
	switch t {
	case ImageMSDF:
		return 3
	case ImageMTSDF:
		return 4
	default:
		return 1
	}
}

// IsMulti reports whether the image type uses per-channel edge colors.
func (t ImageType) IsMulti() bool {
	return t == ImageMSDF || t == ImageMTSDF
}

// String returns the image type name.
func (t ImageType) String() string {
	switch t {
	case ImageHardMask:
		return "hardmask"
	case ImageSoftMask:
		return "softmask"
	case ImageSDF:
		return "sdf"
	case ImagePSDF:
		return "psdf"
	case ImageMSDF:
		return "msdf"
	case ImageMTSDF:
		return "mtsdf"
	default:
		return "unknown"
	}
}

// YDirection is the row order of an exported image. Atlas bitmaps are
// always stored bottom-up internally; exporters flip rows on demand.
type YDirection int

const (
	// YBottomUp puts the first image row at the bottom.
	YBottomUp YDirection = iota

	// YTopDown puts the first image row at the top.
	YTopDown
)

// String returns the direction name.
func (d YDirection) String() string {
	if d == YTopDown {
		return "top-down"
	}
	return "bottom-up"
}

// ColoringStrategy selects the edge coloring heuristic for multi-channel
// image types.
type ColoringStrategy int

const (
	// ColoringSimple switches the channel pair at every corner.
	ColoringSimple ColoringStrategy = iota

	// ColoringInkTrap additionally isolates very short corner features so
	// their channels cannot collide with the surrounding edges.
	ColoringInkTrap

	// ColoringByDistance assigns colors globally, maximizing the spatial
	// separation between same-channel edge runs. Markedly more expensive
	// than the other strategies.
	ColoringByDistance
)

// Expensive reports whether the strategy should be spread across workers
// one glyph at a time rather than batched.
func (s ColoringStrategy) Expensive() bool {
	return s == ColoringByDistance
}

// String returns the strategy name.
func (s ColoringStrategy) String() string {
	switch s {
	case ColoringSimple:
		return "simple"
	case ColoringInkTrap:
		return "inktrap"
	case ColoringByDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// Rect is an integer pixel rectangle inside the atlas. X and Y address
// the lower left corner in the bitmap's bottom-up space.
type Rect struct {
	X, Y, W, H int
}
