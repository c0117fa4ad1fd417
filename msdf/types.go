package msdf

import (
	"math"
)

// Point represents a 2D point with float64 precision.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul returns p * scalar.
func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// LengthSquared returns the squared length (avoids sqrt).
func (p Point) LengthSquared() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Normalized returns a unit vector in the same direction.
// Returns zero vector if length is zero.
func (p Point) Normalized() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return Point{p.X / length, p.Y / length}
}

// Orthonormal returns the unit normal of the vector, rotated 90 degrees
// counter-clockwise. Returns zero vector if length is zero.
func (p Point) Orthonormal() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return Point{-p.Y / length, p.X / length}
}

// Lerp returns linear interpolation between p and q: p + t*(q-p).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		p.X + t*(q.X-p.X),
		p.Y + t*(q.Y-p.Y),
	}
}

// Rect represents a 2D rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ExtendTo grows the rectangle to include the point.
func (r Rect) ExtendTo(p Point) Rect {
	return Rect{
		MinX: min(r.MinX, p.X),
		MinY: min(r.MinY, p.Y),
		MaxX: max(r.MaxX, p.X),
		MaxY: max(r.MaxY, p.Y),
	}
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		MinX: min(r.MinX, s.MinX),
		MinY: min(r.MinY, s.MinY),
		MaxX: max(r.MaxX, s.MaxX),
		MaxY: max(r.MaxY, s.MaxY),
	}
}

// SignedDistance represents a signed distance with a tie-breaking measure.
type SignedDistance struct {
	// Distance is the signed Euclidean distance.
	// Negative = inside, Positive = outside.
	Distance float64

	// Dot measures how non-perpendicular the connecting line is at an
	// endpoint. Used to resolve ties between adjacent edges.
	Dot float64
}

// NewSignedDistance creates a new signed distance.
func NewSignedDistance(distance, dot float64) SignedDistance {
	return SignedDistance{Distance: distance, Dot: dot}
}

// Infinite returns a signed distance representing infinity.
func Infinite() SignedDistance {
	return SignedDistance{Distance: math.MaxFloat64, Dot: 1}
}

// IsCloserThan returns true if d is closer to the edge than other.
func (d SignedDistance) IsCloserThan(other SignedDistance) bool {
	absD := math.Abs(d.Distance)
	absO := math.Abs(other.Distance)
	if absD < absO {
		return true
	}
	if absD > absO {
		return false
	}
	// Equal absolute distance - the more perpendicular connection wins
	return d.Dot < other.Dot
}

// Range is the span of representable signed distances, in the same units
// as the shape coordinates. Lower is the innermost representable distance
// (negative), Upper the outermost (positive).
type Range struct {
	Lower, Upper float64
}

// NewRange returns a symmetric range of the given total width.
func NewRange(width float64) Range {
	return Range{Lower: -0.5 * width, Upper: 0.5 * width}
}

// Width returns Upper - Lower.
func (r Range) Width() float64 {
	return r.Upper - r.Lower
}

// Mul returns the range scaled by s.
func (r Range) Mul(s float64) Range {
	return Range{Lower: r.Lower * s, Upper: r.Upper * s}
}

// Div returns the range divided by s.
func (r Range) Div(s float64) Range {
	return Range{Lower: r.Lower / s, Upper: r.Upper / s}
}

// Add returns the per-bound sum of two ranges.
func (r Range) Add(s Range) Range {
	return Range{Lower: r.Lower + s.Lower, Upper: r.Upper + s.Upper}
}

// Normalize maps a raw distance into the stored [0, 1] domain.
// The result is not clamped; byte conversion clamps at export.
func (r Range) Normalize(d float64) float64 {
	w := r.Width()
	if w == 0 {
		return 0
	}
	return (d - r.Lower) / w
}

// ZeroPoint returns the stored value corresponding to distance zero,
// i.e. the shape boundary. 0.5 for a symmetric range.
func (r Range) ZeroPoint() float64 {
	w := r.Width()
	if w == 0 {
		return 0
	}
	return -r.Lower / w
}

// Projection maps shape coordinates to pixel coordinates:
// pixel = (point + Translate) * Scale, applied per axis.
type Projection struct {
	Scale     Point
	Translate Point
}

// NewProjection creates a projection with uniform scale.
func NewProjection(scale float64, translate Point) Projection {
	return Projection{Scale: Point{scale, scale}, Translate: translate}
}

// Project converts a shape-space point to pixel space.
func (p Projection) Project(pt Point) Point {
	return Point{(pt.X + p.Translate.X) * p.Scale.X, (pt.Y + p.Translate.Y) * p.Scale.Y}
}

// Unproject converts a pixel-space point to shape space.
func (p Projection) Unproject(pt Point) Point {
	return Point{pt.X/p.Scale.X - p.Translate.X, pt.Y/p.Scale.Y - p.Translate.Y}
}

// UnprojectX converts a pixel x coordinate to shape space.
func (p Projection) UnprojectX(x float64) float64 {
	return x/p.Scale.X - p.Translate.X
}

// UnprojectY converts a pixel y coordinate to shape space.
func (p Projection) UnprojectY(y float64) float64 {
	return y/p.Scale.Y - p.Translate.Y
}

// Bitmap is a float32 pixel buffer with 1, 3 or 4 channels.
// Rows are stored bottom-up: row 0 is the bottom of the image.
type Bitmap struct {
	Data     []float32
	Width    int
	Height   int
	Channels int
}

// NewBitmap allocates a zeroed bitmap.
func NewBitmap(width, height, channels int) *Bitmap {
	return &Bitmap{
		Data:     make([]float32, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// Pixel returns the channel slice for pixel (x, y).
func (b *Bitmap) Pixel(x, y int) []float32 {
	i := (y*b.Width + x) * b.Channels
	return b.Data[i : i+b.Channels]
}

// Blit copies src into b with its lower-left corner at (x, y).
// Channel counts must match; the destination region must be in bounds.
func (b *Bitmap) Blit(src *Bitmap, x, y int) {
	for row := 0; row < src.Height; row++ {
		di := ((y+row)*b.Width + x) * b.Channels
		si := row * src.Width * src.Channels
		copy(b.Data[di:di+src.Width*b.Channels], src.Data[si:si+src.Width*src.Channels])
	}
}

// median returns the median of three values. This is the reconstruction
// used by multi-channel distance field consumers.
func median(a, b, c float64) float64 {
	return max(min(a, b), min(max(a, b), c))
}

// Median3 returns the median of three values.
func Median3(a, b, c float64) float64 {
	return median(a, b, c)
}
