package msdf

import "errors"

// Sentinel errors returned by shape validation and field generation.
// Wrap sites add context; callers match with errors.Is.
var (
	// ErrEmptyShape indicates a shape with no contours or no edges.
	ErrEmptyShape = errors.New("msdf: shape has no edges")

	// ErrOpenContour indicates a contour whose edges do not form a
	// closed loop.
	ErrOpenContour = errors.New("msdf: contour is not closed")

	// ErrChannelMismatch indicates a bitmap with the wrong number of
	// channels for the requested operation.
	ErrChannelMismatch = errors.New("msdf: bitmap channel count mismatch")
)
