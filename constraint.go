package atlasgen

import "math"

// DimensionsConstraint restricts the legal atlas width and height pairs
// a packer may produce.
type DimensionsConstraint int

const (
	// ConstraintNone allows any dimensions.
	ConstraintNone DimensionsConstraint = iota

	// ConstraintSquare requires width == height.
	ConstraintSquare

	// ConstraintEvenSquare requires a square side divisible by two.
	ConstraintEvenSquare

	// ConstraintMultipleOfFourSquare requires a square side divisible by
	// four.
	ConstraintMultipleOfFourSquare

	// ConstraintPowerOfTwoRectangle requires power-of-two width and
	// height.
	ConstraintPowerOfTwoRectangle

	// ConstraintPowerOfTwoSquare requires a square power-of-two side.
	ConstraintPowerOfTwoSquare
)

// String returns the constraint name as the CLI spells it.
func (c DimensionsConstraint) String() string {
	switch c {
	case ConstraintNone:
		return "none"
	case ConstraintSquare:
		return "square"
	case ConstraintEvenSquare:
		return "square2"
	case ConstraintMultipleOfFourSquare:
		return "square4"
	case ConstraintPowerOfTwoRectangle:
		return "potr"
	case ConstraintPowerOfTwoSquare:
		return "pots"
	default:
		return "unknown"
	}
}

// sideMultiple returns the required divisor of a square side, or 0 when
// the constraint is not a fixed-multiple square.
func (c DimensionsConstraint) sideMultiple() int {
	switch c {
	case ConstraintNone, ConstraintSquare:
		return 1
	case ConstraintEvenSquare:
		return 2
	case ConstraintMultipleOfFourSquare:
		return 4
	default:
		return 0
	}
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// roundUpTo rounds n up to the next multiple of m.
func roundUpTo(n, m int) int {
	return (n + m - 1) / m * m
}

// Satisfies reports whether the dimensions are legal under the
// constraint.
func (c DimensionsConstraint) Satisfies(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	switch c {
	case ConstraintNone:
		return true
	case ConstraintSquare:
		return width == height
	case ConstraintEvenSquare:
		return width == height && width%2 == 0
	case ConstraintMultipleOfFourSquare:
		return width == height && width%4 == 0
	case ConstraintPowerOfTwoRectangle:
		return isPow2(width) && isPow2(height)
	case ConstraintPowerOfTwoSquare:
		return width == height && isPow2(width)
	default:
		return false
	}
}

// constrainDims grows dimensions to the nearest pair satisfying the
// constraint.
func constrainDims(c DimensionsConstraint, w, h int) (int, int) {
	switch c {
	case ConstraintSquare, ConstraintEvenSquare, ConstraintMultipleOfFourSquare:
		side := roundUpTo(max(w, h), c.sideMultiple())
		return side, side
	case ConstraintPowerOfTwoSquare:
		side := ceilPow2(max(w, h))
		return side, side
	case ConstraintPowerOfTwoRectangle:
		return ceilPow2(w), ceilPow2(h)
	default:
		return w, h
	}
}

// dimensionsEnumerator yields candidate atlas dimensions for a
// constraint in order of increasing area. Square constraints grow the
// side by its required multiple; power-of-two candidates alternate
// between a square and a double-width rectangle so every area step stays
// as close to square as the constraint allows.
type dimensionsEnumerator struct {
	constraint DimensionsConstraint
	w, h       int
}

// newDimensionsEnumerator positions the enumerator at the smallest
// candidate whose area is at least minArea.
func newDimensionsEnumerator(c DimensionsConstraint, minArea int) *dimensionsEnumerator {
	e := &dimensionsEnumerator{constraint: c}
	switch c {
	case ConstraintPowerOfTwoSquare:
		side := 1
		for side*side < minArea {
			side <<= 1
		}
		e.w, e.h = side, side
	case ConstraintPowerOfTwoRectangle:
		e.w, e.h = 1, 1
		for e.w*e.h < minArea {
			e.grow()
		}
	default:
		m := c.sideMultiple()
		side := int(math.Ceil(math.Sqrt(float64(minArea))))
		side = max(roundUpTo(side, m), m)
		e.w, e.h = side, side
	}
	return e
}

func (e *dimensionsEnumerator) dims() (width, height int) {
	return e.w, e.h
}

// grow advances to the next larger candidate.
func (e *dimensionsEnumerator) grow() {
	switch e.constraint {
	case ConstraintPowerOfTwoSquare:
		e.w <<= 1
		e.h = e.w
	case ConstraintPowerOfTwoRectangle:
		if e.w == e.h {
			e.w <<= 1
		} else {
			e.h = e.w
		}
	default:
		e.w += e.constraint.sideMultiple()
		e.h = e.w
	}
}
