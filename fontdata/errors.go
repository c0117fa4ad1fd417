package fontdata

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fontdata package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("fontdata: empty font data")
)

// ParseError reports a charset or glyphset specification that could not
// be parsed.
type ParseError struct {
	// File is the specification file, empty for inline specifications.
	File string

	// Offset is the byte offset at which parsing stopped.
	Offset int

	// Reason describes what was expected.
	Reason string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("fontdata: %s: offset %d: %s", e.File, e.Offset, e.Reason)
	}
	return fmt.Sprintf("fontdata: charset: offset %d: %s", e.Offset, e.Reason)
}
