package atlasgen

import (
	"errors"
	"fmt"
)

// ErrPackFailed reports that no atlas configuration satisfies the
// requested constraints, not even for a single glyph. Returned wrapped;
// match with errors.Is.
var ErrPackFailed = errors.New("no atlas configuration satisfies the constraints")

// ConfigError reports a contradictory or invalid configuration value.
// It is always detected before any packing work happens.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// PackError reports a partial packing failure: the atlas was produced but
// Unplaced glyphs did not fit. The caller decides whether to continue
// with the reduced set.
type PackError struct {
	Unplaced int
}

func (e *PackError) Error() string {
	return fmt.Sprintf("pack: %d glyphs did not fit", e.Unplaced)
}

// GenerationError reports that some glyphs failed to render. The
// remaining glyphs are intact; each owns a disjoint atlas region.
type GenerationError struct {
	Failed int
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate: %d glyphs failed", e.Failed)
}
