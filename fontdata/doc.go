// Package fontdata loads font files into the glyph geometry that atlas
// generation consumes. Outlines, metrics and advances come from
// golang.org/x/image/font/sfnt, em-normalized and oriented for signed
// distance generation. Kerning is pluggable: the default source reads
// the legacy kern table, the "gotext" source derives GPOS pair
// positioning by shaping glyph pairs through go-text/typesetting.
//
// The package also parses charset and glyphset specifications (inline
// or from files) in a small syntax of codepoints, character and string
// literals, ranges and file inclusions.
package fontdata
