package fontdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Charset is a set of Unicode codepoints, or of glyph indices when
// parsed as a glyphset. Loaders iterate it in ascending order, so a
// given set always produces the same glyph order.
type Charset struct {
	runes map[rune]struct{}
}

// NewCharset returns an empty charset.
func NewCharset() *Charset {
	return &Charset{runes: make(map[rune]struct{})}
}

// Add inserts a single codepoint.
func (c *Charset) Add(r rune) {
	c.runes[r] = struct{}{}
}

// AddRange inserts every codepoint in [lo, hi].
func (c *Charset) AddRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		c.Add(r)
	}
}

// Contains reports whether the codepoint is in the set.
func (c *Charset) Contains(r rune) bool {
	_, ok := c.runes[r]
	return ok
}

// Size returns the number of codepoints in the set.
func (c *Charset) Size() int {
	return len(c.runes)
}

// Runes returns the set in ascending order.
func (c *Charset) Runes() []rune {
	out := make([]rune, 0, len(c.runes))
	for r := range c.runes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ASCII returns the printable ASCII charset [0x20, 0x7E], the default
// input when no charset is specified.
func ASCII() *Charset {
	c := NewCharset()
	c.AddRange(0x20, 0x7E)
	return c
}

// FromRangeTable fills a charset from a unicode.RangeTable.
func FromRangeTable(table *unicode.RangeTable) *Charset {
	c := NewCharset()
	rangetable.Visit(table, c.Add)
	return c
}

// latin1Table covers printable ASCII plus the printable Latin-1
// supplement.
var latin1Table = rangetable.Merge(
	rangetable.New(runesBetween(0x20, 0x7E)...),
	rangetable.New(runesBetween(0xA0, 0xFF)...),
)

// Latin1 returns the printable Latin-1 charset.
func Latin1() *Charset {
	return FromRangeTable(latin1Table)
}

func runesBetween(lo, hi rune) []rune {
	out := make([]rune, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		out = append(out, r)
	}
	return out
}

// Charset specification syntax, shared by inline specs and files:
//
//	65          decimal codepoint
//	0x41        hexadecimal codepoint
//	'A'         character literal (UTF-8, backslash escapes the next byte)
//	"ABC"       string literal, adds each character
//	[lo, hi]    inclusive range; bounds are codepoints or character literals
//	@"path"     include another specification file
//
// Entries are separated by whitespace and/or commas. Glyphset
// specifications use the same syntax with character and string literals
// disallowed, and entries are glyph indices instead of codepoints.

// maxIncludeDepth caps nested @"path" inclusion.
const maxIncludeDepth = 8

// ParseCharset parses an inline charset specification. Included files
// resolve relative to the working directory.
func ParseCharset(spec string) (*Charset, error) {
	c := NewCharset()
	if err := parseSpec(c, spec, "", ".", true, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseGlyphset parses an inline glyphset specification.
func ParseGlyphset(spec string) (*Charset, error) {
	c := NewCharset()
	if err := parseSpec(c, spec, "", ".", false, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCharsetFile reads a charset specification file. Included files
// resolve relative to the including file's directory.
func LoadCharsetFile(path string) (*Charset, error) {
	c := NewCharset()
	if err := includeFile(c, path, true, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadGlyphsetFile reads a glyphset specification file.
func LoadGlyphsetFile(path string) (*Charset, error) {
	c := NewCharset()
	if err := includeFile(c, path, false, 0); err != nil {
		return nil, err
	}
	return c, nil
}

func includeFile(c *Charset, path string, literals bool, depth int) error {
	if depth > maxIncludeDepth {
		return &ParseError{File: path, Reason: "include depth exceeded"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fontdata: read charset: %w", err)
	}
	return parseSpec(c, string(data), path, filepath.Dir(path), literals, depth)
}

func parseSpec(c *Charset, src, file, dir string, literals bool, depth int) error {
	p := &charsetParser{src: src, file: file, dir: dir, literals: literals, depth: depth}
	return p.run(c)
}

type charsetParser struct {
	src      string
	pos      int
	file     string
	dir      string
	literals bool
	depth    int
}

func (p *charsetParser) errf(format string, args ...any) error {
	return &ParseError{File: p.file, Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *charsetParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *charsetParser) run(c *Charset) error {
	for {
		p.skipSeparators()
		if p.eof() {
			return nil
		}
		switch ch := p.src[p.pos]; {
		case ch == '\'':
			if !p.literals {
				return p.errf("character literals not allowed in glyph sets")
			}
			r, err := p.charLiteral()
			if err != nil {
				return err
			}
			c.Add(r)
		case ch == '"':
			if !p.literals {
				return p.errf("string literals not allowed in glyph sets")
			}
			s, err := p.quoted('"')
			if err != nil {
				return err
			}
			for _, r := range s {
				c.Add(r)
			}
		case ch == '[':
			lo, hi, err := p.rangeEntry()
			if err != nil {
				return err
			}
			c.AddRange(lo, hi)
		case ch == '@':
			p.pos++
			path, err := p.quoted('"')
			if err != nil {
				return err
			}
			if !filepath.IsAbs(path) && p.dir != "" {
				path = filepath.Join(p.dir, path)
			}
			if err := includeFile(c, path, p.literals, p.depth+1); err != nil {
				return err
			}
		case ch >= '0' && ch <= '9':
			r, err := p.number()
			if err != nil {
				return err
			}
			c.Add(r)
		default:
			return p.errf("unexpected character %q", string(rune(ch)))
		}
	}
}

// skipSeparators consumes whitespace and commas between entries.
func (p *charsetParser) skipSeparators() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

// skipSpace consumes whitespace only, inside range brackets where the
// comma is structural.
func (p *charsetParser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *charsetParser) number() (rune, error) {
	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.pos += 2
		start := p.pos
		for !p.eof() && isHexDigit(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return 0, p.errf("malformed hexadecimal codepoint")
		}
		v, err := strconv.ParseUint(p.src[start:p.pos], 16, 32)
		if err != nil {
			return 0, p.errf("malformed hexadecimal codepoint")
		}
		return rune(v), nil
	}
	start := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	v, err := strconv.ParseUint(p.src[start:p.pos], 10, 32)
	if err != nil {
		return 0, p.errf("malformed codepoint")
	}
	return rune(v), nil
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func (p *charsetParser) charLiteral() (rune, error) {
	s, err := p.quoted('\'')
	if err != nil {
		return 0, err
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, p.errf("character literal must contain exactly one character")
	}
	return runes[0], nil
}

// quoted consumes a quote-delimited literal. A backslash makes the next
// byte literal; UTF-8 sequences pass through intact.
func (p *charsetParser) quoted(quote byte) (string, error) {
	if p.eof() || p.src[p.pos] != quote {
		return "", p.errf("expected %q", string(rune(quote)))
	}
	p.pos++
	var sb strings.Builder
	escaped := false
	for !p.eof() {
		ch := p.src[p.pos]
		switch {
		case escaped:
			sb.WriteByte(ch)
			escaped = false
			p.pos++
		case ch == '\\':
			escaped = true
			p.pos++
		case ch == quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}
	return "", p.errf("unterminated literal")
}

func (p *charsetParser) rangeEntry() (lo, hi rune, err error) {
	p.pos++ // consume '['
	p.skipSpace()
	if lo, err = p.rangeBound(); err != nil {
		return
	}
	p.skipSpace()
	if p.eof() || p.src[p.pos] != ',' {
		err = p.errf("expected ',' in range")
		return
	}
	p.pos++
	p.skipSpace()
	if hi, err = p.rangeBound(); err != nil {
		return
	}
	p.skipSpace()
	if p.eof() || p.src[p.pos] != ']' {
		err = p.errf("expected ']'")
		return
	}
	p.pos++
	if hi < lo {
		err = p.errf("range upper bound below lower bound")
	}
	return
}

func (p *charsetParser) rangeBound() (rune, error) {
	if p.eof() {
		return 0, p.errf("unterminated range")
	}
	switch ch := p.src[p.pos]; {
	case ch == '\'':
		if !p.literals {
			return 0, p.errf("character literals not allowed in glyph sets")
		}
		return p.charLiteral()
	case ch >= '0' && ch <= '9':
		return p.number()
	default:
		return 0, p.errf("expected codepoint in range")
	}
}
