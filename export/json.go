package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gogpu/atlasgen"
)

// Metadata describes the generated atlas for layout serialization.
type Metadata struct {
	// Type is the atlas image type.
	Type atlasgen.ImageType

	// Layout is the packer's result.
	Layout atlasgen.AtlasLayout

	// YDirection orients exported coordinates. Top-down flips plane
	// bounds and measures atlas bounds from the top edge.
	YDirection atlasgen.YDirection

	// Kerning includes the kerning table in JSON output.
	Kerning bool
}

type jsonRect struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
}

type jsonGrid struct {
	CellWidth  int      `json:"cellWidth"`
	CellHeight int      `json:"cellHeight"`
	Columns    int      `json:"columns"`
	Rows       int      `json:"rows"`
	OriginX    *float64 `json:"originX,omitempty"`
	OriginY    *float64 `json:"originY,omitempty"`
	Spacing    int      `json:"spacing"`
}

type jsonAtlas struct {
	Type                string    `json:"type"`
	DistanceRange       float64   `json:"distanceRange"`
	DistanceRangeMiddle float64   `json:"distanceRangeMiddle"`
	Size                float64   `json:"size"`
	Width               int       `json:"width"`
	Height              int       `json:"height"`
	YOrigin             string    `json:"yOrigin"`
	Grid                *jsonGrid `json:"grid,omitempty"`
}

type jsonMetrics struct {
	EmSize             float64 `json:"emSize"`
	LineHeight         float64 `json:"lineHeight"`
	Ascender           float64 `json:"ascender"`
	Descender          float64 `json:"descender"`
	UnderlineY         float64 `json:"underlineY"`
	UnderlineThickness float64 `json:"underlineThickness"`
}

type jsonGlyph struct {
	Unicode     *int32    `json:"unicode,omitempty"`
	Index       *int      `json:"index,omitempty"`
	Advance     float64   `json:"advance"`
	PlaneBounds *jsonRect `json:"planeBounds,omitempty"`
	AtlasBounds *jsonRect `json:"atlasBounds,omitempty"`
}

type jsonKernPair struct {
	Unicode1 *int32  `json:"unicode1,omitempty"`
	Index1   *int    `json:"index1,omitempty"`
	Unicode2 *int32  `json:"unicode2,omitempty"`
	Index2   *int    `json:"index2,omitempty"`
	Advance  float64 `json:"advance"`
}

type jsonRoot struct {
	Name    string         `json:"name,omitempty"`
	Atlas   jsonAtlas      `json:"atlas"`
	Metrics jsonMetrics    `json:"metrics"`
	Glyphs  []jsonGlyph    `json:"glyphs"`
	Kerning []jsonKernPair `json:"kerning,omitempty"`
}

// WriteJSON saves the atlas layout and font metadata to a JSON file.
func WriteJSON(path string, geom *atlasgen.FontGeometry, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create json file: %w", err)
	}
	defer f.Close()
	return EncodeJSON(f, geom, meta)
}

// EncodeJSON writes the atlas layout and font metadata as JSON. The
// schema matches msdf-atlas-gen's, so existing atlas loaders parse it
// directly: an atlas block, a metrics block, per-glyph plane and atlas
// bounds, and optionally the kerning table.
func EncodeJSON(w io.Writer, geom *atlasgen.FontGeometry, meta Metadata) error {
	root := jsonRoot{
		Name:    geom.Name(),
		Atlas:   atlasBlock(meta),
		Metrics: metricsBlock(geom.Metrics()),
		Glyphs:  glyphBlocks(geom, meta),
	}
	if meta.Kerning {
		root.Kerning = kerningBlocks(geom)
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

func atlasBlock(meta Metadata) jsonAtlas {
	pr := meta.Layout.PxRange
	atlas := jsonAtlas{
		Type:                meta.Type.String(),
		DistanceRange:       pr.Upper - pr.Lower,
		DistanceRangeMiddle: 0.5 * (pr.Lower + pr.Upper),
		Size:                meta.Layout.Scale,
		Width:               meta.Layout.Width,
		Height:              meta.Layout.Height,
		YOrigin:             yOriginName(meta.YDirection),
	}
	if g := meta.Layout.Grid; g != nil {
		grid := &jsonGrid{
			CellWidth:  g.CellWidth,
			CellHeight: g.CellHeight,
			Columns:    g.Columns,
			Rows:       g.Rows,
			Spacing:    g.Spacing,
		}
		if g.OriginX != nil {
			x := *g.OriginX
			grid.OriginX = &x
		}
		if g.OriginY != nil {
			y := *g.OriginY
			if meta.YDirection == atlasgen.YTopDown {
				y = float64(g.CellHeight-g.Spacing-1)/meta.Layout.Scale - y
			}
			grid.OriginY = &y
		}
		atlas.Grid = grid
	}
	return atlas
}

func yOriginName(dir atlasgen.YDirection) string {
	if dir == atlasgen.YTopDown {
		return "top"
	}
	return "bottom"
}

func metricsBlock(m atlasgen.FontMetrics) jsonMetrics {
	return jsonMetrics{
		EmSize:             m.EmSize,
		LineHeight:         m.LineHeight,
		Ascender:           m.AscenderY,
		Descender:          m.DescenderY,
		UnderlineY:         m.UnderlineY,
		UnderlineThickness: m.UnderlineThickness,
	}
}

func glyphBlocks(geom *atlasgen.FontGeometry, meta Metadata) []jsonGlyph {
	glyphs := geom.Glyphs()
	out := make([]jsonGlyph, 0, len(glyphs))
	for _, g := range glyphs {
		jg := jsonGlyph{Advance: g.Advance()}
		if cp := g.Codepoint(); cp != 0 {
			u := int32(cp)
			jg.Unicode = &u
		} else {
			idx := g.Index()
			jg.Index = &idx
		}
		if rect := g.BoxRect(); rect.W > 0 && rect.H > 0 {
			jg.PlaneBounds = planeRect(g, meta.YDirection)
			jg.AtlasBounds = atlasRect(g, meta)
		}
		out = append(out, jg)
	}
	return out
}

// planeRect is the glyph quad relative to the pen position. Top-down
// output negates Y, so each edge keeps its name but flips sign.
func planeRect(g *atlasgen.GlyphGeometry, dir atlasgen.YDirection) *jsonRect {
	l, b, r, t := g.QuadPlaneBounds()
	if dir == atlasgen.YTopDown {
		b, t = -b, -t
	}
	return &jsonRect{Left: l, Bottom: b, Right: r, Top: t}
}

// atlasRect is the glyph quad in atlas pixels, measured from the edge
// YDirection starts at.
func atlasRect(g *atlasgen.GlyphGeometry, meta Metadata) *jsonRect {
	l, b, r, t := g.QuadAtlasBounds()
	if meta.YDirection == atlasgen.YTopDown {
		h := float64(meta.Layout.Height)
		b, t = h-b, h-t
	}
	return &jsonRect{Left: l, Bottom: b, Right: r, Top: t}
}

func kerningBlocks(geom *atlasgen.FontGeometry) []jsonKernPair {
	kerning := geom.Kerning()
	keys := make([]atlasgen.KernPair, 0, len(kerning))
	for pair := range kerning {
		keys = append(keys, pair)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Left != keys[j].Left {
			return keys[i].Left < keys[j].Left
		}
		return keys[i].Right < keys[j].Right
	})
	out := make([]jsonKernPair, 0, len(keys))
	for _, pair := range keys {
		jp := jsonKernPair{Advance: kerning[pair]}
		if g, ok := geom.GlyphByIndex(pair.Left); ok && g.Codepoint() != 0 {
			u := int32(g.Codepoint())
			jp.Unicode1 = &u
		} else {
			left := pair.Left
			jp.Index1 = &left
		}
		if g, ok := geom.GlyphByIndex(pair.Right); ok && g.Codepoint() != 0 {
			u := int32(g.Codepoint())
			jp.Unicode2 = &u
		} else {
			right := pair.Right
			jp.Index2 = &right
		}
		out = append(out, jp)
	}
	return out
}
