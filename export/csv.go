package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gogpu/atlasgen"
)

// WriteCSV saves the glyph layout table to a CSV file.
func WriteCSV(path string, geom *atlasgen.FontGeometry, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create csv file: %w", err)
	}
	defer f.Close()
	return EncodeCSV(f, geom, meta)
}

// EncodeCSV writes one row per glyph: identifier (codepoint, or glyph
// index for glyphs without one), advance, the four plane bounds and the
// four atlas bounds. Bottom-up rows carry bounds as left, bottom, right,
// top; top-down rows flip the vertical axis and carry left, top, right,
// bottom instead.
func EncodeCSV(w io.Writer, geom *atlasgen.FontGeometry, meta Metadata) error {
	cw := csv.NewWriter(w)
	record := make([]string, 10)
	for _, g := range geom.Glyphs() {
		if cp := g.Codepoint(); cp != 0 {
			record[0] = strconv.FormatInt(int64(cp), 10)
		} else {
			record[0] = strconv.Itoa(g.Index())
		}
		record[1] = formatFloat(g.Advance())

		pl, pb, pr, pt := g.QuadPlaneBounds()
		al, ab, ar, at := g.QuadAtlasBounds()
		if meta.YDirection == atlasgen.YTopDown {
			pb, pt = -pt, -pb
			h := float64(meta.Layout.Height)
			ab, at = h-at, h-ab
		}
		record[2] = formatFloat(pl)
		record[3] = formatFloat(pb)
		record[4] = formatFloat(pr)
		record[5] = formatFloat(pt)
		record[6] = formatFloat(al)
		record[7] = formatFloat(ab)
		record[8] = formatFloat(ar)
		record[9] = formatFloat(at)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
