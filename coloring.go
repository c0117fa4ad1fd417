package atlasgen

// Constants of the linear congruential step that decorrelates per-glyph
// coloring seeds. Matching values let colorings be reproduced across
// toolchains from the same base seed.
const (
	seedMultiplier uint64 = 6364136223846793005
	seedIncrement  uint64 = 1442695040888963407
)

// glyphSeed derives the coloring seed for the glyph at slice position i.
// A zero base seed stays zero for every glyph, so the default
// configuration colors each glyph from the same starting state.
func glyphSeed(base uint64, i int) uint64 {
	if base == 0 {
		return 0
	}
	return seedMultiplier*(base^uint64(i)) + seedIncrement
}

// ColorGlyphs assigns distance-field channels to every glyph's edges.
// Seeds are derived per glyph from the base seed, so a fixed seed and
// glyph order reproduce identical channel assignments regardless of
// scheduling. The by-distance strategy is dispatched one glyph per
// worker unit since a single glyph can dominate the whole pass; the
// cheap strategies run inline, where spawning workers would cost more
// than the coloring itself.
func ColorGlyphs(glyphs []*GlyphGeometry, strategy ColoringStrategy, angleThreshold float64, seed uint64, threadCount int) {
	if strategy.Expensive() {
		NewWorkload(len(glyphs), func(i int) bool {
			glyphs[i].ColorEdges(strategy, angleThreshold, glyphSeed(seed, i))
			return true
		}).Finish(threadCount)
		return
	}
	for i, g := range glyphs {
		g.ColorEdges(strategy, angleThreshold, glyphSeed(seed, i))
	}
}
