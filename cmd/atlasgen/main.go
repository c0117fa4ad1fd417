// Command atlasgen builds glyph distance field atlases from font files.
//
// A minimal invocation renders the ASCII charset into an MSDF atlas and
// writes the layout next to it:
//
//	atlasgen -font Roboto.ttf -imageout atlas.png -json atlas.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/atlasgen"
	"github.com/gogpu/atlasgen/export"
	"github.com/gogpu/atlasgen/fontdata"
	"github.com/gogpu/atlasgen/msdf"
)

func main() {
	var (
		fontPath  = flag.String("font", "", "path to the input font file")
		fontName  = flag.String("fontname", "", "font name override for the layout output")
		fontScale = flag.Float64("fontscale", 1, "glyph geometry scale multiplier")

		chars        = flag.String("chars", "", "inline charset specification")
		charsetPath  = flag.String("charset", "", "charset specification file")
		glyphsSpec   = flag.String("glyphs", "", "inline glyph index set specification")
		glyphsetPath = flag.String("glyphset", "", "glyph index set specification file")
		allGlyphs    = flag.Bool("allglyphs", false, "load every glyph in the font")

		typeName   = flag.String("type", "msdf", "atlas type: hardmask, softmask, sdf, psdf, msdf or mtsdf")
		formatName = flag.String("format", "", "image format: png, bmp, tiff, text, bin or binfloat (default inferred from -imageout)")
		imageOut   = flag.String("imageout", "", "atlas image output path")
		jsonOut    = flag.String("json", "", "layout JSON output path")
		csvOut     = flag.String("csv", "", "layout CSV output path")
		yOrigin    = flag.String("yorigin", "bottom", "vertical origin of exported coordinates: bottom or top")

		width   = flag.Int("width", 0, "fixed atlas width in pixels")
		height  = flag.Int("height", 0, "fixed atlas height in pixels")
		pots    = flag.Bool("pots", false, "constrain dimensions to a power-of-two square")
		potr    = flag.Bool("potr", false, "constrain dimensions to a power-of-two rectangle")
		square  = flag.Bool("square", false, "constrain dimensions to a square")
		square2 = flag.Bool("square2", false, "constrain dimensions to an even-sided square")
		square4 = flag.Bool("square4", false, "constrain dimensions to a square with sides divisible by four")

		size    = flag.Float64("size", 0, "fixed glyph scale in pixels per em")
		minSize = flag.Float64("minsize", 0, "minimum glyph scale in pixels per em")
		emRange = flag.Float64("emrange", 0, "total distance field range in ems")
		pxRange = flag.Float64("pxrange", 0, "total distance field range in pixels (default 2)")
		spacing = flag.Int("spacing", 0, "pixel gap between glyph boxes")

		pxPadding      = flag.Float64("pxpadding", 0, "inner box padding in pixels")
		emPadding      = flag.Float64("empadding", 0, "inner box padding in ems")
		outerPxPadding = flag.Float64("outerpxpadding", 0, "outer box padding in pixels")
		outerEmPadding = flag.Float64("outerempadding", 0, "outer box padding in ems")

		miterLimit = flag.Float64("miterlimit", atlasgen.DefaultMiterLimit, "miter limit for the box extent of sharp corners")
		pxAlign    = flag.String("pxalign", "y", "align glyph origins to pixel boundaries: off, on, x or y")

		coloring = flag.String("coloringstrategy", "inktrap", "edge coloring strategy: simple, inktrap or distance")
		angle    = flag.Float64("angle", atlasgen.DefaultAngleThreshold, "minimum corner angle for edge coloring, in radians")
		seed     = flag.Uint64("seed", 0, "edge coloring seed")

		errMode      = flag.String("errorcorrection", "auto", "error correction mode (disabled, auto-fast, auto, auto-full, distance-fast, distance-full, edge-fast, edge-full)")
		errDeviation = flag.Float64("errordeviationratio", 0, "minimum deviation ratio for artifact classification")
		errImprove   = flag.Float64("errorimproveratio", 0, "minimum improvement ratio for distance-checked corrections")

		scanline = flag.Bool("scanline", true, "resolve field signs with a scanline pass")
		overlap  = flag.Bool("overlap", true, "resolve overlapping contours")

		kerning    = flag.Bool("kerning", true, "include the kerning table in JSON output")
		kernSource = flag.String("kernsource", "sfnt", "kerning source: sfnt or gotext")

		threads = flag.Int("threads", 0, "worker thread count (0 for all CPUs)")

		grid               = flag.Bool("uniformgrid", false, "arrange glyphs on a uniform grid")
		gridCols           = flag.Int("uniformcols", 0, "fixed grid column count")
		gridCellWidth      = flag.Int("uniformcellwidth", 0, "fixed grid cell width in pixels")
		gridCellHeight     = flag.Int("uniformcellheight", 0, "fixed grid cell height in pixels")
		gridCellConstraint = flag.String("uniformcellconstraint", "none", "grid cell size constraint: none, square, square2, square4, potr or pots")
		gridOriginX        = flag.Bool("uniformoriginx", false, "share a fixed pen origin across cells horizontally")
		gridOriginY        = flag.Bool("uniformoriginy", true, "share a fixed pen origin across cells vertically")

		verbose = flag.Bool("verbose", false, "log library diagnostics to stderr")
	)
	flag.Parse()
	log.SetFlags(0)

	if *verbose {
		atlasgen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *fontPath == "" {
		log.Fatal("no font file specified (-font)")
	}
	if *imageOut == "" && *jsonOut == "" && *csvOut == "" {
		log.Fatal("no output specified (-imageout, -json or -csv)")
	}

	imageType, err := parseImageType(*typeName)
	if err != nil {
		log.Fatal(err)
	}
	strategy, err := parseColoring(*coloring)
	if err != nil {
		log.Fatal(err)
	}
	correction, err := parseErrorCorrection(*errMode)
	if err != nil {
		log.Fatal(err)
	}
	if flagWasSet("errordeviationratio") && *errDeviation <= 0 {
		log.Fatal("the error deviation ratio must be positive")
	}
	if flagWasSet("errorimproveratio") && *errImprove <= 0 {
		log.Fatal("the error improvement ratio must be positive")
	}
	correction.MinDeviationRatio = *errDeviation
	correction.MinImproveRatio = *errImprove
	dir, err := parseYOrigin(*yOrigin)
	if err != nil {
		log.Fatal(err)
	}
	alignX, alignY, err := parsePxAlign(*pxAlign)
	if err != nil {
		log.Fatal(err)
	}
	constraint, err := pickConstraint(*pots, *potr, *square, *square2, *square4)
	if err != nil {
		log.Fatal(err)
	}
	cellConstraint, err := parseConstraint(*gridCellConstraint)
	if err != nil {
		log.Fatal(err)
	}

	// Configuration fix-ups, interdependent values first.
	fixedDims := *width > 0 && *height > 0
	fixedCell := *gridCellWidth > 0 && *gridCellHeight > 0
	if !*grid && constraint == atlasgen.ConstraintNone {
		constraint = atlasgen.ConstraintMultipleOfFourSquare
	}
	miter := *miterLimit
	if !(imageType == atlasgen.ImagePSDF || imageType.IsMulti()) {
		miter = 0
	}
	minScale := *minSize
	if *size > minScale {
		minScale = *size
	}
	if !fixedDims && !fixedCell && minScale <= 0 {
		log.Print("neither atlas nor glyph size specified, using a default size")
		minScale = atlasgen.DefaultEmSize
	}
	unitWidth, pixelWidth := *emRange, *pxRange
	if imageType == atlasgen.ImageHardMask || imageType == atlasgen.ImageSoftMask {
		unitWidth, pixelWidth = 0, 1
	} else if unitWidth <= 0 && pixelWidth <= 0 {
		pixelWidth = atlasgen.DefaultPixelRange
	}
	includeKerning := *kerning && *jsonOut != ""
	if *scanline {
		if flagWasSet("errorcorrection") && correction.DistanceCheck != msdf.CheckDistanceNever {
			log.Printf("warning: error correction mode %s is incompatible with the scanline pass, falling back to %s",
				*errMode, fastModeName(correction.Mode))
		}
		correction.DistanceCheck = msdf.CheckDistanceNever
	}

	format := export.FormatPNG
	inferred, hasExtension := export.InferImageFormat(*imageOut)
	if *formatName != "" {
		format, err = export.ParseImageFormat(*formatName)
		if err != nil {
			log.Fatal(err)
		}
		if *imageOut != "" && hasExtension && inferred != format {
			log.Printf("warning: the extension of %s does not match the %s image format", *imageOut, format)
		}
	} else if *imageOut != "" {
		if hasExtension {
			format = inferred
		} else {
			log.Print("warning: cannot infer image format from the file extension, using png")
		}
	}

	data, err := os.ReadFile(*fontPath)
	if err != nil {
		log.Fatalf("read font: %v", err)
	}
	face, err := fontdata.Open(data)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}

	opts := fontdata.Options{FontScale: *fontScale, Kerning: includeKerning, KernSource: *kernSource}
	geom, missing, err := loadGlyphs(face, opts, *allGlyphs, *glyphsSpec, *glyphsetPath, *chars, *charsetPath)
	if err != nil {
		log.Fatalf("load glyphs: %v", err)
	}
	if missing > 0 {
		log.Printf("warning: %d requested glyphs are not available in the font", missing)
	}
	glyphs := geom.Glyphs()
	if len(glyphs) == 0 {
		log.Fatal("no glyphs loaded")
	}
	if *fontName != "" {
		geom.SetName(*fontName)
	}

	var layout atlasgen.AtlasLayout
	if *grid {
		p := atlasgen.GridPacker{
			Width:            *width,
			Height:           *height,
			Constraint:       constraint,
			Spacing:          *spacing,
			Scale:            *size,
			MinScale:         minScale,
			UnitRange:        atlasgen.NewRange(unitWidth),
			PxRange:          atlasgen.NewRange(pixelWidth),
			MiterLimit:       miter,
			AlignOriginX:     alignX,
			AlignOriginY:     alignY,
			InnerUnitPadding: atlasgen.UniformPadding(*emPadding),
			OuterUnitPadding: atlasgen.UniformPadding(*outerEmPadding),
			InnerPxPadding:   atlasgen.UniformPadding(*pxPadding),
			OuterPxPadding:   atlasgen.UniformPadding(*outerPxPadding),
			Columns:          *gridCols,
			CellWidth:        *gridCellWidth,
			CellHeight:       *gridCellHeight,
			CellConstraint:   cellConstraint,
			FixedOriginX:     *gridOriginX,
			FixedOriginY:     *gridOriginY,
		}
		layout, err = p.Pack(glyphs)
	} else {
		p := atlasgen.TightPacker{
			Width:            *width,
			Height:           *height,
			Constraint:       constraint,
			Spacing:          *spacing,
			Scale:            *size,
			MinScale:         minScale,
			UnitRange:        atlasgen.NewRange(unitWidth),
			PxRange:          atlasgen.NewRange(pixelWidth),
			MiterLimit:       miter,
			AlignOriginX:     alignX,
			AlignOriginY:     alignY,
			InnerUnitPadding: atlasgen.UniformPadding(*emPadding),
			OuterUnitPadding: atlasgen.UniformPadding(*outerEmPadding),
			InnerPxPadding:   atlasgen.UniformPadding(*pxPadding),
			OuterPxPadding:   atlasgen.UniformPadding(*outerPxPadding),
		}
		layout, err = p.Pack(glyphs)
	}
	if err != nil {
		log.Fatalf("pack: %v", err)
	}
	if *size <= 0 {
		log.Printf("glyph size: %.9g pixels/em", layout.Scale)
	}
	log.Printf("atlas dimensions: %d x %d", layout.Width, layout.Height)
	if g := layout.Grid; g != nil {
		log.Printf("grid: %d columns x %d rows, cell %d x %d", g.Columns, g.Rows, g.CellWidth, g.CellHeight)
		if g.Cutoff {
			log.Print("warning: the grid cell constraints are too tight, some glyph fields are clipped")
		}
	}

	if imageType.IsMulti() {
		atlasgen.ColorGlyphs(glyphs, strategy, *angle, *seed, *threads)
	}

	if *imageOut != "" {
		gen := atlasgen.Generator{
			Type: imageType,
			Attributes: atlasgen.GeneratorAttributes{
				Config:       msdf.GeneratorConfig{OverlapSupport: *overlap},
				Correction:   correction,
				ScanlinePass: *scanline,
			},
			ThreadCount: *threads,
		}
		bitmap, err := gen.Generate(glyphs, layout.Width, layout.Height)
		if err != nil {
			var genErr *atlasgen.GenerationError
			if !errors.As(err, &genErr) {
				log.Fatalf("generate: %v", err)
			}
			log.Printf("warning: %v", err)
		}
		if err := export.WriteImage(*imageOut, bitmap, format, dir); err != nil {
			log.Fatalf("write image: %v", err)
		}
	}

	meta := export.Metadata{Type: imageType, Layout: layout, YDirection: dir, Kerning: includeKerning}
	if *jsonOut != "" {
		if err := export.WriteJSON(*jsonOut, geom, meta); err != nil {
			log.Fatalf("write json: %v", err)
		}
	}
	if *csvOut != "" {
		if err := export.WriteCSV(*csvOut, geom, meta); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	}
}

// loadGlyphs resolves the charset or glyphset selection and loads the
// font geometry. Glyph index sets take precedence over charsets.
func loadGlyphs(face *fontdata.Font, opts fontdata.Options, all bool, glyphsSpec, glyphsetPath, chars, charsetPath string) (*atlasgen.FontGeometry, int, error) {
	switch {
	case all:
		indices := make([]int, face.GlyphCount())
		for i := range indices {
			indices[i] = i
		}
		return fontdata.LoadGlyphset(face, indices, opts)

	case glyphsSpec != "" || glyphsetPath != "":
		var set *fontdata.Charset
		var err error
		if glyphsetPath != "" {
			set, err = fontdata.LoadGlyphsetFile(glyphsetPath)
		} else {
			set, err = fontdata.ParseGlyphset(glyphsSpec)
		}
		if err != nil {
			return nil, 0, err
		}
		runes := set.Runes()
		indices := make([]int, len(runes))
		for i, r := range runes {
			indices[i] = int(r)
		}
		return fontdata.LoadGlyphset(face, indices, opts)

	case chars != "" || charsetPath != "":
		var set *fontdata.Charset
		var err error
		if charsetPath != "" {
			set, err = fontdata.LoadCharsetFile(charsetPath)
		} else {
			set, err = fontdata.ParseCharset(chars)
		}
		if err != nil {
			return nil, 0, err
		}
		return fontdata.LoadCharset(face, set, opts)

	default:
		return fontdata.LoadCharset(face, fontdata.ASCII(), opts)
	}
}

func parseImageType(name string) (atlasgen.ImageType, error) {
	switch name {
	case "hardmask":
		return atlasgen.ImageHardMask, nil
	case "softmask":
		return atlasgen.ImageSoftMask, nil
	case "sdf":
		return atlasgen.ImageSDF, nil
	case "psdf":
		return atlasgen.ImagePSDF, nil
	case "msdf":
		return atlasgen.ImageMSDF, nil
	case "mtsdf":
		return atlasgen.ImageMTSDF, nil
	}
	return 0, fmt.Errorf("unknown atlas type %q", name)
}

func parseColoring(name string) (atlasgen.ColoringStrategy, error) {
	switch name {
	case "simple":
		return atlasgen.ColoringSimple, nil
	case "inktrap":
		return atlasgen.ColoringInkTrap, nil
	case "distance":
		return atlasgen.ColoringByDistance, nil
	}
	return 0, fmt.Errorf("unknown coloring strategy %q", name)
}

func parseErrorCorrection(name string) (msdf.ErrorCorrectionConfig, error) {
	var cfg msdf.ErrorCorrectionConfig
	switch name {
	case "disabled", "disable", "none", "0":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionDisabled, msdf.CheckDistanceNever
	case "default", "auto", "auto-mixed", "mixed":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionEdgePriority, msdf.CheckDistanceAtEdge
	case "auto-fast", "fast":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionEdgePriority, msdf.CheckDistanceNever
	case "auto-full", "full":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionEdgePriority, msdf.CheckDistanceAlways
	case "distance", "distance-fast", "indiscriminate", "indiscriminate-fast":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionIndiscriminate, msdf.CheckDistanceNever
	case "distance-full", "indiscriminate-full":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionIndiscriminate, msdf.CheckDistanceAlways
	case "edge-fast":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionEdgeOnly, msdf.CheckDistanceNever
	case "edge", "edge-full":
		cfg.Mode, cfg.DistanceCheck = msdf.CorrectionEdgeOnly, msdf.CheckDistanceAlways
	default:
		return cfg, fmt.Errorf("unknown error correction mode %q", name)
	}
	return cfg, nil
}

// fastModeName is the scanline-compatible mode a distance-checking
// configuration falls back to.
func fastModeName(mode msdf.ErrorCorrectionMode) string {
	switch mode {
	case msdf.CorrectionDisabled:
		return "disabled"
	case msdf.CorrectionIndiscriminate:
		return "distance-fast"
	case msdf.CorrectionEdgePriority:
		return "auto-fast"
	case msdf.CorrectionEdgeOnly:
		return "edge-fast"
	}
	return "unknown"
}

func parseYOrigin(name string) (atlasgen.YDirection, error) {
	switch name {
	case "bottom":
		return atlasgen.YBottomUp, nil
	case "top":
		return atlasgen.YTopDown, nil
	}
	return 0, fmt.Errorf("unknown y origin %q", name)
}

func parsePxAlign(name string) (x, y bool, err error) {
	switch name {
	case "off", "false":
		return false, false, nil
	case "on", "true":
		return true, true, nil
	case "x", "horizontal":
		return true, false, nil
	case "y", "vertical":
		return false, true, nil
	}
	return false, false, fmt.Errorf("unknown pixel alignment %q", name)
}

func pickConstraint(pots, potr, square, square2, square4 bool) (atlasgen.DimensionsConstraint, error) {
	set := 0
	c := atlasgen.ConstraintNone
	for _, v := range []struct {
		on bool
		c  atlasgen.DimensionsConstraint
	}{
		{pots, atlasgen.ConstraintPowerOfTwoSquare},
		{potr, atlasgen.ConstraintPowerOfTwoRectangle},
		{square, atlasgen.ConstraintSquare},
		{square2, atlasgen.ConstraintEvenSquare},
		{square4, atlasgen.ConstraintMultipleOfFourSquare},
	} {
		if v.on {
			set++
			c = v.c
		}
	}
	if set > 1 {
		return c, errors.New("multiple dimensions constraints specified")
	}
	return c, nil
}

func parseConstraint(name string) (atlasgen.DimensionsConstraint, error) {
	switch name {
	case "none", "":
		return atlasgen.ConstraintNone, nil
	case "square":
		return atlasgen.ConstraintSquare, nil
	case "square2":
		return atlasgen.ConstraintEvenSquare, nil
	case "square4":
		return atlasgen.ConstraintMultipleOfFourSquare, nil
	case "potr":
		return atlasgen.ConstraintPowerOfTwoRectangle, nil
	case "pots":
		return atlasgen.ConstraintPowerOfTwoSquare, nil
	}
	return 0, fmt.Errorf("unknown dimensions constraint %q", name)
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
