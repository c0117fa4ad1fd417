package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/atlasgen"
	"github.com/gogpu/atlasgen/msdf"
)

// ErrUnknownFormat is returned for image format names or values this
// package does not handle.
var ErrUnknownFormat = errors.New("export: unknown image format")

// ImageFormat selects the atlas image container.
type ImageFormat int

const (
	// FormatPNG writes a PNG via the standard library encoder.
	FormatPNG ImageFormat = iota

	// FormatBMP writes a Windows bitmap.
	FormatBMP

	// FormatTIFF writes an uncompressed TIFF.
	FormatTIFF

	// FormatText writes rows of space-separated hexadecimal byte values.
	FormatText

	// FormatBin writes raw byte values in row order.
	FormatBin

	// FormatBinFloat writes raw little-endian float32 values in row
	// order.
	FormatBinFloat
)

// String returns the format name.
func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatText:
		return "text"
	case FormatBin:
		return "bin"
	case FormatBinFloat:
		return "binfloat"
	default:
		return "unknown"
	}
}

// ParseImageFormat resolves a format name.
func ParseImageFormat(name string) (ImageFormat, error) {
	switch name {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff":
		return FormatTIFF, nil
	case "text":
		return FormatText, nil
	case "bin":
		return FormatBin, nil
	case "binfloat":
		return FormatBinFloat, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// InferImageFormat guesses the format from a file extension. ok is false
// when the extension is not recognized.
func InferImageFormat(path string) (ImageFormat, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return FormatPNG, true
	case strings.HasSuffix(lower, ".bmp"):
		return FormatBMP, true
	case strings.HasSuffix(lower, ".tiff"), strings.HasSuffix(lower, ".tif"):
		return FormatTIFF, true
	case strings.HasSuffix(lower, ".txt"):
		return FormatText, true
	case strings.HasSuffix(lower, ".bin"):
		return FormatBin, true
	}
	return 0, false
}

// WriteImage saves the atlas bitmap to a file.
func WriteImage(path string, bitmap *msdf.Bitmap, format ImageFormat, dir atlasgen.YDirection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create image file: %w", err)
	}
	defer f.Close()
	return EncodeImage(f, bitmap, format, dir)
}

// EncodeImage writes the atlas bitmap in the given format. Raster
// containers (PNG, BMP, TIFF) define their own row order and come out
// upright regardless of dir; the raw dumps emit rows bottom-up or
// top-down as dir says.
func EncodeImage(w io.Writer, bitmap *msdf.Bitmap, format ImageFormat, dir atlasgen.YDirection) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, toImage(bitmap))
	case FormatBMP:
		return bmp.Encode(w, toImage(bitmap))
	case FormatTIFF:
		return tiff.Encode(w, toImage(bitmap), nil)
	case FormatText:
		return encodeText(w, bitmap, dir)
	case FormatBin:
		return encodeBytes(w, bitmap, dir)
	case FormatBinFloat:
		return encodeFloats(w, bitmap, dir)
	}
	return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}

// floatToByte quantizes a stored value to 8 bits, saturating outside
// [0, 1].
func floatToByte(x float32) uint8 {
	v := 256 * float64(x)
	if v < 0 {
		v = 0
	}
	if v > 255.5 {
		v = 255.5
	}
	return uint8(v)
}

// toImage converts the bottom-up bitmap to an upright image. One channel
// maps to grayscale, three to opaque RGB, four to RGBA.
func toImage(bitmap *msdf.Bitmap) image.Image {
	w, h := bitmap.Width, bitmap.Height
	bounds := image.Rect(0, 0, w, h)
	if bitmap.Channels == 1 {
		img := image.NewGray(bounds)
		for y := 0; y < h; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w]
			for x := 0; x < w; x++ {
				row[x] = floatToByte(bitmap.Pixel(x, h-1-y)[0])
			}
		}
		return img
	}
	img := image.NewNRGBA(bounds)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := 0; x < w; x++ {
			px := bitmap.Pixel(x, h-1-y)
			row[4*x+0] = floatToByte(px[0])
			row[4*x+1] = floatToByte(px[1])
			row[4*x+2] = floatToByte(px[2])
			if bitmap.Channels >= 4 {
				row[4*x+3] = floatToByte(px[3])
			} else {
				row[4*x+3] = 0xFF
			}
		}
	}
	return img
}

// rowOrder returns the bitmap rows in emission order.
func rowOrder(height int, dir atlasgen.YDirection) []int {
	rows := make([]int, height)
	for i := range rows {
		if dir == atlasgen.YTopDown {
			rows[i] = height - 1 - i
		} else {
			rows[i] = i
		}
	}
	return rows
}

func encodeText(w io.Writer, bitmap *msdf.Bitmap, dir atlasgen.YDirection) error {
	bw := bufio.NewWriter(w)
	for _, y := range rowOrder(bitmap.Height, dir) {
		for x := 0; x < bitmap.Width; x++ {
			for c, v := range bitmap.Pixel(x, y) {
				if x > 0 || c > 0 {
					if err := bw.WriteByte(' '); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(bw, "%02x", floatToByte(v)); err != nil {
					return err
				}
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeBytes(w io.Writer, bitmap *msdf.Bitmap, dir atlasgen.YDirection) error {
	bw := bufio.NewWriter(w)
	rowLen := bitmap.Width * bitmap.Channels
	buf := make([]byte, rowLen)
	for _, y := range rowOrder(bitmap.Height, dir) {
		start := y * rowLen
		for i, v := range bitmap.Data[start : start+rowLen] {
			buf[i] = floatToByte(v)
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodeFloats(w io.Writer, bitmap *msdf.Bitmap, dir atlasgen.YDirection) error {
	bw := bufio.NewWriter(w)
	rowLen := bitmap.Width * bitmap.Channels
	for _, y := range rowOrder(bitmap.Height, dir) {
		start := y * rowLen
		if err := binary.Write(bw, binary.LittleEndian, bitmap.Data[start:start+rowLen]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
