package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/atlasgen"
	"github.com/gogpu/atlasgen/msdf"
)

func TestFloatToByte(t *testing.T) {
	cases := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.25, 64},
		{0.5, 128},
		{127.4 / 256, 127},
		{1, 255},
		{2, 255},
	}
	for _, tc := range cases {
		if got := floatToByte(tc.in); got != tc.want {
			t.Errorf("floatToByte(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseImageFormat(t *testing.T) {
	for _, name := range []string{"png", "bmp", "tiff", "text", "bin", "binfloat"} {
		f, err := ParseImageFormat(name)
		if err != nil {
			t.Errorf("ParseImageFormat(%q): %v", name, err)
			continue
		}
		if f.String() != name {
			t.Errorf("ParseImageFormat(%q).String() = %q", name, f.String())
		}
	}
	if _, err := ParseImageFormat("jpeg"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseImageFormat(jpeg) error = %v, want ErrUnknownFormat", err)
	}
}

func TestInferImageFormat(t *testing.T) {
	cases := []struct {
		path string
		want ImageFormat
		ok   bool
	}{
		{"atlas.png", FormatPNG, true},
		{"ATLAS.PNG", FormatPNG, true},
		{"out/atlas.bmp", FormatBMP, true},
		{"atlas.tiff", FormatTIFF, true},
		{"atlas.tif", FormatTIFF, true},
		{"atlas.txt", FormatText, true},
		{"atlas.bin", FormatBin, true},
		{"atlas.binfloat", 0, false},
		{"atlas.jpg", 0, false},
		{"atlas", 0, false},
	}
	for _, tc := range cases {
		got, ok := InferImageFormat(tc.path)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("InferImageFormat(%q) = (%v, %v), want (%v, %v)", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

// gradientBitmap fills a bitmap with per-cell values that identify the
// pixel and channel: (channel + 1) / 8 at (0, 0) scaling up the rows.
func gradientBitmap(w, h, channels int) *msdf.Bitmap {
	bm := msdf.NewBitmap(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := bm.Pixel(x, y)
			for c := range px {
				px[c] = float32(y*w+x)/float32(w*h) + float32(c+1)/64
			}
		}
	}
	return bm
}

func TestEncodeImagePNGUpright(t *testing.T) {
	// Two rows: bottom all zeros, top all ones. The PNG must come out
	// with the bright row on top regardless of YDirection.
	bm := msdf.NewBitmap(2, 2, 1)
	copy(bm.Data, []float32{0, 0, 1, 1})
	for _, dir := range []atlasgen.YDirection{atlasgen.YBottomUp, atlasgen.YTopDown} {
		var buf bytes.Buffer
		if err := EncodeImage(&buf, bm, FormatPNG, dir); err != nil {
			t.Fatalf("EncodeImage(%v): %v", dir, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(%v): %v", dir, err)
		}
		top := color.GrayModel.Convert(img.At(0, 0)).(color.Gray)
		bottom := color.GrayModel.Convert(img.At(0, 1)).(color.Gray)
		if top.Y != 255 || bottom.Y != 0 {
			t.Errorf("%v: rows (top, bottom) = (%d, %d), want (255, 0)", dir, top.Y, bottom.Y)
		}
	}
}

func TestEncodeImageChannels(t *testing.T) {
	bm := msdf.NewBitmap(1, 1, 3)
	copy(bm.Data, []float32{0.25, 0.5, 1})
	var buf bytes.Buffer
	if err := EncodeImage(&buf, bm, FormatPNG, atlasgen.YBottomUp); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 64 || g>>8 != 128 || b>>8 != 255 {
		t.Errorf("rgb = (%d, %d, %d), want (64, 128, 255)", r>>8, g>>8, b>>8)
	}
	if a>>8 != 255 {
		t.Errorf("alpha = %d, want opaque for a three-channel bitmap", a>>8)
	}

	bm4 := msdf.NewBitmap(1, 1, 4)
	copy(bm4.Data, []float32{0.25, 0.5, 1, 0.5})
	buf.Reset()
	if err := EncodeImage(&buf, bm4, FormatPNG, atlasgen.YBottomUp); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	img, err = png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		if px := nrgba.NRGBAAt(0, 0); px.A != 128 {
			t.Errorf("alpha = %d, want 128 from the fourth channel", px.A)
		}
	} else {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
}

func TestEncodeImageRasterFormats(t *testing.T) {
	bm := gradientBitmap(4, 3, 3)
	decoders := []struct {
		format ImageFormat
		decode func(*bytes.Buffer) (image.Image, error)
	}{
		{FormatPNG, func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) }},
		{FormatBMP, func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) }},
		{FormatTIFF, func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) }},
	}
	for _, tc := range decoders {
		var buf bytes.Buffer
		if err := EncodeImage(&buf, bm, tc.format, atlasgen.YBottomUp); err != nil {
			t.Errorf("EncodeImage(%v): %v", tc.format, err)
			continue
		}
		img, err := tc.decode(&buf)
		if err != nil {
			t.Errorf("decode %v: %v", tc.format, err)
			continue
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
			t.Errorf("%v dimensions = %v, want 4x3", tc.format, img.Bounds())
		}
	}
}

func TestEncodeTextRowOrder(t *testing.T) {
	bm := msdf.NewBitmap(1, 2, 1)
	copy(bm.Data, []float32{0, 1})

	var buf bytes.Buffer
	if err := EncodeImage(&buf, bm, FormatText, atlasgen.YBottomUp); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.String(), "00\nff\n"; got != want {
		t.Errorf("bottom-up text = %q, want %q", got, want)
	}

	buf.Reset()
	if err := EncodeImage(&buf, bm, FormatText, atlasgen.YTopDown); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.String(), "ff\n00\n"; got != want {
		t.Errorf("top-down text = %q, want %q", got, want)
	}
}

func TestEncodeTextSeparators(t *testing.T) {
	bm := msdf.NewBitmap(2, 1, 3)
	copy(bm.Data, []float32{0, 0.25, 0.5, 1, 0, 0.25})
	var buf bytes.Buffer
	if err := EncodeImage(&buf, bm, FormatText, atlasgen.YBottomUp); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.String(), "00 40 80 ff 00 40\n"; got != want {
		t.Errorf("text row = %q, want %q", got, want)
	}
}

func TestEncodeBytesRowOrder(t *testing.T) {
	bm := msdf.NewBitmap(2, 2, 1)
	copy(bm.Data, []float32{0, 0.25, 0.5, 1})

	var buf bytes.Buffer
	if err := EncodeImage(&buf, bm, FormatBin, atlasgen.YBottomUp); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.Bytes(), []byte{0x00, 0x40, 0x80, 0xff}; !bytes.Equal(got, want) {
		t.Errorf("bottom-up bytes = % x, want % x", got, want)
	}

	buf.Reset()
	if err := EncodeImage(&buf, bm, FormatBin, atlasgen.YTopDown); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if got, want := buf.Bytes(), []byte{0x80, 0xff, 0x00, 0x40}; !bytes.Equal(got, want) {
		t.Errorf("top-down bytes = % x, want % x", got, want)
	}
}

func TestEncodeFloats(t *testing.T) {
	bm := msdf.NewBitmap(1, 2, 1)
	copy(bm.Data, []float32{-0.5, 1.5})

	var buf bytes.Buffer
	if err := EncodeImage(&buf, bm, FormatBinFloat, atlasgen.YTopDown); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	raw := buf.Bytes()
	if len(raw) != 8 {
		t.Fatalf("len = %d, want 8", len(raw))
	}
	// Values stay unquantized and rows honor the direction.
	first := math.Float32frombits(binary.LittleEndian.Uint32(raw[:4]))
	second := math.Float32frombits(binary.LittleEndian.Uint32(raw[4:]))
	if first != 1.5 || second != -0.5 {
		t.Errorf("values = (%v, %v), want (1.5, -0.5)", first, second)
	}
}

func TestWriteImage(t *testing.T) {
	bm := gradientBitmap(3, 2, 1)
	path := filepath.Join(t.TempDir(), "atlas.png")
	if err := WriteImage(path, bm, FormatPNG, atlasgen.YBottomUp); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("dimensions = %v, want 3x2", img.Bounds())
	}
}
