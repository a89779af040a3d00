package export

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/soundvista/soundvista/internal/pixel"
)

func testRender(w, h int) (*pixel.Buffer, error) {
	buf := pixel.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, byte(x*7), byte(y*11), 128, 255)
		}
	}
	return buf, nil
}

func decodeDims(t *testing.T, format Format, data []byte) (int, int) {
	t.Helper()
	var img image.Image
	var err error
	switch format {
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		t.Fatalf("no decoder for %s in test", format)
	}
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestExportDimensionsMatchRequest(t *testing.T) {
	for _, ss := range []int{1, 2, 4} {
		res, err := Export(testRender, Request{
			Format: FormatPNG, Width: 64, Height: 48, SuperSample: ss,
		})
		if err != nil {
			t.Fatalf("Export ss=%d: %v", ss, err)
		}
		w, h := decodeDims(t, FormatPNG, res.Data)
		if w != 64 || h != 48 {
			t.Fatalf("ss=%d: got %dx%d, want 64x48", ss, w, h)
		}
	}
}

func TestExportJPEGQuality(t *testing.T) {
	low, err := Export(testRender, Request{Format: FormatJPEG, Quality: 0.1, Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("low quality export: %v", err)
	}
	high, err := Export(testRender, Request{Format: FormatJPEG, Quality: 1.0, Width: 64, Height: 64})
	if err != nil {
		t.Fatalf("high quality export: %v", err)
	}
	if len(high.Data) <= len(low.Data) {
		t.Fatalf("higher quality should encode larger: %d vs %d", len(high.Data), len(low.Data))
	}
}

func TestExportWebP(t *testing.T) {
	res, err := Export(testRender, Request{Format: FormatWebP, Width: 32, Height: 32})
	if err != nil {
		t.Fatalf("webp export: %v", err)
	}
	if len(res.Data) == 0 {
		t.Fatalf("empty webp output")
	}
}

func TestFilenameConvention(t *testing.T) {
	old := now
	now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	defer func() { now = old }()

	res, err := Export(testRender, Request{
		Format: FormatPNG, Width: 100, Height: 80, Prefix: "mandala",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "mandala_2026-03-14T09-26-53_100x80.png"
	if res.Filename != want {
		t.Fatalf("filename %q, want %q", res.Filename, want)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"png":  FormatPNG,
		"jpg":  FormatJPEG,
		"JPEG": FormatJPEG,
		"webp": FormatWebP,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for gif, got %v", err)
	}
}

func TestExportRejectsBadDimensions(t *testing.T) {
	if _, err := Export(testRender, Request{Format: FormatPNG, Width: 0, Height: 10}); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestExportPropagatesRenderError(t *testing.T) {
	failing := func(w, h int) (*pixel.Buffer, error) {
		return nil, errors.New("surface unavailable")
	}
	_, err := Export(failing, Request{Format: FormatPNG, Width: 10, Height: 10})
	if err == nil || !strings.Contains(err.Error(), "surface unavailable") {
		t.Fatalf("render error should propagate, got %v", err)
	}
}
