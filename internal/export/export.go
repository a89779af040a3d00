// Package export encodes rendered pixel buffers as image files, with
// optional super-sampled anti-aliasing.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/soundvista/soundvista/internal/pixel"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatWebP Format = "webp"
)

var (
	// ErrUnsupportedFormat is returned for formats outside png/jpg/webp.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrEncodingFailed wraps encoder errors; callers may retry with a
	// different format or quality.
	ErrEncodingFailed = errors.New("image encoding failed")
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Request describes one export.
type Request struct {
	Format      Format
	Quality     float64 // [0,1], JPEG only
	Width       int
	Height      int
	SuperSample int // >=1; render at N x target size, downscale to target
	Prefix      string
}

// Result is the encoded image plus its conventional filename.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
	Width       int
	Height      int
}

// RenderFrame produces a pixel buffer at the requested dimensions. The
// exporter calls it at super-sampled size, never caching the result; a fresh
// renderer per export keeps live preview state untouched.
type RenderFrame func(width, height int) (*pixel.Buffer, error)

// now is swapped in tests for stable filenames.
var now = time.Now

// Export renders via the callback and encodes the result. The output image
// always has exactly the requested dimensions; super-sampling only affects
// intermediate resolution.
func Export(render RenderFrame, req Request) (Result, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return Result{}, fmt.Errorf("invalid export dimensions %dx%d", req.Width, req.Height)
	}
	ss := req.SuperSample
	if ss < 1 {
		ss = 1
	}

	buf, err := render(req.Width*ss, req.Height*ss)
	if err != nil {
		return Result{}, fmt.Errorf("render export frame: %w", err)
	}

	img := buf.ToImage()
	if ss > 1 {
		img = downscale(img, req.Width, req.Height)
	}

	data, err := encode(img, req.Format, req.Quality)
	if err != nil {
		return Result{}, err
	}

	prefix := req.Prefix
	if prefix == "" {
		prefix = "soundvista"
	}
	name := fmt.Sprintf("%s_%s_%dx%d.%s",
		prefix, now().UTC().Format("2006-01-02T15-04-05"), req.Width, req.Height, req.Format)

	return Result{
		Data:        data,
		Filename:    name,
		ContentType: contentType(req.Format),
		Width:       req.Width,
		Height:      req.Height,
	}, nil
}

func contentType(f Format) string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// downscale resamples with Catmull-Rom, which is where the anti-aliasing
// from super-sampling actually happens.
func downscale(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encode(img *image.RGBA, format Format, quality float64) ([]byte, error) {
	var out bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&out, img)
	case FormatJPEG:
		q := int(quality * 100)
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: q})
	case FormatWebP:
		err = nativewebp.Encode(&out, img, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return out.Bytes(), nil
}
