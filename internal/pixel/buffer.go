package pixel

import (
	"image"
	"image/color"
)

// Buffer is a width x height RGBA byte buffer, the interchange type between
// pattern rendering, post-processing and export. All writes clamp to the
// [0,255] byte range.
type Buffer struct {
	W    int
	H    int
	Pix  []byte // len = W*H*4, RGBA order
}

// NewBuffer allocates a zeroed (transparent black) buffer.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{W: w, H: h, Pix: make([]byte, w*h*4)}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	cp := &Buffer{W: b.W, H: b.H, Pix: make([]byte, len(b.Pix))}
	copy(cp.Pix, b.Pix)
	return cp
}

// At returns the RGBA bytes at (x,y). Out-of-bounds reads return zeros.
func (b *Buffer) At(x, y int) (r, g, bl, a byte) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return 0, 0, 0, 0
	}
	i := (y*b.W + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the RGBA bytes at (x,y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r, g, bl, a byte) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	i := (y*b.W + x) * 4
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Fill overwrites every pixel with the given color.
func (b *Buffer) Fill(r, g, bl, a byte) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = r
		b.Pix[i+1] = g
		b.Pix[i+2] = bl
		b.Pix[i+3] = a
	}
}

// FadeToward alpha-blends the given color over the whole buffer. opacity in
// [0,1]; 1 is a full clear, 0 leaves the buffer untouched. Used for trail
// persistence between frames.
func (b *Buffer) FadeToward(r, g, bl byte, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	keep := 1 - opacity
	fr := float64(r) * opacity
	fg := float64(g) * opacity
	fb := float64(bl) * opacity
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = clampByte(float64(b.Pix[i])*keep + fr)
		b.Pix[i+1] = clampByte(float64(b.Pix[i+1])*keep + fg)
		b.Pix[i+2] = clampByte(float64(b.Pix[i+2])*keep + fb)
		b.Pix[i+3] = 255
	}
}

// BlendOver alpha-composites src over the pixel at (x,y).
func (b *Buffer) BlendOver(x, y int, r, g, bl byte, alpha float64) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	i := (y*b.W + x) * 4
	keep := 1 - alpha
	b.Pix[i] = clampByte(float64(b.Pix[i])*keep + float64(r)*alpha)
	b.Pix[i+1] = clampByte(float64(b.Pix[i+1])*keep + float64(g)*alpha)
	b.Pix[i+2] = clampByte(float64(b.Pix[i+2])*keep + float64(bl)*alpha)
	b.Pix[i+3] = 255
}

// BlendScreen applies screen blending at (x,y), scaled by alpha. Screen
// blending only ever brightens, which is what glow trails want.
func (b *Buffer) BlendScreen(x, y int, r, g, bl byte, alpha float64) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	i := (y*b.W + x) * 4
	screen := func(base, top byte) byte {
		s := 255 - (255-float64(base))*(255-float64(top)*alpha)/255
		return clampByte(s)
	}
	b.Pix[i] = screen(b.Pix[i], r)
	b.Pix[i+1] = screen(b.Pix[i+1], g)
	b.Pix[i+2] = screen(b.Pix[i+2], bl)
	b.Pix[i+3] = 255
}

// ToImage wraps the buffer into an image.RGBA sharing the same backing pixels.
func (b *Buffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.W * 4,
		Rect:   image.Rect(0, 0, b.W, b.H),
	}
}

// FromImage copies an image.RGBA into a new Buffer.
func FromImage(img *image.RGBA) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < b.H; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.W*4]
		copy(b.Pix[y*b.W*4:], src)
	}
	return b
}

// RGBA satisfies callers that want a color.RGBA at a point.
func (b *Buffer) RGBA(x, y int) color.RGBA {
	r, g, bl, a := b.At(x, y)
	return color.RGBA{R: r, G: g, B: bl, A: a}
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
