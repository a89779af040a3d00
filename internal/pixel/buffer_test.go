package pixel

import "testing"

func TestSetAtRoundTrip(t *testing.T) {
	b := NewBuffer(4, 4)
	b.Set(2, 3, 10, 20, 30, 40)
	r, g, bl, a := b.At(2, 3)
	if r != 10 || g != 20 || bl != 30 || a != 40 {
		t.Fatalf("got (%d,%d,%d,%d)", r, g, bl, a)
	}
}

func TestOutOfBoundsAccessIsSafe(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Set(-1, 0, 255, 255, 255, 255)
	b.Set(0, 5, 255, 255, 255, 255)
	r, g, bl, a := b.At(-1, 7)
	if r != 0 || g != 0 || bl != 0 || a != 0 {
		t.Fatalf("out-of-bounds read should be zero")
	}
	for _, v := range b.Pix {
		if v != 0 {
			t.Fatalf("out-of-bounds write leaked into buffer")
		}
	}
}

func TestBlendOverFullAlphaReplaces(t *testing.T) {
	b := NewBuffer(1, 1)
	b.Set(0, 0, 10, 10, 10, 255)
	b.BlendOver(0, 0, 200, 100, 50, 1.0)
	r, g, bl, _ := b.At(0, 0)
	if r != 200 || g != 100 || bl != 50 {
		t.Fatalf("full alpha blend should replace, got (%d,%d,%d)", r, g, bl)
	}
}

func TestBlendScreenOnlyBrightens(t *testing.T) {
	b := NewBuffer(1, 1)
	b.Set(0, 0, 100, 100, 100, 255)
	b.BlendScreen(0, 0, 50, 50, 50, 1.0)
	r, _, _, _ := b.At(0, 0)
	if r < 100 {
		t.Fatalf("screen blend darkened pixel: %d", r)
	}
}

func TestFillCircleStaysInBounds(t *testing.T) {
	b := NewBuffer(8, 8)
	// Center far outside; must not panic or write out of range.
	b.FillCircle(-20, -20, 5, 255, 255, 255, 1.0)
	b.FillCircle(4, 4, 2, 255, 0, 0, 1.0)
	r, _, _, _ := b.At(4, 4)
	if r != 255 {
		t.Fatalf("center pixel not drawn")
	}
}

func TestFillPolygonTriangle(t *testing.T) {
	b := NewBuffer(10, 10)
	tri := []Point{{1, 1}, {8, 1}, {4.5, 8}}
	b.FillPolygon(tri, 0, 255, 0, 1.0)
	if _, g, _, _ := b.At(4, 3); g != 255 {
		t.Fatalf("interior pixel not filled")
	}
	if _, g, _, _ := b.At(0, 9); g != 0 {
		t.Fatalf("exterior pixel filled")
	}
}

func TestToImageSharesPixels(t *testing.T) {
	b := NewBuffer(3, 3)
	img := b.ToImage()
	img.Pix[0] = 123
	if b.Pix[0] != 123 {
		t.Fatalf("ToImage should share backing pixels")
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected image bounds %v", img.Bounds())
	}
}

func TestFadeTowardFullOpacityClears(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Set(0, 0, 200, 200, 200, 255)
	b.FadeToward(0, 0, 0, 1.0)
	r, g, bl, _ := b.At(0, 0)
	if r != 0 || g != 0 || bl != 0 {
		t.Fatalf("full-opacity fade should clear to target color")
	}
}
