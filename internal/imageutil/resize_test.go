package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	cases := []struct{ w, h, max, ww, wh int }{
		{1024, 512, 256, 256, 128},
		{512, 1024, 256, 128, 256},
		{100, 80, 256, 100, 80},
		{1000, 1, 10, 10, 1},
	}
	for _, c := range cases {
		gw, gh := FitWithin(c.w, c.h, c.max)
		if gw != c.ww || gh != c.wh {
			t.Fatalf("FitWithin(%d,%d,%d) = %d,%d want %d,%d", c.w, c.h, c.max, gw, gh, c.ww, c.wh)
		}
	}
}

func TestThumbnailPNGKeepsColorAndAspect(t *testing.T) {
	orange := color.NRGBA{R: 250, G: 120, B: 20, A: 255}
	out, err := ThumbnailPNG(solidPNG(t, 64, 32, orange), 16)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	got := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA)
	if got != orange {
		t.Fatalf("solid color not preserved: %+v", got)
	}
}

func TestThumbnailPNGRejects(t *testing.T) {
	if _, err := ThumbnailPNG([]byte("nope"), 16); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ThumbnailPNG(solidPNG(t, 2, 2, color.NRGBA{A: 255}), 0); err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}
