// Package imageutil shrinks generated images into PNG thumbnails.
package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"
)

var (
	ErrInvalidSize = errors.New("invalid target size")
	ErrEmptyImage  = errors.New("source image has zero size")
)

// FitWithin returns the largest width and height no bigger than max on
// either side that keep the w:h aspect ratio. Images already inside the box
// keep their size.
func FitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		nh := int(math.Round(float64(h) * float64(max) / float64(w)))
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := int(math.Round(float64(w) * float64(max) / float64(h)))
	if nw < 1 {
		nw = 1
	}
	return nw, max
}

// Resize scales src to dstW x dstH with bilinear interpolation.
func Resize(src image.Image, dstW, dstH int) (*image.NRGBA, error) {
	if dstW <= 0 || dstH <= 0 {
		return nil, ErrInvalidSize
	}
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, ErrEmptyImage
	}

	// Normalize to NRGBA at origin so pixel offsets are predictable.
	in := image.NewNRGBA(image.Rect(0, 0, srcW, srcH))
	draw.Draw(in, in.Bounds(), src, b.Min, draw.Src)
	if srcW == dstW && srcH == dstH {
		return in, nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	sx := float64(srcW) / float64(dstW)
	sy := float64(srcH) / float64(dstH)

	for j := 0; j < dstH; j++ {
		fy := (float64(j)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		ya, yb := clampIdx(y0, srcH), clampIdx(y0+1, srcH)
		for i := 0; i < dstW; i++ {
			fx := (float64(i)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			xa, xb := clampIdx(x0, srcW), clampIdx(x0+1, srcW)

			p00 := in.PixOffset(xa, ya)
			p10 := in.PixOffset(xb, ya)
			p01 := in.PixOffset(xa, yb)
			p11 := in.PixOffset(xb, yb)
			d := out.PixOffset(i, j)
			for ch := 0; ch < 4; ch++ {
				v := (1-wx)*(1-wy)*float64(in.Pix[p00+ch]) +
					wx*(1-wy)*float64(in.Pix[p10+ch]) +
					(1-wx)*wy*float64(in.Pix[p01+ch]) +
					wx*wy*float64(in.Pix[p11+ch])
				out.Pix[d+ch] = uint8(math.Max(0, math.Min(255, math.Round(v))))
			}
		}
	}
	return out, nil
}

// ThumbnailPNG decodes a PNG or JPEG, shrinks it to fit inside a max x max
// box and re-encodes it as PNG.
func ThumbnailPNG(data []byte, max int) ([]byte, error) {
	if max <= 0 {
		return nil, ErrInvalidSize
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w, h := FitWithin(img.Bounds().Dx(), img.Bounds().Dy(), max)
	resized, err := Resize(img, w, h)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
