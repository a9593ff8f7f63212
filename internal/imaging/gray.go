package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
)

// ITU-R BT.601 luma weights, the same ones OpenCV uses for BGR2GRAY.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts a color image to a single-channel 8-bit luminance buffer
// with the same dimensions, using Y = 0.299*R + 0.587*G + 0.114*B.
//
// A source that is already *image.Gray is copied unchanged. The returned
// buffer always has its origin at (0,0).
func Grayscale(img image.Image) (*image.Gray, error) {
	if isEmpty(img) {
		return nil, &ProcessingError{Stage: "grayscale", Err: ErrEmptyImage}
	}
	if g, ok := img.(*image.Gray); ok {
		return cloneGray(g), nil
	}
	return toGray(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)), nil
}

// checkGray rejects nil and zero-area buffers before a stage touches them.
func checkGray(stage string, img *image.Gray) error {
	if img == nil || img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0 {
		return &ProcessingError{Stage: stage, Err: ErrEmptyImage}
	}
	return nil
}

// toGray flattens any image to *image.Gray by taking the red channel, which is
// exact for the gray-in/gray-out results of the bild and imaging filters.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range row {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = uint8(r >> 8)
		}
	}
	return out
}

func cloneGray(src *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	draw.Draw(out, out.Rect, src, src.Rect.Min, draw.Src)
	return out
}
