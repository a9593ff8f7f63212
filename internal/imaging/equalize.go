package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/histogram"
)

// Equalize spreads the intensity histogram of a grayscale buffer over the full
// 0-255 range.
//
// The mapping is the cumulative distribution of the histogram, rescaled so the
// darkest populated level becomes 0 and the brightest becomes 255:
//
//	lut[v] = round(255 * (cdf(v) - cdf(vmin)) / (total - hist[vmin]))
//
// A buffer holding a single intensity has nothing to spread and is returned as
// a copy with that intensity unchanged.
func Equalize(img *image.Gray) (*image.Gray, error) {
	if err := checkGray("equalize", img); err != nil {
		return nil, err
	}

	bins := histogram.NewRGBAHistogram(img).R.Bins
	total := img.Rect.Dx() * img.Rect.Dy()

	first := 0
	for first < len(bins) && bins[first] == 0 {
		first++
	}
	if first == len(bins) {
		return nil, processingErr("equalize", "histogram is empty")
	}

	out := image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	if bins[first] == total {
		for i := range out.Pix {
			out.Pix[i] = uint8(first)
		}
		return out, nil
	}

	var lut [256]uint8
	scale := 255.0 / float64(total-bins[first])
	sum := 0
	for v := first + 1; v < len(bins); v++ {
		sum += bins[v]
		lut[v] = clampUint8(math.Round(float64(sum) * scale))
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			dst[x] = lut[v]
		}
	}
	return out, nil
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
