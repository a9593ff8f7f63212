package imaging

import (
	"fmt"
	"image"
	"math"
)

// CannyOptions configures Canny edge detection.
type CannyOptions struct {
	// Low is the hysteresis threshold below which gradients are discarded.
	Low float64 `json:"low" yaml:"low"`

	// High is the hysteresis threshold above which gradients are strong edges.
	High float64 `json:"high" yaml:"high"`

	// Aperture is the Sobel kernel size: 3, 5 or 7.
	Aperture int `json:"aperture" yaml:"aperture"`

	// L2Gradient selects sqrt(Gx²+Gy²) for the gradient magnitude instead of
	// the default |Gx|+|Gy|.
	L2Gradient bool `json:"l2_gradient" yaml:"l2_gradient"`
}

// DefaultCannyOptions returns thresholds 50/150, aperture 3, L1 gradient.
func DefaultCannyOptions() CannyOptions {
	return CannyOptions{Low: 50, High: 150, Aperture: 3}
}

// Canny detects edges in a grayscale buffer and returns a binary edge map of
// the same size: 255 on edges, 0 elsewhere.
//
// Parameters:
//   - img: 8-bit grayscale source. Thresholds are on the same 0-255 scale as
//     the Sobel response of its pixel values.
//   - opts: thresholds, aperture and gradient norm. If Low > High the two are
//     swapped.
//
// Returns:
//   - *image.Gray: The edge map.
//   - error: A *ProcessingError for an empty buffer, an aperture other than
//     3, 5 or 7, or a negative threshold.
//
// # Algorithm
//
//  1. Gradient computation: separable Sobel operators of size Aperture for X
//     and Y, borders replicated.
//
//  2. Magnitude: |Gx|+|Gy|, or sqrt(Gx²+Gy²) with L2Gradient.
//
//  3. Non-maximum suppression: keep a pixel only if it is a local maximum
//     along the gradient direction quantized to 0, 45, 90 or 135 degrees.
//
//  4. Hysteresis thresholding:
//     - Pixels above High are strong edges (always kept)
//     - Pixels above Low are weak edges, kept only when 8-connected
//     (possibly through other weak edges) to a strong edge
//     - Everything else is discarded
func Canny(img *image.Gray, opts CannyOptions) (*image.Gray, error) {
	if err := checkGray("canny", img); err != nil {
		return nil, err
	}
	if opts.Aperture != 3 && opts.Aperture != 5 && opts.Aperture != 7 {
		return nil, &ProcessingError{Stage: "canny", Err: fmt.Errorf("aperture size must be 3, 5 or 7, got %d", opts.Aperture)}
	}
	if opts.Low < 0 || opts.High < 0 {
		return nil, processingErr("canny", "thresholds must be non-negative, got %g/%g", opts.Low, opts.High)
	}
	low, high := opts.Low, opts.High
	if low > high {
		low, high = high, low
	}

	width := img.Rect.Dx()
	height := img.Rect.Dy()

	src := make([][]float64, height)
	for y := 0; y < height; y++ {
		src[y] = make([]float64, width)
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		for x, v := range row {
			src[y][x] = float64(v)
		}
	}

	smooth := binomialKernel(opts.Aperture)
	deriv := derivativeKernel(opts.Aperture)
	gradX := convolveSeparable(src, width, height, deriv, smooth)
	gradY := convolveSeparable(src, width, height, smooth, deriv)

	magnitude := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			gx, gy := gradX[y][x], gradY[y][x]
			if opts.L2Gradient {
				magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			} else {
				magnitude[y][x] = math.Abs(gx) + math.Abs(gy)
			}
		}
	}

	// Magnitudes outside the image count as zero.
	mag := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y][x]
	}

	const (
		none = iota
		weak
		strong
	)
	class := make([]uint8, width*height)
	var stack []int

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m := magnitude[y][x]
			if m <= low {
				continue
			}

			// Neighbors on either side along the gradient direction (y grows downward)
			angle := math.Atan2(gradY[y][x], gradX[y][x])
			if angle < 0 {
				angle += math.Pi
			}
			var n1, n2 float64
			switch {
			case angle < math.Pi/8 || angle >= 7*math.Pi/8:
				n1, n2 = mag(x-1, y), mag(x+1, y)
			case angle < 3*math.Pi/8:
				n1, n2 = mag(x-1, y-1), mag(x+1, y+1)
			case angle < 5*math.Pi/8:
				n1, n2 = mag(x, y-1), mag(x, y+1)
			default:
				n1, n2 = mag(x+1, y-1), mag(x-1, y+1)
			}

			// Strict on one side so a two-pixel plateau yields a one-pixel edge.
			if !(m > n1 && m >= n2) {
				continue
			}

			idx := y*width + x
			if m > high {
				class[idx] = strong
				stack = append(stack, idx)
			} else {
				class[idx] = weak
			}
		}
	}

	// Grow strong edges through connected weak pixels.
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%width, idx/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				n := py*width + px
				if class[n] == weak {
					class[n] = strong
					stack = append(stack, n)
				}
			}
		}
	}

	result := image.NewGray(image.Rect(0, 0, width, height))
	for i, c := range class {
		if c == strong {
			result.Pix[i] = 255
		}
	}
	return result, nil
}

// binomialKernel returns the Sobel smoothing row of length n, e.g. 1 2 1 for 3.
func binomialKernel(n int) []float64 {
	k := []float64{1}
	for len(k) < n {
		next := make([]float64, len(k)+1)
		for i, v := range k {
			next[i] += v
			next[i+1] += v
		}
		k = next
	}
	return k
}

// derivativeKernel returns the Sobel derivative row of length n, the binomial
// of length n-2 convolved with -1 0 1 (e.g. -1 -2 0 2 1 for 5).
func derivativeKernel(n int) []float64 {
	base := binomialKernel(n - 2)
	k := make([]float64, n)
	for i, v := range base {
		k[i] -= v
		k[i+2] += v
	}
	return k
}

// convolveSeparable applies kx along rows and then ky along columns, clamping
// coordinates at the borders.
func convolveSeparable(img [][]float64, width, height int, kx, ky []float64) [][]float64 {
	rx := len(kx) / 2
	ry := len(ky) / 2

	tmp := make([][]float64, height)
	for y := 0; y < height; y++ {
		tmp[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for i, w := range kx {
				sum += img[y][clamp(x+i-rx, 0, width-1)] * w
			}
			tmp[y][x] = sum
		}
	}

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for i, w := range ky {
				sum += tmp[clamp(y+i-ry, 0, height-1)][x] * w
			}
			result[y][x] = sum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
