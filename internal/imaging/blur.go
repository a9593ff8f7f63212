package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// Blur smooths a grayscale buffer with a square Gaussian kernel of size
// ksize x ksize. ksize must be odd and positive; 1 returns a copy.
//
// Sigma is derived from ksize the way OpenCV does when it is passed as 0.
// The kernel is separable and applied horizontally then vertically. Pixels
// outside the image replicate the nearest border pixel.
func Blur(img *image.Gray, ksize int) (*image.Gray, error) {
	if err := checkGray("blur", img); err != nil {
		return nil, err
	}
	if ksize <= 0 || ksize%2 == 0 {
		return nil, &ProcessingError{Stage: "blur", Err: fmt.Errorf("kernel size must be odd and positive, got %d", ksize)}
	}
	if ksize == 1 {
		return cloneGray(img), nil
	}

	k := gaussianKernel(ksize, kernelSigma(ksize))
	// Bias 0.5 rounds instead of truncating when bild stores each pass.
	opts := &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}
	horizontal := convolution.Convolve(img, k, opts)
	return toGray(convolution.Convolve(horizontal, k.Transposed(), opts)), nil
}

// kernelSigma is OpenCV's default sigma for a kernel of the given size.
func kernelSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)/2-1) + 0.8
}

// gaussianKernel returns a normalized 1 x ksize Gaussian row.
func gaussianKernel(ksize int, sigma float64) convolution.Matrix {
	k := convolution.NewKernel(ksize, 1)
	half := ksize / 2
	for i := range k.Matrix {
		x := float64(i - half)
		k.Matrix[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	return k.Normalized()
}
