//go:build opencv

package cvops

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/ironsheep/edge-relay/internal/imaging"
)

// Load reads a color image with imread. An unreadable or undecodable file
// yields an empty matrix, reported as a *imaging.LoadError.
func Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &imaging.LoadError{Path: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, &imaging.LoadError{Path: path, Err: imaging.ErrEmptyImage}
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, &imaging.LoadError{Path: path, Err: fmt.Errorf("failed to convert matrix: %w", err)}
	}
	return img, nil
}

// Grayscale converts with COLOR_BGR2GRAY.
func Grayscale(img image.Image) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &imaging.ProcessingError{Stage: "grayscale", Err: imaging.ErrEmptyImage}
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, &imaging.ProcessingError{Stage: "grayscale", Err: fmt.Errorf("failed to convert image: %w", err)}
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.CvtColor(src, &dst, gocv.ColorBGRToGray); err != nil {
		return nil, &imaging.ProcessingError{Stage: "grayscale", Err: fmt.Errorf("opencv failed: %w", err)}
	}
	return matToGray("grayscale", dst)
}

// Equalize runs equalizeHist.
func Equalize(img *image.Gray) (*image.Gray, error) {
	return apply("equalize", img, func(src gocv.Mat, dst *gocv.Mat) error {
		return gocv.EqualizeHist(src, dst)
	})
}

// Blur runs GaussianBlur with sigma derived from ksize and BORDER_DEFAULT.
func Blur(img *image.Gray, ksize int) (*image.Gray, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, &imaging.ProcessingError{Stage: "blur", Err: fmt.Errorf("kernel size must be odd and positive, got %d", ksize)}
	}
	return apply("blur", img, func(src gocv.Mat, dst *gocv.Mat) error {
		return gocv.GaussianBlur(src, dst, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)
	})
}

// Canny runs OpenCV's Canny for the default aperture of 3 with the L1
// gradient. gocv does not expose the other variants, so those go through the
// pure Go implementation.
func Canny(img *image.Gray, opts imaging.CannyOptions) (*image.Gray, error) {
	if opts.Aperture != 3 || opts.L2Gradient {
		return imaging.Canny(img, opts)
	}
	if opts.Low < 0 || opts.High < 0 {
		return nil, &imaging.ProcessingError{Stage: "canny", Err: fmt.Errorf("thresholds must be non-negative, got %g/%g", opts.Low, opts.High)}
	}
	return apply("canny", img, func(src gocv.Mat, dst *gocv.Mat) error {
		return gocv.Canny(src, dst, float32(opts.Low), float32(opts.High))
	})
}

// Resize runs resize with INTER_LINEAR.
func Resize(img *image.Gray, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, &imaging.ProcessingError{Stage: "resize", Err: fmt.Errorf("target size must be positive, got %dx%d", width, height)}
	}
	return apply("resize", img, func(src gocv.Mat, dst *gocv.Mat) error {
		return gocv.Resize(src, dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	})
}

// Rotate runs warpAffine with a rotation matrix about the image center,
// keeping the size and filling uncovered pixels with black.
func Rotate(img *image.Gray, angle, scale float64) (*image.Gray, error) {
	if scale <= 0 {
		return nil, &imaging.ProcessingError{Stage: "rotate", Err: fmt.Errorf("scale must be positive, got %g", scale)}
	}
	return apply("rotate", img, func(src gocv.Mat, dst *gocv.Mat) error {
		center := image.Pt(src.Cols()/2, src.Rows()/2)
		m := gocv.GetRotationMatrix2D(center, angle, scale)
		defer m.Close()
		return gocv.WarpAffine(src, dst, m, image.Pt(src.Cols(), src.Rows()))
	})
}
