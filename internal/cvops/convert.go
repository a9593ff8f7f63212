//go:build opencv

package cvops

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"github.com/ironsheep/edge-relay/internal/imaging"
)

func grayToMat(stage string, img *image.Gray) (gocv.Mat, error) {
	if img == nil || img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0 {
		return gocv.Mat{}, &imaging.ProcessingError{Stage: stage, Err: imaging.ErrEmptyImage}
	}
	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return gocv.Mat{}, &imaging.ProcessingError{Stage: stage, Err: fmt.Errorf("failed to convert buffer: %w", err)}
	}
	return mat, nil
}

func matToGray(stage string, mat gocv.Mat) (*image.Gray, error) {
	if mat.Empty() {
		return nil, &imaging.ProcessingError{Stage: stage, Err: fmt.Errorf("opencv returned an empty matrix")}
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, &imaging.ProcessingError{Stage: stage, Err: fmt.Errorf("failed to convert matrix: %w", err)}
	}
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g, nil
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Rect, img, b.Min, draw.Src)
	return g, nil
}

// apply runs op on a Mat copy of img and converts the result back. An error
// from op is reported as a *imaging.ProcessingError for stage.
func apply(stage string, img *image.Gray, op func(src gocv.Mat, dst *gocv.Mat) error) (*image.Gray, error) {
	src, err := grayToMat(stage, img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if err := op(src, &dst); err != nil {
		return nil, &imaging.ProcessingError{Stage: stage, Err: fmt.Errorf("opencv failed: %w", err)}
	}
	return matToGray(stage, dst)
}
