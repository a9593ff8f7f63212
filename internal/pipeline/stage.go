package pipeline

import (
	"image"

	"github.com/ironsheep/edge-relay/internal/config"
	"github.com/ironsheep/edge-relay/internal/imaging"
)

// Transform maps one grayscale buffer to the next.
type Transform func(*image.Gray) (*image.Gray, error)

// Stage is a named step of the pipeline.
type Stage struct {
	Name  string
	Apply Transform
}

// Stages returns the transforms that follow grayscale conversion, in order:
// equalize, blur, canny, resize, and rotate when configured.
func Stages(b Backend, p config.Pipeline) []Stage {
	stages := []Stage{
		{Name: "equalize", Apply: b.Equalize},
		{Name: "blur", Apply: func(img *image.Gray) (*image.Gray, error) {
			return b.Blur(img, p.BlurKernel)
		}},
		{Name: "canny", Apply: func(img *image.Gray) (*image.Gray, error) {
			return b.Canny(img, imaging.CannyOptions{
				Low:        p.CannyLow,
				High:       p.CannyHigh,
				Aperture:   p.CannyAperture,
				L2Gradient: p.CannyL2,
			})
		}},
		{Name: "resize", Apply: func(img *image.Gray) (*image.Gray, error) {
			return b.Resize(img, p.Width, p.Height)
		}},
	}
	if p.RotateEnabled() {
		stages = append(stages, Stage{Name: "rotate", Apply: func(img *image.Gray) (*image.Gray, error) {
			return b.Rotate(img, p.RotateDegrees, p.RotateScale)
		}})
	}
	return stages
}

// Compose chains stages into a single Transform. The first failing stage
// aborts the chain; its error is returned unchanged.
func Compose(stages ...Stage) Transform {
	return func(img *image.Gray) (*image.Gray, error) {
		var err error
		for _, s := range stages {
			if img, err = s.Apply(img); err != nil {
				return nil, err
			}
		}
		return img, nil
	}
}
