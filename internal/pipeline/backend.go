package pipeline

import (
	"image"

	"github.com/ironsheep/edge-relay/internal/imaging"
)

// Backend supplies the image operations a run is built from.
type Backend struct {
	Name      string
	Load      func(path string) (image.Image, error)
	Grayscale func(img image.Image) (*image.Gray, error)
	Equalize  func(img *image.Gray) (*image.Gray, error)
	Blur      func(img *image.Gray, ksize int) (*image.Gray, error)
	Canny     func(img *image.Gray, opts imaging.CannyOptions) (*image.Gray, error)
	Resize    func(img *image.Gray, width, height int) (*image.Gray, error)
	Rotate    func(img *image.Gray, angle, scale float64) (*image.Gray, error)
}

// PureGo is the dependency-free backend built on internal/imaging.
var PureGo = Backend{
	Name:      "go",
	Load:      imaging.Load,
	Grayscale: imaging.Grayscale,
	Equalize:  imaging.Equalize,
	Blur:      imaging.Blur,
	Canny:     imaging.Canny,
	Resize:    imaging.Resize,
	Rotate:    imaging.Rotate,
}
