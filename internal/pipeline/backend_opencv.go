//go:build opencv

package pipeline

import "github.com/ironsheep/edge-relay/internal/cvops"

// DefaultBackend is the backend compiled into this binary.
var DefaultBackend = Backend{
	Name:      "opencv",
	Load:      cvops.Load,
	Grayscale: cvops.Grayscale,
	Equalize:  cvops.Equalize,
	Blur:      cvops.Blur,
	Canny:     cvops.Canny,
	Resize:    cvops.Resize,
	Rotate:    cvops.Rotate,
}
