package imaging

import (
	"errors"
	"fmt"
)

// LoadError reports that an input image could not be turned into a usable
// buffer: the file is missing or unreadable, it does not decode, or it decodes
// to an image with no pixels.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ProcessingError reports a failed transform. Stage names the operation
// ("grayscale", "equalize", "blur", "canny", "resize", "rotate").
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// EncodeError reports that a buffer could not be re-encoded to a compressed
// image format.
type EncodeError struct {
	Format string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s image: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ErrEmptyImage is wrapped by LoadError and ProcessingError when a buffer has
// zero width or height.
var ErrEmptyImage = errors.New("image is empty")

func processingErr(stage string, format string, args ...interface{}) error {
	return &ProcessingError{Stage: stage, Err: fmt.Errorf(format, args...)}
}
