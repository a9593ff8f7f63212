package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// DefaultJPEGQuality matches the quality OpenCV uses when none is given.
const DefaultJPEGQuality = 95

// EncodeJPEG compresses img to JPEG at the given quality (1-100).
//
// A *image.Gray source produces a single-channel JPEG, so decoding the result
// yields *image.Gray again.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if isEmpty(img) {
		return nil, &EncodeError{Format: "jpeg", Err: ErrEmptyImage}
	}
	if quality < 1 || quality > 100 {
		return nil, &EncodeError{Format: "jpeg", Err: fmt.Errorf("quality must be between 1 and 100, got %d", quality)}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, &EncodeError{Format: "jpeg", Err: err}
	}
	return buf.Bytes(), nil
}
