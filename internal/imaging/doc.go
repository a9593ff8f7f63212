// Package imaging provides the image operations behind the edge-relay pipeline.
//
// Every transform takes a buffer and returns a new one; nothing is modified in
// place. After Grayscale, all buffers are 8-bit single-channel *image.Gray with
// their origin at (0,0).
//
// # Operations
//
//   - Load: decode PNG, JPEG, GIF, BMP, TIFF or WebP from disk
//   - Grayscale: ITU-R BT.601 luminance (0.299*R + 0.587*G + 0.114*B)
//   - Equalize: histogram equalization over the full 0-255 range
//   - Blur: separable Gaussian blur with an odd square kernel
//   - Canny: Sobel gradients, non-maximum suppression, hysteresis
//   - Resize: bilinear scaling to an exact size
//   - Rotate: rotation and scaling about the center, size preserved
//   - EncodeJPEG: JPEG compression for transport
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Angles for Rotate are counter-clockwise
// in degrees, as seen on screen.
//
// # Error Handling
//
// Failures are reported with typed errors so callers can tell which step of a
// run broke:
//   - *LoadError: missing, unreadable, undecodable or empty input files
//   - *ProcessingError: empty buffers or invalid parameters for a transform
//   - *EncodeError: JPEG compression failures
//
// All three implement Unwrap, so errors.Is(err, ErrEmptyImage) works through
// them.
//
// # Thread Safety
//
// Operations are stateless and can be called concurrently on different
// buffers.
package imaging
