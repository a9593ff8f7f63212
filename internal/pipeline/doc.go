// Package pipeline runs the fixed edge-relay sequence: load one image, convert
// it to grayscale, equalize, blur, detect edges, resize, encode it as JPEG and
// send it as a single UDP datagram.
//
// The transforms are an ordered list of Stage values, each a pure function from
// one grayscale buffer to the next. Compose folds them; the first error stops
// the run and nothing partial is sent.
//
// The operations come from a Backend. Default builds use the pure Go
// implementations in internal/imaging; building with -tags opencv switches to
// the OpenCV bindings in internal/cvops.
package pipeline
