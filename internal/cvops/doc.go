//go:build opencv

// Package cvops implements the edge-relay image operations with OpenCV through
// gocv. It is compiled only with -tags opencv and needs OpenCV 4 installed.
//
// The functions have the same signatures and error types as their pure Go
// counterparts in internal/imaging, so the pipeline can swap backends at build
// time. Each call converts its input to a gocv.Mat, runs the OpenCV routine and
// converts the result back; Mats never escape a call.
package cvops
