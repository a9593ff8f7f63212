//go:build !opencv

package pipeline

// DefaultBackend is the backend compiled into this binary.
var DefaultBackend = PureGo
