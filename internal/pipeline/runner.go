package pipeline

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edge-relay/internal/config"
	"github.com/ironsheep/edge-relay/internal/imaging"
	"github.com/ironsheep/edge-relay/internal/transport"
)

// Runner executes one pass of the pipeline.
type Runner struct {
	id      string
	cfg     *config.Config
	backend Backend
	log     *logrus.Entry
	send    func(transport.Payload, string) (int, error)
}

// Option customizes a Runner.
type Option func(*Runner)

// WithBackend replaces DefaultBackend.
func WithBackend(b Backend) Option {
	return func(r *Runner) { r.backend = b }
}

// WithSender replaces transport.Send.
func WithSender(send func(transport.Payload, string) (int, error)) Option {
	return func(r *Runner) { r.send = send }
}

// Result describes a completed run.
type Result struct {
	RunID       string
	Destination string
	BytesSent   int
	Width       int
	Height      int
}

// New creates a Runner for cfg. A nil logger discards output.
func New(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	r := &Runner{
		id:      uuid.NewString(),
		cfg:     cfg,
		backend: DefaultBackend,
		send:    transport.Send,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.WithFields(logrus.Fields{
		"run_id":  r.id,
		"backend": r.backend.Name,
	})
	return r
}

// Process loads the image at path and applies grayscale conversion followed by
// every configured stage. It returns the final edge map.
func (r *Runner) Process(path string) (*image.Gray, error) {
	start := time.Now()
	src, err := r.backend.Load(path)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	r.log.WithFields(logrus.Fields{
		"path":     path,
		"width":    b.Dx(),
		"height":   b.Dy(),
		"duration": time.Since(start),
	}).Debug("Image loaded")

	gray, err := r.grayscale(src)
	if err != nil {
		return nil, err
	}

	stages := Stages(r.backend, r.cfg.Pipeline)
	for i := range stages {
		stages[i] = r.instrument(stages[i])
	}
	return Compose(stages...)(gray)
}

func (r *Runner) grayscale(src image.Image) (*image.Gray, error) {
	start := time.Now()
	gray, err := r.backend.Grayscale(src)
	if err != nil {
		return nil, err
	}
	r.logStage("grayscale", gray, start)
	return gray, nil
}

// instrument wraps a stage so it logs its output size and duration.
func (r *Runner) instrument(s Stage) Stage {
	apply := s.Apply
	return Stage{Name: s.Name, Apply: func(img *image.Gray) (*image.Gray, error) {
		start := time.Now()
		out, err := apply(img)
		if err != nil {
			r.log.WithField("stage", s.Name).WithError(err).Debug("Stage failed")
			return nil, err
		}
		r.logStage(s.Name, out, start)
		return out, nil
	}}
}

func (r *Runner) logStage(name string, img *image.Gray, start time.Time) {
	r.log.WithFields(logrus.Fields{
		"stage":    name,
		"width":    img.Rect.Dx(),
		"height":   img.Rect.Dy(),
		"duration": time.Since(start),
	}).Debug("Stage complete")
}

// Encode compresses img to JPEG and wraps it in a transport payload.
func (r *Runner) Encode(img *image.Gray) (transport.Payload, error) {
	data, err := imaging.EncodeJPEG(img, r.cfg.JPEGQuality)
	if err != nil {
		return transport.Payload{}, err
	}
	r.log.WithFields(logrus.Fields{
		"jpeg_bytes": len(data),
		"quality":    r.cfg.JPEGQuality,
	}).Debug("Image encoded")
	return transport.NewPayload(data), nil
}

// Run performs the whole single-shot program: process the configured input,
// encode it and send it once to the configured destination.
func (r *Runner) Run() (*Result, error) {
	img, err := r.Process(r.cfg.Input)
	if err != nil {
		return nil, err
	}

	payload, err := r.Encode(img)
	if err != nil {
		return nil, err
	}

	n, err := r.send(payload, r.cfg.Destination)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"destination": r.cfg.Destination,
		"bytes":       n,
	}).Info("Datagram sent")

	return &Result{
		RunID:       r.id,
		Destination: r.cfg.Destination,
		BytesSent:   n,
		Width:       img.Rect.Dx(),
		Height:      img.Rect.Dy(),
	}, nil
}
