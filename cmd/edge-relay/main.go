package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edge-relay/internal/config"
	"github.com/ironsheep/edge-relay/internal/imaging"
	"github.com/ironsheep/edge-relay/internal/pipeline"
	"github.com/ironsheep/edge-relay/internal/transport"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("edge-relay %s (%s backend)\n", Version, pipeline.DefaultBackend.Name)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	configPath := flag.String("config", "", "Path to a YAML config file")
	input := flag.String("input", "", "Image file to process (overrides config)")
	dest := flag.String("dest", "", "Destination host:port (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edge-relay: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *dest != "" {
		cfg.Destination = *dest
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edge-relay: %v\n", err)
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"version":     Version,
		"input":       cfg.Input,
		"destination": cfg.Destination,
	}).Debug("Starting edge-relay")

	res, err := pipeline.New(cfg, logger).Run()
	if err != nil {
		logger.WithError(err).WithField("kind", errorKind(err)).Error("Run failed")
		os.Exit(1)
	}

	fmt.Printf("Data sent to %s\n", res.Destination)
}

// initLogger writes to stderr so stdout only carries the result line.
func initLogger(c config.Log) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)

	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger, nil
}

func errorKind(err error) string {
	var (
		loadErr      *imaging.LoadError
		procErr      *imaging.ProcessingError
		encErr       *imaging.EncodeError
		transportErr *transport.TransportError
	)
	switch {
	case errors.As(err, &loadErr):
		return "load"
	case errors.As(err, &procErr):
		return "processing"
	case errors.As(err, &encErr):
		return "encode"
	case errors.As(err, &transportErr):
		return "transport"
	}
	return "unknown"
}

func printHelp() {
	fmt.Println("edge-relay - send an edge map of an image as a UDP datagram")
	fmt.Println()
	fmt.Println("Usage: edge-relay [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config PATH     YAML config file")
	fmt.Println("  -input PATH      Image to process (default sample.jpg)")
	fmt.Println("  -dest HOST:PORT  Destination address (default 127.0.0.1:8080)")
	fmt.Println("  -debug           Enable debug logging")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  EDGE_RELAY_INPUT, EDGE_RELAY_DESTINATION, EDGE_RELAY_JPEG_QUALITY")
	fmt.Println("  EDGE_RELAY_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  EDGE_RELAY_LOG_FORMAT=json    Log as JSON")
	fmt.Println()
	fmt.Println("Variables may also be set in a .env file in the working directory.")
}
