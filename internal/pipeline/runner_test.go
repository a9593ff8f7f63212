package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ironsheep/edge-relay/internal/config"
	"github.com/ironsheep/edge-relay/internal/imaging"
	"github.com/ironsheep/edge-relay/internal/transport"
)

// createSampleImage writes a 100x100 color PNG with a dark square on a
// colored background and returns its path.
func createSampleImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.RGBA{220, 180, 60, 255}
			if x >= 30 && x < 70 && y >= 30 && y < 70 {
				c = color.RGBA{20, 30, 120, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create sample: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode sample: %v", err)
	}
	return path
}

func testConfig(input string) *config.Config {
	cfg := config.Default()
	cfg.Input = input
	return cfg
}

// captureSend records the payload instead of sending it.
func captureSend(got *transport.Payload) Option {
	return WithSender(func(p transport.Payload, addr string) (int, error) {
		*got = p
		return len(p.Image), nil
	})
}

func decodePayload(t *testing.T, p transport.Payload) image.Image {
	t.Helper()
	data, err := p.ImageBytes()
	if err != nil {
		t.Fatalf("ImageBytes failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a decodable JPEG: %v", err)
	}
	return img
}

func TestRunner_Process(t *testing.T) {
	r := New(testConfig(createSampleImage(t)), nil)

	out, err := r.Process(r.cfg.Input)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.Rect.Dx() != 224 || out.Rect.Dy() != 224 {
		t.Errorf("dimensions: got %dx%d, want 224x224", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestRunner_Process_EdgeMapIsBinary(t *testing.T) {
	// Keep the input size so the resize stage does not interpolate
	cfg := testConfig(createSampleImage(t))
	cfg.Pipeline.Width, cfg.Pipeline.Height = 100, 100

	out, err := New(cfg, nil).Process(cfg.Input)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	edges := 0
	for i, v := range out.Pix {
		switch v {
		case 255:
			edges++
		case 0:
		default:
			t.Fatalf("pixel %d: got %d, want 0 or 255", i, v)
		}
	}
	if edges == 0 {
		t.Error("square border should produce edges")
	}
}

func TestRunner_Process_MissingFile(t *testing.T) {
	transforms := 0
	count := func(img *image.Gray) (*image.Gray, error) {
		transforms++
		return img, nil
	}
	b := PureGo
	b.Grayscale = func(image.Image) (*image.Gray, error) {
		transforms++
		return image.NewGray(image.Rect(0, 0, 1, 1)), nil
	}
	b.Equalize = count

	r := New(testConfig("does-not-exist.jpg"), nil, WithBackend(b))
	_, err := r.Process("does-not-exist.jpg")

	var loadErr *imaging.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *imaging.LoadError, got %v", err)
	}
	if transforms != 0 {
		t.Errorf("no transform should run after a load failure, %d ran", transforms)
	}
}

func TestRunner_Process_StageError(t *testing.T) {
	cfg := testConfig(createSampleImage(t))
	b := PureGo
	b.Blur = func(*image.Gray, int) (*image.Gray, error) {
		return nil, &imaging.ProcessingError{Stage: "blur", Err: errors.New("kernel exploded")}
	}
	resized := false
	b.Resize = func(img *image.Gray, w, h int) (*image.Gray, error) {
		resized = true
		return img, nil
	}

	_, err := New(cfg, nil, WithBackend(b)).Process(cfg.Input)
	var procErr *imaging.ProcessingError
	if !errors.As(err, &procErr) || procErr.Stage != "blur" {
		t.Fatalf("expected blur *imaging.ProcessingError, got %v", err)
	}
	if resized {
		t.Error("stages after the failure should not run")
	}
}

func TestRunner_Run(t *testing.T) {
	var sent transport.Payload
	cfg := testConfig(createSampleImage(t))

	res, err := New(cfg, nil, captureSend(&sent)).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Destination != "127.0.0.1:8080" || res.Width != 224 || res.Height != 224 {
		t.Errorf("result: got %+v", res)
	}
	if res.RunID == "" {
		t.Error("result should carry a run id")
	}

	img := decodePayload(t, sent)
	if img.Bounds().Dx() != 224 || img.Bounds().Dy() != 224 {
		t.Errorf("decoded dimensions: got %dx%d, want 224x224", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("decoded type: got %T, want single-channel *image.Gray", img)
	}
}

func TestRunner_Run_EncodeError(t *testing.T) {
	cfg := testConfig(createSampleImage(t))
	cfg.JPEGQuality = 0
	sent := false

	_, err := New(cfg, nil, WithSender(func(transport.Payload, string) (int, error) {
		sent = true
		return 0, nil
	})).Run()

	var encErr *imaging.EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *imaging.EncodeError, got %v", err)
	}
	if sent {
		t.Error("nothing should be sent after an encode failure")
	}
}

func TestRunner_Run_TransportError(t *testing.T) {
	cfg := testConfig(createSampleImage(t))
	cfg.Destination = "not-an-address"

	_, err := New(cfg, nil).Run()
	var tErr *transport.TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *transport.TransportError, got %v", err)
	}
}

func TestRunner_Run_UDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer conn.Close()

	cfg := testConfig(createSampleImage(t))
	cfg.Destination = conn.LocalAddr().String()

	res, err := New(cfg, nil).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	buf := make([]byte, transport.MaxDatagramSize)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("no datagram received: %v", err)
	}
	if n != res.BytesSent {
		t.Errorf("received %d bytes, runner reported %d", n, res.BytesSent)
	}

	p, err := transport.ParsePayload(buf[:n])
	if err != nil {
		t.Fatalf("ParsePayload failed: %v", err)
	}
	img := decodePayload(t, p)
	b := img.Bounds()
	if b.Dx() != 224 || b.Dy() != 224 {
		t.Fatalf("decoded dimensions: got %dx%d, want 224x224", b.Dx(), b.Dy())
	}

	// Bilinear resizing and JPEG soften the edge map, but it stays mostly
	// black with bright edge lines.
	nearBinary := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if v := r >> 8; v < 40 || v > 215 {
				nearBinary++
			}
		}
	}
	if ratio := float64(nearBinary) / float64(b.Dx()*b.Dy()); ratio < 0.8 {
		t.Errorf("near-binary pixel ratio: got %.2f, want >= 0.8", ratio)
	}
}

func TestRunner_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var sent transport.Payload
	_, err := New(testConfig(createSampleImage(t)), logger, captureSend(&sent)).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	stages := map[string]bool{}
	var runID interface{}
	for _, e := range hook.AllEntries() {
		if s, ok := e.Data["stage"].(string); ok {
			stages[s] = true
		}
		if runID == nil {
			runID = e.Data["run_id"]
		} else if e.Data["run_id"] != runID {
			t.Errorf("run_id changed within a run: %v vs %v", e.Data["run_id"], runID)
		}
	}
	for _, name := range []string{"grayscale", "equalize", "blur", "canny", "resize"} {
		if !stages[name] {
			t.Errorf("no log entry for stage %s", name)
		}
	}

	last := hook.LastEntry()
	if last == nil || last.Level != logrus.InfoLevel || last.Message != "Datagram sent" {
		t.Errorf("last entry: got %+v, want info 'Datagram sent'", last)
	}
}
