package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Resize scales a grayscale buffer to exactly width x height with bilinear
// interpolation. The aspect ratio of the source is not preserved.
func Resize(img *image.Gray, width, height int) (*image.Gray, error) {
	if err := checkGray("resize", img); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, processingErr("resize", "target size must be positive, got %dx%d", width, height)
	}
	if img.Rect.Dx() == width && img.Rect.Dy() == height {
		return cloneGray(img), nil
	}
	return resample(img, width, height), nil
}

// resample picks the bilinear path for the requested size. A triangle filter
// with support 1 is the same four-neighbor blend when neither axis shrinks, so
// imaging handles pure upscales. Its support widens when it shrinks an axis,
// which would pull in pixels beyond the nearest four.
func resample(img *image.Gray, width, height int) *image.Gray {
	if width >= img.Rect.Dx() && height >= img.Rect.Dy() {
		return toGray(imaging.Resize(img, width, height, imaging.Linear))
	}
	return bilinear(img, width, height)
}

// bilinear blends the four source pixels nearest to each destination pixel
// center, with coordinates clamped to the source edges.
func bilinear(img *image.Gray, width, height int) *image.Gray {
	src := cloneGray(img)
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	xs := make([]sample, width)
	for x := range xs {
		xs[x] = samplePoint(x, sw, width)
	}
	for y := 0; y < height; y++ {
		sy := samplePoint(y, sh, height)
		row0 := src.Pix[sy.i0*src.Stride:]
		row1 := src.Pix[sy.i1*src.Stride:]
		for x, sx := range xs {
			top := float64(row0[sx.i0])*(1-sx.f) + float64(row0[sx.i1])*sx.f
			bottom := float64(row1[sx.i0])*(1-sx.f) + float64(row1[sx.i1])*sx.f
			out.Pix[y*out.Stride+x] = uint8(math.Round(top*(1-sy.f) + bottom*sy.f))
		}
	}
	return out
}

type sample struct {
	i0, i1 int
	f      float64
}

func samplePoint(d, srcLen, dstLen int) sample {
	pos := (float64(d)+0.5)*float64(srcLen)/float64(dstLen) - 0.5
	if pos < 0 {
		pos = 0
	}
	if last := float64(srcLen - 1); pos > last {
		pos = last
	}
	i0 := int(pos)
	i1 := i0 + 1
	if i1 > srcLen-1 {
		i1 = srcLen - 1
	}
	return sample{i0: i0, i1: i1, f: pos - float64(i0)}
}

// Rotate turns a grayscale buffer counter-clockwise by angle degrees about its
// center and scales it by scale, keeping the original dimensions. Areas not
// covered by the transformed source are black.
func Rotate(img *image.Gray, angle, scale float64) (*image.Gray, error) {
	if err := checkGray("rotate", img); err != nil {
		return nil, err
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, processingErr("rotate", "scale must be positive, got %g", scale)
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	scaled := cloneGray(img)
	if scale != 1 {
		sw := int(math.Round(float64(w) * scale))
		sh := int(math.Round(float64(h) * scale))
		if sw == 0 || sh == 0 {
			return image.NewGray(image.Rect(0, 0, w, h)), nil
		}
		scaled = resample(img, sw, sh)
	}

	// The canvas is at least the output size so a shrunken image keeps its
	// corners when turned.
	cw, ch := max(w, scaled.Rect.Dx()), max(h, scaled.Rect.Dy())
	canvas := image.NewGray(image.Rect(0, 0, cw, ch))
	at := image.Pt((cw-scaled.Rect.Dx())/2, (ch-scaled.Rect.Dy())/2)
	draw.Draw(canvas, scaled.Rect.Add(at), scaled, image.Point{}, draw.Src)

	// bild rotates clockwise for positive angles.
	rotated := toGray(transform.Rotate(canvas, -angle, &transform.RotationOptions{ResizeBounds: false}))

	out := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Rect, rotated, image.Pt((cw-w)/2, (ch-h)/2), draw.Src)
	return out, nil
}
