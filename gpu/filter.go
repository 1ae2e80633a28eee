package gpu

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
)

// Filter is an in-place image operation applied by [Device.ApplyFilter].
type Filter interface {
	filterName() string
}

// HueFilter rotates hue by Hue degrees.
type HueFilter struct {
	Hue int
}

// BlurFilter is a 3x3 box blur.
type BlurFilter struct{}

// RadialBlurFilter accumulates Division copies of the image rotated about its
// centre across [-Angle/2, Angle/2] degrees.
type RadialBlurFilter struct {
	Angle    int
	Division int
}

func (HueFilter) filterName() string        { return "hue" }
func (BlurFilter) filterName() string       { return "blur" }
func (RadialBlurFilter) filterName() string { return "radial_blur" }

// FilterName returns a short name for logging.
func FilterName(f Filter) string {
	if f == nil {
		return ""
	}
	return f.filterName()
}

// FilterImage applies f to img on the CPU and returns a new image with the
// same bounds. Backends without a native implementation of a filter fall back
// to this.
func FilterImage(img *image.NRGBA, f Filter) *image.NRGBA {
	switch f := f.(type) {
	case HueFilter:
		return toNRGBA(adjust.Hue(img, f.Hue))
	case BlurFilter:
		return toNRGBA(blur.Box(img, 1))
	case RadialBlurFilter:
		return radialBlur(img, f.Angle, f.Division)
	default:
		return img
	}
}

func radialBlur(img *image.NRGBA, angle, division int) *image.NRGBA {
	if division < 2 || angle == 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	acc := make([]float64, 4*w*h)
	pivot := &image.Point{X: w / 2, Y: h / 2}
	step := float64(angle) / float64(division-1)
	start := -float64(angle) / 2
	for i := 0; i < division; i++ {
		r := transform.Rotate(img, start+step*float64(i), &transform.RotationOptions{
			ResizeBounds: false,
			Pivot:        pivot,
		})
		for p := 0; p < len(acc); p++ {
			acc[p] += float64(r.Pix[p])
		}
	}
	// Rotated copies are premultiplied; average, then unpremultiply.
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := float64(division)
	for p := 0; p < len(acc); p += 4 {
		a := acc[p+3] / n
		if a <= 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := acc[p+c] / n * 255 / a
			if v > 255 {
				v = 255
			}
			out.Pix[p+c] = uint8(v + 0.5)
		}
		out.Pix[p+3] = uint8(a + 0.5)
	}
	return out
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	return out
}
