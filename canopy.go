package canopy

import (
	"image"
	"image/color"

	"github.com/phanxgames/canopy/gpu"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA8 builds a Color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

func (c Color) vec4() gpu.Vec4 {
	return gpu.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// NRGBA converts c to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func colorFromNRGBA(c color.NRGBA) Color {
	return RGBA8(c.R, c.G, c.B, c.A)
}

func unit8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Tone shifts colors by R, G, B (each in [-1, 1]) after desaturating toward
// gray by Gray (in [0, 1]).
type Tone struct {
	R, G, B, Gray float64
}

// IsZero reports whether t leaves colors unchanged.
func (t Tone) IsZero() bool { return t == Tone{} }

func (t Tone) vec4() gpu.Vec4 {
	return gpu.Vec4{float32(t.R), float32(t.G), float32(t.B), float32(t.Gray)}
}

// Point is an integer position.
type Point struct {
	X, Y int
}

// Rect is an integer axis-aligned rectangle. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Pos returns the top-left corner.
func (r Rect) Pos() Point { return Point{r.X, r.Y} }

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersect returns the overlap of r and o. The result is empty when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	return rectFromImage(r.image().Intersect(o.image()))
}

// Contains reports whether the pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rect) image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) rectF() gpu.RectF {
	return gpu.RectF{X: float32(r.X), Y: float32(r.Y), W: float32(r.Width), H: float32(r.Height)}
}

func rectFromImage(r image.Rectangle) Rect {
	if r.Empty() {
		return Rect{}
	}
	return Rect{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
}

// BlendType selects a compositing operation.
type BlendType uint8

const (
	BlendNormal BlendType = iota // source-over
	BlendAdd                     // additive
	BlendSub                     // subtract source from destination
)

func (b BlendType) gpu() gpu.BlendType {
	switch b {
	case BlendAdd:
		return gpu.BlendAdd
	case BlendSub:
		return gpu.BlendSub
	default:
		return gpu.BlendNormal
	}
}

// TextAlign controls horizontal text alignment in Bitmap.DrawText.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func opacityf(o int) float32 {
	return float32(clampInt(o, 0, 255)) / 255
}
