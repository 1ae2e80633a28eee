package canopy

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/phanxgames/canopy/gpu"
)

// Surface is a CPU pixel image. Unlike a Bitmap it has no texture and no
// size limit beyond memory, so it suits decoding, compositing and text
// layout ahead of an upload with BitmapFromSurface.
type Surface struct {
	e        *Engine
	img      *image.NRGBA
	font     Font
	disposed bool
}

// NewSurface creates a transparent w x h surface.
func NewSurface(e *Engine, w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, opError("new surface", fmt.Errorf("%dx%d: %w", w, h, ErrInvalidSize))
	}
	return newSurface(e, image.NewNRGBA(image.Rect(0, 0, w, h))), nil
}

// LoadSurface decodes an image from the engine's asset filesystem.
func LoadSurface(e *Engine, path string) (*Surface, error) {
	img, err := e.loader.Load(path)
	if err != nil {
		return nil, opError("load surface", err)
	}
	return newSurface(e, img), nil
}

// SurfaceFromImage creates a surface holding a copy of img.
func SurfaceFromImage(e *Engine, img image.Image) *Surface {
	n := convertNRGBA(img)
	if n == img {
		n = cloneNRGBA(n)
	}
	return newSurface(e, n)
}

// DeserializeSurface creates a surface from data produced by
// Surface.Serialize or Bitmap.Serialize.
func DeserializeSurface(e *Engine, data []byte) (*Surface, error) {
	img, err := decodePixels(data)
	if err != nil {
		return nil, opError("deserialize surface", err)
	}
	return newSurface(e, img), nil
}

func newSurface(e *Engine, img *image.NRGBA) *Surface {
	return &Surface{e: e, img: img, font: e.DefaultFont()}
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	draw.Draw(out, out.Rect, src, src.Rect.Min, draw.Src)
	return out
}

// BitmapFromSurface uploads a copy of s into a new bitmap. It fails with
// ErrTooLarge when s exceeds the device texture limit.
func BitmapFromSurface(e *Engine, s *Surface) (*Bitmap, error) {
	if s.IsDisposed() {
		return nil, opError("bitmap from surface", ErrDisposed)
	}
	b, err := newBitmap(e, s.img.Rect.Dx(), s.img.Rect.Dy())
	if err != nil {
		return nil, opError("bitmap from surface", err)
	}
	b.tex.WritePixels(gpu.PixelsOf(s.img))
	return b, nil
}

// Surface returns a CPU copy of the bitmap's pixels with the same font.
func (b *Bitmap) Surface() (*Surface, error) {
	img, err := b.Image()
	if err != nil {
		return nil, err
	}
	s := newSurface(b.e, img)
	s.font = b.font
	return s, nil
}

// Width returns the surface width, or 0 once disposed.
func (s *Surface) Width() int {
	if s.disposed {
		return 0
	}
	return s.img.Rect.Dx()
}

// Height returns the surface height, or 0 once disposed.
func (s *Surface) Height() int {
	if s.disposed {
		return 0
	}
	return s.img.Rect.Dy()
}

// Rect returns (0, 0, Width, Height).
func (s *Surface) Rect() Rect { return Rect{0, 0, s.Width(), s.Height()} }

// Font returns the font used by DrawText.
func (s *Surface) Font() Font { return s.font }

// SetFont sets the font used by DrawText.
func (s *Surface) SetFont(f Font) { s.font = f }

// IsDisposed reports whether Dispose has been called.
func (s *Surface) IsDisposed() bool { return s == nil || s.disposed }

// Dispose releases the pixels.
func (s *Surface) Dispose() {
	s.img = nil
	s.disposed = true
}

// Image returns a copy of the surface's pixels.
func (s *Surface) Image() (*image.NRGBA, error) {
	if s.disposed {
		return nil, opError("surface image", ErrDisposed)
	}
	return cloneNRGBA(s.img), nil
}

// Blt copies srcRect of src to (x, y) with the given opacity (0..255).
func (s *Surface) Blt(x, y int, src *Surface, srcRect Rect, opacity int) error {
	return s.StretchBlt(Rect{x, y, srcRect.Width, srcRect.Height}, src, srcRect, opacity)
}

// StretchBlt scales srcRect of src into dst with nearest-neighbour sampling,
// composited over the existing pixels.
func (s *Surface) StretchBlt(dst Rect, src *Surface, srcRect Rect, opacity int) error {
	if s.disposed {
		return opError("surface blt", ErrDisposed)
	}
	if src.IsDisposed() {
		return opError("surface blt source", ErrDisposed)
	}
	opacity = clampInt(opacity, 0, 255)
	if opacity == 0 || dst.Empty() || srcRect.Empty() {
		return nil
	}
	from := src.img
	if src == s {
		from = cloneNRGBA(s.img)
	}
	var opts *draw.Options
	if opacity < 255 {
		opts = &draw.Options{DstMask: image.NewUniform(color.Alpha{A: uint8(opacity)})}
	}
	draw.NearestNeighbor.Scale(s.img, dst.image(), from, srcRect.image(), draw.Over, opts)
	return nil
}

// FillRect overwrites r with c.
func (s *Surface) FillRect(r Rect, c Color) error {
	if s.disposed {
		return opError("surface fill rect", ErrDisposed)
	}
	draw.Draw(s.img, r.image(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	return nil
}

// Clear makes the whole surface transparent.
func (s *Surface) Clear() error {
	if s.disposed {
		return opError("surface clear", ErrDisposed)
	}
	clear(s.img.Pix)
	return nil
}

// ClearRect makes r transparent.
func (s *Surface) ClearRect(r Rect) error {
	return s.FillRect(r, ColorTransparent)
}

// GetPixel returns the color at (x, y). Out-of-bounds coordinates yield the
// zero color.
func (s *Surface) GetPixel(x, y int) (Color, error) {
	if s.disposed {
		return Color{}, opError("surface get pixel", ErrDisposed)
	}
	if !image.Pt(x, y).In(s.img.Rect) {
		return Color{}, nil
	}
	return colorFromNRGBA(s.img.NRGBAAt(x, y)), nil
}

// SetPixel writes c at (x, y). Out-of-bounds coordinates are ignored.
func (s *Surface) SetPixel(x, y int, c Color) error {
	if s.disposed {
		return opError("surface set pixel", ErrDisposed)
	}
	s.img.SetNRGBA(x, y, c.NRGBA())
	return nil
}

// DrawText renders text into r with the surface's font, laid out like
// Bitmap.DrawText.
func (s *Surface) DrawText(r Rect, text string, align TextAlign) error {
	if s.disposed {
		return opError("surface draw text", ErrDisposed)
	}
	glyphs, err := s.e.fonts.render(s.font, text)
	if err != nil {
		return opError("surface draw text", err)
	}
	if glyphs == nil {
		return nil
	}
	tw, th := glyphs.Rect.Dx(), glyphs.Rect.Dy()
	p := placeText(r, tw, th, align)
	dr := image.Rect(int(p.X), int(p.Y), int(p.X+p.W), int(p.Y+p.H))
	var opts *draw.Options
	if a := unit8(s.font.Color.A); a < 255 {
		opts = &draw.Options{DstMask: image.NewUniform(color.Alpha{A: a})}
	}
	draw.ApproxBiLinear.Scale(s.img, dr, glyphs, glyphs.Rect, draw.Over, opts)
	return nil
}

// TextSize returns the size text would occupy with the surface's font.
func (s *Surface) TextSize(text string) (Rect, error) {
	if s.disposed {
		return Rect{}, opError("surface text size", ErrDisposed)
	}
	w, h, err := s.e.fonts.measure(s.font, text)
	if err != nil {
		return Rect{}, opError("surface text size", err)
	}
	return Rect{0, 0, w, h}, nil
}

// Serialize encodes the surface in the Bitmap.Serialize layout. It returns
// nil once disposed.
func (s *Surface) Serialize() []byte {
	if s.disposed {
		return nil
	}
	return encodePixels(s.img)
}

// SavePNG writes the surface to path as a PNG file.
func (s *Surface) SavePNG(path string) error {
	if s.disposed {
		return opError("surface save png", ErrDisposed)
	}
	if err := writePNG(path, s.img); err != nil {
		return opError("surface save png", err)
	}
	return nil
}
