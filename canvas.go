package canopy

import (
	"fmt"
	"image"

	"github.com/phanxgames/canopy/gpu"
)

// Bitmap is a GPU-backed pixel surface with a deferred paint queue and an
// optional CPU pixel cache.
//
// Mutations are queued and reach the GPU texture when the queue is flushed:
// by a blit involving the bitmap, by a CPU pixel read, or by the screen at
// the start of each frame. Every queued mutation drops the CPU cache at once.
// SetPixel is the exception: it queues a one-pixel fill and patches the
// cache in place. While the cache is present, every pending command is such
// a fill, already reflected in the cache, so a later flush reproduces the
// cache exactly.
type Bitmap struct {
	e    *Engine
	tex  gpu.Texture
	w, h int

	cache    *image.NRGBA
	commands []paintCommand
	blocks   blockArena

	observers observerList

	font     Font
	disposed bool
	sched    int // index in the scheduler, -1 when unregistered
}

// NewBitmap creates a transparent w x h bitmap.
func NewBitmap(e *Engine, w, h int) (*Bitmap, error) {
	b, err := newBitmap(e, w, h)
	if err != nil {
		return nil, opError("new bitmap", err)
	}
	return b, nil
}

// LoadBitmap decodes an image from the engine's asset filesystem.
func LoadBitmap(e *Engine, path string) (*Bitmap, error) {
	img, err := e.loader.Load(path)
	if err != nil {
		return nil, opError("load bitmap", err)
	}
	b, err := newBitmap(e, img.Bounds().Dx(), img.Bounds().Dy())
	if err != nil {
		return nil, opError("load bitmap "+path, err)
	}
	b.tex.WritePixels(gpu.PixelsOf(img))
	return b, nil
}

// BitmapFromImage creates a bitmap holding a copy of img.
func BitmapFromImage(e *Engine, img image.Image) (*Bitmap, error) {
	nrgba := convertNRGBA(img)
	b, err := newBitmap(e, nrgba.Bounds().Dx(), nrgba.Bounds().Dy())
	if err != nil {
		return nil, opError("bitmap from image", err)
	}
	b.tex.WritePixels(gpu.PixelsOf(nrgba))
	return b, nil
}

func newBitmap(e *Engine, w, h int) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", w, h, ErrInvalidSize)
	}
	if limit := e.maxTextureSize(); w > limit || h > limit {
		return nil, fmt.Errorf("%dx%d exceeds %d: %w", w, h, limit, ErrTooLarge)
	}
	tex, err := e.dev.NewTexture(w, h)
	if err != nil {
		return nil, err
	}
	b := &Bitmap{e: e, tex: tex, w: w, h: h, font: e.DefaultFont(), sched: -1}
	e.scheduler.register(b)
	return b, nil
}

// Width returns the bitmap width, or 0 once disposed.
func (b *Bitmap) Width() int {
	if b.disposed {
		return 0
	}
	return b.w
}

// Height returns the bitmap height, or 0 once disposed.
func (b *Bitmap) Height() int {
	if b.disposed {
		return 0
	}
	return b.h
}

// Rect returns (0, 0, Width, Height).
func (b *Bitmap) Rect() Rect { return Rect{0, 0, b.Width(), b.Height()} }

// Texture returns the GPU texture, or nil once disposed. Pending commands are
// not flushed.
func (b *Bitmap) Texture() gpu.Texture {
	if b == nil || b.disposed {
		return nil
	}
	return b.tex
}

// IsDisposed reports whether Dispose has been called.
func (b *Bitmap) IsDisposed() bool { return b == nil || b.disposed }

// Dispose releases the texture. Pending commands are dropped and observers
// notified.
func (b *Bitmap) Dispose() {
	if b.disposed {
		return
	}
	b.notifyObservers()
	b.e.scheduler.unregister(b)
	b.resetCommands()
	b.cache = nil
	b.tex.Dispose()
	b.disposed = true
}

// Font returns the font used by DrawText.
func (b *Bitmap) Font() Font { return b.font }

// SetFont replaces the font used by DrawText.
func (b *Bitmap) SetFont(f Font) { b.font = f }

// AddObserver registers fn to run whenever the bitmap's contents change.
// The returned function unregisters it.
func (b *Bitmap) AddObserver(fn func()) (remove func()) {
	return b.observers.add(fn)
}

func (b *Bitmap) notifyObservers() { b.observers.notify() }

// IsSurfaceCachePresent reports whether the CPU pixel cache exists.
func (b *Bitmap) IsSurfaceCachePresent() bool { return b.cache != nil }

// InvalidateSurfaceCache notifies observers and drops the CPU cache.
func (b *Bitmap) InvalidateSurfaceCache() {
	b.notifyObservers()
	b.cache = nil
}

// RequireMemorySurface returns the CPU cache, materializing it when absent:
// pending commands are flushed to the GPU first and the texture is read
// back. The result is owned by the bitmap and valid until the next
// invalidation. It is nil once disposed.
func (b *Bitmap) RequireMemorySurface() *image.NRGBA {
	if b.disposed {
		return nil
	}
	if b.cache == nil {
		cache := image.NewNRGBA(image.Rect(0, 0, b.w, b.h))
		b.SubmitQueuedCommands()
		b.tex.ReadPixels(cache.Pix)
		b.cache = cache
	}
	return b.cache
}

// Image returns a copy of the bitmap's pixels.
func (b *Bitmap) Image() (*image.NRGBA, error) {
	if b.disposed {
		return nil, opError("bitmap image", ErrDisposed)
	}
	src := b.RequireMemorySurface()
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out, nil
}

// Blt copies srcRect of src to (x, y) with the given opacity (0..255).
func (b *Bitmap) Blt(x, y int, src *Bitmap, srcRect Rect, opacity int) error {
	return b.BltBlend(Rect{x, y, srcRect.Width, srcRect.Height}, src, srcRect, opacity, BlendNormal)
}

// StretchBlt scales srcRect of src into dst.
func (b *Bitmap) StretchBlt(dst Rect, src *Bitmap, srcRect Rect, opacity int) error {
	return b.BltBlend(dst, src, srcRect, opacity, BlendNormal)
}

// BltBlend draws srcRect of src into dst with an explicit blend type. Both
// bitmaps flush their queues first and the draw happens immediately.
func (b *Bitmap) BltBlend(dst Rect, src *Bitmap, srcRect Rect, opacity int, blend BlendType) error {
	if b.disposed {
		return opError("blt", ErrDisposed)
	}
	if src.IsDisposed() {
		return opError("blt source", ErrDisposed)
	}
	src.SubmitQueuedCommands()
	b.SubmitQueuedCommands()

	srcTex := src.tex
	if src == b {
		tmp, err := b.e.dev.NewTexture(b.w, b.h)
		if err != nil {
			return opError("blt", err)
		}
		defer tmp.Dispose()
		b.e.dev.Copy(tmp, image.Point{}, b.tex, image.Rect(0, 0, b.w, b.h))
		srcTex = tmp
	}

	q := gpu.NewQuad(dst.rectF(), srcRect.rectF(), gpu.Vec4{1, 1, 1, opacityf(opacity)})
	b.e.dev.DrawQuads(&gpu.QuadOp{
		Target:   b.tex,
		Images:   [3]gpu.Texture{srcTex},
		Pipeline: gpu.PipelineBase,
		Blend:    blend.gpu(),
		Quads:    []gpu.Quad{q},
	})
	b.InvalidateSurfaceCache()
	return nil
}

// FillRect overwrites r with c.
func (b *Bitmap) FillRect(r Rect, c Color) error {
	return b.GradientFillRect(r, c, c, false)
}

// GradientFillRect overwrites r with a gradient from c1 to c2, left to right
// or top to bottom.
func (b *Bitmap) GradientFillRect(r Rect, c1, c2 Color, vertical bool) error {
	if b.disposed {
		return opError("gradient fill rect", ErrDisposed)
	}
	if r.Empty() {
		return nil
	}
	b.enqueue(paintCommand{kind: cmdGradientFillRect, rect: r, c1: c1, c2: c2, vertical: vertical})
	b.InvalidateSurfaceCache()
	return nil
}

// Clear makes the whole bitmap transparent.
func (b *Bitmap) Clear() error {
	if b.disposed {
		return opError("clear", ErrDisposed)
	}
	b.enqueue(paintCommand{kind: cmdClear})
	b.InvalidateSurfaceCache()
	return nil
}

// ClearRect makes r transparent.
func (b *Bitmap) ClearRect(r Rect) error {
	return b.GradientFillRect(r, ColorTransparent, ColorTransparent, false)
}

// GetPixel returns the color at (x, y). Out-of-bounds coordinates yield the
// zero color.
func (b *Bitmap) GetPixel(x, y int) (Color, error) {
	if b.disposed {
		return Color{}, opError("get pixel", ErrDisposed)
	}
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return Color{}, nil
	}
	return colorFromNRGBA(b.RequireMemorySurface().NRGBAAt(x, y)), nil
}

// SetPixel writes c at (x, y). Out-of-bounds coordinates are ignored.
func (b *Bitmap) SetPixel(x, y int, c Color) error {
	if b.disposed {
		return opError("set pixel", ErrDisposed)
	}
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return nil
	}
	b.enqueue(paintCommand{kind: cmdGradientFillRect, rect: Rect{x, y, 1, 1}, c1: c, c2: c})
	b.RequireMemorySurface().SetNRGBA(x, y, c.NRGBA())
	b.notifyObservers()
	return nil
}

// HueChange rotates the hue of every pixel by hue degrees.
func (b *Bitmap) HueChange(hue int) error {
	if b.disposed {
		return opError("hue change", ErrDisposed)
	}
	if hue%360 == 0 {
		return nil
	}
	for hue < 0 {
		hue += 359
	}
	hue %= 359
	b.enqueue(paintCommand{kind: cmdHueChange, hue: hue})
	b.InvalidateSurfaceCache()
	return nil
}

// Blur applies a 3x3 box blur.
func (b *Bitmap) Blur() error {
	if b.disposed {
		return opError("blur", ErrDisposed)
	}
	b.enqueue(paintCommand{kind: cmdRadialBlur, blur: true})
	b.InvalidateSurfaceCache()
	return nil
}

// RadialBlur blurs around the centre across angle degrees in division
// steps. angle is clamped to [0, 360] and division to [2, 100].
func (b *Bitmap) RadialBlur(angle, division int) error {
	if b.disposed {
		return opError("radial blur", ErrDisposed)
	}
	b.enqueue(paintCommand{
		kind:     cmdRadialBlur,
		angle:    clampInt(angle, 0, 360),
		division: clampInt(division, 2, 100),
	})
	b.InvalidateSurfaceCache()
	return nil
}

// DrawText renders text into r with the bitmap's font. The text is centred
// vertically, aligned horizontally by align and squeezed horizontally when
// wider than r.
func (b *Bitmap) DrawText(r Rect, text string, align TextAlign) error {
	if b.disposed {
		return opError("draw text", ErrDisposed)
	}
	surface, err := b.e.fonts.render(b.font, text)
	if err != nil {
		return opError("draw text", err)
	}
	if surface == nil {
		return nil
	}
	b.enqueue(paintCommand{
		kind:    cmdDrawText,
		rect:    r,
		text:    surface,
		opacity: b.font.Color.A,
		align:   align,
	})
	b.InvalidateSurfaceCache()
	return nil
}

// TextSize returns the size text would occupy with the bitmap's font.
func (b *Bitmap) TextSize(text string) (Rect, error) {
	if b.disposed {
		return Rect{}, opError("text size", ErrDisposed)
	}
	w, h, err := b.e.fonts.measure(b.font, text)
	if err != nil {
		return Rect{}, opError("text size", err)
	}
	return Rect{0, 0, w, h}, nil
}
