// Package soft is a deterministic CPU implementation of gpu.Device.
//
// Textures are straight-alpha image.NRGBA buffers. Triangles are rasterized
// at pixel centres with a consistent tie-break on shared edges, so adjacent
// triangles never double-blend, and texels are sampled nearest-neighbour.
// The output is exact enough for tests to compare individual pixels.
package soft

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

// DefaultMaxTextureSize is the limit reported when none is configured.
const DefaultMaxTextureSize = 8192

// Texture is a software texture.
type Texture struct {
	img      *image.NRGBA
	disposed bool
}

// Image exposes the backing image. Callers must not retain it across
// device calls.
func (t *Texture) Image() *image.NRGBA { return t.img }

// Size implements gpu.Texture.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// ReadPixels implements gpu.Texture.
func (t *Texture) ReadPixels(dst []byte) { copy(dst, t.img.Pix) }

// WritePixels implements gpu.Texture.
func (t *Texture) WritePixels(src []byte) { copy(t.img.Pix, src) }

// Dispose implements gpu.Texture.
func (t *Texture) Dispose() { t.disposed = true }

// Disposed reports whether Dispose has been called.
func (t *Texture) Disposed() bool { return t.disposed }

// Device is the software device.
type Device struct {
	maxSize int
}

// New returns a software device with the given texture size limit
// (DefaultMaxTextureSize when maxSize <= 0).
func New(maxSize int) *Device {
	if maxSize <= 0 {
		maxSize = DefaultMaxTextureSize
	}
	return &Device{maxSize: maxSize}
}

// MaxTextureSize implements gpu.Device.
func (d *Device) MaxTextureSize() int { return d.maxSize }

// NewTexture implements gpu.Device.
func (d *Device) NewTexture(w, h int) (gpu.Texture, error) {
	if w <= 0 || h <= 0 || w > d.maxSize || h > d.maxSize {
		return nil, fmt.Errorf("soft: new texture %dx%d: %w", w, h, gpu.ErrInvalidSize)
	}
	return &Texture{img: image.NewNRGBA(image.Rect(0, 0, w, h))}, nil
}

// Copy implements gpu.Device.
func (d *Device) Copy(dst gpu.Texture, dp image.Point, src gpu.Texture, sr image.Rectangle) {
	dt, st := unwrap(dst), unwrap(src)
	if dt == nil || st == nil {
		return
	}
	r := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
	draw.Draw(dt.img, r, st.img, sr.Min, draw.Src)
}

// ApplyFilter implements gpu.Device.
func (d *Device) ApplyFilter(dst gpu.Texture, f gpu.Filter) {
	t := unwrap(dst)
	if t == nil {
		return
	}
	out := gpu.FilterImage(t.img, f)
	if out != t.img {
		copy(t.img.Pix, gpu.PixelsOf(out))
	}
}

// DrawQuads implements gpu.Device.
func (d *Device) DrawQuads(op *gpu.QuadOp) {
	target := unwrap(op.Target)
	if target == nil || len(op.Quads) == 0 {
		return
	}
	r := d.newRaster(target, op.World, op.Scissor, op.Blend)
	var images [3]*Texture
	for i, img := range op.Images {
		images[i] = unwrap(img)
	}
	instanced := len(op.Instances) == len(op.Quads)
	for i := range op.Quads {
		q := &op.Quads[i]
		sh := shader{pipeline: op.Pipeline, images: images, effect: &op.Effect, target: target}
		if instanced {
			sh.instance = &op.Instances[i]
		}
		r.triangle(q[0], q[1], q[2], &sh)
		r.triangle(q[0], q[2], q[3], &sh)
	}
}

// DrawTriangles implements gpu.Device.
func (d *Device) DrawTriangles(op *gpu.TriangleOp) {
	target := unwrap(op.Target)
	if target == nil {
		return
	}
	r := d.newRaster(target, op.World, op.Scissor, op.Blend)
	sh := shader{pipeline: gpu.PipelineBase, target: target}
	sh.images[0] = unwrap(op.Image)
	for i := 0; i+2 < len(op.Indices); i += 3 {
		a, b, c := op.Indices[i], op.Indices[i+1], op.Indices[i+2]
		if int(a) >= len(op.Vertices) || int(b) >= len(op.Vertices) || int(c) >= len(op.Vertices) {
			continue
		}
		r.triangle(op.Vertices[a], op.Vertices[b], op.Vertices[c], &sh)
	}
}

func unwrap(t gpu.Texture) *Texture {
	if t == nil {
		return nil
	}
	st, ok := t.(*Texture)
	if !ok {
		panic(fmt.Sprintf("soft: foreign texture %T", t))
	}
	return st
}

func (d *Device) newRaster(target *Texture, world f64.Aff3, scissor image.Rectangle, blend gpu.BlendType) *raster {
	clip := target.img.Bounds()
	if !scissor.Empty() {
		clip = clip.Intersect(scissor)
	}
	return &raster{dst: target.img, clip: clip, world: gpu.WorldOrIdentity(world), blend: blend}
}
