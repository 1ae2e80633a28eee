// Package ebitengpu implements gpu.Device on top of Ebitengine.
//
// Textures are *ebiten.Image values. Quad pipelines are Kage shaders drawn
// with DrawTrianglesShader32; scissoring draws into a SubImage of the target,
// which shares the target's coordinate space. Pixel transfers convert between
// the engine's straight alpha and Ebitengine's premultiplied storage.
package ebitengpu

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy/gpu"
)

// DefaultMaxTextureSize is a conservative limit supported by every
// Ebitengine backend.
const DefaultMaxTextureSize = 4096

// Texture wraps an *ebiten.Image.
type Texture struct {
	img *ebiten.Image
}

// Image returns the underlying Ebitengine image.
func (t *Texture) Image() *ebiten.Image { return t.img }

// Size implements gpu.Texture.
func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// ReadPixels implements gpu.Texture.
func (t *Texture) ReadPixels(dst []byte) {
	t.img.ReadPixels(dst)
	unpremultiply(dst)
}

// WritePixels implements gpu.Texture.
func (t *Texture) WritePixels(src []byte) {
	buf := make([]byte, len(src))
	copy(buf, src)
	premultiply(buf)
	t.img.WritePixels(buf)
}

// Dispose implements gpu.Texture.
func (t *Texture) Dispose() { t.img.Deallocate() }

// Wrap adapts an existing Ebitengine image, such as the screen passed to
// Game.Draw, into a gpu.Texture.
func Wrap(img *ebiten.Image) *Texture { return &Texture{img: img} }

// Device is the Ebitengine device.
type Device struct {
	maxSize int
	shaders shaders

	verts []ebiten.Vertex
	inds  []uint32
	op    ebiten.DrawTrianglesShaderOptions

	// mapping holds the transition mapping stretched to the target size.
	mapping gpu.Scratch
}

// New returns a device with the given texture size limit
// (DefaultMaxTextureSize when maxSize <= 0).
func New(maxSize int) *Device {
	if maxSize <= 0 {
		maxSize = DefaultMaxTextureSize
	}
	return &Device{maxSize: maxSize}
}

// Release frees scratch images held by the device.
func (d *Device) Release() { d.mapping.Release() }

// MaxTextureSize implements gpu.Device.
func (d *Device) MaxTextureSize() int { return d.maxSize }

// NewTexture implements gpu.Device.
func (d *Device) NewTexture(w, h int) (gpu.Texture, error) {
	if w <= 0 || h <= 0 || w > d.maxSize || h > d.maxSize {
		return nil, fmt.Errorf("ebitengpu: new texture %dx%d: %w", w, h, gpu.ErrInvalidSize)
	}
	return &Texture{img: ebiten.NewImage(w, h)}, nil
}

func unwrap(t gpu.Texture) *ebiten.Image {
	if t == nil {
		return nil
	}
	et, ok := t.(*Texture)
	if !ok {
		panic(fmt.Sprintf("ebitengpu: foreign texture %T", t))
	}
	return et.img
}

func clipTarget(dst *ebiten.Image, scissor image.Rectangle) *ebiten.Image {
	if scissor.Empty() {
		return dst
	}
	return dst.SubImage(scissor.Intersect(dst.Bounds())).(*ebiten.Image)
}

// Blend maps a gpu.BlendType onto an ebiten.Blend.
func Blend(b gpu.BlendType) ebiten.Blend {
	switch b {
	case gpu.BlendAdd:
		return ebiten.BlendLighter
	case gpu.BlendSub:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationReverseSubtract,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case gpu.BlendReplace:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// DrawQuads implements gpu.Device. Instanced draws are split into
// consecutive runs sharing one instance uniform.
func (d *Device) DrawQuads(op *gpu.QuadOp) {
	dst := unwrap(op.Target)
	if dst == nil || len(op.Quads) == 0 {
		return
	}
	dst = clipTarget(dst, op.Scissor)
	world := gpu.WorldOrIdentity(op.World)

	pipeline := op.Pipeline
	images := [3]*ebiten.Image{unwrap(op.Images[0]), unwrap(op.Images[1]), unwrap(op.Images[2])}
	if images[0] == nil && pipeline != gpu.PipelineColor {
		pipeline = gpu.PipelineColor
	}
	if pipeline == gpu.PipelineVagueTransition && images[2] != nil && images[0] != nil {
		images[2] = d.rescale(images[2], images[0].Bounds())
	}

	d.op = ebiten.DrawTrianglesShaderOptions{Blend: Blend(op.Blend)}
	for i, img := range images {
		d.op.Images[i] = img
	}
	shader := d.shaders.pipeline(pipeline)

	instanced := pipeline == gpu.PipelineSprite && len(op.Instances) == len(op.Quads)
	start := 0
	for start < len(op.Quads) {
		end := len(op.Quads)
		if instanced {
			end = start + 1
			for end < len(op.Quads) && op.Instances[end] == op.Instances[start] {
				end++
			}
			d.op.Uniforms = instanceUniforms(&op.Instances[start])
		} else {
			d.op.Uniforms = effectUniforms(&op.Effect)
		}
		d.verts, d.inds = d.verts[:0], d.inds[:0]
		for i := start; i < end; i++ {
			d.appendQuad(&op.Quads[i], world)
		}
		dst.DrawTrianglesShader32(d.verts, d.inds, shader, &d.op)
		start = end
	}
}

func (d *Device) appendQuad(q *gpu.Quad, world [6]float64) {
	base := uint32(len(d.verts))
	for _, v := range q {
		x, y := gpu.Apply(world, float64(v.X), float64(v.Y))
		d.verts = append(d.verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: v.U, SrcY: v.V,
			ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: v.A,
		})
	}
	d.inds = append(d.inds, base, base+1, base+2, base, base+2, base+3)
}

func instanceUniforms(in *gpu.Instance) map[string]any {
	bush := float32(0)
	if in.Bush {
		bush = 1
	}
	return map[string]any{
		"Color":       in.Color[:],
		"Tone":        in.Tone[:],
		"Opacity":     in.Opacity,
		"Bush":        bush,
		"BushDepth":   in.BushDepth,
		"BushOpacity": in.BushOpacity,
	}
}

func effectUniforms(e *gpu.Effect) map[string]any {
	vague := e.Vague
	if vague <= 0 {
		vague = 1.0 / 256
	}
	return map[string]any{
		"Color":    e.Color[:],
		"Tone":     e.Tone[:],
		"Progress": e.Progress,
		"Vague":    vague,
	}
}

// rescale stretches img to the size of r into the device's scratch image.
// The scratch image is kept between calls, so a transition reuses it every
// frame.
func (d *Device) rescale(img *ebiten.Image, r image.Rectangle) *ebiten.Image {
	b := img.Bounds()
	if b.Size() == r.Size() {
		return img
	}
	tex, err := d.mapping.Get(d, r.Dx(), r.Dy())
	if err != nil {
		return img
	}
	out := unwrap(tex)
	out.Clear()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.Dx())/float64(b.Dx()), float64(r.Dy())/float64(b.Dy()))
	out.DrawImage(img, &op)
	return out
}

// DrawTriangles implements gpu.Device.
func (d *Device) DrawTriangles(op *gpu.TriangleOp) {
	dst := unwrap(op.Target)
	if dst == nil || len(op.Indices) == 0 {
		return
	}
	dst = clipTarget(dst, op.Scissor)
	world := gpu.WorldOrIdentity(op.World)

	d.verts = d.verts[:0]
	for _, v := range op.Vertices {
		x, y := gpu.Apply(world, float64(v.X), float64(v.Y))
		d.verts = append(d.verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: v.U, SrcY: v.V,
			ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: v.A,
		})
	}
	pipeline := gpu.PipelineBase
	img := unwrap(op.Image)
	if img == nil {
		pipeline = gpu.PipelineColor
	}
	d.op = ebiten.DrawTrianglesShaderOptions{Blend: Blend(op.Blend)}
	d.op.Images[0] = img
	dst.DrawTrianglesShader32(d.verts, op.Indices, d.shaders.pipeline(pipeline), &d.op)
}

// Copy implements gpu.Device.
func (d *Device) Copy(dst gpu.Texture, dp image.Point, src gpu.Texture, sr image.Rectangle) {
	di, si := unwrap(dst), unwrap(src)
	if di == nil || si == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.Blend = ebiten.BlendCopy
	op.GeoM.Translate(float64(dp.X), float64(dp.Y))
	di.DrawImage(si.SubImage(sr).(*ebiten.Image), &op)
}

// ApplyFilter implements gpu.Device. Hue rotation runs as a shader; the blur
// filters read back and use the CPU implementations.
func (d *Device) ApplyFilter(dst gpu.Texture, f gpu.Filter) {
	img := unwrap(dst)
	if img == nil {
		return
	}
	if h, ok := f.(gpu.HueFilter); ok {
		b := img.Bounds()
		src := ebiten.NewImage(b.Dx(), b.Dy())
		defer src.Deallocate()
		var cp ebiten.DrawImageOptions
		cp.Blend = ebiten.BlendCopy
		src.DrawImage(img, &cp)

		var op ebiten.DrawRectShaderOptions
		op.Blend = ebiten.BlendCopy
		op.Images[0] = src
		op.Uniforms = map[string]any{"Hue": float32(float64(h.Hue) * math.Pi / 180)}
		img.DrawRectShader(b.Dx(), b.Dy(), d.shaders.hue(), &op)
		return
	}
	t := dst.(*Texture)
	cpu := gpu.ReadImage(t)
	out := gpu.FilterImage(cpu, f)
	t.WritePixels(gpu.PixelsOf(out))
}

// premultiply converts straight-alpha RGBA8 to premultiplied in place.
func premultiply(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		a := uint32(p[i+3])
		if a == 255 {
			continue
		}
		p[i] = uint8((uint32(p[i])*a + 127) / 255)
		p[i+1] = uint8((uint32(p[i+1])*a + 127) / 255)
		p[i+2] = uint8((uint32(p[i+2])*a + 127) / 255)
	}
}

// unpremultiply converts premultiplied RGBA8 to straight alpha in place.
func unpremultiply(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		a := int(p[i+3])
		if a == 0 || a == 255 {
			continue
		}
		p[i] = uint8(min(int(p[i])*255/a, 255))
		p[i+1] = uint8(min(int(p[i+1])*255/a, 255))
		p[i+2] = uint8(min(int(p[i+2])*255/a, 255))
	}
}
