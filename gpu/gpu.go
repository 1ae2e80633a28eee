// Package gpu defines the graphics collaborator consumed by canopy.
//
// The engine never talks to a graphics API directly. Everything it needs,
// texture creation, quad and triangle draws, texture copies, in-place image
// filters and pixel readback, goes through [Device] and [Texture]. Two
// implementations ship with the module: gpu/soft, a deterministic CPU
// rasterizer used by tests and headless tools, and gpu/ebitengpu, which
// renders through Ebitengine.
//
// Pixel data crossing this boundary is always straight-alpha RGBA8, row-major,
// with no row padding.
package gpu

import (
	"errors"
	"image"

	"golang.org/x/image/math/f64"
)

// ErrInvalidSize is returned when a texture is requested with a non-positive
// dimension or one larger than the device limit.
var ErrInvalidSize = errors.New("gpu: invalid texture size")

// Vec4 is a normalized four-component value (colour or tone).
type Vec4 [4]float32

// Vertex is a single vertex of a quad or triangle list. Positions are in
// target pixels; U and V are in source texels.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Quad is four vertices in top-left, top-right, bottom-right, bottom-left
// order. It is rasterized as triangles (0,1,2) and (0,2,3).
type Quad [4]Vertex

// RectF is a float rectangle used for quad construction.
type RectF struct {
	X, Y, W, H float32
}

// SetPosition writes the destination rectangle into q.
func (q *Quad) SetPosition(r RectF) {
	q[0].X, q[0].Y = r.X, r.Y
	q[1].X, q[1].Y = r.X+r.W, r.Y
	q[2].X, q[2].Y = r.X+r.W, r.Y+r.H
	q[3].X, q[3].Y = r.X, r.Y+r.H
}

// SetTexCoord writes the source rectangle (in texels) into q.
func (q *Quad) SetTexCoord(r RectF) {
	q[0].U, q[0].V = r.X, r.Y
	q[1].U, q[1].V = r.X+r.W, r.Y
	q[2].U, q[2].V = r.X+r.W, r.Y+r.H
	q[3].U, q[3].V = r.X, r.Y+r.H
}

// SetColor sets the same vertex colour on all four corners.
func (q *Quad) SetColor(c Vec4) {
	for i := range q {
		q[i].R, q[i].G, q[i].B, q[i].A = c[0], c[1], c[2], c[3]
	}
}

// NewQuad builds a quad mapping src texels onto dst pixels with colour c.
func NewQuad(dst, src RectF, c Vec4) Quad {
	var q Quad
	q.SetPosition(dst)
	q.SetTexCoord(src)
	q.SetColor(c)
	return q
}

// Pipeline selects the fragment program used by a draw.
type Pipeline uint8

const (
	PipelineBase            Pipeline = iota // texel * vertex colour
	PipelineColor                           // vertex colour only, no texture
	PipelineSprite                          // texel with per-instance colour, tone, opacity, bush
	PipelineFlat                            // texel * vertex colour with shared colour and tone
	PipelineAlphaTransition                 // Images[0] frozen, Images[1] current, crossfade by progress
	PipelineVagueTransition                 // as alpha, thresholded by Images[2] mapping
)

// BlendType selects the compositing operation of a draw.
type BlendType uint8

const (
	BlendNormal  BlendType = iota // source-over
	BlendAdd                      // additive
	BlendSub                      // destination minus source, destination alpha kept
	BlendReplace                  // overwrite destination
)

// Instance is the per-quad uniform block of [PipelineSprite].
type Instance struct {
	Color   Vec4 // blended in by Color[3]
	Tone    Vec4 // rgb offset, [3] is gray amount
	Opacity float32

	// Texels at source row >= BushDepth get alpha * BushOpacity when Bush is set.
	Bush        bool
	BushDepth   float32
	BushOpacity float32
}

// Effect is the shared uniform block of the flat and transition pipelines.
type Effect struct {
	Color    Vec4
	Tone     Vec4
	Progress float32
	Vague    float32
}

// QuadOp describes one quad draw call.
//
// When Instances is non-empty it must be parallel to Quads and the draw is
// instanced: quad i is shaded with Instances[i]. A zero World is treated as
// the identity; an empty Scissor disables clipping.
type QuadOp struct {
	Target    Texture
	Images    [3]Texture
	Pipeline  Pipeline
	Blend     BlendType
	Quads     []Quad
	Instances []Instance
	Effect    Effect
	World     f64.Aff3
	Scissor   image.Rectangle
}

// TriangleOp describes one indexed triangle-list draw with PipelineBase.
type TriangleOp struct {
	Target   Texture
	Image    Texture
	Blend    BlendType
	Vertices []Vertex
	Indices  []uint32
	World    f64.Aff3
	Scissor  image.Rectangle
}

// Texture is a device-owned 2D RGBA image.
type Texture interface {
	Size() (w, h int)
	// ReadPixels copies the texture into dst as straight-alpha RGBA8.
	// len(dst) must be at least 4*w*h.
	ReadPixels(dst []byte)
	// WritePixels replaces the whole texture with src.
	WritePixels(src []byte)
	Dispose()
}

// Device is the resource-creation and command sink consumed by the engine.
type Device interface {
	NewTexture(w, h int) (Texture, error)
	MaxTextureSize() int
	DrawQuads(op *QuadOp)
	DrawTriangles(op *TriangleOp)
	// Copy copies sr of src to dp in dst without blending.
	Copy(dst Texture, dp image.Point, src Texture, sr image.Rectangle)
	ApplyFilter(dst Texture, f Filter)
}

// Identity is the identity world transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Translate returns a translation world transform.
func Translate(x, y float64) f64.Aff3 {
	return f64.Aff3{1, 0, x, 0, 1, y}
}

// WorldOrIdentity returns w, or Identity when w is the zero value.
func WorldOrIdentity(w f64.Aff3) f64.Aff3 {
	if w == (f64.Aff3{}) {
		return Identity
	}
	return w
}

// Apply transforms the point (x, y) by w.
func Apply(w f64.Aff3, x, y float64) (float64, float64) {
	return w[0]*x + w[1]*y + w[2], w[3]*x + w[4]*y + w[5]
}

// NewTextureFrom creates a texture on d and uploads img into it.
func NewTextureFrom(d Device, img *image.NRGBA) (Texture, error) {
	b := img.Bounds()
	tex, err := d.NewTexture(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	tex.WritePixels(PixelsOf(img))
	return tex, nil
}

// PixelsOf returns the tightly packed RGBA8 bytes of img.
func PixelsOf(img *image.NRGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == 4*w && b.Min == (image.Point{}) {
		return img.Pix[:4*w*h]
	}
	out := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*4*w:(y+1)*4*w], img.Pix[off:off+4*w])
	}
	return out
}

// ReadImage reads tex back into a new NRGBA image.
func ReadImage(tex Texture) *image.NRGBA {
	w, h := tex.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	tex.ReadPixels(img.Pix)
	return img
}
