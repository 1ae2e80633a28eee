package canopy

import (
	"github.com/chewxy/math32"

	"github.com/phanxgames/canopy/gpu"
)

// Plane tiles a bitmap across its whole viewport, scrolled by its own
// origin.
type Plane struct {
	drawableBase

	bitmap  *Bitmap
	ox, oy  int
	zoomX   float64
	zoomY   float64
	opacity int
	blend   BlendType
	color   Color
	tone    Tone

	quads []gpu.Quad
	tex   gpu.Texture
}

// NewPlane creates a plane in parent (nil for the screen).
func NewPlane(e *Engine, parent *Viewport) *Plane {
	p := &Plane{zoomX: 1, zoomY: 1, opacity: 255}
	p.init(e, parent, "plane", p.handle)
	return p
}

// Bitmap returns the tiled bitmap.
func (p *Plane) Bitmap() *Bitmap { return p.bitmap }

// SetBitmap sets the tiled bitmap.
func (p *Plane) SetBitmap(b *Bitmap) error {
	if p.disposed {
		return opError("plane set bitmap", ErrDisposed)
	}
	p.bitmap = b
	return nil
}

// OX returns the horizontal scroll.
func (p *Plane) OX() int { return p.ox }

// OY returns the vertical scroll.
func (p *Plane) OY() int { return p.oy }

// SetOX sets the horizontal scroll.
func (p *Plane) SetOX(v int) { p.ox = v }

// SetOY sets the vertical scroll.
func (p *Plane) SetOY(v int) { p.oy = v }

// ZoomX returns the horizontal scale.
func (p *Plane) ZoomX() float64 { return p.zoomX }

// ZoomY returns the vertical scale.
func (p *Plane) ZoomY() float64 { return p.zoomY }

// SetZoomX sets the horizontal scale.
func (p *Plane) SetZoomX(v float64) { p.zoomX = v }

// SetZoomY sets the vertical scale.
func (p *Plane) SetZoomY(v float64) { p.zoomY = v }

// Opacity returns the opacity.
func (p *Plane) Opacity() int { return p.opacity }

// SetOpacity sets the opacity, clamped to 0..255.
func (p *Plane) SetOpacity(v int) { p.opacity = clampInt(v, 0, 255) }

// BlendType returns the blend type.
func (p *Plane) BlendType() BlendType { return p.blend }

// SetBlendType sets the blend type.
func (p *Plane) SetBlendType(b BlendType) { p.blend = b }

// Color returns the blend color.
func (p *Plane) Color() Color { return p.color }

// SetColor sets the blend color.
func (p *Plane) SetColor(c Color) { p.color = c }

// Tone returns the tone.
func (p *Plane) Tone() Tone { return p.tone }

// SetTone sets the tone.
func (p *Plane) SetTone(t Tone) { p.tone = t }

// Dispose removes the plane. The bitmap is not disposed.
func (p *Plane) Dispose() {
	if p.dispose() {
		p.bitmap = nil
		p.quads = nil
	}
}

func (p *Plane) handle(stage Stage, rp *RenderParams) {
	switch stage {
	case StageBeforeRender:
		p.beforeRender(rp.Viewport.Bound)
	case StageOnRendering:
		p.draw(rp)
	}
}

// beforeRender rebuilds the tiles covering bound, in target pixels.
func (p *Plane) beforeRender(bound Rect) {
	p.quads = p.quads[:0]
	p.tex = nil
	if p.opacity == 0 || p.bitmap.IsDisposed() || bound.Empty() {
		return
	}
	p.tex = p.bitmap.Texture()
	tw, th := p.bitmap.Width(), p.bitmap.Height()

	itemW := math32.Max(1, float32(tw)*float32(p.zoomX))
	itemH := math32.Max(1, float32(th)*float32(p.zoomY))
	wrapX := fmodPositive(float32(p.ox), itemW)
	wrapY := fmodPositive(float32(p.oy), itemH)
	cols := int(math32.Ceil((float32(bound.Width) + wrapX) / itemW))
	rows := int(math32.Ceil((float32(bound.Height) + wrapY) / itemH))

	c := gpu.Vec4{1, 1, 1, opacityf(p.opacity)}
	src := gpu.RectF{W: float32(tw), H: float32(th)}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dst := gpu.RectF{
				X: float32(bound.X) - wrapX + float32(x)*itemW,
				Y: float32(bound.Y) - wrapY + float32(y)*itemH,
				W: itemW,
				H: itemH,
			}
			p.quads = append(p.quads, gpu.NewQuad(dst, src, c))
		}
	}
}

func (p *Plane) draw(rp *RenderParams) {
	if len(p.quads) == 0 || p.tex == nil {
		return
	}
	scissor := rp.Scissor.Current().Intersect(rp.Viewport.Bound.image())
	if scissor.Empty() {
		return
	}
	rp.Device.DrawQuads(&gpu.QuadOp{
		Target:   rp.Screen,
		Images:   [3]gpu.Texture{p.tex},
		Pipeline: gpu.PipelineFlat,
		Blend:    p.blend.gpu(),
		Quads:    p.quads,
		Effect:   gpu.Effect{Color: p.color.vec4(), Tone: p.tone.vec4()},
		World:    gpu.Identity,
		Scissor:  scissor,
	})
}
