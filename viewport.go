package canopy

import (
	"image"

	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

// Viewport is a rectangular region that clips, scrolls and color-grades the
// drawables inside it. Viewports nest: a child viewport's rect is relative to
// its parent's bound minus the parent's scroll origin.
type Viewport struct {
	drawableBase
	children *DrawNodeController

	rect   Rect
	ox, oy int
	color  Color
	tone   Tone
	flash  FlashController
	layer  layer

	// per-frame state
	bound  Rect
	clip   Rect
	hidden bool

	world       f64.Aff3
	worldBound  Point
	worldOrigin Point
	worldValid  bool
}

// NewViewport creates a viewport covering rect inside parent (nil for the
// screen).
func NewViewport(e *Engine, rect Rect, parent *Viewport) *Viewport {
	v := &Viewport{rect: rect}
	v.children = e.newController()
	v.init(e, parent, "viewport", v.handle)
	return v
}

// Children returns the controller of the drawables inside the viewport.
func (v *Viewport) Children() *DrawNodeController { return v.children }

// Rect returns the viewport rectangle.
func (v *Viewport) Rect() Rect {
	if v.disposed {
		return Rect{}
	}
	return v.rect
}

// SetRect moves or resizes the viewport.
func (v *Viewport) SetRect(r Rect) {
	if !v.disposed {
		v.rect = r
	}
}

// OX returns the horizontal scroll origin.
func (v *Viewport) OX() int { return v.ox }

// OY returns the vertical scroll origin.
func (v *Viewport) OY() int { return v.oy }

// SetOX sets the horizontal scroll origin.
func (v *Viewport) SetOX(x int) { v.ox = x }

// SetOY sets the vertical scroll origin.
func (v *Viewport) SetOY(y int) { v.oy = y }

// Color returns the blend color applied to the viewport contents.
func (v *Viewport) Color() Color { return v.color }

// SetColor sets the blend color. Alpha 0 disables it.
func (v *Viewport) SetColor(c Color) { v.color = c }

// Tone returns the tone applied to the viewport contents.
func (v *Viewport) Tone() Tone { return v.tone }

// SetTone sets the tone.
func (v *Viewport) SetTone(t Tone) { v.tone = t }

// Flash starts a flash of duration frames. A nil color hides the viewport
// for the duration instead.
func (v *Viewport) Flash(c *Color, duration int) {
	if !v.disposed {
		v.flash.Setup(c, duration)
	}
}

// Update advances the flash by one frame.
func (v *Viewport) Update() {
	if !v.disposed {
		v.flash.Update()
	}
}

// Dispose removes the viewport. Drawables still inside it are detached and
// stop rendering until moved elsewhere.
func (v *Viewport) Dispose() {
	if !v.dispose() {
		return
	}
	v.children.Close()
	v.layer.release(v.e.layers)
}

// effectColor returns the color of the effect pass: the flash color when it
// is stronger than the viewport color.
func (v *Viewport) effectColor() Color {
	return v.flash.composite(v.color)
}

func (v *Viewport) effectNeeded() bool {
	return v.effectColor().A != 0 || !v.tone.IsZero()
}

func (v *Viewport) handle(stage Stage, p *RenderParams) {
	if v.flash.IsFlashing() && v.flash.IsInvalid() {
		return
	}
	switch stage {
	case StageBeforeRender:
		v.beforeRender(p)
	case StageOnRendering:
		v.onRendering(p)
	case StageNotification:
		v.children.BroadcastNotification(stage, p)
	}
}

func (v *Viewport) beforeRender(p *RenderParams) {
	parent := p.Viewport
	v.bound = v.rect.Offset(parent.Bound.X-parent.Origin.X, parent.Bound.Y-parent.Origin.Y)
	v.clip = v.bound.Intersect(parent.Clip)
	v.hidden = v.clip.Empty()
	if v.hidden {
		return
	}

	origin := Point{v.ox, v.oy}
	if !v.worldValid || v.worldBound != v.bound.Pos() || v.worldOrigin != origin {
		v.world = gpu.Translate(float64(v.bound.X-v.ox), float64(v.bound.Y-v.oy))
		v.worldBound, v.worldOrigin, v.worldValid = v.bound.Pos(), origin, true
	}

	if v.effectNeeded() {
		if err := v.layer.ensure(v.e.layers, v.bound.Width, v.bound.Height); err != nil {
			Logger().Warn("viewport layer unavailable", "width", v.bound.Width, "height", v.bound.Height, "error", err)
		}
	}

	info := ViewportInfo{Bound: v.bound, Origin: origin, Clip: v.clip}
	v.children.SetViewportInfo(info)
	sub := *p
	sub.World = v.world
	sub.Viewport = info
	v.children.BroadcastNotification(StageBeforeRender, &sub)
}

func (v *Viewport) onRendering(p *RenderParams) {
	if v.hidden || !p.Scissor.Push(v.bound.image()) {
		return
	}
	sub := *p
	sub.World = v.world
	sub.Viewport = v.children.ViewportInfo()
	v.children.BroadcastNotification(StageOnRendering, &sub)

	if v.effectNeeded() {
		v.applyEffect(p, p.Scissor.Current())
	}
	p.Scissor.Pop()
}

// applyEffect re-shades region of the target with the viewport color and
// tone. The region is copied to the intermediate layer and drawn back with
// the flat pipeline.
func (v *Viewport) applyEffect(p *RenderParams, region image.Rectangle) {
	if region.Empty() {
		return
	}
	if err := v.layer.ensure(v.e.layers, region.Dx(), region.Dy()); err != nil {
		Logger().Warn("viewport layer unavailable", "width", region.Dx(), "height", region.Dy(), "error", err)
		return
	}
	p.Device.Copy(v.layer.tex, image.Point{}, p.Screen, region)

	r := rectFromImage(region)
	src := gpu.RectF{W: float32(r.Width), H: float32(r.Height)}
	p.Device.DrawQuads(&gpu.QuadOp{
		Target:   p.Screen,
		Images:   [3]gpu.Texture{v.layer.tex},
		Pipeline: gpu.PipelineFlat,
		Blend:    gpu.BlendReplace,
		Quads:    []gpu.Quad{gpu.NewQuad(r.rectF(), src, gpu.Vec4{1, 1, 1, 1})},
		Effect:   gpu.Effect{Color: v.effectColor().vec4(), Tone: v.tone.vec4()},
		World:    gpu.Identity,
		Scissor:  region,
	})
}

// Render draws the viewport's contents directly into target, scrolled by
// the viewport's origin and clipped to its size. With clear set the covered
// area is made transparent first.
func (v *Viewport) Render(target *Bitmap, clear bool) error {
	if v.disposed {
		return opError("viewport render", ErrDisposed)
	}
	if target.IsDisposed() {
		return opError("viewport render target", ErrDisposed)
	}
	vr := Rect{0, 0, min(target.w, v.rect.Width), min(target.h, v.rect.Height)}
	if vr.Empty() {
		return nil
	}
	e := v.e
	e.scheduler.SubmitPendingPaintCommands()

	info := ViewportInfo{Bound: vr, Origin: Point{v.ox, v.oy}, Clip: vr}
	v.children.SetViewportInfo(info)
	params := RenderParams{
		Device:     e.dev,
		Screen:     target.tex,
		ScreenSize: image.Pt(target.w, target.h),
		World:      gpu.Translate(float64(-v.ox), float64(-v.oy)),
		Viewport:   info,
	}
	v.children.BroadcastNotification(StageBeforeRender, &params)
	e.batch.SubmitBatchDataAndResetCache()

	if clear {
		e.dev.DrawQuads(&gpu.QuadOp{
			Target:   target.tex,
			Pipeline: gpu.PipelineColor,
			Blend:    gpu.BlendReplace,
			Quads:    []gpu.Quad{gpu.NewQuad(vr.rectF(), gpu.RectF{}, gpu.Vec4{})},
		})
	}
	target.InvalidateSurfaceCache()

	if v.flash.IsFlashing() && v.flash.IsInvalid() {
		return nil
	}
	params.Scissor = NewScissorStack(vr.image())
	v.children.BroadcastNotification(StageOnRendering, &params)
	if v.effectNeeded() {
		v.applyEffect(&params, vr.image())
	}
	return nil
}
