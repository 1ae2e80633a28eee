package canopy

import (
	"github.com/phanxgames/canopy/gpu"
)

// Sprite draws a region of a bitmap with position, zoom, rotation, color,
// tone, bush and wave effects. Adjacent sprites sharing a bitmap and blend
// type are drawn with a single call.
type Sprite struct {
	drawableBase

	bitmap      *Bitmap
	src         Rect
	x, y        int
	ox, oy      int
	zoomX       float64
	zoomY       float64
	angle       float64
	mirror      bool
	bushDepth   int
	bushOpacity int
	opacity     int
	blend       BlendType
	color       Color
	tone        Tone
	flash       FlashController

	waveAmp    int
	waveLength int
	waveSpeed  int
	wavePhase  float64

	// batch range drawn by this sprite, set during StageBeforeRender
	offset, count int
	drawTex       gpu.Texture
}

// NewSprite creates a sprite in parent (nil for the screen).
func NewSprite(e *Engine, parent *Viewport) *Sprite {
	s := &Sprite{
		zoomX:       1,
		zoomY:       1,
		bushOpacity: 128,
		opacity:     255,
		waveLength:  180,
		waveSpeed:   360,
	}
	s.init(e, parent, "sprite", s.handle)
	s.node.SetupBatchable(s)
	return s
}

// Bitmap returns the sprite's bitmap.
func (s *Sprite) Bitmap() *Bitmap { return s.bitmap }

// SetBitmap replaces the bitmap and resets the source rect to cover it.
func (s *Sprite) SetBitmap(b *Bitmap) error {
	if s.disposed {
		return opError("sprite set bitmap", ErrDisposed)
	}
	s.bitmap = b
	if b != nil && !b.IsDisposed() {
		s.src = b.Rect()
	}
	return nil
}

// SrcRect returns the source region.
func (s *Sprite) SrcRect() Rect { return s.src }

// SetSrcRect sets the source region.
func (s *Sprite) SetSrcRect(r Rect) { s.src = r }

// X returns the horizontal position.
func (s *Sprite) X() int { return s.x }

// Y returns the vertical position.
func (s *Sprite) Y() int { return s.y }

// SetX sets the horizontal position.
func (s *Sprite) SetX(x int) { s.x = x }

// SetY sets the vertical position. With vertical sorting enabled the
// sprite is re-keyed to (z, y).
func (s *Sprite) SetY(y int) {
	s.y = y
	s.rekey()
}

// SetZ sets the paint order.
func (s *Sprite) SetZ(z int) {
	if s.disposed {
		return
	}
	s.z = z
	s.rekey()
}

func (s *Sprite) rekey() {
	if s.disposed {
		return
	}
	if s.e.cfg.VerticalSort {
		s.node.SetNodeSortWeight(int64(s.z), int64(s.y))
	} else {
		s.node.SetNodeSortWeight(int64(s.z))
	}
}

// OX returns the horizontal origin.
func (s *Sprite) OX() int { return s.ox }

// OY returns the vertical origin.
func (s *Sprite) OY() int { return s.oy }

// SetOX sets the horizontal origin.
func (s *Sprite) SetOX(x int) { s.ox = x }

// SetOY sets the vertical origin.
func (s *Sprite) SetOY(y int) { s.oy = y }

// ZoomX returns the horizontal scale.
func (s *Sprite) ZoomX() float64 { return s.zoomX }

// ZoomY returns the vertical scale.
func (s *Sprite) ZoomY() float64 { return s.zoomY }

// SetZoomX sets the horizontal scale.
func (s *Sprite) SetZoomX(v float64) { s.zoomX = v }

// SetZoomY sets the vertical scale.
func (s *Sprite) SetZoomY(v float64) { s.zoomY = v }

// Angle returns the rotation in degrees.
func (s *Sprite) Angle() float64 { return s.angle }

// SetAngle sets the rotation in degrees, counter-clockwise.
func (s *Sprite) SetAngle(deg float64) { s.angle = deg }

// Mirror reports whether the sprite is flipped horizontally.
func (s *Sprite) Mirror() bool { return s.mirror }

// SetMirror flips the sprite horizontally.
func (s *Sprite) SetMirror(v bool) { s.mirror = v }

// BushDepth returns the bush height in source pixels.
func (s *Sprite) BushDepth() int { return s.bushDepth }

// SetBushDepth sets how many bottom rows are drawn with the bush opacity.
func (s *Sprite) SetBushDepth(v int) { s.bushDepth = max(v, 0) }

// BushOpacity returns the bush opacity.
func (s *Sprite) BushOpacity() int { return s.bushOpacity }

// SetBushOpacity sets the bush opacity, clamped to 0..255.
func (s *Sprite) SetBushOpacity(v int) { s.bushOpacity = clampInt(v, 0, 255) }

// Opacity returns the opacity.
func (s *Sprite) Opacity() int { return s.opacity }

// SetOpacity sets the opacity, clamped to 0..255.
func (s *Sprite) SetOpacity(v int) { s.opacity = clampInt(v, 0, 255) }

// BlendType returns the blend type.
func (s *Sprite) BlendType() BlendType { return s.blend }

// SetBlendType sets the blend type.
func (s *Sprite) SetBlendType(b BlendType) { s.blend = b }

// Color returns the blend color.
func (s *Sprite) Color() Color { return s.color }

// SetColor sets the blend color.
func (s *Sprite) SetColor(c Color) { s.color = c }

// Tone returns the tone.
func (s *Sprite) Tone() Tone { return s.tone }

// SetTone sets the tone.
func (s *Sprite) SetTone(t Tone) { s.tone = t }

// WaveAmp returns the wave amplitude in pixels.
func (s *Sprite) WaveAmp() int { return s.waveAmp }

// SetWaveAmp sets the wave amplitude. Zero disables the wave.
func (s *Sprite) SetWaveAmp(v int) { s.waveAmp = v }

// WaveLength returns the wave length in source rows.
func (s *Sprite) WaveLength() int { return s.waveLength }

// SetWaveLength sets the wave length.
func (s *Sprite) SetWaveLength(v int) { s.waveLength = v }

// WaveSpeed returns the wave speed.
func (s *Sprite) WaveSpeed() int { return s.waveSpeed }

// SetWaveSpeed sets the wave speed.
func (s *Sprite) SetWaveSpeed(v int) { s.waveSpeed = v }

// WavePhase returns the wave phase in degrees.
func (s *Sprite) WavePhase() float64 { return s.wavePhase }

// SetWavePhase sets the wave phase in degrees.
func (s *Sprite) SetWavePhase(v float64) { s.wavePhase = v }

// Width returns the source rect width.
func (s *Sprite) Width() int {
	if s.disposed {
		return 0
	}
	return s.src.Width
}

// Height returns the source rect height.
func (s *Sprite) Height() int {
	if s.disposed {
		return 0
	}
	return s.src.Height
}

// Flash starts a flash. A nil color hides the sprite for the duration.
func (s *Sprite) Flash(c *Color, duration int) {
	if !s.disposed {
		s.flash.Setup(c, duration)
	}
}

// Update advances the flash and the wave phase by one frame.
func (s *Sprite) Update() {
	if s.disposed {
		return
	}
	s.flash.Update()
	if s.waveAmp != 0 {
		s.wavePhase += float64(s.waveSpeed) / 180
	}
}

// Dispose removes the sprite. The bitmap is not disposed.
func (s *Sprite) Dispose() {
	if s.dispose() {
		s.bitmap = nil
	}
}

// clippedSrc returns the source rect clamped to the bitmap.
func (s *Sprite) clippedSrc() Rect {
	return s.src.Intersect(s.bitmap.Rect())
}

// drawable reports whether the sprite pushes anything this frame. It is the
// single source of truth for both the sprite's own batch step and the
// adjacency test of the sprite before it.
func (s *Sprite) drawable() bool {
	return !s.disposed && s.visible && s.opacity > 0 &&
		s.bitmap != nil && !s.bitmap.IsDisposed() &&
		!(s.flash.IsFlashing() && s.flash.IsInvalid()) &&
		!s.clippedSrc().Empty()
}

// BatchState implements Batchable.
func (s *Sprite) BatchState() BatchItem {
	it := BatchItem{Blend: s.blend, Batchable: true, Visible: s.drawable()}
	if it.Visible {
		it.Texture = s.bitmap.Texture()
	}
	return it
}

func (s *Sprite) handle(stage Stage, p *RenderParams) {
	switch stage {
	case StageBeforeRender:
		s.beforeRender()
	case StageOnRendering:
		if s.count > 0 {
			s.e.batch.Draw(p.Screen, s.drawTex, p.World, p.Scissor.Current(), s.blend, s.offset, s.count)
		}
	}
}

func (s *Sprite) beforeRender() {
	s.offset, s.count, s.drawTex = 0, 0, nil
	if !s.drawable() {
		return
	}
	tex := s.bitmap.Texture()
	batch := s.e.batch
	if batch.CurrentTexture() == nil {
		batch.BeginBatch(tex)
	}

	inst := s.instance()
	s.pushQuads(batch, inst)

	if !batch.Enabled() || !s.mergesWithNext(tex) {
		s.offset, s.count = batch.EndBatch()
		s.drawTex = tex
	}
}

func (s *Sprite) mergesWithNext(tex gpu.Texture) bool {
	next, ok := s.node.NextNode()
	if !ok {
		return false
	}
	b := next.Batchable()
	if b == nil || next.Visibility() != Visible {
		return false
	}
	return canMerge(BatchItem{Texture: tex, Blend: s.blend}, b.BatchState())
}

func (s *Sprite) instance() gpu.Instance {
	src := s.clippedSrc()
	in := gpu.Instance{
		Color:   s.flash.composite(s.color).vec4(),
		Tone:    s.tone.vec4(),
		Opacity: opacityf(s.opacity),
	}
	if s.bushDepth > 0 {
		in.Bush = true
		in.BushDepth = float32(src.Y + src.Height - s.bushDepth)
		in.BushOpacity = opacityf(s.bushOpacity)
	}
	return in
}

func (s *Sprite) pushQuads(batch *SpriteBatch, in gpu.Instance) {
	src := s.clippedSrc()
	m := spriteTransform(float32(s.x), float32(s.y), float32(s.ox), float32(s.oy),
		float32(s.zoomX), float32(s.zoomY), float32(s.angle))
	white := gpu.Vec4{1, 1, 1, 1}

	if s.waveAmp == 0 {
		dst := gpu.RectF{W: float32(src.Width), H: float32(src.Height)}
		batch.PushSprite(m.quad(dst, src.rectF(), s.mirror, white), in)
		return
	}
	for y := 0; y < src.Height; y += waveBlockHeight {
		h := min(waveBlockHeight, src.Height-y)
		dx := waveOffset(y, s.waveAmp, s.waveLength, float32(s.wavePhase))
		dst := gpu.RectF{X: dx, Y: float32(y), W: float32(src.Width), H: float32(h)}
		sr := gpu.RectF{X: float32(src.X), Y: float32(src.Y + y), W: float32(src.Width), H: float32(h)}
		batch.PushSprite(m.quad(dst, sr, s.mirror, white), in)
	}
}
