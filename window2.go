package canopy

import (
	"image"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/canopy/gpu"
)

// Window2 is an RGSS2/RGSS3 window. The skin is composed into an
// intermediate layer each frame, which is then drawn toned and scaled
// vertically by the openness. Controls, cursor and contents are only drawn
// while the window is fully open.
type Window2 struct {
	drawableBase

	windowskin *Bitmap
	contents   *Bitmap
	cursorRect Rect
	active     bool
	pause      bool
	arrows     bool
	rgss3      bool

	x, y, width, height int
	ox, oy              int
	padding             int
	paddingBottom       int

	opacity         int
	backOpacity     int
	contentsOpacity int
	openness        int
	tone            Tone

	cursorOpacity int
	cursorFading  bool
	pauseIndex    int

	openTween *gween.Tween
	openFrame int

	// per-frame state, built during StageBeforeRender
	layer      layer
	skin       []gpu.Quad
	backQuad   []gpu.Quad
	controls   []gpu.Quad
	cursor     []gpu.Quad
	content    []gpu.Quad
	skinTex    gpu.Texture
	contentTex gpu.Texture
	padRect    Rect
}

// NewWindow2 creates a window in parent (nil for the screen). The geometry
// is x, y, width, height.
func NewWindow2(e *Engine, parent *Viewport, x, y, width, height int) *Window2 {
	rgss3 := e.cfg.APIVersion >= 3
	w := &Window2{
		active:          true,
		arrows:          true,
		rgss3:           rgss3,
		x:               x,
		y:               y,
		width:           width,
		height:          height,
		padding:         16,
		opacity:         255,
		backOpacity:     255,
		contentsOpacity: 255,
		openness:        255,
		cursorOpacity:   255,
	}
	if rgss3 {
		w.padding = 12
		w.backOpacity = 192
	}
	w.paddingBottom = w.padding
	w.init(e, parent, "window2", w.handle)
	if rgss3 {
		w.node.SetNodeSortWeight(100, math.MaxInt64)
		w.z = 100
	} else {
		w.node.SetNodeSortWeight(0, 0)
	}
	return w
}

// Move sets position and size at once.
func (w *Window2) Move(x, y, width, height int) {
	w.x, w.y, w.width, w.height = x, y, width, height
}

// Windowskin returns the skin bitmap.
func (w *Window2) Windowskin() *Bitmap { return w.windowskin }

// SetWindowskin sets the skin bitmap (RGSS2 128x128 layout).
func (w *Window2) SetWindowskin(b *Bitmap) error {
	if w.disposed {
		return opError("window2 set windowskin", ErrDisposed)
	}
	w.windowskin = b
	return nil
}

// Contents returns the contents bitmap.
func (w *Window2) Contents() *Bitmap { return w.contents }

// SetContents sets the contents bitmap.
func (w *Window2) SetContents(b *Bitmap) error {
	if w.disposed {
		return opError("window2 set contents", ErrDisposed)
	}
	w.contents = b
	return nil
}

// CursorRect returns the cursor rectangle, relative to the padding rect.
func (w *Window2) CursorRect() Rect { return w.cursorRect }

// SetCursorRect sets the cursor rectangle.
func (w *Window2) SetCursorRect(r Rect) { w.cursorRect = r }

// Active reports whether the cursor pulses.
func (w *Window2) Active() bool { return w.active }

// SetActive sets whether the cursor pulses.
func (w *Window2) SetActive(v bool) { w.active = v }

// Pause reports whether the pause sprite is shown.
func (w *Window2) Pause() bool { return w.pause }

// SetPause shows or hides the pause sprite.
func (w *Window2) SetPause(v bool) { w.pause = v }

// ArrowsVisible reports whether scroll arrows are drawn.
func (w *Window2) ArrowsVisible() bool { return w.arrows }

// SetArrowsVisible shows or hides the scroll arrows.
func (w *Window2) SetArrowsVisible(v bool) { w.arrows = v }

func (w *Window2) X() int      { return w.x }
func (w *Window2) Y() int      { return w.y }
func (w *Window2) Width() int  { return w.width }
func (w *Window2) Height() int { return w.height }
func (w *Window2) OX() int     { return w.ox }
func (w *Window2) OY() int     { return w.oy }

func (w *Window2) SetX(v int)      { w.x = v }
func (w *Window2) SetY(v int)      { w.y = v }
func (w *Window2) SetWidth(v int)  { w.width = v }
func (w *Window2) SetHeight(v int) { w.height = v }
func (w *Window2) SetOX(v int)     { w.ox = v }
func (w *Window2) SetOY(v int)     { w.oy = v }

// Padding returns the distance between the frame and the contents.
func (w *Window2) Padding() int { return w.padding }

// SetPadding sets the padding on every side, bottom included.
func (w *Window2) SetPadding(v int) {
	w.padding = v
	w.paddingBottom = v
}

// PaddingBottom returns the bottom padding.
func (w *Window2) PaddingBottom() int { return w.paddingBottom }

// SetPaddingBottom overrides the bottom padding.
func (w *Window2) SetPaddingBottom(v int) { w.paddingBottom = v }

// Opacity returns the frame opacity.
func (w *Window2) Opacity() int { return w.opacity }

// SetOpacity sets the frame opacity, clamped to 0..255.
func (w *Window2) SetOpacity(v int) { w.opacity = clampInt(v, 0, 255) }

// BackOpacity returns the back layer opacity.
func (w *Window2) BackOpacity() int { return w.backOpacity }

// SetBackOpacity sets the back layer opacity, clamped to 0..255.
func (w *Window2) SetBackOpacity(v int) { w.backOpacity = clampInt(v, 0, 255) }

// ContentsOpacity returns the contents opacity.
func (w *Window2) ContentsOpacity() int { return w.contentsOpacity }

// SetContentsOpacity sets the contents opacity, clamped to 0..255.
func (w *Window2) SetContentsOpacity(v int) { w.contentsOpacity = clampInt(v, 0, 255) }

// Openness returns how far the window is open, 0..255.
func (w *Window2) Openness() int { return w.openness }

// SetOpenness sets the openness, clamped to 0..255. Any running open or
// close animation is cancelled.
func (w *Window2) SetOpenness(v int) {
	w.openness = clampInt(v, 0, 255)
	w.openTween = nil
}

// IsOpened reports whether the window is fully open.
func (w *Window2) IsOpened() bool { return w.openness == 255 }

// IsClosed reports whether the window is fully closed.
func (w *Window2) IsClosed() bool { return w.openness == 0 }

// Open animates the openness to 255 over frames calls to Update.
func (w *Window2) Open(frames int) { w.animateOpenness(255, frames) }

// Close animates the openness to 0 over frames calls to Update.
func (w *Window2) Close(frames int) { w.animateOpenness(0, frames) }

func (w *Window2) animateOpenness(to, frames int) {
	if frames <= 0 {
		w.SetOpenness(to)
		return
	}
	w.openTween = gween.New(float32(w.openness), float32(to), float32(frames), ease.Linear)
	w.openFrame = 0
}

// Tone returns the tone applied to the back layer.
func (w *Window2) Tone() Tone { return w.tone }

// SetTone sets the tone applied to the back layer.
func (w *Window2) SetTone(t Tone) { w.tone = t }

// CursorOpacity returns the current cursor pulse opacity.
func (w *Window2) CursorOpacity() int { return w.cursorOpacity }

// PauseIndex returns the pause animation frame, 0..31.
func (w *Window2) PauseIndex() int { return w.pauseIndex }

// Update advances the pause animation, the cursor pulse and any running
// open or close animation by one frame.
func (w *Window2) Update() {
	if w.disposed {
		return
	}
	w.pauseIndex = (w.pauseIndex + 1) % 32
	w.cursorOpacity, w.cursorFading = cursorPulse(w.cursorOpacity, w.cursorFading, w.active)
	if w.openTween != nil {
		w.openFrame++
		v, done := w.openTween.Set(float32(w.openFrame))
		w.openness = clampInt(int(v+0.5), 0, 255)
		if done {
			w.openTween = nil
		}
	}
}

// Dispose removes the window. Windowskin and contents are not disposed.
func (w *Window2) Dispose() {
	if !w.dispose() {
		return
	}
	w.layer.release(w.e.layers)
	w.windowskin, w.contents = nil, nil
	w.skin, w.backQuad, w.controls, w.cursor, w.content = nil, nil, nil, nil, nil
}

// PaddingRect returns the contents area relative to the window.
func (w *Window2) PaddingRect() Rect {
	return Rect{
		w.padding, w.padding,
		max(0, w.width-2*w.padding),
		max(0, w.height-(w.padding+w.paddingBottom)),
	}
}

func (w *Window2) handle(stage Stage, p *RenderParams) {
	switch stage {
	case StageBeforeRender:
		w.prepare(p)
	case StageOnRendering:
		w.draw(p)
	}
}

func (w *Window2) prepare(p *RenderParams) {
	w.skin = w.skin[:0]
	w.backQuad = w.backQuad[:0]
	w.controls = w.controls[:0]
	w.cursor = w.cursor[:0]
	w.content = w.content[:0]
	w.skinTex, w.contentTex = nil, nil
	if w.width <= 0 || w.height <= 0 {
		return
	}
	w.padRect = w.PaddingRect()

	if !w.windowskin.IsDisposed() && w.openness > 0 {
		w.skinTex = w.windowskin.Texture()
		w.composeBackground(p.Device)
	}
	if w.openness < 255 {
		return
	}
	if w.skinTex != nil {
		w.prepareControls()
	}
	if !w.contents.IsDisposed() {
		w.contentTex = w.contents.Texture()
		dst := Rect{
			w.x + w.padRect.X - w.ox, w.y + w.padRect.Y - w.oy,
			w.contents.Width(), w.contents.Height(),
		}
		w.content = appendQuad(w.content, dst, w.contents.Rect(), gpu.Vec4{1, 1, 1, opacityf(w.contentsOpacity)})
	}
}

// composeBackground paints the back layers and the frame into the window
// layer in window-local coordinates.
func (w *Window2) composeBackground(dev gpu.Device) {
	if err := w.layer.ensure(w.e.layers, w.width, w.height); err != nil {
		Logger().Warn("window layer unavailable", "width", w.width, "height", w.height, "error", err)
		w.skinTex = nil
		return
	}
	s := windowskinScale
	local := Rect{0, 0, w.width, w.height}
	back := gpu.Vec4{1, 1, 1, opacityf(w.backOpacity) * opacityf(w.opacity)}
	frame := gpu.Vec4{1, 1, 1, opacityf(w.opacity)}

	inner := Rect{s, s, w.width - 2*s, w.height - 2*s}
	w.skin = appendQuad(w.skin, inner, skinRect(0, 0, 32, 32), back)
	w.skin = appendTiled(w.skin, inner, skinRect(0, 32, 32, 32), back)
	w.skin = appendFrame(w.skin, local, 32, frame)

	dev.DrawQuads(&gpu.QuadOp{
		Target:   w.layer.tex,
		Pipeline: gpu.PipelineColor,
		Blend:    gpu.BlendReplace,
		Quads:    []gpu.Quad{gpu.NewQuad(local.rectF(), gpu.RectF{}, gpu.Vec4{})},
	})
	dev.DrawQuads(&gpu.QuadOp{
		Target:   w.layer.tex,
		Images:   [3]gpu.Texture{w.skinTex},
		Pipeline: gpu.PipelineBase,
		Blend:    gpu.BlendNormal,
		Quads:    w.skin,
		Scissor:  local.image(),
	})

	open := float32(w.openness) / 255
	h := float32(w.height)
	dst := gpu.RectF{
		X: float32(w.x),
		Y: float32(w.y) + h/2*(1-open),
		W: float32(w.width),
		H: h * open,
	}
	w.backQuad = append(w.backQuad, gpu.NewQuad(dst, local.rectF(), gpu.Vec4{1, 1, 1, 1}))
}

func (w *Window2) prepareControls() {
	s := windowskinScale
	bound := Rect{w.x, w.y, w.width, w.height}
	contentsAlpha := gpu.Vec4{1, 1, 1, opacityf(w.contentsOpacity)}

	if w.arrows && !w.contents.IsDisposed() {
		a := arrowsFor(w.padRect.Width, w.padRect.Height, w.contents.Width(), w.contents.Height(), w.ox, w.oy)
		w.controls = appendArrows(w.controls, bound, a, 40, contentsAlpha)
	}
	if w.pause {
		dst := Rect{w.x + (w.width-8*s)/2, w.y + w.height - 8*s, 8 * s, 8 * s}
		w.controls = appendQuad(w.controls, dst, pauseFrame(w.pauseIndex, 48, 32), contentsAlpha)
	}
	if !w.cursorRect.Empty() {
		dst := w.cursorRect.Offset(w.x+w.padRect.X, w.y+w.padRect.Y)
		if w.rgss3 {
			dst = dst.Offset(-w.ox, -w.oy)
		}
		unit := 4
		if s >= 4 {
			unit = 2 * s
		}
		c := gpu.Vec4{1, 1, 1, opacityf(w.cursorOpacity) * opacityf(w.contentsOpacity)}
		w.cursor = appendCursor(w.cursor, dst, skinRect(32, 32, 16, 16), unit, c)
	}
}

func (w *Window2) draw(p *RenderParams) {
	current := p.Scissor.Current()
	if w.skinTex != nil && len(w.backQuad) > 0 && !current.Empty() {
		p.Device.DrawQuads(&gpu.QuadOp{
			Target:   p.Screen,
			Images:   [3]gpu.Texture{w.layer.tex},
			Pipeline: gpu.PipelineFlat,
			Blend:    gpu.BlendNormal,
			Quads:    w.backQuad,
			Effect:   gpu.Effect{Tone: w.tone.vec4()},
			World:    p.World,
			Scissor:  current,
		})
	}
	if w.openness < 255 {
		return
	}
	if w.skinTex != nil {
		drawSkinQuads(p, w.skinTex, w.controls, current)
	}
	clip := w.contentsClip(p.Viewport).Intersect(current)
	if w.skinTex != nil {
		drawSkinQuads(p, w.skinTex, w.cursor, clip)
	}
	if w.contentTex != nil {
		drawSkinQuads(p, w.contentTex, w.content, clip)
	}
}

// contentsClip returns the padding rect in target pixels.
func (w *Window2) contentsClip(info ViewportInfo) image.Rectangle {
	off := viewportOffset(info)
	return w.padRect.Offset(w.x+off.X, w.y+off.Y).image()
}
