package canopy

import (
	"image"

	"github.com/phanxgames/canopy/gpu"
)

// Window is an RGSS1 message window. It renders through two nodes: the
// background node at z paints the back layer and the frame, the control
// node at z+2 paints the cursor, scroll arrows, pause sprite and contents.
type Window struct {
	drawableBase
	ctrl DrawableNode

	windowskin *Bitmap
	contents   *Bitmap
	stretch    bool
	cursorRect Rect
	active     bool
	pause      bool

	x, y, width, height int
	ox, oy              int

	opacity         int
	backOpacity     int
	contentsOpacity int

	cursorOpacity int
	cursorFading  bool
	pauseIndex    int

	// per-frame state, built during StageBeforeRender
	background []gpu.Quad
	controls   []gpu.Quad
	cursor     []gpu.Quad
	content    []gpu.Quad
	skinTex    gpu.Texture
	contentTex gpu.Texture
	bound      Rect
	inner      Rect
}

// NewWindow creates a window in parent (nil for the screen).
func NewWindow(e *Engine, parent *Viewport) *Window {
	w := &Window{
		stretch:         true,
		active:          true,
		opacity:         255,
		backOpacity:     255,
		contentsOpacity: 255,
		cursorOpacity:   255,
	}
	w.init(e, parent, "window", w.handleBackground)
	w.ctrl = e.arena.NewNode(e.controllerFor(parent))
	w.ctrl.SetDebugLabel("window.control")
	w.ctrl.RegisterEventHandler(w.handleControl)
	w.ctrl.SetNodeSortWeight(2)
	return w
}

// SetZ re-keys the background node to (z) and the control node to (z+2).
func (w *Window) SetZ(z int) {
	if w.disposed {
		return
	}
	w.z = z
	w.node.SetNodeSortWeight(int64(z))
	w.ctrl.SetNodeSortWeight(int64(z) + 2)
}

// SetVisible shows or hides both nodes.
func (w *Window) SetVisible(v bool) {
	if w.disposed {
		return
	}
	w.drawableBase.SetVisible(v)
	w.ctrl.SetNodeVisibility(visibilityOf(v))
}

// SetViewport moves both nodes into v.
func (w *Window) SetViewport(v *Viewport) error {
	if err := w.drawableBase.SetViewport(v); err != nil {
		return err
	}
	w.ctrl.RebindController(w.e.controllerFor(v))
	return nil
}

// Windowskin returns the skin bitmap.
func (w *Window) Windowskin() *Bitmap { return w.windowskin }

// SetWindowskin sets the skin bitmap (RGSS1 192x128 layout).
func (w *Window) SetWindowskin(b *Bitmap) error {
	if w.disposed {
		return opError("window set windowskin", ErrDisposed)
	}
	w.windowskin = b
	return nil
}

// Contents returns the contents bitmap.
func (w *Window) Contents() *Bitmap { return w.contents }

// SetContents sets the contents bitmap.
func (w *Window) SetContents(b *Bitmap) error {
	if w.disposed {
		return opError("window set contents", ErrDisposed)
	}
	w.contents = b
	return nil
}

// Stretch reports whether the back layer is stretched rather than tiled.
func (w *Window) Stretch() bool { return w.stretch }

// SetStretch selects stretching or tiling of the back layer.
func (w *Window) SetStretch(v bool) { w.stretch = v }

// CursorRect returns the cursor rectangle, relative to the contents area.
func (w *Window) CursorRect() Rect { return w.cursorRect }

// SetCursorRect sets the cursor rectangle. An empty rect hides the cursor.
func (w *Window) SetCursorRect(r Rect) { w.cursorRect = r }

// Active reports whether the cursor pulses.
func (w *Window) Active() bool { return w.active }

// SetActive sets whether the cursor pulses.
func (w *Window) SetActive(v bool) { w.active = v }

// Pause reports whether the pause sprite is shown.
func (w *Window) Pause() bool { return w.pause }

// SetPause shows or hides the pause sprite.
func (w *Window) SetPause(v bool) { w.pause = v }

// X returns the horizontal position.
func (w *Window) X() int { return w.x }

// Y returns the vertical position.
func (w *Window) Y() int { return w.y }

// Width returns the window width.
func (w *Window) Width() int { return w.width }

// Height returns the window height.
func (w *Window) Height() int { return w.height }

// SetX sets the horizontal position.
func (w *Window) SetX(v int) { w.x = v }

// SetY sets the vertical position.
func (w *Window) SetY(v int) { w.y = v }

// SetWidth sets the window width.
func (w *Window) SetWidth(v int) { w.width = v }

// SetHeight sets the window height.
func (w *Window) SetHeight(v int) { w.height = v }

// OX returns the horizontal scroll of the contents.
func (w *Window) OX() int { return w.ox }

// OY returns the vertical scroll of the contents.
func (w *Window) OY() int { return w.oy }

// SetOX sets the horizontal scroll of the contents.
func (w *Window) SetOX(v int) { w.ox = v }

// SetOY sets the vertical scroll of the contents.
func (w *Window) SetOY(v int) { w.oy = v }

// Opacity returns the frame opacity.
func (w *Window) Opacity() int { return w.opacity }

// SetOpacity sets the frame opacity, clamped to 0..255.
func (w *Window) SetOpacity(v int) { w.opacity = clampInt(v, 0, 255) }

// BackOpacity returns the back layer opacity.
func (w *Window) BackOpacity() int { return w.backOpacity }

// SetBackOpacity sets the back layer opacity, clamped to 0..255.
func (w *Window) SetBackOpacity(v int) { w.backOpacity = clampInt(v, 0, 255) }

// ContentsOpacity returns the contents opacity.
func (w *Window) ContentsOpacity() int { return w.contentsOpacity }

// SetContentsOpacity sets the contents opacity, clamped to 0..255.
func (w *Window) SetContentsOpacity(v int) { w.contentsOpacity = clampInt(v, 0, 255) }

// CursorOpacity returns the current cursor pulse opacity.
func (w *Window) CursorOpacity() int { return w.cursorOpacity }

// PauseIndex returns the pause animation frame, 0..31.
func (w *Window) PauseIndex() int { return w.pauseIndex }

// Update advances the pause animation and the cursor pulse by one frame.
func (w *Window) Update() {
	if w.disposed {
		return
	}
	w.pauseIndex = (w.pauseIndex + 1) % 32
	w.cursorOpacity, w.cursorFading = cursorPulse(w.cursorOpacity, w.cursorFading, w.active)
}

// Dispose removes both nodes. Windowskin and contents are not disposed.
func (w *Window) Dispose() {
	if !w.dispose() {
		return
	}
	w.ctrl.DisposeNode()
	w.windowskin, w.contents = nil, nil
	w.background, w.controls, w.cursor, w.content = nil, nil, nil, nil
}

func (w *Window) handleBackground(stage Stage, p *RenderParams) {
	switch stage {
	case StageBeforeRender:
		w.prepare()
	case StageOnRendering:
		if w.skinTex != nil {
			drawSkinQuads(p, w.skinTex, w.background, p.Scissor.Current())
		}
	}
}

func (w *Window) handleControl(stage Stage, p *RenderParams) {
	if stage != StageOnRendering {
		return
	}
	off := viewportOffset(p.Viewport)
	current := p.Scissor.Current()
	if w.skinTex != nil {
		bound := w.bound.Offset(off.X, off.Y).image().Intersect(current)
		drawSkinQuads(p, w.skinTex, w.controls, bound)
	}
	inner := w.innerClip(p.Viewport).Intersect(current)
	if w.skinTex != nil {
		drawSkinQuads(p, w.skinTex, w.cursor, inner)
	}
	if w.contentTex != nil {
		drawSkinQuads(p, w.contentTex, w.content, inner)
	}
}

// prepare rebuilds every quad of both nodes in viewport space.
func (w *Window) prepare() {
	w.background = w.background[:0]
	w.controls = w.controls[:0]
	w.cursor = w.cursor[:0]
	w.content = w.content[:0]
	w.skinTex, w.contentTex = nil, nil

	if w.width <= 4 || w.height <= 4 {
		return
	}
	s := windowskinScale
	w.bound = Rect{w.x, w.y, w.width, w.height}
	w.inner = Rect{w.x + 8*s, w.y + 8*s, w.width - 16*s, w.height - 16*s}

	if !w.windowskin.IsDisposed() {
		w.skinTex = w.windowskin.Texture()
		w.prepareSkin()
	}
	if !w.contents.IsDisposed() {
		w.contentTex = w.contents.Texture()
		c := gpu.Vec4{1, 1, 1, opacityf(w.contentsOpacity)}
		dst := Rect{w.inner.X - w.ox, w.inner.Y - w.oy, w.contents.Width(), w.contents.Height()}
		w.content = appendQuad(w.content, dst, w.contents.Rect(), c)
	}
}

func (w *Window) prepareSkin() {
	s := windowskinScale
	back := gpu.Vec4{1, 1, 1, opacityf(w.opacity) * opacityf(w.backOpacity)}
	frame := gpu.Vec4{1, 1, 1, opacityf(w.opacity)}

	backDst := Rect{w.x + s, w.y + s, w.width - 2*s, w.height - 2*s}
	if w.stretch {
		w.background = appendQuad(w.background, backDst, skinRect(0, 0, 64, 64), back)
	} else {
		w.background = appendTiled(w.background, backDst, skinRect(0, 0, 64, 64), back)
	}
	w.background = appendFrame(w.background, w.bound, 64, frame)

	contentsAlpha := opacityf(w.contentsOpacity)
	if !w.contents.IsDisposed() {
		a := arrowsFor(w.inner.Width, w.inner.Height, w.contents.Width(), w.contents.Height(), w.ox, w.oy)
		w.controls = appendArrows(w.controls, w.bound, a, 72, gpu.Vec4{1, 1, 1, contentsAlpha})
	}
	if w.pause {
		dst := Rect{w.x + (w.width-8*s)/2, w.y + w.height - 8*s, 8 * s, 8 * s}
		w.controls = appendQuad(w.controls, dst, pauseFrame(w.pauseIndex, 80, 32), gpu.Vec4{1, 1, 1, contentsAlpha})
	}
	if !w.cursorRect.Empty() {
		dst := w.cursorRect.Offset(w.inner.X, w.inner.Y)
		c := gpu.Vec4{1, 1, 1, opacityf(w.cursorOpacity) * contentsAlpha}
		w.cursor = appendCursor(w.cursor, dst, skinRect(64, 32, 16, 16), s, c)
	}
}

// innerClip returns the contents area in target pixels.
func (w *Window) innerClip(info ViewportInfo) image.Rectangle {
	off := viewportOffset(info)
	return w.inner.Offset(off.X, off.Y).image()
}
