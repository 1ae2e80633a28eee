package canopy

import (
	"fmt"
	"image"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/canopy/gpu"
)

// Screen is the root of the scene: it owns the root controller, the frame
// buffers and the frame loop operations (update, fades, freeze and
// transitions).
type Screen struct {
	e    *Engine
	root *DrawNodeController

	width, height int
	ox, oy        int
	brightness    int
	frameCount    int
	frozen        bool

	screenBuf     gpu.Texture
	frozenBuf     gpu.Texture
	transitionBuf gpu.Texture

	limiter *FrameLimiter
	present func(gpu.Texture)

	screenshotQueue []string
	lastScreenshot  string
}

func newScreen(e *Engine) (*Screen, error) {
	s := &Screen{
		e:          e,
		root:       e.newController(),
		brightness: 255,
		limiter:    NewFrameLimiter(e.cfg.FrameRate, e.cfg.AllowFrameSkip),
	}
	if err := s.allocate(e.cfg.Width, e.cfg.Height); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Screen) allocate(w, h int) error {
	var bufs [3]gpu.Texture
	for i := range bufs {
		tex, err := s.e.dev.NewTexture(w, h)
		if err != nil {
			for _, t := range bufs[:i] {
				t.Dispose()
			}
			return fmt.Errorf("screen buffer %dx%d: %w", w, h, err)
		}
		bufs[i] = tex
	}
	s.releaseBuffers()
	s.screenBuf, s.frozenBuf, s.transitionBuf = bufs[0], bufs[1], bufs[2]
	s.width, s.height = w, h
	return nil
}

func (s *Screen) releaseBuffers() {
	for _, t := range []gpu.Texture{s.screenBuf, s.frozenBuf, s.transitionBuf} {
		if t != nil {
			t.Dispose()
		}
	}
}

func (s *Screen) close() {
	s.root.Close()
	s.releaseBuffers()
	s.screenBuf, s.frozenBuf, s.transitionBuf = nil, nil, nil
}

// Root returns the controller of drawables created without a viewport.
func (s *Screen) Root() *DrawNodeController { return s.root }

// Limiter returns the frame limiter.
func (s *Screen) Limiter() *FrameLimiter { return s.limiter }

// SetPresentHandler installs the function that receives every finished
// frame. The texture is owned by the screen and only valid during the call.
func (s *Screen) SetPresentHandler(fn func(gpu.Texture)) { s.present = fn }

// Width returns the resolution width.
func (s *Screen) Width() int { return s.width }

// Height returns the resolution height.
func (s *Screen) Height() int { return s.height }

// OX returns the horizontal scroll of the root.
func (s *Screen) OX() int { return s.ox }

// OY returns the vertical scroll of the root.
func (s *Screen) OY() int { return s.oy }

// SetOX sets the horizontal scroll of the root.
func (s *Screen) SetOX(v int) { s.ox = v }

// SetOY sets the vertical scroll of the root.
func (s *Screen) SetOY(v int) { s.oy = v }

// Brightness returns the brightness, 0 (black) to 255.
func (s *Screen) Brightness() int { return s.brightness }

// SetBrightness sets the brightness, clamped to 0..255.
func (s *Screen) SetBrightness(v int) { s.brightness = clampInt(v, 0, 255) }

// FrameRate returns the target frame rate.
func (s *Screen) FrameRate() int {
	if p := s.limiter.Period(); p > 0 {
		return int(time.Second / p)
	}
	return 0
}

// SetFrameRate sets the target frame rate.
func (s *Screen) SetFrameRate(rate int) { s.limiter.SetFrameRate(rate) }

// FrameCount returns the number of processed frames.
func (s *Screen) FrameCount() int { return s.frameCount }

// SetFrameCount overwrites the frame counter.
func (s *Screen) SetFrameCount(n int) { s.frameCount = n }

// IsFrozen reports whether Freeze has captured a frame not yet released by
// a transition.
func (s *Screen) IsFrozen() bool { return s.frozen }

// Update renders a frame unless the screen is frozen or behind schedule,
// then presents it.
func (s *Screen) Update() {
	if s.frozen {
		s.frameProcess(s.frozenBuf)
		return
	}
	if s.limiter.RequireFrameSkip() {
		s.limiter.Reset()
	} else {
		s.renderFrame(s.screenBuf)
	}
	s.frameProcess(s.screenBuf)
}

// Wait runs n updates.
func (s *Screen) Wait(n int) {
	for i := 0; i < n; i++ {
		s.Update()
	}
}

// FrameReset restarts frame pacing, e.g. after a long load.
func (s *Screen) FrameReset() { s.limiter.Reset() }

// FadeOut dims the screen to black over duration frames.
func (s *Screen) FadeOut(duration int) { s.fade(0, duration) }

// FadeIn brightens the screen to full over duration frames.
func (s *Screen) FadeIn(duration int) { s.fade(255, duration) }

func (s *Screen) fade(to, duration int) {
	duration = max(duration, 1)
	tw := gween.New(float32(s.brightness), float32(to), float32(duration), ease.Linear)
	for i := 0; i < duration; i++ {
		b, _ := tw.Set(float32(i))
		s.brightness = clampInt(int(b+0.5), 0, 255)
		s.Update()
	}
	s.brightness = to
	s.Update()
}

// Freeze captures the current scene. Until the next transition Update
// presents the captured frame.
func (s *Screen) Freeze() {
	if s.frozen {
		return
	}
	s.renderFrame(s.frozenBuf)
	s.frozen = true
}

// Transition blends from the frozen frame to the current scene over
// duration frames. With a mapping bitmap the blend is a dissolve ordered by
// the mapping's brightness, softened by vague (1..256).
func (s *Screen) Transition(duration int, mapping *Bitmap, vague int) {
	if !s.frozen {
		return
	}
	if duration <= 0 {
		s.frozen = false
		s.Update()
		return
	}
	s.brightness = 255
	v := float32(clampInt(vague, 1, 256)) / 256
	s.renderFrame(s.transitionBuf)

	var mtex gpu.Texture
	if !mapping.IsDisposed() {
		mapping.SubmitQueuedCommands()
		mtex = mapping.tex
	}
	full := Rect{0, 0, s.width, s.height}
	for i := 0; i < duration; i++ {
		progress := float32(i) / float32(duration)
		s.clear(s.screenBuf)
		op := &gpu.QuadOp{
			Target:   s.screenBuf,
			Images:   [3]gpu.Texture{s.frozenBuf, s.transitionBuf, mtex},
			Pipeline: gpu.PipelineAlphaTransition,
			Blend:    gpu.BlendNormal,
			Quads:    []gpu.Quad{gpu.NewQuad(full.rectF(), full.rectF(), gpu.Vec4{1, 1, 1, 1})},
			Effect:   gpu.Effect{Progress: progress, Vague: v},
		}
		if mtex != nil {
			op.Pipeline = gpu.PipelineVagueTransition
		}
		s.e.dev.DrawQuads(op)
		s.frameProcess(s.screenBuf)
	}
	s.frozen = false
}

// SnapToBitmap renders the scene into a new bitmap.
func (s *Screen) SnapToBitmap() (*Bitmap, error) {
	b, err := NewBitmap(s.e, s.width, s.height)
	if err != nil {
		return nil, err
	}
	s.renderFrame(b.tex)
	b.InvalidateSurfaceCache()
	return b, nil
}

// ResizeScreen changes the resolution. The frozen state is dropped.
func (s *Screen) ResizeScreen(w, h int) error {
	if w <= 0 || h <= 0 {
		return opError("resize screen", fmt.Errorf("%dx%d: %w", w, h, ErrInvalidSize))
	}
	if w == s.width && h == s.height {
		return nil
	}
	if err := s.allocate(w, h); err != nil {
		return opError("resize screen", err)
	}
	s.frozen = false
	Logger().Info("screen resized", "width", w, "height", h)
	return nil
}

// Reset restores the RGSS start-up state.
func (s *Screen) Reset() {
	s.frozen = false
	s.limiter.SetFrameRate(defaultFrameRate(s.e.cfg.APIVersion))
	s.brightness = 255
	s.limiter.Reset()
}

// frameProcess counts, paces and presents one frame.
func (s *Screen) frameProcess(frame gpu.Texture) {
	s.frameCount++
	s.limiter.Delay()
	if s.present != nil {
		s.present(frame)
	}
	s.flushScreenshots(frame)
}

func (s *Screen) clear(target gpu.Texture) {
	full := Rect{0, 0, s.width, s.height}
	s.e.dev.DrawQuads(&gpu.QuadOp{
		Target:   target,
		Pipeline: gpu.PipelineColor,
		Blend:    gpu.BlendReplace,
		Quads:    []gpu.Quad{gpu.NewQuad(full.rectF(), gpu.RectF{}, gpu.Vec4{0, 0, 0, 1})},
	})
}

// renderFrame draws the whole scene into target.
func (s *Screen) renderFrame(target gpu.Texture) {
	e := s.e
	var stats debugStats
	t0 := time.Now()

	stats.flushed = e.scheduler.SubmitPendingPaintCommands()
	t1 := time.Now()

	res := Rect{0, 0, s.width, s.height}
	info := ViewportInfo{Bound: res, Origin: Point{s.ox, s.oy}, Clip: res}
	s.root.SetViewportInfo(info)
	p := RenderParams{
		Device:     e.dev,
		Screen:     target,
		ScreenSize: image.Pt(s.width, s.height),
		World:      gpu.Translate(float64(-s.ox), float64(-s.oy)),
		Viewport:   info,
	}
	s.root.BroadcastNotification(StageBeforeRender, &p)
	e.batch.SubmitBatchDataAndResetCache()
	t2 := time.Now()

	s.clear(target)
	p.Scissor = NewScissorStack(res.image())
	s.root.BroadcastNotification(StageOnRendering, &p)

	if s.brightness < 255 {
		e.dev.DrawQuads(&gpu.QuadOp{
			Target:   target,
			Pipeline: gpu.PipelineColor,
			Blend:    gpu.BlendNormal,
			Quads: []gpu.Quad{gpu.NewQuad(res.rectF(), gpu.RectF{},
				gpu.Vec4{0, 0, 0, 1 - float32(s.brightness)/255})},
		})
	}

	if e.cfg.Debug {
		bs := e.batch.Stats()
		stats.flushTime = t1.Sub(t0)
		stats.prepareTime = t2.Sub(t1)
		stats.renderTime = time.Since(t2)
		stats.nodes = e.arena.Len()
		stats.batchCount = bs.Batches
		stats.instanceCount = bs.Instances
		stats.drawCallCount = bs.Draws
		e.debugLog(stats)
	}
}

// Notify delivers StageNotification to every node.
func (s *Screen) Notify() {
	res := Rect{0, 0, s.width, s.height}
	p := RenderParams{
		Device:     s.e.dev,
		ScreenSize: image.Pt(s.width, s.height),
		World:      gpu.Identity,
		Viewport:   ViewportInfo{Bound: res, Origin: Point{s.ox, s.oy}, Clip: res},
	}
	s.root.BroadcastNotification(StageNotification, &p)
}
