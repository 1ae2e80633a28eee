package canopy

import (
	"github.com/phanxgames/canopy/gpu"
)

// Engine owns every resource shared by the drawables of one game: the node
// arena, the canvas scheduler, the sprite batch, the intermediate layer pool,
// fonts, the image loader and the screen.
//
// An Engine is not safe for concurrent use. All calls must come from the
// goroutine that renders.
type Engine struct {
	cfg       Config
	dev       gpu.Device
	arena     *Arena
	scheduler *CanvasScheduler
	batch     *SpriteBatch
	layers    *layerPool
	fonts     *fontCache
	loader    *imageLoader
	screen    *Screen
	stats     debugStats
	closed    bool
}

// NewEngine creates an engine drawing on dev. Zero fields of cfg are filled
// from DefaultConfig.
func NewEngine(dev gpu.Device, cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:       cfg,
		dev:       dev,
		arena:     NewArena(),
		scheduler: newCanvasScheduler(),
		batch:     NewSpriteBatch(dev),
		layers:    newLayerPool(dev),
	}
	e.batch.SetEnabled(!cfg.DisableBatching)
	e.loader = newImageLoader(cfg)
	e.fonts = newFontCache(e.loader.fsys)

	screen, err := newScreen(e)
	if err != nil {
		return nil, opError("new engine", err)
	}
	e.screen = screen
	Logger().Info("engine started",
		"width", cfg.Width, "height", cfg.Height,
		"frame_rate", cfg.FrameRate, "api_version", cfg.APIVersion)
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Device returns the graphics device.
func (e *Engine) Device() gpu.Device { return e.dev }

// Screen returns the root orchestrator.
func (e *Engine) Screen() *Screen { return e.screen }

// Arena returns the node arena.
func (e *Engine) Arena() *Arena { return e.arena }

// Scheduler returns the canvas scheduler.
func (e *Engine) Scheduler() *CanvasScheduler { return e.scheduler }

// Batch returns the sprite batch.
func (e *Engine) Batch() *SpriteBatch { return e.batch }

// Close releases every GPU resource the engine still owns. Drawables created
// from the engine must not be used afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.screen.close()
	e.fonts.close()
	e.layers.close()
	e.scheduler.disposeAll()
}

func (e *Engine) maxTextureSize() int {
	limit := e.dev.MaxTextureSize()
	if e.cfg.MaxTextureSize > 0 && e.cfg.MaxTextureSize < limit {
		limit = e.cfg.MaxTextureSize
	}
	return limit
}

// newController returns a controller that honours the engine's debug
// setting.
func (e *Engine) newController() *DrawNodeController {
	c := NewDrawNodeController(e.arena)
	c.debug = e.cfg.Debug
	return c
}

// controllerFor returns the controller a drawable in parent belongs to.
func (e *Engine) controllerFor(parent *Viewport) *DrawNodeController {
	if parent != nil && !parent.IsDisposed() {
		return parent.children
	}
	return e.screen.root
}
