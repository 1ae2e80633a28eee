// Package canopy is the content and rendering runtime of a 2D tile-and-sprite
// game engine in the RGSS tradition.
//
// An [Engine] owns a GPU device, a [Screen] and the shared resources every
// drawable needs. The device is any [gpu.Device]: package gpu/soft rasterizes on
// the CPU and backs the tests, package gpu/ebitengpu draws through Ebitengine.
//
// # Quick start
//
// The simplest way to open a window is ebitengpu.Run, which creates the
// engine and calls your update function once per tick:
//
//	cfg := canopy.Config{Width: 640, Height: 480}
//	ebitengpu.Run("My Game", cfg, func(e *canopy.Engine) error {
//		// ... move things ...
//		e.Screen().Update()
//		return nil
//	})
//
// For headless use, build the engine on a device directly:
//
//	e, err := canopy.NewEngine(soft.New(0), canopy.DefaultConfig())
//
// # Bitmaps
//
// A [Bitmap] is a GPU texture with a deferred paint queue and a CPU pixel
// cache. Drawing calls such as [Bitmap.FillRect], [Bitmap.Blt] and
// [Bitmap.DrawText] are queued and flushed before the next frame or the next
// pixel read. [LoadBitmap] decodes PNG, JPEG, BMP and WebP files.
//
// # Drawables
//
// Every visible object is a node in a z-ordered list keyed by a [SortKey].
// The typed drawables are [Sprite], [Plane], [Tilemap], [Window], [Window2],
// [Mesh] and [Drawable] (a custom render callback). A [Viewport] clips and
// scrolls the drawables created inside it and tints them as a group.
//
//	bmp, _ := canopy.LoadBitmap(e, "Graphics/hero.png")
//	s := canopy.NewSprite(e, nil)
//	s.SetBitmap(bmp)
//	s.SetX(100)
//	s.SetZ(10)
//
// Adjacent sprites that share a texture and render state are merged into one
// draw call unless [Config.DisableBatching] is set.
//
// # Screen
//
// [Screen.Update] flushes pending bitmap work, renders every node, presents
// the frame and waits for the next frame period. Freeze and
// [Screen.Transition] fade between two frames, optionally through a
// grayscale mapping bitmap.
//
// # Configuration and logging
//
// [LoadConfig] reads TOML or YAML. The package logs through [log/slog] and is
// silent until [SetLogger] is called; per-frame timings are logged at debug
// level when [Config.Debug] is set.
//
// # ECS
//
// The separate github.com/phanxgames/canopy/ecs module ties Donburi entities
// to sprites.
package canopy
