package ebitengpu

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/gpu"
)

// UpdateFunc advances the game by one tick. It normally ends with a call to
// Screen.Update. Returning ebiten.Termination stops the loop cleanly.
type UpdateFunc func(e *canopy.Engine) error

// Game hosts an engine inside an Ebitengine game loop. Ebitengine paces the
// ticks at the screen frame rate, so the frame limiter never sleeps.
type Game struct {
	engine *canopy.Engine
	dev    *Device
	update UpdateFunc
	frame  *ebiten.Image
	tps    int
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates an engine on a new Device. A nil update renders one frame
// per tick.
func NewGame(cfg canopy.Config, update UpdateFunc) (*Game, error) {
	dev := New(cfg.MaxTextureSize)
	e, err := canopy.NewEngine(dev, cfg)
	if err != nil {
		return nil, err
	}
	g := &Game{engine: e, dev: dev, update: update}
	s := e.Screen()
	s.Limiter().SetClock(time.Now, func(time.Duration) {})
	s.SetPresentHandler(g.present)
	return g, nil
}

// Engine returns the hosted engine.
func (g *Game) Engine() *canopy.Engine { return g.engine }

// Close closes the engine and frees the device's scratch images.
func (g *Game) Close() {
	g.engine.Close()
	g.dev.Release()
}

func (g *Game) present(tex gpu.Texture) {
	if t, ok := tex.(*Texture); ok {
		g.frame = t.img
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if rate := g.engine.Screen().FrameRate(); rate != g.tps {
		g.tps = rate
		ebiten.SetTPS(rate)
	}
	if g.update == nil {
		g.engine.Screen().Update()
		return nil
	}
	return g.update(g.engine)
}

// Draw implements ebiten.Game. It shows the last presented frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	screen.DrawImage(g.frame, nil)
}

// Layout implements ebiten.Game. The logical screen is the engine
// resolution; Ebitengine scales it to the window.
func (g *Game) Layout(int, int) (int, int) {
	s := g.engine.Screen()
	return s.Width(), s.Height()
}

// Run opens a window titled title and runs the game until update returns
// an error or the window is closed. The engine is closed on return.
func Run(title string, cfg canopy.Config, update UpdateFunc) error {
	g, err := NewGame(cfg, update)
	if err != nil {
		return err
	}
	defer g.Close()

	c := g.engine.Config()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(c.Width, c.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	canopy.Logger().Info("window opened", "title", title, "width", c.Width, "height", c.Height)
	return ebiten.RunGame(g)
}
