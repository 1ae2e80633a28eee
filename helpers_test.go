package canopy

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
	"github.com/phanxgames/canopy/gpu/soft"
)

// fakeClock drives a FrameLimiter without sleeping.
type fakeClock struct {
	now    time.Time
	slept  time.Duration
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
	c.sleeps++
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// newTestEngine returns a 64x48 engine on a recorded software device with a
// fake frame clock.
func newTestEngine(t testing.TB) (*Engine, *gpu.Recorder) {
	t.Helper()
	return newTestEngineConfig(t, Config{Width: 64, Height: 48})
}

func newTestEngineConfig(t testing.TB, cfg Config) (*Engine, *gpu.Recorder) {
	t.Helper()
	rec := gpu.NewRecorder(soft.New(0))
	e, err := NewEngine(rec, cfg)
	require.NoError(t, err)
	clk := newFakeClock()
	e.Screen().Limiter().SetClock(clk.Now, clk.Sleep)
	t.Cleanup(e.Close)
	return e, rec
}

// solidBitmap returns a w x h bitmap filled with c, already flushed.
func solidBitmap(t testing.TB, e *Engine, w, h int, c color.NRGBA) *Bitmap {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	b, err := BitmapFromImage(e, img)
	require.NoError(t, err)
	return b
}

// renderScreen renders one frame and returns it as an image.
func renderScreen(t testing.TB, e *Engine) *image.NRGBA {
	t.Helper()
	var frame *image.NRGBA
	e.Screen().SetPresentHandler(func(tex gpu.Texture) { frame = gpu.ReadImage(tex) })
	e.Screen().Update()
	require.NotNil(t, frame)
	return frame
}

// recordingNode creates a node in c whose handler appends label to log.
func recordingNode(a *Arena, c *DrawNodeController, label string, log *[]string) DrawableNode {
	n := a.NewNode(c)
	n.SetDebugLabel(label)
	n.RegisterEventHandler(func(Stage, *RenderParams) {
		*log = append(*log, label)
	})
	return n
}

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)
