package canopy

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
)

func spriteIn(t *testing.T, e *Engine, vp *Viewport, w, h int, c color.NRGBA) *Sprite {
	t.Helper()
	s := NewSprite(e, vp)
	require.NoError(t, s.SetBitmap(solidBitmap(t, e, w, h, c)))
	return s
}

func TestViewportClips(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{10, 10, 8, 8}, nil)
	spriteIn(t, e, vp, 30, 30, red)

	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(10, 10))
	assert.Equal(t, red, frame.NRGBAAt(17, 17))
	assert.Equal(t, black, frame.NRGBAAt(18, 18))
	assert.Equal(t, black, frame.NRGBAAt(9, 9))
}

func TestViewportScroll(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{10, 10, 8, 8}, nil)
	s := spriteIn(t, e, vp, 4, 4, red)
	s.SetX(4)
	vp.SetOX(2)
	vp.SetOY(-1)

	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(12, 11))
	assert.Equal(t, black, frame.NRGBAAt(11, 11))
	assert.Equal(t, black, frame.NRGBAAt(12, 10))
}

func TestNestedViewports(t *testing.T) {
	e, _ := newTestEngine(t)
	outer := NewViewport(e, Rect{10, 10, 8, 8}, nil)
	inner := NewViewport(e, Rect{4, 4, 10, 10}, outer)
	spriteIn(t, e, inner, 20, 20, green)

	frame := renderScreen(t, e)
	assert.Equal(t, green, frame.NRGBAAt(14, 14))
	assert.Equal(t, green, frame.NRGBAAt(17, 17))
	assert.Equal(t, black, frame.NRGBAAt(18, 18), "clipped by the outer viewport")
	assert.Equal(t, black, frame.NRGBAAt(13, 13))

	outer.SetOX(4)
	frame = renderScreen(t, e)
	assert.Equal(t, green, frame.NRGBAAt(10, 14), "the parent scroll moves the child")
	assert.Equal(t, black, frame.NRGBAAt(10, 13))
}

func TestViewportOffscreenIsSkipped(t *testing.T) {
	e, rec := newTestEngine(t)
	vp := NewViewport(e, Rect{100, 100, 8, 8}, nil)
	spriteIn(t, e, vp, 4, 4, red)
	vp.SetColor(Color{1, 1, 1, 1})

	rec.Reset()
	renderScreen(t, e)
	assert.Empty(t, spriteDraws(rec))
	assert.Equal(t, 0, rec.Count(gpu.CallCopy))
	assert.Equal(t, 0, e.layers.Live())
}

func TestViewportColorEffect(t *testing.T) {
	e, rec := newTestEngine(t)
	vp := NewViewport(e, Rect{0, 0, 8, 8}, nil)
	spriteIn(t, e, vp, 8, 8, red)
	outside := spriteIn(t, e, nil, 4, 4, red)
	outside.SetX(20)
	vp.SetColor(Color{0, 0, 1, 1})

	rec.Reset()
	frame := renderScreen(t, e)
	assert.Equal(t, blue, frame.NRGBAAt(3, 3))
	assert.Equal(t, red, frame.NRGBAAt(21, 1), "the effect stays inside the viewport")
	assert.Equal(t, 1, rec.Count(gpu.CallCopy))

	vp.SetColor(Color{})
	rec.Reset()
	frame = renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(3, 3))
	assert.Equal(t, 0, rec.Count(gpu.CallCopy), "no effect pass without color or tone")
}

func TestViewportTone(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{0, 0, 8, 8}, nil)
	spriteIn(t, e, vp, 8, 8, red)
	vp.SetTone(Tone{R: -1, B: 1})
	assert.Equal(t, blue, renderScreen(t, e).NRGBAAt(1, 1))
}

func TestViewportFlash(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{0, 0, 8, 8}, nil)
	spriteIn(t, e, vp, 8, 8, red)

	white := ColorWhite
	vp.Flash(&white, 2)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, renderScreen(t, e).NRGBAAt(1, 1))
	vp.Update()
	vp.Update()
	vp.Update()
	assert.Equal(t, red, renderScreen(t, e).NRGBAAt(1, 1))

	vp.Flash(nil, 1)
	assert.Equal(t, black, renderScreen(t, e).NRGBAAt(1, 1), "a colorless flash hides the viewport")
	vp.Update()
	vp.Update()
	assert.Equal(t, red, renderScreen(t, e).NRGBAAt(1, 1))
}

func TestViewportRenderToBitmap(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{30, 30, 6, 6}, nil)
	s := spriteIn(t, e, vp, 2, 2, green)
	s.SetX(3)
	vp.SetOX(1)

	target := solidBitmap(t, e, 4, 4, red)
	require.NoError(t, vp.Render(target, true))
	assert.Equal(t, green, texturePixel(target, 2, 0))
	assert.Equal(t, green, texturePixel(target, 3, 1))
	assert.Equal(t, color.NRGBA{}, texturePixel(target, 0, 0), "cleared")

	keep := solidBitmap(t, e, 4, 4, red)
	require.NoError(t, vp.Render(keep, false))
	assert.Equal(t, red, texturePixel(keep, 0, 0))
	assert.Equal(t, green, texturePixel(keep, 2, 0))

	target.Dispose()
	assert.ErrorIs(t, vp.Render(target, true), ErrDisposed)
}

func TestViewportDispose(t *testing.T) {
	e, rec := newTestEngine(t)
	vp := NewViewport(e, Rect{0, 0, 8, 8}, nil)
	s := spriteIn(t, e, vp, 4, 4, red)
	vp.SetColor(Color{0, 0, 0, 0.5})
	renderScreen(t, e)
	require.Equal(t, 1, e.layers.Live())

	vp.Dispose()
	vp.Dispose()
	assert.True(t, vp.IsDisposed())
	assert.Equal(t, Rect{}, vp.Rect())
	assert.Equal(t, 0, e.layers.Live(), "the effect layer is returned to the pool")
	assert.ErrorIs(t, vp.Render(solidBitmap(t, e, 2, 2, red), false), ErrDisposed)

	rec.Reset()
	renderScreen(t, e)
	assert.Empty(t, spriteDraws(rec), "children of a disposed viewport are detached")
	assert.ErrorIs(t, s.SetViewport(vp), ErrDisposed)
	require.NoError(t, s.SetViewport(nil))
	rec.Reset()
	renderScreen(t, e)
	assert.Len(t, spriteDraws(rec), 1)
}
