package canopy

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
)

func planeDraw(t *testing.T, rec *gpu.Recorder) gpu.Call {
	t.Helper()
	var out []gpu.Call
	for _, c := range rec.Draws() {
		if c.Pipeline == gpu.PipelineFlat {
			out = append(out, c)
		}
	}
	require.Len(t, out, 1)
	return out[0]
}

func TestPlaneTilesTheScreen(t *testing.T) {
	e, rec := newTestEngine(t)
	p := NewPlane(e, nil)
	require.NoError(t, p.SetBitmap(stripeBitmap(t, e, 4, 4, red, blue)))

	rec.Reset()
	frame := renderScreen(t, e)
	assert.Equal(t, 16*12, planeDraw(t, rec).Quads)

	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "red"},
		{2, 0, "blue"},
		{4, 5, "red"},
		{63, 47, "blue"},
	}
	colors := map[string]color.NRGBA{"red": red, "blue": blue}
	for _, tt := range tests {
		if got := frame.NRGBAAt(tt.x, tt.y); got != colors[tt.want] {
			t.Errorf("pixel (%d, %d) = %v, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPlaneScrollWraps(t *testing.T) {
	tests := []struct {
		name  string
		ox    int
		at0   bool // pixel 0 is red
		at1   bool
		quads int
	}{
		{"one right", 1, true, false, 17 * 12},
		{"one left", -1, false, true, 17 * 12},
		{"a full tile", 4, true, true, 16 * 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t)
			p := NewPlane(e, nil)
			p.SetBitmap(stripeBitmap(t, e, 4, 4, red, blue))
			p.SetOX(tt.ox)

			rec.Reset()
			frame := renderScreen(t, e)
			assert.Equal(t, tt.quads, planeDraw(t, rec).Quads)
			assert.Equal(t, tt.at0, frame.NRGBAAt(0, 0) == red)
			assert.Equal(t, tt.at1, frame.NRGBAAt(1, 0) == red)
		})
	}
}

func TestPlaneZoom(t *testing.T) {
	e, _ := newTestEngine(t)
	p := NewPlane(e, nil)
	p.SetBitmap(stripeBitmap(t, e, 4, 4, red, blue))
	p.SetZoomX(2)
	p.SetZoomY(0.5)

	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(3, 0))
	assert.Equal(t, blue, frame.NRGBAAt(4, 0))
	assert.Equal(t, red, frame.NRGBAAt(8, 3))
}

func TestPlaneInViewport(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{8, 8, 8, 8}, nil)
	p := NewPlane(e, vp)
	p.SetBitmap(solidBitmap(t, e, 3, 3, green))

	frame := renderScreen(t, e)
	assert.Equal(t, green, frame.NRGBAAt(8, 8))
	assert.Equal(t, green, frame.NRGBAAt(15, 15))
	assert.Equal(t, black, frame.NRGBAAt(7, 8))
	assert.Equal(t, black, frame.NRGBAAt(16, 16))
}

func TestPlaneColorAndOpacity(t *testing.T) {
	e, rec := newTestEngine(t)
	p := NewPlane(e, nil)
	p.SetBitmap(solidBitmap(t, e, 2, 2, red))
	p.SetColor(Color{0, 1, 0, 1})
	assert.Equal(t, green, renderScreen(t, e).NRGBAAt(5, 5))

	p.SetColor(Color{})
	p.SetOpacity(0)
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawQuads), "only the clear is drawn")

	p.SetOpacity(400)
	assert.Equal(t, 255, p.Opacity())
}

func TestPlaneWithoutBitmap(t *testing.T) {
	e, rec := newTestEngine(t)
	p := NewPlane(e, nil)
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawQuads))

	bmp := solidBitmap(t, e, 2, 2, red)
	p.SetBitmap(bmp)
	bmp.Dispose()
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawQuads))

	p.Dispose()
	assert.True(t, p.IsDisposed())
	assert.ErrorIs(t, p.SetBitmap(bmp), ErrDisposed)
}
