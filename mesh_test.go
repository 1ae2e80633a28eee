package canopy

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
)

func quadMesh(x, y, w, h float32, uw, vh float32) ([]gpu.Vertex, []uint32) {
	verts := []gpu.Vertex{
		{X: x, Y: y, U: 0, V: 0, R: 1, G: 1, B: 1, A: 1},
		{X: x + w, Y: y, U: uw, V: 0, R: 1, G: 1, B: 1, A: 1},
		{X: x + w, Y: y + h, U: uw, V: vh, R: 1, G: 1, B: 1, A: 1},
		{X: x, Y: y + h, U: 0, V: vh, R: 1, G: 1, B: 1, A: 1},
	}
	return verts, []uint32{0, 1, 2, 0, 2, 3}
}

func TestMeshDefaults(t *testing.T) {
	e, _ := newTestEngine(t)
	m := NewMesh(e, nil, nil, nil, nil)
	assert.Equal(t, ColorWhite, m.Tint())
	assert.Equal(t, BlendNormal, m.BlendType())
	assert.True(t, m.Visible())
	assert.Nil(t, m.Texture())
}

func TestMeshDrawsTexturedTriangles(t *testing.T) {
	e, rec := newTestEngine(t)
	bmp := solidBitmap(t, e, 4, 4, blue)
	verts, inds := quadMesh(10, 10, 8, 8, 4, 4)
	NewMesh(e, nil, bmp, verts, inds)

	rec.Reset()
	frame := renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawTriangles))
	assert.Equal(t, blue, frame.NRGBAAt(14, 14))
	assert.Equal(t, black, frame.NRGBAAt(9, 9))
}

func TestMeshTint(t *testing.T) {
	e, _ := newTestEngine(t)
	bmp := solidBitmap(t, e, 2, 2, color.NRGBA{255, 255, 255, 255})
	verts, inds := quadMesh(0, 0, 4, 4, 2, 2)
	m := NewMesh(e, nil, bmp, verts, inds)
	m.SetTint(RGBA8(255, 0, 0, 255))

	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(1, 1))
	assert.Equal(t, float32(1), m.Vertices()[0].G, "tint must not modify the source vertices")
}

func TestTintVertices(t *testing.T) {
	src := []gpu.Vertex{{R: 1, G: 0.5, B: 1, A: 1}}
	got := tintVertices(nil, src, ColorWhite)
	assert.Equal(t, src, got)

	got = tintVertices(got[:0], src, Color{0.5, 1, 0, 0.5})
	require.Len(t, got, 1)
	assert.Equal(t, gpu.Vertex{R: 0.5, G: 0.5, B: 0, A: 0.5}, got[0])
}

func TestMeshSkipsShortIndexLists(t *testing.T) {
	e, rec := newTestEngine(t)
	verts, _ := quadMesh(0, 0, 4, 4, 1, 1)
	NewMesh(e, nil, nil, verts, []uint32{0, 1})
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 0, rec.Count(gpu.CallDrawTriangles))
}

func TestMeshDisposedTextureNotDrawn(t *testing.T) {
	e, rec := newTestEngine(t)
	bmp := solidBitmap(t, e, 2, 2, red)
	verts, inds := quadMesh(0, 0, 4, 4, 2, 2)
	NewMesh(e, nil, bmp, verts, inds)
	bmp.Dispose()
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 0, rec.Count(gpu.CallDrawTriangles))
}

func TestMeshDispose(t *testing.T) {
	e, _ := newTestEngine(t)
	verts, inds := quadMesh(0, 0, 4, 4, 1, 1)
	m := NewMesh(e, nil, nil, verts, inds)
	m.Dispose()
	m.Dispose()
	assert.True(t, m.IsDisposed())
	assert.Nil(t, m.Vertices())
	assert.Equal(t, 0, e.Screen().Root().Len())
	assert.ErrorIs(t, m.SetTexture(nil), ErrDisposed)
}

func TestMeshInViewportIsClipped(t *testing.T) {
	e, _ := newTestEngine(t)
	vp := NewViewport(e, Rect{0, 0, 8, 8}, nil)
	NewPolygon(e, vp, []Point{{0, 0}, {20, 0}, {20, 20}, {0, 20}}, RGBA8(255, 0, 0, 255))
	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(7, 7))
	assert.Equal(t, black, frame.NRGBAAt(8, 8))
}
