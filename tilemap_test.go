package canopy

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
)

const testTile = 16

// tilesetColors are the colors of tileset tiles 0..3.
var tilesetColors = []color.NRGBA{red, blue, green, {255, 255, 0, 255}}

// newTestTileset returns an 8x1 tile tileset whose first tiles follow
// tilesetColors; the rest are transparent.
func newTestTileset(t *testing.T, e *Engine) *Bitmap {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8*testTile, testTile))
	for i, c := range tilesetColors {
		for y := 0; y < testTile; y++ {
			for x := i * testTile; x < (i+1)*testTile; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	b, err := BitmapFromImage(e, img)
	require.NoError(t, err)
	return b
}

// filledMap returns an x*y*1 table filled with id.
func filledMap(x, y int, id int16) *Table {
	tb := NewTable(x, y, 1)
	for j := 0; j < y; j++ {
		for i := 0; i < x; i++ {
			tb.Set(i, j, 0, id)
		}
	}
	return tb
}

func newTestTilemap(t *testing.T, e *Engine, data *Table) *Tilemap {
	t.Helper()
	tm := NewTilemap(e, nil, testTile)
	require.NoError(t, tm.SetTileset(newTestTileset(t, e)))
	tm.SetMapData(data)
	return tm
}

func groundDraw(t *testing.T, rec *gpu.Recorder) gpu.Call {
	t.Helper()
	for _, c := range rec.Draws() {
		if c.Pipeline == gpu.PipelineBase {
			return c
		}
	}
	t.Fatal("no tile draw recorded")
	return gpu.Call{}
}

func TestNewTilemapTileSize(t *testing.T) {
	e, _ := newTestEngine(t)
	tests := []struct{ in, want int }{
		{0, 32},
		{8, 16},
		{24, 24},
	}
	for _, tt := range tests {
		if got := NewTilemap(e, nil, tt.in).TileSize(); got != tt.want {
			t.Errorf("NewTilemap(%d).TileSize() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTilemapGround(t *testing.T) {
	e, _ := newTestEngine(t)
	data := filledMap(4, 3, 384)
	data.Set(1, 0, 0, 385)
	newTestTilemap(t, e, data)

	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(0, 0))
	assert.Equal(t, blue, frame.NRGBAAt(16, 0))
	assert.Equal(t, blue, frame.NRGBAAt(31, 15))
	assert.Equal(t, red, frame.NRGBAAt(32, 0))
	assert.Equal(t, red, frame.NRGBAAt(63, 47))
}

func TestTilemapScrollAndRepeat(t *testing.T) {
	e, _ := newTestEngine(t)
	data := filledMap(4, 3, 384)
	data.Set(1, 0, 0, 385)
	tm := newTestTilemap(t, e, data)

	tm.SetOX(16)
	assert.Equal(t, blue, renderScreen(t, e).NRGBAAt(0, 0))

	tm.SetOX(-8)
	frame := renderScreen(t, e)
	assert.Equal(t, blue, frame.NRGBAAt(24, 0))
	assert.Equal(t, red, frame.NRGBAAt(0, 0), "map column -1 wraps to column 3")

	tm.SetRepeatX(false)
	frame = renderScreen(t, e)
	assert.Equal(t, black, frame.NRGBAAt(0, 0))
	assert.Equal(t, red, frame.NRGBAAt(8, 0))
}

func TestTilemapMapDataObserved(t *testing.T) {
	e, _ := newTestEngine(t)
	data := filledMap(4, 3, 384)
	newTestTilemap(t, e, data)
	assert.Equal(t, red, renderScreen(t, e).NRGBAAt(2, 2))

	data.Set(0, 0, 0, 386)
	assert.Equal(t, green, renderScreen(t, e).NRGBAAt(2, 2))

	data.Set(0, 0, 0, 0)
	assert.Equal(t, black, renderScreen(t, e).NRGBAAt(2, 2), "ids below 48 are empty")
}

func TestTilemapTilesetObserved(t *testing.T) {
	e, rec := newTestEngine(t)
	tm := newTestTilemap(t, e, filledMap(4, 3, 384))
	renderScreen(t, e)

	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 0, rec.Count(gpu.CallNewTexture), "the atlas is cached")

	tm.Tileset().FillRect(Rect{0, 0, 16, 16}, RGBA8(0, 255, 0, 255))
	rec.Reset()
	frame := renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallNewTexture), "the atlas is rebuilt")
	assert.Equal(t, green, frame.NRGBAAt(5, 5))
}

func TestTilemapPriorities(t *testing.T) {
	e, _ := newTestEngine(t)
	data := filledMap(4, 3, 384)
	data.Set(1, 0, 0, 385)
	tm := newTestTilemap(t, e, data)
	prio := NewTable(400, 1, 1)
	prio.Set(385, 0, 0, 1)
	tm.SetPriorities(prio)

	sp := NewSprite(e, nil)
	sp.SetBitmap(solidBitmap(t, e, 40, 8, green))
	sp.SetZ(20)

	frame := renderScreen(t, e)
	assert.Equal(t, 10, tm.AboveLayerCount())
	assert.Equal(t, green, frame.NRGBAAt(4, 4), "the sprite covers ground tiles")
	assert.Equal(t, blue, frame.NRGBAAt(20, 4), "priority tiles cover the sprite")

	sp.SetZ(40)
	assert.Equal(t, green, renderScreen(t, e).NRGBAAt(20, 4))

	prio.Set(385, 0, 0, 6)
	frame = renderScreen(t, e)
	assert.Equal(t, black, frame.NRGBAAt(20, 12), "priorities above 5 hide the tile")
}

func TestTilemapFlashData(t *testing.T) {
	e, _ := newTestEngine(t)
	tm := newTestTilemap(t, e, filledMap(4, 3, 384))
	flash := NewTable(4, 3, 1)
	flash.Set(0, 0, 0, 0x00F)
	tm.SetFlashData(flash)
	assert.Equal(t, 160, tm.FlashOpacity())

	frame := renderScreen(t, e)
	c := frame.NRGBAAt(4, 4)
	assert.Greater(t, c.B, c.R)
	assert.Equal(t, red, frame.NRGBAAt(20, 4))

	tm.Update()
	assert.Equal(t, 152, tm.FlashOpacity())
	for i := 0; i < 15; i++ {
		tm.Update()
	}
	assert.Equal(t, 32, tm.FlashOpacity())
}

func TestTilemapSingleAutotileAnimates(t *testing.T) {
	e, _ := newTestEngine(t)
	auto := stripeBitmap(t, e, 2*testTile, testTile, green, blue)
	tm := newTestTilemap(t, e, filledMap(4, 3, 48))
	require.NoError(t, tm.SetAutotile(0, auto))

	assert.Equal(t, green, renderScreen(t, e).NRGBAAt(3, 3))
	for i := 0; i < 16; i++ {
		tm.Update()
	}
	assert.Equal(t, blue, renderScreen(t, e).NRGBAAt(3, 3))
	for i := 0; i < 16; i++ {
		tm.Update()
	}
	assert.Equal(t, green, renderScreen(t, e).NRGBAAt(3, 3))
}

func TestTilemapCommonAutotile(t *testing.T) {
	e, rec := newTestEngine(t)
	auto := solidBitmap(t, e, 3*testTile, 4*testTile, green)
	tm := newTestTilemap(t, e, filledMap(1, 1, 48))
	tm.SetRepeatX(false)
	tm.SetRepeatY(false)
	require.NoError(t, tm.SetAutotile(2, auto))
	tm.MapData().Set(0, 0, 0, 48*3+5)

	rec.Reset()
	frame := renderScreen(t, e)
	assert.Equal(t, 4, groundDraw(t, rec).Quads, "four quarter tiles")
	assert.Equal(t, green, frame.NRGBAAt(8, 8))
	assert.Equal(t, black, frame.NRGBAAt(20, 8))
}

func TestTilemapSetAutotile(t *testing.T) {
	e, _ := newTestEngine(t)
	tm := NewTilemap(e, nil, testTile)
	assert.ErrorIs(t, tm.SetAutotile(AutotileCount, nil), ErrOutOfRange)
	_, err := tm.Autotile(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	odd := solidBitmap(t, e, 48, 20, red)
	assert.Panics(t, func() { tm.SetAutotile(1, odd) })

	b := solidBitmap(t, e, 48, 64, red)
	require.NoError(t, tm.SetAutotile(1, b))
	got, _ := tm.Autotile(1)
	assert.Same(t, b, got)
}

func TestTilemapVisibilityAndViewport(t *testing.T) {
	e, rec := newTestEngine(t)
	tm := newTestTilemap(t, e, filledMap(4, 3, 384))
	renderScreen(t, e)

	tm.SetVisible(false)
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawQuads), "only the clear")

	tm.SetVisible(true)
	vp := NewViewport(e, Rect{8, 8, 16, 16}, nil)
	require.NoError(t, tm.SetViewport(vp))
	assert.Equal(t, 1, e.Screen().Root().Len())
	frame := renderScreen(t, e)
	assert.Equal(t, red, frame.NRGBAAt(8, 8))
	assert.Equal(t, black, frame.NRGBAAt(7, 7))
	assert.Equal(t, black, frame.NRGBAAt(24, 24))
}

func TestTilemapDispose(t *testing.T) {
	e, rec := newTestEngine(t)
	data := filledMap(4, 3, 384)
	tm := newTestTilemap(t, e, data)
	renderScreen(t, e)
	require.Positive(t, tm.AboveLayerCount())

	tileset := tm.Tileset()
	tm.Dispose()
	tm.Dispose()
	assert.Equal(t, 0, tm.AboveLayerCount())
	assert.Equal(t, 0, e.Screen().Root().Len())
	assert.False(t, tileset.IsDisposed())
	assert.Nil(t, tm.MapData())
	assert.ErrorIs(t, tm.SetTileset(tileset), ErrDisposed)

	data.Set(0, 0, 0, 385) // observers are gone
	rec.Reset()
	renderScreen(t, e)
	assert.Equal(t, 1, rec.Count(gpu.CallDrawQuads))
}

func TestFloorHelpers(t *testing.T) {
	tests := []struct {
		a, b     int
		div, mod int
		ceilWant int
	}{
		{7, 4, 1, 3, 2},
		{-1, 4, -1, 3, 0},
		{-8, 4, -2, 0, -1},
		{0, 4, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := floorMod(tt.a, tt.b); got != tt.mod {
			t.Errorf("floorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
		if got := ceilDiv(tt.a, tt.b); got != tt.ceilWant {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.ceilWant)
		}
	}
	assert.Equal(t, 12, lcm(4, 6))
}
