package canopy

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/phanxgames/canopy/gpu"
)

// Tilemap2 bitmap slots.
const (
	TileA1 = iota
	TileA2
	TileA3
	TileA4
	TileA5
	TileB
	TileC
	TileD
	TileE

	// Tilemap2BitmapCount is the number of bitmap slots of a Tilemap2.
	Tilemap2BitmapCount
)

// Tile flags read from the flags table.
const (
	TileFlagOverPlayer = 0x10
	TileFlagTable      = 0x80
)

// atlasBlock copies src of a slot bitmap to dst in the atlas, both in tiles.
type atlasBlock struct {
	slot int
	src  Rect
	dst  Point
}

var tilemap2Atlas = []atlasBlock{
	{TileA1, Rect{0, 0, 6, 6}, Point{0, 0}},
	{TileA1, Rect{8, 0, 6, 6}, Point{6, 0}},
	{TileA1, Rect{0, 6, 6, 6}, Point{0, 6}},
	{TileA1, Rect{8, 6, 6, 6}, Point{6, 6}},
	{TileA1, Rect{6, 0, 2, 12}, Point{12, 0}},
	{TileA1, Rect{14, 0, 2, 12}, Point{14, 0}},
	{TileA2, Rect{0, 0, 16, 12}, Point{16, 0}},
	{TileA3, Rect{0, 0, 16, 8}, Point{0, 12}},
	{TileA4, Rect{0, 0, 16, 15}, Point{16, 12}},
	{TileA5, Rect{0, 0, 8, 8}, Point{0, 20}},
	{TileA5, Rect{0, 8, 8, 8}, Point{8, 20}},
	{TileB, Rect{0, 0, 16, 16}, Point{32, 0}},
	{TileC, Rect{0, 0, 16, 16}, Point{48, 0}},
	{TileD, Rect{0, 0, 16, 16}, Point{32, 16}},
	{TileE, Rect{0, 0, 16, 16}, Point{48, 16}},
}

// The atlas is 64x32 tiles; the 16 shadow shapes sit in one row of it.
var (
	tilemap2AtlasSize = Point{64, 32}
	shadowArea        = Rect{16, 27, 16, 1}
)

// Autotile animation frames, one entry per 30 updates.
var (
	vxRegularFrames   = [12]int{0, 1, 2, 1, 0, 1, 2, 1, 0, 1, 2, 1}
	vxWaterfallFrames = [12]int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2}
)

// A1 autotile origins in atlas tiles. A negative X marks a waterfall, whose
// origin comes from vxWaterfallOrigins.
var (
	vxA1Origins = [16]Point{
		{0, 0}, {0, 3}, {12, 0}, {12, 3},
		{6, 0}, {-1, 0}, {6, 3}, {-1, 0},
		{0, 6}, {-1, 0}, {0, 9}, {-1, 0},
		{6, 6}, {-1, 0}, {6, 9}, {-1, 0},
	}
	vxWaterfallOrigins = [6]Point{{14, 0}, {14, 3}, {12, 6}, {12, 9}, {14, 6}, {14, 9}}
	vxA4Rows           = [6]int{0, 3, 5, 8, 10, 13}
)

// Tilemap2 is an RGSS2/3 tilemap built from the A1..E tile sheets. Ground
// tiles draw at z 0 and tiles flagged over-player on the top map layer draw
// at z 200.
//
// Map data is a Table of x*y*4 tile ids: layers 0 and 1 are ground, layer 2
// holds B..E objects and layer 3 holds shadow bits under RGSS3. Id ranges
// follow the editor: B..E below 0x400, A5 from 0x600, A1 from 0x800, A2 from
// 0xB00, A3 from 0x1100 and A4 from 0x1700.
type Tilemap2 struct {
	drawableBase

	above    DrawableNode
	tileSize int
	rgss3    bool

	bitmaps      [Tilemap2BitmapCount]*Bitmap
	bitmapRemove [Tilemap2BitmapCount]func()

	mapData         *Table
	flashData       *Table
	flags           *Table
	mapDataRemove   func()
	flashDataRemove func()
	flagsRemove     func()

	ox, oy           int
	repeatX, repeatY bool

	frameIndex   int
	anim         Point
	flashTimer   int
	flashOpacity int

	atlas       gpu.Texture
	atlasDirty  bool
	bufferDirty bool

	ground     tileLayer
	aboveLayer tileLayer
	window     Rect
	offset     Point
}

// NewTilemap2 creates a tilemap in parent (nil for the screen). tileSize 0
// selects 32. Shadows and table tiles follow RGSS3 rules when the engine's
// APIVersion is 3 and RGSS2 rules otherwise.
func NewTilemap2(e *Engine, parent *Viewport, tileSize int) *Tilemap2 {
	if tileSize <= 0 {
		tileSize = 32
	}
	t := &Tilemap2{
		tileSize:     tileSize,
		rgss3:        e.cfg.APIVersion >= 3,
		repeatX:      true,
		repeatY:      true,
		flashOpacity: 160,
		atlasDirty:   true,
		bufferDirty:  true,
	}
	t.init(e, parent, "tilemap2.ground", t.handleGround)
	t.node.SetNodeSortWeight(0)
	t.above = e.arena.NewNodeWithKey(t.node.Controller(), NewSortKey(200))
	t.above.SetDebugLabel("tilemap2.above")
	t.above.RegisterEventHandler(func(stage Stage, p *RenderParams) {
		if stage == StageOnRendering {
			drawTileLayer(p, t.atlas, &t.aboveLayer, t.offset, t.flashOpacity)
		}
	})
	return t
}

// TileSize returns the tile edge in pixels.
func (t *Tilemap2) TileSize() int { return t.tileSize }

// SetLabel sets the debug label of both layers.
func (t *Tilemap2) SetLabel(label string) {
	if t.disposed {
		return
	}
	t.node.SetDebugLabel(label)
	t.above.SetDebugLabel(label)
}

// Bitmap returns the bitmap in slot i, one of TileA1..TileE.
func (t *Tilemap2) Bitmap(i int) (*Bitmap, error) {
	if i < 0 || i >= Tilemap2BitmapCount {
		return nil, opError("tilemap2 bitmap", fmt.Errorf("index %d: %w", i, ErrOutOfRange))
	}
	return t.bitmaps[i], nil
}

// SetBitmap sets the tile sheet of slot i. The atlas is rebuilt before the
// next frame and whenever the bitmap changes.
func (t *Tilemap2) SetBitmap(i int, b *Bitmap) error {
	if t.disposed {
		return opError("tilemap2 set bitmap", ErrDisposed)
	}
	if i < 0 || i >= Tilemap2BitmapCount {
		return opError("tilemap2 set bitmap", fmt.Errorf("index %d: %w", i, ErrOutOfRange))
	}
	if r := t.bitmapRemove[i]; r != nil {
		r()
		t.bitmapRemove[i] = nil
	}
	t.bitmaps[i] = b
	if !b.IsDisposed() {
		t.bitmapRemove[i] = b.AddObserver(t.invalidateAtlas)
	}
	t.invalidateAtlas()
	return nil
}

// MapData returns the tile id table.
func (t *Tilemap2) MapData() *Table { return t.mapData }

// SetMapData sets the x*y*z tile id table.
func (t *Tilemap2) SetMapData(tb *Table) {
	t.observeTable(&t.mapData, &t.mapDataRemove, tb)
}

// FlashData returns the flash color table.
func (t *Tilemap2) FlashData() *Table { return t.flashData }

// SetFlashData sets the x*y table of 0xRGB flash colors.
func (t *Tilemap2) SetFlashData(tb *Table) {
	t.observeTable(&t.flashData, &t.flashDataRemove, tb)
}

// Flags returns the tile flag table.
func (t *Tilemap2) Flags() *Table { return t.flags }

// SetFlags sets the flag table indexed by tile id. TileFlagOverPlayer lifts
// a layer 2 tile above characters; under RGSS3 TileFlagTable marks A2 table
// tiles.
func (t *Tilemap2) SetFlags(tb *Table) {
	t.observeTable(&t.flags, &t.flagsRemove, tb)
}

// Passages is the RGSS2 name of Flags.
func (t *Tilemap2) Passages() *Table { return t.Flags() }

// SetPassages is the RGSS2 name of SetFlags.
func (t *Tilemap2) SetPassages(tb *Table) { t.SetFlags(tb) }

func (t *Tilemap2) observeTable(field **Table, remove *func(), tb *Table) {
	if t.disposed {
		return
	}
	if *remove != nil {
		(*remove)()
		*remove = nil
	}
	*field = tb
	if tb != nil {
		*remove = tb.AddObserver(t.invalidateBuffer)
	}
	t.invalidateBuffer()
}

// OX returns the horizontal scroll.
func (t *Tilemap2) OX() int { return t.ox }

// OY returns the vertical scroll.
func (t *Tilemap2) OY() int { return t.oy }

// SetOX sets the horizontal scroll.
func (t *Tilemap2) SetOX(v int) { t.ox = v }

// SetOY sets the vertical scroll.
func (t *Tilemap2) SetOY(v int) { t.oy = v }

// RepeatX reports whether the map wraps horizontally.
func (t *Tilemap2) RepeatX() bool { return t.repeatX }

// RepeatY reports whether the map wraps vertically.
func (t *Tilemap2) RepeatY() bool { return t.repeatY }

// SetRepeatX sets horizontal wrapping.
func (t *Tilemap2) SetRepeatX(v bool) {
	if t.repeatX != v {
		t.repeatX = v
		t.invalidateBuffer()
	}
}

// SetRepeatY sets vertical wrapping.
func (t *Tilemap2) SetRepeatY(v bool) {
	if t.repeatY != v {
		t.repeatY = v
		t.invalidateBuffer()
	}
}

// FlashOpacity returns the current flash pulse opacity, 32..160.
func (t *Tilemap2) FlashOpacity() int { return t.flashOpacity }

// Update advances the autotile animation and the flash pulse by one frame.
// Water autotiles change frame every 30 updates.
func (t *Tilemap2) Update() {
	if t.disposed {
		return
	}
	t.frameIndex = (t.frameIndex + 1) % (30 * len(vxRegularFrames))
	f := t.frameIndex / 30
	anim := Point{vxRegularFrames[f] * 2 * t.tileSize, vxWaterfallFrames[f] * t.tileSize}
	if anim != t.anim {
		t.anim = anim
		t.invalidateBuffer()
	}
	t.flashTimer = (t.flashTimer + 1) % 32
	t.flashOpacity = absInt(16-t.flashTimer)*8 + 32
}

// SetVisible shows or hides both layers.
func (t *Tilemap2) SetVisible(v bool) {
	if t.disposed {
		return
	}
	t.drawableBase.SetVisible(v)
	t.above.SetNodeVisibility(visibilityOf(v))
}

// SetViewport moves both layers into v.
func (t *Tilemap2) SetViewport(v *Viewport) error {
	if err := t.drawableBase.SetViewport(v); err != nil {
		return err
	}
	t.above.RebindController(t.e.controllerFor(v))
	return nil
}

// Dispose removes both layers and releases the atlas. Bitmaps and tables
// are not disposed.
func (t *Tilemap2) Dispose() {
	if !t.dispose() {
		return
	}
	t.above.DisposeNode()
	for _, r := range []func(){t.mapDataRemove, t.flashDataRemove, t.flagsRemove} {
		if r != nil {
			r()
		}
	}
	for i, r := range t.bitmapRemove {
		if r != nil {
			r()
		}
		t.bitmapRemove[i], t.bitmaps[i] = nil, nil
	}
	if t.atlas != nil {
		t.atlas.Dispose()
		t.atlas = nil
	}
	t.mapData, t.flashData, t.flags = nil, nil, nil
}

func (t *Tilemap2) invalidateAtlas() {
	t.atlasDirty = true
	t.bufferDirty = true
}

func (t *Tilemap2) invalidateBuffer() { t.bufferDirty = true }

func (t *Tilemap2) handleGround(stage Stage, p *RenderParams) {
	switch stage {
	case StageBeforeRender:
		w, off := tileWindow(t.ox, t.oy, t.tileSize, p.Viewport)
		t.offset = off
		if w != t.window {
			t.window = w
			t.bufferDirty = true
		}
		if t.atlasDirty {
			t.buildAtlas()
			t.atlasDirty = false
		}
		if t.bufferDirty {
			t.buildTiles()
			t.bufferDirty = false
		}
	case StageOnRendering:
		drawTileLayer(p, t.atlas, &t.ground, t.offset, t.flashOpacity)
	}
}

// buildAtlas copies every tile sheet into its atlas block and renders the
// shadow row.
func (t *Tilemap2) buildAtlas() {
	if t.atlas != nil {
		t.atlas.Dispose()
		t.atlas = nil
	}
	ts := t.tileSize
	dev := t.e.dev
	w, h := tilemap2AtlasSize.X*ts, tilemap2AtlasSize.Y*ts
	atlas, err := dev.NewTexture(w, h)
	if err != nil {
		Logger().Warn("tilemap2 atlas unavailable", "width", w, "height", h, "error", err)
		return
	}
	for _, blk := range tilemap2Atlas {
		b := t.bitmaps[blk.slot]
		if b.IsDisposed() {
			continue
		}
		sr := image.Rect(blk.src.X*ts, blk.src.Y*ts, (blk.src.X+blk.src.Width)*ts, (blk.src.Y+blk.src.Height)*ts).
			Intersect(b.Rect().image())
		if sr.Empty() {
			continue
		}
		dev.Copy(atlas, image.Pt(blk.dst.X*ts, blk.dst.Y*ts), b.Texture(), sr)
	}
	shadows, err := gpu.NewTextureFrom(dev, shadowSet(ts))
	if err != nil {
		Logger().Warn("tilemap2 shadow set unavailable", "error", err)
	} else {
		dev.Copy(atlas, image.Pt(shadowArea.X*ts, shadowArea.Y*ts), shadows, image.Rect(0, 0, shadowArea.Width*ts, ts))
		shadows.Dispose()
	}
	t.atlas = atlas
	Logger().Debug("tilemap2 atlas rebuilt", "width", w, "height", h)
}

// shadowSet renders the 16 shadow shapes. Bit 0 shades the left-top quarter,
// bit 1 the right-top, bit 2 the left-bottom and bit 3 the right-bottom.
func shadowSet(ts int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16*ts, ts))
	shade := image.NewUniform(color.NRGBA{0, 0, 0, 128})
	half := ts / 2
	for i := 0; i < 16; i++ {
		for q := 0; q < 4; q++ {
			if i&(1<<q) == 0 {
				continue
			}
			x, y := i*ts+(q%2)*half, (q/2)*half
			draw.Draw(img, image.Rect(x, y, x+half, y+half), shade, image.Point{}, draw.Src)
		}
	}
	return img
}

type cellKey struct {
	above bool
	x, y  int
}

// buildTiles regenerates both layers for the current window: layers 0 and 1,
// then shadows, then layer 2. Rows are walked bottom-up so table legs
// hanging into the row below draw over it.
func (t *Tilemap2) buildTiles() {
	t.ground.tiles, t.ground.flash = t.ground.tiles[:0], t.ground.flash[:0]
	t.aboveLayer.tiles, t.aboveLayer.flash = t.aboveLayer.tiles[:0], t.aboveLayer.flash[:0]
	if t.mapData == nil || t.mapData.XSize() == 0 || t.mapData.YSize() == 0 || t.atlas == nil {
		return
	}
	flashed := make(map[cellKey]bool)
	t.buildLayer(0, flashed)
	t.buildLayer(1, flashed)
	t.buildShadows()
	t.buildLayer(2, flashed)
}

func (t *Tilemap2) value(tb *Table, x, y, z int) int {
	return int(wrappedValue(tb, x, y, z, t.repeatX, t.repeatY))
}

func (t *Tilemap2) flag(id int) int {
	if t.flags == nil || id < 0 || id >= t.flags.XSize() {
		return 0
	}
	return int(t.flags.Get(id, 0, 0))
}

func (t *Tilemap2) buildLayer(z int, flashed map[cellKey]bool) {
	for y := t.window.Height - 1; y >= 0; y-- {
		for x := 0; x < t.window.Width; x++ {
			mx, my := x+t.window.X, y+t.window.Y
			id := t.value(t.mapData, mx, my, z)
			if id == 0 {
				continue
			}
			flag := t.flag(id)
			above := flag&TileFlagOverPlayer != 0 && z >= 2
			l := &t.ground
			if above {
				l = &t.aboveLayer
			}
			n := len(l.tiles)
			under := t.value(t.mapData, mx, my+1, 0)
			t.appendTile(l, id, flag, under, x, y)
			if len(l.tiles) == n {
				continue
			}
			key := cellKey{above, x, y}
			if v := t.value(t.flashData, mx, my, 0); v != 0 && !flashed[key] {
				flashed[key] = true
				cell := Rect{x * t.tileSize, y * t.tileSize, t.tileSize, t.tileSize}
				l.flash = append(l.flash, gpu.NewQuad(cell.rectF(), gpu.RectF{}, flashColor(int16(v))))
			}
		}
	}
}

// buildShadows reads shadow bits from layer 3 under RGSS3. Under RGSS2 a
// left shadow falls on every non-wall cell whose left neighbour and the
// cell above that are walls.
func (t *Tilemap2) buildShadows() {
	isWall := func(id int) bool { return id >= 0x1100 && id < 0x2000 }
	for y := 0; y < t.window.Height; y++ {
		for x := 0; x < t.window.Width; x++ {
			mx, my := x+t.window.X, y+t.window.Y
			if t.rgss3 {
				if s := t.value(t.mapData, mx, my, 3) & 0xF; s != 0 {
					t.appendShadow(s, x, y)
				}
				continue
			}
			if floorMod(mx, t.mapData.XSize()) == 0 || floorMod(my, t.mapData.YSize()) == 0 {
				continue
			}
			if isWall(t.value(t.mapData, mx-1, my-1, 0)) &&
				isWall(t.value(t.mapData, mx-1, my, 0)) &&
				!isWall(t.value(t.mapData, mx, my, 0)) {
				t.appendShadow(0x5, x, y)
			}
		}
	}
}

func (t *Tilemap2) appendShadow(s, x, y int) {
	ts := t.tileSize
	src := Rect{(shadowArea.X + s) * ts, shadowArea.Y * ts, ts, ts}
	t.ground.tiles = appendQuad(t.ground.tiles, Rect{x * ts, y * ts, ts, ts}, src, opaqueTint)
}

// opaqueTint is the untinted vertex color of atlas quads.
var opaqueTint = gpu.Vec4{1, 1, 1, 1}

func (t *Tilemap2) appendTile(l *tileLayer, id, flag, under, x, y int) {
	switch {
	case id >= 0x0800 && id < 0x0B00:
		t.appendA1(l, id-0x0800, x, y)
	case id >= 0x0B00 && id < 0x1100:
		id -= 0x0B00
		aid, pattern := id/48, id%48
		origin := Point{16 + (aid%8)*2, (aid / 8) * 3}
		table := flag&TileFlagTable != 0
		if !t.rgss3 {
			table = id%(8*48) >= 7*48
		}
		if table {
			t.appendTable(l, pattern, origin, under >= 0x1700 && under < 0x2000, x, y)
			return
		}
		t.appendAutotile(l, vxAutotileChunks[pattern], origin, Point{}, x, y)
	case id >= 0x1100 && id < 0x1700:
		id -= 0x1100
		aid, pattern := id/48, id%48
		if pattern >= 16 {
			return
		}
		origin := Point{(aid % 8) * 2, (aid/8)*2 + 12}
		t.appendAutotile(l, vxWallChunks[pattern], origin, Point{}, x, y)
	case id >= 0x1700 && id < 0x2000:
		id -= 0x1700
		aid, pattern := id/48, id%48
		row := aid / 8
		origin := Point{16 + (aid%8)*2, 12 + vxA4Rows[row]}
		if row%2 == 0 {
			t.appendAutotile(l, vxAutotileChunks[pattern], origin, Point{}, x, y)
		} else if pattern < 16 {
			t.appendAutotile(l, vxWallChunks[pattern], origin, Point{}, x, y)
		}
	case id >= 0x0600 && id < 0x0680:
		id -= 0x0600
		ox, oy := id%8, id/8
		if oy >= 8 {
			ox, oy = ox+8, oy-8
		}
		t.appendSingle(l, Point{ox, 20 + oy}, x, y)
	case id > 0 && id < 0x0400:
		ox, oy, sheet := id%8, (id/8)%16, id/128
		ox += (sheet % 2) * 8
		oy += (sheet / 2) * 16
		switch {
		case oy >= 48: // E
			ox, oy = ox+16, oy-32
		case oy >= 32: // D
			oy -= 16
		case oy >= 16: // C
			ox, oy = ox+16, oy-16
		}
		t.appendSingle(l, Point{32 + ox, oy}, x, y)
	}
}

func (t *Tilemap2) appendA1(l *tileLayer, id, x, y int) {
	aid, pattern := id/48, id%48
	origin := vxA1Origins[aid]
	switch {
	case origin.X < 0:
		if pattern > 3 {
			return
		}
		t.appendWaterfall(l, pattern, vxWaterfallOrigins[(aid-5)/2], x, y)
	case origin.X < 12:
		t.appendAutotile(l, vxAutotileChunks[pattern], origin, Point{t.anim.X, 0}, x, y)
	default:
		t.appendAutotile(l, vxAutotileChunks[pattern], origin, Point{}, x, y)
	}
}

func (t *Tilemap2) appendSingle(l *tileLayer, at Point, x, y int) {
	ts := t.tileSize
	l.tiles = appendQuad(l.tiles, Rect{x * ts, y * ts, ts, ts}, Rect{at.X * ts, at.Y * ts, ts, ts}, opaqueTint)
}

// appendAutotile adds the four quarters of an autotile pattern whose block
// starts at origin tiles, shifted by anim pixels.
func (t *Tilemap2) appendAutotile(l *tileLayer, chunks [4][2]float32, origin, anim Point, x, y int) {
	ts := float32(t.tileSize)
	half := ts / 2
	for i, c := range chunks {
		src := gpu.RectF{
			X: (c[0]+float32(origin.X))*ts + float32(anim.X),
			Y: (c[1]+float32(origin.Y))*ts + float32(anim.Y),
			W: half,
			H: half,
		}
		dst := gpu.RectF{X: float32(x)*ts + float32(i%2)*half, Y: float32(y)*ts + float32(i/2)*half, W: half, H: half}
		l.tiles = append(l.tiles, gpu.NewQuad(dst, src, opaqueTint))
	}
}

// appendTable adds an A2 table tile: four quarters plus two legs hanging a
// quarter tile into the row below. Over a wall the legs are cut at the
// cell edge.
func (t *Tilemap2) appendTable(l *tileLayer, pattern int, origin Point, occluded bool, x, y int) {
	ts := float32(t.tileSize)
	half := ts / 2
	for i, c := range vxTableChunks[pattern] {
		if c[2] == 0 || c[3] == 0 {
			continue
		}
		src := gpu.RectF{X: (c[0] + float32(origin.X)) * ts, Y: (c[1] + float32(origin.Y)) * ts, W: c[2] * ts, H: c[3] * ts}
		dst := gpu.RectF{X: float32(x) * ts, Y: float32(y) * ts, W: src.W, H: src.H}
		switch i {
		case 1, 3, 5:
			dst.X += half
		}
		switch i {
		case 2, 3:
			dst.Y += half
		case 4, 5:
			dst.Y += ts * 0.75
			if occluded {
				src.H -= ts * 0.25
				dst.H -= ts * 0.25
			}
		}
		l.tiles = append(l.tiles, gpu.NewQuad(dst, src, opaqueTint))
	}
}

// appendWaterfall adds the two half columns of a waterfall pattern. Frames
// are stacked one tile apart.
func (t *Tilemap2) appendWaterfall(l *tileLayer, pattern int, origin Point, x, y int) {
	ts := float32(t.tileSize)
	half := ts / 2
	for i, c := range vxWaterfallChunks[pattern] {
		src := gpu.RectF{
			X: (c[0] + float32(origin.X)) * ts,
			Y: (c[1]+float32(origin.Y))*ts + float32(t.anim.Y),
			W: half,
			H: ts,
		}
		dst := gpu.RectF{X: float32(x)*ts + float32(i)*half, Y: float32(y) * ts, W: half, H: ts}
		l.tiles = append(l.tiles, gpu.NewQuad(dst, src, opaqueTint))
	}
}
