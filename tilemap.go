package canopy

import (
	"fmt"
	"image"

	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

// AutotileCount is the number of autotile slots of a Tilemap.
const AutotileCount = 7

// autotileKind is the layout of an autotile bitmap.
type autotileKind uint8

const (
	autotileNone   autotileKind = iota
	autotileCommon              // 3x4 tiles per frame
	autotileSingle              // 1x1 tile per frame
)

type autotileSlot struct {
	bitmap *Bitmap
	remove func()
	kind   autotileKind
	frames int
}

// tileLayer is one z-sorted band of tiles. The ground layer has no node of
// its own; above layers each own one.
type tileLayer struct {
	node  DrawableNode
	tiles []gpu.Quad
	flash []gpu.Quad
}

// Tilemap is an RGSS1 tilemap: a ground layer at z 0 and a band of above
// layers whose z follows the tile row, so priority tiles interleave with
// sprites standing on the rows below them.
//
// Map data is a Table of x*y*z tile ids. Ids below 48 are empty, 48..383 are
// autotiles (48 patterns per autotile) and ids from 384 index the tileset,
// 8 tiles per row.
type Tilemap struct {
	drawableBase

	tileSize int

	tileset       *Bitmap
	tilesetRemove func()
	autotiles     [AutotileCount]autotileSlot

	mapData          *Table
	flashData        *Table
	priorities       *Table
	mapDataRemove    func()
	flashDataRemove  func()
	prioritiesRemove func()

	ox, oy           int
	repeatX, repeatY bool

	animIndex    int
	animPeriod   int
	flashTimer   int
	flashOpacity int

	atlas       gpu.Texture
	atlasDirty  bool
	bufferDirty bool
	maxFrames   int
	maxRows     int

	ground     tileLayer
	above      []tileLayer
	lastHeight int
	window     Rect
	offset     Point
	builtFrame int
}

// NewTilemap creates a tilemap in parent (nil for the screen). tileSize is
// the edge of one tile in pixels; 0 selects 32 and smaller values are raised
// to 16.
func NewTilemap(e *Engine, parent *Viewport, tileSize int) *Tilemap {
	if tileSize == 0 {
		tileSize = 32
	}
	t := &Tilemap{
		tileSize:     max(16, tileSize),
		repeatX:      true,
		repeatY:      true,
		animPeriod:   1,
		flashOpacity: 160,
		atlasDirty:   true,
		builtFrame:   -1,
		lastHeight:   -1,
	}
	t.maxRows = max(1, e.maxTextureSize()/t.tileSize)
	t.init(e, parent, "tilemap", t.handleGround)
	t.node.SetNodeSortWeight(0)
	return t
}

// TileSize returns the tile edge in pixels.
func (t *Tilemap) TileSize() int { return t.tileSize }

// Tileset returns the tileset bitmap.
func (t *Tilemap) Tileset() *Bitmap { return t.tileset }

// SetTileset sets the tileset bitmap. The atlas is rebuilt before the next
// frame and whenever the bitmap changes.
func (t *Tilemap) SetTileset(b *Bitmap) error {
	if t.disposed {
		return opError("tilemap set tileset", ErrDisposed)
	}
	if t.tilesetRemove != nil {
		t.tilesetRemove()
		t.tilesetRemove = nil
	}
	t.tileset = b
	if !b.IsDisposed() {
		t.tilesetRemove = b.AddObserver(t.invalidateAtlas)
	}
	t.invalidateAtlas()
	return nil
}

// Autotile returns the bitmap in slot i.
func (t *Tilemap) Autotile(i int) (*Bitmap, error) {
	if i < 0 || i >= AutotileCount {
		return nil, opError("tilemap autotile", fmt.Errorf("index %d: %w", i, ErrOutOfRange))
	}
	return t.autotiles[i].bitmap, nil
}

// SetAutotile sets the bitmap of slot i. The bitmap is either a strip of
// 3x4-tile frames or a strip of single-tile frames; any other height is a
// programming error and panics.
func (t *Tilemap) SetAutotile(i int, b *Bitmap) error {
	if t.disposed {
		return opError("tilemap set autotile", ErrDisposed)
	}
	if i < 0 || i >= AutotileCount {
		return opError("tilemap set autotile", fmt.Errorf("index %d: %w", i, ErrOutOfRange))
	}
	slot := &t.autotiles[i]
	if slot.remove != nil {
		slot.remove()
	}
	*slot = autotileSlot{bitmap: b}
	if !b.IsDisposed() {
		ts := t.tileSize
		switch {
		case b.Height() >= 4*ts:
			slot.kind, slot.frames = autotileCommon, max(1, b.Width()/(3*ts))
		case b.Height() <= ts:
			slot.kind, slot.frames = autotileSingle, max(1, b.Width()/ts)
		default:
			panic(fmt.Sprintf("canopy: autotile %d is %dx%d, want height >= %d or <= %d",
				i, b.Width(), b.Height(), 4*ts, ts))
		}
		slot.remove = b.AddObserver(t.invalidateAtlas)
	}
	t.invalidateAtlas()
	return nil
}

// MapData returns the tile id table.
func (t *Tilemap) MapData() *Table { return t.mapData }

// SetMapData sets the x*y*z tile id table.
func (t *Tilemap) SetMapData(tb *Table) {
	t.observeTable(&t.mapData, &t.mapDataRemove, tb)
}

// FlashData returns the flash color table.
func (t *Tilemap) FlashData() *Table { return t.flashData }

// SetFlashData sets the x*y table of flash colors, 0xRGB with 4 bits per
// channel. Zero cells do not flash.
func (t *Tilemap) SetFlashData(tb *Table) {
	t.observeTable(&t.flashData, &t.flashDataRemove, tb)
}

// Priorities returns the tile priority table.
func (t *Tilemap) Priorities() *Table { return t.priorities }

// SetPriorities sets the priority table indexed by tile id. Priority 0 is
// ground, 1..5 raise the tile into the above layers and anything larger
// hides it.
func (t *Tilemap) SetPriorities(tb *Table) {
	t.observeTable(&t.priorities, &t.prioritiesRemove, tb)
}

func (t *Tilemap) observeTable(field **Table, remove *func(), tb *Table) {
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
func (t *Tilemap) OX() int { return t.ox }

// OY returns the vertical scroll.
func (t *Tilemap) OY() int { return t.oy }

// SetOX sets the horizontal scroll.
func (t *Tilemap) SetOX(v int) { t.ox = v }

// SetOY sets the vertical scroll.
func (t *Tilemap) SetOY(v int) { t.oy = v }

// RepeatX reports whether the map wraps horizontally.
func (t *Tilemap) RepeatX() bool { return t.repeatX }

// RepeatY reports whether the map wraps vertically.
func (t *Tilemap) RepeatY() bool { return t.repeatY }

// SetRepeatX sets horizontal wrapping.
func (t *Tilemap) SetRepeatX(v bool) {
	if t.repeatX != v {
		t.repeatX = v
		t.invalidateBuffer()
	}
}

// SetRepeatY sets vertical wrapping.
func (t *Tilemap) SetRepeatY(v bool) {
	if t.repeatY != v {
		t.repeatY = v
		t.invalidateBuffer()
	}
}

// FlashOpacity returns the current flash pulse opacity, 32..160.
func (t *Tilemap) FlashOpacity() int { return t.flashOpacity }

// AboveLayerCount returns the number of above-layer nodes.
func (t *Tilemap) AboveLayerCount() int { return len(t.above) }

// Update advances the autotile animation and the flash pulse by one frame.
// Autotiles step one frame every 16 updates.
func (t *Tilemap) Update() {
	if t.disposed {
		return
	}
	t.animIndex = (t.animIndex + 1) % (t.animPeriod * 16)
	t.flashTimer = (t.flashTimer + 1) % 32
	t.flashOpacity = absInt(16-t.flashTimer)*8 + 32
}

// SetVisible shows or hides every layer.
func (t *Tilemap) SetVisible(v bool) {
	if t.disposed {
		return
	}
	t.drawableBase.SetVisible(v)
	for _, l := range t.above {
		l.node.SetNodeVisibility(visibilityOf(v))
	}
}

// SetViewport moves every layer into v.
func (t *Tilemap) SetViewport(v *Viewport) error {
	if err := t.drawableBase.SetViewport(v); err != nil {
		return err
	}
	c := t.e.controllerFor(v)
	for _, l := range t.above {
		l.node.RebindController(c)
	}
	return nil
}

// Dispose removes every layer and releases the atlas. Bitmaps and tables
// are not disposed.
func (t *Tilemap) Dispose() {
	if !t.dispose() {
		return
	}
	t.disposeAbove()
	for _, r := range []func(){t.tilesetRemove, t.mapDataRemove, t.flashDataRemove, t.prioritiesRemove} {
		if r != nil {
			r()
		}
	}
	for i := range t.autotiles {
		if r := t.autotiles[i].remove; r != nil {
			r()
		}
		t.autotiles[i] = autotileSlot{}
	}
	if t.atlas != nil {
		t.atlas.Dispose()
		t.atlas = nil
	}
	t.tileset, t.mapData, t.flashData, t.priorities = nil, nil, nil, nil
}

func (t *Tilemap) invalidateAtlas() {
	t.atlasDirty = true
	t.bufferDirty = true
}

func (t *Tilemap) invalidateBuffer() { t.bufferDirty = true }

func (t *Tilemap) disposeAbove() {
	for _, l := range t.above {
		l.node.DisposeNode()
	}
	t.above = nil
}

func (t *Tilemap) handleGround(stage Stage, p *RenderParams) {
	switch stage {
	case StageBeforeRender:
		t.prepare(p.Viewport)
	case StageOnRendering:
		t.drawLayer(p, &t.ground)
	}
}

func (t *Tilemap) prepare(vp ViewportInfo) {
	if vp.Bound.Height != t.lastHeight {
		t.setupAboveLayers(vp.Bound.Height)
		t.lastHeight = vp.Bound.Height
	}
	t.updateWindow(vp)
	for i, l := range t.above {
		l.node.SetNodeSortWeight(int64(t.tileSize*(i+t.window.Y+1) - t.oy))
	}

	if t.atlasDirty {
		t.buildAtlas()
		t.atlasDirty = false
	}
	if frame := t.animIndex / 16; frame != t.builtFrame && t.animPeriod > 1 {
		t.bufferDirty = true
	}
	if t.bufferDirty {
		t.buildTiles()
		t.builtFrame = t.animIndex / 16
		t.bufferDirty = false
	}
}

// setupAboveLayers recreates the above-layer nodes for a viewport of the
// given height.
func (t *Tilemap) setupAboveLayers(height int) {
	t.disposeAbove()
	n := ceilDiv(max(height, 0), t.tileSize) + 7
	c := t.node.Controller()
	t.above = make([]tileLayer, n)
	for i := range t.above {
		node := t.e.arena.NewNodeWithKey(c, NewSortKey(64))
		node.SetDebugLabel(fmt.Sprintf("tilemap.above[%d]", i))
		node.SetNodeVisibility(visibilityOf(t.visible))
		node.RegisterEventHandler(func(stage Stage, p *RenderParams) {
			if stage == StageOnRendering && i < len(t.above) {
				t.drawLayer(p, &t.above[i])
			}
		})
		t.above[i].node = node
	}
	t.bufferDirty = true
}

func (t *Tilemap) updateWindow(vp ViewportInfo) {
	w, off := tileWindow(t.ox, t.oy, t.tileSize, vp)
	t.offset = off
	if w != t.window {
		t.window = w
		t.bufferDirty = true
	}
}

// tileWindow returns the visible tile window for a map scrolled to (ox, oy),
// one tile of margin above and below, and the pixel offset of its top-left
// cell.
func tileWindow(ox, oy, ts int, vp ViewportInfo) (Rect, Point) {
	ox, oy = ox+vp.Origin.X, oy+vp.Origin.Y
	w := Rect{
		X:      floorDiv(ox, ts),
		Y:      floorDiv(oy, ts) - 1,
		Width:  ceilDiv(max(vp.Bound.Width, 0), ts) + 1,
		Height: ceilDiv(max(vp.Bound.Height, 0), ts) + 2,
	}
	off := Point{
		X: -floorMod(ox, ts) + vp.Origin.X,
		Y: -floorMod(oy, ts) - ts + vp.Origin.Y,
	}
	return w, off
}

// buildAtlas packs autotiles and tileset into one texture: autotile i at
// (0, 4*i tiles), each frame 3 tiles wide, and the tileset to the right of
// the widest autotile strip, split into columns when it is taller than the
// device allows.
func (t *Tilemap) buildAtlas() {
	if t.atlas != nil {
		t.atlas.Dispose()
		t.atlas = nil
	}
	ts := t.tileSize
	t.maxFrames, t.animPeriod = 1, 1
	for _, a := range t.autotiles {
		if a.kind == autotileNone || a.bitmap.IsDisposed() {
			continue
		}
		t.maxFrames = max(t.maxFrames, a.frames)
		t.animPeriod = lcm(t.animPeriod, a.frames)
	}
	t.animIndex %= t.animPeriod * 16

	maxTex := t.e.maxTextureSize()
	height := 28 * ts
	chunks := 0
	if !t.tileset.IsDisposed() {
		height = max(height, t.tileset.Height())
		chunks = ceilDiv(t.tileset.Height(), t.maxRows*ts)
	}
	height = min(height, maxTex)
	width := 3*ts*t.maxFrames + chunks*8*ts

	atlas, err := t.e.dev.NewTexture(width, height)
	if err != nil {
		Logger().Warn("tilemap atlas unavailable", "width", width, "height", height, "error", err)
		return
	}
	dev := t.e.dev
	for i, a := range t.autotiles {
		if a.kind == autotileNone || a.bitmap.IsDisposed() {
			continue
		}
		src := a.bitmap.Texture()
		y := i * 4 * ts
		switch a.kind {
		case autotileCommon:
			sr := image.Rect(0, 0, 3*ts*a.frames, 4*ts).Intersect(a.bitmap.Rect().image())
			dev.Copy(atlas, image.Pt(0, y), src, sr)
		case autotileSingle:
			for f := 0; f < a.frames; f++ {
				sr := image.Rect(f*ts, 0, (f+1)*ts, ts).Intersect(a.bitmap.Rect().image())
				dev.Copy(atlas, image.Pt(f*3*ts, y), src, sr)
			}
		}
	}
	base := 3 * ts * t.maxFrames
	for k := 0; k < chunks; k++ {
		sr := image.Rect(0, k*t.maxRows*ts, 8*ts, (k+1)*t.maxRows*ts).Intersect(t.tileset.Rect().image())
		dev.Copy(atlas, image.Pt(base+k*8*ts, 0), t.tileset.Texture(), sr)
	}
	t.atlas = atlas
	Logger().Debug("tilemap atlas rebuilt", "width", width, "height", height, "frames", t.maxFrames)
}

// buildTiles regenerates the quads of every layer for the current window.
// Positions are relative to the window's top-left cell.
func (t *Tilemap) buildTiles() {
	t.ground.tiles = t.ground.tiles[:0]
	t.ground.flash = t.ground.flash[:0]
	for i := range t.above {
		t.above[i].tiles = t.above[i].tiles[:0]
		t.above[i].flash = t.above[i].flash[:0]
	}
	if t.mapData == nil || t.atlas == nil {
		return
	}
	flashed := make(map[[2]int]bool)
	for x := 0; x < t.window.Width; x++ {
		for y := 0; y < t.window.Height; y++ {
			for z := 0; z < t.mapData.ZSize(); z++ {
				t.buildTile(x, y, z, flashed)
			}
		}
	}
}

func (t *Tilemap) buildTile(x, y, z int, flashed map[[2]int]bool) {
	mx, my := x+t.window.X, y+t.window.Y
	id := int(t.tableValue(t.mapData, mx, my, z))
	if id < 48 {
		return
	}
	priority := 0
	if t.priorities != nil && id < t.priorities.XSize() {
		priority = int(t.priorities.Get(id, 0, 0))
	}
	if priority > 5 {
		return
	}
	layer, index := &t.ground, -1
	if priority > 0 {
		index = y + priority
		if index >= len(t.above) {
			return
		}
		layer = &t.above[index]
	}

	ts := t.tileSize
	cell := Rect{x * ts, y * ts, ts, ts}
	white := gpu.Vec4{1, 1, 1, 1}
	n := len(layer.tiles)
	if id < 384 {
		layer.tiles = t.appendAutotile(layer.tiles, cell, id, white)
	} else {
		layer.tiles = appendQuad(layer.tiles, cell, t.tilesetSource(id-384), white)
	}
	if len(layer.tiles) == n {
		return
	}

	key := [2]int{index, x*t.window.Height + y}
	if v := t.tableValue(t.flashData, mx, my, 0); v != 0 && !flashed[key] {
		flashed[key] = true
		layer.flash = append(layer.flash, gpu.NewQuad(cell.rectF(), gpu.RectF{}, flashColor(v)))
	}
}

func (t *Tilemap) appendAutotile(quads []gpu.Quad, cell Rect, id int, c gpu.Vec4) []gpu.Quad {
	slot := id/48 - 1
	a := t.autotiles[slot]
	if a.kind == autotileNone || a.bitmap.IsDisposed() {
		return quads
	}
	ts := t.tileSize
	frameX := (t.animIndex / 16 % a.frames) * 3 * ts
	rowY := slot * 4 * ts
	if a.kind == autotileSingle {
		return appendQuad(quads, cell, Rect{frameX, rowY, ts, ts}, c)
	}
	half := ts / 2
	for i, chunk := range autotileChunks[id%48] {
		src := Rect{
			X:      frameX + int(chunk[0]*float32(ts)),
			Y:      rowY + int(chunk[1]*float32(ts)),
			Width:  half,
			Height: half,
		}
		dst := Rect{cell.X + (i%2)*half, cell.Y + (i/2)*half, half, half}
		quads = appendQuad(quads, dst, src, c)
	}
	return quads
}

// tilesetSource returns the atlas rect of tileset tile n.
func (t *Tilemap) tilesetSource(n int) Rect {
	ts := t.tileSize
	tx, ty := n%8, n/8
	col := ty / t.maxRows
	ax := tx + 3*t.maxFrames + 8*col
	ay := ty - t.maxRows*col
	return Rect{ax * ts, ay * ts, ts, ts}
}

func (t *Tilemap) tableValue(tb *Table, x, y, z int) int16 {
	return wrappedValue(tb, x, y, z, t.repeatX, t.repeatY)
}

// wrappedValue reads tb at (x, y, z), wrapping x and y on the repeating
// axes. Cells outside a non-repeating axis read as 0.
func wrappedValue(tb *Table, x, y, z int, repeatX, repeatY bool) int16 {
	if tb == nil {
		return 0
	}
	if repeatX {
		x = floorMod(x, tb.XSize())
	}
	if repeatY {
		y = floorMod(y, tb.YSize())
	}
	return tb.Get(x, y, z)
}

func (t *Tilemap) drawLayer(p *RenderParams, l *tileLayer) {
	drawTileLayer(p, t.atlas, l, t.offset, t.flashOpacity)
}

// drawTileLayer draws the tiles of l from atlas, shifted by offset, then its
// flash cells at flashOpacity.
func drawTileLayer(p *RenderParams, atlas gpu.Texture, l *tileLayer, offset Point, flashOpacity int) {
	if atlas == nil || len(l.tiles) == 0 {
		return
	}
	scissor := p.Scissor.Current()
	if scissor.Empty() {
		return
	}
	world := translateWorld(p.World, float64(offset.X), float64(offset.Y))
	p.Device.DrawQuads(&gpu.QuadOp{
		Target:   p.Screen,
		Images:   [3]gpu.Texture{atlas},
		Pipeline: gpu.PipelineBase,
		Blend:    gpu.BlendNormal,
		Quads:    l.tiles,
		World:    world,
		Scissor:  scissor,
	})
	if len(l.flash) == 0 {
		return
	}
	a := opacityf(flashOpacity)
	for i := range l.flash {
		for v := range l.flash[i] {
			l.flash[i][v].A = a
		}
	}
	p.Device.DrawQuads(&gpu.QuadOp{
		Target:   p.Screen,
		Pipeline: gpu.PipelineColor,
		Blend:    gpu.BlendNormal,
		Quads:    l.flash,
		World:    world,
		Scissor:  scissor,
	})
}

// flashColor expands a 0xRGB flash cell to an opaque color.
func flashColor(v int16) gpu.Vec4 {
	return gpu.Vec4{
		float32((v>>8)&0xF) / 15,
		float32((v>>4)&0xF) / 15,
		float32(v&0xF) / 15,
		1,
	}
}

// translateWorld returns w preceded by a translation of (x, y).
func translateWorld(w f64.Aff3, x, y float64) f64.Aff3 {
	w = gpu.WorldOrIdentity(w)
	w[2] += w[0]*x + w[1]*y
	w[5] += w[3]*x + w[4]*y
	return w
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func lcm(a, b int) int {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}
