package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/canopy/gpu"
	"github.com/phanxgames/canopy/gpu/soft"
)

// --- ComputeBatchRuns ---

func TestComputeBatchRuns(t *testing.T) {
	dev := soft.New(0)
	texA, _ := dev.NewTexture(1, 1)
	texB, _ := dev.NewTexture(1, 1)
	sprite := func(tex gpu.Texture, blend BlendType) BatchItem {
		return BatchItem{Texture: tex, Blend: blend, Visible: true, Batchable: true}
	}
	hidden := BatchItem{Texture: texA, Batchable: true}
	other := BatchItem{Visible: true}

	tests := []struct {
		name  string
		items []BatchItem
		want  []BatchRun
	}{
		{"empty", nil, nil},
		{"single", []BatchItem{sprite(texA, BlendNormal)}, []BatchRun{{0, 1}}},
		{"same texture", []BatchItem{sprite(texA, BlendNormal), sprite(texA, BlendNormal), sprite(texA, BlendNormal)}, []BatchRun{{0, 3}}},
		{"texture change", []BatchItem{sprite(texA, BlendNormal), sprite(texB, BlendNormal), sprite(texB, BlendNormal)}, []BatchRun{{0, 1}, {1, 2}}},
		{"blend change", []BatchItem{sprite(texA, BlendNormal), sprite(texA, BlendAdd)}, []BatchRun{{0, 1}, {1, 1}}},
		{"hidden breaks", []BatchItem{sprite(texA, BlendNormal), hidden, sprite(texA, BlendNormal)}, []BatchRun{{0, 1}, {2, 1}}},
		{"non-sprite breaks", []BatchItem{sprite(texA, BlendNormal), other, sprite(texA, BlendNormal)}, []BatchRun{{0, 1}, {2, 1}}},
		{"return to texture", []BatchItem{sprite(texA, BlendNormal), sprite(texB, BlendNormal), sprite(texA, BlendNormal)}, []BatchRun{{0, 1}, {1, 1}, {2, 1}}},
	}
	for _, tt := range tests {
		got := ComputeBatchRuns(tt.items)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

// --- SpriteBatch protocol ---

func TestSpriteBatchRanges(t *testing.T) {
	dev := soft.New(0)
	tex, _ := dev.NewTexture(1, 1)
	b := NewSpriteBatch(dev)
	require.True(t, b.Enabled())
	assert.Nil(t, b.CurrentTexture())

	b.BeginBatch(tex)
	assert.Equal(t, tex, b.CurrentTexture())
	b.PushSprite(gpu.Quad{}, gpu.Instance{})
	b.PushSprite(gpu.Quad{}, gpu.Instance{})
	off, n := b.EndBatch()
	if off != 0 || n != 2 {
		t.Errorf("first EndBatch = (%d, %d), want (0, 2)", off, n)
	}
	b.BeginBatch(tex)
	b.PushSprite(gpu.Quad{}, gpu.Instance{})
	off, n = b.EndBatch()
	if off != 2 || n != 1 {
		t.Errorf("second EndBatch = (%d, %d), want (2, 1)", off, n)
	}

	b.SubmitBatchDataAndResetCache()
	assert.Equal(t, BatchStats{Batches: 2, Instances: 3}, b.Stats())
	assert.Empty(t, b.insts, "accumulator must be empty after submit")
}

func TestSpriteBatchOutOfOrderPanics(t *testing.T) {
	b := NewSpriteBatch(soft.New(0))
	assert.Panics(t, func() { b.PushSprite(gpu.Quad{}, gpu.Instance{}) })
	assert.Panics(t, func() { b.EndBatch() })
	b.BeginBatch(nil)
	assert.Panics(t, func() { b.BeginBatch(nil) })
}

func TestSpriteBatchSubmitClosesOpenBatch(t *testing.T) {
	b := NewSpriteBatch(soft.New(0))
	b.BeginBatch(nil)
	b.PushSprite(gpu.Quad{}, gpu.Instance{})
	b.SubmitBatchDataAndResetCache()
	assert.Nil(t, b.CurrentTexture())
	assert.Equal(t, 1, b.Stats().Batches)
}

func TestSpriteBatchDrawIgnoresBadRange(t *testing.T) {
	rec := gpu.NewRecorder(soft.New(0))
	target, _ := rec.NewTexture(4, 4)
	b := NewSpriteBatch(rec)
	b.BeginBatch(target)
	b.PushSprite(gpu.Quad{}, gpu.Instance{})
	b.EndBatch()
	b.SubmitBatchDataAndResetCache()
	rec.Reset()

	b.Draw(target, target, gpu.Identity, target.(*soft.Texture).Image().Rect, BlendNormal, 0, 0)
	b.Draw(target, target, gpu.Identity, target.(*soft.Texture).Image().Rect, BlendNormal, 0, 5)
	assert.Equal(t, 0, rec.Count(gpu.CallDrawQuads))

	b.Draw(target, target, gpu.Identity, target.(*soft.Texture).Image().Rect, BlendAdd, 0, 1)
	require.Equal(t, 1, rec.Count(gpu.CallDrawQuads))
	call := rec.Draws()[0]
	assert.Equal(t, gpu.PipelineSprite, call.Pipeline)
	assert.Equal(t, gpu.BlendAdd, call.Blend)
	assert.Equal(t, 1, call.Instances)
	assert.Equal(t, 1, b.Stats().Draws)
}

// --- Sprites through the screen ---

func spriteDraws(rec *gpu.Recorder) []gpu.Call {
	var out []gpu.Call
	for _, c := range rec.Draws() {
		if c.Pipeline == gpu.PipelineSprite {
			out = append(out, c)
		}
	}
	return out
}

func TestAdjacentSpritesShareOneDraw(t *testing.T) {
	e, rec := newTestEngine(t)
	bmp := solidBitmap(t, e, 4, 4, red)
	for i := 0; i < 3; i++ {
		s := NewSprite(e, nil)
		require.NoError(t, s.SetBitmap(bmp))
		s.SetX(i * 5)
	}
	rec.Reset()
	frame := renderScreen(t, e)

	draws := spriteDraws(rec)
	require.Len(t, draws, 1)
	assert.Equal(t, 3, draws[0].Instances)
	assert.Equal(t, red, frame.NRGBAAt(11, 1))
}

func TestBatchBreaks(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine, a, b, c *Sprite, other *Bitmap)
		draws []int
	}{
		{"all merge", func(*Engine, *Sprite, *Sprite, *Sprite, *Bitmap) {}, []int{3}},
		{"blend change", func(_ *Engine, _, b, _ *Sprite, _ *Bitmap) { b.SetBlendType(BlendAdd) }, []int{1, 1, 1}},
		{"bitmap change", func(_ *Engine, _, _, c *Sprite, other *Bitmap) { c.SetBitmap(other) }, []int{2, 1}},
		{"hidden middle", func(_ *Engine, _, b, _ *Sprite, _ *Bitmap) { b.SetVisible(false) }, []int{1, 1}},
		{"transparent middle", func(_ *Engine, _, b, _ *Sprite, _ *Bitmap) { b.SetOpacity(0) }, []int{1, 1}},
		{"custom drawable between", func(e *Engine, a, _, _ *Sprite, _ *Bitmap) {
			d := NewDrawable(e, nil)
			d.Node().SetNodeSortWeight(0, 0, a.Node().SortKey().Weight[2]+1)
		}, []int{1, 2}},
		{"merging disabled", func(e *Engine, _, _, _ *Sprite, _ *Bitmap) { e.Batch().SetEnabled(false) }, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t)
			bmp := solidBitmap(t, e, 2, 2, red)
			other := solidBitmap(t, e, 2, 2, blue)
			var sprites [3]*Sprite
			for i := range sprites {
				sprites[i] = NewSprite(e, nil)
				require.NoError(t, sprites[i].SetBitmap(bmp))
			}
			tt.setup(e, sprites[0], sprites[1], sprites[2], other)
			rec.Reset()
			renderScreen(t, e)

			var got []int
			for _, d := range spriteDraws(rec) {
				got = append(got, d.Instances)
			}
			assert.Equal(t, tt.draws, got)
		})
	}
}

func TestBatchStatsInDebugMode(t *testing.T) {
	e, _ := newTestEngineConfig(t, Config{Width: 16, Height: 16, Debug: true})
	bmp := solidBitmap(t, e, 2, 2, red)
	for i := 0; i < 4; i++ {
		s := NewSprite(e, nil)
		s.SetBitmap(bmp)
	}
	renderScreen(t, e)
	st := e.FrameStats()
	assert.Equal(t, 1, st.Batches)
	assert.Equal(t, 4, st.Sprites)
	assert.Equal(t, 1, st.Draws)
}
