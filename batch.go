package canopy

import (
	"image"

	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

// SpriteBatch accumulates sprite quads and their per-instance uniforms
// during StageBeforeRender so that runs of adjacent sprites sharing a
// texture and blend type draw with one call during StageOnRendering.
//
// The batch is passive: sprites decide where runs end. Batches never nest;
// BeginBatch, PushSprite and EndBatch out of order panic.
type SpriteBatch struct {
	dev     gpu.Device
	enabled bool

	// accumulator for the frame being prepared
	quads   []gpu.Quad
	insts   []gpu.Instance
	current gpu.Texture
	open    bool
	start   int
	ends    int

	// data frozen by SubmitBatchDataAndResetCache for the draws of this frame
	frameQuads []gpu.Quad
	frameInsts []gpu.Instance
	stats      BatchStats
}

// BatchStats counts the work of the last submitted frame.
type BatchStats struct {
	Batches   int // EndBatch calls
	Instances int // sprites pushed
	Draws     int // Draw calls issued
}

// NewSpriteBatch returns an enabled batch drawing on dev.
func NewSpriteBatch(dev gpu.Device) *SpriteBatch {
	return &SpriteBatch{dev: dev, enabled: true}
}

// Enabled reports whether adjacent sprites merge.
func (b *SpriteBatch) Enabled() bool { return b.enabled }

// SetEnabled turns merging on or off. With merging off every sprite ends
// its own batch.
func (b *SpriteBatch) SetEnabled(v bool) { b.enabled = v }

// CurrentTexture returns the texture of the open batch, or nil.
func (b *SpriteBatch) CurrentTexture() gpu.Texture {
	if !b.open {
		return nil
	}
	return b.current
}

// BeginBatch opens a batch for tex at the current accumulator position.
func (b *SpriteBatch) BeginBatch(tex gpu.Texture) {
	if b.open {
		panic("canopy: SpriteBatch.BeginBatch: batch already open")
	}
	b.open = true
	b.current = tex
	b.start = len(b.insts)
}

// PushSprite appends one sprite to the open batch.
func (b *SpriteBatch) PushSprite(q gpu.Quad, in gpu.Instance) {
	if !b.open {
		panic("canopy: SpriteBatch.PushSprite: no open batch")
	}
	b.quads = append(b.quads, q)
	b.insts = append(b.insts, in)
}

// EndBatch closes the open batch and returns the instance range pushed
// since BeginBatch.
func (b *SpriteBatch) EndBatch() (offset, count int) {
	if !b.open {
		panic("canopy: SpriteBatch.EndBatch: no open batch")
	}
	offset, count = b.start, len(b.insts)-b.start
	b.open = false
	b.current = nil
	b.ends++
	return offset, count
}

// SubmitBatchDataAndResetCache freezes the accumulated instances for this
// frame's draws and empties the accumulator for the next frame. A batch
// left open is closed.
func (b *SpriteBatch) SubmitBatchDataAndResetCache() {
	if b.open {
		b.EndBatch()
	}
	b.frameQuads, b.quads = b.quads, b.frameQuads[:0]
	b.frameInsts, b.insts = b.insts, b.frameInsts[:0]
	b.stats = BatchStats{Batches: b.ends, Instances: len(b.frameInsts)}
	b.ends = 0
}

// Stats returns the counters of the last submitted frame.
func (b *SpriteBatch) Stats() BatchStats { return b.stats }

// Draw issues one instanced draw of the submitted range [offset,
// offset+count) sampling tex.
func (b *SpriteBatch) Draw(target, tex gpu.Texture, world f64.Aff3, scissor image.Rectangle, blend BlendType, offset, count int) {
	if count <= 0 || offset < 0 || offset+count > len(b.frameInsts) {
		return
	}
	b.dev.DrawQuads(&gpu.QuadOp{
		Target:    target,
		Images:    [3]gpu.Texture{tex},
		Pipeline:  gpu.PipelineSprite,
		Blend:     blend.gpu(),
		Quads:     b.frameQuads[offset : offset+count],
		Instances: b.frameInsts[offset : offset+count],
		World:     world,
		Scissor:   scissor,
	})
	b.stats.Draws++
}

// BatchRun is a maximal run of sort-adjacent items drawn with one call.
type BatchRun struct {
	Start, Count int
}

// canMerge reports whether next may join the run that cur belongs to.
func canMerge(cur, next BatchItem) bool {
	return next.Batchable && next.Visible && next.Texture != nil &&
		next.Texture == cur.Texture && next.Blend == cur.Blend
}

// ComputeBatchRuns splits items, given in sort order, into draw runs with
// the same greedy forward test sprites apply during StageBeforeRender. Items
// that are not batchable or not visible belong to no run and break the run
// before them.
func ComputeBatchRuns(items []BatchItem) []BatchRun {
	var runs []BatchRun
	for i := 0; i < len(items); {
		it := items[i]
		if !it.Batchable || !it.Visible || it.Texture == nil {
			i++
			continue
		}
		j := i + 1
		for j < len(items) && canMerge(items[j-1], items[j]) {
			j++
		}
		runs = append(runs, BatchRun{Start: i, Count: j - i})
		i = j
	}
	return runs
}
