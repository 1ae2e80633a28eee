package canopy

import (
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Config.Debug is set.
type debugStats struct {
	flushTime     time.Duration
	prepareTime   time.Duration
	renderTime    time.Duration
	flushed       int
	nodes         int
	batchCount    int
	instanceCount int
	drawCallCount int
}

// FrameStats is a snapshot of the last rendered frame's statistics.
type FrameStats struct {
	Flush    time.Duration // canvas scheduler flush
	Prepare  time.Duration // StageBeforeRender broadcast and batch submit
	Render   time.Duration // StageOnRendering broadcast
	Flushed  int           // canvases flushed
	Nodes    int           // live nodes
	Batches  int
	Sprites  int
	Draws    int // sprite batch draw calls
}

// FrameStats returns the statistics of the last frame rendered in debug
// mode.
func (e *Engine) FrameStats() FrameStats {
	s := e.stats
	return FrameStats{
		Flush:   s.flushTime,
		Prepare: s.prepareTime,
		Render:  s.renderTime,
		Flushed: s.flushed,
		Nodes:   s.nodes,
		Batches: s.batchCount,
		Sprites: s.instanceCount,
		Draws:   s.drawCallCount,
	}
}

// debugLog logs timing and draw-call stats at debug level.
func (e *Engine) debugLog(stats debugStats) {
	if !e.cfg.Debug {
		return
	}
	e.stats = stats
	Logger().Debug("frame",
		"flush", stats.flushTime,
		"prepare", stats.prepareTime,
		"render", stats.renderTime,
		"total", stats.flushTime+stats.prepareTime+stats.renderTime,
		"flushed", stats.flushed,
		"nodes", stats.nodes,
		"batches", stats.batchCount,
		"sprites", stats.instanceCount,
		"draw_calls", stats.drawCallCount)
}
