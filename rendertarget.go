package canopy

import (
	"math/bits"

	"github.com/phanxgames/canopy/gpu"
)

// layerPool hands out intermediate textures keyed by power-of-two
// dimensions. Viewports use them as the source copy of the effect pass.
// After warmup Acquire and Release do not allocate.
type layerPool struct {
	dev     gpu.Device
	buckets map[uint64][]gpu.Texture
	live    int
}

func newLayerPool(dev gpu.Device) *layerPool {
	return &layerPool{dev: dev}
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a texture of at least w x h pixels, rounded up to powers
// of two and capped at the device limit. Contents are undefined.
func (p *layerPool) Acquire(w, h int) (gpu.Texture, error) {
	limit := p.dev.MaxTextureSize()
	pw := min(nextPowerOfTwo(w), limit)
	ph := min(nextPowerOfTwo(h), limit)
	key := poolKey(pw, ph)

	if stack := p.buckets[key]; len(stack) > 0 {
		tex := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		p.live++
		return tex, nil
	}
	tex, err := p.dev.NewTexture(pw, ph)
	if err != nil {
		return nil, err
	}
	p.live++
	return tex, nil
}

// Release returns tex to the pool.
func (p *layerPool) Release(tex gpu.Texture) {
	if tex == nil {
		return
	}
	w, h := tex.Size()
	if p.buckets == nil {
		p.buckets = make(map[uint64][]gpu.Texture)
	}
	p.buckets[poolKey(w, h)] = append(p.buckets[poolKey(w, h)], tex)
	p.live--
}

// Live returns the number of acquired, unreleased layers.
func (p *layerPool) Live() int { return p.live }

func (p *layerPool) close() {
	for k, stack := range p.buckets {
		for _, tex := range stack {
			tex.Dispose()
		}
		delete(p.buckets, k)
	}
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// layer is a grow-only intermediate texture owned by one viewport.
type layer struct {
	tex  gpu.Texture
	w, h int
}

// ensure makes the layer at least w x h, keeping the larger of the old and
// new requirement in each dimension.
func (l *layer) ensure(pool *layerPool, w, h int) error {
	if l.tex != nil && w <= l.w && h <= l.h {
		return nil
	}
	w, h = max(w, l.w), max(h, l.h)
	tex, err := pool.Acquire(w, h)
	if err != nil {
		return err
	}
	l.release(pool)
	l.tex = tex
	l.w, l.h = tex.Size()
	return nil
}

func (l *layer) release(pool *layerPool) {
	if l.tex != nil {
		pool.Release(l.tex)
		l.tex = nil
	}
}
