package soft

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

type raster struct {
	dst   *image.NRGBA
	clip  image.Rectangle
	world f64.Aff3
	blend gpu.BlendType
}

type shader struct {
	pipeline gpu.Pipeline
	images   [3]*Texture
	instance *gpu.Instance
	effect   *gpu.Effect
	target   *Texture
}

type point struct {
	x, y float64
}

// edge is twice the signed area of (a, b, p).
func edge(a, b, p point) float64 {
	return (p.x-a.x)*(b.y-a.y) - (p.y-a.y)*(b.x-a.x)
}

// owns reports whether a pixel centre lying exactly on edge a->b belongs to
// this triangle. A shared edge is walked in opposite directions by its two
// triangles, so exactly one of them owns it.
func owns(a, b point) bool {
	dy := b.y - a.y
	return dy > 0 || (dy == 0 && b.x < a.x)
}

func (r *raster) triangle(v0, v1, v2 gpu.Vertex, sh *shader) {
	p := [3]point{r.project(v0), r.project(v1), r.project(v2)}
	vs := [3]gpu.Vertex{v0, v1, v2}
	area := edge(p[0], p[1], p[2])
	if area == 0 {
		return
	}
	if area < 0 {
		p[1], p[2] = p[2], p[1]
		vs[1], vs[2] = vs[2], vs[1]
		area = -area
	}

	minX := math.Floor(math.Min(p[0].x, math.Min(p[1].x, p[2].x)))
	maxX := math.Ceil(math.Max(p[0].x, math.Max(p[1].x, p[2].x)))
	minY := math.Floor(math.Min(p[0].y, math.Min(p[1].y, p[2].y)))
	maxY := math.Ceil(math.Max(p[0].y, math.Max(p[1].y, p[2].y)))
	bounds := image.Rect(int(minX), int(minY), int(maxX), int(maxY)).Intersect(r.clip)
	if bounds.Empty() {
		return
	}

	own0, own1, own2 := owns(p[1], p[2]), owns(p[2], p[0]), owns(p[0], p[1])
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := point{float64(x) + 0.5, float64(y) + 0.5}
			w0 := edge(p[1], p[2], c)
			w1 := edge(p[2], p[0], c)
			w2 := edge(p[0], p[1], c)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			if (w0 == 0 && !own0) || (w1 == 0 && !own1) || (w2 == 0 && !own2) {
				continue
			}
			b0, b1, b2 := float32(w0/area), float32(w1/area), float32(w2/area)
			u := b0*vs[0].U + b1*vs[1].U + b2*vs[2].U
			v := b0*vs[0].V + b1*vs[1].V + b2*vs[2].V
			col := gpu.Vec4{
				b0*vs[0].R + b1*vs[1].R + b2*vs[2].R,
				b0*vs[0].G + b1*vs[1].G + b2*vs[2].G,
				b0*vs[0].B + b1*vs[1].B + b2*vs[2].B,
				b0*vs[0].A + b1*vs[1].A + b2*vs[2].A,
			}
			out, ok := sh.shade(x, y, u, v, col)
			if !ok {
				continue
			}
			r.put(x, y, out)
		}
	}
}

func (r *raster) project(v gpu.Vertex) point {
	x, y := gpu.Apply(r.world, float64(v.X), float64(v.Y))
	return point{x, y}
}

func (sh *shader) shade(x, y int, u, v float32, col gpu.Vec4) (gpu.Vec4, bool) {
	switch sh.pipeline {
	case gpu.PipelineColor:
		return col, true
	case gpu.PipelineSprite:
		c := gpu.Mul(sample(sh.images[0], u, v), col)
		if sh.instance != nil {
			c = gpu.ShadeSprite(c, v, sh.instance)
		}
		return c, true
	case gpu.PipelineFlat:
		c := gpu.Mul(sample(sh.images[0], u, v), col)
		return gpu.ShadeFlat(c, sh.effect), true
	case gpu.PipelineAlphaTransition:
		frozen := sample(sh.images[0], u, v)
		current := sample(sh.images[1], u, v)
		return gpu.MixTransition(frozen, current, sh.effect.Progress), true
	case gpu.PipelineVagueTransition:
		frozen := sample(sh.images[0], u, v)
		current := sample(sh.images[1], u, v)
		m := sampleScaled(sh.images[2], sh.images[0], u, v)
		a := gpu.VagueAlpha(m[0], sh.effect.Progress, sh.effect.Vague)
		return gpu.MixTransition(current, frozen, a), true
	default:
		return gpu.Mul(sample(sh.images[0], u, v), col), true
	}
}

// sample returns the nearest texel of t at (u, v), or opaque white for a nil
// texture.
func sample(t *Texture, u, v float32) gpu.Vec4 {
	if t == nil {
		return gpu.Vec4{1, 1, 1, 1}
	}
	b := t.img.Bounds()
	x := clampInt(int(math.Floor(float64(u))), 0, b.Dx()-1)
	y := clampInt(int(math.Floor(float64(v))), 0, b.Dy()-1)
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	return gpu.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

// sampleScaled samples t at the position (u, v) of ref rescaled to t's size.
func sampleScaled(t, ref *Texture, u, v float32) gpu.Vec4 {
	if t == nil {
		return gpu.Vec4{}
	}
	if ref != nil {
		tw, th := t.Size()
		rw, rh := ref.Size()
		u = u * float32(tw) / float32(rw)
		v = v * float32(th) / float32(rh)
	}
	return sample(t, u, v)
}

func (r *raster) put(x, y int, s gpu.Vec4) {
	i := r.dst.PixOffset(x, y)
	p := r.dst.Pix[i : i+4 : i+4]
	if r.blend == gpu.BlendReplace {
		p[0], p[1], p[2], p[3] = unorm(s[0]), unorm(s[1]), unorm(s[2]), unorm(s[3])
		return
	}
	da := float32(p[3]) / 255
	sa := clamp(s[3])
	var pd, ps [3]float32
	for c := 0; c < 3; c++ {
		pd[c] = float32(p[c]) / 255 * da
		ps[c] = clamp(s[c]) * sa
	}
	var out [3]float32
	var oa float32
	switch r.blend {
	case gpu.BlendAdd:
		for c := range out {
			out[c] = clamp(ps[c] + pd[c])
		}
		oa = clamp(sa + da)
	case gpu.BlendSub:
		for c := range out {
			out[c] = clamp(pd[c] - ps[c])
		}
		oa = da
	default:
		for c := range out {
			out[c] = ps[c] + pd[c]*(1-sa)
		}
		oa = sa + da*(1-sa)
	}
	if oa <= 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	for c := range out {
		p[c] = unorm(out[c] / oa)
	}
	p[3] = unorm(oa)
}

func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unorm(v float32) uint8 {
	return uint8(clamp(v)*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
