package canopy

import (
	"github.com/chewxy/math32"

	"github.com/phanxgames/canopy/gpu"
)

// affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
type affine [6]float32

var identityAffine = affine{1, 0, 0, 1, 0, 0}

// spriteTransform computes the local matrix of a sprite.
//
// Composition order:
//
//	Translate(-ox, -oy) -> Scale(zx, zy) -> Rotate(-angle) -> Translate(x, y)
//
// The angle is in degrees, counter-clockwise on screen.
func spriteTransform(x, y, ox, oy, zx, zy, angle float32) affine {
	if angle == 0 {
		return affine{zx, 0, 0, zy, x - ox*zx, y - oy*zy}
	}
	sin, cos := math32.Sincos(-angle * math32.Pi / 180)
	a, b := cos*zx, sin*zx
	c, d := -sin*zy, cos*zy
	preTx, preTy := -ox*zx, -oy*zy
	return affine{
		a, b, c, d,
		cos*preTx - sin*preTy + x,
		sin*preTx + cos*preTy + y,
	}
}

// apply transforms the point (x, y).
func (m affine) apply(x, y float32) (float32, float32) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// quad maps the local rectangle dst through m and samples src. With mirror
// set the source is flipped horizontally.
func (m affine) quad(dst, src gpu.RectF, mirror bool, c gpu.Vec4) gpu.Quad {
	q := gpu.NewQuad(dst, src, c)
	for i := range q {
		q[i].X, q[i].Y = m.apply(q[i].X, q[i].Y)
	}
	if mirror {
		q[0].U, q[1].U = q[1].U, q[0].U
		q[3].U, q[2].U = q[2].U, q[3].U
	}
	return q
}

// waveBlockHeight is the source row count of one wave slice.
const waveBlockHeight = 8

// waveOffset returns the horizontal displacement of the slice starting at
// source row blockY.
func waveOffset(blockY, amp, length int, phase float32) float32 {
	if length <= 0 {
		length = 1
	}
	rad := phase * math32.Pi / 180
	return math32.Sin(rad+float32(blockY)/float32(length)*math32.Pi) * float32(amp)
}

// fmodPositive wraps v into [0, m).
func fmodPositive(v, m float32) float32 {
	r := math32.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
