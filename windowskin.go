package canopy

import (
	"image"

	"github.com/phanxgames/canopy/gpu"
)

// windowskinScale is the ratio between windowskin texels and the layout
// unit the region tables are written in.
const windowskinScale = 2

// skinRect returns a windowskin region given in layout units.
func skinRect(x, y, w, h int) Rect {
	s := windowskinScale
	return Rect{x * s, y * s, w * s, h * s}
}

// appendTiled covers dst with repetitions of src, cropping the last row and
// column so nothing is stretched.
func appendTiled(quads []gpu.Quad, dst, src Rect, c gpu.Vec4) []gpu.Quad {
	if dst.Empty() || src.Empty() {
		return quads
	}
	for y := 0; y < dst.Height; y += src.Height {
		h := min(src.Height, dst.Height-y)
		for x := 0; x < dst.Width; x += src.Width {
			w := min(src.Width, dst.Width-x)
			quads = append(quads, gpu.NewQuad(
				Rect{dst.X + x, dst.Y + y, w, h}.rectF(),
				Rect{src.X, src.Y, w, h}.rectF(),
				c))
		}
	}
	return quads
}

// appendQuad appends a single src to dst quad. Empty rects are skipped.
func appendQuad(quads []gpu.Quad, dst, src Rect, c gpu.Vec4) []gpu.Quad {
	if dst.Empty() || src.Empty() {
		return quads
	}
	return append(quads, gpu.NewQuad(dst.rectF(), src.rectF(), c))
}

// nineSliceRects splits r into corners, edges and center with a border of
// unit pixels, in the order LT, RT, RB, LB, left, right, top, bottom, center.
func nineSliceRects(r Rect, unit int) [9]Rect {
	l, t := r.X, r.Y
	rt, b := r.X+r.Width, r.Y+r.Height
	iw, ih := r.Width-2*unit, r.Height-2*unit
	return [9]Rect{
		{l, t, unit, unit},
		{rt - unit, t, unit, unit},
		{rt - unit, b - unit, unit, unit},
		{l, b - unit, unit, unit},
		{l, t + unit, unit, ih},
		{rt - unit, t + unit, unit, ih},
		{l + unit, t, iw, unit},
		{l + unit, b - unit, iw, unit},
		{l + unit, t + unit, iw, ih},
	}
}

// appendCursor appends the stretched 9-slice of src over dst.
func appendCursor(quads []gpu.Quad, dst, src Rect, unit int, c gpu.Vec4) []gpu.Quad {
	if dst.Empty() {
		return quads
	}
	d, s := nineSliceRects(dst, unit), nineSliceRects(src, unit)
	for i := range d {
		quads = appendQuad(quads, d[i], s[i], c)
	}
	return quads
}

// scrollArrows reports which scroll arrows a window with the given inner
// size shows for contents of size cw x ch scrolled to (ox, oy).
type scrollArrows struct {
	left, up, right, down bool
}

func arrowsFor(innerW, innerH, cw, ch, ox, oy int) scrollArrows {
	return scrollArrows{
		left:  ox > 0,
		up:    oy > 0,
		right: innerW < cw-ox,
		down:  innerH < ch-oy,
	}
}

// appendArrows appends the arrow quads of a window at bound. srcX is the
// left edge of the arrow block in layout units.
func appendArrows(quads []gpu.Quad, bound Rect, a scrollArrows, srcX int, c gpu.Vec4) []gpu.Quad {
	s := windowskinScale
	sx := bound.X + (bound.Width-8*s)/2
	sy := bound.Y + (bound.Height-8*s)/2
	if a.up {
		quads = appendQuad(quads, Rect{sx, bound.Y + 2*s, 8 * s, 4 * s}, skinRect(srcX+4, 8, 8, 4), c)
	}
	if a.down {
		quads = appendQuad(quads, Rect{sx, bound.Y + bound.Height - 6*s, 8 * s, 4 * s}, skinRect(srcX+4, 20, 8, 4), c)
	}
	if a.left {
		quads = appendQuad(quads, Rect{bound.X + 2*s, sy, 4 * s, 8 * s}, skinRect(srcX, 12, 4, 8), c)
	}
	if a.right {
		quads = appendQuad(quads, Rect{bound.X + bound.Width - 6*s, sy, 4 * s, 8 * s}, skinRect(srcX+12, 12, 4, 8), c)
	}
	return quads
}

// appendFrame appends the four corners and the tiled sides of a frame
// covering bound. srcX is the left edge of the frame block in layout units.
func appendFrame(quads []gpu.Quad, bound Rect, srcX int, c gpu.Vec4) []gpu.Quad {
	s := windowskinScale
	u := 8 * s
	x, y, w, h := bound.X, bound.Y, bound.Width, bound.Height
	quads = appendQuad(quads, Rect{x, y, u, u}, skinRect(srcX, 0, 8, 8), c)
	quads = appendQuad(quads, Rect{x + w - u, y, u, u}, skinRect(srcX+24, 0, 8, 8), c)
	quads = appendQuad(quads, Rect{x + w - u, y + h - u, u, u}, skinRect(srcX+24, 24, 8, 8), c)
	quads = appendQuad(quads, Rect{x, y + h - u, u, u}, skinRect(srcX, 24, 8, 8), c)

	quads = appendTiled(quads, Rect{x + u, y, w - 2*u, u}, skinRect(srcX+8, 0, 16, 8), c)
	quads = appendTiled(quads, Rect{x + u, y + h - u, w - 2*u, u}, skinRect(srcX+8, 24, 16, 8), c)
	quads = appendTiled(quads, Rect{x, y + u, u, h - 2*u}, skinRect(srcX, 8, 8, 16), c)
	quads = appendTiled(quads, Rect{x + w - u, y + u, u, h - 2*u}, skinRect(srcX+24, 8, 8, 16), c)
	return quads
}

// pauseFrame returns the pause sprite for index 0..31, given the top-left
// of the 2x2 pause block in layout units.
func pauseFrame(index, srcX, srcY int) Rect {
	f := (index / 8) % 4
	return skinRect(srcX+8*(f%2), srcY+8*(f/2), 8, 8)
}

// cursorPulse advances a cursor opacity by one frame.
func cursorPulse(opacity int, fading, active bool) (int, bool) {
	if !active {
		return 128, fading
	}
	if fading {
		opacity -= 8
	} else {
		opacity += 8
	}
	if opacity > 255 {
		return 255, true
	}
	if opacity < 128 {
		return 128, false
	}
	return opacity, fading
}

// drawSkinQuads draws quads sampled from tex with the base pipeline.
func drawSkinQuads(p *RenderParams, tex gpu.Texture, quads []gpu.Quad, scissor image.Rectangle) {
	if len(quads) == 0 || tex == nil || scissor.Empty() {
		return
	}
	p.Device.DrawQuads(&gpu.QuadOp{
		Target:   p.Screen,
		Images:   [3]gpu.Texture{tex},
		Pipeline: gpu.PipelineBase,
		Blend:    gpu.BlendNormal,
		Quads:    quads,
		World:    p.World,
		Scissor:  scissor,
	})
}

// viewportOffset returns the translation from viewport space to target
// pixels.
func viewportOffset(info ViewportInfo) Point {
	return Point{info.Bound.X - info.Origin.X, info.Bound.Y - info.Origin.Y}
}
