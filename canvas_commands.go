package canopy

import (
	"image"

	"github.com/phanxgames/canopy/gpu"
)

type commandKind uint8

const (
	cmdClear commandKind = iota
	cmdGradientFillRect
	cmdHueChange
	cmdRadialBlur
	cmdDrawText
)

func (k commandKind) String() string {
	switch k {
	case cmdClear:
		return "clear"
	case cmdGradientFillRect:
		return "gradient_fill_rect"
	case cmdHueChange:
		return "hue_change"
	case cmdRadialBlur:
		return "radial_blur"
	case cmdDrawText:
		return "draw_text"
	}
	return "unknown"
}

// footprint is the number of block bytes a command of each kind occupies.
var footprint = [...]int{
	cmdClear:            16,
	cmdGradientFillRect: 64,
	cmdHueChange:        24,
	cmdRadialBlur:       32,
	cmdDrawText:         48,
}

// paintCommand is one deferred mutation of a bitmap.
type paintCommand struct {
	kind commandKind

	rect     Rect
	c1, c2   Color
	vertical bool

	hue int

	blur            bool
	angle, division int

	text    *image.NRGBA
	opacity float64
	align   TextAlign
}

// blockSize is the size of one command block.
const blockSize = 4096

// blockArena accounts for command storage in fixed-size blocks. A command
// never spans two blocks: when it does not fit in the remainder of the
// current block, that remainder is wasted and the next block is used. Blocks
// are kept across resets.
type blockArena struct {
	blocks int // allocated
	cur    int // index of the block being filled
	used   int // bytes used in the current block
	wasted int
	live   bool // at least one command since the last reset
}

// BlockStats reports the command storage of a bitmap.
type BlockStats struct {
	Blocks  int // blocks allocated, including retained ones
	InUse   int // blocks holding pending commands
	Wasted  int // bytes skipped at block ends since the last reset
	Pending int // queued commands
}

func (a *blockArena) alloc(size int) {
	if !a.live {
		a.live = true
		a.cur, a.used, a.wasted = 0, 0, 0
		if a.blocks == 0 {
			a.blocks = 1
		}
	}
	if a.used+size > blockSize {
		a.wasted += blockSize - a.used
		a.cur++
		a.used = 0
		if a.cur >= a.blocks {
			a.blocks = a.cur + 1
		}
	}
	a.used += size
}

func (a *blockArena) reset() {
	a.live = false
	a.cur, a.used, a.wasted = 0, 0, 0
}

func (a *blockArena) inUse() int {
	if !a.live {
		return 0
	}
	return a.cur + 1
}

// BlockStats returns the command storage statistics.
func (b *Bitmap) BlockStats() BlockStats {
	return BlockStats{
		Blocks:  b.blocks.blocks,
		InUse:   b.blocks.inUse(),
		Wasted:  b.blocks.wasted,
		Pending: len(b.commands),
	}
}

// PendingCommands returns the number of queued commands.
func (b *Bitmap) PendingCommands() int { return len(b.commands) }

func (b *Bitmap) enqueue(cmd paintCommand) {
	b.blocks.alloc(footprint[cmd.kind])
	b.commands = append(b.commands, cmd)
}

func (b *Bitmap) resetCommands() {
	for i := range b.commands {
		b.commands[i] = paintCommand{}
	}
	b.commands = b.commands[:0]
	b.blocks.reset()
}

// SubmitQueuedCommands replays pending commands on the GPU texture in FIFO
// order and empties the queue. An empty queue issues no device calls.
func (b *Bitmap) SubmitQueuedCommands() {
	if b.disposed || len(b.commands) == 0 {
		return
	}
	for i := range b.commands {
		b.execute(&b.commands[i])
	}
	b.resetCommands()
}

func (b *Bitmap) execute(cmd *paintCommand) {
	dev := b.e.dev
	switch cmd.kind {
	case cmdClear:
		dev.DrawQuads(&gpu.QuadOp{
			Target:   b.tex,
			Pipeline: gpu.PipelineColor,
			Blend:    gpu.BlendReplace,
			Quads:    []gpu.Quad{gpu.NewQuad(b.Rect().rectF(), gpu.RectF{}, gpu.Vec4{})},
		})
	case cmdGradientFillRect:
		q := gpu.NewQuad(cmd.rect.rectF(), gpu.RectF{}, cmd.c1.vec4())
		c2 := cmd.c2.vec4()
		if cmd.vertical {
			setVertexColor(&q[2], c2)
			setVertexColor(&q[3], c2)
		} else {
			setVertexColor(&q[1], c2)
			setVertexColor(&q[2], c2)
		}
		dev.DrawQuads(&gpu.QuadOp{
			Target:   b.tex,
			Pipeline: gpu.PipelineColor,
			Blend:    gpu.BlendReplace,
			Quads:    []gpu.Quad{q},
		})
	case cmdHueChange:
		dev.ApplyFilter(b.tex, gpu.HueFilter{Hue: cmd.hue})
	case cmdRadialBlur:
		if cmd.blur {
			dev.ApplyFilter(b.tex, gpu.BlurFilter{})
		} else {
			dev.ApplyFilter(b.tex, gpu.RadialBlurFilter{Angle: cmd.angle, Division: cmd.division})
		}
	case cmdDrawText:
		b.drawText(cmd)
	}
}

func setVertexColor(v *gpu.Vertex, c gpu.Vec4) {
	v.R, v.G, v.B, v.A = c[0], c[1], c[2], c[3]
}

// placeText positions a tw x th text surface in r: centred vertically,
// aligned horizontally and squeezed when wider than r.
func placeText(r Rect, tw, th int, align TextAlign) gpu.RectF {
	zoom := 1.0
	if r.Width < tw {
		zoom = float64(r.Width) / float64(tw)
	}
	dw := float64(tw) * zoom
	x := float64(r.X)
	switch align {
	case AlignCenter:
		x += (float64(r.Width) - dw) / 2
	case AlignRight:
		x += float64(r.Width) - dw
	}
	y := r.Y + (r.Height-th)/2
	return gpu.RectF{X: float32(x), Y: float32(y), W: float32(dw), H: float32(th)}
}

// drawText uploads the rendered text surface and draws it aligned in
// cmd.rect.
func (b *Bitmap) drawText(cmd *paintCommand) {
	tw, th := cmd.text.Bounds().Dx(), cmd.text.Bounds().Dy()
	if tw == 0 || th == 0 {
		return
	}
	tex, err := gpu.NewTextureFrom(b.e.dev, cmd.text)
	if err != nil {
		Logger().Warn("text upload failed", "width", tw, "height", th, "error", err)
		return
	}
	defer tex.Dispose()

	dst := placeText(cmd.rect, tw, th, cmd.align)
	src := gpu.RectF{W: float32(tw), H: float32(th)}
	b.e.dev.DrawQuads(&gpu.QuadOp{
		Target:   b.tex,
		Images:   [3]gpu.Texture{tex},
		Pipeline: gpu.PipelineBase,
		Blend:    gpu.BlendNormal,
		Quads:    []gpu.Quad{gpu.NewQuad(dst, src, gpu.Vec4{1, 1, 1, float32(cmd.opacity)})},
	})
}
