package gpu

import "image"

// CallKind identifies a recorded device call.
type CallKind uint8

const (
	CallNewTexture CallKind = iota
	CallDrawQuads
	CallDrawTriangles
	CallCopy
	CallFilter
)

// Call is one recorded device call.
type Call struct {
	Kind      CallKind
	Pipeline  Pipeline
	Blend     BlendType
	Quads     int
	Instances int
	Indices   int
	Target    Texture
	Image     Texture
	Filter    Filter
	Scissor   image.Rectangle
}

// Recorder wraps a Device and records every call made through it. Calls are
// forwarded unchanged, so a Recorder over a working device still renders.
type Recorder struct {
	Device
	Calls []Call
}

// NewRecorder returns a Recorder forwarding to d.
func NewRecorder(d Device) *Recorder {
	return &Recorder{Device: d}
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Count returns the number of recorded calls of kind k.
func (r *Recorder) Count(k CallKind) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Kind == k {
			n++
		}
	}
	return n
}

// Draws returns the recorded quad and triangle draws in order.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Kind == CallDrawQuads || c.Kind == CallDrawTriangles {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) NewTexture(w, h int) (Texture, error) {
	tex, err := r.Device.NewTexture(w, h)
	if err == nil {
		r.Calls = append(r.Calls, Call{Kind: CallNewTexture, Target: tex})
	}
	return tex, err
}

func (r *Recorder) DrawQuads(op *QuadOp) {
	r.Calls = append(r.Calls, Call{
		Kind:      CallDrawQuads,
		Pipeline:  op.Pipeline,
		Blend:     op.Blend,
		Quads:     len(op.Quads),
		Instances: len(op.Instances),
		Target:    op.Target,
		Image:     op.Images[0],
		Scissor:   op.Scissor,
	})
	r.Device.DrawQuads(op)
}

func (r *Recorder) DrawTriangles(op *TriangleOp) {
	r.Calls = append(r.Calls, Call{
		Kind:    CallDrawTriangles,
		Blend:   op.Blend,
		Indices: len(op.Indices),
		Target:  op.Target,
		Image:   op.Image,
		Scissor: op.Scissor,
	})
	r.Device.DrawTriangles(op)
}

func (r *Recorder) Copy(dst Texture, dp image.Point, src Texture, sr image.Rectangle) {
	r.Calls = append(r.Calls, Call{Kind: CallCopy, Target: dst, Image: src})
	r.Device.Copy(dst, dp, src, sr)
}

func (r *Recorder) ApplyFilter(dst Texture, f Filter) {
	r.Calls = append(r.Calls, Call{Kind: CallFilter, Target: dst, Filter: f})
	r.Device.ApplyFilter(dst, f)
}
