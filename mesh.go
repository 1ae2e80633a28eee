package canopy

import (
	"github.com/phanxgames/canopy/gpu"
)

// Mesh draws an indexed triangle list, optionally textured by a bitmap.
// Vertex positions are in viewport space; U and V are in texels.
type Mesh struct {
	drawableBase

	texture  *Bitmap
	vertices []gpu.Vertex
	indices  []uint32
	blend    BlendType
	tint     Color

	// transformed copy drawn this frame
	drawn []gpu.Vertex
}

// NewMesh creates a mesh in parent (nil for the screen).
func NewMesh(e *Engine, parent *Viewport, tex *Bitmap, vertices []gpu.Vertex, indices []uint32) *Mesh {
	m := &Mesh{texture: tex, vertices: vertices, indices: indices, tint: ColorWhite}
	m.init(e, parent, "mesh", m.handle)
	return m
}

// Texture returns the sampled bitmap, or nil for an untextured mesh.
func (m *Mesh) Texture() *Bitmap { return m.texture }

// SetTexture sets the sampled bitmap. Nil draws vertex colors only.
func (m *Mesh) SetTexture(b *Bitmap) error {
	if m.disposed {
		return opError("mesh set texture", ErrDisposed)
	}
	m.texture = b
	return nil
}

// Vertices returns the vertex slice. Changes made to it are drawn on the
// next frame.
func (m *Mesh) Vertices() []gpu.Vertex { return m.vertices }

// Indices returns the index slice.
func (m *Mesh) Indices() []uint32 { return m.indices }

// SetGeometry replaces vertices and indices.
func (m *Mesh) SetGeometry(vertices []gpu.Vertex, indices []uint32) {
	m.vertices, m.indices = vertices, indices
}

// BlendType returns the blend type.
func (m *Mesh) BlendType() BlendType { return m.blend }

// SetBlendType sets the blend type.
func (m *Mesh) SetBlendType(b BlendType) { m.blend = b }

// Tint returns the color multiplied into every vertex.
func (m *Mesh) Tint() Color { return m.tint }

// SetTint sets the color multiplied into every vertex.
func (m *Mesh) SetTint(c Color) { m.tint = c }

// Dispose removes the mesh. The texture is not disposed.
func (m *Mesh) Dispose() {
	if m.dispose() {
		m.texture = nil
		m.vertices, m.indices, m.drawn = nil, nil, nil
	}
}

func (m *Mesh) handle(stage Stage, p *RenderParams) {
	if stage != StageOnRendering || len(m.indices) < 3 {
		return
	}
	var img gpu.Texture
	if m.texture != nil {
		if m.texture.IsDisposed() {
			return
		}
		img = m.texture.Texture()
	}
	m.drawn = tintVertices(m.drawn[:0], m.vertices, m.tint)
	p.Device.DrawTriangles(&gpu.TriangleOp{
		Target:   p.Screen,
		Image:    img,
		Blend:    m.blend.gpu(),
		Vertices: m.drawn,
		Indices:  m.indices,
		World:    p.World,
		Scissor:  p.Scissor.Current(),
	})
}

// tintVertices appends src to dst with colors multiplied by tint.
func tintVertices(dst, src []gpu.Vertex, tint Color) []gpu.Vertex {
	if tint == ColorWhite {
		return append(dst, src...)
	}
	t := tint.vec4()
	for _, v := range src {
		v.R *= t[0]
		v.G *= t[1]
		v.B *= t[2]
		v.A *= t[3]
		dst = append(dst, v)
	}
	return dst
}
