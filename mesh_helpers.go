package canopy

import (
	"github.com/phanxgames/canopy/gpu"
)

// --- DistortionGrid ---

// DistortionGrid is a grid mesh over a bitmap that can be deformed
// per-vertex.
type DistortionGrid struct {
	mesh    *Mesh
	cols    int
	rows    int
	restPos []Point
}

// NewDistortionGrid creates a grid mesh covering tex at (0, 0). cols and
// rows define the number of cells; vertices = (cols+1) * (rows+1).
func NewDistortionGrid(e *Engine, parent *Viewport, tex *Bitmap, cols, rows int) *DistortionGrid {
	cols, rows = max(cols, 1), max(rows, 1)
	var w, h int
	if tex != nil {
		w, h = tex.Width(), tex.Height()
	}

	vcols, vrows := cols+1, rows+1
	verts := make([]gpu.Vertex, vcols*vrows)
	inds := make([]uint32, 0, cols*rows*6)
	rest := make([]Point, len(verts))

	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			idx := r*vcols + c
			x, y := c*w/cols, r*h/rows
			verts[idx] = gpu.Vertex{
				X: float32(x), Y: float32(y),
				U: float32(x), V: float32(y),
				R: 1, G: 1, B: 1, A: 1,
			}
			rest[idx] = Point{x, y}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint32(r*vcols + c)
			tr := tl + 1
			bl := uint32((r+1)*vcols + c)
			br := bl + 1
			inds = append(inds, tl, bl, tr, tr, bl, br)
		}
	}
	return &DistortionGrid{
		mesh:    NewMesh(e, parent, tex, verts, inds),
		cols:    cols,
		rows:    rows,
		restPos: rest,
	}
}

// Mesh returns the underlying mesh.
func (g *DistortionGrid) Mesh() *Mesh { return g.mesh }

// Cols returns the number of grid columns.
func (g *DistortionGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *DistortionGrid) Rows() int { return g.rows }

// SetVertex offsets a single grid vertex by (dx, dy) from its rest position.
func (g *DistortionGrid) SetVertex(col, row int, dx, dy float64) {
	if col < 0 || col > g.cols || row < 0 || row > g.rows {
		return
	}
	idx := row*(g.cols+1) + col
	rest := g.restPos[idx]
	g.mesh.vertices[idx].X = float32(float64(rest.X) + dx)
	g.mesh.vertices[idx].Y = float32(float64(rest.Y) + dy)
}

// SetAllVertices calls fn for each vertex with its column, row and rest
// position; fn returns the displacement from the rest position.
func (g *DistortionGrid) SetAllVertices(fn func(col, row int, restX, restY float64) (dx, dy float64)) {
	for r := 0; r <= g.rows; r++ {
		for c := 0; c <= g.cols; c++ {
			rest := g.restPos[r*(g.cols+1)+c]
			dx, dy := fn(c, r, float64(rest.X), float64(rest.Y))
			g.SetVertex(c, r, dx, dy)
		}
	}
}

// Reset returns all vertices to their rest positions.
func (g *DistortionGrid) Reset() {
	for i, rest := range g.restPos {
		g.mesh.vertices[i].X = float32(rest.X)
		g.mesh.vertices[i].Y = float32(rest.Y)
	}
}

// --- Polygon ---

// NewPolygon creates an untextured convex polygon filled with c.
func NewPolygon(e *Engine, parent *Viewport, points []Point, c Color) *Mesh {
	verts, inds := buildPolygonFan(points, c)
	return NewMesh(e, parent, nil, verts, inds)
}

// SetPolygonPoints replaces the outline of a polygon made by NewPolygon,
// keeping the color of its first vertex.
func SetPolygonPoints(m *Mesh, points []Point) {
	c := ColorWhite
	if len(m.vertices) > 0 {
		v := m.vertices[0]
		c = Color{float64(v.R), float64(v.G), float64(v.B), float64(v.A)}
	}
	m.SetGeometry(buildPolygonFan(points, c))
}

// buildPolygonFan fan-triangulates points: N vertices, 3*(N-2) indices.
func buildPolygonFan(points []Point, c Color) ([]gpu.Vertex, []uint32) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}
	col := c.vec4()
	verts := make([]gpu.Vertex, n)
	for i, p := range points {
		verts[i] = gpu.Vertex{X: float32(p.X), Y: float32(p.Y), R: col[0], G: col[1], B: col[2], A: col[3]}
	}
	inds := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint32(i), uint32(i+1))
	}
	return verts, inds
}
