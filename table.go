package canopy

import (
	"encoding/binary"
	"fmt"
)

// Table is a dense x*y*z grid of int16 values, the storage format of map
// data, flash data and tile priorities. Reads outside the grid return 0 and
// writes outside it are ignored.
type Table struct {
	xsize, ysize, zsize int
	data                []int16

	observers observerList
}

// NewTable allocates a zeroed table. Sizes below 1 are raised to 1.
func NewTable(x, y, z int) *Table {
	t := &Table{}
	t.Resize(x, y, z)
	return t
}

// XSize returns the first dimension.
func (t *Table) XSize() int { return t.xsize }

// YSize returns the second dimension.
func (t *Table) YSize() int { return t.ysize }

// ZSize returns the third dimension.
func (t *Table) ZSize() int { return t.zsize }

// Resize changes the dimensions, keeping every value whose coordinates are
// still inside the grid.
func (t *Table) Resize(x, y, z int) {
	x, y, z = max(x, 1), max(y, 1), max(z, 1)
	data := make([]int16, x*y*z)
	for k := 0; k < min(z, t.zsize); k++ {
		for j := 0; j < min(y, t.ysize); j++ {
			for i := 0; i < min(x, t.xsize); i++ {
				data[i+x*(j+y*k)] = t.data[t.index(i, j, k)]
			}
		}
	}
	t.xsize, t.ysize, t.zsize = x, y, z
	t.data = data
	t.notify()
}

func (t *Table) index(x, y, z int) int {
	return x + t.xsize*(y+t.ysize*z)
}

func (t *Table) inside(x, y, z int) bool {
	return x >= 0 && x < t.xsize && y >= 0 && y < t.ysize && z >= 0 && z < t.zsize
}

// Get returns the value at (x, y, z).
func (t *Table) Get(x, y, z int) int16 {
	if t == nil || !t.inside(x, y, z) {
		return 0
	}
	return t.data[t.index(x, y, z)]
}

// Set stores v at (x, y, z) and notifies observers.
func (t *Table) Set(x, y, z int, v int16) {
	if !t.inside(x, y, z) {
		return
	}
	i := t.index(x, y, z)
	if t.data[i] == v {
		return
	}
	t.data[i] = v
	t.notify()
}

// AddObserver registers fn to run after every change. The returned func
// removes it.
func (t *Table) AddObserver(fn func()) (remove func()) {
	return t.observers.add(fn)
}

func (t *Table) notify() { t.observers.notify() }

// tableHeaderSize is the marshalled header: dimension count, x, y, z and
// element count, each a little-endian int32.
const tableHeaderSize = 20

// MarshalBinary encodes the table in the RGSS Table layout.
func (t *Table) MarshalBinary() ([]byte, error) {
	buf := make([]byte, tableHeaderSize+2*len(t.data))
	dims := 1
	if t.zsize > 1 {
		dims = 3
	} else if t.ysize > 1 {
		dims = 2
	}
	for i, v := range []int{dims, t.xsize, t.ysize, t.zsize, len(t.data)} {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	for i, v := range t.data {
		binary.LittleEndian.PutUint16(buf[tableHeaderSize+2*i:], uint16(v))
	}
	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary and notifies
// observers.
func (t *Table) UnmarshalBinary(data []byte) error {
	if len(data) < tableHeaderSize {
		return opError("unmarshal table", fmt.Errorf("header: %w", ErrInvalidData))
	}
	var h [5]int
	for i := range h {
		h[i] = int(int32(binary.LittleEndian.Uint32(data[4*i:])))
	}
	x, y, z, n := h[1], h[2], h[3], h[4]
	if n < 1 || n > (len(data)-tableHeaderSize)/2 || x < 1 || y < 1 || z < 1 ||
		x > n || y > n || z > n || n != x*y*z {
		return opError("unmarshal table", fmt.Errorf("%dx%dx%d: %w", x, y, z, ErrInvalidData))
	}
	t.xsize, t.ysize, t.zsize = x, y, z
	t.data = make([]int16, n)
	for i := range t.data {
		t.data[i] = int16(binary.LittleEndian.Uint16(data[tableHeaderSize+2*i:]))
	}
	t.notify()
	return nil
}
