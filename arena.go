package canopy

// Arena owns the storage of every DrawableNode created by one engine. It is
// a slot map: a DrawableNode is an (index, generation) handle, so a handle
// that outlives its node is detected instead of dangling.
//
// An Arena is not safe for concurrent use; the whole scene graph lives on
// the render goroutine.
type Arena struct {
	slots []nodeSlot
	free  []int32

	// stamp is the creation counter written into default sort keys.
	stamp int64

	// scratch holds one snapshot buffer per broadcast nesting depth.
	scratch [][]DrawableNode
	depth   int
}

type nodeSlot struct {
	gen        uint32
	live       bool
	key        SortKey
	visibility Visibility
	handler    Handler
	controller *DrawNodeController
	batch      Batchable
	label      string
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return len(a.slots) - len(a.free)
}

// NewNode allocates a node with the default key (0, 0, creation stamp) and
// inserts it into c when c is non-nil.
func (a *Arena) NewNode(c *DrawNodeController) DrawableNode {
	a.stamp++
	return a.NewNodeWithKey(c, SortKey{Weight: [3]int64{0, 0, a.stamp}})
}

// NewNodeWithKey allocates a node with an explicit key.
func (a *Arena) NewNodeWithKey(c *DrawNodeController, key SortKey) DrawableNode {
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, nodeSlot{})
		idx = int32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	gen := s.gen + 1
	*s = nodeSlot{gen: gen, live: true, key: key}
	n := DrawableNode{arena: a, index: idx, gen: gen}
	if c != nil {
		n.RebindController(c)
	}
	return n
}

func (a *Arena) slot(n DrawableNode) *nodeSlot {
	if a == nil || n.index < 0 || int(n.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[n.index]
	if !s.live || s.gen != n.gen {
		return nil
	}
	return s
}

func (a *Arena) release(n DrawableNode) {
	s := a.slot(n)
	if s == nil {
		return
	}
	gen := s.gen
	*s = nodeSlot{gen: gen}
	a.free = append(a.free, n.index)
}

// acquireScratch returns the snapshot buffer for the current nesting depth.
func (a *Arena) acquireScratch() []DrawableNode {
	if a.depth == len(a.scratch) {
		a.scratch = append(a.scratch, nil)
	}
	buf := a.scratch[a.depth][:0]
	a.depth++
	return buf
}

func (a *Arena) releaseScratch(buf []DrawableNode) {
	a.depth--
	clear(buf)
	a.scratch[a.depth] = buf[:0]
}
