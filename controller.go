package canopy

import "sort"

// debugMaxChildCount is the controller size above which debug mode warns.
const debugMaxChildCount = 1000

// DrawNodeController is an ordered index of nodes by SortKey. It owns
// membership only; the drawables owning the nodes control their lifetime.
// Equal keys are permitted and have no defined relative order.
type DrawNodeController struct {
	arena *Arena
	nodes []DrawableNode
	info  ViewportInfo
	debug bool
}

// NewDrawNodeController returns an empty controller over a.
func NewDrawNodeController(a *Arena) *DrawNodeController {
	return &DrawNodeController{arena: a}
}

// Len returns the number of registered nodes.
func (c *DrawNodeController) Len() int { return len(c.nodes) }

// Nodes returns the registered nodes in paint order. The slice is owned by
// the controller and valid until the next mutation.
func (c *DrawNodeController) Nodes() []DrawableNode { return c.nodes }

// ViewportInfo returns the viewport the controller currently renders into.
func (c *DrawNodeController) ViewportInfo() ViewportInfo { return c.info }

// SetViewportInfo sets the viewport info seen by children through
// DrawableNode.ParentViewport.
func (c *DrawNodeController) SetViewportInfo(v ViewportInfo) { c.info = v }

// BroadcastNotification delivers stage to every eligible node in ascending
// key order. The walk runs over a snapshot, so handlers may re-key, dispose
// or re-parent nodes (including themselves) without disturbing the pass:
// every node present at the start is visited at most once, nodes that left
// the controller are skipped, and nodes added during the pass are first seen
// by the next broadcast.
func (c *DrawNodeController) BroadcastNotification(stage Stage, p *RenderParams) {
	a := c.arena
	buf := append(a.acquireScratch(), c.nodes...)
	defer func() { a.releaseScratch(buf) }()

	for _, n := range buf {
		s := a.slot(n)
		if s == nil || s.controller != c || s.handler == nil {
			continue
		}
		switch s.visibility {
		case Invisible:
			continue
		case NotificationReserved:
			if stage != StageNotification {
				continue
			}
		}
		s.handler(stage, p)
	}
}

// Close detaches every still-registered node. The nodes stay alive; their
// owners must still dispose them.
func (c *DrawNodeController) Close() {
	for _, n := range c.nodes {
		if s := c.arena.slot(n); s != nil && s.controller == c {
			s.controller = nil
		}
	}
	clear(c.nodes)
	c.nodes = c.nodes[:0]
}

// upperBound returns the index of the first node whose key is > key.
func (c *DrawNodeController) upperBound(key SortKey) int {
	return sort.Search(len(c.nodes), func(i int) bool {
		return key.Less(c.arena.slots[c.nodes[i].index].key)
	})
}

// lowerBound returns the index of the first node whose key is >= key.
func (c *DrawNodeController) lowerBound(key SortKey) int {
	return sort.Search(len(c.nodes), func(i int) bool {
		return !c.arena.slots[c.nodes[i].index].key.Less(key)
	})
}

// indexOf locates n, which is registered under key.
func (c *DrawNodeController) indexOf(n DrawableNode, key SortKey) int {
	for i := c.lowerBound(key); i < len(c.nodes); i++ {
		if c.nodes[i] == n {
			return i
		}
		if key.Less(c.arena.slots[c.nodes[i].index].key) {
			break
		}
	}
	return -1
}

func (c *DrawNodeController) insert(n DrawableNode, key SortKey) {
	c.insertAt(c.upperBound(key), n)
	if c.debug && len(c.nodes) > debugMaxChildCount {
		Logger().Warn("controller exceeds child threshold",
			"children", len(c.nodes), "threshold", debugMaxChildCount, "node", n.DebugLabel())
	}
}

func (c *DrawNodeController) insertAt(i int, n DrawableNode) {
	c.nodes = append(c.nodes, DrawableNode{})
	copy(c.nodes[i+1:], c.nodes[i:])
	c.nodes[i] = n
}

func (c *DrawNodeController) removeAt(i int) {
	copy(c.nodes[i:], c.nodes[i+1:])
	c.nodes[len(c.nodes)-1] = DrawableNode{}
	c.nodes = c.nodes[:len(c.nodes)-1]
}

func (c *DrawNodeController) remove(n DrawableNode, key SortKey) {
	if i := c.indexOf(n, key); i >= 0 {
		c.removeAt(i)
	}
}

// reorder re-keys n, whose slot is s. The node travels the shortest
// distance: a key that grew lands before the first strictly greater key, one
// that shrank lands after the last strictly smaller key.
func (c *DrawNodeController) reorder(n DrawableNode, s *nodeSlot, key SortKey) {
	old := s.key
	if i := c.indexOf(n, old); i >= 0 {
		c.removeAt(i)
	}
	s.key = key
	if old.Less(key) {
		c.insertAt(c.upperBound(key), n)
	} else {
		c.insertAt(c.lowerBound(key), n)
	}
}
