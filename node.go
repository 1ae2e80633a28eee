package canopy

import (
	"fmt"
	"image"

	"golang.org/x/image/math/f64"

	"github.com/phanxgames/canopy/gpu"
)

// Stage is one phase of the per-frame broadcast.
type Stage uint8

const (
	// StageBeforeRender runs with no render target bound. Handlers rebuild
	// geometry, upload textures and push sprite instances.
	StageBeforeRender Stage = iota
	// StageOnRendering runs with the target and world transform bound.
	// Handlers only issue draws.
	StageOnRendering
	// StageNotification reaches reserved nodes too and never draws.
	StageNotification
)

func (s Stage) String() string {
	switch s {
	case StageBeforeRender:
		return "before-render"
	case StageOnRendering:
		return "on-rendering"
	case StageNotification:
		return "notification"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Visibility filters which stages reach a node.
type Visibility uint8

const (
	Visible              Visibility = iota // receives every stage
	Invisible                              // receives nothing
	NotificationReserved                   // receives StageNotification only
)

// ViewportInfo describes the viewport a controller renders into. Bound is
// the viewport rectangle in target pixels, Origin its scroll offset and Clip
// the part of Bound that survives every enclosing viewport.
type ViewportInfo struct {
	Bound  Rect
	Origin Point
	Clip   Rect
}

// RenderParams is handed to every handler during a broadcast.
type RenderParams struct {
	Device     gpu.Device
	Screen     gpu.Texture // current render target
	ScreenSize image.Point
	Scissor    *ScissorStack // nil outside StageOnRendering
	World      f64.Aff3      // viewport world transform
	Viewport   ViewportInfo
}

// Handler receives broadcast stages for one node.
type Handler func(stage Stage, p *RenderParams)

// BatchItem is a drawable's contribution to the adjacency merge test.
type BatchItem struct {
	Texture   gpu.Texture
	Blend     BlendType
	Visible   bool
	Batchable bool
}

// Batchable is implemented by drawables that take part in sprite batching.
type Batchable interface {
	BatchState() BatchItem
}

// DrawableNode is a handle to a node stored in an Arena. The zero value is
// a detached, already disposed node.
type DrawableNode struct {
	arena *Arena
	index int32
	gen   uint32
}

// Valid reports whether the node has not been disposed.
func (n DrawableNode) Valid() bool { return n.arena.slot(n) != nil }

// RegisterEventHandler binds the node's handler. Binding twice is a wiring
// bug and panics.
func (n DrawableNode) RegisterEventHandler(h Handler) {
	s := n.arena.slot(n)
	if s == nil {
		return
	}
	if s.handler != nil {
		panic(fmt.Sprintf("canopy: node %q already has an event handler", s.label))
	}
	s.handler = h
}

// Controller returns the controller the node belongs to, or nil.
func (n DrawableNode) Controller() *DrawNodeController {
	if s := n.arena.slot(n); s != nil {
		return s.controller
	}
	return nil
}

// RebindController moves the node into c keeping its key. A nil c detaches
// the node.
func (n DrawableNode) RebindController(c *DrawNodeController) {
	s := n.arena.slot(n)
	if s == nil || s.controller == c {
		return
	}
	if s.controller != nil {
		s.controller.remove(n, s.key)
	}
	s.controller = c
	if c != nil {
		c.insert(n, s.key)
	}
}

// SetNodeVisibility sets the broadcast filter. It takes effect on the next
// broadcast that reaches the node.
func (n DrawableNode) SetNodeVisibility(v Visibility) {
	if s := n.arena.slot(n); s != nil {
		s.visibility = v
	}
}

// Visibility returns the broadcast filter.
func (n DrawableNode) Visibility() Visibility {
	if s := n.arena.slot(n); s != nil {
		return s.visibility
	}
	return Invisible
}

// SortKey returns the node's key.
func (n DrawableNode) SortKey() SortKey {
	if s := n.arena.slot(n); s != nil {
		return s.key
	}
	return SortKey{}
}

// SetNodeSortWeight re-keys the node with one to three weights; unset
// weights become zero. It does nothing for a detached node or an unchanged
// key.
func (n DrawableNode) SetNodeSortWeight(w ...int64) {
	s := n.arena.slot(n)
	if s == nil || s.controller == nil {
		return
	}
	key := NewSortKey(w...)
	if key == s.key {
		return
	}
	s.controller.reorder(n, s, key)
}

// DisposeNode removes the node from its controller and frees its slot.
// Calling it again is a no-op.
func (n DrawableNode) DisposeNode() {
	s := n.arena.slot(n)
	if s == nil {
		return
	}
	if s.controller != nil {
		s.controller.remove(n, s.key)
	}
	n.arena.release(n)
}

// NextNode returns the node after n in its controller's order.
func (n DrawableNode) NextNode() (DrawableNode, bool) {
	return n.sibling(1)
}

// PreviousNode returns the node before n in its controller's order.
func (n DrawableNode) PreviousNode() (DrawableNode, bool) {
	return n.sibling(-1)
}

func (n DrawableNode) sibling(dir int) (DrawableNode, bool) {
	s := n.arena.slot(n)
	if s == nil || s.controller == nil {
		return DrawableNode{}, false
	}
	c := s.controller
	i := c.indexOf(n, s.key)
	j := i + dir
	if i < 0 || j < 0 || j >= len(c.nodes) {
		return DrawableNode{}, false
	}
	return c.nodes[j], true
}

// ParentViewport returns the viewport info of the node's controller.
func (n DrawableNode) ParentViewport() ViewportInfo {
	if c := n.Controller(); c != nil {
		return c.info
	}
	return ViewportInfo{}
}

// SetupBatchable attaches the batching capability used by a preceding
// sprite's adjacency test.
func (n DrawableNode) SetupBatchable(b Batchable) {
	if s := n.arena.slot(n); s != nil {
		s.batch = b
	}
}

// Batchable returns the attached batching capability, or nil.
func (n DrawableNode) Batchable() Batchable {
	if s := n.arena.slot(n); s != nil {
		return s.batch
	}
	return nil
}

// SetDebugLabel names the node in logs and panics.
func (n DrawableNode) SetDebugLabel(label string) {
	if s := n.arena.slot(n); s != nil {
		s.label = label
	}
}

// DebugLabel returns the node's label.
func (n DrawableNode) DebugLabel() string {
	if s := n.arena.slot(n); s != nil {
		return s.label
	}
	return ""
}
