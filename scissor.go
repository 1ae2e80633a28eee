package canopy

import "image"

// ScissorStack is the stack of active clip rectangles during
// StageOnRendering. Each push is intersected with the current top, so the
// top is always the region every enclosing viewport allows.
type ScissorStack struct {
	stack []image.Rectangle
}

// NewScissorStack returns a stack whose base entry is base.
func NewScissorStack(base image.Rectangle) *ScissorStack {
	return &ScissorStack{stack: []image.Rectangle{base}}
}

// Current returns the active clip rectangle.
func (s *ScissorStack) Current() image.Rectangle {
	return s.stack[len(s.stack)-1]
}

// Push intersects r with the current clip and pushes the result. It reports
// false, pushing nothing, when the intersection is empty.
func (s *ScissorStack) Push(r image.Rectangle) bool {
	clip := s.Current().Intersect(r)
	if clip.Empty() {
		return false
	}
	s.stack = append(s.stack, clip)
	return true
}

// Pop removes the top entry. The base entry is never removed.
func (s *ScissorStack) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Depth returns the number of pushed entries above the base.
func (s *ScissorStack) Depth() int { return len(s.stack) - 1 }

// Reset pops entries until Depth equals depth.
func (s *ScissorStack) Reset(depth int) {
	if depth < 0 {
		depth = 0
	}
	if n := depth + 1; n < len(s.stack) {
		s.stack = s.stack[:n]
	}
}
