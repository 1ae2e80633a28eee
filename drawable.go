package canopy

// drawableBase holds the state every drawable shares: its node, the viewport
// it lives in, its z and its visibility.
type drawableBase struct {
	e        *Engine
	node     DrawableNode
	parent   *Viewport
	z        int
	visible  bool
	disposed bool
}

func (d *drawableBase) init(e *Engine, parent *Viewport, label string, h Handler) {
	d.e = e
	d.parent = parent
	d.visible = true
	d.node = e.arena.NewNode(e.controllerFor(parent))
	d.node.SetDebugLabel(label)
	d.node.RegisterEventHandler(h)
}

// Viewport returns the viewport the drawable renders into, or nil for the
// screen.
func (d *drawableBase) Viewport() *Viewport {
	if d.disposed {
		return nil
	}
	return d.parent
}

// SetViewport moves the drawable into v. A nil v moves it to the screen.
func (d *drawableBase) SetViewport(v *Viewport) error {
	if d.disposed {
		return opError("set viewport", ErrDisposed)
	}
	if v != nil && v.IsDisposed() {
		return opError("set viewport", ErrDisposed)
	}
	d.parent = v
	d.node.RebindController(d.e.controllerFor(v))
	return nil
}

// Z returns the paint order weight.
func (d *drawableBase) Z() int {
	if d.disposed {
		return 0
	}
	return d.z
}

// SetZ re-keys the drawable to (z).
func (d *drawableBase) SetZ(z int) {
	if d.disposed {
		return
	}
	d.z = z
	d.node.SetNodeSortWeight(int64(z))
}

// Visible reports whether the drawable is drawn.
func (d *drawableBase) Visible() bool { return !d.disposed && d.visible }

// SetVisible shows or hides the drawable.
func (d *drawableBase) SetVisible(v bool) {
	if d.disposed {
		return
	}
	d.visible = v
	d.node.SetNodeVisibility(visibilityOf(v))
}

// IsDisposed reports whether Dispose has been called.
func (d *drawableBase) IsDisposed() bool { return d.disposed }

// Node returns the drawable's scene graph node.
func (d *drawableBase) Node() DrawableNode { return d.node }

func (d *drawableBase) dispose() bool {
	if d.disposed {
		return false
	}
	d.node.DisposeNode()
	d.disposed = true
	return true
}

func visibilityOf(v bool) Visibility {
	if v {
		return Visible
	}
	return Invisible
}

// RenderFunc is a custom drawable callback.
type RenderFunc func(p *RenderParams)

// Drawable is a node whose rendering is supplied by the caller. It is the
// escape hatch for effects the built-in drawables do not cover.
type Drawable struct {
	drawableBase
	funcs [3]RenderFunc
}

// NewDrawable creates an empty custom drawable in parent.
func NewDrawable(e *Engine, parent *Viewport) *Drawable {
	d := &Drawable{}
	d.init(e, parent, "drawable", d.handle)
	return d
}

// SetupRender installs fn for stage. A nil fn removes it.
func (d *Drawable) SetupRender(stage Stage, fn RenderFunc) {
	if int(stage) < len(d.funcs) {
		d.funcs[stage] = fn
	}
}

// ParentRect returns the bound of the enclosing viewport.
func (d *Drawable) ParentRect() Rect { return d.node.ParentViewport().Bound }

// ParentOX returns the horizontal scroll of the enclosing viewport.
func (d *Drawable) ParentOX() int { return d.node.ParentViewport().Origin.X }

// ParentOY returns the vertical scroll of the enclosing viewport.
func (d *Drawable) ParentOY() int { return d.node.ParentViewport().Origin.Y }

// Dispose removes the drawable.
func (d *Drawable) Dispose() {
	if d.dispose() {
		d.funcs = [3]RenderFunc{}
	}
}

func (d *Drawable) handle(stage Stage, p *RenderParams) {
	fn := d.funcs[stage]
	if fn == nil {
		return
	}
	depth := 0
	if p.Scissor != nil {
		depth = p.Scissor.Depth()
	}
	fn(p)
	if p.Scissor != nil {
		p.Scissor.Reset(depth)
	}
}
