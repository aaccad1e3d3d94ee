package wm

import "fmt"

// Create allocates a new window under parent (or the root, if parent is
// nil). rect is parent-relative on input; it is translated to
// screen-absolute coordinates and defensively clipped to the root before
// being stored as w.rect. The unclipped screen-absolute rect is kept as
// w.requested (see RequestedRect) and is what the backing drawable is
// sized to, so a handler that reaches for it during MsgCreate sees the
// geometry it actually asked for rather than the clipped one.
func (m *Manager) Create(parent *Window, rect Rect, handler Handler, id int) (*Window, error) {
	if parent == nil {
		parent = m.root
	}
	if handler == nil {
		handler = NopHandler
	}

	unclipped := rect.Offset(parent.rect.Left, parent.rect.Top)
	clipped, _ := unclipped.Intersect(m.root.rect)

	var drawable Drawable
	if m.makeDrawable != nil {
		d, err := m.makeDrawable(unclipped)
		if err != nil {
			return nil, fmt.Errorf("wm: create window: allocate drawable: %w", err)
		}
		drawable = d
	}

	w := &Window{
		manager:   m,
		parent:    parent,
		drawable:  drawable,
		rect:      clipped,
		requested: unclipped,
		visible:   true,
		id:        id,
		handler:   handler,
	}
	if id == 0 {
		w.id = m.allocID()
	}

	// parent stops being a leaf here, and only leaves may carry dirty.
	parent.dirty = false
	parent.children = append(parent.children, w)

	w.emit(MsgCreate, w)
	m.Invalidate(w)
	return w, nil
}

// Destroy tears w down post-order: children first, then w itself. No
// invalidation of siblings or of the now-uncovered parent area is
// performed; a handler that cares about the hole left behind should
// invalidate it explicitly before or during MsgDestroy.
func (m *Manager) Destroy(w *Window) {
	for len(w.children) > 0 {
		m.Destroy(w.children[0])
	}
	w.emit(MsgDestroy, nil)
	if w.parent != nil {
		w.parent.unlink(w)
	}
	if w.drawable != nil && w != m.root {
		_ = w.drawable.Delete()
	}
}

// destroyTree is Destroy without the sibling-list bookkeeping, used only by
// Shutdown to tear down the whole tree including the root.
func (m *Manager) destroyTree(w *Window) {
	for _, c := range append([]*Window(nil), w.children...) {
		m.destroyTree(c)
	}
	w.children = nil
	w.emit(MsgDestroy, nil)
	if w.drawable != nil && w != m.root {
		_ = w.drawable.Delete()
	}
}

func (p *Window) unlink(child *Window) {
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// SetVisible toggles w's visibility. Showing invalidates w; hiding
// invalidates the parent's full rectangle so whatever becomes the new leaf
// underneath it gets repainted.
func (m *Manager) SetVisible(w *Window, visible bool) {
	if w.visible == visible {
		return
	}
	w.visible = visible
	if visible {
		m.Invalidate(w)
		return
	}
	if w.parent != nil {
		m.invalidateRect(w.parent, w.parent.rect)
	} else {
		m.invalidateRect(w, w.rect)
	}
}

// SetPos repositions w. rect is parent-relative on input. Returns an error
// if an underlying drawable primitive fails; w's stored rectangle is then
// left unchanged, and whatever part of the drawable's resize or move had
// already succeeded is not undone, so the drawable and the stored rect can
// disagree about where the window actually is.
func (m *Manager) SetPos(w *Window, rect Rect) error {
	var requested Rect
	if w.parent != nil {
		requested = rect.Offset(w.parent.rect.Left, w.parent.rect.Top)
	} else {
		requested = rect
	}

	newScreenRect := requested
	if newScreenRect.Equal(w.rect) {
		w.requested = requested
		return nil
	}

	if w != m.root {
		if clipped, ok := newScreenRect.Intersect(m.root.rect); ok {
			newScreenRect = clipped
		} else {
			newScreenRect = Rect{}
		}
	}

	oldParentRelative := w.Rect()
	oldScreenRect := w.rect

	if w.drawable != nil {
		if err := repositionDrawable(w.drawable, oldScreenRect, newScreenRect); err != nil {
			return fmt.Errorf("wm: set_pos: %w", err)
		}
	}

	w.rect = newScreenRect
	w.requested = requested

	union := oldScreenRect.Union(newScreenRect)
	if w.parent != nil {
		m.invalidateRect(w.parent, union)
	} else {
		m.invalidateRect(w, union)
	}

	w.emit(MsgPosChanged, PosChanged{Old: oldParentRelative, New: w.Rect()})
	return nil
}

// repositionDrawable moves and resizes a drawable from oldRect to newRect,
// routing through an intermediate size when necessary so the underlying
// curses library never sees an out-of-bounds move: if moving directly to
// the new origin at the old size would place the drawable off-screen,
// shrink first, then move, then grow to final size.
func repositionDrawable(d Drawable, oldRect, newRect Rect) error {
	if newRect.Width() < oldRect.Width() || newRect.Height() < oldRect.Height() {
		if err := d.Resize(newRect.Height(), newRect.Width()); err != nil {
			return err
		}
	}
	if err := d.MoveWindow(newRect.Top, newRect.Left); err != nil {
		return err
	}
	return d.Resize(newRect.Height(), newRect.Width())
}

// Invalidate clips w's rectangle through all ancestors and marks the
// affected leaves dirty. A no-op if any ancestor is invisible or clipping
// yields an empty rectangle.
func (m *Manager) Invalidate(w *Window) {
	if !w.isVisibleChain() {
		return
	}
	clipped := w.rect
	for a := w.parent; a != nil; a = a.parent {
		c, ok := clipped.Intersect(a.rect)
		if !ok {
			return
		}
		clipped = c
	}
	m.invalidateRect(w, clipped)
}

// invalidateRect recursively intersects rect down through w's subtree,
// marking dirty only the visible leaves it reaches.
func (m *Manager) invalidateRect(w *Window, rect Rect) {
	if !w.visible {
		return
	}
	clipped, ok := rect.Intersect(w.rect)
	if !ok {
		return
	}
	if len(w.children) > 0 {
		for _, c := range w.children {
			m.invalidateRect(c, clipped)
		}
		return
	}
	m.markDirty(w)
}
