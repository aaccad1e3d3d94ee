package wm

// Update drains every dirty leaf into the virtual screen, then flushes the
// virtual screen to the physical terminal exactly once. It always runs to
// quiescence: by the time it returns, no leaf is dirty and the manager's
// any-dirty flag is clear.
func (m *Manager) Update() {
	for m.anyDirty {
		leaf := findInvalid(m.root)
		if leaf == nil {
			if err := m.term.Update(); err != nil {
				// A flush failure indicates a dead terminal; nothing
				// further can be drawn, so give up on this frame.
				_ = err
			}
			m.anyDirty = false
			return
		}

		leaf.dirty = false
		leaf.emit(MsgPaint, nil)
		if leaf.drawable != nil {
			leaf.drawable.NoutRefresh()
		}
	}
}

// findInvalid does a depth-first search for the first visible, dirty leaf.
// Non-leaf nodes are never returned: children are assumed to fully cover
// their parent, so a parent itself is never painted.
func findInvalid(w *Window) *Window {
	if !w.visible {
		return nil
	}
	if w.IsLeaf() {
		if w.dirty {
			return w
		}
		return nil
	}
	for _, c := range w.children {
		if found := findInvalid(c); found != nil {
			return found
		}
	}
	return nil
}
