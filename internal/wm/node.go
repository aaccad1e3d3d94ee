package wm

import (
	"fmt"

	"github.com/cvterm/wm/internal/geom"
)

// Rect re-exports geom.Rect so callers of this package never need to import
// internal/geom directly.
type Rect = geom.Rect

// Window is a node in the window tree: parent/child topology, geometry,
// visibility, invalidation state and an opaque client handler.
type Window struct {
	manager *Manager
	parent  *Window
	// children is the insertion-ordered child list; front-to-back paint
	// order is insertion order, with the last child painted last.
	children []*Window

	// drawable is nil for container-only windows. The root's drawable is
	// the screen itself.
	drawable Drawable

	rect    Rect // screen-absolute, clipped to the root
	// requested is the screen-absolute rect as asked for at creation or the
	// last SetPos, before clipping. A handler that wants to know the
	// position it originally requested (rather than what ended up stored)
	// reads this instead of Rect/ScreenRect.
	requested Rect
	visible   bool
	dirty     bool

	handler Handler
	id      int
}

// Rect returns w's rectangle, translated to be relative to its parent (or
// to itself, for the root).
func (w *Window) Rect() Rect {
	if w.parent == nil {
		return w.rect
	}
	return w.rect.Offset(-w.parent.rect.Left, -w.parent.rect.Top)
}

// ScreenRect returns w's rectangle in screen-absolute coordinates.
func (w *Window) ScreenRect() Rect { return w.rect }

// RequestedRect returns the screen-absolute rectangle as last requested by
// Create or SetPos, before clipping to the root. This differs from
// ScreenRect only for a window whose requested geometry extends past the
// root's bounds.
func (w *Window) RequestedRect() Rect { return w.requested }

// Parent returns w's parent, or nil for the root.
func (w *Window) Parent() *Window { return w.parent }

// ID returns the client-assigned sibling-lookup id.
func (w *Window) ID() int { return w.id }

// Visible reports w's visibility flag.
func (w *Window) Visible() bool { return w.visible }

// Drawable returns w's backing drawable, or nil for container-only windows.
func (w *Window) Drawable() Drawable { return w.drawable }

// IsLeaf reports whether w has no children. Only leaves may carry
// dirty = true and only leaves receive MsgPaint.
func (w *Window) IsLeaf() bool { return len(w.children) == 0 }

// isVisibleChain reports whether w and every ancestor up to the root is
// visible.
func (w *Window) isVisibleChain() bool {
	for n := w; n != nil; n = n.parent {
		if !n.visible {
			return false
		}
	}
	return true
}

// SetHandler swaps w's handler and returns the previous one.
func (w *Window) SetHandler(h Handler) Handler {
	old := w.handler
	w.handler = h
	return old
}

// FindChild does a linear, non-recursive search of w's immediate children.
func (w *Window) FindChild(id int) *Window {
	for _, c := range w.children {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (w *Window) emit(msg MessageID, payload any) {
	if w.handler != nil {
		w.handler(w, msg, payload)
	}
}

func (w *Window) String() string {
	return fmt.Sprintf("Window{id=%d rect=%+v visible=%v dirty=%v children=%d}",
		w.id, w.rect, w.visible, w.dirty, len(w.children))
}
