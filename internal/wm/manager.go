// Package wm implements the window tree and paint pipeline: parent/child
// topology, screen-vs-parent coordinate arithmetic, visibility propagation,
// rectangle-based invalidation, and deferred repaint coalescing tied to a
// message-loop idle hook.
package wm

import (
	"fmt"

	"github.com/cvterm/wm/internal/geom"
	"github.com/cvterm/wm/internal/msgloop"
)

// defaultPayloadSize is the message-subsystem init hint passed to the loop.
const defaultPayloadSize = 256

// singleton enforces that exactly one manager may exist per process. It is
// not safe for concurrent access: the whole package assumes a single
// cooperative thread driving the message loop.
var singleton *Manager

// Manager is the process-wide window manager root.
type Manager struct {
	term         Screen
	loop         msgloop.Loop
	makeDrawable func(Rect) (Drawable, error)
	resize       *resizeSubsystem

	root     *Window
	anyDirty bool
	nextID   int
}

// Init creates the manager if none exists yet, or returns the existing one
// unchanged. term is the curses-mode screen/root drawable; loop is the
// message-loop this manager will install its idle hook into; makeDrawable
// allocates the backing drawable for a newly created window, sized and
// positioned to its screen-absolute rect.
func Init(term Screen, loop msgloop.Loop, makeDrawable func(Rect) (Drawable, error)) (*Manager, error) {
	if singleton != nil {
		return singleton, nil
	}

	if err := loop.Init(defaultPayloadSize); err != nil {
		return nil, fmt.Errorf("wm: message subsystem init: %w", err)
	}

	h, w := term.Maxyx()
	rootRect := geom.Make(0, 0, w, h)
	m := &Manager{term: term, loop: loop, makeDrawable: makeDrawable}
	m.root = &Window{
		manager:   m,
		drawable:  term,
		rect:      rootRect,
		requested: rootRect,
		visible:   true,
		handler:   NopHandler,
	}

	loop.SetIdleHook(m.Update)

	rs, err := newResizeSubsystem(m)
	if err != nil {
		// Failure of signal installation forces a full teardown.
		loop.Shutdown()
		singleton = nil
		return nil, fmt.Errorf("wm: resize subsystem init: %w", err)
	}
	m.resize = rs
	rs.registerWith(loop)

	singleton = m
	return m, nil
}

// Current returns the process-wide manager, or nil if Init has not been
// called (or Shutdown has already run).
func Current() *Manager { return singleton }

// Root returns the manager's root window.
func (m *Manager) Root() *Window { return m.root }

// Shutdown tears the manager down in the reverse order of Init. Safe to
// call on an uninitialized or already-shut-down manager.
func (m *Manager) Shutdown() {
	if m == nil || singleton != m {
		return
	}
	m.resize.stop(m.loop)
	m.destroyTree(m.root)
	m.loop.Shutdown()
	singleton = nil
}

// ResizeFD exposes the resize subsystem's self-pipe read end, for a message
// loop that wants to multiplex it manually instead of relying on
// registerWith.
func (m *Manager) ResizeFD() int { return m.resize.readFD() }

// Resize reconciles the root's geometry with the terminal's current size;
// see resizeSubsystem.reconcile for the full sequence.
func (m *Manager) Resize() error {
	return m.resize.reconcile(m)
}

func (m *Manager) allocID() int {
	m.nextID++
	return m.nextID
}

func (m *Manager) markDirty(w *Window) {
	w.dirty = true
	m.anyDirty = true
	m.loop.SignalReadable()
}

// AnyDirty reports the manager's global dirty flag.
func (m *Manager) AnyDirty() bool { return m.anyDirty }
