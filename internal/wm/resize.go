package wm

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/cvterm/wm/internal/geom"
	"github.com/cvterm/wm/internal/msgloop"
)

// resizeSubsystem turns SIGWINCH notifications into one-byte writes on a
// self-pipe, so the single-threaded message loop can learn about them
// through ordinary, poll/select-safe I/O instead of running user code
// inside a signal handler.
//
// Go's runtime already delivers signals to a dedicated goroutine rather
// than invoking a C-style handler in interrupt context, so there is no true
// async-signal-safety hazard here the way there would be in C. The
// self-pipe discipline is kept anyway: it's what makes this subsystem
// composable with an external message loop that only knows how to poll
// file descriptors. A single relay goroutine is the only one that sets the
// signaled flag; reconcile clears it after draining the pipe.
type resizeSubsystem struct {
	sigCh    chan os.Signal
	pipeR    *os.File
	pipeW    *os.File
	signaled atomic.Bool
	done     chan struct{}
}

func newResizeSubsystem(m *Manager) (*resizeSubsystem, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("resize: open self-pipe: %w", err)
	}

	rs := &resizeSubsystem{
		sigCh: make(chan os.Signal, 1),
		pipeR: r,
		pipeW: w,
		done:  make(chan struct{}),
	}
	// signal.Notify is additive: other SIGWINCH subscribers elsewhere in
	// the process keep receiving the signal independently of this relay.
	signal.Notify(rs.sigCh, syscall.SIGWINCH)

	go rs.relay()
	return rs, nil
}

func (rs *resizeSubsystem) relay() {
	for {
		select {
		case <-rs.done:
			return
		case <-rs.sigCh:
			if rs.signaled.CompareAndSwap(false, true) {
				_, _ = rs.pipeW.Write([]byte{0})
			}
		}
	}
}

func (rs *resizeSubsystem) registerWith(loop msgloop.Loop) {
	loop.AddReader(int(rs.pipeR.Fd()), func() {
		if m := Current(); m != nil {
			_ = m.Resize()
		}
	})
}

func (rs *resizeSubsystem) readFD() int { return int(rs.pipeR.Fd()) }

func (rs *resizeSubsystem) stop(loop msgloop.Loop) {
	loop.RemoveReader(int(rs.pipeR.Fd()))
	signal.Stop(rs.sigCh)
	close(rs.done)
	_ = rs.pipeR.Close()
	_ = rs.pipeW.Close()
}

// reconcile drains the self-pipe, queries the terminal's current size, and
// if it actually changed, informs curses, repositions the root, and forces
// an immediate paint so the user sees geometry tracking the resize rather
// than lagging it.
func (rs *resizeSubsystem) reconcile(m *Manager) error {
	if rs.signaled.Load() {
		var b [1]byte
		if _, err := rs.pipeR.Read(b[:]); err != nil {
			return fmt.Errorf("resize: drain self-pipe: %w", err)
		}
		rs.signaled.Store(false)
	}

	h, w, err := m.term.Winsize()
	if err != nil {
		return fmt.Errorf("resize: query terminal size: %w", err)
	}
	cur := m.root.rect
	if w == cur.Width() && h == cur.Height() {
		return nil
	}

	if err := m.term.Resize(h, w); err != nil {
		return fmt.Errorf("resize: resize curses screen: %w", err)
	}

	newRect := geom.Make(0, 0, w, h)
	oldRect := m.root.rect
	m.root.rect = newRect
	m.root.requested = newRect
	m.invalidateRect(m.root, oldRect.Union(newRect))
	m.root.emit(MsgPosChanged, PosChanged{Old: oldRect, New: newRect})

	// The root's direct children keep their own parent-relative geometry
	// unchanged (resize does not reflow the tree), but each still needs a
	// chance to react to the root's new bounds, so it is notified with its
	// own unchanged parent-relative rect as both old and new.
	for _, c := range m.root.children {
		rel := c.Rect()
		c.emit(MsgPosChanged, PosChanged{Old: rel, New: rel})
	}

	m.Update()
	return nil
}
