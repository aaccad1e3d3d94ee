// Package msgloop defines the message-loop contract the window manager
// expects to be hosted by, plus one concrete, select-based implementation
// suitable for a single curses process.
//
// The contract itself — init/shutdown, an idle hook, and a readable nudge
// for out-of-band signaling — is meant to be swappable for whatever event
// loop a host application already runs; this package's select-based
// implementation exists so the demo harness in cmd/cvtermd has something
// concrete to run against. Its select-over-fds shape is grounded on the
// "3 clause select" loop of the upstream Mosh client (user input, child
// output, SIGWINCH).
package msgloop

// Loop is the message-loop contract consumed by wm.Manager.
type Loop interface {
	// Init starts the message subsystem. payloadSize is a hint for the
	// largest message payload the loop should expect to carry; it is
	// unused by the select-based implementation but kept so other
	// implementations of this contract can size a pre-allocated buffer.
	Init(payloadSize int) error
	// Shutdown tears the loop down. Safe to call on an already-shut-down
	// loop.
	Shutdown()
	// SetIdleHook installs the function invoked whenever the loop has no
	// pending I/O to service.
	SetIdleHook(hook func())
	// SignalReadable tells the loop to invoke the idle hook at the next
	// opportunity, even if nothing else is pending.
	SignalReadable()
	// AddReader registers fd to be polled for readability; onReadable is
	// invoked (on the loop's goroutine) whenever it is.
	AddReader(fd int, onReadable func())
	// RemoveReader undoes AddReader.
	RemoveReader(fd int)
	// Run blocks, servicing registered readers and idle dispatch, until
	// Shutdown is called.
	Run()
}
