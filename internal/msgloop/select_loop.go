package msgloop

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// idlePoll bounds how long Run waits for a registered fd to become
// readable before invoking the idle hook anyway. A real curses message loop
// would block indefinitely in select() and rely on SignalReadable waking
// it; polling on a short timeout gives the same externally-visible
// behavior without needing a second self-pipe just to wake the loop itself.
const idlePoll = 15 * time.Millisecond

// SelectLoop is a Loop implementation built directly on unix.Select,
// mirroring the single-threaded, select-driven event loop the Mosh client
// uses to multiplex user input, child output and SIGWINCH.
type SelectLoop struct {
	mu      sync.Mutex
	readers map[int]func()
	idle    func()
	signal  chan struct{}
	done    chan struct{}
	running bool
}

// NewSelectLoop constructs an unstarted loop.
func NewSelectLoop() *SelectLoop {
	return &SelectLoop{
		readers: make(map[int]func()),
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (l *SelectLoop) Init(_ int) error {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()
	return nil
}

func (l *SelectLoop) Shutdown() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.mu.Unlock()
	close(l.done)
}

func (l *SelectLoop) SetIdleHook(hook func()) {
	l.mu.Lock()
	l.idle = hook
	l.mu.Unlock()
}

func (l *SelectLoop) SignalReadable() {
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *SelectLoop) AddReader(fd int, onReadable func()) {
	l.mu.Lock()
	l.readers[fd] = onReadable
	l.mu.Unlock()
}

func (l *SelectLoop) RemoveReader(fd int) {
	l.mu.Lock()
	delete(l.readers, fd)
	l.mu.Unlock()
}

// Run services registered readers and idle dispatch until Shutdown is
// called. It is not safe to call Run from more than one goroutine.
func (l *SelectLoop) Run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.signal:
			l.runIdle()
			continue
		default:
		}

		fds, maxFD := l.snapshotFDs()
		if len(fds) == 0 {
			select {
			case <-l.done:
				return
			case <-l.signal:
				l.runIdle()
			case <-time.After(idlePoll):
				l.runIdle()
			}
			continue
		}

		var set unix.FdSet
		for fd := range fds {
			fdSet(&set, fd)
		}
		tv := unix.NsecToTimeval(idlePoll.Nanoseconds())
		n, err := unix.Select(maxFD+1, &set, nil, nil, &tv)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			l.runIdle()
			continue
		}
		if n == 0 {
			l.runIdle()
			continue
		}
		for fd, cb := range fds {
			if fdIsSet(&set, fd) {
				cb()
			}
		}
	}
}

func (l *SelectLoop) snapshotFDs() (map[int]func(), int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fds := make(map[int]func(), len(l.readers))
	max := 0
	for fd, cb := range l.readers {
		fds[fd] = cb
		if fd > max {
			max = fd
		}
	}
	return fds, max
}

func (l *SelectLoop) runIdle() {
	l.mu.Lock()
	hook := l.idle
	l.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// fdSet and fdIsSet manipulate a unix.FdSet's bitmap directly, since the x/sys
// package exposes the raw fd_set storage but no helper methods for it.
const fdBitsPerWord = 64

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/fdBitsPerWord] |= 1 << (uint(fd) % fdBitsPerWord)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/fdBitsPerWord]&(1<<(uint(fd)%fdBitsPerWord)) != 0
}
