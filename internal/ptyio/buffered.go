/*
 * cvterm: a terminal window manager and virtual-terminal renderer
 * Copyright 2024 cvterm contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package ptyio forwards keystrokes from the message loop to a spawned
// shell's pty master without ever blocking the loop's goroutine on a slow
// or stalled child.
package ptyio

import (
	"io"
	"runtime"
	"sync"
)

// BufferedWriter wraps an io.Writer (the pty master) so that writes within
// the configured capacity return immediately, even if upstream blocks. A
// write that would overflow the buffer blocks until upstream has drained
// enough of it, which is the same backpressure a direct write would apply,
// just deferred past whatever already fit.
type BufferedWriter struct {
	upstream    io.Writer
	cond        *sync.Cond
	buffer      []byte
	bufferIndex int

	writeNotify chan struct{}
	upstreamErr error
}

// NewBufferedWriter constructs a BufferedWriter with the given buffer
// capacity and starts its drain goroutine.
func NewBufferedWriter(upstream io.Writer, capacity int) *BufferedWriter {
	w := &BufferedWriter{
		upstream:    upstream,
		cond:        sync.NewCond(&sync.Mutex{}),
		buffer:      make([]byte, capacity),
		writeNotify: make(chan struct{}, 1),
	}
	go w.drain()
	return w
}

func (w *BufferedWriter) drain() {
	lastSent := 0
	for range w.writeNotify {
		w.cond.L.Lock()
		next := w.bufferIndex
		w.cond.L.Unlock()

		_, w.upstreamErr = w.upstream.Write(w.buffer[lastSent:next])
		lastSent = next
		if w.upstreamErr != nil {
			return
		}

		w.cond.L.Lock()
		if w.bufferIndex == next {
			w.bufferIndex = 0
			lastSent = 0
		}
		w.cond.Signal()
		w.cond.L.Unlock()
	}
}

// Close stops the drain goroutine and, if upstream is also an io.Closer,
// closes it.
func (w *BufferedWriter) Close() error {
	if w.upstreamErr == nil {
		w.upstreamErr = io.EOF
	}
	close(w.writeNotify)
	w.cond.Broadcast()
	if closer, ok := w.upstream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (w *BufferedWriter) Write(p []byte) (int, error) {
	if w.upstreamErr != nil {
		return 0, w.upstreamErr
	}

	w.cond.L.Lock()
	n := copy(w.buffer[w.bufferIndex:], p)
	w.bufferIndex += n
	w.cond.L.Unlock()

	select {
	case w.writeNotify <- struct{}{}:
		if len(p) > n {
			runtime.Gosched()
			return w.Write(p[n:])
		}
		return n, nil
	default:
		if len(p) > n {
			w.cond.L.Lock()
			w.cond.Wait()
			w.cond.L.Unlock()
			return w.Write(p[n:])
		}
		return n, nil
	}
}

var _ io.WriteCloser = (*BufferedWriter)(nil)

// bufferedReadWriteCloser pairs a BufferedWriter's non-blocking Write with
// an underlying io.ReadWriteCloser's Read, so the pair together satisfies
// io.ReadWriteCloser and can be handed to Switch.Enable.
type bufferedReadWriteCloser struct {
	*BufferedWriter
	upstream io.ReadWriteCloser
}

// WrapReadWriteCloser returns an io.ReadWriteCloser whose writes go through
// a BufferedWriter of the given capacity and whose reads and close pass
// straight through to upstream.
func WrapReadWriteCloser(upstream io.ReadWriteCloser, capacity int) io.ReadWriteCloser {
	return &bufferedReadWriteCloser{
		BufferedWriter: NewBufferedWriter(upstream, capacity),
		upstream:       upstream,
	}
}

func (b *bufferedReadWriteCloser) Read(p []byte) (int, error) {
	return b.upstream.Read(p)
}

var _ io.ReadWriteCloser = (*bufferedReadWriteCloser)(nil)
