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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ringBuffer stores the last N formatted log lines. A curses process can't
// let log output land on stdout, since that would corrupt the alternate
// screen buffer the window manager owns; the ring keeps recent diagnostics
// in memory so they can be dumped after Close restores the terminal.
type ringBuffer struct {
	mu    sync.Mutex
	lines []string
	cap   int
}

func newRingBuffer(cap int) *ringBuffer {
	return &ringBuffer{lines: make([]string, 0, cap), cap: cap}
}

func (b *ringBuffer) Write(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) < b.cap {
		b.lines = append(b.lines, line)
	} else {
		b.lines = append(b.lines[1:], line)
	}
}

func (b *ringBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// ringHandler implements slog.Handler, formatting each record into
// ringBuffer instead of writing to stdout/stderr while curses mode is
// active.
type ringHandler struct {
	buf   *ringBuffer
	level slog.Level
}

func newRingHandler(buf *ringBuffer, level slog.Level) *ringHandler {
	return &ringHandler{buf: buf, level: level}
}

func (h *ringHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ringHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("%s %s %s", r.Time.Format(time.TimeOnly), r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	h.buf.Write(line)
	return nil
}

func (h *ringHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *ringHandler) WithGroup(string) slog.Handler      { return h }

var _ slog.Handler = (*ringHandler)(nil)

// setupLogger installs a ring-buffered slog default logger while the
// harness is in curses mode, and returns a flush function that dumps the
// buffered lines to stderr once the terminal is back in cooked mode.
func setupLogger(debug bool) (flush func()) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	buf := newRingBuffer(512)
	slog.SetDefault(slog.New(newRingHandler(buf, level)))
	return func() {
		for _, line := range buf.Lines() {
			fmt.Fprintln(os.Stderr, line)
		}
	}
}
