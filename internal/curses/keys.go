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

package curses

import "github.com/rthornton128/goncurses"

// maxConsecutiveResizeEvents bounds how many KEY_RESIZE reads ReadKey will
// absorb in a row before giving up: a terminal emulator that floods resize
// notifications (some multiplexers do this during a drag-resize) must not
// be allowed to starve ReadKey forever.
const maxConsecutiveResizeEvents = 128

// KeyFlushed is the sentinel ReadKey returns when it abandons a read after
// absorbing maxConsecutiveResizeEvents consecutive resize notifications.
const KeyFlushed = -2

// ReadKey reads the next key from stdscr, transparently absorbing
// KEY_RESIZE notifications (the caller's resize handling is driven by
// SIGWINCH via the self-pipe, not by this read loop) up to
// maxConsecutiveResizeEvents in a row. If that bound is hit, the input
// buffer is flushed and ReadKey returns KeyFlushed instead of blocking
// indefinitely on a terminal stuck emitting resize events.
func (s *Screen) ReadKey() int {
	for i := 0; i < maxConsecutiveResizeEvents; i++ {
		ch := s.stdscr.GetChar()
		if ch != goncurses.KEY_RESIZE {
			return ch
		}
	}
	goncurses.FlushInput()
	return KeyFlushed
}
