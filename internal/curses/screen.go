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

import (
	"fmt"
	"os"

	"github.com/rthornton128/goncurses"
	"golang.org/x/sys/unix"

	"github.com/cvterm/wm/internal/geom"
	"github.com/cvterm/wm/internal/wm"
)

// Screen wraps stdscr as the root drawable: it satisfies both wm.Screen
// (for Manager.Init) and color.Device (for the color table this process
// binds once at startup).
type Screen struct {
	stdscr *goncurses.Window
}

// Open initializes ncurses (cbreak, noecho, keypad on stdscr) and returns
// the wrapped stdscr. Callers must call Close on the returned Screen before
// the process exits, or the terminal is left in raw mode.
func Open() (*Screen, error) {
	stdscr, err := goncurses.Init()
	if err != nil {
		return nil, fmt.Errorf("curses: init: %w", err)
	}
	goncurses.CBreak(true)
	goncurses.Echo(false)
	if err := stdscr.Keypad(true); err != nil {
		goncurses.End()
		return nil, fmt.Errorf("curses: enable keypad: %w", err)
	}
	goncurses.Cursor(0)
	return &Screen{stdscr: stdscr}, nil
}

// Close restores the terminal to cooked mode. Safe to call more than once.
func (s *Screen) Close() {
	goncurses.End()
}

func (s *Screen) MoveWindow(int, int) error { return nil }

// Resize informs ncurses that the underlying terminal's dimensions changed
// (ncurses' resizeterm), so its internal notion of stdscr's size tracks
// the size the manager read from Winsize.
func (s *Screen) Resize(height, width int) error {
	if err := goncurses.ResizeTerm(height, width); err != nil {
		return fmt.Errorf("curses: resize_term(%d,%d): %w", height, width, err)
	}
	return nil
}

func (s *Screen) Maxyx() (int, int) {
	return s.stdscr.Maxyx()
}

// Winsize queries the OS directly (ioctl TIOCGWINSZ on stdout) rather than
// asking curses, since curses' own idea of the screen size is exactly what
// the resize subsystem is trying to correct.
func (s *Screen) Winsize() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("curses: ioctl(TIOCGWINSZ): %w", err)
	}
	return int(ws.Row), int(ws.Col), nil
}

func (s *Screen) Erase() {
	s.stdscr.Erase()
}

func (s *Screen) Box(wm.BorderStyle) error { return nil }

// StartColor enables ncurses' color mode, for color.Table.Bind. A terminal
// that advertises no color support is left alone and no error is returned;
// an error is returned only if start_color itself fails.
func (s *Screen) StartColor() error {
	if !goncurses.HasColors() {
		return nil
	}
	if err := goncurses.StartColor(); err != nil {
		return fmt.Errorf("curses: start_color: %w", err)
	}
	return nil
}

func (s *Screen) SetCell(y, x int, ch rune, attrs wm.CellAttr, pair int16) {
	(&Window{win: s.stdscr}).SetCell(y, x, ch, attrs, pair)
}

func (s *Screen) MoveCursor(y, x int) {
	s.stdscr.Move(y, x)
}

func (s *Screen) Refresh() {
	s.stdscr.Refresh()
}

func (s *Screen) NoutRefresh() {
	s.stdscr.NoutRefresh()
}

func (s *Screen) Delete() error { return nil }

// Update flips the virtual screen to the physical terminal (ncurses'
// doupdate), after every dirty window has staged its contents via
// NoutRefresh.
func (s *Screen) Update() error {
	if err := goncurses.Update(); err != nil {
		return fmt.Errorf("curses: update: %w", err)
	}
	return nil
}

var _ wm.Screen = (*Screen)(nil)

// MakeDrawable builds the wm.Manager.Init makeDrawable callback: it carves
// a new goncurses window out of the screen-absolute rect rect describes.
func (s *Screen) MakeDrawable(rect geom.Rect) (wm.Drawable, error) {
	win, err := goncurses.NewWindow(rect.Height(), rect.Width(), rect.Top, rect.Left)
	if err != nil {
		return nil, fmt.Errorf("curses: create window %+v: %w", rect, err)
	}
	return newWindow(win), nil
}

// Beep requests the terminal's audible bell.
func (s *Screen) Beep() {
	goncurses.Beep()
}

// SetCursorVisible toggles the hardware cursor's visibility, driven by the
// emulator's cursor-visibility property change.
func (s *Screen) SetCursorVisible(visible bool) {
	if visible {
		goncurses.Cursor(1)
	} else {
		goncurses.Cursor(0)
	}
}
