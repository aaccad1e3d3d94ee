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

// Package curses implements wm.Drawable, wm.Screen and color.Device against
// github.com/rthornton128/goncurses, so the window manager and color table
// can drive a real terminal instead of the fakes used in their tests.
package curses

import (
	"fmt"

	"github.com/rthornton128/goncurses"

	"github.com/cvterm/wm/internal/wm"
)

// boxChars maps a wm.BorderStyle to the vertical/horizontal line characters
// goncurses' Window.Box expects; 0 for either tells ncurses to use its
// default ACS line-drawing characters. Double, rounded and heavy have no
// distinct characters here: they draw the same ACS single lines as
// BorderSingle.
var boxChars = map[wm.BorderStyle][2]int{
	wm.BorderSingle:  {0, 0},
	wm.BorderDouble:  {goncurses.ACS_VLINE, goncurses.ACS_HLINE},
	wm.BorderRounded: {goncurses.ACS_VLINE, goncurses.ACS_HLINE},
	wm.BorderHeavy:   {goncurses.ACS_VLINE, goncurses.ACS_HLINE},
}

// Window wraps a *goncurses.Window as a wm.Drawable. It is returned by
// Screen.MakeDrawable for every non-root window in the tree.
type Window struct {
	win *goncurses.Window
}

func newWindow(win *goncurses.Window) *Window {
	return &Window{win: win}
}

// MoveWindow repositions the window's screen origin (ncurses' mvwin, wrapped
// by goncurses as Window.MoveWindow in the versions this package targets).
func (w *Window) MoveWindow(y, x int) error {
	if err := w.win.MoveWindow(y, x); err != nil {
		return fmt.Errorf("curses: move_window(%d,%d): %w", y, x, err)
	}
	return nil
}

func (w *Window) Resize(height, width int) error {
	w.win.Resize(height, width)
	return nil
}

func (w *Window) Maxyx() (int, int) {
	return w.win.Maxyx()
}

func (w *Window) Erase() {
	w.win.Erase()
}

func (w *Window) Box(style wm.BorderStyle) error {
	if style == wm.BorderNone {
		return nil
	}
	ch := boxChars[style]
	if err := w.win.Box(ch[0], ch[1]); err != nil {
		return fmt.Errorf("curses: box: %w", err)
	}
	return nil
}

func (w *Window) SetCell(y, x int, ch rune, attrs wm.CellAttr, pair int16) {
	c := int(ch) | goncurses.ColorPair(int(pair))
	if attrs&wm.AttrBold != 0 {
		c |= goncurses.A_BOLD
	}
	if attrs&wm.AttrUnderline != 0 {
		c |= goncurses.A_UNDERLINE
	}
	if attrs&wm.AttrBlink != 0 {
		c |= goncurses.A_BLINK
	}
	if attrs&wm.AttrReverse != 0 {
		c |= goncurses.A_REVERSE
	}
	w.win.AddChar(y, x, c)
}

func (w *Window) MoveCursor(y, x int) {
	w.win.Move(y, x)
}

func (w *Window) Refresh() {
	w.win.Refresh()
}

func (w *Window) NoutRefresh() {
	w.win.NoutRefresh()
}

func (w *Window) Delete() error {
	if err := w.win.Delete(); err != nil {
		return fmt.Errorf("curses: delete window: %w", err)
	}
	return nil
}

var _ wm.Drawable = (*Window)(nil)
