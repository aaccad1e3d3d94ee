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

package vterm

import (
	"image/color"

	headlessterm "github.com/danielgatis/go-headless-term"

	colortable "github.com/cvterm/wm/internal/color"
)

// Position is a zero-based (row, col) cell coordinate.
type Position struct {
	Row, Col int
}

// CellAttrs carries the subset of emulator cell styling the renderer
// understands.
type CellAttrs struct {
	Bold, Underline, Blink, Reverse bool
	Fg, Bg                          colortable.RGB
}

// Cell is a single emulator cell's content and style.
type Cell struct {
	Ch    rune
	Attrs CellAttrs
}

// Emulator is the subset of an embedded terminal-emulator's surface the
// adapter needs: dirty-cell tracking, cell readback, cursor position, and
// raw byte input. Implemented by headlessEmulator against
// github.com/danielgatis/go-headless-term.
type Emulator interface {
	Write(p []byte) (int, error)
	Rows() int
	Columns() int
	Resize(rows, cols int)
	Cell(row, col int) Cell
	Cursor() (pos Position, visible bool)
	HasDirty() bool
	DirtyCells() []Position
	ClearDirty()
}

// headlessEmulator adapts a *headlessterm.Terminal to Emulator.
type headlessEmulator struct {
	term *headlessterm.Terminal
}

// NewHeadlessEmulator constructs an Emulator backed by headlessterm, sized
// to rows x cols. bell, if non-nil, is invoked on terminal bell events.
func NewHeadlessEmulator(rows, cols int, bell func()) Emulator {
	opts := []headlessterm.Option{headlessterm.WithSize(rows, cols)}
	if bell != nil {
		opts = append(opts, headlessterm.WithBell(bellFunc(bell)))
	}
	return &headlessEmulator{term: headlessterm.New(opts...)}
}

// bellFunc adapts a plain func() to headlessterm.BellProvider.
type bellFunc func()

func (f bellFunc) Bell() { f() }

func (e *headlessEmulator) Write(p []byte) (int, error) { return e.term.Write(p) }

func (e *headlessEmulator) Rows() int    { return e.term.Rows() }
func (e *headlessEmulator) Columns() int { return e.term.Columns() }

func (e *headlessEmulator) Resize(rows, cols int) { e.term.Resize(rows, cols) }

func (e *headlessEmulator) Cell(row, col int) Cell {
	c := e.term.Cell(row, col)
	if c == nil {
		return Cell{Ch: ' '}
	}
	ch := c.Char
	if ch == 0 {
		ch = ' '
	}
	fg := toRGB(headlessterm.ResolveDefaultColor(c.Fg, true))
	bg := toRGB(headlessterm.ResolveDefaultColor(c.Bg, false))
	return Cell{
		Ch: ch,
		Attrs: CellAttrs{
			Bold:      c.HasFlag(headlessterm.CellFlagBold),
			Underline: c.HasFlag(headlessterm.CellFlagUnderline),
			Blink:     c.HasFlag(headlessterm.CellFlagBlink),
			Reverse:   c.HasFlag(headlessterm.CellFlagReverse),
			Fg:        fg,
			Bg:        bg,
		},
	}
}

func toRGB(c color.RGBA) colortable.RGB {
	return colortable.RGB{R: int(c.R), G: int(c.G), B: int(c.B)}
}

func (e *headlessEmulator) Cursor() (Position, bool) {
	row, col := e.term.CursorPosition()
	return Position{Row: row, Col: col}, e.term.HasMode(headlessterm.ModeShowCursor)
}

func (e *headlessEmulator) HasDirty() bool { return e.term.HasDirty() }

func (e *headlessEmulator) DirtyCells() []Position {
	cells := e.term.DirtyCells()
	out := make([]Position, len(cells))
	for i, c := range cells {
		out[i] = Position{Row: c.Row, Col: c.Col}
	}
	return out
}

func (e *headlessEmulator) ClearDirty() { e.term.ClearDirty() }
