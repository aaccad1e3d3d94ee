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
	"log/slog"

	colortable "github.com/cvterm/wm/internal/color"
	"github.com/cvterm/wm/internal/geom"
	"github.com/cvterm/wm/internal/wm"
)

// Adapter bridges an Emulator's damage, cursor and bell state onto a
// wm.Drawable, reserving a 1-cell border on every side for a decorative
// frame. It is meant to be registered as a window's paint handler: on
// wm.MsgPaint it draws whatever the emulator has accumulated since the
// last call.
type Adapter struct {
	emu              Emulator
	drawable         wm.Drawable
	colors           *colortable.Table
	border           wm.BorderStyle
	beep             func()
	setCursorVisible func(bool)
	log              *slog.Logger

	damage        damageAccumulator
	painted       bool
	cursorVisible bool
	cursorVisSet  bool
}

// NewAdapter constructs an Adapter. beep, setCursorVisible and log may be
// nil: a nil beep makes bell events silent, a nil setCursorVisible drops
// the cursor-visibility property change on the floor, and a nil log
// discards diagnostics.
func NewAdapter(emu Emulator, drawable wm.Drawable, colors *colortable.Table, border wm.BorderStyle, beep func(), setCursorVisible func(bool), log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(discard{}, nil))
	}
	return &Adapter{emu: emu, drawable: drawable, colors: colors, border: border, beep: beep, setCursorVisible: setCursorVisible, log: log}
}

// Bell implements headlessterm.BellProvider.
func (a *Adapter) Bell() {
	if a.beep != nil {
		a.beep()
	}
}

// Feed writes p into the emulator and folds whatever cells it dirtied into
// the adapter's pending damage rectangle. Multiple calls between paints
// coalesce into one bounding rectangle.
func (a *Adapter) Feed(p []byte) (int, error) {
	n, err := a.emu.Write(p)
	if !a.emu.HasDirty() {
		return n, err
	}
	cells := a.emu.DirtyCells()
	minRow, minCol := cells[0].Row, cells[0].Col
	maxRow, maxCol := minRow, minCol
	for _, c := range cells[1:] {
		if c.Row < minRow {
			minRow = c.Row
		}
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col < minCol {
			minCol = c.Col
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}
	a.damage.add(geom.Make(minCol, minRow, maxCol-minCol+1, maxRow-minRow+1))
	a.emu.ClearDirty()
	return n, err
}

// Handler is the wm.Handler to register on the leaf window this adapter
// draws into.
func (a *Adapter) Handler(_ *wm.Window, msg wm.MessageID, _ any) uint32 {
	if msg == wm.MsgPaint {
		a.Draw()
	}
	return 0
}

// Draw performs the damage-driven redraw: clamp to the drawable's
// interior, redraw the border if the damage touches any edge, project
// every damaged cell through the color table, restore the cursor, and
// clear the accumulator. A first call with no pending damage paints the
// whole interior and the border, since a pane that receives no emulator
// output before its first paint would otherwise never show even its
// border; a first call with pending damage takes the damage path above.
func (a *Adapter) Draw() {
	if a.damage.empty() {
		if !a.painted {
			a.paintAll()
		}
		a.syncCursor()
		return
	}

	h, w := a.drawable.Maxyx()
	interior := geom.Make(1, 1, max0(w-2), max0(h-2))
	// Damage is in emulator coordinates; shift it past the border first.
	clamped, ok := a.damage.rect.Offset(1, 1).Intersect(interior)
	if ok {
		if touchesEdge(clamped, interior) {
			_ = a.drawable.Box(a.border)
		}
		for row := clamped.Top; row < clamped.Bottom; row++ {
			for col := clamped.Left; col < clamped.Right; col++ {
				cell := a.emu.Cell(row-1, col-1)
				a.drawable.SetCell(row, col, cell.Ch, cellAttr(cell.Attrs), a.pairFor(cell.Attrs))
			}
		}
	}

	a.painted = true
	a.syncCursor()
	a.damage.clear()
}

// paintAll redraws the border and every interior cell unconditionally,
// used for the first paint of a pane that has not been fed any emulator
// output yet.
func (a *Adapter) paintAll() {
	h, w := a.drawable.Maxyx()
	interior := geom.Make(1, 1, max0(w-2), max0(h-2))
	_ = a.drawable.Box(a.border)
	for row := interior.Top; row < interior.Bottom; row++ {
		for col := interior.Left; col < interior.Right; col++ {
			cell := a.emu.Cell(row-1, col-1)
			a.drawable.SetCell(row, col, cell.Ch, cellAttr(cell.Attrs), a.pairFor(cell.Attrs))
		}
	}
	a.painted = true
}

// syncCursor checks the emulator's reported cursor position against the
// drawable's interior, logging and ignoring a position outside it,
// otherwise repositions the drawable's logical cursor, and always
// forwards the emulator's cursor-visibility mode to setCursorVisible
// whenever it changes.
func (a *Adapter) syncCursor() {
	pos, visible := a.emu.Cursor()
	if !a.cursorVisSet || visible != a.cursorVisible {
		a.cursorVisible = visible
		a.cursorVisSet = true
		if a.setCursorVisible != nil {
			a.setCursorVisible(visible)
		}
	}
	h, w := a.drawable.Maxyx()
	interior := geom.Make(1, 1, max0(w-2), max0(h-2))
	if !interior.Contains(pos.Col+1, pos.Row+1) {
		a.log.Warn("cursor position out of range", "row", pos.Row, "col", pos.Col)
		return
	}
	a.drawable.MoveCursor(pos.Row+1, pos.Col+1)
}

// touchesEdge reports whether rect reaches any edge of interior, meaning
// the decorative border needs a full redraw.
func touchesEdge(rect, interior geom.Rect) bool {
	return rect.Left <= interior.Left || rect.Top <= interior.Top ||
		rect.Right >= interior.Right || rect.Bottom >= interior.Bottom
}

// pairFor resolves a cell's fg/bg RGB to a curses color-pair id through
// the color table, matching colors that fall outside the captured
// palette to their nearest entry first.
func (a *Adapter) pairFor(attrs CellAttrs) int16 {
	if a.colors == nil || !a.colors.Usable() {
		return 0
	}
	fg := a.colors.NearestIndex(attrs.Fg)
	bg := a.colors.NearestIndex(attrs.Bg)
	return a.colors.PairID(int(fg), int(bg))
}

// cellAttr maps emulator cell styling onto the drawable's attribute bits.
func cellAttr(attrs CellAttrs) wm.CellAttr {
	var out wm.CellAttr
	if attrs.Bold {
		out |= wm.AttrBold
	}
	if attrs.Underline {
		out |= wm.AttrUnderline
	}
	if attrs.Blink {
		out |= wm.AttrBlink
	}
	if attrs.Reverse {
		out |= wm.AttrReverse
	}
	return out
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
