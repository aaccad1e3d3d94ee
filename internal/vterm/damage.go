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

// Package vterm bridges an embedded terminal emulator's damage, cursor,
// bell and property-change events onto a curses-style drawable.
package vterm

import "github.com/cvterm/wm/internal/geom"

// damageAccumulator unions incoming damage rectangles from the emulator
// into a single bounding rectangle between draws, matching an emulator
// that reports many small per-write damage events but is only drawn from
// once per scheduler pass.
type damageAccumulator struct {
	rect  geom.Rect
	dirty bool
}

func (d *damageAccumulator) add(r geom.Rect) {
	if r.Empty() {
		return
	}
	if !d.dirty {
		d.rect = r
		d.dirty = true
		return
	}
	d.rect = d.rect.Union(r)
}

func (d *damageAccumulator) empty() bool { return !d.dirty }

func (d *damageAccumulator) clear() { d.dirty = false }
