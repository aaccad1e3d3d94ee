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

	"github.com/rthornton128/goncurses"

	colortable "github.com/cvterm/wm/internal/color"
)

// Colors reports how many colors the terminal advertises, satisfying
// color.Device.
func (s *Screen) Colors() int {
	return goncurses.Colors()
}

// PairCapacity reports how many distinct color pairs curses can track.
func (s *Screen) PairCapacity() int {
	return goncurses.ColorPairs()
}

func (s *Screen) CanChangeColor() bool {
	return goncurses.CanChangeColor()
}

// DefaultColor returns the terminal's built-in RGB for palette index i, by
// reading back whatever curses currently has loaded for that slot before
// this process has changed anything. color_content reports in 0-1000
// space; colortable.Table works in 0-255 space, so we rescale down.
func (s *Screen) DefaultColor(i int) (colortable.RGB, error) {
	r, g, b := goncurses.ColorContent(i)
	return scaleDown(r, g, b), nil
}

func (s *Screen) SetColor(i int, rgb colortable.RGB) error {
	r, g, b := scaleUp(rgb)
	if err := goncurses.InitColor(i, r, g, b); err != nil {
		return fmt.Errorf("curses: init_color(%d): %w", i, err)
	}
	return nil
}

func (s *Screen) ReadColor(i int) (colortable.RGB, error) {
	r, g, b := goncurses.ColorContent(i)
	return scaleDown(r, g, b), nil
}

func (s *Screen) InternPair(pair, fg, bg int) error {
	if err := goncurses.InitPair(int16(pair), fg, bg); err != nil {
		return fmt.Errorf("curses: init_pair(%d,%d,%d): %w", pair, fg, bg, err)
	}
	return nil
}

var _ colortable.Device = (*Screen)(nil)

// scaleDown converts ncurses' 0-1000 color component space to the
// color package's 0-255 space.
func scaleDown(r, g, b int) colortable.RGB {
	return colortable.RGB{R: r * 255 / 1000, G: g * 255 / 1000, B: b * 255 / 1000}
}

// scaleUp is scaleDown's inverse, for values headed into init_color.
func scaleUp(rgb colortable.RGB) (int, int, int) {
	return rgb.R * 1000 / 255, rgb.G * 1000 / 255, rgb.B * 1000 / 255
}
