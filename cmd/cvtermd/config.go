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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cvterm/wm/internal/wm"
)

// Config holds the demo harness's optional overrides: a palette capacity
// cap, the default border style for panes, and the shell command to spawn.
// All fields are optional; zero values fall back to the harness defaults.
type Config struct {
	PaletteCapacity int      `yaml:"palette_capacity"`
	BorderStyle     string   `yaml:"border_style"`
	Shell           []string `yaml:"shell"`
}

// defaultConfig returns the harness's built-in defaults, applied before any
// config file is overlaid.
func defaultConfig() Config {
	return Config{
		PaletteCapacity: 256,
		BorderStyle:     "single",
		Shell:           []string{os.Getenv("SHELL")},
	}
}

// loadConfig reads path (if non-empty) and overlays its contents onto the
// built-in defaults. A missing path is not an error; an unparseable one is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// borderStyle maps the config's border_style string onto a wm.BorderStyle,
// defaulting to a single line border for anything unrecognized.
func borderStyle(name string) wm.BorderStyle {
	switch name {
	case "double":
		return wm.BorderDouble
	case "rounded":
		return wm.BorderRounded
	case "heavy":
		return wm.BorderHeavy
	case "none":
		return wm.BorderNone
	default:
		return wm.BorderSingle
	}
}
