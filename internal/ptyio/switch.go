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

package ptyio

import "io"

// Switch gates an io.ReadWriteCloser between the raw pty passthrough it was
// constructed with and a later-enabled replacement, so the demo harness can
// start talking to a real pty immediately and swap in a BufferedWriter (or
// any other io.ReadWriteCloser, such as a test fixture) once the rest of the
// pipeline is wired up, without the caller needing to know which is active.
type Switch struct {
	passthrough io.ReadWriteCloser
	active      io.ReadWriteCloser
	enabled     bool
	closed      bool
}

// NewSwitch constructs a Switch defaulting to passthrough.
func NewSwitch(passthrough io.ReadWriteCloser) *Switch {
	return &Switch{passthrough: passthrough}
}

func (s *Switch) Read(p []byte) (int, error) {
	if s.enabled {
		return s.active.Read(p)
	}
	return s.passthrough.Read(p)
}

func (s *Switch) Write(p []byte) (int, error) {
	if s.enabled {
		return s.active.Write(p)
	}
	return s.passthrough.Write(p)
}

// Close is idempotent: a second call is a no-op rather than closing the
// active side's channel-based primitives twice.
func (s *Switch) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.enabled {
		return s.active.Close()
	}
	return s.passthrough.Close()
}

// Enable switches reads and writes over to replacement. A no-op once
// already enabled: the first replacement wins.
func (s *Switch) Enable(replacement io.ReadWriteCloser) {
	if !s.enabled {
		s.active = replacement
		s.enabled = true
	}
}

var _ io.ReadWriteCloser = (*Switch)(nil)
