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

// Command cvtermd is a demo harness for the window manager and
// virtual-terminal renderer: it spawns a shell in a pty, parses its output
// with an embedded terminal emulator, and projects the result onto a
// single bordered pane filling the curses screen.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"
	"github.com/creack/pty"

	"github.com/cvterm/wm/internal/color"
	"github.com/cvterm/wm/internal/curses"
	"github.com/cvterm/wm/internal/msgloop"
	"github.com/cvterm/wm/internal/ptyio"
	"github.com/cvterm/wm/internal/vterm"
	"github.com/cvterm/wm/internal/wm"
)

// CLI is cvtermd's top-level flag set.
type CLI struct {
	Config string   `help:"Path to a YAML config file (palette capacity, border style, shell)." type:"path"`
	Shell  []string `help:"Shell command to spawn, overriding the config file." optional:""`
	Debug  bool     `help:"Enable debug logging (buffered and flushed to stderr on exit)."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("cvtermd"),
		kong.Description("Terminal window manager demo harness."),
		kong.UsageOnError(),
	)

	flush := setupLogger(cli.Debug)
	defer flush()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(cli.Shell) > 0 {
		cfg.Shell = cli.Shell
	}

	if err := run(cfg); err != nil {
		slog.Error("cvtermd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	screen, err := curses.Open()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Close()

	if err := screen.StartColor(); err != nil {
		slog.Warn("color mode unavailable", "error", err)
	}
	colors := color.New()
	if err := colors.Bind(screen, cfg.PaletteCapacity); err != nil {
		slog.Warn("palette capture failed, running without color", "error", err)
	}

	loop := msgloop.NewSelectLoop()
	manager, err := wm.Init(screen, loop, screen.MakeDrawable)
	if err != nil {
		return fmt.Errorf("init window manager: %w", err)
	}
	defer manager.Shutdown()

	h, w := screen.Maxyx()
	rows, cols := max1(h-2), max1(w-2)

	shellCmd := shellCommand(cfg.Shell)
	ptmx, err := pty.Start(shellCmd)
	if err != nil {
		return fmt.Errorf("spawn shell: %w", err)
	}
	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})

	emu := vterm.NewHeadlessEmulator(rows, cols, screen.Beep)

	root := manager.Root()
	pane, err := manager.Create(root, wm.Rect{Left: 0, Top: 0, Right: w, Bottom: h}, wm.NopHandler, 0)
	if err != nil {
		return fmt.Errorf("create pane: %w", err)
	}

	adapter := vterm.NewAdapter(emu, pane.Drawable(), colors, borderStyle(cfg.BorderStyle), screen.Beep, screen.SetCursorVisible, slog.Default())

	// The pty is talked to directly (passthrough) while the rest of the
	// pipeline above is still being assembled, then switched over to a
	// non-blocking buffered writer once everything is wired, so a slow or
	// stalled shell can never back up onto the message loop's goroutine.
	sw := ptyio.NewSwitch(ptmx)
	defer sw.Close()

	pane.SetHandler(paneHandler(adapter, emu, ptmx))
	root.SetHandler(rootHandler(manager, pane))
	manager.Invalidate(pane)

	sw.Enable(ptyio.WrapReadWriteCloser(ptmx, 8192))

	done := make(chan struct{})
	go ptyReadLoop(sw, adapter, manager, pane, done)
	go keyboardLoop(screen, sw, manager, done)

	loop.Run()
	<-done
	return nil
}

// paneHandler dispatches MsgPaint to the adapter's damage-driven redraw and
// MsgPosChanged to resizing the emulator and the pty to match, so a
// terminal resize (propagated through the window tree as a position
// change on the pane) keeps the shell's notion of its size in sync.
func paneHandler(adapter *vterm.Adapter, emu vterm.Emulator, ptmx *os.File) wm.Handler {
	return func(w *wm.Window, msg wm.MessageID, payload any) uint32 {
		switch msg {
		case wm.MsgPaint:
			adapter.Draw()
		case wm.MsgPosChanged:
			pc := payload.(wm.PosChanged)
			rows, cols := max1(pc.New.Height()-2), max1(pc.New.Width()-2)
			emu.Resize(rows, cols)
			_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
		}
		return 0
	}
}

// rootHandler keeps pane filling the screen across a terminal resize. A
// root resize alone leaves pane's parent-relative geometry untouched (see
// internal/wm's resize handling), so without this the pane, and the shell
// running inside it, would stay pinned at their original size forever.
func rootHandler(manager *wm.Manager, pane *wm.Window) wm.Handler {
	return func(root *wm.Window, msg wm.MessageID, _ any) uint32 {
		if msg == wm.MsgPosChanged {
			rect := root.Rect()
			if err := manager.SetPos(pane, wm.Rect{Left: 0, Top: 0, Right: rect.Width(), Bottom: rect.Height()}); err != nil {
				slog.Warn("resize pane to fill screen failed", "error", err)
			}
		}
		return 0
	}
}

// ptyReadLoop feeds the shell's pty output into the adapter and invalidates
// the pane whenever that leaves damage pending, which is what arms the
// scheduler to actually draw it on the next idle pass. Shell exit (EOF)
// shuts the manager down, which unblocks loop.Run.
func ptyReadLoop(sw *ptyio.Switch, adapter *vterm.Adapter, manager *wm.Manager, pane *wm.Window, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := sw.Read(buf)
		if n > 0 {
			if _, ferr := adapter.Feed(buf[:n]); ferr != nil {
				slog.Warn("emulator feed error", "error", ferr)
			}
			manager.Invalidate(pane)
		}
		if err != nil {
			if err != io.EOF {
				slog.Warn("pty read error", "error", err)
			}
			manager.Shutdown()
			return
		}
	}
}

// keyboardLoop reads keys from the curses screen and forwards them to the
// shell's pty through sw. Ctrl-Q requests a clean shutdown instead of being
// forwarded, since the demo harness has no other way to quit a raw-mode
// full-screen session; it also closes sw directly so ptyReadLoop's blocked
// Read unblocks instead of waiting on the child shell to exit on its own.
func keyboardLoop(screen *curses.Screen, sw *ptyio.Switch, manager *wm.Manager, done chan struct{}) {
	const ctrlQ = 17
	for {
		select {
		case <-done:
			return
		default:
		}
		ch := screen.ReadKey()
		if ch < 0 {
			continue // curses.KeyFlushed or no input available
		}
		if ch == ctrlQ {
			manager.Shutdown()
			_ = sw.Close()
			return
		}
		if _, err := sw.Write(encodeKey(ch)); err != nil {
			slog.Warn("keyboard forward error", "error", err)
			return
		}
	}
}

// encodeKey maps a curses key code onto the byte sequence a shell expects
// to see on its input stream. A handful of control keys are translated and
// other codes below 256 are passed through as single bytes; special keys
// at or above 256 are dropped rather than guessed at.
func encodeKey(ch int) []byte {
	switch ch {
	case '\n', '\r':
		return []byte{'\r'}
	case 127, 8:
		return []byte{127}
	}
	if ch >= 0 && ch < 256 {
		return []byte{byte(ch)}
	}
	return nil
}

func shellCommand(shell []string) *exec.Cmd {
	if len(shell) == 0 || shell[0] == "" {
		shell = []string{"/bin/sh"}
	}
	cmd := exec.Command(shell[0], shell[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	return cmd
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
