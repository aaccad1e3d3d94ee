package wm

// fakeDrawable is a no-op Drawable used to exercise the window tree and
// paint pipeline without a real curses binding.
type fakeDrawable struct {
	h, w      int
	y, x      int
	deleted   bool
	refreshed int
}

func newFakeDrawable(rect Rect) *fakeDrawable {
	return &fakeDrawable{h: rect.Height(), w: rect.Width(), y: rect.Top, x: rect.Left}
}

func (d *fakeDrawable) MoveWindow(y, x int) error               { d.y, d.x = y, x; return nil }
func (d *fakeDrawable) Resize(h, w int) error                   { d.h, d.w = h, w; return nil }
func (d *fakeDrawable) Maxyx() (int, int)                       { return d.h, d.w }
func (d *fakeDrawable) Erase()                                  {}
func (d *fakeDrawable) Box(BorderStyle) error                   { return nil }
func (d *fakeDrawable) SetCell(int, int, rune, CellAttr, int16) {}
func (d *fakeDrawable) MoveCursor(int, int)                     {}
func (d *fakeDrawable) Refresh()                                { d.refreshed++ }
func (d *fakeDrawable) NoutRefresh()                            {}
func (d *fakeDrawable) Delete() error                           { d.deleted = true; return nil }

// fakeScreen is the root's drawable: a fakeDrawable plus an Update that
// records how many times the virtual screen was flushed. osRows/osCols
// model what the operating system currently reports as the terminal size,
// independent of h/w (what curses currently believes); tests simulate a
// SIGWINCH by changing osRows/osCols without touching h/w, the same way a
// real resize only becomes visible to curses once told about it.
type fakeScreen struct {
	*fakeDrawable
	flushes        int
	osRows, osCols int
	winsizeErr     error
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{fakeDrawable: newFakeDrawable(Rect{0, 0, w, h}), osRows: h, osCols: w}
}

func (s *fakeScreen) Update() error {
	s.flushes++
	return nil
}

func (s *fakeScreen) Winsize() (rows, cols int, err error) {
	if s.winsizeErr != nil {
		return 0, 0, s.winsizeErr
	}
	return s.osRows, s.osCols, nil
}

func newDrawableFactory() func(Rect) (Drawable, error) {
	return func(r Rect) (Drawable, error) {
		return newFakeDrawable(r), nil
	}
}
