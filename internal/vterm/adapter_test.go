package vterm

import (
	"testing"

	"github.com/cvterm/wm/internal/wm"
)

// fakeDrawable is a no-op wm.Drawable recording what was drawn, used to
// exercise the adapter without a real curses binding.
type fakeDrawable struct {
	h, w      int
	boxed     int
	cells     map[[2]int]rune
	cursorY   int
	cursorX   int
}

func newFakeDrawable(h, w int) *fakeDrawable {
	return &fakeDrawable{h: h, w: w, cells: make(map[[2]int]rune)}
}

func (d *fakeDrawable) MoveWindow(int, int) error { return nil }
func (d *fakeDrawable) Resize(h, w int) error      { d.h, d.w = h, w; return nil }
func (d *fakeDrawable) Maxyx() (int, int)          { return d.h, d.w }
func (d *fakeDrawable) Erase()                     {}
func (d *fakeDrawable) Box(wm.BorderStyle) error   { d.boxed++; return nil }
func (d *fakeDrawable) SetCell(y, x int, ch rune, _ wm.CellAttr, _ int16) {
	d.cells[[2]int{y, x}] = ch
}
func (d *fakeDrawable) MoveCursor(y, x int) { d.cursorY, d.cursorX = y, x }
func (d *fakeDrawable) Refresh()            {}
func (d *fakeDrawable) NoutRefresh()        {}
func (d *fakeDrawable) Delete() error       { return nil }

// fakeEmulator is an Emulator whose content and dirty set are set directly
// by the test rather than produced by parsing a byte stream.
type fakeEmulator struct {
	rows, cols int
	grid       map[[2]int]Cell
	dirty      []Position
	cursorPos  Position
	visible    bool
	written    []byte
}

func newFakeEmulator(rows, cols int) *fakeEmulator {
	return &fakeEmulator{rows: rows, cols: cols, grid: make(map[[2]int]Cell), visible: true}
}

func (e *fakeEmulator) Write(p []byte) (int, error) {
	e.written = append(e.written, p...)
	return len(p), nil
}
func (e *fakeEmulator) Rows() int    { return e.rows }
func (e *fakeEmulator) Columns() int { return e.cols }
func (e *fakeEmulator) Resize(rows, cols int) { e.rows, e.cols = rows, cols }
func (e *fakeEmulator) Cell(row, col int) Cell {
	if c, ok := e.grid[[2]int{row, col}]; ok {
		return c
	}
	return Cell{Ch: ' '}
}
func (e *fakeEmulator) Cursor() (Position, bool) { return e.cursorPos, e.visible }
func (e *fakeEmulator) HasDirty() bool           { return len(e.dirty) > 0 }
func (e *fakeEmulator) DirtyCells() []Position   { return e.dirty }
func (e *fakeEmulator) ClearDirty()              { e.dirty = nil }

func (e *fakeEmulator) setCell(row, col int, ch rune) {
	e.grid[[2]int{row, col}] = Cell{Ch: ch}
	e.dirty = append(e.dirty, Position{Row: row, Col: col})
}

func TestFeedCoalescesDamageAcrossWrites(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	a := NewAdapter(emu, newFakeDrawable(10, 10), nil, wm.BorderSingle, nil, nil, nil)

	emu.setCell(2, 3, 'a')
	if _, err := a.Feed([]byte("a")); err != nil {
		t.Fatal(err)
	}
	emu.setCell(5, 7, 'b')
	if _, err := a.Feed([]byte("b")); err != nil {
		t.Fatal(err)
	}

	if a.damage.empty() {
		t.Fatal("expected accumulated damage after two feeds")
	}
	want := Position{Row: 2, Col: 3}
	if a.damage.rect.Left != want.Col || a.damage.rect.Top != want.Row {
		t.Errorf("damage rect origin = (%d,%d), want (%d,%d)", a.damage.rect.Top, a.damage.rect.Left, want.Row, want.Col)
	}
	if a.damage.rect.Right != 8 || a.damage.rect.Bottom != 6 {
		t.Errorf("damage rect = %+v, want bottom-right (6,8)", a.damage.rect)
	}
}

func TestDrawProjectsCellsIntoInterior(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	emu.setCell(1, 1, 'x')
	if _, err := a.Feed(nil); err != nil {
		t.Fatal(err)
	}
	a.Draw()

	// Emulator cell (1,1) is drawn at drawable (row+1, col+1) = (2,2),
	// inside the 1-cell border reservation.
	if got := drawable.cells[[2]int{2, 2}]; got != 'x' {
		t.Errorf("drawable cell (2,2) = %q, want 'x'", got)
	}
	if !a.damage.empty() {
		t.Error("Draw should clear the damage accumulator")
	}
}

func TestDrawRedrawsBorderWhenDamageTouchesEdge(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	// Interior is rows/cols [1, 9); row 0/col 0 of the emulator maps to
	// drawable row/col 1, which touches the interior's top-left edge.
	emu.setCell(0, 0, 'x')
	if _, err := a.Feed(nil); err != nil {
		t.Fatal(err)
	}
	a.Draw()

	if drawable.boxed == 0 {
		t.Error("expected border redraw when damage touches the interior edge")
	}
}

func TestDrawSkipsBorderWhenDamageIsInterior(t *testing.T) {
	emu := newFakeEmulator(20, 20)
	drawable := newFakeDrawable(20, 20)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	emu.setCell(5, 5, 'x')
	if _, err := a.Feed(nil); err != nil {
		t.Fatal(err)
	}
	a.Draw()

	if drawable.boxed != 0 {
		t.Error("expected no border redraw for damage entirely inside the interior")
	}
}

func TestDrawPaintsBorderOnFirstCallWithNoDamage(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	a.Draw()

	if drawable.boxed == 0 {
		t.Error("expected the first Draw to paint a border even with no pending damage")
	}
	if !drawable.hasCell(2, 2) {
		t.Error("expected the first Draw to paint interior cells even with no pending damage")
	}

	drawable.boxed = 0
	a.Draw()
	if drawable.boxed != 0 {
		t.Error("a second Draw with no new damage should not repaint")
	}
}

func TestSyncCursorIgnoresOutOfRangePosition(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	emu.cursorPos = Position{Row: 50, Col: 50}
	a.syncCursor()

	if drawable.cursorY != 0 || drawable.cursorX != 0 {
		t.Errorf("out-of-range cursor should be ignored, drawable cursor moved to (%d,%d)", drawable.cursorY, drawable.cursorX)
	}
}

func TestSyncCursorMovesDrawableCursorWhenInRange(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	emu.cursorPos = Position{Row: 2, Col: 3}
	a.syncCursor()

	if drawable.cursorY != 3 || drawable.cursorX != 4 {
		t.Errorf("cursor = (%d,%d), want (3,4)", drawable.cursorY, drawable.cursorX)
	}
}

func TestSyncCursorForwardsVisibilityChangesOnly(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	var calls []bool
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, func(v bool) { calls = append(calls, v) }, nil)

	emu.visible = true
	a.syncCursor()
	emu.visible = true
	a.syncCursor()
	emu.visible = false
	a.syncCursor()
	emu.visible = false
	a.syncCursor()

	if want := []bool{true, false}; len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("setCursorVisible calls = %v, want %v", calls, want)
	}
}

func TestBellInvokesBeep(t *testing.T) {
	rang := false
	a := NewAdapter(newFakeEmulator(10, 10), newFakeDrawable(10, 10), nil, wm.BorderSingle, func() { rang = true }, nil, nil)

	a.Bell()

	if !rang {
		t.Error("Bell should invoke the configured beep callback")
	}
}

func TestHandlerDrawsOnlyOnPaintMessage(t *testing.T) {
	emu := newFakeEmulator(10, 10)
	drawable := newFakeDrawable(10, 10)
	a := NewAdapter(emu, drawable, nil, wm.BorderSingle, nil, nil, nil)

	emu.setCell(1, 1, 'z')
	if _, err := a.Feed(nil); err != nil {
		t.Fatal(err)
	}

	a.Handler(nil, wm.MsgCreate, nil)
	if drawable.hasCell(2, 2) {
		t.Error("non-paint message should not trigger a draw")
	}

	a.Handler(nil, wm.MsgPaint, nil)
	if !drawable.hasCell(2, 2) {
		t.Error("MsgPaint should trigger a draw")
	}
}

func (d *fakeDrawable) hasCell(y, x int) bool {
	_, ok := d.cells[[2]int{y, x}]
	return ok
}
