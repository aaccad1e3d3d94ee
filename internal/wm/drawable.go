package wm

// CellAttr is a bitmask of the text attributes a single cell can carry.
type CellAttr uint8

const (
	AttrBold CellAttr = 1 << iota
	AttrUnderline
	AttrBlink
	AttrReverse
)

// Drawable is the curses-side surface backing a window node: either a real
// window handle (internal/curses) or the screen itself for the root. It is
// the minimal set of primitives the window tree and paint scheduler need;
// everything else about the underlying curses library stays behind it.
type Drawable interface {
	// MoveWindow repositions the drawable's screen-absolute origin.
	MoveWindow(y, x int) error
	// Resize changes the drawable's cell dimensions.
	Resize(height, width int) error
	// Maxyx reports the drawable's current cell dimensions.
	Maxyx() (height, width int)
	// Erase clears the drawable's contents.
	Erase()
	// Box draws a border using the given line style.
	Box(style BorderStyle) error
	// SetCell writes one cell's content, attributes and color pair.
	SetCell(y, x int, ch rune, attrs CellAttr, pair int16)
	// MoveCursor positions the drawable's logical cursor.
	MoveCursor(y, x int)
	// Refresh flushes this drawable directly to the physical screen.
	Refresh()
	// NoutRefresh stages this drawable into the virtual screen buffer
	// without a physical flush (see Screen.Update).
	NoutRefresh()
	// Delete releases the drawable. Safe to call on the root's screen
	// drawable, which treats it as a no-op (see internal/curses).
	Delete() error
}

// BorderStyle selects a box-drawing character set.
type BorderStyle uint8

const (
	BorderSingle BorderStyle = iota
	BorderDouble
	BorderRounded
	BorderHeavy
	BorderNone
)

// Screen is the process-wide curses display: the thing a virtual-screen
// flush ultimately targets. Only the root window's drawable needs to also
// satisfy this.
type Screen interface {
	Drawable
	// Update flips everything staged via NoutRefresh to the physical
	// terminal in one atomic call (curses' doupdate).
	Update() error
	// Winsize queries the operating system for the terminal's current
	// size (ioctl TIOCGWINSZ on a real terminal), independent of whatever
	// size curses currently believes it to be. The resize subsystem needs
	// this rather than Maxyx: curses' own notion of the screen's
	// dimensions does not update until told to via Resize, so asking it
	// for the new size before that call would just echo the old one back.
	Winsize() (rows, cols int, err error)
}
