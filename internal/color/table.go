// Package color implements the curses color table: capturing a terminal's
// palette, synthesizing a nearest-color lookup cache, and interning
// (foreground, background) pairs as the small integer ids curses color
// pairs require.
//
// This mirrors the shape of a stateful adapter sitting between an emulator
// and a sink, but the state here is a fixed-capacity color cache rather
// than a framebuffer diff.
package color

import "fmt"

// MaxPaletteEntries bounds how many palette slots the table will ever
// capture, regardless of what the terminal advertises.
const MaxPaletteEntries = 256

// maxPairIndexN bounds N so that the largest pair id, (n-1)*n+(n-1)+1,
// still fits the positive range of the int16 pairIDs are stored in and
// handed to curses as. 181*181 = 32761, just under the 32767 ceiling.
const maxPairIndexN = 181

// RGB is a captured or requested color in 0-255 per-channel space.
type RGB struct {
	R, G, B int
}

// distanceSq is the squared Euclidean distance between two colors, used for
// nearest-match lookups. No need for an actual sqrt since we only compare
// relative magnitudes.
func (c RGB) distanceSq(o RGB) int {
	dr := c.R - o.R
	dg := c.G - o.G
	db := c.B - o.B
	return dr*dr + dg*dg + db*db
}

// hashKey packs the high 5 bits of each channel into a 15-bit index,
// bucketing 8 (256/32) of each channel's input values together.
func hashKey(c RGB) int {
	r := (c.R >> 3) & 0x1f
	g := (c.G >> 3) & 0x1f
	b := (c.B >> 3) & 0x1f
	return (r << 10) | (g << 5) | b
}

// Device abstracts the curses-side palette primitives the table needs.
// It is deliberately narrow so that it can be satisfied either by a real
// curses binding (internal/curses) or a fake in tests.
type Device interface {
	// Colors reports how many colors the terminal advertises.
	Colors() int
	// PairCapacity reports how many distinct color pairs curses can track.
	PairCapacity() int
	// CanChangeColor reports whether the terminal supports redefining
	// palette entries.
	CanChangeColor() bool
	// DefaultColor returns the terminal's built-in RGB for palette index i,
	// in 0-255 space.
	DefaultColor(i int) (RGB, error)
	// SetColor pushes rgb (0-255 space) into palette slot i. Implementations
	// are expected to do the 0-255 -> 0-1000 scaling curses requires.
	SetColor(i int, rgb RGB) error
	// ReadColor reads back whatever the terminal now reports for slot i,
	// in 0-255 space (after un-scaling from curses' 0-1000 units).
	ReadColor(i int) (RGB, error)
	// InternPair registers curses color-pair id `pair` for (fg, bg), both
	// palette indices.
	InternPair(pair, fg, bg int) error
}

// Table is a fixed-capacity color cache bound to one curses-style device:
// a captured palette, an eagerly-interned (fg, bg) pair table, and a
// nearest-color lookup cache for colors outside the captured palette.
type Table struct {
	dev Device

	n int // number of usable palette entries; N in the design doc

	palette [MaxPaletteEntries]RGB
	valid   [MaxPaletteEntries]bool

	// pairIDs[fg][bg] holds the interned curses pair id for (fg, bg), or 0
	// if not yet (or never) interned. Pair ids start at 1, matching curses'
	// convention that pair 0 is the default.
	pairIDs [MaxPaletteEntries][MaxPaletteEntries]int16

	// hash caches the nearest captured palette index per 15-bit RGB bucket.
	// hashSet tracks whether a bucket has been resolved yet.
	hash    [1 << 15]int16
	hashSet [1 << 15]bool

	usable bool
}

// New constructs an unbound table; call Bind before use.
func New() *Table {
	return &Table{}
}

// Usable reports whether Bind succeeded. A terminal with no color support
// leaves the table unusable.
func (t *Table) Usable() bool { return t.usable }

// N returns the number of captured palette entries.
func (t *Table) N() int { return t.n }

// Bind captures the palette and eagerly interns all N*N pairs. capacity
// caps how many palette entries are captured beyond what the terminal and
// its pair-capacity already limit; a non-positive capacity (or one above
// MaxPaletteEntries) leaves the cap at MaxPaletteEntries, i.e. no override.
func (t *Table) Bind(dev Device, capacity int) error {
	t.dev = dev

	termColors := dev.Colors()
	if termColors <= 0 {
		t.usable = false
		return nil
	}

	n := termColors
	if cap := isqrt(dev.PairCapacity()); cap < n {
		n = cap
	}
	if capacity > 0 && capacity < n {
		n = capacity
	}
	if n > MaxPaletteEntries {
		n = MaxPaletteEntries
	}
	if n > maxPairIndexN {
		n = maxPairIndexN
	}
	if n <= 0 {
		t.usable = false
		return nil
	}
	t.n = n

	canChange := dev.CanChangeColor()
	for i := 0; i < n; i++ {
		rgb, err := dev.DefaultColor(i)
		if err != nil {
			return fmt.Errorf("color: capture default color %d: %w", i, err)
		}
		if i >= 16 && canChange {
			if err := dev.SetColor(i, rgb); err == nil {
				if readBack, err := dev.ReadColor(i); err == nil {
					rgb = readBack
				}
			}
		}
		t.palette[i] = rgb
		t.valid[i] = true
	}

	for fg := 0; fg < n; fg++ {
		for bg := 0; bg < n; bg++ {
			pair := fg*n + bg + 1
			if err := dev.InternPair(pair, fg, bg); err != nil {
				return fmt.Errorf("color: intern pair (%d,%d): %w", fg, bg, err)
			}
			t.pairIDs[fg][bg] = int16(pair)
		}
	}

	t.usable = true
	return nil
}

// PairID returns the stable curses pair id for (fg, bg). Both must be in
// [0, N()); out-of-range indices are clamped into range so that a caller
// fed an emulator color outside the captured palette still gets something
// drawable rather than an out-of-bounds pair id.
func (t *Table) PairID(fg, bg int) int16 {
	if !t.usable || t.n == 0 {
		return 0
	}
	if fg < 0 {
		fg = 0
	}
	if fg >= t.n {
		fg = t.n - 1
	}
	if bg < 0 {
		bg = 0
	}
	if bg >= t.n {
		bg = t.n - 1
	}
	return t.pairIDs[fg][bg]
}

// NearestIndex returns the captured palette index nearest to rgb, caching
// the result by the high 5 bits of each channel so that repeated lookups
// for colors in the same bucket are O(1).
func (t *Table) NearestIndex(rgb RGB) int16 {
	key := hashKey(rgb)
	if t.hashSet[key] {
		return t.hash[key]
	}

	best := int16(0)
	bestDist := -1
	for i := 0; i < t.n; i++ {
		if !t.valid[i] {
			continue
		}
		if t.palette[i] == rgb {
			// exact match short-circuits the scan.
			best = int16(i)
			bestDist = 0
			break
		}
		d := rgb.distanceSq(t.palette[i])
		if bestDist == -1 || d < bestDist {
			best = int16(i)
			bestDist = d
		}
	}

	t.hash[key] = best
	t.hashSet[key] = true
	return best
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
