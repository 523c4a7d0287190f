package selection

import (
	"fmt"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// NoiseThreshold is the minimum width and height, in native pixels, a drag
// rectangle must exceed before it is committed. Smaller drags are treated
// as accidental clicks.
const NoiseThreshold = 5.0

// Mode selects how a finished drag rectangle combines with the set.
type Mode int

const (
	// Replace clears the set before adding the new rectangle.
	Replace Mode = iota
	// Additive appends the new rectangle.
	Additive
	// Subtractive cuts the new rectangle out of every existing member.
	Subtractive
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Additive:
		return "additive"
	case Subtractive:
		return "subtractive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a wire name back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "replace":
		return Replace, nil
	case "additive", "add":
		return Additive, nil
	case "subtractive", "subtract":
		return Subtractive, nil
	}
	return Replace, fmt.Errorf("unknown selection mode: %s", s)
}

// Drag tracks the provisional rectangle of an in-progress pointer drag.
// The zero value is not dragging.
type Drag struct {
	anchor geom.Point
	rect   geom.Rect
	active bool
}

// Begin anchors a new provisional rectangle with zero size at p.
func (d *Drag) Begin(p geom.Point) {
	d.anchor = p
	d.rect = geom.Rect{X: p.X, Y: p.Y}
	d.active = true
}

// Update stretches the provisional rectangle to the bounding box of the
// anchor and p. It does nothing when no drag is active.
func (d *Drag) Update(p geom.Point) {
	if !d.active {
		return
	}
	d.rect = geom.Canon(d.anchor, p)
}

// Rect returns the provisional rectangle and whether a drag is active.
func (d *Drag) Rect() (geom.Rect, bool) {
	return d.rect, d.active
}

// End returns the final rectangle and resets the drag.
func (d *Drag) End() (geom.Rect, bool) {
	r, ok := d.rect, d.active
	*d = Drag{}
	return r, ok
}

// Set is an ordered collection of committed selection rectangles.
//
// Order never changes the union of the set, only how subtraction fragments
// are laid out. A Set belongs to exactly one editor and is not safe for
// concurrent use.
type Set struct {
	rects []geom.Rect
}

// Rects returns a copy of the committed rectangles in order.
func (s *Set) Rects() []geom.Rect {
	out := make([]geom.Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Len returns the number of committed rectangles.
func (s *Set) Len() int { return len(s.rects) }

// Clear empties the set.
func (s *Set) Clear() { s.rects = nil }

// Commit applies r to the set using mode. It returns false, leaving the set
// untouched, when r does not exceed NoiseThreshold in both dimensions.
func (s *Set) Commit(r geom.Rect, mode Mode) bool {
	if r.W <= NoiseThreshold || r.H <= NoiseThreshold {
		return false
	}

	switch mode {
	case Additive:
		s.rects = append(s.rects, r)
	case Subtractive:
		next := make([]geom.Rect, 0, len(s.rects))
		for _, existing := range s.rects {
			next = append(next, Subtract(existing, r)...)
		}
		s.rects = next
	default:
		s.rects = append(s.rects[:0], r)
	}
	return true
}

// Seed commits several rectangles at once. With Replace the set is cleared
// once and every rectangle is appended; other modes apply per rectangle.
// It returns how many rectangles passed the noise threshold.
func (s *Set) Seed(rects []geom.Rect, mode Mode) int {
	if mode == Replace {
		s.Clear()
		mode = Additive
	}
	n := 0
	for _, r := range rects {
		if s.Commit(r, mode) {
			n++
		}
	}
	return n
}

// Subtract returns the parts of a not covered by b as up to four
// non-overlapping strips, in this order:
//
//  1. top: full width of a, from a's top to the intersection's top
//  2. bottom: full width of a, from the intersection's bottom to a's bottom
//  3. left: from a's left to the intersection's left, intersection height
//  4. right: from the intersection's right to a's right, intersection height
//
// Empty strips are omitted. When a and b do not overlap the result is [a].
// When b covers a the result is empty.
func Subtract(a, b geom.Rect) []geom.Rect {
	ix1 := max(a.X, b.X)
	iy1 := max(a.Y, b.Y)
	ix2 := min(a.Right(), b.Right())
	iy2 := min(a.Bottom(), b.Bottom())

	if ix1 >= ix2 || iy1 >= iy2 {
		return []geom.Rect{a}
	}

	out := make([]geom.Rect, 0, 4)
	if iy1 > a.Y {
		out = append(out, geom.Rect{X: a.X, Y: a.Y, W: a.W, H: iy1 - a.Y})
	}
	if iy2 < a.Bottom() {
		out = append(out, geom.Rect{X: a.X, Y: iy2, W: a.W, H: a.Bottom() - iy2})
	}
	if ix1 > a.X {
		out = append(out, geom.Rect{X: a.X, Y: iy1, W: ix1 - a.X, H: iy2 - iy1})
	}
	if ix2 < a.Right() {
		out = append(out, geom.Rect{X: ix2, Y: iy1, W: a.Right() - ix2, H: iy2 - iy1})
	}
	return out
}
