// Package selection implements the rectangle selection algebra of the mask
// editor: the drag lifecycle that produces a provisional rectangle, and the
// set of committed rectangles it feeds.
//
// A finished drag combines with the set in one of three modes. Replace
// starts over, Additive appends, and Subtractive carves the new rectangle
// out of every member with Subtract. Subtract always emits its strips in
// the same order (top, bottom, left, right), so repeated cuts fragment a
// selection the same way every time.
//
// Drags whose width or height does not exceed NoiseThreshold are dropped
// without error; they are accidental clicks, not selections.
package selection
