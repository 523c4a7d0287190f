// Package paint implements the freehand layer of the mask editor.
//
// A Surface is an RGBA raster with the native size of the source image.
// Brush strokes composite a semi-transparent colour over it; eraser strokes
// clear alpha under their footprint. Both draw round-capped, round-joined
// segments, so a pointer drag rendered as consecutive StrokeTo calls forms
// one continuous line.
//
// At submission time OpaqueBounds collapses everything painted into a
// single bounding rectangle, which the zone resolver merges with the
// explicit selection rectangles. The generation model only accepts
// rectangular zones, so the painted shape itself is not sent.
package paint
