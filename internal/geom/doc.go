// Package geom holds the coordinate types shared by the mask editor and the
// mapping from pointer events to image pixels.
//
// # Coordinate Spaces
//
// Three spaces are involved when a user marks a region:
//   - Client space: raw pointer position reported by the host.
//   - Visual space: position inside the editor container with zoom removed.
//     Cursors and selection outlines are rendered here.
//   - Native space: pixels of the full-resolution source image. Every
//     stored Rect and every paint stroke uses native space.
//
// The normalized 0-1000 grid used by the generation model is produced from
// native space by package zone.
//
// # Degraded Layout
//
// Before the host has laid out the image its displayed size is zero. The
// mapping then returns the origin instead of failing, matching how pointer
// events behave while an image is still loading.
package geom
