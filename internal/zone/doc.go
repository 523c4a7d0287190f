// Package zone turns the editor's native-space regions into edit zones on
// the generation model's normalized grid.
//
// # Normalized Grid
//
// The model addresses images on a 1000x1000 grid regardless of resolution.
// A native rectangle (x, y, w, h) of a W by H image becomes
//
//	y1 = floor(y/H*1000)      x1 = floor(x/W*1000)
//	y2 = floor((y+h)/H*1000)  x2 = floor((x+w)/W*1000)
//
// and is written into the prompt as "[EDIT_ZONE: y1, x1, y2, x2]".
//
// # Resolution
//
// Resolve collects every selection rectangle plus the bounding box of the
// painted layer. An empty result is ErrNoRegion, which blocks submission
// locally. Zones are computed fresh on every call and never stored.
package zone
