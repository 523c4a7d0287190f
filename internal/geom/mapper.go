package geom

// Viewport describes how the source image is laid out on screen at the
// moment a pointer event fires.
//
// Hosts must send a fresh Viewport with every event. Window resizes and
// zoom changes alter DisplayW/DisplayH between events, so nothing derived
// from a Viewport is cached.
type Viewport struct {
	// OriginX, OriginY is the container's top-left corner in client space.
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`

	// Zoom is the container's scale factor. Values <= 0 are treated as 1.
	Zoom float64 `json:"zoom"`

	// DisplayW, DisplayH is the rendered image size before zoom is applied.
	// Zero while the image has not been laid out yet.
	DisplayW float64 `json:"display_width"`
	DisplayH float64 `json:"display_height"`
}

func (vp Viewport) zoom() float64 {
	if vp.Zoom <= 0 {
		return 1
	}
	return vp.Zoom
}

// Visual maps a client-space pointer position into the container's
// unzoomed coordinate space. Cursors and selection outlines are drawn here.
func Visual(clientX, clientY float64, vp Viewport) Point {
	z := vp.zoom()
	return Point{
		X: (clientX - vp.OriginX) / z,
		Y: (clientY - vp.OriginY) / z,
	}
}

// Scale returns the per-axis factors that convert visual space to native
// space. Both are zero when the image has no layout yet.
func Scale(vp Viewport, nativeW, nativeH int) (sx, sy float64) {
	if vp.DisplayW <= 0 || vp.DisplayH <= 0 {
		return 0, 0
	}
	return float64(nativeW) / vp.DisplayW, float64(nativeH) / vp.DisplayH
}

// Native maps a client-space pointer position into source image pixels.
//
// When the displayed size is zero the result is the origin. Callers see
// transient zeros until the host reports a real layout.
func Native(clientX, clientY float64, vp Viewport, nativeW, nativeH int) Point {
	sx, sy := Scale(vp, nativeW, nativeH)
	if sx == 0 && sy == 0 {
		return Point{}
	}
	v := Visual(clientX, clientY, vp)
	return Point{X: v.X * sx, Y: v.Y * sy}
}

// BrushToNative converts a brush width chosen in display pixels into native
// pixels so strokes look the same at any zoom or display size.
// The horizontal factor is used; hosts preserve aspect ratio when scaling.
func BrushToNative(width float64, vp Viewport, nativeW, nativeH int) float64 {
	sx, _ := Scale(vp, nativeW, nativeH)
	return width * sx
}
