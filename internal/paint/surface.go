package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/segment"
	"golang.org/x/image/vector"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// BrushOpacity is the fixed alpha applied to every brush segment.
// Overlapping segments stack, so repeated strokes become more opaque.
const BrushOpacity = 0.5

// DefaultScanStride is the sampling step used by OpaqueBounds callers that
// have no stride configured.
const DefaultScanStride = 5

// arcSteps is the number of line segments approximating each round cap.
const arcSteps = 16

// Tool selects how StrokeTo composites onto the surface.
type Tool int

const (
	// Brush paints with BrushOpacity using normal (over) blending.
	Brush Tool = iota
	// Eraser clears alpha under the stroke regardless of colour.
	Eraser
)

// String returns the wire name of the tool.
func (t Tool) String() string {
	switch t {
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// Surface is the freehand mask layer of one editor. It has the native size
// of the source image and is transparent where nothing has been painted.
//
// Surface is not safe for concurrent use.
type Surface struct {
	img *image.RGBA
	z   vector.Rasterizer
}

// NewSurface returns a transparent surface of the given native size.
// Negative sizes are treated as zero.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Reset(width, height)
	return s
}

// Reset resizes the surface and clears it. Called when the source image
// changes.
func (s *Surface) Reset(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Width returns the surface width in native pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in native pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image returns the underlying raster for rendering. Callers must not
// modify it.
func (s *Surface) Image() *image.RGBA { return s.img }

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

// AlphaAt returns the alpha of the pixel at (x, y), or 0 outside the surface.
func (s *Surface) AlphaAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(s.img.Bounds()) {
		return 0
	}
	return s.img.Pix[s.img.PixOffset(x, y)+3]
}

// StrokeTo draws a segment from prev to curr with round caps and joins.
// width is in native pixels; a width <= 0 draws nothing. A zero-length
// segment stamps a round dot.
//
// The eraser footprint includes every pixel its outline touches at all, so
// erasing along the exact path of an earlier brush stroke removes it
// completely instead of leaving anti-aliased fringes.
func (s *Surface) StrokeTo(prev, curr geom.Point, tool Tool, width float64, c color.Color) {
	radius := width / 2
	if radius <= 0 || s.img.Bounds().Empty() {
		return
	}

	box := capsuleBounds(prev, curr, radius).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}
	s.rasterizeCapsule(prev, curr, radius, box)

	switch tool {
	case Eraser:
		mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
		s.z.DrawOp = draw.Over
		s.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
		s.clearUnder(mask, box.Min)
	default:
		s.z.DrawOp = draw.Over
		s.z.Draw(s.img, box, image.NewUniform(brushColor(c)), image.Point{})
	}
}

// clearUnder zeroes every surface pixel whose mask coverage is non-zero.
// mask pixel (0,0) corresponds to surface pixel at.
func (s *Surface) clearUnder(mask *image.Alpha, at image.Point) {
	b := mask.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			i := s.img.PixOffset(at.X+x, at.Y+y)
			s.img.Pix[i+0] = 0
			s.img.Pix[i+1] = 0
			s.img.Pix[i+2] = 0
			s.img.Pix[i+3] = 0
		}
	}
}

// brushColor keeps the hue of c and replaces its alpha with BrushOpacity.
func brushColor(c color.Color) color.NRGBA {
	if c == nil {
		c = color.Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(BrushOpacity * 255))
	return n
}

// capsuleBounds returns the integer pixel box covering a stroke segment.
func capsuleBounds(p0, p1 geom.Point, r float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(math.Min(p0.X, p1.X)-r)),
		int(math.Floor(math.Min(p0.Y, p1.Y)-r)),
		int(math.Ceil(math.Max(p0.X, p1.X)+r)),
		int(math.Ceil(math.Max(p0.Y, p1.Y)+r)),
	)
}

// rasterizeCapsule loads the outline of a round-capped segment into the
// rasterizer, sized and offset to box.
//
// The outline runs along one side of the segment, around a semicircle at
// p1, back along the other side and around a semicircle at p0.
func (s *Surface) rasterizeCapsule(p0, p1 geom.Point, r float64, box image.Rectangle) {
	w, h := box.Dx(), box.Dy()
	s.z.Reset(w, h)

	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	theta := math.Pi / 2
	if math.Hypot(dx, dy) > 1e-9 {
		theta = math.Atan2(dy, dx) + math.Pi/2
	}

	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	point := func(center geom.Point, angle float64) (float32, float32) {
		x := clamp(center.X+r*math.Cos(angle)-ox, 0, float64(w))
		y := clamp(center.Y+r*math.Sin(angle)-oy, 0, float64(h))
		return float32(x), float32(y)
	}

	s.z.MoveTo(point(p1, theta))
	for k := 1; k <= arcSteps; k++ {
		s.z.LineTo(point(p1, theta-math.Pi*float64(k)/arcSteps))
	}
	for k := 0; k <= arcSteps; k++ {
		s.z.LineTo(point(p0, theta-math.Pi-math.Pi*float64(k)/arcSteps))
	}
	s.z.ClosePath()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OpaqueBounds returns the smallest native rectangle enclosing every
// sampled pixel with non-zero alpha. Pixels are sampled every stride
// pixels on both axes; stride <= 1 scans every pixel. The second result is
// false when no sampled pixel is painted.
//
// The scan is proportional to the image size and is meant to run once per
// submission, not during interactive drags.
func (s *Surface) OpaqueBounds(stride int) (geom.Rect, bool) {
	if stride < 1 {
		stride = 1
	}
	w, h := s.Width(), s.Height()
	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			if s.AlphaAt(x, y) == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return geom.Rect{}, false
	}
	return geom.Rect{
		X: float64(minX),
		Y: float64(minY),
		W: float64(maxX + 1 - minX),
		H: float64(maxY + 1 - minY),
	}, true
}

// Mask returns a binary mask of the painted layer: 255 where any paint
// remains, 0 elsewhere.
func (s *Surface) Mask() *image.Gray {
	alpha := channel.Extract(s.img, channel.Alpha)
	return segment.Threshold(alpha, 1)
}
