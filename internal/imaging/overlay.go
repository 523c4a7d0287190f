package imaging

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// GridStep is the spacing of normalized grid lines, in grid units.
const GridStep = 100

// outlineWidth is the selection outline thickness in native pixels.
const outlineWidth = 2

// RenderOptions controls what Render draws over the source image.
type RenderOptions struct {
	// Selection rectangles are outlined solid.
	Selection []geom.Rect

	// Provisional, when set, is outlined dashed.
	Provisional *geom.Rect

	// OutlineColor defaults to white.
	OutlineColor color.Color

	// Grid draws normalized grid lines every GridStep units with labels.
	Grid bool
}

// Render composites the paint layer and selection outlines over src. mask
// may be nil. The result has src's dimensions with its origin at (0,0).
func Render(src image.Image, mask image.Image, opts RenderOptions) *image.NRGBA {
	out := imaging.Clone(src)
	if mask != nil {
		out = imaging.Overlay(out, mask, image.Point{}, 1.0)
	}

	outline := opts.OutlineColor
	if outline == nil {
		outline = color.White
	}
	for _, r := range opts.Selection {
		strokeRect(out, r, outline, false)
	}
	if opts.Provisional != nil {
		strokeRect(out, *opts.Provisional, outline, true)
	}
	if opts.Grid {
		drawGrid(out)
	}
	return out
}

// strokeRect outlines r inside its bounds.
func strokeRect(img *image.NRGBA, r geom.Rect, c color.Color, dashed bool) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.Right())-1, int(r.Bottom())-1
	if x1 < x0 || y1 < y0 {
		return
	}
	on := func(i int) bool { return !dashed || (i/6)%2 == 0 }

	for t := 0; t < outlineWidth; t++ {
		for x := x0; x <= x1; x++ {
			if on(x - x0) {
				setClipped(img, x, y0+t, c)
				setClipped(img, x, y1-t, c)
			}
		}
		for y := y0; y <= y1; y++ {
			if on(y - y0) {
				setClipped(img, x0+t, y, c)
				setClipped(img, x1-t, y, c)
			}
		}
	}
}

func setClipped(img *image.NRGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawGrid draws lines at every GridStep units of the 1000-unit grid and
// labels each line with its grid value, so zone coordinates can be read off
// the image.
func drawGrid(img *image.NRGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lineColor := color.NRGBA{255, 0, 0, 255}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 255}

	for v := GridStep; v < 1000; v += GridStep {
		x := v * w / 1000
		for y := 0; y < h; y++ {
			img.Set(x, y, lineColor)
		}
		drawLabel(img, x+2, 2, strconv.Itoa(v), labelColor, bgColor)

		y := v * h / 1000
		for x := 0; x < w; x++ {
			img.Set(x, y, lineColor)
		}
		drawLabel(img, 2, y+2, strconv.Itoa(v), labelColor, bgColor)
	}
}

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text on a background box with its top-left at (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	const charWidth = 4
	const labelHeight = 7
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
