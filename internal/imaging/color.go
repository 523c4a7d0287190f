package imaging

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes a color in the forms hosts commonly need.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// HexPattern matches the colour strings ParseColor accepts.
const HexPattern = `^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`

var hexPattern = regexp.MustCompile(HexPattern)

// ParseColor parses "#RRGGBB", "#RGB" or the same without the leading '#'.
// The result is fully opaque; paint opacity is applied by the surface.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}
	if !hexPattern.MatchString(s) {
		return nil, fmt.Errorf("invalid color %q: want #RRGGBB or #RGB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats c as "#RRGGBB", ignoring alpha.
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent; report the straight colour channels
		r, g, b, _ := c.RGBA()
		return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	return strings.ToUpper(cf.Hex())
}

// Describe returns c as hex, RGB and HSL.
func Describe(c color.Color) ColorResult {
	hex := Hex(c)
	cf, _ := colorful.Hex(hex)
	r, g, b := cf.RGB255()
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: hex,
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// ContrastColor returns an opaque color that stands out against c: the hue is
// rotated half way round the wheel and lightness pushed away from c's. It is
// used for selection outlines drawn over brush paint.
func ContrastColor(c color.Color) color.RGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	h = math.Mod(h+180, 360)
	if l < 0.5 {
		l = 0.85
	} else {
		l = 0.2
	}
	if s < 0.5 {
		s = 0.5
	}
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
