package zone

import (
	"errors"
	"fmt"
	"image"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// GridSize is the extent of the model's normalized coordinate grid per axis.
const GridSize = 1000

var (
	// ErrNoRegion is returned when neither a selection nor paint marks an
	// area. Callers must not send a request in that case.
	ErrNoRegion = errors.New("select or paint an area to edit")

	// ErrNoImage is returned when the native image size is not positive.
	ErrNoImage = errors.New("image dimensions must be positive")
)

// Zone is a rectangle on the normalized grid, in the order the model reads
// it: top, left, bottom, right.
type Zone struct {
	Y1 int `json:"y1"`
	X1 int `json:"x1"`
	Y2 int `json:"y2"`
	X2 int `json:"x2"`
}

// Normalize maps a native rectangle of an image of width w and height h
// onto the normalized grid. Values are floored, never clamped.
func Normalize(r geom.Rect, w, h int) Zone {
	fw, fh := float64(w), float64(h)
	return Zone{
		Y1: int(math.Floor(r.Y / fh * GridSize)),
		X1: int(math.Floor(r.X / fw * GridSize)),
		Y2: int(math.Floor(r.Bottom() / fh * GridSize)),
		X2: int(math.Floor(r.Right() / fw * GridSize)),
	}
}

// Bounds maps the zone back to native pixels of a w by h image.
func (z Zone) Bounds(w, h int) image.Rectangle {
	return image.Rect(
		z.X1*w/GridSize,
		z.Y1*h/GridSize,
		z.X2*w/GridSize,
		z.Y2*h/GridSize,
	)
}

// String formats the zone as the tag the generation model understands.
func (z Zone) String() string {
	return fmt.Sprintf("[EDIT_ZONE: %d, %d, %d, %d]", z.Y1, z.X1, z.Y2, z.X2)
}

// OpaqueBounder reports the bounding box of a painted layer.
type OpaqueBounder interface {
	OpaqueBounds(stride int) (geom.Rect, bool)
}

// Resolve merges the selection rectangles and the painted layer's bounding
// box into normalized edit zones, selection rectangles first.
//
// painted may be nil. stride is passed through to OpaqueBounds.
// ErrNoRegion is returned when the combined list is empty.
func Resolve(rects []geom.Rect, painted OpaqueBounder, stride, w, h int) ([]Zone, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrNoImage
	}

	all := make([]geom.Rect, 0, len(rects)+1)
	all = append(all, rects...)
	if painted != nil {
		if r, ok := painted.OpaqueBounds(stride); ok {
			all = append(all, r)
		}
	}
	if len(all) == 0 {
		return nil, ErrNoRegion
	}

	zones := make([]Zone, 0, len(all))
	for _, r := range all {
		zones = append(zones, Normalize(r, w, h))
	}
	return zones, nil
}

// Annotate appends one zone tag per line to prompt, separated from the
// prompt text by a blank line. With no zones the prompt is returned as is.
func Annotate(prompt string, zones []Zone) string {
	if len(zones) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(prompt, " \n"))
	b.WriteString("\n")
	for _, z := range zones {
		b.WriteString("\n")
		b.WriteString(z.String())
	}
	return b.String()
}

var tagPattern = regexp.MustCompile(`\[EDIT_ZONE:\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*,\s*(-?\d+)\s*\]`)

// Parse extracts zone tags from an annotated prompt. It returns the prompt
// with the tags removed and the zones in the order they appeared.
func Parse(annotated string) (string, []Zone) {
	matches := tagPattern.FindAllStringSubmatch(annotated, -1)
	zones := make([]Zone, 0, len(matches))
	for _, m := range matches {
		var v [4]int
		for i := range v {
			// The pattern only admits integers; overflow is the only failure.
			n, err := strconv.Atoi(m[i+1])
			if err != nil {
				continue
			}
			v[i] = n
		}
		zones = append(zones, Zone{Y1: v[0], X1: v[1], Y2: v[2], X2: v[3]})
	}
	clean := strings.TrimSpace(tagPattern.ReplaceAllString(annotated, ""))
	return clean, zones
}

// Request is the payload handed to the external generation service: the
// annotated prompt and the zones it carries.
type Request struct {
	Prompt string `json:"prompt"`
	Zones  []Zone `json:"zones"`
}

// NewRequest annotates prompt with zones.
func NewRequest(prompt string, zones []Zone) *Request {
	return &Request{
		Prompt: Annotate(prompt, zones),
		Zones:  zones,
	}
}
