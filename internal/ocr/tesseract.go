package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/mask-studio-mcp/internal/geom"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "eng"

// Options controls text detection.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "deu". The
	// matching traineddata must be installed.
	Language string

	// MinConfidence drops words Tesseract is less sure of, on its 0-100
	// scale.
	MinConfidence float64

	// Region limits detection to part of the image. A zero rectangle means
	// the whole image.
	Region image.Rectangle
}

// Word is one recognized word and where it sits in the source image.
type Word struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"` // 0-100
	Bounds     geom.Rect `json:"bounds"`
}

// DetectWords runs word-level OCR over img and returns every non-empty word
// at or above the confidence threshold. Bounds are in img's pixel space with
// the origin at img.Bounds().Min, even when Options.Region is set.
func DetectWords(img image.Image, opts Options) ([]Word, error) {
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	b := img.Bounds()
	area := b
	if !opts.Region.Empty() {
		area = opts.Region.Add(b.Min).Intersect(b)
		if area.Empty() {
			return nil, fmt.Errorf("region %v outside image bounds %v", opts.Region, b)
		}
	}
	cropped := imaging.Crop(img, area)
	offX := float64(area.Min.X - b.Min.X)
	offY := float64(area.Min.Y - b.Min.Y)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" || box.Confidence < opts.MinConfidence {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Confidence: box.Confidence,
			Bounds: geom.Rect{
				X: float64(box.Box.Min.X) + offX,
				Y: float64(box.Box.Min.Y) + offY,
				W: float64(box.Box.Dx()),
				H: float64(box.Box.Dy()),
			},
		})
	}
	return words, nil
}

// Rects returns the bounds of words, padded by pad pixels on every side and
// clipped to a w by h image.
func Rects(words []Word, pad float64, w, h int) []geom.Rect {
	img := geom.Rect{W: float64(w), H: float64(h)}
	rects := make([]geom.Rect, 0, len(words))
	for _, wd := range words {
		r := geom.Rect{
			X: wd.Bounds.X - pad,
			Y: wd.Bounds.Y - pad,
			W: wd.Bounds.W + 2*pad,
			H: wd.Bounds.H + 2*pad,
		}
		if clipped := r.Intersect(img); !clipped.Empty() {
			rects = append(rects, clipped)
		}
	}
	return rects
}

// Version returns the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
