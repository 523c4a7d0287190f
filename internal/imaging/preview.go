package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/mask-studio-mcp/internal/zone"
)

// ImageResult is an encoded image returned to MCP clients.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ZonePreview is the crop of one edit zone.
type ZonePreview struct {
	Zone zone.Zone `json:"zone"`

	// Region is the native pixel rectangle the zone maps back to.
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	Image ImageResult `json:"image"`
}

// ZonePreviews crops src to each zone and shrinks crops larger than maxSize
// on either side to fit. Zones that map to an empty pixel region are
// skipped.
func ZonePreviews(src image.Image, zones []zone.Zone, maxSize int) ([]ZonePreview, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid preview size: %d", maxSize)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	previews := make([]ZonePreview, 0, len(zones))
	for _, z := range zones {
		r := z.Bounds(w, h).Intersect(image.Rect(0, 0, w, h))
		if r.Empty() {
			continue
		}
		cropped := imaging.Crop(src, r.Add(b.Min))
		if cropped.Bounds().Dx() > maxSize || cropped.Bounds().Dy() > maxSize {
			cropped = imaging.Fit(cropped, maxSize, maxSize, imaging.Lanczos)
		}
		enc, err := EncodePNG(cropped)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", z, err)
		}
		previews = append(previews, ZonePreview{
			Zone:  z,
			X1:    r.Min.X,
			Y1:    r.Min.Y,
			X2:    r.Max.X,
			Y2:    r.Max.Y,
			Image: *enc,
		})
	}
	return previews, nil
}
