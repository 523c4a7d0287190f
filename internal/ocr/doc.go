// Package ocr finds words in a source image with Tesseract so the editor can
// select text regions in one step.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Word boxes
// come back in native pixels of the source and are turned into selection
// rectangles by Rects.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Regions
//
// Options.Region limits detection to part of the image. The region is
// cropped before recognition and word bounds are shifted back, so callers
// always see source coordinates.
package ocr
