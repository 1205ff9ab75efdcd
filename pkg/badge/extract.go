// Package badge reads a gym badge screenshot: it resolves the device profile
// from the pixel dimensions, preprocesses the title and activity regions for
// OCR, and parses the activity statistics block.
package badge

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Extractor produces region text from a badge image through an OCR engine.
type Extractor struct {
	Engine   Engine
	ThreshLo uint8
	ThreshHi uint8
}

// NewExtractor returns an Extractor with the default binarization window.
func NewExtractor(e Engine) *Extractor {
	return &Extractor{Engine: e, ThreshLo: DefaultThreshLo, ThreshHi: DefaultThreshHi}
}

// Open decodes a badge file and reports its (height, width).
func Open(path string) (image.Image, int, int, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open image: %w", err)
	}
	return img, img.Bounds().Dy(), img.Bounds().Dx(), nil
}

func (ex *Extractor) crop(img image.Image, top, bottom int) image.Image {
	return imaging.Crop(img, image.Rect(0, top, img.Bounds().Dx(), bottom))
}

func (ex *Extractor) recognize(crop image.Image, scale float64) (string, error) {
	return ex.Engine.Recognize(prepare(crop, scale, ex.ThreshLo, ex.ThreshHi))
}

// Title extracts the badge title. A caller retrying a failed resolution can
// pass a vertical offset (to reach a second title line cut by the status
// bar) together with soften=true to whiten the status-bar strip first.
func (ex *Extractor) Title(img image.Image, p Profile, offset int, soften bool) (string, error) {
	crop := ex.crop(img, p.TitleStart+offset, p.TitleEnd+offset)
	if soften {
		crop = softenOverlay(crop)
	}
	text, err := ex.recognize(crop, p.Scale)
	if err != nil {
		return "", err
	}
	return cleanTitle(text), nil
}

// Activity extracts the raw statistics text under VICTORIES | TIME DEFENDED |
// TREATS. Unusable text is not an error here; it surfaces at parse time.
func (ex *Extractor) Activity(img image.Image, p Profile) (string, error) {
	crop := ex.crop(img, p.ActivStart, p.ActivEnd)
	text, err := ex.recognize(crop, p.Scale)
	if err != nil {
		return "", err
	}
	return cleanActivity(text), nil
}

// cleanTitle normalizes OCR title output: repair the mis-read apostrophe
// glyph, collapse line breaks, lower-case.
func cleanTitle(text string) string {
	text = strings.ReplaceAll(text, "â€™", "'")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// cleanActivity repairs the common digit-zero mis-read in the stats block.
func cleanActivity(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "O", "0"))
}
