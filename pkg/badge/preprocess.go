package badge

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Binarization window tuned for the badge background; values above the low
// cut become background, everything else ink.
const (
	DefaultThreshLo uint8 = 200
	DefaultThreshHi uint8 = 230
)

// threshold maps gray levels above lo to hi and the rest to black, producing
// the high-contrast mask Tesseract reads best on these badges.
func threshold(img image.Image, lo, hi uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8
			if gray > lo {
				v = hi
			}
			out.Set(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// prepare runs the shared preprocessing chain on a cropped region: scale by
// the profile factor, grayscale, then binarize.
func prepare(crop image.Image, scale float64, lo, hi uint8) *image.NRGBA {
	w := int(math.Round(float64(crop.Bounds().Dx()) * scale))
	h := int(math.Round(float64(crop.Bounds().Dy()) * scale))
	resized := imaging.Resize(crop, w, h, imaging.Lanczos)
	gray := imaging.Grayscale(resized)
	return threshold(gray, lo, hi)
}

// softenOverlay whitens the high-contrast status-bar strip at the top of an
// offset title crop so a wrapped second title line underneath survives
// binarization. Only rows in the top third are candidates.
func softenOverlay(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	limit := b.Dy() / 3
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < limit; y++ {
		dark := 0
		for x := 0; x < b.Dx(); x++ {
			r, g, bb, _ := out.At(x, y).RGBA()
			if (r+g+bb)/3>>8 < 128 {
				dark++
			}
		}
		// a status bar reads as a dense run of dark glyphs; normal badge
		// background in this band is nearly uniform
		if dark*100/b.Dx() > 20 {
			for x := 0; x < b.Dx(); x++ {
				out.Set(x, y, white)
			}
		}
	}
	return out
}
