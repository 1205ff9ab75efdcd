package badge

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine is the external OCR capability: best-effort text for a preprocessed
// raster region. Implementations own any temp-file or process handling.
type Engine interface {
	Recognize(img image.Image) (string, error)
}

// Tesseract drives a local tesseract install through gosseract. Each call
// uses a fresh client; the crops are small so the per-call cost is noise
// next to recognition itself.
type Tesseract struct {
	Lang string // defaults to eng
}

func (t Tesseract) Recognize(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "badge-*.png")
	if err != nil {
		return "", fmt.Errorf("ocr temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(img, tmp); err != nil {
		return "", fmt.Errorf("ocr save region: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	lang := t.Lang
	if lang == "" {
		lang = "eng"
	}
	_ = client.SetLanguage(lang)
	if err := client.SetImage(tmp); err != nil {
		return "", fmt.Errorf("ocr set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	return text, nil
}
