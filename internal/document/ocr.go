//go:build ocr

package document

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// tesseractRecognizer wraps the Tesseract OCR engine via gosseract. It
// requires Tesseract and its language data to be installed on the system,
// which is why OCR support sits behind the "ocr" build tag.
type tesseractRecognizer struct {
	languages []string
}

// NewRecognizer returns an OCR recognizer backed by Tesseract. languages is a
// "+"-separated list of traineddata names, e.g. "por+eng".
func NewRecognizer(languages string) Recognizer {
	langs := strings.Split(languages, "+")
	if languages == "" {
		langs = []string{"por", "eng"}
	}
	return &tesseractRecognizer{languages: langs}
}

func (r *tesseractRecognizer) Available() bool {
	client := gosseract.NewClient()
	defer client.Close()
	return client.SetLanguage(r.languages...) == nil
}

func (r *tesseractRecognizer) Recognize(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
