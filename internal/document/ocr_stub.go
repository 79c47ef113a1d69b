//go:build !ocr

package document

// NewRecognizer returns an unavailable recognizer when the binary was built
// without the "ocr" tag. Image uploads then degrade to an empty document and
// the UI shows an informational notice instead of failing.
func NewRecognizer(languages string) Recognizer {
	return unavailableRecognizer{}
}

type unavailableRecognizer struct{}

func (unavailableRecognizer) Available() bool { return false }

func (unavailableRecognizer) Recognize(image []byte) (string, error) {
	return "", nil
}
