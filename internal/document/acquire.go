package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Recognizer is the OCR collaborator used for photographed forms. It is
// best-effort: availability is a configuration fact decided at startup, and
// Recognize may legitimately return an empty string.
type Recognizer interface {
	// Available reports whether OCR can run in this process.
	Available() bool
	// Recognize returns the reading-order text found in the image.
	Recognize(image []byte) (string, error)
}

// Service turns uploaded document bytes into a searchable Document.
type Service struct {
	maxFileSize int64
	lineTol     float64
	recognizer  Recognizer
}

// NewService creates an acquisition service. recognizer may be nil, in which
// case image uploads degrade to an empty document.
func NewService(maxFileSize int64, lineTol float64, recognizer Recognizer) *Service {
	if lineTol <= 0 {
		lineTol = DefaultLineTolerance
	}
	return &Service{
		maxFileSize: maxFileSize,
		lineTol:     lineTol,
		recognizer:  recognizer,
	}
}

// OCRAvailable reports whether the OCR collaborator can run.
func (s *Service) OCRAvailable() bool {
	return s.recognizer != nil && s.recognizer.Available()
}

// Acquire produces the token/line substrate for a document. For images the
// result degrades to an empty document when OCR is unavailable or fails; the
// returned error is non-nil only when the document itself could not be
// decoded, and even then the Document is usable (empty) so the caller can
// still reach the review step.
func (s *Service) Acquire(data []byte, kind Kind) (*Document, error) {
	doc := &Document{Kind: kind}

	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return doc, fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), s.maxFileSize)
	}

	switch kind {
	case KindPDF:
		if err := s.acquirePDF(data, doc); err != nil {
			return &Document{Kind: kind}, err
		}
		return doc, nil
	case KindImage:
		s.acquireImage(data, doc)
		return doc, nil
	default:
		return doc, fmt.Errorf("unsupported document kind: %q", kind)
	}
}

// acquirePDF reads positioned tokens and plain text from the first page of a
// native-text PDF. AIH forms are single-page; later pages are ignored.
func (s *Service) acquirePDF(data []byte, doc *Document) (err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return fmt.Errorf("PDF first page is empty")
	}

	// The text layer yields one element per character; merge them into word
	// tokens before any label matching.
	glyphs := make([]glyph, 0, len(page.Content().Text))
	for _, text := range page.Content().Text {
		glyphs = append(glyphs, glyph{
			S:        text.S,
			X:        text.X,
			Y:        text.Y,
			W:        text.W,
			FontSize: text.FontSize,
		})
	}
	doc.Tokens = assembleWords(glyphs, s.lineTol)
	doc.Lines = GroupLines(doc.Tokens, s.lineTol)

	if raw, perr := page.GetPlainText(nil); perr == nil {
		doc.Raw = raw
	}
	if doc.Raw == "" {
		var b bytes.Buffer
		for _, l := range doc.Lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		doc.Raw = b.String()
	}
	return nil
}

// acquireImage runs the OCR collaborator. Failures degrade silently to an
// empty document; the caller decides whether to surface a notice.
func (s *Service) acquireImage(data []byte, doc *Document) {
	doc.FromOCR = true
	if !s.OCRAvailable() {
		return
	}
	raw, err := s.recognizer.Recognize(data)
	if err != nil || raw == "" {
		return
	}
	doc.Raw = raw
	doc.Lines = SplitLines(raw)
}
