package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the source format of an uploaded document.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

// Token is a positioned text fragment from a native-text PDF page.
// Coordinates use the page coordinate space of the source (origin
// bottom-left, Y grows upward).
type Token struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
}

// CenterY returns the vertical center of the token.
func (t Token) CenterY() float64 {
	return (t.Y0 + t.Y1) / 2
}

// Document is the searchable substrate produced by acquisition: positioned
// tokens when the source had a text layer, plain lines always, plus the raw
// page text for the debug surface and the loose extraction pass.
type Document struct {
	Kind    Kind     `json:"kind"`
	Tokens  []Token  `json:"tokens,omitempty"`
	Lines   []string `json:"lines"`
	Raw     string   `json:"raw"`
	FromOCR bool     `json:"from_ocr"`
}

// Empty reports whether acquisition produced no usable text.
func (d *Document) Empty() bool {
	return d == nil || (len(d.Tokens) == 0 && len(d.Lines) == 0 && strings.TrimSpace(d.Raw) == "")
}

// KindFromName maps an uploaded file name to a document kind. Only PDF and
// JPG/JPEG/PNG uploads are supported.
func KindFromName(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".jpg", ".jpeg", ".png":
		return KindImage, nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(name))
	}
}
