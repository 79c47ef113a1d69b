// Package session holds the per-upload form state: the extracted field map,
// per-field provenance, and the manual clinical fields the reviewer fills in.
// A session lives for one interactive review; nothing is persisted.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/hemoba-digital/fichagen/internal/extract"
)

// Session is the form state for one uploaded document. It is owned by the
// request handling the current interaction; handlers mutate it in place.
type Session struct {
	ID      string
	Created time.Time

	// Fields maps canonical field keys to their current values, seeded by
	// extraction and overwritten by manual edits.
	Fields map[string]string
	// Origin tracks per-key provenance for the review UI's indicator dots.
	Origin map[string]extract.Origin

	// RawText is the full acquired document text, kept for the debug view.
	RawText string
	// Notice is an informational message for the reviewer (e.g. OCR
	// unavailable); it never blocks the review step.
	Notice string
}

// New creates an empty session for a fresh upload.
func New() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Fields:  make(map[string]string),
		Origin:  make(map[string]extract.Origin),
	}
}

// Seed copies an extraction result into the session. Existing non-empty
// values are kept, preserving first-match-wins across repeated uploads into
// the same session.
func (s *Session) Seed(res *extract.Result, rawText string) {
	if res != nil {
		for key, value := range res.Fields {
			if s.Fields[key] != "" {
				continue
			}
			s.Fields[key] = value
			s.Origin[key] = res.Origin[key]
		}
	}
	s.RawText = rawText
}

// SetField records a manual correction. An edit overwrites a single key and
// leaves every other key untouched.
func (s *Session) SetField(key, value string) {
	s.Fields[key] = value
	s.Origin[key] = extract.OriginManual
}

// Extracted reports whether the key was auto-populated (used for the review
// UI's colored indicator).
func (s *Session) Extracted(key string) bool {
	o, ok := s.Origin[key]
	return ok && o != extract.OriginManual && s.Fields[key] != ""
}

// Snapshot returns a copy of the field map, so exports and fill payloads do
// not alias the live session.
func (s *Session) Snapshot() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		out[k] = v
	}
	return out
}
