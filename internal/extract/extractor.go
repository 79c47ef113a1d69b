package extract

import (
	"strings"

	"github.com/hemoba-digital/fichagen/internal/document"
)

// Origin records where a field value came from. It only drives UI feedback;
// extraction itself never consults it.
type Origin string

const (
	OriginText   Origin = "AUTO_TEXT"
	OriginOCR    Origin = "AUTO_OCR"
	OriginManual Origin = "MANUAL"
)

// Result is the flat field map produced by one extraction pass over one
// document, with per-key provenance. Absent keys mean "not found", which is
// never an error.
type Result struct {
	Fields map[string]string `json:"fields"`
	Origin map[string]Origin `json:"origin"`
}

// Options tunes the extraction heuristics. The window and tolerances are
// empirical constants with no principled source of truth, so they are
// configuration rather than code.
type Options struct {
	// Rules is the label table; DefaultRules() when nil.
	Rules []FieldRule
	// LineWindow is how many lines below a bare label are scanned for an
	// unlabeled value.
	LineWindow int
	// BandTolerance is the vertical slack, in page units, when collecting
	// tokens from the band to the right of a label.
	BandTolerance float64
	// LineTolerance is the clustering tolerance used to rebuild token lines
	// for the spatial pass.
	LineTolerance float64
}

const (
	// DefaultLineWindow bounds the forward scan for a value below its label.
	DefaultLineWindow = 4
	// DefaultBandTolerance matches the label row band of the printed form.
	DefaultBandTolerance = 3.0
)

// Extractor locates known field labels in acquired document text and pulls
// the adjacent values into a field map.
type Extractor struct {
	rules   []FieldRule
	window  int
	bandTol float64
	lineTol float64
}

// New creates an extractor with the given options.
func New(opts Options) *Extractor {
	e := &Extractor{
		rules:   opts.Rules,
		window:  opts.LineWindow,
		bandTol: opts.BandTolerance,
		lineTol: opts.LineTolerance,
	}
	if e.rules == nil {
		e.rules = DefaultRules()
	}
	if e.window <= 0 {
		e.window = DefaultLineWindow
	}
	if e.bandTol <= 0 {
		e.bandTol = DefaultBandTolerance
	}
	return e
}

// Extract runs the line-based pass, then the spatial band pass for keys still
// missing when positioned tokens exist, then the loose regex pass over the
// raw text. First successful match wins for every key; rejected or missing
// values simply leave the key unset.
func (e *Extractor) Extract(doc *document.Document) *Result {
	res := &Result{
		Fields: make(map[string]string),
		Origin: make(map[string]Origin),
	}
	if doc == nil {
		return res
	}

	origin := OriginText
	if doc.FromOCR {
		origin = OriginOCR
	}

	e.extractLines(doc.Lines, res, origin)
	if len(doc.Tokens) > 0 {
		e.extractBands(doc.Tokens, res, origin)
	}
	e.extractLoose(doc.Raw, res, origin)
	return res
}

// commit normalizes a candidate and stores it unless the key is already set.
// Returns true when the key is set after the call, so callers can stop
// looking.
func (e *Extractor) commit(res *Result, rule *FieldRule, raw string, origin Origin) bool {
	if res.Fields[rule.Key] != "" {
		return true
	}
	value := Normalize(*rule, raw)
	if value == "" {
		return false
	}
	res.Fields[rule.Key] = value
	res.Origin[rule.Key] = origin
	return true
}

// extractLines is the primary, line-based strategy: a label found inside a
// line yields either the same-line text after it, or the first qualifying
// line within the forward window.
func (e *Extractor) extractLines(lines []string, res *Result, origin Origin) {
	for i, line := range lines {
		for ri := range e.rules {
			rule := &e.rules[ri]
			if res.Fields[rule.Key] != "" {
				continue
			}
			_, after, ok := e.findAnyLabel(line, rule)
			if !ok {
				continue
			}

			cand := trimSeparator(after)
			cand = e.cutAtNextLabel(cand, rule)
			if cand != "" && !e.startsWithLabel(cand, rule) {
				// Same-line value. If the filter rejects it the key
				// stays unset; the later passes may still rescue it.
				e.commit(res, rule, cand, origin)
				continue
			}

			// Bare label: scan the next few lines for the value.
			for j := i + 1; j < len(lines) && j <= i+e.window; j++ {
				next := strings.TrimSpace(lines[j])
				if next == "" {
					continue
				}
				if e.isLabelLine(next) {
					continue
				}
				e.commit(res, rule, e.cutAtNextLabel(next, rule), origin)
				break
			}
		}
	}
}

// extractLoose fills any keys still empty from unanchored patterns over the
// raw text. This is the last resort, mostly useful for flat OCR output.
func (e *Extractor) extractLoose(raw string, res *Result, origin Origin) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	for ri := range e.rules {
		rule := &e.rules[ri]
		if rule.Loose == nil || res.Fields[rule.Key] != "" {
			continue
		}
		m := rule.Loose.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		cand := m[0]
		if len(m) > 1 {
			cand = m[1]
		}
		e.commit(res, rule, cand, origin)
	}
}

// findAnyLabel tries each label spelling of the rule against the line.
func (e *Extractor) findAnyLabel(line string, rule *FieldRule) (int, string, bool) {
	for _, label := range rule.Labels {
		if start, after, ok := findLabel(line, label); ok {
			return start, after, ok
		}
	}
	return 0, "", false
}

// startsWithLabel reports whether the candidate begins with a label belonging
// to a different rule, which means the source line had no value between two
// labels.
func (e *Extractor) startsWithLabel(cand string, current *FieldRule) bool {
	for ri := range e.rules {
		rule := &e.rules[ri]
		if rule.Key == current.Key {
			continue
		}
		for _, label := range rule.Labels {
			if start, _, ok := findLabel(cand, label); ok && start == 0 {
				return true
			}
		}
	}
	return false
}

// cutAtNextLabel truncates a same-line candidate at the first occurrence of
// another rule's label, so columnar rows like "Sexo: F  Raça/Cor: PARDA" do
// not bleed one field into the next.
func (e *Extractor) cutAtNextLabel(cand string, current *FieldRule) string {
	cut := len(cand)
	for ri := range e.rules {
		rule := &e.rules[ri]
		if rule.Key == current.Key {
			continue
		}
		for _, label := range rule.Labels {
			if start, _, ok := findLabel(cand, label); ok && start < cut {
				cut = start
			}
		}
	}
	return strings.TrimSpace(cand[:cut])
}

// isLabelLine reports whether the line consists of a known label alone,
// optionally followed by a separator.
func (e *Extractor) isLabelLine(line string) bool {
	line = strings.TrimSpace(line)
	for ri := range e.rules {
		rule := &e.rules[ri]
		for _, label := range rule.Labels {
			start, after, ok := findLabel(line, label)
			if !ok || start != 0 {
				continue
			}
			if strings.Trim(after, " :-") == "" {
				return true
			}
		}
	}
	return false
}
