package document

import (
	"sort"
	"strings"
)

// DefaultLineTolerance is the vertical distance, in page units, within which
// two token centers are considered to sit on the same visual line. Native PDF
// text layers rarely need more than a few units; OCR output at photo
// resolution may need a larger value.
const DefaultLineTolerance = 3.5

// GroupTokens clusters positioned tokens into visual lines. Tokens whose
// vertical centers fall within tol of a line's first token are grouped
// together and each group is sorted left to right. Groups are returned in
// reading order (top of page first).
func GroupTokens(tokens []Token, tol float64) [][]Token {
	if len(tokens) == 0 {
		return nil
	}
	if tol <= 0 {
		tol = DefaultLineTolerance
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	// Page Y grows upward, so reading order is descending Y.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CenterY() != sorted[j].CenterY() {
			return sorted[i].CenterY() > sorted[j].CenterY()
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var groups [][]Token
	for _, tk := range sorted {
		if strings.TrimSpace(tk.Text) == "" {
			continue
		}
		n := len(groups)
		if n > 0 {
			anchor := groups[n-1][0]
			if diff := anchor.CenterY() - tk.CenterY(); diff >= -tol && diff <= tol {
				groups[n-1] = append(groups[n-1], tk)
				continue
			}
		}
		groups = append(groups, []Token{tk})
	}

	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].X0 < g[j].X0 })
	}
	return groups
}

// GroupLines clusters tokens into visual lines and joins each line's texts
// with single spaces.
func GroupLines(tokens []Token, tol float64) []string {
	groups := GroupTokens(tokens, tol)
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		parts := make([]string, 0, len(g))
		for _, tk := range g {
			parts = append(parts, strings.TrimSpace(tk.Text))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

// SplitLines turns a flat reading-order string (typically OCR output) into
// whitespace-collapsed lines, dropping blanks.
func SplitLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
