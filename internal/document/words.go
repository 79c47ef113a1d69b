package document

import (
	"sort"
	"strings"
)

// wordSpaceMultiplier is the fraction of the font size a horizontal gap must
// exceed to separate two words. PDF text layers report one element per
// character; label matching needs word tokens.
const wordSpaceMultiplier = 0.3

// fallbackGap separates words when the glyph carries no font size.
const fallbackGap = 3.0

// glyph is one positioned character reported by the PDF text layer.
type glyph struct {
	S        string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// assembleWords merges per-character glyphs into word-level tokens: glyphs on
// the same baseline are concatenated while the horizontal gap between them
// stays below a fraction of the font size. Whitespace glyphs always end the
// current word.
func assembleWords(glyphs []glyph, tol float64) []Token {
	if len(glyphs) == 0 {
		return nil
	}
	if tol <= 0 {
		tol = DefaultLineTolerance
	}

	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]glyph
	for _, g := range sorted {
		n := len(rows)
		if n > 0 {
			if diff := rows[n-1][0].Y - g.Y; diff >= -tol && diff <= tol {
				rows[n-1] = append(rows[n-1], g)
				continue
			}
		}
		rows = append(rows, []glyph{g})
	}

	var tokens []Token
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var cur *Token
		flush := func() {
			if cur != nil && strings.TrimSpace(cur.Text) != "" {
				tokens = append(tokens, *cur)
			}
			cur = nil
		}

		for _, g := range row {
			if strings.TrimSpace(g.S) == "" {
				flush()
				continue
			}
			height := g.FontSize
			if height == 0 {
				height = 12.0
			}
			if cur != nil {
				gap := g.X - cur.X1
				threshold := wordSpaceMultiplier * g.FontSize
				if threshold <= 0 {
					threshold = fallbackGap
				}
				if gap <= threshold {
					cur.Text += g.S
					if x1 := g.X + g.W; x1 > cur.X1 {
						cur.X1 = x1
					}
					if g.Y < cur.Y0 {
						cur.Y0 = g.Y
					}
					if y1 := g.Y + height; y1 > cur.Y1 {
						cur.Y1 = y1
					}
					continue
				}
				flush()
			}
			cur = &Token{Text: g.S, X0: g.X, Y0: g.Y, X1: g.X + g.W, Y1: g.Y + height}
		}
		flush()
	}
	return tokens
}
