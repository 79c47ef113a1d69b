package extract

import (
	"sort"
	"strings"

	"github.com/hemoba-digital/fichagen/internal/document"
)

// labelBox is the bounding rectangle of one label occurrence on the page.
type labelBox struct {
	rule *FieldRule
	x0   float64
	y0   float64
	x1   float64
	y1   float64
}

func (b labelBox) overlapsY(y0, y1, tol float64) bool {
	return !(y1 < b.y0-tol || y0 > b.y1+tol)
}

// extractBands is the spatial rescue pass: for each label located among the
// positioned tokens, collect the tokens to its right inside the same
// horizontal band, stopping before the next label that crosses the band, and
// use the concatenation as the candidate value. Only keys left unset by the
// line pass are attempted.
func (e *Extractor) extractBands(tokens []document.Token, res *Result, origin Origin) {
	boxes := e.findLabelBoxes(tokens)
	if len(boxes) == 0 {
		return
	}

	// Document order, so the first occurrence of a label synonym wins.
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].y0 != boxes[j].y0 {
			return boxes[i].y0 > boxes[j].y0
		}
		return boxes[i].x0 < boxes[j].x0
	})

	pageRight := 0.0
	for _, tk := range tokens {
		if tk.X1 > pageRight {
			pageRight = tk.X1
		}
	}

	for _, box := range boxes {
		if res.Fields[box.rule.Key] != "" {
			continue
		}

		// Stop before the next label crossing the same band to the right.
		stopX := pageRight + 1
		for _, other := range boxes {
			if other.x0 > box.x1 && other.overlapsY(box.y0, box.y1, e.bandTol) && other.x0 < stopX {
				stopX = other.x0
			}
		}

		var band []document.Token
		for _, tk := range tokens {
			if tk.Y0 >= box.y0-e.bandTol && tk.Y0 <= box.y1+e.bandTol &&
				tk.X0 >= box.x1+1 && tk.X0 <= stopX-1 {
				band = append(band, tk)
			}
		}
		if len(band) == 0 {
			continue
		}
		sort.SliceStable(band, func(i, j int) bool { return band[i].X0 < band[j].X0 })

		parts := make([]string, 0, len(band))
		for _, tk := range band {
			parts = append(parts, strings.TrimSpace(tk.Text))
		}
		cand := stripBleed(strings.TrimSpace(strings.Join(parts, " ")))
		if cand == "" {
			continue
		}
		e.commit(res, box.rule, cand, origin)
	}
}

// findLabelBoxes searches the clustered token lines for every label spelling
// of every rule and returns the bounding box of each occurrence.
func (e *Extractor) findLabelBoxes(tokens []document.Token) []labelBox {
	var boxes []labelBox
	for _, lineTokens := range document.GroupTokens(tokens, e.lineTol) {
		// Join the line and remember each token's byte range in it, so a
		// text match maps back to the tokens that produced it.
		var sb strings.Builder
		spans := make([][2]int, len(lineTokens))
		for i, tk := range lineTokens {
			if i > 0 {
				sb.WriteByte(' ')
			}
			start := sb.Len()
			sb.WriteString(strings.TrimSpace(tk.Text))
			spans[i] = [2]int{start, sb.Len()}
		}
		line := sb.String()

		for ri := range e.rules {
			rule := &e.rules[ri]
			for _, label := range rule.Labels {
				start, after, ok := findLabel(line, label)
				if !ok {
					continue
				}
				end := len(line) - len(after)
				box, ok := unionTokens(lineTokens, spans, start, end)
				if !ok {
					continue
				}
				box.rule = rule
				boxes = append(boxes, box)
			}
		}
	}
	return boxes
}

// unionTokens returns the bounding box of the tokens overlapping the byte
// range [start, end) of the joined line.
func unionTokens(lineTokens []document.Token, spans [][2]int, start, end int) (labelBox, bool) {
	var box labelBox
	found := false
	for i, tk := range lineTokens {
		if spans[i][1] <= start || spans[i][0] >= end {
			continue
		}
		if !found {
			box = labelBox{x0: tk.X0, y0: tk.Y0, x1: tk.X1, y1: tk.Y1}
			found = true
			continue
		}
		if tk.X0 < box.x0 {
			box.x0 = tk.X0
		}
		if tk.Y0 < box.y0 {
			box.y0 = tk.Y0
		}
		if tk.X1 > box.x1 {
			box.x1 = tk.X1
		}
		if tk.Y1 > box.y1 {
			box.y1 = tk.Y1
		}
	}
	return box, found
}
