package extract

import (
	"strings"
	"unicode"
)

// findLabel locates the first case- and accent-insensitive occurrence of
// label in line. The occurrence may not start inside a longer alphanumeric
// run ("UF" must not match inside "SUFICIENTE"), but it may be a printed
// prefix: "Data de Nasc" matches a form that prints "Data de Nascimento",
// and the rest of the glued word is consumed as part of the label. It
// returns the byte offset of the occurrence and the text following it.
//
// Offsets refer to line itself. When folding changes the rune count of the
// line (input with stray combining marks), matching and slicing fall back to
// the folded text, which loses diacritics in the returned remainder but never
// misaligns.
func findLabel(line, label string) (start int, after string, ok bool) {
	lineRunes := []rune(line)
	folded := []rune(foldLower(line))
	needle := []rune(foldLower(label))
	if len(needle) == 0 || len(folded) < len(needle) {
		return 0, "", false
	}

	src := lineRunes
	if len(folded) != len(lineRunes) {
		src = folded
	}

	for i := 0; i+len(needle) <= len(folded); i++ {
		if !runesEqual(folded[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && alnum(needle[0]) && alnum(folded[i-1]) {
			continue
		}
		end := i + len(needle)
		if alnum(needle[len(needle)-1]) {
			for end < len(folded) && alnum(folded[end]) {
				end++
			}
		}
		start = len(string(src[:i]))
		after = string(src[end:])
		return start, after, true
	}
	return 0, "", false
}

func alnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// trimSeparator removes a leading value separator (":" or "-") and
// surrounding whitespace from the text following a label.
func trimSeparator(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "-") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}
