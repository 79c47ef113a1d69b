package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nameRunPattern  = regexp.MustCompile(`[\p{L}][\p{L}'-]*`)
	datePattern     = regexp.MustCompile(`(\d{2})\D?(\d{2})\D?(\d{4})`)
	phonePattern    = regexp.MustCompile(`\(?\d{2}\)?[\s.]?\d{4,5}[-\s]?\d{4}`)
	statePattern    = regexp.MustCompile(`\b[A-Z]{2}\b`)
	nonDigitPattern = regexp.MustCompile(`\D`)

	// Neighboring-column text that commonly bleeds into band captures.
	bleedPattern = regexp.MustCompile(`(?i)\b(CID\s?10.*|Nome do Estabelecimento.*)$`)
)

// Fold removes diacritics from s, so label and vocabulary matching can be
// accent-insensitive.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func foldLower(s string) string {
	return strings.ToLower(Fold(s))
}

// stripBleed cuts known neighboring-field fragments off the end of a band
// capture.
func stripBleed(s string) string {
	return strings.TrimSpace(bleedPattern.ReplaceAllString(s, ""))
}

// Normalize applies the rule's acceptance filter to a raw candidate and
// returns the canonical value, or "" when the candidate is rejected.
// Normalization is idempotent: feeding a canonical value back in returns it
// unchanged.
func Normalize(rule FieldRule, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch rule.Kind {
	case KindName:
		return normalizeName(raw)
	case KindDigits:
		return normalizeDigits(raw, rule.MinDigits, rule.MaxDigits)
	case KindDate:
		return normalizeDate(raw)
	case KindSex:
		return normalizeSex(raw)
	case KindEnum:
		return normalizeEnum(raw, rule.Vocabulary)
	case KindPhone:
		return normalizePhone(raw)
	case KindState:
		return normalizeState(raw)
	default:
		return strings.Join(strings.Fields(raw), " ")
	}
}

// normalizeName keeps alphabetic runs (apostrophe and hyphen allowed inside a
// run), dropping digits, stray punctuation and bleed-over label fragments. A
// candidate without any run of two or more letters is rejected.
func normalizeName(raw string) string {
	runs := nameRunPattern.FindAllString(stripBleed(raw), -1)
	qualifies := false
	for _, r := range runs {
		letters := 0
		for _, c := range r {
			if unicode.IsLetter(c) {
				letters++
			}
		}
		if letters >= 2 {
			qualifies = true
			break
		}
	}
	if !qualifies {
		return ""
	}
	return strings.Join(runs, " ")
}

func normalizeDigits(raw string, minDigits, maxDigits int) string {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if len(digits) < minDigits {
		return ""
	}
	if maxDigits > 0 && len(digits) > maxDigits {
		digits = digits[:maxDigits]
	}
	return digits
}

func normalizeDate(raw string) string {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])
}

func normalizeSex(raw string) string {
	s := foldLower(raw)
	switch {
	case strings.Contains(s, "fem"):
		return "Feminino"
	case strings.Contains(s, "masc"):
		return "Masculino"
	default:
		return ""
	}
}

// normalizeEnum matches whole words of the candidate against the vocabulary,
// ignoring case and accents. A candidate whose words merely contain a
// vocabulary entry ("PARDAX") is rejected.
func normalizeEnum(raw string, vocabulary []string) string {
	for _, word := range nameRunPattern.FindAllString(raw, -1) {
		for _, v := range vocabulary {
			if foldLower(word) == foldLower(v) {
				return v
			}
		}
	}
	return ""
}

// normalizePhone reformats the first plausible national number found in the
// candidate; anything without a 10-11 digit run passes through trimmed.
func normalizePhone(raw string) string {
	m := phonePattern.FindString(raw)
	if m == "" {
		return strings.Join(strings.Fields(raw), " ")
	}
	digits := nonDigitPattern.ReplaceAllString(m, "")
	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	default:
		return strings.Join(strings.Fields(raw), " ")
	}
}

func normalizeState(raw string) string {
	if m := statePattern.FindString(raw); m != "" {
		return m
	}
	return strings.Join(strings.Fields(raw), " ")
}
