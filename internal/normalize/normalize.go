// Package normalize turns the raw text of one candidate into a typed
// value. Normalizers never fail: text they cannot read yields a Result
// without a value and a short note saying why.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is the outcome of normalizing one raw text.
// Value is nil when the text held no usable value.
type Result struct {
	Value interface{}
	Note  string
}

// Ok reports whether a value was produced
func (r Result) Ok() bool { return r.Value != nil }

func value(v interface{}) Result { return Result{Value: v} }

func none(note string) Result { return Result{Note: note} }

// statuteNumber matches the number marker of a statute citation:
// "lei nº 8.213", "lei n. 8.213", "lei n.º 8.213", "lei número 8.213".
var statuteNumber = regexp.MustCompile(`\blei (?:n o|no|nr|n|numero|num) ([0-9])`)

// Fold reduces text to the form used for matching: compatibility
// decomposition with marks removed, case-folded, every run of
// punctuation or whitespace turned into one space. A dot between two
// digits is dropped so "8.213" and "8213" fold alike, and the number
// marker after "lei" is dropped so "Lei nº 8.213" folds like "Lei 8.213".
func Fold(s string) string {
	// transform.Chain and cases.Caser keep state; build them per call so
	// Fold is safe for concurrent runs.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = cases.Fold().String(stripped)

	rs := []rune(stripped)
	var b strings.Builder
	b.Grow(len(stripped))
	gap := false
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%':
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
		case r == '.' && i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]):
		default:
			gap = true
		}
	}
	return statuteNumber.ReplaceAllString(b.String(), "lei ${1}")
}

// containsPhrase reports whether the folded phrase occurs in the folded
// text as whole words: "art 477" does not match inside "art 4770".
func containsPhrase(foldedText, foldedPhrase string) bool {
	if foldedPhrase == "" {
		return false
	}
	return strings.Contains(" "+foldedText+" ", " "+foldedPhrase+" ")
}
