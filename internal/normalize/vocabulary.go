package normalize

import (
	"sort"
	"strings"
	"sync"

	"github.com/ppiankov/jurisflow/internal/reference"
)

// phrase is one folded synonym and the canonical term it stands for
type phrase struct {
	folded string
	term   string
}

// matchers caches the folded, longest-first phrase list per vocabulary.
// Vocabularies are immutable so the cache never goes stale.
var matchers sync.Map // *reference.Vocabulary -> []phrase

func phrasesFor(v *reference.Vocabulary) []phrase {
	if cached, ok := matchers.Load(v); ok {
		return cached.([]phrase)
	}

	var out []phrase
	for _, s := range v.Synonyms() {
		if f := Fold(s.Phrase); f != "" {
			out = append(out, phrase{folded: f, term: s.Term})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].folded) > len(out[j].folded)
	})

	actual, _ := matchers.LoadOrStore(v, out)
	return actual.([]phrase)
}

// matchTerms returns the canonical terms named in raw, ordered by where
// they first appear. An exact canonical term short-circuits the scan.
func matchTerms(v *reference.Vocabulary, raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if v.Contains(trimmed) {
		return []string{trimmed}
	}

	// Pad so every phrase match sits between two spaces
	text := " " + Fold(raw) + " "
	type hit struct {
		term string
		pos  int
	}
	var hits []hit
	for _, p := range phrasesFor(v) {
		needle := " " + p.folded + " "
		for {
			i := strings.Index(text, needle)
			if i < 0 {
				break
			}
			hits = append(hits, hit{term: p.term, pos: i})
			// Consume the span so shorter phrases inside it do not match
			text = text[:i+1] + strings.Repeat("\x00", len(p.folded)) + text[i+1+len(p.folded):]
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	var terms []string
	seen := make(map[string]bool)
	for _, h := range hits {
		if !seen[h.term] {
			seen[h.term] = true
			terms = append(terms, h.term)
		}
	}
	return terms
}

// Vocabulary maps raw text to exactly one canonical term. Text naming
// no term, or several distinct ones, has no value.
func Vocabulary(v *reference.Vocabulary, raw string) Result {
	terms := matchTerms(v, raw)
	switch len(terms) {
	case 0:
		return none("termo fora do vocabulário " + v.Domain())
	case 1:
		return value(terms[0])
	default:
		return none("termos concorrentes: " + strings.Join(terms, ", "))
	}
}

// VocabularyList maps raw text to every canonical term it names
func VocabularyList(v *reference.Vocabulary, raw string) Result {
	terms := matchTerms(v, raw)
	if len(terms) == 0 {
		return none("nenhum termo do vocabulário " + v.Domain())
	}
	return value(terms)
}
