package reference

import (
	"fmt"
	"sort"
)

// Vocabulary domains used by the built-in schemas
const (
	DomainBenefit         = "tipo_beneficio"
	DomainCorrectionIndex = "indice_correcao"
	DomainSeverance       = "verbas_requeridas"
)

// VocabularySpec is the file form of a controlled vocabulary
type VocabularySpec struct {
	Domain string   `yaml:"domain"`
	Terms  []string `yaml:"terms"`
	// Synonyms maps a canonical term to the phrases (including statute
	// references) that stand for it.
	Synonyms map[string][]string `yaml:"synonyms,omitempty"`
}

// Vocabulary is a loaded controlled vocabulary. It is read-only.
type Vocabulary struct {
	domain   string
	terms    []string
	members  map[string]bool
	synonyms map[string][]string
}

func newVocabulary(spec VocabularySpec) (*Vocabulary, error) {
	if spec.Domain == "" {
		return nil, fmt.Errorf("%w: vocabulary without domain", ErrInvalidTable)
	}
	if len(spec.Terms) == 0 {
		return nil, fmt.Errorf("%w: vocabulary %s has no terms", ErrInvalidTable, spec.Domain)
	}

	v := &Vocabulary{
		domain:   spec.Domain,
		terms:    append([]string(nil), spec.Terms...),
		members:  make(map[string]bool, len(spec.Terms)),
		synonyms: make(map[string][]string, len(spec.Synonyms)),
	}
	for _, t := range spec.Terms {
		if v.members[t] {
			return nil, fmt.Errorf("%w: vocabulary %s lists %q twice", ErrInvalidTable, spec.Domain, t)
		}
		v.members[t] = true
	}
	for canonical, phrases := range spec.Synonyms {
		if !v.members[canonical] {
			return nil, fmt.Errorf("%w: vocabulary %s: synonym target %q is not a term", ErrInvalidTable, spec.Domain, canonical)
		}
		v.synonyms[canonical] = append([]string(nil), phrases...)
	}
	return v, nil
}

// Domain returns the vocabulary name
func (v *Vocabulary) Domain() string { return v.domain }

// Contains is the case-sensitive exact membership test
func (v *Vocabulary) Contains(term string) bool { return v.members[term] }

// Terms returns the canonical terms in table order
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Synonyms returns the phrases mapped to each canonical term, the
// canonical term itself included, sorted by term.
func (v *Vocabulary) Synonyms() []Synonym {
	out := make([]Synonym, 0, len(v.terms))
	for _, t := range v.terms {
		out = append(out, Synonym{Term: t, Phrase: t})
		for _, p := range v.synonyms[t] {
			out = append(out, Synonym{Term: t, Phrase: p})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}

// Spec returns the file form of the vocabulary
func (v *Vocabulary) Spec() VocabularySpec {
	syn := make(map[string][]string, len(v.synonyms))
	for k, p := range v.synonyms {
		syn[k] = append([]string(nil), p...)
	}
	return VocabularySpec{Domain: v.domain, Terms: v.Terms(), Synonyms: syn}
}

// Synonym is one phrase that maps to a canonical term
type Synonym struct {
	Term   string
	Phrase string
}
