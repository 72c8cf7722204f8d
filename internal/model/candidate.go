package model

import "fmt"

// SourceTier is the provenance class of a candidate value
type SourceTier string

const (
	TierDocument    SourceTier = "document"     // Primary document text
	TierUserContext SourceTier = "user_context" // Notes supplied by the user
)

// ParseSourceTier accepts the canonical names plus the upper-case forms
// used by extractor payloads.
func ParseSourceTier(s string) (SourceTier, error) {
	switch s {
	case "document", "DOCUMENT", "":
		return TierDocument, nil
	case "user_context", "USER_CONTEXT", "context":
		return TierUserContext, nil
	default:
		return "", fmt.Errorf("unknown source tier %q", s)
	}
}

// CandidateValue is one raw value proposed for a schema field by the
// upstream extractor. It is never modified after extraction.
type CandidateValue struct {
	Field   string     `json:"field" yaml:"field"`                       // Schema field (dotted for nested: adicionais.noturno)
	RawText string     `json:"raw_text" yaml:"raw_text"`                 // Text as found in the source
	Tier    SourceTier `json:"tier" yaml:"tier"`                         // Provenance tier
	Locator string     `json:"locator,omitempty" yaml:"locator,omitempty"` // Page, section or heuristic that produced it
}

// String renders the candidate for observation texts
func (c CandidateValue) String() string {
	if c.Locator == "" {
		return fmt.Sprintf("%s=%q (%s)", c.Field, c.RawText, c.Tier)
	}
	return fmt.Sprintf("%s=%q (%s, %s)", c.Field, c.RawText, c.Tier, c.Locator)
}

// Document is the input of one document-processing run
type Document struct {
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Variant     Variant          `json:"variant" yaml:"variant"`
	SourceText  string           `json:"source_text,omitempty" yaml:"source_text,omitempty"`   // Full document text for keyword scanning
	ContextText string           `json:"context_text,omitempty" yaml:"context_text,omitempty"` // User-supplied context text
	Candidates  []CandidateValue `json:"candidates" yaml:"candidates"`
}

// CandidatesFor returns the candidates proposed for field, in input order
func (d *Document) CandidatesFor(field string) []CandidateValue {
	var out []CandidateValue
	for _, c := range d.Candidates {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}
