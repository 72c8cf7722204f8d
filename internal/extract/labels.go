// Package extract finds raw candidate values in document text. It only
// locates text; normalization and priority belong to the engine.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/normalize"
)

// LabelRule maps the labels a document uses for a field to the field
type LabelRule struct {
	Field  string   `yaml:"field"`
	Labels []string `yaml:"labels"`
}

// label is one folded label bound to its field
type label struct {
	folded string
	field  string
	raw    string
}

// LabelExtractor turns "Label: value" lines into candidates
type LabelExtractor struct {
	labels []label
}

// NewLabelExtractor creates an extractor for the given rules.
// Longer labels are tried first so "salário base" beats "salário".
func NewLabelExtractor(rules []LabelRule) *LabelExtractor {
	e := &LabelExtractor{}
	for _, r := range rules {
		for _, l := range r.Labels {
			if f := normalize.Fold(l); f != "" {
				e.labels = append(e.labels, label{folded: f, field: r.Field, raw: l})
			}
		}
	}
	sort.SliceStable(e.labels, func(i, j int) bool {
		return len(e.labels[i].folded) > len(e.labels[j].folded)
	})
	return e
}

// Extract scans text line by line. The value part of a matched line is
// kept verbatim as the candidate's raw text; the locator records the
// section heading and line number ("dispositivo#L42").
func (e *LabelExtractor) Extract(text string, tier model.SourceTier) []model.CandidateValue {
	var out []model.CandidateValue
	section := ""

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lab, val, ok := e.labelled(line)
		if !ok {
			if isHeading(line) {
				section = normalize.Fold(line)
			}
			continue
		}

		loc := fmt.Sprintf("L%d", i+1)
		if section != "" {
			loc = section + "#" + loc
		}
		out = append(out, model.CandidateValue{
			Field:   lab.field,
			RawText: val,
			Tier:    tier,
			Locator: loc,
		})
	}
	return out
}

func (e *LabelExtractor) labelled(line string) (label, string, bool) {
	key, val, ok := splitLabel(line)
	if !ok {
		return label{}, "", false
	}
	lab, ok := e.match(normalize.Fold(key))
	return lab, val, ok
}

// match finds the longest label the key ends with. A prefix before the
// label ("1. DIB", "Valor da RMI") is allowed.
func (e *LabelExtractor) match(key string) (label, bool) {
	for _, l := range e.labels {
		if key == l.folded || strings.HasSuffix(key, " "+l.folded) {
			return l, true
		}
	}
	return label{}, false
}

// splitLabel splits "Label: value" or "Label - value"
func splitLabel(line string) (string, string, bool) {
	for _, sep := range []string{":", " - ", " – ", " — "} {
		if i := strings.Index(line, sep); i > 0 {
			key := strings.TrimSpace(line[:i])
			val := strings.TrimSpace(line[i+len(sep):])
			if key == "" || val == "" {
				return "", "", false
			}
			// Labels are short; a colon deep inside prose is not one
			if len(strings.Fields(key)) > 8 {
				return "", "", false
			}
			return key, val, true
		}
	}
	return "", "", false
}

// isHeading reports a short upper-case line without a label separator,
// such as "DOS PEDIDOS" or "III – DISPOSITIVO".
func isHeading(line string) bool {
	if len(line) > 80 || strings.Contains(line, ":") {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 4
}
