// Package validate assembles resolved fields into a record and checks
// the record against its variant's schema.
package validate

import (
	"fmt"

	"github.com/ppiankov/jurisflow/internal/classify"
	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/resolve"
	"github.com/ppiankov/jurisflow/internal/schema"
)

// Assembly is the output of one assembler pass
type Assembly struct {
	Record          *model.Record
	Observations    []model.Observation // Every note, recorded or not
	Classifications []classify.Result
}

// Assembler builds records for one schema
type Assembler struct {
	schema     *schema.Schema
	classifier *classify.Classifier
	validator  *Validator
	checkRange bool
}

// AssemblerOption configures an Assembler
type AssemblerOption func(*Assembler)

// WithRangeCheck toggles the wage-floor and INSS-ceiling check
func WithRangeCheck(enabled bool) AssemblerOption {
	return func(a *Assembler) { a.checkRange = enabled }
}

// NewAssembler creates an assembler
func NewAssembler(s *schema.Schema, tables *reference.Tables, classifier *classify.Classifier, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		schema:     s,
		classifier: classifier,
		validator:  NewValidator(s, tables),
		checkRange: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds and validates the record from one resolution per
// schema leaf. On any schema violation no record is returned.
func (a *Assembler) Assemble(resolutions []resolve.Resolution) (*Assembly, error) {
	byPath := make(map[string]resolve.Resolution, len(resolutions))
	var violations []Violation
	for _, r := range resolutions {
		if _, dup := byPath[r.Path]; dup {
			violations = append(violations, Violation{Field: r.Path, Reason: "resolved more than once"})
			continue
		}
		byPath[r.Path] = r
	}

	leaves := a.schema.Leaves()
	known := make(map[string]bool, len(leaves))
	values := make(map[string]interface{}, len(a.schema.Fields))
	out := &Assembly{}

	for _, leaf := range leaves {
		known[leaf.Path] = true
		r, ok := byPath[leaf.Path]
		if !ok {
			violations = append(violations, Violation{Field: leaf.Path, Reason: "no resolution"})
			continue
		}
		out.Observations = append(out.Observations, r.Notes...)

		if leaf.Parent == "" {
			values[leaf.Path] = copyValue(r.Value)
			continue
		}
		obj, _ := values[leaf.Parent].(model.Object)
		if obj == nil {
			obj = model.Object{}
			values[leaf.Parent] = obj
		}
		obj[leaf.Name] = copyValue(r.Value)
	}
	for _, r := range resolutions {
		if !known[r.Path] {
			violations = append(violations, Violation{Field: r.Path, Reason: "not in schema"})
		}
	}
	if len(violations) > 0 {
		return nil, &ViolationError{Variant: a.schema.Variant, Violations: violations}
	}

	for _, f := range a.schema.Fields {
		if f.Classify == nil {
			continue
		}
		notes, res, ok := a.classify(f, values)
		if ok {
			out.Classifications = append(out.Classifications, res)
		}
		out.Observations = append(out.Observations, notes...)
	}

	if _, ok := a.schema.Field(schema.ObservationsField); ok {
		values[schema.ObservationsField] = appendRecorded(values[schema.ObservationsField], out.Observations)
	}

	rec := model.NewRecord(a.schema.Variant, a.schema.Names(), values)
	if err := a.validator.Validate(rec); err != nil {
		return nil, err
	}
	out.Record = rec
	return out, nil
}

// classify runs the minimum-wage classifier on one money field
func (a *Assembler) classify(f schema.Field, values map[string]interface{}) ([]model.Observation, classify.Result, bool) {
	in := classify.Input{Field: f.Name, Label: f.Label}
	if m, ok := values[f.Name].(model.Money); ok {
		in.Value = &m
	}
	if d, ok := values[f.Classify.ReferenceDate].(model.Date); ok {
		in.ReferenceDate = &d
	}
	if f.Classify.Benefit != "" {
		in.Benefit, _ = values[f.Classify.Benefit].(string)
	}

	res, ok := a.classifier.Classify(in)
	notes := append([]model.Observation(nil), res.Notes...)
	if f.Classify.CheckRange && a.checkRange {
		notes = append(notes, a.classifier.CheckRange(in)...)
	}
	return notes, res, ok
}

// appendRecorded adds the text of every recorded observation to the
// resolved observacoes list, skipping repeats. A value that is not a
// list is returned untouched for the validator to reject.
func appendRecorded(current interface{}, notes []model.Observation) interface{} {
	items, ok := current.([]string)
	if !ok && current != nil {
		return current
	}
	out := make([]string, 0, len(items)+len(notes))
	seen := make(map[string]bool, cap(out))
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, it := range items {
		add(it)
	}
	for _, n := range notes {
		if n.Recorded() {
			add(n.Description)
		}
	}
	return out
}

// copyValue detaches list values from the resolution that produced them
func copyValue(v interface{}) interface{} {
	if l, ok := v.([]string); ok {
		return append([]string{}, l...)
	}
	return v
}

// String is used in logs
func (a *Assembly) String() string {
	if a.Record == nil {
		return "assembly(empty)"
	}
	return fmt.Sprintf("assembly(%s, %d observations, %d classifications)",
		a.Record.Variant, len(a.Observations), len(a.Classifications))
}
