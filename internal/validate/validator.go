package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
	"github.com/ppiankov/jurisflow/internal/schema"
)

// Validator checks records against one variant's schema
type Validator struct {
	schema *schema.Schema
	tables *reference.Tables
}

// NewValidator creates a validator
func NewValidator(s *schema.Schema, tables *reference.Tables) *Validator {
	return &Validator{schema: s, tables: tables}
}

// Validate checks that rec holds exactly the schema keys with values of
// the right shape. It returns a *ViolationError listing every problem.
//
// Values may be the typed forms the assembler stores (model.Date,
// model.Money) or the plain JSON forms of a decoded record.
func (v *Validator) Validate(rec *model.Record) error {
	var violations []Violation
	if rec.Variant != v.schema.Variant {
		violations = append(violations, Violation{Field: "-", Reason: fmt.Sprintf("variant %q, expected %q", rec.Variant, v.schema.Variant)})
	}

	known := make(map[string]bool, len(v.schema.Fields))
	for _, f := range v.schema.Fields {
		known[f.Name] = true
		val, ok := rec.Get(f.Name)
		if !ok {
			violations = append(violations, Violation{Field: f.Name, Reason: "missing"})
			continue
		}
		violations = append(violations, v.checkField(f.Name, f, val)...)
	}
	for _, k := range rec.Keys() {
		if !known[k] {
			violations = append(violations, Violation{Field: k, Reason: "not in schema"})
		}
	}

	if len(violations) > 0 {
		return &ViolationError{Variant: v.schema.Variant, Violations: violations}
	}
	return nil
}

func (v *Validator) checkField(path string, f schema.Field, val interface{}) []Violation {
	fail := func(format string, args ...interface{}) []Violation {
		return []Violation{{Field: path, Reason: fmt.Sprintf(format, args...)}}
	}

	if val == nil {
		if f.Nullable {
			return nil
		}
		return fail("null not allowed for %s", f.Kind)
	}

	switch f.Kind {
	case schema.KindText:
		if s, ok := val.(string); !ok || s == "" {
			return fail("expected non-empty string, got %T", val)
		}
	case schema.KindDate:
		if !isISODate(val) {
			return fail("expected YYYY-MM-DD date, got %v", val)
		}
	case schema.KindMoney:
		sign, ok := moneySign(val)
		if !ok {
			return fail("expected number, got %T", val)
		}
		if sign < 0 {
			return fail("negative amount %v", val)
		}
	case schema.KindFlag:
		if _, ok := val.(bool); !ok {
			return fail("expected boolean, got %T", val)
		}
	case schema.KindVocabulary:
		s, ok := val.(string)
		if !ok {
			return fail("expected string, got %T", val)
		}
		if !v.inVocabulary(f.Domain, s) {
			return fail("%q is not a %s term", s, f.Domain)
		}
	case schema.KindTextList, schema.KindVocabularyList:
		items, ok := stringList(val)
		if !ok {
			return fail("expected list of strings, got %T", val)
		}
		if f.Kind == schema.KindVocabularyList {
			for _, it := range items {
				if !v.inVocabulary(f.Domain, it) {
					return fail("%q is not a %s term", it, f.Domain)
				}
			}
		}
	case schema.KindObject:
		return v.checkObject(path, f, val)
	default:
		return fail("unsupported kind %s", f.Kind)
	}
	return nil
}

func (v *Validator) checkObject(path string, f schema.Field, val interface{}) []Violation {
	var obj map[string]interface{}
	switch o := val.(type) {
	case model.Object:
		obj = o
	case map[string]interface{}:
		obj = o
	default:
		return []Violation{{Field: path, Reason: fmt.Sprintf("expected object, got %T", val)}}
	}

	var out []Violation
	known := make(map[string]bool, len(f.Children))
	for _, c := range f.Children {
		known[c.Name] = true
		cv, ok := obj[c.Name]
		if !ok {
			out = append(out, Violation{Field: path + "." + c.Name, Reason: "missing"})
			continue
		}
		out = append(out, v.checkField(path+"."+c.Name, c, cv)...)
	}
	var extra []string
	for k := range obj {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, Violation{Field: path + "." + k, Reason: "not in schema"})
	}
	return out
}

func (v *Validator) inVocabulary(domain, term string) bool {
	vocab, ok := v.tables.Vocabulary(domain)
	return ok && vocab.Contains(term)
}

func isISODate(val interface{}) bool {
	switch d := val.(type) {
	case model.Date:
		return !d.IsZero()
	case string:
		parsed, err := model.ParseISODate(d)
		return err == nil && parsed.String() == d
	default:
		return false
	}
}

func moneySign(val interface{}) (int, bool) {
	switch m := val.(type) {
	case model.Money:
		return m.Sign(), true
	case json.Number:
		f, err := strconv.ParseFloat(string(m), 64)
		if err != nil {
			return 0, false
		}
		return sign(f), true
	case float64:
		return sign(m), true
	case int:
		return sign(float64(m)), true
	default:
		return 0, false
	}
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

func stringList(val interface{}) ([]string, bool) {
	switch l := val.(type) {
	case []string:
		return l, true
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, it := range l {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ParseRecord decodes a record written by this tool (or by hand) so it
// can be validated. Key order follows the schema, unknown keys last.
func ParseRecord(s *schema.Schema, data []byte) (*model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if values == nil {
		return nil, fmt.Errorf("decode record: not a JSON object")
	}
	return model.NewRecord(s.Variant, s.Names(), values), nil
}
