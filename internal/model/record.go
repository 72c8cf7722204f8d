package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Variant selects the fixed field set of a record
type Variant string

const (
	VariantLabor          Variant = "labor"           // Labor-law petition (reclamação trabalhista)
	VariantSocialSecurity Variant = "social-security" // INSS judicial record (ação previdenciária)
)

// Object is the value of a nested record field (labor adicionais)
type Object map[string]interface{}

// Record is the terminal artifact of a run: one value per schema field.
//
// Values hold nil, bool, string, []string, Date, Money or Object.
// Keys are serialized in the order given at construction; a Record is
// not modified after the assembler hands it out.
type Record struct {
	Variant Variant
	order   []string
	values  map[string]interface{}
}

// NewRecord builds a record whose JSON form lists keys in order. Keys of
// values missing from order are appended in lexical order so that a
// malformed record still serializes deterministically.
func NewRecord(variant Variant, order []string, values map[string]interface{}) *Record {
	keys := make([]string, 0, len(values))
	listed := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := values[k]; ok && !listed[k] {
			keys = append(keys, k)
			listed[k] = true
		}
	}
	var extra []string
	for k := range values {
		if !listed[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	copied := make(map[string]interface{}, len(values))
	for k, v := range values {
		copied[k] = v
	}

	return &Record{Variant: variant, order: keys, values: copied}
}

// Keys returns the record keys in serialization order
func (r *Record) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the value stored under key
func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of keys
func (r *Record) Len() int { return len(r.values) }

// Strings returns a list field, or nil when key is absent or not a list
func (r *Record) Strings(key string) []string {
	v, _ := r.values[key].([]string)
	return v
}

// MarshalJSON writes the record as one JSON object in key order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
