// Package reference holds the static lookup data the engine resolves
// against: minimum-wage and INSS-ceiling history, controlled
// vocabularies and keyword flag rules.
//
// Tables are built once (Default or Load) and never modified afterwards,
// so one *Tables may be shared by any number of concurrent runs.
package reference

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ppiankov/jurisflow/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTable reports reference data that breaks a table invariant
var ErrInvalidTable = errors.New("invalid reference table")

// File is the YAML form of the reference tables. Sections left empty in
// a loaded file keep their built-in contents.
type File struct {
	Version            string            `yaml:"version"`
	MinimumWage        []Period          `yaml:"minimum_wage,omitempty"`
	Ceiling            []Period          `yaml:"inss_ceiling,omitempty"`
	Vocabularies       []VocabularySpec  `yaml:"vocabularies,omitempty"`
	Flags              []KeywordFlagRule `yaml:"flags,omitempty"`
	AssistanceBenefits []string          `yaml:"assistance_benefits,omitempty"`
}

// Tables is the loaded, validated reference data
type Tables struct {
	version     string
	digest      string
	minimumWage []Period
	ceiling     []Period
	vocab       map[string]*Vocabulary
	flags       map[string]KeywordFlagRule
	flagOrder   []string
	assistance  map[string]bool
}

// Build validates f and returns the tables it describes
func Build(f File) (*Tables, error) {
	t := &Tables{
		version:     f.Version,
		minimumWage: append([]Period(nil), f.MinimumWage...),
		ceiling:     append([]Period(nil), f.Ceiling...),
		vocab:       make(map[string]*Vocabulary, len(f.Vocabularies)),
		flags:       make(map[string]KeywordFlagRule, len(f.Flags)),
		assistance:  make(map[string]bool, len(f.AssistanceBenefits)),
	}

	sortPeriods(t.minimumWage)
	sortPeriods(t.ceiling)
	if err := validatePeriods("minimum_wage", t.minimumWage); err != nil {
		return nil, err
	}
	if err := validatePeriods("inss_ceiling", t.ceiling); err != nil {
		return nil, err
	}

	for _, spec := range f.Vocabularies {
		v, err := newVocabulary(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := t.vocab[v.Domain()]; dup {
			return nil, fmt.Errorf("%w: vocabulary %s defined twice", ErrInvalidTable, v.Domain())
		}
		t.vocab[v.Domain()] = v
	}

	for _, r := range f.Flags {
		if err := validateFlag(r); err != nil {
			return nil, err
		}
		if _, dup := t.flags[r.Flag]; dup {
			return nil, fmt.Errorf("%w: flag rule %s defined twice", ErrInvalidTable, r.Flag)
		}
		r.Triggers = append([]string(nil), r.Triggers...)
		t.flags[r.Flag] = r
		t.flagOrder = append(t.flagOrder, r.Flag)
	}

	if len(f.AssistanceBenefits) > 0 {
		benefits, ok := t.vocab[DomainBenefit]
		if !ok {
			return nil, fmt.Errorf("%w: assistance benefits need the %s vocabulary", ErrInvalidTable, DomainBenefit)
		}
		for _, b := range f.AssistanceBenefits {
			if !benefits.Contains(b) {
				return nil, fmt.Errorf("%w: assistance benefit %q is not a %s term", ErrInvalidTable, b, DomainBenefit)
			}
			t.assistance[b] = true
		}
	}

	// Content digest: a file that keeps the version line but changes a
	// row must not be mistaken for the tables it was copied from.
	canon := f
	canon.MinimumWage, canon.Ceiling = t.minimumWage, t.ceiling
	data, err := yaml.Marshal(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	sum := sha256.Sum256(data)
	t.digest = hex.EncodeToString(sum[:])

	return t, nil
}

// Load reads a YAML table file and overlays it on the built-in tables
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tables %s: %w", path, err)
	}

	return Build(Overlay(DefaultFile(), f))
}

// Overlay replaces each non-empty section of base with the one in top
func Overlay(base, top File) File {
	out := base
	if top.Version != "" {
		out.Version = top.Version
	}
	if len(top.MinimumWage) > 0 {
		out.MinimumWage = top.MinimumWage
	}
	if len(top.Ceiling) > 0 {
		out.Ceiling = top.Ceiling
	}
	if len(top.Flags) > 0 {
		out.Flags = top.Flags
	}
	if len(top.AssistanceBenefits) > 0 {
		out.AssistanceBenefits = top.AssistanceBenefits
	}
	if len(top.Vocabularies) > 0 {
		byDomain := make(map[string]VocabularySpec, len(top.Vocabularies))
		for _, v := range top.Vocabularies {
			byDomain[v.Domain] = v
		}
		merged := make([]VocabularySpec, 0, len(base.Vocabularies)+len(top.Vocabularies))
		for _, v := range base.Vocabularies {
			if repl, ok := byDomain[v.Domain]; ok {
				merged = append(merged, repl)
				delete(byDomain, v.Domain)
				continue
			}
			merged = append(merged, v)
		}
		for _, v := range top.Vocabularies {
			if _, pending := byDomain[v.Domain]; pending {
				merged = append(merged, v)
			}
		}
		out.Vocabularies = merged
	}
	return out
}

func sortPeriods(rows []Period) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].From.Before(rows[j].From) })
}

// Version identifies the table revision; it is part of the record cache key
func (t *Tables) Version() string { return t.version }

// Digest identifies the table contents, independent of the version label
func (t *Tables) Digest() string { return t.digest }

// MinimumWageAt returns the minimum-wage row in force on d
func (t *Tables) MinimumWageAt(d model.Date) (Period, bool) {
	return periodAt(t.minimumWage, d)
}

// CeilingAt returns the INSS ceiling row in force on d
func (t *Tables) CeilingAt(d model.Date) (Period, bool) {
	return periodAt(t.ceiling, d)
}

// MinimumWage returns a copy of the minimum-wage history
func (t *Tables) MinimumWage() []Period {
	return append([]Period(nil), t.minimumWage...)
}

// Ceiling returns a copy of the INSS ceiling history
func (t *Tables) Ceiling() []Period {
	return append([]Period(nil), t.ceiling...)
}

// Vocabulary returns the controlled vocabulary for domain
func (t *Tables) Vocabulary(domain string) (*Vocabulary, bool) {
	v, ok := t.vocab[domain]
	return v, ok
}

// Flag returns the keyword rule for a boolean field
func (t *Tables) Flag(name string) (KeywordFlagRule, bool) {
	r, ok := t.flags[name]
	if !ok {
		return KeywordFlagRule{}, false
	}
	r.Triggers = append([]string(nil), r.Triggers...)
	return r, true
}

// IsAssistance reports whether a benefit is always minimum-wage linked
func (t *Tables) IsAssistance(benefit string) bool {
	return t.assistance[benefit]
}

// File returns the tables in their YAML form
func (t *Tables) File() File {
	f := File{
		Version:     t.version,
		MinimumWage: t.MinimumWage(),
		Ceiling:     t.Ceiling(),
	}
	domains := make([]string, 0, len(t.vocab))
	for d := range t.vocab {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		f.Vocabularies = append(f.Vocabularies, t.vocab[d].Spec())
	}
	for _, name := range t.flagOrder {
		r, _ := t.Flag(name)
		f.Flags = append(f.Flags, r)
	}
	for b := range t.assistance {
		f.AssistanceBenefits = append(f.AssistanceBenefits, b)
	}
	sort.Strings(f.AssistanceBenefits)
	return f
}
