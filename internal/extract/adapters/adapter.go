package adapters

import (
	"fmt"

	"github.com/ppiankov/jurisflow/internal/extract"
	"github.com/ppiankov/jurisflow/internal/model"
)

// Adapter defines the interface for variant-specific extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle documents of the variant
	CanHandle(variant model.Variant) bool

	// Rules returns the label rules the adapter scans for
	Rules() []extract.LabelRule
}

// Registry manages variant adapters
type Registry struct {
	adapters   []Adapter
	generic    Adapter
	extractors map[string]*extract.LabelExtractor
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters:   make([]Adapter, 0),
		extractors: make(map[string]*extract.LabelExtractor),
	}

	// Register built-in adapters
	registry.Register(NewLaborAdapter())
	registry.Register(NewSocialSecurityAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter(registry.adapters...)
	registry.extractors[registry.generic.Name()] = extract.NewLabelExtractor(registry.generic.Rules())

	return registry
}

// Register registers a new adapter. Registration happens before the
// registry is shared; it is not safe to call concurrently with Extract.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
	r.extractors[adapter.Name()] = extract.NewLabelExtractor(adapter.Rules())
}

// FindAdapter finds the adapter for the variant
func (r *Registry) FindAdapter(variant model.Variant) Adapter {
	// Try specific adapters first
	for _, adapter := range r.adapters {
		if adapter.CanHandle(variant) {
			return adapter
		}
	}

	// Fall back to generic adapter
	return r.generic
}

// Extract finds labelled candidates in the document text (document
// tier) and in the user context (user_context tier). HTML sources are
// reduced to their visible text first.
func (r *Registry) Extract(doc *model.Document) ([]model.CandidateValue, error) {
	adapter := r.FindAdapter(doc.Variant)
	ex := r.extractors[adapter.Name()]

	var out []model.CandidateValue
	sources := []struct {
		text string
		tier model.SourceTier
	}{
		{doc.SourceText, model.TierDocument},
		{doc.ContextText, model.TierUserContext},
	}
	for _, src := range sources {
		if src.text == "" {
			continue
		}
		text, err := extract.PlainText(src.text)
		if err != nil {
			return nil, fmt.Errorf("%s text: %w", src.tier, err)
		}
		out = append(out, ex.Extract(text, src.tier)...)
	}
	return out, nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct {
	name  string
	rules []extract.LabelRule
}

// Name returns the adapter name
func (b *BaseAdapter) Name() string {
	return b.name
}

// Rules returns a copy of the label rules
func (b *BaseAdapter) Rules() []extract.LabelRule {
	out := make([]extract.LabelRule, len(b.rules))
	copy(out, b.rules)
	return out
}
