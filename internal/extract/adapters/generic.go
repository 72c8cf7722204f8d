package adapters

import (
	"github.com/ppiankov/jurisflow/internal/model"
)

// GenericAdapter is the fallback adapter for unknown variants. It scans
// for the labels of every registered adapter.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a generic adapter from the given adapters' rules
func NewGenericAdapter(from ...Adapter) *GenericAdapter {
	a := &GenericAdapter{BaseAdapter{name: "generic"}}
	for _, ad := range from {
		a.rules = append(a.rules, ad.Rules()...)
	}
	return a
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(variant model.Variant) bool {
	return true
}
