package model

// Observation is a note produced while resolving a document run.
// Observations never change a resolved value; they explain it.
type Observation struct {
	Kind        ObservationKind        `json:"kind" yaml:"kind"`                       // Observation classification
	Severity    Severity               `json:"severity" yaml:"severity"`               // info, warning, critical
	Field       string                 `json:"field,omitempty" yaml:"field,omitempty"` // Schema field the note refers to
	Description string                 `json:"description" yaml:"description"`         // Human-readable text (pt-BR)
	Data        map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`   // Inputs behind the note
}

// ObservationKind classifies the type of observation
type ObservationKind string

const (
	ObservationMissingData     ObservationKind = "missing_data"             // No source yielded a value
	ObservationNormalization   ObservationKind = "normalization"            // A candidate was rejected by its normalizer
	ObservationConflict        ObservationKind = "conflicting_candidates"   // Same-tier candidates disagree
	ObservationAmbiguous       ObservationKind = "ambiguous_classification" // Value close to several wage periods
	ObservationMinimumWageLink ObservationKind = "minimum_wage_link"        // Value indexed to the minimum wage
	ObservationRangeCheck      ObservationKind = "range_check"              // Value outside the wage floor or INSS ceiling
	ObservationSourceOverride  ObservationKind = "source_override"          // User context replaced document values
)

// Severity indicates the importance of an observation
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Recorded reports whether the observation belongs in the record's
// observacoes list. Missing data and rejected candidates are only
// reported to the caller.
func (o Observation) Recorded() bool {
	switch o.Kind {
	case ObservationMissingData, ObservationNormalization, ObservationSourceOverride:
		return false
	default:
		return true
	}
}
