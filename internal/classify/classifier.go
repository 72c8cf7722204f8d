// Package classify decides whether a monetary value is indexed to the
// Brazilian minimum wage in force at a reference date.
package classify

import (
	"fmt"
	"strings"

	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/reference"
)

// Class is the outcome of a classification
type Class string

const (
	Dynamic   Class = "DYNAMIC"   // Tracks the minimum wage
	Fixed     Class = "FIXED"     // Nominal amount
	Ambiguous Class = "AMBIGUOUS" // Close to a wage amount but the period is unknown
)

// DefaultTolerance is the distance under which a value counts as the
// minimum wage itself
var DefaultTolerance = model.MustMoney("10.00")

// Input is one money field to classify. Nil pointers are unresolved fields.
type Input struct {
	Field         string
	Label         string // Field name as written in observations ("RMI")
	Value         *model.Money
	ReferenceDate *model.Date
	Benefit       string
}

// Result is the classifier output for one field
type Result struct {
	Field      string              `json:"field" yaml:"field"`
	Class      Class               `json:"class" yaml:"class"`
	Annotation string              `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Period     *reference.Period   `json:"period,omitempty" yaml:"period,omitempty"`
	Candidates []reference.Period  `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Notes      []model.Observation `json:"-" yaml:"-"`
}

// Classifier compares values with the minimum-wage table
type Classifier struct {
	tables    *reference.Tables
	tolerance model.Money
}

// New creates a classifier. A negative tolerance is treated as zero.
func New(tables *reference.Tables, tolerance model.Money) *Classifier {
	if tolerance.Sign() < 0 {
		tolerance = model.Money{}
	}
	return &Classifier{tables: tables, tolerance: tolerance}
}

// Tolerance returns the inclusive distance used for matching
func (c *Classifier) Tolerance() model.Money { return c.tolerance }

func (c *Classifier) within(value, amount model.Money) bool {
	return value.AbsDiff(amount).Cmp(c.tolerance) <= 0
}

// Classify labels one field. It reports false when there is nothing to
// classify: no value and no assistance benefit.
func (c *Classifier) Classify(in Input) (Result, bool) {
	label := in.Label
	if label == "" {
		label = in.Field
	}

	if in.Benefit != "" && c.tables.IsAssistance(in.Benefit) {
		return c.assistance(in, label), true
	}
	if in.Value == nil {
		return Result{}, false
	}
	value := *in.Value

	if in.ReferenceDate == nil {
		return c.undated(in.Field, label, value), true
	}

	period, ok := c.tables.MinimumWageAt(*in.ReferenceDate)
	if !ok {
		// Outside every table row: nothing to compare against
		return Result{Field: in.Field, Class: Fixed}, true
	}

	res := Result{Field: in.Field, Class: Fixed, Period: &period}
	if c.within(value, period.Amount) {
		res.Class = Dynamic
		res.Annotation = fmt.Sprintf("%s de %s corresponde ao salário mínimo %s (%s): valor dinâmico, indexado ao salário mínimo.",
			label, value.BRL(), inForce(period), period.Amount.BRL())
		res.Notes = append(res.Notes, model.Observation{
			Kind:        model.ObservationMinimumWageLink,
			Severity:    model.SeverityInfo,
			Field:       in.Field,
			Description: res.Annotation,
			Data:        periodData(value, period),
		})
	}

	// A value also matching another period's amount is worth a note; the
	// date-driven lookup above still decides the class.
	var others []reference.Period
	for _, p := range c.tables.MinimumWage() {
		if p.From.Equal(period.From) || p.Amount.Equal(period.Amount) {
			continue
		}
		if c.within(value, p.Amount) {
			others = append(others, p)
		}
	}
	if len(others) > 0 {
		res.Candidates = others
		var desc string
		if res.Class == Dynamic {
			desc = fmt.Sprintf("%s de %s também está próximo do salário mínimo %s; mantida a vigência na data de referência (%s).",
				label, value.BRL(), periodList(others), in.ReferenceDate.BR())
		} else {
			desc = fmt.Sprintf("%s de %s coincide com o salário mínimo %s, mas não com o vigente em %s (%s).",
				label, value.BRL(), periodList(others), in.ReferenceDate.BR(), period.Amount.BRL())
		}
		res.Notes = append(res.Notes, model.Observation{
			Kind:        model.ObservationAmbiguous,
			Severity:    model.SeverityWarning,
			Field:       in.Field,
			Description: desc,
		})
	}

	return res, true
}

// assistance handles benefits that are minimum-wage linked by law
func (c *Classifier) assistance(in Input, label string) Result {
	res := Result{Field: in.Field, Class: Dynamic}
	if in.ReferenceDate != nil {
		if p, ok := c.tables.MinimumWageAt(*in.ReferenceDate); ok {
			res.Period = &p
		}
	}

	switch {
	case in.Value == nil:
		res.Annotation = fmt.Sprintf("%s é benefício assistencial vinculado ao salário mínimo; %s não informada.", in.Benefit, label)
	case res.Period != nil:
		res.Annotation = fmt.Sprintf("%s de %s: %s é benefício assistencial vinculado ao salário mínimo %s (%s).",
			label, in.Value.BRL(), in.Benefit, inForce(*res.Period), res.Period.Amount.BRL())
	default:
		res.Annotation = fmt.Sprintf("%s de %s: %s é benefício assistencial vinculado ao salário mínimo.",
			label, in.Value.BRL(), in.Benefit)
	}

	res.Notes = append(res.Notes, model.Observation{
		Kind:        model.ObservationMinimumWageLink,
		Severity:    model.SeverityInfo,
		Field:       in.Field,
		Description: res.Annotation,
		Data:        map[string]interface{}{"benefit": in.Benefit},
	})
	return res
}

// undated handles a value whose reference date did not resolve
func (c *Classifier) undated(field, label string, value model.Money) Result {
	var matches []reference.Period
	for _, p := range c.tables.MinimumWage() {
		if c.within(value, p.Amount) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return Result{Field: field, Class: Fixed}
	}

	res := Result{Field: field, Class: Ambiguous, Candidates: matches}
	res.Annotation = fmt.Sprintf("%s de %s está próximo do salário mínimo %s, mas a data de referência não foi informada: classificação ambígua.",
		label, value.BRL(), periodList(matches))
	res.Notes = append(res.Notes, model.Observation{
		Kind:        model.ObservationAmbiguous,
		Severity:    model.SeverityWarning,
		Field:       field,
		Description: res.Annotation,
	})
	return res
}

// inForce reads "vigente de mai/2023 a dez/2023" or "vigente a partir de jan/2026"
func inForce(p reference.Period) string {
	if p.To == nil {
		return "vigente " + p.Label()
	}
	return "vigente de " + p.Label()
}

func periodList(ps []reference.Period) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s (%s)", inForce(p), p.Amount.BRL())
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " e " + parts[len(parts)-1]
}

func periodData(value model.Money, p reference.Period) map[string]interface{} {
	data := map[string]interface{}{
		"value":          value.String(),
		"minimum_wage":   p.Amount.String(),
		"period_from":    p.From.String(),
		"period_to":      nil,
		"period_in_text": p.Label(),
	}
	if p.To != nil {
		data["period_to"] = p.To.String()
	}
	return data
}
