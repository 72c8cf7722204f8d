package classify

import (
	"fmt"

	"github.com/ppiankov/jurisflow/internal/model"
)

// floorExempt lists benefits that may legally pay less than the minimum
// wage (auxílio-acidente is half the salário de benefício).
var floorExempt = map[string]bool{
	"Auxílio-Acidente": true,
}

// CheckRange compares a benefit amount with the minimum wage (floor) and
// the INSS ceiling in force at date. It never changes the value; each
// breach is a warning observation.
func (c *Classifier) CheckRange(in Input) []model.Observation {
	if in.Value == nil || in.ReferenceDate == nil {
		return nil
	}
	value, date := *in.Value, *in.ReferenceDate
	label := in.Label
	if label == "" {
		label = in.Field
	}

	var out []model.Observation
	if floor, ok := c.tables.MinimumWageAt(date); ok && !floorExempt[in.Benefit] {
		// Values inside the tolerance band are the floor itself
		if value.Cmp(floor.Amount) < 0 && !c.within(value, floor.Amount) {
			out = append(out, model.Observation{
				Kind:     model.ObservationRangeCheck,
				Severity: model.SeverityWarning,
				Field:    in.Field,
				Description: fmt.Sprintf("%s de %s é inferior ao salário mínimo vigente em %s (%s).",
					label, value.BRL(), date.BR(), floor.Amount.BRL()),
				Data: map[string]interface{}{"limit": "floor", "amount": floor.Amount.String()},
			})
		}
	}
	if ceiling, ok := c.tables.CeilingAt(date); ok && value.Cmp(ceiling.Amount) > 0 {
		out = append(out, model.Observation{
			Kind:     model.ObservationRangeCheck,
			Severity: model.SeverityWarning,
			Field:    in.Field,
			Description: fmt.Sprintf("%s de %s supera o teto do INSS vigente em %s (%s).",
				label, value.BRL(), date.BR(), ceiling.Amount.BRL()),
			Data: map[string]interface{}{"limit": "ceiling", "amount": ceiling.Amount.String()},
		})
	}
	return out
}
