package reference

import (
	"fmt"

	"github.com/ppiankov/jurisflow/internal/model"
)

// Period is one row of a time-indexed amount table (minimum wage or
// INSS ceiling). To is nil for an open-ended row.
type Period struct {
	Amount model.Money `yaml:"amount" json:"amount"`
	From   model.Date  `yaml:"from" json:"from"`
	To     *model.Date `yaml:"to,omitempty" json:"to,omitempty"`
}

// Contains reports whether d falls inside the period, both ends inclusive
func (p Period) Contains(d model.Date) bool {
	if d.Before(p.From) {
		return false
	}
	return p.To == nil || !d.After(*p.To)
}

var monthAbbrev = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

func monthYear(d model.Date) string {
	return fmt.Sprintf("%s/%d", monthAbbrev[d.Month()-1], d.Year())
}

// Label names the period the way observations cite it: "mai/2023 a dez/2023"
func (p Period) Label() string {
	if p.To == nil {
		return "a partir de " + monthYear(p.From)
	}
	return monthYear(p.From) + " a " + monthYear(*p.To)
}

// String is used in logs
func (p Period) String() string {
	to := "open"
	if p.To != nil {
		to = p.To.String()
	}
	return fmt.Sprintf("%s..%s=%s", p.From, to, p.Amount)
}

// periodAt returns the row whose range contains d
func periodAt(rows []Period, d model.Date) (Period, bool) {
	for _, p := range rows {
		if p.Contains(d) {
			return p, true
		}
	}
	return Period{}, false
}

// validatePeriods checks ordering and that no two rows overlap
func validatePeriods(name string, rows []Period) error {
	for i, p := range rows {
		if p.From.IsZero() {
			return fmt.Errorf("%w: %s row %d has no start date", ErrInvalidTable, name, i)
		}
		if p.Amount.Sign() < 0 {
			return fmt.Errorf("%w: %s row %d has negative amount %s", ErrInvalidTable, name, i, p.Amount)
		}
		if p.To != nil && p.To.Before(p.From) {
			return fmt.Errorf("%w: %s row %d ends before it starts", ErrInvalidTable, name, i)
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		if prev.To == nil {
			return fmt.Errorf("%w: %s row %d follows an open-ended row", ErrInvalidTable, name, i)
		}
		if !prev.To.Before(p.From) {
			return fmt.Errorf("%w: %s rows %d and %d overlap or are out of order", ErrInvalidTable, name, i-1, i)
		}
	}
	return nil
}
