package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// decimalContext is used for all Money arithmetic. Amounts carry at most
// two fractional digits so 34 digits of precision never round.
var decimalContext = &apd.Context{
	Precision:   34,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundHalfUp,
}

// Money is a decimal amount in reais, kept at cent precision.
// The zero value is R$ 0,00.
type Money struct {
	d apd.Decimal
}

// ParseMoney parses a plain decimal string ("1412", "1412.5", "1412.00").
// Locale-formatted text ("R$ 1.412,00") goes through normalize.Money.
func ParseMoney(s string) (Money, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return moneyFrom(d)
}

// MustMoney is ParseMoney for literals; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromCents builds an amount from an integer number of cents
func MoneyFromCents(cents int64) Money {
	var m Money
	m.d.SetFinite(cents, -2)
	return m
}

func moneyFrom(d *apd.Decimal) (Money, error) {
	if d.Form != apd.Finite {
		return Money{}, fmt.Errorf("money must be finite, got %s", d.String())
	}
	var m Money
	if _, err := decimalContext.Quantize(&m.d, d, -2); err != nil {
		return Money{}, fmt.Errorf("quantize %s: %w", d.String(), err)
	}
	return m, nil
}

// String returns the canonical decimal form, e.g. "1320.00"
func (m Money) String() string {
	return m.d.Text('f')
}

// Cmp compares two amounts: -1, 0 or +1
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(&o.d)
}

// Equal reports numeric equality
func (m Money) Equal(o Money) bool {
	return m.Cmp(o) == 0
}

// Sign returns -1, 0 or +1
func (m Money) Sign() int {
	return m.d.Sign()
}

// Sub returns m - o
func (m Money) Sub(o Money) Money {
	var out Money
	// Cent-scaled operands cannot overflow 34 digits of precision.
	_, _ = decimalContext.Sub(&out.d, &m.d, &o.d)
	return out
}

// Add returns m + o
func (m Money) Add(o Money) Money {
	var out Money
	_, _ = decimalContext.Add(&out.d, &m.d, &o.d)
	return out
}

// Abs returns |m|
func (m Money) Abs() Money {
	var out Money
	out.d.Abs(&m.d)
	return out
}

// AbsDiff returns |m - o|
func (m Money) AbsDiff(o Money) Money {
	return m.Sub(o).Abs()
}

// Float64 converts the amount for display or arithmetic outside this module
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// BRL formats the amount the way Brazilian documents write it: R$ 1.320,00
func (m Money) BRL() string {
	text := m.Abs().String()
	intPart, frac, _ := strings.Cut(text, ".")
	if frac == "" {
		frac = "00"
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if m.Sign() < 0 {
		sign = "-"
	}
	return "R$ " + sign + b.String() + "," + frac
}

// MarshalJSON writes the amount as a JSON number with two decimals
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string
func (m *Money) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText lets Money appear as a plain string in YAML tables
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses the canonical decimal form
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
