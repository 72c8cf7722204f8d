package model

import (
	"fmt"
	"strings"
	"time"
)

// ISODateLayout is the only date layout a record ever carries
const ISODateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone
type Date struct {
	t time.Time
}

// NewDate builds a date, reporting false when the fields do not name a
// real calendar day (31/02, month 13).
func NewDate(year int, month time.Month, day int) (Date, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{t: t}, true
}

// MustDate is NewDate for literals
func MustDate(year int, month time.Month, day int) Date {
	d, ok := NewDate(year, month, day)
	if !ok {
		panic(fmt.Sprintf("invalid date %04d-%02d-%02d", year, month, day))
	}
	return d
}

// ParseISODate parses YYYY-MM-DD
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date
func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// Before reports whether d is strictly earlier than o
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether both dates name the same day
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// String returns the ISO form
func (d Date) String() string { return d.t.Format(ISODateLayout) }

// BR returns the DD/MM/YYYY form used in observation texts
func (d Date) BR() string { return d.t.Format("02/01/2006") }

// MarshalJSON writes "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseISODate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText writes YYYY-MM-DD
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText reads YYYY-MM-DD
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseISODate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
