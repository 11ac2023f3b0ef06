package models

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a lenient numeric field for request payloads. It accepts JSON numbers,
// numeric strings ("1,200.50"), null or garbage; anything non-numeric decodes as absent.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a present Amount
func NewAmount(v float64) Amount {
	return Amount{decimal.NewNullDecimal(decimal.NewFromFloat(v))}
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Valid = false
	a.Decimal = decimal.Zero

	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" || raw == "null" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	a.Decimal = d
	a.Valid = true
	return nil
}

// Float returns the value, or 0 when absent
func (a Amount) Float() float64 {
	if !a.Valid {
		return 0
	}
	return a.Decimal.InexactFloat64()
}

// Ptr returns a pointer to the value, or nil when absent
func (a Amount) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Decimal.InexactFloat64()
	return &v
}
