package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Percent is a percentage that may be unavailable. The zero value is
// NotAvailable.
type Percent struct {
	Value     float64
	Available bool
}

// NotAvailable marks a percentage that could not be computed.
var NotAvailable = Percent{}

// PercentOf wraps v, treating NaN and infinities as not available.
func PercentOf(v float64) Percent {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return Percent{Value: v, Available: true}
}

// String renders "12.34%" or "N/A".
func (p Percent) String() string {
	if !p.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

// Signed renders "+12.34%" or "N/A".
func (p Percent) Signed() string {
	if !p.Available {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", p.Value)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Available {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NotAvailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PercentOf(v)
	return nil
}

// Value is a plain optional number, used for indicators that are not
// percentages.
type Value struct {
	Number    float64
	Available bool
}

// ValueOf wraps v, treating NaN and infinities as not available.
func ValueOf(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{Number: v, Available: true}
}

func (v Value) Format(verb string) string {
	if !v.Available {
		return "N/A"
	}
	return fmt.Sprintf(verb, v.Number)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Available {
		return []byte("null"), nil
	}
	return json.Marshal(v.Number)
}
