package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Amount is a monetary value in cents. It is encoded in JSON as a decimal
// number with two fractional digits.
type Amount int64

// MaxAmount is the largest amount a single transaction may carry,
// one billion in currency units. Sums over millions of such rows still fit
// in an int64.
const MaxAmount Amount = 1_000_000_000_00

// AmountFromFloat rounds f to the nearest cent.
func AmountFromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

// ParseAmount parses a decimal string such as "156.99".
func ParseAmount(s string) (Amount, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse amount %q: not a finite number", s)
	}
	if math.Abs(f*100) >= math.MaxInt64 {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return AmountFromFloat(f), nil
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	v, err := ParseAmount(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
