// Package core provides the expense domain model: records, the fixed
// category enumeration, and money parsing and formatting utilities.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary value held as integer cents, which guarantees
// exactly two fractional digits everywhere a value is stored.
type Money struct {
	Cents int64
}

// ParseAmount converts decimal amount text to Money with half-up rounding
// on the third decimal place. Only a dot decimal separator is accepted.
// Returns ErrInvalidAmount for malformed input, negative values, or zero:
// amounts entered through forms must be strictly positive.
//
// Examples:
//
//	ParseAmount("12.34")  -> ₹12.34
//	ParseAmount("12.345") -> ₹12.35 (rounds up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	// Take the first two fractional digits, half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// MoneyFromFloat converts a float amount (as decoded from a JSON number)
// to Money, rounding half away from zero to cents. Unlike ParseAmount it
// carries no sign or zero check: imported data is only required to be
// numeric, so zero and negative amounts pass through here untouched.
func MoneyFromFloat(f float64) Money {
	return Money{Cents: int64(math.Round(f * 100))}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the amount in currency units for serialization and chart
// scaling. Use cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Rupees renders the amount as "₹" followed by the value with en-IN digit
// grouping: the last three integer digits form one group, every group
// before that has two digits (₹1,80,650.00).
func (m Money) Rupees() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	units := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(units))
	b.WriteString(".")
	rem := cents % 100
	if rem < 10 {
		b.WriteString("0")
	}
	b.WriteString(strconv.FormatInt(rem, 10))
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// MarshalJSON encodes the amount as a plain JSON number with two decimals,
// e.g. 180.50, matching the export document format.
func (m Money) MarshalJSON() ([]byte, error) {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		s = "-" + s
	}
	return []byte(s), nil
}

// UnmarshalJSON accepts any JSON number and rounds it to cents. Quoted
// amounts are rejected: the wire format requires a numeric amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return ErrInvalidAmount
	}
	*m = MoneyFromFloat(f)
	return nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
