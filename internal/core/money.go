// Package core holds the domain types and the pure computation the rest of
// the application is built around: exact paise arithmetic, aggregation,
// budget evaluation and filter definitions.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToPaise converts a decimal string to paise with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Negative values are rejected; zero is allowed so that filter
// bounds like amount_min=0 parse (entity validation separately requires > 0).
//
// Examples:
//
//	ParseDecimalToPaise("12.34")  -> 1234, nil
//	ParseDecimalToPaise("12,34")  -> 1234, nil
//	ParseDecimalToPaise("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
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
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// First two fractional digits; half-up rounding on the third
	var fracPaise int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPaise = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPaise += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	return iv*100 + fracPaise, nil
}

// ParseAmount is ParseDecimalToPaise wrapped into a Money value.
func ParseAmount(s string) (Money, error) {
	p, err := ParseDecimalToPaise(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Paise: p}, nil
}

// Rupees returns the rupee value as a float64 for display and JSON chart
// payloads. Use paise for calculations to avoid floating-point drift.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns the exact sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Paise: m.Paise + o.Paise}
}

// Sub returns m - o; the result may be negative.
func (m Money) Sub(o Money) Money {
	return Money{Paise: m.Paise - o.Paise}
}

// Decimal formats the amount as a plain 2-decimal string without a currency
// symbol ("1234.50"), the form used in CSV exports.
func (m Money) Decimal() string {
	neg := m.Paise < 0
	p := m.Paise
	if neg {
		p = -p
	}
	s := fmt.Sprintf("%d.%02d", p/100, p%100)
	if neg {
		return "-" + s
	}
	return s
}

// Display formats the amount with the rupee symbol for templates.
func (m Money) Display() string {
	if m.Paise < 0 {
		return "-₹" + Money{Paise: -m.Paise}.Decimal()
	}
	return "₹" + m.Decimal()
}
