// Package core holds the receipt domain model and the pure aggregation
// and search pipelines that every presentation surface consumes.
//
// This file contains money parsing and formatting. Amounts are kept in
// cents to avoid floating-point drift during accumulation.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in cents. Negative values are legal:
// receipts carry discount and refund lines.
type Money struct {
	Cents int64
}

// ErrInvalidAmount is returned when a token cannot be read as money.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseMoney converts a decimal token to cents with half-up rounding on
// the third decimal place. It accepts an optional leading sign, a "$"
// prefix, and both dot and comma decimal separators. This is the explicit
// "Total parses as a number" acceptance rule for row normalization.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234, nil
//	ParseMoney("$3.50")  -> 350, nil
//	ParseMoney("-0.05")  -> -5, nil
//	ParseMoney("N/A")    -> 0, ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return Money{}, ErrInvalidAmount
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
	// First two fractional digits, half-up rounding on the third
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
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// Dollars returns the amount as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// String formats the amount as a dollar string, e.g. "$12.34".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
