// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyMarkers = regexp.MustCompile(`R\$|CHF|BRL|[€$£¥]|\s`)
	hundred         = decimal.NewFromInt(100)
)

// ParseAmount parses an amount whose decimal separator is unknown.
// It handles formats like "1,234.56", "1.234,56", "1234.56", "1234,56"
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseLocalizedAmount parses an amount written with a known decimal
// separator ("," or "."); the other character is treated as a thousands
// separator. A trailing minus ("1.234,56-") is accepted.
func ParseLocalizedAmount(amountStr, decimalSeparator string) (decimal.Decimal, error) {
	s := currencyMarkers.ReplaceAllString(amountStr, "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.HasSuffix(s, "-") && !strings.HasPrefix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}

	switch decimalSeparator {
	case ",":
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case ".", "":
		s = strings.ReplaceAll(s, ",", "")
	default:
		return decimal.Zero, fmt.Errorf("unsupported decimal separator %q", decimalSeparator)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
// Handles patterns like "R$ 1.234,56", "€1.234,56", "$1,234.56", "1 234,56", etc.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyMarkers.ReplaceAllString(amountStr, "")

	// Handle European format (1.234,56) -> (1234.56)
	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		// Comma is the decimal separator when at most two digits follow it
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// Remove apostrophes used as thousand separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// FormatMoney renders an amount with two decimals and comma thousands
// separators, prefixed by symbol: "R$ 1,234.56", "R$ -200.00".
func FormatMoney(amount decimal.Decimal, symbol string) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + b.String() + fracPart
	if symbol == "" {
		return out
	}
	return symbol + " " + out
}

// FormatPercent renders a percentage rounded to two decimals: "22.22%".
func FormatPercent(percent decimal.Decimal) string {
	return percent.StringFixed(2) + "%"
}

// Percent returns part / whole * 100 at full precision, or zero when whole
// is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 16)
}
