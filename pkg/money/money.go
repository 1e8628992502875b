// Package money handles monetary values stored as integer minor-currency
// units (centavos). Values are only converted to strings at display/export
// boundaries, using pt-BR conventions: "." for thousands, "," for decimals,
// always two decimal places.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders cents as a plain pt-BR decimal string, e.g. 3999 -> "39,99"
// and 123456789 -> "1.234.567,89".
func Format(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	s := fmt.Sprintf("%s,%02d", b.String(), frac)
	if neg {
		return "-" + s
	}
	return s
}

// FormatBRL renders cents with the currency symbol, e.g. 3999 -> "R$ 39,99".
func FormatBRL(cents int64) string {
	if cents < 0 {
		return "-R$ " + Format(-cents)
	}
	return "R$ " + Format(cents)
}

// Parse converts a pt-BR formatted amount back to cents. It tolerates a
// currency symbol, grouping dots and surrounding whitespace: "R$ 1.234,56"
// -> 123456. An empty or symbol-only input parses as 0.
func Parse(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" || cleaned == "-" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if f < 0 {
		return int64(f*100 - 0.5), nil
	}
	return int64(f*100 + 0.5), nil
}
