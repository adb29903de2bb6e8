package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatAmount renders minor units as a grouped decimal, e.g. 120050 -> "1,200.50"
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

// ParseAmount reads a decimal amount with at most two fraction digits into
// minor units. Grouping commas and spaces are ignored; "" is zero.
func ParseAmount(s string) (int64, error) {
	clean := strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, nil
	}

	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")

	whole, frac, _ := strings.Cut(clean, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: amount %q has more than two decimals", ErrInvalidArgument, s)
	}
	frac += strings.Repeat("0", 2-len(frac))

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrInvalidArgument, s)
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || strings.HasPrefix(frac, "-") || strings.HasPrefix(frac, "+") {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrInvalidArgument, s)
	}

	total := units*100 + minor
	if neg {
		total = -total
	}
	return total, nil
}
