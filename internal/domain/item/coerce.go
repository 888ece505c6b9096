package item

import (
	"strconv"
	"strings"
)

// Price coerces digit-only text entered client-side. Absent or malformed
// input counts as zero.
func Price(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// Quantity coerces like Price but defaults to 1, so an item without an
// explicit quantity still contributes its price once.
func Quantity(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 1
	}
	return parsed
}
