package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanAmount coerces a raw cell value into a number. This is best-effort on
// purpose: nil and blank cells, and values that fail to parse, all return 0,
// and callers treat 0 as "absent". Numeric values pass through unchanged;
// strings lose thousands separators and whitespace before parsing.
func CleanAmount(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(v)
		if cleaned == "" {
			return 0
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseDate normalizes a raw cell value into an 8-digit YYYYMMDD string.
// Separators ("-", "/", ".") and every other non-digit character are
// stripped; digits beyond the first 8 (e.g. a time-of-day suffix) are
// discarded. Returns "" when fewer than 8 digits remain.
func ParseDate(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() < 8 {
		return ""
	}
	return digits.String()[:8]
}
