package clean

import (
	"strings"
	"unicode"
)

// NormalizeName converts a column header to lower_snake_case.
// "Customer ID" and "CustomerID" both become "customer_id".
func NormalizeName(name string) string {
	var sb strings.Builder
	runes := []rune(strings.TrimSpace(name))
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r), r == '-', r == '.', r == '/':
			sb.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && boundaryBefore(runes, i) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// boundaryBefore reports whether a word boundary precedes position i,
// which holds an upper-case rune. Runs of capitals ("ID") stay together
// until a following lower-case rune starts a new word ("IDCode").
func boundaryBefore(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}
	return false
}
