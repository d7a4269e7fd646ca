package validation

import "strings"

// FormatValidValues joins string-like values for error messages,
// e.g. "high, medium, or low".
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	switch len(formatted) {
	case 0:
		return ""
	case 1:
		return formatted[0]
	case 2:
		return formatted[0] + " or " + formatted[1]
	default:
		return strings.Join(formatted[:len(formatted)-1], ", ") + ", or " + formatted[len(formatted)-1]
	}
}
