package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// IsOpaqueID reports whether value is a non-empty token of at most maxLen
// letters, digits, '-', '_' or '.'.
func IsOpaqueID(value string, maxLen int) bool {
	if value == "" || (maxLen > 0 && len(value) > maxLen) {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
