package validator

import "strings"

// FullName accepts a surname plus at least one more name part.
func FullName(text string, _ map[string]interface{}) bool {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) < 2 || len(parts) > 5 {
		return false
	}
	for _, part := range parts {
		if len([]rune(part)) < 2 {
			return false
		}
	}
	return true
}
