package validator

import "strings"

// Checkpoints accepts a non-empty list of checkpoint lines.
func Checkpoints(text string, _ map[string]interface{}) bool {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			return false
		}
	}
	return len(lines) > 0
}

// Questions accepts blocks separated by a blank line, each block being a
// question line followed by exactly three answer lines.
func Questions(text string, _ map[string]interface{}) bool {
	blocks := strings.Split(strings.TrimSpace(text), "\n\n")
	if len(blocks) == 0 {
		return false
	}
	for _, block := range blocks {
		if len(strings.Split(strings.TrimSpace(block), "\n")) != 4 {
			return false
		}
	}
	return true
}
