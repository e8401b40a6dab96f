package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON unmarshals raw model output into out after stripping code
// fences. Models frequently wrap JSON in markdown fences even when told not
// to.
func DecodeJSON(raw string, out any) error {
	clean := sanitizeJSON(raw)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return nil
}

func sanitizeJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = trimmed[3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimPrefix(trimmed, "JSON")
		if idx := strings.Index(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return strings.TrimSpace(trimmed)
}
