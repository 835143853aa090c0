package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateFacilityID creates a human-readable facility ID.
// Format: {facilityType}-{8charHexUUID}
//
// Example:
//   - Input: facilityType="assembling-machine"
//   - Output: "assembling-machine-a3f8e2b1"
func GenerateFacilityID(facilityType string) string {
	prefix := strings.ToLower(strings.TrimSpace(facilityType))
	if prefix == "" {
		prefix = "facility"
	}
	return prefix + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
