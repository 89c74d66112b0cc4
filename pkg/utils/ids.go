package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateCorrelationID creates a short id for tracing a single request.
// Format: {operation}-{8charHexUUID}
//
// Example:
//   - Input: operation="AssignWorkerCommand"
//   - Output: "AssignWorkerCommand-a3f8e2b1"
func GenerateCorrelationID(operation string) string {
	if operation == "" {
		operation = "request"
	}
	return operation + "-" + generateShortUUID()
}

// GenerateWorkerID creates a worker id from a display name.
// Format: {slugified-name}-{8charHexUUID}
//
// Example:
//   - Input: name="Durin Stonefoot"
//   - Output: "durin-stonefoot-5c01d9e4"
func GenerateWorkerID(name string) string {
	slug := slugify(name)
	if slug == "" {
		slug = "worker"
	}
	return slug + "-" + generateShortUUID()
}

// slugify lowercases letters and digits and collapses everything else into
// single hyphens
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	// Remove hyphens and take first 8 characters
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
