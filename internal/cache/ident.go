package cache

import "strings"

// idLength is the length of a store identifier with dashes removed.
const idLength = 32

// NormalizeID removes dashes from a store identifier.
func NormalizeID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// FormatID re-inserts the 8-4-4-4-12 dash grouping. Input that is not a
// 32-char hex identifier is returned unchanged.
func FormatID(id string) string {
	clean := NormalizeID(id)
	if !IsID(clean) {
		return id
	}
	return clean[:8] + "-" + clean[8:12] + "-" + clean[12:16] + "-" + clean[16:20] + "-" + clean[20:]
}

// IsID reports whether value is identifier-shaped: 32 hex characters
// once dashes are removed. Identifier-shaped refs bypass the cache.
func IsID(value string) bool {
	clean := NormalizeID(value)
	if len(clean) != idLength {
		return false
	}
	for _, c := range strings.ToLower(clean) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
