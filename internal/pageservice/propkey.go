package pageservice

import "strings"

// The "Name:Date:field" property-key convention is a stringly-typed
// encoding of a date-object property: `{"Due:Date:start": "2025-01-02"}`
// expands to `{"Due": {"date": {"start": "2025-01-02"}}}`. It is parsed
// here, isolated from the plain pass-through path, so further encoded
// property types can be added without touching it.

// DateKey is a parsed micro-DSL property key.
type DateKey struct {
	Name  string
	Field string // "start" or "end"
}

// ParseDateKey parses a "Name:Date:field" key. ok is false for any key
// that is not exactly that shape, leaving it to the pass-through path.
func ParseDateKey(key string) (DateKey, bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] == "" {
		return DateKey{}, false
	}
	if !strings.EqualFold(parts[1], "date") {
		return DateKey{}, false
	}
	field := strings.ToLower(parts[2])
	if field != "start" && field != "end" {
		return DateKey{}, false
	}
	return DateKey{Name: parts[0], Field: field}, true
}

// ExpandDateKeys rewrites micro-DSL keys into wire-shaped date
// properties, merging start and end fields addressed under one name.
// All other keys are returned untouched.
func ExpandDateKeys(props map[string]any) map[string]any {
	if len(props) == 0 {
		return props
	}

	out := make(map[string]any, len(props))
	for key, value := range props {
		dk, ok := ParseDateKey(key)
		if !ok {
			out[key] = value
			continue
		}

		date := map[string]any{}
		if existing, ok := out[dk.Name].(map[string]any); ok {
			if inner, ok := existing["date"].(map[string]any); ok {
				date = inner
			}
		}
		date[dk.Field] = stringify(value)
		out[dk.Name] = map[string]any{"date": date}
	}
	return out
}
