package logging

import (
	"slices"
	"strings"
	"unicode"
)

const redacted = "[REDACTED]"

// Key segments whose values never reach a log. Segments are split on any
// non-alphanumeric rune, so "api_token" matches and "secretary" does not.
var sensitiveSegments = map[string]struct{}{
	"secret":     {},
	"password":   {},
	"token":      {},
	"key":        {},
	"auth":       {},
	"credential": {},
	"phone":      {},
}

// redactPairs masks the values of sensitive keys and dial targets in a
// flattened key-value list. The input is never modified.
func redactPairs(pairs []any) []any {
	var out []any
	for i := 0; i+1 < len(pairs); i += 2 {
		masked, ok := maskValue(pairs[i], pairs[i+1])
		if !ok {
			continue
		}
		if out == nil {
			out = slices.Clone(pairs)
		}
		out[i+1] = masked
	}
	if out == nil {
		return pairs
	}
	return out
}

func maskValue(key, value any) (any, bool) {
	if k, ok := key.(string); ok && sensitiveKey(k) {
		return redacted, true
	}
	if s, ok := value.(string); ok && strings.HasPrefix(s, "tel:") {
		return "tel:" + redacted, true
	}
	return nil, false
}

func sensitiveKey(key string) bool {
	segments := strings.FieldsFunc(strings.ToLower(key), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, seg := range segments {
		if _, ok := sensitiveSegments[seg]; ok {
			return true
		}
	}
	return false
}
