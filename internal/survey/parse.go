// Package survey parses and validates the site-owner survey answers that
// drive llms.txt generation.
package survey

import "strings"

// Placeholder tokens users type to mean "nothing here".
var emptyTokens = map[string]struct{}{
	"none": {},
	"n/a":  {},
	"na":   {},
	"-":    {},
}

// ParseList splits free text on commas and newlines, trims each entry and
// discards empties and placeholder tokens.
func ParseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		entry := strings.TrimSpace(f)
		if entry == "" {
			continue
		}
		if _, skip := emptyTokens[strings.ToLower(entry)]; skip {
			continue
		}
		out = append(out, entry)
	}
	return out
}
