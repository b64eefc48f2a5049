package engine

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CapabilityExtractor turns raw capability strings into the canonical set used
// for matching. Implementations must be safe for concurrent use.
type CapabilityExtractor interface {
	Extract(raw []string) []string
}

// DefaultCapabilityExtractor trims, lower-cases and collapses inner whitespace,
// then drops empties and duplicates keeping first-seen order.
type DefaultCapabilityExtractor struct{}

func (DefaultCapabilityExtractor) Extract(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		c := normalizeCapability(r)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func normalizeCapability(raw string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")
}
