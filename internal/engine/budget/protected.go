package budget

import (
	"sort"
	"strings"
)

// DefaultProtectedPatterns are essential categories that are never cut to fund others
func DefaultProtectedPatterns() []string {
	return []string{
		"rent",
		"mortgage",
		"utilities",
		"electricity",
		"water",
		"insurance",
		"emi",
		"loan",
		"groceries",
		"education",
		"tuition",
		"childcare",
		"medical",
		"healthcare",
		"pharmacy",
	}
}

// ProtectedRegistry matches category names against protected patterns by
// case-insensitive substring. The zero value protects nothing.
type ProtectedRegistry struct {
	patterns []string
}

// NewProtectedRegistry builds a registry from patterns, ignoring blanks and duplicates
func NewProtectedRegistry(patterns ...string) ProtectedRegistry {
	seen := make(map[string]struct{}, len(patterns))
	var out []string
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return ProtectedRegistry{patterns: out}
}

// DefaultProtectedRegistry returns a registry of DefaultProtectedPatterns
func DefaultProtectedRegistry() ProtectedRegistry {
	return NewProtectedRegistry(DefaultProtectedPatterns()...)
}

// With returns a copy of the registry extended with more patterns
func (r ProtectedRegistry) With(patterns ...string) ProtectedRegistry {
	return NewProtectedRegistry(append(append([]string{}, r.patterns...), patterns...)...)
}

// IsProtected reports whether category matches any pattern
func (r ProtectedRegistry) IsProtected(category string) bool {
	c := strings.ToLower(category)
	for _, p := range r.patterns {
		if strings.Contains(c, p) {
			return true
		}
	}
	return false
}

// Patterns returns the registry's patterns in sorted order
func (r ProtectedRegistry) Patterns() []string {
	return append([]string(nil), r.patterns...)
}
