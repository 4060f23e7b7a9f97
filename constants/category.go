package constants

import (
	"strings"
)

// Category is one of the canonical part buckets used to partition stored parts.
type Category string

const (
	Rigging    Category = "Rigging"
	Sails      Category = "Sails"
	Engine     Category = "Engine"
	Hull       Category = "Hull"
	Electrical Category = "Electrical"
	Plumbing   Category = "Plumbing"
)

// DefaultCategory is where unrecognized part categories land. The bucket is
// preserved from the legacy data files; every fallback is logged by callers
// so mis-classifications stay observable.
const DefaultCategory = Rigging

var allCategories = []Category{
	Rigging,
	Sails,
	Engine,
	Hull,
	Electrical,
	Plumbing,
}

// AsStringSlice returns the canonical category names for prompt construction.
func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Key returns the lowercase JSON key a category is stored under.
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

// synonyms maps free-form labels emitted by extraction to canonical buckets.
var synonyms = map[string]Category{
	"rigging":     Rigging,
	"rig":         Rigging,
	"sails":       Sails,
	"sail":        Sails,
	"engine":      Engine,
	"motor":       Engine,
	"hull":        Hull,
	"deck":        Hull,
	"electrical":  Electrical,
	"electric":    Electrical,
	"electronics": Electrical,
	"plumbing":    Plumbing,
	"water":       Plumbing,
}

// Canonicalize maps a raw category label into a canonical bucket. The second
// return value reports whether the label actually matched; unmatched labels
// fall back to DefaultCategory and callers should log the fallback.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return DefaultCategory, false
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	return DefaultCategory, false
}
