// Package identity derives the stable, filesystem-safe identifier every
// collection keys entities by. It is the single source of truth for id
// derivation: call sites must never re-derive slugs inline, since drift
// between derivations breaks cross-collection identity.
package identity

import (
	"regexp"
	"strings"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reDisallowed = regexp.MustCompile(`[^a-z0-9\-.]`)
	reHyphenRuns = regexp.MustCompile(`-+`)
)

// Slug normalizes a human-readable display name into the canonical entity id.
// Lower-case, slashes and whitespace runs become single hyphens, everything
// outside [a-z0-9-.] is stripped, hyphen runs collapse, edges are trimmed.
// Total and deterministic: the same name always yields the same slug, and
// names like "J/70" and "J 70" intentionally collide on "j-70".
func Slug(displayName string) string {
	s := strings.ToLower(displayName)
	s = strings.ReplaceAll(s, "/", "-")
	s = reWhitespace.ReplaceAllString(s, "-")
	s = reDisallowed.ReplaceAllString(s, "")
	s = reHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
