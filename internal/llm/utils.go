package llm

import (
	"strconv"
	"strings"
)

func formatDisplay(value float64, unit string) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + unit
}

// StripCodeFences removes a markdown code fence the service may wrap its
// JSON reply in. Replies without fences are returned trimmed.
func StripCodeFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		start := i + len("```json")
		if end := strings.Index(s[start:], "```"); end >= 0 {
			return strings.TrimSpace(s[start : start+end])
		}
		return strings.TrimSpace(s[start:])
	}
	if i := strings.Index(s, "```"); i >= 0 {
		start := i + len("```")
		if end := strings.Index(s[start:], "```"); end >= 0 {
			return strings.TrimSpace(s[start : start+end])
		}
		return strings.TrimSpace(s[start:])
	}
	return strings.TrimSpace(s)
}
