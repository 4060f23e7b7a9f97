package llm

import (
	"strings"
)

// MaxPromptChars bounds how much document text one extraction request
// carries, to respect the reasoning service's input limits.
const MaxPromptChars = 30000

// TruncationMarker is appended whenever the text was cut at MaxPromptChars.
const TruncationMarker = "\n\n[... text truncated, analyzing the leading portion only ...]"

// TruncateText deterministically bounds text to MaxPromptChars, always
// keeping the prefix. The second return value reports whether truncation
// happened; the marker is already appended when it did.
func TruncateText(text string) (string, bool) {
	if len(text) <= MaxPromptChars {
		return text, false
	}
	return text[:MaxPromptChars] + TruncationMarker, true
}

// BuildPrompt packages extracted manual text into the versioned extraction
// prompt. The schema shape described here must stay in sync with
// BuildManualJSONSchema.
func BuildPrompt(text string, categories []string) string {
	var b strings.Builder

	b.WriteString("The following text was extracted from a yacht manual or parts document:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nAnalyze the text and return the information below as JSON (schema version ")
	b.WriteString(SchemaVersion)
	b.WriteString(").\n\n")

	b.WriteString("1. Document metadata: title, yacht model name, manufacturer, document type (manual, parts list, technical specification, ...).\n")
	b.WriteString("2. Yacht specifications, when present: dimensions (LOA, LWL, beam, draft, displacement, mast height), engine (type, power, model), sail areas (main, jib, spinnaker, total). ")
	b.WriteString("Put well-known keys under \"standard\" and anything else under \"additional\". Every dimensional value is an object {\"value\": number, \"unit\": string, \"display\": string}.\n")
	b.WriteString("3. Parts, when present: name (required; extract every part, maintenance item, and replacement part the manual mentions), manufacturer, model, maintenance interval in months, category (")
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString(").\n")
	b.WriteString("4. Maintenance tasks, when present: item, category, interval in months, method.\n")
	b.WriteString("5. Analysis assessment: whether text could be extracted, whether the document is analyzable, a 0..1 confidence, and a reason when it is not analyzable.\n\n")

	b.WriteString(`Response format:
{
  "documentInfo": {"title": "...", "yachtModel": "...", "manufacturer": "...", "documentType": "..."},
  "yachtSpecs": {
    "dimensions": {"standard": {"loa": {"value": 0, "unit": "m", "display": "0m"}}, "additional": {}},
    "engine": {"standard": {"type": "...", "power": "...", "model": "..."}, "additional": {}},
    "sailArea": {"standard": {}, "additional": {}}
  },
  "parts": [{"name": "...", "manufacturer": "...", "model": "...", "interval": 12, "category": "..."}],
  "maintenance": [{"item": "...", "category": "...", "interval": 12, "method": "..."}],
  "analysisResult": {"canExtractText": true, "canAnalyze": true, "confidence": 0.9, "reason": "..."}
}

Respond with JSON only. No other explanation is needed.`)

	return b.String()
}
