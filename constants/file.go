package constants

import "strings"

// Format identifies a supported document kind.
type Format string

const (
	PDF          Format = "PDF"
	Word         Format = "WORD"
	LegacyWord   Format = "LEGACY_WORD"
	Spreadsheet  Format = "SPREADSHEET"
	Presentation Format = "PRESENTATION"
	Text         Format = "TEXT"
)

// extToFormat is the fixed extension lookup table for the sniffer.
var extToFormat = map[string]Format{
	"pdf":  PDF,
	"docx": Word,
	"doc":  LegacyWord,
	"hwp":  LegacyWord,
	"xlsx": Spreadsheet,
	"xls":  Spreadsheet,
	"pptx": Presentation,
	"ppt":  Presentation,
	"txt":  Text,
	"text": Text,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies a file extension into a Format.
// Returns "" for anything outside the supported table; callers must surface
// an unsupported-format error rather than attempting extraction.
func MapExtToFormat(ext string) Format {
	return extToFormat[NormalizeExt(ext)]
}

// SupportedExtensions lists every extension the sniffer accepts.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extToFormat))
	for ext := range extToFormat {
		out = append(out, ext)
	}
	return out
}
