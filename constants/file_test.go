package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{".pdf", PDF},
		{"PDF", PDF},
		{".DOCX", Word},
		{"doc", LegacyWord},
		{".hwp", LegacyWord},
		{".xlsx", Spreadsheet},
		{"xls", Spreadsheet},
		{".pptx", Presentation},
		{".txt", Text},
		{".exe", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapExtToFormat(tt.ext), "ext %q", tt.ext)
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "docx", NormalizeExt("docx"))
	assert.Equal(t, "", NormalizeExt("."))
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, "pdf")
	assert.Contains(t, exts, "docx")
	assert.Contains(t, exts, "hwp")
	assert.NotContains(t, exts, "exe")
}
