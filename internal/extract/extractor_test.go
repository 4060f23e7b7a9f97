package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooaah/yacht-manuals/internal/common"
)

func stubStage(name string, text string, err error, calls *[]string) pdfStage {
	return pdfStage{
		name: name,
		run: func(ctx context.Context, path string) (Result, error) {
			*calls = append(*calls, name)
			if err != nil {
				return Result{}, err
			}
			return Result{Text: text, Method: name}, nil
		},
	}
}

func testExtractor(stages ...pdfStage) *Extractor {
	return &Extractor{logger: slog.Default(), pdfStages: stages}
}

func TestExtractPDFFirstStageWins(t *testing.T) {
	long := strings.Repeat("manual text ", 20)
	var calls []string
	e := testExtractor(
		stubStage("pdf-text", long, nil, &calls),
		stubStage("pdf-stream", "unused", nil, &calls),
		stubStage("pdf-ocr", "unused", nil, &calls),
	)

	res, err := e.extractPDF(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, long, res.Text)
	assert.Equal(t, "pdf-text", res.Method)
	// Later stages must not run once the threshold is met.
	assert.Equal(t, []string{"pdf-text"}, calls)
}

func TestExtractPDFFallsThroughToOCR(t *testing.T) {
	ocrText := strings.Repeat("recognized page text ", 10)
	var calls []string
	e := testExtractor(
		stubStage("pdf-text", "tiny", nil, &calls),
		stubStage("pdf-stream", "", errors.New("content stream parse failed"), &calls),
		stubStage("pdf-ocr", ocrText, nil, &calls),
	)

	res, err := e.extractPDF(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, ocrText, res.Text)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, []string{"pdf-text", "pdf-stream", "pdf-ocr"}, calls)
	// The mid-chain stage failure surfaces as a warning, not an error.
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "pdf-stream")
}

func TestExtractPDFKeepsBestShortYield(t *testing.T) {
	var calls []string
	e := testExtractor(
		stubStage("pdf-text", "short one", nil, &calls),
		stubStage("pdf-stream", "a slightly longer short yield", nil, &calls),
		stubStage("pdf-ocr", "tiny", nil, &calls),
	)

	res, err := e.extractPDF(context.Background(), "thin.pdf")
	require.NoError(t, err)
	// No stage reached the threshold; the longest candidate is returned and
	// the caller judges the yield.
	assert.Equal(t, "a slightly longer short yield", res.Text)
	assert.Less(t, len(strings.TrimSpace(res.Text)), MinTextLen)
}

func TestExtractPDFAllStagesFail(t *testing.T) {
	var calls []string
	e := testExtractor(
		stubStage("pdf-text", "", errors.New("boom"), &calls),
		stubStage("pdf-ocr", "", errors.New("no binary"), &calls),
	)

	_, err := e.extractPDF(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrYieldTooLow)
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Test Craft 30 rigging notes"), 0644))

	e := testExtractor()
	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Test Craft 30 rigging notes", res.Text)
	assert.Equal(t, "plain", res.Method)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := testExtractor()
	_, err := e.Extract(context.Background(), "manual.exe")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestStageError(t *testing.T) {
	cause := errors.New("missing binary")
	err := &StageError{Stage: "hwp", Unavailable: true, Err: cause}
	assert.Contains(t, err.Error(), "unavailable")
	assert.ErrorIs(t, err, cause)
}
