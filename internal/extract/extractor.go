// Package extract turns manual documents into plain text. A single Extractor
// dispatches on file format; PDFs run through an ordered fallback chain
// (embedded text layer, content-stream parse, OCR) and office formats each
// get a native decoder.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/common"
	"github.com/hooaah/yacht-manuals/internal/ocr"
)

// stageFunc runs one extraction attempt against a file on disk.
type stageFunc func(ctx context.Context, path string) (Result, error)

type pdfStage struct {
	name string
	run  stageFunc
}

type Extractor struct {
	logger *slog.Logger
	runner ocr.Runner
	hwpBin string

	// pdfStages is the ordered PDF fallback chain. The first stage whose
	// trimmed yield reaches MinTextLen wins.
	pdfStages []pdfStage
}

func NewExtractor(cfg common.OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		logger: logger,
		runner: ocr.NewRunner(),
		hwpBin: cfg.HwpConverter,
	}

	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.Pdftoppm,
		Tesseract:     cfg.Tesseract,
		TesseractLang: cfg.TesseractLang,
		DPI:           cfg.DPI,
		MaxPages:      cfg.MaxPages,
	}, logger)

	e.pdfStages = []pdfStage{
		{name: "pdf-text", run: extractPDFText},
		{name: "pdf-stream", run: extractPDFStream},
		{name: "pdf-ocr", run: func(ctx context.Context, path string) (Result, error) {
			r, err := ocrx.ExtractPDF(ctx, path)
			if err != nil {
				return Result{}, err
			}
			return Result{
				Text:     r.Text,
				Method:   "pdf-ocr",
				Pages:    r.Pages,
				Duration: r.Duration,
				Warnings: r.Warnings,
			}, nil
		}},
	}
	return e
}

// Extract decodes the file at path into plain text based on its extension.
// Unsupported extensions fail fast with ErrUnsupportedFormat; the file is
// never opened in that case.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	ext := filepath.Ext(path)
	format := constants.MapExtToFormat(ext)

	start := time.Now()
	e.logger.Info("extract.start", "path", path, "format", string(format))

	var (
		res Result
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.Word:
		res, err = extractDocx(path)
	case constants.LegacyWord:
		res, err = e.extractLegacyWord(ctx, path)
	case constants.Spreadsheet:
		res, err = extractXlsx(ctx, path)
	case constants.Presentation:
		res, err = extractPptx(path)
	case constants.Text:
		res, err = extractPlainText(path)
	default:
		return Result{}, common.WrapError(common.ErrUnsupportedFormat, fmt.Sprintf("extension %q", ext))
	}
	if err != nil {
		e.logger.Error("extract.failed", "path", path, "format", string(format), "error", err)
		return Result{}, err
	}

	res.Duration = time.Since(start)
	e.logger.Info("extract.ok",
		"path", path,
		"method", res.Method,
		"chars", len(res.Text),
		"pages", res.Pages,
		"elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

// extractPDF walks the fallback chain in order. A stage wins outright when
// its trimmed text reaches MinTextLen; otherwise the chain keeps the longest
// yield seen so far and moves on. Stage errors become warnings unless every
// stage fails.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	var (
		best     Result
		warnings []string
		failures int
	)

	for _, stage := range e.pdfStages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		res, err := stage.run(ctx, path)
		if err != nil {
			failures++
			warnings = append(warnings, (&StageError{Stage: stage.name, Err: err}).Error())
			e.logger.Warn("extract.pdf.stage_failed", "path", path, "stage", stage.name, "error", err)
			continue
		}

		yield := len(strings.TrimSpace(res.Text))
		e.logger.Debug("extract.pdf.stage", "path", path, "stage", stage.name, "chars", yield)
		if yield >= MinTextLen {
			res.Warnings = append(warnings, res.Warnings...)
			return res, nil
		}
		if yield > len(strings.TrimSpace(best.Text)) {
			best = res
		}
	}

	if failures == len(e.pdfStages) {
		return Result{}, common.WrapError(common.ErrYieldTooLow,
			fmt.Sprintf("all %d extraction stages failed: %s", failures, strings.Join(warnings, "; ")))
	}

	// Every stage ran but none reached the threshold. Hand back the best
	// candidate and let the caller judge the yield.
	best.Warnings = append(warnings, best.Warnings...)
	return best, nil
}

func (e *Extractor) extractLegacyWord(ctx context.Context, path string) (Result, error) {
	if e.hwpBin == "" {
		return Result{}, &StageError{Stage: "hwp", Unavailable: true, Err: fmt.Errorf("no converter configured")}
	}
	return extractHwp(ctx, e.runner, e.hwpBin, path)
}

func extractPlainText(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read text file: %w", err)
	}
	return Result{Text: string(data), Method: "plain", Pages: 1}, nil
}
