// Package pipeline orchestrates one ingestion: sniff the format, extract
// text, call the reasoning service, resolve the entity id, and fan the
// record out to every collection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/common"
	"github.com/hooaah/yacht-manuals/internal/extract"
	"github.com/hooaah/yacht-manuals/internal/identity"
	"github.com/hooaah/yacht-manuals/internal/llm"
	"github.com/hooaah/yacht-manuals/internal/repository"
)

// TextExtractor is the extraction capability the processor depends on.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (extract.Result, error)
}

// Upserter is the persistence capability the processor depends on.
type Upserter interface {
	UpsertAll(ctx context.Context, id string, rec *llm.ManualRecord) []error
	UpsertIndex(ctx context.Context, id string, rec *llm.ManualRecord) []error
}

type Processor struct {
	extractor TextExtractor
	records   llm.RecordExtractor
	stores    Upserter
	jobs      repository.JobsRepository // optional
	logger    *slog.Logger
}

func NewProcessor(extractor TextExtractor, records llm.RecordExtractor, stores Upserter, jobs repository.JobsRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor: extractor,
		records:   records,
		stores:    stores,
		jobs:      jobs,
		logger:    logger,
	}
}

// Result is the outcome of one ingestion.
type Result struct {
	Record   llm.ManualRecord
	YachtID  string
	Method   string
	Warnings []string
}

// Ingest runs the full pipeline for one document. On a structured-extraction
// parse failure the degraded record is still returned alongside
// ErrParseFailure so callers can keep the raw reply for manual review.
func (p *Processor) Ingest(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	fileName := filepath.Base(path)

	if constants.MapExtToFormat(filepath.Ext(path)) == "" {
		return nil, common.WrapError(common.ErrUnsupportedFormat, fileName)
	}

	jobID := p.startJob(ctx, path, fileName)

	res, err := p.run(ctx, path, fileName, info.Size())
	if err != nil {
		p.failJob(ctx, jobID, err)
		return res, err
	}

	p.finishJob(ctx, jobID, res.YachtID, len(res.Warnings))
	return res, nil
}

func (p *Processor) run(ctx context.Context, path, fileName string, fileSize int64) (*Result, error) {
	extracted, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(extracted.Text)) < extract.MinTextLen {
		return nil, common.WrapError(common.ErrYieldTooLow,
			fmt.Sprintf("%s yielded %d chars", fileName, len(strings.TrimSpace(extracted.Text))))
	}

	record, _, err := p.records.ExtractRecord(ctx, llm.ExtractRequest{
		Text:     extracted.Text,
		FileName: fileName,
		FilePath: path,
		FileSize: fileSize,
	})
	if err != nil {
		return nil, err
	}

	id := p.resolveID(&record, fileName)
	record.ID = id

	result := &Result{
		Record:   record,
		YachtID:  id,
		Method:   extracted.Method,
		Warnings: extracted.Warnings,
	}

	if record.ParseFailed {
		// The raw reply travels back with the degraded record; it is
		// journaled and surfaced, never silently dropped.
		return result, common.WrapError(common.ErrParseFailure, fileName)
	}

	var persistErrs []error
	if record.AnalysisResult.CanAnalyze && record.DocumentInfo.YachtModel != "" {
		persistErrs = p.stores.UpsertAll(ctx, id, &record)
	} else {
		// Not recognized as an analyzable manual: index the document but
		// keep it out of the specification and parts collections.
		p.logger.Warn("pipeline.index_only",
			"file", fileName,
			"can_analyze", record.AnalysisResult.CanAnalyze,
			"yacht_model", record.DocumentInfo.YachtModel)
		persistErrs = p.stores.UpsertIndex(ctx, id, &record)
	}
	for _, perr := range persistErrs {
		result.Warnings = append(result.Warnings, perr.Error())
	}

	p.logger.Info("pipeline.ingest.ok",
		"file", fileName,
		"yacht_id", id,
		"method", result.Method,
		"parts", len(record.Parts),
		"warnings", len(result.Warnings))
	return result, nil
}

// resolveID derives the entity id once per ingestion; every collection gets
// this same value. Records without a model name fall back to the file stem.
func (p *Processor) resolveID(record *llm.ManualRecord, fileName string) string {
	if record.ID != "" {
		return record.ID
	}
	if record.DocumentInfo.YachtModel != "" {
		return identity.Slug(record.DocumentInfo.YachtModel)
	}
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return identity.Slug(stem)
}

func (p *Processor) startJob(ctx context.Context, path, fileName string) int64 {
	if p.jobs == nil {
		return 0
	}
	jobID, err := p.jobs.Start(ctx, path, fileName)
	if err != nil {
		return 0
	}
	return jobID
}

func (p *Processor) finishJob(ctx context.Context, jobID int64, yachtID string, warnings int) {
	if p.jobs == nil || jobID == 0 {
		return
	}
	_ = p.jobs.FinishSuccess(ctx, jobID, yachtID, warnings)
}

func (p *Processor) failJob(ctx context.Context, jobID int64, cause error) {
	if p.jobs == nil || jobID == 0 {
		return
	}
	_ = p.jobs.FinishFailure(ctx, jobID, cause.Error())
}
