package repository

import (
	"context"
	"log/slog"

	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

type SpecificationsRepository interface {
	Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error
}

type specificationsRepo struct {
	store  *jsonStore
	logger *slog.Logger
}

func NewSpecificationsRepository(path string, logger *slog.Logger) SpecificationsRepository {
	return &specificationsRepo{
		store:  newJSONStore(path, logger),
		logger: logger,
	}
}

func (r *specificationsRepo) Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var file entity.SpecificationsFile
	if _, err := r.store.load(&file); err != nil {
		r.logger.Error("specifications.load_failed", "path", r.store.path, "error", err)
		return err
	}

	entry := findSpec(file.Yachts, id)
	if entry == nil {
		entry = &entity.SpecEntry{ID: id}
		file.Yachts = append(file.Yachts, entry)
	}

	// Field-level merge: only overwrite what this extraction actually
	// produced, so fields captured by earlier ingestions survive.
	if rec.DocumentInfo.YachtModel != "" {
		entry.Name = rec.DocumentInfo.YachtModel
	}
	if rec.DocumentInfo.Manufacturer != "" {
		entry.Manufacturer = rec.DocumentInfo.Manufacturer
	}
	if rec.DocumentInfo.DocumentType != "" {
		entry.DocumentType = rec.DocumentInfo.DocumentType
	}
	if rec.FileInfo.FileName != "" {
		entry.ManualPDF = rec.FileInfo.FileName
	}
	mergeSpecs(&entry.Specifications, rec.YachtSpecs)

	entry.SchemaVersion = llm.SchemaVersion
	entry.UpdatedAt = nowISO()

	file.SchemaVersion = llm.SchemaVersion
	file.LastUpdated = nowISO()
	file.TotalYachts = len(file.Yachts)

	return r.store.save(&file)
}

func findSpec(entries []*entity.SpecEntry, id string) *entity.SpecEntry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// mergeSpecs overwrites each top-level spec block only when the incoming
// record carries data for it.
func mergeSpecs(dst *llm.YachtSpecs, src llm.YachtSpecs) {
	if src.Dimensions.Standard != (llm.StandardDimensions{}) || len(src.Dimensions.Additional) > 0 {
		dst.Dimensions = src.Dimensions
	}
	if src.Engine.Standard != (llm.StandardEngine{}) || len(src.Engine.Additional) > 0 {
		dst.Engine = src.Engine
	}
	if src.SailArea.Standard != (llm.StandardSailArea{}) || len(src.SailArea.Additional) > 0 {
		dst.SailArea = src.SailArea
	}
}
