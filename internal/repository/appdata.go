package repository

import (
	"context"
	"log/slog"

	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

type AppDataRepository interface {
	Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error
}

type appDataRepo struct {
	store  *jsonStore
	logger *slog.Logger
}

func NewAppDataRepository(path string, logger *slog.Logger) AppDataRepository {
	return &appDataRepo{
		store:  newJSONStore(path, logger),
		logger: logger,
	}
}

func (r *appDataRepo) Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var file entity.AppDataFile
	if _, err := r.store.load(&file); err != nil {
		r.logger.Error("appdata.load_failed", "path", r.store.path, "error", err)
		return err
	}

	entry := findAppEntry(file.Yachts, id)
	if entry == nil {
		entry = &entity.AppEntry{ID: id, Parts: []entity.AppPart{}}
		file.Yachts = append(file.Yachts, entry)
	}

	if rec.DocumentInfo.YachtModel != "" {
		entry.Name = rec.DocumentInfo.YachtModel
	}
	if rec.DocumentInfo.Manufacturer != "" {
		entry.Manufacturer = rec.DocumentInfo.Manufacturer
	}

	seen := make(map[[2]string]bool, len(entry.Parts))
	for _, p := range entry.Parts {
		seen[[2]string{p.Category, p.Name}] = true
	}

	for _, part := range rec.Parts {
		if part.Name == "" {
			continue
		}
		cat, _ := constants.Canonicalize(part.Category)
		key := [2]string{string(cat), part.Name}
		if seen[key] {
			continue
		}
		seen[key] = true

		interval := 12
		if part.Interval != nil && *part.Interval > 0 {
			interval = *part.Interval
		}
		entry.Parts = append(entry.Parts, entity.AppPart{
			Name:                part.Name,
			Manufacturer:        part.Manufacturer,
			Model:               part.Model,
			Category:            string(cat),
			MaintenanceInterval: interval,
		})
	}

	file.SchemaVersion = llm.SchemaVersion
	file.LastUpdated = nowISO()
	file.TotalYachts = len(file.Yachts)

	return r.store.save(&file)
}

func findAppEntry(entries []*entity.AppEntry, id string) *entity.AppEntry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}
