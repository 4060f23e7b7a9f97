package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

type PartsDatabaseRepository interface {
	Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error
}

type partsDatabaseRepo struct {
	store  *jsonStore
	logger *slog.Logger
}

func NewPartsDatabaseRepository(path string, logger *slog.Logger) PartsDatabaseRepository {
	return &partsDatabaseRepo{
		store:  newJSONStore(path, logger),
		logger: logger,
	}
}

func (r *partsDatabaseRepo) Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var file entity.PartsDatabaseFile
	if _, err := r.store.load(&file); err != nil {
		r.logger.Error("partsdb.load_failed", "path", r.store.path, "error", err)
		return err
	}

	entry := findPartsEntry(file.Yachts, id)
	if entry == nil {
		entry = &entity.PartsEntry{
			ID:    id,
			Parts: entity.NewCategoryBuckets(),
		}
		file.Yachts = append(file.Yachts, entry)
	}
	if entry.Parts == nil {
		entry.Parts = entity.NewCategoryBuckets()
	}

	if rec.DocumentInfo.YachtModel != "" {
		entry.Name = rec.DocumentInfo.YachtModel
	}
	if rec.DocumentInfo.Manufacturer != "" {
		entry.Manufacturer = rec.DocumentInfo.Manufacturer
	}
	if rec.FileInfo.FileName != "" {
		entry.ManualPDF = rec.FileInfo.FileName
	}
	entry.SchemaVersion = llm.SchemaVersion

	for _, part := range rec.Parts {
		if part.Name == "" {
			continue
		}
		cat := r.canonical(id, part.Category, part.Name)
		bucket := ensureBucket(entry.Parts, cat)

		if hasPhysicalPart(bucket.PhysicalParts, part.Name) {
			continue
		}
		bucket.PhysicalParts = append(bucket.PhysicalParts, entity.PhysicalPart{
			ID:                  fmt.Sprintf("%s-%s-%02d", id, cat.Key(), len(bucket.PhysicalParts)+1),
			Category:            string(cat),
			Name:                part.Name,
			PartNumber:          part.Model,
			Manufacturer:        part.Manufacturer,
			MaintenanceInterval: intervalLabel(part.Interval),
		})
	}

	for _, item := range rec.Maintenance {
		if item.Item == "" {
			continue
		}
		cat := r.canonical(id, item.Category, item.Item)
		bucket := ensureBucket(entry.Parts, cat)

		if hasMaintenanceItem(bucket.MaintenanceItems, item.Item) {
			continue
		}
		bucket.MaintenanceItems = append(bucket.MaintenanceItems, entity.MaintenanceEntry{
			Item:     item.Item,
			Interval: intervalLabel(item.Interval),
			Method:   item.Method,
		})
	}

	file.SchemaVersion = llm.SchemaVersion
	file.LastUpdated = nowISO()
	file.TotalYachts = len(file.Yachts)

	return r.store.save(&file)
}

// canonical maps a raw category label to its bucket, logging every fallback
// so mis-classified parts stay visible.
func (r *partsDatabaseRepo) canonical(id, raw, name string) constants.Category {
	cat, matched := constants.Canonicalize(raw)
	if !matched {
		r.logger.Warn("partsdb.category_fallback",
			"yacht_id", id,
			"part", name,
			"raw_category", raw,
			"bucket", string(cat))
	}
	return cat
}

func findPartsEntry(entries []*entity.PartsEntry, id string) *entity.PartsEntry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func ensureBucket(parts map[string]*entity.CategoryParts, cat constants.Category) *entity.CategoryParts {
	bucket, ok := parts[cat.Key()]
	if !ok || bucket == nil {
		bucket = &entity.CategoryParts{
			PhysicalParts:    []entity.PhysicalPart{},
			MaintenanceItems: []entity.MaintenanceEntry{},
		}
		parts[cat.Key()] = bucket
	}
	return bucket
}

func hasPhysicalPart(parts []entity.PhysicalPart, name string) bool {
	for _, p := range parts {
		if p.Name == name {
			return true
		}
	}
	return false
}

func hasMaintenanceItem(items []entity.MaintenanceEntry, name string) bool {
	for _, it := range items {
		if it.Item == name {
			return true
		}
	}
	return false
}

// intervalLabel renders an interval in months as display text. Parts without
// a stated interval default to an annual check.
func intervalLabel(months *int) string {
	if months == nil || *months <= 0 {
		return "Annual inspection"
	}
	return fmt.Sprintf("%d months", *months)
}
