package repository

import (
	"context"
	"log/slog"

	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

type ResourcesRepository interface {
	Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error
}

type resourcesRepo struct {
	store  *jsonStore
	logger *slog.Logger
}

func NewResourcesRepository(path string, logger *slog.Logger) ResourcesRepository {
	return &resourcesRepo{
		store:  newJSONStore(path, logger),
		logger: logger,
	}
}

func (r *resourcesRepo) Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var file entity.ResourcesFile
	if _, err := r.store.load(&file); err != nil {
		r.logger.Error("resources.load_failed", "path", r.store.path, "error", err)
		return err
	}

	res := findResource(file.Resources, id)
	if res == nil {
		res = &entity.Resource{ID: id}
		file.Resources = append(file.Resources, res)
	}

	if rec.DocumentInfo.YachtModel != "" {
		res.YachtModel = rec.DocumentInfo.YachtModel
	}
	if rec.DocumentInfo.Manufacturer != "" {
		res.Manufacturer = rec.DocumentInfo.Manufacturer
	}
	if rec.DocumentInfo.DocumentType != "" {
		res.DocumentType = rec.DocumentInfo.DocumentType
	}
	if rec.FileInfo.FileName != "" {
		res.ManualPDF = rec.FileInfo.FileName
	}
	res.CanAnalyze = rec.AnalysisResult.CanAnalyze
	res.UpdatedAt = nowISO()

	file.SchemaVersion = llm.SchemaVersion
	file.LastUpdated = nowISO()
	file.TotalResources = len(file.Resources)

	return r.store.save(&file)
}

func findResource(resources []*entity.Resource, id string) *entity.Resource {
	for _, res := range resources {
		if res.ID == id {
			return res
		}
	}
	return nil
}
