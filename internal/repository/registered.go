package repository

import (
	"context"
	"log/slog"

	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

type RegisteredRepository interface {
	Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error
}

type registeredRepo struct {
	store  *jsonStore
	logger *slog.Logger
}

func NewRegisteredRepository(path string, logger *slog.Logger) RegisteredRepository {
	return &registeredRepo{
		store:  newJSONStore(path, logger),
		logger: logger,
	}
}

func (r *registeredRepo) Upsert(ctx context.Context, id string, rec *llm.ManualRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var file entity.RegisteredFile
	if _, err := r.store.load(&file); err != nil {
		r.logger.Error("registered.load_failed", "path", r.store.path, "error", err)
		return err
	}

	reg := findRegistration(file.Yachts, id)
	if reg == nil {
		reg = &entity.Registration{
			ID:               id,
			RegistrationDate: nowISO(),
			Source:           "manual-ingestion",
		}
		file.Yachts = append(file.Yachts, reg)
	}

	// RegistrationDate marks first ingestion and is never refreshed.
	if rec.FileInfo.FileName != "" {
		reg.PDFFile = rec.FileInfo.FileName
	}
	reg.DocumentInfo = rec.DocumentInfo
	reg.PartsCount = len(rec.Parts)
	if rec.ParseFailed {
		reg.AnalysisStatus = "error"
	} else {
		reg.AnalysisStatus = "success"
	}

	file.SchemaVersion = llm.SchemaVersion
	file.LastUpdated = nowISO()
	file.TotalYachts = len(file.Yachts)

	return r.store.save(&file)
}

func findRegistration(regs []*entity.Registration, id string) *entity.Registration {
	for _, reg := range regs {
		if reg.ID == id {
			return reg
		}
	}
	return nil
}
