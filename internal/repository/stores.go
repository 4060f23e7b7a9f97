package repository

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hooaah/yacht-manuals/internal/common"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

// Collection file names under the data directory.
const (
	SpecificationsFileName = "yacht_specifications.json"
	PartsDatabaseFileName  = "yacht_parts_database.json"
	AppDataFileName        = "yacht_parts_app_data.json"
	ResourcesFileName      = "yacht_manual_resources.json"
	RegisteredFileName     = "registered_yachts.json"
)

type target struct {
	name string
	fn   func(context.Context, string, *llm.ManualRecord) error
}

// Stores fans one ingested record out to every collection.
type Stores struct {
	Specifications SpecificationsRepository
	PartsDatabase  PartsDatabaseRepository
	AppData        AppDataRepository
	Resources      ResourcesRepository
	Registered     RegisteredRepository

	logger *slog.Logger
}

// NewStores wires every collection repository against dataDir.
func NewStores(dataDir string, logger *slog.Logger) *Stores {
	return &Stores{
		Specifications: NewSpecificationsRepository(filepath.Join(dataDir, SpecificationsFileName), logger),
		PartsDatabase:  NewPartsDatabaseRepository(filepath.Join(dataDir, PartsDatabaseFileName), logger),
		AppData:        NewAppDataRepository(filepath.Join(dataDir, AppDataFileName), logger),
		Resources:      NewResourcesRepository(filepath.Join(dataDir, ResourcesFileName), logger),
		Registered:     NewRegisteredRepository(filepath.Join(dataDir, RegisteredFileName), logger),
		logger:         logger,
	}
}

// UpsertAll applies the same resolved id to every collection. One
// collection's failure never aborts the others; failures come back as a
// warning list for the caller to surface.
func (s *Stores) UpsertAll(ctx context.Context, id string, rec *llm.ManualRecord) []error {
	targets := []target{
		{SpecificationsFileName, s.Specifications.Upsert},
		{PartsDatabaseFileName, s.PartsDatabase.Upsert},
		{AppDataFileName, s.AppData.Upsert},
		{ResourcesFileName, s.Resources.Upsert},
		{RegisteredFileName, s.Registered.Upsert},
	}

	return s.upsert(ctx, id, rec, targets)
}

// UpsertIndex updates only the lightweight index collections. Documents
// that were ingested but not recognized as analyzable manuals land here.
func (s *Stores) UpsertIndex(ctx context.Context, id string, rec *llm.ManualRecord) []error {
	targets := []target{
		{ResourcesFileName, s.Resources.Upsert},
		{RegisteredFileName, s.Registered.Upsert},
	}
	return s.upsert(ctx, id, rec, targets)
}

func (s *Stores) upsert(ctx context.Context, id string, rec *llm.ManualRecord, targets []target) []error {
	var warnings []error
	for _, t := range targets {
		if err := t.fn(ctx, id, rec); err != nil {
			s.logger.Error("stores.upsert_failed", "collection", t.name, "yacht_id", id, "error", err)
			warnings = append(warnings, common.WrapError(common.ErrPersistence, fmt.Sprintf("%s: %v", t.name, err)))
		}
	}
	return warnings
}
