package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooaah/yacht-manuals/internal/common"
	"github.com/hooaah/yacht-manuals/internal/entity"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

func intp(v int) *int { return &v }

func sampleRecord() *llm.ManualRecord {
	return &llm.ManualRecord{
		SchemaVersion: llm.SchemaVersion,
		DocumentInfo: llm.DocumentInfo{
			Title:        "Owner Manual",
			YachtModel:   "Test Craft 30",
			Manufacturer: "Acme",
			DocumentType: "manual",
		},
		YachtSpecs: llm.YachtSpecs{
			Engine: llm.EngineSpec{
				Standard: llm.StandardEngine{Type: "inboard diesel", Power: "29hp", Model: "D1-30"},
			},
		},
		Parts: []llm.Part{
			{Name: "Winch", Category: "Deck Hardware"},
			{Name: "Mainsail", Category: "sails", Manufacturer: "North", Interval: intp(24)},
		},
		Maintenance: []llm.MaintenanceItem{
			{Item: "Impeller check", Category: "engine", Interval: intp(12), Method: "visual"},
		},
		AnalysisResult: llm.AnalysisResult{CanExtractText: true, CanAnalyze: true, Confidence: 0.9},
		FileInfo:       llm.FileInfo{FileName: "test_craft_30.pdf", FilePath: "/m/test_craft_30.pdf", FileSize: 100},
	}
}

func readJSON[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestUpsertAllCrossCollectionIdentity(t *testing.T) {
	dir := t.TempDir()
	stores := NewStores(dir, slog.Default())

	warnings := stores.UpsertAll(context.Background(), "test-craft-30", sampleRecord())
	assert.Empty(t, warnings)

	specs := readJSON[entity.SpecificationsFile](t, filepath.Join(dir, SpecificationsFileName))
	parts := readJSON[entity.PartsDatabaseFile](t, filepath.Join(dir, PartsDatabaseFileName))
	app := readJSON[entity.AppDataFile](t, filepath.Join(dir, AppDataFileName))
	resources := readJSON[entity.ResourcesFile](t, filepath.Join(dir, ResourcesFileName))
	registered := readJSON[entity.RegisteredFile](t, filepath.Join(dir, RegisteredFileName))

	require.Len(t, specs.Yachts, 1)
	require.Len(t, parts.Yachts, 1)
	require.Len(t, app.Yachts, 1)
	require.Len(t, resources.Resources, 1)
	require.Len(t, registered.Yachts, 1)

	// One ingestion event, one identity everywhere.
	assert.Equal(t, "test-craft-30", specs.Yachts[0].ID)
	assert.Equal(t, "test-craft-30", parts.Yachts[0].ID)
	assert.Equal(t, "test-craft-30", app.Yachts[0].ID)
	assert.Equal(t, "test-craft-30", resources.Resources[0].ID)
	assert.Equal(t, "test-craft-30", registered.Yachts[0].ID)

	assert.Equal(t, llm.SchemaVersion, specs.SchemaVersion)
	assert.Equal(t, 1, specs.TotalYachts)
	assert.NotEmpty(t, specs.LastUpdated)
}

func TestUpsertAllReingestionNonDuplicating(t *testing.T) {
	dir := t.TempDir()
	stores := NewStores(dir, slog.Default())
	ctx := context.Background()

	require.Empty(t, stores.UpsertAll(ctx, "test-craft-30", sampleRecord()))
	require.Empty(t, stores.UpsertAll(ctx, "test-craft-30", sampleRecord()))

	specs := readJSON[entity.SpecificationsFile](t, filepath.Join(dir, SpecificationsFileName))
	assert.Len(t, specs.Yachts, 1)

	parts := readJSON[entity.PartsDatabaseFile](t, filepath.Join(dir, PartsDatabaseFileName))
	require.Len(t, parts.Yachts, 1)

	// "Deck Hardware" is not a recognized category: the winch lands in the
	// default rigging bucket, once.
	rigging := parts.Yachts[0].Parts["rigging"]
	require.NotNil(t, rigging)
	require.Len(t, rigging.PhysicalParts, 1)
	assert.Equal(t, "Winch", rigging.PhysicalParts[0].Name)
	assert.Equal(t, "test-craft-30-rigging-01", rigging.PhysicalParts[0].ID)

	sails := parts.Yachts[0].Parts["sails"]
	require.NotNil(t, sails)
	require.Len(t, sails.PhysicalParts, 1)
	assert.Equal(t, "24 months", sails.PhysicalParts[0].MaintenanceInterval)

	engine := parts.Yachts[0].Parts["engine"]
	require.NotNil(t, engine)
	require.Len(t, engine.MaintenanceItems, 1)
	assert.Equal(t, "Impeller check", engine.MaintenanceItems[0].Item)

	app := readJSON[entity.AppDataFile](t, filepath.Join(dir, AppDataFileName))
	require.Len(t, app.Yachts, 1)
	assert.Len(t, app.Yachts[0].Parts, 2)

	registered := readJSON[entity.RegisteredFile](t, filepath.Join(dir, RegisteredFileName))
	assert.Len(t, registered.Yachts, 1)
}

func TestSpecificationsMergePreservesFields(t *testing.T) {
	dir := t.TempDir()
	stores := NewStores(dir, slog.Default())
	ctx := context.Background()

	require.Empty(t, stores.UpsertAll(ctx, "test-craft-30", sampleRecord()))

	// A later ingestion without engine data must not wipe the stored engine
	// block; fields it does carry must overwrite.
	update := sampleRecord()
	update.YachtSpecs = llm.YachtSpecs{}
	update.DocumentInfo.Manufacturer = "Acme Marine"
	require.Empty(t, stores.UpsertAll(ctx, "test-craft-30", update))

	specs := readJSON[entity.SpecificationsFile](t, filepath.Join(dir, SpecificationsFileName))
	require.Len(t, specs.Yachts, 1)
	assert.Equal(t, "D1-30", specs.Yachts[0].Specifications.Engine.Standard.Model)
	assert.Equal(t, "Acme Marine", specs.Yachts[0].Manufacturer)
}

func TestUpsertAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	// Make the specifications path unreadable as a file.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, SpecificationsFileName), 0o755))

	stores := NewStores(dir, slog.Default())
	warnings := stores.UpsertAll(context.Background(), "test-craft-30", sampleRecord())

	// One collection failed; the other four must still be written.
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], common.ErrPersistence)
	assert.FileExists(t, filepath.Join(dir, PartsDatabaseFileName))
	assert.FileExists(t, filepath.Join(dir, AppDataFileName))
	assert.FileExists(t, filepath.Join(dir, ResourcesFileName))
	assert.FileExists(t, filepath.Join(dir, RegisteredFileName))
}

func TestUpsertIndexTouchesOnlyIndexCollections(t *testing.T) {
	dir := t.TempDir()
	stores := NewStores(dir, slog.Default())

	rec := sampleRecord()
	rec.AnalysisResult.CanAnalyze = false
	warnings := stores.UpsertIndex(context.Background(), "brochure-2024", rec)
	assert.Empty(t, warnings)

	assert.FileExists(t, filepath.Join(dir, ResourcesFileName))
	assert.FileExists(t, filepath.Join(dir, RegisteredFileName))
	assert.NoFileExists(t, filepath.Join(dir, SpecificationsFileName))
	assert.NoFileExists(t, filepath.Join(dir, PartsDatabaseFileName))

	resources := readJSON[entity.ResourcesFile](t, filepath.Join(dir, ResourcesFileName))
	require.Len(t, resources.Resources, 1)
	assert.False(t, resources.Resources[0].CanAnalyze)
}

func TestJSONStoreAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	store := newJSONStore(filepath.Join(dir, "c.json"), slog.Default())

	require.NoError(t, store.save(map[string]int{"a": 1}))

	// No temp files left behind after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c.json", entries[0].Name())

	var got map[string]int
	found, err := store.load(&got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := newJSONStore(filepath.Join(t.TempDir(), "absent.json"), slog.Default())
	var got map[string]int
	found, err := store.load(&got)
	require.NoError(t, err)
	assert.False(t, found)
}
