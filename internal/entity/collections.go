// Package entity defines the on-disk shapes of the file-backed collections.
// Each collection is one JSON document with a {schemaVersion, lastUpdated,
// total*, <key>: [...]} envelope; entries carry id as the first key.
package entity

import (
	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

// SpecificationsFile is the yacht_specifications.json envelope.
type SpecificationsFile struct {
	SchemaVersion string       `json:"schemaVersion"`
	LastUpdated   string       `json:"lastUpdated"`
	TotalYachts   int          `json:"totalYachts"`
	Yachts        []*SpecEntry `json:"yachts"`
}

// SpecEntry is one yacht's full nested specification record.
type SpecEntry struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Manufacturer   string         `json:"manufacturer,omitempty"`
	SchemaVersion  string         `json:"schemaVersion"`
	UpdatedAt      string         `json:"updatedAt"`
	Specifications llm.YachtSpecs `json:"specifications,omitzero"`
	DocumentType   string         `json:"documentType,omitempty"`
	ManualPDF      string         `json:"manualPDF,omitempty"`
}

// PartsDatabaseFile is the yacht_parts_database.json envelope.
type PartsDatabaseFile struct {
	SchemaVersion string        `json:"schemaVersion"`
	LastUpdated   string        `json:"lastUpdated"`
	TotalYachts   int           `json:"totalYachts"`
	Yachts        []*PartsEntry `json:"yachts"`
}

// PartsEntry groups one yacht's parts into canonical category buckets, each
// split into physical parts and maintenance items.
type PartsEntry struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Manufacturer  string                    `json:"manufacturer,omitempty"`
	ManualPDF     string                    `json:"manualPDF,omitempty"`
	SchemaVersion string                    `json:"schemaVersion"`
	Parts         map[string]*CategoryParts `json:"parts"`
}

// CategoryParts is one canonical bucket of a PartsEntry.
type CategoryParts struct {
	PhysicalParts    []PhysicalPart     `json:"physicalParts"`
	MaintenanceItems []MaintenanceEntry `json:"maintenanceItems"`
}

// PhysicalPart is one installed component.
type PhysicalPart struct {
	ID                  string `json:"id"`
	Category            string `json:"category,omitempty"`
	Name                string `json:"name"`
	PartNumber          string `json:"partNumber,omitempty"`
	Manufacturer        string `json:"manufacturer,omitempty"`
	MaintenanceInterval string `json:"maintenanceInterval,omitempty"`
}

// MaintenanceEntry is one recurring inspection or service task.
type MaintenanceEntry struct {
	Item     string `json:"item"`
	Interval string `json:"interval,omitempty"`
	Method   string `json:"method,omitempty"`
}

// NewCategoryBuckets returns the fixed six-bucket part map every fresh
// PartsEntry starts with.
func NewCategoryBuckets() map[string]*CategoryParts {
	buckets := make(map[string]*CategoryParts, 6)
	for _, name := range constants.AsStringSlice() {
		buckets[constants.Category(name).Key()] = &CategoryParts{
			PhysicalParts:    []PhysicalPart{},
			MaintenanceItems: []MaintenanceEntry{},
		}
	}
	return buckets
}

// AppDataFile is the yacht_parts_app_data.json envelope.
type AppDataFile struct {
	SchemaVersion string      `json:"schemaVersion"`
	LastUpdated   string      `json:"lastUpdated"`
	TotalYachts   int         `json:"totalYachts"`
	Yachts        []*AppEntry `json:"yachts"`
}

// AppEntry is the flat per-yacht shape the mobile app consumes.
type AppEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Parts        []AppPart `json:"parts"`
}

// AppPart is the simplified part shape of an AppEntry.
type AppPart struct {
	Name                string `json:"name"`
	Manufacturer        string `json:"manufacturer,omitempty"`
	Model               string `json:"model,omitempty"`
	Category            string `json:"category"`
	MaintenanceInterval int    `json:"maintenanceInterval,omitempty"`
}

// ResourcesFile is the yacht_manual_resources.json envelope.
type ResourcesFile struct {
	SchemaVersion  string      `json:"schemaVersion"`
	LastUpdated    string      `json:"lastUpdated"`
	TotalResources int         `json:"totalResources"`
	Resources      []*Resource `json:"resources"`
}

// Resource indexes one manual document against its yacht.
type Resource struct {
	ID           string `json:"id"`
	YachtModel   string `json:"yachtModel"`
	Manufacturer string `json:"manufacturer,omitempty"`
	ManualPDF    string `json:"manualPDF"`
	DocumentType string `json:"documentType,omitempty"`
	CanAnalyze   bool   `json:"canAnalyze"`
	UpdatedAt    string `json:"updatedAt"`
}

// RegisteredFile is the registered_yachts.json envelope.
type RegisteredFile struct {
	SchemaVersion string          `json:"schemaVersion"`
	LastUpdated   string          `json:"lastUpdated"`
	TotalYachts   int             `json:"totalYachts"`
	Yachts        []*Registration `json:"yachts"`
}

// Registration nests one ingested record under a registration envelope.
type Registration struct {
	ID               string           `json:"id"`
	RegistrationDate string           `json:"registrationDate"`
	Source           string           `json:"source"`
	PDFFile          string           `json:"pdfFile,omitempty"`
	DocumentInfo     llm.DocumentInfo `json:"documentInfo,omitzero"`
	PartsCount       int              `json:"partsCount"`
	AnalysisStatus   string           `json:"analysisStatus"`
}
