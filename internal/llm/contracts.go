package llm

import "context"

// SchemaVersion is the versioned structured-output contract sent to the
// reasoning service and stamped onto every persisted record.
const SchemaVersion = "5.0"

// Measurement is the value+unit+formatted-display triple every stored
// specification uses.
type Measurement struct {
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	Display string  `json:"display,omitempty"`
}

// WithDisplay fills in the display string when the service omitted it.
func (m Measurement) WithDisplay() Measurement {
	if m.Display == "" {
		m.Display = formatDisplay(m.Value, m.Unit)
	}
	return m
}

// DocumentInfo is the document metadata block of a record.
type DocumentInfo struct {
	Title        string `json:"title,omitempty"`
	YachtModel   string `json:"yachtModel,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	DocumentType string `json:"documentType,omitempty"`
}

// StandardDimensions carries the well-known dimensional keys.
type StandardDimensions struct {
	LOA          *Measurement `json:"loa,omitempty"`
	LWL          *Measurement `json:"lwl,omitempty"`
	Beam         *Measurement `json:"beam,omitempty"`
	Draft        *Measurement `json:"draft,omitempty"`
	Displacement *Measurement `json:"displacement,omitempty"`
	MastHeight   *Measurement `json:"mastHeight,omitempty"`
}

// DimensionSpec splits dimensions into well-known standard keys and an open
// additional map for anything else the manual mentions.
type DimensionSpec struct {
	Standard   StandardDimensions     `json:"standard,omitzero"`
	Additional map[string]Measurement `json:"additional,omitempty"`
}

// StandardEngine carries the well-known engine keys.
type StandardEngine struct {
	Type  string `json:"type,omitempty"`
	Power string `json:"power,omitempty"`
	Model string `json:"model,omitempty"`
}

// EngineSpec splits engine data into standard and additional sub-objects.
type EngineSpec struct {
	Standard   StandardEngine    `json:"standard,omitzero"`
	Additional map[string]string `json:"additional,omitempty"`
}

// StandardSailArea carries the well-known sail-area keys.
type StandardSailArea struct {
	MainSailArea      *Measurement `json:"mainSailArea,omitempty"`
	JibSailArea       *Measurement `json:"jibSailArea,omitempty"`
	SpinnakerSailArea *Measurement `json:"spinnakerSailArea,omitempty"`
	TotalSailArea     *Measurement `json:"totalSailArea,omitempty"`
}

// SailAreaSpec splits sail areas into standard and additional sub-objects.
type SailAreaSpec struct {
	Standard   StandardSailArea       `json:"standard,omitzero"`
	Additional map[string]Measurement `json:"additional,omitempty"`
}

// YachtSpecs is the nested specification block of a record.
type YachtSpecs struct {
	Dimensions DimensionSpec `json:"dimensions,omitzero"`
	Engine     EngineSpec    `json:"engine,omitzero"`
	SailArea   SailAreaSpec  `json:"sailArea,omitzero"`
}

// Part is a sub-component extracted from the manual. Category arrives
// free-form and is canonicalized before storage.
type Part struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Category     string `json:"category,omitempty"`
	Interval     *int   `json:"interval,omitempty"` // maintenance interval in months
}

// MaintenanceItem is a recurring inspection or service task.
type MaintenanceItem struct {
	Item     string `json:"item"`
	Category string `json:"category,omitempty"`
	Interval *int   `json:"interval,omitempty"` // months
	Method   string `json:"method,omitempty"`
}

// AnalysisResult is the confidence block the service returns about its own
// ability to read the document.
type AnalysisResult struct {
	CanExtractText bool    `json:"canExtractText"`
	CanAnalyze     bool    `json:"canAnalyze"`
	Confidence     float64 `json:"confidence,omitempty"` // 0..1
	Reason         string  `json:"reason,omitempty"`
}

// FileInfo is provenance attached locally by the adapter, never requested
// from the service.
type FileInfo struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	FileSize int64  `json:"fileSize"`
}

// ManualRecord is the structured record one ingestion produces.
//
// ParseFailed marks a degraded record: the service replied but the reply did
// not decode as the expected schema. RawResponse then carries the reply
// verbatim so the caller can retry or store it for manual review.
type ManualRecord struct {
	ID             string            `json:"id,omitempty"`
	SchemaVersion  string            `json:"schemaVersion,omitempty"`
	DocumentInfo   DocumentInfo      `json:"documentInfo,omitzero"`
	YachtSpecs     YachtSpecs        `json:"yachtSpecs,omitzero"`
	Parts          []Part            `json:"parts,omitempty"`
	Maintenance    []MaintenanceItem `json:"maintenance,omitempty"`
	AnalysisResult AnalysisResult    `json:"analysisResult,omitzero"`
	FileInfo       FileInfo          `json:"fileInfo,omitzero"`
	RawResponse    string            `json:"rawResponse,omitempty"`
	ParseFailed    bool              `json:"parseFailed,omitempty"`
}

// ExtractRequest carries the extracted document text plus local file
// provenance into the adapter.
type ExtractRequest struct {
	Text     string
	FileName string
	FilePath string
	FileSize int64
}

// RecordExtractor is the interface the pipeline depends on.
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, req ExtractRequest) (ManualRecord, []byte /*rawJSON*/, error)
}
