package extract

import (
	"fmt"
	"time"
)

// MinTextLen is the minimum number of characters (after trimming) an
// extraction must yield before callers consider the document readable.
// PDF extraction falls through to the next stage below this threshold.
const MinTextLen = 100

// Result is the outcome of a text extraction.
type Result struct {
	// Text is the extracted plain text. It may be shorter than MinTextLen;
	// callers decide whether a short yield is acceptable.
	Text string

	// Method names the decoder that produced Text, e.g. "pdf-text",
	// "pdf-stream", "pdf-ocr", "docx", "xlsx", "pptx", "hwp", "plain".
	Method string

	// Pages is the number of pages or sheets visited, when known.
	Pages int

	// Quality carries yield metrics for PDF extraction stages.
	Quality *Quality

	Duration time.Duration

	// Warnings collects non-fatal stage failures, e.g. a primary PDF
	// decoder that errored before a later stage succeeded.
	Warnings []string
}

// Quality describes how trustworthy a PDF text yield looks.
type Quality struct {
	PageCount      int
	CharsPerPage   float64
	PrintableRatio float64
}

// StageError reports the failure of a single extraction stage. Unavailable
// distinguishes a decoder that cannot run at all (missing binary, nil
// converter) from one that ran and failed on this input.
type StageError struct {
	Stage       string
	Unavailable bool
	Err         error
}

func (e *StageError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("extract stage %s unavailable: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("extract stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
