package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/llm"
)

// Request/response shapes for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ExtractRecord implements llm.RecordExtractor against the Gemini
// generateContent API. The reply is fence-stripped and decoded as the
// versioned record schema; a reply that does not decode produces a degraded
// record with ParseFailed set rather than an error, so callers can choose to
// retry, store the raw reply, or abort. File provenance is always attached
// locally, regardless of what the service returned.
func (c *Client) ExtractRecord(ctx context.Context, req llm.ExtractRequest) (llm.ManualRecord, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	text, truncated := llm.TruncateText(req.Text)
	prompt := llm.BuildPrompt(text, constants.AsStringSlice())

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.Text),
		"truncated", truncated,
		"file", req.FileName,
	)

	body := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:      &c.cfg.Temperature,
			ResponseMimeType: "application/json",
		},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	raw, err := c.post(ctx, rid, endpoint, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ManualRecord{}, nil, err
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ManualRecord{}, raw, fmt.Errorf("decode gemini response: %w", err)
	}
	if gr.Error != nil {
		return llm.ManualRecord{}, raw, fmt.Errorf("gemini error %d (%s): %s", gr.Error.Code, gr.Error.Status, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.log.Error("llm.extract.no_candidates",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ManualRecord{}, raw, fmt.Errorf("no candidates in gemini response")
	}

	reply := gr.Candidates[0].Content.Parts[0].Text
	payload := []byte(llm.StripCodeFences(reply))

	fileInfo := llm.FileInfo{
		FileName: req.FileName,
		FilePath: req.FilePath,
		FileSize: req.FileSize,
	}

	if err := llm.ValidateJSONAgainstSchema(llm.BuildManualJSONSchema(), payload); err != nil {
		c.log.Warn("llm.extract.schema_mismatch",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return degradedRecord(reply, fileInfo), raw, nil
	}

	var rec llm.ManualRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		c.log.Warn("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return degradedRecord(reply, fileInfo), raw, nil
	}

	rec.SchemaVersion = llm.SchemaVersion
	rec.FileInfo = fileInfo

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"model_name", rec.DocumentInfo.YachtModel,
		"manufacturer", rec.DocumentInfo.Manufacturer,
		"parts", len(rec.Parts),
		"confidence", rec.AnalysisResult.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, raw, nil
}

func degradedRecord(reply string, fi llm.FileInfo) llm.ManualRecord {
	return llm.ManualRecord{
		SchemaVersion: llm.SchemaVersion,
		FileInfo:      fi,
		RawResponse:   reply,
		ParseFailed:   true,
	}
}

// post sends one JSON request, retrying transient failures (network errors,
// 429, 5xx) up to MaxRetries times. Malformed-payload and other 4xx replies
// are never retried.
func (c *Client) post(ctx context.Context, rid, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	attempts := c.cfg.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.log.Warn("llm.http.retry", "req_id", rid, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.cfg.RetryDelay * time.Duration(attempt-1)):
			}
		}

		raw, retryable, err := c.doOnce(ctx, url, b)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return raw, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, url string, body []byte) (raw []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Caller controls whether cancellation counts; context errors are final.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ = io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return raw, true, fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, false, fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	return raw, false, nil
}

func truncateBody(b []byte) string {
	const max = 2048
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
