package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooaah/yacht-manuals/internal/llm"
)

func candidateReply(t *testing.T, text string) []byte {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	return b
}

const validRecordJSON = `{
  "documentInfo": {"title": "Owner Manual", "yachtModel": "Test Craft 30", "manufacturer": "Acme"},
  "parts": [{"name": "Winch", "category": "Deck Hardware"}],
  "analysisResult": {"canExtractText": true, "canAnalyze": true, "confidence": 0.92}
}`

func newTestClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestExtractRecord(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "yacht manual")
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		// Replies arrive fenced; the client must tolerate that.
		w.Write(candidateReply(t, "```json\n"+validRecordJSON+"\n```"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0)
	rec, raw, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{
		Text:     "Test Craft 30 owner manual text",
		FileName: "test_craft_30.pdf",
		FilePath: "/manuals/test_craft_30.pdf",
		FileSize: 1234,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, int32(1), calls.Load())

	assert.False(t, rec.ParseFailed)
	assert.Equal(t, llm.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "Test Craft 30", rec.DocumentInfo.YachtModel)
	require.Len(t, rec.Parts, 1)
	assert.Equal(t, "Winch", rec.Parts[0].Name)

	// Provenance is attached locally, never taken from the reply.
	assert.Equal(t, "test_craft_30.pdf", rec.FileInfo.FileName)
	assert.Equal(t, "/manuals/test_craft_30.pdf", rec.FileInfo.FilePath)
	assert.Equal(t, int64(1234), rec.FileInfo.FileSize)
}

func TestExtractRecordRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(candidateReply(t, validRecordJSON))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 1)
	rec, _, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{
		Text:     "manual text",
		FileName: "a.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "Test Craft 30", rec.DocumentInfo.YachtModel)
}

func TestExtractRecordDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "bad request"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 3)
	_, _, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExtractRecordRetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 1)
	_, _, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExtractRecordDegradesOnUnparsableReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, "I could not produce JSON for this document."))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0)
	rec, raw, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{
		Text:     "manual text",
		FileName: "b.pdf",
		FileSize: 77,
	})

	// A reply that fails to parse is a degraded record, not an error.
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.True(t, rec.ParseFailed)
	assert.Equal(t, "I could not produce JSON for this document.", rec.RawResponse)
	assert.Equal(t, llm.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "b.pdf", rec.FileInfo.FileName)
}

func TestExtractRecordNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0)
	_, _, err := client.ExtractRecord(context.Background(), llm.ExtractRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
