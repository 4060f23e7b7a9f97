package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReplyAgainstSchema(t *testing.T) {
	schema := BuildManualJSONSchema()

	t.Run("minimal valid record", func(t *testing.T) {
		payload := []byte(`{"documentInfo": {"yachtModel": "Farr 40"}}`)
		assert.NoError(t, ValidateJSONAgainstSchema(schema, payload))
	})

	t.Run("full record", func(t *testing.T) {
		payload := []byte(`{
			"documentInfo": {"title": "Manual", "yachtModel": "Farr 40", "manufacturer": "Farr", "documentType": "manual"},
			"yachtSpecs": {
				"dimensions": {"standard": {"loa": {"value": 12.3, "unit": "m", "display": "12.3m"}}, "additional": {}},
				"engine": {"standard": {"type": "diesel", "power": "29hp", "model": "D1-30"}, "additional": {}}
			},
			"parts": [{"name": "Winch", "category": "Rigging", "interval": 12}],
			"maintenance": [{"item": "Rig check", "category": "Rigging", "interval": 12, "method": "visual"}],
			"analysisResult": {"canExtractText": true, "canAnalyze": true, "confidence": 0.95}
		}`)
		assert.NoError(t, ValidateJSONAgainstSchema(schema, payload))
	})

	t.Run("missing documentInfo rejected", func(t *testing.T) {
		payload := []byte(`{"parts": []}`)
		assert.Error(t, ValidateJSONAgainstSchema(schema, payload))
	})

	t.Run("part without name rejected", func(t *testing.T) {
		payload := []byte(`{"documentInfo": {}, "parts": [{"category": "Rigging"}]}`)
		assert.Error(t, ValidateJSONAgainstSchema(schema, payload))
	})

	t.Run("measurement without value rejected", func(t *testing.T) {
		payload := []byte(`{
			"documentInfo": {},
			"yachtSpecs": {"dimensions": {"standard": {"loa": {"unit": "m"}}}}
		}`)
		assert.Error(t, ValidateJSONAgainstSchema(schema, payload))
	})

	t.Run("not json rejected", func(t *testing.T) {
		require.Error(t, ValidateJSONAgainstSchema(schema, []byte("nope")))
	})
}
