package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with preamble", "Here is the result:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"no fence", "  {\"a\": 1}\n", `{"a": 1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestMeasurementWithDisplay(t *testing.T) {
	m := Measurement{Value: 12.5, Unit: "m"}.WithDisplay()
	assert.Equal(t, "12.5m", m.Display)

	// An existing display string is never overwritten.
	m = Measurement{Value: 12.5, Unit: "m", Display: "12.50 meters"}.WithDisplay()
	assert.Equal(t, "12.50 meters", m.Display)
}
