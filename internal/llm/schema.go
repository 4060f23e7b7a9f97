package llm

// BuildManualJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is used locally to decide whether a reply parsed as the
// expected contract; replies that fail become degraded records, never errors.
func BuildManualJSONSchema() map[string]any {
	measurement := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":   map[string]any{"type": "number"},
			"unit":    map[string]any{"type": "string"},
			"display": map[string]any{"type": "string"},
		},
		"required": []string{"value"},
	}
	splitSection := func(standardProps map[string]any) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"standard": map[string]any{
					"type":       "object",
					"properties": standardProps,
				},
				"additional": map[string]any{"type": "object"},
			},
		}
	}

	part := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":         map[string]any{"type": "string", "minLength": 1},
			"manufacturer": map[string]any{"type": "string"},
			"model":        map[string]any{"type": "string"},
			"category":     map[string]any{"type": "string"},
			"interval":     map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"name"},
	}

	maintenance := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item":     map[string]any{"type": "string", "minLength": 1},
			"category": map[string]any{"type": "string"},
			"interval": map[string]any{"type": "integer", "minimum": 0},
			"method":   map[string]any{"type": "string"},
		},
		"required": []string{"item"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"documentInfo": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":        map[string]any{"type": "string"},
					"yachtModel":   map[string]any{"type": "string"},
					"manufacturer": map[string]any{"type": "string"},
					"documentType": map[string]any{"type": "string"},
				},
			},
			"yachtSpecs": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dimensions": splitSection(map[string]any{
						"loa":          measurement,
						"lwl":          measurement,
						"beam":         measurement,
						"draft":        measurement,
						"displacement": measurement,
						"mastHeight":   measurement,
					}),
					"engine": splitSection(map[string]any{
						"type":  map[string]any{"type": "string"},
						"power": map[string]any{"type": "string"},
						"model": map[string]any{"type": "string"},
					}),
					"sailArea": splitSection(map[string]any{
						"mainSailArea":      measurement,
						"jibSailArea":       measurement,
						"spinnakerSailArea": measurement,
						"totalSailArea":     measurement,
					}),
				},
			},
			"parts":       map[string]any{"type": "array", "items": part},
			"maintenance": map[string]any{"type": "array", "items": maintenance},
			"analysisResult": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"canExtractText": map[string]any{"type": "boolean"},
					"canAnalyze":     map[string]any{"type": "boolean"},
					"confidence":     map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
					"reason":         map[string]any{"type": "string"},
				},
			},
		},
		"required": []string{"documentInfo"},
	}
}
