package llm

// BuildConcernEntryJSONSchema returns the JSON-Schema (draft 2020-12 subset)
// one concern entry is validated against, as a generic map. Severity is typed
// as a bare non-empty string: the LOW/MEDIUM/HIGH set is enforced by
// instruction only, and out-of-set values pass through.
func BuildConcernEntryJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"clause":         map[string]any{"type": "string", "minLength": 1},
			"concern":        map[string]any{"type": "string", "minLength": 1},
			"severity":       map[string]any{"type": "string", "minLength": 1},
			"recommendation": map[string]any{"type": "string"},
		},
		"required": []string{"clause", "concern", "severity", "recommendation"},
	}
}

// BuildConcernsJSONSchema returns the schema for the whole concerns array.
func BuildConcernsJSONSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": BuildConcernEntryJSONSchema(),
	}
}
