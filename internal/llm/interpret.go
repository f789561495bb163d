package llm

import (
	"encoding/json"
	"log/slog"
	"maps"
	"strings"
)

// InterpretText returns free-form model output trimmed of surrounding
// whitespace. Simplify, compare and chat results pass through unchanged.
func InterpretText(raw string) string {
	return strings.TrimSpace(raw)
}

// ExtractJSONCandidate locates the JSON payload inside raw model text.
// Preference order: interior of a ```json fence, interior of any fence, the
// raw text itself.
func ExtractJSONCandidate(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return s
}

// firstArraySpan returns the first `[` ... matching `]` span in s, or "" when
// no balanced array is present. Quoted strings are skipped so brackets inside
// clause text don't unbalance the scan.
func firstArraySpan(s string) string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// DecodeConcerns parses a concerns array out of raw model output. Malformed
// output never fails the task: a document that yields no parsable array
// interprets as the empty list, and individual entries that fail validation
// after sanitizing are dropped with a warning.
func DecodeConcerns(raw string, logger *slog.Logger) []ConcernEntry {
	if logger == nil {
		logger = slog.Default()
	}

	candidate := ExtractJSONCandidate(raw)
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		span := firstArraySpan(candidate)
		if span == "" {
			logger.Warn("llm.concerns.parse_failed", "error", err, "raw_len", len(raw))
			return []ConcernEntry{}
		}
		if err2 := json.Unmarshal([]byte(span), &items); err2 != nil {
			logger.Warn("llm.concerns.parse_failed", "error", err2, "raw_len", len(raw))
			return []ConcernEntry{}
		}
	}

	schema := BuildConcernEntryJSONSchema()
	out := make([]ConcernEntry, 0, len(items))
	for i, item := range items {
		cleaned, dropped, err := SanitizeConcernEntry(item)
		if err != nil {
			logger.Warn("llm.concerns.entry_skipped", "index", i, "error", err)
			continue
		}
		if len(dropped) > 0 {
			logger.Warn("llm.concerns.entry_sanitized", "index", i, "dropped", dropped)
		}
		if err := ValidateJSONAgainstSchema(schema, cleaned); err != nil {
			logger.Warn("llm.concerns.entry_skipped", "index", i, "error", err)
			continue
		}
		var entry ConcernEntry
		if err := json.Unmarshal(cleaned, &entry); err != nil {
			logger.Warn("llm.concerns.entry_skipped", "index", i, "error", err)
			continue
		}
		out = append(out, entry)
	}
	return out
}

// SanitizeConcernEntry trims string fields and removes keys outside the entry
// schema so additionalProperties=false still validates. A missing
// recommendation defaults to empty; severity is passed through verbatim apart
// from the trim.
func SanitizeConcernEntry(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, err
	}

	allowed := map[string]struct{}{
		"clause": {}, "concern": {}, "severity": {}, "recommendation": {},
	}

	var dropped []string
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if s, ok := m[k].(string); ok {
			m[k] = strings.TrimSpace(s)
		}
	}
	if _, ok := m["recommendation"]; !ok {
		m["recommendation"] = ""
		dropped = append(dropped, "recommendation(defaulted)")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, err
	}
	return b, dropped, nil
}
