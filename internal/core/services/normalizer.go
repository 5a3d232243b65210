package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Normalize defensively parses a completion result into a canonical Answer.
//
// Backends honour structured-output requests unevenly: the result may be a
// conforming object, a string containing JSON, or a malformed fragment.
// The known shapes are tried in order; merely odd but parseable input never
// fails, only genuinely unrecognizable shapes do, with the raw payload
// preserved in the error for diagnosis.
func Normalize(raw driven.RawResult) (domain.Answer, error) {
	if raw.IsObject() {
		return normalizeObject(raw.Object)
	}

	// A string containing a JSON object is decoded and handled as one.
	text := strings.TrimSpace(raw.Text)
	if strings.HasPrefix(text, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err == nil {
			return normalizeObject(obj)
		}
	}

	// Plain string with no structure: the whole string is the answer.
	return domain.Answer{Answer: text, Sources: []string{}}, nil
}

func normalizeObject(obj map[string]any) (domain.Answer, error) {
	answer, ok := obj["answer"].(string)
	if !ok {
		return domain.Answer{}, fmt.Errorf("%w: object without string answer field: %v",
			domain.ErrUnexpectedResultShape, obj)
	}

	sources, err := normalizeSources(obj["sources"])
	if err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{Answer: strings.TrimSpace(answer), Sources: sources}, nil
}

func normalizeSources(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil

	case []string:
		return append([]string{}, v...), nil

	case string:
		return parseSourceString(v), nil

	case []any:
		return normalizeSourceList(v)

	default:
		return nil, fmt.Errorf("%w: sources of type %T: %v",
			domain.ErrUnexpectedResultShape, value, value)
	}
}

// normalizeSourceList handles JSON-decoded lists, which arrive as []any of
// strings or of structured source objects (e.g. retrieved-document records).
func normalizeSourceList(items []any) ([]string, error) {
	sources := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			sources = append(sources, s)
		case map[string]any:
			sources = append(sources, sourceFromObject(s))
		default:
			return nil, fmt.Errorf("%w: source list item of type %T: %v",
				domain.ErrUnexpectedResultShape, item, item)
		}
	}
	return sources, nil
}

// sourceFromObject maps a structured source record to a human-readable
// string, preferring an embedded locator field.
func sourceFromObject(obj map[string]any) string {
	for _, key := range []string{"source", "locator", "page_content", "text"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	if meta, ok := obj["metadata"].(map[string]any); ok {
		if s, ok := meta["source"].(string); ok && s != "" {
			return s
		}
	}
	return unknownSource
}

// parseSourceString interprets a sources value that arrived as one string.
// A well-formed JSON list parses directly; anything else is treated as a
// bracketed, comma-separated fragment.
func parseSourceString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return list
	}

	trimmed = strings.Trim(trimmed, "[]")
	parts := strings.Split(trimmed, ",")
	sources := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			sources = append(sources, part)
		}
	}
	return sources
}
