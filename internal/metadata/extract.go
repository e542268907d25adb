package metadata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports that assistant output contained no usable JSON object.
// Preview carries a flattened snippet of the raw output for the failure
// journal.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract metadata: %v (raw: %s)", e.Err, e.Preview)
	}
	return fmt.Sprintf("extract metadata: no JSON object found (raw: %s)", e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractRecord pulls a Record out of free-form assistant text. The text may
// wrap the JSON in prose or markdown code fences: fences are stripped, then
// the span from the first '{' to the last '}' is decoded.
func ExtractRecord(raw string) (Record, error) {
	var record Record

	text := stripCodeFence(strings.TrimSpace(raw))
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return record, &ParseError{Preview: Snippet(raw)}
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &record); err != nil {
		return record, &ParseError{Preview: Snippet(raw), Err: err}
	}
	return record, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := text[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// Snippet flattens text to a single bounded line for logs and journals.
func Snippet(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 200
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
