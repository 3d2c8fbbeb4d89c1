package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse reports a generation response that does not match
// the two-field contract. A response that parses partially is rejected in
// full; the caller never sees a half-filled question.
var ErrMalformedResponse = errors.New("malformed generation response")

var labelledRe = regexp.MustCompile(`(?is)QUESTION:\s*(.+?)\s*SQL:\s*(.+)\s*$`)

// parseGeneration extracts the (question, solution) pair from a raw
// completion. The contract asks for a strict JSON object with exactly the
// keys "question" and "sql"; the labelled QUESTION:/SQL: section grammar is
// accepted as the equivalent form. Anything else fails.
func parseGeneration(raw string) (prompt, sql string, err error) {
	trimmed := stripFence(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if strings.HasPrefix(trimmed, "{") {
		var fields struct {
			Question string `json:"question"`
			SQL      string `json:"sql"`
		}
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fields); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if strings.TrimSpace(fields.Question) == "" || strings.TrimSpace(fields.SQL) == "" {
			return "", "", fmt.Errorf("%w: missing question or sql field", ErrMalformedResponse)
		}
		return strings.TrimSpace(fields.Question), strings.TrimSpace(fields.SQL), nil
	}

	m := labelledRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", fmt.Errorf("%w: expected JSON object or QUESTION:/SQL: sections", ErrMalformedResponse)
	}
	prompt, sql = strings.TrimSpace(m[1]), strings.TrimSpace(stripFence(m[2]))
	if prompt == "" || sql == "" {
		return "", "", fmt.Errorf("%w: empty question or sql section", ErrMalformedResponse)
	}
	return prompt, sql, nil
}

// stripFence removes a surrounding markdown code fence, which models add
// despite instructions not to.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (```json, ```sql, ...)
		if !strings.ContainsAny(s[:idx], "{}") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
