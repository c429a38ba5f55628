// Package jsonx recovers structured data from LLM text output. Model
// responses arrive wrapped in code fences, padded with prose, or cut off
// mid-object; Parse tries an ordered list of strategies and returns the
// first that yields valid JSON.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/lucen-labs/irreview/internal/model"
)

// PreviewLimit bounds the diagnostic excerpt carried by a DecodeError, in
// runes, so truncation never splits a multi-byte character.
const PreviewLimit = 2000

// DecodeError reports text that no strategy could recover. Preview holds a
// bounded prefix of the original text for diagnosis.
type DecodeError struct {
	Preview string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jsonx: unrecoverable output: %q", e.Preview)
}

// Parse turns arbitrary model output into a Record. Strategies, first
// success wins:
//
//  1. strip a fenced code block (``` with optional language tag) and try a
//     direct parse,
//  2. bracket-balance from the first '{' (quote and escape aware) and parse
//     that substring,
//  3. hand the stripped text to the json-repair library.
//
// A valid non-object value is wrapped under the Record sentinel key. The
// function is pure: same input, same result.
func Parse(text string) (model.Record, error) {
	stripped := StripFences(text)

	if rec, ok := tryParse(stripped); ok {
		return rec, nil
	}

	if candidate, ok := balancedObject(stripped); ok {
		if rec, ok := tryParse(candidate); ok {
			return rec, nil
		}
	}

	// The repair library will happily coerce plain prose into a bare JSON
	// string, so only structured-looking repairs are accepted.
	if repaired, err := jsonrepair.RepairJSON(stripped); err == nil {
		r := strings.TrimSpace(repaired)
		if strings.HasPrefix(r, "{") || strings.HasPrefix(r, "[") {
			if rec, ok := tryParse(r); ok {
				return rec, nil
			}
		}
	}

	preview := text
	if runes := []rune(preview); len(runes) > PreviewLimit {
		preview = string(runes[:PreviewLimit])
	}
	return nil, &DecodeError{Preview: preview}
}

func tryParse(text string) (model.Record, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return model.Wrap(v), true
}

// StripFences removes a leading/trailing triple-backtick fence, with or
// without a language tag. Text without fences passes through unchanged.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	// Drop the language tag up to the first newline.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return len(s) <= 16
}

// balancedObject scans for the first '{' and walks forward tracking brace
// depth, ignoring braces inside quoted strings and honoring backslash
// escapes. Returns the substring up to the matching '}' when one exists.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}
