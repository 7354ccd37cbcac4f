// Package extract pulls structured JSON out of free-form model output.
//
// Models wrap JSON in prose or code fences often enough that every feature
// needs the same recovery path: take the outermost {...} span, decode it
// strictly, and fall back to a caller-built value when anything goes wrong.
// Nothing in this package returns an error or panics.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/abhisek/edumate/internal/llm"
)

// Span returns the substring from the first '{' to the last '}' inclusive.
// ok is false when there is no such span.
func Span(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// JSON decodes the JSON object embedded in text into T. On any failure it
// returns fallback(text) and false. A nil fallback yields the zero T.
func JSON[T any](text string, fallback func(raw string) T) (T, bool) {
	span, ok := Span(text)
	if !ok {
		return orFallback(text, fallback), false
	}
	var v T
	if err := decodeStrict(span, &v); err != nil {
		return orFallback(text, fallback), false
	}
	return v, true
}

// Validated is JSON with an additional JSON Schema check of the extracted
// object before it is decoded.
func Validated[T any](text string, schema *llm.Schema, fallback func(raw string) T) (T, bool) {
	span, ok := Span(text)
	if !ok {
		return orFallback(text, fallback), false
	}
	if err := llm.ValidateJSON(schema, json.RawMessage(span)); err != nil {
		return orFallback(text, fallback), false
	}
	var v T
	if err := decodeStrict(span, &v); err != nil {
		return orFallback(text, fallback), false
	}
	return v, true
}

func decodeStrict(span string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(span)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Reject trailing garbage such as two objects glued together.
	if dec.More() {
		return &json.SyntaxError{Offset: dec.InputOffset()}
	}
	return nil
}

func orFallback[T any](text string, fallback func(string) T) T {
	if fallback == nil {
		var zero T
		return zero
	}
	return fallback(text)
}
