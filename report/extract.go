package report

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Extraction names the stage of ExtractContent that produced the content.
type Extraction string

const (
	// ExtractionJSON means the whole response was the expected JSON object.
	ExtractionJSON Extraction = "json"
	// ExtractionEmbedded means the span from the first '{' to the last '}' parsed.
	ExtractionEmbedded Extraction = "embedded"
	// ExtractionRaw means nothing parsed and the raw response is the content.
	ExtractionRaw Extraction = "raw"
)

// contentField is the single field the model is asked to return.
const contentField = "reportContent"

// ExtractContent recovers the reportContent string from a model response.
// It never fails: when neither the whole response nor the span from the
// first '{' to the last '}' is a JSON object with a string
// reportContent, the raw response is returned unchanged with ExtractionRaw.
func ExtractContent(raw string) (string, Extraction) {
	if content, ok := decodeContent(raw); ok {
		return content, ExtractionJSON
	}

	if embedded, ok := embeddedObject(raw); ok {
		if content, ok := decodeContent(embedded); ok {
			return content, ExtractionEmbedded
		}
	}

	return raw, ExtractionRaw
}

// decodeContent parses text as a JSON object and returns its reportContent
// field. Missing, null and non-string values do not match.
func decodeContent(text string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return "", false
	}

	field, ok := obj[contentField]
	if !ok {
		return "", false
	}
	field = bytes.TrimSpace(field)
	if len(field) == 0 || field[0] != '"' {
		return "", false
	}

	var content string
	if err := json.Unmarshal(field, &content); err != nil {
		return "", false
	}
	return content, true
}

// embeddedObject returns the greedy span from the first '{' to the last '}'.
func embeddedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
