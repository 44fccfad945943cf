package klemmen

import (
	"encoding/json"
	"regexp"
)

// fencedBlock matches the first ``` code block, with an optional json
// language tag. (?s) lets the body span lines.
var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// Extract pulls a Table out of an assistant reply. It tries the first
// fenced code block, then falls back to parsing the entire text. A nil
// result means no table was found; it is not an error — the assistant
// may simply not have followed the requested schema.
func Extract(text string) *Table {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if t := tryParse(m[1]); t != nil {
			return t
		}
	}
	return tryParse(text)
}

// tryParse parses raw JSON and applies the minimal shape check:
// controller and rows must be present and rows must be an array.
func tryParse(raw string) *Table {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil
	}
	if _, ok := probe["controller"]; !ok {
		return nil
	}
	rowsRaw, ok := probe["rows"]
	if !ok {
		return nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(rowsRaw, &rows); err != nil {
		return nil
	}

	var t Table
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil
	}
	return &t
}
