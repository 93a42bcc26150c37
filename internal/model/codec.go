package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedDocument = errors.New("model: malformed document")

// DecodeDocument parses an exported or persisted document. The input must
// carry at least a progress object and a habits list; anything else missing is
// filled in by migration. On error nothing is returned.
func DecodeDocument(data []byte) (Document, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if !hasPrefix(shape["progress"], '{') {
		return Document{}, fmt.Errorf("%w: missing progress object", ErrMalformedDocument)
	}
	if !hasPrefix(shape["habits"], '[') {
		return Document{}, fmt.Errorf("%w: missing habits list", ErrMalformedDocument)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	migrate(&doc)
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

func EncodeDocument(doc Document) ([]byte, error) {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}

// migrate upgrades older documents in place.
func migrate(doc *Document) {
	if len(doc.Categories) == 0 {
		doc.Categories = DefaultCategories()
	}
	if doc.Habits == nil {
		doc.Habits = []Habit{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}
	if doc.Log == nil {
		doc.Log = Log{}
	}
	for i := range doc.Habits {
		h := &doc.Habits[i]
		if h.CategoryID == "" && h.LegacyCategory != "" {
			h.CategoryID = h.LegacyCategory
		}
		h.LegacyCategory = ""
		if h.Kind == "" {
			h.Kind = CompletionBoolean
		}
	}
	doc.LastID = doc.maxID()
}

func hasPrefix(raw json.RawMessage, c byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == c
}
