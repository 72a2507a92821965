package docstore

import (
	"encoding/json"
	"fmt"
)

// Encode turns a typed record into a document body via its JSON form.
func Encode(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode doc: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode doc: %w", err)
	}
	return m, nil
}

// Decode fills a typed record from a document body.
func Decode(data map[string]any, out any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	return nil
}
