package query

import (
	"encoding/json"
	"fmt"
)

// Project reduces doc to the named JSON fields. id is always kept.
// With no fields the full document is returned.
func Project(doc any, fields []string) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if len(fields) == 0 {
		return full, nil
	}

	out := make(map[string]any, len(fields)+1)
	if id, ok := full["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}

// ProjectAll applies Project to every document.
func ProjectAll[T any](docs []T, fields []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docs))
	for i := range docs {
		m, err := Project(docs[i], fields)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
