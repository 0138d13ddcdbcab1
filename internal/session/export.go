package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportMeta describes the export itself, carried under the "_meta" key
// alongside the flat field values.
type ExportMeta struct {
	GeneratedAt  time.Time `json:"generated_at"`
	FieldCount   int       `json:"field_count"`
	SourceLength int       `json:"source_length"`
	Labels       []string  `json:"labels"`
}

// ExportJSON renders the session as a flat key→value object, one entry
// per detected field, plus metadata.
func (s *Session) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]interface{}, len(s.result.Fields)+1)
	labels := make([]string, 0, len(s.result.Fields))
	for _, f := range s.result.Fields {
		out[f.Key] = s.values[f.Key]
		labels = append(labels, f.DisplayLabel)
	}
	out["_meta"] = ExportMeta{
		GeneratedAt:  time.Now(),
		FieldCount:   len(s.result.Fields),
		SourceLength: s.result.SourceLength,
		Labels:       labels,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// ExportText renders the session as "Label: value" lines in field order.
// Unfilled fields read "Not provided".
func (s *Session) ExportText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, f := range s.result.Fields {
		v := s.values[f.Key]
		if v == "" {
			v = "Not provided"
		}
		fmt.Fprintf(&b, "%s: %s\n", f.DisplayLabel, v)
	}
	return b.String()
}
