package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medpull/medpull/internal/extract"
)

const maxPromptTextLength = 3000

const extractionSystemPrompt = "You are a form field extraction assistant. Always return valid JSON arrays only."

const extractionPromptTemplate = `You are analyzing a medical form. Extract all form fields from the following text. For each field, identify:
1. The field label (what the field is asking for)
2. The field type (text, date, email, phone, number, etc.)
3. Any context that helps understand what information is needed

Return ONLY a valid JSON array with this structure:
[
  {
    "label": "Full field label as it appears",
    "displayLabel": "Clean label without colons or extra characters",
    "type": "text|date|email|tel|number",
    "context": "Brief context about what this field needs"
  }
]

Form text:
%s

Return only the JSON array, no other text:`

// jsonArrayPattern locates the JSON array inside a chat reply, tolerating
// prose the model wraps around it.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

type fieldEntry struct {
	Label        string `json:"label"`
	DisplayLabel string `json:"displayLabel"`
	Type         string `json:"type"`
	Context      string `json:"context"`
}

// FieldStrategy extracts form fields by asking a chat model. It shares
// the kind resolver with the heuristic pipeline, so a field reaches the
// same canonical kind no matter which extractor found it.
type FieldStrategy struct {
	client   *Client
	resolver *extract.KindResolver
}

// NewFieldStrategy creates the strategy.
func NewFieldStrategy(client *Client, resolver *extract.KindResolver) *FieldStrategy {
	return &FieldStrategy{client: client, resolver: resolver}
}

func (s *FieldStrategy) Name() string { return "assisted" }

// Extract asks the model for a field list and maps the reply into an
// ExtractionResult.
func (s *FieldStrategy) Extract(ctx context.Context, text string) (extract.ExtractionResult, error) {
	if !s.client.Enabled() {
		return extract.ExtractionResult{}, fmt.Errorf("no API key configured")
	}
	if strings.TrimSpace(text) == "" {
		return extract.ExtractionResult{Tier: extract.TierNone}, nil
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, truncateText(text, maxPromptTextLength))
	reply, err := s.client.Complete(ctx, []ChatMessage{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return extract.ExtractionResult{}, err
	}

	entries, err := parseFieldEntries(reply)
	if err != nil {
		return extract.ExtractionResult{}, err
	}
	return s.assemble(entries, len(text)), nil
}

// parseFieldEntries pulls the JSON array out of the reply text.
func parseFieldEntries(reply string) ([]fieldEntry, error) {
	payload := jsonArrayPattern.FindString(reply)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array found in reply")
	}
	var entries []fieldEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse field entries: %w", err)
	}
	return entries, nil
}

func (s *FieldStrategy) assemble(entries []fieldEntry, srcLen int) extract.ExtractionResult {
	seen := make(map[string]bool, len(entries))
	usedKeys := make(map[string]int, len(entries))
	fields := make([]extract.DetectedField, 0, len(entries))

	for _, e := range entries {
		display := strings.TrimSpace(e.DisplayLabel)
		if display == "" {
			display = strings.TrimSpace(e.Label)
		}
		if display == "" {
			continue
		}
		lower := strings.ToLower(display)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		kind := s.resolver.Resolve(display)
		key := string(kind)
		if kind == extract.KindGeneric {
			key = extract.NormalizeLabelKey(display, len(fields)+1)
		}
		if n := usedKeys[key]; n > 0 {
			usedKeys[key] = n + 1
			key = fmt.Sprintf("%s_%d", key, n+1)
		} else {
			usedKeys[key] = 1
		}

		raw := strings.TrimSpace(e.Label)
		if raw == "" {
			raw = display
		}
		fields = append(fields, extract.DetectedField{
			SequenceID:   len(fields) + 1,
			Kind:         kind,
			Key:          key,
			RawLabel:     raw,
			DisplayLabel: display,
			InputKind:    kind.InputKind(),
			SourceLine:   len(fields) + 1,
			Context:      strings.TrimSpace(e.Context),
		})
	}

	return extract.ExtractionResult{
		Fields:       fields,
		Tier:         extract.TierAssisted,
		SourceLength: srcLen,
	}
}

// truncateText caps s at n bytes without splitting a multi-byte rune.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
