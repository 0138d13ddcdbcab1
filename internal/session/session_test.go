package session

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/medpull/medpull/internal/extract"
)

func twoFieldResult() extract.ExtractionResult {
	return extract.ExtractionResult{
		Tier:         extract.TierPrimary,
		SourceLength: 120,
		Fields: []extract.DetectedField{
			{SequenceID: 1, Kind: extract.KindName, Key: "name", DisplayLabel: "Full Name", InputKind: extract.InputText, SourceLine: 1},
			{SequenceID: 2, Kind: extract.KindDateOfBirth, Key: "dob", DisplayLabel: "Date of Birth", InputKind: extract.InputDate, SourceLine: 2},
		},
	}
}

func TestSetSourceDropsTranslation(t *testing.T) {
	s := New("test")
	s.SetSource("original text")
	s.SetTranslation("texto traducido", "es")

	if s.ActiveText() != "texto traducido" {
		t.Errorf("Expected translated text to be active, got %q", s.ActiveText())
	}
	if s.Language() != "es" {
		t.Errorf("Expected language es, got %q", s.Language())
	}

	s.SetSource("a new upload")
	if s.ActiveText() != "a new upload" {
		t.Errorf("Expected new source to be active, got %q", s.ActiveText())
	}
	if s.Language() != "" {
		t.Errorf("Expected translation dropped, got language %q", s.Language())
	}
}

func TestSetValueRequiresKnownField(t *testing.T) {
	s := New("test")
	s.SetResult(twoFieldResult())

	if !s.SetValue("name", "Jane Doe") {
		t.Error("Expected set on known field to succeed")
	}
	if s.SetValue("unknown_key", "x") {
		t.Error("Expected set on unknown field to fail")
	}
	if s.Value("name") != "Jane Doe" {
		t.Errorf("Expected value Jane Doe, got %q", s.Value("name"))
	}
}

func TestValuesSurviveReExtraction(t *testing.T) {
	s := New("test")
	s.SetResult(twoFieldResult())
	s.SetValue("name", "Jane Doe")

	// Re-extraction after translation replaces the field set wholesale.
	// The Spanish label resolves to the same kind, so the key matches
	// and the typed value survives.
	translated := extract.ExtractionResult{
		Tier:         extract.TierPrimary,
		SourceLength: 130,
		Fields: []extract.DetectedField{
			{SequenceID: 1, Kind: extract.KindName, Key: "name", DisplayLabel: "Nombre completo", InputKind: extract.InputText, SourceLine: 1},
		},
	}
	s.SetResult(translated)

	if s.Value("name") != "Jane Doe" {
		t.Errorf("Expected value preserved across re-extraction, got %q", s.Value("name"))
	}
}

func TestClearValuesKeepsFields(t *testing.T) {
	s := New("test")
	s.SetResult(twoFieldResult())
	s.SetValue("name", "Jane Doe")

	s.ClearValues()

	if s.Value("name") != "" {
		t.Error("Expected values cleared")
	}
	if len(s.Result().Fields) != 2 {
		t.Error("Expected field set untouched")
	}
}

func TestUserTranscript(t *testing.T) {
	s := New("test")
	s.AddMessage(RoleUser, "nombre kanthi")
	s.AddMessage(RoleAssistant, "Got it, I filled in your name.")
	s.AddMessage(RoleUser, "sid 405050")

	got := s.UserTranscript()
	want := "nombre kanthi\nsid 405050"
	if got != want {
		t.Errorf("Expected transcript %q, got %q", want, got)
	}
}

func TestExportJSON(t *testing.T) {
	s := New("test")
	s.SetResult(twoFieldResult())
	s.SetValue("name", "Jane Doe")

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}

	if out["name"] != "Jane Doe" {
		t.Errorf("Expected name entry, got %v", out["name"])
	}
	if out["dob"] != "" {
		t.Errorf("Expected empty dob entry, got %v", out["dob"])
	}

	meta, ok := out["_meta"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected _meta object in export")
	}
	if meta["field_count"].(float64) != 2 {
		t.Errorf("Expected field_count 2, got %v", meta["field_count"])
	}
	if meta["source_length"].(float64) != 120 {
		t.Errorf("Expected source_length 120, got %v", meta["source_length"])
	}
	labels, _ := meta["labels"].([]interface{})
	if len(labels) != 2 {
		t.Errorf("Expected 2 labels in meta, got %v", meta["labels"])
	}
}

func TestExportText(t *testing.T) {
	s := New("test")
	s.SetResult(twoFieldResult())
	s.SetValue("name", "Jane Doe")

	text := s.ExportText()

	if !strings.Contains(text, "Full Name: Jane Doe") {
		t.Errorf("Expected filled line, got %q", text)
	}
	if !strings.Contains(text, "Date of Birth: Not provided") {
		t.Errorf("Expected placeholder line, got %q", text)
	}
}

func TestManagerDefaultSession(t *testing.T) {
	m := NewManager()

	first := m.GetOrCreate("")
	second := m.GetOrCreate("")
	if first != second {
		t.Error("Expected empty id to select the same default session")
	}
	if first.ID == "" {
		t.Error("Expected default session to get a generated id")
	}

	byID := m.GetOrCreate(first.ID)
	if byID != first {
		t.Error("Expected lookup by generated id to find the default session")
	}

	other := m.GetOrCreate("explicit")
	if other == first {
		t.Error("Expected explicit id to create a distinct session")
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("Expected Get on unknown id to report absence")
	}

	m.Remove(first.ID)
	if _, ok := m.Get(""); ok {
		t.Error("Expected default session gone after removal")
	}
}
