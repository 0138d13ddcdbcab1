package extract

import (
	"testing"
)

func TestNewLineClassifier(t *testing.T) {
	classifier := NewLineClassifier()

	if classifier == nil {
		t.Fatal("Expected classifier to be created, got nil")
	}

	if len(classifier.noise) == 0 {
		t.Error("Expected classifier to have noise patterns loaded")
	}

	if len(classifier.keywords) == 0 {
		t.Error("Expected classifier to have default keywords loaded")
	}
}

func TestClassifyLabelLines(t *testing.T) {
	classifier := NewLineClassifier()

	tests := []struct {
		name      string
		line      string
		wantLabel string
	}{
		{"colon terminator", "Full Name:", "Full Name"},
		{"question terminator", "Are you currently taking any medications?", "Are you currently taking any medications"},
		{"mid-line colon", "Name: John", "Name"},
		{"keyword match", "Fecha de nacimiento", "Fecha de nacimiento"},
		{"prompt word", "Please list your allergies", "Please list your allergies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{tt.line, "some following content here"}
			ok, label := classifier.Classify(tt.line, 0, lines)
			if !ok {
				t.Fatalf("Expected %q to be classified as a label", tt.line)
			}
			if label != tt.wantLabel {
				t.Errorf("Expected label %q, got %q", tt.wantLabel, label)
			}
		})
	}
}

func TestClassifyRejectsNoise(t *testing.T) {
	classifier := NewLineClassifier()

	tests := []struct {
		name string
		line string
	}{
		{"page number", "Page 3"},
		{"page count", "2 of 10"},
		{"bare form code", "Form I-90"},
		{"copyright", "© 2024 Example Clinic"},
		{"too short", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{tt.line}
			ok, _ := classifier.Classify(tt.line, 0, lines)
			if ok {
				t.Errorf("Expected %q to be rejected", tt.line)
			}
		})
	}
}

func TestClassifyNoiseBeatsTerminator(t *testing.T) {
	classifier := NewLineClassifier()

	// Noise rejection runs before every label rule, so a page marker
	// with a trailing colon is still rejected.
	lines := []string{"Page 2:"}
	ok, _ := classifier.Classify("Page 2:", 0, lines)
	if ok {
		t.Error("Expected noise line with terminator to be rejected")
	}
}

func TestClassifyIsolatedLine(t *testing.T) {
	classifier := NewLineClassifier()

	lines := []string{"Occupation"}
	ok, label := classifier.Classify("Occupation", 0, lines)
	if !ok {
		t.Fatal("Expected isolated short line to be a label")
	}
	if label != "Occupation" {
		t.Errorf("Expected label Occupation, got %q", label)
	}

	// A long lowercase sentence followed by more prose is not a label.
	prose := []string{
		"the quick brown fox jumped over the lazy dog near the riverbank this morning",
		"and kept on running toward the far side without slowing down",
	}
	ok, _ = classifier.Classify(prose[0], 0, prose)
	if ok {
		t.Error("Expected prose line to be rejected")
	}
}

func TestClassifyCleansTrailingPunctuation(t *testing.T) {
	classifier := NewLineClassifier()

	lines := []string{"Address -", "next line content here"}
	ok, label := classifier.Classify("Address -", 0, lines)
	if !ok {
		t.Fatal("Expected line to be classified as a label")
	}
	if label != "Address" {
		t.Errorf("Expected trailing dash to be stripped, got %q", label)
	}
}

func TestAddKeywords(t *testing.T) {
	classifier := NewLineClassifier()
	classifier.AddKeywords([]string{"Diagnose", "  ", ""})

	lines := []string{"ihre diagnose bitte unten links eintippen und unterschreiben sie dort", "x"}
	ok, _ := classifier.Classify(lines[0], 0, lines)
	if !ok {
		t.Error("Expected added keyword to classify the line")
	}
}
