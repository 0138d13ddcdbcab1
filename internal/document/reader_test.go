package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.txt")
	content := "PATIENT INTAKE FORM\n\nFull Name:\nDate of Birth:\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reader := NewReader(1024 * 1024)
	result, err := reader.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if result.Text != content {
		t.Errorf("Expected text passed through verbatim, got %q", result.Text)
	}
	if result.Path != path {
		t.Errorf("Expected path %q, got %q", path, result.Path)
	}
	if result.Size != int64(len(content)) {
		t.Errorf("Expected size %d, got %d", len(content), result.Size)
	}
}

func TestReadFileValidation(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(big, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	unsupported := filepath.Join(dir, "notes.docx")
	if err := os.WriteFile(unsupported, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	tests := []struct {
		name    string
		reader  *Reader
		path    string
		wantErr string
	}{
		{"empty path", NewReader(1024), "", "path cannot be empty"},
		{"missing file", NewReader(1024), filepath.Join(dir, "nope.txt"), "does not exist"},
		{"directory", NewReader(1024), dir, "directory"},
		{"too large", NewReader(10), big, "file too large"},
		{"unsupported type", NewReader(1024), unsupported, "unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.reader.ReadFile(tt.path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestReadInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a real pdf"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reader := NewReader(1024)
	if _, err := reader.ReadFile(path); err == nil {
		t.Error("Expected error for malformed PDF")
	}
}

func TestReadTextFileTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 2048)), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reader := NewReader(1024 * 1024)
	reader.maxTextSize = 1000
	result, err := reader.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(result.Text) != 1000 {
		t.Errorf("Expected text capped at 1000 chars, got %d", len(result.Text))
	}
}
