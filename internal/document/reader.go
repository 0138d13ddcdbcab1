package document

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader recovers plain text from uploaded documents. PDFs go through
// page text extraction plus AcroForm field-name recovery; .txt files are
// accepted as-is for text recovered by an external OCR step.
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// ReadResult holds the recovered text of one document.
type ReadResult struct {
	Text           string   `json:"text"`
	Path           string   `json:"path"`
	Pages          int      `json:"pages"`
	Size           int64    `json:"size"`
	FormFieldNames []string `json:"form_field_names,omitempty"`
}

// NewReader creates a reader with the specified file size constraint.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadFile recovers the text of a PDF or plain-text file.
func (r *Reader) ReadFile(path string) (*ReadResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := r.validateFile(path, fileInfo); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return r.readPDF(path, fileInfo.Size())
	case ".txt", ".text":
		return r.readText(path, fileInfo.Size())
	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .pdf or .txt)", path)
	}
}

// validateFile performs basic validation before any parsing happens.
func (r *Reader) validateFile(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}
	return nil
}

func (r *Reader) readText(path string, size int64) (*ReadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	text := string(data)
	if len(text) > r.maxTextSize {
		text = text[:r.maxTextSize]
	}
	return &ReadResult{Text: text, Path: path, Size: size}, nil
}

func (r *Reader) readPDF(path string, size int64) (*ReadResult, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	text, err := r.extractTextContent(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	// Interactive PDFs name their fields explicitly. Appending those
	// names as label lines lets downstream detection see fields the
	// page text never spells out. Failure here is not fatal: scanned
	// or flattened PDFs simply have no form dictionary.
	names, err := ExtractFormFieldNames(path)
	if err != nil {
		log.Printf("form field recovery failed for %s: %v", path, err)
	}
	if len(names) > 0 {
		var b strings.Builder
		b.WriteString(strings.TrimRight(text, "\n"))
		for _, name := range names {
			b.WriteString("\n")
			b.WriteString(name)
			b.WriteString(":")
		}
		b.WriteString("\n")
		text = b.String()
	}

	return &ReadResult{
		Text:           text,
		Path:           path,
		Pages:          pdfReader.NumPage(),
		Size:           size,
		FormFieldNames: names,
	}, nil
}

// extractTextContent walks the pages and concatenates their plain text,
// capped at maxTextSize.
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) (string, error) {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		builder.WriteString("\n")
		totalLength += len(content) + 1
	}

	return builder.String(), nil
}
