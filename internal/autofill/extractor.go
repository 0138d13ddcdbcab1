package autofill

import (
	"regexp"
	"strings"

	"github.com/medpull/medpull/internal/extract"
)

// labelWordPattern rejects candidate values that are themselves field
// labels, which happens when two labels sit next to each other in text.
var labelWordPattern = regexp.MustCompile(`(?i)^(?:nombre|name|address|dirección|direccion|phone|teléfono|telefono|email|correo|dob|date|fecha|ssn|sid|id|is|es|my|mi)$`)

// idSweepPattern catches identifier mentions like "sid 405050" that the
// label patterns miss.
var idSweepPattern = regexp.MustCompile(`(?i)(?:^|\s)(?:sid|id|student\s*id)[:\s]*([a-z0-9\-]+)`)

const maxCandidateLength = 200

// Extractor locates values for known fields in free-form user text and
// writes them into a value map. A field that already holds a non-empty
// value is never overwritten.
type Extractor struct{}

// NewExtractor creates a value extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// FromMessage processes a single chat message: the label pass plus the
// identifier sweep. Returns how many fields were filled.
func (e *Extractor) FromMessage(fields []extract.DetectedField, values map[string]string, message string) int {
	filled := e.labelPass(fields, values, message)
	filled += e.sweepIdentifiers(fields, values, message)
	return filled
}

// FromTranscript processes the joined user transcript: the label pass
// first, then the kind-based fallback tables for anything still empty.
func (e *Extractor) FromTranscript(fields []extract.DetectedField, values map[string]string, transcript string) int {
	filled := e.labelPass(fields, values, transcript)
	filled += e.kindPass(fields, values, transcript)
	return filled
}

// labelPass matches each field's own label words against the text.
func (e *Extractor) labelPass(fields []extract.DetectedField, values map[string]string, text string) int {
	filled := 0
	for _, f := range fields {
		if values[f.Key] != "" {
			continue
		}
		for _, p := range labelValuePatterns(f.DisplayLabel) {
			m := p.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v := strings.TrimSpace(m[1])
			if !validCandidate(v) {
				continue
			}
			values[f.Key] = FormatValue(f.Kind, v)
			filled++
			break
		}
	}
	return filled
}

// kindPass applies the fixed per-kind tables to fields the label pass
// left empty. Generic fields have no table; their only chance is the
// label pass.
func (e *Extractor) kindPass(fields []extract.DetectedField, values map[string]string, text string) int {
	filled := 0
	for _, f := range fields {
		if values[f.Key] != "" {
			continue
		}
		for _, p := range kindExtractors[f.Kind] {
			m := p.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			var v string
			if f.Kind == extract.KindPhone && len(m) >= 4 {
				v = "(" + m[1] + ") " + m[2] + "-" + m[3]
			} else {
				v = strings.TrimSpace(m[1])
			}
			if !validCandidate(v) {
				continue
			}
			values[f.Key] = FormatValue(f.Kind, v)
			filled++
			break
		}
	}
	return filled
}

// sweepIdentifiers fills id-flavored fields from a bare "sid 405050"
// style mention. Fields whose label mentions a name are excluded so a
// "Name / Student ID" header cannot swallow the id.
func (e *Extractor) sweepIdentifiers(fields []extract.DetectedField, values map[string]string, text string) int {
	m := idSweepPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	id := strings.TrimSpace(m[1])
	if !validCandidate(id) {
		return 0
	}

	filled := 0
	for _, f := range fields {
		if values[f.Key] != "" {
			continue
		}
		label := strings.ToLower(f.DisplayLabel)
		if strings.Contains(label, "name") || strings.Contains(label, "nombre") {
			continue
		}
		if strings.Contains(label, "sid") || strings.Contains(label, "student") ||
			strings.Contains(label, "id") {
			values[f.Key] = id
			filled++
		}
	}
	return filled
}

func validCandidate(v string) bool {
	return v != "" && len(v) < maxCandidateLength && !labelWordPattern.MatchString(v)
}
