package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medpull/medpull/internal/extract"
)

func testField(kind extract.CanonicalKind, key, label string) extract.DetectedField {
	return extract.DetectedField{
		Kind:         kind,
		Key:          key,
		DisplayLabel: label,
		InputKind:    kind.InputKind(),
	}
}

func TestFromMessageLabelPass(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindName, "name", "Nombre"),
		testField(extract.KindGeneric, "student_id", "Student ID"),
	}
	values := map[string]string{}

	filled := e.FromMessage(fields, values, "nombre kanthi sid 405050")

	assert.Equal(t, 2, filled)
	assert.Equal(t, "Kanthi", values["name"])
	assert.Equal(t, "405050", values["student_id"])
}

func TestFromMessageNeverOverwrites(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindName, "name", "Nombre"),
	}
	values := map[string]string{"name": "Typed By Hand"}

	filled := e.FromMessage(fields, values, "nombre kanthi")

	assert.Equal(t, 0, filled)
	assert.Equal(t, "Typed By Hand", values["name"])
}

func TestFromMessageIdentifierSweepSkipsNameFields(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindGeneric, "name_and_student_id", "Name and Student ID"),
		testField(extract.KindGeneric, "member_id", "Member ID"),
	}
	values := map[string]string{}

	e.FromMessage(fields, values, "id: 77-4521")

	assert.Empty(t, values["name_and_student_id"])
	assert.Equal(t, "77-4521", values["member_id"])
}

func TestFromTranscriptLabelPass(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindPhone, "phone", "Phone Number"),
		testField(extract.KindDateOfBirth, "dob", "DOB"),
	}
	values := map[string]string{}

	e.FromTranscript(fields, values, "phone: 555-123-4567\ndob: 3/5/1990")

	assert.Equal(t, "(555) 123-4567", values["phone"])
	assert.Equal(t, "1990-03-05", values["dob"])
}

func TestFromTranscriptKindFallback(t *testing.T) {
	e := NewExtractor()

	// Spanish labels never appear in the English transcript, so the
	// label pass comes up empty and the kind tables take over.
	fields := []extract.DetectedField{
		testField(extract.KindPhone, "phone", "Teléfono"),
		testField(extract.KindEmail, "email", "Correo electrónico"),
		testField(extract.KindDateOfBirth, "dob", "Fecha de nacimiento"),
	}
	values := map[string]string{}

	transcript := "call me at 555-123-4567\nreach me at jd@example.com\nborn 3/5/1990"
	e.FromTranscript(fields, values, transcript)

	assert.Equal(t, "(555) 123-4567", values["phone"])
	assert.Equal(t, "jd@example.com", values["email"])
	assert.Equal(t, "1990-03-05", values["dob"])
}

func TestFromTranscriptNamePhrase(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindName, "name", "Nombre completo"),
	}
	values := map[string]string{}

	e.FromTranscript(fields, values, "me llamo maría")

	assert.Equal(t, "María", values["name"])
}

func TestFromTranscriptNameSentence(t *testing.T) {
	e := NewExtractor()

	// The copula between the label word and the value is filler, not a
	// value, and the fill takes the whole name run after it.
	for _, label := range []string{"Name", "Full Name", "Nombre completo"} {
		fields := []extract.DetectedField{
			testField(extract.KindName, "name", label),
		}
		values := map[string]string{}

		e.FromTranscript(fields, values, "my name is john smith")

		assert.Equal(t, "John Smith", values["name"], "label %q", label)
	}
}

func TestFromTranscriptDateWithSlashes(t *testing.T) {
	e := NewExtractor()
	fields := []extract.DetectedField{
		testField(extract.KindDateOfBirth, "dob", "DOB"),
	}
	values := map[string]string{}

	e.FromTranscript(fields, values, "dob 5/3/1990")

	assert.Equal(t, "1990-05-03", values["dob"])
}

func TestCandidateValidation(t *testing.T) {
	assert.False(t, validCandidate(""))
	assert.False(t, validCandidate("Name"))
	assert.False(t, validCandidate("teléfono"))
	assert.False(t, validCandidate("is"))
	assert.False(t, validCandidate("es"))
	assert.False(t, validCandidate(string(make([]byte, maxCandidateLength))))
	assert.True(t, validCandidate("john smith"))
	assert.True(t, validCandidate("405050"))
}

func TestLabelValuePatternsEmptyLabel(t *testing.T) {
	assert.Nil(t, labelValuePatterns("   "))
}
