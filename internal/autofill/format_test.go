package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medpull/medpull/internal/extract"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare digits", "5551234567", "(555) 123-4567"},
		{"dashed", "555-123-4567", "(555) 123-4567"},
		{"dotted", "555.123.4567", "(555) 123-4567"},
		{"already formatted", "(555) 123-4567", "(555) 123-4567"},
		{"not a phone", "call me maybe", "call me maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPhone(tt.input))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"slash single digits", "3/5/1990", "1990-03-05"},
		{"slash padded", "03/05/1990", "1990-03-05"},
		{"dash input", "12-31-1985", "1985-12-31"},
		{"already iso", "1990-03-05", "1990-03-05"},
		{"not a date", "sometime", "sometime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "john smith", "John Smith"},
		{"shouting", "JOHN SMITH", "John Smith"},
		{"accented", "maría garcía", "María García"},
		{"comma separated", "smith, john", "Smith John"},
		{"extra spaces", "  john   smith ", "John Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleCase(tt.input))
		})
	}
}

func TestFormatValueByKind(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", FormatValue(extract.KindPhone, "5551234567"))
	assert.Equal(t, "1990-03-05", FormatValue(extract.KindDateOfBirth, "3/5/1990"))
	assert.Equal(t, "Jane Doe", FormatValue(extract.KindName, "jane doe"))
	assert.Equal(t, "anything goes", FormatValue(extract.KindGeneric, " anything goes "))
}
