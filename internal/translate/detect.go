package translate

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the source language of recovered text, so translation
// requests carry the right source code instead of assuming English.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector over the languages the engine supports.
func NewDetector() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.Chinese,
		lingua.Arabic,
		lingua.Hindi,
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// DetectCode returns the lower-cased ISO 639-1 code of the detected
// language, defaulting to "en" when detection is inconclusive.
func (d *Detector) DetectCode(text string) string {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "en"
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
