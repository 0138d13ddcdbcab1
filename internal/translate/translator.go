package translate

import (
	"context"
	"log"
	"strings"
	"time"
)

// interChunkDelay spaces out requests to respect the free tiers' rate
// limits.
const interChunkDelay = 300 * time.Millisecond

// SourceDetector is satisfied by Detector; it is an interface so tests
// can pin the source language.
type SourceDetector interface {
	DetectCode(text string) string
}

// Result is the outcome of translating a document.
type Result struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Chunks         int    `json:"chunks"`
	// Degraded reports that at least one chunk passed through verbatim
	// because every provider failed on it.
	Degraded bool `json:"degraded"`
}

// Translator chunks a document and runs each chunk through a provider
// chain, falling back to the verbatim text when all providers fail.
type Translator struct {
	providers []Provider
	detector  SourceDetector
	chunkSize int
	delay     time.Duration
}

// New creates a translator over the given provider chain. A nil detector
// makes every document read as English.
func New(providers []Provider, detector SourceDetector) *Translator {
	return &Translator{
		providers: providers,
		detector:  detector,
		chunkSize: DefaultChunkSize,
		delay:     interChunkDelay,
	}
}

// Translate converts text into the target language. It never fails
// outright: the worst case is the original text back, marked degraded.
func (t *Translator) Translate(ctx context.Context, text, target string) (*Result, error) {
	source := "en"
	if t.detector != nil {
		source = t.detector.DetectCode(text)
	}

	if source == target || strings.TrimSpace(text) == "" {
		return &Result{
			Text:           text,
			SourceLanguage: source,
			TargetLanguage: target,
		}, nil
	}

	chunks := SplitChunks(text, t.chunkSize)
	translated := make([]string, 0, len(chunks))
	degraded := false

	for i, chunk := range chunks {
		out, ok := t.translateChunk(ctx, chunk, source, target)
		if !ok {
			degraded = true
		}
		translated = append(translated, out)

		if i < len(chunks)-1 && t.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.delay):
			}
		}
	}

	return &Result{
		Text:           strings.Join(translated, "\n\n"),
		SourceLanguage: source,
		TargetLanguage: target,
		Chunks:         len(chunks),
		Degraded:       degraded,
	}, nil
}

// translateChunk walks the provider chain; the verbatim chunk is the
// terminal fallback.
func (t *Translator) translateChunk(ctx context.Context, chunk, source, target string) (string, bool) {
	for _, p := range t.providers {
		out, err := p.Translate(ctx, chunk, source, target)
		if err != nil {
			log.Printf("translation provider %s failed: %v", p.Name(), err)
			continue
		}
		return out, true
	}
	return chunk, false
}
