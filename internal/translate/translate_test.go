package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksParagraphs(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph here.\n\n\n\nThird."
	chunks := SplitChunks(text, 300)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph here." {
		t.Errorf("Expected first paragraph intact, got %q", chunks[0])
	}
}

func TestSplitChunksSentenceBoundaries(t *testing.T) {
	sentence := strings.Repeat("word ", 12) + "end."
	para := strings.TrimSpace(strings.Repeat(sentence+" ", 10))

	chunks := SplitChunks(para, 150)

	if len(chunks) < 2 {
		t.Fatalf("Expected long paragraph split into several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 150 {
			t.Errorf("Chunk %d exceeds max size: %d chars", i, len(c))
		}
	}
}

func TestSplitChunksWordBoundaries(t *testing.T) {
	// One long sentence with no terminator forces word splitting.
	para := strings.TrimSpace(strings.Repeat("supercalifragilistic ", 30))

	chunks := SplitChunks(para, 100)

	if len(chunks) < 2 {
		t.Fatalf("Expected word-bounded chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("Chunk %d exceeds max size: %d chars", i, len(c))
		}
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
			t.Errorf("Chunk %d has ragged spacing: %q", i, c)
		}
	}
}

func TestSplitChunksEmptyInput(t *testing.T) {
	if chunks := SplitChunks("", 300); chunks != nil {
		t.Errorf("Expected no chunks for empty text, got %v", chunks)
	}
	if chunks := SplitChunks("\n\n  \n\n", 300); chunks != nil {
		t.Errorf("Expected no chunks for blank text, got %v", chunks)
	}
}

type stubProvider struct {
	name   string
	prefix string
	err    error
	calls  int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.prefix + text, nil
}

type fixedDetector struct{ code string }

func (d fixedDetector) DetectCode(string) string { return d.code }

func newTestTranslator(detector SourceDetector, providers ...Provider) *Translator {
	tr := New(providers, detector)
	tr.delay = 0
	return tr
}

func TestTranslatePrimaryProvider(t *testing.T) {
	primary := &stubProvider{name: "primary", prefix: "[es] "}
	secondary := &stubProvider{name: "secondary", prefix: "[mm] "}
	tr := newTestTranslator(fixedDetector{"en"}, primary, secondary)

	result, err := tr.Translate(context.Background(), "Full Name:", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Text != "[es] Full Name:" {
		t.Errorf("Expected primary provider output, got %q", result.Text)
	}
	if result.Degraded {
		t.Error("Expected clean translation not marked degraded")
	}
	if secondary.calls != 0 {
		t.Error("Expected secondary provider untouched")
	}
	if result.SourceLanguage != "en" || result.TargetLanguage != "es" {
		t.Errorf("Expected en→es, got %s→%s", result.SourceLanguage, result.TargetLanguage)
	}
}

func TestTranslateProviderFallback(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("503")}
	secondary := &stubProvider{name: "secondary", prefix: "[mm] "}
	tr := newTestTranslator(fixedDetector{"en"}, primary, secondary)

	result, err := tr.Translate(context.Background(), "Full Name:", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Text != "[mm] Full Name:" {
		t.Errorf("Expected secondary provider output, got %q", result.Text)
	}
	if result.Degraded {
		t.Error("Expected successful fallback not marked degraded")
	}
}

func TestTranslateVerbatimWhenAllProvidersFail(t *testing.T) {
	tr := newTestTranslator(fixedDetector{"en"},
		&stubProvider{name: "a", err: errors.New("down")},
		&stubProvider{name: "b", err: errors.New("down too")},
	)

	result, err := tr.Translate(context.Background(), "Full Name:", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Text != "Full Name:" {
		t.Errorf("Expected verbatim passthrough, got %q", result.Text)
	}
	if !result.Degraded {
		t.Error("Expected verbatim result marked degraded")
	}
}

func TestTranslateSkipsSameLanguage(t *testing.T) {
	primary := &stubProvider{name: "primary", prefix: "[es] "}
	tr := newTestTranslator(fixedDetector{"es"}, primary)

	result, err := tr.Translate(context.Background(), "Nombre completo:", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Text != "Nombre completo:" {
		t.Errorf("Expected text unchanged, got %q", result.Text)
	}
	if primary.calls != 0 {
		t.Error("Expected no provider calls for same-language request")
	}
}

func TestTranslateJoinsChunks(t *testing.T) {
	primary := &stubProvider{name: "primary", prefix: "[es] "}
	tr := newTestTranslator(fixedDetector{"en"}, primary)

	result, err := tr.Translate(context.Background(), "First block.\n\nSecond block.", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Chunks != 2 {
		t.Errorf("Expected 2 chunks, got %d", result.Chunks)
	}
	if result.Text != "[es] First block.\n\n[es] Second block." {
		t.Errorf("Expected chunks rejoined with blank lines, got %q", result.Text)
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", maxRequestLength)
	got := truncate(s, maxRequestLength+1)

	if !utf8.ValidString(got) {
		t.Error("Expected truncation on a rune boundary, got invalid UTF-8")
	}
	if len(got) != maxRequestLength {
		t.Errorf("Expected %d bytes, got %d", maxRequestLength, len(got))
	}
	if truncate("short", maxRequestLength) != "short" {
		t.Error("Expected text under the cap to pass through unchanged")
	}
}
