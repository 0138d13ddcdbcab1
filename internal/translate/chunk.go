package translate

import (
	"regexp"
	"strings"
)

// DefaultChunkSize keeps requests under the free translation APIs' limits.
const DefaultChunkSize = 300

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// SplitChunks breaks text into translation-sized pieces. Paragraphs are
// the unit of meaning, so blank-line boundaries are honored first; long
// paragraphs split at sentence boundaries, and pathological sentences at
// word boundaries.
func SplitChunks(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		if len(para) <= maxSize {
			chunks = append(chunks, para)
			continue
		}

		sentences := sentencePattern.FindAllString(para, -1)
		if sentences == nil {
			sentences = []string{para}
		}

		current := ""
		for _, sentence := range sentences {
			if len(current)+len(sentence) <= maxSize {
				current += sentence
				continue
			}
			if current != "" {
				chunks = append(chunks, current)
			}
			if len(sentence) > maxSize {
				current = splitWords(sentence, maxSize, &chunks)
			} else {
				current = sentence
			}
		}
		if current != "" {
			chunks = append(chunks, current)
		}
	}
	return chunks
}

// splitWords flushes word-bounded pieces of an oversized sentence into
// chunks and returns the unflushed remainder.
func splitWords(sentence string, maxSize int, chunks *[]string) string {
	wordChunk := ""
	for _, word := range strings.Split(sentence, " ") {
		if len(wordChunk)+1+len(word) <= maxSize {
			if wordChunk != "" {
				wordChunk += " "
			}
			wordChunk += word
		} else {
			if wordChunk != "" {
				*chunks = append(*chunks, wordChunk)
			}
			wordChunk = word
		}
	}
	return wordChunk
}
