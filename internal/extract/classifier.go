package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minLabelLineLength = 2
	maxLabelLineLength = 200
	maxKeywordLineLen  = 100
	maxMidColonLabel   = 60
	maxIsolatedLineLen = 60
	maxShortLabelLen   = 40
)

// cleanLabelPattern strips a single trailing colon, question mark or dash
// plus trailing whitespace.
var cleanLabelPattern = regexp.MustCompile(`[:?\-]\s*$`)

// terminatorPattern matches lines ending with a label terminator.
var terminatorPattern = regexp.MustCompile(`[:?]\s*$`)

// LineClassifier decides whether a single line of recovered text is a form
// field label and, if so, extracts the clean label text. Rules are applied
// in order; the first that accepts wins.
type LineClassifier struct {
	noise      []*regexp.Regexp
	keywords   []string
	promptWord *regexp.Regexp
}

// NewLineClassifier creates a classifier with the built-in rule tables.
func NewLineClassifier() *LineClassifier {
	c := &LineClassifier{
		promptWord: regexp.MustCompile(promptWordPattern),
	}
	for _, p := range defaultNoisePatterns() {
		c.noise = append(c.noise, regexp.MustCompile(`(?i)`+p))
	}
	c.keywords = defaultFormKeywords()
	return c
}

// AddKeywords appends additional keywords for the label-by-keyword rule.
func (c *LineClassifier) AddKeywords(words []string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			c.keywords = append(c.keywords, w)
		}
	}
}

// Classify inspects one line in the context of all lines of the document.
// It returns whether the line is a label and the cleaned label text.
func (c *LineClassifier) Classify(line string, index int, lines []string) (bool, string) {
	if len(line) < minLabelLineLength || len(line) > maxLabelLineLength {
		return false, ""
	}
	for _, noise := range c.noise {
		if noise.MatchString(line) {
			return false, ""
		}
	}

	clean := strings.TrimSpace(cleanLabelPattern.ReplaceAllString(line, ""))

	// Lines ending with a colon or question mark are the most common
	// label shape.
	if terminatorPattern.MatchString(line) {
		return clean != "", clean
	}

	// Mid-line colon: "Name: John" or "Address: ". The text before the
	// colon is the label.
	if idx := strings.Index(line, ":"); idx >= 0 {
		before := strings.TrimSpace(line[:idx])
		if len(before) > 1 && len(before) < maxMidColonLabel {
			return true, before
		}
	}

	// Isolated short lines at the end of the document or followed by a
	// very short line, or short lines starting with an uppercase letter.
	// Blank lines never reach the classifier.
	if len(line) > minLabelLineLength && len(line) < maxIsolatedLineLen {
		next := ""
		if index < len(lines)-1 {
			next = lines[index+1]
		}
		if next == "" || len(next) < 3 ||
			(len(line) < maxShortLabelLen && startsUpper(line)) {
			return clean != "", clean
		}
	}

	// Lines containing a known form keyword in any supported language.
	if len(line) < maxKeywordLineLen {
		lower := strings.ToLower(line)
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return clean != "", clean
			}
		}
	}

	// Labels phrased as questions or prompts.
	if c.promptWord.MatchString(clean) {
		return clean != "", clean
	}

	return false, ""
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
