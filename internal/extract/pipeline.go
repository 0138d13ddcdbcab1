package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const lastResortFieldCap = 30

// valueShapePattern matches lines made of plain text and common value
// punctuation, the shape of a bare answer rather than a label.
var valueShapePattern = regexp.MustCompile(`(?i)^[a-z0-9\s@().,\-]+$`)

// Pipeline turns recovered document text into an ExtractionResult. It runs
// up to three passes of decreasing strictness and returns the first pass
// that yields fields. The pipeline never fails: malformed or empty text
// produces an empty result.
type Pipeline struct {
	classifier *LineClassifier
	resolver   *KindResolver
}

// NewPipeline creates a pipeline with the given classifier and resolver.
func NewPipeline(classifier *LineClassifier, resolver *KindResolver) *Pipeline {
	return &Pipeline{classifier: classifier, resolver: resolver}
}

type candidate struct {
	label   string
	raw     string
	line    int // 1-based
	context string
}

// Extract runs the tiered detection passes over the text.
func (p *Pipeline) Extract(text string) ExtractionResult {
	lines := splitLines(text)

	cands := dedupe(p.primaryPass(lines))
	tier := TierPrimary

	if len(cands) == 0 {
		cands = dedupe(p.permissivePass(lines))
		tier = TierPermissive
	}

	if len(cands) == 0 {
		cands = dedupe(p.lastResortPass(lines))
		tier = TierLastResort
		if len(cands) > lastResortFieldCap {
			// Too many hits means the text has no label structure at
			// all; surfacing dozens of junk fields helps nobody.
			return ExtractionResult{Tier: TierNone, SourceLength: len(text)}
		}
	}

	if len(cands) == 0 {
		return ExtractionResult{Tier: TierNone, SourceLength: len(text)}
	}

	return p.assemble(cands, tier, len(text))
}

// splitLines trims and drops blank lines. Classification and line
// numbering operate on the non-empty lines only.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// primaryPass applies the full classifier rule set per line.
func (p *Pipeline) primaryPass(lines []string) []candidate {
	var cands []candidate
	for i, line := range lines {
		ok, label := p.classifier.Classify(line, i, lines)
		if !ok {
			continue
		}
		cands = append(cands, candidate{
			label:   label,
			raw:     line,
			line:    i + 1,
			context: contextWindow(lines, i),
		})
	}
	return cands
}

// permissivePass accepts any colon-separated label plus bare capitalized
// single tokens.
func (p *Pipeline) permissivePass(lines []string) []candidate {
	var cands []candidate
	for i, line := range lines {
		var label string
		if idx := strings.Index(line, ":"); idx >= 0 {
			before := strings.TrimSpace(line[:idx])
			if len(before) > 0 && len(before) < 80 {
				label = before
			}
		} else if !strings.Contains(line, " ") &&
			len(line) > 2 && len(line) < 50 && startsUpper(line) {
			label = strings.TrimSpace(cleanLabelPattern.ReplaceAllString(line, ""))
		}
		if label == "" {
			continue
		}
		cands = append(cands, candidate{
			label:   label,
			raw:     line,
			line:    i + 1,
			context: line,
		})
	}
	return cands
}

// lastResortPass treats any short line as a field unless it is shaped
// like a bare value. Capitalized and colon-bearing lines are always
// plausible labels.
func (p *Pipeline) lastResortPass(lines []string) []candidate {
	var cands []candidate
	for i, line := range lines {
		if len(line) < 3 || len(line) > 60 {
			continue
		}
		if !startsUpper(line) && !strings.Contains(line, ":") &&
			valueShapePattern.MatchString(line) {
			continue
		}
		label := strings.TrimSpace(cleanLabelPattern.ReplaceAllString(line, ""))
		if label == "" {
			continue
		}
		cands = append(cands, candidate{
			label:   label,
			raw:     line,
			line:    i + 1,
			context: line,
		})
	}
	return cands
}

// dedupe collapses candidates sharing a lower-cased label; the first
// occurrence wins.
func dedupe(cands []candidate) []candidate {
	seen := make(map[string]bool, len(cands))
	out := cands[:0]
	for _, c := range cands {
		lower := strings.ToLower(c.label)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, c)
	}
	return out
}

// assemble orders deduplicated candidates by position in the text and
// assigns identities.
func (p *Pipeline) assemble(cands []candidate, tier ExtractionTier, srcLen int) ExtractionResult {
	deduped := cands
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].line < deduped[j].line
	})

	usedKeys := make(map[string]int, len(deduped))
	fields := make([]DetectedField, 0, len(deduped))
	for i, c := range deduped {
		kind := p.resolver.Resolve(c.label)
		key := string(kind)
		if kind == KindGeneric {
			key = NormalizeLabelKey(c.label, i+1)
		}
		if n := usedKeys[key]; n > 0 {
			usedKeys[key] = n + 1
			key = fmt.Sprintf("%s_%d", key, n+1)
		} else {
			usedKeys[key] = 1
		}
		fields = append(fields, DetectedField{
			SequenceID:   i + 1,
			Kind:         kind,
			Key:          key,
			RawLabel:     c.raw,
			DisplayLabel: c.label,
			InputKind:    kind.InputKind(),
			SourceLine:   c.line,
			Context:      c.context,
		})
	}

	return ExtractionResult{Fields: fields, Tier: tier, SourceLength: srcLen}
}

// contextWindow joins the line with one line before and two after.
func contextWindow(lines []string, index int) string {
	start := index - 1
	if start < 0 {
		start = 0
	}
	end := index + 3
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], " ")
}
