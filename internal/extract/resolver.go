package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// KindResolver maps a raw label to its canonical kind by testing the
// ordered rule table against the lower-cased label. Resolution is pure:
// the same label always resolves to the same kind, regardless of which
// tier or strategy produced it.
type KindResolver struct {
	rules []compiledKindRule
}

type compiledKindRule struct {
	kind    CanonicalKind
	pattern *regexp.Regexp
}

// NewKindResolver creates a resolver with the built-in rule table.
func NewKindResolver() *KindResolver {
	r := &KindResolver{}
	for _, rule := range defaultKindRules() {
		r.rules = append(r.rules, compiledKindRule{
			kind:    rule.Kind,
			pattern: regexp.MustCompile(rule.Pattern),
		})
	}
	return r
}

// AddRules appends custom rules after the built-in table. Later rules only
// see labels the built-in table left generic.
func (r *KindResolver) AddRules(rules []KindRule) error {
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid kind rule %q: %w", rule.Pattern, err)
		}
		r.rules = append(r.rules, compiledKindRule{kind: rule.Kind, pattern: re})
	}
	return nil
}

// Resolve returns the canonical kind for a label. Labels no rule matches
// are generic.
func (r *KindResolver) Resolve(label string) CanonicalKind {
	lower := strings.ToLower(label)
	for _, rule := range r.rules {
		if rule.pattern.MatchString(lower) {
			return rule.kind
		}
	}
	return KindGeneric
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeLabelKey derives a stable binding key from a generic field's
// label: lower-cased, runs of non-alphanumerics collapsed to underscores,
// trimmed and truncated. Labels that normalize to nothing fall back to a
// positional key.
func NormalizeLabelKey(label string, index int) string {
	key := strings.ToLower(label)
	key = nonKeyChars.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")
	if len(key) > 40 {
		key = key[:40]
		key = strings.Trim(key, "_")
	}
	if key == "" {
		return fmt.Sprintf("field_%d", index)
	}
	return key
}
