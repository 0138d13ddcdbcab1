package autofill

import (
	"regexp"
	"strings"

	"github.com/medpull/medpull/internal/extract"
)

// letterClass covers Latin letters plus the accented characters common in
// Spanish and French input.
const letterClass = `a-záéíóúñüàâçèêëîïôûœ`

// fillerPattern skips the copula or possessive between a label word and
// the value, as in "name is john smith" or "mi nombre es maría".
const fillerPattern = `(?:(?:is|es|my|mi)\s+)*`

// nameRunPattern captures a multi-word name, stopping at a comma, period,
// newline, identifier token, or the end of the text.
const nameRunPattern = `([` + letterClass + `\s'\-]+?)(?:\s+(?:sid|id)\b|[,.\n]|$)`

// kindExtractors are the fixed fallback tables per canonical kind, tried
// in order against the joined user transcript. The phone patterns capture
// the three digit groups separately so they can be reassembled in the
// canonical presentation.
var kindExtractors = map[extract.CanonicalKind][]*regexp.Regexp{
	extract.KindName: {
		regexp.MustCompile(`(?i)(?:my name is|name is|i'm|i am|me llamo|mi nombre es|nombre|name)\s+` + fillerPattern + nameRunPattern),
		regexp.MustCompile(`(?i)(?:^|\s)(?:nombre|name)[:\s]*` + fillerPattern + nameRunPattern),
		regexp.MustCompile(`(?i)(?:^|\s)([` + letterClass + `]+(?:\s+[` + letterClass + `]+)*)(?:\s+(?:is|es|my|mi))?$`),
	},
	extract.KindDateOfBirth: {
		regexp.MustCompile(`(?i)(?:dob|date of birth|born|nacimiento|fecha de nacimiento)[:\s\-]*(\d{4}[\-/]\d{1,2}[\-/]\d{1,2})`),
		regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(\d{4}-\d{1,2}-\d{1,2})`),
	},
	extract.KindAddress: {
		regexp.MustCompile(`(?i)(?:address|dirección|direccion|adresse)[:\s\-]*([^\n,]+(?:street|st|avenue|ave|road|rd|drive|dr|boulevard|blvd|rue)[^\n,]*)`),
		regexp.MustCompile(`(?i)(?:address|dirección|direccion|adresse)[:\s\-]*([a-z0-9\s,#.\-]+)`),
	},
	extract.KindPhone: {
		regexp.MustCompile(`(?i)(?:phone|teléfono|telefono|téléphone)[:\s\-]*\(?(\d{3})\)?\s*-?\s*(\d{3})\s*-?\s*(\d{4})`),
		regexp.MustCompile(`\(?(\d{3})\)?\s*-?\s*(\d{3})\s*-?\s*(\d{4})`),
	},
	extract.KindEmail: {
		regexp.MustCompile(`(?i)(?:email|e-mail|correo)[:\s\-]*([a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,})`),
		regexp.MustCompile(`(?i)([a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,})`),
	},
	extract.KindSSN: {
		regexp.MustCompile(`(?i)(?:ssn|social security|sid|id)[:\s\-]*([a-z0-9\-]+)`),
	},
	extract.KindCity: {
		regexp.MustCompile(`(?i)(?:city|ciudad|ville)[:\s\-]*([a-z\s]+)`),
	},
	extract.KindState: {
		regexp.MustCompile(`(?i)(?:state|estado)[:\s\-]*([a-z\s]+)`),
	},
	extract.KindZip: {
		regexp.MustCompile(`(?i)(?:zip|zip code|postal code)[:\s\-]*(\d{5}(?:-\d{4})?)`),
	},
}

// labelValuePatterns builds the per-field label patterns from a display
// label: a name run for labels in the name family, the first significant
// word followed by a value, the same with an explicit separator, and any
// of the first three significant words before a word run.
func labelValuePatterns(label string) []*regexp.Regexp {
	lower := strings.ToLower(strings.TrimSpace(label))
	words := strings.Fields(lower)

	var significant []string
	for _, w := range words {
		if len(w) > 2 {
			significant = append(significant, w)
		}
	}

	first := ""
	if len(significant) > 0 {
		first = significant[0]
	} else if len(words) > 0 {
		first = words[0]
	}
	if first == "" {
		return nil
	}
	fq := regexp.QuoteMeta(first)

	var raw []string

	// Name-family labels get the multi-word name run first, so a phrase
	// like "my name is john smith" yields the whole name rather than a
	// fragment of it.
	if strings.Contains(lower, "nombre") || strings.Contains(lower, "name") {
		raw = append(raw, `(?i)(?:^|\s)(?:nombre|name)\s+`+fillerPattern+nameRunPattern)
	}

	valueRun := `([` + letterClass + `0-9/\s,.'\-]+?)`
	raw = append(raw,
		`(?i)(?:^|\s)`+fq+`\s+`+fillerPattern+valueRun+`(?:[\s,.\n]|$|sid|id)`,
		`(?i)`+fq+`[:\s]+`+fillerPattern+valueRun+`(?:[\s,.\n]|$)`,
	)

	if len(significant) > 0 {
		alts := significant
		if len(alts) > 3 {
			alts = alts[:3]
		}
		quoted := make([]string, len(alts))
		for i, w := range alts {
			quoted[i] = regexp.QuoteMeta(w)
		}
		raw = append(raw, `(?i)(?:^|\s)(?:`+strings.Join(quoted, "|")+`)\s+`+fillerPattern+`([`+letterClass+`0-9/]+(?:\s+[`+letterClass+`0-9/]+)*)`)
	}

	patterns := make([]*regexp.Regexp, 0, len(raw))
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
	return patterns
}
