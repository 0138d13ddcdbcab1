package autofill

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/medpull/medpull/internal/extract"
)

var (
	wordSplitPattern   = regexp.MustCompile(`[,\s]+`)
	phoneGroupsPattern = regexp.MustCompile(`\(?(\d{3})\)?[\s.\-]*(\d{3})[\s.\-]*(\d{4})`)
	usDatePattern      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

// FormatValue applies the presentation rule for a kind to a freshly
// extracted value. It is never applied to values the user already typed.
func FormatValue(kind extract.CanonicalKind, value string) string {
	switch kind {
	case extract.KindPhone:
		return FormatPhone(value)
	case extract.KindDateOfBirth:
		return NormalizeDate(value)
	case extract.KindName, extract.KindFirstName, extract.KindLastName:
		return TitleCase(value)
	default:
		return strings.TrimSpace(value)
	}
}

// TitleCase capitalizes each word of a name.
func TitleCase(s string) string {
	words := wordSplitPattern.Split(strings.TrimSpace(s), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		for i := 1; i < len(r); i++ {
			r[i] = unicode.ToLower(r[i])
		}
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

// FormatPhone renders a 3-3-4 digit grouping as (XXX) XXX-XXXX. Values
// without that shape pass through unchanged.
func FormatPhone(s string) string {
	m := phoneGroupsPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return "(" + m[1] + ") " + m[2] + "-" + m[3]
}

// NormalizeDate converts M/D/YYYY or M-D-YYYY to YYYY-MM-DD with
// zero-padded month and day. Other shapes pass through with slashes
// normalized to dashes.
func NormalizeDate(s string) string {
	d := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	m := usDatePattern.FindStringSubmatch(d)
	if m == nil {
		return d
	}
	return m[3] + "-" + pad2(m[1]) + "-" + pad2(m[2])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
