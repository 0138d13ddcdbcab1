package extract

// CanonicalKind is the normalized semantic category a field label resolves
// to. It is the key used to correlate fields across languages and
// re-extraction passes: a field detected as "Date of Birth" before
// translation and "Fecha de nacimiento" after both resolve to KindDateOfBirth.
type CanonicalKind string

const (
	KindName        CanonicalKind = "name"
	KindFirstName   CanonicalKind = "firstname"
	KindLastName    CanonicalKind = "lastname"
	KindAddress     CanonicalKind = "address"
	KindCity        CanonicalKind = "city"
	KindState       CanonicalKind = "state"
	KindZip         CanonicalKind = "zip"
	KindDateOfBirth CanonicalKind = "dob"
	KindPhone       CanonicalKind = "phone"
	KindEmail       CanonicalKind = "email"
	KindSSN         CanonicalKind = "ssn"
	KindGeneric     CanonicalKind = "generic"
)

// InputKind is a presentation hint for the renderer, derived from the
// canonical kind.
type InputKind string

const (
	InputText  InputKind = "text"
	InputDate  InputKind = "date"
	InputEmail InputKind = "email"
	InputTel   InputKind = "tel"
)

// InputKind returns the presentation hint for a canonical kind.
func (k CanonicalKind) InputKind() InputKind {
	switch k {
	case KindDateOfBirth:
		return InputDate
	case KindEmail:
		return InputEmail
	case KindPhone:
		return InputTel
	default:
		return InputText
	}
}

// IsValid checks if the canonical kind is one of the fixed enumeration.
func (k CanonicalKind) IsValid() bool {
	switch k {
	case KindName, KindFirstName, KindLastName, KindAddress, KindCity,
		KindState, KindZip, KindDateOfBirth, KindPhone, KindEmail,
		KindSSN, KindGeneric:
		return true
	default:
		return false
	}
}

// ExtractionTier identifies which heuristic strategy produced a result.
type ExtractionTier string

const (
	TierNone       ExtractionTier = "none"
	TierPrimary    ExtractionTier = "primary"
	TierPermissive ExtractionTier = "permissive"
	TierLastResort ExtractionTier = "last_resort"
	TierAssisted   ExtractionTier = "assisted"
)

// DetectedField represents one form field located in recovered document text.
type DetectedField struct {
	// SequenceID is the order of discovery within a run, assigned after
	// sorting by source line. Stable only within one extraction pass.
	SequenceID int `json:"sequence_id"`

	// Kind is the canonical semantic category. Resolved once, immutable
	// after resolution.
	Kind CanonicalKind `json:"kind"`

	// Key is the binding key for values: the kind identifier, or for
	// generic fields a normalized identifier derived from the label.
	Key string `json:"key"`

	// RawLabel is the original line the label came from, kept verbatim
	// for context display.
	RawLabel string `json:"raw_label"`

	// DisplayLabel is the cleaned label with trailing colon, question
	// mark or dash stripped. Never empty for a surfaced field.
	DisplayLabel string `json:"display_label"`

	// InputKind is the presentation hint derived from Kind.
	InputKind InputKind `json:"input_kind"`

	// SourceLine is the 1-based line index in the originating text.
	SourceLine int `json:"source_line"`

	// Context is a short window of surrounding lines.
	Context string `json:"context"`
}

// ExtractionResult is an ordered set of detected fields, sorted ascending
// by source line. It is created fresh on every extraction pass and replaced
// wholesale, never patched.
type ExtractionResult struct {
	Fields       []DetectedField `json:"fields"`
	Tier         ExtractionTier  `json:"tier"`
	SourceLength int             `json:"source_length"`
}

// Empty reports whether the pass yielded no fields.
func (r ExtractionResult) Empty() bool {
	return len(r.Fields) == 0
}

// FieldByKey returns the field bound to the given key, if any.
func (r ExtractionResult) FieldByKey(key string) (DetectedField, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return DetectedField{}, false
}
