package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KindRule maps a label pattern to a canonical kind. Rules are evaluated
// in order against the lower-cased label; first match wins.
type KindRule struct {
	Kind    CanonicalKind `yaml:"kind"`
	Pattern string        `yaml:"pattern"`
}

// defaultKindRules returns the ordered kind resolution table. Each rule
// covers English plus Spanish/French synonyms where the languages differ.
// Order matters: more specific kinds (date of birth, phone) are tested
// before the broad name-family rules.
func defaultKindRules() []KindRule {
	return []KindRule{
		{KindDateOfBirth, `(?:date\s*of\s*birth|dob|birth\s*date|fecha\s*de\s*nacimiento|date\s*de\s*naissance)`},
		{KindPhone, `(?:phone|telephone|teléfono|téléphone|mobile|cell)(?:\s*number)?`},
		{KindEmail, `email|e-mail|correo|courriel`},
		{KindSSN, `(?:ssn|social\s*security)`},
		{KindName, `(?:full\s*)?name|nombre|nom`},
		{KindFirstName, `(?:first\s*)?name|primer\s*nombre|prénom`},
		{KindLastName, `(?:last\s*)?name|surname|apellido`},
		{KindAddress, `address|dirección|direccion|adresse`},
		{KindCity, `city|ciudad|ville`},
		{KindState, `state|estado`},
		{KindZip, `zip|postal`},
	}
}

// defaultNoisePatterns match lines that are clearly not field labels:
// page numbers, bare form codes, copyright notices.
func defaultNoisePatterns() []string {
	return []string{
		`^(?:page|página|trang)\s*\d+`,
		`^\d+\s*of\s*\d+`,
		`^form\s*[a-z0-9-]+$`,
		`^©|copyright|all rights reserved`,
	}
}

// defaultFormKeywords is the multilingual keyword set for the
// label-by-keyword classifier rule. Each concept carries at least an
// English and a Spanish synonym.
func defaultFormKeywords() []string {
	return []string{
		"name", "nombre", "address", "dirección", "phone", "teléfono",
		"email", "correo", "date", "fecha", "birth", "nacimiento",
		"age", "edad", "gender", "género", "insurance", "seguro",
		"medical", "médico", "history", "historial", "allergy", "alergia",
		"medication", "medicamento", "symptom", "síntoma", "reason",
		"razón", "visit", "visita", "city", "ciudad", "state", "estado",
		"zip", "postal", "code", "código",
	}
}

// promptWordPattern matches labels that open with an interrogative or
// imperative word.
const promptWordPattern = `^(?i:what|where|when|who|how|please|enter|provide|list|describe|indicate|specify)\b`

// RuleFile is the on-disk shape of additive classification rules. New
// languages and keywords are loaded on top of the built-in tables, so the
// defaults never need editing.
type RuleFile struct {
	Version  int        `yaml:"version"`
	Keywords []string   `yaml:"keywords,omitempty"`
	Kinds    []KindRule `yaml:"kinds,omitempty"`
}

// LoadRuleFile reads an additive rule file from disk.
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	for _, r := range rf.Kinds {
		if !r.Kind.IsValid() {
			return nil, fmt.Errorf("unknown canonical kind %q in rules file", r.Kind)
		}
	}

	return &rf, nil
}
