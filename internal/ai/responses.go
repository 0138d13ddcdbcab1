package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medpull/medpull/internal/extract"
)

// responseSet is one language's canned assistant replies, used whenever
// the chat collaborator is unavailable.
type responseSet struct {
	welcome           string
	formAbout         string
	needForm          string
	foundField        string
	foundSections     string
	nameHelp          string
	addressHelp       string
	dobHelp           string
	phoneHelp         string
	ssnHelp           string
	generalHelp       string
	contextLabel      string
	fieldRequiresInfo string
	detectedFields    string
	contentHelp       string
}

var cannedResponses = map[string]responseSet{
	"en": {
		welcome:           "Hi! Upload a form and I'll help you understand and fill it out. Ask me anything!",
		formAbout:         "This form appears to be about: %s... I can help you understand any specific section.",
		needForm:          "I need to analyze the form first. Please upload it and I'll tell you what it's about.",
		foundField:        "I found %q in the form. %s",
		foundSections:     "I found these sections in the form: %s. Which one would you like help with?",
		nameHelp:          "Enter your full legal name exactly as it appears on your government-issued ID.",
		addressHelp:       "Provide your current residential address including street number, street name, city, state, and ZIP code.",
		dobHelp:           "Enter your date of birth in the format requested (usually MM/DD/YYYY or YYYY-MM-DD).",
		phoneHelp:         "Provide a phone number where you can be reached. Include area code.",
		ssnHelp:           "SSN is often optional. If required, enter in format XXX-XX-XXXX.",
		generalHelp:       "I'm here to help! You can ask me about any section of the form, what specific fields mean, or how to fill them out. What would you like to know?",
		contextLabel:      "Context:",
		fieldRequiresInfo: "This field requires your input.",
		detectedFields:    "I detected %d fields. ",
		contentHelp:       "Based on the form content, I can see it asks for various information. %sWhat specific part would you like help with?",
	},
	"es": {
		welcome:           "¡Hola! Sube un formulario y te ayudaré a entenderlo y completarlo. ¡Pregúntame lo que quieras!",
		formAbout:         "Este formulario parece ser sobre: %s... Puedo ayudarte a entender cualquier sección específica.",
		needForm:          "Necesito analizar el formulario primero. Por favor, súbelo y te diré de qué se trata.",
		foundField:        "Encontré %q en el formulario. %s",
		foundSections:     "Encontré estas secciones en el formulario: %s. ¿Con cuál te gustaría ayuda?",
		nameHelp:          "Ingresa tu nombre legal completo exactamente como aparece en tu identificación oficial.",
		addressHelp:       "Proporciona tu dirección residencial actual incluyendo número de calle, nombre de calle, ciudad, estado y código postal.",
		dobHelp:           "Ingresa tu fecha de nacimiento en el formato solicitado (generalmente MM/DD/YYYY o YYYY-MM-DD).",
		phoneHelp:         "Proporciona un número de teléfono donde puedas ser contactado. Incluye el código de área.",
		ssnHelp:           "El SSN a menudo es opcional. Si es requerido, ingrésalo en formato XXX-XX-XXXX.",
		generalHelp:       "¡Estoy aquí para ayudar! Puedes preguntarme sobre cualquier sección del formulario, qué significan campos específicos o cómo completarlos. ¿Qué te gustaría saber?",
		contextLabel:      "Contexto:",
		fieldRequiresInfo: "Este campo requiere tu información.",
		detectedFields:    "Detecté %d campos. ",
		contentHelp:       "Basándome en el contenido del formulario, puedo ver que solicita información variada. %s¿En qué parte específica te gustaría ayuda?",
	},
	"fr": {
		welcome:           "Bonjour ! Téléchargez un formulaire et je vous aiderai à le comprendre et à le remplir. Demandez-moi n'importe quoi !",
		formAbout:         "Ce formulaire semble concerner : %s... Je peux vous aider à comprendre n'importe quelle section spécifique.",
		needForm:          "J'ai besoin d'analyser le formulaire d'abord. Veuillez le télécharger et je vous dirai de quoi il s'agit.",
		foundField:        "J'ai trouvé %q dans le formulaire. %s",
		foundSections:     "J'ai trouvé ces sections dans le formulaire : %s. Avec laquelle aimeriez-vous de l'aide ?",
		nameHelp:          "Entrez votre nom complet légal exactement tel qu'il apparaît sur votre pièce d'identité délivrée par le gouvernement.",
		addressHelp:       "Fournissez votre adresse résidentielle actuelle incluant le numéro de rue, le nom de la rue, la ville, l'état et le code postal.",
		dobHelp:           "Entrez votre date de naissance au format demandé (généralement MM/JJ/AAAA ou AAAA-MM-JJ).",
		phoneHelp:         "Fournissez un numéro de téléphone où vous pouvez être joint. Incluez l'indicatif régional.",
		ssnHelp:           "Le SSN est souvent optionnel. Si requis, entrez-le au format XXX-XX-XXXX.",
		generalHelp:       "Je suis là pour aider ! Vous pouvez me demander n'importe quelle section du formulaire, ce que signifient des champs spécifiques ou comment les remplir. Que souhaitez-vous savoir ?",
		contextLabel:      "Contexte :",
		fieldRequiresInfo: "Ce champ nécessite vos informations.",
		detectedFields:    "J'ai détecté %d champs. ",
		contentHelp:       "Basé sur le contenu du formulaire, je peux voir qu'il demande diverses informations. %sDans quelle partie spécifique aimeriez-vous de l'aide ?",
	},
}

var sectionPattern = regexp.MustCompile(`(?i)(?:section|sección)\s*[0-9]+[^\n]*`)

var helpKeywords = []string{
	"required", "optional", "please", "provide", "enter",
	"requerido", "opcional", "por favor",
}

// responsesFor picks the canned table for a language, defaulting to
// English.
func responsesFor(lang string) responseSet {
	if r, ok := cannedResponses[lang]; ok {
		return r
	}
	return cannedResponses["en"]
}

// Welcome returns the greeting for a language.
func Welcome(lang string) string {
	return responsesFor(lang).welcome
}

// FallbackReply answers a user question from the canned tables and the
// actual form content, used when the chat collaborator is down or not
// configured.
func FallbackReply(question, formContent string, fields []extract.DetectedField, lang string) string {
	q := strings.ToLower(question)
	content := strings.ToLower(formContent)
	r := responsesFor(lang)

	// What is this form about?
	if strings.Contains(q, "what") && (strings.Contains(q, "form") || strings.Contains(q, "this")) {
		if formContent != "" {
			lines := strings.Split(formContent, "\n")
			if len(lines) > 5 {
				lines = lines[:5]
			}
			summary := strings.Join(lines, " ")
			if len(summary) > 200 {
				summary = summary[:200]
			}
			return fmt.Sprintf(r.formAbout, summary)
		}
		return r.needForm
	}

	// A question about one specific field.
	if f, ok := matchField(q, fields); ok {
		context := r.fieldRequiresInfo
		if f.Context != "" {
			c := f.Context
			if len(c) > 150 {
				c = c[:150]
			}
			context = r.contextLabel + " " + c
		}
		return fmt.Sprintf(r.foundField, f.DisplayLabel, context)
	}

	// Section inventory.
	if strings.Contains(q, "section") || strings.Contains(q, "sección") {
		if sections := sectionPattern.FindAllString(formContent, 3); len(sections) > 0 {
			return fmt.Sprintf(r.foundSections, strings.Join(sections, ", "))
		}
	}

	if containsAny(q, "name", "nombre", "nom") &&
		(containsAny(content, "name", "nombre", "nom") || hasKind(fields, extract.KindName)) {
		return r.nameHelp
	}
	if containsAny(q, "address", "dirección", "direccion", "adresse") &&
		(containsAny(content, "address", "dirección", "adresse") || hasKind(fields, extract.KindAddress)) {
		return r.addressHelp
	}
	if containsAny(q, "birth", "dob", "date", "nacimiento", "naissance") &&
		containsAny(content, "birth", "dob", "date", "nacimiento", "naissance") {
		return r.dobHelp
	}
	if containsAny(q, "phone", "teléfono", "telefono", "téléphone") &&
		containsAny(content, "phone", "telephone", "teléfono", "téléphone") {
		return r.phoneHelp
	}
	if containsAny(q, "ssn", "social security", "seguro social") {
		return r.ssnHelp
	}

	// Forms that read like instructions get a content-aware nudge.
	if formContent != "" && containsAny(content, helpKeywords...) {
		fieldCount := ""
		if len(fields) > 0 {
			fieldCount = fmt.Sprintf(r.detectedFields, len(fields))
		}
		return fmt.Sprintf(r.contentHelp, fieldCount)
	}

	return r.generalHelp
}

// matchField finds a field the question plausibly refers to: its label
// contains a significant question word, or the question quotes the start
// of its label.
func matchField(q string, fields []extract.DetectedField) (extract.DetectedField, bool) {
	var word string
	for _, w := range strings.Fields(q) {
		if len(w) > 3 {
			word = w
			break
		}
	}
	for _, f := range fields {
		label := strings.ToLower(f.DisplayLabel)
		if word != "" && strings.Contains(label, word) {
			return f, true
		}
		prefix := label
		if len(prefix) > 10 {
			prefix = prefix[:10]
		}
		if strings.Contains(q, prefix) {
			return f, true
		}
	}
	return extract.DetectedField{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasKind(fields []extract.DetectedField, kind extract.CanonicalKind) bool {
	for _, f := range fields {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
