package session

import (
	"strings"
	"sync"
	"time"

	"github.com/medpull/medpull/internal/extract"
)

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a session's chat transcript.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session owns all mutable state for one form-filling conversation: the
// recovered source text, an optional translated copy, the current field
// set, the value bindings and the chat transcript. Extraction itself is
// pure; this is the one place state lives.
type Session struct {
	ID string

	mu             sync.Mutex
	sourceText     string
	translatedText string
	language       string
	result         extract.ExtractionResult
	values         map[string]string
	messages       []Message
	createdAt      time.Time
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{
		ID:        id,
		values:    make(map[string]string),
		createdAt: time.Now(),
	}
}

// SetSource replaces the recovered document text. Any previous translation
// no longer describes the new text and is dropped.
func (s *Session) SetSource(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceText = text
	s.translatedText = ""
	s.language = ""
}

// SetTranslation stores a translated copy of the source text and the
// language it was translated into.
func (s *Session) SetTranslation(text, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translatedText = text
	s.language = language
}

// SourceText returns the untranslated document text.
func (s *Session) SourceText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceText
}

// ActiveText returns the text extraction should run against: the
// translation when one exists, otherwise the source.
func (s *Session) ActiveText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.translatedText != "" {
		return s.translatedText
	}
	return s.sourceText
}

// Language returns the target language of the current translation, empty
// when the session is untranslated.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetResult replaces the field set wholesale. Values are kept: they are
// bound by field key, so a field that survives re-extraction under the
// same canonical kind or label keeps what the user already entered.
func (s *Session) SetResult(r extract.ExtractionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

// Result returns the current field set.
func (s *Session) Result() extract.ExtractionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetValue binds a value to a field key. It reports false when no current
// field carries the key.
func (s *Session) SetValue(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.result.FieldByKey(key); !ok {
		return false
	}
	s.values[key] = value
	return true
}

// Value returns the value bound to a field key.
func (s *Session) Value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// ValuesSnapshot returns a copy of the current bindings.
func (s *Session) ValuesSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// StoreValues replaces the bindings with an updated snapshot.
func (s *Session) StoreValues(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
}

// ClearValues wipes every binding but keeps the field set.
func (s *Session) ClearValues() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
}

// AddMessage appends a chat message to the transcript.
func (s *Session) AddMessage(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: role, Text: text, At: time.Now()})
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// UserTranscript joins the user messages with newlines in order, the text
// the value extractor reads.
func (s *Session) UserTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parts []string
	for _, m := range s.messages {
		if m.Role == RoleUser {
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, "\n")
}
