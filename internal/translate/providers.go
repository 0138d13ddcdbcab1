package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"
)

// maxRequestLength is the hard per-request cap the free services enforce.
const maxRequestLength = 400

// Provider translates one chunk of text between two languages.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// LibreTranslate is the primary provider, a JSON POST API.
type LibreTranslate struct {
	endpoint string
	client   *http.Client
}

// NewLibreTranslate creates a provider against the given endpoint; an
// empty endpoint selects the public instance.
func NewLibreTranslate(endpoint string, client *http.Client) *LibreTranslate {
	if endpoint == "" {
		endpoint = "https://libretranslate.de/translate"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &LibreTranslate{endpoint: endpoint, client: client}
}

func (p *LibreTranslate) Name() string { return "libretranslate" }

func (p *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"q":      truncate(text, maxRequestLength),
		"source": source,
		"target": target,
		"format": "text",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	var body struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.TranslatedText == "" {
		return text, nil
	}
	return body.TranslatedText, nil
}

// MyMemory is the secondary provider, a GET API with a langpair query.
type MyMemory struct {
	endpoint string
	client   *http.Client
}

// NewMyMemory creates a provider against the given endpoint; an empty
// endpoint selects the public instance.
func NewMyMemory(endpoint string, client *http.Client) *MyMemory {
	if endpoint == "" {
		endpoint = "https://api.mymemory.translated.net/get"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &MyMemory{endpoint: endpoint, client: client}
}

func (p *MyMemory) Name() string { return "mymemory" }

func (p *MyMemory) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("q", truncate(text, maxRequestLength))
	q.Set("langpair", source+"|"+target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service returned status %d", resp.StatusCode)
	}

	var body struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if body.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("translation response carried no text")
	}
	return body.ResponseData.TranslatedText, nil
}

// truncate caps s at n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
