package menuparse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/httpclient"
	"github.com/cesargomez89/menusync/internal/logger"
)

var (
	ErrNotConfigured = errors.New("structurer is not configured")
	ErrEmptyResponse = errors.New("empty completion")
	ErrInvalidJSON   = errors.New("completion did not contain JSON")
)

const maxCompletionBytes = 4 << 20

const promptTemplate = `You are a data extraction assistant. Extract the menu items from the following raw text of a restaurant menu PDF.
The text might be messy, with headers and prices scattered.

Identify sections (e.g., Entree, Mains, Breads, Drinks, Lunch Special, etc.).
For each item, extract:
- Name (clean up the name, remove price or weird characters)
- Price (as a number)
- Description: if a description is present in the text, use it. If not, write an appetizing description of about 20-30 words naming the main ingredients, the cooking style and the key spices or flavors.

Boxed "Combo Special" or "Chef's Special" items may appear at the end of the text or isolated. Put them in the section they clearly belong to, otherwise group them into a single "Specials" or "Combos" section rather than creating a tiny section for each one. Use your knowledge of Indian cuisine to categorize items when headers are ambiguous.

Return ONLY a valid JSON object with a "sections" key:
{"sections": [{"title": "Section Name", "items": [{"name": "Dish Name", "price": 10.50, "description": "Optional description"}]}]}

Raw Text:
%s`

type LLMConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	MaxInputChars int
}

// LLMStructurer calls an OpenAI compatible chat completions endpoint.
type LLMStructurer struct {
	client *httpclient.Client
	cfg    LLMConfig
	policy *bluemonday.Policy
	logger *logger.Logger
}

func NewLLMStructurer(client *httpclient.Client, cfg LLMConfig, log *logger.Logger) *LLMStructurer {
	if client == nil {
		client = httpclient.NewClient(nil, constants.LLMMinInterval)
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultOpenAIModel
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = constants.MaxLLMInputChars
	}
	return &LLMStructurer{
		client: client,
		cfg:    cfg,
		policy: bluemonday.StrictPolicy(),
		logger: log.WithComponent("llm"),
	}
}

func (s *LLMStructurer) Enabled() bool {
	return s != nil && s.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *LLMStructurer) Structure(ctx context.Context, text string) ([]RawSection, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}

	payload := chatRequest{
		Model:          s.cfg.Model,
		Messages:       []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, Truncate(text, s.cfg.MaxInputChars))}},
		Temperature:    s.cfg.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCompletionBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read completion: %w", err)
	}

	var cr chatResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(raw, &cr) == nil && cr.Error != nil {
			return nil, fmt.Errorf("%w: %s", httpclient.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}, cr.Error.Message)
		}
		return nil, httpclient.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode completion: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	sections, err := decodeSections(cr.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	sections = s.sanitize(sections)
	if CountItems(sections) == 0 {
		return nil, ErrNoSections
	}

	s.logger.Debug("Menu structured", "sections", len(sections), "items", CountItems(sections))
	return sections, nil
}

// decodeSections reads the "sections" array, or failing that the first
// array-valued property in key order.
func decodeSections(content string) ([]RawSection, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		var sections []RawSection
		if err := json.Unmarshal([]byte(trimmed), &sections); err == nil {
			return sections, nil
		}
	}

	jsonText := extractJSON(trimmed)
	if jsonText == "" {
		return nil, ErrInvalidJSON
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if raw, ok := obj["sections"]; ok {
		var sections []RawSection
		if err := json.Unmarshal(raw, &sections); err == nil {
			return sections, nil
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		raw := bytes.TrimSpace(obj[k])
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var sections []RawSection
		if err := json.Unmarshal(raw, &sections); err == nil {
			return sections, nil
		}
	}
	return nil, ErrNoSections
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}

func (s *LLMStructurer) sanitize(sections []RawSection) []RawSection {
	out := make([]RawSection, 0, len(sections))
	for _, sec := range sections {
		clean := RawSection{Title: s.clean(sec.Title)}
		if clean.Title == "" {
			clean.Title = "Menu"
		}
		for _, item := range sec.Items {
			name := s.clean(item.Name)
			if name == "" {
				continue
			}
			clean.Items = append(clean.Items, RawItem{
				Name:        name,
				Price:       item.Price,
				Description: s.clean(item.Description),
			})
		}
		if len(clean.Items) > 0 {
			out = append(out, clean)
		}
	}
	return out
}

func (s *LLMStructurer) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

// Truncate cuts text to at most n runes.
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
