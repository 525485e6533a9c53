// Package gemini implements the word generator adapter over Google's
// Generative Language REST API. The client asks for one practical English
// word with a Japanese translation and example sentence, constrained to a
// strict JSON shape via a response schema, and validates the returned
// payload before handing it to the caller.
//
// The exclusion list is a best-effort hint only: it is embedded into the
// prompt so the model avoids recent repeats, but nothing enforces
// non-repetition locally. History lives in the store, keeping this
// component stateless.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/asukai/go-word-backend/internal/domain"
)

// DefaultBaseURL is the production Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel matches the model the service was tuned against.
const DefaultModel = "gemini-2.5-pro-exp-03-25"

const basePrompt = `Generate an English word and its Japanese translation, along with an example sentence and its translation. Provide the output strictly in the following JSON format:
{
  "word": "string",
  "translate": "string",
  "example": "string",
  "exampleTranslate": "string"
}
Choose a word that is practical for everyday conversation or business situations. Ensure the example sentence clearly demonstrates the usage of the word.
example:
{
  "word": "negotiate",
  "translate": "交渉する",
  "example": "We need to negotiate the terms of the contract before signing.",
  "exampleTranslate": "署名する前に、契約条件を交渉する必要があります。"
}
`

// Client calls the generateContent endpoint for a configured model.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a generator client. Empty model/baseURL fall back to the
// package defaults.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Request/response wire types for the generateContent call. Only the fields
// this client reads or writes are modeled.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   *responseSchema `json:"responseSchema,omitempty"`
}

type responseSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type schemaProperty struct {
	Type string `json:"type"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// wordSchema constrains the model output to the four required string fields.
func wordSchema() *responseSchema {
	return &responseSchema{
		Type: "OBJECT",
		Properties: map[string]schemaProperty{
			"word":             {Type: "STRING"},
			"translate":        {Type: "STRING"},
			"example":          {Type: "STRING"},
			"exampleTranslate": {Type: "STRING"},
		},
		Required: []string{"word", "translate", "example", "exampleTranslate"},
	}
}

// moderateSafety blocks medium-and-above content across all four harm
// categories, mirroring the posture the prompt was written for.
func moderateSafety() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	out := make([]safetySetting, 0, len(categories))
	for _, c := range categories {
		out = append(out, safetySetting{Category: c, Threshold: "BLOCK_MEDIUM_AND_ABOVE"})
	}
	return out
}

// BuildPrompt returns the instruction text sent to the model. When
// excludeWords is non-empty an explicit negative constraint naming every
// excluded word is appended; when empty, the clause is omitted entirely.
func BuildPrompt(excludeWords []string) string {
	if len(excludeWords) == 0 {
		return basePrompt
	}
	return basePrompt + fmt.Sprintf("\n\nIMPORTANT: Do NOT generate any of the following words: %s.",
		strings.Join(excludeWords, ", "))
}

// Generate asks the model for one new word, excluding recently generated
// ones. Any transport error, non-2xx status, malformed payload, missing
// field, or non-string field is returned as an error; the caller treats all
// of these as a generation failure and aborts its run.
func (c *Client) Generate(ctx context.Context, excludeWords []string) (*domain.GeneratedWord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini client misconfigured: missing api key")
	}

	if n := len(excludeWords); n > 0 {
		log.Debug().Int("count", n).Msg("excluding recent words from generation")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: BuildPrompt(excludeWords)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   wordSchema(),
		},
		SafetySettings: moderateSafety(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	return parseWord(gr.Candidates[0].Content.Parts[0].Text)
}

// parseWord decodes the model's JSON text and enforces the schema strictly:
// every required field must be present and a non-empty string.
func parseWord(text string) (*domain.GeneratedWord, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse generated word: %w", err)
	}

	fields := make(map[string]string, 4)
	for _, key := range []string{"word", "translate", "example", "exampleTranslate"} {
		v, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("generated word missing field %q", key)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("generated word field %q is not a string", key)
		}
		if s == "" {
			return nil, fmt.Errorf("generated word field %q is empty", key)
		}
		fields[key] = s
	}

	return &domain.GeneratedWord{
		Word:             fields["word"],
		Translate:        fields["translate"],
		Example:          fields["example"],
		ExampleTranslate: fields["exampleTranslate"],
	}, nil
}
