package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pageza/recipebox/backend/config"
)

const (
	defaultGeminiAPIURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel  = "gemini-pro"
)

// GeminiClient calls the Gemini generateContent REST endpoint
type GeminiClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// geminiPart is a single text part of a message
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiRequest represents a request to the generateContent endpoint
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewGeminiClient creates a client from the Gemini configuration. A missing API
// key is not an error here; GenerateText reports it on each call.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultGeminiAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey: strings.TrimSpace(cfg.APIKey),
		apiURL: apiURL,
		model:  model,
		client: &http.Client{},
	}
}

// HasAPIKey reports whether a credential is configured
func (c *GeminiClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// GenerateText sends prompt as a single user turn and returns the concatenated text
// of the first candidate.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.HasAPIKey() {
		return "", ErrMissingAPIKey
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.apiURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no response from API")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from API (finish reason %q)", result.Candidates[0].FinishReason)
	}

	return text.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
