// Package llm summarizes scraped content through an OpenAI-compatible
// chat completions API. The gemini provider goes through Google's
// OpenAI-compatible endpoint, so one wire format covers both.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/simba-tools/simbadesk/config"
	"github.com/simba-tools/simbadesk/content"
	"github.com/simba-tools/simbadesk/models"
)

const systemPrompt = "You are a helpful assistant that summarizes web content and highlights key information. Provide your response in two sections: 1) Summary and 2) Key Information"

const userPromptPrefix = "Summarize the following web content and highlight key information (like product details, pricing, descriptions, etc.): "

// Summarizer produces an LLM summary of scraped text.
type Summarizer interface {
	Summarize(ctx context.Context, text, provider string) (string, error)
}

// Client is a lightweight OpenAI-compatible chat client. It uses
// net/http directly; no provider SDK is needed.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

// NewClient creates an LLM client. Pass nil to use a default
// http.Client.
func NewClient(cfg config.LLMConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// ResolveProvider normalizes a requested provider, falling back to the
// configured default.
func (c *Client) ResolveProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		p = strings.ToLower(c.cfg.DefaultProvider)
	}
	if p != "gemini" {
		p = "openai"
	}
	return p
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Summarize truncates the text to the configured input cap and asks
// the provider for a two-section summary.
func (c *Client) Summarize(ctx context.Context, text, provider string) (string, error) {
	provider = c.ResolveProvider(provider)
	truncated := content.Truncate(text, c.cfg.MaxInputChars)

	baseURL, model := c.cfg.BaseURL, c.cfg.Model
	if provider == "gemini" {
		baseURL, model = c.cfg.GeminiBaseURL, c.cfg.GeminiModel
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + truncated},
		},
		Temperature: 0.5,
		MaxTokens:   500,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", models.NewScrapeError(
				models.ErrCodeLLMFailure,
				fmt.Sprintf("LLM provider error (%d): %s", resp.StatusCode, apiErr.Error.Message),
				nil,
			)
		}
		return "", models.NewScrapeError(
			models.ErrCodeLLMFailure,
			fmt.Sprintf("LLM provider returned HTTP %d", resp.StatusCode),
			nil,
		)
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "malformed LLM response", err)
	}
	if len(out.Choices) == 0 {
		return "", models.NewScrapeError(models.ErrCodeLLMFailure, "LLM response contained no choices", nil)
	}
	return out.Choices[0].Message.Content, nil
}
