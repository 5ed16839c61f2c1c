package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/internal/utils"
)

const (
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096

	// Beta header required by the experimental prompt generation endpoint.
	anthropicPromptToolsBeta = "prompt-tools-2025-04-02"
)

// AnthropicConfig holds configuration for the Anthropic backend.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
}

// AnthropicClient talks to the Anthropic Messages API directly. Besides
// standard chat completions it exposes the experimental prompt generation
// endpoint, which has its own request/response shape.
type AnthropicClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = utils.NewHTTPClient(60 * time.Second)
	}

	return &AnthropicClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL,
		client:  client,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicChatResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	reqBody := anthropicChatRequest{
		Model:       model,
		MaxTokens:   anthropicMaxTokens,
		System:      opts.SystemPrompt,
		Temperature: opts.temperature(),
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := c.post(ctx, "/v1/messages", reqBody, nil)
	if err != nil {
		return "", err
	}

	var resp anthropicChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.ProviderErr(string(ProviderAnthropic), 0, "failed to decode response")
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", apperrors.EmptyResponseErr(string(ProviderAnthropic))
}

type anthropicGenPromptRequest struct {
	Task string `json:"task"`
}

type anthropicGenPromptMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicGenPromptResponse struct {
	Messages []anthropicGenPromptMessage `json:"messages"`
}

// GeneratePrompt asks the experimental prompt generation endpoint for a
// suggested prompt. The suggestion lives in the first user-role message of
// the structured response.
func (c *AnthropicClient) GeneratePrompt(ctx context.Context, task string) (string, error) {
	extraHeaders := map[string]string{"anthropic-beta": anthropicPromptToolsBeta}

	body, err := c.post(ctx, "/v1/experimental/generate_prompt", anthropicGenPromptRequest{Task: task}, extraHeaders)
	if err != nil {
		return "", err
	}

	var resp anthropicGenPromptResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperrors.ProviderErr(string(ProviderAnthropic), 0, "failed to decode response")
	}

	for _, msg := range resp.Messages {
		if msg.Role != "user" {
			continue
		}
		for _, block := range msg.Content {
			if block.Type == "text" && block.Text != "" {
				return block.Text, nil
			}
		}
	}
	return "", apperrors.EmptyResponseErr(string(ProviderAnthropic))
}

func (c *AnthropicClient) post(ctx context.Context, path string, payload interface{}, extraHeaders map[string]string) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.ProviderErr(string(ProviderAnthropic), 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ProviderErr(string(ProviderAnthropic), resp.StatusCode, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, apperrors.ProviderErr(string(ProviderAnthropic), resp.StatusCode,
				fmt.Sprintf("%s: %s", apiErr.Error.Type, apiErr.Error.Message))
		}
		return nil, apperrors.ProviderErr(string(ProviderAnthropic), resp.StatusCode,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	return body, nil
}
