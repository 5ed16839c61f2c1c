package llm

import (
	"context"
	"errors"

	"promptdeck-backend/internal/apperrors"

	"google.golang.org/genai"
)

// GeminiClient implements the chat backend using the official GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.temperature())),
	}
	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", apperrors.ProviderErr(string(ProviderGemini), apiErr.Code, apiErr.Message)
		}
		return "", apperrors.ProviderErr(string(ProviderGemini), 0, err.Error())
	}

	text := result.Text()
	if text == "" {
		return "", apperrors.EmptyResponseErr(string(ProviderGemini))
	}

	return text, nil
}
