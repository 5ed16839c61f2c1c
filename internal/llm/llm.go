// Package llm is a uniform interface over the vendor chat-completion
// APIs. Each backend is configured independently from credentials; an
// unconfigured provider fails fast without touching the network. No call
// is ever retried here — retry policy belongs to callers.
package llm

import (
	"context"

	"promptdeck-backend/config"
	"promptdeck-backend/internal/apperrors"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// DefaultTemperature is used when a call does not override sampling.
const DefaultTemperature = 0.7

// Options tunes a single call. Zero values fall back to the provider's
// configured default model and DefaultTemperature.
type Options struct {
	Model        string
	Temperature  float64
	SystemPrompt string
}

func (o Options) temperature() float64 {
	if o.Temperature == 0 {
		return DefaultTemperature
	}
	return o.Temperature
}

// Caller is what the orchestration layer depends on; tests substitute it.
type Caller interface {
	// Call routes prompt to the named provider's chat completion API.
	Call(ctx context.Context, prompt string, provider Provider, opts Options) (string, error)
	// GeneratePrompt turns a task description into a suggested prompt via
	// Anthropic's experimental prompt generation endpoint.
	GeneratePrompt(ctx context.Context, task string) (string, error)
}

type backend interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Registry holds the configured backends.
type Registry struct {
	backends  map[Provider]backend
	anthropic *AnthropicClient
}

// NewRegistry builds clients for every provider whose credential is set.
func NewRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	r := &Registry{backends: make(map[Provider]backend)}

	if cfg.OpenAIAPIKey != "" {
		r.backends[ProviderOpenAI] = NewOpenAIClient(OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
	}
	if cfg.AnthropicAPIKey != "" {
		r.anthropic = NewAnthropicClient(AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
		})
		r.backends[ProviderAnthropic] = r.anthropic
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		r.backends[ProviderGemini] = gemini
	}

	return r, nil
}

// Call implements Caller.
func (r *Registry) Call(ctx context.Context, prompt string, provider Provider, opts Options) (string, error) {
	switch provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return "", apperrors.Validationf("unknown provider %q", provider)
	}

	b, ok := r.backends[provider]
	if !ok {
		return "", apperrors.ProviderUnavailableErr(string(provider))
	}

	return b.Complete(ctx, prompt, opts)
}

// GeneratePrompt implements Caller.
func (r *Registry) GeneratePrompt(ctx context.Context, task string) (string, error) {
	if r.anthropic == nil {
		return "", apperrors.ProviderUnavailableErr(string(ProviderAnthropic))
	}
	return r.anthropic.GeneratePrompt(ctx, task)
}

// Configured lists the providers with a usable backend.
func (r *Registry) Configured() []Provider {
	var providers []Provider
	for _, p := range []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		if _, ok := r.backends[p]; ok {
			providers = append(providers, p)
		}
	}
	return providers
}
