package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/internal/llm"
	"promptdeck-backend/pkg/logger"

	"go.uber.org/zap"
)

const optimizeSystemPrompt = `You are a prompt engineering expert. Rewrite the user's raw prompt into a clear, well-structured prompt for a large language model. Preserve every @snippet reference and {{placeholder}} marker exactly as written. Return only the rewritten prompt, no commentary.`

const titleSystemPrompt = `Generate a short descriptive title (at most 8 words) for the following prompt. Return only the title, without quotes or punctuation at the end.`

const titleFallbackLength = 60

var llmCaller llm.Caller

// InitGeneration wires the LLM adapter used by the generation pipeline.
// Tests substitute a fake Caller.
func InitGeneration(caller llm.Caller) {
	llmCaller = caller
}

// GenerationRequest is the ephemeral input of one document generation.
// Exactly one of PromptTemplateID and RawPrompt must be set.
type GenerationRequest struct {
	PromptTemplateID *uint
	RawPrompt        string
	Inputs           map[string]string
	Provider         llm.Provider
	Model            string
	UserID           uint
	// CorrelationIDs are caller-supplied workflow identifiers, passed
	// through to the result metadata uninterpreted.
	CorrelationIDs map[string]string
}

// GenerationResult is the generated content plus a metadata bag describing
// how it was produced. Nothing here is persisted.
type GenerationResult struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// GenerateDocument runs the end-to-end pipeline: authorize, resolve the
// base prompt, expand snippets and placeholders, call the LLM. Every step
// is a hard gate; no LLM call happens once a step has failed.
func GenerateDocument(ctx context.Context, callerUserID uint, req GenerationRequest) (*GenerationResult, error) {
	if callerUserID == 0 {
		return nil, apperrors.Unauthorizedf("authentication required")
	}
	if req.UserID != callerUserID {
		return nil, apperrors.Unauthorizedf("request owner does not match authenticated user")
	}

	hasTemplate := req.PromptTemplateID != nil
	hasRaw := req.RawPrompt != ""
	if hasTemplate == hasRaw {
		return nil, apperrors.Validationf("exactly one of prompt_template_id and raw_prompt must be provided")
	}

	baseText := req.RawPrompt
	if hasTemplate {
		template, err := GetPromptTemplate(*req.PromptTemplateID, callerUserID)
		if err != nil {
			return nil, err
		}
		baseText = template.OptimizedPrompt
		if req.Model == "" {
			req.Model = template.ModelID
		}
	}

	resolved, err := ResolvePrompt(callerUserID, baseText, req.Inputs)
	if err != nil {
		return nil, err
	}

	if len(resolved.UnresolvedPlaceholders) > 0 {
		logger.Log.Warn("generating with unresolved placeholders",
			zap.Uint("user_id", callerUserID),
			zap.Strings("placeholders", resolved.UnresolvedPlaceholders),
		)
	}

	content, err := llmCaller.Call(ctx, resolved.Text, req.Provider, llm.Options{Model: req.Model})
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		"inputs":                  req.Inputs,
		"provider":                string(req.Provider),
		"model":                   req.Model,
		"resolved_prompt_length":  len(resolved.Text),
		"snippets_resolved":       resolved.SnippetsResolved,
		"unresolved_placeholders": resolved.UnresolvedPlaceholders,
	}
	if len(req.CorrelationIDs) > 0 {
		metadata["correlation_ids"] = req.CorrelationIDs
	}

	return &GenerationResult{Content: content, Metadata: metadata}, nil
}

// OptimizePrompt rewrites a raw prompt into an optimized one. It tries the
// experimental prompt generation endpoint first and falls back to a
// standard chat call; when both fail, the single returned error carries
// both reasons.
func OptimizePrompt(ctx context.Context, rawPrompt string, provider llm.Provider, model string) (string, error) {
	if strings.TrimSpace(rawPrompt) == "" {
		return "", apperrors.Validationf("raw prompt must not be empty")
	}

	optimized, expErr := llmCaller.GeneratePrompt(ctx, rawPrompt)
	if expErr == nil {
		return optimized, nil
	}

	logger.Log.Info("experimental prompt generation failed, falling back to chat",
		zap.Error(expErr),
	)

	optimized, chatErr := llmCaller.Call(ctx, rawPrompt, provider, llm.Options{
		Model:        model,
		SystemPrompt: optimizeSystemPrompt,
	})
	if chatErr != nil {
		return "", apperrors.ProviderErr(string(provider), 0,
			fmt.Sprintf("prompt optimization failed: experimental: %v; chat: %v", expErr, chatErr))
	}

	return optimized, nil
}

// GenerateTitle suggests a title for a raw prompt with a single chat call.
func GenerateTitle(ctx context.Context, rawPrompt string, provider llm.Provider, model string) (string, error) {
	if strings.TrimSpace(rawPrompt) == "" {
		return "", apperrors.Validationf("raw prompt must not be empty")
	}

	title, err := llmCaller.Call(ctx, rawPrompt, provider, llm.Options{
		Model:        model,
		SystemPrompt: titleSystemPrompt,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(title), nil
}

// PreparedPrompt is the result of the combined optimize+title operation.
type PreparedPrompt struct {
	OptimizedPrompt string `json:"optimized_prompt"`
	Title           string `json:"title"`
}

// PreparePrompt runs optimization and title generation concurrently and
// waits for both to settle before deciding the outcome. A failed title is
// degraded to a truncation of the raw prompt; a failed optimization fails
// the whole operation.
func PreparePrompt(ctx context.Context, rawPrompt string, provider llm.Provider, model string) (*PreparedPrompt, error) {
	if strings.TrimSpace(rawPrompt) == "" {
		return nil, apperrors.Validationf("raw prompt must not be empty")
	}

	var (
		wg        sync.WaitGroup
		optimized string
		optErr    error
		title     string
		titleErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		optimized, optErr = OptimizePrompt(ctx, rawPrompt, provider, model)
	}()
	go func() {
		defer wg.Done()
		title, titleErr = GenerateTitle(ctx, rawPrompt, provider, model)
	}()
	wg.Wait()

	if optErr != nil {
		return nil, optErr
	}

	if titleErr != nil {
		logger.Log.Warn("title generation failed, using truncated prompt",
			zap.Error(titleErr),
		)
		title = rawPrompt
		if len(title) > titleFallbackLength {
			title = title[:titleFallbackLength]
		}
	}

	return &PreparedPrompt{OptimizedPrompt: optimized, Title: title}, nil
}
