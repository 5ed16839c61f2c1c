package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"promptdeck-backend/internal/apperrors"
	"promptdeck-backend/internal/llm"

	"github.com/stretchr/testify/assert"
)

type recordedCall struct {
	prompt   string
	provider llm.Provider
	opts     llm.Options
}

// fakeCaller records every call so tests can assert on routing, prompts
// and the absence of calls after a failed gate.
type fakeCaller struct {
	mu       sync.Mutex
	calls    []recordedCall
	genTasks []string

	response string
	err      error

	genOutput string
	genErr    error
}

func (f *fakeCaller) Call(ctx context.Context, prompt string, provider llm.Provider, opts llm.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{prompt: prompt, provider: provider, opts: opts})
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCaller) GeneratePrompt(ctx context.Context, task string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genTasks = append(f.genTasks, task)
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.genOutput, nil
}

func setupFakeCaller(t *testing.T, fake *fakeCaller) {
	t.Helper()
	InitGeneration(fake)
	t.Cleanup(func() { InitGeneration(nil) })
}

func TestGenerateDocumentRequiresAuthentication(t *testing.T) {
	setupTestDB(t)
	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	_, err := GenerateDocument(context.Background(), 0, GenerationRequest{
		RawPrompt: "hello",
		Provider:  llm.ProviderOpenAI,
		UserID:    0,
	})
	assert.Equal(t, apperrors.Unauthorized, apperrors.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestGenerateDocumentRejectsMismatchedOwner(t *testing.T) {
	setupTestDB(t)
	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	_, err := GenerateDocument(context.Background(), 1, GenerationRequest{
		RawPrompt: "hello",
		Provider:  llm.ProviderOpenAI,
		UserID:    2,
	})
	assert.Equal(t, apperrors.Unauthorized, apperrors.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestGenerateDocumentExactlyOneSource(t *testing.T) {
	setupTestDB(t)
	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	templateID := uint(1)

	// Both set.
	_, err := GenerateDocument(context.Background(), 1, GenerationRequest{
		PromptTemplateID: &templateID,
		RawPrompt:        "hello",
		Provider:         llm.ProviderOpenAI,
		UserID:           1,
	})
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))

	// Neither set.
	_, err = GenerateDocument(context.Background(), 1, GenerationRequest{
		Provider: llm.ProviderOpenAI,
		UserID:   1,
	})
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestGenerateDocumentFromRawPrompt(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")
	mustCreateSnippet(t, user.ID, "@style", "Be brief.")

	fake := &fakeCaller{response: "generated document"}
	setupFakeCaller(t, fake)

	result, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		RawPrompt: "Write about {{topic}}. @style",
		Inputs:    map[string]string{"topic": "Go"},
		Provider:  llm.ProviderOpenAI,
		Model:     "gpt-4o",
		UserID:    user.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, "generated document", result.Content)

	assert.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, llm.ProviderOpenAI, call.provider)
	assert.Equal(t, "gpt-4o", call.opts.Model)
	assert.Equal(t, "Write about Go. --- Context: @style ---\nBe brief.\n--- End: @style ---", call.prompt)

	assert.Equal(t, "openai", result.Metadata["provider"])
	assert.Equal(t, "gpt-4o", result.Metadata["model"])
	assert.Equal(t, len(call.prompt), result.Metadata["resolved_prompt_length"])
	assert.Equal(t, []string{"@style"}, result.Metadata["snippets_resolved"])
	assert.Empty(t, result.Metadata["unresolved_placeholders"])
	_, hasCorrelation := result.Metadata["correlation_ids"]
	assert.False(t, hasCorrelation)
}

func TestGenerateDocumentFromTemplate(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	template, err := CreatePromptTemplate(user.ID, "Title", "raw", "Optimized {{x}}", "claude-3-5-sonnet-20241022")
	assert.NoError(t, err)

	fake := &fakeCaller{response: "out"}
	setupFakeCaller(t, fake)

	result, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		PromptTemplateID: &template.ID,
		Inputs:           map[string]string{"x": "y"},
		Provider:         llm.ProviderAnthropic,
		UserID:           user.ID,
	})
	assert.NoError(t, err)

	assert.Len(t, fake.calls, 1)
	assert.Equal(t, "Optimized y", fake.calls[0].prompt)
	// The template's model is the default when the request names none.
	assert.Equal(t, "claude-3-5-sonnet-20241022", fake.calls[0].opts.Model)
	assert.Equal(t, "claude-3-5-sonnet-20241022", result.Metadata["model"])
}

func TestGenerateDocumentRequestModelOverridesTemplate(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	template, err := CreatePromptTemplate(user.ID, "Title", "raw", "Optimized", "claude-3-5-sonnet-20241022")
	assert.NoError(t, err)

	fake := &fakeCaller{response: "out"}
	setupFakeCaller(t, fake)

	_, err = GenerateDocument(context.Background(), user.ID, GenerationRequest{
		PromptTemplateID: &template.ID,
		Provider:         llm.ProviderAnthropic,
		Model:            "claude-3-opus-20240229",
		UserID:           user.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, "claude-3-opus-20240229", fake.calls[0].opts.Model)
}

func TestGenerateDocumentUnknownTemplate(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	missing := uint(999)
	_, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		PromptTemplateID: &missing,
		Provider:         llm.ProviderOpenAI,
		UserID:           user.ID,
	})
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestGenerateDocumentMissingSnippetSkipsLLM(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	_, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		RawPrompt: "Use @missing here",
		Provider:  llm.ProviderOpenAI,
		UserID:    user.ID,
	})
	assert.Equal(t, apperrors.SnippetNotFound, apperrors.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestGenerateDocumentUnresolvedPlaceholdersStillGenerate(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	fake := &fakeCaller{response: "out"}
	setupFakeCaller(t, fake)

	result, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		RawPrompt: "Write about {{topic}}",
		Provider:  llm.ProviderOpenAI,
		UserID:    user.ID,
	})
	assert.NoError(t, err)
	assert.Len(t, fake.calls, 1)
	assert.Equal(t, "Write about {{topic}}", fake.calls[0].prompt)
	assert.Equal(t, []string{"topic"}, result.Metadata["unresolved_placeholders"])
}

func TestGenerateDocumentCorrelationIDsPassedThrough(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	fake := &fakeCaller{response: "out"}
	setupFakeCaller(t, fake)

	result, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		RawPrompt:      "hello",
		Provider:       llm.ProviderOpenAI,
		UserID:         user.ID,
		CorrelationIDs: map[string]string{"workflow_id": "wf-123"},
	})
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"workflow_id": "wf-123"}, result.Metadata["correlation_ids"])
}

func TestGenerateDocumentProviderErrorPropagates(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "generator")

	fake := &fakeCaller{err: apperrors.ProviderUnavailableErr("openai")}
	setupFakeCaller(t, fake)

	_, err := GenerateDocument(context.Background(), user.ID, GenerationRequest{
		RawPrompt: "hello",
		Provider:  llm.ProviderOpenAI,
		UserID:    user.ID,
	})
	assert.Equal(t, apperrors.ProviderUnavailable, apperrors.KindOf(err))
}

func TestOptimizePromptPrefersExperimentalEndpoint(t *testing.T) {
	fake := &fakeCaller{genOutput: "an optimized prompt"}
	setupFakeCaller(t, fake)

	optimized, err := OptimizePrompt(context.Background(), "write something", llm.ProviderAnthropic, "")
	assert.NoError(t, err)
	assert.Equal(t, "an optimized prompt", optimized)
	assert.Equal(t, []string{"write something"}, fake.genTasks)
	assert.Empty(t, fake.calls)
}

func TestOptimizePromptFallsBackToChat(t *testing.T) {
	fake := &fakeCaller{
		genErr:   apperrors.ProviderUnavailableErr("anthropic"),
		response: "chat optimized",
	}
	setupFakeCaller(t, fake)

	optimized, err := OptimizePrompt(context.Background(), "write something", llm.ProviderOpenAI, "gpt-4o")
	assert.NoError(t, err)
	assert.Equal(t, "chat optimized", optimized)

	assert.Len(t, fake.calls, 1)
	assert.Equal(t, llm.ProviderOpenAI, fake.calls[0].provider)
	assert.Equal(t, optimizeSystemPrompt, fake.calls[0].opts.SystemPrompt)
}

func TestOptimizePromptBothPathsFail(t *testing.T) {
	fake := &fakeCaller{
		genErr: apperrors.ProviderUnavailableErr("anthropic"),
		err:    apperrors.ProviderErr("openai", 500, "server blew up"),
	}
	setupFakeCaller(t, fake)

	_, err := OptimizePrompt(context.Background(), "write something", llm.ProviderOpenAI, "")
	assert.Equal(t, apperrors.Provider, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "experimental")
	assert.Contains(t, err.Error(), "chat")
	assert.Contains(t, err.Error(), "server blew up")
}

func TestOptimizePromptRejectsEmptyInput(t *testing.T) {
	fake := &fakeCaller{}
	setupFakeCaller(t, fake)

	_, err := OptimizePrompt(context.Background(), "   ", llm.ProviderOpenAI, "")
	assert.Equal(t, apperrors.Validation, apperrors.KindOf(err))
	assert.Empty(t, fake.genTasks)
}

func TestGenerateTitle(t *testing.T) {
	fake := &fakeCaller{response: "  A Short Title \n"}
	setupFakeCaller(t, fake)

	title, err := GenerateTitle(context.Background(), "write about Go", llm.ProviderGemini, "")
	assert.NoError(t, err)
	assert.Equal(t, "A Short Title", title)

	assert.Len(t, fake.calls, 1)
	assert.Equal(t, titleSystemPrompt, fake.calls[0].opts.SystemPrompt)
}

func TestPreparePrompt(t *testing.T) {
	fake := &fakeCaller{genOutput: "optimized", response: "Title"}
	setupFakeCaller(t, fake)

	prepared, err := PreparePrompt(context.Background(), "write about Go", llm.ProviderOpenAI, "")
	assert.NoError(t, err)
	assert.Equal(t, "optimized", prepared.OptimizedPrompt)
	assert.Equal(t, "Title", prepared.Title)
}

func TestPreparePromptTitleFailureDegradesToTruncation(t *testing.T) {
	raw := strings.Repeat("write about Go and its ecosystem ", 5)
	fake := &fakeCaller{
		genOutput: "optimized",
		err:       apperrors.ProviderErr("openai", 500, "down"),
	}
	setupFakeCaller(t, fake)

	prepared, err := PreparePrompt(context.Background(), raw, llm.ProviderOpenAI, "")
	assert.NoError(t, err)
	assert.Equal(t, "optimized", prepared.OptimizedPrompt)
	assert.Equal(t, raw[:titleFallbackLength], prepared.Title)
}

func TestPreparePromptOptimizeFailureFailsWhole(t *testing.T) {
	fake := &fakeCaller{
		genErr: apperrors.ProviderUnavailableErr("anthropic"),
		err:    apperrors.ProviderErr("openai", 500, "down"),
	}
	setupFakeCaller(t, fake)

	_, err := PreparePrompt(context.Background(), "write about Go", llm.ProviderOpenAI, "")
	assert.Equal(t, apperrors.Provider, apperrors.KindOf(err))
}
