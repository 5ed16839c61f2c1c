package services

import (
	"testing"

	"promptdeck-backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestResolvePromptPlainText(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")

	resolved, err := ResolvePrompt(user.ID, "Just a plain prompt.", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Just a plain prompt.", resolved.Text)
	assert.Empty(t, resolved.SnippetsResolved)
	assert.Empty(t, resolved.UnresolvedPlaceholders)
}

func TestResolvePromptExpandsSnippet(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")
	mustCreateSnippet(t, user.ID, "@style", "Write in plain English.")

	resolved, err := ResolvePrompt(user.ID, "Follow @style when answering.", nil)
	assert.NoError(t, err)
	assert.Equal(t,
		"Follow --- Context: @style ---\nWrite in plain English.\n--- End: @style --- when answering.",
		resolved.Text)
	assert.Equal(t, []string{"@style"}, resolved.SnippetsResolved)
}

func TestResolvePromptRepeatedReferenceResolvedOnce(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")
	mustCreateSnippet(t, user.ID, "@tone", "friendly")

	resolved, err := ResolvePrompt(user.ID, "@tone first, @tone again", nil)
	assert.NoError(t, err)
	// Both occurrences expand but the snippet is reported once.
	assert.Equal(t, []string{"@tone"}, resolved.SnippetsResolved)
	assert.Contains(t, resolved.Text, "--- Context: @tone ---\nfriendly\n--- End: @tone --- first")
	assert.Contains(t, resolved.Text, "--- Context: @tone ---\nfriendly\n--- End: @tone --- again")
}

func TestResolvePromptMissingSnippetsBatched(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")
	mustCreateSnippet(t, user.ID, "@known", "content")

	_, err := ResolvePrompt(user.ID, "Use @missing and @known and @gone and @missing.", nil)
	assert.Error(t, err)
	assert.Equal(t, apperrors.SnippetNotFound, apperrors.KindOf(err))

	var ae *apperrors.Error
	assert.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"@missing", "@gone"}, ae.SnippetNames)
}

func TestResolvePromptDoesNotSeeOtherUsersSnippets(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner")
	other := createTestUser(t, "other")
	mustCreateSnippet(t, owner.ID, "@private", "secret")

	_, err := ResolvePrompt(other.ID, "Use @private.", nil)
	assert.Equal(t, apperrors.SnippetNotFound, apperrors.KindOf(err))
}

func TestResolvePromptSubstitutesPlaceholders(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")

	resolved, err := ResolvePrompt(user.ID, "Write for {{audience}} about {{ topic }}.", map[string]string{
		"audience": "engineers",
		"topic":    "caching",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Write for engineers about caching.", resolved.Text)
	assert.Empty(t, resolved.UnresolvedPlaceholders)
}

func TestResolvePromptUnmatchedPlaceholdersLeftVerbatim(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")

	resolved, err := ResolvePrompt(user.ID, "{{known}} then {{unknown}} then {{unknown}}", map[string]string{
		"known": "ok",
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok then {{unknown}} then {{unknown}}", resolved.Text)
	// Reported per occurrence.
	assert.Equal(t, []string{"unknown", "unknown"}, resolved.UnresolvedPlaceholders)
}

func TestResolvePromptSnippetContentMayContainPlaceholders(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")
	mustCreateSnippet(t, user.ID, "@greeting", "Hello {{name}}!")

	resolved, err := ResolvePrompt(user.ID, "@greeting How are you?", map[string]string{
		"name": "Ada",
	})
	assert.NoError(t, err)
	// Snippets expand first, so the same inputs map fills placeholders
	// that arrive via snippet content.
	assert.Contains(t, resolved.Text, "Hello Ada!")
	assert.Empty(t, resolved.UnresolvedPlaceholders)
}

func TestResolvePromptFullPipeline(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "resolver")
	mustCreateSnippet(t, user.ID, "@style", "Be concise.")

	resolved, err := ResolvePrompt(user.ID, "Write about {{topic}}. @style And mention {{missing}}.", map[string]string{
		"topic": "Go",
	})
	assert.NoError(t, err)
	assert.Equal(t,
		"Write about Go. --- Context: @style ---\nBe concise.\n--- End: @style --- And mention {{missing}}.",
		resolved.Text)
	assert.Equal(t, []string{"@style"}, resolved.SnippetsResolved)
	assert.Equal(t, []string{"missing"}, resolved.UnresolvedPlaceholders)
}
