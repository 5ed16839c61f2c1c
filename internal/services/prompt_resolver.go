package services

import (
	"fmt"
	"regexp"
	"strings"

	"promptdeck-backend/internal/apperrors"
)

var (
	snippetRefRe  = regexp.MustCompile(`@\w+`)
	placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)
)

// ResolvedPrompt is the output of ResolvePrompt: the literal text to send
// to an LLM plus what happened along the way.
type ResolvedPrompt struct {
	Text                   string
	SnippetsResolved       []string
	UnresolvedPlaceholders []string
}

// ResolvePrompt expands @snippet references and {{placeholder}} variables
// in a template's optimized text.
//
// Snippets expand first, in one substitution pass, so a snippet's content
// may itself contain placeholders that the same inputs map fills. A
// reference to a snippet the caller does not own fails the whole
// resolution with a batched SnippetNotFound; unmatched placeholders are
// left verbatim and only reported.
func ResolvePrompt(userID uint, text string, inputs map[string]string) (*ResolvedPrompt, error) {
	refs := snippetRefRe.FindAllString(text, -1)

	// Distinct names, order of first appearance. One fetch per distinct
	// name regardless of how often it repeats in the text.
	seen := make(map[string]bool, len(refs))
	var names []string
	for _, ref := range refs {
		if !seen[ref] {
			seen[ref] = true
			names = append(names, ref)
		}
	}

	snippets, err := GetContextSnippetsByNames(userID, names)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range names {
		if _, ok := snippets[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.SnippetsNotFound(missing)
	}

	expanded := text
	if len(names) > 0 {
		expanded = snippetRefRe.ReplaceAllStringFunc(text, func(ref string) string {
			s := snippets[ref]
			return fmt.Sprintf("--- Context: %s ---\n%s\n--- End: %s ---", s.Name, s.Content, s.Name)
		})
	}

	var unresolved []string
	substituted := placeholderRe.ReplaceAllStringFunc(expanded, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if value, ok := inputs[name]; ok {
			return value
		}
		unresolved = append(unresolved, name)
		return match
	})

	return &ResolvedPrompt{
		Text:                   substituted,
		SnippetsResolved:       names,
		UnresolvedPlaceholders: unresolved,
	}, nil
}
