package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error so handlers can pick an HTTP status and a
// user-safe message without inspecting concrete error types.
type Kind int

const (
	Unexpected Kind = iota
	Unauthorized
	Validation
	NotFound
	Conflict
	SnippetNotFound
	ProviderUnavailable
	EmptyResponse
	Provider
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case SnippetNotFound:
		return "snippet_not_found"
	case ProviderUnavailable:
		return "provider_unavailable"
	case EmptyResponse:
		return "empty_response"
	case Provider:
		return "provider_error"
	default:
		return "unexpected"
	}
}

// Error is the single error type crossing service boundaries.
type Error struct {
	Kind    Kind
	Message string

	// SnippetNames lists every unresolved @reference for SnippetNotFound.
	SnippetNames []string

	// ProviderName and StatusCode carry vendor context for Provider errors.
	ProviderName string
	StatusCode   int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind of err, defaulting to Unexpected for anything
// that did not originate from this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: Unauthorized, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// SnippetsNotFound reports every unresolved snippet reference in one error.
func SnippetsNotFound(names []string) *Error {
	return &Error{
		Kind:         SnippetNotFound,
		Message:      fmt.Sprintf("snippets not found: %s", strings.Join(names, ", ")),
		SnippetNames: names,
	}
}

func ProviderUnavailableErr(provider string) *Error {
	return &Error{
		Kind:         ProviderUnavailable,
		Message:      fmt.Sprintf("provider %s is not configured", provider),
		ProviderName: provider,
	}
}

func EmptyResponseErr(provider string) *Error {
	return &Error{
		Kind:         EmptyResponse,
		Message:      fmt.Sprintf("provider %s returned no text content", provider),
		ProviderName: provider,
	}
}

func ProviderErr(provider string, statusCode int, message string) *Error {
	return &Error{
		Kind:         Provider,
		Message:      message,
		ProviderName: provider,
		StatusCode:   statusCode,
	}
}

// Wrap classifies an unknown internal failure as Unexpected while
// preserving the cause for logging.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Unexpected, Message: message, Err: err}
}
