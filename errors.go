package mealplanner

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors are fatal and never retried.
var (
	ErrMissingAPIKey   = errors.New("provider API key is not configured")
	ErrMissingEndpoint = errors.New("provider endpoint URL is not configured")
)

// ProviderError is a non-2xx response from an LLM endpoint. Model-not-found
// variants trigger fallback-model retry; all other variants propagate
// immediately.
type ProviderError struct {
	Provider string
	Model    string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("failed to call %s (model %s): status %d: %s", e.Provider, e.Model, e.Status, e.Body)
}

// ModelNotFound reports whether the error is in the "model not found" class,
// identified by status/body pattern matching.
func (e *ProviderError) ModelNotFound() bool {
	if e.Status == 404 {
		return true
	}
	body := strings.ToLower(e.Body)
	return strings.Contains(body, "not_found_error") || strings.Contains(body, "model_not_found")
}

const parseExcerptLen = 300

// ParseError means the sanitized text failed both strict and lenient
// decoding. It carries a short excerpt of the offending text for
// diagnostics; the full payload goes to generation logs only.
type ParseError struct {
	Excerpt string
	Err     error
}

// NewParseError builds a ParseError with the first ~300 characters of text.
func NewParseError(text string, err error) *ParseError {
	excerpt := text
	if len(excerpt) > parseExcerptLen {
		excerpt = excerpt[:parseExcerptLen]
	}
	return &ParseError{Excerpt: excerpt, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid plan JSON: %v: %s", e.Err, e.Excerpt)
	}
	return fmt.Sprintf("invalid plan JSON: %s", e.Excerpt)
}

func (e *ParseError) Unwrap() error { return e.Err }
