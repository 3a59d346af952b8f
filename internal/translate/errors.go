// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"errors"
	"fmt"
)

// ErrNoWork signals that the queue holds no pending entries. It is not a
// failure.
var ErrNoWork = errors.New("no pending queue entries")

// ConfigurationError indicates a missing API key or an unresolvable language.
// Not retryable until configuration changes.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// APIError indicates a transport failure, a non-2xx response, or a malformed
// response body. Retryable by re-submitting the queue entry.
type APIError struct {
	Status  int // 0 when no HTTP response was received
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api error (status %d)", e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("api error: %v", e.Cause)
	default:
		return fmt.Sprintf("api error: %s", e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the translated text could not be mapped to any field.
// The raw text is retained for operator inspection; a retry often succeeds
// with a differently phrased model response.
type ParseError struct {
	Message string
	RawText string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// ContentError indicates creating or updating the translated content item
// failed. Retryable.
type ContentError struct {
	Message string
	Cause   error
}

func (e *ContentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("content error: %s", e.Message)
}

func (e *ContentError) Unwrap() error {
	return e.Cause
}
