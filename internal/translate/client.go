// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
)

// Provider IDs for the two supported chat-completion backends.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	claudeBaseURL = "https://api.anthropic.com/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// Large documents translate slowly; the timeout is sized in minutes.
	httpTimeout = 5 * time.Minute

	// Low temperature favors deterministic, faithful translation.
	translateTemperature = 0.2
	translateMaxTokens   = 8000

	anthropicVersion = "2023-06-01"
)

// ProviderForModel selects the backend from the configured model identifier.
func ProviderForModel(modelID string) string {
	if strings.HasPrefix(modelID, "claude") {
		return ProviderClaude
	}
	return ProviderOpenAI
}

// ClientSettings is the configuration surface the client reads.
type ClientSettings interface {
	Model(ctx context.Context) (string, error)
	APIKey(ctx context.Context, provider string) (string, error)
}

// Client sends translation prompts to one of two interchangeable
// chat-completion backends and records every exchange in the audit log.
// It performs no retries: retry policy lives in the queue, as entry
// re-submission.
type Client struct {
	settings   ClientSettings
	queries    *store.Queries
	httpClient *http.Client
	logger     *slog.Logger

	openAIBase string
	claudeBase string
}

// NewClient creates a Client with the production backend endpoints.
func NewClient(settings ClientSettings, queries *store.Queries, logger *slog.Logger) *Client {
	return &Client{
		settings:   settings,
		queries:    queries,
		httpClient: &http.Client{Timeout: httpTimeout},
		logger:     logger,
		openAIBase: openAIBaseURL,
		claudeBase: claudeBaseURL,
	}
}

// NewClientWithBaseURLs creates a Client pointed at custom endpoints.
func NewClientWithBaseURLs(settings ClientSettings, queries *store.Queries, logger *slog.Logger, openAIBase, claudeBase string) *Client {
	c := NewClient(settings, queries, logger)
	c.openAIBase = openAIBase
	c.claudeBase = claudeBase
	return c
}

// chatMessage is one message in a chat-completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Translate sends prompt to the configured backend and returns the raw
// completion text. Every request/response pair, including failures, is
// persisted to the audit log keyed by (contentID, queueID) so failures stay
// diagnosable after the fact.
func (c *Client) Translate(ctx context.Context, prompt, languageCode string, contentID, queueID int64) (string, error) {
	modelID, err := c.settings.Model(ctx)
	if err != nil {
		return "", fmt.Errorf("reading model setting: %w", err)
	}
	if modelID == "" {
		modelID = DefaultModel
	}
	provider := ProviderForModel(modelID)

	apiKey, err := c.settings.APIKey(ctx, provider)
	if err != nil {
		return "", fmt.Errorf("reading api key: %w", err)
	}
	if apiKey == "" {
		// No network call is made without a key.
		return "", &ConfigurationError{Message: fmt.Sprintf("no API key configured for provider %q", provider)}
	}

	endpoint, body := c.buildRequest(provider, modelID, prompt)
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	audit := model.AuditRecord{
		ID:          uuid.NewString(),
		ContentID:   contentID,
		QueueID:     queueID,
		Provider:    provider,
		Model:       modelID,
		Endpoint:    endpoint,
		RequestBody: string(jsonBody),
	}
	defer c.writeAudit(ctx, &audit)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		setAuditError(&audit, err)
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if provider == ProviderClaude {
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)
	} else {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	c.logger.Info("sending translation request",
		"provider", provider, "model", modelID, "language", languageCode,
		"queue_id", queueID, "prompt_len", len(prompt))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &APIError{Message: "request failed", Cause: err}
		setAuditError(&audit, apiErr)
		return "", apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := &APIError{Status: resp.StatusCode, Message: "reading response body", Cause: err}
		setAuditError(&audit, apiErr)
		return "", apiErr
	}

	audit.ResponseCode = resp.StatusCode
	audit.ResponseBody = string(respBody)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractAPIErrorMessage(respBody)}
		setAuditError(&audit, apiErr)
		return "", apiErr
	}

	content, err := extractCompletion(provider, respBody)
	if err != nil {
		apiErr := &APIError{Status: resp.StatusCode, Message: err.Error()}
		setAuditError(&audit, apiErr)
		return "", apiErr
	}

	return content, nil
}

// buildRequest assembles the backend-specific endpoint and JSON body.
func (c *Client) buildRequest(provider, modelID, prompt string) (string, map[string]any) {
	messages := []chatMessage{{Role: "user", Content: prompt}}

	if provider == ProviderClaude {
		return c.claudeBase + "/messages", map[string]any{
			"model":       modelID,
			"messages":    messages,
			"temperature": translateTemperature,
			"max_tokens":  translateMaxTokens,
		}
	}
	return c.openAIBase + "/chat/completions", map[string]any{
		"model":       modelID,
		"messages":    messages,
		"temperature": translateTemperature,
		"max_tokens":  translateMaxTokens,
	}
}

// extractCompletion pulls the completion text out of a 200 response body.
func extractCompletion(provider string, body []byte) (string, error) {
	if provider == ProviderClaude {
		var result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("decoding response: %v", err)
		}
		for _, part := range result.Content {
			if part.Type == "text" && part.Text != "" {
				return part.Text, nil
			}
		}
		return "", fmt.Errorf("response contains no completion text")
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %v", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("response contains no completion text")
	}
	return result.Choices[0].Message.Content, nil
}

// extractAPIErrorMessage pulls a human-readable message out of an error body.
// Both backends use an {"error": {"message": ...}} envelope.
func extractAPIErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}

func setAuditError(audit *model.AuditRecord, err error) {
	audit.Error.String = err.Error()
	audit.Error.Valid = true
}

// writeAudit persists the audit record. Audit failures are logged, never
// propagated: losing an audit row must not fail a translation.
func (c *Client) writeAudit(ctx context.Context, audit *model.AuditRecord) {
	if err := c.queries.CreateAuditRecord(ctx, *audit); err != nil {
		c.logger.Error("writing audit record failed",
			"queue_id", audit.QueueID, "error", err)
	}
}
