// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the protocol client for the UniHub admissions
// assistant backend.
//
// The contract is a single non-streaming POST /chat call carrying the new
// user message plus prior conversation history, answered with the assistant's
// reply text. The client performs exactly one attempt per call: failures are
// reported to the caller, which decides whether a fresh submission happens.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Configuration constants for the assistant API.
const (
	// DefaultBaseURL is the default base URL of the UniHub backend API.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout is the default timeout for chat requests. Assistant
	// answers can take a while; the transport timeout is the only client-side
	// bound.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all assistant requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNetwork indicates the request could not complete at the transport
	// level (no response was received).
	ErrNetwork = errors.New("assistant backend unreachable")

	// ErrEmptyReply indicates a successful response carrying no reply text.
	ErrEmptyReply = errors.New("assistant returned an empty reply")
)

// GatewayError represents a failure status returned by the assistant backend.
// Detail carries the human-readable explanation extracted from the error
// body when one was parseable; it is diagnostic-only and must never be shown
// verbatim to end users.
type GatewayError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("assistant error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("assistant error (HTTP %d)", e.Status)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsGatewayError reports whether err is a backend failure status.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// HistoryMessage is one role/content pair of the outbound conversation
// history. Roles are "user" or "assistant"; the welcome sentinel never
// appears here.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message     string           `json:"message"`
	ChatHistory []HistoryMessage `json:"chat_history"`
}

// ChatResponse is the success body of POST /chat. ToolCalls lists the tool
// invocations the agent performed; it is accepted and logged but not
// surfaced anywhere in the client.
type ChatResponse struct {
	Response  string   `json:"response"`
	ToolCalls []string `json:"tool_calls"`
}

// errorResponse is the optional failure body of backend endpoints.
type errorResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the assistant backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// NewClient creates an assistant client for the given base URL. An empty URL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		log:        logrus.WithField("component", "assistant"),
	}
}

// WithTimeout sets the request timeout. This swaps the client off the shared
// pooled transport onto a private one.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithRateLimit spaces outbound calls to at most perMinute requests per
// minute. The limiter delays calls; it never replays them.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage sends one user message plus prior history to the assistant and
// returns the reply text. History is in chronological order and excludes
// both the welcome sentinel and the message being sent.
//
// Exactly one attempt is made: a non-2xx status yields a *GatewayError and a
// transport failure yields an error wrapping ErrNetwork. The caller decides
// on retry.
func (c *Client) SendMessage(ctx context.Context, content string, history []HistoryMessage) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNetwork, err)
		}
	}

	if history == nil {
		history = []HistoryMessage{}
	}
	body, err := json.Marshal(ChatRequest{Message: content, ChatHistory: history})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("chat request failed at transport level")
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := newGatewayError(resp.StatusCode, respBody)
		c.log.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"detail":   gerr.Detail,
			"duration": time.Since(start),
		}).Warn("chat request rejected by backend")
		return "", gerr
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}

	if len(chatResp.ToolCalls) > 0 {
		// Reserved field: recorded for diagnostics, not surfaced.
		c.log.WithField("tool_calls", chatResp.ToolCalls).Debug("assistant used tools")
	}

	if chatResp.Response == "" {
		return "", ErrEmptyReply
	}

	c.log.WithField("duration", time.Since(start)).Debug("chat request completed")
	return chatResp.Response, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readResponse reads a response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// newGatewayError builds a *GatewayError, extracting the detail string from
// the error body when it parses.
func newGatewayError(status int, body []byte) *GatewayError {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		return &GatewayError{Status: status, Detail: apiErr.Detail}
	}
	return &GatewayError{Status: status, Detail: http.StatusText(status)}
}
