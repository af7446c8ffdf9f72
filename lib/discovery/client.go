// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jacs-foundation/jacs/lib/schema"
	"github.com/jacs-foundation/jacs/lib/trust"
)

// WellKnownPath is where an agent publishes its card, relative to its
// base URL. Protocol constant.
const WellKnownPath = "/.well-known/agent-card.json"

// DefaultTimeout bounds a discovery fetch when the caller does not
// set one.
const DefaultTimeout = 10 * time.Second

// maxCardBytes caps how much of a response body is read. Cards are a
// few KB; anything larger is hostile or misconfigured.
const maxCardBytes = 1 << 20

// UnreachableError reports that an agent's card could not be fetched:
// network failure, timeout, or an HTTP error status.
type UnreachableError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UnreachableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("discovery: agent at %s unreachable: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("discovery: agent at %s unreachable: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// InvalidCardError reports that the agent responded but the body is
// not a JSON object.
type InvalidCardError struct {
	URL string
	Err error
}

func (e *InvalidCardError) Error() string {
	return fmt.Sprintf("discovery: agent at %s returned an invalid card: %v", e.URL, e.Err)
}

func (e *InvalidCardError) Unwrap() error { return e.Err }

// Client fetches agent cards.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// ClientConfig configures a discovery Client.
type ClientConfig struct {
	// HTTPClient overrides the transport. Defaults to a plain
	// http.Client; tests point it at an httptest.Server.
	HTTPClient *http.Client

	// Logger for fetch attempts and failures. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Timeout bounds each fetch. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// NewClient creates a discovery Client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: httpClient, logger: logger, timeout: timeout}
}

// Discover fetches the agent card published at baseURL. One trailing
// slash on baseURL is tolerated; the well-known path is appended
// as-is otherwise.
func (c *Client) Discover(ctx context.Context, baseURL string) (*schema.AgentCard, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("discovery: base URL is required")
	}
	cardURL := strings.TrimSuffix(baseURL, "/") + WellKnownPath

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: building request for %s: %w", cardURL, err)
	}
	request.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching agent card", "url", cardURL)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &UnreachableError{URL: cardURL, Err: err}
	}
	defer response.Body.Close()

	// Only >= 400 is unreachable. Unusual 2xx/3xx responses fall
	// through to body parsing: a 203 with a card body still works,
	// while an empty 204 is rejected as an invalid card.
	if response.StatusCode >= http.StatusBadRequest {
		return nil, &UnreachableError{URL: cardURL, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxCardBytes))
	if err != nil {
		return nil, &UnreachableError{URL: cardURL, Err: err}
	}

	card, err := parseCard(body)
	if err != nil {
		return nil, &InvalidCardError{URL: cardURL, Err: err}
	}
	c.logger.Debug("fetched agent card", "url", cardURL, "agent", card.Name)
	return card, nil
}

// DiscoverAndAssess fetches the card at baseURL and evaluates the
// trust policy against it in one step.
func (c *Client) DiscoverAndAssess(ctx context.Context, baseURL string, policy trust.Policy, lookup trust.Lookup) (*trust.Assessment, error) {
	// Reject a bad policy before spending a network round trip.
	if _, err := trust.ParsePolicy(string(policy)); err != nil {
		return nil, err
	}

	card, err := c.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	assessment, err := trust.Assess(card, policy, lookup)
	if err != nil {
		return nil, err
	}
	c.logger.Info("assessed remote agent",
		"url", baseURL,
		"agent", card.Name,
		"policy", string(policy),
		"trust_level", assessment.Level.String(),
		"allowed", assessment.Allowed,
	)
	return assessment, nil
}

// parseCard decodes a card body, rejecting anything that is not a
// JSON object. Arrays, strings, and numbers are valid JSON but can
// never be a card; surfacing them as invalid beats a zero-value card
// that silently fails every trust check downstream.
func parseCard(body []byte) (*schema.AgentCard, error) {
	trimmed := strings.TrimLeftFunc(string(body), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	var card schema.AgentCard
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("decoding card: %w", err)
	}
	return &card, nil
}
