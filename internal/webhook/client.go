// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the webhook client.
const (
	// DefaultTimeout is the request timeout for webhook calls.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize bounds the response body read (1MB). Workflow
	// responses are small JSON documents; anything larger is truncated.
	MaxResponseSize = 1 * 1024 * 1024
)

// ConfigNeededMessage is returned when no webhook URL is configured.
// No network call is made in that case.
const ConfigNeededMessage = "The n8n agent is not configured yet. " +
	"Please set your workflow's webhook URL in the webhook settings first."

// sharedHTTPClient is the pooled HTTP client for all webhook requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts prompts to an n8n workflow webhook.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a webhook client using the shared pooled transport.
func NewClient() *Client {
	return &Client{httpClient: sharedHTTPClient}
}

// NewClientWithTimeout creates a webhook client with a custom request
// timeout, sharing the pooled transport.
func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}}
}

// request is the JSON body posted to the workflow.
type request struct {
	Prompt string `json:"prompt"`
}

// Run posts the prompt to the webhook URL and returns the normalized
// response text.
//
// Run never returns an error alongside usable text: a blank URL yields the
// fixed configuration-needed message without a network call, and transport
// or HTTP failures yield a diagnostic message with recovery guidance.
func (c *Client) Run(ctx context.Context, prompt, webhookURL string) (string, error) {
	if strings.TrimSpace(webhookURL) == "" {
		return ConfigNeededMessage, nil
	}

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return diagnostic(err), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return diagnostic(err), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("webhook: request failed: %v", err)
		return diagnostic(err), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		log.Printf("webhook: failed to read response: %v", err)
		return diagnostic(err), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("webhook: HTTP %d from %s", resp.StatusCode, webhookURL)
		return diagnostic(fmt.Errorf("workflow returned HTTP %d", resp.StatusCode)), nil
	}

	return Normalize(data), nil
}

// diagnostic formats a webhook failure as user-facing guidance.
func diagnostic(err error) string {
	return fmt.Sprintf("Sorry, I couldn't get a response from the n8n workflow. Error: %v. "+
		"Please check that the webhook URL is correct, the workflow is active, "+
		"and the workflow allows requests from this client (CORS).", err)
}
