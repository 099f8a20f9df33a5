// Package slack posts Block Kit messages to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// StatusError is returned when the webhook responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("slack webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Client delivers messages to a pre-provisioned Slack webhook URL.
type Client struct {
	webhookURL string
	httpClient HTTPClient
}

// NewClient creates a new Slack webhook client.
func NewClient(webhookURL string, opts ...ClientOption) (*Client, error) {
	if webhookURL == "" {
		return nil, errors.New("Slack webhook URL is required: set SLACK_WEBHOOK_URL")
	}

	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send posts a message to the webhook. Any 2xx response is success;
// anything else is a *StatusError.
func (c *Client) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// SendTest posts a fixed message to verify webhook connectivity.
func (c *Client) SendTest(ctx context.Context) error {
	msg := Message{Blocks: []Block{
		SectionBlock(":white_check_mark: *AI Trends Reporter - Test Message*\n\nYour Slack integration is working correctly!"),
	}}
	return c.Send(ctx, msg)
}
