// Package apiclient talks to the chat backend: models, chat turns,
// conversation history and health.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markdave123-py/chatdesk/internal/apierr"
)

const DefaultBaseURL = "http://localhost:8001"

// Client is bound to one backend. It holds configuration only and is safe
// for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	locale     Locale
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithLocale(l Locale) Option {
	return func(c *Client) {
		c.locale = ParseLocale(string(l))
	}
}

// New creates a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		locale:     LocaleZH,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// request sends a JSON request to endpoint and decodes the JSON reply into out.
// A nil body sends no payload; a nil out discards the reply.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	err := c.do(ctx, method, endpoint, body, out)
	if err != nil {
		c.logger.Error("API request failed", "endpoint", endpoint, "method", method, "error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apierr.TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := apierr.ReadDetail(resp.Body)
		statusText := apierr.StatusText(resp)
		return &apierr.HTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			StatusText: statusText,
			Detail:     detail,
			Message:    ErrorMessage(c.locale, resp.StatusCode, statusText, detail),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
