package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client issues single-attempt GET requests against the GitHub API.
// It never retries and never caches.
type Client struct {
	httpClient *http.Client
	header     http.Header
	logger     zerolog.Logger
}

// NewClient creates a new GitHub client
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	header := make(http.Header)
	header.Set("Accept", o.accept)
	header.Set("User-Agent", o.userAgent)
	header.Set("X-GitHub-Api-Version", o.apiVersion)
	if o.token != "" {
		header.Set("Authorization", "Bearer "+o.token)
	}

	return &Client{
		httpClient: httpClient,
		header:     header,
		logger:     logger,
	}
}

// validator is implemented by response types with required fields
type validator interface {
	validate() error
}

// get fetches target and decodes the JSON body into T
func get[T any](ctx context.Context, c *Client, target string) (T, error) {
	var out T

	body, err := c.doRequest(ctx, target)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, &Error{Kind: KindDecoding, Err: err}
	}
	if v, ok := any(&out).(validator); ok {
		if err := v.validate(); err != nil {
			return out, &Error{Kind: KindDecoding, Err: err}
		}
	}

	return out, nil
}

// doRequest performs the GET and classifies every failure
func (c *Client) doRequest(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, values := range c.header {
		req.Header[key] = values
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", target).Msg("GitHub request failed")
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("GitHub API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    providerMessage(body),
		}
	}

	return body, nil
}

// classifyTransportError maps http.Client.Do failures. Everything Do returns
// is a connectivity problem except the caller cancelling its own context.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnknown, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// providerMessage extracts the "message" field GitHub puts in error bodies
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
