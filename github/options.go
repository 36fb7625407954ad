package github

import (
	"net/http"
	"time"
)

// Default header values sent with every request.
const (
	DefaultAccept     = "application/vnd.github+json"
	DefaultAPIVersion = "2022-11-28"
	DefaultUserAgent  = "GitExplore (Go)"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	accept     string
	apiVersion string
	userAgent  string
	token      string
}

func defaultOptions() clientOptions {
	return clientOptions{
		accept:     DefaultAccept,
		apiVersion: DefaultAPIVersion,
		userAgent:  DefaultUserAgent,
	}
}

// WithHTTPClient uses a caller supplied http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets the client identifier string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithAPIVersion pins the X-GitHub-Api-Version header.
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		if version != "" {
			o.apiVersion = version
		}
	}
}

// WithAccept overrides the media type requested from the provider.
func WithAccept(accept string) Option {
	return func(o *clientOptions) {
		if accept != "" {
			o.accept = accept
		}
	}
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}
