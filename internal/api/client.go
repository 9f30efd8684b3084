package api

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single statistics request.
const DefaultTimeout = 15 * time.Second

// Client provides access to the statistics REST API.
type Client struct {
	baseURL    string
	host       string
	apiKey     string
	template   string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. host is sent as X-RapidAPI-Host.
func NewClient(baseURL, host, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		host:     host,
		apiKey:   apiKey,
		template: "STOCK",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTemplate sets the statistics template query parameter.
func WithTemplate(template string) ClientOption {
	return func(c *Client) {
		c.template = template
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
