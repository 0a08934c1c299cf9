// Package api is the HTTP client for the ChatULL answer service.
package api

import (
	"context"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
)

// maxBodySize bounds how much of a response is read
const maxBodySize = 4 << 20

// AnswerRequest is one question for the answer service
type AnswerRequest struct {
	Token    string
	Subject  string
	Question string
}

// Client asks the answer service for replies
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(hc tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the scheme and host of the service
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout bounds each request. Zero means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client. Without WithHTTPClient a tls-client transport
// with a Chrome profile is built.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultBaseURL,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		hc, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = hc
	}

	return client, nil
}

// BaseURL returns the configured service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Answer sends the question and returns the service's reply text
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	if req.Token == "" {
		return "", apierrors.NewSessionError("")
	}

	endpoint := EndpointFor(req.Subject)
	target := BuildAnswerURL(c.baseURL, req)
	redacted := RedactToken(target, req.Token)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		httpReq.Header.Set(key, value)
	}

	c.logger.Debug("requesting answer",
		zap.String("endpoint", endpoint),
		zap.String("url", redacted),
		zap.String("subject", req.Subject))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apierrors.NewNetworkError("get answer", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", apierrors.NewNetworkError("read answer", endpoint, err)
	}

	c.logger.Debug("answer received",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	answer, parseErr := ParseAnswer(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parseErr != nil {
			return "", apierrors.NewAPIError(resp.StatusCode, endpoint, "answer request failed").WithBody(string(body))
		}
		// The service may still send a usable answer with an error status
		c.logger.Warn("answer received with error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
	}

	return answer, parseErr
}

// ParseAnswer extracts the "answer" field from a response body
func ParseAnswer(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	answer := gjson.GetBytes(body, "answer")
	if !answer.Exists() || answer.Type == gjson.Null {
		return "", apierrors.NewParseError("missing answer field", "answer")
	}

	return answer.String(), nil
}
