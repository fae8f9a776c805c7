// Package client provides typed HTTP bindings for the conversational-AI
// API: message creation (blocking and streamed), token counting, and the
// resource endpoints (models, files, batches, skills) with cursor
// pagination.
//
// The client implements runner.ModelCaller and runner.TokenCounter, so it
// plugs directly into the tool-execution loop.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/retry"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Client is the API client. Construct it with New; the zero value is not
// usable.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config

	// Messages creates model turns, streams them, and counts tokens.
	Messages *MessagesService
	// Models lists and retrieves available models.
	Models *ModelsService
	// Files manages uploaded file metadata.
	Files *FilesService
	// Batches manages asynchronous message batches.
	Batches *BatchesService
	// Skills manages reusable skill definitions.
	Skills *SkillsService
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key. Defaults to the ANTHROPIC_API_KEY
// environment variable.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets a custom API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryConfig sets the retry policy for transient failures.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) {
		c.retryCfg = cfg
	}
}

// New creates an API client.
func New(opts ...Option) *Client {
	c := &Client{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		retryCfg:   retry.DefaultConfig(),
	}
	if envURL := os.Getenv("ANTHROPIC_BASE_URL"); envURL != "" {
		c.baseURL = strings.TrimRight(envURL, "/")
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Messages = &MessagesService{client: c}
	c.Models = &ModelsService{client: c}
	c.Files = &FilesService{client: c}
	c.Batches = &BatchesService{client: c}
	c.Skills = &SkillsService{client: c}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, ai.NewPermanentError("client: failed to create request", 0, err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	return req, nil
}

// doJSON sends a request with retry and decodes the 2xx response body into
// out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return ai.NewUserInputError("client: failed to encode request", 0, err)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	data, err := retry.Do(ctx, c.retryCfg, func() ([]byte, error) {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, ai.NewTransientError("client: request failed", 0, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, decodeAPIError(resp)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, ai.NewTransientError("client: failed to read response", resp.StatusCode, err)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return ai.NewPermanentError("client: failed to decode response", 0, err)
		}
	}
	return nil
}

// doStream sends a request with retry on connection establishment and
// returns the open response body. The caller owns closing it.
func (c *Client) doStream(ctx context.Context, method, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, ai.NewUserInputError("client: failed to encode request", 0, err)
	}

	return retry.Do(ctx, c.retryCfg, func() (io.ReadCloser, error) {
		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}
		req.Header.Set("accept", "text/event-stream")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, ai.NewTransientError("client: request failed", 0, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			return nil, decodeAPIError(resp)
		}
		return resp.Body, nil
	})
}

// wireAPIError is the JSON error envelope the API returns on non-2xx.
type wireAPIError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeAPIError converts a non-2xx response into a categorized error.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	msg := fmt.Sprintf("client: API error (status %d)", resp.StatusCode)
	var w wireAPIError
	if err := json.Unmarshal(raw, &w); err == nil && w.Error.Message != "" {
		msg = fmt.Sprintf("client: %s: %s", w.Error.Type, w.Error.Message)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusRequestTimeout ||
		resp.StatusCode == http.StatusConflict ||
		resp.StatusCode >= 500:
		return &ai.Error{
			Msg:        msg,
			Cat:        ai.ErrorTransient,
			Code:       resp.StatusCode,
			RetryDelay: parseRetryAfter(resp.Header),
		}
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusRequestEntityTooLarge ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return ai.NewUserInputError(msg, resp.StatusCode, nil)
	default:
		return ai.NewPermanentError(msg, resp.StatusCode, nil)
	}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
