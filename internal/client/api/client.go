// Package api is the typed HTTP client for the tutor API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/vaktutor/internal/platform/httpx"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

// ErrUnavailable matches errors from a collaborator that could not answer:
// network failures, timeouts and 5xx/408/429 responses.
var ErrUnavailable = errors.New("collaborator unavailable")

// Error is a failed API call.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return "api: " + e.Err.Error()
		}
		return "api: request failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("api %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api %d", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int { return e.Status }

func (e *Error) Is(target error) bool {
	if target != ErrUnavailable {
		return false
	}
	return e.Status == 0 || httpx.IsRetryableHTTPStatus(e.Status)
}

type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	Retry   httpx.Policy
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
	policy     httpx.Policy
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: base url required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: bad base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		log:        log.With("client", "TutorAPI"),
		baseURL:    base,
		token:      strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{Timeout: timeout},
		policy:     cfg.Retry,
	}, nil
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, nil, &Error{Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &Error{Err: err}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, &Error{Err: readErr}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
			apiErr.Message = env.Error.Message
			apiErr.Code = env.Error.Code
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return resp, raw, apiErr
	}
	return resp, raw, nil
}

// do sends one logical request. Only idempotent methods are retried so a
// lost response never duplicates a chat turn or a submission.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		payload = b
	}
	policy := c.policy
	if method != http.MethodGet && method != http.MethodDelete {
		policy.MaxRetries = 0
	}
	var raw []byte
	err := httpx.Retry(ctx, policy, func(int) (*http.Response, error) {
		resp, b, err := c.doOnce(ctx, method, path, query, payload)
		if err == nil {
			raw = b
		}
		return resp, err
	}, func(attempt int, sleep time.Duration, err error) {
		c.log.Warn("API request retrying", "method", method, "path", path, "attempt", attempt, "sleep", sleep.String(), "error", err)
	})
	if err != nil {
		c.log.Debug("API request failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	return raw, nil
}
