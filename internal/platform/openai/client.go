package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/platform/envutil"
	"github.com/yungbote/vaktutor/internal/platform/httpx"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

// ErrNotConfigured is returned by NewClient when no API key is set.
var ErrNotConfigured = errors.New("missing OPENAI_API_KEY")

// Client is the subset of the OpenAI API the tutor uses.
type Client interface {
	// Structured outputs (json_schema)
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error)

	GenerateText(ctx context.Context, system, user string) (string, error)

	// Speech renders text to mp3 audio.
	Speech(ctx context.Context, text string) ([]byte, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	ttsModel   string
	ttsVoice   string
	httpClient *http.Client
	policy     httpx.Policy
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := envutil.String("OPENAI_API_KEY", "", nil)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	timeout := envutil.Duration("OPENAI_TIMEOUT_SECONDS", 60*time.Second, log)
	policy := httpx.DefaultPolicy()
	policy.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", 3, log)
	policy.Backoff = time.Second
	policy.MaxBackoff = 10 * time.Second
	return &client{
		log:        log.With("client", "OpenAIClient"),
		baseURL:    strings.TrimRight(envutil.String("OPENAI_BASE_URL", "https://api.openai.com", log), "/"),
		apiKey:     apiKey,
		model:      envutil.String("OPENAI_MODEL", "gpt-4o-mini", log),
		ttsModel:   envutil.String("OPENAI_TTS_MODEL", "tts-1", log),
		ttsVoice:   envutil.String("OPENAI_TTS_VOICE", "alloy", log),
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
	}, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *httpError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// do runs one logical request with retries and returns the raw success body.
func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	start := time.Now()
	var raw []byte
	var lastResp *http.Response
	err := httpx.Retry(ctx, c.policy, func(int) (*http.Response, error) {
		resp, b, err := c.doOnce(ctx, method, path, body)
		lastResp = resp
		if err == nil {
			raw = b
		}
		return resp, err
	}, func(attempt int, sleep time.Duration, err error) {
		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt,
			"max_retries", c.policy.MaxRetries,
			"sleep", sleep.String(),
			"error", err.Error(),
		)
	})
	if m := observability.Current(); m != nil {
		m.ObserveLLMRequest(c.model, path, statusLabel(lastResp, err), time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func statusLabel(resp *http.Response, err error) string {
	if resp != nil {
		return fmt.Sprintf("%d", resp.StatusCode)
	}
	if err != nil {
		return "error"
	}
	return "0"
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string    `json:"model"`
	Input []message `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}

func (c *client) respond(ctx context.Context, req *responsesRequest) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/v1/responses", req)
	if err != nil {
		return "", err
	}
	var resp responsesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("openai decode error: %w", err)
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func (c *client) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	req := &responsesRequest{
		Model: c.model,
		Input: []message{{Role: "system", Content: system}, {Role: "user", Content: user}},
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}
	text, err := c.respond(ctx, req)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}

func (c *client) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.respond(ctx, &responsesRequest{
		Model: c.model,
		Input: []message{{Role: "system", Content: system}, {Role: "user", Content: user}},
	})
}

func (c *client) Speech(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("speech text required")
	}
	return c.do(ctx, http.MethodPost, "/v1/audio/speech", map[string]any{
		"model":           c.ttsModel,
		"voice":           c.ttsVoice,
		"input":           text,
		"response_format": "mp3",
	})
}
