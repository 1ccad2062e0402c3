package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/vaktutor/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
	t.Setenv("OPENAI_MAX_RETRIES", "2")
	c, err := NewClient(logger.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	impl := c.(*client)
	impl.policy.Backoff = 1
	impl.policy.MaxBackoff = 1
	return c
}

func outputBody(text string) map[string]any {
	return map[string]any{
		"output": []any{map[string]any{
			"type": "message",
			"role": "assistant",
			"content": []any{map[string]any{
				"type": "output_text",
				"text": text,
			}},
		}},
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(logger.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("NewClient: want ErrNotConfigured got %v", err)
	}
}

func TestGenerateJSONRetriesThenParses(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer header")
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(outputBody(`{"questions":[]}`))
	})
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "qs", map[string]any{"type": "object"})
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if _, ok := obj["questions"]; !ok {
		t.Fatalf("GenerateJSON: missing questions key in %v", obj)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls: want=2 got=%d", got)
	}
}

func TestGenerateTextDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})
	_, err := c.GenerateText(context.Background(), "sys", "user")
	var he *httpError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		t.Fatalf("GenerateText: want 400 httpError got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls: want=1 got=%d", got)
	}
}

func TestSpeechReturnsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("path: want=/v1/audio/speech got=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte("ID3audio"))
	})
	b, err := c.Speech(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Speech: %v", err)
	}
	if string(b) != "ID3audio" {
		t.Fatalf("Speech: want=ID3audio got=%q", b)
	}
}
