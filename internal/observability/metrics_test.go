package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", "/api/practice/tasks", "200", 30*time.Millisecond)
	m.IncCodeRun("simulated", "success")
	m.IncCodeRun("simulated", "success")
	m.IncAIFallback("questions")

	if got := m.codeRuns.Value("simulated", "success"); got != 2 {
		t.Fatalf("code runs: want=2 got=%v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`vak_api_requests_total{method="GET",route="/api/practice/tasks",status="200"} 1.000000`,
		`vak_api_request_duration_seconds_bucket{method="GET",route="/api/practice/tasks",status="200",le="0.05"} 1`,
		`vak_ai_fallbacks_total{feature="questions"} 1.000000`,
		"# TYPE vak_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveLLMRequest("", "", "", time.Second)
	m.IncStyleResult("visual", "test")
	m.ApiInflightInc()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus(nil): %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	if got := labelString([]string{"a"}, []string{"x\"y"}); got != `{a="x\"y"}` {
		t.Fatalf("labelString: got %s", got)
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe: got %s", got)
	}
}
