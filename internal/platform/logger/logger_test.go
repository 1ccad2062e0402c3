package logger

import "testing"

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"token", "abc",
		"user_id", "42",
		"topic", "loops",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("len: want=7 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("token: want=[REDACTED] got=%v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id: want hashed value got=%v", out[3])
	}
	if out[5] != "loops" {
		t.Fatalf("topic: want=loops got=%v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key should pass through, got=%v", out[6])
	}
}

func TestLooksLikeJWT(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"a.b.c", false},
		{"eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTYifQ.sig", true},
	}
	for _, tc := range cases {
		if got := looksLikeJWT(tc.in); got != tc.want {
			t.Fatalf("looksLikeJWT(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewTestModeIsQuiet(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("component", "x").Info("dropped", "k", "v")
	log.Sync()
}
