package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/vaktutor/internal/client/fetch"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store != "file" || cfg.FetchTimeout != fetch.DefaultTimeout {
		t.Fatalf("defaults: got %+v", cfg)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaktutor.yaml")
	raw := "api_url: http://tutor.example\nstore: redis\nfetch_timeout: 5s\nredis_db: 2\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIURL != "http://tutor.example" || cfg.Store != "redis" || cfg.RedisDB != 2 {
		t.Fatalf("file values: got %+v", cfg)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Fatalf("fetch_timeout: want=5s got=%v", cfg.FetchTimeout)
	}

	env := map[string]string{
		"VAKTUTOR_API_URL":       "http://other",
		"VAKTUTOR_FETCH_TIMEOUT": "90s",
	}
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.APIURL != "http://other" || cfg.FetchTimeout != 90*time.Second {
		t.Fatalf("env override: got %+v", cfg)
	}
	if cfg.Store != "redis" {
		t.Fatalf("unset env must keep file value: got %q", cfg.Store)
	}
}

func TestApplyEnvRejectsBadDuration(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.applyEnv(func(k string) string {
		if k == "VAKTUTOR_FETCH_TIMEOUT" {
			return "soon"
		}
		return ""
	})
	if err == nil {
		t.Fatalf("want error for bad duration")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("store: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("want parse error")
	}
}

func TestTokenSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	signed, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got := tokenSubject(signed); got != "user-1" {
		t.Fatalf("subject: want=user-1 got=%q", got)
	}
	if got := tokenSubject(""); got != "anonymous" {
		t.Fatalf("empty: want=anonymous got=%q", got)
	}
	if got := tokenSubject("garbage"); got != "anonymous" {
		t.Fatalf("garbage: want=anonymous got=%q", got)
	}
}
