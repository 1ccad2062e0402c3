package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/vaktutor/internal/client/fetch"
)

// cliConfig is read from the YAML file, then environment, then flags.
type cliConfig struct {
	APIURL        string        `yaml:"api_url"`
	Token         string        `yaml:"token"`
	Store         string        `yaml:"store"`
	StateDir      string        `yaml:"state_dir"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	LogMode       string        `yaml:"log_mode"`
}

func defaultConfig() cliConfig {
	state := ".vaktutor"
	if home, err := os.UserHomeDir(); err == nil {
		state = filepath.Join(home, ".vaktutor")
	}
	return cliConfig{
		APIURL:       "http://localhost:8080",
		Store:        "file",
		StateDir:     state,
		RedisAddr:    "localhost:6379",
		FetchTimeout: fetch.DefaultTimeout,
		LogMode:      "production",
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vaktutor.yaml"
	}
	return filepath.Join(home, ".vaktutor.yaml")
}

// loadConfig merges defaults with the file at path. A missing file is fine.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var file cliConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// merge copies every non-zero field of o onto c.
func (c *cliConfig) merge(o cliConfig) {
	setString(&c.APIURL, o.APIURL)
	setString(&c.Token, o.Token)
	setString(&c.Store, o.Store)
	setString(&c.StateDir, o.StateDir)
	setString(&c.RedisAddr, o.RedisAddr)
	setString(&c.RedisPassword, o.RedisPassword)
	setString(&c.LogMode, o.LogMode)
	if o.RedisDB != 0 {
		c.RedisDB = o.RedisDB
	}
	if o.FetchTimeout > 0 {
		c.FetchTimeout = o.FetchTimeout
	}
}

func (c *cliConfig) applyEnv(getenv func(string) string) error {
	setString(&c.APIURL, getenv("VAKTUTOR_API_URL"))
	setString(&c.Token, getenv("VAKTUTOR_TOKEN"))
	setString(&c.Store, getenv("VAKTUTOR_STORE"))
	setString(&c.StateDir, getenv("VAKTUTOR_STATE_DIR"))
	setString(&c.RedisAddr, getenv("REDIS_ADDR"))
	setString(&c.RedisPassword, getenv("REDIS_PASSWORD"))
	if v := strings.TrimSpace(getenv("VAKTUTOR_FETCH_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("VAKTUTOR_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
