package kv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/vaktutor/internal/platform/logger"
)

type Config struct {
	// Kind is one of "file", "redis" or "memory".
	Kind     string
	StateDir string
	Redis    RedisConfig
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the configured store. The closer releases backend connections.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Store, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "file":
		s, err := NewFile(cfg.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case "redis":
		s, err := NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		return NewMemory(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("kv: unknown store kind %q", cfg.Kind)
	}
}
