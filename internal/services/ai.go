package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/vaktutor/internal/learning/prompts"
	"github.com/yungbote/vaktutor/internal/observability"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

// ErrAIUnavailable means no model client is configured.
var ErrAIUnavailable = errors.New("ai unavailable")

func generateInto(ctx context.Context, ai openai.Client, name prompts.PromptName, in prompts.Input, out any) error {
	if ai == nil {
		return ErrAIUnavailable
	}
	p, err := prompts.Build(name, in)
	if err != nil {
		return err
	}
	obj, err := ai.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("%s: re-encode: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode: %w", name, err)
	}
	return nil
}

func generateText(ctx context.Context, ai openai.Client, name prompts.PromptName, in prompts.Input) (string, error) {
	if ai == nil {
		return "", ErrAIUnavailable
	}
	p, err := prompts.Build(name, in)
	if err != nil {
		return "", err
	}
	text, err := ai.GenerateText(ctx, p.System, p.User)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: empty output", name)
	}
	return text, nil
}

func recordFallback(feature string) {
	observability.Current().IncAIFallback(feature)
}
