package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/vaktutor/internal/learning/prompts"
	"github.com/yungbote/vaktutor/internal/learning/tasks"
	"github.com/yungbote/vaktutor/internal/learning/topic"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

// DefaultPracticeTopic is used when a learner has no chat history yet.
const DefaultPracticeTopic = "Java exception handling"

// TaskGenerator turns a topic into runnable practice tasks.
type TaskGenerator struct {
	log *logger.Logger
	ai  openai.Client
}

func NewTaskGenerator(log *logger.Logger, ai openai.Client) *TaskGenerator {
	return &TaskGenerator{log: log.With("service", "TaskGenerator"), ai: ai}
}

// FromTopic returns count tasks for t. Low-signal topics and any model
// failure yield the default bank with source default; otherwise the
// generated tasks are topped up from the defaults.
func (g *TaskGenerator) FromTopic(ctx context.Context, t string, count int) ([]tasks.Task, tasks.Source) {
	count = tasks.ClampCount(count)
	t = strings.TrimSpace(t)
	if topic.IsLowSignal(t) {
		return tasks.Merge(nil, tasks.Defaults(), count), tasks.SourceDefault
	}
	generated, err := g.generate(ctx, t, count)
	if err != nil {
		if !errors.Is(err, ErrAIUnavailable) {
			g.log.Warn("Task generation failed, using default bank", "topic", t, "error", err)
		}
		recordFallback("tasks")
		return tasks.Merge(nil, tasks.Defaults(), count), tasks.SourceDefault
	}
	return tasks.Merge(generated, tasks.Defaults(), count), tasks.SourceAI
}

func (g *TaskGenerator) generate(ctx context.Context, t string, count int) ([]tasks.Task, error) {
	var out struct {
		Tasks []tasks.Task `json:"tasks"`
	}
	if err := generateInto(ctx, g.ai, prompts.PromptPracticeTasks, prompts.Input{Topic: t, Count: count}, &out); err != nil {
		return nil, err
	}
	valid := tasks.FilterGenerated(out.Tasks)
	if len(valid) == 0 {
		return nil, errors.New("no usable tasks in model output")
	}
	return valid, nil
}
