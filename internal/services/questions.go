package services

import (
	"context"
	"fmt"

	"github.com/yungbote/vaktutor/internal/learning/prompts"
	"github.com/yungbote/vaktutor/internal/learning/style"
	"github.com/yungbote/vaktutor/internal/platform/logger"
	"github.com/yungbote/vaktutor/internal/platform/openai"
)

const (
	QuestionSourceAI      = "ai"
	QuestionSourceDefault = "default"
)

// QuestionGenerator writes interest-based questionnaires, falling back to the
// fixed bank when the model is unavailable or returns unusable questions.
type QuestionGenerator struct {
	log *logger.Logger
	ai  openai.Client
}

func NewQuestionGenerator(log *logger.Logger, ai openai.Client) *QuestionGenerator {
	return &QuestionGenerator{log: log.With("service", "QuestionGenerator"), ai: ai}
}

func (g *QuestionGenerator) Generate(ctx context.Context, interests string, count int) ([]style.Question, string) {
	count = style.ClampCount(count)
	qs, err := g.generate(ctx, interests, count)
	if err != nil {
		g.log.Warn("Question generation failed, using default bank", "error", err, "count", count)
		recordFallback("questions")
		return defaultQuestions(count), QuestionSourceDefault
	}
	return qs, QuestionSourceAI
}

func (g *QuestionGenerator) generate(ctx context.Context, interests string, count int) ([]style.Question, error) {
	var out struct {
		Questions []style.Question `json:"questions"`
	}
	if err := generateInto(ctx, g.ai, prompts.PromptStyleQuestions, prompts.Input{Interests: interests, Count: count}, &out); err != nil {
		return nil, err
	}
	valid := make([]style.Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		q.ID = len(valid) + 1
		if err := q.Validate(); err != nil {
			g.log.Debug("Dropping generated question", "error", err)
			continue
		}
		valid = append(valid, q)
		if len(valid) == count {
			break
		}
	}
	if len(valid) < style.MinQuestions {
		return nil, fmt.Errorf("only %d usable questions", len(valid))
	}
	return valid, nil
}

// defaultQuestions returns up to count questions from the fixed bank.
func defaultQuestions(count int) []style.Question {
	qs := style.DefaultQuestions()
	if count > 0 && count < len(qs) {
		qs = qs[:count]
	}
	return qs
}
