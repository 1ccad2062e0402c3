package style

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Option struct {
	Key   string `json:"key" yaml:"key"`
	Text  string `json:"text" yaml:"text"`
	Style Label  `json:"style" yaml:"style"`
}

type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Text    string   `json:"question" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// StyleFor returns the label carried by the option with the given key.
func (q Question) StyleFor(key string) (Label, bool) {
	key = strings.TrimSpace(key)
	for _, o := range q.Options {
		if strings.EqualFold(o.Key, key) {
			return o.Style, true
		}
	}
	return "", false
}

// Validate checks that a question has text and exactly one option per style.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %d: empty text", q.ID)
	}
	seen := map[Label]bool{}
	for _, o := range q.Options {
		if !o.Style.Valid() {
			return fmt.Errorf("question %d: option %q has invalid style %q", q.ID, o.Key, o.Style)
		}
		if strings.TrimSpace(o.Text) == "" || strings.TrimSpace(o.Key) == "" {
			return fmt.Errorf("question %d: option missing key or text", q.ID)
		}
		if seen[o.Style] {
			return fmt.Errorf("question %d: duplicate style %q", q.ID, o.Style)
		}
		seen[o.Style] = true
	}
	if len(seen) != len(Priority) {
		return fmt.Errorf("question %d: want %d options got %d", q.ID, len(Priority), len(seen))
	}
	return nil
}

//go:embed questions.yaml
var questionsYAML []byte

var defaultBank = mustLoadQuestions(questionsYAML)

func mustLoadQuestions(raw []byte) []Question {
	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("style: parse embedded questions: %v", err))
	}
	for _, q := range doc.Questions {
		if err := q.Validate(); err != nil {
			panic(fmt.Sprintf("style: embedded questions: %v", err))
		}
	}
	return doc.Questions
}

// DefaultQuestions returns a copy of the fixed question bank.
func DefaultQuestions() []Question {
	out := make([]Question, len(defaultBank))
	for i, q := range defaultBank {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// ClampCount bounds a requested questionnaire length to [MinQuestions, MaxAnswers].
func ClampCount(n int) int {
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxAnswers {
		return MaxAnswers
	}
	return n
}
