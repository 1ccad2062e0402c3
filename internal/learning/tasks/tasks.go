// Package tasks holds hands-on coding tasks and the bundles that carry them
// between pages.
package tasks

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/vaktutor/internal/learning/topic"
)

type Task struct {
	Name        string `json:"task_name" yaml:"task_name"`
	Description string `json:"description" yaml:"description"`
	StarterCode string `json:"starter_code" yaml:"starter_code"`
}

func (t Task) Complete() bool {
	return strings.TrimSpace(t.Name) != "" &&
		strings.TrimSpace(t.Description) != "" &&
		strings.TrimSpace(t.StarterCode) != ""
}

// Runnable reports whether the starter code looks like a Java entry point.
func (t Task) Runnable() bool {
	return strings.Contains(t.StarterCode, "class") && strings.Contains(t.StarterCode, "main")
}

type Source string

const (
	SourceAI           Source = "ai"
	SourceChatAssigned Source = "chat-assigned"
	SourceCatalog      Source = "catalog"
	SourceDefault      Source = "default"
)

func (s Source) Valid() bool {
	switch s {
	case SourceAI, SourceChatAssigned, SourceCatalog, SourceDefault:
		return true
	default:
		return false
	}
}

// Bundle is a topic plus the tasks chosen for it.
type Bundle struct {
	Topic   string    `json:"topic"`
	Source  Source    `json:"source"`
	Tasks   []Task    `json:"tasks"`
	SavedAt time.Time `json:"saved_at"`
}

// Validate rejects bundles that could not have been written by this package.
// An empty task list is allowed; a resolver treats it as a miss.
func (b Bundle) Validate() error {
	if b.Source != "" && !b.Source.Valid() {
		return fmt.Errorf("bundle: unknown source %q", b.Source)
	}
	seen := map[string]bool{}
	for i, t := range b.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("bundle: task %d has no name", i)
		}
		key := nameKey(t.Name)
		if seen[key] {
			return fmt.Errorf("bundle: duplicate task %q", t.Name)
		}
		seen[key] = true
	}
	return nil
}

// Matches reports whether the bundle serves requestedTopic. An empty request
// matches any bundle.
func (b Bundle) Matches(requestedTopic string) bool {
	if strings.TrimSpace(requestedTopic) == "" {
		return true
	}
	return topic.Same(requestedTopic, b.Topic)
}

// Find returns the task whose name matches case-insensitively.
func Find(list []Task, name string) (Task, bool) {
	key := nameKey(name)
	if key == "" {
		return Task{}, false
	}
	for _, t := range list {
		if nameKey(t.Name) == key {
			return t, true
		}
	}
	return Task{}, false
}

// Dedupe keeps the first task for every case-insensitive name and drops
// unnamed ones.
func Dedupe(list []Task) []Task {
	out := make([]Task, 0, len(list))
	seen := map[string]bool{}
	for _, t := range list {
		key := nameKey(t.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// FilterGenerated trims fields and keeps complete, runnable tasks.
func FilterGenerated(list []Task) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		t = Task{
			Name:        strings.TrimSpace(t.Name),
			Description: strings.TrimSpace(t.Description),
			StarterCode: strings.TrimSpace(t.StarterCode),
		}
		if !t.Complete() || !t.Runnable() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Merge appends the fallback list to primary, removes duplicates by name and
// stops at count.
func Merge(primary, fallback []Task, count int) []Task {
	merged := Dedupe(append(append([]Task(nil), primary...), fallback...))
	if count > 0 && len(merged) > count {
		merged = merged[:count]
	}
	return merged
}

const (
	MinCount = 1
	MaxCount = 5
)

func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

//go:embed defaults.yaml
var defaultsYAML []byte

var defaultBank = mustLoadDefaults(defaultsYAML)

func mustLoadDefaults(raw []byte) []Task {
	var doc struct {
		Tasks []Task `yaml:"tasks"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("tasks: parse embedded defaults: %v", err))
	}
	if got := FilterGenerated(doc.Tasks); len(got) != len(doc.Tasks) {
		panic("tasks: embedded defaults contain incomplete tasks")
	}
	return doc.Tasks
}

// Defaults returns a copy of the built-in exception-handling task bank.
func Defaults() []Task {
	return append([]Task(nil), defaultBank...)
}
