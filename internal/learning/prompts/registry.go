package prompts

import (
	"fmt"
	"strings"

	"github.com/yungbote/vaktutor/internal/platform/promptstyle"
)

type Template struct {
	Name       PromptName
	Version    int
	Text       bool
	SchemaName string
	Schema     func() map[string]any
	System     func(Input) string
	User       func(Input) string
	Validate   Validator
}

type Prompt struct {
	Name       string
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

var registry = map[PromptName]Template{}

func Register(t Template) {
	registry[t.Name] = t
}

// Build renders a registered prompt for openai.GenerateJSON or GenerateText.
func Build(name PromptName, in Input) (Prompt, error) {
	t, ok := registry[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}
	mode := "json"
	if t.Text {
		mode = "text"
	}
	p := Prompt{
		Name:    string(t.Name),
		Version: t.Version,
		System:  promptstyle.ApplySystem(t.System(in), mode),
		User:    strings.TrimSpace(t.User(in)),
	}
	if !t.Text {
		p.SchemaName = strings.TrimSpace(t.SchemaName)
		p.Schema = t.Schema()
	}
	return p, nil
}
