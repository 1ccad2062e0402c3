package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec is the declaration format for a prompt. Text prompts have no schema.
type Spec struct {
	Name       PromptName
	Version    int
	Text       bool
	SchemaName string
	Schema     func() map[string]any
	// These can be plain strings or go templates using {{.Field}} from Input
	System     string
	User       string
	Validators []Validator
}

type Validator func(Input) error

// MakeTemplate compiles a Spec into a Template.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if !s.Text {
		if strings.TrimSpace(s.SchemaName) == "" {
			return Template{}, fmt.Errorf("missing schema name for %s", s.Name)
		}
		if s.Schema == nil {
			return Template{}, fmt.Errorf("missing schema func for %s", s.Name)
		}
	}
	sysT, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	render := func(t *template.Template, in Input) string {
		var b bytes.Buffer
		_ = t.Execute(&b, in)
		return strings.TrimSpace(b.String())
	}
	tt := Template{
		Name:       s.Name,
		Version:    s.Version,
		Text:       s.Text,
		SchemaName: s.SchemaName,
		Schema:     s.Schema,
		System:     func(in Input) string { return render(sysT, in) },
		User:       func(in Input) string { return render(userT, in) },
	}
	if len(s.Validators) > 0 {
		tt.Validate = func(in Input) error {
			for _, v := range s.Validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return tt, nil
}

// RegisterSpec compiles and registers s, panicking on a bad declaration.
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	Register(t)
}

func RequireTopic(in Input) error {
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("missing topic")
	}
	return nil
}

func RequirePositiveCount(in Input) error {
	if in.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	return nil
}
