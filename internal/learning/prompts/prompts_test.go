package prompts

import (
	"strings"
	"testing"
)

func TestBuildPracticeTasks(t *testing.T) {
	p, err := Build(PromptPracticeTasks, Input{Topic: "try catch finally", Count: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "Generate 3 Java coding tasks for this topic: try catch finally.") {
		t.Fatalf("user prompt not rendered: %q", p.User)
	}
	if p.SchemaName != "practice_tasks" || p.Schema == nil {
		t.Fatalf("json prompt needs a schema: name=%q", p.SchemaName)
	}
	if !strings.HasPrefix(p.System, "VAKTUTOR_PROMPT_STYLE_V1") {
		t.Fatalf("system prompt missing style block")
	}
}

func TestBuildTextPromptHasNoSchema(t *testing.T) {
	p, err := Build(PromptTutorAnswer, Input{Topic: "loops", Style: "visual"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Schema != nil || p.SchemaName != "" {
		t.Fatalf("text prompt must not carry a schema")
	}
}

func TestBuildValidates(t *testing.T) {
	cases := []struct {
		name PromptName
		in   Input
	}{
		{PromptPracticeTasks, Input{Count: 3}},
		{PromptPracticeTasks, Input{Topic: "x"}},
		{PromptStyleQuestions, Input{}},
		{PromptName("nope"), Input{Topic: "x", Count: 1}},
	}
	for _, tc := range cases {
		if _, err := Build(tc.name, tc.in); err == nil {
			t.Fatalf("Build(%s, %+v): want error", tc.name, tc.in)
		}
	}
}

func TestStyleQuestionsInterestsFallback(t *testing.T) {
	p, err := Build(PromptStyleQuestions, Input{Count: 12})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "general everyday study habits") {
		t.Fatalf("missing interests fallback: %q", p.User)
	}
}
