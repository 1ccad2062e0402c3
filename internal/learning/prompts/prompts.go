package prompts

func init() {
	RegisterAll()
}

// RegisterAll registers every prompt the tutor uses. It is idempotent.
func RegisterAll() {
	RegisterSpec(Spec{
		Name:       PromptStyleQuestions,
		Version:    1,
		SchemaName: "style_questions",
		Schema:     StyleQuestionsSchema,
		System: `
You write learning-style questionnaires that classify a learner as visual, auditory or kinesthetic.
Each question has exactly three options: one visual, one auditory, one kinesthetic.`,
		User: `
Write {{.Count}} multiple-choice questions.
Set every question in the context of the learner's interests: {{if .Interests}}{{.Interests}}{{else}}general everyday study habits{{end}}.
Use option keys A, B and C. Shuffle which key carries which style between questions.`,
		Validators: []Validator{RequirePositiveCount},
	})

	RegisterSpec(Spec{
		Name:       PromptPracticeTasks,
		Version:    1,
		SchemaName: "practice_tasks",
		Schema:     PracticeTasksSchema,
		System: `
You are a Java tutor creating practical exception-handling practice tasks.`,
		User: `
Generate {{.Count}} Java coding tasks for this topic: {{.Topic}}.
Rules: starter_code must be valid Java with class Main and main method.`,
		Validators: []Validator{RequireTopic, RequirePositiveCount},
	})

	RegisterSpec(Spec{
		Name:    PromptTutorAnswer,
		Version: 1,
		Text:    true,
		System: `
You are a programming tutor who adapts every answer to the learner's learning style.
Output plain text only, no markdown tables, no code fences.`,
		User: `
Question: {{.Topic}}
Learning style: {{.Style}}
Instructions: {{.StyleInstruction}}`,
		Validators: []Validator{RequireTopic},
	})

	RegisterSpec(Spec{
		Name:    PromptLearningAsset,
		Version: 1,
		Text:    true,
		System: `
You generate educational assets. Output plain text only, no markdown tables, no code fences.`,
		User: `
Topic: {{.Topic}}
Learning style: {{.Style}}
Requested asset: {{.ContentType}}
Instructions: {{.StyleInstruction}} {{.TypeInstruction}}
Optional context: {{.Context}}`,
		Validators: []Validator{RequireTopic},
	})
}
