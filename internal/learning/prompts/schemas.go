package prompts

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func arraySchema(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func StyleQuestionsSchema() map[string]any {
	option := objectSchema(map[string]any{
		"key":   StringSchema(),
		"text":  StringSchema(),
		"style": map[string]any{"type": "string", "enum": []any{"visual", "auditory", "kinesthetic"}},
	}, "key", "text", "style")
	question := objectSchema(map[string]any{
		"question": StringSchema(),
		"options":  arraySchema(option),
	}, "question", "options")
	return objectSchema(map[string]any{"questions": arraySchema(question)}, "questions")
}

func PracticeTasksSchema() map[string]any {
	task := objectSchema(map[string]any{
		"task_name":    StringSchema(),
		"description":  StringSchema(),
		"starter_code": StringSchema(),
	}, "task_name", "description", "starter_code")
	return objectSchema(map[string]any{"tasks": arraySchema(task)}, "tasks")
}
