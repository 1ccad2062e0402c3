package prompts

type PromptName string

const (
	PromptStyleQuestions PromptName = "style_questions"
	PromptPracticeTasks  PromptName = "practice_tasks"
	PromptTutorAnswer    PromptName = "tutor_answer"
	PromptLearningAsset  PromptName = "learning_asset"
)
