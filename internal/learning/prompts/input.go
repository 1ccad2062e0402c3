package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Topic     string
	Interests string
	Count     int
	// Style is the learner's VAK label.
	Style            string
	StyleInstruction string
	// ContentType is the requested download asset kind.
	ContentType     string
	TypeInstruction string
	// Context is optional grounding text, already truncated.
	Context string
}
