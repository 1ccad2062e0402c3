package promptstyle

import "strings"

const marker = "VAKTUTOR_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to system prompts. It is a
// no-op on prompts that already carry the block.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are a patient tutor for beginner programmers.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nKeep it short, concrete and free of filler.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
