package summarize

import (
	_ "embed"
	"strings"
)

// SystemPrompt is the system-level instruction for the summarizer.
// Loaded from prompts/system.md at compile time.
//
//go:embed prompts/system.md
var SystemPrompt string

// UserPromptTemplate is the user-level prompt template.
// The comparison digest is appended after this template at runtime.
// Loaded from prompts/user.md at compile time.
//
//go:embed prompts/user.md
var UserPromptTemplate string

// stripMarkdownFences removes a wrapping ``` code fence from the response,
// if present. Models occasionally fence their whole answer despite being
// asked for plain text.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line (```markdown, ```text, ...).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
