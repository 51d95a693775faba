// Package studykit turns extracted syllabus text into structured study
// material via a hosted generative model. It owns the prompt, the JSON
// normalization of model output, and the retry loop with model fallback.
package studykit

import (
	"strings"
)

// DefaultPromptCap bounds how much source text is embedded in the prompt.
// The generation API truncates and charges by input size.
const DefaultPromptCap = 15000

// BuildPrompt assembles the generation prompt for the given source text.
// The text is truncated to cap characters (DefaultPromptCap when cap <= 0)
// and appended verbatim. Output is deterministic for the same inputs.
func BuildPrompt(text string, cap int) string {
	if cap <= 0 {
		cap = DefaultPromptCap
	}
	text = truncateRunes(text, cap)

	var b strings.Builder
	b.WriteString("You are an expert educational AI. Analyze the provided content and generate a study kit.\n\n")
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Generate a concise summary.\n")
	b.WriteString("2. Generate EXACTLY:\n")
	b.WriteString("   - 5 Short Answer Questions (1-2 sentences)\n")
	b.WriteString("   - 3 Medium Answer Questions (3-4 sentences)\n")
	b.WriteString("   - 2 Long Essay Questions (Detailed paragraphs)\n\n")
	b.WriteString("OUTPUT JSON SCHEMA:\n")
	b.WriteString("{\n")
	b.WriteString("  \"summary\": \"...\",\n")
	b.WriteString("  \"short\": [{\"q\": \"...\", \"a\": \"...\"}],\n")
	b.WriteString("  \"medium\": [{\"q\": \"...\", \"a\": \"...\"}],\n")
	b.WriteString("  \"long\": [{\"q\": \"...\", \"a\": \"...\"}]\n")
	b.WriteString("}\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("- Return ONLY valid JSON. Do not use markdown fencing.\n")
	b.WriteString("- Do NOT return empty arrays for medium or long.\n")
	b.WriteString("- If content is short, extrapolate or ask conceptual questions to fill the requirements.\n\n")
	b.WriteString("CONTENT:\n")
	b.WriteString(text)
	return b.String()
}

// truncateRunes cuts s after n runes. The cap counts characters rather
// than bytes, so a cut never lands inside a multibyte sequence and the
// prompt stays valid UTF-8. The backend rejects invalid UTF-8 outright.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	seen := 0
	for i := range s {
		if seen == n {
			return s[:i]
		}
		seen++
	}
	return s
}
