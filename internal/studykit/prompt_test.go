package studykit

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildPrompt_ContainsInstructionsAndText(t *testing.T) {
	p := BuildPrompt("Photosynthesis converts light energy into chemical energy.", 0)

	for _, want := range []string{
		"5 Short Answer Questions",
		"3 Medium Answer Questions",
		"2 Long Essay Questions",
		`"short": [{"q": "...", "a": "..."}]`,
		"Return ONLY valid JSON",
		"Photosynthesis converts light energy",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_TruncatesToCap(t *testing.T) {
	long := strings.Repeat("a", 200)
	p := BuildPrompt(long, 50)
	if strings.Contains(p, strings.Repeat("a", 51)) {
		t.Error("source text not truncated to cap")
	}
	if !strings.Contains(p, strings.Repeat("a", 50)) {
		t.Error("truncated source text missing")
	}
}

func TestBuildPrompt_TruncationKeepsValidUTF8(t *testing.T) {
	// A multibyte rune straddling the cap must not be split mid-sequence.
	src := strings.Repeat("a", 49) + "éé"
	p := BuildPrompt(src, 50)
	if !utf8.ValidString(p) {
		t.Fatal("truncated prompt is not valid UTF-8")
	}
	if !strings.HasSuffix(p, strings.Repeat("a", 49)+"é") {
		t.Error("cap should count characters, keeping the whole 50th rune")
	}
	if strings.HasSuffix(p, "éé") {
		t.Error("source text not truncated to cap")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("same input", 100)
	b := BuildPrompt("same input", 100)
	if a != b {
		t.Error("prompt should be deterministic")
	}
}
