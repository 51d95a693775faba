package studykit

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_PlainJSON(t *testing.T) {
	kit, err := Normalize(`{"summary":"S","short":[{"q":"Q1","a":"A1"}],"medium":[],"long":[]}`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if kit.Summary != "S" || len(kit.ShortQuestions) != 1 || kit.ShortQuestions[0].Question != "Q1" {
		t.Fatalf("unexpected kit: %+v", kit)
	}
}

func TestNormalize_StripsFences(t *testing.T) {
	raw := "```json\n{\"summary\":\"fenced\",\"short\":[{\"q\":\"Define photosynthesis\",\"a\":\"...\"}]}\n```"
	kit, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if kit.Summary != "fenced" || len(kit.ShortQuestions) != 1 {
		t.Fatalf("unexpected kit: %+v", kit)
	}
}

func TestNormalize_SlicesSurroundingProse(t *testing.T) {
	raw := "Sure! Here is your study kit:\n{\"summary\":\"sliced\"}\nHope this helps!"
	kit, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if kit.Summary != "sliced" {
		t.Fatalf("Summary = %q", kit.Summary)
	}
}

func TestNormalize_MissingKeysAreZeroValues(t *testing.T) {
	kit, err := Normalize(`{"summary":"only"}`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if kit.MediumQuestions != nil || kit.LongQuestions != nil {
		t.Fatalf("expected nil slices for absent keys: %+v", kit)
	}
}

func TestNormalize_FailureCarriesOriginalRaw(t *testing.T) {
	raw := "```json\nthis is not json at all\n```"
	_, err := Normalize(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var merr *MalformedResponseError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedResponseError, got %T", err)
	}
	if merr.Raw != raw {
		t.Fatalf("Raw = %q, want the untouched input", merr.Raw)
	}
	if strings.Contains(merr.Error(), "not json at all") {
		t.Fatal("user-facing message must not embed raw model output")
	}
}

func TestNormalize_TruncatedOutputFails(t *testing.T) {
	// Truncation mid-object leaves no closing brace; the slice step is
	// skipped and strict parsing rejects it.
	_, err := Normalize(`{"summary":"cut off", "short":[{"q":"`)
	var merr *MalformedResponseError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}
