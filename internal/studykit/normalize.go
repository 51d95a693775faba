package studykit

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ailearnpro/go-study-backend/internal/domain"
)

var fenceRE = regexp.MustCompile("```(?:json)?")

// Normalize repairs and parses raw model output into a StudyKit.
//
// Repair steps, in order: strip markdown code fences, trim whitespace, and
// slice from the first '{' to the last '}' so leading or trailing prose is
// discarded. Parsing is a plain JSON unmarshal; missing keys yield zero
// values and are not treated as errors. On parse failure the returned
// MalformedResponseError carries the original raw text, not the cleaned one.
func Normalize(raw string) (domain.StudyKit, error) {
	clean := fenceRE.ReplaceAllString(raw, "")
	clean = strings.TrimSpace(clean)

	i := strings.Index(clean, "{")
	j := strings.LastIndex(clean, "}")
	if i != -1 && j != -1 && j > i {
		clean = clean[i : j+1]
	}

	var kit domain.StudyKit
	if err := json.Unmarshal([]byte(clean), &kit); err != nil {
		return domain.StudyKit{}, &MalformedResponseError{Raw: raw, Err: err}
	}
	return kit, nil
}
