package studykit

import "fmt"

// UpstreamError wraps a failure reported by the generation backend for a
// specific model. Error() returns the backend's message unmodified so that
// retry classification can inspect the raw text.
type UpstreamError struct {
	Model string
	Err   error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError reports model output that survived fence stripping
// and brace slicing but still failed to parse as the expected JSON shape.
// Raw carries the original, unmodified model output for logging.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "model produced invalid JSON, please try again"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// GenerationFailedError is returned when every attempt has been exhausted.
type GenerationFailedError struct {
	Attempts int
	Last     error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *GenerationFailedError) Unwrap() error { return e.Last }
