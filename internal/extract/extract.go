// Package extract produces a single plain-text string from one of the
// supported syllabus sources: inline text, an uploaded file (plain text,
// PDF, or an image run through OCR), or the caption track of a video URL.
package extract

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoContent is returned when the input names no source at all.
	ErrNoContent = errors.New("no content provided")
	// ErrTooShort is returned when extraction yields fewer than the
	// minimum number of characters to be worth sending to the model.
	ErrTooShort = errors.New("extracted text is too short or empty")
)

// DefaultMinLength is the smallest extraction result treated as usable.
const DefaultMinLength = 10

// SourceError wraps a failure while resolving the named source to text,
// such as an OCR run, a PDF conversion, or a caption fetch. Callers that
// map errors to response codes can attribute it to the extraction stage.
type SourceError struct{ Err error }

func (e *SourceError) Error() string { return e.Err.Error() }

func (e *SourceError) Unwrap() error { return e.Err }

// Input names exactly one content source. FilePath points at a temporary
// upload; Extract removes it on every exit path.
type Input struct {
	Text         string
	FilePath     string
	MIMEType     string
	OriginalName string
	YouTubeURL   string
}

// Recognizer turns an image file into text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Extractor resolves an Input to extracted text.
type Extractor struct {
	Recognizer Recognizer
	HTTPClient *http.Client // caption fetches; http.DefaultClient when nil
	MinLength  int          // DefaultMinLength when zero
}

// Extract returns the text of the single source named by in. Source
// precedence follows the request contract: video URL, then uploaded file,
// then inline text. The temporary uploaded file, if any, is deleted before
// Extract returns, success or not.
func (e *Extractor) Extract(ctx context.Context, in Input) (string, error) {
	if in.FilePath != "" {
		defer func() {
			if err := os.Remove(in.FilePath); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", in.FilePath).Msg("failed to remove uploaded file")
			}
		}()
	}

	var (
		text string
		err  error
	)
	switch {
	case in.YouTubeURL != "":
		text, err = e.captions(ctx, in.YouTubeURL)
	case in.FilePath != "":
		text, err = e.fromFile(ctx, in)
	case in.Text != "":
		text = in.Text
	default:
		return "", ErrNoContent
	}
	if err != nil {
		return "", &SourceError{Err: err}
	}

	min := e.MinLength
	if min <= 0 {
		min = DefaultMinLength
	}
	if len(strings.TrimSpace(text)) < min {
		return "", ErrTooShort
	}
	return text, nil
}

func (e *Extractor) fromFile(ctx context.Context, in Input) (string, error) {
	kind := sourceKind(in.MIMEType, in.OriginalName)
	switch kind {
	case "text":
		b, err := os.ReadFile(in.FilePath)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "pdf":
		return extractPDF(ctx, in.FilePath)
	default:
		// Anything else goes through OCR, matching how scanned
		// syllabi usually arrive (photos, screenshots).
		if e.Recognizer == nil {
			return "", errors.New("no OCR engine configured for image uploads")
		}
		return e.Recognizer.Recognize(ctx, in.FilePath)
	}
}

// sourceKind classifies an upload by MIME type, falling back to the file
// extension when the client sent a generic type.
func sourceKind(mimeType, name string) string {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "text/"):
		return "text"
	case mt == "application/pdf":
		return "pdf"
	case strings.HasPrefix(mt, "image/"):
		return "image"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return "text"
	case ".pdf":
		return "pdf"
	}
	return "image"
}

func (e *Extractor) httpClient() *http.Client {
	if e.HTTPClient != nil {
		return e.HTTPClient
	}
	return http.DefaultClient
}
