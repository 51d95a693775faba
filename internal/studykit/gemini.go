package studykit

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// TextGenerator produces raw model output for a prompt against a named
// model. Implementations report backend failures verbatim; the retry loop
// classifies them by message text.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiClient is the production TextGenerator backed by the Google
// generative AI API.
type GeminiClient struct {
	client          *genai.Client
	maxOutputTokens int32
}

// NewGeminiClient dials the generative AI API with the given key.
func NewGeminiClient(ctx context.Context, apiKey string, maxOutputTokens int32) (*GeminiClient, error) {
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c, maxOutputTokens: maxOutputTokens}, nil
}

// Close releases the underlying API connection.
func (g *GeminiClient) Close() error { return g.client.Close() }

// Generate runs one generation call against the named model and returns the
// concatenated text parts of all candidates. Study material is harmless, so
// the safety thresholds are relaxed to keep exam-style questions about e.g.
// history or medicine from being blocked.
func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	m := g.client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	if g.maxOutputTokens > 0 {
		m.SetMaxOutputTokens(g.maxOutputTokens)
	}
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &UpstreamError{Model: model, Err: err}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Model: model, Err: errors.New("model returned no text candidates")}
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
