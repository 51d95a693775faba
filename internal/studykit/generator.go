package studykit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ailearnpro/go-study-backend/internal/domain"
)

var tracer = otel.Tracer("studykit/generator")

// Generator runs the attempt loop around a TextGenerator: build the prompt
// once, call the model, normalize the output, and on failure retry up to
// MaxAttempts times. A transient backend failure (rate limit or overload)
// switches subsequent attempts to FallbackModel and pauses for Backoff.
//
// A malformed response counts as a failed attempt and is retried on the
// current model. That conflates parse failures with backend failures in the
// attempt budget, intentionally: a model that emits broken JSON once often
// emits valid JSON on the next call.
type Generator struct {
	Client        TextGenerator
	Model         string
	FallbackModel string
	MaxAttempts   int
	Backoff       time.Duration
	PromptCap     int
}

// Produce generates a StudyKit from the extracted source text. It returns
// the first successfully parsed kit, or a GenerationFailedError wrapping
// the last attempt's error once the budget is spent.
func (g *Generator) Produce(ctx context.Context, text string) (domain.StudyKit, error) {
	ctx, span := tracer.Start(ctx, "Generator.Produce")
	defer span.End()
	span.SetAttributes(
		attribute.Int("input_chars", len(text)),
		attribute.String("model", g.Model),
	)

	attempts := g.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	prompt := BuildPrompt(text, g.PromptCap)
	model := g.Model
	performed := 0
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		performed = attempt
		log.Debug().Int("attempt", attempt).Str("model", model).Msg("generation attempt")

		raw, err := g.Client.Generate(ctx, model, prompt)
		if err == nil {
			kit, nerr := Normalize(raw)
			if nerr == nil {
				span.SetAttributes(attribute.Int("attempts_used", attempt))
				return kit, nil
			}
			// Raw output goes to the log, never to the client.
			log.Warn().Int("attempt", attempt).Str("model", model).
				Str("raw", raw).Msg("model output failed to parse")
			err = nerr
		}
		lastErr = err

		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		if attempt < attempts && isTransient(err) {
			log.Warn().Int("attempt", attempt).Str("model", model).Err(err).
				Str("fallback", g.FallbackModel).Msg("transient backend failure, switching model")
			model = g.FallbackModel
			if g.Backoff > 0 {
				select {
				case <-time.After(g.Backoff):
				case <-ctx.Done():
					lastErr = ctx.Err()
					attempt = attempts
				}
			}
		} else if attempt < attempts {
			log.Warn().Int("attempt", attempt).Str("model", model).Err(err).Msg("attempt failed")
		}
	}

	// Attempts reflects calls actually made, not the budget, so the error
	// message stays honest when cancellation cuts the loop short.
	ferr := &GenerationFailedError{Attempts: performed, Last: lastErr}
	span.RecordError(ferr)
	span.SetStatus(codes.Error, "generation exhausted")
	return domain.StudyKit{}, ferr
}

// isTransient reports whether the backend failure is a rate limit or
// temporary overload worth retrying on the fallback model. Classification
// is by message text because the backend surfaces these only as strings.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "service unavailable") ||
		strings.Contains(msg, "overloaded")
}
