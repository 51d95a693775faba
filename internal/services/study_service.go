// Package services – StudyService
//
// This file implements the upload pipeline: extract text from the request's
// single content source, generate a study kit from it, and save the result
// to the user's history when a user is identified. The history save is
// best-effort: a storage failure is logged but the generated kit is still
// returned to the caller.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/extract"
)

var studyTracer = otel.Tracer("services/study")

// TextExtractor resolves an upload to extracted text.
type TextExtractor interface {
	Extract(ctx context.Context, in extract.Input) (string, error)
}

// StudyKitProducer turns extracted text into a study kit.
type StudyKitProducer interface {
	Produce(ctx context.Context, text string) (domain.StudyKit, error)
}

// HistorySaver persists a generated kit for a user.
type HistorySaver interface {
	Save(ctx context.Context, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error)
}

// StudyService orchestrates the extract-generate-save pipeline.
type StudyService struct {
	Extractor TextExtractor
	Producer  StudyKitProducer
	History   HistorySaver
}

// Process runs the pipeline for one upload. userID may be empty for
// anonymous use, in which case nothing is saved. Extraction and generation
// errors propagate to the caller; history-save errors do not.
func (s *StudyService) Process(ctx context.Context, in extract.Input, userID, topicName string) (domain.StudyKit, error) {
	ctx, span := studyTracer.Start(ctx, "StudyService.Process")
	defer span.End()

	text, err := s.Extractor.Extract(ctx, in)
	if err != nil {
		return domain.StudyKit{}, err
	}
	span.SetAttributes(attribute.Int("extracted_chars", len(text)))

	kit, err := s.Producer.Produce(ctx, text)
	if err != nil {
		return domain.StudyKit{}, err
	}

	if userID != "" && s.History != nil {
		if _, err := s.History.Save(ctx, userID, topicName, "", kit); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("history save failed, returning kit anyway")
		} else {
			log.Info().Str("user_id", userID).Msg("history saved")
		}
	}

	return kit, nil
}
