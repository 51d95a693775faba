// Package services – HistoryService
//
// Saved study kits per user. Topic strings are normalized before storage so
// dashboard listings look consistent regardless of how the client cased
// them.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/repo"
)

// DefaultTopic is stored when the client provides no topic name.
const DefaultTopic = "Generated Study Kit"

// DefaultSubject is stored when the client provides no subject.
const DefaultSubject = "General"

// HistoryRepo defines the repository contract required by HistoryService.
type HistoryRepo interface {
	CreateHistory(ctx context.Context, db *gorm.DB, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error)
	ListHistory(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.History, error)
	DeleteHistory(ctx context.Context, db *gorm.DB, id string) error
}

// HistoryService provides history CRUD on top of the repository.
type HistoryService struct {
	DB   *gorm.DB
	Repo HistoryRepo

	titleCaser cases.Caser
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(db *gorm.DB, r HistoryRepo) *HistoryService {
	return &HistoryService{
		DB:         db,
		Repo:       r,
		titleCaser: cases.Title(language.English, cases.NoLower),
	}
}

// Save persists one study kit for the user, applying topic and subject
// defaults and normalization.
func (s *HistoryService) Save(ctx context.Context, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error) {
	return s.Repo.CreateHistory(ctx, s.DB, userID, s.normalizeTopic(topic), normalizeSubject(subject), kit)
}

// List returns the user's saved kits, most recent first. A non-positive
// limit returns everything.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]domain.History, error) {
	items, err := s.Repo.ListHistory(ctx, s.DB, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.History{}
	}
	return items, nil
}

// Delete permanently removes one saved kit by ID.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteHistory(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrHistoryNotFound
		}
		return err
	}
	return nil
}

// normalizeTopic trims and title-cases the topic, falling back to
// DefaultTopic when blank.
func (s *HistoryService) normalizeTopic(topic string) string {
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" {
		return DefaultTopic
	}
	return s.titleCaser.String(topic)
}

func normalizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return DefaultSubject
	}
	return subject
}
