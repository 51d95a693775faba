// Repository functions for the History model. Same conventions as the
// account repository: context-aware free functions over a *gorm.DB,
// ErrNotFound for missing rows, raw gorm errors otherwise.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ailearnpro/go-study-backend/internal/domain"
)

// CreateHistory inserts one saved study kit for userID.
func CreateHistory(ctx context.Context, db *gorm.DB, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error) {
	h := &domain.History{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     topic,
		Subject:   subject,
		Questions: kit,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

// ListHistory returns the saved kits of userID, most recent first. When
// limit is positive the result is capped at limit rows. It returns an
// empty slice if the user has nothing saved.
func ListHistory(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.History, error) {
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.History
	err := q.Find(&out).Error
	return out, err
}

// DeleteHistory removes the entry by primary key. The delete is permanent.
// If no rows are affected, it returns ErrNotFound.
func DeleteHistory(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.History{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
