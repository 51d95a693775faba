package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ailearnpro/go-study-backend/internal/domain"
)

func TestCreateHistory_RoundTrip(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	kit := domain.StudyKit{
		Summary:         "Sorting algorithms overview.",
		ShortQuestions:  []domain.QAPair{{Question: "What is a stable sort?", Answer: "Preserves equal-key order."}},
		MediumQuestions: []domain.QAPair{{Question: "Compare quicksort and mergesort.", Answer: "..."}},
	}
	h, err := CreateHistory(ctx, db, "u1", "Sorting", "Algorithms", kit)
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	if h.ID == "" || h.Subject != "Algorithms" {
		t.Fatalf("unexpected history: %+v", h)
	}

	got, err := ListHistory(ctx, db, "u1", 0)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Questions.Summary != kit.Summary || len(got[0].Questions.ShortQuestions) != 1 {
		t.Fatalf("kit did not round-trip: %+v", got[0].Questions)
	}
}

func TestListHistory_OrderAndLimitAndIsolation(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	// Insert with distinct timestamps so the ordering is deterministic.
	base := time.Now().UTC().Add(-time.Hour)
	for i, topic := range []string{"First", "Second", "Third"} {
		h := &domain.History{
			ID:        topic,
			UserID:    "u1",
			Topic:     topic,
			Subject:   "General",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(h).Error; err != nil {
			t.Fatalf("seed %s: %v", topic, err)
		}
	}
	other := &domain.History{ID: "other", UserID: "u2", Topic: "Other", Subject: "General", CreatedAt: base}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}

	got, err := ListHistory(ctx, db, "u1", 0)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Topic != "Third" || got[2].Topic != "First" {
		t.Fatalf("not newest-first: %s, %s, %s", got[0].Topic, got[1].Topic, got[2].Topic)
	}

	capped, err := ListHistory(ctx, db, "u1", 2)
	if err != nil {
		t.Fatalf("ListHistory limit: %v", err)
	}
	if len(capped) != 2 || capped[0].Topic != "Third" {
		t.Fatalf("limit not applied: %+v", capped)
	}

	empty, err := ListHistory(ctx, db, "u3", 0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty slice for unknown user, got %v / %v", empty, err)
	}
}

func TestDeleteHistory(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	h, err := CreateHistory(ctx, db, "u1", "Topic", "General", domain.StudyKit{})
	if err != nil {
		t.Fatalf("CreateHistory: %v", err)
	}
	if err := DeleteHistory(ctx, db, h.ID); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}

	// Gone for real, not soft-deleted.
	var count int64
	if err := db.Model(&domain.History{}).Where("id = ?", h.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("row still present after delete")
	}

	if err := DeleteHistory(ctx, db, h.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
