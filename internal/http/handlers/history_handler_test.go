package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/services"
)

// Flexible history service stub.
type stubHistorySvc struct {
	save   func(context.Context, string, string, string, domain.StudyKit) (*domain.History, error)
	list   func(context.Context, string, int) ([]domain.History, error)
	delete func(context.Context, string) error
}

func (s stubHistorySvc) Save(ctx context.Context, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error) {
	if s.save != nil {
		return s.save(ctx, userID, topic, subject, kit)
	}
	return &domain.History{ID: "h1", UserID: userID, Topic: topic, Subject: subject, Questions: kit}, nil
}

func (s stubHistorySvc) List(ctx context.Context, userID string, limit int) ([]domain.History, error) {
	if s.list != nil {
		return s.list(ctx, userID, limit)
	}
	return []domain.History{}, nil
}

func (s stubHistorySvc) Delete(ctx context.Context, id string) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return nil
}

func historyRouter(h *HistoryHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/history/save", h.Save)
	r.GET("/history/:userId", h.List)
	r.DELETE("/history/:id", h.Delete)
	return r
}

func TestHistorySave_Success_Validation_Internal(t *testing.T) {
	// Success -> 201 with the stored entry
	{
		r := historyRouter(NewHistoryHandlers(stubHistorySvc{}))

		body := `{"userId":"u1","topic":"algebra basics","questions":{"summary":"s","short":[{"q":"x?","a":"y"}]}}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/history/save", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("save -> %d body=%s", w.Code, w.Body.String())
		}
		var out domain.History
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.ID != "h1" || out.UserID != "u1" || out.Questions.Summary != "s" {
			t.Fatalf("unexpected entry: %#v", out)
		}
	}

	// No user -> 400
	{
		r := historyRouter(NewHistoryHandlers(stubHistorySvc{}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/history/save",
			bytes.NewBufferString(`{"questions":{"summary":"s"}}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("no user -> %d", w.Code)
		}
	}

	// Empty kit -> 400
	{
		r := historyRouter(NewHistoryHandlers(stubHistorySvc{}))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/history/save",
			bytes.NewBufferString(`{"userId":"u1","questions":{}}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("empty kit -> %d", w.Code)
		}
	}

	// Store failure -> 500
	{
		svc := stubHistorySvc{
			save: func(context.Context, string, string, string, domain.StudyKit) (*domain.History, error) {
				return nil, gorm.ErrInvalidDB
			},
		}
		r := historyRouter(NewHistoryHandlers(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/history/save",
			bytes.NewBufferString(`{"userId":"u1","questions":{"summary":"s"}}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("store failure -> %d", w.Code)
		}
	}
}

func TestHistoryList_LimitForwarded(t *testing.T) {
	var gotUser string
	var gotLimit int
	svc := stubHistorySvc{
		list: func(_ context.Context, uid string, limit int) ([]domain.History, error) {
			gotUser, gotLimit = uid, limit
			return []domain.History{
				{ID: "h2", UserID: uid, Topic: "Newest", CreatedAt: time.Now().UTC()},
				{ID: "h1", UserID: uid, Topic: "Older", CreatedAt: time.Now().UTC().Add(-time.Hour)},
			}, nil
		},
	}
	r := historyRouter(NewHistoryHandlers(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history/u3?limit=2", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	if gotUser != "u3" || gotLimit != 2 {
		t.Fatalf("forwarded user/limit = %q/%d", gotUser, gotLimit)
	}
	var out []domain.History
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out) != 2 || out[0].Topic != "Newest" {
		t.Fatalf("unexpected list: %#v", out)
	}
}

func TestHistoryList_BadLimitIgnored(t *testing.T) {
	var gotLimit = -1
	svc := stubHistorySvc{
		list: func(_ context.Context, _ string, limit int) ([]domain.History, error) {
			gotLimit = limit
			return []domain.History{}, nil
		},
	}
	r := historyRouter(NewHistoryHandlers(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history/u3?limit=abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	if gotLimit != 0 {
		t.Fatalf("bad limit should default to 0, got %d", gotLimit)
	}
	// Empty history serializes as [], not null.
	if w.Body.String() != "[]" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestHistoryDelete_Success_NotFound(t *testing.T) {
	{
		var gotID string
		svc := stubHistorySvc{
			delete: func(_ context.Context, id string) error {
				gotID = id
				return nil
			},
		}
		r := historyRouter(NewHistoryHandlers(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/history/h42", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("delete -> %d", w.Code)
		}
		if gotID != "h42" {
			t.Fatalf("forwarded id = %q", gotID)
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json: %v", err)
		}
		if resp["message"] != "History item deleted successfully" {
			t.Fatalf("message = %q", resp["message"])
		}
	}

	{
		svc := stubHistorySvc{
			delete: func(context.Context, string) error { return services.ErrHistoryNotFound },
		}
		r := historyRouter(NewHistoryHandlers(svc))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/history/ghost", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("missing entry -> %d", w.Code)
		}
	}
}
