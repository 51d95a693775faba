// History HTTP handlers.
//
// Endpoints:
//   - POST   /history/save     (persist a generated study kit)
//   - GET    /history/:userId  (list saved kits, newest first)
//   - DELETE /history/:id      (remove one saved kit)
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/services"
	"github.com/ailearnpro/go-study-backend/internal/utils"
)

// HistoryAPI defines the history operations consumed by HTTP handlers.
type HistoryAPI interface {
	Save(ctx context.Context, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error)
	List(ctx context.Context, userID string, limit int) ([]domain.History, error)
	Delete(ctx context.Context, id string) error
}

// HistoryHandlers groups the history endpoints.
type HistoryHandlers struct {
	svc HistoryAPI
}

// NewHistoryHandlers constructs a HistoryHandlers instance.
func NewHistoryHandlers(svc HistoryAPI) *HistoryHandlers {
	return &HistoryHandlers{svc: svc}
}

// SaveHistoryRequest is the JSON payload for persisting a study kit.
type SaveHistoryRequest struct {
	UserID    string          `json:"userId"`
	Topic     string          `json:"topic"`
	Subject   string          `json:"subject"`
	Questions domain.StudyKit `json:"questions"`
}

// Save godoc
// @ID          saveHistory
// @Summary     Save a study kit
// @Description Persists a generated study kit to the caller's history.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SaveHistoryRequest  true  "History payload"
//
// @Success     201  {object}  domain.History
// @Failure     400  {object}  handlers.ErrorResponse  "Missing user or empty kit"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history/save [post]
func (h *HistoryHandlers) Save(c *gin.Context) {
	var req SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	uid := userID(c, req.UserID)
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId is required")
		return
	}
	if req.Questions.Empty() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "questions are required")
		return
	}

	entry, err := h.svc.Save(c.Request.Context(), uid, req.Topic, req.Subject, req.Questions)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, "failed to save history")
		return
	}
	ok(c, http.StatusCreated, entry)
}

// List godoc
// @ID          listHistory
// @Summary     List saved study kits
// @Description Returns the caller's saved study kits, newest first. An optional "limit" query caps the result count.
// @Tags        History
// @Produce     json
//
// @Param       userId  path   string  true   "Account ID"
// @Param       limit   query  int     false  "Maximum entries to return"
//
// @Success     200  {array}   domain.History
// @Failure     400  {object}  handlers.ErrorResponse  "Missing user ID"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history/{userId} [get]
func (h *HistoryHandlers) List(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("userId"))
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId is required")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	entries, err := h.svc.List(c.Request.Context(), uid, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to load history")
		return
	}
	ok(c, http.StatusOK, entries)
}

// Delete godoc
// @ID          deleteHistory
// @Summary     Delete a saved study kit
// @Description Removes a single history entry by ID.
// @Tags        History
// @Produce     json
//
// @Param       id  path  string  true  "History entry ID"
//
// @Success     200  {object}  map[string]string
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown entry"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /history/{id} [delete]
func (h *HistoryHandlers) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrHistoryNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "History item not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to delete history")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "History item deleted successfully"})
}
