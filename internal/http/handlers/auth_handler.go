// Account HTTP handlers.
//
// This file exposes REST endpoints for account resources:
//   - POST /auth/register  (create account, returns token)
//   - POST /auth/login     (verify credentials, returns token)
//   - PUT  /auth/profile   (rename, replace or remove the profile image)
//   - PUT  /auth/password  (change password)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/services"
)

// AccountService defines account lifecycle operations consumed by HTTP
// handlers. Implementations should be safe for concurrent use and must
// honor the provided context for cancellation and timeouts.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*domain.Account, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// AuthHandlers groups the account endpoints.
type AuthHandlers struct {
	svc AccountService
	// uploadDir stores profile images, served statically under /uploads.
	uploadDir string
}

// NewAuthHandlers constructs an AuthHandlers instance.
func NewAuthHandlers(svc AccountService, uploadDir string) *AuthHandlers {
	return &AuthHandlers{svc: svc, uploadDir: uploadDir}
}

// userID extracts the authenticated user id from Gin context (set by the
// auth middleware when a valid bearer token is presented). When absent it
// falls back to the id the client sent in the request body, matching the
// API's optional-auth model.
func userID(c *gin.Context, bodyID string) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return strings.TrimSpace(bodyID)
}

//
// DTOs
//

// RegisterRequest is the JSON payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Ada Lovelace"`
	Email    string `json:"email" binding:"required" example:"ada@gmail.com"`
	Password string `json:"password" binding:"required" example:"Str0ng!pass"`
}

// LoginRequest is the JSON payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@gmail.com"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the JSON payload for a password change.
type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UserView is the account shape returned to clients. The password hash
// never leaves the service layer.
type UserView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// AuthResponse pairs a fresh token with the account it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func viewOf(a *domain.Account) UserView {
	return UserView{ID: a.ID, Name: a.Name, Email: a.Email, ProfileImage: a.ProfileImage}
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Validates the name, email, and password policy, creates the account, and returns a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure or duplicate email"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email and password are required")
		return
	}

	acc, token, err := h.svc.Register(c.Request.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.failAuth(c, err)
		return
	}
	ok(c, http.StatusCreated, AuthResponse{Token: token, User: viewOf(acc)})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	acc, token, err := h.svc.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, AuthResponse{Token: token, User: viewOf(acc)})
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Update profile
// @Description Updates the display name and/or profile image. Multipart form with optional "profileImage" file, "name", "userId", and "removeProfileImage" fields.
// @Tags        Auth
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       name                formData  string  false  "New display name"
// @Param       userId              formData  string  false  "Account ID (ignored when authenticated)"
// @Param       profileImage        formData  file    false  "New profile image"
// @Param       removeProfileImage  formData  string  false  "Set to true to clear the image"
//
// @Success     200  {object}  map[string]handlers.UserView
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown account"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/profile [put]
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	uid := userID(c, c.PostForm("userId"))
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId is required")
		return
	}

	upd := services.ProfileUpdate{
		RemoveImage: c.PostForm("removeProfileImage") == "true",
	}
	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		upd.Name = &name
	}
	if file, err := c.FormFile("profileImage"); err == nil && file != nil {
		path, err := h.saveProfileImage(c, file)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to store profile image")
			return
		}
		upd.ImagePath = path
	}

	acc, err := h.svc.UpdateProfile(c.Request.Context(), uid, upd)
	if err != nil {
		h.failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": viewOf(acc)})
}

// ChangePassword godoc
// @ID          changePassword
// @Summary     Change password
// @Description Verifies the current password and stores the new one.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ChangePasswordRequest  true  "Password change payload"
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Wrong current password or weak new password"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown account"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/password [put]
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "currentPassword and newPassword are required")
		return
	}
	uid := userID(c, req.UserID)
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId is required")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		h.failAuth(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// failAuth maps service errors to HTTP responses. Validation and credential
// failures are 400, unknown accounts 404, everything else 500.
func (h *AuthHandlers) failAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// saveProfileImage stores the uploaded image under the upload dir as
// profile-<timestamp><ext> and returns the relative path clients load it
// from via the static /uploads route.
func (h *AuthHandlers) saveProfileImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("profile-%d%s", time.Now().UnixNano(), ext)
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		return "", err
	}
	return "uploads/" + name, nil
}
