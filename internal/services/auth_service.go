// Package services – AuthService
//
// This file implements account registration, login, profile updates, and
// password changes. It owns the validation policy (strict Gmail-only
// addresses, letter-only names, strong passwords), password hashing, token
// minting, and the best-effort notification emails that accompany signup
// and login.
//
// Service-level errors (e.g., ErrInvalidCredentials) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/repo"
)

var authTracer = otel.Tracer("services/auth")

// Validation policy, shared with the frontend.
var (
	nameRE  = regexp.MustCompile(`^[A-Za-z\s]{3,30}$`)
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
)

const maxEmailLen = 50

// ValidName reports whether the display name satisfies the policy:
// letters and spaces only, 3 to 30 characters.
func ValidName(name string) bool { return nameRE.MatchString(name) }

// ValidEmail reports whether the address satisfies the policy: at most 50
// characters and a @gmail.com address. Only Gmail is accepted.
func ValidEmail(email string) bool {
	return len(email) <= maxEmailLen && emailRE.MatchString(email)
}

// ValidPassword reports whether the password satisfies the policy: at
// least 8 characters with one uppercase letter, one digit, one symbol.
func ValidPassword(password string) bool {
	// Go's regexp has no lookahead, so the compound rule is checked
	// clause by clause.
	if len(password) < 8 {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9'):
			symbol = true
		}
	}
	return upper && digit && symbol
}

// AccountRepo defines the repository contract required by AuthService.
type AccountRepo interface {
	CreateAccount(ctx context.Context, db *gorm.DB, name, email, passwordHash string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, db *gorm.DB, id string) (*domain.Account, error)
	UpdateAccountProfile(ctx context.Context, db *gorm.DB, id string, updates map[string]any) (*domain.Account, error)
	UpdateAccountPassword(ctx context.Context, db *gorm.DB, id, passwordHash string) error
}

// AuthService provides account lifecycle operations.
type AuthService struct {
	DB     *gorm.DB
	Repo   AccountRepo
	Tokens *TokenIssuer
	Mailer Mailer

	// BcryptCost controls hashing work factor; bcrypt.DefaultCost when zero.
	BcryptCost int
}

// ProfileUpdate describes a profile change request. A nil Name leaves the
// name alone. ImagePath replaces the stored image; RemoveImage clears it.
type ProfileUpdate struct {
	Name        *string
	ImagePath   string
	RemoveImage bool
}

func (s *AuthService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// Register validates the input, creates the account, sends a welcome email
// in the background, and returns the account with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, string, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if !ValidName(name) {
		return nil, "", ErrInvalidName
	}
	if !ValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if !ValidPassword(password) {
		return nil, "", ErrInvalidPassword
	}

	if _, err := s.Repo.GetAccountByEmail(ctx, s.DB, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, "", err
	}

	acc, err := s.Repo.CreateAccount(ctx, s.DB, name, email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return nil, "", err
	}

	s.notify(acc.Email, "Welcome to AI LearnPro!",
		"Hi "+acc.Name+",\n\nThank you for signing up!")

	return acc, token, nil
}

// Login verifies credentials, sends a login-notification email in the
// background, and returns the account with a fresh token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if !ValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	acc, err := s.Repo.GetAccountByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return nil, "", err
	}

	s.notify(acc.Email, "New Login Detected",
		"Hi "+acc.Name+",\n\nWe detected a new login to your account.")

	return acc, token, nil
}

// UpdateProfile applies the requested profile changes and returns the
// refreshed account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.Account, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	updates := map[string]any{}
	if upd.Name != nil {
		if !ValidName(*upd.Name) {
			return nil, ErrInvalidName
		}
		updates["name"] = *upd.Name
	}
	switch {
	case upd.ImagePath != "":
		updates["profile_image"] = upd.ImagePath
	case upd.RemoveImage:
		updates["profile_image"] = ""
	}

	acc, err := s.Repo.UpdateAccountProfile(ctx, s.DB, userID, updates)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

// ChangePassword verifies the current password, validates the new one, and
// stores its hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	acc, err := s.Repo.GetAccountByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}
	if !ValidPassword(newPassword) {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost())
	if err != nil {
		return err
	}
	return s.Repo.UpdateAccountPassword(ctx, s.DB, userID, string(hash))
}

// notify sends a notification email in the background. Failures are logged
// and never surfaced; the triggering request has already succeeded.
func (s *AuthService) notify(to, subject, body string) {
	if s.Mailer == nil {
		return
	}
	go func() {
		if err := s.Mailer.Send(context.Background(), to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("notification email failed")
		}
	}()
}
