// Package services defines the business logic for accounts, study kit
// generation, and history. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Account-related errors. The messages double as the user-facing text the
// handlers return, so they are written for end users.
var (
	// ErrInvalidName is returned when a display name fails validation.
	ErrInvalidName = errors.New("Name must be 3-30 characters long and contain only letters.")

	// ErrInvalidEmail is returned when an email fails the address policy.
	ErrInvalidEmail = errors.New("Please enter a valid @gmail.com address (max 50 chars).")

	// ErrInvalidPassword is returned when a password fails the strength policy.
	ErrInvalidPassword = errors.New("Password must be 8+ characters with 1 Uppercase, 1 Number, and 1 Symbol.")

	// ErrEmailTaken is returned on registration with an already-used email.
	ErrEmailTaken = errors.New("User already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password on
	// login, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrAccountNotFound indicates the referenced account does not exist.
	ErrAccountNotFound = errors.New("User not found")

	// ErrWrongPassword is returned by password change when the current
	// password does not match.
	ErrWrongPassword = errors.New("Incorrect current password")
)

// History-related errors.
var (
	// ErrHistoryNotFound indicates the requested history entry does not exist.
	ErrHistoryNotFound = errors.New("history entry not found")
)
