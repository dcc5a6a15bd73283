package domain

import "errors"

// Domain errors raised by the Account entity. The console layer renders
// these as one-line messages and resumes its menu loop.
var (
	// ErrInvalidAccount signals a malformed field at construction time.
	// It is always wrapped with the name of the offending field.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrNegativeBalance is returned whenever a balance would go below zero.
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrEmptyStatus is returned when a status update carries an empty label.
	ErrEmptyStatus = errors.New("status cannot be empty")

	// ErrInvalidPIN is returned when a creation-time PIN is not exactly
	// five ASCII digits.
	ErrInvalidPIN = errors.New("pin must be exactly 5 digits")
)
