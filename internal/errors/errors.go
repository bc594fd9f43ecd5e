package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal server
var (
	// Access errors
	ErrInvalidEmail    = errors.New("invalid email")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidPasscode = errors.New("invalid passcode")

	// Configuration errors
	ErrPasscodeNotConfigured = errors.New("passcode not configured")
	ErrStoreNotConfigured    = errors.New("session store not configured")

	// Session errors
	ErrSessionNotFound  = errors.New("session record not found")
	ErrInvalidSessionID = errors.New("invalid session record id")

	// Content errors
	ErrContentNotFound = errors.New("content not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
