// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the dialogue layer. Everything except
// *ValidationError aborts the caller's flow; ValidationError is recoverable
// and reprompts the same step.
var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrPollClosed       = errors.New("poll is closed")
	ErrAlreadyEnded     = errors.New("poll already ended")
	ErrForbidden        = errors.New("not allowed")
	ErrDuplicateVote    = errors.New("already voted in this poll")
	ErrInvalidOption    = errors.New("option not offered by this poll")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports malformed or out-of-range input, naming the
// violated bound. Matched with errors.As.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storeErr tags a database failure so the dialogue layer can recognize the
// transient kind with errors.Is(err, ErrStoreUnavailable).
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
