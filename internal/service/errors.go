// Package service implements the business rules of the clinic core:
// the appointment lifecycle, the versioned price catalog and the
// daily cash reconciliation. Services accept store interfaces and
// return sentinel-wrapped errors so handlers can map outcomes to
// distinct HTTP conditions instead of generic failures.
package service

import "errors"

// ErrValidation marks input rejected before any mutation. The
// wrapped message is safe to show to the caller.
var ErrValidation = errors.New("validation failed")

// ErrNotFound reports an unknown booking id or a missing required row.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition reports a status change along a disallowed
// edge of the lifecycle, such as receiving a cancelled booking.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrAlreadyClosed reports an attempt to close a cash date that
// already has a frozen closing.
var ErrAlreadyClosed = errors.New("date already closed")

// ErrNothingToClose reports an attempt to close a date with no
// received bookings; an empty closing is never persisted.
var ErrNothingToClose = errors.New("nothing to close")
