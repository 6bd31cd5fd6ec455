// Package repository defines error values that are reused across multiple
// repositories and the booking service. These sentinel values let higher
// layers such as handlers distinguish failure scenarios with errors.Is
// without inspecting store-level error strings.
package repository

import "errors"

// ErrNoShowsAvailable is returned by show resolution when the shows table
// is empty, i.e. even the fallback-any tier found nothing. It aborts the
// booking before anything is written. Handlers should translate this into
// an HTTP 404 response.
var ErrNoShowsAvailable = errors.New("no shows available")

// ErrBookingFailed wraps any store-level error raised inside the booking
// transaction. The transaction has been rolled back by the time this is
// returned; the underlying cause is attached for logging but handlers
// should surface only a generic failure.
var ErrBookingFailed = errors.New("booking failed")

// ErrReadFailed wraps failures of the booking history query. No retry is
// performed; callers decide whether to retry.
var ErrReadFailed = errors.New("read failed")

// ErrEmailExists is returned when registering a user whose email is
// already taken. Handlers should translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")
