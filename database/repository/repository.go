package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document matches the given identifier.
	ErrNotFound = errors.New("document not found")
	// ErrStatusConflict is returned when a conditional update finds the
	// document in a different state than the caller expected.
	ErrStatusConflict = errors.New("status conflict")
	// ErrNightTaken is returned when a room night is already claimed by another booking.
	ErrNightTaken = errors.New("room night already claimed")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)

// DefaultTimeout bounds every single repository call.
const DefaultTimeout = 5 * time.Second

// WithTimeout derives a per-call context from the caller's context.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultTimeout)
}
