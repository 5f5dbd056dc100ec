package booking

import "errors"

// Workflow errors. Callers match them with errors.Is.
var (
	ErrInvalidRange        = errors.New("check-in must be before check-out")
	ErrInvalidGuests       = errors.New("guest count exceeds room capacity or is not positive")
	ErrRoomUnavailable     = errors.New("room is not available for the selected dates")
	ErrInvalidState        = errors.New("operation not allowed in the booking's current status")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("not allowed to act on this booking")
	ErrPaymentCollaborator = errors.New("payment provider error")
)
