package conference

import "errors"

// Repository-level errors
var (
	ErrConferenceNotFound = errors.New("conference not found")
)

// Business logic errors
var (
	// Conflict
	ErrAlreadyRegistered  = errors.New("already registered for this conference")
	ErrNoSeatsAvailable   = errors.New("no seats available")
	ErrCapacityBelowSeats = errors.New("max attendees cannot be lower than seats available")

	// Authorization
	ErrNotOwner = errors.New("only the conference organizer can update it")
)

// Validation errors
var (
	ErrNameRequired = errors.New("conference name is required")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)
