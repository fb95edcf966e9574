package session

import "errors"

// Repository-level errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Validation errors
var (
	ErrSessionNameRequired = errors.New("session sessionName is required")
	ErrSpeakerRequired     = errors.New("session speaker is required")
	ErrInvalidSessionType  = errors.New("invalid session type")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStartTime    = errors.New("invalid start time, expected HH:MM")
)

// Authorization errors
var (
	ErrNotConferenceOwner = errors.New("only the conference organizer can add sessions")
)
