package speaker

import "errors"

// Repository-level errors
var (
	ErrSpeakerNotFound = errors.New("speaker not found")
)

// Validation errors
var (
	ErrDisplayNameRequired = errors.New("speaker displayName is required")
)
