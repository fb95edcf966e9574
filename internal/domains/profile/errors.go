package profile

import "errors"

// Repository-level errors
var (
	ErrProfileNotFound = errors.New("profile not found")

	// Conflict
	ErrAlreadyInWishlist = errors.New("session already in wishlist")
)

// Validation errors
var (
	ErrInvalidTeeShirtSize = errors.New("invalid tee shirt size")
)
