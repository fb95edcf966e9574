package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conference-backend/internal/shared/keys"
)

// Speaker is a standalone entity so several sessions, possibly in
// different conferences, can reference the same person.
type Speaker struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	MainEmail   *string   `json:"main_email" db:"main_email"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SpeakerForm is the inbound create payload.
type SpeakerForm struct {
	DisplayName string `json:"displayName"`
	MainEmail   string `json:"mainEmail"`
}

func (f SpeakerForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.DisplayName, validation.Required),
	)
}

// SpeakerResponse is the outbound wire shape. The websafe key replaces
// the raw uuid.
type SpeakerResponse struct {
	WebsafeKey  string `json:"websafeKey"`
	DisplayName string `json:"displayName"`
	MainEmail   string `json:"mainEmail,omitempty"`
}

// ToResponse maps the entity to its wire shape.
func (s *Speaker) ToResponse() SpeakerResponse {
	resp := SpeakerResponse{
		WebsafeKey:  keys.Encode(keys.KindSpeaker, s.ID),
		DisplayName: s.DisplayName,
	}
	if s.MainEmail != nil {
		resp.MainEmail = *s.MainEmail
	}
	return resp
}

// FromForm builds a new entity from the validated form.
func FromForm(f SpeakerForm) *Speaker {
	s := &Speaker{
		ID:          uuid.New(),
		DisplayName: f.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}
	if f.MainEmail != "" {
		email := f.MainEmail
		s.MainEmail = &email
	}
	return s
}
