package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conference-backend/internal/domains/session"
	"conference-backend/internal/shared/keys"
)

// SessionType enumerates the supported session formats.
type SessionType string

const (
	TypeLecture  SessionType = "LECTURE"
	TypeWorkshop SessionType = "WORKSHOP"
	TypeKeynote  SessionType = "KEYNOTE"
)

// ParseSessionType validates and normalizes an inbound type name.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case TypeLecture, TypeWorkshop, TypeKeynote:
		return SessionType(s), nil
	default:
		return "", session.ErrInvalidSessionType
	}
}

const (
	DefaultDuration = 60 // minutes

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Session belongs to exactly one conference and references one speaker.
type Session struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	ConferenceID  uuid.UUID   `json:"conference_id" db:"conference_id"`
	SpeakerID     uuid.UUID   `json:"speaker_id" db:"speaker_id"`
	SessionName   string      `json:"session_name" db:"session_name"`
	Highlights    *string     `json:"highlights" db:"highlights"`
	Duration      int         `json:"duration" db:"duration"`
	TypeOfSession SessionType `json:"type_of_session" db:"type_of_session"`
	Date          *time.Time  `json:"date" db:"date"`
	StartTime     *time.Time  `json:"start_time" db:"start_time"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// SessionForm is the inbound create payload. Duration uses a pointer so
// an omitted value can fall back to the default while an explicit zero
// still counts as provided.
type SessionForm struct {
	SessionName   string `json:"sessionName"`
	Highlights    string `json:"highlights"`
	SpeakerKey    string `json:"speakerKey"`
	Duration      *int   `json:"duration"`
	TypeOfSession string `json:"typeOfSession"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
}

func (f SessionForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.SessionName, validation.Required),
		validation.Field(&f.SpeakerKey, validation.Required),
		validation.Field(&f.Duration, validation.Min(0)),
	)
}

// SessionResponse is the outbound wire shape.
type SessionResponse struct {
	WebsafeKey    string `json:"websafeKey"`
	SessionName   string `json:"sessionName"`
	Highlights    string `json:"highlights,omitempty"`
	SpeakerKey    string `json:"speakerKey"`
	Duration      int    `json:"duration"`
	TypeOfSession string `json:"typeOfSession"`
	Date          string `json:"date,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
}

func (s *Session) ToResponse() SessionResponse {
	resp := SessionResponse{
		WebsafeKey:    keys.Encode(keys.KindSession, s.ID),
		SessionName:   s.SessionName,
		SpeakerKey:    keys.Encode(keys.KindSpeaker, s.SpeakerID),
		Duration:      s.Duration,
		TypeOfSession: string(s.TypeOfSession),
	}
	if s.Highlights != nil {
		resp.Highlights = *s.Highlights
	}
	if s.Date != nil {
		resp.Date = s.Date.Format(dateLayout)
	}
	if s.StartTime != nil {
		resp.StartTime = s.StartTime.Format(timeLayout)
	}
	return resp
}

// ToResponses maps a slice of entities.
func ToResponses(sessions []Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessions[i].ToResponse())
	}
	return out
}

// FromForm builds a new entity from the validated form, applying the
// default duration and type for omitted fields.
func FromForm(f SessionForm, conferenceID, speakerID uuid.UUID) (*Session, error) {
	s := &Session{
		ID:            uuid.New(),
		ConferenceID:  conferenceID,
		SpeakerID:     speakerID,
		SessionName:   f.SessionName,
		Duration:      DefaultDuration,
		TypeOfSession: TypeLecture,
		CreatedAt:     time.Now().UTC(),
	}

	if f.Highlights != "" {
		h := f.Highlights
		s.Highlights = &h
	}
	if f.Duration != nil {
		s.Duration = *f.Duration
	}
	if f.TypeOfSession != "" {
		t, err := ParseSessionType(f.TypeOfSession)
		if err != nil {
			return nil, err
		}
		s.TypeOfSession = t
	}
	if f.Date != "" {
		d, err := time.Parse(dateLayout, f.Date)
		if err != nil {
			return nil, session.ErrInvalidDate
		}
		s.Date = &d
	}
	if f.StartTime != "" {
		t, err := time.Parse(timeLayout, f.StartTime)
		if err != nil {
			return nil, session.ErrInvalidStartTime
		}
		s.StartTime = &t
	}

	return s, nil
}
