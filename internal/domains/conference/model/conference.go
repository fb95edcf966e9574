package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/shared/keys"
)

// Defaults applied when a conference is created with fields omitted.
// They are stored, not just rendered, so later reads see the same values.
var DefaultTopics = []string{"Default", "Topic"}

const (
	DefaultCity = "Default City"

	dateLayout = "2006-01-02"
)

// Conference is owned by the organizer profile that created it.
type Conference struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizerID    uuid.UUID  `json:"organizer_id" db:"organizer_id"`
	Name           string     `json:"name" db:"name"`
	Description    *string    `json:"description" db:"description"`
	Topics         []string   `json:"topics" db:"topics"`
	City           string     `json:"city" db:"city"`
	StartDate      *time.Time `json:"start_date" db:"start_date"`
	EndDate        *time.Time `json:"end_date" db:"end_date"`
	Month          int        `json:"month" db:"month"`
	MaxAttendees   int        `json:"max_attendees" db:"max_attendees"`
	SeatsAvailable int        `json:"seats_available" db:"seats_available"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// ConferenceForm is the inbound payload for create and update.
// On update, empty fields leave the stored values untouched.
type ConferenceForm struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	MaxAttendees *int     `json:"maxAttendees"`
}

func (f ConferenceForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.MaxAttendees, validation.Min(0)),
	)
}

// ConferenceResponse is the outbound wire shape. The organizer is
// rendered by display name, never by id.
type ConferenceResponse struct {
	WebsafeKey           string   `json:"websafeKey"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"startDate,omitempty"`
	EndDate              string   `json:"endDate,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"maxAttendees"`
	SeatsAvailable       int      `json:"seatsAvailable"`
	OrganizerDisplayName string   `json:"organizerDisplayName,omitempty"`
}

func (c *Conference) ToResponse(organizerDisplayName string) ConferenceResponse {
	resp := ConferenceResponse{
		WebsafeKey:           keys.Encode(keys.KindConference, c.ID),
		Name:                 c.Name,
		Topics:               c.Topics,
		City:                 c.City,
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
		OrganizerDisplayName: organizerDisplayName,
	}
	if c.Description != nil {
		resp.Description = *c.Description
	}
	if c.StartDate != nil {
		resp.StartDate = c.StartDate.Format(dateLayout)
	}
	if c.EndDate != nil {
		resp.EndDate = c.EndDate.Format(dateLayout)
	}
	return resp
}

// FromForm builds a new conference from the create form, filling in
// defaults and deriving month and seats_available.
func FromForm(f ConferenceForm, organizerID uuid.UUID) (*Conference, error) {
	now := time.Now().UTC()
	c := &Conference{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Name:        f.Name,
		City:        DefaultCity,
		Topics:      append([]string(nil), DefaultTopics...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if f.Description != "" {
		d := f.Description
		c.Description = &d
	}
	if len(f.Topics) > 0 {
		c.Topics = f.Topics
	}
	if f.City != "" {
		c.City = f.City
	}
	if f.StartDate != "" {
		d, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return nil, conference.ErrInvalidDate
		}
		c.StartDate = &d
		c.Month = int(d.Month())
	}
	if f.EndDate != "" {
		d, err := time.Parse(dateLayout, f.EndDate)
		if err != nil {
			return nil, conference.ErrInvalidDate
		}
		c.EndDate = &d
	}
	if f.MaxAttendees != nil {
		c.MaxAttendees = *f.MaxAttendees
	}

	// Every seat starts open
	c.SeatsAvailable = c.MaxAttendees

	return c, nil
}

// ApplyUpdate copies the fields the caller provided onto the stored
// conference. Month follows the start date. seats_available is managed
// by registration only and is never touched here.
func (c *Conference) ApplyUpdate(f ConferenceForm) error {
	if f.Name != "" {
		c.Name = f.Name
	}
	if f.Description != "" {
		d := f.Description
		c.Description = &d
	}
	if len(f.Topics) > 0 {
		c.Topics = f.Topics
	}
	if f.City != "" {
		c.City = f.City
	}
	if f.StartDate != "" {
		d, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return conference.ErrInvalidDate
		}
		c.StartDate = &d
		c.Month = int(d.Month())
	}
	if f.EndDate != "" {
		d, err := time.Parse(dateLayout, f.EndDate)
		if err != nil {
			return conference.ErrInvalidDate
		}
		c.EndDate = &d
	}
	if f.MaxAttendees != nil {
		c.MaxAttendees = *f.MaxAttendees
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
