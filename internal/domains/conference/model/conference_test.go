package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-backend/internal/domains/conference"
)

func TestFromForm_Defaults(t *testing.T) {
	organizer := uuid.New()

	c, err := FromForm(ConferenceForm{Name: "GopherCon"}, organizer)
	require.NoError(t, err)

	assert.Equal(t, "GopherCon", c.Name)
	assert.Equal(t, organizer, c.OrganizerID)
	assert.Equal(t, DefaultCity, c.City)
	assert.Equal(t, DefaultTopics, c.Topics)
	assert.Equal(t, 0, c.MaxAttendees)
	assert.Equal(t, 0, c.SeatsAvailable)
	assert.Equal(t, 0, c.Month)
	assert.Nil(t, c.StartDate)
}

func TestFromForm_DerivedFields(t *testing.T) {
	max := 100
	c, err := FromForm(ConferenceForm{
		Name:         "GopherCon",
		City:         "Berlin",
		Topics:       []string{"Go", "Cloud"},
		StartDate:    "2026-09-14",
		EndDate:      "2026-09-16",
		MaxAttendees: &max,
	}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Berlin", c.City)
	assert.Equal(t, []string{"Go", "Cloud"}, c.Topics)
	assert.Equal(t, 9, c.Month)
	assert.Equal(t, 100, c.MaxAttendees)
	assert.Equal(t, 100, c.SeatsAvailable)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2026-09-14", c.StartDate.Format("2006-01-02"))
}

func TestFromForm_InvalidDate(t *testing.T) {
	_, err := FromForm(ConferenceForm{Name: "X", StartDate: "14/09/2026"}, uuid.New())
	assert.ErrorIs(t, err, conference.ErrInvalidDate)

	_, err = FromForm(ConferenceForm{Name: "X", EndDate: "tomorrow"}, uuid.New())
	assert.ErrorIs(t, err, conference.ErrInvalidDate)
}

func TestApplyUpdate_PartialFields(t *testing.T) {
	max := 50
	c, err := FromForm(ConferenceForm{
		Name:         "Original",
		City:         "Oslo",
		StartDate:    "2026-03-01",
		MaxAttendees: &max,
	}, uuid.New())
	require.NoError(t, err)
	c.SeatsAvailable = 20 // some registrations happened

	err = c.ApplyUpdate(ConferenceForm{Description: "Now with workshops"})
	require.NoError(t, err)

	// Provided field applied
	require.NotNil(t, c.Description)
	assert.Equal(t, "Now with workshops", *c.Description)

	// Everything omitted stays put
	assert.Equal(t, "Original", c.Name)
	assert.Equal(t, "Oslo", c.City)
	assert.Equal(t, 3, c.Month)
	assert.Equal(t, 50, c.MaxAttendees)
	assert.Equal(t, 20, c.SeatsAvailable)
}

func TestApplyUpdate_StartDateRecomputesMonth(t *testing.T) {
	c, err := FromForm(ConferenceForm{Name: "X", StartDate: "2026-03-01"}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 3, c.Month)

	err = c.ApplyUpdate(ConferenceForm{StartDate: "2026-11-20"})
	require.NoError(t, err)
	assert.Equal(t, 11, c.Month)
}

func TestToResponse(t *testing.T) {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	desc := "desc"
	c := &Conference{
		ID:             uuid.New(),
		Name:           "GopherCon",
		Description:    &desc,
		Topics:         []string{"Go"},
		City:           "Berlin",
		StartDate:      &start,
		Month:          7,
		MaxAttendees:   10,
		SeatsAvailable: 4,
	}

	resp := c.ToResponse("Alex")

	assert.NotEmpty(t, resp.WebsafeKey)
	assert.Equal(t, "GopherCon", resp.Name)
	assert.Equal(t, "desc", resp.Description)
	assert.Equal(t, "2026-07-01", resp.StartDate)
	assert.Empty(t, resp.EndDate)
	assert.Equal(t, 4, resp.SeatsAvailable)
	assert.Equal(t, "Alex", resp.OrganizerDisplayName)
}
