package service

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/query"
	profiledomain "conference-backend/internal/domains/profile"
	profilemodel "conference-backend/internal/domains/profile/model"
	"conference-backend/internal/shared"
)

// ========================================
// TEST DOUBLES
// ========================================

type fakeConferenceRepo struct {
	conferences   map[uuid.UUID]*model.Conference
	registrations map[string]bool // profileID:conferenceID
	invalidated   []uuid.UUID
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{
		conferences:   make(map[uuid.UUID]*model.Conference),
		registrations: make(map[string]bool),
	}
}

func regKey(profileID, conferenceID uuid.UUID) string {
	return profileID.String() + ":" + conferenceID.String()
}

func (r *fakeConferenceRepo) Create(_ context.Context, c *model.Conference) error {
	cp := *c
	r.conferences[c.ID] = &cp
	return nil
}

func (r *fakeConferenceRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Conference, error) {
	c, ok := r.conferences[id]
	if !ok {
		return nil, conference.ErrConferenceNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConferenceRepo) Update(_ context.Context, c *model.Conference) error {
	if _, ok := r.conferences[c.ID]; !ok {
		return conference.ErrConferenceNotFound
	}
	cp := *c
	r.conferences[c.ID] = &cp
	return nil
}

func (r *fakeConferenceRepo) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]model.Conference, error) {
	var out []model.Conference
	for _, c := range r.conferences {
		if c.OrganizerID == organizerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConferenceRepo) ListAttending(_ context.Context, profileID uuid.UUID) ([]model.Conference, error) {
	var out []model.Conference
	for _, c := range r.conferences {
		if r.registrations[regKey(profileID, c.ID)] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConferenceRepo) Query(_ context.Context, _ *query.Query) ([]model.Conference, error) {
	var out []model.Conference
	for _, c := range r.conferences {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeConferenceRepo) ListNearlySoldOut(_ context.Context, maxSeats int) ([]model.Conference, error) {
	var out []model.Conference
	for _, c := range r.conferences {
		if c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConferenceRepo) InTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (r *fakeConferenceRepo) GetForUpdateTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.Conference, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeConferenceRepo) IsRegisteredTx(_ context.Context, _ pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error) {
	return r.registrations[regKey(profileID, conferenceID)], nil
}

func (r *fakeConferenceRepo) AddRegistrationTx(_ context.Context, _ pgx.Tx, profileID, conferenceID uuid.UUID) error {
	r.registrations[regKey(profileID, conferenceID)] = true
	return nil
}

func (r *fakeConferenceRepo) RemoveRegistrationTx(_ context.Context, _ pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error) {
	k := regKey(profileID, conferenceID)
	if !r.registrations[k] {
		return false, nil
	}
	delete(r.registrations, k)
	return true, nil
}

func (r *fakeConferenceRepo) UpdateSeatsTx(_ context.Context, _ pgx.Tx, conferenceID uuid.UUID, seats int) error {
	c, ok := r.conferences[conferenceID]
	if !ok {
		return conference.ErrConferenceNotFound
	}
	c.SeatsAvailable = seats
	return nil
}

func (r *fakeConferenceRepo) InvalidateCached(_ context.Context, id uuid.UUID) error {
	r.invalidated = append(r.invalidated, id)
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*profilemodel.Profile
}

func (r *fakeProfileRepo) CreateOrGet(_ context.Context, p *profilemodel.Profile) (*profilemodel.Profile, error) {
	if existing, ok := r.profiles[p.ID]; ok {
		return existing, nil
	}
	r.profiles[p.ID] = p
	return p, nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*profilemodel.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, profiledomain.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, _ *profilemodel.Profile) error { return nil }
func (r *fakeProfileRepo) AddToWishlist(_ context.Context, _, _ uuid.UUID) error   { return nil }
func (r *fakeProfileRepo) RemoveFromWishlist(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}
func (r *fakeProfileRepo) ListWishlist(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeCache struct {
	strings map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{strings: make(map[string]string)} }

func (c *fakeCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}
func (c *fakeCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.strings, k)
	}
	return nil
}
func (c *fakeCache) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := c.strings[key]
	return v, ok, nil
}
func (c *fakeCache) SetString(_ context.Context, key, value string) error {
	c.strings[key] = value
	return nil
}
func (c *fakeCache) Ping(_ context.Context) error { return nil }

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func (e *fakeEnqueuer) typesEnqueued() []string {
	out := make([]string, 0, len(e.tasks))
	for _, t := range e.tasks {
		out = append(out, t.Type())
	}
	return out
}

// ========================================
// FIXTURES
// ========================================

func newTestService() (*fakeConferenceRepo, *fakeProfileRepo, *fakeCache, *fakeEnqueuer, Service) {
	repo := newFakeConferenceRepo()
	profiles := &fakeProfileRepo{profiles: make(map[uuid.UUID]*profilemodel.Profile)}
	cache := newFakeCache()
	enqueuer := &fakeEnqueuer{}
	svc := NewConferenceService(repo, profiles, cache, enqueuer)
	return repo, profiles, cache, enqueuer, svc
}

func newCaller() Caller {
	return Caller{ID: uuid.New(), Email: "grace@example.com", DisplayName: "Grace"}
}

func seedConference(repo *fakeConferenceRepo, organizerID uuid.UUID, seats int) *model.Conference {
	c := &model.Conference{
		ID:             uuid.New(),
		OrganizerID:    organizerID,
		Name:           "GopherCon",
		City:           "Berlin",
		Topics:         []string{"Go"},
		MaxAttendees:   seats,
		SeatsAvailable: seats,
	}
	repo.conferences[c.ID] = c
	return c
}

// ========================================
// TESTS
// ========================================

func TestCreateConference(t *testing.T) {
	repo, profiles, _, enqueuer, svc := newTestService()

	organizer := newCaller()
	profiles.profiles[organizer.ID] = &profilemodel.Profile{ID: organizer.ID, DisplayName: "Alex"}

	resp, err := svc.CreateConference(context.Background(), organizer, model.ConferenceForm{Name: "GopherCon"})
	require.NoError(t, err)

	assert.Equal(t, "GopherCon", resp.Name)
	assert.Equal(t, model.DefaultCity, resp.City)
	assert.Equal(t, model.DefaultTopics, resp.Topics)
	assert.Equal(t, 0, resp.SeatsAvailable)
	assert.Equal(t, "Alex", resp.OrganizerDisplayName)

	assert.Len(t, repo.conferences, 1)
	assert.Equal(t, []string{shared.TypeSendConfirmationEmail}, enqueuer.typesEnqueued())
}

func TestCreateConference_ProvisionsProfileOnFirstCall(t *testing.T) {
	_, profiles, _, _, svc := newTestService()

	organizer := Caller{ID: uuid.New(), Email: "fresh@example.com"}
	resp, err := svc.CreateConference(context.Background(), organizer, model.ConferenceForm{Name: "GopherCon"})
	require.NoError(t, err)

	// The organizer row exists before the conference references it
	p, ok := profiles.profiles[organizer.ID]
	require.True(t, ok)
	assert.Equal(t, "fresh", p.DisplayName)
	assert.Equal(t, "fresh@example.com", p.MainEmail)
	assert.Equal(t, "fresh", resp.OrganizerDisplayName)
}

func TestCreateConference_NameRequired(t *testing.T) {
	_, _, _, enqueuer, svc := newTestService()

	_, err := svc.CreateConference(context.Background(), newCaller(), model.ConferenceForm{})
	assert.ErrorIs(t, err, conference.ErrNameRequired)
	assert.Empty(t, enqueuer.tasks)
}

func TestCreateConference_NegativeMaxAttendees(t *testing.T) {
	_, _, _, enqueuer, svc := newTestService()

	neg := -5
	_, err := svc.CreateConference(context.Background(), newCaller(), model.ConferenceForm{
		Name:         "GopherCon",
		MaxAttendees: &neg,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, conference.ErrNameRequired)

	var validationErrs validation.Errors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, err.Error(), "maxAttendees")
	assert.Empty(t, enqueuer.tasks)
}

func TestCreateConference_NoEmailSkipsConfirmation(t *testing.T) {
	_, _, _, enqueuer, svc := newTestService()

	_, err := svc.CreateConference(context.Background(), Caller{ID: uuid.New()}, model.ConferenceForm{Name: "X"})
	require.NoError(t, err)
	assert.Empty(t, enqueuer.tasks)
}

func TestUpdateConference(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	organizer := uuid.New()
	c := seedConference(repo, organizer, 100)

	resp, err := svc.UpdateConference(context.Background(), organizer, c.ID, model.ConferenceForm{City: "Oslo"})
	require.NoError(t, err)

	assert.Equal(t, "Oslo", resp.City)
	assert.Equal(t, "GopherCon", resp.Name)
	assert.Equal(t, 100, resp.SeatsAvailable)
	assert.Equal(t, "Oslo", repo.conferences[c.ID].City)
}

func TestUpdateConference_NotOwner(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	c := seedConference(repo, uuid.New(), 100)

	_, err := svc.UpdateConference(context.Background(), uuid.New(), c.ID, model.ConferenceForm{City: "Oslo"})
	assert.ErrorIs(t, err, conference.ErrNotOwner)
}

func TestUpdateConference_CapacityBelowOpenSeats(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	organizer := uuid.New()
	c := seedConference(repo, organizer, 50)
	c.SeatsAvailable = 20 // some registrations happened

	low := 10
	_, err := svc.UpdateConference(context.Background(), organizer, c.ID, model.ConferenceForm{MaxAttendees: &low})
	assert.ErrorIs(t, err, conference.ErrCapacityBelowSeats)
	assert.Equal(t, 50, repo.conferences[c.ID].MaxAttendees)

	// Shrinking down to the open seat count is fine
	exact := 20
	resp, err := svc.UpdateConference(context.Background(), organizer, c.ID, model.ConferenceForm{MaxAttendees: &exact})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.MaxAttendees)
	assert.Equal(t, 20, resp.SeatsAvailable)
}

func TestRegister(t *testing.T) {
	repo, _, _, enqueuer, svc := newTestService()
	c := seedConference(repo, uuid.New(), 2)
	attendee := newCaller()

	err := svc.Register(context.Background(), attendee, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.conferences[c.ID].SeatsAvailable)
	assert.True(t, repo.registrations[regKey(attendee.ID, c.ID)])
	assert.Equal(t, []uuid.UUID{c.ID}, repo.invalidated)
	assert.Equal(t, []string{shared.TypeRecomputeAnnouncement}, enqueuer.typesEnqueued())
}

func TestRegister_ProvisionsProfileOnFirstCall(t *testing.T) {
	repo, profiles, _, _, svc := newTestService()
	c := seedConference(repo, uuid.New(), 2)

	attendee := Caller{ID: uuid.New(), Email: "fresh@example.com"}
	require.NoError(t, svc.Register(context.Background(), attendee, c.ID))

	// The profile row exists before the registration references it
	p, ok := profiles.profiles[attendee.ID]
	require.True(t, ok)
	assert.Equal(t, "fresh", p.DisplayName)
	assert.True(t, repo.registrations[regKey(attendee.ID, c.ID)])
}

func TestRegister_Twice(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	c := seedConference(repo, uuid.New(), 2)
	attendee := newCaller()

	require.NoError(t, svc.Register(context.Background(), attendee, c.ID))
	err := svc.Register(context.Background(), attendee, c.ID)
	assert.ErrorIs(t, err, conference.ErrAlreadyRegistered)

	// The failed attempt must not burn a seat
	assert.Equal(t, 1, repo.conferences[c.ID].SeatsAvailable)
}

func TestRegister_NoSeats(t *testing.T) {
	repo, _, _, enqueuer, svc := newTestService()
	c := seedConference(repo, uuid.New(), 0)

	err := svc.Register(context.Background(), newCaller(), c.ID)
	assert.ErrorIs(t, err, conference.ErrNoSeatsAvailable)
	assert.Empty(t, enqueuer.tasks)
}

func TestRegister_LastSeat(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	c := seedConference(repo, uuid.New(), 1)

	require.NoError(t, svc.Register(context.Background(), newCaller(), c.ID))
	assert.Equal(t, 0, repo.conferences[c.ID].SeatsAvailable)

	err := svc.Register(context.Background(), newCaller(), c.ID)
	assert.ErrorIs(t, err, conference.ErrNoSeatsAvailable)
}

func TestRegister_ConferenceNotFound(t *testing.T) {
	_, _, _, _, svc := newTestService()

	err := svc.Register(context.Background(), newCaller(), uuid.New())
	assert.ErrorIs(t, err, conference.ErrConferenceNotFound)
}

func TestUnregister(t *testing.T) {
	repo, _, _, enqueuer, svc := newTestService()
	c := seedConference(repo, uuid.New(), 2)
	attendee := newCaller()

	require.NoError(t, svc.Register(context.Background(), attendee, c.ID))
	enqueuer.tasks = nil
	repo.invalidated = nil

	removed, err := svc.Unregister(context.Background(), attendee, c.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, repo.conferences[c.ID].SeatsAvailable)
	assert.Equal(t, []uuid.UUID{c.ID}, repo.invalidated)
	assert.Equal(t, []string{shared.TypeRecomputeAnnouncement}, enqueuer.typesEnqueued())
}

func TestUnregister_NeverRegistered(t *testing.T) {
	repo, _, _, enqueuer, svc := newTestService()
	c := seedConference(repo, uuid.New(), 2)

	removed, err := svc.Unregister(context.Background(), newCaller(), c.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// No seat freed, no recompute triggered
	assert.Equal(t, 2, repo.conferences[c.ID].SeatsAvailable)
	assert.Empty(t, repo.invalidated)
	assert.Empty(t, enqueuer.tasks)
}

func TestGetAnnouncement(t *testing.T) {
	_, _, cache, _, svc := newTestService()

	got, err := svc.GetAnnouncement(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, cache.SetString(context.Background(), AnnouncementCacheKey, "Last chance!"))

	got, err = svc.GetAnnouncement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Last chance!", got)
}

func TestGetConferencesToAttend(t *testing.T) {
	repo, _, _, _, svc := newTestService()
	c1 := seedConference(repo, uuid.New(), 10)
	seedConference(repo, uuid.New(), 10)
	attendee := newCaller()

	require.NoError(t, svc.Register(context.Background(), attendee, c1.ID))

	attending, err := svc.GetConferencesToAttend(context.Background(), attendee.ID)
	require.NoError(t, err)
	require.Len(t, attending, 1)
	assert.Equal(t, "GopherCon", attending[0].Name)
}
