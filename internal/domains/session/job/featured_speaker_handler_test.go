package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-backend/internal/domains/session/model"
	"conference-backend/internal/domains/session/repository"
	"conference-backend/internal/domains/session/service"
	speakermodel "conference-backend/internal/domains/speaker/model"
	speakerrepo "conference-backend/internal/domains/speaker/repository"
	"conference-backend/internal/shared"
	"conference-backend/internal/shared/keys"
)

type stubSessionRepo struct {
	repository.Repository
	sessions []model.Session
}

func (r *stubSessionRepo) ListByConferenceAndSpeaker(_ context.Context, _, _ uuid.UUID) ([]model.Session, error) {
	return r.sessions, nil
}

type stubSpeakerRepo struct {
	speakerrepo.Repository
	speaker *speakermodel.Speaker
}

func (r *stubSpeakerRepo) GetByID(_ context.Context, _ uuid.UUID) (*speakermodel.Speaker, error) {
	return r.speaker, nil
}

type stubCache struct {
	strings map[string]string
	deleted []string
}

func newStubCache() *stubCache { return &stubCache{strings: make(map[string]string)} }

func (c *stubCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (c *stubCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *stubCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.deleted = append(c.deleted, k)
		delete(c.strings, k)
	}
	return nil
}
func (c *stubCache) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := c.strings[key]
	return v, ok, nil
}
func (c *stubCache) SetString(_ context.Context, key, value string) error {
	c.strings[key] = value
	return nil
}
func (c *stubCache) Ping(_ context.Context) error { return nil }

func featuredTask(t *testing.T, conferenceID, speakerID uuid.UUID) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(shared.RecomputeFeaturedSpeakerPayload{
		ConferenceKey: keys.Encode(keys.KindConference, conferenceID),
		SpeakerKey:    keys.Encode(keys.KindSpeaker, speakerID),
	})
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeRecomputeFeaturedSpeaker, payload)
}

func TestRecomputeFeaturedSpeaker_MultipleSessions(t *testing.T) {
	speakerID := uuid.New()
	repo := &stubSessionRepo{sessions: []model.Session{
		{SessionName: "Intro to Go"},
		{SessionName: "Advanced Go"},
	}}
	speakers := &stubSpeakerRepo{speaker: &speakermodel.Speaker{ID: speakerID, DisplayName: "Rob"}}
	cache := newStubCache()
	handler := NewRecomputeFeaturedSpeakerHandler(repo, speakers, cache)

	err := handler.ProcessTask(context.Background(), featuredTask(t, uuid.New(), speakerID))
	require.NoError(t, err)

	got, found, err := cache.GetString(context.Background(), service.FeaturedSpeakerCacheKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Rob is featured speaker with session: Intro to Go, Advanced Go", got)
}

func TestRecomputeFeaturedSpeaker_SingleSession(t *testing.T) {
	repo := &stubSessionRepo{sessions: []model.Session{{SessionName: "Intro to Go"}}}
	speakers := &stubSpeakerRepo{}
	cache := newStubCache()
	cache.strings[service.FeaturedSpeakerCacheKey] = "stale"
	handler := NewRecomputeFeaturedSpeakerHandler(repo, speakers, cache)

	err := handler.ProcessTask(context.Background(), featuredTask(t, uuid.New(), uuid.New()))
	require.NoError(t, err)

	assert.Contains(t, cache.deleted, service.FeaturedSpeakerCacheKey)
}

func TestRecomputeFeaturedSpeaker_BadPayload(t *testing.T) {
	handler := NewRecomputeFeaturedSpeakerHandler(&stubSessionRepo{}, &stubSpeakerRepo{}, newStubCache())

	task := asynq.NewTask(shared.TypeRecomputeFeaturedSpeaker, []byte(`{"conferenceKey":"garbage","speakerKey":"garbage"}`))
	err := handler.ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, keys.ErrInvalidKey)
}
