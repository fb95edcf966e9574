package job

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/repository"
	"conference-backend/internal/domains/conference/service"
)

type stubRepo struct {
	repository.Repository
	conferences []model.Conference
	gotMaxSeats int
}

func (r *stubRepo) ListNearlySoldOut(_ context.Context, maxSeats int) ([]model.Conference, error) {
	r.gotMaxSeats = maxSeats
	return r.conferences, nil
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

func TestRecomputeAnnouncement(t *testing.T) {
	repo := &stubRepo{conferences: []model.Conference{
		{Name: "GopherCon", SeatsAvailable: 3},
		{Name: "RustConf", SeatsAvailable: 1},
	}}
	cache := newStubCache()
	handler := NewRecomputeAnnouncementHandler(repo, cache)

	task := asynq.NewTask("conference:recompute_announcement", []byte("{}"))
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.Equal(t, 5, repo.gotMaxSeats)
	got, found, err := cache.GetString(context.Background(), service.AnnouncementCacheKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Last chance to attend! The following conferences are nearly sold out: GopherCon, RustConf", got)
}

func TestRecomputeAnnouncement_NoneNearlySoldOut(t *testing.T) {
	repo := &stubRepo{}
	cache := newStubCache()
	cache.strings[service.AnnouncementCacheKey] = "stale"
	handler := NewRecomputeAnnouncementHandler(repo, cache)

	task := asynq.NewTask("conference:recompute_announcement", []byte("{}"))
	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.Contains(t, cache.deleted, service.AnnouncementCacheKey)
	_, found, err := cache.GetString(context.Background(), service.AnnouncementCacheKey)
	require.NoError(t, err)
	assert.False(t, found)
}
