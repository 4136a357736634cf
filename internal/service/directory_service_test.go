package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

type memoryCache struct {
	items  map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if key == pattern || strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

type counselorRepoStub struct {
	counselors []models.Participant
	err        error
	calls      int
}

func (c *counselorRepoStub) ListCounselors(ctx context.Context) ([]models.Participant, error) {
	c.calls++
	return c.counselors, c.err
}

func TestDirectoryServiceCachesCounselors(t *testing.T) {
	repo := &counselorRepoStub{counselors: []models.Participant{{ID: "c-1", FullName: "Laura", Role: models.RoleCounselor}}}
	store := newMemoryCache()
	cache := NewCacheService(store, NewMetricsService(), CacheConfig{Enabled: true, Prefix: "tutoring:"}, zap.NewNop())
	svc := NewDirectoryService(repo, cache, time.Minute, nil, zap.NewNop())
	auth := models.AuthContext{UserID: "student-1", Role: models.RoleStudent}

	first, hit, err := svc.Counselors(context.Background(), auth)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, first, 1)
	assert.Contains(t, store.items, "tutoring:directory:counselors")

	second, hit, err := svc.Counselors(context.Background(), auth)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	require.NoError(t, svc.Invalidate(context.Background()))
	_, hit, err = svc.Counselors(context.Background(), auth)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestDirectoryServiceWithoutCache(t *testing.T) {
	repo := &counselorRepoStub{}
	svc := NewDirectoryService(repo, nil, 0, nil, nil)

	counselors, hit, err := svc.Counselors(context.Background(), models.AuthContext{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, counselors)
	assert.Empty(t, counselors)
}

func TestDirectoryServiceFallsBackWhenCacheFails(t *testing.T) {
	repo := &counselorRepoStub{counselors: []models.Participant{{ID: "c-1"}}}
	store := newMemoryCache()
	store.getErr = errors.New("connection refused")
	cache := NewCacheService(store, nil, CacheConfig{Enabled: true}, nil)
	svc := NewDirectoryService(repo, cache, time.Minute, nil, nil)

	counselors, hit, err := svc.Counselors(context.Background(), models.AuthContext{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, counselors, 1)
}

func TestDirectoryServiceStoreError(t *testing.T) {
	repo := &counselorRepoStub{err: appErrors.Clone(appErrors.ErrServer, "")}
	svc := NewDirectoryService(repo, nil, 0, nil, nil)

	_, _, err := svc.Counselors(context.Background(), models.AuthContext{})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrServer.Code))
}
