package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

const counselorsCacheKey = "directory:counselors"

type counselorDirectory interface {
	ListCounselors(ctx context.Context) ([]models.Participant, error)
}

// DirectoryService serves the counselor directory, cached when a cache is configured.
type DirectoryService struct {
	repo    counselorDirectory
	cache   *CacheService
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewDirectoryService builds the service. A nil cache disables caching.
func NewDirectoryService(repo counselorDirectory, cache *CacheService, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

// Counselors lists counselors. The boolean reports whether the result came from cache.
func (s *DirectoryService) Counselors(ctx context.Context, auth models.AuthContext) ([]models.Participant, bool, error) {
	var cached []models.Participant
	hit, err := s.cache.Get(ctx, counselorsCacheKey, &cached)
	if err == nil && hit {
		return cached, true, nil
	}

	ctx = models.ContextWithAuth(ctx, auth)
	start := time.Now()
	counselors, err := s.repo.ListCounselors(ctx)
	s.metrics.ObserveStoreCall("list_counselors", time.Since(start), err)
	if err != nil {
		return nil, false, storeError(err, "failed to load counselors")
	}
	if counselors == nil {
		counselors = []models.Participant{}
	}

	if err := s.cache.Set(ctx, counselorsCacheKey, counselors, s.ttl); err != nil {
		s.logger.Debug("counselor directory not cached", zap.Error(err))
	}
	return counselors, false, nil
}

// Invalidate drops the cached directory.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, counselorsCacheKey)
}
