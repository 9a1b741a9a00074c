// Package stats — сторона чтения: дневная статистика и последние пачки
// для HTTP-обработчиков. При наличии кэша агрегаты держатся в Redis
// и переживают короткие всплески запросов без похода в Postgres.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/baysidecampaign/signup-engine/internal/cache"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/models"
)

// Repository читает агрегаты из хранилища.
type Repository interface {
	GetTodayStats(ctx context.Context) (*models.GenerationStats, error)
	GetRecentBatches(ctx context.Context, limit int) ([]*models.BatchInfo, error)
}

// Cacher хранит агрегаты с TTL. Ошибки кэша не фатальны.
type Cacher interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service отдаёт агрегаты, сначала спрашивая кэш.
type Service struct {
	repo  Repository
	cache Cacher
	log   *slog.Logger
	now   func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithClock заменяет источник времени, используется в тестах.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создает Service. cache может быть nil — тогда каждый запрос
// идёт в хранилище напрямую.
func New(repo Repository, cacher Cacher, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		cache: cacher,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TodayStats возвращает статистику генерации за текущий день (UTC).
func (s *Service) TodayStats(ctx context.Context) (*models.GenerationStats, error) {
	key := cache.StatsKey(s.now())

	if s.cache != nil {
		var cached models.GenerationStats
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("stats cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	result, err := s.repo.GetTodayStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, cache.StatsTTL); err != nil {
			s.log.Warn("stats cache write failed", sl.Err(err))
		}
	}
	return result, nil
}

// RecentBatches возвращает последние пачки генерации, не больше limit.
func (s *Service) RecentBatches(ctx context.Context, limit int) ([]*models.BatchInfo, error) {
	key := cache.BatchesKey(limit)

	if s.cache != nil {
		var cached []*models.BatchInfo
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("batches cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	result, err := s.repo.GetRecentBatches(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, cache.BatchesTTL); err != nil {
			s.log.Warn("batches cache write failed", sl.Err(err))
		}
	}
	return result, nil
}
