// Package generation содержит ядро цикла генерации, общее для обеих
// форм оркестратора: HTTP-триггера и длительного процесса. Один вызов
// RunCycle — один тик: чтение конфигурации, проверка гейтов, решение
// планировщика, генерация записей и атомарное сохранение батча.
package generation

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/baysidecampaign/signup-engine/internal/generator"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/metrics"
	"github.com/baysidecampaign/signup-engine/internal/models"
	"github.com/baysidecampaign/signup-engine/internal/scheduler"
)

// ConfigProvider читает настройки генерации и промпт из внешнего
// хранилища конфигурации.
type ConfigProvider interface {
	// GetConfig возвращает (nil, nil), когда документа настроек нет.
	GetConfig(ctx context.Context) (*models.GenerationConfig, error)
	GetPrompt(ctx context.Context) (string, error)
}

// CommentGenerator производит короткий комментарий по промпту.
type CommentGenerator interface {
	GenerateComment(ctx context.Context, prompt string) (string, error)
}

// Repository — персистентность батчей и статистики.
type Repository interface {
	EnsureTable(ctx context.Context) error
	SaveUsers(ctx context.Context, users []*models.GeneratedUser) (string, error)
	GetTodayStats(ctx context.Context) (*models.GenerationStats, error)
}

// Сообщения результата цикла. Вызывающие (например, дашборд мониторинга)
// ветвятся по ним, поэтому текст фиксирован.
const (
	MsgNoConfig      = "No configuration found"
	MsgDisabled      = "Generation is disabled"
	MsgOutsideWindow = "Outside configured time window"
)

// Service реализует один цикл генерации.
type Service struct {
	provider ConfigProvider
	comments CommentGenerator // nil, когда ключ API не задан: комментарии пропускаются
	repo     Repository
	factory  *generator.Factory
	sched    *scheduler.Scheduler
	log      *slog.Logger

	rnd   *rand.Rand
	now   func() time.Time
	sleep func(time.Duration)
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подставляет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSleep подставляет функцию задержки throttled-режима.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Service) { s.sleep = sleep }
}

// WithRand подставляет источник случайности.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) { s.rnd = rnd }
}

// New создает сервис генерации. comments может быть nil —
// тогда записи создаются без комментариев.
func New(provider ConfigProvider, comments CommentGenerator, repo Repository,
	factory *generator.Factory, sched *scheduler.Scheduler, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		comments: comments,
		repo:     repo,
		factory:  factory,
		sched:    sched,
		log:      log,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunCycle выполняет один цикл генерации и всегда возвращает
// структурированный результат: ошибки конфигурации и персистентности
// не покидают границу сервиса в виде panic или error.
func (s *Service) RunCycle(ctx context.Context, throttled bool) *models.CycleResult {
	const op = "generation.RunCycle"
	log := s.log.With(slog.String("op", op))

	metrics.CyclesTotal.Inc()

	cfg, err := s.provider.GetConfig(ctx)
	if err != nil {
		log.Error("failed to fetch generation config", sl.Err(err))
		return &models.CycleResult{Success: false, Error: err.Error()}
	}
	if cfg == nil {
		log.Info("no generation config document found")
		return &models.CycleResult{Success: false, Message: MsgNoConfig}
	}
	if !cfg.Enabled {
		log.Info("generation is disabled by config")
		return &models.CycleResult{Success: false, Message: MsgDisabled}
	}

	prompt, err := s.provider.GetPrompt(ctx)
	if err != nil {
		log.Error("failed to fetch prompt", sl.Err(err))
		return &models.CycleResult{Success: false, Error: err.Error()}
	}

	now := s.now()
	if !scheduler.InWindow(now, cfg.StartTime, cfg.EndTime) {
		log.Info("outside configured time window",
			slog.String("start", cfg.StartTime), slog.String("end", cfg.EndTime))
		return &models.CycleResult{Success: false, Message: MsgOutsideWindow}
	}

	if err := s.repo.EnsureTable(ctx); err != nil {
		log.Error("failed to ensure table", sl.Err(err))
		return &models.CycleResult{Success: false, Error: err.Error()}
	}

	count := s.sched.Decide(now)
	if count > cfg.MaxSignups {
		count = cfg.MaxSignups
	}
	log.Info("scheduler decision", slog.Int("count", count))

	users, withComments := s.generate(ctx, cfg, prompt, count, throttled)

	batchID, err := s.repo.SaveUsers(ctx, users)
	if err != nil {
		log.Error("failed to save batch", sl.Err(err))
		return &models.CycleResult{Success: false, Error: err.Error()}
	}

	stats, err := s.repo.GetTodayStats(ctx)
	if err != nil {
		log.Error("failed to get today stats", sl.Err(err))
		return &models.CycleResult{Success: false, Error: err.Error()}
	}

	log.Info("generation cycle complete",
		slog.Int("generated", len(users)),
		slog.Int("with_comments", withComments),
		slog.String("batch_id", batchID))

	return &models.CycleResult{
		Success:      true,
		Generated:    len(users),
		WithComments: withComments,
		BatchID:      batchID,
		TodayStats:   stats,
	}
}

// generate производит count записей, опционально обогащая их
// комментариями и выдерживая паузу между записями в throttled-режиме.
func (s *Service) generate(ctx context.Context, cfg *models.GenerationConfig,
	prompt string, count int, throttled bool) ([]*models.GeneratedUser, int) {
	users := make([]*models.GeneratedUser, 0, count)
	withComments := 0

	for i := range count {
		user := s.factory.Generate()
		metrics.GeneratedTotal.Inc()

		if s.comments != nil && s.rnd.Float64() < cfg.CommentPercentage {
			comment, err := s.comments.GenerateComment(ctx, prompt)
			if err != nil {
				// Запись продолжает жизнь без комментария.
				s.log.Error("failed to generate comment", sl.Err(err))
			} else {
				user.Comment = comment
				withComments++
				metrics.CommentsTotal.Inc()
			}
		}

		users = append(users, user)

		if throttled && i < count-1 {
			s.sleep(s.Delay(cfg))
		}
	}

	return users, withComments
}

// Delay возвращает случайную паузу между записями: равномерно
// в полосе avg±jitter секунд, не меньше нуля.
func (s *Service) Delay(cfg *models.GenerationConfig) time.Duration {
	minDelay := cfg.AvgDelaySeconds - cfg.JitterSeconds
	if minDelay < 0 {
		minDelay = 0
	}
	maxDelay := cfg.AvgDelaySeconds + cfg.JitterSeconds

	seconds := minDelay
	if maxDelay > minDelay {
		seconds += s.rnd.IntN(maxDelay - minDelay + 1)
	}
	return time.Duration(seconds) * time.Second
}
