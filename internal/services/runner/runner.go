// Package runner реализует длительную форму оркестратора: процесс
// стартует, читает конфигурацию и раз в тик разыгрывает генерацию,
// отправляя готовые записи в публичную форму кампании.
package runner

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/baysidecampaign/signup-engine/internal/generator"
	"github.com/baysidecampaign/signup-engine/internal/intake"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/metrics"
	"github.com/baysidecampaign/signup-engine/internal/models"
	"github.com/baysidecampaign/signup-engine/internal/scheduler"
	"github.com/baysidecampaign/signup-engine/internal/services/generation"
)

// Submitter отправляет одну запись в публичную форму.
type Submitter interface {
	Submit(ctx context.Context, sub intake.Submission) error
}

// Runner крутит цикл генерации до отмены контекста.
type Runner struct {
	provider generation.ConfigProvider
	comments generation.CommentGenerator
	intake   Submitter
	factory  *generator.Factory
	sched    *scheduler.Scheduler
	log      *slog.Logger
	interval time.Duration

	rnd *rand.Rand
	now func() time.Time

	generated int
	submitted int
	failed    int
}

// Option настраивает Runner.
type Option func(*Runner)

// WithClock заменяет источник времени, используется в тестах.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRand заменяет источник случайности, используется в тестах.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Runner) { r.rnd = rnd }
}

// New создает Runner. comments может быть nil — тогда записи идут
// без комментариев.
func New(provider generation.ConfigProvider, comments generation.CommentGenerator,
	submitter Submitter, factory *generator.Factory, sched *scheduler.Scheduler,
	log *slog.Logger, interval time.Duration, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		comments: comments,
		intake:   submitter,
		factory:  factory,
		sched:    sched,
		log:      log,
		interval: interval,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run читает конфигурацию, выполняет немедленный тик и дальше работает
// по таймеру до отмены контекста. При остановке пишет в лог итоговые
// счётчики и время работы.
func (r *Runner) Run(ctx context.Context) error {
	const op = "runner.Run"
	log := r.log.With(slog.String("op", op))

	cfg, err := r.provider.GetConfig(ctx)
	if err != nil {
		log.Error("failed to fetch generation config", sl.Err(err))
		return err
	}
	if cfg == nil {
		log.Info("no generation config document found")
		return nil
	}
	if !cfg.Enabled {
		log.Info("generation is disabled by config")
		return nil
	}

	prompt, err := r.provider.GetPrompt(ctx)
	if err != nil {
		log.Error("failed to fetch prompt", sl.Err(err))
		return err
	}

	started := r.now()
	log.Info("runner started",
		slog.String("window", cfg.StartTime+"-"+cfg.EndTime),
		slog.Duration("interval", r.interval))

	r.tick(ctx, cfg, prompt)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("runner stopped",
				slog.Int("generated", r.generated),
				slog.Int("submitted", r.submitted),
				slog.Int("failed", r.failed),
				slog.Duration("uptime", r.now().Sub(started)))
			return nil
		case <-ticker.C:
			r.tick(ctx, cfg, prompt)
		}
	}
}

// tick — одно решение планировщика и отправка решённого количества записей.
func (r *Runner) tick(ctx context.Context, cfg *models.GenerationConfig, prompt string) {
	now := r.now()
	if !scheduler.InWindow(now, cfg.StartTime, cfg.EndTime) {
		return
	}

	metrics.CyclesTotal.Inc()

	count := r.sched.Decide(now)
	if count > cfg.MaxSignups {
		count = cfg.MaxSignups
	}
	if count == 0 {
		return
	}

	for range count {
		user := r.factory.Generate()
		r.generated++
		metrics.GeneratedTotal.Inc()

		if r.comments != nil && r.rnd.Float64() < cfg.CommentPercentage {
			comment, err := r.comments.GenerateComment(ctx, prompt)
			if err != nil {
				r.log.Error("failed to generate comment", sl.Err(err))
			} else {
				user.Comment = comment
				metrics.CommentsTotal.Inc()
			}
		}

		if err := r.intake.Submit(ctx, submissionFrom(user)); err != nil {
			r.failed++
			metrics.FailedTotal.Inc()
			r.log.Error("failed to submit signup", sl.Err(err),
				slog.String("email", user.Email))
			continue
		}
		r.submitted++
		metrics.SubmittedTotal.Inc()
		r.log.Info("signup submitted",
			slog.String("email", user.Email),
			slog.Bool("with_comment", user.Comment != ""))
	}
}

func submissionFrom(user *models.GeneratedUser) intake.Submission {
	return intake.Submission{
		Name:         user.Name,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Timestamp:    user.Timestamp,
		Source:       "website",
		Comment:      user.Comment,
		Referrer:     user.ReferralCode,
		UserID:       user.UserID,
		SubmissionID: user.SubmissionID,
	}
}
