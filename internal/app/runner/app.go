// Package runnerapp собирает длительную форму движка: процесс, который
// по таймеру разыгрывает генерацию и отправляет записи в публичную форму.
package runnerapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baysidecampaign/signup-engine/internal/config"
	"github.com/baysidecampaign/signup-engine/internal/generator"
	"github.com/baysidecampaign/signup-engine/internal/intake"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/notion"
	"github.com/baysidecampaign/signup-engine/internal/openai"
	"github.com/baysidecampaign/signup-engine/internal/scheduler"
	"github.com/baysidecampaign/signup-engine/internal/services/generation"
	runnerservice "github.com/baysidecampaign/signup-engine/internal/services/runner"
)

// App представляет приложение длительного процесса генерации.
type App struct {
	runner        *runnerservice.Runner
	metricsServer *http.Server
	logger        *slog.Logger
}

// New создает новый экземпляр приложения.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if missing := cfg.MissingRunnerSettings(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	notionClient := notion.New(cfg.Notion.Token, cfg.Notion.ConfigDatabaseID, cfg.Notion.PromptPageID)

	var comments generation.CommentGenerator
	if cfg.APIKey != "" {
		comments = openai.New(cfg.APIKey)
	} else {
		logger.Info("no OpenAI key configured, comments disabled")
	}

	intakeClient := intake.New(cfg.IntakeURL)
	factory := generator.New()
	sched := scheduler.New(cfg.BaseProbability, cfg.PeakMultiplier, cfg.PeakHours, nil)

	r := runnerservice.New(notionClient, comments, intakeClient, factory, sched,
		logger, cfg.TickInterval)

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddress,
		Handler: metricsRouter(),
	}

	return &App{
		runner:        r,
		metricsServer: metricsServer,
		logger:        logger,
	}, nil
}

// metricsRouter отдает счётчики Prometheus процесса.
func metricsRouter() http.Handler {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	return router
}

// Run крутит цикл генерации до отмены контекста. Параллельно слушает
// HTTP-эндпоинт метрик и гасит его после остановки цикла.
func (a *App) Run(ctx context.Context) error {
	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", sl.Err(err))
		}
	}()

	err := a.runner.Run(ctx)

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := a.metricsServer.Shutdown(timeoutCtx); serr != nil {
		a.logger.Error("failed to shut down metrics server", sl.Err(serr))
	}

	return err
}
