// Package generatorapp собирает serverless-форму движка: HTTP-сервер
// с триггером цикла генерации, статистикой и списком пачек.
package generatorapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/streadway/amqp"

	"github.com/baysidecampaign/signup-engine/internal/cache"
	"github.com/baysidecampaign/signup-engine/internal/config"
	"github.com/baysidecampaign/signup-engine/internal/generator"
	"github.com/baysidecampaign/signup-engine/internal/lib/rabbitmq"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/migrations"
	"github.com/baysidecampaign/signup-engine/internal/models"
	"github.com/baysidecampaign/signup-engine/internal/notion"
	"github.com/baysidecampaign/signup-engine/internal/openai"
	"github.com/baysidecampaign/signup-engine/internal/scheduler"
	"github.com/baysidecampaign/signup-engine/internal/services/generation"
	statsservice "github.com/baysidecampaign/signup-engine/internal/services/stats"
	"github.com/baysidecampaign/signup-engine/internal/storage/repository"
)

// TriggerService — бизнес-логика, которую дергает ручка запуска цикла.
type TriggerService interface {
	RunCycle(ctx context.Context, throttled bool) *models.CycleResult
}

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if missing := cfg.MissingSettings(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = runMigrations(cfg); err != nil {
		return nil, err
	}

	var cacher statsservice.Cacher
	if cfg.RedisConnection.Addr != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		cacher = cacheRedis
	}

	var rabbitConn *amqp.Connection
	var events *amqp.Channel
	if cfg.RabbitURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitURL, 3, time.Second)
		if err != nil {
			return nil, err
		}
		events, err = rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetGenerationQueues())
		if err != nil {
			return nil, err
		}
	}

	notionClient := notion.New(cfg.Notion.Token, cfg.Notion.ConfigDatabaseID, cfg.Notion.PromptPageID)

	var comments generation.CommentGenerator
	if cfg.APIKey != "" {
		comments = openai.New(cfg.APIKey)
	} else {
		logger.Info("no OpenAI key configured, comments disabled")
	}

	factory := generator.New()
	sched := scheduler.New(cfg.BaseProbability, cfg.PeakMultiplier, cfg.PeakHours, nil)

	generationService := generation.New(notionClient, comments, db, factory, sched, logger)
	statsService := statsservice.New(db, cacher, logger)

	var triggerService TriggerService = generationService
	if events != nil {
		triggerService = &publishingService{inner: generationService, events: events, logger: logger}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, triggerService, statsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// runMigrations применяет миграции через database/sql поверх pgx.
func runMigrations(cfg *config.Config) error {
	sqlDB, err := sql.Open("pgx", cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return migrations.Run(sqlDB, cfg.MigrationsPath)
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.closeResources()
	return err
}

// closeResources закрывает соединения приложения независимо от того,
// чем завершился сервер.
func (a *App) closeResources() {
	if a.rabbitConn != nil {
		if err := a.rabbitConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// publishingService прокидывает итог каждого цикла в очередь событий.
// Сбой публикации не влияет на ответ клиенту.
type publishingService struct {
	inner  *generation.Service
	events *amqp.Channel
	logger *slog.Logger
}

func (p *publishingService) RunCycle(ctx context.Context, throttled bool) *models.CycleResult {
	result := p.inner.RunCycle(ctx, throttled)

	event := rabbitmq.CycleEvent{
		Shape:        "trigger",
		Success:      result.Success,
		Generated:    result.Generated,
		WithComments: result.WithComments,
		BatchID:      result.BatchID,
		Message:      result.Message,
		At:           time.Now().UTC(),
	}
	if err := rabbitmq.PublishCycleEvent(p.events, event); err != nil {
		p.logger.Error("failed to publish cycle event", sl.Err(err))
	}

	return result
}
