// Package trigger реализует HTTP-обработчик запуска одного цикла генерации.
//
// Handler дергает бизнес-логику цикла и возвращает его структурированный
// итог в JSON-формате. Отключённая генерация и закрытое временное окно —
// не ошибки сервера: ответ приходит со статусом 200 и success=false.
package trigger

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/baysidecampaign/signup-engine/internal/models"
)

// Handler управляет HTTP-запросами на запуск цикла генерации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одного цикла генерации.
type Service interface {
	RunCycle(ctx context.Context, throttled bool) *models.CycleResult
}

// New создаёт новый Handler с переданным логгером и сервисом генерации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить один цикл генерации
// @Description Выполняет один цикл: читает конфигурацию, разыгрывает количество записей и сохраняет пачку. Параметр throttle=true включает паузы между записями.
// @Tags Generation
// @Produce  json
// @Param throttle query bool false "Выдерживать паузы между записями"
// @Success 200 {object} models.CycleResult "Итог цикла"
// @Failure 500 {object} models.CycleResult "Цикл завершился ошибкой"
// @Router /api/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.trigger"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	throttled := r.URL.Query().Get("throttle") == "true"
	log.Info("generation cycle triggered", slog.Bool("throttled", throttled))

	result := h.service.RunCycle(r.Context(), throttled)

	if result.Error != "" {
		log.Error("generation cycle failed", slog.String("error", result.Error))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, result)
		return
	}

	log.Info("generation cycle finished",
		slog.Bool("success", result.Success),
		slog.Int("generated", result.Generated))
	render.JSON(w, r, result)
}
