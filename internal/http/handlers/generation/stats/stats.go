// Package stats реализует HTTP-обработчик дневной статистики генерации.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/baysidecampaign/signup-engine/internal/http/response"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/models"
)

// Handler управляет HTTP-запросами на чтение статистики за текущий день.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс стороны чтения статистики.
type Service interface {
	TodayStats(ctx context.Context) (*models.GenerationStats, error)
}

// New создаёт новый Handler с переданным логгером и сервисом статистики.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика генерации за сегодня
// @Description Возвращает количество сгенерированных записей и долю с комментариями за текущий день (UTC).
// @Tags Generation
// @Produce  json
// @Success 200 {object} response.Response "Статистика за день"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения статистики"
// @Router /api/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.TodayStats(r.Context())
	if err != nil {
		log.Error("failed to get today stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read stats"))
		return
	}

	log.Info("success to get today stats", slog.Int("generated", stats.TotalGenerated))
	render.JSON(w, r, response.StatusOKWithData(stats))
}
