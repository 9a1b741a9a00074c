// Package batches реализует HTTP-обработчик списка последних пачек генерации.
package batches

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/baysidecampaign/signup-engine/internal/http/response"
	"github.com/baysidecampaign/signup-engine/internal/lib/sl"
	"github.com/baysidecampaign/signup-engine/internal/models"
)

// Границы параметра limit.
const (
	defaultLimit = 10
	maxLimit     = 100
)

// Handler управляет HTTP-запросами на чтение последних пачек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс стороны чтения пачек.
type Service interface {
	RecentBatches(ctx context.Context, limit int) ([]*models.BatchInfo, error)
}

// New создаёт новый Handler с переданным логгером и сервисом статистики.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Последние пачки генерации
// @Description Возвращает последние пачки с количеством записей и комментариев в каждой.
// @Tags Generation
// @Produce  json
// @Param limit query int false "Максимум пачек в ответе (1-100, по умолчанию 10)"
// @Success 200 {object} response.Response "Список пачек"
// @Failure 400 {object} response.ErrorResponse "Некорректный limit"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения пачек"
// @Router /api/batches [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generation.batches"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLimit {
			log.Error("invalid limit parameter", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("limit must be an integer between 1 and 100"))
			return
		}
		limit = parsed
	}

	batches, err := h.service.RecentBatches(r.Context(), limit)
	if err != nil {
		log.Error("failed to get recent batches", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read batches"))
		return
	}

	log.Info("success to get recent batches", slog.Int("count", len(batches)))
	render.JSON(w, r, response.StatusOKWithData(batches))
}
