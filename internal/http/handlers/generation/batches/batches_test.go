package batches

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/baysidecampaign/signup-engine/internal/models"
)

// MockService реализует интерфейс batches.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RecentBatches(ctx context.Context, limit int) ([]*models.BatchInfo, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BatchInfo), args.Error(1)
}

func TestBatchesHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ts := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "лимит по умолчанию",
			query: "",
			setupMock: func(m *MockService) {
				m.On("RecentBatches", mock.Anything, 10).Return([]*models.BatchInfo{
					{BatchID: "b1", Timestamp: ts, UserCount: 2, CommentCount: 1},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","data":[{"batch_id":"b1",
				"timestamp":"2025-06-01T09:00:00Z","user_count":2,"comment_count":1}]}`,
		},
		{
			name:  "явный лимит",
			query: "?limit=5",
			setupMock: func(m *MockService) {
				m.On("RecentBatches", mock.Anything, 5).Return([]*models.BatchInfo{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":[]}`,
		},
		{
			name:           "лимит не число",
			query:          "?limit=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"limit must be an integer between 1 and 100"}`,
		},
		{
			name:           "лимит за верхней границей",
			query:          "?limit=500",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"limit must be an integer between 1 and 100"}`,
		},
		{
			name:           "нулевой лимит",
			query:          "?limit=0",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"limit must be an integer between 1 and 100"}`,
		},
		{
			name:  "ошибка сервиса",
			query: "",
			setupMock: func(m *MockService) {
				m.On("RecentBatches", mock.Anything, 10).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read batches"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/batches"+tt.query, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
