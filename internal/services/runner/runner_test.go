package runner

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baysidecampaign/signup-engine/internal/generator"
	"github.com/baysidecampaign/signup-engine/internal/intake"
	"github.com/baysidecampaign/signup-engine/internal/models"
	"github.com/baysidecampaign/signup-engine/internal/scheduler"
)

// MockProvider реализует интерфейс generation.ConfigProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetConfig(ctx context.Context) (*models.GenerationConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerationConfig), args.Error(1)
}

func (m *MockProvider) GetPrompt(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockComments реализует интерфейс generation.CommentGenerator
type MockComments struct {
	mock.Mock
}

func (m *MockComments) GenerateComment(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockSubmitter реализует интерфейс Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, sub intake.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// seqSource выдаёт заранее заданную последовательность значений.
type seqSource struct {
	vals []uint64
	i    int
}

func (s *seqSource) Uint64() uint64 {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	return v
}

func asUint64(f float64) uint64 {
	return uint64(f * (1 << 53))
}

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

func dayClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	}
}

// firingScheduler всегда решает ровно n записей на первом тике.
func firingScheduler(n int) *scheduler.Scheduler {
	second := 0.0
	if n == 2 {
		second = 0.9
	}
	src := &seqSource{vals: []uint64{asUint64(0.0), asUint64(second)}}
	return scheduler.New(1.0, 1, nil, rand.New(src))
}

func enabledConfig() *models.GenerationConfig {
	return &models.GenerationConfig{
		Enabled:    true,
		StartTime:  "08:00",
		EndTime:    "20:00",
		MaxSignups: 10,
	}
}

// cancelledContext — немедленный выход из цикла после первого тика.
func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func newRunner(provider *MockProvider, comments *MockComments, submitter *MockSubmitter,
	sched *scheduler.Scheduler) *Runner {
	factory := generator.New(generator.WithRand(rand.New(rand.NewPCG(1, 2))))
	if comments == nil {
		return New(provider, nil, submitter, factory, sched, testLogger, time.Hour,
			WithClock(dayClock()))
	}
	return New(provider, comments, submitter, factory, sched, testLogger, time.Hour,
		WithClock(dayClock()))
}

func TestRun_DisabledConfigExits(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	provider.On("GetConfig", mock.Anything).Return(&models.GenerationConfig{
		Enabled:   false,
		StartTime: "08:00",
		EndTime:   "20:00",
	}, nil)

	r := newRunner(provider, nil, submitter, firingScheduler(1))
	err := r.Run(context.Background())

	require.NoError(t, err)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "GetPrompt", mock.Anything)
}

func TestRun_NoConfigExits(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	provider.On("GetConfig", mock.Anything).Return(nil, nil)

	r := newRunner(provider, nil, submitter, firingScheduler(1))
	err := r.Run(context.Background())

	require.NoError(t, err)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestRun_ConfigErrorPropagates(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	provider.On("GetConfig", mock.Anything).Return(nil, errors.New("notion api: 503"))

	r := newRunner(provider, nil, submitter, firingScheduler(1))
	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion api")
}

func TestRun_ImmediateTickSubmits(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	provider.On("GetConfig", mock.Anything).Return(enabledConfig(), nil)
	provider.On("GetPrompt", mock.Anything).Return("", nil)

	var got intake.Submission
	submitter.On("Submit", mock.Anything, mock.AnythingOfType("intake.Submission")).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(intake.Submission)
		}).Return(nil)

	r := newRunner(provider, nil, submitter, firingScheduler(1))
	err := r.Run(cancelledContext())

	require.NoError(t, err)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
	assert.Equal(t, 1, r.generated)
	assert.Equal(t, 1, r.submitted)
	assert.Zero(t, r.failed)

	assert.NotEmpty(t, got.Name)
	assert.NotEmpty(t, got.Email)
	assert.Equal(t, "website", got.Source)
	assert.NotEmpty(t, got.UserID)
	assert.NotEmpty(t, got.SubmissionID)
}

func TestRun_SubmitFailureCountsAndContinues(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	provider.On("GetConfig", mock.Anything).Return(enabledConfig(), nil)
	provider.On("GetPrompt", mock.Anything).Return("", nil)

	submitter.On("Submit", mock.Anything, mock.Anything).Return(errors.New("502")).Once()
	submitter.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()

	r := newRunner(provider, nil, submitter, firingScheduler(2))
	err := r.Run(cancelledContext())

	require.NoError(t, err)
	submitter.AssertNumberOfCalls(t, "Submit", 2)
	assert.Equal(t, 2, r.generated)
	assert.Equal(t, 1, r.submitted)
	assert.Equal(t, 1, r.failed)
}

func TestRun_OutsideWindowSkipsTick(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	cfg := enabledConfig()
	cfg.StartTime = "10:00" // часы теста — 09:00 UTC
	provider.On("GetConfig", mock.Anything).Return(cfg, nil)
	provider.On("GetPrompt", mock.Anything).Return("", nil)

	r := newRunner(provider, nil, submitter, firingScheduler(1))
	err := r.Run(cancelledContext())

	require.NoError(t, err)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestRun_CommentFailureStillSubmits(t *testing.T) {
	provider := new(MockProvider)
	submitter := new(MockSubmitter)
	comments := new(MockComments)

	cfg := enabledConfig()
	cfg.CommentPercentage = 1.0
	provider.On("GetConfig", mock.Anything).Return(cfg, nil)
	provider.On("GetPrompt", mock.Anything).Return("prompt", nil)
	comments.On("GenerateComment", mock.Anything, "prompt").Return("", errors.New("rate limited"))

	var got intake.Submission
	submitter.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(intake.Submission)
		}).Return(nil)

	r := newRunner(provider, comments, submitter, firingScheduler(1))
	err := r.Run(cancelledContext())

	require.NoError(t, err)
	assert.Equal(t, 1, r.submitted)
	assert.Empty(t, got.Comment)
}
