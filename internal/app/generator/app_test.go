package generatorapp

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

func TestRun_ListenErrorStillClosesResources(t *testing.T) {
	app := &App{
		server: &http.Server{Addr: "127.0.0.1:-1"},
		logger: testLogger,
	}

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

func TestCloseResources_NilConnections(t *testing.T) {
	app := &App{logger: testLogger}

	assert.NotPanics(t, func() { app.closeResources() })
}
